// Package am ("I am") holds clwm's own configuration: which world file to use,
// how to log, which editor to open and how to render output.
package am

// Config represents the clwm configuration
type Config struct {
	World  WorldConfig  `mapstructure:"world"`
	Log    LogConfig    `mapstructure:"log"`
	Editor EditorConfig `mapstructure:"editor"`
	Output OutputConfig `mapstructure:"output"`
}

// WorldConfig selects the world descriptor file and labels the changes made
type WorldConfig struct {
	File         string `mapstructure:"file"`          // World descriptor path (default: world.clwm)
	ChangeSource string `mapstructure:"change_source"` // Recorded on every change set (default: clwm-cli)
}

// LogConfig configures diagnostic logging (always written to stderr)
type LogConfig struct {
	JSON bool `mapstructure:"json"`
}

// EditorConfig configures the editor used for definitions and data
type EditorConfig struct {
	Command string `mapstructure:"command"` // Empty falls back to $VISUAL, $EDITOR, vi
}

// OutputConfig configures how records are printed
type OutputConfig struct {
	Format string `mapstructure:"format"` // text, toml, yaml or json
}

// Output formats
const (
	FormatText = "text"
	FormatTOML = "toml"
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// OutputFormats lists the accepted output.format values.
var OutputFormats = []string{FormatText, FormatTOML, FormatYAML, FormatJSON}

// Defaults
const (
	DefaultWorldFile    = "world.clwm"
	DefaultChangeSource = "clwm-cli"
	DefaultEditor       = "vi"
)
