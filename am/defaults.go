package am

import (
	"os"

	"github.com/spf13/viper"
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	// World defaults
	v.SetDefault("world.file", DefaultWorldFile)
	v.SetDefault("world.change_source", DefaultChangeSource)

	// Logging defaults
	v.SetDefault("log.json", false)

	// Editor defaults: empty means resolve from the environment at use time
	v.SetDefault("editor.command", "")

	// Output defaults
	v.SetDefault("output.format", FormatText)
}

// EditorCommand returns the configured editor, falling back to $VISUAL, $EDITOR
// and finally vi.
func (c *Config) EditorCommand() string {
	if c.Editor.Command != "" {
		return c.Editor.Command
	}
	for _, env := range []string{"VISUAL", "EDITOR"} {
		if cmd := os.Getenv(env); cmd != "" {
			return cmd
		}
	}
	return DefaultEditor
}
