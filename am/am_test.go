package am

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	// Create isolated viper instance without loading user/project config
	v := viper.New()
	SetDefaults(v)

	cfg, err := LoadWithViper(v)
	if err != nil {
		t.Fatalf("LoadWithViper() failed: %v", err)
	}

	if cfg.World.File != DefaultWorldFile {
		t.Errorf("expected default world file %q, got %q", DefaultWorldFile, cfg.World.File)
	}
	if cfg.World.ChangeSource != DefaultChangeSource {
		t.Errorf("expected default change source %q, got %q", DefaultChangeSource, cfg.World.ChangeSource)
	}
	if cfg.Output.Format != FormatText {
		t.Errorf("expected default output format %q, got %q", FormatText, cfg.Output.Format)
	}
	if cfg.Log.JSON {
		t.Error("expected console logging by default")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name:   "minimal",
			config: Config{World: WorldConfig{File: "w.clwm"}},
		},
		{
			name:    "empty world file",
			config:  Config{},
			wantErr: true,
		},
		{
			name:   "yaml output",
			config: Config{World: WorldConfig{File: "w.clwm"}, Output: OutputConfig{Format: FormatYAML}},
		},
		{
			name:    "unknown output",
			config:  Config{World: WorldConfig{File: "w.clwm"}, Output: OutputConfig{Format: "xml"}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "am.toml")
	content := `
[world]
file = "people.clwm"

[output]
format = "json"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "people.clwm", cfg.World.File)
	assert.Equal(t, FormatJSON, cfg.Output.Format)
	assert.Equal(t, DefaultChangeSource, cfg.World.ChangeSource, "unset keys keep defaults")

	bad := filepath.Join(t.TempDir(), "am.toml")
	require.NoError(t, os.WriteFile(bad, []byte("[output]\nformat = \"xml\"\n"), 0644))
	_, err = LoadFromFile(bad)
	assert.Error(t, err)
}

func TestMergeConfigFiles(t *testing.T) {
	dir := t.TempDir()
	user := filepath.Join(dir, "user.toml")
	project := filepath.Join(dir, "project.toml")
	require.NoError(t, os.WriteFile(user, []byte("[world]\nfile = \"user.clwm\"\nchange_source = \"me\"\n"), 0644))
	require.NoError(t, os.WriteFile(project, []byte("[world]\nfile = \"project.clwm\"\n"), 0644))

	v := viper.New()
	SetDefaults(v)
	merged := mergeConfigFiles(v, []string{user, filepath.Join(dir, "missing.toml"), project})
	assert.Equal(t, []string{user, project}, merged)

	cfg, err := LoadWithViper(v)
	require.NoError(t, err)
	assert.Equal(t, "project.clwm", cfg.World.File, "later files win")
	assert.Equal(t, "me", cfg.World.ChangeSource, "earlier values survive when not overridden")
}

func TestFindProjectConfig(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0755))
	assert.Empty(t, findProjectConfig(nested))

	require.NoError(t, os.WriteFile(filepath.Join(root, "am.toml"), nil, 0644))
	assert.Equal(t, filepath.Join(root, "am.toml"), findProjectConfig(nested))
}

func TestEditorCommand(t *testing.T) {
	t.Setenv("VISUAL", "")
	t.Setenv("EDITOR", "")

	cfg := &Config{}
	assert.Equal(t, DefaultEditor, cfg.EditorCommand())

	t.Setenv("EDITOR", "nano")
	assert.Equal(t, "nano", cfg.EditorCommand())

	t.Setenv("VISUAL", "code --wait")
	assert.Equal(t, "code --wait", cfg.EditorCommand())

	cfg.Editor.Command = "hx"
	assert.Equal(t, "hx", cfg.EditorCommand())
}

func TestEnvOverride(t *testing.T) {
	Reset()
	t.Cleanup(Reset)
	t.Setenv("CLWM_WORLD_FILE", "env.clwm")

	assert.Equal(t, "env.clwm", GetString("world.file"))
}

func TestSourcesFollowWorkingDirectory(t *testing.T) {
	Reset()
	t.Cleanup(Reset)
	t.Setenv("HOME", t.TempDir())

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ProjectFile), []byte("[output]\nformat = \"yaml\"\n"), 0644))
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, cfg.Output.Format)
	require.Len(t, Sources(), 1)
	assert.Equal(t, ProjectFile, filepath.Base(Sources()[0]))
}
