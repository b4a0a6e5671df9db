package editor

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeScript creates an executable shell script acting as the editor.
func writeScript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script editors need a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "fake-editor.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return path
}

func quiet(e *Editor) *Editor {
	return e.WithIO(&bytes.Buffer{}, &bytes.Buffer{}, &bytes.Buffer{})
}

func TestEditReturnsSavedContent(t *testing.T) {
	script := writeScript(t, `printf 'data = { Integer = 30 }\n' >> "$1"`)

	content, err := quiet(New(script)).Edit(context.Background(), "# age\n", ".toml")
	require.NoError(t, err)
	assert.Equal(t, "# age\ndata = { Integer = 30 }\n", content)
}

func TestEditSplitsCommand(t *testing.T) {
	script := writeScript(t, `printf '%s\n' "$1" > "$2"`)

	content, err := quiet(New(script+" 'hello world'")).Edit(context.Background(), "", ".toml")
	require.NoError(t, err)
	assert.Equal(t, "hello world\n", content)
}

func TestEditErrors(t *testing.T) {
	t.Run("empty result", func(t *testing.T) {
		script := writeScript(t, `: > "$1"`)
		_, err := quiet(New(script)).Edit(context.Background(), "", ".toml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "empty")
	})

	t.Run("editor fails", func(t *testing.T) {
		script := writeScript(t, "exit 3")
		_, err := quiet(New(script)).Edit(context.Background(), "x", ".toml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed")
	})

	t.Run("unbalanced quotes", func(t *testing.T) {
		_, err := New(`vi "oops`).Edit(context.Background(), "x", ".toml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid editor command")
	})

	t.Run("no command", func(t *testing.T) {
		_, err := New("  ").Edit(context.Background(), "x", ".toml")
		require.Error(t, err)
	})
}

func TestSourcePrefersFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "def.toml")
	require.NoError(t, os.WriteFile(path, []byte(`definition = "Integer"`), 0o644))

	content, err := New("false").Source(context.Background(), path, "")
	require.NoError(t, err)
	assert.Equal(t, `definition = "Integer"`, content)

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
}
