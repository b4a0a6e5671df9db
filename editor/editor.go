// Package editor collects multi-line documents (data type definitions and
// attribute data) either from a file or by opening the user's editor.
package editor

import (
	"context"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/teranos/clwm/errors"
)

// Editor runs an external editor command on a temporary file.
type Editor struct {
	command string
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
}

// New creates an editor for command, e.g. "code --wait". The command is split
// the way a shell would split it.
func New(command string) *Editor {
	return &Editor{command: command, stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr}
}

// WithIO replaces the terminal streams handed to the editor process.
func (e *Editor) WithIO(stdin io.Reader, stdout, stderr io.Writer) *Editor {
	e.stdin, e.stdout, e.stderr = stdin, stdout, stderr
	return e
}

// Edit writes initial to a temporary file ending in suffix (".toml"), opens the
// editor on it and returns the saved content. An empty result is an error.
func (e *Editor) Edit(ctx context.Context, initial, suffix string) (string, error) {
	args, err := shellquote.Split(e.command)
	if err != nil {
		return "", errors.Wrapf(err, "invalid editor command %q", e.command)
	}
	if len(args) == 0 {
		return "", errors.New("no editor command configured")
	}

	f, err := os.CreateTemp("", "clwm-*"+suffix)
	if err != nil {
		return "", errors.Wrap(err, "failed to create temporary file")
	}
	path := f.Name()
	defer os.Remove(path)

	if _, err := f.WriteString(initial); err != nil {
		f.Close()
		return "", errors.Wrapf(err, "failed to write %s", path)
	}
	if err := f.Close(); err != nil {
		return "", errors.Wrapf(err, "failed to close %s", path)
	}

	cmd := exec.CommandContext(ctx, args[0], append(args[1:], path)...)
	cmd.Stdin, cmd.Stdout, cmd.Stderr = e.stdin, e.stdout, e.stderr
	if err := cmd.Run(); err != nil {
		return "", errors.Wrapf(err, "editor %q failed", args[0])
	}

	content, err := ReadFile(path)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(content) == "" {
		return "", errors.New("aborted: the edited document is empty")
	}
	return content, nil
}

// ReadFile returns the content of a document file.
func ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, "failed to read %s", path)
	}
	return string(data), nil
}

// Source returns the content of path when set, otherwise the result of editing
// template.
func (e *Editor) Source(ctx context.Context, path, template string) (string, error) {
	if path != "" {
		return ReadFile(path)
	}
	return e.Edit(ctx, template, ".toml")
}
