// Package worldfile reads and writes the world descriptor: the small TOML file
// naming the storage backend and where its data lives.
package worldfile

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"

	"github.com/teranos/clwm/errors"
	"github.com/teranos/clwm/storage"
	"github.com/teranos/clwm/world"
)

// Backend names a storage implementation.
type Backend string

const (
	BackendSQLite Backend = "sqlite"
)

// Backends lists every supported backend.
var Backends = []Backend{BackendSQLite}

// ParseBackend matches name case-insensitively against Backends.
func ParseBackend(name string) (Backend, error) {
	for _, b := range Backends {
		if strings.EqualFold(name, string(b)) {
			return b, nil
		}
	}
	return "", errors.WithHintf(
		errors.Newf("unknown data interface %q", name),
		"supported data interfaces: %s", backendList())
}

func backendList() string {
	names := make([]string, len(Backends))
	for i, b := range Backends {
		names[i] = string(b)
	}
	return strings.Join(names, ", ")
}

const (
	// FormatVersion is written into new descriptors.
	FormatVersion = "1.0.0"
	// SupportedFormats is the semver constraint a descriptor's format must meet.
	SupportedFormats = "^1.0"
)

// ErrExists is returned when creating a descriptor over an existing file.
var ErrExists = errors.New("world file already exists")

// File is the world descriptor. A missing format is read as FormatVersion.
type File struct {
	Format        string  `toml:"format"`
	DataInterface Backend `toml:"data_interface"`
	URL           string  `toml:"url"`

	path string
}

// Path is the location the descriptor was loaded from or written to.
func (f *File) Path() string {
	return f.path
}

// Create writes a new descriptor at path. It never overwrites an existing file.
func Create(path string, backend Backend, url string) (*File, error) {
	f := &File{Format: FormatVersion, DataInterface: backend, URL: url, path: path}
	if err := f.validate(); err != nil {
		return nil, err
	}

	data, err := toml.Marshal(f)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode world file")
	}

	out, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return nil, errors.Mark(errors.Newf("%s already exists", path), ErrExists)
		}
		return nil, errors.Wrapf(err, "failed to create %s", path)
	}
	if _, err := out.Write(data); err != nil {
		out.Close()
		return nil, errors.Wrapf(err, "failed to write %s", path)
	}
	if err := out.Close(); err != nil {
		return nil, errors.Wrapf(err, "failed to close %s", path)
	}
	return f, nil
}

// Load reads and validates the descriptor at path. Unknown keys are rejected.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WithHint(
				errors.Newf("world file %s not found", path),
				"create one with: clwm create <file> sqlite <database path>")
		}
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}

	f := &File{path: path}
	dec := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
	if err := dec.Decode(f); err != nil {
		return nil, errors.Wrapf(err, "failed to parse world file %s", path)
	}
	if f.Format == "" {
		f.Format = FormatVersion
	}
	backend, err := ParseBackend(string(f.DataInterface))
	if err != nil {
		return nil, err
	}
	f.DataInterface = backend

	if err := f.validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid world file %s", path)
	}
	return f, nil
}

func (f *File) validate() error {
	version, err := semver.NewVersion(f.Format)
	if err != nil {
		return errors.Wrapf(err, "invalid format version %q", f.Format)
	}
	constraint, err := semver.NewConstraint(SupportedFormats)
	if err != nil {
		return errors.Wrap(err, "invalid supported format constraint")
	}
	if !constraint.Check(version) {
		return errors.Newf("world file format %s is not supported (need %s)", f.Format, SupportedFormats)
	}
	if _, err := ParseBackend(string(f.DataInterface)); err != nil {
		return err
	}
	if strings.TrimSpace(f.URL) == "" {
		return errors.New("world file url is empty")
	}
	return nil
}

// DatabasePath resolves the SQLite location from the url. "sqlite://" and
// "sqlite:" prefixes are stripped; relative paths are taken from the directory
// holding the descriptor.
func (f *File) DatabasePath() string {
	p := f.URL
	for _, prefix := range []string{"sqlite://", "sqlite:"} {
		if strings.HasPrefix(p, prefix) {
			p = strings.TrimPrefix(p, prefix)
			break
		}
	}
	if p == ":memory:" || filepath.IsAbs(p) || f.path == "" {
		return p
	}
	return filepath.Join(filepath.Dir(f.path), p)
}

// Open constructs and initializes the storage backend the descriptor names.
func (f *File) Open(ctx context.Context, log *zap.SugaredLogger) (world.Storage, error) {
	switch f.DataInterface {
	case BackendSQLite:
		store, err := storage.Open(f.DatabasePath(), storage.WithLogger(log))
		if err != nil {
			return nil, err
		}
		if err := store.Init(ctx); err != nil {
			store.Close()
			return nil, err
		}
		return store, nil
	default:
		return nil, errors.Newf("unknown data interface %q", f.DataInterface)
	}
}
