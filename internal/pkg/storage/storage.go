// Package storage holds the file storage collaborators of the transfer drivers.
//
// The protocol itself never touches the file system: the sender needs whole files
// read into memory and the receiver hands each assembled file to a Sink.
package storage

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// ErrInvalidName is returned for sink names that are empty or escape the sink root.
var ErrInvalidName = errors.New("invalid file name")

// Reader loads a whole file.
type Reader interface {
	ReadFile(path string) ([]byte, error)
}

// Sink stores a received file under a slash-separated relative name.
type Sink interface {
	Write(name string, data []byte) error
}

// OS reads files from the local file system.
type OS struct{}

// ReadFile implements Reader.
func (OS) ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s failed", path)
	}
	return data, nil
}

// Discard drops every file it is given.
type Discard struct{}

// Write implements Sink.
func (Discard) Write(string, []byte) error {
	return nil
}

// Dir writes files below a root directory.
type Dir struct {
	root string
}

// NewDir creates root if needed and returns a Sink writing below it.
func NewDir(root string) (*Dir, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create %s failed", root)
	}
	return &Dir{root: root}, nil
}

// Root returns the directory files are written below.
func (d *Dir) Root() string {
	return d.root
}

// Write implements Sink.
func (d *Dir) Write(name string, data []byte) error {
	rel := filepath.FromSlash(name)
	if !filepath.IsLocal(rel) {
		return errors.Wrapf(ErrInvalidName, "%q", name)
	}
	path := filepath.Join(d.root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "create directory for %s failed", path)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "write %s failed", path)
	}
	return nil
}
