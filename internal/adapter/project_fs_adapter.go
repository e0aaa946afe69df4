// Package adapter contains the infrastructure adapters of the test runner shim:
// filesystem, engine process, result files, interpreter and host probes, and
// report delivery.
package adapter

import (
	"path/filepath"

	"github.com/spf13/afero"
	m "obspy.org/pkg/runtests/internal/model"
)

// ProjectFSAdapter abstracts the filesystem operations the domain relies on.
// Lookups through IsDir and IsFile are relative to the project root; the
// remaining operations take paths as given.
type ProjectFSAdapter interface {
	// IsDir reports whether path is a directory below the project root.
	IsDir(path m.Path) bool

	// IsFile reports whether path is a regular file below the project root.
	IsFile(path m.Path) bool

	// ReadFile loads a file and returns its contents.
	ReadFile(path m.Path) ([]byte, error)

	// CreateTempFile creates an empty temporary file and returns its path.
	CreateTempFile(pattern string) (m.Path, error)

	// Remove deletes a file.
	Remove(path m.Path) error
}

// LocalProjectFSAdapter implements ProjectFSAdapter on top of an afero filesystem.
type LocalProjectFSAdapter struct {
	fs   afero.Fs
	root string
}

// NewLocalProjectFSAdapter constructs an adapter for the project at root.
// A nil fs means the operating system filesystem.
func NewLocalProjectFSAdapter(fs afero.Fs, root string) *LocalProjectFSAdapter {
	if fs == nil {
		fs = afero.NewOsFs()
	}

	return &LocalProjectFSAdapter{fs: fs, root: root}
}

// IsDir reports whether path is a directory below the project root.
func (a *LocalProjectFSAdapter) IsDir(path m.Path) bool {
	ok, err := afero.IsDir(a.fs, a.join(path))
	return err == nil && ok
}

// IsFile reports whether path is a regular file below the project root.
func (a *LocalProjectFSAdapter) IsFile(path m.Path) bool {
	info, err := a.fs.Stat(a.join(path))
	return err == nil && info.Mode().IsRegular()
}

// ReadFile loads file contents.
func (a *LocalProjectFSAdapter) ReadFile(path m.Path) ([]byte, error) {
	return afero.ReadFile(a.fs, string(path))
}

// CreateTempFile creates an empty temporary file in the default temp directory.
func (a *LocalProjectFSAdapter) CreateTempFile(pattern string) (m.Path, error) {
	f, err := afero.TempFile(a.fs, "", pattern)
	if err != nil {
		return "", err
	}

	defer func() {
		_ = f.Close()
	}()

	return m.Path(f.Name()), nil
}

// Remove deletes a file.
func (a *LocalProjectFSAdapter) Remove(path m.Path) error {
	return a.fs.Remove(string(path))
}

func (a *LocalProjectFSAdapter) join(path m.Path) string {
	return filepath.Join(a.root, string(path))
}
