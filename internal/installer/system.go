package installer

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/cms-sw/cmsdist-installer/internal/fetch"
)

// System abstracts the filesystem, network, and process operations the adapter performs.
// Tests substitute it to observe which operations run and in what order.
type System interface {
	Glob(pattern string) ([]string, error)
	Stat(name string) (os.FileInfo, error)
	MkdirAll(path string, perm os.FileMode) error
	Download(ctx context.Context, url string, dest string) error
	// Run executes name with args and returns combined stdout and stderr.
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// RealSystem implements System using the OS and an HTTP fetcher.
type RealSystem struct {
	Fetcher *fetch.Fetcher
}

// Glob returns the names of all files matching pattern.
func (RealSystem) Glob(pattern string) ([]string, error) {
	return filepath.Glob(pattern)
}

// Stat returns a FileInfo describing the named file.
func (RealSystem) Stat(name string) (os.FileInfo, error) {
	return os.Stat(name)
}

// MkdirAll creates a directory named path, along with any necessary parents.
func (RealSystem) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

// Download fetches url into dest, readable by the install user.
func (s RealSystem) Download(ctx context.Context, url string, dest string) error {
	f := s.Fetcher
	if f == nil {
		f = fetch.New()
	}
	return f.Download(ctx, url, dest, 0o644)
}

// Run executes the command and waits for it to exit.
func (RealSystem) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}
