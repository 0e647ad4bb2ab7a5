package installer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
)

// errNotMocked is returned when a testSystem method is called without a mock function set.
var errNotMocked = errors.New("testSystem: method not mocked")

// testSystem provides a mock System for unit tests.
//
// Glob, Stat, and MkdirAll fall back to RealSystem so tests can build
// fixtures under t.TempDir(). Download and Run fail fast when unset: neither
// may reach the network or spawn processes from a unit test.
//
// Every call is recorded in calls as "<op> <args>" for order assertions.
type testSystem struct {
	RealSystem

	GlobFunc     func(pattern string) ([]string, error)
	StatFunc     func(name string) (os.FileInfo, error)
	MkdirAllFunc func(path string, perm os.FileMode) error
	DownloadFunc func(ctx context.Context, url string, dest string) error
	RunFunc      func(ctx context.Context, name string, args ...string) ([]byte, error)

	calls []string
}

func (s *testSystem) record(op string, args ...string) {
	s.calls = append(s.calls, strings.TrimSpace(op+" "+strings.Join(args, " ")))
}

func (s *testSystem) Glob(pattern string) ([]string, error) {
	s.record("glob", pattern)
	if s.GlobFunc != nil {
		return s.GlobFunc(pattern)
	}
	return s.RealSystem.Glob(pattern)
}

func (s *testSystem) Stat(name string) (os.FileInfo, error) {
	s.record("stat", name)
	if s.StatFunc != nil {
		return s.StatFunc(name)
	}
	return s.RealSystem.Stat(name)
}

func (s *testSystem) MkdirAll(path string, perm os.FileMode) error {
	s.record("mkdir", path)
	if s.MkdirAllFunc != nil {
		return s.MkdirAllFunc(path, perm)
	}
	return s.RealSystem.MkdirAll(path, perm)
}

func (s *testSystem) Download(ctx context.Context, url string, dest string) error {
	s.record("download", url, dest)
	if s.DownloadFunc != nil {
		return s.DownloadFunc(ctx, url, dest)
	}
	return fmt.Errorf("%w: Download", errNotMocked)
}

func (s *testSystem) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	s.record("run", append([]string{name}, args...)...)
	if s.RunFunc != nil {
		return s.RunFunc(ctx, name, args...)
	}
	return nil, fmt.Errorf("%w: Run", errNotMocked)
}

// callsWithPrefix returns recorded calls starting with op.
func (s *testSystem) callsWithPrefix(op string) []string {
	var out []string
	for _, c := range s.calls {
		if strings.HasPrefix(c, op+" ") {
			out = append(out, c)
		}
	}
	return out
}

// exitError mimics *exec.ExitError for simulated process failures.
type exitError struct {
	code int
}

func (e exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

func (e exitError) ExitCode() int {
	return e.code
}
