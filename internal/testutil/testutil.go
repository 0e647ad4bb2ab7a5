// Package testutil holds fixtures shared by cmsdist tests: fake executables
// placed on PATH and pre-bootstrapped installation prefixes.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kballard/go-shellquote"
)

// WriteStub writes an executable shell stub that exits successfully.
// t is the active test; dir is the output directory; name is the executable file name.
func WriteStub(t *testing.T, dir string, name string) {
	t.Helper()
	WriteStubWithExit(t, dir, name, 0)
}

// WriteStubWithExit writes an executable shell stub that exits with the provided code.
func WriteStubWithExit(t *testing.T, dir string, name string, exitCode int) {
	t.Helper()
	writeExecutable(t, filepath.Join(dir, name), fmt.Sprintf("#!/bin/sh\nexit %d\n", exitCode))
}

// WriteRecordingStub writes an executable stub that appends its arguments as one
// line to the returned log file, prints output, and exits with exitCode.
func WriteRecordingStub(t *testing.T, dir string, name string, output string, exitCode int) string {
	t.Helper()
	logPath := filepath.Join(dir, name+".log")
	script := fmt.Sprintf("#!/bin/sh\nprintf '%%s\\n' \"$*\" >> %s\nprintf '%%s' %s\nexit %d\n",
		shellquote.Join(logPath), shellquote.Join(output), exitCode)
	writeExecutable(t, filepath.Join(dir, name), script)
	return logPath
}

// ReadLines returns the lines recorded by a recording stub, or nil when it never ran.
func ReadLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}

// PrependPath puts dir first on PATH for the rest of the test.
func PrependPath(t *testing.T, dir string) {
	t.Helper()
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))
}

// AptPrefix lays out the apt bootstrap marker for arch under prefix and
// returns the profile script path.
func AptPrefix(t *testing.T, prefix string, arch string) string {
	t.Helper()
	dir := filepath.Join(prefix, arch, "external", "apt", "429-comp", "etc", "profile.d")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	profile := filepath.Join(dir, "init.sh")
	if err := os.WriteFile(profile, []byte("# apt environment\n"), 0o644); err != nil {
		t.Fatalf("write profile: %v", err)
	}
	return profile
}

// InstallDir creates the version directory of an installed package and returns it.
func InstallDir(t *testing.T, prefix string, arch string, group string, pkg string, version string) string {
	t.Helper()
	dir := filepath.Join(prefix, arch, group, pkg, version)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	return dir
}

// WriteScript writes an executable /bin/sh script with body and returns its path.
func WriteScript(t *testing.T, dir string, name string, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	writeExecutable(t, path, "#!/bin/sh\n"+body)
	return path
}

func writeExecutable(t *testing.T, path string, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
}
