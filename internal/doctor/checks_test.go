package doctor

import (
	"errors"
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cms-sw/cmsdist-installer/internal/config"
)

func TestCheckConfig(t *testing.T) {
	if r := CheckConfig("", false); r.Status != StatusOK {
		t.Fatalf("expected OK without a config file, got %#v", r)
	}

	dir := t.TempDir()
	good := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(good, []byte("install_prefix = \"/opt/cms\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	r := CheckConfig(good, true)
	if r.Status != StatusOK || !strings.Contains(r.Message, good) {
		t.Fatalf("expected OK naming %s, got %#v", good, r)
	}

	bad := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(bad, []byte("prefix = \"/opt/cms\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	r = CheckConfig(bad, true)
	if r.Status != StatusFail || r.Recommendation == "" {
		t.Fatalf("expected FAIL with recommendation for unknown key, got %#v", r)
	}
}

func TestCheckBackend(t *testing.T) {
	r := CheckBackend(config.Effective{Backend: "cmspkg", Server: "https://cmsrep.cern.ch", ServerPath: "cmssw/repos"})
	if r.Status != StatusOK {
		t.Fatalf("expected OK, got %#v", r)
	}
	if !strings.Contains(r.Message, "https://cmsrep.cern.ch/cmssw/repos/bootstrap.sh") {
		t.Fatalf("expected bootstrap URL in message, got %q", r.Message)
	}

	r = CheckBackend(config.Effective{Backend: "yum"})
	if r.Status != StatusFail || !strings.Contains(r.Recommendation, "apt, cmspkg") {
		t.Fatalf("expected FAIL listing backends, got %#v", r)
	}
}

func TestCheckPrefix(t *testing.T) {
	dir := t.TempDir()
	if r := CheckPrefix(config.Effective{InstallPrefix: dir}); r.Status != StatusOK {
		t.Fatalf("expected OK for existing dir, got %#v", r)
	}
	if r := CheckPrefix(config.Effective{InstallPrefix: filepath.Join(dir, "missing")}); r.Status != StatusWarn {
		t.Fatalf("expected WARN for missing prefix, got %#v", r)
	}

	file := filepath.Join(dir, "file")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if r := CheckPrefix(config.Effective{InstallPrefix: file}); r.Status != StatusFail {
		t.Fatalf("expected FAIL for file prefix, got %#v", r)
	}
}

func TestCheckPrefix_StatError(t *testing.T) {
	orig := statFunc
	t.Cleanup(func() { statFunc = orig })
	statFunc = func(string) (os.FileInfo, error) { return nil, os.ErrPermission }

	if r := CheckPrefix(config.Effective{InstallPrefix: "/opt/cms"}); r.Status != StatusFail {
		t.Fatalf("expected FAIL on stat error, got %#v", r)
	}
}

func TestCheckBootstrap(t *testing.T) {
	cfg := config.Effective{InstallPrefix: "/opt/cms", Architecture: "slc7_amd64_gcc700"}

	if r := CheckBootstrap(fakeChecker{ok: true}, cfg); r.Status != StatusOK {
		t.Fatalf("expected OK, got %#v", r)
	}
	r := CheckBootstrap(fakeChecker{}, cfg)
	if r.Status != StatusWarn || !strings.Contains(r.Message, "slc7_amd64_gcc700") {
		t.Fatalf("expected WARN naming the arch, got %#v", r)
	}
	if r := CheckBootstrap(fakeChecker{err: errors.New("bad pattern")}, cfg); r.Status != StatusFail {
		t.Fatalf("expected FAIL on checker error, got %#v", r)
	}
}

func TestRequiredTools(t *testing.T) {
	apt := strings.Join(RequiredTools("apt"), " ")
	if apt != "sudo chown sh bash" {
		t.Fatalf("unexpected apt tools %q", apt)
	}
	cmspkg := strings.Join(RequiredTools("cmspkg"), " ")
	if cmspkg != "sudo chown sh" {
		t.Fatalf("unexpected cmspkg tools %q", cmspkg)
	}
}

func TestCheckTools(t *testing.T) {
	orig := lookPathFunc
	t.Cleanup(func() { lookPathFunc = orig })
	lookPathFunc = func(name string) (string, error) {
		if name == "sudo" {
			return "", errors.New("not found")
		}
		return "/usr/bin/" + name, nil
	}

	results := CheckTools("cmspkg")
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if !HasFailure(results) {
		t.Fatal("expected a failure for missing sudo")
	}
	if results[0].Status != StatusFail || !strings.Contains(results[0].Message, "sudo") {
		t.Fatalf("expected sudo failure first, got %#v", results[0])
	}
	if results[1].Status != StatusOK {
		t.Fatalf("expected chown OK, got %#v", results[1])
	}
}

func TestCheckUser(t *testing.T) {
	orig := lookupUserFunc
	t.Cleanup(func() { lookupUserFunc = orig })
	lookupUserFunc = func(name string) (*user.User, error) {
		if name == "cmsbuild" {
			return &user.User{Username: name}, nil
		}
		return nil, user.UnknownUserError(name)
	}

	if r := CheckUser(config.Effective{InstallUser: "cmsbuild"}); r.Status != StatusOK {
		t.Fatalf("expected OK, got %#v", r)
	}
	r := CheckUser(config.Effective{InstallUser: "nobody-here"})
	if r.Status != StatusFail || !strings.Contains(r.Recommendation, "nobody-here") {
		t.Fatalf("expected FAIL naming the user, got %#v", r)
	}
}

func TestHasFailure(t *testing.T) {
	results := []Result{
		{Status: StatusOK, CheckName: "a"},
		{Status: StatusWarn, CheckName: "b"},
	}
	if HasFailure(results) {
		t.Fatal("warnings alone must not fail")
	}
	results = append(results, Result{Status: StatusFail, CheckName: "c"})
	if !HasFailure(results) {
		t.Fatal("expected failure")
	}
	if got := requireResultByCheckName(t, results, "c"); got.Status != StatusFail {
		t.Fatalf("unexpected result %#v", got)
	}
}
