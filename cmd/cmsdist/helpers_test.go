package main

import (
	"bytes"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/cms-sw/cmsdist-installer/internal/config"
	"github.com/cms-sw/cmsdist-installer/internal/testutil"
)

const testArch = "slc6_amd64_gcc481"

// cliEnv is an isolated environment for running the CLI against a temp prefix
// with sudo, chown, and apt-get replaced by stubs on PATH.
type cliEnv struct {
	prefix    string
	bin       string
	sudoLog   string
	chownLog  string
	aptGetLog string
}

var cmsdistEnvKeys = []string{
	config.EnvConfig,
	config.EnvName(config.KeyInstallPrefix),
	config.EnvName(config.KeyArchitecture),
	config.EnvName(config.KeyInstallUser),
	config.EnvName(config.KeyRepository),
	config.EnvName(config.KeyServer),
	config.EnvName(config.KeyServerPath),
	config.EnvName(config.KeyBackend),
}

func newCLIEnv(t *testing.T) *cliEnv {
	t.Helper()
	for _, key := range cmsdistEnvKeys {
		t.Setenv(key, "")
	}
	env := &cliEnv{prefix: t.TempDir(), bin: t.TempDir()}
	t.Setenv(config.EnvName(config.KeyInstallPrefix), env.prefix)
	t.Setenv("CMSDIST_CACHE_DIR", t.TempDir())

	env.sudoLog = filepath.Join(env.bin, "sudo.log")
	testutil.WriteScript(t, env.bin, "sudo", fmt.Sprintf("printf '%%s\\n' \"$*\" >> %s\nshift 2\nexec \"$@\"\n", env.sudoLog))
	env.chownLog = testutil.WriteRecordingStub(t, env.bin, "chown", "", 0)
	env.aptGetLog = testutil.WriteRecordingStub(t, env.bin, "apt-get", "", 0)
	testutil.PrependPath(t, env.bin)

	origCandidates, origInteractive := candidatePaths, isInteractive
	t.Cleanup(func() {
		candidatePaths, isInteractive = origCandidates, origInteractive
	})
	candidatePaths = func() []string { return nil }
	isInteractive = func() bool { return false }
	return env
}

// runCLI runs the CLI through runMain and returns its output and exit code.
func runCLI(t *testing.T, args ...string) (string, string, int) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := 0
	runMain(append([]string{"cmsdist"}, args...), &stdout, &stderr, func(c int) { code = c })
	return stdout.String(), stderr.String(), code
}
