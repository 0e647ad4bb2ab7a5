package backend

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup_DefaultsToApt(t *testing.T) {
	d, err := Lookup("")
	require.NoError(t, err)
	assert.Equal(t, Apt, d.Name)
	assert.Equal(t, "slc6_amd64_gcc481", d.Defaults.Architecture)
	assert.Equal(t, "https://cmsrep.cern.ch", d.Defaults.Server)
	assert.Equal(t, "cmssw/cms", d.Defaults.ServerPath)
	assert.Equal(t, "cms", d.Defaults.Repository)
}

func TestLookup_CaseInsensitive(t *testing.T) {
	d, err := Lookup(" CMSPKG ")
	require.NoError(t, err)
	assert.Equal(t, Cmspkg, d.Name)
}

func TestLookup_Unknown(t *testing.T) {
	_, err := Lookup("yum")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknown))
	assert.Contains(t, err.Error(), "apt, cmspkg")
}

func TestMarkerPatterns_ExpandArchitecture(t *testing.T) {
	d, err := Lookup(Apt)
	require.NoError(t, err)
	got := d.MarkerPatterns("/opt/cms", "slc7")
	require.Len(t, got, 1)
	assert.Equal(t, filepath.Join("/opt/cms", "slc7", "external", "apt", "*", "etc", "profile.d", "init.sh"), got[0])
}

func TestAptInstall_SourcesProfileThenUpdatesAndInstalls(t *testing.T) {
	d, err := Lookup(Apt)
	require.NoError(t, err)
	cmds := d.Install(Env{Prefix: "/opt/cms", Architecture: "slc6", Profile: "/opt/cms/slc6/external/apt/0.5/etc/profile.d/init.sh"}, "cms+cmssw+CMSSW_1")
	require.Len(t, cmds, 1)
	assert.Equal(t, "bash", cmds[0].Name)
	require.Len(t, cmds[0].Args, 2)
	assert.Equal(t, "-c", cmds[0].Args[0])
	script := cmds[0].Args[1]
	source := strings.Index(script, "source /opt/cms/slc6/external/apt/0.5/etc/profile.d/init.sh")
	update := strings.Index(script, "apt-get update")
	install := strings.Index(script, "apt-get install -y cms+cmssw+CMSSW_1")
	assert.True(t, source >= 0 && update > source && install > update, "unexpected script order: %s", script)
}

func TestAptRemove_QuotesName(t *testing.T) {
	d, err := Lookup(Apt)
	require.NoError(t, err)
	cmds := d.Remove(Env{Profile: "/p/init.sh"}, "a+b+1 0")
	require.Len(t, cmds, 1)
	assert.Contains(t, cmds[0].Args[1], "apt-get remove -y --purge 'a+b+1 0'")
}

func TestCmspkgCommands(t *testing.T) {
	d, err := Lookup(Cmspkg)
	require.NoError(t, err)
	env := Env{Prefix: "/opt/cms", Architecture: "slc7", Repository: "comp"}

	install := d.Install(env, "cms+cmssw+CMSSW_1")
	require.Len(t, install, 2)
	bin := filepath.Join("/opt/cms", "common", "cmspkg")
	assert.Equal(t, []string{bin, "-a", "slc7", "-r", "comp", "update"}, install[0].Argv())
	assert.Equal(t, []string{bin, "-a", "slc7", "-r", "comp", "install", "-y", "cms+cmssw+CMSSW_1"}, install[1].Argv())

	remove := d.Remove(env, "cms+cmssw+CMSSW_1")
	require.Len(t, remove, 1)
	assert.Equal(t, []string{bin, "-a", "slc7", "-r", "comp", "remove", "-y", "--force", "--delete-dir", "cms+cmssw+CMSSW_1"}, remove[0].Argv())
}

func TestCommandString(t *testing.T) {
	c := Command{Name: "sudo", Args: []string{"-u", "cmsbuild", "sh", "-x", "/opt/my dir/bootstrap.sh"}}
	assert.Equal(t, "sudo -u cmsbuild sh -x '/opt/my dir/bootstrap.sh'", c.String())
}
