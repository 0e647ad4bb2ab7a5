// Package backend describes the package managers a bootstrapped CMS
// installation root can be driven with.
package backend

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/cms-sw/cmsdist-installer/internal/messages"
)

// Names of the supported backends.
const (
	Apt    = "apt"
	Cmspkg = "cmspkg"
)

// DefaultName is the backend used when none is configured.
const DefaultName = Apt

// ErrUnknown reports a backend name with no descriptor.
var ErrUnknown = errors.New(messages.BackendUnknown)

// archPlaceholder is replaced by the target architecture in marker patterns.
const archPlaceholder = "{arch}"

// Command is one process invocation. Shell commands carry a trusted script for bash -c.
type Command struct {
	Name string
	Args []string
}

// Argv returns the full argument vector.
func (c Command) Argv() []string {
	return append([]string{c.Name}, c.Args...)
}

// String renders the command for logs.
func (c Command) String() string {
	return shellquote.Join(c.Argv()...)
}

// Env carries the resolved values a backend needs to build commands.
type Env struct {
	Prefix       string
	Architecture string
	Repository   string
	// Profile is the environment script matched by the first marker, if any.
	Profile string
}

// Defaults holds the backend-specific fallbacks for configuration options.
type Defaults struct {
	Architecture string
	Repository   string
	Server       string
	ServerPath   string
}

// Descriptor is the capability set of a package-manager backend.
type Descriptor struct {
	Name     string
	Defaults Defaults
	// Markers are glob patterns relative to the prefix. All must match for the
	// architecture to count as bootstrapped. The first one is the profile script.
	Markers []string
	Install func(env Env, fullName string) []Command
	Remove  func(env Env, fullName string) []Command
}

// MarkerPatterns returns absolute glob patterns for arch under prefix.
func (d Descriptor) MarkerPatterns(prefix string, arch string) []string {
	patterns := make([]string, 0, len(d.Markers))
	for _, marker := range d.Markers {
		rel := strings.ReplaceAll(marker, archPlaceholder, arch)
		patterns = append(patterns, filepath.Join(prefix, filepath.FromSlash(rel)))
	}
	return patterns
}

var descriptors = map[string]Descriptor{
	Apt: {
		Name: Apt,
		Defaults: Defaults{
			Architecture: "slc6_amd64_gcc481",
			Repository:   "cms",
			Server:       "https://cmsrep.cern.ch",
			ServerPath:   "cmssw/cms",
		},
		Markers: []string{"{arch}/external/apt/*/etc/profile.d/init.sh"},
		Install: func(env Env, fullName string) []Command {
			return []Command{aptScript(env,
				"apt-get update",
				"apt-get install -y "+shellquote.Join(fullName)+" 2>&1",
			)}
		},
		Remove: func(env Env, fullName string) []Command {
			return []Command{aptScript(env,
				"apt-get remove -y --purge "+shellquote.Join(fullName)+" 2>&1",
			)}
		},
	},
	Cmspkg: {
		Name: Cmspkg,
		Defaults: Defaults{
			Architecture: "slc7_amd64_gcc700",
			Repository:   "cms",
			Server:       "https://cmsrep.cern.ch",
			ServerPath:   "cmssw/repos",
		},
		Markers: []string{"common/cmspkg", "{arch}/var/cmspkg"},
		Install: func(env Env, fullName string) []Command {
			return []Command{
				cmspkg(env, "update"),
				cmspkg(env, "install", "-y", fullName),
			}
		},
		Remove: func(env Env, fullName string) []Command {
			return []Command{cmspkg(env, "remove", "-y", "--force", "--delete-dir", fullName)}
		},
	},
}

// Lookup returns the descriptor registered under name. Names are case-insensitive.
func Lookup(name string) (Descriptor, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		key = DefaultName
	}
	d, ok := descriptors[key]
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: "+messages.BackendUnknownFmt, ErrUnknown, name, strings.Join(Names(), ", "))
	}
	return d, nil
}

// Names lists the registered backends in sorted order.
func Names() []string {
	names := make([]string, 0, len(descriptors))
	for name := range descriptors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// aptScript sources the apt environment and runs steps in one bash process.
// Only configuration values reach the script and each one is quoted; callers
// must still treat the configuration itself as trusted.
func aptScript(env Env, steps ...string) Command {
	lines := make([]string, 0, len(steps)+1)
	lines = append(lines, "source "+shellquote.Join(env.Profile)+" 2>&1")
	lines = append(lines, steps...)
	return Command{Name: "bash", Args: []string{"-c", strings.Join(lines, " ; ")}}
}

func cmspkg(env Env, subcommand string, args ...string) Command {
	argv := []string{"-a", env.Architecture}
	if env.Repository != "" {
		argv = append(argv, "-r", env.Repository)
	}
	argv = append(argv, subcommand)
	argv = append(argv, args...)
	return Command{Name: filepath.Join(env.Prefix, "common", "cmspkg"), Args: argv}
}
