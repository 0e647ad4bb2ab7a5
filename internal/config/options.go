// Package config resolves the options that drive one installer call.
//
// Layers, lowest precedence first: built-in backend defaults, the config
// file, CMSDIST_* environment variables, and per-request options. The first
// three are folded once into an immutable Defaults record; request options are
// merged over it by Resolve on every call.
package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/mitchellh/go-homedir"

	"github.com/cms-sw/cmsdist-installer/internal/backend"
	"github.com/cms-sw/cmsdist-installer/internal/messages"
)

// Option keys accepted in request options, config files, and the environment.
const (
	KeyInstallPrefix = "install_prefix"
	KeyArchitecture  = "architecture"
	KeyInstallUser   = "install_user"
	KeyRepository    = "repository"
	KeyServer        = "server"
	KeyServerPath    = "server_path"
	KeyBackend       = "backend"
)

// Built-in defaults that do not depend on the backend.
const (
	DefaultInstallPrefix = "/opt/cms"
	DefaultInstallUser   = "cmsbuild"
)

// ErrUnknownOption reports a request option key that has no meaning.
var ErrUnknownOption = errors.New(messages.ConfigUnknownOption)

// requestKeys are the keys a single request may override.
var requestKeys = []string{
	KeyInstallPrefix,
	KeyArchitecture,
	KeyInstallUser,
	KeyRepository,
	KeyServer,
	KeyServerPath,
}

// Options is a flat mapping of option keys to values.
type Options map[string]string

// Settings is a complete or partial set of option values.
type Settings struct {
	InstallPrefix string `toml:"install_prefix,omitempty" yaml:"install_prefix,omitempty"`
	Architecture  string `toml:"architecture,omitempty" yaml:"architecture,omitempty"`
	InstallUser   string `toml:"install_user,omitempty" yaml:"install_user,omitempty"`
	Repository    string `toml:"repository,omitempty" yaml:"repository,omitempty"`
	Server        string `toml:"server,omitempty" yaml:"server,omitempty"`
	ServerPath    string `toml:"server_path,omitempty" yaml:"server_path,omitempty"`
	Backend       string `toml:"backend,omitempty" yaml:"backend,omitempty"`
}

// Effective is the fully resolved configuration for one call.
type Effective = Settings

// Defaults is the immutable fallback record. Build it once with NewDefaults and pass it by value.
type Defaults struct {
	settings Settings
}

// Settings returns a copy of the default values.
func (d Defaults) Settings() Settings {
	return d.settings
}

// Backend returns the backend name the defaults were built for.
func (d Defaults) Backend() string {
	return d.settings.Backend
}

// Builtin returns the compiled-in defaults for the named backend.
func Builtin(backendName string) (Defaults, error) {
	desc, err := backend.Lookup(backendName)
	if err != nil {
		return Defaults{}, err
	}
	return Defaults{settings: Settings{
		InstallPrefix: DefaultInstallPrefix,
		Architecture:  desc.Defaults.Architecture,
		InstallUser:   DefaultInstallUser,
		Repository:    desc.Defaults.Repository,
		Server:        desc.Defaults.Server,
		ServerPath:    desc.Defaults.ServerPath,
		Backend:       desc.Name,
	}}, nil
}

// SelectBackend returns the backend name in effect: backendName when set,
// otherwise the one named by the last layer that names one.
func SelectBackend(backendName string, layers ...Settings) string {
	if selected := strings.TrimSpace(backendName); selected != "" {
		return selected
	}
	for i := len(layers) - 1; i >= 0; i-- {
		if name := strings.TrimSpace(layers[i].Backend); name != "" {
			return name
		}
	}
	return ""
}

// NewDefaults folds the persistent layers into one record.
// backendName wins over the backend named in layers; layers apply in order.
func NewDefaults(backendName string, layers ...Settings) (Defaults, error) {
	defaults, err := Builtin(SelectBackend(backendName, layers...))
	if err != nil {
		return Defaults{}, err
	}
	merged := defaults.settings
	for _, layer := range layers {
		layer.Backend = ""
		merged = overlay(merged, layer.Options())
	}
	return Defaults{settings: merged}, nil
}

// Resolve merges request options over defaults. Absent or blank keys fall back silently.
// Resolve has no side effects and does not fail.
func Resolve(defaults Defaults, opts Options) Effective {
	effective := overlay(defaults.settings, opts)
	if expanded, err := homedir.Expand(effective.InstallPrefix); err == nil {
		effective.InstallPrefix = expanded
	}
	return effective
}

// Validate rejects keys a request may not set.
func (o Options) Validate() error {
	var unknown []string
	for key := range o {
		if !isRequestKey(key) {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	return fmt.Errorf("%w: "+messages.ConfigUnknownOptionFmt, ErrUnknownOption, strings.Join(unknown, ", "), strings.Join(requestKeys, ", "))
}

// ParseOption splits a key=value pair as given on the command line.
func ParseOption(raw string) (string, string, error) {
	key, value, ok := strings.Cut(raw, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return "", "", fmt.Errorf(messages.ConfigOptionSyntaxFmt, raw)
	}
	return key, strings.TrimSpace(value), nil
}

// Options returns the non-empty values of s keyed by option name.
func (s Settings) Options() Options {
	opts := Options{}
	set := func(key, value string) {
		if strings.TrimSpace(value) != "" {
			opts[key] = value
		}
	}
	set(KeyInstallPrefix, s.InstallPrefix)
	set(KeyArchitecture, s.Architecture)
	set(KeyInstallUser, s.InstallUser)
	set(KeyRepository, s.Repository)
	set(KeyServer, s.Server)
	set(KeyServerPath, s.ServerPath)
	set(KeyBackend, s.Backend)
	return opts
}

// BootstrapURL returns the location of the vendor bootstrap script.
func (s Settings) BootstrapURL() string {
	return strings.TrimRight(s.Server, "/") + "/" + strings.Trim(s.ServerPath, "/") + "/bootstrap.sh"
}

func overlay(base Settings, opts Options) Settings {
	pick := func(current string, key string) string {
		if value := strings.TrimSpace(opts[key]); value != "" {
			return value
		}
		return current
	}
	base.InstallPrefix = pick(base.InstallPrefix, KeyInstallPrefix)
	base.Architecture = pick(base.Architecture, KeyArchitecture)
	base.InstallUser = pick(base.InstallUser, KeyInstallUser)
	base.Repository = pick(base.Repository, KeyRepository)
	base.Server = pick(base.Server, KeyServer)
	base.ServerPath = pick(base.ServerPath, KeyServerPath)
	return base
}

func isRequestKey(key string) bool {
	for _, k := range requestKeys {
		if k == key {
			return true
		}
	}
	return false
}
