package config

import "strings"

// EnvPrefix namespaces the environment variables read by FromEnv.
const EnvPrefix = "CMSDIST_"

// EnvConfig names the variable holding an explicit config file path.
const EnvConfig = EnvPrefix + "CONFIG"

// EnvName returns the environment variable for an option key.
func EnvName(key string) string {
	return EnvPrefix + strings.ToUpper(key)
}

// FromEnv reads CMSDIST_* option overrides through lookup.
func FromEnv(lookup func(string) (string, bool)) Settings {
	get := func(key string) string {
		value, ok := lookup(EnvName(key))
		if !ok {
			return ""
		}
		return strings.TrimSpace(value)
	}
	return Settings{
		InstallPrefix: get(KeyInstallPrefix),
		Architecture:  get(KeyArchitecture),
		InstallUser:   get(KeyInstallUser),
		Repository:    get(KeyRepository),
		Server:        get(KeyServer),
		ServerPath:    get(KeyServerPath),
		Backend:       get(KeyBackend),
	}
}
