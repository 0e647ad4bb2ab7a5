package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
)

// SystemConfigPath is the host-wide config file location.
const SystemConfigPath = "/etc/cmsdist/config.toml"

// CandidatePaths lists the implicit config file locations in lookup order.
func CandidatePaths() []string {
	paths := []string{}
	if home, err := homedir.Dir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config", "cmsdist", "config.toml"),
			filepath.Join(home, ".config", "cmsdist", "config.yaml"),
		)
	}
	return append(paths, SystemConfigPath)
}

// FindConfigPath picks the config file to load.
// explicit wins, then $CMSDIST_CONFIG, then the first existing candidate.
// It returns false when no file applies.
func FindConfigPath(explicit string, getenv func(string) string, candidates []string) (string, bool, error) {
	if p := strings.TrimSpace(explicit); p != "" {
		expanded, err := homedir.Expand(p)
		return expanded, err == nil, err
	}
	if p := strings.TrimSpace(getenv(EnvConfig)); p != "" {
		expanded, err := homedir.Expand(p)
		return expanded, err == nil, err
	}
	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true, nil
		}
	}
	return "", false, nil
}
