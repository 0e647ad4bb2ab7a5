package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/cms-sw/cmsdist-installer/internal/messages"
)

// LoadFile reads a TOML or YAML config file, chosen by extension.
func LoadFile(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf(messages.ConfigMissingFileFmt, path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(data, path)
	default:
		return ParseTOML(data, path)
	}
}

// ParseTOML decodes TOML config data. Unknown keys are rejected.
// source is used in error messages.
func ParseTOML(data []byte, source string) (Settings, error) {
	var s Settings
	decoder := toml.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&s); err != nil {
		return Settings{}, fmt.Errorf(messages.ConfigInvalidConfigFmt, source, err)
	}
	return s, nil
}

// ParseYAML decodes YAML config data. Unknown keys are rejected.
// source is used in error messages.
func ParseYAML(data []byte, source string) (Settings, error) {
	var s Settings
	if len(bytes.TrimSpace(data)) == 0 {
		return s, nil
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&s); err != nil {
		return Settings{}, fmt.Errorf(messages.ConfigInvalidConfigFmt, source, err)
	}
	return s, nil
}

// MarshalTOML renders s as TOML.
func MarshalTOML(s Settings) (string, error) {
	data, err := toml.Marshal(s)
	if err != nil {
		return "", fmt.Errorf(messages.ConfigMarshalFmt, err)
	}
	return string(data), nil
}
