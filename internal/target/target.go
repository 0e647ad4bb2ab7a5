// Package target parses installation target names of the form
// group+package+version[/architecture].
package target

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/cms-sw/cmsdist-installer/internal/messages"
)

// ErrInvalidName reports a name that does not carry group, package, and version.
var ErrInvalidName = errors.New(messages.TargetInvalidName)

// Target identifies one package build in the distribution.
type Target struct {
	Group        string
	Package      string
	Version      string
	Architecture string // empty when the name carries no override
}

// Parse splits name into its components.
// The architecture override follows the first "/" and must be one path segment,
// since it names a directory under the prefix.
// The version keeps any "+" past the second, so a release such as
// CMSSW_10_6_0+patch1 is queried in its own directory instead of being
// truncated at the third "+".
func Parse(name string) (Target, error) {
	trimmed := strings.TrimSpace(name)
	fullName, arch, _ := strings.Cut(trimmed, "/")
	arch = strings.TrimSpace(arch)
	if arch == "." || arch == ".." || strings.ContainsAny(arch, `/\`) {
		return Target{}, fmt.Errorf("%w: "+messages.TargetInvalidArchFmt, ErrInvalidName, name, arch)
	}
	parts := strings.SplitN(fullName, "+", 3)
	if len(parts) != 3 {
		return Target{}, fmt.Errorf("%w: "+messages.TargetInvalidNameFmt, ErrInvalidName, name)
	}
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			return Target{}, fmt.Errorf("%w: "+messages.TargetInvalidNameFmt, ErrInvalidName, name)
		}
	}
	return Target{
		Group:        parts[0],
		Package:      parts[1],
		Version:      parts[2],
		Architecture: arch,
	}, nil
}

// FullName returns the group+package+version form passed to the package manager.
func (t Target) FullName() string {
	return t.Group + "+" + t.Package + "+" + t.Version
}

// String returns the name in the same encoding Parse accepts.
func (t Target) String() string {
	if t.Architecture == "" {
		return t.FullName()
	}
	return t.FullName() + "/" + t.Architecture
}

// ArchitectureOr returns the override when set, otherwise fallback.
func (t Target) ArchitectureOr(fallback string) string {
	if t.Architecture != "" {
		return t.Architecture
	}
	return fallback
}

// InstallDir returns the per-version directory the distribution creates under prefix/arch.
func (t Target) InstallDir(prefix string, arch string) string {
	return filepath.Join(prefix, arch, t.Group, t.Package, t.Version)
}
