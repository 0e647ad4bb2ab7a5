package doctor

import (
	"fmt"
	"os"
	"os/exec"
	"os/user"
	"strings"

	"github.com/cms-sw/cmsdist-installer/internal/backend"
	"github.com/cms-sw/cmsdist-installer/internal/config"
	"github.com/cms-sw/cmsdist-installer/internal/messages"
)

var (
	loadFileFunc   = config.LoadFile
	statFunc       = os.Stat
	lookPathFunc   = exec.LookPath
	lookupUserFunc = user.Lookup
)

// BootstrapChecker reports whether a prefix is bootstrapped for the configured architecture.
type BootstrapChecker interface {
	Bootstrapped(cfg config.Effective) (bool, error)
}

// CheckConfig reports whether the config file at path, if any, loads.
func CheckConfig(path string, found bool) Result {
	if !found {
		return Result{Status: StatusOK, CheckName: messages.DoctorCheckNameConfig, Message: messages.DoctorConfigNone}
	}
	if _, err := loadFileFunc(path); err != nil {
		return Result{
			Status:         StatusFail,
			CheckName:      messages.DoctorCheckNameConfig,
			Message:        fmt.Sprintf(messages.DoctorConfigLoadFailedFmt, err),
			Recommendation: messages.DoctorConfigLoadRecommend,
		}
	}
	return Result{Status: StatusOK, CheckName: messages.DoctorCheckNameConfig, Message: fmt.Sprintf(messages.DoctorConfigLoadedFmt, path)}
}

// CheckBackend reports the backend cfg selects and where its bootstrap comes from.
func CheckBackend(cfg config.Effective) Result {
	desc, err := backend.Lookup(cfg.Backend)
	if err != nil {
		return Result{
			Status:         StatusFail,
			CheckName:      messages.DoctorCheckNameBackend,
			Message:        fmt.Sprintf(messages.DoctorBackendFailedFmt, err),
			Recommendation: fmt.Sprintf(messages.DoctorBackendRecommendFmt, strings.Join(backend.Names(), ", ")),
		}
	}
	return Result{
		Status:    StatusOK,
		CheckName: messages.DoctorCheckNameBackend,
		Message:   fmt.Sprintf(messages.DoctorBackendFmt, desc.Name, cfg.BootstrapURL()),
	}
}

// CheckPrefix verifies the installation prefix is a directory or can still be created.
func CheckPrefix(cfg config.Effective) Result {
	prefix := cfg.InstallPrefix
	info, err := statFunc(prefix)
	switch {
	case os.IsNotExist(err):
		return Result{
			Status:         StatusWarn,
			CheckName:      messages.DoctorCheckNamePrefix,
			Message:        fmt.Sprintf(messages.DoctorPrefixMissingFmt, prefix),
			Recommendation: messages.DoctorPrefixMissingRecommend,
		}
	case err != nil:
		return Result{
			Status:    StatusFail,
			CheckName: messages.DoctorCheckNamePrefix,
			Message:   fmt.Sprintf(messages.DoctorPrefixStatFailedFmt, prefix, err),
		}
	case !info.IsDir():
		return Result{
			Status:         StatusFail,
			CheckName:      messages.DoctorCheckNamePrefix,
			Message:        fmt.Sprintf(messages.DoctorPrefixNotDirFmt, prefix),
			Recommendation: messages.DoctorPrefixNotDirRecommend,
		}
	}
	return Result{Status: StatusOK, CheckName: messages.DoctorCheckNamePrefix, Message: fmt.Sprintf(messages.DoctorPrefixExistsFmt, prefix)}
}

// CheckBootstrap reports whether the bootstrap markers are in place.
// A missing bootstrap is a warning: install performs it on first use.
func CheckBootstrap(checker BootstrapChecker, cfg config.Effective) Result {
	ok, err := checker.Bootstrapped(cfg)
	if err != nil {
		return Result{
			Status:    StatusFail,
			CheckName: messages.DoctorCheckNameBootstrap,
			Message:   fmt.Sprintf(messages.DoctorBootstrapFailedFmt, err),
		}
	}
	if !ok {
		return Result{
			Status:         StatusWarn,
			CheckName:      messages.DoctorCheckNameBootstrap,
			Message:        fmt.Sprintf(messages.DoctorNotBootstrappedFmt, cfg.Architecture, cfg.InstallPrefix),
			Recommendation: messages.DoctorNotBootstrapRecommend,
		}
	}
	return Result{
		Status:    StatusOK,
		CheckName: messages.DoctorCheckNameBootstrap,
		Message:   fmt.Sprintf(messages.DoctorBootstrappedFmt, cfg.Architecture, cfg.InstallPrefix),
	}
}

// RequiredTools lists the executables the backend's commands invoke from PATH.
func RequiredTools(backendName string) []string {
	tools := []string{"sudo", "chown", "sh"}
	if strings.EqualFold(strings.TrimSpace(backendName), backend.Apt) || strings.TrimSpace(backendName) == "" {
		tools = append(tools, "bash")
	}
	return tools
}

// CheckTools looks up each required executable on PATH.
func CheckTools(backendName string) []Result {
	var results []Result
	for _, tool := range RequiredTools(backendName) {
		path, err := lookPathFunc(tool)
		if err != nil {
			results = append(results, Result{
				Status:         StatusFail,
				CheckName:      messages.DoctorCheckNameTools,
				Message:        fmt.Sprintf(messages.DoctorToolMissingFmt, tool),
				Recommendation: fmt.Sprintf(messages.DoctorToolRecommendFmt, tool),
			})
			continue
		}
		results = append(results, Result{
			Status:    StatusOK,
			CheckName: messages.DoctorCheckNameTools,
			Message:   fmt.Sprintf(messages.DoctorToolFoundFmt, tool, path),
		})
	}
	return results
}

// CheckUser verifies the install user exists.
func CheckUser(cfg config.Effective) Result {
	if _, err := lookupUserFunc(cfg.InstallUser); err != nil {
		return Result{
			Status:         StatusFail,
			CheckName:      messages.DoctorCheckNameUser,
			Message:        fmt.Sprintf(messages.DoctorUserMissingFmt, cfg.InstallUser, err),
			Recommendation: fmt.Sprintf(messages.DoctorUserRecommendFmt, cfg.InstallUser),
		}
	}
	return Result{Status: StatusOK, CheckName: messages.DoctorCheckNameUser, Message: fmt.Sprintf(messages.DoctorUserFoundFmt, cfg.InstallUser)}
}
