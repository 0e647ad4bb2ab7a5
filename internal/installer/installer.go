// Package installer drives a CMS software installation root: it bootstraps
// the root on first use and delegates package operations to the backend's
// package manager.
//
// Every call re-resolves configuration and re-derives the bootstrap state
// from the filesystem; the adapter keeps no state between calls and takes no
// lock over the prefix. Callers that may race on one prefix must serialize.
package installer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/cms-sw/cmsdist-installer/internal/backend"
	"github.com/cms-sw/cmsdist-installer/internal/config"
	"github.com/cms-sw/cmsdist-installer/internal/logger"
	"github.com/cms-sw/cmsdist-installer/internal/messages"
	"github.com/cms-sw/cmsdist-installer/internal/target"
)

// Provider is the package lifecycle a declarative caller drives.
type Provider interface {
	Install(ctx context.Context, req Request) error
	Uninstall(ctx context.Context, req Request) error
	Query(ctx context.Context, req Request) (Status, error)
	Instances(ctx context.Context) ([]Status, error)
}

// Request names a package and carries per-request option overrides.
type Request struct {
	Name    string
	Options config.Options
}

// State is the observed presence of a package.
type State int

// Package states.
const (
	StateAbsent State = iota
	StatePresent
)

func (s State) String() string {
	if s == StatePresent {
		return "present"
	}
	return "absent"
}

// Status is the result of a query.
type Status struct {
	Name    string
	State   State
	Version string
}

// Plan is a resolved request: what to act on and how.
type Plan struct {
	Target  target.Target
	Config  config.Effective
	Backend backend.Descriptor
}

// Adapter implements Provider on top of a System.
type Adapter struct {
	sys      System
	defaults config.Defaults
	log      *zap.SugaredLogger
}

var _ Provider = (*Adapter)(nil)

// Option configures an Adapter.
type Option func(*Adapter)

// WithLogger sets the logger used for command traces.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(a *Adapter) {
		if log != nil {
			a.log = log
		}
	}
}

// New returns an Adapter resolving requests against defaults.
func New(sys System, defaults config.Defaults, opts ...Option) (*Adapter, error) {
	if sys == nil {
		return nil, fmt.Errorf(messages.InstallerSystemRequired)
	}
	a := &Adapter{sys: sys, defaults: defaults, log: logger.Nop()}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Plan parses the request name and resolves its effective configuration.
// The name's architecture override wins over configured values.
func (a *Adapter) Plan(req Request) (Plan, error) {
	tgt, err := target.Parse(req.Name)
	if err != nil {
		return Plan{}, err
	}
	if err := req.Options.Validate(); err != nil {
		return Plan{}, err
	}
	eff := config.Resolve(a.defaults, req.Options)
	eff.Architecture = tgt.ArchitectureOr(eff.Architecture)
	desc, err := backend.Lookup(eff.Backend)
	if err != nil {
		return Plan{}, err
	}
	return Plan{Target: tgt, Config: eff, Backend: desc}, nil
}

// Install bootstraps if needed, then updates the package index and installs the package.
func (a *Adapter) Install(ctx context.Context, req Request) error {
	plan, err := a.Plan(req)
	if err != nil {
		return err
	}
	env, err := a.bootstrap(ctx, plan.Config, plan.Backend)
	if err != nil {
		return err
	}
	for _, cmd := range plan.Backend.Install(env, plan.Target.FullName()) {
		if err := a.runAs(ctx, messages.InstallerStepLabelInstall, plan.Config.InstallUser, cmd); err != nil {
			return fmt.Errorf(messages.InstallerInstallFmt, plan.Target.FullName(), err)
		}
	}
	return nil
}

// Uninstall bootstraps if needed, then removes the package and its directory.
func (a *Adapter) Uninstall(ctx context.Context, req Request) error {
	plan, err := a.Plan(req)
	if err != nil {
		return err
	}
	env, err := a.bootstrap(ctx, plan.Config, plan.Backend)
	if err != nil {
		return err
	}
	for _, cmd := range plan.Backend.Remove(env, plan.Target.FullName()) {
		if err := a.runAs(ctx, messages.InstallerStepLabelRemove, plan.Config.InstallUser, cmd); err != nil {
			return fmt.Errorf(messages.InstallerUninstallFmt, plan.Target.FullName(), err)
		}
	}
	return nil
}

// Query bootstraps if needed, then reports whether the package's version directory exists.
// This is a filesystem heuristic, not a query of the package manager's database.
func (a *Adapter) Query(ctx context.Context, req Request) (Status, error) {
	plan, err := a.Plan(req)
	if err != nil {
		return Status{}, err
	}
	cfg := plan.Config
	a.log.Debugf(messages.InstallerLogQueryFmt, cfg.InstallPrefix, cfg.Architecture, cfg.InstallUser)
	if _, err := a.bootstrap(ctx, cfg, plan.Backend); err != nil {
		return Status{}, err
	}
	dir := plan.Target.InstallDir(cfg.InstallPrefix, cfg.Architecture)
	if _, err := a.sys.Stat(dir); err != nil {
		if os.IsNotExist(err) {
			return Status{Name: req.Name, State: StateAbsent}, nil
		}
		return Status{}, fmt.Errorf(messages.InstallerCheckInstalledFmt, dir, err)
	}
	return Status{Name: req.Name, State: StatePresent, Version: plan.Target.Version}, nil
}

// Instances cannot enumerate installed packages and always returns an empty list.
// Callers must read this as "unsupported", not "nothing installed".
func (a *Adapter) Instances(context.Context) ([]Status, error) {
	a.log.Debug(messages.InstallerLogInstancesIgnored)
	return []Status{}, nil
}

// EnsureBootstrap provisions cfg's prefix for its architecture unless already done.
func (a *Adapter) EnsureBootstrap(ctx context.Context, cfg config.Effective) error {
	desc, err := backend.Lookup(cfg.Backend)
	if err != nil {
		return err
	}
	_, err = a.bootstrap(ctx, cfg, desc)
	return err
}

// Bootstrapped reports whether every marker of cfg's backend exists for its architecture.
func (a *Adapter) Bootstrapped(cfg config.Effective) (bool, error) {
	desc, err := backend.Lookup(cfg.Backend)
	if err != nil {
		return false, err
	}
	_, ok, err := a.markers(cfg, desc)
	return ok, err
}

// bootstrap returns the backend environment for cfg, running the vendor
// bootstrap first when the markers are missing. There is no rollback: a
// failed bootstrap leaves the prefix as is and the next call starts over.
func (a *Adapter) bootstrap(ctx context.Context, cfg config.Effective, desc backend.Descriptor) (backend.Env, error) {
	env := backend.Env{
		Prefix:       cfg.InstallPrefix,
		Architecture: cfg.Architecture,
		Repository:   cfg.Repository,
	}
	a.log.Debugf(messages.InstallerLogCheckingFmt, cfg.Architecture, cfg.InstallPrefix)
	profile, ok, err := a.markers(cfg, desc)
	if err != nil {
		return env, err
	}
	if ok {
		a.log.Debug(messages.InstallerLogBootstrapDone)
		a.fixOwnership(ctx, cfg)
		env.Profile = profile
		return env, nil
	}

	prefix := cfg.InstallPrefix
	a.log.Debugf(messages.InstallerLogCreatingFmt, prefix, cfg.InstallUser)
	if err := a.sys.MkdirAll(prefix, 0o755); err != nil {
		return env, fmt.Errorf(messages.InstallerCreatePrefixFmt, prefix, err)
	}
	chown := backend.Command{Name: "chown", Args: []string{cfg.InstallUser, prefix}}
	if err := a.run(ctx, messages.InstallerStepLabelChown, chown); err != nil {
		return env, fmt.Errorf(messages.InstallerChownFmt, prefix, cfg.InstallUser, err)
	}

	url := cfg.BootstrapURL()
	script := filepath.Join(prefix, "bootstrap-"+cfg.Architecture+".sh")
	a.log.Debugf(messages.InstallerLogFetchingFmt, url, cfg.Repository)
	if err := a.sys.Download(ctx, url, script); err != nil {
		return env, fmt.Errorf(messages.InstallerFetchBootstrapFmt, url, err)
	}

	a.log.Debug(messages.InstallerLogInstallingBoot)
	setup := backend.Command{Name: "sh", Args: []string{
		"-x", script,
		"setup",
		"-path", prefix,
		"-arch", cfg.Architecture,
		"-server", cfg.Server,
		"-server-path", cfg.ServerPath,
		"-assume-yes",
	}}
	if err := a.runAs(ctx, messages.InstallerStepLabelBootstrap, cfg.InstallUser, setup); err != nil {
		return env, fmt.Errorf(messages.InstallerRunBootstrapFmt, cfg.Architecture, err)
	}
	a.log.Debug(messages.InstallerLogBootCompleted)

	profile, ok, err = a.markers(cfg, desc)
	if err != nil {
		return env, err
	}
	if !ok {
		return env, fmt.Errorf("%w: %s", ErrNotBootstrapped, strings.Join(desc.MarkerPatterns(prefix, cfg.Architecture), ", "))
	}
	env.Profile = profile
	return env, nil
}

// markers matches every marker pattern and returns the first match of the first one.
func (a *Adapter) markers(cfg config.Effective, desc backend.Descriptor) (string, bool, error) {
	first := ""
	for i, pattern := range desc.MarkerPatterns(cfg.InstallPrefix, cfg.Architecture) {
		matches, err := a.sys.Glob(pattern)
		if err != nil {
			return "", false, fmt.Errorf(messages.InstallerCheckMarkerFmt, pattern, err)
		}
		if len(matches) == 0 {
			return "", false, nil
		}
		if i == 0 {
			first = matches[0]
		}
	}
	return first, true, nil
}

// fixOwnership reasserts the install user's ownership of the architecture tree.
// Failures are logged and otherwise ignored.
func (a *Adapter) fixOwnership(ctx context.Context, cfg config.Effective) {
	dir := filepath.Join(cfg.InstallPrefix, cfg.Architecture)
	cmd := backend.Command{Name: "chown", Args: []string{"-R", cfg.InstallUser, dir}}
	if err := a.run(ctx, messages.InstallerStepLabelChown, cmd); err != nil {
		a.log.Debugf(messages.InstallerLogChownIgnoredFmt, dir, err)
	}
}

// runAs runs cmd as user through sudo.
func (a *Adapter) runAs(ctx context.Context, op string, user string, cmd backend.Command) error {
	return a.run(ctx, op, backend.Command{Name: "sudo", Args: append([]string{"-u", user}, cmd.Argv()...)})
}

func (a *Adapter) run(ctx context.Context, op string, cmd backend.Command) error {
	rendered := cmd.String()
	a.log.Debugf(messages.LogExecFmt, rendered)
	out, err := a.sys.Run(ctx, cmd.Name, cmd.Args...)
	if err != nil {
		if len(out) > 0 {
			a.log.Info(string(out))
		}
		a.log.Debugf(messages.LogExecFailedFmt, rendered, err)
		return newCommandError(op, rendered, out, err)
	}
	if len(out) > 0 {
		a.log.Debug(string(out))
	}
	return nil
}
