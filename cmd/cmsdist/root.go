package main

import (
	"errors"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cms-sw/cmsdist-installer/internal/backend"
	"github.com/cms-sw/cmsdist-installer/internal/config"
	"github.com/cms-sw/cmsdist-installer/internal/fetch"
	"github.com/cms-sw/cmsdist-installer/internal/installer"
	"github.com/cms-sw/cmsdist-installer/internal/lock"
	"github.com/cms-sw/cmsdist-installer/internal/logger"
	"github.com/cms-sw/cmsdist-installer/internal/messages"
	"github.com/cms-sw/cmsdist-installer/internal/terminal"
)

var (
	getenv         = os.Getenv
	lookupEnv      = os.LookupEnv
	candidatePaths = config.CandidatePaths
	isInteractive  = terminal.IsInteractive
	lockDir        = lock.DefaultDir
	newSystem      = func(f *fetch.Fetcher) installer.System { return installer.RealSystem{Fetcher: f} }
)

// rootFlags are the persistent flags shared by every subcommand.
type rootFlags struct {
	configPath  string
	backend     string
	verbose     bool
	noLock      bool
	lockTimeout time.Duration
	insecure    bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	cmd := &cobra.Command{
		Use:           messages.RootUse,
		Short:         messages.RootShort,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.Flags().BoolP("version", "V", false, messages.RootVersionFlag)

	pf := cmd.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "", messages.RootFlagConfig)
	pf.StringVar(&flags.backend, "backend", "", messages.RootFlagBackend)
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, messages.RootFlagVerbose)
	pf.BoolVar(&flags.noLock, "no-lock", false, messages.RootFlagNoLock)
	pf.DurationVar(&flags.lockTimeout, "lock-timeout", lock.DefaultTimeout, messages.RootFlagLockTimeout)
	pf.BoolVar(&flags.insecure, "insecure", false, messages.RootFlagInsecure)

	cmd.AddCommand(
		newInstallCmd(flags),
		newUninstallCmd(flags),
		newQueryCmd(flags),
		newInstancesCmd(flags),
		newBootstrapCmd(flags),
		newConfigCmd(flags),
		newDoctorCmd(flags),
	)
	return cmd
}

// session holds what one invocation resolved from flags, config file, and environment.
type session struct {
	flags          *rootFlags
	log            *zap.SugaredLogger
	defaults       config.Defaults
	configPath     string
	configFound    bool
	// unknownBackend is the unrecognized backend name a lenient session fell back from.
	unknownBackend string
	adapter        *installer.Adapter
}

// newSession resolves configuration and builds the adapter.
// A broken config file or unknown backend is an error unless lenient is set;
// doctor reports them instead.
func newSession(cmd *cobra.Command, flags *rootFlags, lenient bool) (*session, error) {
	level := logger.LevelWarn
	if flags.verbose {
		level = logger.LevelDebug
	}
	log, err := logger.New(cmd.ErrOrStderr(), level, logger.NewRunID())
	if err != nil {
		return nil, err
	}

	s := &session{flags: flags, log: log}
	path, found, err := config.FindConfigPath(flags.configPath, getenv, candidatePaths())
	if err != nil {
		return nil, err
	}
	s.configPath, s.configFound = path, found

	var layers []config.Settings
	if found {
		fileSettings, err := config.LoadFile(path)
		switch {
		case err == nil:
			layers = append(layers, fileSettings)
		case lenient:
			// Skipped; the caller reports the broken file.
		default:
			return nil, err
		}
	}
	layers = append(layers, config.FromEnv(lookupEnv))
	s.defaults, err = config.NewDefaults(flags.backend, layers...)
	if err != nil && lenient && errors.Is(err, backend.ErrUnknown) {
		s.unknownBackend = config.SelectBackend(flags.backend, layers...)
		s.defaults, err = config.NewDefaults(backend.DefaultName, layers...)
	}
	if err != nil {
		return nil, err
	}

	opts := []fetch.Option{fetch.WithClient(fetch.NewClient(flags.insecure))}
	if isInteractive() && !flags.verbose {
		opts = append(opts, fetch.WithProgress(cmd.ErrOrStderr()))
	}
	s.adapter, err = installer.New(newSystem(fetch.New(opts...)), s.defaults, installer.WithLogger(log))
	if err != nil {
		return nil, err
	}
	log.Debugw("session", "config", path, "backend", s.defaults.Backend())
	return s, nil
}

// withLock runs fn while holding the per-prefix lock unless --no-lock is set.
func (s *session) withLock(cmd *cobra.Command, prefix string, fn func() error) error {
	if s.flags.noLock {
		return fn()
	}
	dir, err := lockDir(getenv)
	if err != nil {
		return err
	}
	return lock.With(cmd.Context(), lock.PathFor(dir, prefix), s.flags.lockTimeout, prefix, cmd.ErrOrStderr(), fn)
}
