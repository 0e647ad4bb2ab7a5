package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cms-sw/cmsdist-installer/internal/config"
	"github.com/cms-sw/cmsdist-installer/internal/messages"
)

func newBootstrapCmd(flags *rootFlags) *cobra.Command {
	req := &requestFlags{}
	cmd := &cobra.Command{
		Use:   messages.BootstrapUse,
		Short: messages.BootstrapShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, s, err := resolveRequest(cmd, flags, req, false)
			if err != nil {
				return err
			}
			err = s.withLock(cmd, cfg.InstallPrefix, func() error {
				return s.adapter.EnsureBootstrap(cmd.Context(), cfg)
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), messages.BootstrapDoneFmt, cfg.InstallPrefix, cfg.Architecture)
			return nil
		},
	}
	req.register(cmd)
	return cmd
}

// resolveRequest validates the request flags and resolves them over the session defaults.
func resolveRequest(cmd *cobra.Command, flags *rootFlags, req *requestFlags, lenient bool) (config.Effective, *session, error) {
	opts, err := req.Options()
	if err != nil {
		return config.Effective{}, nil, err
	}
	if err := opts.Validate(); err != nil {
		return config.Effective{}, nil, err
	}
	s, err := newSession(cmd, flags, lenient)
	if err != nil {
		return config.Effective{}, nil, err
	}
	return config.Resolve(s.defaults, opts), s, nil
}
