package main

import (
	"fmt"
	"strings"

	"github.com/aymanbagabas/go-udiff"
	"github.com/spf13/cobra"

	"github.com/cms-sw/cmsdist-installer/internal/config"
	"github.com/cms-sw/cmsdist-installer/internal/messages"
)

func newConfigCmd(flags *rootFlags) *cobra.Command {
	req := &requestFlags{}
	var diff bool
	cmd := &cobra.Command{
		Use:   messages.ConfigUse,
		Short: messages.ConfigShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, s, err := resolveRequest(cmd, flags, req, false)
			if err != nil {
				return err
			}
			if s.configFound {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), messages.ConfigSourceFmt, s.configPath)
			} else {
				_, _ = fmt.Fprintln(cmd.ErrOrStderr(), messages.ConfigSourceNone)
			}
			effective, err := config.MarshalTOML(cfg)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !diff {
				_, _ = fmt.Fprint(out, effective)
				return nil
			}
			builtin, err := config.Builtin(cfg.Backend)
			if err != nil {
				return err
			}
			base, err := config.MarshalTOML(builtin.Settings())
			if err != nil {
				return err
			}
			rendered := strings.TrimSpace(udiff.Unified(messages.ConfigDiffFromName, messages.ConfigDiffToName, base, effective))
			if rendered == "" {
				_, _ = fmt.Fprintln(out, messages.ConfigNoDiff)
				return nil
			}
			_, _ = fmt.Fprintln(out, rendered)
			return nil
		},
	}
	req.register(cmd)
	cmd.Flags().BoolVar(&diff, "diff", false, messages.ConfigFlagDiff)
	return cmd
}
