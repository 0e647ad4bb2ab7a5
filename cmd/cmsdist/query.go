package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cms-sw/cmsdist-installer/internal/installer"
	"github.com/cms-sw/cmsdist-installer/internal/messages"
)

// exitAbsent is the query exit status for a package that is not installed.
const exitAbsent = 3

func newQueryCmd(flags *rootFlags) *cobra.Command {
	req := &requestFlags{}
	cmd := &cobra.Command{
		Use:   messages.QueryUse,
		Short: messages.QueryShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, plan, request, err := prepare(cmd, flags, req, args[0])
			if err != nil {
				return err
			}
			var status installer.Status
			err = s.withLock(cmd, plan.Config.InstallPrefix, func() error {
				status, err = s.adapter.Query(cmd.Context(), request)
				return err
			})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if status.State != installer.StatePresent {
				_, _ = fmt.Fprintf(out, messages.QueryAbsentFmt, status.Name)
				return &SilentExitError{Code: exitAbsent}
			}
			_, _ = fmt.Fprintf(out, messages.QueryPresentFmt, status.Name, status.Version)
			return nil
		},
	}
	req.register(cmd)
	return cmd
}

func newInstancesCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   messages.InstancesUse,
		Short: messages.InstancesShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, flags, false)
			if err != nil {
				return err
			}
			statuses, err := s.adapter.Instances(cmd.Context())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.ErrOrStderr(), messages.InstancesUnsupported)
			for _, st := range statuses {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), messages.InstancesLineFmt, st.Name, st.State)
			}
			return nil
		},
	}
}
