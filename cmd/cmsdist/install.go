package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cms-sw/cmsdist-installer/internal/installer"
	"github.com/cms-sw/cmsdist-installer/internal/messages"
)

func newInstallCmd(flags *rootFlags) *cobra.Command {
	req := &requestFlags{}
	cmd := &cobra.Command{
		Use:   messages.InstallUse,
		Short: messages.InstallShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, plan, request, err := prepare(cmd, flags, req, args[0])
			if err != nil {
				return err
			}
			err = s.withLock(cmd, plan.Config.InstallPrefix, func() error {
				return s.adapter.Install(cmd.Context(), request)
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), messages.InstallDoneFmt, plan.Target, plan.Config.InstallPrefix)
			return nil
		},
	}
	req.register(cmd)
	return cmd
}

func newUninstallCmd(flags *rootFlags) *cobra.Command {
	req := &requestFlags{}
	var yes bool
	cmd := &cobra.Command{
		Use:   messages.UninstallUse,
		Short: messages.UninstallShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, plan, request, err := prepare(cmd, flags, req, args[0])
			if err != nil {
				return err
			}
			if !yes && isInteractive() {
				ok, err := confirmFunc(fmt.Sprintf(messages.UninstallPromptFmt, plan.Target, plan.Config.InstallPrefix))
				if err != nil {
					return err
				}
				if !ok {
					_, _ = fmt.Fprintln(cmd.ErrOrStderr(), messages.UninstallAborted)
					return nil
				}
			}
			err = s.withLock(cmd, plan.Config.InstallPrefix, func() error {
				return s.adapter.Uninstall(cmd.Context(), request)
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), messages.UninstallDoneFmt, plan.Target, plan.Config.InstallPrefix)
			return nil
		},
	}
	req.register(cmd)
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, messages.UninstallFlagYes)
	return cmd
}

// prepare builds the session and resolves the named package so the caller
// knows which prefix to lock before acting.
func prepare(cmd *cobra.Command, flags *rootFlags, req *requestFlags, name string) (*session, installer.Plan, installer.Request, error) {
	opts, err := req.Options()
	if err != nil {
		return nil, installer.Plan{}, installer.Request{}, err
	}
	s, err := newSession(cmd, flags, false)
	if err != nil {
		return nil, installer.Plan{}, installer.Request{}, err
	}
	request := installer.Request{Name: name, Options: opts}
	plan, err := s.adapter.Plan(request)
	if err != nil {
		return nil, installer.Plan{}, installer.Request{}, err
	}
	return s, plan, request, nil
}
