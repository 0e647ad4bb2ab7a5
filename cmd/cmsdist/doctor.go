package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/cms-sw/cmsdist-installer/internal/doctor"
	"github.com/cms-sw/cmsdist-installer/internal/messages"
)

func newDoctorCmd(flags *rootFlags) *cobra.Command {
	req := &requestFlags{}
	cmd := &cobra.Command{
		Use:   messages.DoctorUse,
		Short: messages.DoctorShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			cfg, s, err := resolveRequest(cmd, flags, req, true)
			if err != nil {
				return err
			}
			selected := cfg
			if s.unknownBackend != "" {
				selected.Backend = s.unknownBackend
			}
			_, _ = fmt.Fprintf(out, messages.DoctorHealthCheckFmt, cfg.InstallPrefix, selected.Backend)

			results := []doctor.Result{doctor.CheckConfig(s.configPath, s.configFound)}
			results = append(results, doctor.CheckBackend(selected))
			results = append(results, doctor.CheckPrefix(cfg))
			results = append(results, doctor.CheckBootstrap(s.adapter, cfg))
			results = append(results, doctor.CheckTools(cfg.Backend)...)
			results = append(results, doctor.CheckUser(cfg))

			for _, r := range results {
				printResult(out, r)
			}
			if doctor.HasFailure(results) {
				_, _ = fmt.Fprintln(out, color.RedString(messages.DoctorFailureSummary))
				return fmt.Errorf(messages.DoctorFailureError)
			}
			_, _ = fmt.Fprintln(out, color.GreenString(messages.DoctorSuccessSummary))
			return nil
		},
	}
	req.register(cmd)
	return cmd
}

func printResult(out io.Writer, r doctor.Result) {
	var status string
	switch r.Status {
	case doctor.StatusOK:
		status = color.GreenString(messages.DoctorStatusOKLabel)
	case doctor.StatusWarn:
		status = color.YellowString(messages.DoctorStatusWarnLabel)
	case doctor.StatusFail:
		status = color.RedString(messages.DoctorStatusFailLabel)
	}

	_, _ = fmt.Fprintf(out, messages.DoctorResultLineFmt, status, r.CheckName, r.Message)
	if r.Recommendation != "" {
		printRecommendation(out, r.Recommendation)
	}
}

// printRecommendation renders a multi-line recommendation with consistent indentation.
func printRecommendation(out io.Writer, recommendation string) {
	for i, line := range strings.Split(recommendation, "\n") {
		switch {
		case i == 0:
			_, _ = fmt.Fprintf(out, "%s%s\n", messages.DoctorRecommendationPrefix, line)
		case line == "":
			_, _ = fmt.Fprintf(out, "%s\n", messages.DoctorRecommendationIndent)
		default:
			_, _ = fmt.Fprintf(out, "%s%s\n", messages.DoctorRecommendationIndent, line)
		}
	}
}
