package cli

import (
	"fmt"

	"github.com/alexanderramin/mirror/internal/app"
	"github.com/alexanderramin/mirror/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newMetricsCmd(a *App) *cobra.Command {
	var s scope
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "Show process metrics and the current tier",
		RunE: func(cmd *cobra.Command, args []string) error {
			now, err := s.at()
			if err != nil {
				return err
			}
			resp, err := a.Metrics.GetMetrics(cmd.Context(), app.MetricsRequest{UserID: s.user, Now: now})
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), resp)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatMetrics(resp))
			return nil
		},
	}
	s.bind(cmd, true, true)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	return cmd
}

func newReportCmd(a *App) *cobra.Command {
	var s scope
	var asJSON, useLLM bool
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Build the Day-21 commitment report",
		RunE: func(cmd *cobra.Command, args []string) error {
			now, err := s.at()
			if err != nil {
				return err
			}
			stop := func() {}
			if useLLM && a.interactive() {
				stop = formatter.StartSpinner(cmd.ErrOrStderr(), "Writing your report...")
			}
			report, err := a.Metrics.Day21Report(cmd.Context(), app.ReportRequest{UserID: s.user, Now: now, UseLLM: useLLM})
			stop()
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), report)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatReport(report))
			return nil
		},
	}
	s.bind(cmd, true, true)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	cmd.Flags().BoolVar(&useLLM, "llm", false, "Ask the configured LLM to write the narrative")
	return cmd
}
