package cli

import (
	"fmt"

	"github.com/alexanderramin/mirror/internal/app"
	"github.com/alexanderramin/mirror/internal/cli/formatter"
	"github.com/alexanderramin/mirror/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

func newViolationsCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "violations",
		Aliases: []string{"v"},
		Short:   "Weekly violation scan and escalation",
	}
	cmd.AddCommand(
		newViolationsScanCmd(a),
		newViolationsListCmd(a),
		newViolationsStatusCmd(a),
		newViolationsResolveCmd(a),
		newViolationsFlagCmd(a),
	)
	return cmd
}

func newViolationsScanCmd(a *App) *cobra.Command {
	var now string
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Run the weekly violation scan for all active users",
		RunE: func(cmd *cobra.Command, args []string) error {
			at, err := parseNow(now)
			if err != nil {
				return err
			}
			res, err := a.Violations.RunWeeklyScan(cmd.Context(), app.ScanRequest{Now: at})
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), res)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatScanResult(res))
			return nil
		},
	}
	cmd.Flags().StringVar(&now, "now", "", "Scan as of this time (RFC3339 or YYYY-MM-DD)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	return cmd
}

func newViolationsListCmd(a *App) *cobra.Command {
	var s scope
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List every logged violation, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			views, err := a.Violations.List(cmd.Context(), s.user)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), views)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatViolations(views))
			return nil
		},
	}
	s.bind(cmd, false, true)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	return cmd
}

func newViolationsStatusCmd(a *App) *cobra.Command {
	var s scope
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show open violations and the escalation level",
		RunE: func(cmd *cobra.Command, args []string) error {
			now, err := s.at()
			if err != nil {
				return err
			}
			st, err := a.Violations.Status(cmd.Context(), app.StatusRequest{UserID: s.user, Now: now})
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), st)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatStatus(st))
			return nil
		},
	}
	s.bind(cmd, true, true)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	return cmd
}

var resolutionOptions = []huh.Option[string]{
	huh.NewOption("Accept the warning", string(domain.ResolutionWarningAccepted)),
	huh.NewOption("Renegotiate my commitments", string(domain.ResolutionRenegotiated)),
	huh.NewOption("Continue as planned", string(domain.ResolutionContinued)),
	huh.NewOption("Dismiss (this was not a violation)", string(domain.ResolutionDismissed)),
}

func newViolationsResolveCmd(a *App) *cobra.Command {
	var s scope
	var resolution, response string
	cmd := &cobra.Command{
		Use:   "resolve ID",
		Short: "Record your response to a violation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if resolution == "" {
				if !a.interactive() {
					return fmt.Errorf("--resolution is required")
				}
				if err := selectPrompt("How do you want to resolve this?", resolutionOptions, &resolution); err != nil {
					return err
				}
			}
			now, err := s.at()
			if err != nil {
				return err
			}
			v, err := a.Violations.ResolveViolation(cmd.Context(), app.ResolveViolationRequest{
				UserID:       s.user,
				ViolationID:  args[0],
				Resolution:   domain.Resolution(resolution),
				UserResponse: response,
				Now:          now,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Resolved %s %s as %s\n",
				formatter.TruncID(v.ID), v.Type, formatter.Bold(string(*v.Resolution)))
			return nil
		},
	}
	s.bind(cmd, true, false)
	cmd.Flags().StringVar(&resolution, "resolution", "", "warning_accepted, renegotiated, continued or dismissed")
	cmd.Flags().StringVar(&response, "response", "", "Optional note kept with the resolution")
	return cmd
}

func newViolationsFlagCmd(a *App) *cobra.Command {
	var s scope
	var typ string
	cmd := &cobra.Command{
		Use:   "flag",
		Short: "Record a violation the weekly scan cannot detect",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !domain.ValidViolationTypes[typ] {
				return fmt.Errorf("--type must be one of commitment_miss, absence, false_report")
			}
			now, err := s.at()
			if err != nil {
				return err
			}
			res, err := a.Violations.ReportViolation(cmd.Context(), app.ManualViolationRequest{
				UserID: s.user,
				Type:   domain.ViolationType(typ),
				Now:    now,
			})
			if err != nil {
				return err
			}
			v := res.Violation
			if !res.Created {
				fmt.Fprintf(cmd.OutOrStdout(), "%s already logged for %s (%s)\n",
					v.Type, formatter.WeekLabel(v.WeekNumber), formatter.TruncID(v.ID))
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged %s for %s %s\n",
				v.Type, formatter.WeekLabel(v.WeekNumber), formatter.SeverityIndicator(v.Severity))
			return nil
		},
	}
	s.bind(cmd, true, true)
	cmd.Flags().StringVar(&typ, "type", string(domain.ViolationFalseReport), "commitment_miss, absence or false_report")
	return cmd
}
