package cli

import (
	"fmt"
	"time"

	"github.com/alexanderramin/mirror/internal/cli/formatter"
	"github.com/alexanderramin/mirror/internal/domain"
	"github.com/alexanderramin/mirror/internal/httpapi"
	"github.com/spf13/cobra"
)

func newAccountCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Create and inspect accounts",
	}
	cmd.AddCommand(
		newAccountCreateCmd(app),
		newAccountStartTrialCmd(app),
		newAccountShowCmd(app),
		newAccountListCmd(app),
		newAccountTokenCmd(app),
	)
	return cmd
}

func newAccountCreateCmd(app *App) *cobra.Command {
	var name, tz string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an onboarding account",
		RunE: func(cmd *cobra.Command, args []string) error {
			acc := &domain.Account{DisplayName: name, Timezone: tz}
			if err := app.Activity.CreateAccount(cmd.Context(), acc); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created account %s (%s)\n", formatter.Bold(acc.ID), acc.Timezone)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&tz, "tz", "UTC", "IANA time zone the user lives in")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newAccountStartTrialCmd(app *App) *cobra.Command {
	var s scope
	var on string
	cmd := &cobra.Command{
		Use:   "start-trial",
		Short: "Begin the 21-day trial",
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := parseOptionalDay("on", on)
			if err != nil {
				return err
			}
			now, err := s.at()
			if err != nil {
				return err
			}
			acc, err := app.Activity.StartTrial(cmd.Context(), s.user, start, nowOr(now))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Trial started on %s for %s\n", acc.TrialStartDate, acc.DisplayName)
			return nil
		},
	}
	s.bind(cmd, true, true)
	cmd.Flags().StringVar(&on, "on", "", "First trial day (YYYY-MM-DD); defaults to the user's today")
	return cmd
}

func newAccountShowCmd(app *App) *cobra.Command {
	var s scope
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show one account",
		RunE: func(cmd *cobra.Command, args []string) error {
			acc, err := app.Activity.GetAccount(cmd.Context(), s.user)
			if err != nil {
				return err
			}
			trial := formatter.Dim("not started")
			if acc.TrialStartDate != nil {
				trial = acc.TrialStartDate.String()
			}
			out := fmt.Sprintf("%s\nphase    %s\ntimezone %s\ntrial    %s\ncreated  %s",
				formatter.Bold(acc.DisplayName), formatter.PhasePill(acc.Phase), acc.Timezone, trial,
				formatter.Timestamp(acc.CreatedAt))
			fmt.Fprintln(cmd.OutOrStdout(), formatter.RenderBox("Account "+acc.ID, out))
			return nil
		},
	}
	s.bind(cmd, false, true)
	return cmd
}

func newAccountListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			accounts, err := app.Activity.ListAccounts(cmd.Context())
			if err != nil {
				return err
			}
			if len(accounts) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("No accounts."))
				return nil
			}
			rows := make([][]string, 0, len(accounts))
			for _, a := range accounts {
				trial := "--"
				if a.TrialStartDate != nil {
					trial = a.TrialStartDate.String()
				}
				rows = append(rows, []string{a.ID, a.DisplayName, formatter.PhasePill(a.Phase), trial})
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.RenderTable([]string{"ID", "NAME", "PHASE", "TRIAL"}, rows))
			return nil
		},
	}
}

func newAccountTokenCmd(app *App) *cobra.Command {
	var s scope
	var ttl time.Duration
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for the HTTP API (development only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.JWTSecret == "" {
				return fmt.Errorf("MIRROR_JWT_SECRET is not set")
			}
			if _, err := app.Activity.GetAccount(cmd.Context(), s.user); err != nil {
				return err
			}
			tok, err := httpapi.IssueToken(app.JWTSecret, s.user, ttl, time.Now())
			if err != nil {
				return fmt.Errorf("signing token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	s.bind(cmd, false, true)
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")
	return cmd
}
