package cli

import (
	"fmt"
	"time"

	"github.com/alexanderramin/mirror/internal/cli/formatter"
	"github.com/alexanderramin/mirror/internal/domain"
	"github.com/spf13/cobra"
)

// activityDay resolves --on, falling back to the account's today at --now.
func activityDay(cmd *cobra.Command, app *App, s *scope, on string) (domain.Day, time.Time, error) {
	at, err := s.at()
	if err != nil {
		return domain.Day{}, time.Time{}, err
	}
	now := nowOr(at)
	d, err := parseOptionalDay("on", on)
	if err != nil {
		return domain.Day{}, now, err
	}
	if d != nil {
		return *d, now, nil
	}
	acc, err := app.Activity.GetAccount(cmd.Context(), s.user)
	if err != nil {
		return domain.Day{}, now, err
	}
	return acc.Today(now), now, nil
}

func newCheckinCmd(app *App) *cobra.Command {
	var s scope
	var on, note string
	var ifThen, voice bool
	cmd := &cobra.Command{
		Use:   "checkin",
		Short: "Log today's check-in",
		RunE: func(cmd *cobra.Command, args []string) error {
			day, now, err := activityDay(cmd, app, &s, on)
			if err != nil {
				return err
			}
			c := &domain.Checkin{
				UserID:          s.user,
				Date:            day,
				Kind:            domain.CheckinText,
				IfThenTriggered: ifThen,
				Note:            note,
				CreatedAt:       now,
			}
			if voice {
				c.Kind = domain.CheckinVoice
			}
			if err := app.Activity.LogCheckin(cmd.Context(), c); err != nil {
				return err
			}
			msg := "Checked in for " + day.String()
			if ifThen {
				msg += formatter.Dim(" (if-then plan used)")
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}
	s.bind(cmd, true, true)
	cmd.Flags().StringVar(&on, "on", "", "Day to log (YYYY-MM-DD); defaults to the user's today")
	cmd.Flags().BoolVar(&ifThen, "if-then", false, "An if-then plan was triggered")
	cmd.Flags().BoolVar(&voice, "voice", false, "Recorded as a voice check-in")
	cmd.Flags().StringVar(&note, "note", "", "Free-form note")
	return cmd
}

func newCommitmentCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "commitment",
		Short: "Manage weekly commitments",
	}
	cmd.AddCommand(newCommitmentAddCmd(app), newCommitmentCompleteCmd(app))
	return cmd
}

func newCommitmentAddCmd(app *App) *cobra.Command {
	var s scope
	var title, due string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a commitment",
		RunE: func(cmd *cobra.Command, args []string) error {
			day, now, err := activityDay(cmd, app, &s, due)
			if err != nil {
				return err
			}
			c := &domain.Commitment{
				UserID:    s.user,
				Title:     title,
				DueDate:   day,
				Status:    domain.CommitmentPending,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := app.Activity.AddCommitment(cmd.Context(), c); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added commitment %s due %s\n", formatter.Bold(c.ID), day)
			return nil
		},
	}
	s.bind(cmd, true, true)
	cmd.Flags().StringVar(&title, "title", "", "What you commit to")
	cmd.Flags().StringVar(&due, "due", "", "Due day (YYYY-MM-DD); defaults to the user's today")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newCommitmentCompleteCmd(app *App) *cobra.Command {
	var now string
	cmd := &cobra.Command{
		Use:   "complete ID",
		Short: "Mark a commitment completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			at, err := parseNow(now)
			if err != nil {
				return err
			}
			c, err := app.Activity.CompleteCommitment(cmd.Context(), args[0], nowOr(at))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Completed %q\n", c.Title)
			return nil
		},
	}
	cmd.Flags().StringVar(&now, "now", "", "Completion time (RFC3339 or YYYY-MM-DD)")
	return cmd
}

func newEvidenceCmd(app *App) *cobra.Command {
	var s scope
	var kind, content, on string
	cmd := &cobra.Command{
		Use:   "evidence",
		Short: "Submit evidence of progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			k := domain.EvidenceKind(kind)
			switch k {
			case domain.EvidenceImage, domain.EvidenceURL, domain.EvidenceNote:
			default:
				return fmt.Errorf("--kind must be one of image, url, note")
			}
			day, now, err := activityDay(cmd, app, &s, on)
			if err != nil {
				return err
			}
			e := &domain.Evidence{UserID: s.user, Kind: k, Date: day, Content: content, CreatedAt: now}
			if err := app.Activity.SubmitEvidence(cmd.Context(), e); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s evidence for %s\n", k, day)
			return nil
		},
	}
	s.bind(cmd, true, true)
	cmd.Flags().StringVar(&kind, "kind", string(domain.EvidenceNote), "image, url or note")
	cmd.Flags().StringVar(&content, "content", "", "Link, path or text")
	cmd.Flags().StringVar(&on, "on", "", "Day the evidence belongs to (YYYY-MM-DD)")
	return cmd
}

func newVowCmd(app *App) *cobra.Command {
	var s scope
	var statement string
	cmd := &cobra.Command{
		Use:   "vow",
		Short: "Set the statement you commit to",
		RunE: func(cmd *cobra.Command, args []string) error {
			at, err := s.at()
			if err != nil {
				return err
			}
			v := &domain.Vow{UserID: s.user, Statement: statement, CreatedAt: nowOr(at)}
			if err := app.Activity.SetVow(cmd.Context(), v); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Vow set: "+formatter.Bold(statement))
			return nil
		},
	}
	s.bind(cmd, true, true)
	cmd.Flags().StringVar(&statement, "statement", "", "The vow")
	_ = cmd.MarkFlagRequired("statement")
	return cmd
}
