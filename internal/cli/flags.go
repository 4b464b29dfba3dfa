package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/alexanderramin/mirror/internal/domain"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// scope carries the --user and --now flags most commands share.
type scope struct {
	user string
	now  string
}

func (s *scope) flagSet(withNow bool) *pflag.FlagSet {
	fs := pflag.NewFlagSet("scope", pflag.ContinueOnError)
	fs.StringVar(&s.user, "user", "", "Account ID")
	if withNow {
		fs.StringVar(&s.now, "now", "", "Evaluate as of this time (RFC3339, or YYYY-MM-DD for noon UTC)")
	}
	return fs
}

// bind adds the scope flags to cmd, marking --user required when asked.
func (s *scope) bind(cmd *cobra.Command, withNow, requireUser bool) {
	cmd.Flags().AddFlagSet(s.flagSet(withNow))
	if requireUser {
		_ = cmd.MarkFlagRequired("user")
	}
}

func (s *scope) at() (*time.Time, error) {
	return parseNow(s.now)
}

func nowOr(at *time.Time) time.Time {
	if at != nil {
		return *at
	}
	return time.Now().UTC()
}

func parseNow(v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return &t, nil
	}
	d, err := domain.ParseDay(v)
	if err != nil {
		return nil, fmt.Errorf("--now: expected RFC3339 or YYYY-MM-DD, got %q", v)
	}
	t := d.Time().Add(12 * time.Hour)
	return &t, nil
}

// parseOptionalDay parses a YYYY-MM-DD flag; empty returns nil.
func parseOptionalDay(flag, v string) (*domain.Day, error) {
	if v == "" {
		return nil, nil
	}
	d, err := domain.ParseDay(v)
	if err != nil {
		return nil, fmt.Errorf("--%s: %w", flag, err)
	}
	return &d, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
