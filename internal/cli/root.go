package cli

import (
	"context"

	"github.com/alexanderramin/mirror/internal/intelligence"
	"github.com/alexanderramin/mirror/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Activity     service.ActivityService
	Metrics      service.MetricsService
	Violations   service.ViolationService
	Terminations service.TerminationService

	// Narrator writes the nudge shown by `check`; nil uses the fixed text.
	Narrator intelligence.Narrator

	// IsInteractive reports whether prompts may be shown. nil means never.
	IsInteractive func() bool

	// JWTSecret lets `account token` mint development tokens.
	JWTSecret string

	// Serve runs the HTTP API until ctx is cancelled. nil disables `serve`.
	Serve func(ctx context.Context) error
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// NewRootCmd creates the top-level "mirror" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "mirror",
		Short:         "Process-adherence coach: metrics, violations and the Day-21 report",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newAccountCmd(app),
		newCheckinCmd(app),
		newCommitmentCmd(app),
		newEvidenceCmd(app),
		newVowCmd(app),
		newMetricsCmd(app),
		newReportCmd(app),
		newViolationsCmd(app),
		newTerminateCmd(app),
		newCheckCmd(app),
		newServeCmd(app),
	)
	return root
}
