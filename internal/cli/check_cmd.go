package cli

import (
	"fmt"

	"github.com/alexanderramin/mirror/internal/app"
	"github.com/alexanderramin/mirror/internal/checker"
	"github.com/alexanderramin/mirror/internal/cli/formatter"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newCheckCmd(a *App) *cobra.Command {
	var s scope
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Walk through this week's warning, renegotiation or termination screen",
		RunE: func(cmd *cobra.Command, args []string) error {
			now, err := s.at()
			if err != nil {
				return err
			}
			if !a.interactive() {
				st, err := a.Violations.Status(cmd.Context(), app.StatusRequest{UserID: s.user, Now: now})
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatStatus(st))
				fmt.Fprintf(cmd.OutOrStdout(), "screen: %s\n", checker.Route(*st))
				return nil
			}
			m := newCheckModel(cmd.Context(), a, s.user, now)
			p := tea.NewProgram(m,
				tea.WithContext(cmd.Context()),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
			)
			final, err := p.Run()
			if err != nil {
				return err
			}
			if fm, ok := final.(checkModel); ok && fm.err != nil {
				return fm.err
			}
			return nil
		},
	}
	s.bind(cmd, true, true)
	return cmd
}
