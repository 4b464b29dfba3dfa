package cli

import (
	"fmt"

	"github.com/alexanderramin/mirror/internal/app"
	"github.com/alexanderramin/mirror/internal/cli/formatter"
	"github.com/alexanderramin/mirror/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var choiceOptions = []huh.Option[string]{
	huh.NewOption("Pause: keep my data, stop the clock", string(domain.ChoicePause)),
	huh.NewOption("Redesign: new vow, new commitments", string(domain.ChoiceRedesign)),
	huh.NewOption("Terminate: end the program", string(domain.ChoiceTerminate)),
}

func newTerminateCmd(a *App) *cobra.Command {
	var s scope
	var choice string
	cmd := &cobra.Command{
		Use:   "terminate",
		Short: "Answer a pending termination record",
		RunE: func(cmd *cobra.Command, args []string) error {
			now, err := s.at()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if choice == "" {
				if !a.interactive() {
					return fmt.Errorf("--choice is required")
				}
				st, err := a.Violations.Status(cmd.Context(), app.StatusRequest{UserID: s.user, Now: now})
				if err != nil {
					return err
				}
				if st.PendingTermination == nil {
					return app.ErrNoPendingTermination
				}
				fmt.Fprintln(out, formatter.FormatTermination(st.PendingTermination))
				if err := selectPrompt("How do you want to continue?", choiceOptions, &choice); err != nil {
					return err
				}
			}

			res, err := a.Terminations.Resolve(cmd.Context(), app.TerminationChoiceRequest{
				UserID: s.user,
				Choice: domain.FinalChoice(choice),
				Now:    now,
			})
			if err != nil {
				return err
			}
			fmt.Fprint(out, formatter.FormatTerminationResult(res))
			return nil
		},
	}
	s.bind(cmd, true, true)
	cmd.Flags().StringVar(&choice, "choice", "", "pause, redesign or terminate")
	return cmd
}
