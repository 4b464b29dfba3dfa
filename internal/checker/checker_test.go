package checker

import (
	"testing"

	"github.com/alexanderramin/mirror/internal/app"
	"github.com/alexanderramin/mirror/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const week = 202642

func statusWith(views ...app.ViolationView) app.ViolationStatus {
	return app.ViolationStatus{WeekNumber: week, OpenViolations: views}
}

func open(id string, sev domain.Severity) app.ViolationView {
	return app.ViolationView{ID: id, Severity: sev, WeekNumber: week, Type: domain.ViolationAbsence}
}

func TestRoute(t *testing.T) {
	lastWeek := open("old", domain.SeverityRenegotiation)
	lastWeek.WeekNumber = week - 1

	tests := []struct {
		name   string
		status app.ViolationStatus
		want   Screen
	}{
		{"nothing open", statusWith(), ScreenNone},
		{"warning", statusWith(open("a", domain.SeverityWarning)), ScreenWarning},
		{"renegotiation", statusWith(open("a", domain.SeverityWarning), open("b", domain.SeverityRenegotiation)), ScreenRenegotiation},
		{"severity three without pending record", statusWith(open("a", domain.SeverityTermination)), ScreenRenegotiation},
		{"previous week ignored", statusWith(lastWeek), ScreenNone},
		{"pending termination wins", app.ViolationStatus{
			WeekNumber:         week,
			PendingTermination: &app.TerminationView{ID: "t"},
		}, ScreenTermination},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Route(tt.status))
		})
	}
}

func TestRoute_ResolvedViolationsIgnored(t *testing.T) {
	v := open("a", domain.SeverityRenegotiation)
	r := domain.ResolutionRenegotiated
	v.Resolution = &r
	v.ResolvedAt = &v.DetectedAt
	assert.Equal(t, ScreenNone, Route(statusWith(v)))
}

func TestTransition_WarningAccept(t *testing.T) {
	s := statusWith(open("a", domain.SeverityWarning), open("b", domain.SeverityWarning))

	next, cmd, err := Transition(s, ScreenWarning, Action{Kind: ActionAccept})
	require.NoError(t, err)
	assert.Equal(t, ScreenNone, next)
	assert.Equal(t, CommandResolve, cmd.Kind)
	assert.Equal(t, domain.ResolutionWarningAccepted, cmd.Resolution)
	assert.Equal(t, []string{"a", "b"}, cmd.ViolationIDs)
}

func TestTransition_RenegotiationChoices(t *testing.T) {
	s := statusWith(open("a", domain.SeverityRenegotiation))

	_, cmd, err := Transition(s, ScreenRenegotiation, Action{Kind: ActionRenegotiate})
	require.NoError(t, err)
	assert.Equal(t, domain.ResolutionRenegotiated, cmd.Resolution)

	_, cmd, err = Transition(s, ScreenRenegotiation, Action{Kind: ActionContinue})
	require.NoError(t, err)
	assert.Equal(t, domain.ResolutionContinued, cmd.Resolution)

	next, cmd, err := Transition(s, ScreenRenegotiation, Action{Kind: ActionLater})
	require.NoError(t, err)
	assert.Equal(t, ScreenNone, next)
	assert.Equal(t, CommandNone, cmd.Kind)
}

func TestTransition_TerminationBlocksUntilChoice(t *testing.T) {
	s := app.ViolationStatus{PendingTermination: &app.TerminationView{ID: "t"}}

	next, _, err := Transition(s, ScreenTermination, Action{Kind: ActionLater})
	assert.ErrorIs(t, err, ErrActionNotAllowed)
	assert.Equal(t, ScreenTermination, next)

	_, _, err = Transition(s, ScreenTermination, Action{Kind: ActionChoose, Choice: "maybe"})
	assert.ErrorIs(t, err, domain.ErrInvalidChoice)

	next, cmd, err := Transition(s, ScreenTermination, Action{Kind: ActionChoose, Choice: domain.ChoiceRedesign})
	require.NoError(t, err)
	assert.Equal(t, ScreenNone, next)
	assert.Equal(t, Command{Kind: CommandChoose, Choice: domain.ChoiceRedesign}, cmd)
}

func TestTransition_WrongScreenAction(t *testing.T) {
	_, _, err := Transition(statusWith(), ScreenWarning, Action{Kind: ActionRenegotiate})
	assert.ErrorIs(t, err, ErrActionNotAllowed)

	_, _, err = Transition(statusWith(), ScreenNone, Action{Kind: ActionAccept})
	assert.ErrorIs(t, err, ErrActionNotAllowed)
}

func TestActions(t *testing.T) {
	assert.Equal(t, []ActionKind{ActionChoose}, Actions(ScreenTermination))
	assert.Nil(t, Actions(ScreenNone))
	for _, screen := range []Screen{ScreenWarning, ScreenRenegotiation, ScreenTermination} {
		s := statusWith(open("a", domain.SeverityWarning))
		s.PendingTermination = &app.TerminationView{ID: "t"}
		for _, kind := range Actions(screen) {
			a := Action{Kind: kind, Choice: domain.ChoicePause}
			_, _, err := Transition(s, screen, a)
			assert.NoError(t, err, "%s on %s", kind, screen)
		}
	}
}
