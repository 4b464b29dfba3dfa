package cli

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/mirror/internal/app"
	"github.com/alexanderramin/mirror/internal/checker"
	"github.com/alexanderramin/mirror/internal/domain"
	"github.com/alexanderramin/mirror/internal/repository"
	"github.com/alexanderramin/mirror/internal/testutil"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// drain runs cmd and feeds every resulting message back into the model,
// skipping spinner ticks.
func drain(t *testing.T, m checkModel, cmd tea.Cmd) checkModel {
	t.Helper()
	for cmd != nil {
		msg := cmd()
		cmd = nil
		switch msg := msg.(type) {
		case tea.BatchMsg:
			for _, c := range msg {
				if c == nil {
					continue
				}
				m = drain(t, m, c)
			}
		case statusLoadedMsg, commandDoneMsg:
			var next tea.Model
			next, cmd = m.Update(msg)
			m = next.(checkModel)
		}
	}
	return m
}

func press(t *testing.T, m checkModel, k tea.KeyType) (checkModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(tea.KeyMsg{Type: k})
	return next.(checkModel), cmd
}

func loadedModel(t *testing.T, a *App, userID string) checkModel {
	t.Helper()
	m := newCheckModel(context.Background(), a, userID, testutil.At(2026, time.October, 15, 12))
	return drain(t, m, m.Init())
}

func TestCheckModel_NoViolations(t *testing.T) {
	a, database := testApp(t)
	acc := seedTrialUser(t, database)

	m := loadedModel(t, a, acc.ID)
	assert.False(t, m.loading)
	assert.Equal(t, checker.ScreenNone, m.screen)
	assert.Empty(t, m.options)
	assert.Contains(t, m.View(), "No open violations")
}

func TestCheckModel_WarningAccept(t *testing.T) {
	a, database := testApp(t)
	acc := seedTrialUser(t, database)
	res, err := a.Violations.ReportViolation(context.Background(), app.ManualViolationRequest{
		UserID: acc.ID, Type: domain.ViolationAbsence, Now: testutil.At(2026, time.October, 15, 9),
	})
	require.NoError(t, err)

	m := loadedModel(t, a, acc.ID)
	require.Equal(t, checker.ScreenWarning, m.screen)
	require.Len(t, m.options, 3)
	assert.Equal(t, "A one-line check-in counts. Try one today, however small.", m.nudge)
	assert.Contains(t, m.View(), "WARNING")

	m, cmd := press(t, m, tea.KeyEnter)
	assert.True(t, m.loading)
	m = drain(t, m, cmd)

	assert.NoError(t, m.err)
	assert.Equal(t, checker.ScreenNone, m.screen)
	assert.Contains(t, m.message, "warning_accepted")

	views, err := a.Violations.List(context.Background(), acc.ID)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, res.Violation.ID, views[0].ID)
	require.NotNil(t, views[0].Resolution)
	assert.Equal(t, domain.ResolutionWarningAccepted, *views[0].Resolution)
}

func TestCheckModel_LaterSendsNothing(t *testing.T) {
	a, database := testApp(t)
	acc := seedTrialUser(t, database)
	_, err := a.Violations.ReportViolation(context.Background(), app.ManualViolationRequest{
		UserID: acc.ID, Type: domain.ViolationCommitmentMiss, Now: testutil.At(2026, time.October, 15, 9),
	})
	require.NoError(t, err)

	m := loadedModel(t, a, acc.ID)
	m, _ = press(t, m, tea.KeyDown)
	m, _ = press(t, m, tea.KeyDown)
	m, _ = press(t, m, tea.KeyDown)
	assert.Equal(t, 2, m.cursor, "cursor stops at the last option")

	m, cmd := press(t, m, tea.KeyEnter)
	m = drain(t, m, cmd)

	assert.Equal(t, checker.ScreenWarning, m.screen, "violation stays open")
	assert.Contains(t, m.message, "ask again")
}

func TestCheckModel_TerminationChoice(t *testing.T) {
	a, database := testApp(t)
	acc := seedTrialUser(t, database)
	_, err := repository.NewSQLiteTerminationRepo(database).Insert(context.Background(), testutil.NewTestTermination(acc.ID))
	require.NoError(t, err)

	m := loadedModel(t, a, acc.ID)
	require.Equal(t, checker.ScreenTermination, m.screen)
	require.Len(t, m.options, 3)
	assert.Contains(t, m.View(), "DECISION NEEDED")

	m, _ = press(t, m, tea.KeyDown)
	assert.Equal(t, domain.ChoiceRedesign, m.options[m.cursor].action.Choice)

	m, cmd := press(t, m, tea.KeyEnter)
	m = drain(t, m, cmd)

	require.NoError(t, m.err)
	assert.Equal(t, checker.ScreenNone, m.screen)

	got, err := a.Activity.GetAccount(context.Background(), acc.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseOnboarding, got.Phase)
}

func TestCheckModel_LoadError(t *testing.T) {
	a, _ := testApp(t)

	m := loadedModel(t, a, "missing")
	assert.ErrorIs(t, m.err, app.ErrUserNotFound)
	assert.Contains(t, m.View(), "Error:")
}

func TestCheckModel_QuitKey(t *testing.T) {
	a, database := testApp(t)
	acc := seedTrialUser(t, database)

	m := loadedModel(t, a, acc.ID)
	m, cmd := press(t, m, tea.KeyEsc)
	assert.True(t, m.quitting)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, m.View())
}
