package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccount_LocationFallsBackToUTC(t *testing.T) {
	assert.Equal(t, time.UTC, (&Account{}).Location())
	assert.Equal(t, time.UTC, (&Account{Timezone: "Nowhere/Special"}).Location())
	assert.Equal(t, "America/New_York", (&Account{Timezone: "America/New_York"}).Location().String())
}

func TestAccount_Today(t *testing.T) {
	a := &Account{Timezone: "America/Los_Angeles"}
	now := time.Date(2026, time.October, 16, 3, 0, 0, 0, time.UTC)
	assert.Equal(t, NewDay(2026, time.October, 15), a.Today(now))
}

func TestAccount_IsActive(t *testing.T) {
	for phase, want := range map[AccountPhase]bool{
		PhaseOnboarding: false,
		PhaseTrial:      true,
		PhaseActive:     true,
		PhasePaused:     false,
		PhaseTerminated: false,
	} {
		assert.Equal(t, want, (&Account{Phase: phase}).IsActive(), phase)
	}
}

func TestAccount_StartTrial(t *testing.T) {
	now := time.Date(2026, time.October, 1, 9, 0, 0, 0, time.UTC)
	start := NewDay(2026, time.October, 1)

	a := &Account{Phase: PhaseOnboarding}
	require.NoError(t, a.StartTrial(start, now))
	assert.Equal(t, PhaseTrial, a.Phase)
	assert.Equal(t, start, *a.TrialStartDate)
	assert.Equal(t, now, a.UpdatedAt)

	assert.Error(t, a.StartTrial(start, now), "already in trial")
	assert.Error(t, (&Account{Phase: PhaseTerminated}).StartTrial(start, now))
}

func TestAccount_StartTrial_ResumeKeepsOriginalStart(t *testing.T) {
	now := time.Date(2026, time.November, 2, 9, 0, 0, 0, time.UTC)
	original := NewDay(2026, time.October, 1)

	a := &Account{Phase: PhasePaused, TrialStartDate: &original}
	require.NoError(t, a.StartTrial(NewDay(2026, time.November, 2), now))
	assert.Equal(t, PhaseTrial, a.Phase)
	assert.Equal(t, original, *a.TrialStartDate)

	fresh := &Account{Phase: PhasePaused}
	require.NoError(t, fresh.StartTrial(NewDay(2026, time.November, 2), now))
	assert.Equal(t, NewDay(2026, time.November, 2), *fresh.TrialStartDate)
}

func TestAccount_StartTrial_AfterRedesignRestarts(t *testing.T) {
	now := time.Date(2026, time.November, 2, 9, 0, 0, 0, time.UTC)
	original := NewDay(2026, time.October, 1)

	a := &Account{Phase: PhaseTrial, TrialStartDate: &original}
	require.NoError(t, a.ApplyChoice(ChoiceRedesign, now))
	require.NoError(t, a.StartTrial(NewDay(2026, time.November, 2), now))
	assert.Equal(t, NewDay(2026, time.November, 2), *a.TrialStartDate)
}

func TestAccount_ApplyChoice(t *testing.T) {
	now := time.Date(2026, time.October, 20, 9, 0, 0, 0, time.UTC)
	tests := []struct {
		choice FinalChoice
		want   AccountPhase
	}{
		{ChoicePause, PhasePaused},
		{ChoiceRedesign, PhaseOnboarding},
		{ChoiceTerminate, PhaseTerminated},
	}
	for _, tt := range tests {
		t.Run(string(tt.choice), func(t *testing.T) {
			a := &Account{Phase: PhaseTrial}
			require.NoError(t, a.ApplyChoice(tt.choice, now))
			assert.Equal(t, tt.want, a.Phase)
		})
	}

	a := &Account{Phase: PhaseTrial}
	assert.ErrorIs(t, a.ApplyChoice(ChoicePending, now), ErrInvalidChoice)
	assert.Equal(t, PhaseTrial, a.Phase)
}

func TestCommitment_Complete(t *testing.T) {
	now := time.Date(2026, time.October, 15, 18, 0, 0, 0, time.UTC)

	c := &Commitment{ID: "c1", Status: CommitmentPending}
	require.NoError(t, c.Complete(now))
	assert.Equal(t, CommitmentCompleted, c.Status)
	assert.Equal(t, now, *c.CompletedAt)
	assert.Error(t, c.Complete(now))

	gone := &Commitment{ID: "c2", Status: CommitmentPending, InvalidatedAt: &now}
	assert.Error(t, gone.Complete(now))
}
