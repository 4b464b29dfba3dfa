package service

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/mirror/internal/app"
	"github.com/alexanderramin/mirror/internal/domain"
	"github.com/alexanderramin/mirror/internal/repository"
	"github.com/alexanderramin/mirror/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var choiceNow = testutil.At(2026, time.October, 16, 9)

func TestTerminationResolve_Pause(t *testing.T) {
	database := testutil.NewTestDB(t)
	seed := newSeeder(t, database)
	acc := seed.account("Ana")
	rec := seed.termination(acc.ID)

	svc := NewTerminationService(testutil.NewTestUoW(database))
	result, err := svc.Resolve(seed.ctx, app.TerminationChoiceRequest{UserID: acc.ID, Choice: domain.ChoicePause, Now: choiceNow})
	require.NoError(t, err)
	assert.Equal(t, rec.ID, result.RecordID)
	assert.Equal(t, domain.PhasePaused, result.Phase)
	assert.False(t, result.VowInvalidated)

	stored, err := repository.NewSQLiteAccountRepo(database).GetByID(seed.ctx, acc.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PhasePaused, stored.Phase)

	records, err := repository.NewSQLiteTerminationRepo(database).ListByUser(seed.ctx, acc.ID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, domain.ChoicePause, records[0].FinalChoice)
	require.NotNil(t, records[0].RespondedAt)
	assert.True(t, records[0].RespondedAt.Equal(*choiceNow))
}

func TestTerminationResolve_Terminate(t *testing.T) {
	database := testutil.NewTestDB(t)
	seed := newSeeder(t, database)
	acc := seed.account("Ana")
	seed.termination(acc.ID)

	result, err := NewTerminationService(testutil.NewTestUoW(database)).Resolve(seed.ctx,
		app.TerminationChoiceRequest{UserID: acc.ID, Choice: domain.ChoiceTerminate, Now: choiceNow})
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseTerminated, result.Phase)
}

func TestTerminationResolve_RedesignInvalidatesVowAndPendingCommitments(t *testing.T) {
	database := testutil.NewTestDB(t)
	seed := newSeeder(t, database)
	acc := seed.account("Ana")
	seed.termination(acc.ID)
	require.NoError(t, repository.NewSQLiteVowRepo(database).Create(seed.ctx, testutil.NewTestVow(acc.ID, "I write every morning")))
	done := seed.commitment(acc.ID, day(time.October, 12), testutil.WithCompleted())
	seed.commitment(acc.ID, day(time.October, 14))
	seed.commitment(acc.ID, day(time.October, 20))

	result, err := NewTerminationService(testutil.NewTestUoW(database)).Resolve(seed.ctx,
		app.TerminationChoiceRequest{UserID: acc.ID, Choice: domain.ChoiceRedesign, Now: choiceNow})
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseOnboarding, result.Phase)
	assert.True(t, result.VowInvalidated)
	assert.Equal(t, int64(2), result.InvalidatedCommitments)

	_, err = repository.NewSQLiteVowRepo(database).GetCurrent(seed.ctx, acc.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	live, err := repository.NewSQLiteCommitmentRepo(database).ListByUser(seed.ctx, acc.ID, day(time.October, 1), day(time.October, 31))
	require.NoError(t, err)
	require.Len(t, live, 1, "completed commitments survive a redesign")
	assert.Equal(t, done.ID, live[0].ID)
}

func TestTerminationResolve_SecondAnswerIsAlreadyResolved(t *testing.T) {
	database := testutil.NewTestDB(t)
	seed := newSeeder(t, database)
	acc := seed.account("Ana")
	seed.termination(acc.ID)
	svc := NewTerminationService(testutil.NewTestUoW(database))

	_, err := svc.Resolve(seed.ctx, app.TerminationChoiceRequest{UserID: acc.ID, Choice: domain.ChoicePause, Now: choiceNow})
	require.NoError(t, err)

	_, err = svc.Resolve(seed.ctx, app.TerminationChoiceRequest{UserID: acc.ID, Choice: domain.ChoiceTerminate, Now: choiceNow})
	assert.ErrorIs(t, err, domain.ErrAlreadyResolved)

	stored, err := repository.NewSQLiteAccountRepo(database).GetByID(seed.ctx, acc.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PhasePaused, stored.Phase, "second answer changes nothing")
}

func TestTerminationResolve_ConcurrentAnswersOneWins(t *testing.T) {
	database := testutil.NewTestDB(t)
	seed := newSeeder(t, database)
	acc := seed.account("Ana")
	seed.termination(acc.ID)
	svc := NewTerminationService(testutil.NewTestUoW(database))

	choices := []domain.FinalChoice{domain.ChoicePause, domain.ChoiceTerminate, domain.ChoiceRedesign}
	errs := make([]error, len(choices))
	var wg sync.WaitGroup
	for i, c := range choices {
		wg.Add(1)
		go func(i int, c domain.FinalChoice) {
			defer wg.Done()
			_, errs[i] = svc.Resolve(seed.ctx, app.TerminationChoiceRequest{UserID: acc.ID, Choice: c, Now: choiceNow})
		}(i, c)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrAlreadyResolved)
	}
	assert.Equal(t, 1, succeeded)
}

func TestTerminationResolve_NoRecord(t *testing.T) {
	database := testutil.NewTestDB(t)
	seed := newSeeder(t, database)
	acc := seed.account("Ana")

	_, err := NewTerminationService(testutil.NewTestUoW(database)).Resolve(seed.ctx,
		app.TerminationChoiceRequest{UserID: acc.ID, Choice: domain.ChoicePause})
	assert.ErrorIs(t, err, app.ErrNoPendingTermination)
}

func TestTerminationResolve_InvalidChoice(t *testing.T) {
	database := testutil.NewTestDB(t)
	seed := newSeeder(t, database)
	acc := seed.account("Ana")
	seed.termination(acc.ID)

	for _, choice := range []domain.FinalChoice{"", domain.ChoicePending, "quit"} {
		_, err := NewTerminationService(testutil.NewTestUoW(database)).Resolve(seed.ctx,
			app.TerminationChoiceRequest{UserID: acc.ID, Choice: choice})
		assert.ErrorIs(t, err, domain.ErrInvalidChoice, "choice %q", choice)
	}
}

func TestTerminationResolve_RollbackOnVowFailure(t *testing.T) {
	database := testutil.NewTestDB(t)
	seed := newSeeder(t, database)
	acc := seed.account("Ana")
	seed.termination(acc.ID)
	require.NoError(t, repository.NewSQLiteVowRepo(database).Create(seed.ctx, testutil.NewTestVow(acc.ID, "I ship weekly")))

	// Exec 1 marks the record, 2 updates the phase, 3 invalidates the vow.
	failing := testutil.NewFailingUoW(database, 3, errors.New("injected vow failure"))
	_, err := NewTerminationService(failing).Resolve(seed.ctx,
		app.TerminationChoiceRequest{UserID: acc.ID, Choice: domain.ChoiceRedesign, Now: choiceNow})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "injected vow failure")

	rec, err := repository.NewSQLiteTerminationRepo(database).GetPending(seed.ctx, acc.ID)
	require.NoError(t, err, "record is still pending after rollback")
	assert.True(t, rec.Pending())

	stored, err := repository.NewSQLiteAccountRepo(database).GetByID(seed.ctx, acc.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseTrial, stored.Phase)

	_, err = repository.NewSQLiteVowRepo(database).GetCurrent(seed.ctx, acc.ID)
	assert.NoError(t, err)
}
