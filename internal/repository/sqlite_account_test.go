package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/mirror/internal/domain"
	"github.com/alexanderramin/mirror/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountRepo_CreateAndGetByID(t *testing.T) {
	repo := NewSQLiteAccountRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	start := domain.NewDay(2026, time.October, 1)
	acc := testutil.NewTestAccount("Ada", testutil.WithTrialStart(start), testutil.WithTimezone("Asia/Tokyo"))
	require.NoError(t, repo.Create(ctx, acc))

	got, err := repo.GetByID(ctx, acc.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", got.DisplayName)
	assert.Equal(t, domain.PhaseTrial, got.Phase)
	assert.Equal(t, "Asia/Tokyo", got.Timezone)
	require.NotNil(t, got.TrialStartDate)
	assert.Equal(t, start, *got.TrialStartDate)
}

func TestAccountRepo_GetByID_NotFound(t *testing.T) {
	repo := NewSQLiteAccountRepo(testutil.NewTestDB(t))

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAccountRepo_ListActive(t *testing.T) {
	repo := NewSQLiteAccountRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	trial := testutil.NewTestAccount("trial")
	active := testutil.NewTestAccount("active", testutil.WithPhase(domain.PhaseActive))
	paused := testutil.NewTestAccount("paused", testutil.WithPhase(domain.PhasePaused))
	onboarding := testutil.NewTestAccount("new", testutil.WithoutTrial())
	for _, a := range []*domain.Account{trial, active, paused, onboarding} {
		require.NoError(t, repo.Create(ctx, a))
	}

	list, err := repo.ListActive(ctx)
	require.NoError(t, err)
	ids := make([]string, 0, len(list))
	for _, a := range list {
		ids = append(ids, a.ID)
	}
	assert.ElementsMatch(t, []string{trial.ID, active.ID}, ids)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestAccountRepo_Update(t *testing.T) {
	repo := NewSQLiteAccountRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	acc := testutil.NewTestAccount("Ada")
	require.NoError(t, repo.Create(ctx, acc))

	acc.Phase = domain.PhasePaused
	acc.UpdatedAt = acc.UpdatedAt.Add(time.Hour)
	require.NoError(t, repo.Update(ctx, acc))

	got, err := repo.GetByID(ctx, acc.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PhasePaused, got.Phase)
}

func TestAccountRepo_Update_NotFound(t *testing.T) {
	repo := NewSQLiteAccountRepo(testutil.NewTestDB(t))

	err := repo.Update(context.Background(), testutil.NewTestAccount("ghost"))
	assert.ErrorIs(t, err, ErrNotFound)
}
