package service

import (
	"testing"
	"time"

	"github.com/alexanderramin/mirror/internal/app"
	"github.com/alexanderramin/mirror/internal/domain"
	"github.com/alexanderramin/mirror/internal/repository"
	"github.com/alexanderramin/mirror/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newActivityService(t *testing.T, seed *seeder) ActivityService {
	t.Helper()
	return NewActivityService(seed.db, testutil.NewTestUoW(seed.db))
}

func TestCreateAccount_Defaults(t *testing.T) {
	database := testutil.NewTestDB(t)
	seed := newSeeder(t, database)
	svc := newActivityService(t, seed)

	acc := &domain.Account{DisplayName: "Ana"}
	require.NoError(t, svc.CreateAccount(seed.ctx, acc))
	assert.NotEmpty(t, acc.ID)

	got, err := svc.GetAccount(seed.ctx, acc.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseOnboarding, got.Phase)
	assert.Equal(t, "UTC", got.Timezone)
	assert.Nil(t, got.TrialStartDate)
}

func TestCreateAccount_RejectsUnknownTimezone(t *testing.T) {
	database := testutil.NewTestDB(t)
	seed := newSeeder(t, database)

	err := newActivityService(t, seed).CreateAccount(seed.ctx, &domain.Account{DisplayName: "Ana", Timezone: "Mars/Olympus"})
	assert.Error(t, err)
}

func TestStartTrial(t *testing.T) {
	database := testutil.NewTestDB(t)
	seed := newSeeder(t, database)
	svc := newActivityService(t, seed)
	acc := seed.account("Ana", testutil.WithoutTrial(), testutil.WithTimezone("America/Los_Angeles"))

	// 03:00 UTC on the 15th is still the 14th in Los Angeles.
	started, err := svc.StartTrial(seed.ctx, acc.ID, nil, *testutil.At(2026, time.October, 15, 3))
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseTrial, started.Phase)
	require.NotNil(t, started.TrialStartDate)
	assert.Equal(t, day(time.October, 14), *started.TrialStartDate)

	_, err = svc.StartTrial(seed.ctx, acc.ID, nil, time.Now())
	assert.Error(t, err, "a running trial cannot be restarted")
}

func TestStartTrial_ExplicitDay(t *testing.T) {
	database := testutil.NewTestDB(t)
	seed := newSeeder(t, database)
	acc := seed.account("Ana", testutil.WithoutTrial())

	start := day(time.September, 1)
	started, err := newActivityService(t, seed).StartTrial(seed.ctx, acc.ID, &start, time.Now())
	require.NoError(t, err)
	assert.Equal(t, start, *started.TrialStartDate)
}

func TestLogCheckin_UnknownUser(t *testing.T) {
	database := testutil.NewTestDB(t)
	seed := newSeeder(t, database)

	err := newActivityService(t, seed).LogCheckin(seed.ctx, &domain.Checkin{UserID: "nobody", Date: day(time.October, 1)})
	assert.ErrorIs(t, err, app.ErrUserNotFound)
}

func TestActivity_FeedsMetrics(t *testing.T) {
	database := testutil.NewTestDB(t)
	seed := newSeeder(t, database)
	svc := newActivityService(t, seed)
	acc := seed.account("Ana", testutil.WithTrialStart(day(time.October, 14)))

	require.NoError(t, svc.LogCheckin(seed.ctx, &domain.Checkin{UserID: acc.ID, Date: day(time.October, 14), IfThenTriggered: true}))
	require.NoError(t, svc.LogCheckin(seed.ctx, &domain.Checkin{UserID: acc.ID, Date: day(time.October, 15), Kind: domain.CheckinVoice}))
	require.NoError(t, svc.SubmitEvidence(seed.ctx, &domain.Evidence{UserID: acc.ID, Date: day(time.October, 15), Kind: domain.EvidenceURL, Content: "https://example.com/run"}))
	c := &domain.Commitment{UserID: acc.ID, Title: "Run 5k", DueDate: day(time.October, 15)}
	require.NoError(t, svc.AddCommitment(seed.ctx, c))
	_, err := svc.CompleteCommitment(seed.ctx, c.ID, *testutil.At(2026, time.October, 15, 7))
	require.NoError(t, err)

	resp, err := NewMetricsService(database, nil).GetMetrics(seed.ctx, app.MetricsRequest{UserID: acc.ID, Now: testutil.At(2026, time.October, 15, 20)})
	require.NoError(t, err)
	assert.Equal(t, 1.0, resp.Metrics.CheckinRate)
	assert.Equal(t, 0.5, resp.Metrics.IfThenRate)
	assert.Equal(t, 1.0, resp.Metrics.EvidenceRate)
	assert.Equal(t, 1.0, resp.Metrics.CommitmentRate)
	assert.Equal(t, domain.TierOnTrack, resp.Tier)
}

func TestCompleteCommitment_Twice(t *testing.T) {
	database := testutil.NewTestDB(t)
	seed := newSeeder(t, database)
	svc := newActivityService(t, seed)
	acc := seed.account("Ana")
	c := seed.commitment(acc.ID, day(time.October, 15))

	done, err := svc.CompleteCommitment(seed.ctx, c.ID, time.Now())
	require.NoError(t, err)
	assert.Equal(t, domain.CommitmentCompleted, done.Status)

	_, err = svc.CompleteCommitment(seed.ctx, c.ID, time.Now())
	assert.Error(t, err)

	_, err = svc.CompleteCommitment(seed.ctx, "missing", time.Now())
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSetVow_ReplacesCurrent(t *testing.T) {
	database := testutil.NewTestDB(t)
	seed := newSeeder(t, database)
	svc := newActivityService(t, seed)
	acc := seed.account("Ana")

	first := &domain.Vow{UserID: acc.ID, Statement: "Write daily", CreatedAt: time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC)}
	require.NoError(t, svc.SetVow(seed.ctx, first))
	second := &domain.Vow{UserID: acc.ID, Statement: "Write every weekday", CreatedAt: time.Date(2026, time.October, 2, 0, 0, 0, 0, time.UTC)}
	require.NoError(t, svc.SetVow(seed.ctx, second))

	current, err := repository.NewSQLiteVowRepo(database).GetCurrent(seed.ctx, acc.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, current.ID)

	assert.Error(t, svc.SetVow(seed.ctx, &domain.Vow{UserID: acc.ID}))
}
