package cli

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/alexanderramin/mirror/internal/app"
	"github.com/alexanderramin/mirror/internal/domain"
	"github.com/alexanderramin/mirror/internal/httpapi"
	"github.com/alexanderramin/mirror/internal/repository"
	"github.com/alexanderramin/mirror/internal/runlock"
	"github.com/alexanderramin/mirror/internal/service"
	"github.com/alexanderramin/mirror/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cliNow = "2026-10-15"

// testApp wires a full App backed by an in-memory DB for CLI integration tests.
func testApp(t *testing.T) (*App, *sql.DB) {
	t.Helper()
	database := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(database)

	return &App{
		Activity:     service.NewActivityService(database, uow),
		Metrics:      service.NewMetricsService(database, nil),
		Violations:   service.NewViolationService(database, uow, runlock.NewLocalLocker(), service.ViolationOptions{}),
		Terminations: service.NewTerminationService(uow),
		JWTSecret:    "test-secret",
		// Narrator nil: deterministic nudges.
	}, database
}

// seedTrialUser stores an account whose trial began on Oct 1 2026.
func seedTrialUser(t *testing.T, database *sql.DB) *domain.Account {
	t.Helper()
	acc := testutil.NewTestAccount("Ana", testutil.WithTrialStart(domain.NewDay(2026, time.October, 1)))
	require.NoError(t, repository.NewSQLiteAccountRepo(database).Create(context.Background(), acc))
	return acc
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func TestAccountCreateAndList(t *testing.T) {
	a, _ := testApp(t)

	out, err := executeCmd(t, a, "account", "create", "--name", "Ada", "--tz", "Europe/Berlin")
	require.NoError(t, err)
	assert.Contains(t, out, "Created account")
	assert.Contains(t, out, "Europe/Berlin")

	out, err = executeCmd(t, a, "account", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Ada")
	assert.Contains(t, out, "Onboarding")
}

func TestAccountCreate_RejectsUnknownTimezone(t *testing.T) {
	a, _ := testApp(t)
	_, err := executeCmd(t, a, "account", "create", "--name", "Ada", "--tz", "Mars/Olympus")
	assert.Error(t, err)
}

func TestAccountStartTrial(t *testing.T) {
	a, _ := testApp(t)
	acc := &domain.Account{DisplayName: "Ada"}
	require.NoError(t, a.Activity.CreateAccount(context.Background(), acc))

	out, err := executeCmd(t, a, "account", "start-trial", "--user", acc.ID, "--on", "2026-10-01")
	require.NoError(t, err)
	assert.Contains(t, out, "Trial started on 2026-10-01")

	got, err := a.Activity.GetAccount(context.Background(), acc.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseTrial, got.Phase)
}

func TestAccountToken_ParsesBack(t *testing.T) {
	a, database := testApp(t)
	acc := seedTrialUser(t, database)

	out, err := executeCmd(t, a, "account", "token", "--user", acc.ID, "--ttl", "1h")
	require.NoError(t, err)

	claims, err := httpapi.ParseToken("test-secret", string(bytes.TrimSpace([]byte(out))))
	require.NoError(t, err)
	assert.Equal(t, acc.ID, claims.Subject)
}

func TestAccountToken_RequiresSecret(t *testing.T) {
	a, database := testApp(t)
	a.JWTSecret = ""
	acc := seedTrialUser(t, database)

	_, err := executeCmd(t, a, "account", "token", "--user", acc.ID)
	assert.ErrorContains(t, err, "MIRROR_JWT_SECRET")
}

func TestMetrics_RequiresUser(t *testing.T) {
	a, _ := testApp(t)
	_, err := executeCmd(t, a, "metrics")
	assert.ErrorContains(t, err, `"user"`)
}

func TestMetrics_JSONAfterCheckins(t *testing.T) {
	a, database := testApp(t)
	acc := seedTrialUser(t, database)

	for _, d := range []string{"2026-10-13", "2026-10-14", "2026-10-15"} {
		_, err := executeCmd(t, a, "checkin", "--user", acc.ID, "--on", d, "--if-then")
		require.NoError(t, err)
	}

	out, err := executeCmd(t, a, "metrics", "--user", acc.ID, "--now", cliNow, "--json")
	require.NoError(t, err)

	var resp app.MetricsResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, acc.ID, resp.UserID)
	assert.Equal(t, "2026-10-15", resp.AsOf)
	assert.Equal(t, 15, resp.TrialDay)
	assert.Equal(t, 3, resp.Metrics.CheckinCount)
	assert.Equal(t, 3, resp.Metrics.IfThenCount)
}

func TestMetrics_BadNow(t *testing.T) {
	a, database := testApp(t)
	acc := seedTrialUser(t, database)
	_, err := executeCmd(t, a, "metrics", "--user", acc.ID, "--now", "yesterday")
	assert.ErrorContains(t, err, "--now")
}

func TestReport_Deterministic(t *testing.T) {
	a, database := testApp(t)
	acc := seedTrialUser(t, database)

	out, err := executeCmd(t, a, "report", "--user", acc.ID, "--now", cliNow, "--json")
	require.NoError(t, err)

	var r app.CommitmentReport
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	assert.Equal(t, "deterministic", r.NarrativeSource)
	assert.False(t, r.TrialComplete)
	assert.NotEmpty(t, r.Narrative)
}

func TestCommitmentAddAndComplete(t *testing.T) {
	a, database := testApp(t)
	acc := seedTrialUser(t, database)
	ctx := context.Background()

	_, err := executeCmd(t, a, "commitment", "add", "--user", acc.ID, "--title", "Run 5k", "--due", "2026-10-14")
	require.NoError(t, err)

	pending, err := repository.NewSQLiteCommitmentRepo(database).ListByUser(ctx, acc.ID,
		domain.NewDay(2026, time.October, 1), domain.NewDay(2026, time.October, 31))
	require.NoError(t, err)
	require.Len(t, pending, 1)

	out, err := executeCmd(t, a, "commitment", "complete", pending[0].ID, "--now", cliNow)
	require.NoError(t, err)
	assert.Contains(t, out, `Completed "Run 5k"`)

	_, err = executeCmd(t, a, "commitment", "complete", pending[0].ID)
	assert.ErrorContains(t, err, "already completed")
}

func TestEvidence_RejectsUnknownKind(t *testing.T) {
	a, database := testApp(t)
	acc := seedTrialUser(t, database)
	_, err := executeCmd(t, a, "evidence", "--user", acc.ID, "--kind", "video")
	assert.ErrorContains(t, err, "--kind")
}

func TestVowSet(t *testing.T) {
	a, database := testApp(t)
	acc := seedTrialUser(t, database)

	out, err := executeCmd(t, a, "vow", "--user", acc.ID, "--statement", "Write every morning")
	require.NoError(t, err)
	assert.Contains(t, out, "Write every morning")
}

func TestViolationsFlag_SecondFlagSameWeekIsReported(t *testing.T) {
	a, database := testApp(t)
	acc := seedTrialUser(t, database)

	out, err := executeCmd(t, a, "violations", "flag", "--user", acc.ID, "--type", "false_report", "--now", cliNow)
	require.NoError(t, err)
	assert.Contains(t, out, "Logged false_report")

	out, err = executeCmd(t, a, "violations", "flag", "--user", acc.ID, "--type", "false_report", "--now", cliNow)
	require.NoError(t, err)
	assert.Contains(t, out, "already logged")

	out, err = executeCmd(t, a, "violations", "list", "--user", acc.ID, "--json")
	require.NoError(t, err)
	var views []app.ViolationView
	require.NoError(t, json.Unmarshal([]byte(out), &views))
	require.Len(t, views, 1)
	assert.Equal(t, domain.SeverityWarning, views[0].Severity)
}

func TestViolationsResolve_NeedsResolutionWhenNotInteractive(t *testing.T) {
	a, database := testApp(t)
	acc := seedTrialUser(t, database)

	_, err := executeCmd(t, a, "violations", "resolve", "some-id", "--user", acc.ID)
	assert.ErrorContains(t, err, "--resolution is required")
}

func TestViolationsResolve(t *testing.T) {
	a, database := testApp(t)
	acc := seedTrialUser(t, database)
	res, err := a.Violations.ReportViolation(context.Background(), app.ManualViolationRequest{
		UserID: acc.ID, Type: domain.ViolationAbsence, Now: testutil.At(2026, time.October, 15, 12),
	})
	require.NoError(t, err)

	out, err := executeCmd(t, a, "violations", "resolve", res.Violation.ID,
		"--user", acc.ID, "--resolution", "warning_accepted", "--now", cliNow)
	require.NoError(t, err)
	assert.Contains(t, out, "warning_accepted")

	out, err = executeCmd(t, a, "violations", "status", "--user", acc.ID, "--now", cliNow, "--json")
	require.NoError(t, err)
	var st app.ViolationStatus
	require.NoError(t, json.Unmarshal([]byte(out), &st))
	assert.Empty(t, st.OpenViolations)
}

func TestViolationsScan_JSON(t *testing.T) {
	a, database := testApp(t)
	seedTrialUser(t, database)

	out, err := executeCmd(t, a, "violations", "scan", "--now", cliNow, "--json")
	require.NoError(t, err)

	var res app.ScanResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, 1, res.UsersScanned)
	assert.Equal(t, 0, res.UsersFailed)
}

func TestCheck_NonInteractivePrintsScreen(t *testing.T) {
	a, database := testApp(t)
	acc := seedTrialUser(t, database)

	out, err := executeCmd(t, a, "check", "--user", acc.ID, "--now", cliNow)
	require.NoError(t, err)
	assert.Contains(t, out, "screen: none")

	_, err = executeCmd(t, a, "violations", "flag", "--user", acc.ID, "--now", cliNow)
	require.NoError(t, err)

	out, err = executeCmd(t, a, "check", "--user", acc.ID, "--now", cliNow)
	require.NoError(t, err)
	assert.Contains(t, out, "screen: warning")
}

func TestTerminate_WithChoice(t *testing.T) {
	a, database := testApp(t)
	acc := seedTrialUser(t, database)
	_, err := repository.NewSQLiteTerminationRepo(database).Insert(context.Background(), testutil.NewTestTermination(acc.ID))
	require.NoError(t, err)

	out, err := executeCmd(t, a, "terminate", "--user", acc.ID, "--choice", "pause", "--now", cliNow)
	require.NoError(t, err)
	assert.Contains(t, out, "pause")

	got, err := a.Activity.GetAccount(context.Background(), acc.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PhasePaused, got.Phase)
}

func TestTerminate_NoPendingRecord(t *testing.T) {
	a, database := testApp(t)
	acc := seedTrialUser(t, database)

	_, err := executeCmd(t, a, "terminate", "--user", acc.ID, "--choice", "pause")
	assert.ErrorIs(t, err, app.ErrNoPendingTermination)
}

func TestServe_NotConfigured(t *testing.T) {
	a, _ := testApp(t)
	_, err := executeCmd(t, a, "serve")
	assert.ErrorContains(t, err, "not configured")
}

func TestServe_RunsConfiguredServer(t *testing.T) {
	a, _ := testApp(t)
	called := false
	a.Serve = func(ctx context.Context) error {
		called = true
		return nil
	}
	_, err := executeCmd(t, a, "serve")
	require.NoError(t, err)
	assert.True(t, called)
}

func TestParseNow(t *testing.T) {
	got, err := parseNow("2026-10-15")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, time.October, 15, 12, 0, 0, 0, time.UTC), *got)

	got, err = parseNow("2026-10-15T08:30:00+02:00")
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2026, time.October, 15, 6, 30, 0, 0, time.UTC)))

	got, err = parseNow("")
	require.NoError(t, err)
	assert.Nil(t, got)
}
