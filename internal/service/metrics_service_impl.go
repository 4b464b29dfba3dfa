package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/mirror/internal/app"
	"github.com/alexanderramin/mirror/internal/db"
	"github.com/alexanderramin/mirror/internal/domain"
	"github.com/alexanderramin/mirror/internal/intelligence"
	"github.com/alexanderramin/mirror/internal/isoweek"
	"github.com/alexanderramin/mirror/internal/metrics"
	"github.com/alexanderramin/mirror/internal/repository"
)

type metricsService struct {
	accounts   repository.AccountRepo
	activity   activityRepos
	violations repository.ViolationRepo
	narrator   intelligence.Narrator
	observer   UseCaseObserver
}

// NewMetricsService reads through conn. A nil narrator always produces the
// deterministic report text.
func NewMetricsService(conn db.DBTX, narrator intelligence.Narrator, observers ...UseCaseObserver) MetricsService {
	if narrator == nil {
		narrator = intelligence.NewNarrator(nil)
	}
	return &metricsService{
		accounts:   repository.NewSQLiteAccountRepo(conn),
		activity:   activityReposFor(conn),
		violations: repository.NewSQLiteViolationRepo(conn),
		narrator:   narrator,
		observer:   useCaseObserverOrNoop(observers),
	}
}

func (s *metricsService) GetMetrics(ctx context.Context, req app.MetricsRequest) (resp *app.MetricsResponse, err error) {
	fields := map[string]any{"user_id": req.UserID}
	defer observe(ctx, s.observer, "get-metrics", time.Now(), fields, &err)

	acc, start, today, err := s.trialAccount(ctx, req.UserID, resolveNow(req.Now))
	if err != nil {
		return nil, err
	}
	in, err := s.activity.window(ctx, acc.ID, start, today)
	if err != nil {
		return nil, err
	}

	m := metrics.Compute(in)
	resp = &app.MetricsResponse{
		UserID:   acc.ID,
		AsOf:     today.String(),
		TrialDay: metrics.ElapsedDays(start, today),
		Metrics:  m,
		Tier:     metrics.TierFor(m.AverageRate),
	}
	fields["tier"] = string(resp.Tier)
	return resp, nil
}

// Day21Report summarizes the trial. Once the trial is over the window stays
// fixed on its first TrialLengthDays days.
func (s *metricsService) Day21Report(ctx context.Context, req app.ReportRequest) (report *app.CommitmentReport, err error) {
	fields := map[string]any{"user_id": req.UserID, "use_llm": req.UseLLM}
	defer observe(ctx, s.observer, "day21-report", time.Now(), fields, &err)

	acc, start, today, err := s.trialAccount(ctx, req.UserID, resolveNow(req.Now))
	if err != nil {
		return nil, err
	}
	end := today
	if last := start.AddDays(metrics.TrialLengthDays - 1); end.After(last) {
		end = last
	}

	in, err := s.activity.window(ctx, acc.ID, start, end)
	if err != nil {
		return nil, err
	}
	m := metrics.Compute(in)
	trialDay := metrics.ElapsedDays(start, end)

	counts, err := s.violationCounts(ctx, acc.ID, start, end)
	if err != nil {
		return nil, err
	}

	report = &app.CommitmentReport{
		MetricsResponse: app.MetricsResponse{
			UserID:   acc.ID,
			AsOf:     end.String(),
			TrialDay: trialDay,
			Metrics:  m,
			Tier:     metrics.TierFor(m.AverageRate),
		},
		TrialComplete:   trialDay >= metrics.TrialLengthDays,
		SmallWins:       metrics.ComputeSmallWins(in, m),
		ViolationCounts: counts,
	}

	facts := intelligence.ReportFacts{
		DisplayName:     acc.DisplayName,
		TrialDay:        trialDay,
		TrialComplete:   report.TrialComplete,
		Tier:            report.Tier,
		Metrics:         m,
		SmallWins:       report.SmallWins,
		ViolationCounts: counts,
	}
	var narrative intelligence.Narrative
	if req.UseLLM {
		narrative = s.narrator.Narrate(ctx, facts)
	} else {
		narrative = intelligence.DeterministicNarrative(facts)
	}
	report.Narrative = narrative.Headline + "\n\n" + narrative.Body
	report.NarrativeSource = narrative.Source
	fields["tier"] = string(report.Tier)
	fields["narrative_source"] = narrative.Source
	return report, nil
}

// trialAccount loads the account and its trial window as of now.
func (s *metricsService) trialAccount(ctx context.Context, userID string, now time.Time) (*domain.Account, domain.Day, domain.Day, error) {
	acc, err := loadAccount(ctx, s.accounts, userID)
	if err != nil {
		if errors.Is(err, app.ErrUserNotFound) {
			return nil, domain.Day{}, domain.Day{}, &app.MetricsError{
				Code: app.MetricsErrUserNotFound, Message: "no account " + userID, Err: app.ErrUserNotFound,
			}
		}
		return nil, domain.Day{}, domain.Day{}, err
	}
	if acc.TrialStartDate == nil {
		return nil, domain.Day{}, domain.Day{}, &app.MetricsError{
			Code:    app.MetricsErrTrialNotStarted,
			Message: fmt.Sprintf("account %s is in phase %s with no trial start", acc.ID, acc.Phase),
			Err:     app.ErrTrialNotStarted,
		}
	}
	return acc, *acc.TrialStartDate, acc.Today(now), nil
}

// violationCounts tallies violations logged in the ISO weeks the window touches.
func (s *metricsService) violationCounts(ctx context.Context, userID string, from, to domain.Day) (map[domain.ViolationType]int, error) {
	history, err := s.violations.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading violations: %w", err)
	}
	first := isoweek.Of(from.Time()).Key()
	last := isoweek.Of(to.Time()).Key()
	counts := make(map[domain.ViolationType]int)
	for _, v := range history {
		if v.WeekNumber >= first && v.WeekNumber <= last {
			counts[v.Type]++
		}
	}
	return counts, nil
}
