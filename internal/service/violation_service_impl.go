package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/alexanderramin/mirror/internal/app"
	"github.com/alexanderramin/mirror/internal/db"
	"github.com/alexanderramin/mirror/internal/domain"
	"github.com/alexanderramin/mirror/internal/isoweek"
	"github.com/alexanderramin/mirror/internal/metrics"
	"github.com/alexanderramin/mirror/internal/repository"
	"github.com/alexanderramin/mirror/internal/runlock"
	"github.com/alexanderramin/mirror/internal/violation"
	"github.com/google/uuid"
)

// ScanLockKey names the lock held for the duration of a weekly scan.
const ScanLockKey = "violation-scan"

const (
	initiatedBySystem = "system"
	initiatedByReport = "report"
)

type ViolationOptions struct {
	// LockTTL bounds how long a crashed scan can block the next one.
	LockTTL time.Duration
	Logger  *slog.Logger
}

type violationService struct {
	conn     db.DBTX
	uow      db.UnitOfWork
	locker   runlock.Locker
	lockTTL  time.Duration
	logger   *slog.Logger
	observer UseCaseObserver
}

// NewViolationService reads through conn and writes through uow. A nil
// locker serializes scans within this process only.
func NewViolationService(conn db.DBTX, uow db.UnitOfWork, locker runlock.Locker, opts ViolationOptions, observers ...UseCaseObserver) ViolationService {
	if locker == nil {
		locker = runlock.NewLocalLocker()
	}
	if opts.LockTTL <= 0 {
		opts.LockTTL = 10 * time.Minute
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &violationService{
		conn:     conn,
		uow:      uow,
		locker:   locker,
		lockTTL:  opts.LockTTL,
		logger:   opts.Logger,
		observer: useCaseObserverOrNoop(observers),
	}
}

// scanOutcome is what one user contributed to a scan.
type scanOutcome struct {
	inserted    []domain.ViolationLog
	termination *domain.TerminationRecord
}

func (s *violationService) RunWeeklyScan(ctx context.Context, req app.ScanRequest) (result *app.ScanResult, err error) {
	fields := map[string]any{}
	defer observe(ctx, s.observer, "weekly-scan", time.Now(), fields, &err)

	now := resolveNow(req.Now)
	lease, err := s.locker.Acquire(ctx, ScanLockKey, s.lockTTL)
	if errors.Is(err, runlock.ErrLocked) {
		return nil, app.ErrScanInProgress
	}
	if err != nil {
		return nil, fmt.Errorf("acquiring scan lock: %w", err)
	}
	defer func() {
		if relErr := lease.Release(context.WithoutCancel(ctx)); relErr != nil {
			s.logger.WarnContext(ctx, "releasing scan lock", "error", relErr)
		}
	}()

	users, err := repository.NewSQLiteAccountRepo(s.conn).ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing active accounts: %w", err)
	}

	result = &app.ScanResult{StartedAt: now}
	for _, acc := range users {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		result.UsersScanned++
		out, userErr := s.scanUser(ctx, acc, now)
		if userErr != nil {
			result.UsersFailed++
			result.Failures = append(result.Failures, app.UserFailure{UserID: acc.ID, Error: userErr.Error()})
			s.logger.ErrorContext(ctx, "violation scan failed for user", "user_id", acc.ID, "error", userErr)
			continue
		}
		result.ViolationsDetected += len(out.inserted)
		if out.termination != nil {
			result.TerminationAlerts++
			s.logger.InfoContext(ctx, "termination record created",
				"user_id", acc.ID, "record_id", out.termination.ID, "reason", out.termination.Reason)
		}
	}

	fields["users_scanned"] = result.UsersScanned
	fields["users_failed"] = result.UsersFailed
	s.logger.InfoContext(ctx, "violation scan complete",
		"users_scanned", result.UsersScanned,
		"users_failed", result.UsersFailed,
		"violations_detected", result.ViolationsDetected,
		"termination_alerts", result.TerminationAlerts,
	)
	return result, nil
}

// scanUser detects and escalates for one account in its own transaction, so
// a failure leaves no partial rows for that user.
func (s *violationService) scanUser(ctx context.Context, acc *domain.Account, now time.Time) (scanOutcome, error) {
	var out scanOutcome
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		activity := activityReposFor(tx)
		violations := repository.NewSQLiteViolationRepo(tx)
		terminations := repository.NewSQLiteTerminationRepo(tx)

		today := acc.Today(now)
		in := violation.UserInput{Today: today, TrialStart: trialStart(acc)}

		var err error
		recentFrom := today.AddDays(-(violation.AbsenceWindowDays - 1))
		if in.RecentCheckins, err = activity.checkins.ListByUser(ctx, acc.ID, recentFrom, today); err != nil {
			return fmt.Errorf("loading recent checkins: %w", err)
		}
		monday, _ := violation.WeekWindow(today)
		if in.WeekCommitments, err = activity.commitments.ListByUser(ctx, acc.ID, monday, today); err != nil {
			return fmt.Errorf("loading week commitments: %w", err)
		}
		if in.History, err = escalationHistory(ctx, violations, terminations, acc.ID); err != nil {
			return err
		}
		pending, err := pendingTermination(ctx, terminations, acc.ID)
		if err != nil {
			return err
		}
		in.PendingTermination = pending != nil

		out, err = applyDecision(ctx, tx, acc, in, violation.Decide(in), initiatedBySystem, now)
		return err
	})
	return out, err
}

// applyDecision writes the rows a decision calls for using tx-scoped repos.
func applyDecision(ctx context.Context, tx db.DBTX, acc *domain.Account, in violation.UserInput, d violation.Decision, initiatedBy string, now time.Time) (scanOutcome, error) {
	var out scanOutcome
	violations := repository.NewSQLiteViolationRepo(tx)
	for _, typ := range d.Insert {
		v := domain.ViolationLog{
			ID:         uuid.New().String(),
			UserID:     acc.ID,
			Type:       typ,
			Severity:   d.Severity,
			WeekNumber: d.Week.Key(),
			DetectedAt: now,
		}
		created, err := violations.Insert(ctx, &v)
		if err != nil {
			return out, fmt.Errorf("inserting %s violation: %w", typ, err)
		}
		if created {
			out.inserted = append(out.inserted, v)
		}
	}

	if !d.CreateTermination {
		return out, nil
	}
	summary, err := evidenceSummary(ctx, activityReposFor(tx), acc.ID, in.TrialStart, in.Today)
	if err != nil {
		return out, err
	}
	rec := &domain.TerminationRecord{
		ID:              uuid.New().String(),
		UserID:          acc.ID,
		Reason:          fmt.Sprintf("%d consecutive weeks with violations", d.ConsecutiveWeeks),
		InitiatedBy:     initiatedBy,
		FinalChoice:     domain.ChoicePending,
		EvidenceSummary: summary,
		CreatedAt:       now,
	}
	created, err := repository.NewSQLiteTerminationRepo(tx).Insert(ctx, rec)
	if err != nil {
		return out, fmt.Errorf("creating termination record: %w", err)
	}
	if created {
		out.termination = rec
	}
	return out, nil
}

// evidenceSummary snapshots the user's activity since the trial began.
func evidenceSummary(ctx context.Context, activity activityRepos, userID string, from, to domain.Day) (domain.EvidenceSummary, error) {
	checkins, err := activity.checkins.ListByUser(ctx, userID, from, to)
	if err != nil {
		return domain.EvidenceSummary{}, fmt.Errorf("loading checkins for summary: %w", err)
	}
	evidence, err := activity.evidence.ListByUser(ctx, userID, from, to)
	if err != nil {
		return domain.EvidenceSummary{}, fmt.Errorf("loading evidence for summary: %w", err)
	}
	return domain.EvidenceSummary{
		CheckinDays:   len(metrics.CheckinDays(checkins, from, to)),
		IfThenCount:   len(metrics.IfThenDays(checkins, from, to)),
		EvidenceCount: len(evidence),
	}, nil
}

func (s *violationService) Status(ctx context.Context, req app.StatusRequest) (status *app.ViolationStatus, err error) {
	fields := map[string]any{"user_id": req.UserID}
	defer observe(ctx, s.observer, "violation-status", time.Now(), fields, &err)

	acc, err := loadAccount(ctx, repository.NewSQLiteAccountRepo(s.conn), req.UserID)
	if err != nil {
		return nil, err
	}
	violations := repository.NewSQLiteViolationRepo(s.conn)
	terminations := repository.NewSQLiteTerminationRepo(s.conn)

	history, err := escalationHistory(ctx, violations, terminations, acc.ID)
	if err != nil {
		return nil, err
	}
	pending, err := pendingTermination(ctx, terminations, acc.ID)
	if err != nil {
		return nil, err
	}

	week := isoweek.Of(acc.Today(resolveNow(req.Now)).Time())
	status = &app.ViolationStatus{
		UserID:             acc.ID,
		Week:               week.String(),
		WeekNumber:         week.Key(),
		OpenViolations:     []app.ViolationView{},
		ConsecutiveWeeks:   violation.ConsecutiveWeeks(week, history, false),
		PendingTermination: newTerminationView(pending),
	}
	status.CurrentSeverity = violation.SeverityFor(status.ConsecutiveWeeks)
	// Rows detected before the last termination answer are settled by it.
	for _, v := range history {
		if v.ResolvedAt == nil {
			status.OpenViolations = append(status.OpenViolations, app.NewViolationView(v))
		}
	}
	fields["open"] = len(status.OpenViolations)
	fields["severity"] = int(status.CurrentSeverity)
	return status, nil
}

func (s *violationService) ResolveViolation(ctx context.Context, req app.ResolveViolationRequest) (view *app.ViolationView, err error) {
	fields := map[string]any{"violation_id": req.ViolationID, "resolution": string(req.Resolution)}
	defer observe(ctx, s.observer, "resolve-violation", time.Now(), fields, &err)

	if !domain.ValidResolutions[string(req.Resolution)] {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidResolution, req.Resolution)
	}
	now := resolveNow(req.Now)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		violations := repository.NewSQLiteViolationRepo(tx)
		v, err := violations.GetByID(ctx, req.ViolationID)
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: %s", app.ErrViolationNotFound, req.ViolationID)
		}
		if err != nil {
			return fmt.Errorf("loading violation: %w", err)
		}
		if req.UserID != "" && v.UserID != req.UserID {
			return fmt.Errorf("%w: %s", app.ErrViolationNotFound, req.ViolationID)
		}
		if err := v.Resolve(req.Resolution, req.UserResponse, now); err != nil {
			return err
		}
		if err := violations.Resolve(ctx, v); err != nil {
			return err
		}
		resolved := app.NewViolationView(*v)
		view = &resolved
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (s *violationService) ReportViolation(ctx context.Context, req app.ManualViolationRequest) (result *app.ManualViolationResult, err error) {
	fields := map[string]any{"user_id": req.UserID, "type": string(req.Type)}
	defer observe(ctx, s.observer, "report-violation", time.Now(), fields, &err)

	if !domain.ValidViolationTypes[string(req.Type)] {
		return nil, fmt.Errorf("invalid violation type %q", req.Type)
	}
	now := resolveNow(req.Now)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		acc, err := loadAccount(ctx, repository.NewSQLiteAccountRepo(tx), req.UserID)
		if err != nil {
			return err
		}
		violations := repository.NewSQLiteViolationRepo(tx)
		terminations := repository.NewSQLiteTerminationRepo(tx)

		in := violation.UserInput{Today: acc.Today(now), TrialStart: trialStart(acc)}
		if in.History, err = escalationHistory(ctx, violations, terminations, acc.ID); err != nil {
			return err
		}
		pending, err := pendingTermination(ctx, terminations, acc.ID)
		if err != nil {
			return err
		}
		in.PendingTermination = pending != nil

		d := violation.DecideReported(in, req.Type)
		out, err := applyDecision(ctx, tx, acc, in, d, initiatedByReport, now)
		if err != nil {
			return err
		}
		if len(out.inserted) > 0 {
			result = &app.ManualViolationResult{Violation: app.NewViolationView(out.inserted[0]), Created: true}
			return nil
		}

		all, err := violations.ListByUser(ctx, acc.ID)
		if err != nil {
			return fmt.Errorf("loading violations: %w", err)
		}
		for _, v := range all {
			if v.Type == req.Type && v.WeekNumber == d.Week.Key() {
				result = &app.ManualViolationResult{Violation: app.NewViolationView(v)}
				return nil
			}
		}
		return fmt.Errorf("%s violation for week %d vanished", req.Type, d.Week.Key())
	})
	if err != nil {
		return nil, err
	}
	fields["created"] = result.Created
	return result, nil
}

func (s *violationService) List(ctx context.Context, userID string) ([]app.ViolationView, error) {
	if _, err := loadAccount(ctx, repository.NewSQLiteAccountRepo(s.conn), userID); err != nil {
		return nil, err
	}
	all, err := repository.NewSQLiteViolationRepo(s.conn).ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading violations: %w", err)
	}
	views := make([]app.ViolationView, 0, len(all))
	for _, v := range all {
		views = append(views, app.NewViolationView(v))
	}
	return views, nil
}
