package app

import (
	"time"

	"github.com/alexanderramin/mirror/internal/domain"
	"github.com/alexanderramin/mirror/internal/metrics"
)

type MetricsRequest struct {
	UserID string
	Now    *time.Time
}

type MetricsResponse struct {
	UserID   string          `json:"user_id"`
	AsOf     string          `json:"as_of"` // user's calendar day, YYYY-MM-DD
	TrialDay int             `json:"trial_day"`
	Metrics  metrics.Metrics `json:"metrics"`
	Tier     domain.Tier     `json:"tier"`
}

type ReportRequest struct {
	UserID string
	Now    *time.Time
	// UseLLM asks for an LLM-written narrative; the deterministic one is
	// used whenever the LLM is disabled or fails.
	UseLLM bool
}

// CommitmentReport is the Day-21 summary of the trial.
type CommitmentReport struct {
	MetricsResponse
	TrialComplete   bool                         `json:"trial_complete"`
	SmallWins       metrics.SmallWins            `json:"small_wins"`
	ViolationCounts map[domain.ViolationType]int `json:"violation_counts"`
	Narrative       string                       `json:"narrative"`
	NarrativeSource string                       `json:"narrative_source"` // "llm" or "deterministic"
}

type MetricsErrorCode string

const (
	MetricsErrUserNotFound    MetricsErrorCode = "USER_NOT_FOUND"
	MetricsErrTrialNotStarted MetricsErrorCode = "TRIAL_NOT_STARTED"
)

// MetricsError is returned by the metrics use cases. errors.Is matches the
// sentinel it wraps.
type MetricsError struct {
	Code    MetricsErrorCode
	Message string
	Err     error
}

func (e *MetricsError) Error() string {
	return string(e.Code) + ": " + e.Message
}

func (e *MetricsError) Unwrap() error {
	return e.Err
}
