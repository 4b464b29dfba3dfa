package app

import (
	"time"

	"github.com/alexanderramin/mirror/internal/domain"
)

type ScanRequest struct {
	Now *time.Time
}

type UserFailure struct {
	UserID string `json:"user_id"`
	Error  string `json:"error"`
}

// ScanResult summarizes one weekly violation run.
type ScanResult struct {
	StartedAt          time.Time     `json:"started_at"`
	UsersScanned       int           `json:"users_scanned"`
	UsersFailed        int           `json:"users_failed"`
	ViolationsDetected int           `json:"violations_detected"`
	TerminationAlerts  int           `json:"termination_alerts"`
	Failures           []UserFailure `json:"failures,omitempty"`
}

type StatusRequest struct {
	UserID string
	Now    *time.Time
}

type ViolationView struct {
	ID           string               `json:"id"`
	Type         domain.ViolationType `json:"type"`
	Severity     domain.Severity      `json:"severity"`
	WeekNumber   int                  `json:"week_number"`
	DetectedAt   time.Time            `json:"detected_at"`
	ResolvedAt   *time.Time           `json:"resolved_at,omitempty"`
	Resolution   *domain.Resolution   `json:"resolution,omitempty"`
	UserResponse *string              `json:"user_response,omitempty"`
}

type TerminationView struct {
	ID              string                 `json:"id"`
	Reason          string                 `json:"reason"`
	EvidenceSummary domain.EvidenceSummary `json:"evidence_summary"`
	CreatedAt       time.Time              `json:"created_at"`
}

// ViolationStatus is what a client needs to decide which screen to show.
type ViolationStatus struct {
	UserID             string           `json:"user_id"`
	Week               string           `json:"week"`
	WeekNumber         int              `json:"week_number"`
	OpenViolations     []ViolationView  `json:"open_violations"`
	CurrentSeverity    domain.Severity  `json:"current_severity"`
	ConsecutiveWeeks   int              `json:"consecutive_weeks"`
	PendingTermination *TerminationView `json:"pending_termination,omitempty"`
}

type ResolveViolationRequest struct {
	// UserID, when set, must own the violation.
	UserID       string
	ViolationID  string
	Resolution   domain.Resolution
	UserResponse string
	Now          *time.Time
}

// ManualViolationRequest records a violation the weekly rules never detect
// on their own, such as a false report flagged by a coach.
type ManualViolationRequest struct {
	UserID string
	Type   domain.ViolationType
	Now    *time.Time
}

type ManualViolationResult struct {
	Violation ViolationView `json:"violation"`
	Created   bool          `json:"created"`
}

func NewViolationView(v domain.ViolationLog) ViolationView {
	return ViolationView{
		ID:           v.ID,
		Type:         v.Type,
		Severity:     v.Severity,
		WeekNumber:   v.WeekNumber,
		DetectedAt:   v.DetectedAt,
		ResolvedAt:   v.ResolvedAt,
		Resolution:   v.Resolution,
		UserResponse: v.UserResponse,
	}
}
