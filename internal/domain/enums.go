package domain

type AccountPhase string

const (
	PhaseOnboarding AccountPhase = "onboarding"
	PhaseTrial      AccountPhase = "trial"
	PhaseActive     AccountPhase = "active"
	PhasePaused     AccountPhase = "paused"
	PhaseTerminated AccountPhase = "terminated"
)

// Tier is a coarse adherence summary. It is recomputed on every read.
type Tier string

const (
	TierOnTrack    Tier = "on_track"
	TierAtRisk     Tier = "at_risk"
	TierNeedsReset Tier = "needs_reset"
)

type CheckinKind string

const (
	CheckinText  CheckinKind = "text"
	CheckinVoice CheckinKind = "voice"
)

type CommitmentStatus string

const (
	CommitmentPending   CommitmentStatus = "pending"
	CommitmentCompleted CommitmentStatus = "completed"
	CommitmentMissed    CommitmentStatus = "missed"
)

type EvidenceKind string

const (
	EvidenceImage EvidenceKind = "image"
	EvidenceURL   EvidenceKind = "url"
	EvidenceNote  EvidenceKind = "note"
)

type ViolationType string

const (
	ViolationCommitmentMiss ViolationType = "commitment_miss"
	ViolationAbsence        ViolationType = "absence"
	ViolationFalseReport    ViolationType = "false_report"
)

// Severity is the escalation level of a violation, 1 through 3.
type Severity int

const (
	SeverityNone          Severity = 0
	SeverityWarning       Severity = 1
	SeverityRenegotiation Severity = 2
	SeverityTermination   Severity = 3
)

type Resolution string

const (
	ResolutionWarningAccepted Resolution = "warning_accepted"
	ResolutionRenegotiated    Resolution = "renegotiated"
	ResolutionContinued       Resolution = "continued"
	ResolutionDismissed       Resolution = "dismissed"
)

type FinalChoice string

const (
	ChoicePending   FinalChoice = "pending"
	ChoicePause     FinalChoice = "pause"
	ChoiceRedesign  FinalChoice = "redesign"
	ChoiceTerminate FinalChoice = "terminate"
)

// ValidViolationTypes is the canonical set of accepted violation type strings.
var ValidViolationTypes = map[string]bool{
	"commitment_miss": true, "absence": true, "false_report": true,
}

// ValidResolutions is the canonical set of accepted resolution strings.
var ValidResolutions = map[string]bool{
	"warning_accepted": true, "renegotiated": true, "continued": true, "dismissed": true,
}

// ValidChoices lists the answers a user can give to a termination record.
var ValidChoices = map[string]bool{
	"pause": true, "redesign": true, "terminate": true,
}

// Rank orders tiers from worst (0) to best (2).
func (t Tier) Rank() int {
	switch t {
	case TierOnTrack:
		return 2
	case TierAtRisk:
		return 1
	default:
		return 0
	}
}
