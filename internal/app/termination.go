package app

import (
	"time"

	"github.com/alexanderramin/mirror/internal/domain"
)

type TerminationChoiceRequest struct {
	UserID string
	Choice domain.FinalChoice
	Now    *time.Time
}

type TerminationChoiceResult struct {
	RecordID               string              `json:"record_id"`
	Choice                 domain.FinalChoice  `json:"choice"`
	Phase                  domain.AccountPhase `json:"phase"`
	InvalidatedCommitments int64               `json:"invalidated_commitments"`
	VowInvalidated         bool                `json:"vow_invalidated"`
}
