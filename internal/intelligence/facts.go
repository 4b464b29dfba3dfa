package intelligence

import (
	"fmt"
	"sort"
	"strings"

	"github.com/alexanderramin/mirror/internal/domain"
	"github.com/alexanderramin/mirror/internal/metrics"
)

// ReportFacts is everything the narrator may talk about. Nothing outside it
// may be cited.
type ReportFacts struct {
	DisplayName     string                       `json:"display_name"`
	TrialDay        int                          `json:"trial_day"`
	TrialComplete   bool                         `json:"trial_complete"`
	Tier            domain.Tier                  `json:"tier"`
	Metrics         metrics.Metrics              `json:"metrics"`
	SmallWins       metrics.SmallWins            `json:"small_wins"`
	ViolationCounts map[domain.ViolationType]int `json:"violation_counts"`
}

// FactKeys lists the names a narrative may cite.
func (f ReportFacts) FactKeys() map[string]bool {
	keys := map[string]bool{
		"tier":                  true,
		"trial_day":             true,
		"checkin_rate":          true,
		"if_then_rate":          true,
		"evidence_rate":         true,
		"commitment_rate":       true,
		"average_rate":          true,
		"checkin_streak":        true,
		"longest_streak":        true,
		"best_week":             true,
		"total_checkins":        true,
		"completed_commitments": true,
	}
	for typ := range f.ViolationCounts {
		keys["violations."+string(typ)] = true
	}
	return keys
}

// ValidateCitations fails when a narrative cites a key outside keys.
func ValidateCitations(cited []string, keys map[string]bool) error {
	if len(cited) == 0 {
		return fmt.Errorf("narrative cites no facts")
	}
	var unknown []string
	for _, k := range cited {
		if !keys[k] {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return fmt.Errorf("unknown fact keys: %s", strings.Join(unknown, ", "))
	}
	return nil
}
