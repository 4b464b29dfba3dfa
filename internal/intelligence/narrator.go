package intelligence

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/alexanderramin/mirror/internal/domain"
	"github.com/alexanderramin/mirror/internal/llm"
)

const (
	SourceLLM           = "llm"
	SourceDeterministic = "deterministic"
)

type Narrative struct {
	Headline   string   `json:"headline"`
	Body       string   `json:"body"`
	CitedFacts []string `json:"cited_facts"`
	Source     string   `json:"-"`
}

// Narrator turns report facts into prose. It never fails: any LLM problem
// falls back to the deterministic text.
type Narrator interface {
	Narrate(ctx context.Context, facts ReportFacts) Narrative
	Nudge(ctx context.Context, severity domain.Severity, types []domain.ViolationType) string
}

type narrator struct {
	client llm.Client
}

// NewNarrator returns a Narrator. A nil client always uses the fallback.
func NewNarrator(client llm.Client) Narrator {
	return &narrator{client: client}
}

func (n *narrator) Narrate(ctx context.Context, facts ReportFacts) Narrative {
	if n.client == nil {
		return DeterministicNarrative(facts)
	}
	payload, err := json.MarshalIndent(facts, "", "  ")
	if err != nil {
		return DeterministicNarrative(facts)
	}
	resp, err := n.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskReport,
		SystemPrompt: reportSystemPrompt,
		UserPrompt:   "Facts:\n\n" + string(payload),
		JSON:         true,
	})
	if err != nil {
		return DeterministicNarrative(facts)
	}

	keys := facts.FactKeys()
	out, err := llm.ExtractJSON[Narrative](resp.Text, func(nv Narrative) error {
		if strings.TrimSpace(nv.Headline) == "" || strings.TrimSpace(nv.Body) == "" {
			return fmt.Errorf("headline and body are required")
		}
		return ValidateCitations(nv.CitedFacts, keys)
	})
	if err != nil {
		return DeterministicNarrative(facts)
	}
	out.Source = SourceLLM
	return out
}

func (n *narrator) Nudge(ctx context.Context, severity domain.Severity, types []domain.ViolationType) string {
	if n.client == nil {
		return DeterministicNudge(severity, types)
	}
	resp, err := n.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskNudge,
		SystemPrompt: nudgeSystemPrompt,
		UserPrompt:   fmt.Sprintf("severity=%d types=%v", severity, types),
	})
	if err != nil {
		return DeterministicNudge(severity, types)
	}
	line := strings.TrimSpace(strings.SplitN(resp.Text, "\n", 2)[0])
	if line == "" || len(line) > 200 {
		return DeterministicNudge(severity, types)
	}
	return line
}
