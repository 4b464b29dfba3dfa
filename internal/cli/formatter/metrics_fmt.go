package formatter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/alexanderramin/mirror/internal/app"
	"github.com/alexanderramin/mirror/internal/domain"
	"github.com/alexanderramin/mirror/internal/metrics"
)

const rateBarWidth = 20

// FormatMetrics renders the four adherence rates and the resulting tier.
func FormatMetrics(resp *app.MetricsResponse) string {
	var b strings.Builder
	b.WriteString(Header(fmt.Sprintf("Day %d", resp.TrialDay)))
	b.WriteString("\n")
	b.WriteString(Dim("as of " + resp.AsOf))
	b.WriteString("\n\n")
	b.WriteString(rateTable(resp.Metrics))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s  average %s   streak %s\n",
		TierIndicator(resp.Tier),
		TierColor(resp.Tier).Render(Pct(resp.Metrics.AverageRate)),
		Bold(fmt.Sprintf("%dd", resp.Metrics.CheckinStreak)),
	)
	return b.String()
}

func rateTable(m metrics.Metrics) string {
	rows := [][]string{
		{"Check-ins", fmt.Sprintf("%d/%d", m.CheckinCount, m.CheckinTotal), RenderProgress(m.CheckinRate, rateBarWidth)},
		{"If-then", fmt.Sprintf("%d/%d", m.IfThenCount, m.CheckinTotal), RenderProgress(m.IfThenRate, rateBarWidth)},
		{"Evidence", fmt.Sprintf("%d/%d", m.EvidenceCount, m.EvidenceExpected), RenderProgress(m.EvidenceRate, rateBarWidth)},
		{"Commitments", fmt.Sprintf("%d/%d", m.CommitmentCompleted, m.CommitmentTotal), RenderProgress(m.CommitmentRate, rateBarWidth)},
	}
	return RenderTable([]string{"PROCESS", "COUNT", "RATE"}, rows)
}

// FormatReport renders the Day-21 report: narrative first, then numbers.
func FormatReport(r *app.CommitmentReport) string {
	var b strings.Builder

	title := fmt.Sprintf("Day %d report", r.TrialDay)
	if !r.TrialComplete {
		title = fmt.Sprintf("Day %d of %d (in progress)", r.TrialDay, metrics.TrialLengthDays)
	}
	narrative := r.Narrative
	if r.NarrativeSource != "" {
		narrative += "\n\n" + Dim("source: "+r.NarrativeSource)
	}
	b.WriteString(RenderBox(title, narrative))
	b.WriteString("\n\n")

	b.WriteString(rateTable(r.Metrics))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s  average %s\n\n", TierIndicator(r.Tier), TierColor(r.Tier).Render(Pct(r.Metrics.AverageRate)))

	b.WriteString(Header("Small wins"))
	b.WriteString("\n")
	w := r.SmallWins
	fmt.Fprintf(&b, "  %s check-in days, longest run %s\n", Bold(fmt.Sprint(w.TotalCheckins)), Bold(fmt.Sprintf("%dd", w.LongestStreak)))
	if w.BestWeek != 0 {
		fmt.Fprintf(&b, "  best week %s with %d days\n", StyleGreen.Render(WeekLabel(w.BestWeek)), w.BestWeekCheckins)
	}
	fmt.Fprintf(&b, "  %d if-then plans used, %d commitments kept, %d evidence submitted\n",
		w.IfThenCount, w.CompletedCommitments, w.EvidenceCount)

	if len(r.ViolationCounts) > 0 {
		b.WriteString("\n")
		b.WriteString(Header("Violations"))
		b.WriteString("\n")
		types := make([]string, 0, len(r.ViolationCounts))
		for typ := range r.ViolationCounts {
			types = append(types, string(typ))
		}
		sort.Strings(types)
		for _, typ := range types {
			fmt.Fprintf(&b, "  %-16s %d\n", typ, r.ViolationCounts[domain.ViolationType(typ)])
		}
	}
	return b.String()
}
