// Package story renders a month's analysis as a plain-language narrative.
// A Gemini-backed teller produces the conversational version; a
// deterministic template covers every failure mode so the endpoint never
// depends on the model being reachable.
package story

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"moneystory/internal/analysis"
)

// Teller produces the monthly money story. Implementations must return an
// error rather than an empty story; the caller decides the fallback.
type Teller interface {
	Tell(ctx context.Context, report analysis.MonthlyReport) (string, error)
}

// Build returns the money story for a report, preferring the teller and
// falling back to the local template when the teller is nil or fails. The
// returned story is never empty.
func Build(ctx context.Context, teller Teller, report analysis.MonthlyReport) string {
	if teller != nil {
		text, err := teller.Tell(ctx, report)
		if err == nil && strings.TrimSpace(text) != "" {
			return strings.TrimSpace(text)
		}
		if err != nil {
			slog.WarnContext(ctx, "Story teller failed, using template", "error", err, "period", report.Period.String())
		}
	}
	return Template(report)
}

// Template is the deterministic non-model story. Same report, same words.
func Template(report analysis.MonthlyReport) string {
	stats := report.Stats
	patterns := report.Patterns

	catsText := "No major expenses recorded."
	if len(report.Breakdown) > 0 {
		top := report.Breakdown
		if len(top) > 3 {
			top = top[:3]
		}
		parts := make([]string, len(top))
		for i, c := range top {
			parts[i] = fmt.Sprintf("%s (%.0f)", c.Category, c.Total.Units())
		}
		catsText = strings.Join(parts, "; ")
	}

	tone := "steady and healthy overall."
	switch patterns.Cashflow {
	case "critical":
		tone = "at risk - your spending was higher than your income."
	case "warning":
		tone = "okay, but your savings cushion is thinner than ideal."
	}

	var spikeExtra float64
	for _, s := range patterns.Spikes {
		spikeExtra += s.Excess.Units()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "For %s, here's your money story in plain language:\n\n", report.Period)
	fmt.Fprintf(&b, "You brought in about ₹%.0f and spent around ₹%.0f. ", stats.TotalIncome.Units(), stats.TotalExpense.Units())
	fmt.Fprintf(&b, "That leaves you with roughly ₹%.0f left over, which means your savings rate for the month was about %.1f%%. ", stats.Net.Units(), stats.SavingsRate*100)
	fmt.Fprintf(&b, "Overall, your cashflow looks %s\n\n", tone)
	fmt.Fprintf(&b, "Most of your outgoing money went into: %s\n\n", catsText)
	fmt.Fprintf(&b, "Looking at patterns, you paid about ₹%.0f in fees or charges across %d transaction(s). ", patterns.Fees.Total.Units(), patterns.Fees.Count)
	b.WriteString("This is money that gives you zero value back, so it's usually worth reducing over time.\n\n")
	fmt.Fprintf(&b, "We also noticed %d day(s) where your spending spiked well above your usual daily level. ", len(patterns.Spikes))
	fmt.Fprintf(&b, "On those days you spent roughly ₹%.0f more than your typical pattern. ", spikeExtra)
	b.WriteString("These are good candidates for \"impulse days\" to reflect on.\n\n")
	fmt.Fprintf(&b, "Subscriptions (OTT, music, etc.) added up to about ₹%.0f across %d transaction(s). ", patterns.Subscriptions.Total.Units(), patterns.Subscriptions.Count)
	b.WriteString("It might be worth checking if all of them are still actively used.\n\n")
	b.WriteString("If you want one simple takeaway: reduce unnecessary fees and tame 1-2 of the spike days next month. That alone can improve your savings rate meaningfully without feeling like a harsh budget.")

	return b.String()
}
