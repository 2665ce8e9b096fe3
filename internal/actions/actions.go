// Package actions turns a month's analysis into a short list of concrete
// recommendations for the following month. The rules are fixed; wording is
// deterministic so the same report always yields the same list.
package actions

import (
	"fmt"

	"moneystory/internal/core"
)

const (
	minActions = 3
	maxActions = 5
)

// Recommend builds 3 to 5 next-month actions from the month's stats,
// breakdown and detected patterns. Rules fire in a fixed order (savings
// baseline, fees, spike days, subscriptions, top category) so the most
// impactful advice is always listed first; duplicates are dropped keeping
// the first occurrence.
func Recommend(stats core.BasicStats, breakdown []core.CategorySpend, patterns core.PatternReport) []string {
	var out []string

	switch {
	case stats.SavingsRate < 0.1:
		out = append(out, "Set up an automatic transfer of at least 10% of your income into a separate savings or investment account at the start of the month.")
	case stats.SavingsRate < 0.25:
		out = append(out, "If it feels comfortable, increase your monthly savings by 5-10% of your income by slightly trimming non-essential spends.")
	default:
		out = append(out, "Your savings rate is strong. Protect it by keeping fixed essentials and recurring commitments stable.")
	}

	if patterns.Fees.Total.Cents > 0 {
		out = append(out, fmt.Sprintf(
			"Open your statement and identify the %d fee/charge transaction(s) (~₹%.0f). Decide which ones you can avoid next month (late fees, ATM fees, convenience charges).",
			patterns.Fees.Count, patterns.Fees.Total.Units()))
	}

	if extra := spikeExtra(patterns.Spikes); extra.Cents > 0 {
		out = append(out, fmt.Sprintf(
			"Pick one of the high-spend days from this month (e.g., %s). Plan in advance how you'll handle a similar day next month to avoid the extra ~₹%.0f spend.",
			patterns.Spikes[0].Date.Format("2006-01-02"), extra.Units()))
	}

	if patterns.Subscriptions.Total.Cents > 0 {
		out = append(out, fmt.Sprintf(
			"Do a 10-minute subscription audit. Keep what you use weekly and pause or cancel the rest to reclaim part of the ~₹%.0f you spent this month.",
			patterns.Subscriptions.Total.Units()))
	}

	if len(breakdown) > 0 && breakdown[0].Category != "" {
		out = append(out, fmt.Sprintf(
			"Choose one simple rule to soften %s spends next month, for example one fewer order or a fixed monthly cap.",
			breakdown[0].Category))
	}

	if len(out) < minActions {
		out = append(out, "Block 30 minutes on your calendar to review this month's spending and write down 1-2 habits you want to change. Treat it like a personal retro, not punishment.")
	}

	return clamp(dedupe(out))
}

func spikeExtra(spikes []core.SpikeDay) core.Money {
	var extra core.Money
	for _, s := range spikes {
		extra = extra.Add(s.Excess)
	}
	return extra
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := in[:0]
	for _, s := range in {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

func clamp(in []string) []string {
	if len(in) > maxActions {
		return in[:maxActions]
	}
	return in
}
