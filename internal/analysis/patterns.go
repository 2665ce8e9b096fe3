package analysis

import (
	"math"
	"sort"
	"strings"
	"time"

	"moneystory/internal/core"
)

// feeVocabulary matches fee/penalty style expenses by description or
// category text. This is a static classification table; the engine does not
// learn or re-derive it.
var feeVocabulary = []string{"fee", "charge", "penalty", "fine", "interest"}

// DetectPatterns scans one user/period's transactions for fee load, impulse
// spike days, subscription bloat and the overall cashflow flag.
func (e *Engine) DetectPatterns(txs []core.Transaction) core.PatternReport {
	return core.PatternReport{
		Fees:          e.detectFees(txs),
		Spikes:        e.detectSpikes(txs),
		Subscriptions: e.detectSubscriptions(txs),
		Cashflow:      e.CashflowFlag(e.BasicStats(txs)),
	}
}

// CashflowFlag derives the three-way health flag from basic stats:
// critical iff net is negative; warning when net is non-negative but the
// savings rate is at or below the healthy threshold; ok above it. The
// boundary is inclusive, so a savings rate of exactly the threshold is
// still a warning.
func (e *Engine) CashflowFlag(stats core.BasicStats) core.CashflowFlag {
	switch {
	case stats.Net.Cents < 0:
		return core.CashflowCritical
	case stats.SavingsRate <= e.cfg.HealthySavingsRate:
		return core.CashflowWarning
	default:
		return core.CashflowOK
	}
}

func (e *Engine) detectFees(txs []core.Transaction) core.FeeSummary {
	var out core.FeeSummary
	for _, tx := range txs {
		if tx.IsIncome {
			continue
		}
		if isFeeLike(tx) {
			out.Count++
			out.Total = out.Total.Add(tx.Amount)
		}
	}
	return out
}

func isFeeLike(tx core.Transaction) bool {
	if tx.Category == categoryFees {
		return true
	}
	text := strings.ToLower(tx.Description)
	for _, word := range feeVocabulary {
		if strings.Contains(text, word) {
			return true
		}
	}
	return false
}

func (e *Engine) detectSubscriptions(txs []core.Transaction) core.SubscriptionSummary {
	var out core.SubscriptionSummary
	for _, tx := range txs {
		if tx.IsIncome {
			continue
		}
		if isSubscriptionLike(tx) {
			out.Count++
			out.Total = out.Total.Add(tx.Amount)
		}
	}
	return out
}

func isSubscriptionLike(tx core.Transaction) bool {
	if strings.EqualFold(tx.Category, categorySubscriptions) {
		return true
	}
	return strings.Contains(strings.ToLower(tx.Description), "subscription")
}

// detectSpikes computes daily expense totals for every day with at least one
// expense, takes the median, and flags days above both the relative
// threshold (median times the multiplier) and the absolute floor. The
// reported excess is the amount above the relative threshold. With fewer
// than two distinct spend-days the median is degenerate and nothing is
// flagged.
func (e *Engine) detectSpikes(txs []core.Transaction) []core.SpikeDay {
	daily := make(map[time.Time]core.Money)
	for _, tx := range txs {
		if tx.IsIncome {
			continue
		}
		day := tx.Timestamp.UTC().Truncate(24 * time.Hour)
		daily[day] = daily[day].Add(tx.Amount)
	}

	if len(daily) < 2 {
		return nil
	}

	totals := make([]int64, 0, len(daily))
	for _, m := range daily {
		totals = append(totals, m.Cents)
	}
	sort.Slice(totals, func(i, j int) bool { return totals[i] < totals[j] })
	median := medianCents(totals)
	if median <= 0 {
		return nil
	}

	threshold := e.cfg.SpikeMultiplier * median

	var spikes []core.SpikeDay
	for day, total := range daily {
		if float64(total.Cents) > threshold && total.Cents > e.cfg.SpikeFloorCents {
			spikes = append(spikes, core.SpikeDay{
				Date:   day,
				Total:  total,
				Excess: core.Money{Cents: total.Cents - int64(math.Round(threshold))},
			})
		}
	}

	sort.Slice(spikes, func(i, j int) bool { return spikes[i].Date.Before(spikes[j].Date) })
	return spikes
}

// medianCents expects sorted input and interpolates the middle pair for an
// even count.
func medianCents(sorted []int64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n%2 == 1 {
		return float64(sorted[n/2])
	}
	return float64(sorted[n/2-1]+sorted[n/2]) / 2
}
