package analysis

import (
	"context"

	"golang.org/x/sync/errgroup"

	"moneystory/internal/core"
)

// MonthlyReport is the full analysis for one user and one month: the
// period's stats, its expense breakdown, detected patterns, trends against
// history and the cross-month behavior profile.
type MonthlyReport struct {
	Period    core.Period          `json:"period"`
	Stats     core.BasicStats      `json:"stats"`
	Breakdown []core.CategorySpend `json:"breakdown"`
	Patterns  core.PatternReport   `json:"patterns"`
	Trends    []core.TrendRow      `json:"trends"`
	Profile   core.BehaviorProfile `json:"profile"`
}

// BuildMonthlyReport computes the report for period from the user's full
// transaction history. Transactions outside the target period only feed the
// trend baseline and the profiler; a period with no transactions still gets
// a report with zero stats.
//
// The four independent analyses run concurrently. They are pure functions,
// so the only error path is context cancellation while the profiler is
// clustering.
func (e *Engine) BuildMonthlyReport(ctx context.Context, period core.Period, txs []core.Transaction) (MonthlyReport, error) {
	groups := core.GroupByPeriod(txs)
	current := groups[period]

	report := MonthlyReport{Period: period}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		report.Stats = e.BasicStats(current)
		report.Breakdown = e.CategoryBreakdown(current)
		return nil
	})
	g.Go(func() error {
		report.Patterns = e.DetectPatterns(current)
		return nil
	})
	g.Go(func() error {
		report.Trends = e.CategoryTrends(e.CategoryBreakdown(current), e.historyBreakdowns(groups, period))
		return nil
	})
	g.Go(func() error {
		report.Profile = e.BehaviorProfiles(ctx, e.FeatureRows(txs))
		return ctx.Err()
	})
	if err := g.Wait(); err != nil {
		return MonthlyReport{}, err
	}

	return report, nil
}

// historyBreakdowns returns one breakdown per period strictly before the
// target, oldest first. Prior periods with no expenses contribute an empty
// breakdown so they still count toward the baseline average.
func (e *Engine) historyBreakdowns(groups map[core.Period][]core.Transaction, target core.Period) [][]core.CategorySpend {
	var history [][]core.CategorySpend
	for _, p := range core.SortedPeriods(groups) {
		if !p.Before(target) {
			continue
		}
		history = append(history, e.CategoryBreakdown(groups[p]))
	}
	return history
}
