package analysis

import "moneystory/internal/core"

// FeatureRows derives one behavior feature row per period with data, ordered
// by period ascending. Shares are computed against total expense; an
// expense-free period yields zero shares rather than dividing by zero.
func (e *Engine) FeatureRows(txs []core.Transaction) []core.FeatureRow {
	groups := core.GroupByPeriod(txs)
	periods := core.SortedPeriods(groups)

	rows := make([]core.FeatureRow, 0, len(periods))
	for _, p := range periods {
		periodTxs := groups[p]
		stats := e.BasicStats(periodTxs)

		var subs, shopping core.Money
		for _, tx := range periodTxs {
			if tx.IsIncome {
				continue
			}
			if isSubscriptionLike(tx) {
				subs = subs.Add(tx.Amount)
			}
			if tx.Category == categoryShopping {
				shopping = shopping.Add(tx.Amount)
			}
		}

		row := core.FeatureRow{
			Period:       p,
			SavingsRate:  stats.SavingsRate,
			TotalExpense: stats.TotalExpense.Units(),
		}
		if stats.TotalExpense.Cents > 0 {
			row.SubscriptionShare = subs.Units() / stats.TotalExpense.Units()
			row.ShoppingShare = shopping.Units() / stats.TotalExpense.Units()
		}
		rows = append(rows, row)
	}

	return rows
}
