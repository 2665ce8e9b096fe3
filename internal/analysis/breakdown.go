package analysis

import (
	"sort"

	"moneystory/internal/core"
)

// CategoryBreakdown groups a period's expense transactions by category with
// each category's share of total expense. Income transactions are excluded.
// Transactions without a category land in the "Other" bucket here even when
// an upstream categorizer normally assigns one, so the breakdown always
// accounts for the full expense total.
//
// Rows are sorted by total descending; ties break by category name ascending
// so the output is deterministic. An expense-free period yields an empty
// slice, never rows with zero shares.
func (e *Engine) CategoryBreakdown(txs []core.Transaction) []core.CategorySpend {
	totals := make(map[string]core.Money)
	var expense core.Money
	for _, tx := range txs {
		if tx.IsIncome {
			continue
		}
		cat := tx.CategoryOrOther()
		totals[cat] = totals[cat].Add(tx.Amount)
		expense = expense.Add(tx.Amount)
	}

	if expense.Cents == 0 {
		return nil
	}

	rows := make([]core.CategorySpend, 0, len(totals))
	for cat, total := range totals {
		rows = append(rows, core.CategorySpend{
			Category: cat,
			Total:    total,
			Share:    total.Units() / expense.Units(),
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Total.Cents != rows[j].Total.Cents {
			return rows[i].Total.Cents > rows[j].Total.Cents
		}
		return rows[i].Category < rows[j].Category
	})

	return rows
}
