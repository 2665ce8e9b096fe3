package analysis

import (
	"math"
	"sort"

	"moneystory/internal/core"
)

// CategoryTrends compares the current period's category spend against the
// per-category monthly average over all strictly earlier periods. Categories
// present historically but absent now appear with current 0; categories new
// this period have no baseline and report their percentage as undefined
// rather than dividing by zero. Rows are sorted by absolute delta
// descending, biggest movers first, with the category name as tiebreak.
//
// history holds one breakdown per prior period; periods with no expenses
// still count toward the averaging denominator only if a breakdown (possibly
// empty) is supplied for them.
func (e *Engine) CategoryTrends(current []core.CategorySpend, history [][]core.CategorySpend) []core.TrendRow {
	if len(history) == 0 {
		return nil
	}

	baselineTotals := make(map[string]float64)
	for _, breakdown := range history {
		for _, row := range breakdown {
			baselineTotals[row.Category] += row.Total.Units()
		}
	}
	months := float64(len(history))

	currentByCat := make(map[string]float64, len(current))
	for _, row := range current {
		currentByCat[row.Category] = row.Total.Units()
	}

	seen := make(map[string]bool)
	var rows []core.TrendRow
	addRow := func(cat string) {
		if seen[cat] {
			return
		}
		seen[cat] = true

		cur := currentByCat[cat]
		baseline := baselineTotals[cat] / months
		row := core.TrendRow{
			Category: cat,
			Current:  cur,
			Baseline: baseline,
			Delta:    cur - baseline,
		}
		if baseline > 0 {
			row.DeltaPct = row.Delta / baseline
			row.PctDefined = true
		}
		rows = append(rows, row)
	}

	for _, row := range current {
		addRow(row.Category)
	}
	for cat := range baselineTotals {
		addRow(cat)
	}

	sort.Slice(rows, func(i, j int) bool {
		di, dj := math.Abs(rows[i].Delta), math.Abs(rows[j].Delta)
		if di != dj {
			return di > dj
		}
		return rows[i].Category < rows[j].Category
	})

	return rows
}
