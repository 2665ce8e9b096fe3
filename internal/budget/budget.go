// Package budget compares monthly category caps against actual spend.
package budget

import (
	"sort"

	"moneystory/internal/core"
)

// Utilisation bands. Below 0.8 of the cap is comfortable, up to 1.1 is
// close enough to watch, anything beyond is overspent.
const (
	StatusUnder = "under"
	StatusNear  = "near"
	StatusOver  = "over"

	underBound = 0.8
	nearBound  = 1.1
)

// Evaluate returns one status row per budget, ordered by category name.
// Actual spend comes from the period's expense breakdown; a category with no
// spend shows zero utilisation.
func Evaluate(budgets []core.Budget, breakdown []core.CategorySpend) []core.BudgetStatus {
	if len(budgets) == 0 {
		return nil
	}

	actualByCat := make(map[string]core.Money, len(breakdown))
	for _, row := range breakdown {
		actualByCat[row.Category] = row.Total
	}

	out := make([]core.BudgetStatus, 0, len(budgets))
	for _, b := range budgets {
		actual := actualByCat[b.Category]

		var util float64
		if b.Amount.Cents > 0 {
			util = actual.Units() / b.Amount.Units()
		}

		out = append(out, core.BudgetStatus{
			Category:    b.Category,
			Budget:      b.Amount,
			Actual:      actual,
			Utilisation: util,
			Status:      statusFor(util),
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}

func statusFor(util float64) string {
	switch {
	case util < underBound:
		return StatusUnder
	case util <= nearBound:
		return StatusNear
	default:
		return StatusOver
	}
}

// Defaults are the seed budgets for a fresh demo user.
func Defaults(userID int64) []core.Budget {
	return []core.Budget{
		{UserID: userID, Category: "Food", Amount: core.Money{Cents: 500_000}},
		{UserID: userID, Category: "Shopping", Amount: core.Money{Cents: 400_000}},
		{UserID: userID, Category: "Subscriptions", Amount: core.Money{Cents: 150_000}},
		{UserID: userID, Category: "Transport", Amount: core.Money{Cents: 300_000}},
	}
}
