package budget

import (
	"testing"

	"moneystory/internal/core"
)

func TestEvaluate(t *testing.T) {
	budgets := []core.Budget{
		{Category: "Food", Amount: core.Money{Cents: 500_000}},
		{Category: "Shopping", Amount: core.Money{Cents: 400_000}},
		{Category: "Subscriptions", Amount: core.Money{Cents: 150_000}},
		{Category: "Transport", Amount: core.Money{Cents: 300_000}},
	}
	breakdown := []core.CategorySpend{
		{Category: "Food", Total: core.Money{Cents: 350_000}},          // 0.7 under
		{Category: "Shopping", Total: core.Money{Cents: 440_000}},      // 1.1 still near
		{Category: "Subscriptions", Total: core.Money{Cents: 180_000}}, // 1.2 over
	}

	got := Evaluate(budgets, breakdown)
	if len(got) != 4 {
		t.Fatalf("got %d rows, want 4", len(got))
	}

	tests := []struct {
		category string
		util     float64
		status   string
	}{
		{"Food", 0.7, StatusUnder},
		{"Shopping", 1.1, StatusNear},
		{"Subscriptions", 1.2, StatusOver},
		{"Transport", 0, StatusUnder}, // no spend at all
	}
	for i, tt := range tests {
		row := got[i]
		if row.Category != tt.category {
			t.Fatalf("row %d = %s, want %s (rows must be sorted by category)", i, row.Category, tt.category)
		}
		if row.Utilisation != tt.util {
			t.Errorf("%s utilisation = %v, want %v", tt.category, row.Utilisation, tt.util)
		}
		if row.Status != tt.status {
			t.Errorf("%s status = %s, want %s", tt.category, row.Status, tt.status)
		}
	}
}

func TestEvaluateNoBudgets(t *testing.T) {
	if got := Evaluate(nil, []core.CategorySpend{{Category: "Food"}}); got != nil {
		t.Errorf("got %v, want nil", got)
	}
}
