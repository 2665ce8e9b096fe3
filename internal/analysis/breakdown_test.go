package analysis

import (
	"math"
	"testing"
	"time"

	"moneystory/internal/core"
)

func TestCategoryBreakdown(t *testing.T) {
	e := New(DefaultConfig())
	jan := day(2024, time.January, 10)

	txs := []core.Transaction{
		tx(jan, 300_000, false, "Food", "groceries"),
		tx(jan, 100_000, false, "Transport", "fuel"),
		tx(jan, 100_000, false, "", "mystery swipe"),
		tx(jan, 999_999, true, "Salary", "salary credit"),
	}

	got := e.CategoryBreakdown(txs)
	if len(got) != 3 {
		t.Fatalf("got %d rows, want 3", len(got))
	}

	if got[0].Category != "Food" || got[0].Total.Cents != 300_000 {
		t.Errorf("row 0 = %s/%d, want Food/300000", got[0].Category, got[0].Total.Cents)
	}
	// Tie between Other and Transport breaks alphabetically.
	if got[1].Category != "Other" || got[2].Category != "Transport" {
		t.Errorf("tied rows = %s, %s, want Other, Transport", got[1].Category, got[2].Category)
	}

	var shareSum float64
	for _, row := range got {
		shareSum += row.Share
	}
	if math.Abs(shareSum-1) > 1e-9 {
		t.Errorf("shares sum to %v, want 1", shareSum)
	}
	if got[0].Share != 0.6 {
		t.Errorf("Food share = %v, want 0.6", got[0].Share)
	}
}

func TestCategoryBreakdownNoExpenses(t *testing.T) {
	e := New(DefaultConfig())
	jan := day(2024, time.January, 10)

	tests := []struct {
		name string
		txs  []core.Transaction
	}{
		{name: "empty", txs: nil},
		{name: "income only", txs: []core.Transaction{tx(jan, 100_000, true, "Salary", "")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := e.CategoryBreakdown(tt.txs); got != nil {
				t.Errorf("got %v, want nil", got)
			}
		})
	}
}
