package analysis

import (
	"testing"
	"time"

	"moneystory/internal/core"
)

func tx(day time.Time, cents int64, income bool, category, description string) core.Transaction {
	return core.Transaction{
		UserID:      1,
		Timestamp:   day,
		Amount:      core.Money{Cents: cents},
		IsIncome:    income,
		Category:    category,
		Description: description,
	}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 10, 0, 0, 0, time.UTC)
}

func TestBasicStats(t *testing.T) {
	e := New(DefaultConfig())
	jan := day(2024, time.January, 5)

	tests := []struct {
		name        string
		txs         []core.Transaction
		income      int64
		expense     int64
		net         int64
		savingsRate float64
	}{
		{
			name: "income and expense",
			txs: []core.Transaction{
				tx(jan, 500_000, true, "Salary", "salary credit"),
				tx(jan, 120_000, false, "Food", "groceries"),
				tx(jan, 80_000, false, "Transport", "fuel"),
			},
			income:      500_000,
			expense:     200_000,
			net:         300_000,
			savingsRate: 0.6,
		},
		{
			name: "no income defines savings rate as zero",
			txs: []core.Transaction{
				tx(jan, 50_000, false, "Food", "dinner"),
			},
			income:      0,
			expense:     50_000,
			net:         -50_000,
			savingsRate: 0,
		},
		{
			name:        "empty input",
			txs:         nil,
			income:      0,
			expense:     0,
			net:         0,
			savingsRate: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.BasicStats(tt.txs)
			if got.TotalIncome.Cents != tt.income {
				t.Errorf("TotalIncome = %d, want %d", got.TotalIncome.Cents, tt.income)
			}
			if got.TotalExpense.Cents != tt.expense {
				t.Errorf("TotalExpense = %d, want %d", got.TotalExpense.Cents, tt.expense)
			}
			if got.Net.Cents != tt.net {
				t.Errorf("Net = %d, want %d", got.Net.Cents, tt.net)
			}
			if got.SavingsRate != tt.savingsRate {
				t.Errorf("SavingsRate = %v, want %v", got.SavingsRate, tt.savingsRate)
			}
		})
	}
}

func TestBasicStatsNetIsExact(t *testing.T) {
	e := New(DefaultConfig())
	jan := day(2024, time.January, 1)

	// Amounts chosen to break float arithmetic (0.1 + 0.2 style).
	txs := []core.Transaction{
		tx(jan, 10, true, "Salary", ""),
		tx(jan, 20, true, "Salary", ""),
		tx(jan, 10, false, "Food", ""),
		tx(jan, 10, false, "Food", ""),
		tx(jan, 10, false, "Food", ""),
	}

	got := e.BasicStats(txs)
	if diff := got.TotalIncome.Cents - got.TotalExpense.Cents; got.Net.Cents != diff {
		t.Errorf("Net = %d, want income-expense = %d", got.Net.Cents, diff)
	}
	if got.Net.Cents != 0 {
		t.Errorf("Net = %d, want 0", got.Net.Cents)
	}
}
