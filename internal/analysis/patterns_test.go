package analysis

import (
	"testing"
	"time"

	"moneystory/internal/core"
)

func TestCashflowFlag(t *testing.T) {
	e := New(DefaultConfig())

	tests := []struct {
		name  string
		stats core.BasicStats
		want  core.CashflowFlag
	}{
		{
			name:  "negative net is critical",
			stats: core.BasicStats{Net: core.Money{Cents: -1}, SavingsRate: 0},
			want:  core.CashflowCritical,
		},
		{
			name:  "savings rate exactly at threshold is still a warning",
			stats: core.BasicStats{Net: core.Money{Cents: 10_000}, SavingsRate: 0.10},
			want:  core.CashflowWarning,
		},
		{
			name:  "zero net zero income is a warning not critical",
			stats: core.BasicStats{},
			want:  core.CashflowWarning,
		},
		{
			name:  "above threshold is ok",
			stats: core.BasicStats{Net: core.Money{Cents: 50_000}, SavingsRate: 0.11},
			want:  core.CashflowOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := e.CashflowFlag(tt.stats); got != tt.want {
				t.Errorf("CashflowFlag() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDetectFees(t *testing.T) {
	e := New(DefaultConfig())
	jan := day(2024, time.January, 3)

	txs := []core.Transaction{
		tx(jan, 5_000, false, "Fees & Charges", "atm withdrawal"),
		tx(jan, 3_000, false, "Other", "late payment PENALTY"),
		tx(jan, 2_000, false, "Other", "interest debit"),
		tx(jan, 90_000, false, "Food", "dinner"),
		tx(jan, 1_000, true, "Other", "cashback fee reversal"), // income never counts
	}

	got := e.DetectPatterns(txs).Fees
	if got.Count != 3 {
		t.Errorf("fee count = %d, want 3", got.Count)
	}
	if got.Total.Cents != 10_000 {
		t.Errorf("fee total = %d, want 10000", got.Total.Cents)
	}
}

func TestDetectSubscriptions(t *testing.T) {
	e := New(DefaultConfig())
	jan := day(2024, time.January, 3)

	txs := []core.Transaction{
		tx(jan, 64_900, false, "subscriptions", "netflix"), // category match is case-insensitive
		tx(jan, 11_900, false, "Other", "Annual subscription renewal"),
		tx(jan, 90_000, false, "Food", "groceries"),
	}

	got := e.DetectPatterns(txs).Subscriptions
	if got.Count != 2 {
		t.Errorf("subscription count = %d, want 2", got.Count)
	}
	if got.Total.Cents != 76_800 {
		t.Errorf("subscription total = %d, want 76800", got.Total.Cents)
	}
}

func TestDetectSpikes(t *testing.T) {
	e := New(DefaultConfig())

	// Three spend days totalling 1000, 1000 and 10000 units: median 1000,
	// threshold 1500, so the big day is flagged with excess 8500.
	txs := []core.Transaction{
		tx(day(2024, time.January, 1), 100_000, false, "Food", ""),
		tx(day(2024, time.January, 2), 60_000, false, "Food", ""),
		tx(day(2024, time.January, 2), 40_000, false, "Transport", ""),
		tx(day(2024, time.January, 3), 1_000_000, false, "Shopping", "new phone"),
		tx(day(2024, time.January, 3), 999_999, true, "Salary", ""), // income excluded from daily totals
	}

	got := e.DetectPatterns(txs).Spikes
	if len(got) != 1 {
		t.Fatalf("got %d spikes, want 1", len(got))
	}
	spike := got[0]
	if !spike.Date.Equal(time.Date(2024, time.January, 3, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("spike date = %v, want 2024-01-03", spike.Date)
	}
	if spike.Total.Cents != 1_000_000 {
		t.Errorf("spike total = %d, want 1000000", spike.Total.Cents)
	}
	if spike.Excess.Cents != 850_000 {
		t.Errorf("spike excess = %d, want 850000", spike.Excess.Cents)
	}
}

func TestDetectSpikesEdgeCases(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		txs  []core.Transaction
	}{
		{
			name: "single spend day is never a spike",
			cfg:  DefaultConfig(),
			txs: []core.Transaction{
				tx(day(2024, time.January, 3), 1_000_000, false, "Shopping", ""),
			},
		},
		{
			name: "relative outlier below the absolute floor is ignored",
			cfg:  DefaultConfig(),
			txs: []core.Transaction{
				tx(day(2024, time.January, 1), 1_000, false, "Food", ""),
				tx(day(2024, time.January, 2), 1_000, false, "Food", ""),
				tx(day(2024, time.January, 3), 40_000, false, "Food", ""), // 10x median but under 500.00
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New(tt.cfg)
			if got := e.DetectPatterns(tt.txs).Spikes; got != nil {
				t.Errorf("got %v, want no spikes", got)
			}
		})
	}
}
