package core

import (
	"testing"
	"time"
)

func TestPeriodString(t *testing.T) {
	p := Period{Year: 2024, Month: time.March}
	if got := p.String(); got != "2024-03" {
		t.Errorf("String() = %q, want 2024-03", got)
	}
}

func TestParsePeriod(t *testing.T) {
	p, err := ParsePeriod("2024-11")
	if err != nil {
		t.Fatalf("ParsePeriod() error = %v", err)
	}
	if p.Year != 2024 || p.Month != time.November {
		t.Errorf("ParsePeriod() = %v, want 2024-11", p)
	}

	if _, err := ParsePeriod("not-a-period"); err == nil {
		t.Error("ParsePeriod should reject garbage")
	}
}

func TestPeriodBeforeAndNext(t *testing.T) {
	dec := Period{Year: 2023, Month: time.December}
	jan := Period{Year: 2024, Month: time.January}

	if !dec.Before(jan) {
		t.Error("2023-12 should be before 2024-01")
	}
	if jan.Before(jan) {
		t.Error("a period is not before itself")
	}
	if got := dec.Next(); got != jan {
		t.Errorf("Next() = %v, want %v", got, jan)
	}
}

func TestGroupByPeriod(t *testing.T) {
	txs := []Transaction{
		{Timestamp: time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC)},
		{Timestamp: time.Date(2024, time.January, 31, 23, 59, 0, 0, time.UTC)},
		{Timestamp: time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)},
	}

	groups := GroupByPeriod(txs)
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}
	if got := len(groups[Period{Year: 2024, Month: time.January}]); got != 2 {
		t.Errorf("January has %d transactions, want 2", got)
	}

	periods := SortedPeriods(groups)
	if periods[0].Month != time.January || periods[1].Month != time.February {
		t.Errorf("SortedPeriods() = %v, want January before February", periods)
	}
}
