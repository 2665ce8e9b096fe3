package core

import (
	"fmt"
	"sort"
	"time"
)

// Period identifies one calendar month of one user's transactions. Two
// transactions belong to the same period iff their timestamps share year
// and month. Periods are derived from timestamps, never stored.
type Period struct {
	Year  int
	Month time.Month
}

// PeriodOf returns the period a timestamp falls into.
func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: t.Month()}
}

// String renders the period as "YYYY-MM".
func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

// ParsePeriod parses "YYYY-MM".
func ParsePeriod(s string) (Period, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Period{}, fmt.Errorf("parse period %q: %w", s, err)
	}
	return PeriodOf(t), nil
}

// MarshalText lets Period serve as a JSON map key.
func (p Period) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText parses "YYYY-MM".
func (p *Period) UnmarshalText(text []byte) error {
	parsed, err := ParsePeriod(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Before reports whether p is strictly earlier than other.
func (p Period) Before(other Period) bool {
	if p.Year != other.Year {
		return p.Year < other.Year
	}
	return p.Month < other.Month
}

// Start returns the first instant of the period in UTC.
func (p Period) Start() time.Time {
	return time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC)
}

// Next returns the following calendar month.
func (p Period) Next() Period {
	if p.Month == time.December {
		return Period{Year: p.Year + 1, Month: time.January}
	}
	return Period{Year: p.Year, Month: p.Month + 1}
}

// GroupByPeriod buckets transactions by calendar month.
func GroupByPeriod(txs []Transaction) map[Period][]Transaction {
	groups := make(map[Period][]Transaction)
	for _, tx := range txs {
		p := PeriodOf(tx.Timestamp)
		groups[p] = append(groups[p], tx)
	}
	return groups
}

// SortedPeriods returns the keys of a period bucket map in ascending order.
func SortedPeriods[T any](groups map[Period][]T) []Period {
	periods := make([]Period, 0, len(groups))
	for p := range groups {
		periods = append(periods, p)
	}
	sort.Slice(periods, func(i, j int) bool { return periods[i].Before(periods[j]) })
	return periods
}
