// Package core holds the value objects shared by storage, analysis and the
// HTTP layer: money, periods, transactions and the analysis report types.
//
// Amounts are stored as integer cents so that sums and differences are exact;
// floating point appears only in derived rates and shares.
package core

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// Money is an amount in integer cents.
type Money struct {
	Cents int64
}

var ErrInvalidAmount = errors.New("invalid amount")

// ParseDecimalToCents converts a decimal string to cents with half-up
// rounding on the third decimal place. Both dot and comma separators are
// accepted. Negative values are rejected; sign lives on the transaction,
// not the amount.
func ParseDecimalToCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	const maxSafeInt64 = (1<<63 - 1) / 100
	if iv > maxSafeInt64 {
		return 0, ErrInvalidAmount
	}
	var fracCents int64
	if len(fracPart) > 0 {
		fracCents = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			fracCents += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}
	return iv*100 + fracCents, nil
}

// FromUnits converts a float amount in currency units to Money,
// rounding half away from zero.
func FromUnits(units float64) Money {
	return Money{Cents: int64(math.Round(units * 100))}
}

// Units returns the amount in currency units for display and for the
// rate/share arithmetic in the analysis engine.
func (m Money) Units() float64 {
	return float64(m.Cents) / 100.0
}

// Add returns m + other.
func (m Money) Add(other Money) Money {
	return Money{Cents: m.Cents + other.Cents}
}

// Sub returns m - other.
func (m Money) Sub(other Money) Money {
	return Money{Cents: m.Cents - other.Cents}
}

func (m Money) String() string {
	return fmt.Sprintf("%.2f", m.Units())
}

// MarshalJSON renders the amount as a plain decimal number in currency
// units, which is what API consumers and templates expect.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(m.Units(), 'f', 2, 64)), nil
}

// UnmarshalJSON accepts a decimal number in currency units.
func (m *Money) UnmarshalJSON(data []byte) error {
	units, err := strconv.ParseFloat(strings.TrimSpace(string(data)), 64)
	if err != nil {
		return ErrInvalidAmount
	}
	if units < 0 {
		return ErrInvalidAmount
	}
	*m = FromUnits(units)
	return nil
}
