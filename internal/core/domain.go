package core

import (
	"errors"
	"strings"
	"time"
)

type (
	// User owns transactions and budgets. The service is small and
	// single-household, but everything downstream is keyed by user so
	// two people sharing an instance never mix ledgers.
	User struct {
		ID    int64
		Name  string
		Email string
	}

	// Transaction is one normalized money movement. Amount is always a
	// non-negative magnitude; direction is carried by IsIncome, never by
	// a negative amount.
	Transaction struct {
		ID          int64
		UserID      int64
		Timestamp   time.Time
		Amount      Money
		IsIncome    bool
		Category    string // may be empty until categorization fills it
		Description string
		Source      string
		AccountName string
	}

	// Budget is a monthly cap for one expense category.
	Budget struct {
		ID       int64
		UserID   int64
		Category string
		Amount   Money
	}
)

// CategoryOther is the catch-all bucket for uncategorized expenses.
const CategoryOther = "Other"

var (
	ErrMissingTimestamp = errors.New("missing timestamp")
	ErrNegativeAmount   = errors.New("amount must be a non-negative magnitude")
	ErrMissingUser      = errors.New("missing user id")
	ErrEmptyCategory    = errors.New("empty budget category")
)

// Validate checks the fields ingestion is required to provide. Optional
// fields (category, description, source, account name) may be empty.
func (t Transaction) Validate() error {
	if t.Timestamp.IsZero() {
		return ErrMissingTimestamp
	}
	if t.Amount.Cents < 0 {
		return ErrNegativeAmount
	}
	if t.UserID <= 0 {
		return ErrMissingUser
	}
	return nil
}

// CategoryOrOther returns the assigned category, falling back to the
// catch-all bucket when none was assigned.
func (t Transaction) CategoryOrOther() string {
	if strings.TrimSpace(t.Category) == "" {
		return CategoryOther
	}
	return t.Category
}

func (b Budget) Validate() error {
	if b.UserID <= 0 {
		return ErrMissingUser
	}
	if strings.TrimSpace(b.Category) == "" {
		return ErrEmptyCategory
	}
	if b.Amount.Cents <= 0 {
		return errors.New("budget amount must be positive")
	}
	return nil
}
