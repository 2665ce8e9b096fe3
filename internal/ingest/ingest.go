// Package ingest parses transaction CSV uploads into domain transactions.
// Parsing is tolerant per row and strict per file: a malformed row is
// recorded and skipped, a missing required column rejects the whole upload.
package ingest

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"moneystory/internal/categorize"
	"moneystory/internal/core"
)

// Required CSV columns. Optional columns: category, description, source,
// account_name. Anything else is ignored.
var requiredColumns = []string{"timestamp", "amount", "is_income"}

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Result summarizes one upload. Transactions holds the parsed rows tagged
// with a fresh batch ID; Errors holds one entry per skipped row.
type Result struct {
	BatchID      string
	Transactions []core.Transaction
	Skipped      int
	Errors       []error
}

// ParseCSV reads a header-based CSV and returns the parsed transactions for
// userID. Rows missing a category get one guessed from the keyword table;
// user-supplied categories are kept as-is. Transaction IDs are assigned by
// storage on insert, not here.
func ParseCSV(r io.Reader, userID int64) (Result, error) {
	res := Result{BatchID: uuid.NewString()}

	cr := csv.NewReader(bufio.NewReader(r))
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return res, fmt.Errorf("read csv header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := cols[col]; !ok {
			return res, fmt.Errorf("missing required column in CSV: %s", col)
		}
	}

	line := 1
	for {
		line++
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			res.Skipped++
			res.Errors = append(res.Errors, fmt.Errorf("line %d: %w", line, err))
			continue
		}

		tx, err := parseRow(rec, cols, userID)
		if err != nil {
			res.Skipped++
			res.Errors = append(res.Errors, fmt.Errorf("line %d: %w", line, err))
			continue
		}
		res.Transactions = append(res.Transactions, tx)
	}

	categorize.Apply(res.Transactions)
	return res, nil
}

func parseRow(rec []string, cols map[string]int, userID int64) (core.Transaction, error) {
	field := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	ts, err := parseTimestamp(field("timestamp"))
	if err != nil {
		return core.Transaction{}, err
	}

	cents, err := core.ParseDecimalToCents(field("amount"))
	if err != nil {
		return core.Transaction{}, fmt.Errorf("amount: %w", err)
	}

	isIncome, err := strconv.ParseBool(field("is_income"))
	if err != nil {
		return core.Transaction{}, fmt.Errorf("is_income: %w", err)
	}

	tx := core.Transaction{
		UserID:      userID,
		Timestamp:   ts,
		Amount:      core.Money{Cents: cents},
		IsIncome:    isIncome,
		Category:    field("category"),
		Description: field("description"),
		Source:      field("source"),
		AccountName: field("account_name"),
	}
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}
	return tx, nil
}

func parseTimestamp(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, core.ErrMissingTimestamp
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
