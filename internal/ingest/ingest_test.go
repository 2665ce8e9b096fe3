package ingest

import (
	"strings"
	"testing"
	"time"
)

func TestParseCSV(t *testing.T) {
	csv := strings.Join([]string{
		"timestamp,amount,is_income,category,description,source,account_name,currency",
		"2024-01-05T10:30:00Z,50000,true,,SALARY CREDIT JAN,bank,HDFC Savings,INR",
		"2024-01-10,450.50,false,Food,zomato order,upi,,INR",
		"2024-01-12 18:45:00,1299,0,,netflix renewal,card,,INR",
	}, "\n")

	res, err := ParseCSV(strings.NewReader(csv), 1)
	if err != nil {
		t.Fatalf("ParseCSV() error = %v", err)
	}
	if res.BatchID == "" {
		t.Error("batch id not assigned")
	}
	if len(res.Transactions) != 3 || res.Skipped != 0 {
		t.Fatalf("got %d transactions (%d skipped), want 3 (0 skipped)", len(res.Transactions), res.Skipped)
	}

	salary := res.Transactions[0]
	if !salary.IsIncome || salary.Amount.Cents != 5_000_000 {
		t.Errorf("salary row = income %v amount %d, want income 5000000", salary.IsIncome, salary.Amount.Cents)
	}
	if salary.Category != "Salary" {
		t.Errorf("salary category = %q, want auto-guessed Salary", salary.Category)
	}
	if salary.UserID != 1 || salary.AccountName != "HDFC Savings" {
		t.Errorf("salary row = user %d account %q", salary.UserID, salary.AccountName)
	}

	food := res.Transactions[1]
	if food.Amount.Cents != 45_050 || food.Category != "Food" {
		t.Errorf("food row = amount %d category %q, want 45050 Food (user category kept)", food.Amount.Cents, food.Category)
	}
	wantDay := time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC)
	if !food.Timestamp.Equal(wantDay) {
		t.Errorf("food timestamp = %v, want %v", food.Timestamp, wantDay)
	}

	netflix := res.Transactions[2]
	if netflix.IsIncome {
		t.Error("is_income=0 parsed as income")
	}
	if netflix.Category != "Subscriptions" {
		t.Errorf("netflix category = %q, want auto-guessed Subscriptions", netflix.Category)
	}
}

func TestParseCSVMissingRequiredColumn(t *testing.T) {
	csv := "timestamp,amount\n2024-01-05,100\n"

	_, err := ParseCSV(strings.NewReader(csv), 1)
	if err == nil || !strings.Contains(err.Error(), "is_income") {
		t.Errorf("error = %v, want missing is_income column", err)
	}
}

func TestParseCSVSkipsBadRows(t *testing.T) {
	csv := strings.Join([]string{
		"timestamp,amount,is_income",
		"not-a-date,100,true",
		"2024-01-05,-50,false",
		"2024-01-05,100,maybe",
		"2024-01-06,100,true",
	}, "\n")

	res, err := ParseCSV(strings.NewReader(csv), 1)
	if err != nil {
		t.Fatalf("ParseCSV() error = %v", err)
	}
	if len(res.Transactions) != 1 {
		t.Errorf("got %d transactions, want 1", len(res.Transactions))
	}
	if res.Skipped != 3 || len(res.Errors) != 3 {
		t.Errorf("skipped %d with %d errors, want 3/3", res.Skipped, len(res.Errors))
	}
}
