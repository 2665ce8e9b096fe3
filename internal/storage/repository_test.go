package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"moneystory/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository() error = %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestUserRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	created, err := repo.CreateUser(ctx, "Asha", "asha@example.com")
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	if created.ID == 0 {
		t.Fatal("user id not assigned")
	}

	got, err := repo.GetUser(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetUser() error = %v", err)
	}
	if got != created {
		t.Errorf("GetUser() = %+v, want %+v", got, created)
	}

	if _, err := repo.GetUser(ctx, 9999); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetUser(missing) error = %v, want ErrNotFound", err)
	}
}

func TestTransactionRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	user, err := repo.CreateUser(ctx, "Asha", "asha@example.com")
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	tx := core.Transaction{
		UserID:      user.ID,
		Timestamp:   time.Date(2024, time.January, 10, 9, 30, 0, 0, time.UTC),
		Amount:      core.Money{Cents: 45_050},
		IsIncome:    false,
		Category:    "Food",
		Description: "zomato order",
		Source:      "upi",
		AccountName: "HDFC Savings",
	}
	id, err := repo.InsertTransaction(ctx, tx)
	if err != nil {
		t.Fatalf("InsertTransaction() error = %v", err)
	}
	if id == 0 {
		t.Fatal("transaction id not assigned")
	}

	got, err := repo.TransactionsForUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("TransactionsForUser() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d transactions, want 1", len(got))
	}
	stored := got[0]
	if !stored.Timestamp.Equal(tx.Timestamp) {
		t.Errorf("timestamp = %v, want %v", stored.Timestamp, tx.Timestamp)
	}
	if stored.Amount != tx.Amount || stored.Category != tx.Category || stored.Description != tx.Description {
		t.Errorf("stored = %+v, want fields of %+v", stored, tx)
	}
}

func TestInsertBatchAndPeriodFilter(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	user, err := repo.CreateUser(ctx, "Asha", "asha@example.com")
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	mk := func(ts time.Time) core.Transaction {
		return core.Transaction{
			UserID:    user.ID,
			Timestamp: ts,
			Amount:    core.Money{Cents: 10_000},
		}
	}
	batch := []core.Transaction{
		mk(time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC)),
		mk(time.Date(2024, time.January, 31, 23, 59, 59, 0, time.UTC)),
		mk(time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)),
	}

	n, err := repo.InsertBatch(ctx, "batch-1", batch)
	if err != nil {
		t.Fatalf("InsertBatch() error = %v", err)
	}
	if n != 3 {
		t.Errorf("inserted %d, want 3", n)
	}

	jan, err := repo.TransactionsForPeriod(ctx, user.ID, core.Period{Year: 2024, Month: time.January})
	if err != nil {
		t.Fatalf("TransactionsForPeriod() error = %v", err)
	}
	if len(jan) != 2 {
		t.Errorf("got %d January transactions, want 2", len(jan))
	}
}

func TestBudgetUpsert(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	user, err := repo.CreateUser(ctx, "Asha", "asha@example.com")
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	b := core.Budget{UserID: user.ID, Category: "Food", Amount: core.Money{Cents: 500_000}}
	if err := repo.UpsertBudget(ctx, b); err != nil {
		t.Fatalf("UpsertBudget() error = %v", err)
	}

	b.Amount = core.Money{Cents: 600_000}
	if err := repo.UpsertBudget(ctx, b); err != nil {
		t.Fatalf("UpsertBudget() update error = %v", err)
	}

	got, err := repo.BudgetsForUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("BudgetsForUser() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d budgets, want 1 after upsert", len(got))
	}
	if got[0].Amount.Cents != 600_000 {
		t.Errorf("budget amount = %d, want 600000", got[0].Amount.Cents)
	}
}

func TestSeedDemoDataIsIdempotent(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.SeedDemoData(ctx); err != nil {
		t.Fatalf("SeedDemoData() error = %v", err)
	}
	if err := repo.SeedDemoData(ctx); err != nil {
		t.Fatalf("SeedDemoData() second run error = %v", err)
	}

	users, err := repo.ListUsers(ctx)
	if err != nil {
		t.Fatalf("ListUsers() error = %v", err)
	}
	if len(users) != 1 {
		t.Fatalf("got %d users, want 1", len(users))
	}

	budgets, err := repo.BudgetsForUser(ctx, users[0].ID)
	if err != nil {
		t.Fatalf("BudgetsForUser() error = %v", err)
	}
	if len(budgets) != 4 {
		t.Errorf("got %d seeded budgets, want 4", len(budgets))
	}
}
