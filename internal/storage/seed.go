package storage

import (
	"context"
	"fmt"
	"log/slog"

	"moneystory/internal/budget"
)

// SeedDemoData makes a fresh database usable without any setup calls: if no
// users exist, a demo user is created with the default category budgets.
// Calling it on a populated database is a no-op.
func (r *SQLiteRepository) SeedDemoData(ctx context.Context) error {
	users, err := r.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	if len(users) > 0 {
		return nil
	}

	demo, err := r.CreateUser(ctx, "Demo User", "demo@example.com")
	if err != nil {
		return fmt.Errorf("seed demo user: %w", err)
	}

	for _, b := range budget.Defaults(demo.ID) {
		if err := r.UpsertBudget(ctx, b); err != nil {
			return fmt.Errorf("seed budget %s: %w", b.Category, err)
		}
	}

	slog.InfoContext(ctx, "Seeded demo user with default budgets", "user_id", demo.ID)
	return nil
}
