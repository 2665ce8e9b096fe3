// Package storage persists users, transactions and budgets in SQLite.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"moneystory/internal/core"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

// Ping reports whether the database is reachable. Used by readiness checks.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// CreateUser inserts a user and returns it with the assigned ID.
func (r *SQLiteRepository) CreateUser(ctx context.Context, name, email string) (core.User, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (name, email) VALUES (?, ?)`, name, email)
	if err != nil {
		return core.User{}, fmt.Errorf("create user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.User{}, fmt.Errorf("create user id: %w", err)
	}
	return core.User{ID: id, Name: name, Email: email}, nil
}

func (r *SQLiteRepository) GetUser(ctx context.Context, id int64) (core.User, error) {
	var u core.User
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, email FROM users WHERE id = ?`, id).
		Scan(&u.ID, &u.Name, &u.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, ErrNotFound
	}
	if err != nil {
		return core.User{}, fmt.Errorf("get user %d: %w", id, err)
	}
	return u, nil
}

func (r *SQLiteRepository) ListUsers(ctx context.Context) ([]core.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, email FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []core.User
	for rows.Next() {
		var u core.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// InsertTransaction stores one transaction and returns its ID.
func (r *SQLiteRepository) InsertTransaction(ctx context.Context, tx core.Transaction) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions
			(user_id, timestamp, amount_cents, is_income, category, description, source, account_name, batch_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, '')`,
		tx.UserID, tx.Timestamp.UTC().Format(time.RFC3339), tx.Amount.Cents, tx.IsIncome,
		tx.Category, tx.Description, tx.Source, tx.AccountName)
	if err != nil {
		return 0, fmt.Errorf("insert transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert transaction id: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"id", id,
		"user_id", tx.UserID,
		"amount_cents", tx.Amount.Cents,
		"is_income", tx.IsIncome,
		"category", tx.Category)

	return id, nil
}

// InsertBatch stores an imported batch atomically. Either every transaction
// lands or none do.
func (r *SQLiteRepository) InsertBatch(ctx context.Context, batchID string, txs []core.Transaction) (int, error) {
	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin batch insert: %w", err)
	}
	defer dbTx.Rollback()

	stmt, err := dbTx.PrepareContext(ctx, `
		INSERT INTO transactions
			(user_id, timestamp, amount_cents, is_income, category, description, source, account_name, batch_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare batch insert: %w", err)
	}
	defer stmt.Close()

	for _, tx := range txs {
		if _, err := stmt.ExecContext(ctx,
			tx.UserID, tx.Timestamp.UTC().Format(time.RFC3339), tx.Amount.Cents, tx.IsIncome,
			tx.Category, tx.Description, tx.Source, tx.AccountName, batchID); err != nil {
			return 0, fmt.Errorf("insert batch row: %w", err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return 0, fmt.Errorf("commit batch insert: %w", err)
	}

	slog.InfoContext(ctx, "Transaction batch imported", "batch_id", batchID, "count", len(txs))
	return len(txs), nil
}

// TransactionsForUser returns the user's full history ordered by timestamp.
func (r *SQLiteRepository) TransactionsForUser(ctx context.Context, userID int64) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, timestamp, amount_cents, is_income, category, description, source, account_name
		FROM transactions
		WHERE user_id = ?
		ORDER BY timestamp, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list transactions for user %d: %w", userID, err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// TransactionsForPeriod returns the user's transactions within one month.
func (r *SQLiteRepository) TransactionsForPeriod(ctx context.Context, userID int64, period core.Period) ([]core.Transaction, error) {
	start := period.Start()
	end := period.Next().Start()

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, timestamp, amount_cents, is_income, category, description, source, account_name
		FROM transactions
		WHERE user_id = ? AND timestamp >= ? AND timestamp < ?
		ORDER BY timestamp, id`,
		userID, start.Format(time.RFC3339), end.Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("list transactions for period %s: %w", period, err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

func scanTransactions(rows *sql.Rows) ([]core.Transaction, error) {
	var txs []core.Transaction
	for rows.Next() {
		var (
			tx core.Transaction
			ts string
		)
		if err := rows.Scan(&tx.ID, &tx.UserID, &ts, &tx.Amount.Cents, &tx.IsIncome,
			&tx.Category, &tx.Description, &tx.Source, &tx.AccountName); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		parsed, err := time.Parse(time.RFC3339, ts)
		if err != nil {
			return nil, fmt.Errorf("parse stored timestamp %q: %w", ts, err)
		}
		tx.Timestamp = parsed
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}

// UpsertBudget creates or replaces the user's cap for one category.
func (r *SQLiteRepository) UpsertBudget(ctx context.Context, b core.Budget) error {
	if err := b.Validate(); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO budgets (user_id, category, amount_cents)
		VALUES (?, ?, ?)
		ON CONFLICT (user_id, category) DO UPDATE SET amount_cents = excluded.amount_cents`,
		b.UserID, b.Category, b.Amount.Cents)
	if err != nil {
		return fmt.Errorf("upsert budget %s: %w", b.Category, err)
	}
	return nil
}

func (r *SQLiteRepository) BudgetsForUser(ctx context.Context, userID int64) ([]core.Budget, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, category, amount_cents
		FROM budgets
		WHERE user_id = ?
		ORDER BY category`, userID)
	if err != nil {
		return nil, fmt.Errorf("list budgets for user %d: %w", userID, err)
	}
	defer rows.Close()

	var budgets []core.Budget
	for rows.Next() {
		var b core.Budget
		if err := rows.Scan(&b.ID, &b.UserID, &b.Category, &b.Amount.Cents); err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}
