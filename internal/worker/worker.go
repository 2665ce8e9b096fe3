// Package worker runs the background analysis pass: whenever a transaction
// batch is imported, the user's history is re-analyzed and the fresh
// monthly summary is optionally exported to Google Sheets.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"moneystory/internal/amqp"
	"moneystory/internal/analysis"
	"moneystory/internal/core"
	"moneystory/internal/storage"
)

// SummaryExporter pushes one analyzed month to an external destination.
type SummaryExporter interface {
	AppendMonthlySummary(ctx context.Context, userID int64, report analysis.MonthlyReport) error
}

type AnalysisWorker struct {
	storage  *storage.SQLiteRepository
	engine   *analysis.Engine
	exporter SummaryExporter // nil when export is not configured
}

func NewAnalysisWorker(storage *storage.SQLiteRepository, engine *analysis.Engine, exporter SummaryExporter) *AnalysisWorker {
	return &AnalysisWorker{
		storage:  storage,
		engine:   engine,
		exporter: exporter,
	}
}

// HandleImportMessage re-analyzes the user behind one import event. Returned
// errors cause the event to be requeued, so only retryable failures (storage
// or analysis) propagate; export failures are logged and swallowed because
// re-running the analysis would not fix the spreadsheet.
func (w *AnalysisWorker) HandleImportMessage(ctx context.Context, msg *amqp.TransactionsImportedMessage) error {
	txs, err := w.storage.TransactionsForUser(ctx, msg.UserID)
	if err != nil {
		return fmt.Errorf("load transactions: %w", err)
	}
	if len(txs) == 0 {
		slog.WarnContext(ctx, "Import event for user with no transactions",
			"user_id", msg.UserID, "batch_id", msg.BatchID)
		return nil
	}

	period := latestPeriod(txs)
	report, err := w.engine.BuildMonthlyReport(ctx, period, txs)
	if err != nil {
		return fmt.Errorf("build monthly report: %w", err)
	}

	slog.InfoContext(ctx, "Re-analyzed user after import",
		"user_id", msg.UserID,
		"batch_id", msg.BatchID,
		"period", period.String(),
		"net_cents", report.Stats.Net.Cents,
		"savings_rate", report.Stats.SavingsRate,
		"cashflow", report.Patterns.Cashflow,
		"archetype", report.Profile.LabelsByPeriod[period])

	if w.exporter != nil {
		if err := w.exporter.AppendMonthlySummary(ctx, msg.UserID, report); err != nil {
			slog.ErrorContext(ctx, "Failed to export monthly summary",
				"user_id", msg.UserID, "period", period.String(), "error", err)
		}
	}

	return nil
}

// RefreshProfiles re-analyzes every user and logs the current behavior
// profile. It runs on a timer as a catch-up for import events missed while
// the worker was down. It never exports; only import events do that.
func (w *AnalysisWorker) RefreshProfiles(ctx context.Context) error {
	users, err := w.storage.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}

	for _, u := range users {
		txs, err := w.storage.TransactionsForUser(ctx, u.ID)
		if err != nil {
			return fmt.Errorf("load transactions for user %d: %w", u.ID, err)
		}
		if len(txs) == 0 {
			continue
		}

		period := latestPeriod(txs)
		report, err := w.engine.BuildMonthlyReport(ctx, period, txs)
		if err != nil {
			return fmt.Errorf("build monthly report for user %d: %w", u.ID, err)
		}

		slog.InfoContext(ctx, "Profile refreshed",
			"user_id", u.ID,
			"period", period.String(),
			"savings_rate", report.Stats.SavingsRate,
			"archetype", report.Profile.LabelsByPeriod[period])
	}

	return nil
}

func latestPeriod(txs []core.Transaction) core.Period {
	latest := core.PeriodOf(txs[0].Timestamp)
	for _, tx := range txs[1:] {
		if p := core.PeriodOf(tx.Timestamp); latest.Before(p) {
			latest = p
		}
	}
	return latest
}
