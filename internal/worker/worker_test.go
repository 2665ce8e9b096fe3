package worker

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"moneystory/internal/amqp"
	"moneystory/internal/analysis"
	"moneystory/internal/core"
	"moneystory/internal/storage"
)

type recordingExporter struct {
	calls   int
	userID  int64
	report  analysis.MonthlyReport
	failErr error
}

func (r *recordingExporter) AppendMonthlySummary(_ context.Context, userID int64, report analysis.MonthlyReport) error {
	r.calls++
	r.userID = userID
	r.report = report
	return r.failErr
}

func newWorkerFixture(t *testing.T, exporter SummaryExporter) (*AnalysisWorker, *storage.SQLiteRepository, int64) {
	t.Helper()

	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository() error = %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	user, err := repo.CreateUser(context.Background(), "Asha", "asha@example.com")
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	w := NewAnalysisWorker(repo, analysis.New(analysis.DefaultConfig()), exporter)
	return w, repo, user.ID
}

func TestHandleImportMessage(t *testing.T) {
	exporter := &recordingExporter{}
	w, repo, userID := newWorkerFixture(t, exporter)
	ctx := context.Background()

	txs := []core.Transaction{
		{
			UserID:    userID,
			Timestamp: time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC),
			Amount:    core.Money{Cents: 500_000},
			IsIncome:  true,
			Category:  "Salary",
		},
		{
			UserID:    userID,
			Timestamp: time.Date(2024, time.February, 10, 0, 0, 0, 0, time.UTC),
			Amount:    core.Money{Cents: 200_000},
			Category:  "Food",
		},
	}
	if _, err := repo.InsertBatch(ctx, "batch-1", txs); err != nil {
		t.Fatalf("InsertBatch() error = %v", err)
	}

	msg := amqp.NewTransactionsImportedMessage(userID, "batch-1", len(txs))
	if err := w.HandleImportMessage(ctx, msg); err != nil {
		t.Fatalf("HandleImportMessage() error = %v", err)
	}

	if exporter.calls != 1 {
		t.Fatalf("exporter called %d times, want 1", exporter.calls)
	}
	if exporter.userID != userID {
		t.Errorf("exported user = %d, want %d", exporter.userID, userID)
	}
	// The report targets the newest month in the history.
	want := core.Period{Year: 2024, Month: time.February}
	if exporter.report.Period != want {
		t.Errorf("exported period = %v, want %v", exporter.report.Period, want)
	}
}

func TestHandleImportMessageNoTransactions(t *testing.T) {
	exporter := &recordingExporter{}
	w, _, userID := newWorkerFixture(t, exporter)

	msg := amqp.NewTransactionsImportedMessage(userID, "batch-1", 0)
	if err := w.HandleImportMessage(context.Background(), msg); err != nil {
		t.Fatalf("HandleImportMessage() error = %v", err)
	}
	if exporter.calls != 0 {
		t.Errorf("exporter called %d times for empty user, want 0", exporter.calls)
	}
}

func TestRefreshProfilesSkipsExport(t *testing.T) {
	exporter := &recordingExporter{}
	w, repo, userID := newWorkerFixture(t, exporter)
	ctx := context.Background()

	if _, err := repo.InsertTransaction(ctx, core.Transaction{
		UserID:    userID,
		Timestamp: time.Date(2024, time.March, 2, 0, 0, 0, 0, time.UTC),
		Amount:    core.Money{Cents: 50_000},
		Category:  "Food",
	}); err != nil {
		t.Fatalf("InsertTransaction() error = %v", err)
	}

	if err := w.RefreshProfiles(ctx); err != nil {
		t.Fatalf("RefreshProfiles() error = %v", err)
	}
	if exporter.calls != 0 {
		t.Errorf("exporter called %d times during refresh, want 0", exporter.calls)
	}
}

func TestHandleImportMessageExportFailureIsNotRetried(t *testing.T) {
	exporter := &recordingExporter{failErr: context.DeadlineExceeded}
	w, repo, userID := newWorkerFixture(t, exporter)
	ctx := context.Background()

	if _, err := repo.InsertTransaction(ctx, core.Transaction{
		UserID:    userID,
		Timestamp: time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC),
		Amount:    core.Money{Cents: 100_000},
	}); err != nil {
		t.Fatalf("InsertTransaction() error = %v", err)
	}

	msg := amqp.NewTransactionsImportedMessage(userID, "batch-1", 1)
	if err := w.HandleImportMessage(ctx, msg); err != nil {
		t.Errorf("HandleImportMessage() = %v, export failures must not requeue the event", err)
	}
}
