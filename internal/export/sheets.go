// Package export appends monthly summary rows to a Google Sheet so the
// numbers can live next to whatever else the household tracks there.
package export

import (
	"context"
	"fmt"
	"log/slog"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"moneystory/internal/analysis"
)

// SheetsExporter appends one row per analyzed month to a fixed sheet.
type SheetsExporter struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

// NewSheetsExporter builds an exporter from a service-account credential
// file. The sheet must already exist with the header row in place.
func NewSheetsExporter(ctx context.Context, credentialFile, spreadsheetID, sheetName string) (*SheetsExporter, error) {
	if spreadsheetID == "" || sheetName == "" {
		return nil, fmt.Errorf("spreadsheet id and sheet name are required")
	}

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsFile(credentialFile),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &SheetsExporter{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}, nil
}

// AppendMonthlySummary appends the month's headline numbers as one row:
// period, income, expense, net, savings rate, cashflow flag.
func (e *SheetsExporter) AppendMonthlySummary(ctx context.Context, userID int64, report analysis.MonthlyReport) error {
	row := []interface{}{
		report.Period.String(),
		userID,
		report.Stats.TotalIncome.Units(),
		report.Stats.TotalExpense.Units(),
		report.Stats.Net.Units(),
		report.Stats.SavingsRate,
		string(report.Patterns.Cashflow),
	}

	vr := &gsheet.ValueRange{Values: [][]interface{}{row}}
	rng := fmt.Sprintf("%s!A:G", e.sheetName)

	_, err := e.svc.Spreadsheets.Values.Append(e.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append monthly summary: %w", err)
	}

	slog.InfoContext(ctx, "Monthly summary exported to Google Sheets",
		"user_id", userID,
		"period", report.Period.String(),
		"sheet", e.sheetName)

	return nil
}
