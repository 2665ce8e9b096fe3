package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"moneystory/internal/actions"
	"moneystory/internal/budget"
	"moneystory/internal/core"
	"moneystory/internal/story"
)

func formatRupees(cents int64) string {
	neg := cents < 0
	if neg {
		cents = -cents
	}
	units := cents / 100
	rem := cents % 100
	s := strconv.FormatInt(units, 10) + "." + fmt.Sprintf("%02d", rem)
	if neg {
		return "-₹" + s
	}
	return "₹" + s
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "url", r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	users, err := s.storage.ListUsers(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "User list error", "error", err)
	}

	data := struct {
		Users []core.User
	}{Users: users}

	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Index template execution failed", "error", err, "template", "index.html")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

type breakdownRow struct {
	Category string
	Amount   string
	Share    string
	Width    int
}

type budgetRow struct {
	Category    string
	Budget      string
	Actual      string
	Utilisation string
	Status      string
}

type trendViewRow struct {
	Category string
	Current  string
	Baseline string
	Delta    string
	DeltaPct string
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "url", r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}
	userID, err := userIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	report, status, err := s.monthlyReport(r, userID)
	if err != nil {
		writeError(w, status, err.Error())
		return
	}

	budgets, err := s.storage.BudgetsForUser(r.Context(), userID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Budget list error", "error", err, "user_id", userID)
	}
	statuses := budget.Evaluate(budgets, report.Breakdown)

	// Scale breakdown bars against the largest category.
	var maxCents int64
	for _, row := range report.Breakdown {
		if row.Total.Cents > maxCents {
			maxCents = row.Total.Cents
		}
	}

	data := struct {
		UserID      int64
		Period      string
		Income      string
		Expense     string
		Net         string
		SavingsRate string
		Cashflow    string
		Archetype   string
		Description string
		Story       string
		Breakdown   []breakdownRow
		Budgets     []budgetRow
		Trends      []trendViewRow
		Actions     []string
	}{
		UserID:      userID,
		Period:      report.Period.String(),
		Income:      formatRupees(report.Stats.TotalIncome.Cents),
		Expense:     formatRupees(report.Stats.TotalExpense.Cents),
		Net:         formatRupees(report.Stats.Net.Cents),
		SavingsRate: fmt.Sprintf("%.1f%%", report.Stats.SavingsRate*100),
		Cashflow:    string(report.Patterns.Cashflow),
		Story:       story.Build(r.Context(), s.teller, report),
		Actions:     actions.Recommend(report.Stats, report.Breakdown, report.Patterns),
	}

	if label, ok := report.Profile.LabelsByPeriod[report.Period]; ok {
		data.Archetype = string(label)
		data.Description = report.Profile.Descriptions[label]
	}

	for _, row := range report.Breakdown {
		width := 0
		if maxCents > 0 && row.Total.Cents > 0 {
			width = int((row.Total.Cents*100 + maxCents/2) / maxCents)
			if width > 0 && width < 2 {
				width = 2
			}
			if width > 100 {
				width = 100
			}
		}
		data.Breakdown = append(data.Breakdown, breakdownRow{
			Category: row.Category,
			Amount:   formatRupees(row.Total.Cents),
			Share:    fmt.Sprintf("%.1f%%", row.Share*100),
			Width:    width,
		})
	}

	for _, st := range statuses {
		data.Budgets = append(data.Budgets, budgetRow{
			Category:    st.Category,
			Budget:      formatRupees(st.Budget.Cents),
			Actual:      formatRupees(st.Actual.Cents),
			Utilisation: fmt.Sprintf("%.0f%%", st.Utilisation*100),
			Status:      st.Status,
		})
	}

	for _, t := range report.Trends {
		row := trendViewRow{
			Category: t.Category,
			Current:  fmt.Sprintf("%.2f", t.Current),
			Baseline: fmt.Sprintf("%.2f", t.Baseline),
			Delta:    fmt.Sprintf("%+.2f", t.Delta),
			DeltaPct: "new",
		}
		if t.PctDefined {
			row.DeltaPct = fmt.Sprintf("%+.1f%%", t.DeltaPct*100)
		}
		data.Trends = append(data.Trends, row)
	}

	if err := s.templates.ExecuteTemplate(w, "dashboard.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Dashboard template execution failed", "error", err, "template", "dashboard.html")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
