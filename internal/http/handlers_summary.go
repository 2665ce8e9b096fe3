package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"sort"

	"moneystory/internal/core"
)

func (s *Server) handleMonthlySummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	userID, err := userIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	txs, err := s.storage.TransactionsForUser(r.Context(), userID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Transaction list failed", "error", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "storage error")
		return
	}

	groups := core.GroupByPeriod(txs)
	summaries := make([]core.PeriodSummary, 0, len(groups))
	for _, p := range core.SortedPeriods(groups) {
		stats := s.engine.BasicStats(groups[p])
		summaries = append(summaries, core.PeriodSummary{
			Period:       p.String(),
			TotalIncome:  stats.TotalIncome,
			TotalExpense: stats.TotalExpense,
			Net:          stats.Net,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"summaries": summaries})
}

func (s *Server) handleWeeklySummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	userID, err := userIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	txs, err := s.storage.TransactionsForUser(r.Context(), userID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Transaction list failed", "error", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "storage error")
		return
	}

	// Weeks are ISO 8601: a week belongs to the year holding its Thursday.
	groups := make(map[string][]core.Transaction)
	for _, tx := range txs {
		year, week := tx.Timestamp.ISOWeek()
		key := fmt.Sprintf("%04d-W%02d", year, week)
		groups[key] = append(groups[key], tx)
	}
	keys := make([]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	summaries := make([]core.PeriodSummary, 0, len(keys))
	for _, key := range keys {
		stats := s.engine.BasicStats(groups[key])
		summaries = append(summaries, core.PeriodSummary{
			Period:       key,
			TotalIncome:  stats.TotalIncome,
			TotalExpense: stats.TotalExpense,
			Net:          stats.Net,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"summaries": summaries})
}
