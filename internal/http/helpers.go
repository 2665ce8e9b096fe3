package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"moneystory/internal/analysis"
	"moneystory/internal/core"
	"moneystory/internal/storage"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed encoding JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// userIDParam reads the mandatory user_id query parameter.
func userIDParam(r *http.Request) (int64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("user_id"))
	if raw == "" {
		return 0, errors.New("user_id is required")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid user_id %q", raw)
	}
	return id, nil
}

// periodParam reads the optional year and month query parameters. Both must
// be present together; absent means "use the fallback".
func periodParam(r *http.Request) (core.Period, bool, error) {
	yearRaw := strings.TrimSpace(r.URL.Query().Get("year"))
	monthRaw := strings.TrimSpace(r.URL.Query().Get("month"))
	if yearRaw == "" && monthRaw == "" {
		return core.Period{}, false, nil
	}
	if yearRaw == "" || monthRaw == "" {
		return core.Period{}, false, errors.New("year and month must be provided together")
	}

	year, err := strconv.Atoi(yearRaw)
	if err != nil || year < 1970 || year > 9999 {
		return core.Period{}, false, fmt.Errorf("invalid year %q", yearRaw)
	}
	month, err := strconv.Atoi(monthRaw)
	if err != nil || month < 1 || month > 12 {
		return core.Period{}, false, fmt.Errorf("invalid month %q", monthRaw)
	}
	return core.Period{Year: year, Month: time.Month(month)}, true, nil
}

// resolvePeriod picks the report period: an explicit year+month wins,
// otherwise the latest month in the user's history, otherwise the current
// month for users with no data yet.
func resolvePeriod(r *http.Request, txs []core.Transaction) (core.Period, error) {
	period, ok, err := periodParam(r)
	if err != nil {
		return core.Period{}, err
	}
	if ok {
		return period, nil
	}
	if len(txs) == 0 {
		return core.PeriodOf(time.Now().UTC()), nil
	}
	latest := core.PeriodOf(txs[0].Timestamp)
	for _, tx := range txs[1:] {
		if p := core.PeriodOf(tx.Timestamp); latest.Before(p) {
			latest = p
		}
	}
	return latest, nil
}

func reportCacheKey(userID int64, period core.Period) string {
	return fmt.Sprintf("user:%d:%s", userID, period)
}

// invalidateReports drops every cached report for the user. Called after any
// write to the user's history.
func (s *Server) invalidateReports(userID int64) {
	if s.reportCache == nil {
		return
	}
	if removed := s.reportCache.DeletePrefix(fmt.Sprintf("user:%d:", userID)); removed > 0 {
		slog.Debug("Invalidated cached reports", "user_id", userID, "count", removed)
	}
}

// monthlyReport returns the user's report for the requested period, serving
// from cache when possible. The period is resolved against the user's full
// history, which the report needs anyway for trends and profiling.
func (s *Server) monthlyReport(r *http.Request, userID int64) (analysis.MonthlyReport, int, error) {
	ctx := r.Context()

	if _, err := s.storage.GetUser(ctx, userID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return analysis.MonthlyReport{}, http.StatusNotFound, fmt.Errorf("user %d not found", userID)
		}
		return analysis.MonthlyReport{}, http.StatusInternalServerError, err
	}

	txs, err := s.storage.TransactionsForUser(ctx, userID)
	if err != nil {
		return analysis.MonthlyReport{}, http.StatusInternalServerError, err
	}

	period, err := resolvePeriod(r, txs)
	if err != nil {
		return analysis.MonthlyReport{}, http.StatusBadRequest, err
	}

	key := reportCacheKey(userID, period)
	if s.reportCache != nil {
		if report, found := s.reportCache.Get(key); found {
			slog.DebugContext(ctx, "Report cache hit", "user_id", userID, "period", period.String())
			return report, http.StatusOK, nil
		}
	}

	report, err := s.engine.BuildMonthlyReport(ctx, period, txs)
	if err != nil {
		return analysis.MonthlyReport{}, http.StatusInternalServerError, err
	}

	if s.reportCache != nil {
		s.reportCache.Set(key, report)
		slog.DebugContext(ctx, "Report cached", "user_id", userID, "period", period.String())
	}
	return report, http.StatusOK, nil
}
