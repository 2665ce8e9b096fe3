package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"moneystory/internal/categorize"
	"moneystory/internal/core"
	"moneystory/internal/ingest"
	"moneystory/internal/storage"
)

// maxCSVUploadBytes caps import uploads at 8 MiB.
const maxCSVUploadBytes = 8 << 20

type createTransactionRequest struct {
	UserID      int64      `json:"user_id"`
	Timestamp   time.Time  `json:"timestamp"`
	Amount      core.Money `json:"amount"`
	IsIncome    bool       `json:"is_income"`
	Category    string     `json:"category"`
	Description string     `json:"description"`
	Source      string     `json:"source"`
	AccountName string     `json:"account_name"`
}

type transactionView struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"user_id"`
	Timestamp   time.Time  `json:"timestamp"`
	Amount      core.Money `json:"amount"`
	IsIncome    bool       `json:"is_income"`
	Category    string     `json:"category"`
	Description string     `json:"description"`
	Source      string     `json:"source"`
	AccountName string     `json:"account_name"`
}

func viewOf(tx core.Transaction) transactionView {
	return transactionView{
		ID:          tx.ID,
		UserID:      tx.UserID,
		Timestamp:   tx.Timestamp,
		Amount:      tx.Amount,
		IsIncome:    tx.IsIncome,
		Category:    tx.Category,
		Description: tx.Description,
		Source:      tx.Source,
		AccountName: tx.AccountName,
	}
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleCreateTransaction(w, r)
	case http.MethodGet:
		s.handleListTransactions(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	tx := core.Transaction{
		UserID:      req.UserID,
		Timestamp:   req.Timestamp.UTC(),
		Amount:      req.Amount,
		IsIncome:    req.IsIncome,
		Category:    strings.TrimSpace(req.Category),
		Description: strings.TrimSpace(req.Description),
		Source:      strings.TrimSpace(req.Source),
		AccountName: strings.TrimSpace(req.AccountName),
	}
	if err := tx.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if _, err := s.storage.GetUser(r.Context(), tx.UserID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		slog.ErrorContext(r.Context(), "User lookup failed", "error", err, "user_id", tx.UserID)
		writeError(w, http.StatusInternalServerError, "storage error")
		return
	}

	if tx.Category == "" {
		tx.Category = categorize.Guess(tx.Description, tx.Source, tx.AccountName)
	}

	id, err := s.storage.InsertTransaction(r.Context(), tx)
	if err != nil {
		slog.ErrorContext(r.Context(), "Transaction insert failed", "error", err, "user_id", tx.UserID)
		writeError(w, http.StatusInternalServerError, "storage error")
		return
	}
	tx.ID = id

	s.invalidateReports(tx.UserID)
	writeJSON(w, http.StatusCreated, viewOf(tx))
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	limit := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
	}

	txs, err := s.storage.TransactionsForUser(r.Context(), userID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Transaction list failed", "error", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "storage error")
		return
	}

	// History is stored oldest-first; the listing shows the most recent rows.
	if limit > 0 && len(txs) > limit {
		txs = txs[len(txs)-limit:]
	}
	views := make([]transactionView, 0, len(txs))
	for i := len(txs) - 1; i >= 0; i-- {
		views = append(views, viewOf(txs[i]))
	}
	writeJSON(w, http.StatusOK, map[string]any{"transactions": views})
}

type importResponse struct {
	BatchID  string   `json:"batch_id"`
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}

func (s *Server) handleImportCSV(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxCSVUploadBytes)
	if err := r.ParseMultipartForm(maxCSVUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	userID, err := strconv.ParseInt(strings.TrimSpace(r.FormValue("user_id")), 10, 64)
	if err != nil || userID <= 0 {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	if _, err := s.storage.GetUser(r.Context(), userID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		slog.ErrorContext(r.Context(), "User lookup failed", "error", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "storage error")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	res, err := ingest.ParseCSV(file, userID)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if len(res.Transactions) > 0 {
		if _, err := s.storage.InsertBatch(r.Context(), res.BatchID, res.Transactions); err != nil {
			slog.ErrorContext(r.Context(), "Batch insert failed", "error", err, "batch_id", res.BatchID)
			writeError(w, http.StatusInternalServerError, "storage error")
			return
		}
		s.invalidateReports(userID)

		if s.publisher != nil {
			if err := s.publisher.PublishTransactionsImported(r.Context(), userID, res.BatchID, len(res.Transactions)); err != nil {
				// The import already landed; the worker catches up on the
				// next event for this user.
				slog.WarnContext(r.Context(), "Failed publishing import event",
					"error", err, "user_id", userID, "batch_id", res.BatchID)
			}
		}
	}

	resp := importResponse{
		BatchID:  res.BatchID,
		Imported: len(res.Transactions),
		Skipped:  res.Skipped,
	}
	for _, rowErr := range res.Errors {
		resp.Errors = append(resp.Errors, rowErr.Error())
	}
	writeJSON(w, http.StatusOK, resp)
}
