package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"fintrack/internal/core"
)

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listTransactions(w, r)
	case http.MethodPost:
		s.createTransaction(w, r)
	default:
		methodNotAllowed(w, "GET, POST")
	}
}

func (s *Server) listTransactions(w http.ResponseWriter, r *http.Request) {
	var filter core.TransactionFilter
	if c := strings.TrimSpace(r.URL.Query().Get("category")); c != "" {
		filter.Category = core.Category(c)
	}
	if m := strings.TrimSpace(r.URL.Query().Get("month")); m != "" {
		month, err := core.ParseMonthKey(m)
		if err != nil {
			s.respondDomainError(w, r, err)
			return
		}
		filter.From = month.Start()
		filter.To = month.Next().Start()
	}

	txs, err := s.transactions.List(r.Context(), filter)
	if err != nil {
		s.respondDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionListJSON(txs))
}

func (s *Server) createTransaction(w http.ResponseWriter, r *http.Request) {
	var payload transactionPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	t, err := payload.toTransaction()
	if err != nil {
		s.respondDomainError(w, r, err)
		return
	}

	created, err := s.transactions.Create(r.Context(), t)
	if err != nil {
		s.respondDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTransactionJSON(created))
}

func (s *Server) handleTransactionByID(w http.ResponseWriter, r *http.Request) {
	idStr := strings.TrimPrefix(r.URL.Path, "/api/transactions/")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid transaction id")
		return
	}

	switch r.Method {
	case http.MethodPut:
		s.updateTransaction(w, r, id)
	case http.MethodDelete:
		s.deleteTransaction(w, r, id)
	default:
		methodNotAllowed(w, "PUT, DELETE")
	}
}

func (s *Server) updateTransaction(w http.ResponseWriter, r *http.Request, id int64) {
	var payload transactionPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	t, err := payload.toTransaction()
	if err != nil {
		s.respondDomainError(w, r, err)
		return
	}

	updated, err := s.transactions.Update(r.Context(), id, t)
	if err != nil {
		s.respondDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionJSON(updated))
}

func (s *Server) deleteTransaction(w http.ResponseWriter, r *http.Request, id int64) {
	if err := s.transactions.Delete(r.Context(), id); err != nil {
		s.respondDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	sum, err := s.transactions.Summary(r.Context())
	if err != nil {
		s.respondDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSummaryJSON(sum))
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	cats := core.Categories()
	names := make([]string, 0, len(cats))
	for _, c := range cats {
		names = append(names, string(c))
	}
	writeJSON(w, http.StatusOK, map[string][]string{"categories": names})
}
