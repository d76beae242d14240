package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"fintrack/internal/core"
)

func (s *Server) handleBudgets(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listBudgets(w, r)
	case http.MethodPost:
		s.upsertBudget(w, r)
	default:
		methodNotAllowed(w, "GET, POST")
	}
}

func (s *Server) listBudgets(w http.ResponseWriter, r *http.Request) {
	month, ok := s.monthParam(w, r)
	if !ok {
		return
	}

	budgets, err := s.budgets.List(r.Context(), month)
	if err != nil {
		s.respondDomainError(w, r, err)
		return
	}

	out := make([]budgetJSON, 0, len(budgets))
	for _, b := range budgets {
		out = append(out, toBudgetJSON(b))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) upsertBudget(w http.ResponseWriter, r *http.Request) {
	var payload budgetPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	b, err := payload.toBudget()
	if err != nil {
		s.respondDomainError(w, r, err)
		return
	}

	saved, err := s.budgets.Upsert(r.Context(), b)
	if err != nil {
		s.respondDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toBudgetJSON(saved))
}

func (s *Server) handleComparison(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	month, ok := s.monthParam(w, r)
	if !ok {
		return
	}

	rows, err := s.budgets.Comparison(r.Context(), month)
	if err != nil {
		s.respondDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toComparisonJSON(rows))
}

// monthParam parses the required month query parameter. A missing or
// malformed token is a 400.
func (s *Server) monthParam(w http.ResponseWriter, r *http.Request) (core.MonthKey, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get("month"))
	if raw == "" {
		writeError(w, http.StatusBadRequest, "month query parameter is required (YYYY-MM)")
		return core.MonthKey{}, false
	}
	month, err := core.ParseMonthKey(raw)
	if err != nil {
		s.respondDomainError(w, r, err)
		return core.MonthKey{}, false
	}
	return month, true
}
