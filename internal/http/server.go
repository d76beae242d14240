// Package http exposes the JSON API over the aggregation engine, the
// record store and the insight summarizer.
package http

import (
	"context"
	"net/http"
	"sync"

	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/services"
)

// TransactionService is the handler-side view of the transaction layer.
type TransactionService interface {
	Create(ctx context.Context, t core.Transaction) (core.Transaction, error)
	Update(ctx context.Context, id int64, t core.Transaction) (core.Transaction, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, f core.TransactionFilter) ([]core.Transaction, error)
	Summary(ctx context.Context) (services.SummaryResult, error)
}

// BudgetService is the handler-side view of the budget layer.
type BudgetService interface {
	Upsert(ctx context.Context, b core.Budget) (core.Budget, error)
	List(ctx context.Context, month core.MonthKey) ([]core.Budget, error)
	Comparison(ctx context.Context, month core.MonthKey) ([]core.ComparisonRow, error)
}

// InsightService produces advisory text for the insights endpoint.
type InsightService interface {
	Insight(ctx context.Context) (string, error)
}

type Server struct {
	http.Server

	transactions TransactionService
	budgets      BudgetService
	insights     InsightService

	rateLimiter  *rateLimiter
	logger       *log.Logger
	shutdownOnce sync.Once
}

// NewServer wires routes and middleware, returning a ready-to-run server.
func NewServer(addr string, transactions TransactionService, budgets BudgetService, insights InsightService, logger *log.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		transactions: transactions,
		budgets:      budgets,
		insights:     insights,
		rateLimiter:  newRateLimiter(),
		logger:       logger.WithComponent(log.ComponentHTTP),
	}

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)

	mux.HandleFunc("/api/transactions", s.withMiddleware(s.handleTransactions))
	mux.HandleFunc("/api/transactions/summary", s.withMiddleware(s.handleSummary))
	mux.HandleFunc("/api/transactions/", s.withMiddleware(s.handleTransactionByID))
	mux.HandleFunc("/api/budgets", s.withMiddleware(s.handleBudgets))
	mux.HandleFunc("/api/budgets/comparison", s.withMiddleware(s.handleComparison))
	mux.HandleFunc("/api/insights", s.withMiddleware(s.handleInsights))
	mux.HandleFunc("/api/categories", s.withMiddleware(s.handleCategories))

	return s
}

// Shutdown stops the listener and the limiter's cleanup goroutine.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
