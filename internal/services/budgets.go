package services

import (
	"context"
	"fmt"

	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/storage"
)

// BudgetService manages monthly category budgets and the budget-vs-actual
// comparison derived from them.
type BudgetService struct {
	storage *storage.Repository
	logger  *log.Logger
}

func NewBudgetService(storage *storage.Repository, logger *log.Logger) *BudgetService {
	return &BudgetService{
		storage: storage,
		logger:  logger.WithComponent(log.ComponentApp),
	}
}

// Upsert validates and stores a budget, replacing any existing amount for
// the same (category, month) pair.
func (s *BudgetService) Upsert(ctx context.Context, b core.Budget) (core.Budget, error) {
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}
	saved, err := s.storage.UpsertBudget(ctx, b)
	if err != nil {
		return core.Budget{}, fmt.Errorf("save budget: %w", err)
	}
	return saved, nil
}

// List returns budgets for the given month token.
func (s *BudgetService) List(ctx context.Context, month core.MonthKey) ([]core.Budget, error) {
	return s.storage.ListBudgets(ctx, core.BudgetFilter{Month: month.String()})
}

// Comparison builds the budget-vs-actual rows for a month. Transactions
// are selected by the month's half-open UTC interval; budgets by their
// stored month token.
func (s *BudgetService) Comparison(ctx context.Context, month core.MonthKey) ([]core.ComparisonRow, error) {
	txs, err := s.storage.ListTransactions(ctx, core.TransactionFilter{
		From: month.Start(),
		To:   month.Next().Start(),
	})
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	budgets, err := s.storage.ListBudgets(ctx, core.BudgetFilter{Month: month.String()})
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}

	return core.BudgetComparison(txs, budgets, month), nil
}
