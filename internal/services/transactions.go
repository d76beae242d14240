// Package services orchestrates storage, messaging and insight generation
// behind the HTTP handlers.
package services

import (
	"context"
	"fmt"

	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/storage"
)

// EventPublisher publishes transaction change events for the sync worker.
// *amqp.Client satisfies it.
type EventPublisher interface {
	PublishUpsert(ctx context.Context, id, version int64) error
	PublishDelete(ctx context.Context, t core.Transaction) error
}

// TransactionService writes transactions to SQLite and publishes sync
// events. Publishing is best-effort: a broker outage never fails the
// user's write, the pending scan picks the row up later.
type TransactionService struct {
	storage   *storage.Repository
	publisher EventPublisher
	logger    *log.Logger
}

func NewTransactionService(storage *storage.Repository, publisher EventPublisher, logger *log.Logger) *TransactionService {
	return &TransactionService{
		storage:   storage,
		publisher: publisher,
		logger:    logger.WithComponent(log.ComponentApp),
	}
}

// Create validates and stores a transaction, then publishes an upsert event.
func (s *TransactionService) Create(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}

	created, err := s.storage.CreateTransaction(ctx, t)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}

	s.publishUpsert(ctx, created.ID, 1)
	return created, nil
}

// Update replaces a transaction's fields and bumps its version.
func (s *TransactionService) Update(ctx context.Context, id int64, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}

	updated, version, err := s.storage.UpdateTransaction(ctx, id, t)
	if err != nil {
		return core.Transaction{}, err
	}

	s.publishUpsert(ctx, id, version)
	return updated, nil
}

// Delete removes a transaction and publishes a delete event carrying the
// last known snapshot, since the row is gone from SQLite afterwards.
func (s *TransactionService) Delete(ctx context.Context, id int64) error {
	snapshot, err := s.storage.DeleteTransaction(ctx, id)
	if err != nil {
		return err
	}

	if s.publisher == nil {
		s.logger.WarnContext(ctx, "amqp not available, skipping delete event",
			log.FieldTransactionID, id)
		return nil
	}
	if err := s.publisher.PublishDelete(ctx, snapshot); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish delete event",
			log.FieldTransactionID, id, log.FieldError, err)
	}
	return nil
}

// Get returns a single transaction by id.
func (s *TransactionService) Get(ctx context.Context, id int64) (core.Transaction, error) {
	return s.storage.GetTransaction(ctx, id)
}

// List returns transactions matching the filter, newest first.
func (s *TransactionService) List(ctx context.Context, f core.TransactionFilter) ([]core.Transaction, error) {
	return s.storage.ListTransactions(ctx, f)
}

// SummaryResult is the dashboard view of recent activity.
type SummaryResult struct {
	TotalSpent core.Money
	Breakdown  []core.CategoryTotal
	Recent     []core.Transaction
}

// Summary aggregates all transactions into total spend, per-category
// breakdown and the five most recent entries.
func (s *TransactionService) Summary(ctx context.Context) (SummaryResult, error) {
	txs, err := s.storage.ListTransactions(ctx, core.TransactionFilter{})
	if err != nil {
		return SummaryResult{}, fmt.Errorf("list transactions: %w", err)
	}

	breakdown, total := core.Breakdown(txs)
	recent := txs
	if len(recent) > 5 {
		recent = recent[:5]
	}
	return SummaryResult{
		TotalSpent: total.Round2(),
		Breakdown:  breakdown,
		Recent:     recent,
	}, nil
}

// Trend returns the trailing monthly totals ending at end.
func (s *TransactionService) Trend(ctx context.Context, end core.MonthKey) ([]core.MonthBucket, error) {
	txs, err := s.storage.ListTransactions(ctx, core.TransactionFilter{})
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return core.MonthlyTrend(txs, end, core.TrendWindowMonths), nil
}

func (s *TransactionService) publishUpsert(ctx context.Context, id, version int64) {
	if s.publisher == nil {
		s.logger.WarnContext(ctx, "amqp not available, skipping sync event",
			log.FieldTransactionID, id)
		return
	}
	if err := s.publisher.PublishUpsert(ctx, id, version); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish sync event",
			log.FieldTransactionID, id, log.FieldVersion, version, log.FieldError, err)
	}
}
