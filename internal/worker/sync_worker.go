// Package worker mirrors transaction changes from SQLite to the external
// ledger. It consumes AMQP messages and periodically scans for rows that
// were written while the broker was unavailable.
package worker

import (
	"context"
	"errors"
	"fmt"

	"fintrack/internal/amqp"
	"fintrack/internal/export"
	"fintrack/internal/log"
	"fintrack/internal/storage"
)

// SyncWorker exports transaction changes to a ledger and records sync state.
type SyncWorker struct {
	storage   *storage.Repository
	ledger    export.LedgerWriter
	batchSize int
	logger    *log.Logger
}

func NewSyncWorker(storage *storage.Repository, ledger export.LedgerWriter, batchSize int, logger *log.Logger) *SyncWorker {
	if batchSize <= 0 {
		batchSize = 50
	}
	return &SyncWorker{
		storage:   storage,
		ledger:    ledger,
		batchSize: batchSize,
		logger:    logger.WithComponent(log.ComponentWorker),
	}
}

// HandleMessage processes a single transaction message from AMQP.
func (w *SyncWorker) HandleMessage(ctx context.Context, msg *amqp.TransactionMessage) error {
	w.logger.InfoContext(ctx, "processing sync message",
		log.FieldTransactionID, msg.ID,
		log.FieldVersion, msg.Version,
		"kind", string(msg.Kind))

	switch msg.Kind {
	case amqp.KindUpsert:
		return w.handleUpsert(ctx, msg)
	case amqp.KindDelete:
		return w.handleDelete(ctx, msg)
	default:
		return fmt.Errorf("unknown message kind %q", msg.Kind)
	}
}

func (w *SyncWorker) handleUpsert(ctx context.Context, msg *amqp.TransactionMessage) error {
	tx, err := w.storage.GetTransaction(ctx, msg.ID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			// Deleted between publish and consume. The delete message
			// that follows takes care of the ledger.
			w.logger.InfoContext(ctx, "transaction gone, skipping",
				log.FieldTransactionID, msg.ID)
			return nil
		}
		return fmt.Errorf("get transaction: %w", err)
	}

	if err := w.ledger.AppendTransaction(ctx, tx); err != nil {
		return fmt.Errorf("append to ledger: %w", err)
	}

	if err := w.storage.MarkSynced(ctx, msg.ID, msg.Version); err != nil {
		return fmt.Errorf("mark synced: %w", err)
	}

	w.logger.InfoContext(ctx, "transaction synced",
		log.FieldTransactionID, msg.ID,
		log.FieldVersion, msg.Version)
	return nil
}

func (w *SyncWorker) handleDelete(ctx context.Context, msg *amqp.TransactionMessage) error {
	// The row is already gone from SQLite, so the message carries the
	// snapshot needed to locate the ledger entry.
	tx, err := msg.Transaction()
	if err != nil {
		return fmt.Errorf("decode delete snapshot: %w", err)
	}

	if err := w.ledger.RemoveTransaction(ctx, tx); err != nil {
		return fmt.Errorf("remove from ledger: %w", err)
	}

	w.logger.InfoContext(ctx, "transaction removed from ledger",
		log.FieldTransactionID, msg.ID)
	return nil
}

// ProcessPending exports transactions that never made it through AMQP.
// This is a backup mechanism in case messages are lost.
func (w *SyncWorker) ProcessPending(ctx context.Context) error {
	pending, err := w.storage.GetPendingSync(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending transactions: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	w.logger.InfoContext(ctx, "processing pending transactions", "count", len(pending))

	for _, p := range pending {
		tx, err := w.storage.GetTransaction(ctx, p.ID)
		if err != nil {
			w.logger.ErrorContext(ctx, "failed to load pending transaction",
				log.FieldTransactionID, p.ID, log.FieldError, err)
			if err := w.storage.MarkSyncError(ctx, p.ID); err != nil {
				w.logger.ErrorContext(ctx, "failed to mark sync error",
					log.FieldTransactionID, p.ID, log.FieldError, err)
			}
			continue
		}

		if err := w.ledger.AppendTransaction(ctx, tx); err != nil {
			w.logger.ErrorContext(ctx, "failed to export pending transaction",
				log.FieldTransactionID, p.ID, log.FieldError, err)
			continue
		}

		if err := w.storage.MarkSynced(ctx, p.ID, p.Version); err != nil {
			w.logger.ErrorContext(ctx, "failed to mark synced",
				log.FieldTransactionID, p.ID, log.FieldError, err)
		}
	}

	return nil
}

// StartupCheck drains the pending backlog once with a larger batch before
// the consumer starts. Useful after worker downtime.
func (w *SyncWorker) StartupCheck(ctx context.Context) error {
	pending, err := w.storage.GetPendingSync(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("get pending transactions for startup check: %w", err)
	}
	if len(pending) == 0 {
		w.logger.InfoContext(ctx, "no pending transactions on startup")
		return nil
	}

	w.logger.InfoContext(ctx, "found pending transactions on startup", "count", len(pending))
	return w.ProcessPending(ctx)
}
