// Package memory provides an in-memory ledger used in tests and when no
// Google Sheets credentials are configured.
package memory

import (
	"context"
	"sync"

	"fintrack/internal/core"
)

type Ledger struct {
	mu   sync.Mutex
	rows []core.Transaction
}

func New() *Ledger {
	return &Ledger{}
}

// AppendTransaction stores a copy of the transaction.
func (l *Ledger) AppendTransaction(_ context.Context, t core.Transaction) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rows = append(l.rows, t)
	return nil
}

// RemoveTransaction drops the last row matching the transaction's ID.
// A missing row is not an error, matching the Sheets backend.
func (l *Ledger) RemoveTransaction(_ context.Context, t core.Transaction) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := len(l.rows) - 1; i >= 0; i-- {
		if l.rows[i].ID == t.ID {
			l.rows = append(l.rows[:i], l.rows[i+1:]...)
			return nil
		}
	}
	return nil
}

// Rows returns a snapshot of the stored transactions.
func (l *Ledger) Rows() []core.Transaction {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]core.Transaction, len(l.rows))
	copy(out, l.rows)
	return out
}
