// Package export defines the outbound port for mirroring the
// transaction ledger to an external target.
package export

import (
	"context"

	"fintrack/internal/core"
)

// LedgerWriter mirrors transaction writes to an external ledger.
// AppendTransaction must be idempotent-tolerant upstream: the worker may
// retry a delivery, so duplicate rows are possible and accepted.
type LedgerWriter interface {
	AppendTransaction(ctx context.Context, t core.Transaction) error
	RemoveTransaction(ctx context.Context, t core.Transaction) error
}
