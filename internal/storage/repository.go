// Package storage implements the SQLite record store for transactions
// and budgets.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"fintrack/internal/core"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a record id does not exist.
var ErrNotFound = errors.New("record not found")

// timeLayout is RFC 3339 with fixed-width nanoseconds so stored UTC
// timestamps compare correctly as strings in SQL range predicates.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

type Repository struct {
	db *sql.DB
}

func NewRepository(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// CreateTransaction inserts a transaction and returns it with the
// store-assigned id.
func (r *Repository) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (description, amount, date, category) VALUES (?, ?, ?, ?)`,
		t.Description, t.Amount.String(), t.Date.UTC().Format(timeLayout), string(t.Category))
	if err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Transaction{}, fmt.Errorf("transaction id: %w", err)
	}
	t.ID = id

	slog.InfoContext(ctx, "Transaction saved",
		"id", t.ID, "amount", t.Amount.String(), "category", t.Category)
	return t, nil
}

// GetTransaction loads one transaction by id.
func (r *Repository) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, description, amount, date, category FROM transactions WHERE id = ?`, id)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction %d: %w", id, err)
	}
	return t, nil
}

// UpdateTransaction replaces the mutable fields of a transaction, bumps
// its version and re-queues it for export. Returns the stored row and
// its new version.
func (r *Repository) UpdateTransaction(ctx context.Context, id int64, t core.Transaction) (core.Transaction, int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE transactions
		 SET description = ?, amount = ?, date = ?, category = ?,
		     version = version + 1, synced = 0, sync_error = 0, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		t.Description, t.Amount.String(), t.Date.UTC().Format(timeLayout), string(t.Category), id)
	if err != nil {
		return core.Transaction{}, 0, fmt.Errorf("update transaction %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return core.Transaction{}, 0, fmt.Errorf("update transaction %d: %w", id, err)
	}
	if affected == 0 {
		return core.Transaction{}, 0, ErrNotFound
	}

	var version int64
	if err := r.db.QueryRowContext(ctx,
		`SELECT version FROM transactions WHERE id = ?`, id).Scan(&version); err != nil {
		return core.Transaction{}, 0, fmt.Errorf("read transaction version %d: %w", id, err)
	}
	t.ID = id
	return t, version, nil
}

// DeleteTransaction removes a transaction and returns the deleted
// snapshot so a delete event can carry it.
func (r *Repository) DeleteTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	t, err := r.GetTransaction(ctx, id)
	if err != nil {
		return core.Transaction{}, err
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id); err != nil {
		return core.Transaction{}, fmt.Errorf("delete transaction %d: %w", id, err)
	}
	slog.InfoContext(ctx, "Transaction deleted", "id", id)
	return t, nil
}

// ListTransactions returns transactions matching the filter, newest
// first. The date range is half-open: [From, To).
func (r *Repository) ListTransactions(ctx context.Context, f core.TransactionFilter) ([]core.Transaction, error) {
	query := `SELECT id, description, amount, date, category FROM transactions`
	var conds []string
	var args []any
	if !f.From.IsZero() {
		conds = append(conds, "date >= ?")
		args = append(args, f.From.UTC().Format(timeLayout))
	}
	if !f.To.IsZero() {
		conds = append(conds, "date < ?")
		args = append(args, f.To.UTC().Format(timeLayout))
	}
	if f.Category != "" {
		conds = append(conds, "category = ?")
		args = append(args, string(f.Category))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY date DESC, id DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return out, nil
}

// UpsertBudget writes a budget, replacing the amount when the
// (category, month) pair already exists.
func (r *Repository) UpsertBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO budgets (category, month, amount) VALUES (?, ?, ?)
		 ON CONFLICT(category, month) DO UPDATE SET amount = excluded.amount, updated_at = CURRENT_TIMESTAMP`,
		string(b.Category), b.Month, b.Amount.String())
	if err != nil {
		return core.Budget{}, fmt.Errorf("upsert budget: %w", err)
	}
	if err := r.db.QueryRowContext(ctx,
		`SELECT id FROM budgets WHERE category = ? AND month = ?`,
		string(b.Category), b.Month).Scan(&b.ID); err != nil {
		return core.Budget{}, fmt.Errorf("read budget id: %w", err)
	}

	slog.InfoContext(ctx, "Budget saved",
		"id", b.ID, "category", b.Category, "month", b.Month, "amount", b.Amount.String())
	return b, nil
}

// ListBudgets returns budgets matching the filter in insertion order.
// Month matching is exact string equality on the stored token.
func (r *Repository) ListBudgets(ctx context.Context, f core.BudgetFilter) ([]core.Budget, error) {
	query := `SELECT id, category, month, amount FROM budgets`
	var conds []string
	var args []any
	if f.Month != "" {
		conds = append(conds, "month = ?")
		args = append(args, f.Month)
	}
	if f.Category != "" {
		conds = append(conds, "category = ?")
		args = append(args, string(f.Category))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	var out []core.Budget
	for rows.Next() {
		var b core.Budget
		var category, amount string
		if err := rows.Scan(&b.ID, &category, &b.Month, &amount); err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		b.Category = core.Category(category)
		if b.Amount, err = core.ParseMoney(amount); err != nil {
			return nil, fmt.Errorf("parse budget amount %q: %w", amount, err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	return out, nil
}

// PendingTransaction identifies a row awaiting export.
type PendingTransaction struct {
	ID      int64
	Version int64
}

// GetPendingSync returns transactions that have not been exported yet,
// oldest first. Used as a backup path when sync messages are lost.
func (r *Repository) GetPendingSync(ctx context.Context, limit int) ([]PendingTransaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, version FROM transactions WHERE synced = 0 AND sync_error = 0 ORDER BY id LIMIT ?`,
		int64(limit))
	if err != nil {
		return nil, fmt.Errorf("get pending sync: %w", err)
	}
	defer rows.Close()

	var out []PendingTransaction
	for rows.Next() {
		var p PendingTransaction
		if err := rows.Scan(&p.ID, &p.Version); err != nil {
			return nil, fmt.Errorf("scan pending sync: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get pending sync: %w", err)
	}
	return out, nil
}

// MarkSynced records a successful export. The version guard keeps a
// concurrent update from being marked by a stale export.
func (r *Repository) MarkSynced(ctx context.Context, id, version int64) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET synced = 1 WHERE id = ? AND version = ?`, id, version); err != nil {
		return fmt.Errorf("mark synced %d: %w", id, err)
	}
	return nil
}

// MarkSyncError flags a row so the pending scan stops retrying it.
func (r *Repository) MarkSyncError(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET sync_error = 1 WHERE id = ?`, id); err != nil {
		return fmt.Errorf("mark sync error %d: %w", id, err)
	}
	slog.WarnContext(ctx, "Transaction marked with sync error", "id", id)
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var t core.Transaction
	var amount, date, category string
	if err := row.Scan(&t.ID, &t.Description, &amount, &date, &category); err != nil {
		return core.Transaction{}, err
	}
	var err error
	if t.Amount, err = core.ParseMoney(amount); err != nil {
		return core.Transaction{}, fmt.Errorf("parse amount %q: %w", amount, err)
	}
	if t.Date, err = time.Parse(timeLayout, date); err != nil {
		return core.Transaction{}, fmt.Errorf("parse date %q: %w", date, err)
	}
	t.Category = core.Category(category)
	return t, nil
}
