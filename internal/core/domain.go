package core

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrEmptyDescription   = errors.New("empty description")
	ErrDescriptionTooLong = errors.New("description too long (max 200 characters)")
	ErrInvalidDate        = errors.New("invalid date")
	ErrInvalidCategory    = errors.New("invalid category")
	ErrInvalidMonth       = errors.New("invalid month token")
)

// Transaction is one recorded expense. The ID is assigned by the store
// on creation.
type Transaction struct {
	ID          int64
	Description string
	Amount      Money
	Date        time.Time
	Category    Category
}

// Validate checks the invariants enforced on every write. The aggregation
// functions stay lenient and treat any category string as an opaque
// grouping key; only writes go through this gate.
func (t Transaction) Validate() error {
	desc := strings.TrimSpace(t.Description)
	if desc == "" {
		return ErrEmptyDescription
	}
	if len(t.Description) > 200 {
		return ErrDescriptionTooLong
	}
	if t.Date.IsZero() {
		return ErrInvalidDate
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if !t.Category.Valid() {
		return ErrInvalidCategory
	}
	return nil
}

// Budget is the spending ceiling for one category in one month. The month
// is kept as its raw YYYY-MM token because budgets are matched by string
// equality, not by date arithmetic. At most one budget exists per
// (category, month) pair; writes replace the amount.
type Budget struct {
	ID       int64
	Category Category
	Month    string
	Amount   Money
}

// Validate checks budget write invariants: a known category, a
// well-formed month token and a non-negative amount.
func (b Budget) Validate() error {
	if !b.Category.Valid() {
		return ErrInvalidCategory
	}
	if _, err := ParseMonthKey(b.Month); err != nil {
		return err
	}
	if b.Amount.Sign() < 0 {
		return ErrInvalidAmount
	}
	return nil
}

// TransactionFilter narrows store reads. From/To form a half-open date
// range [From, To); zero values leave that side unbounded. An empty
// category matches everything.
type TransactionFilter struct {
	From     time.Time
	To       time.Time
	Category Category
}

// BudgetFilter narrows budget reads by exact month token and/or category.
type BudgetFilter struct {
	Month    string
	Category Category
}
