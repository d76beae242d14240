package memory

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

func tx(id int64) core.Transaction {
	return core.Transaction{
		ID:          id,
		Description: "coffee",
		Amount:      core.NewMoney(decimal.RequireFromString("3.50")),
		Date:        time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
		Category:    core.CategoryFood,
	}
}

func TestAppendAndRemove(t *testing.T) {
	l := New()
	ctx := context.Background()

	for _, id := range []int64{1, 2, 3} {
		if err := l.AppendTransaction(ctx, tx(id)); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	if err := l.RemoveTransaction(ctx, tx(2)); err != nil {
		t.Fatalf("remove: %v", err)
	}

	rows := l.Rows()
	if len(rows) != 2 || rows[0].ID != 1 || rows[1].ID != 3 {
		t.Fatalf("rows = %+v", rows)
	}
}

func TestRemoveMissingIsNotAnError(t *testing.T) {
	l := New()
	if err := l.RemoveTransaction(context.Background(), tx(42)); err != nil {
		t.Fatalf("remove missing: %v", err)
	}
}
