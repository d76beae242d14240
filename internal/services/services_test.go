package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/storage"
)

func newTestRepo(t *testing.T) *storage.Repository {
	t.Helper()
	repo, err := storage.NewRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func quietLogger() *log.Logger {
	return log.New(log.Config{Handler: slog.NewTextHandler(io.Discard, nil)})
}

func money(s string) core.Money {
	return core.NewMoney(decimal.RequireFromString(s))
}

func tx(desc, amount string, date time.Time, cat core.Category) core.Transaction {
	return core.Transaction{Description: desc, Amount: money(amount), Date: date, Category: cat}
}

type recordingPublisher struct {
	upserts []int64
	deletes []int64
	err     error
}

func (p *recordingPublisher) PublishUpsert(_ context.Context, id, _ int64) error {
	if p.err != nil {
		return p.err
	}
	p.upserts = append(p.upserts, id)
	return nil
}

func (p *recordingPublisher) PublishDelete(_ context.Context, t core.Transaction) error {
	if p.err != nil {
		return p.err
	}
	p.deletes = append(p.deletes, t.ID)
	return nil
}

func TestCreatePublishesUpsert(t *testing.T) {
	repo := newTestRepo(t)
	pub := &recordingPublisher{}
	svc := NewTransactionService(repo, pub, quietLogger())
	ctx := context.Background()

	created, err := svc.Create(ctx, tx("groceries", "12.34", time.Now().UTC(), core.CategoryFood))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(pub.upserts) != 1 || pub.upserts[0] != created.ID {
		t.Fatalf("upserts = %v", pub.upserts)
	}
}

func TestCreateRejectsInvalid(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewTransactionService(repo, &recordingPublisher{}, quietLogger())

	_, err := svc.Create(context.Background(), tx("", "12.34", time.Now().UTC(), core.CategoryFood))
	if !errors.Is(err, core.ErrEmptyDescription) {
		t.Fatalf("err = %v, want ErrEmptyDescription", err)
	}
}

func TestCreateSurvivesPublishFailure(t *testing.T) {
	repo := newTestRepo(t)
	pub := &recordingPublisher{err: errors.New("broker down")}
	svc := NewTransactionService(repo, pub, quietLogger())
	ctx := context.Background()

	created, err := svc.Create(ctx, tx("groceries", "12.34", time.Now().UTC(), core.CategoryFood))
	if err != nil {
		t.Fatalf("create must not fail on publish error: %v", err)
	}

	// The row stays pending so the backup scan can export it.
	pending, err := repo.GetPendingSync(ctx, 10)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != created.ID {
		t.Fatalf("pending = %+v", pending)
	}
}

func TestCreateWithoutPublisher(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewTransactionService(repo, nil, quietLogger())

	if _, err := svc.Create(context.Background(), tx("groceries", "12.34", time.Now().UTC(), core.CategoryFood)); err != nil {
		t.Fatalf("create without publisher: %v", err)
	}
}

func TestDeletePublishesSnapshot(t *testing.T) {
	repo := newTestRepo(t)
	pub := &recordingPublisher{}
	svc := NewTransactionService(repo, pub, quietLogger())
	ctx := context.Background()

	created, err := svc.Create(ctx, tx("groceries", "12.34", time.Now().UTC(), core.CategoryFood))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(pub.deletes) != 1 || pub.deletes[0] != created.ID {
		t.Fatalf("deletes = %v", pub.deletes)
	}

	if err := svc.Delete(ctx, created.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("second delete err = %v, want ErrNotFound", err)
	}
}

func TestSummaryRecentCappedAtFive(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewTransactionService(repo, nil, quietLogger())
	ctx := context.Background()

	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		_, err := svc.Create(ctx, tx("item", "10.00", base.AddDate(0, 0, i), core.CategoryFood))
		if err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	sum, err := svc.Summary(ctx)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if sum.TotalSpent.Cmp(money("70.00")) != 0 {
		t.Fatalf("total = %s", sum.TotalSpent)
	}
	if len(sum.Recent) != 5 {
		t.Fatalf("recent = %d, want 5", len(sum.Recent))
	}
	// Newest first.
	if !sum.Recent[0].Date.After(sum.Recent[4].Date) {
		t.Fatalf("recent not newest-first: %v .. %v", sum.Recent[0].Date, sum.Recent[4].Date)
	}
}

func TestBudgetComparisonMonth(t *testing.T) {
	repo := newTestRepo(t)
	txSvc := NewTransactionService(repo, nil, quietLogger())
	budSvc := NewBudgetService(repo, quietLogger())
	ctx := context.Background()

	jan := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	if _, err := txSvc.Create(ctx, tx("groceries", "120.00", jan, core.CategoryFood)); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := txSvc.Create(ctx, tx("groceries", "999.00", feb, core.CategoryFood)); err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := budSvc.Upsert(ctx, core.Budget{Category: core.CategoryFood, Month: "2024-01", Amount: money("100.00")}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if _, err := budSvc.Upsert(ctx, core.Budget{Category: core.CategoryTransport, Month: "2024-01", Amount: money("30.00")}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	month, _ := core.ParseMonthKey("2024-01")
	rows, err := budSvc.Comparison(ctx, month)
	if err != nil {
		t.Fatalf("comparison: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %+v", rows)
	}
	byCat := map[core.Category]core.ComparisonRow{}
	for _, r := range rows {
		byCat[r.Category] = r
	}
	food := byCat[core.CategoryFood]
	if food.Budgeted.Cmp(money("100.00")) != 0 || food.Actual.Cmp(money("120.00")) != 0 {
		t.Fatalf("food = %+v", food)
	}
	transport := byCat[core.CategoryTransport]
	if transport.Actual.Sign() != 0 {
		t.Fatalf("transport actual = %s, want 0", transport.Actual)
	}
}

type stubGenerator struct {
	text string
	err  error
}

func (g stubGenerator) Generate(context.Context, string) (string, error) {
	return g.text, g.err
}

func TestInsightNoData(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewInsightService(repo, stubGenerator{text: "should not be called"}, time.Second, quietLogger())

	got, err := svc.Insight(context.Background())
	if err != nil {
		t.Fatalf("insight: %v", err)
	}
	if got != NoDataMessage {
		t.Fatalf("got %q, want no-data message", got)
	}
}

func TestInsightHappyPath(t *testing.T) {
	repo := newTestRepo(t)
	txSvc := NewTransactionService(repo, nil, quietLogger())
	svc := NewInsightService(repo, stubGenerator{text: "Spend less."}, time.Second, quietLogger())
	ctx := context.Background()

	if _, err := txSvc.Create(ctx, tx("groceries", "12.34", time.Now().UTC(), core.CategoryFood)); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := svc.Insight(ctx)
	if err != nil {
		t.Fatalf("insight: %v", err)
	}
	if got != "Spend less." {
		t.Fatalf("got %q", got)
	}
}

func TestInsightFallbackOnGeneratorError(t *testing.T) {
	repo := newTestRepo(t)
	txSvc := NewTransactionService(repo, nil, quietLogger())
	svc := NewInsightService(repo, stubGenerator{err: errors.New("api down")}, time.Second, quietLogger())
	ctx := context.Background()

	if _, err := txSvc.Create(ctx, tx("groceries", "12.34", time.Now().UTC(), core.CategoryFood)); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := svc.Insight(ctx)
	if err != nil {
		t.Fatalf("generator failure must not surface: %v", err)
	}
	if got != FallbackMessage {
		t.Fatalf("got %q, want fallback", got)
	}
}

func TestInsightWithoutGenerator(t *testing.T) {
	repo := newTestRepo(t)
	txSvc := NewTransactionService(repo, nil, quietLogger())
	svc := NewInsightService(repo, nil, time.Second, quietLogger())
	ctx := context.Background()

	if _, err := txSvc.Create(ctx, tx("groceries", "12.34", time.Now().UTC(), core.CategoryFood)); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := svc.Insight(ctx)
	if err != nil {
		t.Fatalf("insight: %v", err)
	}
	if got != FallbackMessage {
		t.Fatalf("got %q, want fallback", got)
	}
}
