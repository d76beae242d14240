package core

import (
	"reflect"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func money(s string) Money {
	return Money{decimal.RequireFromString(s)}
}

func tx(desc, amount string, date time.Time, cat Category) Transaction {
	return Transaction{Description: desc, Amount: money(amount), Date: date, Category: cat}
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 12, 0, 0, 0, time.UTC)
}

func TestCategoryTotalsPreservesSum(t *testing.T) {
	txs := []Transaction{
		tx("groceries", "100.10", day(2024, 1, 15), CategoryFood),
		tx("more groceries", "50.05", day(2024, 2, 1), CategoryFood),
		tx("bus", "30.33", day(2024, 1, 20), CategoryTransport),
		tx("cinema", "12.52", day(2024, 1, 21), CategoryEntertainment),
	}

	totals := CategoryTotals(txs)

	var fromTotals, fromTxs Money
	for _, v := range totals {
		fromTotals = fromTotals.Add(v)
	}
	for _, e := range txs {
		fromTxs = fromTxs.Add(e.Amount)
	}
	if fromTotals.Cmp(fromTxs) != 0 {
		t.Fatalf("sum of totals %s != sum of amounts %s", fromTotals, fromTxs)
	}
	if got := totals[CategoryFood]; got.Cmp(money("150.15")) != 0 {
		t.Fatalf("food total = %s, want 150.15", got)
	}
}

func TestCategoryTotalsEmpty(t *testing.T) {
	totals := CategoryTotals(nil)
	if len(totals) != 0 {
		t.Fatalf("expected empty map, got %v", totals)
	}
}

func TestBreakdownPercentages(t *testing.T) {
	txs := []Transaction{
		tx("a", "75", day(2024, 3, 1), CategoryFood),
		tx("b", "25", day(2024, 3, 2), CategoryBills),
	}

	rows, total := Breakdown(txs)
	if total.Cmp(money("100")) != 0 {
		t.Fatalf("total = %s, want 100", total)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Category != CategoryFood || rows[0].Percentage != 75 {
		t.Fatalf("row 0 = %+v, want Food at 75%%", rows[0])
	}
	if rows[1].Category != CategoryBills || rows[1].Percentage != 25 {
		t.Fatalf("row 1 = %+v, want Bills at 25%%", rows[1])
	}
}

func TestBreakdownEmpty(t *testing.T) {
	rows, total := Breakdown(nil)
	if len(rows) != 0 {
		t.Fatalf("expected no rows, got %v", rows)
	}
	if total.Sign() != 0 {
		t.Fatalf("expected zero total, got %s", total)
	}
}

func TestBudgetComparisonScenario(t *testing.T) {
	txs := []Transaction{
		tx("groceries", "100", day(2024, 1, 15), CategoryFood),
		tx("groceries", "50", day(2024, 2, 1), CategoryFood),
		tx("bus", "30", day(2024, 1, 20), CategoryTransport),
	}
	budgets := []Budget{
		{Category: CategoryFood, Month: "2024-01", Amount: money("120")},
	}
	month := MonthKey{Year: 2024, Month: time.January}

	rows := BudgetComparison(txs, budgets, month)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d: %+v", len(rows), rows)
	}
	// Budget categories first, then transaction-only categories.
	if rows[0].Category != CategoryFood {
		t.Fatalf("row 0 = %s, want Food", rows[0].Category)
	}
	if rows[0].Budgeted.Cmp(money("120")) != 0 || rows[0].Actual.Cmp(money("100")) != 0 {
		t.Fatalf("food row = %+v, want budgeted 120 actual 100", rows[0])
	}
	if rows[1].Category != CategoryTransport {
		t.Fatalf("row 1 = %s, want Transport", rows[1].Category)
	}
	if rows[1].Budgeted.Sign() != 0 || rows[1].Actual.Cmp(money("30")) != 0 {
		t.Fatalf("transport row = %+v, want budgeted 0 actual 30", rows[1])
	}
}

func TestBudgetComparisonHalfOpenMonthBoundary(t *testing.T) {
	// The first instant of February belongs to February, not January.
	boundary := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	lastInstant := time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC)
	txs := []Transaction{
		tx("boundary", "10", boundary, CategoryFood),
		tx("inside", "5", lastInstant, CategoryFood),
	}

	rows := BudgetComparison(txs, nil, MonthKey{Year: 2024, Month: time.January})
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].Actual.Cmp(money("5")) != 0 {
		t.Fatalf("actual = %s, want 5 (boundary transaction excluded)", rows[0].Actual)
	}
}

func TestBudgetComparisonExactTokenMatch(t *testing.T) {
	// Budgets match by string equality only: a malformed or unpadded
	// token never matches the requested month.
	budgets := []Budget{
		{Category: CategoryFood, Month: "2024-1", Amount: money("100")},
		{Category: CategoryBills, Month: "2024-01 ", Amount: money("100")},
		{Category: CategoryHealth, Month: "2024-01", Amount: money("40")},
	}

	rows := BudgetComparison(nil, budgets, MonthKey{Year: 2024, Month: time.January})
	if len(rows) != 1 {
		t.Fatalf("expected only the exact-token budget, got %+v", rows)
	}
	if rows[0].Category != CategoryHealth {
		t.Fatalf("row 0 = %s, want Health", rows[0].Category)
	}
}

func TestBudgetComparisonUnionHasNoDuplicates(t *testing.T) {
	txs := []Transaction{
		tx("a", "10", day(2024, 5, 1), CategoryFood),
		tx("b", "20", day(2024, 5, 2), CategoryFood),
		tx("c", "30", day(2024, 5, 3), CategoryBills),
	}
	budgets := []Budget{
		{Category: CategoryFood, Month: "2024-05", Amount: money("50")},
		{Category: CategoryShopping, Month: "2024-05", Amount: money("70")},
	}

	rows := BudgetComparison(txs, budgets, MonthKey{Year: 2024, Month: time.May})
	seen := make(map[Category]bool)
	for _, r := range rows {
		if seen[r.Category] {
			t.Fatalf("duplicate category %s", r.Category)
		}
		seen[r.Category] = true
	}
	if len(rows) != 3 {
		t.Fatalf("expected union of 3 categories, got %d", len(rows))
	}
}

func TestBudgetComparisonIdempotent(t *testing.T) {
	txs := []Transaction{
		tx("a", "10.555", day(2024, 5, 1), CategoryFood),
		tx("b", "20", day(2024, 5, 2), CategoryBills),
	}
	budgets := []Budget{
		{Category: CategoryFood, Month: "2024-05", Amount: money("50")},
	}
	month := MonthKey{Year: 2024, Month: time.May}

	first := BudgetComparison(txs, budgets, month)
	second := BudgetComparison(txs, budgets, month)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("repeated call differs: %+v vs %+v", first, second)
	}
}

func TestMonthlyTrendWindow(t *testing.T) {
	txs := []Transaction{
		tx("jan", "10", day(2024, 1, 5), CategoryFood),
		tx("mar", "20", day(2024, 3, 5), CategoryFood),
		tx("jun", "30", day(2024, 6, 5), CategoryBills),
		tx("old", "99", day(2023, 11, 5), CategoryFood), // outside the window
	}
	end := MonthKey{Year: 2024, Month: time.June}

	buckets := MonthlyTrend(txs, end, 6)
	if len(buckets) != 6 {
		t.Fatalf("expected 6 buckets, got %d", len(buckets))
	}
	wantMonths := []string{"2024-01", "2024-02", "2024-03", "2024-04", "2024-05", "2024-06"}
	wantTotals := []string{"10", "0", "20", "0", "0", "30"}
	for i, b := range buckets {
		if b.Month.String() != wantMonths[i] {
			t.Fatalf("bucket %d month = %s, want %s", i, b.Month, wantMonths[i])
		}
		if b.Total.Cmp(money(wantTotals[i])) != 0 {
			t.Fatalf("bucket %d total = %s, want %s", i, b.Total, wantTotals[i])
		}
	}
}

func TestMonthlyTrendEmptyInput(t *testing.T) {
	buckets := MonthlyTrend(nil, MonthKey{Year: 2024, Month: time.June}, TrendWindowMonths)
	if len(buckets) != TrendWindowMonths {
		t.Fatalf("expected %d buckets, got %d", TrendWindowMonths, len(buckets))
	}
	for i, b := range buckets {
		if b.Total.Sign() != 0 {
			t.Fatalf("bucket %d total = %s, want 0", i, b.Total)
		}
	}
}

func TestTopCategoriesRanking(t *testing.T) {
	rows := []CategoryTotal{
		{Category: CategoryFood, Total: money("50")},
		{Category: CategoryBills, Total: money("200")},
		{Category: CategoryHealth, Total: money("10")},
		{Category: CategoryShopping, Total: money("75")},
		{Category: CategoryTransport, Total: money("60")},
	}

	top := TopCategories(rows, 3)
	if len(top) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(top))
	}
	want := []Category{CategoryBills, CategoryShopping, CategoryTransport}
	for i, c := range want {
		if top[i].Category != c {
			t.Fatalf("rank %d = %s, want %s", i, top[i].Category, c)
		}
	}
}

func TestTopCategoriesTieKeepsInputOrder(t *testing.T) {
	rows := []CategoryTotal{
		{Category: CategoryFood, Total: money("50")},
		{Category: CategoryBills, Total: money("50")},
		{Category: CategoryHealth, Total: money("80")},
	}

	top := TopCategories(rows, 3)
	if top[0].Category != CategoryHealth {
		t.Fatalf("rank 0 = %s, want Health", top[0].Category)
	}
	if top[1].Category != CategoryFood || top[2].Category != CategoryBills {
		t.Fatalf("tied categories reordered: %+v", top)
	}
}

func TestTopCategoriesFewerThanN(t *testing.T) {
	rows := []CategoryTotal{{Category: CategoryFood, Total: money("5")}}
	top := TopCategories(rows, 3)
	if len(top) != 1 {
		t.Fatalf("expected 1 row, got %d", len(top))
	}
}

func TestTopCategoriesDoesNotMutateInput(t *testing.T) {
	rows := []CategoryTotal{
		{Category: CategoryFood, Total: money("1")},
		{Category: CategoryBills, Total: money("2")},
	}
	TopCategories(rows, 2)
	if rows[0].Category != CategoryFood {
		t.Fatalf("input slice was reordered: %+v", rows)
	}
}
