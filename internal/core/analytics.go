package core

import (
	"sort"

	"github.com/shopspring/decimal"
)

const (
	// TrendWindowMonths is the trailing window used for the monthly trend.
	TrendWindowMonths = 6
	// TopCategoryCount is how many categories the ranking keeps.
	TopCategoryCount = 3
)

// CategoryTotal is one row of a per-category breakdown. Percentage is the
// share of the grand total, zero when nothing was spent.
type CategoryTotal struct {
	Category   Category
	Total      Money
	Percentage float64
}

// ComparisonRow pairs a category's budgeted ceiling against its actual
// spend for one month.
type ComparisonRow struct {
	Category Category
	Budgeted Money
	Actual   Money
}

// MonthBucket is the spend total for one calendar month.
type MonthBucket struct {
	Month MonthKey
	Total Money
}

// CategoryTotals sums transaction amounts grouped by category. Totals are
// exact; rounding is left to the output boundary. An empty input yields
// an empty map.
func CategoryTotals(txs []Transaction) map[Category]Money {
	totals := make(map[Category]Money, len(txs))
	for _, tx := range txs {
		totals[tx.Category] = totals[tx.Category].Add(tx.Amount)
	}
	return totals
}

// Breakdown returns per-category rows in first-seen order together with
// the rounded grand total. When the grand total is zero every percentage
// is zero rather than a division error.
func Breakdown(txs []Transaction) ([]CategoryTotal, Money) {
	var order []Category
	totals := make(map[Category]Money, len(txs))
	var grand Money
	for _, tx := range txs {
		if _, seen := totals[tx.Category]; !seen {
			order = append(order, tx.Category)
		}
		totals[tx.Category] = totals[tx.Category].Add(tx.Amount)
		grand = grand.Add(tx.Amount)
	}

	rows := make([]CategoryTotal, 0, len(order))
	for _, c := range order {
		row := CategoryTotal{Category: c, Total: totals[c].Round2()}
		if grand.Sign() > 0 {
			pct, _ := totals[c].Div(grand.Decimal).Mul(decimal.NewFromInt(100)).Float64()
			row.Percentage = pct
		}
		rows = append(rows, row)
	}
	return rows, grand.Round2()
}

// BudgetComparison pairs each category's budget against its actual spend
// for one month. Transactions match by the half-open date interval
// [month start, next month start) in UTC; budgets match by exact string
// equality of the month token. The two rules differ deliberately: a
// budget stored with a malformed token silently never matches, and that
// is observable behavior.
//
// Rows cover the union of categories seen in either source, budget
// categories first in their input order, then transaction-only
// categories in first-seen order. Missing sides default to zero. A
// category absent from both sources never appears.
func BudgetComparison(txs []Transaction, budgets []Budget, month MonthKey) []ComparisonRow {
	token := month.String()

	actuals := make(map[Category]Money)
	var txOrder []Category
	for _, tx := range txs {
		if !month.Contains(tx.Date) {
			continue
		}
		if _, seen := actuals[tx.Category]; !seen {
			txOrder = append(txOrder, tx.Category)
		}
		actuals[tx.Category] = actuals[tx.Category].Add(tx.Amount)
	}

	budgeted := make(map[Category]Money)
	seen := make(map[Category]bool)
	var rows []ComparisonRow
	for _, b := range budgets {
		if b.Month != token || seen[b.Category] {
			continue
		}
		seen[b.Category] = true
		budgeted[b.Category] = b.Amount
		rows = append(rows, ComparisonRow{Category: b.Category})
	}
	for _, c := range txOrder {
		if seen[c] {
			continue
		}
		seen[c] = true
		rows = append(rows, ComparisonRow{Category: c})
	}

	for i := range rows {
		rows[i].Budgeted = budgeted[rows[i].Category].Round2()
		rows[i].Actual = actuals[rows[i].Category].Round2()
	}
	return rows
}

// MonthlyTrend produces exactly window buckets in ascending order ending
// at end, one per calendar month. Months without transactions keep a
// zero total; buckets are never omitted. A transaction belongs to the
// bucket matching its date's UTC month.
func MonthlyTrend(txs []Transaction, end MonthKey, window int) []MonthBucket {
	if window <= 0 {
		return nil
	}
	totals := make(map[MonthKey]Money)
	for _, tx := range txs {
		k := MonthKeyOf(tx.Date)
		totals[k] = totals[k].Add(tx.Amount)
	}
	buckets := make([]MonthBucket, 0, window)
	for i := window - 1; i >= 0; i-- {
		k := end.Add(-i)
		buckets = append(buckets, MonthBucket{Month: k, Total: totals[k].Round2()})
	}
	return buckets
}

// TopCategories returns the n largest rows by total, descending. Equal
// totals keep their original relative order. Fewer than n rows come back
// as-is; the input slice is never mutated.
func TopCategories(rows []CategoryTotal, n int) []CategoryTotal {
	out := make([]CategoryTotal, len(rows))
	copy(out, rows)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Total.Cmp(out[j].Total) > 0
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
