package http

import (
	"encoding/json"
	"strings"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/services"
)

type transactionPayload struct {
	Description string      `json:"description"`
	Amount      json.Number `json:"amount"`
	Date        string      `json:"date"`
	Category    string      `json:"category"`
}

// toTransaction converts the request body into a domain transaction.
// Amounts arrive as JSON numbers or strings; dates as RFC 3339 or a bare
// YYYY-MM-DD, interpreted as UTC midnight.
func (p transactionPayload) toTransaction() (core.Transaction, error) {
	amount, err := core.ParseMoney(p.Amount.String())
	if err != nil {
		return core.Transaction{}, err
	}

	date, err := parseDate(p.Date)
	if err != nil {
		return core.Transaction{}, err
	}

	return core.Transaction{
		Description: sanitizeInput(p.Description),
		Amount:      amount,
		Date:        date,
		Category:    core.Category(strings.TrimSpace(p.Category)),
	}, nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, core.ErrInvalidDate
	}
	return t, nil
}

// sanitizeInput trims whitespace and strips control characters.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' {
			return -1
		}
		return r
	}, s)
}

type transactionJSON struct {
	ID          int64   `json:"id"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Date        string  `json:"date"`
	Category    string  `json:"category"`
}

func toTransactionJSON(t core.Transaction) transactionJSON {
	return transactionJSON{
		ID:          t.ID,
		Description: t.Description,
		Amount:      t.Amount.Round2().Float64(),
		Date:        t.Date.UTC().Format(time.RFC3339),
		Category:    string(t.Category),
	}
}

func toTransactionListJSON(txs []core.Transaction) []transactionJSON {
	out := make([]transactionJSON, 0, len(txs))
	for _, t := range txs {
		out = append(out, toTransactionJSON(t))
	}
	return out
}

type categoryTotalJSON struct {
	Category   string  `json:"category"`
	Total      float64 `json:"total"`
	Percentage float64 `json:"percentage"`
}

type summaryJSON struct {
	TotalSpent        float64             `json:"totalSpent"`
	CategoryBreakdown []categoryTotalJSON `json:"categoryBreakdown"`
	Recent            []transactionJSON   `json:"recentTransactions"`
}

func toSummaryJSON(s services.SummaryResult) summaryJSON {
	breakdown := make([]categoryTotalJSON, 0, len(s.Breakdown))
	for _, c := range s.Breakdown {
		breakdown = append(breakdown, categoryTotalJSON{
			Category:   string(c.Category),
			Total:      c.Total.Round2().Float64(),
			Percentage: c.Percentage,
		})
	}
	return summaryJSON{
		TotalSpent:        s.TotalSpent.Float64(),
		CategoryBreakdown: breakdown,
		Recent:            toTransactionListJSON(s.Recent),
	}
}

type budgetPayload struct {
	Category string      `json:"category"`
	Month    string      `json:"month"`
	Amount   json.Number `json:"amount"`
}

func (p budgetPayload) toBudget() (core.Budget, error) {
	amount, err := core.ParseMoney(p.Amount.String())
	if err != nil {
		return core.Budget{}, err
	}
	return core.Budget{
		Category: core.Category(strings.TrimSpace(p.Category)),
		Month:    strings.TrimSpace(p.Month),
		Amount:   amount,
	}, nil
}

type budgetJSON struct {
	ID       int64   `json:"id"`
	Category string  `json:"category"`
	Month    string  `json:"month"`
	Amount   float64 `json:"amount"`
}

func toBudgetJSON(b core.Budget) budgetJSON {
	return budgetJSON{
		ID:       b.ID,
		Category: string(b.Category),
		Month:    b.Month,
		Amount:   b.Amount.Round2().Float64(),
	}
}

type comparisonRowJSON struct {
	Category string  `json:"category"`
	Budgeted float64 `json:"budgeted"`
	Actual   float64 `json:"actual"`
}

func toComparisonJSON(rows []core.ComparisonRow) []comparisonRowJSON {
	out := make([]comparisonRowJSON, 0, len(rows))
	for _, r := range rows {
		out = append(out, comparisonRowJSON{
			Category: string(r.Category),
			Budgeted: r.Budgeted.Float64(),
			Actual:   r.Actual.Float64(),
		})
	}
	return out
}
