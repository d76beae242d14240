// Package core provides the pure finance domain: transactions, budgets,
// money handling and the aggregation functions derived from them.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Money is an exact decimal amount in the account currency.
// Accumulation stays exact; rounding to two decimal places happens only
// when producing output, never mid-sum.
type Money struct {
	decimal.Decimal
}

// NewMoney wraps a decimal value as Money.
func NewMoney(d decimal.Decimal) Money {
	return Money{d}
}

// MoneyFromFloat converts a float input to Money.
func MoneyFromFloat(f float64) Money {
	return Money{decimal.NewFromFloat(f)}
}

// ParseMoney parses a decimal string, accepting both dot and comma
// decimal separators ("12.34" and "12,34"). Thousands separators are
// not supported: "1,234.56" turns into "1.234.56" and is rejected,
// never silently mis-parsed.
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	return Money{d}, nil
}

// Add returns m + o without rounding.
func (m Money) Add(o Money) Money {
	return Money{m.Decimal.Add(o.Decimal)}
}

// Cmp compares two amounts: -1 if m < o, 0 if equal, 1 if m > o.
func (m Money) Cmp(o Money) int {
	return m.Decimal.Cmp(o.Decimal)
}

// Round2 rounds to two decimal places, half away from zero.
func (m Money) Round2() Money {
	return Money{m.Decimal.Round(2)}
}

// Float64 returns the amount as a float for JSON output.
func (m Money) Float64() float64 {
	f, _ := m.Decimal.Float64()
	return f
}

// Validate requires a strictly positive amount.
func (m Money) Validate() error {
	if m.Sign() <= 0 {
		return ErrInvalidAmount
	}
	return nil
}
