package core

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		Description: "groceries",
		Amount:      money("12.34"),
		Date:        day(2024, 1, 15),
		Category:    CategoryFood,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		name string
		mut  func(Transaction) Transaction
		want error
	}{
		{"empty description", func(e Transaction) Transaction { e.Description = "  "; return e }, ErrEmptyDescription},
		{"overlong description", func(e Transaction) Transaction { e.Description = strings.Repeat("x", 201); return e }, ErrDescriptionTooLong},
		{"max-length description", func(e Transaction) Transaction { e.Description = strings.Repeat("x", 200); return e }, nil},
		{"zero amount", func(e Transaction) Transaction { e.Amount = Money{}; return e }, ErrInvalidAmount},
		{"negative amount", func(e Transaction) Transaction { e.Amount = money("-5"); return e }, ErrInvalidAmount},
		{"zero date", func(e Transaction) Transaction { e.Date = time.Time{}; return e }, ErrInvalidDate},
		{"unknown category", func(e Transaction) Transaction { e.Category = "Gadgets"; return e }, ErrInvalidCategory},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.mut(good).Validate()
			if !errors.Is(err, tc.want) {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestBudgetValidate(t *testing.T) {
	good := Budget{Category: CategoryFood, Month: "2024-01", Amount: money("120")}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	zero := Budget{Category: CategoryFood, Month: "2024-01"}
	if err := zero.Validate(); err != nil {
		t.Fatalf("zero-amount budget should be valid, got %v", err)
	}

	cases := []struct {
		name string
		b    Budget
		want error
	}{
		{"unknown category", Budget{Category: "Gadgets", Month: "2024-01", Amount: money("1")}, ErrInvalidCategory},
		{"malformed month", Budget{Category: CategoryFood, Month: "2024-1", Amount: money("1")}, ErrInvalidMonth},
		{"negative amount", Budget{Category: CategoryFood, Month: "2024-01", Amount: money("-1")}, ErrInvalidAmount},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.b.Validate(); !errors.Is(err, tc.want) {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestCategoryValid(t *testing.T) {
	for _, c := range Categories() {
		if !c.Valid() {
			t.Fatalf("canonical category %s reported invalid", c)
		}
	}
	if Category("Gadgets").Valid() {
		t.Fatal("unknown category reported valid")
	}
	if Category("food").Valid() {
		t.Fatal("category matching is case-sensitive")
	}
}
