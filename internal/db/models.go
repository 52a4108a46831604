package db

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ishaan812/spendlog/internal/timefmt"
)

var (
	ErrInvalidExpense  = errors.New("invalid expense")
	ErrExpenseNotFound = errors.New("expense not found")
)

// Expense is one ledger row.
type Expense struct {
	ID          string
	Seq         int64
	Category    string
	Amount      decimal.Decimal
	Description string
	RecordedAt  string
}

// Time parses RecordedAt.
func (e Expense) Time() (time.Time, error) {
	return timefmt.ParseInstant(e.RecordedAt)
}

// ParseAmount parses a non-negative money amount rounded to cents.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: amount is required", ErrInvalidExpense)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: amount %q is not a number", ErrInvalidExpense, s)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: amount %s is negative", ErrInvalidExpense, d)
	}
	return d.Round(2), nil
}

// NewExpense validates the fields and stamps a fresh ID. at is stored in its
// canonical UTC form.
func NewExpense(category, amount, description string, at time.Time) (Expense, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return Expense{}, fmt.Errorf("%w: category is required", ErrInvalidExpense)
	}
	d, err := ParseAmount(amount)
	if err != nil {
		return Expense{}, err
	}
	return Expense{
		ID:          uuid.New().String(),
		Category:    category,
		Amount:      d,
		Description: strings.TrimSpace(description),
		RecordedAt:  timefmt.FormatInstant(at),
	}, nil
}

// Validate checks an expense assembled outside NewExpense, e.g. by import.
func (e Expense) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidExpense)
	}
	if strings.TrimSpace(e.Category) == "" {
		return fmt.Errorf("%w: category is required", ErrInvalidExpense)
	}
	if e.Amount.IsNegative() {
		return fmt.Errorf("%w: amount %s is negative", ErrInvalidExpense, e.Amount)
	}
	if _, err := e.Time(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidExpense, err)
	}
	return nil
}

// CategoryTotal is the spend of one category.
type CategoryTotal struct {
	Category string
	Total    decimal.Decimal
	Count    int
}

// Stats summarises the whole ledger.
type Stats struct {
	Count   int
	Total   decimal.Decimal
	Average decimal.Decimal
	Min     decimal.Decimal
	Max     decimal.Decimal
}

// ExpenseFilter narrows ListExpenses. Zero values match everything.
type ExpenseFilter struct {
	Category string
	Since    string // canonical instant, inclusive
	Limit    int
}
