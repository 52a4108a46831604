package analysis

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ishaan812/spendlog/internal/db"
)

// Summary aggregates a set of expenses.
type Summary struct {
	Count       int
	Total       decimal.Decimal
	Average     decimal.Decimal
	Min         decimal.Decimal
	Max         decimal.Decimal
	TopCategory string
	Categories  []db.CategoryTotal // largest first
}

// Summarize computes totals in memory. An empty input gives a zero Summary.
func Summarize(expenses []db.Expense) Summary {
	s := Summary{}
	if len(expenses) == 0 {
		return s
	}

	byCategory := make(map[string]*db.CategoryTotal)
	s.Min = expenses[0].Amount
	s.Max = expenses[0].Amount
	for _, e := range expenses {
		s.Count++
		s.Total = s.Total.Add(e.Amount)
		if e.Amount.LessThan(s.Min) {
			s.Min = e.Amount
		}
		if e.Amount.GreaterThan(s.Max) {
			s.Max = e.Amount
		}
		ct, ok := byCategory[e.Category]
		if !ok {
			ct = &db.CategoryTotal{Category: e.Category}
			byCategory[e.Category] = ct
		}
		ct.Total = ct.Total.Add(e.Amount)
		ct.Count++
	}
	s.Average = s.Total.Div(decimal.NewFromInt(int64(s.Count))).Round(2)

	for _, ct := range byCategory {
		s.Categories = append(s.Categories, *ct)
	}
	sortCategories(s.Categories)
	s.TopCategory = s.Categories[0].Category
	return s
}

// FromLedger builds a Summary from aggregates computed by the database.
func FromLedger(stats db.Stats, cats []db.CategoryTotal) Summary {
	s := Summary{
		Count:      stats.Count,
		Total:      stats.Total,
		Average:    stats.Average,
		Min:        stats.Min,
		Max:        stats.Max,
		Categories: append([]db.CategoryTotal(nil), cats...),
	}
	sortCategories(s.Categories)
	if len(s.Categories) > 0 {
		s.TopCategory = s.Categories[0].Category
	}
	return s
}

func sortCategories(cats []db.CategoryTotal) {
	sort.Slice(cats, func(i, j int) bool {
		if c := cats[i].Total.Cmp(cats[j].Total); c != 0 {
			return c > 0
		}
		return cats[i].Category < cats[j].Category
	})
}

// MonthTotal is the spend of one calendar month in the display zone.
type MonthTotal struct {
	Month string // YYYY-MM
	Total decimal.Decimal
	Count int
}

// Monthly buckets expenses by calendar month as seen in loc, oldest first.
func Monthly(expenses []db.Expense, loc *time.Location) ([]MonthTotal, error) {
	if loc == nil {
		loc = time.UTC
	}
	byMonth := make(map[string]*MonthTotal)
	for _, e := range expenses {
		t, err := e.Time()
		if err != nil {
			return nil, fmt.Errorf("expense %s: %w", e.ID, err)
		}
		key := t.In(loc).Format("2006-01")
		mt, ok := byMonth[key]
		if !ok {
			mt = &MonthTotal{Month: key}
			byMonth[key] = mt
		}
		mt.Total = mt.Total.Add(e.Amount)
		mt.Count++
	}

	months := make([]MonthTotal, 0, len(byMonth))
	for _, mt := range byMonth {
		months = append(months, *mt)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Month < months[j].Month })
	return months, nil
}
