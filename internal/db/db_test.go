package db

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ishaan812/spendlog/internal/config"
)

var jan3 = time.Date(2026, 1, 3, 12, 30, 0, 0, time.UTC)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "expenses.duckdb")
	conn, err := GetDBForPath(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ClosePath(path) })
	return conn
}

func mustExpense(t *testing.T, category, amount string, at time.Time) Expense {
	t.Helper()
	e, err := NewExpense(category, amount, "", at)
	require.NoError(t, err)
	return e
}

func TestNewExpense(t *testing.T) {
	e, err := NewExpense("  Food ", "12.345", " lunch ", time.Date(2026, 1, 3, 18, 30, 0, 0, time.FixedZone("", 6*3600)))
	require.NoError(t, err)
	assert.NotEmpty(t, e.ID)
	assert.Equal(t, "Food", e.Category)
	assert.Equal(t, "12.35", e.Amount.StringFixed(2))
	assert.Equal(t, "lunch", e.Description)
	assert.Equal(t, "2026-01-03T12:30:00+00:00", e.RecordedAt)

	for _, tc := range []struct{ category, amount string }{
		{"", "1"},
		{"Food", ""},
		{"Food", "abc"},
		{"Food", "-3"},
	} {
		_, err := NewExpense(tc.category, tc.amount, "", jan3)
		assert.ErrorIs(t, err, ErrInvalidExpense, "%+v", tc)
	}
}

func TestExpense_Validate(t *testing.T) {
	e := mustExpense(t, "Food", "1", jan3)
	assert.NoError(t, e.Validate())

	e.RecordedAt = "2026-01-03 12:30"
	assert.ErrorIs(t, e.Validate(), ErrInvalidExpense)
}

func TestInsertGetList(t *testing.T) {
	conn := testDB(t)

	older := mustExpense(t, "Food", "10.50", jan3)
	newer := mustExpense(t, "Transport", "3", jan3.Add(time.Hour))
	require.NoError(t, InsertExpense(conn, older))
	require.NoError(t, InsertExpense(conn, newer))

	got, err := GetExpense(conn, older.ID)
	require.NoError(t, err)
	assert.Equal(t, older.ID, got.ID)
	assert.True(t, decimal.RequireFromString("10.5").Equal(got.Amount))
	assert.Equal(t, older.RecordedAt, got.RecordedAt)

	got, err = GetExpense(conn, newer.ID[:8])
	require.NoError(t, err)
	assert.Equal(t, newer.ID, got.ID)

	_, err = GetExpense(conn, "does-not-exist")
	assert.True(t, IsNotFound(err))

	all, err := ListExpenses(conn, ExpenseFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, newer.ID, all[0].ID, "newest first")

	food, err := ListExpenses(conn, ExpenseFilter{Category: "food"})
	require.NoError(t, err)
	require.Len(t, food, 1)
	assert.Equal(t, older.ID, food[0].ID)

	recent, err := ListExpenses(conn, ExpenseFilter{Since: newer.RecordedAt})
	require.NoError(t, err)
	assert.Len(t, recent, 1)

	limited, err := ListExpenses(conn, ExpenseFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestInsertExpenses_Transactional(t *testing.T) {
	conn := testDB(t)

	good := mustExpense(t, "Food", "1", jan3)
	bad := mustExpense(t, "Food", "2", jan3)
	bad.Category = " "
	assert.Error(t, InsertExpenses(conn, []Expense{good, bad}))

	n, err := CountExpenses(conn)
	require.NoError(t, err)
	assert.Zero(t, n)

	require.NoError(t, InsertExpenses(conn, []Expense{good, mustExpense(t, "Rent", "900", jan3)}))
	n, err = CountExpenses(conn)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestUpdateDeleteClear(t *testing.T) {
	conn := testDB(t)
	e := mustExpense(t, "Food", "5", jan3)
	require.NoError(t, InsertExpense(conn, e))

	e.Category = "Groceries"
	e.Amount = decimal.RequireFromString("7.25")
	e.Description = "weekly shop"
	require.NoError(t, UpdateExpense(conn, e))

	got, err := GetExpense(conn, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "Groceries", got.Category)
	assert.Equal(t, "7.25", got.Amount.StringFixed(2))
	assert.Equal(t, "weekly shop", got.Description)

	missing := mustExpense(t, "Food", "1", jan3)
	assert.ErrorIs(t, UpdateExpense(conn, missing), ErrExpenseNotFound)

	ok, err := DeleteExpense(conn, e.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = DeleteExpense(conn, e.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, InsertExpense(conn, mustExpense(t, "A", "1", jan3)))
	require.NoError(t, InsertExpense(conn, mustExpense(t, "B", "2", jan3)))
	n, err := ClearExpenses(conn)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestAggregates(t *testing.T) {
	conn := testDB(t)

	stats, err := Statistics(conn)
	require.NoError(t, err)
	assert.Zero(t, stats.Count)
	assert.True(t, stats.Total.IsZero())

	for _, row := range []struct{ category, amount string }{
		{"Food", "10"}, {"Food", "5.50"}, {"Rent", "900"}, {"Transport", "2.25"},
	} {
		require.NoError(t, InsertExpense(conn, mustExpense(t, row.category, row.amount, jan3)))
	}

	totals, err := CategoryTotals(conn)
	require.NoError(t, err)
	require.Len(t, totals, 3)
	assert.Equal(t, "Rent", totals[0].Category)
	assert.Equal(t, "Food", totals[1].Category)
	assert.Equal(t, "15.50", totals[1].Total.StringFixed(2))
	assert.Equal(t, 2, totals[1].Count)

	stats, err = Statistics(conn)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Count)
	assert.Equal(t, "917.75", stats.Total.StringFixed(2))
	assert.Equal(t, "229.44", stats.Average.StringFixed(2))
	assert.Equal(t, "2.25", stats.Min.StringFixed(2))
	assert.Equal(t, "900.00", stats.Max.StringFixed(2))
}

func TestCountExpensesInFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.duckdb")
	conn, err := GetDBForPath(path)
	require.NoError(t, err)
	require.NoError(t, InsertExpense(conn, mustExpense(t, "Food", "1", jan3)))
	require.NoError(t, Checkpoint(conn))
	require.NoError(t, ClosePath(path))

	n, err := CountExpensesInFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestProfileConnections(t *testing.T) {
	t.Setenv(config.HomeEnv, t.TempDir())

	SetActiveProfile("work")
	defer SetActiveProfile("default")
	assert.Equal(t, "work", GetActiveProfile())
	assert.Equal(t, config.GetProfileDBPath("work"), ActivePath())

	first, err := GetDB()
	require.NoError(t, err)
	second, err := GetDBForProfile("work")
	require.NoError(t, err)
	assert.Same(t, first, second)
	require.NoError(t, CloseActive())
	assert.FileExists(t, config.GetProfileDBPath("work"))
}
