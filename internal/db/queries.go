package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const expenseColumns = `id, seq, category, CAST(amount AS VARCHAR), description, recorded_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(row rowScanner) (Expense, error) {
	var e Expense
	var description sql.NullString
	if err := row.Scan(&e.ID, &e.Seq, &e.Category, &e.Amount, &description, &e.RecordedAt); err != nil {
		return Expense{}, err
	}
	e.Description = description.String
	return e, nil
}

func InsertExpense(db *sql.DB, e Expense) error {
	if err := e.Validate(); err != nil {
		return err
	}
	_, err := db.Exec(`
		INSERT INTO expenses (id, category, amount, description, recorded_at)
		VALUES (?, ?, CAST(? AS DECIMAL(14,2)), ?, ?)
	`, e.ID, e.Category, e.Amount.StringFixed(2), e.Description, e.RecordedAt)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}
	return nil
}

// InsertExpenses writes all rows in one transaction.
func InsertExpenses(db *sql.DB, expenses []Expense) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO expenses (id, category, amount, description, recorded_at)
		VALUES (?, ?, CAST(? AS DECIMAL(14,2)), ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range expenses {
		if err := e.Validate(); err != nil {
			return err
		}
		if _, err := stmt.Exec(e.ID, e.Category, e.Amount.StringFixed(2), e.Description, e.RecordedAt); err != nil {
			return fmt.Errorf("failed to insert expense %s: %w", e.ID, err)
		}
	}
	return tx.Commit()
}

// GetExpense finds an expense by full ID or by a unique ID prefix.
func GetExpense(db *sql.DB, id string) (Expense, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Expense{}, fmt.Errorf("%w: empty id", ErrExpenseNotFound)
	}
	rows, err := db.Query(`SELECT `+expenseColumns+` FROM expenses WHERE id = ? OR starts_with(id, ?) LIMIT 2`, id, id)
	if err != nil {
		return Expense{}, fmt.Errorf("failed to query expense: %w", err)
	}
	defer rows.Close()

	var found []Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return Expense{}, fmt.Errorf("failed to scan expense: %w", err)
		}
		if e.ID == id {
			return e, nil
		}
		found = append(found, e)
	}
	if err := rows.Err(); err != nil {
		return Expense{}, err
	}
	switch len(found) {
	case 0:
		return Expense{}, fmt.Errorf("%w: %s", ErrExpenseNotFound, id)
	case 1:
		return found[0], nil
	default:
		return Expense{}, fmt.Errorf("id prefix %q is ambiguous", id)
	}
}

// ListExpenses returns matching expenses, newest first.
func ListExpenses(db *sql.DB, f ExpenseFilter) ([]Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE 1=1`
	var args []any
	if f.Category != "" {
		query += ` AND lower(category) = lower(?)`
		args = append(args, f.Category)
	}
	if f.Since != "" {
		query += ` AND recorded_at >= ?`
		args = append(args, f.Since)
	}
	query += ` ORDER BY recorded_at DESC, seq DESC`
	if f.Limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, f.Limit)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

// UpdateExpense overwrites every field of an existing row except its ID.
func UpdateExpense(db *sql.DB, e Expense) error {
	if err := e.Validate(); err != nil {
		return err
	}
	res, err := db.Exec(`
		UPDATE expenses
		SET category = ?, amount = CAST(? AS DECIMAL(14,2)), description = ?, recorded_at = ?
		WHERE id = ?
	`, e.Category, e.Amount.StringFixed(2), e.Description, e.RecordedAt, e.ID)
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrExpenseNotFound, e.ID)
	}
	return nil
}

// DeleteExpense removes one expense and reports whether it existed.
func DeleteExpense(db *sql.DB, id string) (bool, error) {
	res, err := db.Exec(`DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete expense: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ClearExpenses deletes every expense and returns how many were removed.
func ClearExpenses(db *sql.DB) (int64, error) {
	res, err := db.Exec(`DELETE FROM expenses`)
	if err != nil {
		return 0, fmt.Errorf("failed to clear expenses: %w", err)
	}
	return res.RowsAffected()
}

// CategoryTotals returns spend per category, largest first.
func CategoryTotals(db *sql.DB) ([]CategoryTotal, error) {
	rows, err := db.Query(`
		SELECT category, CAST(SUM(amount) AS VARCHAR) AS total, COUNT(*) AS n
		FROM expenses
		GROUP BY category
		ORDER BY SUM(amount) DESC, category
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to total categories: %w", err)
	}
	defer rows.Close()

	var totals []CategoryTotal
	for rows.Next() {
		var ct CategoryTotal
		if err := rows.Scan(&ct.Category, &ct.Total, &ct.Count); err != nil {
			return nil, fmt.Errorf("failed to scan category total: %w", err)
		}
		totals = append(totals, ct)
	}
	return totals, rows.Err()
}

// Statistics computes count, total, average, min and max. An empty ledger
// yields zero values.
func Statistics(db *sql.DB) (Stats, error) {
	var s Stats
	var total, minAmount, maxAmount string
	err := db.QueryRow(`
		SELECT COUNT(*),
		       CAST(COALESCE(SUM(amount), 0) AS VARCHAR),
		       CAST(COALESCE(MIN(amount), 0) AS VARCHAR),
		       CAST(COALESCE(MAX(amount), 0) AS VARCHAR)
		FROM expenses
	`).Scan(&s.Count, &total, &minAmount, &maxAmount)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to compute statistics: %w", err)
	}

	for _, f := range []struct {
		src string
		dst *decimal.Decimal
	}{{total, &s.Total}, {minAmount, &s.Min}, {maxAmount, &s.Max}} {
		d, err := decimal.NewFromString(f.src)
		if err != nil {
			return Stats{}, fmt.Errorf("failed to parse aggregate %q: %w", f.src, err)
		}
		*f.dst = d
	}
	if s.Count > 0 {
		s.Average = s.Total.Div(decimal.NewFromInt(int64(s.Count))).Round(2)
	}
	return s, nil
}

// CountExpenses returns the number of rows in the ledger.
func CountExpenses(db *sql.DB) (int, error) {
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM expenses`).Scan(&n)
	return n, err
}

// CountExpensesInFile opens a ledger file read-only and counts its rows.
// Files without an expenses table count as zero.
func CountExpensesInFile(path string) (int, error) {
	conn, err := sql.Open("duckdb", path+"?access_mode=READ_ONLY")
	if err != nil {
		return 0, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer conn.Close()

	n, err := CountExpenses(conn)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "does not exist") {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to count expenses in %s: %w", path, err)
	}
	return n, nil
}

// Checkpoint flushes the write-ahead log into the database file so it can be
// copied safely.
func Checkpoint(db *sql.DB) error {
	if _, err := db.Exec(`CHECKPOINT`); err != nil {
		return fmt.Errorf("failed to checkpoint: %w", err)
	}
	return nil
}

// IsNotFound reports whether err means a missing expense.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrExpenseNotFound)
}
