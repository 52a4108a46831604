package db

import "database/sql"

// Migrations defines ALTER TABLE statements for adding columns to existing databases.
// Each migration is run individually; errors are ignored (column already exists).
var Migrations = []string{
	`ALTER TABLE expenses ADD COLUMN description VARCHAR DEFAULT ''`,
}

// Schema defines the DuckDB table schema
const Schema = `
CREATE SEQUENCE IF NOT EXISTS expense_seq START 1;

-- Expenses table; recorded_at holds the canonical offset-bearing instant
CREATE TABLE IF NOT EXISTS expenses (
    id VARCHAR PRIMARY KEY,
    seq BIGINT DEFAULT nextval('expense_seq'),
    category VARCHAR NOT NULL,
    amount DECIMAL(14,2) NOT NULL CHECK (amount >= 0),
    description VARCHAR DEFAULT '',
    recorded_at VARCHAR NOT NULL
);
`

// CreateSchema creates the tables and applies migrations.
func CreateSchema(db *sql.DB) error {
	if _, err := db.Exec(Schema); err != nil {
		return err
	}
	for _, m := range Migrations {
		_, _ = db.Exec(m)
	}
	return nil
}
