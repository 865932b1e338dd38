package sqlite

import (
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

// InitDB opens (or creates) a SQLite ledger at the given path and ensures the
// schema exists. Pass ":memory:" for an in-memory database.
func InitDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	// every connection to :memory: gets its own database
	if strings.Contains(dsn, ":memory:") {
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set wal mode: %w", err)
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return db, nil
}

func createTables(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS ledger_transactions (
			transaction_id TEXT PRIMARY KEY,
			account_number TEXT NOT NULL DEFAULT '',
			account_name TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			reference_number TEXT NOT NULL DEFAULT '',
			transaction_type TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT '',
			debit_amount TEXT NOT NULL DEFAULT '0',
			credit_amount TEXT NOT NULL DEFAULT '0',
			balance TEXT NOT NULL DEFAULT '0',
			transaction_date TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_ledger_transactions_date ON ledger_transactions(transaction_date)`,
		`CREATE TABLE IF NOT EXISTS reconciliation_reports (
			id TEXT PRIMARY KEY,
			mode TEXT NOT NULL,
			balance_status TEXT NOT NULL,
			discrepancies INTEGER NOT NULL DEFAULT 0,
			payload TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}

	return nil
}
