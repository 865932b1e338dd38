package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/statementrecon/internal/domain"
	"github.com/iho/statementrecon/internal/infrastructure/postgres"
	"github.com/iho/statementrecon/internal/infrastructure/postgres/generated"
)

// TestDB provides isolated test database connections.
type TestDB struct {
	Pool    *pgxpool.Pool
	Queries *generated.Queries
	t       *testing.T
}

// NewTestDB connects to DATABASE_URL and migrates it. The test is skipped
// when DATABASE_URL is not set.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set")
	}

	if err := postgres.RunMigrations(dbURL, migrationsPath(t), zerolog.Nop()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping test database: %v", err)
	}

	return &TestDB{
		Pool:    pool,
		Queries: generated.New(pool),
		t:       t,
	}
}

// migrationsPath walks up from the working directory to the repo's migrations.
func migrationsPath(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	for {
		candidate := filepath.Join(dir, "migrations")
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatalf("migrations directory not found")
		}
		dir = parent
	}
}

// Cleanup closes the database connection.
func (db *TestDB) Cleanup() {
	db.Pool.Close()
}

// TruncateAll removes all data from tables.
func (db *TestDB) TruncateAll(ctx context.Context) {
	db.t.Helper()

	_, err := db.Pool.Exec(ctx, `TRUNCATE TABLE ledger_transactions, reconciliation_reports`)
	if err != nil {
		db.t.Fatalf("failed to truncate tables: %v", err)
	}
}

// CreateLedgerTransaction inserts one ledger transaction.
func (db *TestDB) CreateLedgerTransaction(ctx context.Context, id string, date time.Time, debit, credit decimal.Decimal) *domain.LedgerRecord {
	db.t.Helper()

	var debitNum, creditNum, balance pgtype.Numeric
	_ = debitNum.Scan(debit.String())
	_ = creditNum.Scan(credit.String())
	_ = balance.Scan("0")

	err := db.Queries.UpsertLedgerTransaction(ctx, generated.UpsertLedgerTransactionParams{
		TransactionID:   id,
		AccountNumber:   "ACC-1",
		AccountName:     "Operating",
		Description:     "Fixture " + id,
		ReferenceNumber: "",
		TransactionType: "transfer",
		Status:          "posted",
		DebitAmount:     debitNum,
		CreditAmount:    creditNum,
		Balance:         balance,
		TransactionDate: pgtype.Date{Time: date, Valid: true},
	})
	if err != nil {
		db.t.Fatalf("failed to create ledger transaction: %v", err)
	}

	return &domain.LedgerRecord{
		TransactionID:   id,
		AccountNumber:   "ACC-1",
		AccountName:     "Operating",
		Description:     "Fixture " + id,
		TransactionType: "transfer",
		Status:          "posted",
		DebitAmount:     debit,
		CreditAmount:    credit,
		TransactionDate: date,
	}
}

// GenerateID generates a new ULID.
func GenerateID() string {
	return ulid.Make().String()
}
