package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/statementrecon/internal/domain"
)

const ledgerColumns = `transaction_id, account_number, account_name, description, reference_number,
	transaction_type, status, debit_amount, credit_amount, balance, transaction_date`

// LedgerRepository is a file-backed ledger for local and CLI runs.
// Amounts are stored as decimal text and dates as YYYY-MM-DD.
type LedgerRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(db *sql.DB, logger zerolog.Logger) *LedgerRepository {
	return &LedgerRepository{db: db, logger: logger}
}

// FetchTransactions returns ledger transactions ordered by date, restricted
// to period when it is non-nil.
func (r *LedgerRepository) FetchTransactions(ctx context.Context, period *domain.Period) ([]*domain.LedgerRecord, error) {
	query := "SELECT " + ledgerColumns + " FROM ledger_transactions"
	var args []any
	if period != nil {
		query += " WHERE transaction_date BETWEEN ? AND ?"
		args = append(args, period.Start.Format(domain.DateLayout), period.End.Format(domain.DateLayout))
	}
	query += " ORDER BY transaction_date, transaction_id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query ledger: %w", err)
	}
	defer rows.Close()

	var records []*domain.LedgerRecord
	for rows.Next() {
		rec, err := scanLedgerRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ledger: %w", err)
	}

	r.logger.Debug().Int("records", len(records)).Stringer("period", period).Msg("ledger snapshot loaded")
	return records, nil
}

// Import upserts records keyed by transaction id in one transaction.
func (r *LedgerRepository) Import(ctx context.Context, records []*domain.LedgerRecord) (int, error) {
	sqlTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer sqlTx.Rollback()

	stmt, err := sqlTx.PrepareContext(ctx,
		`INSERT INTO ledger_transactions (`+ledgerColumns+`)
		VALUES (?,?,?,?,?,?,?,?,?,?,?)
		ON CONFLICT(transaction_id) DO UPDATE SET
			account_number = excluded.account_number,
			account_name = excluded.account_name,
			description = excluded.description,
			reference_number = excluded.reference_number,
			transaction_type = excluded.transaction_type,
			status = excluded.status,
			debit_amount = excluded.debit_amount,
			credit_amount = excluded.credit_amount,
			balance = excluded.balance,
			transaction_date = excluded.transaction_date`,
	)
	if err != nil {
		return 0, fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for i, rec := range records {
		_, err := stmt.ExecContext(ctx,
			rec.TransactionID, rec.AccountNumber, rec.AccountName, rec.Description,
			rec.ReferenceNumber, rec.TransactionType, rec.Status,
			rec.DebitAmount.String(), rec.CreditAmount.String(), rec.Balance.String(),
			rec.DateString(),
		)
		if err != nil {
			return 0, fmt.Errorf("insert row %d: %w", i+1, err)
		}
	}

	if err := sqlTx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}

	r.logger.Info().Int("records", len(records)).Msg("ledger imported")
	return len(records), nil
}

// Count returns the number of stored transactions.
func (r *LedgerRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM ledger_transactions").Scan(&count)
	return count, err
}

func scanLedgerRecord(rows *sql.Rows) (*domain.LedgerRecord, error) {
	var (
		rec                    domain.LedgerRecord
		debit, credit, balance string
		date                   string
	)
	if err := rows.Scan(
		&rec.TransactionID, &rec.AccountNumber, &rec.AccountName, &rec.Description,
		&rec.ReferenceNumber, &rec.TransactionType, &rec.Status,
		&debit, &credit, &balance, &date,
	); err != nil {
		return nil, fmt.Errorf("scan ledger row: %w", err)
	}

	var err error
	if rec.DebitAmount, err = decimal.NewFromString(debit); err != nil {
		return nil, fmt.Errorf("%s: debit amount: %w", rec.TransactionID, err)
	}
	if rec.CreditAmount, err = decimal.NewFromString(credit); err != nil {
		return nil, fmt.Errorf("%s: credit amount: %w", rec.TransactionID, err)
	}
	if rec.Balance, err = decimal.NewFromString(balance); err != nil {
		return nil, fmt.Errorf("%s: balance: %w", rec.TransactionID, err)
	}

	t, ok := domain.ParseDate(date)
	if !ok {
		return nil, fmt.Errorf("%s: invalid transaction date %q", rec.TransactionID, date)
	}
	rec.TransactionDate = t

	return &rec, nil
}
