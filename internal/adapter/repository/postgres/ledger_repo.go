package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/iho/statementrecon/internal/domain"
	"github.com/iho/statementrecon/internal/infrastructure/postgres/generated"
)

// LedgerRepository implements usecase.LedgerRepository and
// usecase.LedgerWriter on the ledger_transactions table.
type LedgerRepository struct {
	queries *generated.Queries
	txm     *TxManager
	retrier *Retrier
	logger  zerolog.Logger
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(pool *pgxpool.Pool, logger zerolog.Logger) *LedgerRepository {
	return newLedgerRepository(pool, logger)
}

func newLedgerRepository(pool pgxPool, logger zerolog.Logger) *LedgerRepository {
	return &LedgerRepository{
		queries: generated.New(pool),
		txm:     newTxManagerWithPool(pool),
		retrier: NewRetrier(logger),
		logger:  logger,
	}
}

// FetchTransactions returns ledger transactions ordered by date, restricted
// to period when it is non-nil.
func (r *LedgerRepository) FetchTransactions(ctx context.Context, period *domain.Period) ([]*domain.LedgerRecord, error) {
	var rows []generated.LedgerTransaction

	err := r.retrier.Retry(ctx, func() error {
		var err error
		if period == nil {
			rows, err = r.queries.ListLedgerTransactions(ctx)
			return err
		}
		rows, err = r.queries.ListLedgerTransactionsByPeriod(ctx, generated.ListLedgerTransactionsByPeriodParams{
			StartDate: timeToPgDate(period.Start),
			EndDate:   timeToPgDate(period.End),
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	records := make([]*domain.LedgerRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, rowToLedgerRecord(row))
	}

	r.logger.Debug().
		Int("records", len(records)).
		Stringer("period", period).
		Msg("ledger snapshot loaded")

	return records, nil
}

// Import upserts records in a single transaction keyed by transaction id.
func (r *LedgerRepository) Import(ctx context.Context, records []*domain.LedgerRecord) (int, error) {
	err := r.txm.WithTx(ctx, func(q *generated.Queries) error {
		for _, rec := range records {
			if err := q.UpsertLedgerTransaction(ctx, toUpsertParams(rec)); err != nil {
				return fmt.Errorf("upsert %s: %w", rec.TransactionID, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(records), nil
}

func toUpsertParams(rec *domain.LedgerRecord) generated.UpsertLedgerTransactionParams {
	return generated.UpsertLedgerTransactionParams{
		TransactionID:   rec.TransactionID,
		AccountNumber:   rec.AccountNumber,
		AccountName:     rec.AccountName,
		Description:     rec.Description,
		ReferenceNumber: rec.ReferenceNumber,
		TransactionType: rec.TransactionType,
		Status:          rec.Status,
		DebitAmount:     decimalToNumeric(rec.DebitAmount),
		CreditAmount:    decimalToNumeric(rec.CreditAmount),
		Balance:         decimalToNumeric(rec.Balance),
		TransactionDate: timeToPgDate(rec.TransactionDate),
	}
}

func rowToLedgerRecord(row generated.LedgerTransaction) *domain.LedgerRecord {
	return &domain.LedgerRecord{
		TransactionID:   row.TransactionID,
		AccountNumber:   row.AccountNumber,
		AccountName:     row.AccountName,
		Description:     row.Description,
		ReferenceNumber: row.ReferenceNumber,
		TransactionType: row.TransactionType,
		Status:          row.Status,
		DebitAmount:     numericToDecimal(row.DebitAmount),
		CreditAmount:    numericToDecimal(row.CreditAmount),
		Balance:         numericToDecimal(row.Balance),
		TransactionDate: pgDateToTime(row.TransactionDate),
	}
}
