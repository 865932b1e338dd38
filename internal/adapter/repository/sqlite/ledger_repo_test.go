package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/statementrecon/internal/domain"
)

func newTestRepo(t *testing.T) *LedgerRepository {
	t.Helper()
	db, err := InitDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewLedgerRepository(db, zerolog.Nop())
}

func record(id string, debit string, day int) *domain.LedgerRecord {
	return &domain.LedgerRecord{
		TransactionID:   id,
		AccountNumber:   "ACC-1",
		Description:     "Payment " + id,
		DebitAmount:     decimal.RequireFromString(debit),
		CreditAmount:    decimal.Zero,
		Balance:         decimal.RequireFromString("1000.00"),
		TransactionDate: time.Date(2025, 10, day, 0, 0, 0, 0, time.UTC),
	}
}

func TestLedgerRepository_ImportAndFetch(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	n, err := repo.Import(ctx, []*domain.LedgerRecord{
		record("T2", "20.10", 2),
		record("T1", "100.50", 1),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	records, err := repo.FetchTransactions(ctx, nil)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "T1", records[0].TransactionID)
	assert.True(t, records[0].DebitAmount.Equal(decimal.RequireFromString("100.50")))
	assert.Equal(t, "2025-10-01", records[0].DateString())
	assert.Equal(t, "Payment T1", records[0].Description)
}

func TestLedgerRepository_ImportUpserts(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.Import(ctx, []*domain.LedgerRecord{record("T1", "1", 1)})
	require.NoError(t, err)
	_, err = repo.Import(ctx, []*domain.LedgerRecord{record("T1", "7.25", 3)})
	require.NoError(t, err)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	records, err := repo.FetchTransactions(ctx, nil)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.True(t, records[0].DebitAmount.Equal(decimal.RequireFromString("7.25")))
	assert.Equal(t, "2025-10-03", records[0].DateString())
}

func TestLedgerRepository_FetchPeriodIsInclusive(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.Import(ctx, []*domain.LedgerRecord{
		record("T1", "1", 1),
		record("T2", "1", 10),
		record("T3", "1", 11),
	})
	require.NoError(t, err)

	period, err := domain.NewPeriod("2025-10-01", "2025-10-10")
	require.NoError(t, err)

	records, err := repo.FetchTransactions(ctx, period)
	require.NoError(t, err)

	ids := make([]string, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.TransactionID)
	}
	assert.Equal(t, []string{"T1", "T2"}, ids)
}
