package usecase

import (
	"context"
	"time"

	"github.com/iho/statementrecon/internal/domain"
)

// LedgerRepository reads the system-of-record ledger.
type LedgerRepository interface {
	// FetchTransactions returns ledger transactions, restricted to period when it is non-nil.
	FetchTransactions(ctx context.Context, period *domain.Period) ([]*domain.LedgerRecord, error)
}

// LedgerWriter loads transactions into a ledger store.
type LedgerWriter interface {
	Import(ctx context.Context, records []*domain.LedgerRecord) (int, error)
}

// ReportRepository defines data access for reconciliation reports.
type ReportRepository interface {
	Save(ctx context.Context, report *domain.ReconciliationReport) error
	GetByID(ctx context.Context, id string) (*domain.ReconciliationReport, error)
}

// StatementParser turns an uploaded file into raw rows.
type StatementParser interface {
	Parse(data []byte, ext string) ([]*domain.RawRow, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// MetricsRecorder records reconciliation telemetry.
type MetricsRecorder interface {
	RecordParse(format string, rows int, err error)
	RecordReconciliation(mode domain.Mode, report *domain.ReconciliationReport, duration time.Duration, err error)
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a key so the request can be retried.
	Release(ctx context.Context, key string) error
}
