package usecase

import "time"

const (
	// DefaultLedgerFetchTimeout bounds the single ledger read of a reconciliation run.
	DefaultLedgerFetchTimeout = 30 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour
)

// Reconciliation outcome labels
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)
