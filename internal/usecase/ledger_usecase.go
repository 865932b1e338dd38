package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/iho/statementrecon/internal/domain"
)

var (
	// ErrLedgerReadOnly is returned when the configured ledger store cannot import.
	ErrLedgerReadOnly = errors.New("ledger store does not support imports")
)

// LedgerUseCase handles ledger snapshot reads and imports.
type LedgerUseCase struct {
	ledgerRepo LedgerRepository
	writer     LedgerWriter
	parser     StatementParser
	resolver   *domain.FieldResolver
}

// NewLedgerUseCase creates a new LedgerUseCase. writer may be nil for
// read-only stores.
func NewLedgerUseCase(ledgerRepo LedgerRepository, writer LedgerWriter, parser StatementParser, resolver *domain.FieldResolver) *LedgerUseCase {
	if resolver == nil {
		resolver = domain.DefaultResolver()
	}
	return &LedgerUseCase{
		ledgerRepo: ledgerRepo,
		writer:     writer,
		parser:     parser,
		resolver:   resolver,
	}
}

// Snapshot returns the ledger transactions within period, or all of them.
func (uc *LedgerUseCase) Snapshot(ctx context.Context, period *domain.Period) ([]*domain.LedgerRecord, error) {
	return uc.ledgerRepo.FetchTransactions(ctx, period)
}

// ImportFile parses a ledger export and loads it into the ledger store.
// Every row must carry a transaction id and a date.
func (uc *LedgerUseCase) ImportFile(ctx context.Context, data []byte, ext string) (int, error) {
	if uc.writer == nil {
		return 0, ErrLedgerReadOnly
	}

	rows, err := uc.parser.Parse(data, ext)
	if err != nil {
		return 0, err
	}

	records, err := uc.resolver.LedgerRecords(rows)
	if err != nil {
		return 0, err
	}

	n, err := uc.writer.Import(ctx, records)
	if err != nil {
		return n, fmt.Errorf("import ledger: %w", err)
	}
	return n, nil
}
