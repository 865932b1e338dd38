package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/statementrecon/internal/domain"
)

// ReconciliationUseCase runs uploaded statements against the ledger.
type ReconciliationUseCase struct {
	parser     StatementParser
	resolver   *domain.FieldResolver
	ledgerRepo LedgerRepository
	reportRepo ReportRepository
	idGen      IDGenerator
	metrics    MetricsRecorder
	logger     zerolog.Logger
	now        func() time.Time
}

// NewReconciliationUseCase creates a new ReconciliationUseCase.
// reportRepo and metrics may be nil.
func NewReconciliationUseCase(
	parser StatementParser,
	resolver *domain.FieldResolver,
	ledgerRepo LedgerRepository,
	reportRepo ReportRepository,
	idGen IDGenerator,
	metrics MetricsRecorder,
	logger zerolog.Logger,
) *ReconciliationUseCase {
	if resolver == nil {
		resolver = domain.DefaultResolver()
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &ReconciliationUseCase{
		parser:     parser,
		resolver:   resolver,
		ledgerRepo: ledgerRepo,
		reportRepo: reportRepo,
		idGen:      idGen,
		metrics:    metrics,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// ParseStatement turns file bytes into raw rows.
func (uc *ReconciliationUseCase) ParseStatement(ctx context.Context, data []byte, ext string) ([]*domain.RawRow, error) {
	format := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))

	rows, err := uc.parser.Parse(data, ext)
	uc.metrics.RecordParse(format, len(rows), err)
	if err != nil {
		uc.logger.Warn().Err(err).Str("format", format).Int("bytes", len(data)).Msg("statement parse failed")
		return nil, err
	}

	uc.logger.Debug().Str("format", format).Int("rows", len(rows)).Msg("statement parsed")
	return rows, nil
}

// ValidateRows checks that rows can be reconciled.
func (uc *ReconciliationUseCase) ValidateRows(ctx context.Context, rows []*domain.RawRow) error {
	result, err := uc.resolver.Validate(rows)
	for _, w := range result.Warnings {
		uc.logger.Warn().Str("warning", w).Msg("statement validation")
	}
	return err
}

// ResolveRecords maps raw rows onto canonical document records.
func (uc *ReconciliationUseCase) ResolveRecords(rows []*domain.RawRow) []domain.DocumentRecord {
	return uc.resolver.Records(rows)
}

// ReconcileByTransactionID compares identifiers against the full ledger.
func (uc *ReconciliationUseCase) ReconcileByTransactionID(ctx context.Context, docs []domain.DocumentRecord) (*domain.ReconciliationReport, error) {
	start := time.Now()

	ledger, err := uc.fetchLedger(ctx, nil)
	if err != nil {
		uc.metrics.RecordReconciliation(domain.ModeByTransactionID, nil, time.Since(start), err)
		return nil, err
	}

	report := ReconcilePresence(docs, ledger)
	uc.finish(report, start)
	return report, nil
}

// ReconcileByPeriod compares every tracked field against the ledger,
// restricted to period when it is non-nil.
func (uc *ReconciliationUseCase) ReconcileByPeriod(ctx context.Context, docs []domain.DocumentRecord, period *domain.Period) (*domain.ReconciliationReport, error) {
	start := time.Now()

	ledger, err := uc.fetchLedger(ctx, period)
	if err != nil {
		uc.metrics.RecordReconciliation(domain.ModeByPeriod, nil, time.Since(start), err)
		return nil, err
	}

	report := ReconcileFields(docs, ledger, period)
	uc.finish(report, start)
	return report, nil
}

// ReconcileUploadInput represents input for a full upload reconciliation.
type ReconcileUploadInput struct {
	Data   []byte
	Ext    string
	Mode   domain.Mode
	Period *domain.Period
}

// ReconcileUpload parses, validates and reconciles an uploaded statement and
// stores the resulting report.
func (uc *ReconciliationUseCase) ReconcileUpload(ctx context.Context, input ReconcileUploadInput) (*domain.ReconciliationReport, error) {
	if input.Mode != domain.ModeByTransactionID && input.Mode != domain.ModeByPeriod {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidMode, input.Mode)
	}

	rows, err := uc.ParseStatement(ctx, input.Data, input.Ext)
	if err != nil {
		return nil, err
	}
	if err := uc.ValidateRows(ctx, rows); err != nil {
		return nil, err
	}
	docs := uc.ResolveRecords(rows)

	var report *domain.ReconciliationReport
	if input.Mode == domain.ModeByPeriod {
		report, err = uc.ReconcileByPeriod(ctx, docs, input.Period)
	} else {
		report, err = uc.ReconcileByTransactionID(ctx, docs)
	}
	if err != nil {
		return nil, err
	}

	if uc.reportRepo != nil {
		if err := uc.reportRepo.Save(ctx, report); err != nil {
			return nil, fmt.Errorf("save report: %w", err)
		}
	}

	return report, nil
}

// GetReport retrieves a stored report by ID.
func (uc *ReconciliationUseCase) GetReport(ctx context.Context, id string) (*domain.ReconciliationReport, error) {
	if uc.reportRepo == nil {
		return nil, domain.ErrReportNotFound
	}
	return uc.reportRepo.GetByID(ctx, id)
}

func (uc *ReconciliationUseCase) fetchLedger(ctx context.Context, period *domain.Period) ([]*domain.LedgerRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultLedgerFetchTimeout)
	defer cancel()

	ledger, err := uc.ledgerRepo.FetchTransactions(ctx, period)
	if err != nil {
		return nil, fmt.Errorf("fetch ledger: %w", err)
	}
	return ledger, nil
}

func (uc *ReconciliationUseCase) finish(report *domain.ReconciliationReport, start time.Time) {
	report.ID = uc.idGen.Generate()
	report.GeneratedAt = uc.now()

	duration := time.Since(start)
	uc.metrics.RecordReconciliation(report.Mode, report, duration, nil)

	uc.logger.Info().
		Str("report_id", report.ID).
		Str("mode", string(report.Mode)).
		Int("rows", report.TotalDocumentRecords).
		Int("ledger_records", report.TotalLedgerRecords).
		Int("matched", report.Matched).
		Int("discrepancies", report.Discrepancies).
		Str("balance_status", report.BalanceStatus).
		Dur("duration", duration).
		Msg("reconciliation completed")
}

type noopMetrics struct{}

func (noopMetrics) RecordParse(string, int, error) {}
func (noopMetrics) RecordReconciliation(domain.Mode, *domain.ReconciliationReport, time.Duration, error) {
}
