package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/statementrecon/internal/domain"
	"github.com/iho/statementrecon/internal/infrastructure/postgres/generated"
)

// ReportRepository implements usecase.ReportRepository. Reports are stored
// whole as JSONB with a few summary columns for querying.
type ReportRepository struct {
	queries *generated.Queries
}

// NewReportRepository creates a new ReportRepository.
func NewReportRepository(pool *pgxpool.Pool) *ReportRepository {
	return newReportRepository(pool)
}

func newReportRepository(db generated.DBTX) *ReportRepository {
	return &ReportRepository{queries: generated.New(db)}
}

// Save stores a report.
func (r *ReportRepository) Save(ctx context.Context, report *domain.ReconciliationReport) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	var start, end pgtype.Date
	if report.Period != nil {
		start = timeToPgDate(report.Period.Start)
		end = timeToPgDate(report.Period.End)
	}

	return r.queries.CreateReconciliationReport(ctx, generated.CreateReconciliationReportParams{
		ID:            report.ID,
		Mode:          string(report.Mode),
		PeriodStart:   start,
		PeriodEnd:     end,
		BalanceStatus: report.BalanceStatus,
		Discrepancies: int32(report.Discrepancies),
		Payload:       payload,
		CreatedAt:     timeToPgTimestamptz(report.GeneratedAt),
	})
}

// GetByID retrieves a report by ID.
func (r *ReportRepository) GetByID(ctx context.Context, id string) (*domain.ReconciliationReport, error) {
	row, err := r.queries.GetReconciliationReport(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrReportNotFound
		}
		return nil, err
	}

	var report domain.ReconciliationReport
	if err := json.Unmarshal(row.Payload, &report); err != nil {
		return nil, fmt.Errorf("unmarshal report %s: %w", id, err)
	}
	return &report, nil
}
