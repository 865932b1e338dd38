package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/iho/statementrecon/internal/domain"
)

// ReportRepository stores reconciliation reports next to the local ledger.
type ReportRepository struct {
	db *sql.DB
}

// NewReportRepository creates a new ReportRepository.
func NewReportRepository(db *sql.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// Save stores a report.
func (r *ReportRepository) Save(ctx context.Context, report *domain.ReconciliationReport) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO reconciliation_reports (id, mode, balance_status, discrepancies, payload, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		report.ID, string(report.Mode), report.BalanceStatus, report.Discrepancies,
		string(payload), report.GeneratedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert report %s: %w", report.ID, err)
	}
	return nil
}

// GetByID retrieves a report by ID.
func (r *ReportRepository) GetByID(ctx context.Context, id string) (*domain.ReconciliationReport, error) {
	var payload string
	err := r.db.QueryRowContext(ctx, `SELECT payload FROM reconciliation_reports WHERE id = ?`, id).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrReportNotFound
		}
		return nil, err
	}

	var report domain.ReconciliationReport
	if err := json.Unmarshal([]byte(payload), &report); err != nil {
		return nil, fmt.Errorf("unmarshal report %s: %w", id, err)
	}
	return &report, nil
}
