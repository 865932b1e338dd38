package dto

import (
	"time"

	"github.com/iho/statementrecon/internal/domain"
)

// ReportResponse represents a reconciliation report in API responses.
type ReportResponse struct {
	ID              string           `json:"id"`
	Mode            domain.Mode      `json:"mode"`
	Period          *PeriodResponse  `json:"period,omitempty"`
	GeneratedAt     time.Time        `json:"generated_at"`
	Summary         SummaryResponse  `json:"summary"`
	UnrecognizedIDs []string         `json:"unrecognized_ids,omitempty"`
	Records         []RecordResponse `json:"records"`
}

// PeriodResponse is an inclusive date range.
type PeriodResponse struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// SummaryResponse holds the report totals.
type SummaryResponse struct {
	TotalDocumentRecords int                   `json:"total_document_records"`
	TotalLedgerRecords   int                   `json:"total_ledger_records"`
	Matched              int                   `json:"matched"`
	DocumentOnly         int                   `json:"document_only"`
	LedgerOnly           int                   `json:"ledger_only"`
	Discrepancies        int                   `json:"discrepancies"`
	DuplicateIDs         int                   `json:"duplicate_ids"`
	Severity             domain.SeverityCounts `json:"severity"`
	TotalDebitVariance   string                `json:"total_debit_variance"`
	TotalCreditVariance  string                `json:"total_credit_variance"`
	NetVariance          string                `json:"net_variance"`
	BalanceStatus        string                `json:"balance_status"`
}

// RecordResponse is one reconciled transaction.
type RecordResponse struct {
	TransactionID    string                   `json:"transaction_id"`
	Source           domain.Source            `json:"source"`
	Status           string                   `json:"status"`
	Row              int                      `json:"row,omitempty"`
	DiscrepancyCount int                      `json:"discrepancy_count"`
	DocumentNet      string                   `json:"document_net"`
	LedgerNet        string                   `json:"ledger_net"`
	NetChange        string                   `json:"net_change"`
	Fields           []domain.FieldComparison `json:"fields"`
}

// ReportFromDomain converts a domain report to a response. When
// discrepanciesOnly is set, records without discrepancies are left out.
func ReportFromDomain(r *domain.ReconciliationReport, discrepanciesOnly bool) *ReportResponse {
	resp := &ReportResponse{
		ID:          r.ID,
		Mode:        r.Mode,
		GeneratedAt: r.GeneratedAt,
		Summary: SummaryResponse{
			TotalDocumentRecords: r.TotalDocumentRecords,
			TotalLedgerRecords:   r.TotalLedgerRecords,
			Matched:              r.Matched,
			DocumentOnly:         r.DocumentOnly,
			LedgerOnly:           r.LedgerOnly,
			Discrepancies:        r.Discrepancies,
			DuplicateIDs:         r.DuplicateIDs,
			Severity:             r.Severity,
			TotalDebitVariance:   domain.FormatAmount(r.TotalDebitVariance),
			TotalCreditVariance:  domain.FormatAmount(r.TotalCreditVariance),
			NetVariance:          domain.FormatAmount(r.NetVariance),
			BalanceStatus:        r.BalanceStatus,
		},
		UnrecognizedIDs: r.UnrecognizedIDs,
	}

	if r.Period != nil {
		resp.Period = &PeriodResponse{
			Start: r.Period.Start.Format(domain.DateLayout),
			End:   r.Period.End.Format(domain.DateLayout),
		}
	}

	records := r.Records
	if discrepanciesOnly {
		records = r.DiscrepantRecords()
	}
	resp.Records = make([]RecordResponse, len(records))
	for i, rec := range records {
		resp.Records[i] = RecordFromDomain(rec)
	}

	return resp
}

// RecordFromDomain converts one reconciliation record.
func RecordFromDomain(rec domain.ReconciliationRecord) RecordResponse {
	fields := rec.Fields
	if fields == nil {
		fields = []domain.FieldComparison{}
	}
	return RecordResponse{
		TransactionID:    rec.TransactionID,
		Source:           rec.Source,
		Status:           rec.Status,
		Row:              rec.Row,
		DiscrepancyCount: rec.DiscrepancyCount,
		DocumentNet:      domain.FormatAmount(rec.DocumentNet),
		LedgerNet:        domain.FormatAmount(rec.LedgerNet),
		NetChange:        domain.FormatAmount(rec.NetChange),
		Fields:           fields,
	}
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string   `json:"error"`
	Message string   `json:"message,omitempty"`
	Details []string `json:"details,omitempty"`
}
