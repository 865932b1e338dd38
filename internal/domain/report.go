package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Mode selects a reconciliation strategy.
type Mode string

const (
	// ModeByTransactionID checks only that identifiers exist on both sides.
	ModeByTransactionID Mode = "by_transaction_id"
	// ModeByPeriod compares every tracked field of matched transactions.
	ModeByPeriod Mode = "by_period"
)

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeByTransactionID:
		return ModeByTransactionID, nil
	case ModeByPeriod:
		return ModeByPeriod, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
}

// Source tells which side a report record came from.
type Source string

const (
	SourceDocument Source = "document"
	SourceLedger   Source = "ledger"
	SourceMatched  Source = "matched"
)

// Record statuses.
const (
	StatusMatched           = "Matched"
	StatusDiscrepancy       = "Discrepancy"
	StatusMissingInDatabase = "Missing in database"
	StatusMissingInFile     = "Missing in uploaded file"
)

// Balance statuses.
const (
	BalanceInBalance    = "In Balance"
	BalanceOutOfBalance = "Out of Balance"
)

// ReconciliationRecord is one row of a report.
type ReconciliationRecord struct {
	TransactionID    string            `json:"transaction_id"`
	Source           Source            `json:"source"`
	Status           string            `json:"status"`
	Row              int               `json:"row,omitempty"`
	Fields           []FieldComparison `json:"fields"`
	DocumentNet      decimal.Decimal   `json:"document_net"`
	LedgerNet        decimal.Decimal   `json:"ledger_net"`
	NetChange        decimal.Decimal   `json:"net_change"`
	DiscrepancyCount int               `json:"discrepancy_count"`
}

// SeverityCounts tallies field discrepancies per tier.
type SeverityCounts struct {
	Critical int `json:"critical"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Low      int `json:"low"`
}

// Add counts one comparison of the given severity. Matches are ignored.
func (c *SeverityCounts) Add(s Severity) {
	switch s {
	case SeverityCritical:
		c.Critical++
	case SeverityHigh:
		c.High++
	case SeverityMedium:
		c.Medium++
	case SeverityLow:
		c.Low++
	}
}

// ReconciliationReport is the result of one reconciliation run.
type ReconciliationReport struct {
	ID                   string                 `json:"id"`
	Mode                 Mode                   `json:"mode"`
	Period               *Period                `json:"period,omitempty"`
	GeneratedAt          time.Time              `json:"generated_at"`
	TotalDocumentRecords int                    `json:"total_document_records"`
	TotalLedgerRecords   int                    `json:"total_ledger_records"`
	Matched              int                    `json:"matched"`
	DocumentOnly         int                    `json:"document_only"`
	LedgerOnly           int                    `json:"ledger_only"`
	Discrepancies        int                    `json:"discrepancies"`
	DuplicateIDs         int                    `json:"duplicate_ids"`
	Severity             SeverityCounts         `json:"severity"`
	TotalDebitVariance   decimal.Decimal        `json:"total_debit_variance"`
	TotalCreditVariance  decimal.Decimal        `json:"total_credit_variance"`
	NetVariance          decimal.Decimal        `json:"net_variance"`
	BalanceStatus        string                 `json:"balance_status"`
	UnrecognizedIDs      []string               `json:"unrecognized_ids,omitempty"`
	Records              []ReconciliationRecord `json:"records"`
}

// DiscrepantRecords returns the records that carry at least one discrepancy.
func (r *ReconciliationReport) DiscrepantRecords() []ReconciliationRecord {
	out := make([]ReconciliationRecord, 0, r.Discrepancies)
	for _, rec := range r.Records {
		if rec.DiscrepancyCount > 0 {
			out = append(out, rec)
		}
	}
	return out
}

// InBalance reports whether the run found no monetary or presence differences.
func (r *ReconciliationReport) InBalance() bool {
	return r.BalanceStatus == BalanceInBalance
}
