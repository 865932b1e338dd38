package usecase

import (
	"github.com/shopspring/decimal"

	"github.com/iho/statementrecon/internal/domain"
)

// reconciliationAccumulator collects counters and totals while a strategy
// walks the document and ledger records.
type reconciliationAccumulator struct {
	matched      int
	documentOnly int
	ledgerOnly   int
	duplicates   int

	severity       domain.SeverityCounts
	debitVariance  decimal.Decimal
	creditVariance decimal.Decimal
	documentNet    decimal.Decimal
	ledgerNet      decimal.Decimal

	unrecognized []string
	records      []domain.ReconciliationRecord
}

func newAccumulator() *reconciliationAccumulator {
	return &reconciliationAccumulator{
		debitVariance:  decimal.Zero,
		creditVariance: decimal.Zero,
		documentNet:    decimal.Zero,
		ledgerNet:      decimal.Zero,
	}
}

// add appends a finished record and counts its field discrepancies.
func (a *reconciliationAccumulator) add(rec domain.ReconciliationRecord) {
	rec.DiscrepancyCount = 0
	for _, f := range rec.Fields {
		if f.HasDifference {
			rec.DiscrepancyCount++
			a.severity.Add(f.Severity)
		}
	}

	switch rec.Source {
	case domain.SourceMatched:
		a.matched++
	case domain.SourceDocument:
		a.documentOnly++
	case domain.SourceLedger:
		a.ledgerOnly++
	}

	a.documentNet = a.documentNet.Add(rec.DocumentNet)
	a.ledgerNet = a.ledgerNet.Add(rec.LedgerNet)
	a.records = append(a.records, rec)
}

// addVariance accumulates a numeric discrepancy on a matched pair.
func (a *reconciliationAccumulator) addVariance(field domain.FieldName, variance decimal.Decimal) {
	switch field {
	case domain.FieldDebitAmount:
		a.debitVariance = a.debitVariance.Add(variance)
	case domain.FieldCreditAmount:
		a.creditVariance = a.creditVariance.Add(variance)
	}
}

func (a *reconciliationAccumulator) discrepantRecords() int {
	n := 0
	for _, rec := range a.records {
		if rec.DiscrepancyCount > 0 {
			n++
		}
	}
	return n
}

func (a *reconciliationAccumulator) report(mode domain.Mode, documents, ledger int) *domain.ReconciliationReport {
	records := a.records
	if records == nil {
		records = []domain.ReconciliationRecord{}
	}
	return &domain.ReconciliationReport{
		Mode:                 mode,
		TotalDocumentRecords: documents,
		TotalLedgerRecords:   ledger,
		Matched:              a.matched,
		DocumentOnly:         a.documentOnly,
		LedgerOnly:           a.ledgerOnly,
		DuplicateIDs:         a.duplicates,
		Severity:             a.severity,
		TotalDebitVariance:   a.debitVariance,
		TotalCreditVariance:  a.creditVariance,
		UnrecognizedIDs:      a.unrecognized,
		Records:              records,
	}
}
