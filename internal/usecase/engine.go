package usecase

import (
	"github.com/shopspring/decimal"

	"github.com/iho/statementrecon/internal/domain"
)

// ledgerIndex keeps ledger records keyed by id along with their original order.
type ledgerIndex struct {
	byID  map[string]*domain.LedgerRecord
	order []*domain.LedgerRecord
}

// indexLedger keys records by transaction id. The first record wins when the
// ledger repeats an id.
func indexLedger(records []*domain.LedgerRecord) ledgerIndex {
	idx := ledgerIndex{byID: make(map[string]*domain.LedgerRecord, len(records))}
	for _, rec := range records {
		if rec == nil {
			continue
		}
		if _, dup := idx.byID[rec.TransactionID]; dup {
			continue
		}
		idx.byID[rec.TransactionID] = rec
		idx.order = append(idx.order, rec)
	}
	return idx
}

// ReconcilePresence checks only that identifiers exist on both sides.
//
// Documents are identified by transaction id, falling back to the reference
// number; rows with neither get a placeholder id and are always
// document-only. Repeated document ids are reported once and counted as
// duplicates.
func ReconcilePresence(docs []domain.DocumentRecord, ledger []*domain.LedgerRecord) *domain.ReconciliationReport {
	idx := indexLedger(ledger)
	acc := newAccumulator()
	seen := make(map[string]bool, len(docs))

	for _, doc := range docs {
		id, ok := doc.PresenceID()
		if !ok {
			acc.add(presenceDocumentOnly(domain.PlaceholderID(doc.Row), doc))
			continue
		}
		if seen[id] {
			acc.duplicates++
			continue
		}
		seen[id] = true

		l, found := idx.byID[id]
		if !found {
			acc.add(presenceDocumentOnly(id, doc))
			continue
		}

		docNet, ledgerNet := doc.Net(), l.Net()
		cmp := domain.CompareString(domain.TransactionIDField, domain.Field[string]{V: id, Valid: true, Provided: true}, l.TransactionID)
		acc.add(domain.ReconciliationRecord{
			TransactionID: id,
			Source:        domain.SourceMatched,
			Status:        domain.StatusMatched,
			Row:           doc.Row,
			Fields:        []domain.FieldComparison{cmp},
			DocumentNet:   docNet,
			LedgerNet:     ledgerNet,
			NetChange:     docNet.Sub(ledgerNet),
		})
	}

	for _, l := range idx.order {
		if seen[l.TransactionID] {
			continue
		}
		net := l.Net()
		acc.add(domain.ReconciliationRecord{
			TransactionID: l.TransactionID,
			Source:        domain.SourceLedger,
			Status:        domain.StatusMissingInFile,
			Fields:        []domain.FieldComparison{domain.NotInDocument(domain.TransactionIDField, l)},
			DocumentNet:   decimal.Zero,
			LedgerNet:     net,
			NetChange:     net.Neg(),
		})
	}

	report := acc.report(domain.ModeByTransactionID, len(docs), len(idx.order))
	report.Discrepancies = acc.documentOnly + acc.ledgerOnly
	report.NetVariance = acc.documentNet.Sub(acc.ledgerNet)
	report.BalanceStatus = domain.BalanceOutOfBalance
	if report.Discrepancies == 0 {
		report.BalanceStatus = domain.BalanceInBalance
	}
	return report
}

func presenceDocumentOnly(id string, doc domain.DocumentRecord) domain.ReconciliationRecord {
	net := doc.Net()
	f := domain.TransactionIDField
	return domain.ReconciliationRecord{
		TransactionID: id,
		Source:        domain.SourceDocument,
		Status:        domain.StatusMissingInDatabase,
		Row:           doc.Row,
		Fields: []domain.FieldComparison{{
			Field:          f.Name,
			Label:          f.Label,
			DocumentValue:  id,
			LedgerValue:    domain.DiffMissingInDatabase,
			DifferenceText: domain.DiffMissingInDatabase,
			Severity:       domain.ClassifyMismatch(domain.MismatchNotInSystem, f.Name),
			HasDifference:  true,
		}},
		DocumentNet: net,
		LedgerNet:   decimal.Zero,
		NetChange:   net,
	}
}

// ReconcileFields compares every tracked field of transactions present on
// both sides.
//
// The ledger is expected to be restricted to period already; records
// outside a non-nil period are ignored. Matched records only compare the
// fields whose column the upload carried. Unmatched document records and
// ledger records never matched get every tracked field marked high.
func ReconcileFields(docs []domain.DocumentRecord, ledger []*domain.LedgerRecord, period *domain.Period) *domain.ReconciliationReport {
	if period != nil {
		inPeriod := make([]*domain.LedgerRecord, 0, len(ledger))
		for _, l := range ledger {
			if l != nil && period.Contains(l.TransactionDate) {
				inPeriod = append(inPeriod, l)
			}
		}
		ledger = inPeriod
	}

	idx := indexLedger(ledger)
	acc := newAccumulator()
	matchedIDs := make(map[string]bool, len(docs))

	for _, doc := range docs {
		id, ok := doc.ID()
		if !ok {
			acc.add(unmatchedDocument(domain.PlaceholderID(doc.Row), doc, domain.MissingInDatabase))
			continue
		}

		l, found := idx.byID[id]
		if !found {
			acc.unrecognized = append(acc.unrecognized, id)
			acc.add(unmatchedDocument(id, doc, domain.NotInSystem))
			continue
		}
		matchedIDs[id] = true

		rec := domain.ReconciliationRecord{
			TransactionID: id,
			Source:        domain.SourceMatched,
			Status:        domain.StatusMatched,
			Row:           doc.Row,
			DocumentNet:   doc.Net(),
			LedgerNet:     l.Net(),
		}
		rec.NetChange = rec.DocumentNet.Sub(rec.LedgerNet)

		for _, f := range domain.TrackedFields {
			if !documentProvides(doc, f) {
				continue
			}
			cmp, variance := domain.CompareField(f, doc, l)
			rec.Fields = append(rec.Fields, cmp)
			if cmp.HasDifference {
				rec.Status = domain.StatusDiscrepancy
				acc.addVariance(f.Name, variance)
			}
		}
		acc.add(rec)
	}

	for _, l := range idx.order {
		if matchedIDs[l.TransactionID] {
			continue
		}
		fields := make([]domain.FieldComparison, 0, len(domain.TrackedFields))
		for _, f := range domain.TrackedFields {
			fields = append(fields, domain.NotInDocument(f, l))
		}
		net := l.Net()
		acc.add(domain.ReconciliationRecord{
			TransactionID: l.TransactionID,
			Source:        domain.SourceLedger,
			Status:        domain.StatusMissingInFile,
			Fields:        fields,
			DocumentNet:   decimal.Zero,
			LedgerNet:     net,
			NetChange:     net.Neg(),
		})
	}

	report := acc.report(domain.ModeByPeriod, len(docs), len(idx.order))
	report.Period = period
	report.Discrepancies = acc.discrepantRecords()
	report.NetVariance = acc.debitVariance.Add(acc.creditVariance)
	report.BalanceStatus = domain.BalanceOutOfBalance
	if report.NetVariance.Abs().LessThanOrEqual(domain.VarianceTolerance) {
		report.BalanceStatus = domain.BalanceInBalance
	}
	return report
}

func unmatchedDocument(
	id string,
	doc domain.DocumentRecord,
	mark func(domain.TrackedField, domain.DocumentRecord) domain.FieldComparison,
) domain.ReconciliationRecord {
	fields := make([]domain.FieldComparison, 0, len(domain.TrackedFields))
	for _, f := range domain.TrackedFields {
		fields = append(fields, mark(f, doc))
	}
	net := doc.Net()
	return domain.ReconciliationRecord{
		TransactionID: id,
		Source:        domain.SourceDocument,
		Status:        domain.StatusMissingInDatabase,
		Row:           doc.Row,
		Fields:        fields,
		DocumentNet:   net,
		LedgerNet:     decimal.Zero,
		NetChange:     net,
	}
}

func documentProvides(doc domain.DocumentRecord, f domain.TrackedField) bool {
	if f.Kind == domain.KindDecimal {
		return doc.Decimal(f.Name).Provided
	}
	return doc.Text(f.Name).Provided
}
