package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Difference texts used in field comparisons.
const (
	DiffMissingInFile     = "Missing in uploaded file"
	DiffMissingInDatabase = "Missing in database"
	DiffNotInSystem       = "Not in system"
	DiffNotInFile         = "Not in uploaded file"
	DiffDateMismatch      = "Date mismatch"
	DiffValueMismatch     = "Value mismatch"
	DiffNone              = "0.00"
)

// FieldComparison is the outcome of comparing one field of a document record
// against its ledger counterpart.
type FieldComparison struct {
	Field          FieldName `json:"field"`
	Label          string    `json:"label"`
	DocumentValue  string    `json:"document_value"`
	LedgerValue    string    `json:"ledger_value"`
	DifferenceText string    `json:"difference"`
	Severity       Severity  `json:"severity"`
	HasDifference  bool      `json:"has_difference"`
}

func newComparison(f TrackedField, doc, ledger, diff string, sev Severity) FieldComparison {
	return FieldComparison{
		Field:          f.Name,
		Label:          f.Label,
		DocumentValue:  doc,
		LedgerValue:    ledger,
		DifferenceText: diff,
		Severity:       sev,
		HasDifference:  sev != SeverityMatch,
	}
}

// CompareDecimal compares a numeric field and returns the signed variance
// (document minus ledger). The variance is zero when the document value is absent.
func CompareDecimal(f TrackedField, doc Field[decimal.Decimal], ledger decimal.Decimal) (FieldComparison, decimal.Decimal) {
	ledgerText := FormatAmount(ledger)
	if !doc.Valid {
		return newComparison(f, NotAvailable, ledgerText, DiffMissingInFile, SeverityHigh), decimal.Zero
	}

	variance := doc.V.Sub(ledger)
	sev := ClassifyVariance(variance)
	diff := DiffNone
	if sev != SeverityMatch {
		diff = FormatAmount(variance)
	}
	return newComparison(f, FormatAmount(doc.V), ledgerText, diff, sev), variance
}

// CompareDate compares dates after normalizing both sides.
func CompareDate(f TrackedField, doc Field[string], ledger string) FieldComparison {
	docText := ""
	if doc.Valid {
		docText = NormalizeDate(doc.V)
	}
	ledgerText := NormalizeDate(strings.TrimSpace(ledger))
	if isAbsentText(ledgerText) {
		ledgerText = ""
	}
	return compareText(f, docText, ledgerText, MismatchDate)
}

// CompareString compares text fields ignoring case and surrounding whitespace.
func CompareString(f TrackedField, doc Field[string], ledger string) FieldComparison {
	docText := ""
	if doc.Valid {
		docText = strings.TrimSpace(doc.V)
	}
	ledgerText := strings.TrimSpace(ledger)
	if isAbsentText(ledgerText) {
		ledgerText = ""
	}
	return compareText(f, docText, ledgerText, MismatchValue)
}

func compareText(f TrackedField, doc, ledger string, mismatch MismatchKind) FieldComparison {
	docShown, ledgerShown := orNotAvailable(doc), orNotAvailable(ledger)

	switch {
	case doc == "":
		return newComparison(f, docShown, ledgerShown, DiffMissingInFile, ClassifyMismatch(MismatchMissingDocument, f.Name))
	case ledger == "":
		return newComparison(f, docShown, ledgerShown, DiffMissingInDatabase, ClassifyMismatch(MismatchMissingLedger, f.Name))
	case !strings.EqualFold(doc, ledger):
		diff := DiffValueMismatch
		if mismatch == MismatchDate {
			diff = DiffDateMismatch
		}
		return newComparison(f, docShown, ledgerShown, diff, ClassifyMismatch(mismatch, f.Name))
	default:
		return newComparison(f, docShown, ledgerShown, "", SeverityMatch)
	}
}

// CompareField runs the comparison rule for the field's kind. The variance is
// non-zero only for decimal fields.
func CompareField(f TrackedField, doc DocumentRecord, ledger *LedgerRecord) (FieldComparison, decimal.Decimal) {
	switch f.Kind {
	case KindDecimal:
		return CompareDecimal(f, doc.Decimal(f.Name), ledger.Decimal(f.Name))
	case KindDate:
		return CompareDate(f, doc.Text(f.Name), ledger.Text(f.Name)), decimal.Zero
	default:
		return CompareString(f, doc.Text(f.Name), ledger.Text(f.Name)), decimal.Zero
	}
}

// MissingInDatabase marks a field of a document row that has no identifier.
func MissingInDatabase(f TrackedField, doc DocumentRecord) FieldComparison {
	return newComparison(f, doc.Display(f.Name), DiffMissingInDatabase, DiffMissingInDatabase, ClassifyMismatch(MismatchNotInSystem, f.Name))
}

// NotInSystem marks a field of a document row whose id the ledger does not know.
func NotInSystem(f TrackedField, doc DocumentRecord) FieldComparison {
	return newComparison(f, doc.Display(f.Name), DiffNotInSystem, DiffNotInSystem, ClassifyMismatch(MismatchNotInSystem, f.Name))
}

// NotInDocument marks a field of a ledger transaction absent from the upload.
func NotInDocument(f TrackedField, ledger *LedgerRecord) FieldComparison {
	return newComparison(f, DiffNotInFile, ledger.Display(f.Name), DiffNotInFile, ClassifyMismatch(MismatchNotInDocument, f.Name))
}

func orNotAvailable(s string) string {
	if s == "" {
		return NotAvailable
	}
	return s
}
