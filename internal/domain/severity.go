package domain

import "github.com/shopspring/decimal"

// Severity ranks a field discrepancy.
type Severity string

const (
	SeverityMatch    Severity = "match"
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// MismatchKind describes a categorical (non-numeric) difference.
type MismatchKind string

const (
	MismatchNone            MismatchKind = "none"
	MismatchMissingDocument MismatchKind = "missing_in_document"
	MismatchMissingLedger   MismatchKind = "missing_in_ledger"
	MismatchDate            MismatchKind = "date_mismatch"
	MismatchValue           MismatchKind = "value_mismatch"
	MismatchNotInSystem     MismatchKind = "not_in_system"
	MismatchNotInDocument   MismatchKind = "not_in_document"
)

// Variance thresholds, inclusive lower bounds.
var (
	VarianceTolerance = decimal.RequireFromString("0.01")
	criticalVariance  = decimal.NewFromInt(1000)
	highVariance      = decimal.NewFromInt(100)
	mediumVariance    = decimal.NewFromInt(10)
)

// ClassifyVariance ranks a numeric difference by its magnitude.
func ClassifyVariance(variance decimal.Decimal) Severity {
	abs := variance.Abs()
	switch {
	case abs.LessThanOrEqual(VarianceTolerance):
		return SeverityMatch
	case abs.GreaterThanOrEqual(criticalVariance):
		return SeverityCritical
	case abs.GreaterThanOrEqual(highVariance):
		return SeverityHigh
	case abs.GreaterThanOrEqual(mediumVariance):
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// ClassifyMismatch ranks a categorical difference on the given field.
func ClassifyMismatch(kind MismatchKind, field FieldName) Severity {
	kindOf := TrackedFieldKind(field)

	switch kind {
	case MismatchNone:
		return SeverityMatch
	case MismatchNotInSystem, MismatchNotInDocument:
		return SeverityHigh
	case MismatchMissingDocument, MismatchMissingLedger:
		if kindOf == KindDecimal {
			return SeverityHigh
		}
		return SeverityMedium
	case MismatchDate:
		return SeverityMedium
	case MismatchValue:
		if field == FieldAccountNumber || field == FieldAccountName {
			return SeverityHigh
		}
		return SeverityLow
	default:
		return SeverityHigh
	}
}
