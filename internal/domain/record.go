package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Field is an optional value read from an uploaded statement.
// Provided reports whether the upload carried the column at all,
// Valid whether it held a usable value.
type Field[T any] struct {
	V        T
	Valid    bool
	Provided bool
}

// DocumentRecord is a transaction as read from the uploaded file.
type DocumentRecord struct {
	Row             int
	TransactionID   Field[string]
	ReferenceNumber Field[string]
	TransactionDate Field[string]
	AccountNumber   Field[string]
	AccountName     Field[string]
	Description     Field[string]
	TransactionType Field[string]
	Status          Field[string]
	Indicator       Field[string]
	Debit           Field[decimal.Decimal]
	Credit          Field[decimal.Decimal]
	Amount          Field[decimal.Decimal]
	Balance         Field[decimal.Decimal]
}

// ID returns the transaction id used by field-level reconciliation.
func (d DocumentRecord) ID() (string, bool) {
	if d.TransactionID.Valid {
		return d.TransactionID.V, true
	}
	return "", false
}

// PresenceID returns the identifier used by presence-only reconciliation:
// the transaction id, falling back to the reference number.
func (d DocumentRecord) PresenceID() (string, bool) {
	for _, f := range presenceIDFields {
		if v := d.Text(f); v.Valid {
			return v.V, true
		}
	}
	return "", false
}

// PlaceholderID names a document row that carries no identifier.
func PlaceholderID(row int) string {
	return fmt.Sprintf("FILE_ONLY_NO_ID_%04d", row)
}

// Text returns a string-valued field by canonical name.
func (d DocumentRecord) Text(name FieldName) Field[string] {
	switch name {
	case FieldTransactionID:
		return d.TransactionID
	case FieldReferenceNumber:
		return d.ReferenceNumber
	case FieldTransactionDate:
		return d.TransactionDate
	case FieldAccountNumber:
		return d.AccountNumber
	case FieldAccountName:
		return d.AccountName
	case FieldDescription:
		return d.Description
	case FieldTransactionType:
		return d.TransactionType
	case FieldStatus:
		return d.Status
	case FieldIndicator:
		return d.Indicator
	default:
		return Field[string]{}
	}
}

// Decimal returns a numeric field by canonical name. Debit and credit are
// reported after applying EffectiveAmounts.
func (d DocumentRecord) Decimal(name FieldName) Field[decimal.Decimal] {
	switch name {
	case FieldDebitAmount:
		debit, _ := d.EffectiveAmounts()
		return debit
	case FieldCreditAmount:
		_, credit := d.EffectiveAmounts()
		return credit
	case FieldAmount:
		return d.Amount
	case FieldBalance:
		return d.Balance
	default:
		return Field[decimal.Decimal]{}
	}
}

// EffectiveAmounts resolves the debit and credit of the row.
//
// A C/D indicator paired with a numeric amount overrides explicit debit and
// credit columns. Without debit or credit columns a generic amount is split
// by sign, negative amounts being debits.
func (d DocumentRecord) EffectiveAmounts() (debit, credit Field[decimal.Decimal]) {
	zero := Field[decimal.Decimal]{V: decimal.Zero, Valid: true, Provided: true}

	if d.Indicator.Valid && d.Amount.Valid {
		amount := Field[decimal.Decimal]{V: d.Amount.V.Abs(), Valid: true, Provided: true}
		if d.Indicator.V == IndicatorCredit {
			return zero, amount
		}
		return amount, zero
	}

	if !d.Debit.Provided && !d.Credit.Provided && d.Amount.Valid {
		if d.Amount.V.IsNegative() {
			return Field[decimal.Decimal]{V: d.Amount.V.Abs(), Valid: true, Provided: true}, zero
		}
		return zero, Field[decimal.Decimal]{V: d.Amount.V, Valid: true, Provided: true}
	}

	return d.Debit, d.Credit
}

// Net returns credit minus debit. When both resolve to zero a signed generic
// amount is used instead.
func (d DocumentRecord) Net() decimal.Decimal {
	debit, credit := d.EffectiveAmounts()
	net := credit.V.Sub(debit.V)
	if net.IsZero() && debit.V.IsZero() && credit.V.IsZero() && d.Amount.Valid {
		return d.Amount.V
	}
	return net
}

// Display renders a tracked field for a report, "N/A" when absent.
func (d DocumentRecord) Display(name FieldName) string {
	switch TrackedFieldKind(name) {
	case KindDecimal:
		if v := d.Decimal(name); v.Valid {
			return FormatAmount(v.V)
		}
	case KindDate:
		if v := d.Text(name); v.Valid {
			return NormalizeDate(v.V)
		}
	default:
		if v := d.Text(name); v.Valid {
			return v.V
		}
	}
	return NotAvailable
}

// NotAvailable is displayed for absent values.
const NotAvailable = "N/A"

// LedgerRecord is the authoritative transaction from the system of record.
type LedgerRecord struct {
	TransactionID   string          `json:"transaction_id"`
	AccountNumber   string          `json:"account_number"`
	AccountName     string          `json:"account_name"`
	Description     string          `json:"description"`
	ReferenceNumber string          `json:"reference_number"`
	TransactionType string          `json:"transaction_type"`
	Status          string          `json:"status"`
	DebitAmount     decimal.Decimal `json:"debit_amount"`
	CreditAmount    decimal.Decimal `json:"credit_amount"`
	Balance         decimal.Decimal `json:"balance"`
	TransactionDate time.Time       `json:"transaction_date"`
}

// DateString returns the transaction date as YYYY-MM-DD, empty if unset.
func (l *LedgerRecord) DateString() string {
	if l.TransactionDate.IsZero() {
		return ""
	}
	return l.TransactionDate.Format(DateLayout)
}

// Text returns a string-valued field by canonical name.
func (l *LedgerRecord) Text(name FieldName) string {
	switch name {
	case FieldTransactionID:
		return l.TransactionID
	case FieldReferenceNumber:
		return l.ReferenceNumber
	case FieldTransactionDate:
		return l.DateString()
	case FieldAccountNumber:
		return l.AccountNumber
	case FieldAccountName:
		return l.AccountName
	case FieldDescription:
		return l.Description
	case FieldTransactionType:
		return l.TransactionType
	case FieldStatus:
		return l.Status
	default:
		return ""
	}
}

// Decimal returns a numeric field by canonical name.
func (l *LedgerRecord) Decimal(name FieldName) decimal.Decimal {
	switch name {
	case FieldDebitAmount:
		return l.DebitAmount
	case FieldCreditAmount:
		return l.CreditAmount
	case FieldBalance:
		return l.Balance
	default:
		return decimal.Zero
	}
}

// Display renders a tracked field for a report.
func (l *LedgerRecord) Display(name FieldName) string {
	if TrackedFieldKind(name) == KindDecimal {
		return FormatAmount(l.Decimal(name))
	}
	if v := l.Text(name); v != "" {
		return v
	}
	return NotAvailable
}

// Net returns credit minus debit.
func (l *LedgerRecord) Net() decimal.Decimal {
	return l.CreditAmount.Sub(l.DebitAmount)
}

// Period is an inclusive date range.
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewPeriod parses start and end dates. Both empty yields nil, meaning no
// restriction. A single bound or an inverted range is rejected.
func NewPeriod(start, end string) (*Period, error) {
	if start == "" && end == "" {
		return nil, nil
	}
	if start == "" || end == "" {
		return nil, fmt.Errorf("%w: both start and end dates are required", ErrInvalidPeriod)
	}
	s, ok := ParseDate(start)
	if !ok {
		return nil, fmt.Errorf("%w: cannot parse start date %q", ErrInvalidPeriod, start)
	}
	e, ok := ParseDate(end)
	if !ok {
		return nil, fmt.Errorf("%w: cannot parse end date %q", ErrInvalidPeriod, end)
	}
	if e.Before(s) {
		return nil, fmt.Errorf("%w: end date %s is before start date %s", ErrInvalidPeriod, end, start)
	}
	return &Period{Start: s, End: e}, nil
}

// Contains reports whether t falls on a day within the period.
func (p *Period) Contains(t time.Time) bool {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return !day.Before(p.Start) && !day.After(p.End)
}

// String formats the period as start..end, or "all" for a nil period.
func (p *Period) String() string {
	if p == nil {
		return "all"
	}
	return p.Start.Format(DateLayout) + ".." + p.End.Format(DateLayout)
}
