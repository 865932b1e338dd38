package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FieldName is a canonical semantic field of a transaction.
type FieldName string

const (
	FieldTransactionID   FieldName = "transaction_id"
	FieldReferenceNumber FieldName = "reference_number"
	FieldTransactionDate FieldName = "transaction_date"
	FieldAccountNumber   FieldName = "account_number"
	FieldAccountName     FieldName = "account_name"
	FieldDescription     FieldName = "description"
	FieldTransactionType FieldName = "transaction_type"
	FieldStatus          FieldName = "status"
	FieldDebitAmount     FieldName = "debit_amount"
	FieldCreditAmount    FieldName = "credit_amount"
	FieldAmount          FieldName = "amount"
	FieldBalance         FieldName = "balance"
	FieldIndicator       FieldName = "indicator"
)

// FieldKind selects the comparison rule for a tracked field.
type FieldKind string

const (
	KindString  FieldKind = "string"
	KindDate    FieldKind = "date"
	KindDecimal FieldKind = "decimal"
)

// TrackedField is a field compared during field-level reconciliation.
type TrackedField struct {
	Name  FieldName
	Label string
	Kind  FieldKind
}

// TrackedFields lists the fields compared for matched transactions, in report order.
var TrackedFields = []TrackedField{
	{Name: FieldAccountNumber, Label: "Account Number", Kind: KindString},
	{Name: FieldAccountName, Label: "Account Name", Kind: KindString},
	{Name: FieldTransactionDate, Label: "Transaction Date", Kind: KindDate},
	{Name: FieldTransactionType, Label: "Transaction Type", Kind: KindString},
	{Name: FieldStatus, Label: "Status", Kind: KindString},
	{Name: FieldDescription, Label: "Description", Kind: KindString},
	{Name: FieldReferenceNumber, Label: "Reference Number", Kind: KindString},
	{Name: FieldDebitAmount, Label: "Debit Amount", Kind: KindDecimal},
	{Name: FieldCreditAmount, Label: "Credit Amount", Kind: KindDecimal},
	{Name: FieldBalance, Label: "Balance", Kind: KindDecimal},
}

// TransactionIDField is the only field reported by presence-only reconciliation.
var TransactionIDField = TrackedField{Name: FieldTransactionID, Label: "Transaction ID", Kind: KindString}

// TrackedFieldKind returns the comparison kind of a field, KindString if untracked.
func TrackedFieldKind(name FieldName) FieldKind {
	for _, f := range TrackedFields {
		if f.Name == name {
			return f.Kind
		}
	}
	return KindString
}

// DefaultSynonyms maps each canonical field to the header spellings accepted for it.
// The canonical name itself is always tried first.
var DefaultSynonyms = map[FieldName][]string{
	FieldTransactionID:   {"id", "transaction id", "txn id", "transactionid", "trans id", "transaction no", "transaction number"},
	FieldReferenceNumber: {"reference", "ref", "ref no", "reference no", "ref number"},
	FieldTransactionDate: {"date", "transaction date", "txn_date", "txndate", "value date", "posting date", "trans date"},
	FieldAccountNumber:   {"account no", "account", "acct no", "account num", "acct number"},
	FieldAccountName:     {"account holder", "name", "acct name"},
	FieldDescription:     {"narration", "details", "memo", "particulars", "remarks"},
	FieldTransactionType: {"type", "txn type", "trans type"},
	FieldStatus:          {"transaction status", "state"},
	FieldDebitAmount:     {"debit", "debit amount", "withdrawal", "withdrawals", "dr amount"},
	FieldCreditAmount:    {"credit", "credit amount", "deposit", "deposits", "cr amount"},
	FieldAmount:          {"amt", "transaction amount", "value"},
	FieldBalance:         {"running balance", "closing balance", "bal"},
	FieldIndicator:       {"dr/cr", "cr/dr", "c/d", "d/c", "dr cr", "debit/credit", "sign"},
}

// presenceIDFields are tried in order to identify a row in presence-only mode.
var presenceIDFields = []FieldName{FieldTransactionID, FieldReferenceNumber}

// FieldResolver maps arbitrary header spellings to canonical fields.
type FieldResolver struct {
	synonyms map[FieldName][]string
}

// NewFieldResolver creates a resolver from DefaultSynonyms plus extra spellings.
func NewFieldResolver(extra map[FieldName][]string) *FieldResolver {
	synonyms := make(map[FieldName][]string, len(DefaultSynonyms))
	for field, names := range DefaultSynonyms {
		synonyms[field] = append([]string(nil), names...)
	}
	for field, names := range extra {
		for _, n := range names {
			n = strings.TrimSpace(n)
			if n != "" {
				synonyms[field] = append(synonyms[field], n)
			}
		}
	}
	return &FieldResolver{synonyms: synonyms}
}

// DefaultResolver returns a resolver using DefaultSynonyms only.
func DefaultResolver() *FieldResolver {
	return NewFieldResolver(nil)
}

// Candidates returns the header names tried for field, canonical name first.
func (r *FieldResolver) Candidates(field FieldName) []string {
	out := make([]string, 0, len(r.synonyms[field])+1)
	out = append(out, string(field))
	return append(out, r.synonyms[field]...)
}

// Resolve returns the raw value of field in row.
func (r *FieldResolver) Resolve(row *RawRow, field FieldName) (string, bool) {
	for _, name := range r.Candidates(field) {
		if v, ok := row.Lookup(name); ok {
			return v, true
		}
	}
	return "", false
}

// HasColumn reports whether row carries a column for field.
func (r *FieldResolver) HasColumn(row *RawRow, field FieldName) bool {
	_, ok := r.Resolve(row, field)
	return ok
}

// Record resolves a raw row into a DocumentRecord. index is zero-based.
func (r *FieldResolver) Record(row *RawRow, index int) DocumentRecord {
	rec := DocumentRecord{
		Row:             index + 1,
		TransactionID:   r.text(row, FieldTransactionID),
		ReferenceNumber: r.text(row, FieldReferenceNumber),
		TransactionDate: r.text(row, FieldTransactionDate),
		AccountNumber:   r.text(row, FieldAccountNumber),
		AccountName:     r.text(row, FieldAccountName),
		Description:     r.text(row, FieldDescription),
		TransactionType: r.text(row, FieldTransactionType),
		Status:          r.text(row, FieldStatus),
		Debit:           r.decimal(row, FieldDebitAmount),
		Credit:          r.decimal(row, FieldCreditAmount),
		Amount:          r.decimal(row, FieldAmount),
		Balance:         r.decimal(row, FieldBalance),
	}

	if raw, ok := r.Resolve(row, FieldIndicator); ok {
		rec.Indicator = Field[string]{V: strings.TrimSpace(raw), Provided: true}
		if ind, ok := ParseIndicator(raw); ok {
			rec.Indicator.V = ind
			rec.Indicator.Valid = true
		}
	}
	if !rec.Indicator.Valid && rec.TransactionType.Valid {
		if ind, ok := ParseIndicator(rec.TransactionType.V); ok {
			rec.Indicator = Field[string]{V: ind, Valid: true, Provided: true}
		}
	}

	return rec
}

// Records resolves every row.
func (r *FieldResolver) Records(rows []*RawRow) []DocumentRecord {
	out := make([]DocumentRecord, 0, len(rows))
	for i, row := range rows {
		out = append(out, r.Record(row, i))
	}
	return out
}

func (r *FieldResolver) text(row *RawRow, field FieldName) Field[string] {
	raw, ok := r.Resolve(row, field)
	if !ok {
		return Field[string]{}
	}
	v := strings.TrimSpace(raw)
	return Field[string]{V: v, Valid: !isAbsentText(v), Provided: true}
}

func (r *FieldResolver) decimal(row *RawRow, field FieldName) Field[decimal.Decimal] {
	raw, ok := r.Resolve(row, field)
	if !ok {
		return Field[decimal.Decimal]{}
	}
	d, valid := NormalizeNumeric(raw)
	return Field[decimal.Decimal]{V: d, Valid: valid, Provided: true}
}

// Credit/debit indicator values.
const (
	IndicatorCredit = "C"
	IndicatorDebit  = "D"
)

// ParseIndicator recognises C/CR/CREDIT and D/DR/DEBIT in any case.
func ParseIndicator(s string) (string, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "C", "CR", "CREDIT":
		return IndicatorCredit, true
	case "D", "DR", "DEBIT":
		return IndicatorDebit, true
	default:
		return "", false
	}
}
