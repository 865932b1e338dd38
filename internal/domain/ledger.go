package domain

import "fmt"

// LedgerRecord builds a ledger transaction from an imported row. The row
// must carry a transaction id and a parseable date; amounts default to zero.
func (r *FieldResolver) LedgerRecord(row *RawRow) (*LedgerRecord, error) {
	doc := r.Record(row, 0)

	id, ok := doc.ID()
	if !ok {
		return nil, fmt.Errorf("%w: missing transaction id", ErrInvalidLedgerRow)
	}
	date, ok := ParseDate(doc.TransactionDate.V)
	if !ok {
		return nil, fmt.Errorf("%w: %s: invalid date %q", ErrInvalidLedgerRow, id, doc.TransactionDate.V)
	}

	debit, credit := doc.EffectiveAmounts()
	return &LedgerRecord{
		TransactionID:   id,
		AccountNumber:   doc.AccountNumber.V,
		AccountName:     doc.AccountName.V,
		Description:     doc.Description.V,
		ReferenceNumber: doc.ReferenceNumber.V,
		TransactionType: doc.TransactionType.V,
		Status:          doc.Status.V,
		DebitAmount:     debit.V,
		CreditAmount:    credit.V,
		Balance:         doc.Balance.V,
		TransactionDate: date,
	}, nil
}

// LedgerRecords converts every row, stopping at the first invalid one.
func (r *FieldResolver) LedgerRecords(rows []*RawRow) ([]*LedgerRecord, error) {
	out := make([]*LedgerRecord, 0, len(rows))
	for i, row := range rows {
		rec, err := r.LedgerRecord(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		out = append(out, rec)
	}
	return out, nil
}
