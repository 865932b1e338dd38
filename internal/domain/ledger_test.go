package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestFieldResolverLedgerRecords(t *testing.T) {
	t.Parallel()

	r := DefaultResolver()
	headers := []string{"transaction_id", "transaction_date", "account_number", "debit_amount", "credit_amount", "balance"}

	recs, err := r.LedgerRecords(rows(headers,
		[]string{"T1", "2025-10-01", "ACC-1", "95.00", "", "905.00"},
		[]string{"T2", "02/10/2025", "ACC-1", "", "10.00", "915.00"},
	))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	if !recs[0].DebitAmount.Equal(decimal.NewFromInt(95)) || !recs[0].CreditAmount.IsZero() {
		t.Fatalf("unexpected amounts %+v", recs[0])
	}
	if recs[1].DateString() != "2025-10-02" {
		t.Fatalf("unexpected date %s", recs[1].DateString())
	}
	if !recs[1].Net().Equal(decimal.NewFromInt(10)) {
		t.Fatalf("unexpected net %s", recs[1].Net())
	}

	_, err = r.LedgerRecords(rows(headers, []string{"", "2025-10-01", "ACC-1", "1", "", ""}))
	if !errors.Is(err, ErrInvalidLedgerRow) {
		t.Fatalf("expected ErrInvalidLedgerRow, got %v", err)
	}

	_, err = r.LedgerRecords(rows(headers, []string{"T3", "someday", "ACC-1", "1", "", ""}))
	if !errors.Is(err, ErrInvalidLedgerRow) {
		t.Fatalf("expected ErrInvalidLedgerRow, got %v", err)
	}
}
