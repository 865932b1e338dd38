package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func tracked(name FieldName) TrackedField {
	for _, f := range TrackedFields {
		if f.Name == name {
			return f
		}
	}
	panic("untracked field " + string(name))
}

func TestCompareDecimal(t *testing.T) {
	t.Parallel()

	f := tracked(FieldDebitAmount)

	t.Run("variance classified", func(t *testing.T) {
		doc := Field[decimal.Decimal]{V: decimal.NewFromInt(100), Valid: true, Provided: true}
		cmp, variance := CompareDecimal(f, doc, decimal.NewFromInt(95))
		if cmp.Severity != SeverityLow || !cmp.HasDifference {
			t.Fatalf("expected low difference, got %+v", cmp)
		}
		if !variance.Equal(decimal.NewFromInt(5)) || cmp.DifferenceText != "5.00" {
			t.Fatalf("unexpected variance %s / %q", variance, cmp.DifferenceText)
		}
		if cmp.DocumentValue != "100.00" || cmp.LedgerValue != "95.00" {
			t.Fatalf("unexpected display values %+v", cmp)
		}
	})

	t.Run("within tolerance", func(t *testing.T) {
		doc := Field[decimal.Decimal]{V: decimal.RequireFromString("95.01"), Valid: true, Provided: true}
		cmp, _ := CompareDecimal(f, doc, decimal.NewFromInt(95))
		if cmp.Severity != SeverityMatch || cmp.HasDifference || cmp.DifferenceText != DiffNone {
			t.Fatalf("expected match, got %+v", cmp)
		}
	})

	t.Run("absent document value", func(t *testing.T) {
		cmp, variance := CompareDecimal(f, Field[decimal.Decimal]{Provided: true}, decimal.NewFromInt(95))
		if cmp.Severity != SeverityHigh || cmp.DifferenceText != DiffMissingInFile {
			t.Fatalf("expected high missing, got %+v", cmp)
		}
		if !variance.IsZero() {
			t.Fatalf("expected no variance, got %s", variance)
		}
	})
}

func TestCompareDate(t *testing.T) {
	t.Parallel()

	f := tracked(FieldTransactionDate)

	cmp := CompareDate(f, Field[string]{V: "01/10/2025", Valid: true, Provided: true}, "2025-10-01")
	if cmp.HasDifference {
		t.Fatalf("expected normalized dates to match, got %+v", cmp)
	}

	cmp = CompareDate(f, Field[string]{V: "02/10/2025", Valid: true, Provided: true}, "2025-10-01")
	if cmp.Severity != SeverityMedium || cmp.DifferenceText != DiffDateMismatch {
		t.Fatalf("expected medium date mismatch, got %+v", cmp)
	}

	cmp = CompareDate(f, Field[string]{Provided: true}, "2025-10-01")
	if cmp.Severity != SeverityMedium || cmp.DifferenceText != DiffMissingInFile {
		t.Fatalf("expected medium missing, got %+v", cmp)
	}
}

func TestCompareString(t *testing.T) {
	t.Parallel()

	doc := func(v string) Field[string] { return Field[string]{V: v, Valid: v != "", Provided: true} }

	if cmp := CompareString(tracked(FieldDescription), doc(" ATM withdrawal "), "atm WITHDRAWAL"); cmp.HasDifference {
		t.Fatalf("expected case-insensitive match, got %+v", cmp)
	}
	if cmp := CompareString(tracked(FieldDescription), doc("ATM"), "POS"); cmp.Severity != SeverityLow {
		t.Fatalf("expected low, got %+v", cmp)
	}
	if cmp := CompareString(tracked(FieldAccountNumber), doc("ACC-1"), "ACC-2"); cmp.Severity != SeverityHigh {
		t.Fatalf("expected high, got %+v", cmp)
	}
	cmp := CompareString(tracked(FieldStatus), doc("posted"), "n/a")
	if cmp.Severity != SeverityMedium || cmp.DifferenceText != DiffMissingInDatabase || cmp.LedgerValue != NotAvailable {
		t.Fatalf("expected missing in database, got %+v", cmp)
	}
}

func TestOneSidedComparisons(t *testing.T) {
	t.Parallel()

	rec := DefaultResolver().Record(RawRowFrom([]string{"id", "debit"}, []string{"T9", "10"}), 0)
	ledger := &LedgerRecord{
		TransactionID:   "T2",
		AccountName:     "Main",
		DebitAmount:     decimal.NewFromInt(3),
		TransactionDate: time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC),
	}

	for _, f := range TrackedFields {
		for _, cmp := range []FieldComparison{NotInSystem(f, rec), MissingInDatabase(f, rec), NotInDocument(f, ledger)} {
			if cmp.Severity != SeverityHigh || !cmp.HasDifference {
				t.Fatalf("expected high severity for %s, got %+v", f.Name, cmp)
			}
		}
	}

	if cmp := NotInSystem(tracked(FieldDebitAmount), rec); cmp.DocumentValue != "10.00" || cmp.LedgerValue != DiffNotInSystem {
		t.Fatalf("unexpected %+v", cmp)
	}
	if cmp := NotInDocument(tracked(FieldTransactionDate), ledger); cmp.LedgerValue != "2025-10-01" {
		t.Fatalf("unexpected %+v", cmp)
	}
}
