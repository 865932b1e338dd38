package usecase_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/statementrecon/internal/domain"
	"github.com/iho/statementrecon/internal/usecase"
)

func documents(headers []string, values ...[]string) []domain.DocumentRecord {
	rows := make([]*domain.RawRow, 0, len(values))
	for _, v := range values {
		rows = append(rows, domain.RawRowFrom(headers, v))
	}
	return domain.DefaultResolver().Records(rows)
}

func ledgerRecord(id string, debit, credit string, day int) *domain.LedgerRecord {
	return &domain.LedgerRecord{
		TransactionID:   id,
		AccountNumber:   "ACC-1",
		AccountName:     "Operating",
		Description:     "Payment " + id,
		TransactionType: "transfer",
		Status:          "posted",
		DebitAmount:     decimal.RequireFromString(debit),
		CreditAmount:    decimal.RequireFromString(credit),
		Balance:         decimal.Zero,
		TransactionDate: time.Date(2025, 10, day, 0, 0, 0, 0, time.UTC),
	}
}

func TestReconcileFields_DebitVariance(t *testing.T) {
	docs := documents([]string{"transaction_id", "debit_amount"}, []string{"T1", "100"})
	ledger := []*domain.LedgerRecord{ledgerRecord("T1", "95", "0", 1)}

	report := usecase.ReconcileFields(docs, ledger, nil)

	require.Len(t, report.Records, 1)
	rec := report.Records[0]
	assert.Equal(t, domain.SourceMatched, rec.Source)
	assert.Equal(t, domain.StatusDiscrepancy, rec.Status)
	assert.Equal(t, 1, rec.DiscrepancyCount)
	require.Len(t, rec.Fields, 1)
	assert.Equal(t, domain.FieldDebitAmount, rec.Fields[0].Field)
	assert.Equal(t, domain.SeverityLow, rec.Fields[0].Severity)
	assert.Equal(t, "5.00", rec.Fields[0].DifferenceText)

	assert.Equal(t, 1, report.Matched)
	assert.Equal(t, 0, report.DocumentOnly)
	assert.Equal(t, 0, report.LedgerOnly)
	assert.Equal(t, 1, report.Discrepancies)
	assert.Equal(t, 1, report.Severity.Low)
	assert.True(t, report.TotalDebitVariance.Equal(decimal.NewFromInt(5)), report.TotalDebitVariance.String())
	assert.True(t, report.TotalCreditVariance.IsZero())
	assert.True(t, report.NetVariance.Equal(decimal.NewFromInt(5)))
	assert.Equal(t, domain.BalanceOutOfBalance, report.BalanceStatus)
}

func TestReconcileFields_UnknownID(t *testing.T) {
	docs := documents([]string{"id"}, []string{"T9"})

	report := usecase.ReconcileFields(docs, nil, nil)

	require.Len(t, report.Records, 1)
	rec := report.Records[0]
	assert.Equal(t, domain.SourceDocument, rec.Source)
	assert.Equal(t, "Missing in database", rec.Status)
	require.Len(t, rec.Fields, len(domain.TrackedFields))
	for _, f := range rec.Fields {
		assert.Equal(t, domain.SeverityHigh, f.Severity, f.Field)
		assert.Equal(t, domain.DiffNotInSystem, f.LedgerValue)
	}
	assert.Equal(t, len(domain.TrackedFields), rec.DiscrepancyCount)
	assert.Equal(t, []string{"T9"}, report.UnrecognizedIDs)
	assert.Equal(t, 1, report.DocumentOnly)
	assert.Equal(t, 1, report.Discrepancies)
	assert.Equal(t, domain.NotAvailable, rec.Fields[0].DocumentValue)
}

func TestReconcileFields_NoIdentifier(t *testing.T) {
	docs := documents([]string{"id", "date", "amount"}, []string{"", "2025-10-01", "12.00"})

	report := usecase.ReconcileFields(docs, []*domain.LedgerRecord{ledgerRecord("T1", "1", "0", 1)}, nil)

	require.Len(t, report.Records, 2)
	rec := report.Records[0]
	assert.Equal(t, "FILE_ONLY_NO_ID_0001", rec.TransactionID)
	assert.Equal(t, domain.StatusMissingInDatabase, rec.Status)
	for _, f := range rec.Fields {
		assert.Equal(t, domain.DiffMissingInDatabase, f.LedgerValue)
		assert.Equal(t, domain.SeverityHigh, f.Severity)
	}
	assert.Empty(t, report.UnrecognizedIDs)
	assert.Equal(t, 1, report.DocumentOnly)
	assert.Equal(t, 1, report.LedgerOnly)
}

func TestReconcileFields_LedgerOnly(t *testing.T) {
	headers := []string{"transaction_id", "transaction_date", "account_number", "debit_amount", "credit_amount"}
	docs := documents(headers, []string{"T1", "01/10/2025", "acc-1", "10.00", "0.00"})
	ledger := []*domain.LedgerRecord{
		ledgerRecord("T1", "10", "0", 1),
		ledgerRecord("T2", "0", "20", 2),
	}

	report := usecase.ReconcileFields(docs, ledger, nil)

	require.Len(t, report.Records, 2)
	assert.Equal(t, domain.StatusMatched, report.Records[0].Status)
	assert.Zero(t, report.Records[0].DiscrepancyCount)

	only := report.Records[1]
	assert.Equal(t, "T2", only.TransactionID)
	assert.Equal(t, domain.SourceLedger, only.Source)
	assert.Equal(t, domain.StatusMissingInFile, only.Status)
	for _, f := range only.Fields {
		assert.Equal(t, domain.SeverityHigh, f.Severity)
		assert.Equal(t, domain.DiffNotInFile, f.DocumentValue)
	}
	assert.True(t, only.LedgerNet.Equal(decimal.NewFromInt(20)))

	assert.Equal(t, 1, report.Matched)
	assert.Equal(t, 1, report.LedgerOnly)
	assert.Equal(t, 1, report.Discrepancies)
	assert.Equal(t, domain.BalanceInBalance, report.BalanceStatus)
	assert.Len(t, report.DiscrepantRecords(), 1)
}

func TestReconcileFields_PeriodFiltersLedger(t *testing.T) {
	docs := documents([]string{"id", "debit"}, []string{"T1", "5.00"})
	ledger := []*domain.LedgerRecord{
		ledgerRecord("T1", "5", "0", 3),
		ledgerRecord("T2", "7", "0", 20),
	}
	period, err := domain.NewPeriod("2025-10-01", "2025-10-10")
	require.NoError(t, err)

	report := usecase.ReconcileFields(docs, ledger, period)

	assert.Equal(t, 1, report.TotalLedgerRecords)
	assert.Equal(t, 0, report.LedgerOnly)
	assert.Equal(t, period, report.Period)
	assert.Equal(t, domain.BalanceInBalance, report.BalanceStatus)
}

func TestReconcileFields_IndicatorOverridesColumns(t *testing.T) {
	docs := documents(
		[]string{"id", "debit", "credit", "amount", "dr/cr"},
		[]string{"T1", "50.00", "", "50.00", "C"},
	)
	report := usecase.ReconcileFields(docs, []*domain.LedgerRecord{ledgerRecord("T1", "0", "50", 1)}, nil)

	require.Len(t, report.Records, 1)
	assert.Equal(t, domain.StatusMatched, report.Records[0].Status)
	assert.True(t, report.NetVariance.IsZero())
}

func TestReconcileFields_SeverityAndVarianceTotals(t *testing.T) {
	headers := []string{"id", "date", "account_number", "description", "debit", "credit"}
	docs := documents(headers,
		[]string{"T1", "2025-10-02", "ACC-9", "payment t1", "1095.00", "0"},
		[]string{"T2", "2025-10-02", "ACC-1", "Other", "0", "150.00"},
	)
	ledger := []*domain.LedgerRecord{
		ledgerRecord("T1", "95", "0", 1),
		ledgerRecord("T2", "0", "100", 2),
	}

	report := usecase.ReconcileFields(docs, ledger, nil)

	// T1: date medium, account number high, debit critical. T2: description low, credit medium.
	assert.Equal(t, domain.SeverityCounts{Critical: 1, High: 1, Medium: 2, Low: 1}, report.Severity)
	assert.True(t, report.TotalDebitVariance.Equal(decimal.NewFromInt(1000)))
	assert.True(t, report.TotalCreditVariance.Equal(decimal.NewFromInt(50)))
	assert.True(t, report.NetVariance.Equal(decimal.NewFromInt(1050)))
	assert.Equal(t, 2, report.Discrepancies)
	assert.Equal(t, 3, report.Records[0].DiscrepancyCount)
	assert.Equal(t, 2, report.Records[1].DiscrepancyCount)
}

func TestReconcilePresence_Partition(t *testing.T) {
	headers := []string{"Transaction ID", "Reference", "Credit", "Debit"}
	docs := documents(headers,
		[]string{"T1", "", "100.00", ""},
		[]string{"T1", "", "100.00", ""},
		[]string{"", "REF7", "", "40.00"},
		[]string{"", "", "1.00", ""},
	)
	ledger := []*domain.LedgerRecord{
		ledgerRecord("T1", "0", "90", 1),
		ledgerRecord("T3", "25", "0", 2),
	}

	report := usecase.ReconcilePresence(docs, ledger)

	assert.Equal(t, 1, report.Matched)
	assert.Equal(t, 2, report.DocumentOnly)
	assert.Equal(t, 1, report.LedgerOnly)
	assert.Equal(t, 1, report.DuplicateIDs)
	assert.Equal(t, 3, report.Discrepancies)
	assert.Equal(t, domain.BalanceOutOfBalance, report.BalanceStatus)

	ids := make([]string, 0, len(report.Records))
	for _, rec := range report.Records {
		ids = append(ids, rec.TransactionID)
	}
	assert.Equal(t, []string{"T1", "REF7", "FILE_ONLY_NO_ID_0004", "T3"}, ids)

	// document nets: 100 - 40 + 1 = 61; ledger nets: 90 - 25 = 65
	assert.True(t, report.NetVariance.Equal(decimal.NewFromInt(-4)), report.NetVariance.String())
	assert.True(t, report.TotalDebitVariance.IsZero())
	assert.Equal(t, 3, report.Severity.High)
}

func TestReconcilePresence_InBalance(t *testing.T) {
	docs := documents([]string{"id", "credit"}, []string{"T1", "100.00"})
	report := usecase.ReconcilePresence(docs, []*domain.LedgerRecord{ledgerRecord("T1", "0", "90", 1)})

	assert.Equal(t, domain.BalanceInBalance, report.BalanceStatus)
	assert.True(t, report.NetVariance.Equal(decimal.NewFromInt(10)))
	require.Len(t, report.Records, 1)
	assert.Equal(t, domain.StatusMatched, report.Records[0].Status)
	assert.False(t, report.Records[0].Fields[0].HasDifference)
}

func TestReconcilePresence_Idempotent(t *testing.T) {
	docs := documents([]string{"id", "amount"},
		[]string{"A", "1"}, []string{"B", "-2"}, []string{"C", "3"},
	)
	ledger := []*domain.LedgerRecord{
		ledgerRecord("B", "2", "0", 1),
		ledgerRecord("D", "0", "4", 2),
	}

	first := usecase.ReconcilePresence(docs, ledger)
	second := usecase.ReconcilePresence(docs, ledger)

	require.Equal(t, first, second)
}
