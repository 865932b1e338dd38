package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"go.uber.org/mock/gomock"

	"github.com/iho/statementrecon/internal/domain"
	"github.com/iho/statementrecon/internal/usecase"
	"github.com/iho/statementrecon/internal/usecase/mocks"
)

var statementHeaders = []string{"transaction_id", "transaction_date", "debit_amount", "credit_amount"}

func statementRows() []*domain.RawRow {
	return []*domain.RawRow{
		domain.RawRowFrom(statementHeaders, []string{"T1", "2025-10-01", "100.00", "0.00"}),
		domain.RawRowFrom(statementHeaders, []string{"T2", "2025-10-02", "0.00", "20.00"}),
	}
}

func newReconciliationUseCase(
	t *testing.T,
	parser usecase.StatementParser,
	ledger usecase.LedgerRepository,
	reports usecase.ReportRepository,
) *usecase.ReconciliationUseCase {
	t.Helper()
	return usecase.NewReconciliationUseCase(parser, nil, ledger, reports, &mocks.SequenceIDGenerator{Prefix: "rep"}, nil, zerolog.Nop())
}

func TestReconcileUpload_ByTransactionIDStoresReport(t *testing.T) {
	ctrl := gomock.NewController(t)
	parser := mocks.NewMockStatementParser(ctrl)
	parser.EXPECT().Parse([]byte("file"), ".csv").Return(statementRows(), nil)

	ledgerRepo := mocks.NewMockLedgerRepository(ctrl)
	ledgerRepo.EXPECT().FetchTransactions(gomock.Any(), nil).Return([]*domain.LedgerRecord{
		ledgerRecord("T1", "100", "0", 1),
	}, nil)

	metrics := mocks.NewMockMetricsRecorder(ctrl)
	metrics.EXPECT().RecordParse("csv", 2, nil)
	metrics.EXPECT().RecordReconciliation(domain.ModeByTransactionID, gomock.Any(), gomock.Any(), nil)

	reports := mocks.NewInMemoryReportRepository()
	uc := usecase.NewReconciliationUseCase(parser, nil, ledgerRepo, reports, &mocks.SequenceIDGenerator{Prefix: "rep"}, metrics, zerolog.Nop())

	report, err := uc.ReconcileUpload(context.Background(), usecase.ReconcileUploadInput{
		Data: []byte("file"),
		Ext:  ".csv",
		Mode: domain.ModeByTransactionID,
	})
	if err != nil {
		t.Fatalf("ReconcileUpload returned error: %v", err)
	}
	if report.ID != "rep-1" {
		t.Fatalf("expected report id rep-1, got %s", report.ID)
	}
	if report.GeneratedAt.IsZero() {
		t.Fatal("expected generated_at to be set")
	}
	if report.Matched != 1 || report.DocumentOnly != 1 {
		t.Fatalf("unexpected partition: matched=%d document_only=%d", report.Matched, report.DocumentOnly)
	}

	stored, err := uc.GetReport(context.Background(), "rep-1")
	if err != nil {
		t.Fatalf("GetReport returned error: %v", err)
	}
	if stored != report {
		t.Fatal("expected stored report to be returned")
	}
}

func TestReconcileUpload_ByPeriodFetchesPeriod(t *testing.T) {
	ctrl := gomock.NewController(t)
	parser := mocks.NewMockStatementParser(ctrl)
	parser.EXPECT().Parse(gomock.Any(), "csv").Return(statementRows(), nil)

	period, err := domain.NewPeriod("2025-10-01", "2025-10-31")
	if err != nil {
		t.Fatalf("NewPeriod returned error: %v", err)
	}

	ledgerRepo := mocks.NewMockLedgerRepository(ctrl)
	ledgerRepo.EXPECT().FetchTransactions(gomock.Any(), period).Return([]*domain.LedgerRecord{
		ledgerRecord("T1", "100", "0", 1),
		ledgerRecord("T2", "0", "20", 2),
	}, nil)

	uc := newReconciliationUseCase(t, parser, ledgerRepo, nil)
	report, err := uc.ReconcileUpload(context.Background(), usecase.ReconcileUploadInput{
		Data:   []byte("file"),
		Ext:    "csv",
		Mode:   domain.ModeByPeriod,
		Period: period,
	})
	if err != nil {
		t.Fatalf("ReconcileUpload returned error: %v", err)
	}
	if report.Mode != domain.ModeByPeriod {
		t.Fatalf("expected mode by_period, got %s", report.Mode)
	}
	if report.BalanceStatus != domain.BalanceInBalance {
		t.Fatalf("expected In Balance, got %s", report.BalanceStatus)
	}
	if report.Discrepancies != 0 {
		t.Fatalf("expected no discrepancies, got %d", report.Discrepancies)
	}
}

func TestReconcileUpload_InvalidMode(t *testing.T) {
	ctrl := gomock.NewController(t)
	parser := mocks.NewMockStatementParser(ctrl)
	ledgerRepo := mocks.NewMockLedgerRepository(ctrl)

	uc := newReconciliationUseCase(t, parser, ledgerRepo, nil)
	_, err := uc.ReconcileUpload(context.Background(), usecase.ReconcileUploadInput{Mode: "sideways"})
	if !errors.Is(err, domain.ErrInvalidMode) {
		t.Fatalf("expected ErrInvalidMode, got %v", err)
	}
}

func TestReconcileUpload_ParseErrorPassesThrough(t *testing.T) {
	ctrl := gomock.NewController(t)
	parseErr := domain.NewParseError(domain.ErrEmptyFile, "no rows")
	parser := mocks.NewMockStatementParser(ctrl)
	parser.EXPECT().Parse(gomock.Any(), ".csv").Return(nil, parseErr)

	uc := newReconciliationUseCase(t, parser, mocks.NewMockLedgerRepository(ctrl), nil)
	_, err := uc.ReconcileUpload(context.Background(), usecase.ReconcileUploadInput{
		Data: []byte(""),
		Ext:  ".csv",
		Mode: domain.ModeByTransactionID,
	})

	var pe *domain.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if !errors.Is(err, domain.ErrEmptyFile) {
		t.Fatalf("expected ErrEmptyFile, got %v", err)
	}
}

func TestReconcileUpload_ValidationStopsBeforeLedger(t *testing.T) {
	ctrl := gomock.NewController(t)
	parser := mocks.NewMockStatementParser(ctrl)
	parser.EXPECT().Parse(gomock.Any(), gomock.Any()).Return([]*domain.RawRow{
		domain.RawRowFrom([]string{"memo"}, []string{"coffee"}),
	}, nil)

	// no FetchTransactions expectation: the ledger must not be touched
	ledgerRepo := mocks.NewMockLedgerRepository(ctrl)

	uc := newReconciliationUseCase(t, parser, ledgerRepo, nil)
	_, err := uc.ReconcileUpload(context.Background(), usecase.ReconcileUploadInput{
		Data: []byte("memo\ncoffee"),
		Ext:  ".csv",
		Mode: domain.ModeByTransactionID,
	})

	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if !errors.Is(err, domain.ErrMissingColumns) {
		t.Fatalf("expected ErrMissingColumns, got %v", err)
	}
}

func TestReconcileUpload_LedgerErrorIsWrapped(t *testing.T) {
	ctrl := gomock.NewController(t)
	parser := mocks.NewMockStatementParser(ctrl)
	parser.EXPECT().Parse(gomock.Any(), gomock.Any()).Return(statementRows(), nil)

	dbErr := errors.New("connection refused")
	ledgerRepo := mocks.NewMockLedgerRepository(ctrl)
	ledgerRepo.EXPECT().FetchTransactions(gomock.Any(), nil).Return(nil, dbErr)

	metrics := mocks.NewMockMetricsRecorder(ctrl)
	metrics.EXPECT().RecordParse(gomock.Any(), gomock.Any(), nil)
	metrics.EXPECT().RecordReconciliation(domain.ModeByTransactionID, nil, gomock.Any(), gomock.Any())

	uc := usecase.NewReconciliationUseCase(parser, nil, ledgerRepo, nil, &mocks.SequenceIDGenerator{}, metrics, zerolog.Nop())
	_, err := uc.ReconcileUpload(context.Background(), usecase.ReconcileUploadInput{
		Data: []byte("file"),
		Ext:  ".csv",
		Mode: domain.ModeByTransactionID,
	})
	if !errors.Is(err, dbErr) {
		t.Fatalf("expected wrapped ledger error, got %v", err)
	}
	if got := err.Error(); got != "fetch ledger: connection refused" {
		t.Fatalf("unexpected error text: %s", got)
	}
}

func TestReconcileUpload_SaveErrorIsWrapped(t *testing.T) {
	ctrl := gomock.NewController(t)
	parser := mocks.NewMockStatementParser(ctrl)
	parser.EXPECT().Parse(gomock.Any(), gomock.Any()).Return(statementRows(), nil)

	saveErr := errors.New("disk full")
	reports := mocks.NewMockReportRepository(ctrl)
	reports.EXPECT().Save(gomock.Any(), gomock.Any()).Return(saveErr)

	uc := newReconciliationUseCase(t, parser, mocks.NewInMemoryLedger(), reports)
	_, err := uc.ReconcileUpload(context.Background(), usecase.ReconcileUploadInput{
		Data: []byte("file"),
		Ext:  ".csv",
		Mode: domain.ModeByTransactionID,
	})
	if !errors.Is(err, saveErr) {
		t.Fatalf("expected save error, got %v", err)
	}
}

func TestReconcileByPeriod_UsesInMemoryLedgerFilter(t *testing.T) {
	ledger := mocks.NewInMemoryLedger(
		ledgerRecord("T1", "100", "0", 1),
		ledgerRecord("T5", "1", "0", 25),
	)
	uc := newReconciliationUseCase(t, nil, ledger, nil)

	period, _ := domain.NewPeriod("2025-10-01", "2025-10-10")
	docs := uc.ResolveRecords(statementRows()[:1])

	report, err := uc.ReconcileByPeriod(context.Background(), docs, period)
	if err != nil {
		t.Fatalf("ReconcileByPeriod returned error: %v", err)
	}
	if report.TotalLedgerRecords != 1 {
		t.Fatalf("expected one ledger record in period, got %d", report.TotalLedgerRecords)
	}
	if ledger.Calls() != 1 {
		t.Fatalf("expected one ledger fetch, got %d", ledger.Calls())
	}
}

func TestGetReport_NotFound(t *testing.T) {
	uc := newReconciliationUseCase(t, nil, nil, nil)
	if _, err := uc.GetReport(context.Background(), "missing"); !errors.Is(err, domain.ErrReportNotFound) {
		t.Fatalf("expected ErrReportNotFound without a repository, got %v", err)
	}

	uc = newReconciliationUseCase(t, nil, nil, mocks.NewInMemoryReportRepository())
	if _, err := uc.GetReport(context.Background(), "missing"); !errors.Is(err, domain.ErrReportNotFound) {
		t.Fatalf("expected ErrReportNotFound, got %v", err)
	}
}
