package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/iho/statementrecon/internal/domain"
)

func TestNewRegistersMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewWithRegisterer(registry)

	m.RecordParse("csv", 3, nil)

	metricFamilies, err := registry.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	if len(metricFamilies) == 0 {
		t.Fatalf("expected registered metrics, got none")
	}
}

func TestRecordParse(t *testing.T) {
	m := NewWithRegisterer(prometheus.NewRegistry())

	m.RecordParse("csv", 10, nil)
	m.RecordParse("csv", 4, nil)
	m.RecordParse("pdf", 0, errors.New("no text"))
	m.RecordParse("", 0, errors.New("unsupported"))

	if got := testutil.ToFloat64(m.DocumentsParsed.WithLabelValues("csv")); got != 2 {
		t.Fatalf("expected 2 csv documents, got %v", got)
	}
	if got := testutil.ToFloat64(m.ParseErrors.WithLabelValues("pdf")); got != 1 {
		t.Fatalf("expected 1 pdf parse error, got %v", got)
	}
	if got := testutil.ToFloat64(m.ParseErrors.WithLabelValues("unknown")); got != 1 {
		t.Fatalf("expected empty format to be labelled unknown, got %v", got)
	}
}

func TestRecordReconciliation(t *testing.T) {
	m := NewWithRegisterer(prometheus.NewRegistry())

	report := &domain.ReconciliationReport{
		TotalLedgerRecords: 12,
		Severity:           domain.SeverityCounts{Critical: 1, High: 3, Low: 2},
	}
	m.RecordReconciliation(domain.ModeByPeriod, report, 120*time.Millisecond, nil)
	m.RecordReconciliation(domain.ModeByPeriod, nil, time.Millisecond, errors.New("ledger down"))

	if got := testutil.ToFloat64(m.Reconciliations.WithLabelValues("by_period", "success")); got != 1 {
		t.Fatalf("expected 1 successful run, got %v", got)
	}
	if got := testutil.ToFloat64(m.Reconciliations.WithLabelValues("by_period", "error")); got != 1 {
		t.Fatalf("expected 1 failed run, got %v", got)
	}
	if got := testutil.ToFloat64(m.Discrepancies.WithLabelValues("high")); got != 3 {
		t.Fatalf("expected 3 high discrepancies, got %v", got)
	}
	if got := testutil.ToFloat64(m.Discrepancies.WithLabelValues("critical")); got != 1 {
		t.Fatalf("expected 1 critical discrepancy, got %v", got)
	}
	if got := testutil.CollectAndCount(m.Discrepancies); got != 3 {
		t.Fatalf("expected only non-zero severities to be recorded, got %d series", got)
	}
}
