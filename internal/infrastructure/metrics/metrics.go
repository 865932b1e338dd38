package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/iho/statementrecon/internal/domain"
	"github.com/iho/statementrecon/internal/usecase"
)

// Metrics holds all Prometheus metrics and implements usecase.MetricsRecorder.
type Metrics struct {
	// Reconciliation metrics
	Reconciliations        *prometheus.CounterVec
	ReconciliationDuration *prometheus.HistogramVec
	Discrepancies          *prometheus.CounterVec
	LedgerRecords          prometheus.Histogram

	// Parsing metrics
	DocumentsParsed *prometheus.CounterVec
	ParseErrors     *prometheus.CounterVec
	RowsParsed      prometheus.Histogram
}

// New creates and registers all Prometheus metrics on the default registerer.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer creates all metrics on reg.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		Reconciliations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "statementrecon_reconciliations_total",
				Help: "Total reconciliation runs by mode and outcome",
			},
			[]string{"mode", "status"},
		),
		ReconciliationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "statementrecon_reconciliation_duration_seconds",
				Help:    "Duration of reconciliation runs including the ledger fetch",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"mode"},
		),
		Discrepancies: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "statementrecon_discrepancies_total",
				Help: "Field discrepancies found, by severity",
			},
			[]string{"severity"},
		),
		LedgerRecords: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "statementrecon_ledger_records",
			Help:    "Ledger records compared per reconciliation",
			Buckets: []float64{10, 100, 1000, 10000, 100000, 1000000},
		}),
		DocumentsParsed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "statementrecon_documents_parsed_total",
				Help: "Statements parsed successfully, by format",
			},
			[]string{"format"},
		),
		ParseErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "statementrecon_parse_errors_total",
				Help: "Statements that failed to parse, by format",
			},
			[]string{"format"},
		),
		RowsParsed: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "statementrecon_rows_parsed",
			Help:    "Rows extracted per statement",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000},
		}),
	}
}

// RecordParse records the outcome of parsing one statement.
func (m *Metrics) RecordParse(format string, rows int, err error) {
	if format == "" {
		format = "unknown"
	}
	if err != nil {
		m.ParseErrors.WithLabelValues(format).Inc()
		return
	}
	m.DocumentsParsed.WithLabelValues(format).Inc()
	m.RowsParsed.Observe(float64(rows))
}

// RecordReconciliation records one reconciliation run.
func (m *Metrics) RecordReconciliation(mode domain.Mode, report *domain.ReconciliationReport, duration time.Duration, err error) {
	status := usecase.OutcomeSuccess
	if err != nil {
		status = usecase.OutcomeError
	}

	m.Reconciliations.WithLabelValues(string(mode), status).Inc()
	m.ReconciliationDuration.WithLabelValues(string(mode)).Observe(duration.Seconds())

	if report == nil {
		return
	}

	m.LedgerRecords.Observe(float64(report.TotalLedgerRecords))
	for severity, n := range map[domain.Severity]int{
		domain.SeverityCritical: report.Severity.Critical,
		domain.SeverityHigh:     report.Severity.High,
		domain.SeverityMedium:   report.Severity.Medium,
		domain.SeverityLow:      report.Severity.Low,
	} {
		if n > 0 {
			m.Discrepancies.WithLabelValues(string(severity)).Add(float64(n))
		}
	}
}
