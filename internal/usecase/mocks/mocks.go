package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/iho/statementrecon/internal/domain"
)

// InMemoryLedger is an in-memory ledger store.
type InMemoryLedger struct {
	mu      sync.RWMutex
	records []*domain.LedgerRecord
	calls   int

	FetchTransactionsFunc func(ctx context.Context, period *domain.Period) ([]*domain.LedgerRecord, error)
}

// NewInMemoryLedger creates a ledger holding records.
func NewInMemoryLedger(records ...*domain.LedgerRecord) *InMemoryLedger {
	return &InMemoryLedger{records: records}
}

func (m *InMemoryLedger) FetchTransactions(ctx context.Context, period *domain.Period) ([]*domain.LedgerRecord, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if m.FetchTransactionsFunc != nil {
		return m.FetchTransactionsFunc(ctx, period)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.LedgerRecord, 0, len(m.records))
	for _, rec := range m.records {
		if period == nil || period.Contains(rec.TransactionDate) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (m *InMemoryLedger) Import(_ context.Context, records []*domain.LedgerRecord) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, records...)
	return len(records), nil
}

// Calls returns how many times FetchTransactions ran.
func (m *InMemoryLedger) Calls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls
}

// InMemoryReportRepository keeps reports in a map.
type InMemoryReportRepository struct {
	mu      sync.RWMutex
	reports map[string]*domain.ReconciliationReport

	SaveFunc func(ctx context.Context, report *domain.ReconciliationReport) error
}

func NewInMemoryReportRepository() *InMemoryReportRepository {
	return &InMemoryReportRepository{
		reports: make(map[string]*domain.ReconciliationReport),
	}
}

func (m *InMemoryReportRepository) Save(ctx context.Context, report *domain.ReconciliationReport) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, report)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reports[report.ID] = report
	return nil
}

func (m *InMemoryReportRepository) GetByID(_ context.Context, id string) (*domain.ReconciliationReport, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if r, ok := m.reports[id]; ok {
		return r, nil
	}
	return nil, domain.ErrReportNotFound
}

// SequenceIDGenerator returns predictable ids: prefix-1, prefix-2, ...
type SequenceIDGenerator struct {
	mu     sync.Mutex
	Prefix string
	n      int
}

func (g *SequenceIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	prefix := g.Prefix
	if prefix == "" {
		prefix = "report"
	}
	return fmt.Sprintf("%s-%d", prefix, g.n)
}
