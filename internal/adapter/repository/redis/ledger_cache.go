package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/statementrecon/internal/domain"
	"github.com/iho/statementrecon/internal/usecase"
)

// CachedLedger caches ledger snapshots per period in front of another
// usecase.LedgerRepository. Cache failures fall back to the wrapped store.
type CachedLedger struct {
	next   usecase.LedgerRepository
	cache  usecase.Cache
	ttl    time.Duration
	logger zerolog.Logger
}

// NewCachedLedger creates a new CachedLedger.
func NewCachedLedger(next usecase.LedgerRepository, cache usecase.Cache, ttl time.Duration, logger zerolog.Logger) *CachedLedger {
	return &CachedLedger{
		next:   next,
		cache:  cache,
		ttl:    ttl,
		logger: logger,
	}
}

func ledgerKey(period *domain.Period) string {
	return "ledger:" + period.String()
}

// FetchTransactions returns the cached snapshot for period, loading and
// caching it on a miss.
func (l *CachedLedger) FetchTransactions(ctx context.Context, period *domain.Period) ([]*domain.LedgerRecord, error) {
	key := ledgerKey(period)

	data, err := l.cache.Get(ctx, key)
	switch {
	case err == nil:
		var records []*domain.LedgerRecord
		if err := json.Unmarshal(data, &records); err == nil {
			l.logger.Debug().Str("key", key).Int("records", len(records)).Msg("ledger cache hit")
			return records, nil
		}
		l.logger.Warn().Str("key", key).Msg("discarding unreadable ledger cache entry")
	case !errors.Is(err, ErrCacheMiss):
		l.logger.Warn().Err(err).Str("key", key).Msg("ledger cache read failed")
	}

	records, err := l.next.FetchTransactions(ctx, period)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(records); err == nil {
		if err := l.cache.Set(ctx, key, data, l.ttl); err != nil {
			l.logger.Warn().Err(err).Str("key", key).Msg("ledger cache write failed")
		}
	}
	return records, nil
}

// Invalidate drops the cached snapshot for period.
func (l *CachedLedger) Invalidate(ctx context.Context, period *domain.Period) error {
	return l.cache.Delete(ctx, ledgerKey(period))
}
