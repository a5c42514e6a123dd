package service

import (
	"context"
	"sync"
	"time"

	"github.com/Dagmawialebachew/DigitalRevenueHilawe/internal/repository"
	"go.uber.org/zap"
)

// StatsCache serves the admin dashboard counters with a short TTL so a
// refresh-happy operator does not hammer the store. It is an owned,
// injected component: created at process start, cleared on shutdown, never
// ambient global state.
type StatsCache struct {
	payments repository.PaymentRepository
	ttl      time.Duration
	log      *zap.Logger

	mu      sync.Mutex
	cached  *repository.LedgerStats
	fetched time.Time
}

func NewStatsCache(payments repository.PaymentRepository, ttl time.Duration, log *zap.Logger) *StatsCache {
	return &StatsCache{payments: payments, ttl: ttl, log: log}
}

// Get returns the cached snapshot if it is fresh, otherwise reloads.
func (c *StatsCache) Get(ctx context.Context) (*repository.LedgerStats, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cached != nil && time.Since(c.fetched) < c.ttl {
		return c.cached, nil
	}

	stats, err := c.payments.Stats(ctx)
	if err != nil {
		// Serve stale data over an error if we have any.
		if c.cached != nil {
			c.log.Warn("stats reload failed, serving stale snapshot", zap.Error(err))
			return c.cached, nil
		}
		return nil, err
	}
	c.cached = stats
	c.fetched = time.Now()
	return stats, nil
}

// Invalidate drops the snapshot so the next Get reloads. Called after
// ledger transitions that change the counters.
func (c *StatsCache) Invalidate() {
	c.mu.Lock()
	c.cached = nil
	c.mu.Unlock()
}

// Clear releases the snapshot; used on shutdown.
func (c *StatsCache) Clear() {
	c.Invalidate()
}
