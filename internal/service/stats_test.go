package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Dagmawialebachew/DigitalRevenueHilawe/internal/repository"
)

// stubPayments overrides only Stats; the embedded interface panics on
// anything else, which is exactly what these tests want.
type stubPayments struct {
	repository.PaymentRepository
	calls int
	stats *repository.LedgerStats
	err   error
}

func (s *stubPayments) Stats(ctx context.Context) (*repository.LedgerStats, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.stats, nil
}

func TestStatsCacheServesFreshSnapshot(t *testing.T) {
	stub := &stubPayments{stats: &repository.LedgerStats{Users: 5, Revenue: decimal.NewFromInt(100)}}
	cache := NewStatsCache(stub, time.Minute, zap.NewNop())
	ctx := context.Background()

	first, err := cache.Get(ctx)
	require.NoError(t, err)
	second, err := cache.Get(ctx)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, stub.calls)
}

func TestStatsCacheInvalidateForcesReload(t *testing.T) {
	stub := &stubPayments{stats: &repository.LedgerStats{Users: 5}}
	cache := NewStatsCache(stub, time.Minute, zap.NewNop())
	ctx := context.Background()

	_, err := cache.Get(ctx)
	require.NoError(t, err)
	cache.Invalidate()
	_, err = cache.Get(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, stub.calls)
}

func TestStatsCacheServesStaleOnError(t *testing.T) {
	stub := &stubPayments{stats: &repository.LedgerStats{Users: 5}}
	cache := NewStatsCache(stub, time.Nanosecond, zap.NewNop())
	ctx := context.Background()

	first, err := cache.Get(ctx)
	require.NoError(t, err)

	stub.err = errors.New("db down")
	time.Sleep(time.Millisecond)
	got, err := cache.Get(ctx)
	require.NoError(t, err)
	assert.Same(t, first, got)
}

func TestStatsCacheErrorWithNoSnapshot(t *testing.T) {
	stub := &stubPayments{err: errors.New("db down")}
	cache := NewStatsCache(stub, time.Minute, zap.NewNop())

	_, err := cache.Get(context.Background())
	assert.Error(t, err)
}
