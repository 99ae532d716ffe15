// Package pricefeed adapts a pricer into the degraded-but-never-failing feed
// the accrual engine consumes: a fetch failure yields the last known price,
// or zero when none exists, so a transient price gap pauses token conversion
// without interrupting USD accrual.
package pricefeed

import (
	"context"
	"sync"

	"github.com/vadiminshakov/keltra/internal/domain"
	"github.com/vadiminshakov/keltra/internal/services/pricer"
	"github.com/vadiminshakov/keltra/pkg/retrier"
	"go.uber.org/zap"
)

// Feed caches the last good price per token and retries fetches with backoff.
type Feed struct {
	mu        sync.RWMutex
	source    pricer.Pricer
	retrier   *retrier.Retrier
	logger    *zap.Logger
	lastKnown map[domain.RewardToken]float64
}

// New creates a feed over the given price source. Backoff behavior can be
// tuned through retrier options.
func New(source pricer.Pricer, logger *zap.Logger, opts ...retrier.Option) *Feed {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Feed{
		source:    source,
		retrier:   retrier.New(opts...),
		logger:    logger,
		lastKnown: make(map[domain.RewardToken]float64),
	}
}

// Price returns the current USD price of the token. It never returns an
// error: on failure the last known price is served, and 0 when the token has
// never been priced.
func (f *Feed) Price(ctx context.Context, token domain.RewardToken) float64 {
	value, err := retrier.DoWithData(f.retrier, ctx, func(ctx context.Context) (float64, error) {
		d, err := f.source.GetPrice(ctx, token)
		if err != nil {
			return 0, err
		}
		return d.InexactFloat64(), nil
	})
	if err != nil {
		f.mu.RLock()
		fallback := f.lastKnown[token]
		f.mu.RUnlock()
		f.logger.Warn("price fetch failed, serving last known price",
			zap.String("token", token.String()),
			zap.Float64("last_known", fallback),
			zap.Error(err))
		return fallback
	}

	if value > 0 {
		f.mu.Lock()
		f.lastKnown[token] = value
		f.mu.Unlock()
	}
	return value
}
