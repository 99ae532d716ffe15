package internal

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vadiminshakov/keltra/config"
	"github.com/vadiminshakov/keltra/internal/domain"
	"github.com/vadiminshakov/keltra/internal/services/aprstats"
	"go.uber.org/zap"
)

type countingSettler struct {
	ticks atomic.Int64
}

func (s *countingSettler) SettleAll(_ context.Context) {
	s.ticks.Add(1)
}

func TestVaultBot_RunSettlesOnTicks(t *testing.T) {
	settler := &countingSettler{}
	bot := NewVaultBot(config.Config{TickInterval: 5 * time.Millisecond}, settler)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	err := bot.Run(ctx, zap.NewNop())
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Greater(t, settler.ticks.Load(), int64(5))
}

func TestVaultBot_RunStopsOnCancel(t *testing.T) {
	settler := &countingSettler{}
	bot := NewVaultBot(config.Config{TickInterval: time.Hour}, settler)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := bot.Run(ctx, zap.NewNop())
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, settler.ticks.Load())
}

func TestVaultBot_RecordsAprSamples(t *testing.T) {
	catalog, err := domain.NewCatalog([]domain.Vault{{
		ID:                 "suiUSD",
		Name:               "SUI Yield Vault",
		Reward:             domain.TokenSUI,
		BaseAprStableLayer: 18,
		NaviSupplyApr:      4,
		PerformanceFeePct:  10,
		Status:             domain.VaultStatusLive,
	}})
	require.NoError(t, err)

	tracker := aprstats.NewTracker(3)
	settler := &countingSettler{}
	bot := NewVaultBot(config.Config{TickInterval: 5 * time.Millisecond}, settler).
		WithAprTracker(tracker, catalog)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_ = bot.Run(ctx, zap.NewNop())

	samples := tracker.Samples("suiUSD")
	require.NotEmpty(t, samples)
	assert.InDelta(t, 19.8/365, samples[0], 1e-9)
}
