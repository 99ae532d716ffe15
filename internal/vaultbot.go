package internal

import (
	"context"
	"time"

	"github.com/vadiminshakov/keltra/config"
	"github.com/vadiminshakov/keltra/internal/domain"
	"github.com/vadiminshakov/keltra/internal/services/aprstats"
	"go.uber.org/zap"
)

// Settler advances reward accrual for every open position.
type Settler interface {
	SettleAll(ctx context.Context)
}

// VaultBot drives the accrual engine on a fixed cadence. Each tick settles
// every open position at the same instant, so one slow tick never skews the
// earned amounts: the next settlement covers the whole elapsed window.
type VaultBot struct {
	settler Settler
	conf    config.Config
	tracker *aprstats.Tracker
	catalog domain.Catalog
}

// NewVaultBot creates the accrual scheduler.
func NewVaultBot(conf config.Config, settler Settler) *VaultBot {
	return &VaultBot{settler: settler, conf: conf}
}

// WithAprTracker makes the bot record each vault's daily APR on every tick.
func (b *VaultBot) WithAprTracker(tracker *aprstats.Tracker, catalog domain.Catalog) *VaultBot {
	b.tracker = tracker
	b.catalog = catalog
	return b
}

// Run executes the settlement loop until ctx is cancelled.
func (b *VaultBot) Run(ctx context.Context, logger *zap.Logger) error {
	interval := b.conf.TickInterval
	if interval <= 0 {
		interval = time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Info("starting accrual loop", zap.Duration("tick_interval", interval))

	for {
		select {
		case <-ctx.Done():
			logger.Info("context done, stopping accrual loop")
			return ctx.Err()
		case <-ticker.C:
			b.settler.SettleAll(ctx)
			b.recordAprSamples()
		}
	}
}

func (b *VaultBot) recordAprSamples() {
	if b.tracker == nil {
		return
	}
	for _, vault := range b.catalog.Vaults() {
		b.tracker.Record(vault.ID, vault.NetApr()/365)
	}
}
