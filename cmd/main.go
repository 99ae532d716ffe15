// Command keltra runs a simulated DeFi yield-vault platform: deposits earn
// continuously accruing reward tokens at each vault's net APR, with a web
// dashboard streaming live state over SSE.
//
// Usage:
//
//	keltra --config config.yaml
//	keltra --setup (interactive configuration wizard)
//	keltra (uses CLI arguments)
//
// Reward token prices come from the configured oracle: the built-in static
// table, Binance, Bybit or Hyperliquid. Hyperliquid requires the
// HYPERLIQUID_PRIVATE_KEY environment variable.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/vadiminshakov/keltra/config"
	"github.com/vadiminshakov/keltra/internal"
	"github.com/vadiminshakov/keltra/internal/domain"
	"github.com/vadiminshakov/keltra/internal/events"
	"github.com/vadiminshakov/keltra/internal/services/aprstats"
	"github.com/vadiminshakov/keltra/internal/services/pricefeed"
	"github.com/vadiminshakov/keltra/internal/services/vaultapp"
	"github.com/vadiminshakov/keltra/internal/setup"
	"github.com/vadiminshakov/keltra/internal/storage/claims"
	"github.com/vadiminshakov/keltra/internal/web"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	conf, err := loadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	catalog, err := conf.Catalog()
	if err != nil {
		logger.Fatal("failed to build vault catalog", zap.Error(err))
	}

	client, err := internal.NewPlatformClient(conf)
	if err != nil {
		logger.Fatal("failed to create platform client", zap.Error(err))
	}

	source, err := internal.NewPricer(client)
	if err != nil {
		logger.Fatal("failed to create pricer", zap.Error(err))
	}
	feed := pricefeed.New(source, logger)

	journal, err := claims.NewWALStore(conf.JournalDir)
	if err != nil {
		logger.Fatal("failed to open claim journal", zap.Error(err))
	}
	defer func() {
		if err := journal.Close(); err != nil {
			logger.Warn("failed to close claim journal", zap.Error(err))
		}
	}()

	broadcaster := events.NewStateBroadcaster(64)
	app := vaultapp.New(
		catalog,
		feed,
		domain.NewWallet(conf.InitialUsdc.InexactFloat64()),
		logger,
		vaultapp.WithBroadcaster(broadcaster),
		vaultapp.WithClaimJournal(journal),
	)

	tracker := aprstats.NewTracker(60)
	for _, vault := range catalog.Vaults() {
		for _, sample := range vault.DailyApr {
			tracker.Record(vault.ID, sample)
		}
	}

	bot := internal.NewVaultBot(conf, app).WithAprTracker(tracker, catalog)
	server := web.NewServer(conf.ListenAddr, app, journal, broadcaster)
	server.AprStats = tracker

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return bot.Run(ctx, logger)
	})
	g.Go(func() error {
		if len(conf.TLSDomains) > 0 {
			logger.Info("starting dashboard with automatic TLS",
				zap.String("addr", conf.ListenAddr),
				zap.Strings("domains", conf.TLSDomains))
			return server.StartWithAutoTLS(ctx, conf.TLSDomains, conf.TLSCacheDir)
		}
		logger.Info("starting dashboard", zap.String("addr", conf.ListenAddr))
		return server.Start(ctx)
	})

	if err := g.Wait(); err != nil && ctx.Err() == nil {
		logger.Fatal("runtime error", zap.Error(err))
	}
	logger.Info("shutdown complete")
}

func loadConfig() (config.Config, error) {
	for _, arg := range os.Args[1:] {
		if arg == "--setup" || arg == "-setup" {
			if err := setup.RunTUI(); err != nil {
				return config.Config{}, err
			}
			return config.FromFile("config.gen.yaml")
		}
	}
	return config.Get()
}
