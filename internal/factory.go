package internal

import (
	"fmt"
	"os"

	binance "github.com/adshao/go-binance/v2"
	bybit "github.com/hirokisan/bybit/v2"
	"github.com/pkg/errors"

	"github.com/vadiminshakov/keltra/config"
	"github.com/vadiminshakov/keltra/internal/clients"
	"github.com/vadiminshakov/keltra/internal/services/pricer"
)

// NewPlatformClient builds the client for the configured price oracle.
// Hyperliquid needs a signing key from HYPERLIQUID_PRIVATE_KEY; the other
// platforms use public endpoints only.
func NewPlatformClient(conf config.Config) (any, error) {
	switch conf.Platform {
	case "static":
		prices := pricer.DefaultPrices()
		for token, price := range conf.StaticPrices() {
			prices[token] = price
		}
		return clients.NewStaticClient(prices), nil
	case "binance":
		return clients.NewBinanceClient("", ""), nil
	case "bybit":
		return clients.NewBybitClient("", ""), nil
	case "hyperliquid":
		key := os.Getenv("HYPERLIQUID_PRIVATE_KEY")
		if key == "" {
			return nil, errors.New("HYPERLIQUID_PRIVATE_KEY environment variable is not set")
		}
		client, err := clients.NewHyperliquidClient(key, hyperliquidBaseURL())
		if err != nil {
			return nil, errors.Wrap(err, "failed to create hyperliquid client")
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unsupported platform: %s", conf.Platform)
	}
}

// NewPricer dispatches to the platform-specific pricer for the client type.
// This is the single point of truth for oracle dispatch.
func NewPricer(client any) (pricer.Pricer, error) {
	switch c := client.(type) {
	case *clients.StaticClient:
		return pricer.NewStaticPricer(c.Prices()), nil
	case *binance.Client:
		return pricer.NewBinancePricer(c), nil
	case *bybit.Client:
		return pricer.NewBybitPricer(c), nil
	case *clients.HyperliquidClient:
		return pricer.NewHyperliquidPricer(c.Exchange().Info()), nil
	default:
		return nil, fmt.Errorf("unsupported client type: %T", client)
	}
}

func hyperliquidBaseURL() string {
	if url := os.Getenv("HYPERLIQUID_API_URL"); url != "" {
		return url
	}
	return "https://api.hyperliquid.xyz"
}
