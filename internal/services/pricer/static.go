package pricer

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/keltra/internal/domain"
)

// StaticPricer serves prices from a fixed in-memory table. It is the default
// mock feed of the simulation.
type StaticPricer struct {
	prices map[domain.RewardToken]decimal.Decimal
}

// NewStaticPricer creates a pricer from a float price table.
func NewStaticPricer(prices map[domain.RewardToken]float64) *StaticPricer {
	table := make(map[domain.RewardToken]decimal.Decimal, len(prices))
	for token, price := range prices {
		table[token] = decimal.NewFromFloat(price)
	}
	return &StaticPricer{prices: table}
}

// DefaultPrices is the built-in mock price table.
func DefaultPrices() map[domain.RewardToken]float64 {
	return map[domain.RewardToken]float64{
		domain.TokenBTC:  120_000,
		domain.TokenSUI:  4,
		domain.TokenETH:  4_400,
		domain.TokenUSDC: 1,
	}
}

func (p *StaticPricer) GetPrice(_ context.Context, token domain.RewardToken) (decimal.Decimal, error) {
	price, ok := p.prices[token]
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("no static price configured for %s", token)
	}
	return price, nil
}
