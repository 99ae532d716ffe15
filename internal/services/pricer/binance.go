package pricer

import (
	"context"
	"fmt"

	"github.com/adshao/go-binance/v2"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/keltra/internal/domain"
)

// BinancePricer fetches spot prices from the Binance public ticker API.
// Reward tokens are quoted against USDT, which the simulation treats as USD.
type BinancePricer struct {
	client *binance.Client
}

func NewBinancePricer(client *binance.Client) *BinancePricer {
	return &BinancePricer{client: client}
}

func (p *BinancePricer) GetPrice(ctx context.Context, token domain.RewardToken) (decimal.Decimal, error) {
	prices, err := p.client.NewListPricesService().Symbol(token.Symbol()).Do(ctx)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if len(prices) == 0 {
		return decimal.Decimal{}, fmt.Errorf("binance API returned empty prices for %s", token.Symbol())
	}

	return decimal.NewFromString(prices[0].Price)
}
