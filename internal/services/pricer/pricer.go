// Package pricer provides reward-token USD price sources. The static pricer
// serves the mock price table; the exchange-backed pricers are drop-in live
// oracles behind the same interface.
package pricer

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/keltra/internal/domain"
)

// Pricer returns the current USD price of a reward token.
type Pricer interface {
	GetPrice(ctx context.Context, token domain.RewardToken) (decimal.Decimal, error)
}
