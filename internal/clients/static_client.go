package clients

import (
	"github.com/vadiminshakov/keltra/internal/domain"
)

// StaticClient is the offline platform client: it carries a fixed price
// table instead of an exchange connection.
type StaticClient struct {
	prices map[domain.RewardToken]float64
}

// NewStaticClient creates a static client with the given price table.
func NewStaticClient(prices map[domain.RewardToken]float64) *StaticClient {
	return &StaticClient{prices: prices}
}

// Prices returns the configured price table.
func (c *StaticClient) Prices() map[domain.RewardToken]float64 {
	return c.prices
}
