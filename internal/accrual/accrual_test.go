package accrual

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vadiminshakov/keltra/internal/domain"
)

func suiVault() domain.Vault {
	return domain.Vault{
		ID:                 "suiUSD",
		Reward:             domain.TokenSUI,
		BaseAprStableLayer: 18,
		NaviSupplyApr:      4,
		PerformanceFeePct:  10,
		Status:             domain.VaultStatusLive,
	}
}

func TestAccrue_OneYearScenario(t *testing.T) {
	v := suiVault()
	require.InDelta(t, 19.8, v.NetApr(), 1e-12) // (18+4) * 0.9

	start := int64(1_700_000_000_000)
	p := domain.Position{PrincipalUsdc: 1_000_000, LastTs: start}

	oneYearLater := start + SecondsPerYear*1000
	got := Accrue(p, v, 4, oneYearLater)

	assert.InDelta(t, 198_000, got.AccruedUsd, 1e-4)
	assert.InDelta(t, 49_500, got.AccruedTokens, 1e-4)
	assert.Equal(t, oneYearLater, got.LastTs)
	assert.Equal(t, p.PrincipalUsdc, got.PrincipalUsdc)
	assert.Zero(t, got.LifetimeRewardTokens)
}

func TestAccrue_Idempotent(t *testing.T) {
	v := suiVault()
	start := int64(1_700_000_000_000)
	now := start + 90_000 // 90s elapsed
	p := domain.Position{PrincipalUsdc: 50_000, LastTs: start}

	first := Accrue(p, v, 4, now)
	second := Accrue(first, v, 4, now)

	assert.Equal(t, first, second)
}

func TestAccrue_Monotonic(t *testing.T) {
	v := suiVault()
	start := int64(1_700_000_000_000)
	p := domain.Position{PrincipalUsdc: 10_000, LastTs: start}

	prev := p
	for i := 1; i <= 10; i++ {
		next := Accrue(p, v, 4, start+int64(i)*1000)
		assert.GreaterOrEqual(t, next.LastTs, prev.LastTs)
		assert.GreaterOrEqual(t, next.AccruedUsd, prev.AccruedUsd)
		assert.GreaterOrEqual(t, next.AccruedTokens, prev.AccruedTokens)
		prev = next
	}
}

func TestAccrue_ZeroPrincipalAdvancesClockOnly(t *testing.T) {
	v := suiVault()
	start := int64(1_700_000_000_000)
	p := domain.Position{LastTs: start}

	got := Accrue(p, v, 4, start+60_000)

	assert.Equal(t, start+60_000, got.LastTs)
	assert.Zero(t, got.AccruedUsd)
	assert.Zero(t, got.AccruedTokens)
}

func TestAccrue_NegativeElapsedClampsToZero(t *testing.T) {
	v := suiVault()
	start := int64(1_700_000_000_000)
	p := domain.Position{
		PrincipalUsdc: 10_000,
		AccruedUsd:    12.5,
		AccruedTokens: 3.125,
		LastTs:        start,
	}

	// clock moved backwards: nothing accrues, LastTs follows now
	got := Accrue(p, v, 4, start-5_000)

	assert.Equal(t, start-5_000, got.LastTs)
	assert.Equal(t, p.AccruedUsd, got.AccruedUsd)
	assert.Equal(t, p.AccruedTokens, got.AccruedTokens)
}

func TestAccrue_MissingPricePausesTokenConversion(t *testing.T) {
	v := suiVault()
	start := int64(1_700_000_000_000)
	p := domain.Position{PrincipalUsdc: 1_000_000, LastTs: start}

	got := Accrue(p, v, 0, start+int64(SecondsPerYear)*1000)

	// USD accrual proceeds, token accrual is skipped for the interval
	assert.InDelta(t, 198_000, got.AccruedUsd, 1e-4)
	assert.Zero(t, got.AccruedTokens)
}

func TestAccrue_ZeroAprAdvancesClockOnly(t *testing.T) {
	v := suiVault()
	v.BaseAprStableLayer = 0
	v.NaviSupplyApr = 0
	start := int64(1_700_000_000_000)
	p := domain.Position{PrincipalUsdc: 10_000, LastTs: start}

	got := Accrue(p, v, 4, start+60_000)

	assert.Equal(t, start+60_000, got.LastTs)
	assert.Zero(t, got.AccruedUsd)
}

func TestChanged(t *testing.T) {
	base := domain.Position{PrincipalUsdc: 100, AccruedUsd: 1, AccruedTokens: 0.25, LastTs: 1000}

	t.Run("identical", func(t *testing.T) {
		assert.False(t, Changed(base, base))
	})

	t.Run("sub-tolerance gain without clock move", func(t *testing.T) {
		next := base
		next.AccruedUsd += 1e-9
		assert.False(t, Changed(base, next))
	})

	t.Run("clock move alone counts", func(t *testing.T) {
		next := base
		next.LastTs++
		assert.True(t, Changed(base, next))
	})

	t.Run("usd gain counts", func(t *testing.T) {
		next := base
		next.AccruedUsd += 1e-6
		assert.True(t, Changed(base, next))
	})
}
