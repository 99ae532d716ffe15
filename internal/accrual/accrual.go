// Package accrual implements the continuous reward-accrual engine: the pure
// state transition that converts elapsed wall-clock time and a position's
// principal into accrued USD value and reward-token quantity. The engine owns
// no state; the vaultapp container applies it inside every mutation and on
// every scheduler tick.
package accrual

import (
	"math"

	"github.com/vadiminshakov/keltra/internal/domain"
)

const (
	// SecondsPerYear uses the non-leap-year approximation. Accrual is simple
	// linear APR, no compounding within an interval.
	SecondsPerYear = 365 * 24 * 3600

	// ChangeTolerance is the threshold below which recomputed USD/token gains
	// are treated as no change, so callers can skip redundant state swaps.
	ChangeTolerance = 1e-8
)

// Accrue advances the position from its LastTs to now, crediting reward
// earned at the vault's fee-discounted APR against the current reward-token
// price. Calling it twice with the same now is a no-op the second time:
// the first call advances LastTs, collapsing the next delta to zero.
//
// Negative elapsed time clamps to zero and an empty principal accrues
// nothing; in both cases only LastTs moves. A missing or zero reward price
// pauses token conversion for the interval while USD value still accrues.
func Accrue(p domain.Position, v domain.Vault, rewardPrice float64, nowMs int64) domain.Position {
	deltaSeconds := math.Max(0, float64(nowMs-p.LastTs)/1000)

	if deltaSeconds <= 0 || p.PrincipalUsdc <= 0 {
		p.LastTs = nowMs
		return p
	}

	usdPerSecond := p.PrincipalUsdc * (v.NetApr() / 100) / SecondsPerYear
	if usdPerSecond <= 0 {
		p.LastTs = nowMs
		return p
	}

	usdGain := usdPerSecond * deltaSeconds
	tokenGain := 0.0
	if rewardPrice > 0 {
		tokenGain = usdGain / rewardPrice
	}

	p.AccruedUsd += usdGain
	p.AccruedTokens += tokenGain
	p.LastTs = nowMs
	return p
}

// Changed reports whether next differs from prev beyond ChangeTolerance on
// the accrued fields, or moved its timestamp at all.
func Changed(prev, next domain.Position) bool {
	return math.Abs(next.AccruedUsd-prev.AccruedUsd) > ChangeTolerance ||
		math.Abs(next.AccruedTokens-prev.AccruedTokens) > ChangeTolerance ||
		next.LastTs != prev.LastTs
}
