package domain

// Position is the per-vault record of the user's principal and
// accrued-but-unclaimed rewards. LastTs is milliseconds since epoch and
// marks the last settlement instant.
type Position struct {
	PrincipalUsdc        float64 `json:"principal_usdc"`
	AccruedUsd           float64 `json:"accrued_usd"`
	AccruedTokens        float64 `json:"accrued_tokens"`
	LifetimeRewardTokens float64 `json:"lifetime_reward_tokens"`
	LastTs               int64   `json:"last_ts"`
}

// NewPosition creates an empty position anchored at the given timestamp.
// Positions come into existence on first deposit into a vault.
func NewPosition(nowMs int64) Position {
	return Position{LastTs: nowMs}
}

// IsEmpty reports whether the position holds no principal.
func (p Position) IsEmpty() bool {
	return p.PrincipalUsdc <= 0
}
