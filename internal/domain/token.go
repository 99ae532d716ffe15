// Package domain defines core data structures used throughout the vault simulator.
package domain

import "fmt"

// RewardToken identifies the token a vault pays rewards in.
type RewardToken string

const (
	TokenBTC  RewardToken = "BTC"
	TokenETH  RewardToken = "ETH"
	TokenSUI  RewardToken = "SUI"
	TokenUSDC RewardToken = "USDC"
)

// RewardTokens lists every supported reward token.
var RewardTokens = []RewardToken{TokenBTC, TokenETH, TokenSUI, TokenUSDC}

// ParseRewardToken converts a string to a RewardToken.
func ParseRewardToken(s string) (RewardToken, error) {
	switch RewardToken(s) {
	case TokenBTC, TokenETH, TokenSUI, TokenUSDC:
		return RewardToken(s), nil
	default:
		return "", fmt.Errorf("unknown reward token: %s", s)
	}
}

// String returns the token symbol.
func (t RewardToken) String() string {
	return string(t)
}

// Symbol returns the concatenated exchange symbol quoted in USDT.
func (t RewardToken) Symbol() string {
	return fmt.Sprintf("%sUSDT", t)
}
