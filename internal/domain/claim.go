package domain

import "time"

// ClaimEvent records one successful reward claim.
type ClaimEvent struct {
	Timestamp   time.Time   `json:"ts"`
	VaultID     string      `json:"vault_id"`
	Token       RewardToken `json:"token"`
	GrossTokens float64     `json:"gross_tokens"`
	NetTokens   float64     `json:"net_tokens"`
	FeePct      float64     `json:"fee_pct"`
	TxHash      string      `json:"tx_hash"`
}

// ClaimRecord bundles a claim event with its journal index.
type ClaimRecord struct {
	Index uint64     `json:"index"`
	Event ClaimEvent `json:"event"`
}
