package domain

// MockAddress is the address shown while the simulated wallet is connected.
const MockAddress = "0xKEL...KELTRA"

// Wallet holds the spendable USDC balance and per-token reward balances
// credited on claim.
type Wallet struct {
	Connected bool                    `json:"connected"`
	Address   string                  `json:"address,omitempty"`
	Usdc      float64                 `json:"usdc"`
	Rewards   map[RewardToken]float64 `json:"rewards"`
}

// NewWallet creates a disconnected wallet with the given USDC balance and
// zeroed reward balances.
func NewWallet(usdc float64) Wallet {
	rewards := make(map[RewardToken]float64, len(RewardTokens))
	for _, t := range RewardTokens {
		rewards[t] = 0
	}
	return Wallet{Usdc: usdc, Rewards: rewards}
}

// Clone returns a deep copy of the wallet.
func (w Wallet) Clone() Wallet {
	out := w
	out.Rewards = make(map[RewardToken]float64, len(w.Rewards))
	for t, b := range w.Rewards {
		out.Rewards[t] = b
	}
	return out
}
