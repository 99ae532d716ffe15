package domain

// AppState is the full process-wide simulation state: one wallet plus one
// position per vault. It is owned by a single state container; everything
// else sees copies.
type AppState struct {
	Wallet    Wallet              `json:"wallet"`
	Positions map[string]Position `json:"positions"`
}

// NewAppState creates a state with the given wallet and no open positions.
func NewAppState(wallet Wallet) AppState {
	return AppState{
		Wallet:    wallet,
		Positions: make(map[string]Position),
	}
}

// Clone returns a deep copy. Mutating the copy never affects the original.
func (s AppState) Clone() AppState {
	out := AppState{
		Wallet:    s.Wallet.Clone(),
		Positions: make(map[string]Position, len(s.Positions)),
	}
	for id, p := range s.Positions {
		out.Positions[id] = p
	}
	return out
}
