package types

import (
	"cosmossdk.io/math"
)

// Balance is one account's holding of one token.
type Balance struct {
	Address string   `json:"address"`
	Token   string   `json:"token"`
	Amount  math.Int `json:"amount"`
}

// GenesisState holds every non-zero balance. Supplies are derived on
// import.
type GenesisState struct {
	Balances []Balance `json:"balances"`
}

// DefaultGenesis returns an empty bank state.
func DefaultGenesis() *GenesisState {
	return &GenesisState{Balances: []Balance{}}
}

// Validate rejects duplicate (address, token) entries and non-positive
// amounts.
func (gs GenesisState) Validate() error {
	seen := make(map[string]struct{}, len(gs.Balances))
	for _, b := range gs.Balances {
		if b.Address == "" {
			return ErrInvalidAddress.Wrap("empty address in genesis balance")
		}
		if b.Token == "" {
			return ErrInvalidToken.Wrap("empty token in genesis balance")
		}
		if b.Amount.IsNil() || !b.Amount.IsPositive() {
			return ErrInvalidAmount.Wrapf("genesis balance for %s must be positive", b.Address)
		}
		key := b.Address + "/" + b.Token
		if _, ok := seen[key]; ok {
			return ErrInvalidAmount.Wrapf("duplicate genesis balance %s", key)
		}
		seen[key] = struct{}{}
	}
	return nil
}
