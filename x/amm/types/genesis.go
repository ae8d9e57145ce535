package types

import (
	"cosmossdk.io/math"
)

// ShareBalance is one holder's liquidity share balance.
type ShareBalance struct {
	Address string   `json:"address"`
	Balance math.Int `json:"balance"`
}

// GenesisState carries the full engine state: every active pool plus the
// global share ledger. Drained pools have no record and do not appear.
type GenesisState struct {
	Pools         []Pool         `json:"pools"`
	ShareBalances []ShareBalance `json:"share_balances"`
	ShareSupply   math.Int       `json:"share_supply"`
}

// DefaultGenesis returns the empty engine state.
func DefaultGenesis() *GenesisState {
	return &GenesisState{
		Pools:         []Pool{},
		ShareBalances: []ShareBalance{},
		ShareSupply:   math.ZeroInt(),
	}
}

// Validate checks pool well-formedness, pair uniqueness, share balance
// positivity and that balances sum to the recorded supply.
func (gs GenesisState) Validate() error {
	seenPairs := make(map[string]struct{}, len(gs.Pools))
	for _, pool := range gs.Pools {
		if err := pool.Validate(); err != nil {
			return err
		}
		if pool.IsEmpty() {
			return ErrCorruptedState.Wrapf("genesis pool %s is empty", pool.PairKey())
		}
		key := pool.PairKey()
		if _, ok := seenPairs[key]; ok {
			return ErrCorruptedState.Wrapf("duplicate genesis pool %s", key)
		}
		seenPairs[key] = struct{}{}
	}

	if gs.ShareSupply.IsNil() || gs.ShareSupply.IsNegative() {
		return ErrCorruptedState.Wrap("share supply must not be negative")
	}

	total := math.ZeroInt()
	seenAddrs := make(map[string]struct{}, len(gs.ShareBalances))
	for _, sb := range gs.ShareBalances {
		if err := ValidateAddress(sb.Address); err != nil {
			return err
		}
		if sb.Balance.IsNil() || !sb.Balance.IsPositive() {
			return ErrCorruptedState.Wrapf("share balance for %s must be positive", sb.Address)
		}
		if _, ok := seenAddrs[sb.Address]; ok {
			return ErrCorruptedState.Wrapf("duplicate share balance for %s", sb.Address)
		}
		seenAddrs[sb.Address] = struct{}{}
		total = total.Add(sb.Balance)
	}
	if !total.Equal(gs.ShareSupply) {
		return ErrCorruptedState.Wrapf("share balances sum to %s, supply is %s", total, gs.ShareSupply)
	}
	return nil
}
