package keeper

import (
	"context"
	"fmt"

	"github.com/cascade-dex/cascade/x/bank/types"
)

// InitGenesis mints every genesis balance. Supplies are derived from the
// balances, so the genesis file cannot state an inconsistent supply.
func (k Keeper) InitGenesis(ctx context.Context, gs *types.GenesisState) error {
	if err := gs.Validate(); err != nil {
		return fmt.Errorf("bank genesis: %w", err)
	}
	for _, b := range gs.Balances {
		if err := k.Mint(ctx, b.Address, b.Token, b.Amount); err != nil {
			return fmt.Errorf("bank genesis: mint %s%s to %s: %w", b.Amount, b.Token, b.Address, err)
		}
	}
	return nil
}

// ExportGenesis captures every non-zero balance.
func (k Keeper) ExportGenesis() (*types.GenesisState, error) {
	balances, err := k.AllBalances()
	if err != nil {
		return nil, fmt.Errorf("bank export: %w", err)
	}
	gs := types.DefaultGenesis()
	gs.Balances = balances
	return gs, nil
}
