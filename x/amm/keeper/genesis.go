package keeper

import (
	"context"
	"fmt"

	"github.com/cascade-dex/cascade/pkg/store"
	"github.com/cascade-dex/cascade/x/amm/types"
)

// InitGenesis loads pools and the share ledger. When the caller has not
// opened a staged transaction, one is opened here so the whole genesis
// lands atomically.
func (k Keeper) InitGenesis(ctx context.Context, gs *types.GenesisState) error {
	if err := gs.Validate(); err != nil {
		return fmt.Errorf("amm genesis: %w", err)
	}
	tx, opened := store.TxFrom(ctx)
	if !opened {
		tx = store.NewTx(k.db)
		ctx = store.WithTx(ctx, tx)
	}
	for _, pool := range gs.Pools {
		if err := k.SetPool(ctx, pool); err != nil {
			return fmt.Errorf("amm genesis: pool %s: %w", pool.PairKey(), err)
		}
	}
	for _, sb := range gs.ShareBalances {
		if err := k.setShareBalance(ctx, sb.Address, sb.Balance); err != nil {
			return fmt.Errorf("amm genesis: share balance %s: %w", sb.Address, err)
		}
	}
	if err := k.setShareSupply(ctx, gs.ShareSupply); err != nil {
		return fmt.Errorf("amm genesis: share supply: %w", err)
	}
	if !opened {
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("amm genesis: %w", err)
		}
	}
	k.logger.Info("genesis loaded", "pools", len(gs.Pools), "share_holders", len(gs.ShareBalances))
	return nil
}

// ExportGenesis snapshots committed engine state in deterministic key
// order.
func (k Keeper) ExportGenesis(ctx context.Context) (*types.GenesisState, error) {
	gs := types.DefaultGenesis()

	pools, err := k.GetAllPools()
	if err != nil {
		return nil, fmt.Errorf("amm export: %w", err)
	}
	if pools != nil {
		gs.Pools = pools
	}

	balances, err := k.AllShareBalances()
	if err != nil {
		return nil, fmt.Errorf("amm export: %w", err)
	}
	if balances != nil {
		gs.ShareBalances = balances
	}

	supply, err := k.GetShareSupply(ctx)
	if err != nil {
		return nil, fmt.Errorf("amm export: %w", err)
	}
	gs.ShareSupply = supply
	return gs, nil
}
