package keeper

import (
	"context"
	"encoding/json"
	"fmt"

	"cosmossdk.io/math"

	"github.com/cascade-dex/cascade/pkg/store"
	"github.com/cascade-dex/cascade/x/amm/types"
)

// GetPool loads the canonical pool record for (tokenLow, tokenHigh). A
// missing record is an empty pool; never-created and drained pools are
// indistinguishable.
func (k Keeper) GetPool(ctx context.Context, tokenLow, tokenHigh string) (types.Pool, error) {
	bz, err := k.kv(ctx).Get(PoolKey(tokenLow, tokenHigh))
	if err != nil {
		return types.Pool{}, fmt.Errorf("read pool %s: %w", types.PairKey(tokenLow, tokenHigh), err)
	}
	if len(bz) == 0 {
		return types.NewPool(tokenLow, tokenHigh), nil
	}
	var pool types.Pool
	if err := json.Unmarshal(bz, &pool); err != nil {
		return types.Pool{}, types.ErrCorruptedState.Wrapf("decode pool %s: %v", types.PairKey(tokenLow, tokenHigh), err)
	}
	return pool, nil
}

// SetPool persists pool after validating it. A drained pool's record is
// deleted outright so the empty state leaves no trace.
func (k Keeper) SetPool(ctx context.Context, pool types.Pool) error {
	if err := pool.Validate(); err != nil {
		return err
	}
	key := PoolKey(pool.TokenLow, pool.TokenHigh)
	kv := k.kv(ctx)
	if pool.IsEmpty() {
		return kv.Delete(key)
	}
	bz, err := json.Marshal(pool)
	if err != nil {
		return fmt.Errorf("encode pool %s: %w", pool.PairKey(), err)
	}
	return kv.Set(key, bz)
}

// GetReserves returns the reserves for (tokenA, tokenB) in argument order.
// This is the only read path for reserves; storage stays canonical so the
// two directions cannot drift apart.
func (k Keeper) GetReserves(ctx context.Context, tokenA, tokenB string) (math.Int, math.Int, error) {
	low, high, reversed, err := types.SortTokens(tokenA, tokenB)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	pool, err := k.GetPool(ctx, low, high)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	if reversed {
		return pool.ReserveHigh, pool.ReserveLow, nil
	}
	return pool.ReserveLow, pool.ReserveHigh, nil
}

// GetAllPools returns every active pool in canonical key order. It reads
// committed state only.
func (k Keeper) GetAllPools() ([]types.Pool, error) {
	it, err := store.IteratePrefix(k.db, PoolKeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("iterate pools: %w", err)
	}
	defer it.Close()

	var pools []types.Pool
	for ; it.Valid(); it.Next() {
		var pool types.Pool
		if err := json.Unmarshal(it.Value(), &pool); err != nil {
			return nil, types.ErrCorruptedState.Wrapf("decode pool key %X: %v", it.Key(), err)
		}
		pools = append(pools, pool)
	}
	return pools, it.Error()
}
