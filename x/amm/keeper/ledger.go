package keeper

import (
	"context"
	"fmt"

	"cosmossdk.io/math"

	"github.com/cascade-dex/cascade/pkg/store"
	"github.com/cascade-dex/cascade/x/amm/types"
)

// The share ledger is a single fungible class spanning every pool the
// engine manages. Deposits into unrelated pairs mint from, and dilute, the
// same supply.

// GetShareBalance returns addr's liquidity share balance.
func (k Keeper) GetShareBalance(ctx context.Context, addr string) (math.Int, error) {
	bz, err := k.kv(ctx).Get(ShareBalanceKey(addr))
	if err != nil {
		return math.Int{}, fmt.Errorf("read share balance: %w", err)
	}
	return unmarshalShares(bz)
}

// GetShareSupply returns the total liquidity share supply.
func (k Keeper) GetShareSupply(ctx context.Context) (math.Int, error) {
	bz, err := k.kv(ctx).Get(ShareSupplyKey)
	if err != nil {
		return math.Int{}, fmt.Errorf("read share supply: %w", err)
	}
	return unmarshalShares(bz)
}

// mintShares credits amount to addr and grows the supply.
func (k Keeper) mintShares(ctx context.Context, addr string, amount math.Int) error {
	if amount.IsNil() || amount.IsNegative() {
		return types.ErrInvalidAmount.Wrapf("mint shares %v", amount)
	}
	if amount.IsZero() {
		return nil
	}
	bal, err := k.GetShareBalance(ctx, addr)
	if err != nil {
		return err
	}
	if err := k.setShareBalance(ctx, addr, bal.Add(amount)); err != nil {
		return err
	}
	supply, err := k.GetShareSupply(ctx)
	if err != nil {
		return err
	}
	return k.setShareSupply(ctx, supply.Add(amount))
}

// burnShares debits amount from addr and shrinks the supply. An
// insufficient balance is a transfer failure, mirroring an external
// ledger rejecting the burn.
func (k Keeper) burnShares(ctx context.Context, addr string, amount math.Int) error {
	if amount.IsNil() || amount.IsNegative() {
		return types.ErrInvalidAmount.Wrapf("burn shares %v", amount)
	}
	if amount.IsZero() {
		return nil
	}
	bal, err := k.GetShareBalance(ctx, addr)
	if err != nil {
		return err
	}
	if bal.LT(amount) {
		return types.ErrTransferFailed.Wrapf("insufficient shares: have %s, need %s", bal, amount)
	}
	if err := k.setShareBalance(ctx, addr, bal.Sub(amount)); err != nil {
		return err
	}
	supply, err := k.GetShareSupply(ctx)
	if err != nil {
		return err
	}
	if supply.LT(amount) {
		return types.ErrCorruptedState.Wrapf("share supply %s below burn %s", supply, amount)
	}
	return k.setShareSupply(ctx, supply.Sub(amount))
}

// setShareBalance writes addr's balance, deleting the record at zero.
func (k Keeper) setShareBalance(ctx context.Context, addr string, amount math.Int) error {
	kv := k.kv(ctx)
	key := ShareBalanceKey(addr)
	if amount.IsZero() {
		return kv.Delete(key)
	}
	bz, err := amount.Marshal()
	if err != nil {
		return fmt.Errorf("marshal share balance: %w", err)
	}
	return kv.Set(key, bz)
}

func (k Keeper) setShareSupply(ctx context.Context, amount math.Int) error {
	kv := k.kv(ctx)
	if amount.IsZero() {
		return kv.Delete(ShareSupplyKey)
	}
	bz, err := amount.Marshal()
	if err != nil {
		return fmt.Errorf("marshal share supply: %w", err)
	}
	return kv.Set(ShareSupplyKey, bz)
}

// AllShareBalances returns every non-zero share balance in address order.
// It reads committed state only.
func (k Keeper) AllShareBalances() ([]types.ShareBalance, error) {
	it, err := store.IteratePrefix(k.db, ShareBalanceKeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("iterate share balances: %w", err)
	}
	defer it.Close()

	var out []types.ShareBalance
	for ; it.Valid(); it.Next() {
		amt, err := unmarshalShares(it.Value())
		if err != nil {
			return nil, err
		}
		addr := string(it.Key()[len(ShareBalanceKeyPrefix):])
		out = append(out, types.ShareBalance{Address: addr, Balance: amt})
	}
	return out, it.Error()
}

func unmarshalShares(bz []byte) (math.Int, error) {
	if len(bz) == 0 {
		return math.ZeroInt(), nil
	}
	var amt math.Int
	if err := amt.Unmarshal(bz); err != nil {
		return math.Int{}, types.ErrCorruptedState.Wrapf("unmarshal shares: %v", err)
	}
	return amt, nil
}
