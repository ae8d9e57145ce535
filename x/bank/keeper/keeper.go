package keeper

import (
	"context"
	"fmt"
	"strings"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	dbm "github.com/cosmos/cosmos-db"

	"github.com/cascade-dex/cascade/pkg/store"
	"github.com/cascade-dex/cascade/x/bank/types"
)

// Keeper implements a minimal fungible token ledger backing the engine's
// pull/push transfer capability. It reads and writes through the staged
// transaction carried by ctx when one is open, so bank mutations commit or
// roll back together with engine state.
type Keeper struct {
	db         dbm.DB
	logger     log.Logger
	moduleAddr string
}

// NewKeeper wires the bank against db. moduleAddr is the custody account
// that SendToModule and SendFromModule operate against.
func NewKeeper(db dbm.DB, logger log.Logger, moduleAddr string) Keeper {
	return Keeper{
		db:         db,
		logger:     logger.With("module", "x/"+types.ModuleName),
		moduleAddr: moduleAddr,
	}
}

// ModuleAddress returns the custody account address.
func (k Keeper) ModuleAddress() string {
	return k.moduleAddr
}

func (k Keeper) kv(ctx context.Context) store.KV {
	return store.Resolve(ctx, k.db)
}

// Balance returns addr's balance of token. Missing balances are zero.
func (k Keeper) Balance(ctx context.Context, addr, token string) (math.Int, error) {
	bz, err := k.kv(ctx).Get(types.BalanceKey(addr, token))
	if err != nil {
		return math.Int{}, fmt.Errorf("bank: read balance: %w", err)
	}
	return unmarshalAmount(bz)
}

// Supply returns token's total minted supply.
func (k Keeper) Supply(ctx context.Context, token string) (math.Int, error) {
	bz, err := k.kv(ctx).Get(types.SupplyKey(token))
	if err != nil {
		return math.Int{}, fmt.Errorf("bank: read supply: %w", err)
	}
	return unmarshalAmount(bz)
}

// Mint credits amount of token to addr and grows the token's supply.
func (k Keeper) Mint(ctx context.Context, addr, token string, amount math.Int) error {
	if err := validateMovement(addr, token, amount); err != nil {
		return err
	}
	if amount.IsZero() {
		return nil
	}
	kv := k.kv(ctx)
	if err := k.addAmount(kv, types.BalanceKey(addr, token), amount); err != nil {
		return err
	}
	if err := k.addAmount(kv, types.SupplyKey(token), amount); err != nil {
		return err
	}
	k.logger.Debug("minted tokens", "to", addr, "token", token, "amount", amount.String())
	return nil
}

// Burn debits amount of token from addr and shrinks the token's supply.
func (k Keeper) Burn(ctx context.Context, addr, token string, amount math.Int) error {
	if err := validateMovement(addr, token, amount); err != nil {
		return err
	}
	if amount.IsZero() {
		return nil
	}
	kv := k.kv(ctx)
	if err := k.subAmount(kv, types.BalanceKey(addr, token), amount); err != nil {
		return err
	}
	if err := k.subAmount(kv, types.SupplyKey(token), amount); err != nil {
		return err
	}
	k.logger.Debug("burned tokens", "from", addr, "token", token, "amount", amount.String())
	return nil
}

// Send moves amount of token from one account to another. It fails without
// mutation when the sender's balance is insufficient.
func (k Keeper) Send(ctx context.Context, from, to, token string, amount math.Int) error {
	if err := validateMovement(from, token, amount); err != nil {
		return err
	}
	if to == "" {
		return types.ErrInvalidAddress.Wrap("empty recipient")
	}
	if amount.IsZero() {
		return nil
	}
	kv := k.kv(ctx)
	if err := k.subAmount(kv, types.BalanceKey(from, token), amount); err != nil {
		return err
	}
	return k.addAmount(kv, types.BalanceKey(to, token), amount)
}

// SendToModule pulls amount of token from addr into the custody account.
func (k Keeper) SendToModule(ctx context.Context, fromAddr, token string, amount math.Int) error {
	return k.Send(ctx, fromAddr, k.moduleAddr, token, amount)
}

// SendFromModule pushes amount of token from the custody account to addr.
func (k Keeper) SendFromModule(ctx context.Context, toAddr, token string, amount math.Int) error {
	return k.Send(ctx, k.moduleAddr, toAddr, token, amount)
}

// BalancesOf returns every token balance held by addr.
func (k Keeper) BalancesOf(addr string) (map[string]math.Int, error) {
	prefix := types.BalanceKey(addr, "")
	it, err := store.IteratePrefix(k.db, prefix)
	if err != nil {
		return nil, fmt.Errorf("bank: iterate balances: %w", err)
	}
	defer it.Close()

	out := make(map[string]math.Int)
	for ; it.Valid(); it.Next() {
		owner, token, ok := splitBalanceKey(it.Key())
		if !ok || owner != addr {
			continue
		}
		amt, err := unmarshalAmount(it.Value())
		if err != nil {
			return nil, err
		}
		out[token] = amt
	}
	return out, it.Error()
}

// AllBalances returns every non-zero balance in key order.
func (k Keeper) AllBalances() ([]types.Balance, error) {
	it, err := store.IteratePrefix(k.db, types.BalanceKeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("bank: iterate balances: %w", err)
	}
	defer it.Close()

	var out []types.Balance
	for ; it.Valid(); it.Next() {
		owner, token, ok := splitBalanceKey(it.Key())
		if !ok {
			return nil, fmt.Errorf("bank: malformed balance key %X", it.Key())
		}
		amt, err := unmarshalAmount(it.Value())
		if err != nil {
			return nil, err
		}
		out = append(out, types.Balance{Address: owner, Token: token, Amount: amt})
	}
	return out, it.Error()
}

func (k Keeper) addAmount(kv store.KV, key []byte, amount math.Int) error {
	bz, err := kv.Get(key)
	if err != nil {
		return fmt.Errorf("bank: read amount: %w", err)
	}
	cur, err := unmarshalAmount(bz)
	if err != nil {
		return err
	}
	return setAmount(kv, key, cur.Add(amount))
}

func (k Keeper) subAmount(kv store.KV, key []byte, amount math.Int) error {
	bz, err := kv.Get(key)
	if err != nil {
		return fmt.Errorf("bank: read amount: %w", err)
	}
	cur, err := unmarshalAmount(bz)
	if err != nil {
		return err
	}
	if cur.LT(amount) {
		return types.ErrInsufficientFunds.Wrapf("have %s, need %s", cur, amount)
	}
	return setAmount(kv, key, cur.Sub(amount))
}

func setAmount(kv store.KV, key []byte, amount math.Int) error {
	if amount.IsZero() {
		return kv.Delete(key)
	}
	bz, err := amount.Marshal()
	if err != nil {
		return fmt.Errorf("bank: marshal amount: %w", err)
	}
	return kv.Set(key, bz)
}

func unmarshalAmount(bz []byte) (math.Int, error) {
	if len(bz) == 0 {
		return math.ZeroInt(), nil
	}
	var amt math.Int
	if err := amt.Unmarshal(bz); err != nil {
		return math.Int{}, fmt.Errorf("bank: unmarshal amount: %w", err)
	}
	return amt, nil
}

func validateMovement(addr, token string, amount math.Int) error {
	if addr == "" {
		return types.ErrInvalidAddress.Wrap("empty address")
	}
	if token == "" {
		return types.ErrInvalidToken.Wrap("empty token")
	}
	if amount.IsNil() || amount.IsNegative() {
		return types.ErrInvalidAmount.Wrapf("amount %v", amount)
	}
	return nil
}

func splitBalanceKey(key []byte) (addr, token string, ok bool) {
	raw := string(key[len(types.BalanceKeyPrefix):])
	idx := strings.LastIndex(raw, "/")
	if idx <= 0 || idx == len(raw)-1 {
		return "", "", false
	}
	return raw[:idx], raw[idx+1:], true
}
