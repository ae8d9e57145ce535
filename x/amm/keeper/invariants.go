package keeper

import (
	"context"
	"fmt"
	"strings"

	"cosmossdk.io/math"

	"github.com/cascade-dex/cascade/x/amm/types"
)

// Invariant checks one engine-wide consistency rule against committed
// state. It returns a report and whether the rule is broken.
type Invariant func(ctx context.Context) (string, bool)

// FormatInvariant renders an invariant report.
func FormatInvariant(module, name, msg string) string {
	return fmt.Sprintf("%s: %s invariant\n%s\n", module, name, msg)
}

// AllInvariants runs every engine invariant and stops at the first broken
// one.
func AllInvariants(k Keeper) Invariant {
	return func(ctx context.Context) (string, bool) {
		invariants := []Invariant{
			ReservePairingInvariant(k),
			ShareSupplyInvariant(k),
			CustodyBalanceInvariant(k),
		}
		for _, inv := range invariants {
			if msg, broken := inv(ctx); broken {
				return msg, true
			}
		}
		return "", false
	}
}

// ReservePairingInvariant checks that every stored pool is well-formed:
// canonical order, both reserves positive, and no record left behind for a
// drained pool.
func ReservePairingInvariant(k Keeper) Invariant {
	return func(_ context.Context) (string, bool) {
		pools, err := k.GetAllPools()
		if err != nil {
			return FormatInvariant(types.ModuleName, "reserve-pairing",
				fmt.Sprintf("failed to load pools: %v", err)), true
		}
		var (
			count int
			msg   strings.Builder
		)
		for _, pool := range pools {
			if err := pool.Validate(); err != nil {
				count++
				fmt.Fprintf(&msg, "\tpool %s: %v\n", pool.PairKey(), err)
				continue
			}
			if pool.IsEmpty() {
				count++
				fmt.Fprintf(&msg, "\tpool %s: drained pool record present\n", pool.PairKey())
			}
		}
		return FormatInvariant(types.ModuleName, "reserve-pairing",
			fmt.Sprintf("%d pools in violation\n%s", count, msg.String())), count != 0
	}
}

// ShareSupplyInvariant checks that the global share supply equals the sum
// of all holder balances.
func ShareSupplyInvariant(k Keeper) Invariant {
	return func(ctx context.Context) (string, bool) {
		balances, err := k.AllShareBalances()
		if err != nil {
			return FormatInvariant(types.ModuleName, "share-supply",
				fmt.Sprintf("failed to load share balances: %v", err)), true
		}
		total := math.ZeroInt()
		for _, sb := range balances {
			if sb.Balance.IsNegative() {
				return FormatInvariant(types.ModuleName, "share-supply",
					fmt.Sprintf("negative balance %s for %s", sb.Balance, sb.Address)), true
			}
			total = total.Add(sb.Balance)
		}
		supply, err := k.GetShareSupply(ctx)
		if err != nil {
			return FormatInvariant(types.ModuleName, "share-supply",
				fmt.Sprintf("failed to load share supply: %v", err)), true
		}
		if !total.Equal(supply) {
			return FormatInvariant(types.ModuleName, "share-supply",
				fmt.Sprintf("balances sum to %s, supply is %s", total, supply)), true
		}
		return "", false
	}
}

// CustodyBalanceInvariant checks that the custody account holds at least
// the reserves recorded across all pools, per token.
func CustodyBalanceInvariant(k Keeper) Invariant {
	return func(ctx context.Context) (string, bool) {
		pools, err := k.GetAllPools()
		if err != nil {
			return FormatInvariant(types.ModuleName, "custody-balance",
				fmt.Sprintf("failed to load pools: %v", err)), true
		}
		required := make(map[string]math.Int)
		for _, pool := range pools {
			addReserve(required, pool.TokenLow, pool.ReserveLow)
			addReserve(required, pool.TokenHigh, pool.ReserveHigh)
		}
		custody := k.bank.ModuleAddress()
		for token, want := range required {
			have, err := k.bank.Balance(ctx, custody, token)
			if err != nil {
				return FormatInvariant(types.ModuleName, "custody-balance",
					fmt.Sprintf("failed to read custody balance of %s: %v", token, err)), true
			}
			if have.LT(want) {
				return FormatInvariant(types.ModuleName, "custody-balance",
					fmt.Sprintf("custody holds %s%s, reserves require %s%s", have, token, want, token)), true
			}
		}
		return "", false
	}
}

func addReserve(acc map[string]math.Int, token string, amount math.Int) {
	cur, ok := acc[token]
	if !ok {
		cur = math.ZeroInt()
	}
	acc[token] = cur.Add(amount)
}
