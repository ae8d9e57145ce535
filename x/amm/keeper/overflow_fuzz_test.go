package keeper_test

import (
	"testing"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	keepertest "github.com/cascade-dex/cascade/testutil/keeper"
	"github.com/cascade-dex/cascade/x/amm/types"
)

// FuzzGetAmountOut checks the pricing formula never panics, never prices
// above the output reserve (when an input reserve exists), and respects the
// degenerate zero-reserve identity.
func FuzzGetAmountOut(f *testing.F) {
	f.Add(int64(1000000), int64(2000000), int64(100000))
	f.Add(int64(1), int64(1), int64(1))
	f.Add(int64(10), int64(0), int64(200))
	f.Add(int64(0), int64(55), int64(77))
	f.Add(int64(1<<62), int64(1<<62), int64(1<<62))

	f.Fuzz(func(t *testing.T, amountIn, reserveIn, reserveOut int64) {
		if amountIn < 0 || reserveIn < 0 || reserveOut < 0 {
			return
		}
		fx := keepertest.AmmKeeper(t)

		out, err := fx.Keeper.GetAmountOut(
			math.NewInt(amountIn), math.NewInt(reserveIn), math.NewInt(reserveOut))
		require.NoError(t, err)
		require.False(t, out.IsNegative())

		switch {
		case amountIn == 0 || reserveOut == 0:
			require.True(t, out.IsZero())
		case reserveIn == 0:
			require.Equal(t, math.NewInt(reserveOut), out)
		default:
			require.True(t, out.LT(math.NewInt(reserveOut)),
				"out %s not below reserve %d", out, reserveOut)
		}
	})
}

// FuzzSwapStateConsistency runs arbitrary swaps against a seeded pool and
// checks the reserve pairing and product rules survive every outcome.
func FuzzSwapStateConsistency(f *testing.F) {
	f.Add(int64(1_000_000), true)
	f.Add(int64(1), false)
	f.Add(int64(1<<50), true)

	f.Fuzz(func(t *testing.T, amountIn int64, forward bool) {
		if amountIn <= 0 {
			return
		}
		fx := keepertest.AmmKeeper(t)
		provider := "cascade1provider"
		keepertest.CreateTestPool(t, fx, provider, "ucasc", "uusdt", amount(100), amount(200))

		path := []string{"ucasc", "uusdt"}
		if !forward {
			path = []string{"uusdt", "ucasc"}
		}
		trader := "cascade1trader"
		in := math.NewInt(amountIn)
		fx.Fund(t, trader, path[0], in)

		before0, before1, err := fx.Keeper.GetReserves(fx.Ctx, path[0], path[1])
		require.NoError(t, err)

		msg := types.NewMsgSwapExactTokensForTokens(trader, in, math.OneInt(),
			path, trader, fx.Deadline())
		out, err := fx.Keeper.ExecuteSwap(fx.Ctx, msg)

		after0, after1, rerr := fx.Keeper.GetReserves(fx.Ctx, path[0], path[1])
		require.NoError(t, rerr)
		require.False(t, after0.IsNegative())
		require.False(t, after1.IsNegative())
		require.Equal(t, after0.IsZero(), after1.IsZero(), "one-sided reserves")

		if err != nil {
			// Only slippage can fail here; state must be untouched.
			require.True(t, types.ErrSlippageExceeded.Is(err), "unexpected error: %v", err)
			require.Equal(t, before0, after0)
			require.Equal(t, before1, after1)
			return
		}
		require.Equal(t, before0.Add(in), after0)
		require.Equal(t, before1.Sub(out), after1)
		require.True(t, after0.Mul(after1).GTE(before0.Mul(before1)), "product decreased")
	})
}
