package keeper_test

import (
	"testing"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	keepertest "github.com/cascade-dex/cascade/testutil/keeper"
	"github.com/cascade-dex/cascade/x/amm/types"
)

// TestGetSpotPrice_Symmetry tests both price directions on reserves
// (100e18, 200e18): 2e18 one way, 5e17 the other.
func TestGetSpotPrice_Symmetry(t *testing.T) {
	f := keepertest.AmmKeeper(t)
	provider := "cascade1provider"
	keepertest.CreateTestPool(t, f, provider, "ucasc", "uusdt", amount(100), amount(200))

	price, err := f.Keeper.GetSpotPrice(f.Ctx, "ucasc", "uusdt")
	require.NoError(t, err)
	require.Equal(t, math.NewIntWithDecimal(2, 18), price)

	price, err = f.Keeper.GetSpotPrice(f.Ctx, "uusdt", "ucasc")
	require.NoError(t, err)
	require.Equal(t, math.NewIntWithDecimal(5, 17), price)
}

// TestGetSpotPrice_EmptyPool tests the insufficient-reserves failure on a
// pool with nothing in it.
func TestGetSpotPrice_EmptyPool(t *testing.T) {
	f := keepertest.AmmKeeper(t)

	_, err := f.Keeper.GetSpotPrice(f.Ctx, "ucasc", "uusdt")
	require.Error(t, err)
	require.True(t, types.ErrInsufficientReserves.Is(err))
}

// TestGetSpotPrice_SameToken tests the identical-token rejection.
func TestGetSpotPrice_SameToken(t *testing.T) {
	f := keepertest.AmmKeeper(t)

	_, err := f.Keeper.GetSpotPrice(f.Ctx, "ucasc", "ucasc")
	require.Error(t, err)
	require.True(t, types.ErrTokensMustDiffer.Is(err))
}

// TestGetAmountOut_Quotes tests the raw pricing formula across its defined
// cases, including the degenerate zero-input-reserve one.
func TestGetAmountOut_Quotes(t *testing.T) {
	f := keepertest.AmmKeeper(t)

	tests := []struct {
		name       string
		amountIn   math.Int
		reserveIn  math.Int
		reserveOut math.Int
		want       math.Int
	}{
		{"documented example", amount(10), amount(100), amount(200), math.NewIntFromUint64(18181818181818181818)},
		{"zero input yields zero", math.ZeroInt(), amount(100), amount(200), math.ZeroInt()},
		{"zero output reserve yields zero", amount(10), amount(100), math.ZeroInt(), math.ZeroInt()},
		// With no input reserve the formula reduces to exactly reserveOut.
		{"degenerate input reserve", amount(10), math.ZeroInt(), amount(200), amount(200)},
		{"degenerate tiny input", math.OneInt(), math.ZeroInt(), amount(55), amount(55)},
		{"everything zero", math.ZeroInt(), math.ZeroInt(), math.ZeroInt(), math.ZeroInt()},
		{"tiny input floors to zero", math.OneInt(), amount(100), math.NewInt(5), math.ZeroInt()},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := f.Keeper.GetAmountOut(tc.amountIn, tc.reserveIn, tc.reserveOut)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

// TestGetAmountOut_RejectsNegative tests that malformed inputs error instead
// of pricing.
func TestGetAmountOut_RejectsNegative(t *testing.T) {
	f := keepertest.AmmKeeper(t)

	_, err := f.Keeper.GetAmountOut(math.NewInt(-1), amount(100), amount(200))
	require.Error(t, err)
	require.True(t, types.ErrInvalidAmount.Is(err))

	_, err = f.Keeper.GetAmountOut(amount(1), math.NewInt(-1), amount(200))
	require.Error(t, err)
	require.True(t, types.ErrInvalidAmount.Is(err))
}

// TestSimulateSwap_MatchesExecution tests that the read-only quote equals the
// realized swap output and mutates nothing.
func TestSimulateSwap_MatchesExecution(t *testing.T) {
	f := keepertest.AmmKeeper(t)
	provider := "cascade1provider"
	keepertest.CreateTestPool(t, f, provider, "ucasc", "uusdt", amount(100), amount(200))

	quoted, err := f.Keeper.SimulateSwap(f.Ctx, "ucasc", "uusdt", amount(10))
	require.NoError(t, err)

	reserveA, reserveB, err := f.Keeper.GetReserves(f.Ctx, "ucasc", "uusdt")
	require.NoError(t, err)
	require.Equal(t, amount(100), reserveA)
	require.Equal(t, amount(200), reserveB)

	trader := "cascade1trader"
	f.Fund(t, trader, "ucasc", amount(10))
	msg := types.NewMsgSwapExactTokensForTokens(trader, amount(10), math.OneInt(),
		[]string{"ucasc", "uusdt"}, trader, f.Deadline())
	realized, err := f.Keeper.ExecuteSwap(f.Ctx, msg)
	require.NoError(t, err)
	require.Equal(t, quoted, realized)
}

// TestSimulateSwap_EmptyPool tests quoting against an empty pool.
func TestSimulateSwap_EmptyPool(t *testing.T) {
	f := keepertest.AmmKeeper(t)

	_, err := f.Keeper.SimulateSwap(f.Ctx, "ucasc", "uusdt", amount(10))
	require.Error(t, err)
	require.True(t, types.ErrEmptyReserves.Is(err))
}
