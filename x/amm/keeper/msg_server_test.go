package keeper_test

import (
	"testing"
	"time"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	keepertest "github.com/cascade-dex/cascade/testutil/keeper"
	"github.com/cascade-dex/cascade/x/amm/keeper"
	"github.com/cascade-dex/cascade/x/amm/types"
)

// TestMsgServer_DeadlineExpired tests that every mutating call with a past
// deadline fails before touching any state.
func TestMsgServer_DeadlineExpired(t *testing.T) {
	f := keepertest.AmmKeeper(t)
	ms := keeper.NewMsgServerImpl(*f.Keeper)
	provider := "cascade1provider"
	minted := keepertest.CreateTestPool(t, f, provider, "ucasc", "uusdt", amount(100), amount(200))
	f.Fund(t, provider, "ucasc", amount(10))
	f.Fund(t, provider, "uusdt", amount(20))

	past := f.Clock.Now().Add(-time.Second).Unix()

	_, err := ms.AddLiquidity(f.Ctx, types.NewMsgAddLiquidity(provider, "ucasc", "uusdt",
		amount(10), amount(20), math.OneInt(), math.OneInt(), provider, past))
	require.Error(t, err)
	require.True(t, types.ErrTransactionExpired.Is(err))

	_, err = ms.RemoveLiquidity(f.Ctx, types.NewMsgRemoveLiquidity(provider, "ucasc", "uusdt",
		minted, math.ZeroInt(), math.ZeroInt(), provider, past))
	require.Error(t, err)
	require.True(t, types.ErrTransactionExpired.Is(err))

	_, err = ms.SwapExactTokensForTokens(f.Ctx, types.NewMsgSwapExactTokensForTokens(provider,
		amount(10), math.OneInt(), []string{"ucasc", "uusdt"}, provider, past))
	require.Error(t, err)
	require.True(t, types.ErrTransactionExpired.Is(err))

	// Zero observable effect anywhere.
	reserveA, reserveB, err := f.Keeper.GetReserves(f.Ctx, "ucasc", "uusdt")
	require.NoError(t, err)
	require.Equal(t, amount(100), reserveA)
	require.Equal(t, amount(200), reserveB)
	supply, err := f.Keeper.GetShareSupply(f.Ctx)
	require.NoError(t, err)
	require.Equal(t, minted, supply)
}

// TestMsgServer_DeadlineBoundary tests that a deadline equal to the current
// time is still accepted.
func TestMsgServer_DeadlineBoundary(t *testing.T) {
	f := keepertest.AmmKeeper(t)
	ms := keeper.NewMsgServerImpl(*f.Keeper)
	provider := "cascade1provider"
	f.Fund(t, provider, "ucasc", amount(100))
	f.Fund(t, provider, "uusdt", amount(200))

	now := f.Clock.Now().Unix()
	resp, err := ms.AddLiquidity(f.Ctx, types.NewMsgAddLiquidity(provider, "ucasc", "uusdt",
		amount(100), amount(200), amount(100), amount(200), provider, now))
	require.NoError(t, err)
	require.True(t, resp.Liquidity.IsPositive())
}

// TestMsgServer_SwapValidationOrder tests that swap precondition failures
// surface in their fixed order: zero input, zero minimum, path length.
func TestMsgServer_SwapValidationOrder(t *testing.T) {
	f := keepertest.AmmKeeper(t)
	ms := keeper.NewMsgServerImpl(*f.Keeper)
	trader := "cascade1trader"

	// Everything is wrong here; the zero input must win.
	_, err := ms.SwapExactTokensForTokens(f.Ctx, types.NewMsgSwapExactTokensForTokens(trader,
		math.ZeroInt(), math.ZeroInt(), []string{"ucasc"}, trader, 0))
	require.Error(t, err)
	require.True(t, types.ErrZeroAmountIn.Is(err))

	// Positive input, zero minimum beats the bad path.
	_, err = ms.SwapExactTokensForTokens(f.Ctx, types.NewMsgSwapExactTokensForTokens(trader,
		amount(1), math.ZeroInt(), []string{"ucasc"}, trader, 0))
	require.Error(t, err)
	require.True(t, types.ErrZeroAmountOutMin.Is(err))

	// Path length next, ahead of the deadline.
	_, err = ms.SwapExactTokensForTokens(f.Ctx, types.NewMsgSwapExactTokensForTokens(trader,
		amount(1), math.OneInt(), []string{"ucasc", "uusdt", "uatom"}, trader, 0))
	require.Error(t, err)
	require.True(t, types.ErrOnlyOnePairSwapsAllowed.Is(err))

	// Deadline before the same-token check.
	_, err = ms.SwapExactTokensForTokens(f.Ctx, types.NewMsgSwapExactTokensForTokens(trader,
		amount(1), math.OneInt(), []string{"ucasc", "ucasc"}, trader, 0))
	require.Error(t, err)
	require.True(t, types.ErrTransactionExpired.Is(err))

	// With a live deadline the same-token failure surfaces.
	_, err = ms.SwapExactTokensForTokens(f.Ctx, types.NewMsgSwapExactTokensForTokens(trader,
		amount(1), math.OneInt(), []string{"ucasc", "ucasc"}, trader, f.Deadline()))
	require.Error(t, err)
	require.True(t, types.ErrTokensMustDiffer.Is(err))
}

// TestMsgServer_RemoveLiquidityZeroShares tests the zero-liquidity rejection.
func TestMsgServer_RemoveLiquidityZeroShares(t *testing.T) {
	f := keepertest.AmmKeeper(t)
	ms := keeper.NewMsgServerImpl(*f.Keeper)

	_, err := ms.RemoveLiquidity(f.Ctx, types.NewMsgRemoveLiquidity("cascade1provider",
		"ucasc", "uusdt", math.ZeroInt(), math.ZeroInt(), math.ZeroInt(), "cascade1provider", f.Deadline()))
	require.Error(t, err)
	require.True(t, types.ErrZeroLiquidity.Is(err))
}

// TestMsgServer_AddLiquidityResponseOrder tests that response amounts are in
// the caller's argument order for a reversed pair.
func TestMsgServer_AddLiquidityResponseOrder(t *testing.T) {
	f := keepertest.AmmKeeper(t)
	ms := keeper.NewMsgServerImpl(*f.Keeper)
	provider := "cascade1provider"
	f.Fund(t, provider, "uusdt", amount(200))
	f.Fund(t, provider, "ucasc", amount(100))

	resp, err := ms.AddLiquidity(f.Ctx, types.NewMsgAddLiquidity(provider, "uusdt", "ucasc",
		amount(200), amount(100), amount(200), amount(100), provider, f.Deadline()))
	require.NoError(t, err)
	require.Equal(t, amount(200), resp.AmountA)
	require.Equal(t, amount(100), resp.AmountB)
}

// TestMsgServer_SwapResponseAmounts tests the [amountIn, amountOut] response
// shape in path order.
func TestMsgServer_SwapResponseAmounts(t *testing.T) {
	f := keepertest.AmmKeeper(t)
	ms := keeper.NewMsgServerImpl(*f.Keeper)
	provider := "cascade1provider"
	keepertest.CreateTestPool(t, f, provider, "ucasc", "uusdt", amount(100), amount(200))

	trader := "cascade1trader"
	f.Fund(t, trader, "ucasc", amount(10))

	resp, err := ms.SwapExactTokensForTokens(f.Ctx, types.NewMsgSwapExactTokensForTokens(trader,
		amount(10), math.OneInt(), []string{"ucasc", "uusdt"}, trader, f.Deadline()))
	require.NoError(t, err)
	require.Len(t, resp.Amounts, 2)
	require.Equal(t, amount(10), resp.Amounts[0])
	expected, ok := math.NewIntFromString("18181818181818181818")
	require.True(t, ok)
	require.Equal(t, expected, resp.Amounts[1])
}
