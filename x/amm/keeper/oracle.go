package keeper

import (
	"context"

	"cosmossdk.io/math"

	"github.com/cascade-dex/cascade/x/amm/types"
)

// Read-only pricing queries. None of these take the engine lock and they
// may run at unlimited concurrency against committed state.

// GetSpotPrice quotes tokenB per unit of tokenA, scaled by PriceScale.
func (k Keeper) GetSpotPrice(ctx context.Context, tokenA, tokenB string) (math.Int, error) {
	reserveA, reserveB, err := k.GetReserves(ctx, tokenA, tokenB)
	if err != nil {
		return math.Int{}, err
	}
	if reserveA.IsZero() || reserveB.IsZero() {
		return math.Int{}, types.ErrInsufficientReserves.Wrapf("pair %s/%s", tokenA, tokenB)
	}
	return SafeMulDiv(reserveB, types.PriceScale, reserveA)
}

// GetAmountOut exposes the raw pricing formula for quoting against
// arbitrary reserves. Zero input or an empty output side yields zero
// rather than an error.
func (k Keeper) GetAmountOut(amountIn, reserveIn, reserveOut math.Int) (math.Int, error) {
	if amountIn.IsNil() || amountIn.IsNegative() {
		return math.Int{}, types.ErrInvalidAmount.Wrapf("amount in %v", amountIn)
	}
	if reserveIn.IsNil() || reserveIn.IsNegative() || reserveOut.IsNil() || reserveOut.IsNegative() {
		return math.Int{}, types.ErrInvalidAmount.Wrap("negative reserves")
	}
	return getAmountOut(amountIn, reserveIn, reserveOut)
}

// SimulateSwap quotes an exact-input swap against the current pool without
// mutating anything.
func (k Keeper) SimulateSwap(ctx context.Context, tokenIn, tokenOut string, amountIn math.Int) (math.Int, error) {
	if amountIn.IsNil() || amountIn.IsNegative() {
		return math.Int{}, types.ErrInvalidAmount.Wrapf("amount in %v", amountIn)
	}
	reserveIn, reserveOut, err := k.GetReserves(ctx, tokenIn, tokenOut)
	if err != nil {
		return math.Int{}, err
	}
	if reserveIn.IsZero() && reserveOut.IsZero() {
		return math.Int{}, types.ErrEmptyReserves.Wrapf("pair %s/%s", tokenIn, tokenOut)
	}
	return getAmountOut(amountIn, reserveIn, reserveOut)
}

// getAmountOut prices an exact-input swap: floor(amountIn * reserveOut /
// (reserveIn + amountIn)). The degenerate case reserveIn == 0 with a
// positive input reduces to exactly reserveOut and is kept as the formula
// dictates.
func getAmountOut(amountIn, reserveIn, reserveOut math.Int) (math.Int, error) {
	if amountIn.IsZero() || reserveOut.IsZero() {
		return math.ZeroInt(), nil
	}
	numerator, err := SafeMul(amountIn, reserveOut)
	if err != nil {
		return math.Int{}, err
	}
	denominator, err := SafeAdd(reserveIn, amountIn)
	if err != nil {
		return math.Int{}, err
	}
	return SafeQuo(numerator, denominator)
}
