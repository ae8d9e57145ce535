package keeper

import (
	"context"
	"fmt"
	"time"

	"cosmossdk.io/math"

	"github.com/cascade-dex/cascade/pkg/store"
	"github.com/cascade-dex/cascade/x/amm/types"
)

// ExecuteSwap trades an exact input amount of path[0] for path[1] at the
// constant-product price. No fee is taken: floor rounding alone nudges the
// reserve product upward, so the product never decreases. Returns the
// realized output amount.
func (k Keeper) ExecuteSwap(ctx context.Context, msg *types.MsgSwapExactTokensForTokens) (math.Int, error) {
	start := time.Now()
	defer func() {
		k.metrics.OperationLatency.WithLabelValues(types.TypeMsgSwapExactTokensForTokens).Observe(time.Since(start).Seconds())
	}()

	var amountOut math.Int
	err := k.withGuard(ctx, types.TypeMsgSwapExactTokensForTokens, func(ctx context.Context) error {
		tokenIn, tokenOut := msg.Path[0], msg.Path[1]
		low, high, _, err := types.SortTokens(tokenIn, tokenOut)
		if err != nil {
			return err
		}

		tx := store.NewTx(k.db)
		ctx = store.WithTx(ctx, tx)

		pool, err := k.GetPool(ctx, low, high)
		if err != nil {
			return err
		}
		if pool.IsEmpty() {
			return types.ErrEmptyReserves.Wrapf("pool %s", pool.PairKey())
		}

		reserveIn, reserveOut := pool.ReserveLow, pool.ReserveHigh
		if tokenIn == high {
			reserveIn, reserveOut = reserveOut, reserveIn
		}

		amountOut, err = getAmountOut(msg.AmountIn, reserveIn, reserveOut)
		if err != nil {
			return err
		}
		if amountOut.LT(msg.AmountOutMin) {
			return types.ErrSlippageExceeded.Wrapf("expected at least %s, got %s", msg.AmountOutMin, amountOut)
		}

		oldK, err := SafeMul(pool.ReserveLow, pool.ReserveHigh)
		if err != nil {
			return err
		}

		if err := k.bank.SendToModule(ctx, msg.Creator, tokenIn, msg.AmountIn); err != nil {
			return types.ErrTransferFailed.Wrapf("pull %s%s: %v", msg.AmountIn, tokenIn, err)
		}
		if err := k.bank.SendFromModule(ctx, msg.Recipient, tokenOut, amountOut); err != nil {
			return types.ErrTransferFailed.Wrapf("push %s%s: %v", amountOut, tokenOut, err)
		}

		newReserveIn, err := SafeAdd(reserveIn, msg.AmountIn)
		if err != nil {
			return err
		}
		newReserveOut, err := SafeSub(reserveOut, amountOut)
		if err != nil {
			return err
		}
		if tokenIn == low {
			pool.ReserveLow, pool.ReserveHigh = newReserveIn, newReserveOut
		} else {
			pool.ReserveLow, pool.ReserveHigh = newReserveOut, newReserveIn
		}

		newK, err := SafeMul(pool.ReserveLow, pool.ReserveHigh)
		if err != nil {
			return err
		}
		if err := checkProductInvariant(oldK, newK); err != nil {
			return err
		}
		if err := k.SetPool(ctx, pool); err != nil {
			return err
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit swap: %w", err)
		}

		k.emit(types.NewSwapExecutedEvent(msg.Creator, msg.Recipient, msg.Path, []math.Int{msg.AmountIn, amountOut}))
		k.metrics.Swaps.Inc()
		k.metrics.SwapVolume.WithLabelValues(tokenIn).Add(intToFloat(msg.AmountIn))
		k.recordPoolGauges(pool)
		k.logger.Info("swap executed",
			"pair", pool.PairKey(),
			"trader", msg.Creator,
			"token_in", tokenIn,
			"amount_in", msg.AmountIn.String(),
			"amount_out", amountOut.String(),
		)
		return nil
	})
	if err != nil {
		k.metrics.OperationFailures.WithLabelValues(types.TypeMsgSwapExactTokensForTokens, string(types.ClassOf(err))).Inc()
		return math.Int{}, err
	}
	return amountOut, nil
}
