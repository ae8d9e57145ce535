package keeper

import (
	"context"
	"fmt"
	"time"

	"cosmossdk.io/math"

	"github.com/cascade-dex/cascade/pkg/store"
	"github.com/cascade-dex/cascade/x/amm/types"
)

// AddLiquidity deposits a token pair into its pool and mints liquidity
// shares to the message recipient. The first deposit into an empty pool is
// ratio-free and mints the floor square root of the amount product; later
// deposits must preserve the pool ratio within the caller's bounds.
// Returned amounts are in the caller's argument order.
func (k Keeper) AddLiquidity(ctx context.Context, msg *types.MsgAddLiquidity) (math.Int, math.Int, math.Int, error) {
	start := time.Now()
	defer func() {
		k.metrics.OperationLatency.WithLabelValues(types.TypeMsgAddLiquidity).Observe(time.Since(start).Seconds())
	}()

	var amountA, amountB, minted math.Int
	err := k.withGuard(ctx, types.TypeMsgAddLiquidity, func(ctx context.Context) error {
		if msg.AmountADesired.LT(msg.AmountAMin) || msg.AmountBDesired.LT(msg.AmountBMin) {
			return types.ErrAmountsDoNotMeetConstraints.Wrap("desired amounts below minimums")
		}
		low, high, reversed, err := types.SortTokens(msg.TokenA, msg.TokenB)
		if err != nil {
			return err
		}

		tx := store.NewTx(k.db)
		ctx = store.WithTx(ctx, tx)

		pool, err := k.GetPool(ctx, low, high)
		if err != nil {
			return err
		}
		reserveA, reserveB := pool.ReserveLow, pool.ReserveHigh
		if reversed {
			reserveA, reserveB = reserveB, reserveA
		}

		if pool.IsEmpty() {
			amountA, amountB = msg.AmountADesired, msg.AmountBDesired
			product, err := SafeMul(amountA, amountB)
			if err != nil {
				return err
			}
			minted, err = IntegerSqrt(product)
			if err != nil {
				return err
			}
			if !minted.IsPositive() {
				return types.ErrLiquidityTooLow.Wrapf("initial deposit %s/%s mints no shares", amountA, amountB)
			}
		} else {
			amountA, amountB, err = depositAmounts(msg, reserveA, reserveB)
			if err != nil {
				return err
			}
			supply, err := k.GetShareSupply(ctx)
			if err != nil {
				return err
			}
			byA, err := SafeMulDiv(amountA, supply, reserveA)
			if err != nil {
				return err
			}
			byB, err := SafeMulDiv(amountB, supply, reserveB)
			if err != nil {
				return err
			}
			minted = math.MinInt(byA, byB)
			if !minted.IsPositive() {
				return types.ErrLiquidityTooLow.Wrapf("deposit %s/%s mints no shares", amountA, amountB)
			}
		}

		if err := k.bank.SendToModule(ctx, msg.Creator, msg.TokenA, amountA); err != nil {
			return types.ErrTransferFailed.Wrapf("pull %s%s: %v", amountA, msg.TokenA, err)
		}
		if err := k.bank.SendToModule(ctx, msg.Creator, msg.TokenB, amountB); err != nil {
			return types.ErrTransferFailed.Wrapf("pull %s%s: %v", amountB, msg.TokenB, err)
		}
		if err := k.mintShares(ctx, msg.Recipient, minted); err != nil {
			return err
		}

		newReserveA, err := SafeAdd(reserveA, amountA)
		if err != nil {
			return err
		}
		newReserveB, err := SafeAdd(reserveB, amountB)
		if err != nil {
			return err
		}
		if reversed {
			pool.ReserveLow, pool.ReserveHigh = newReserveB, newReserveA
		} else {
			pool.ReserveLow, pool.ReserveHigh = newReserveA, newReserveB
		}
		if err := k.SetPool(ctx, pool); err != nil {
			return err
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit add liquidity: %w", err)
		}

		k.emit(types.NewLiquidityAddedEvent(msg.Creator, msg.Recipient, msg.TokenA, msg.TokenB, amountA, amountB, minted))
		k.metrics.LiquidityAdds.Inc()
		k.recordPoolGauges(pool)
		k.recordSupplyGauge(ctx)
		k.logger.Info("liquidity added",
			"pair", pool.PairKey(),
			"provider", msg.Creator,
			"amount_a", amountA.String(),
			"amount_b", amountB.String(),
			"shares", minted.String(),
		)
		return nil
	})
	if err != nil {
		k.metrics.OperationFailures.WithLabelValues(types.TypeMsgAddLiquidity, string(types.ClassOf(err))).Inc()
		return math.Int{}, math.Int{}, math.Int{}, err
	}
	return amountA, amountB, minted, nil
}

// depositAmounts resolves a ratio-preserving deposit against an active
// pool, in the caller's argument order. The B side is pinned to its
// desired amount first; if the derived A side leaves the caller's bounds,
// the A side is pinned instead and the derived B side must fit.
func depositAmounts(msg *types.MsgAddLiquidity, reserveA, reserveB math.Int) (math.Int, math.Int, error) {
	optimalA, err := SafeMulDiv(msg.AmountBDesired, reserveA, reserveB)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	if optimalA.GTE(msg.AmountAMin) && optimalA.LTE(msg.AmountADesired) {
		return optimalA, msg.AmountBDesired, nil
	}
	optimalB, err := SafeMulDiv(msg.AmountADesired, reserveB, reserveA)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	if optimalB.LT(msg.AmountBMin) || optimalB.GT(msg.AmountBDesired) {
		return math.Int{}, math.Int{}, types.ErrAmountsDoNotMeetConstraints.Wrapf(
			"optimal amount B %s outside [%s, %s]", optimalB, msg.AmountBMin, msg.AmountBDesired)
	}
	return msg.AmountADesired, optimalB, nil
}

// RemoveLiquidity burns the caller's liquidity shares and withdraws the
// proportional slice of both reserves to the message recipient. Returned
// amounts are in the caller's argument order. A withdrawal that drains the
// pool deletes its record.
func (k Keeper) RemoveLiquidity(ctx context.Context, msg *types.MsgRemoveLiquidity) (math.Int, math.Int, error) {
	start := time.Now()
	defer func() {
		k.metrics.OperationLatency.WithLabelValues(types.TypeMsgRemoveLiquidity).Observe(time.Since(start).Seconds())
	}()

	var amountA, amountB math.Int
	err := k.withGuard(ctx, types.TypeMsgRemoveLiquidity, func(ctx context.Context) error {
		low, high, reversed, err := types.SortTokens(msg.TokenA, msg.TokenB)
		if err != nil {
			return err
		}

		tx := store.NewTx(k.db)
		ctx = store.WithTx(ctx, tx)

		pool, err := k.GetPool(ctx, low, high)
		if err != nil {
			return err
		}
		reserveA, reserveB := pool.ReserveLow, pool.ReserveHigh
		if reversed {
			reserveA, reserveB = reserveB, reserveA
		}

		supply, err := k.GetShareSupply(ctx)
		if err != nil {
			return err
		}
		if supply.IsZero() {
			return types.ErrTransferFailed.Wrapf("insufficient shares: have 0, need %s", msg.Liquidity)
		}

		amountA, err = SafeMulDiv(msg.Liquidity, reserveA, supply)
		if err != nil {
			return err
		}
		amountB, err = SafeMulDiv(msg.Liquidity, reserveB, supply)
		if err != nil {
			return err
		}
		if amountA.LT(msg.AmountAMin) {
			return types.ErrAmountATooLow.Wrapf("withdrawal yields %s, minimum is %s", amountA, msg.AmountAMin)
		}
		if amountB.LT(msg.AmountBMin) {
			return types.ErrAmountBTooLow.Wrapf("withdrawal yields %s, minimum is %s", amountB, msg.AmountBMin)
		}

		if err := k.burnShares(ctx, msg.Creator, msg.Liquidity); err != nil {
			return err
		}
		if err := k.bank.SendFromModule(ctx, msg.Recipient, msg.TokenA, amountA); err != nil {
			return types.ErrTransferFailed.Wrapf("push %s%s: %v", amountA, msg.TokenA, err)
		}
		if err := k.bank.SendFromModule(ctx, msg.Recipient, msg.TokenB, amountB); err != nil {
			return types.ErrTransferFailed.Wrapf("push %s%s: %v", amountB, msg.TokenB, err)
		}

		newReserveA, err := SafeSub(reserveA, amountA)
		if err != nil {
			return err
		}
		newReserveB, err := SafeSub(reserveB, amountB)
		if err != nil {
			return err
		}
		if reversed {
			pool.ReserveLow, pool.ReserveHigh = newReserveB, newReserveA
		} else {
			pool.ReserveLow, pool.ReserveHigh = newReserveA, newReserveB
		}
		if err := k.SetPool(ctx, pool); err != nil {
			return err
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit remove liquidity: %w", err)
		}

		k.emit(types.NewLiquidityRemovedEvent(msg.Creator, msg.Recipient, msg.Liquidity, msg.TokenA, msg.TokenB, amountA, amountB))
		k.metrics.LiquidityRemovals.Inc()
		k.recordPoolGauges(pool)
		k.recordSupplyGauge(ctx)
		k.logger.Info("liquidity removed",
			"pair", pool.PairKey(),
			"provider", msg.Creator,
			"shares", msg.Liquidity.String(),
			"amount_a", amountA.String(),
			"amount_b", amountB.String(),
		)
		return nil
	})
	if err != nil {
		k.metrics.OperationFailures.WithLabelValues(types.TypeMsgRemoveLiquidity, string(types.ClassOf(err))).Inc()
		return math.Int{}, math.Int{}, err
	}
	return amountA, amountB, nil
}
