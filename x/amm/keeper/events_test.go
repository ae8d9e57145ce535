package keeper_test

import (
	"testing"
	"time"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	"github.com/cascade-dex/cascade/pkg/events"
	keepertest "github.com/cascade-dex/cascade/testutil/keeper"
	"github.com/cascade-dex/cascade/x/amm/types"
)

func nextEvent(t *testing.T, sub *events.Subscription) events.Event {
	t.Helper()
	select {
	case evt := <-sub.Events():
		return evt
	case <-time.After(time.Second):
		t.Fatal("no event delivered")
		return events.Event{}
	}
}

// TestNotifications_EmittedAfterSuccess tests that each operation publishes
// its notification with attributes in the caller's argument order.
func TestNotifications_EmittedAfterSuccess(t *testing.T) {
	f := keepertest.AmmKeeper(t)
	sub := f.Bus.Subscribe(16)
	defer sub.Close()

	alice := "cascade1alice"
	f.Fund(t, alice, "uusdt", amount(200))
	f.Fund(t, alice, "ucasc", amount(100))

	// Reversed argument order on purpose.
	add := types.NewMsgAddLiquidity(alice, "uusdt", "ucasc",
		amount(200), amount(100), amount(200), amount(100), alice, f.Deadline())
	_, _, minted, err := f.Keeper.AddLiquidity(f.Ctx, add)
	require.NoError(t, err)

	evt := nextEvent(t, sub)
	require.Equal(t, types.EventTypeLiquidityAdded, evt.Type)
	require.Equal(t, alice, evt.Attribute(types.AttributeKeyFrom))
	require.Equal(t, "uusdt", evt.Attribute(types.AttributeKeyTokenA))
	require.Equal(t, "ucasc", evt.Attribute(types.AttributeKeyTokenB))
	require.Equal(t, amount(200).String(), evt.Attribute(types.AttributeKeyAmountA))
	require.Equal(t, amount(100).String(), evt.Attribute(types.AttributeKeyAmountB))
	require.Equal(t, minted.String(), evt.Attribute(types.AttributeKeyLiquidity))
	require.False(t, evt.EmittedAt.IsZero())

	trader := "cascade1trader"
	f.Fund(t, trader, "ucasc", amount(10))
	swap := types.NewMsgSwapExactTokensForTokens(trader, amount(10), math.OneInt(),
		[]string{"ucasc", "uusdt"}, trader, f.Deadline())
	amountOut, err := f.Keeper.ExecuteSwap(f.Ctx, swap)
	require.NoError(t, err)

	evt = nextEvent(t, sub)
	require.Equal(t, types.EventTypeSwapExecuted, evt.Type)
	require.Equal(t, "ucasc,uusdt", evt.Attribute(types.AttributeKeyPath))
	require.Equal(t, amount(10).String()+","+amountOut.String(), evt.Attribute(types.AttributeKeyAmounts))

	remove := types.NewMsgRemoveLiquidity(alice, "uusdt", "ucasc",
		minted, math.ZeroInt(), math.ZeroInt(), alice, f.Deadline())
	_, _, err = f.Keeper.RemoveLiquidity(f.Ctx, remove)
	require.NoError(t, err)

	evt = nextEvent(t, sub)
	require.Equal(t, types.EventTypeLiquidityRemoved, evt.Type)
	require.Equal(t, minted.String(), evt.Attribute(types.AttributeKeyLiquidity))
	require.Equal(t, "uusdt", evt.Attribute(types.AttributeKeyTokenA))
}

// TestNotifications_NoneOnFailure tests that failed operations publish
// nothing.
func TestNotifications_NoneOnFailure(t *testing.T) {
	f := keepertest.AmmKeeper(t)
	sub := f.Bus.Subscribe(16)
	defer sub.Close()

	broke := "cascade1broke"
	msg := types.NewMsgSwapExactTokensForTokens(broke, amount(10), math.OneInt(),
		[]string{"ucasc", "uusdt"}, broke, f.Deadline())
	_, err := f.Keeper.ExecuteSwap(f.Ctx, msg)
	require.Error(t, err)

	select {
	case evt := <-sub.Events():
		t.Fatalf("unexpected event %q after failed swap", evt.Type)
	case <-time.After(50 * time.Millisecond):
	}
}
