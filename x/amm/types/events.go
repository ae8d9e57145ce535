package types

import (
	"strings"

	"cosmossdk.io/math"

	"github.com/cascade-dex/cascade/pkg/events"
)

// Event types emitted by the engine after an operation commits.
const (
	EventTypeLiquidityAdded   = "liquidity_added"
	EventTypeLiquidityRemoved = "liquidity_removed"
	EventTypeSwapExecuted     = "swap_executed"
)

// Event attribute keys.
const (
	AttributeKeyFrom      = "from"
	AttributeKeyTo        = "to"
	AttributeKeyTokenA    = "token_a"
	AttributeKeyTokenB    = "token_b"
	AttributeKeyAmountA   = "amount_a"
	AttributeKeyAmountB   = "amount_b"
	AttributeKeyLiquidity = "liquidity"
	AttributeKeyPath      = "path"
	AttributeKeyAmounts   = "amounts"
)

// NewLiquidityAddedEvent reports a deposit in the caller's argument order.
func NewLiquidityAddedEvent(from, to, tokenA, tokenB string, amountA, amountB, liquidity math.Int) events.Event {
	return events.Event{
		Type: EventTypeLiquidityAdded,
		Attributes: map[string]string{
			AttributeKeyFrom:      from,
			AttributeKeyTo:        to,
			AttributeKeyTokenA:    tokenA,
			AttributeKeyTokenB:    tokenB,
			AttributeKeyAmountA:   amountA.String(),
			AttributeKeyAmountB:   amountB.String(),
			AttributeKeyLiquidity: liquidity.String(),
		},
	}
}

// NewLiquidityRemovedEvent reports a withdrawal in the caller's argument
// order.
func NewLiquidityRemovedEvent(from, to string, liquidity math.Int, tokenA, tokenB string, amountA, amountB math.Int) events.Event {
	return events.Event{
		Type: EventTypeLiquidityRemoved,
		Attributes: map[string]string{
			AttributeKeyFrom:      from,
			AttributeKeyTo:        to,
			AttributeKeyLiquidity: liquidity.String(),
			AttributeKeyTokenA:    tokenA,
			AttributeKeyTokenB:    tokenB,
			AttributeKeyAmountA:   amountA.String(),
			AttributeKeyAmountB:   amountB.String(),
		},
	}
}

// NewSwapExecutedEvent reports a swap in original path order.
func NewSwapExecutedEvent(from, to string, path []string, amounts []math.Int) events.Event {
	return events.Event{
		Type: EventTypeSwapExecuted,
		Attributes: map[string]string{
			AttributeKeyFrom:    from,
			AttributeKeyTo:      to,
			AttributeKeyPath:    strings.Join(path, ","),
			AttributeKeyAmounts: joinAmounts(amounts),
		},
	}
}

func joinAmounts(amounts []math.Int) string {
	parts := make([]string, len(amounts))
	for i, a := range amounts {
		parts[i] = a.String()
	}
	return strings.Join(parts, ",")
}
