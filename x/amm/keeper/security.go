package keeper

import (
	"context"
	"sync"

	"cosmossdk.io/math"

	"github.com/cascade-dex/cascade/x/amm/types"
)

// guardMarker marks a context as executing inside the engine's critical
// section.
type guardMarker struct{}

// guard is the engine-wide mutual exclusion for mutating operations. One
// lock covers every pool, so operations on unrelated pairs still
// serialize.
type guard struct {
	mu sync.Mutex
}

func newGuard() *guard {
	return &guard{}
}

// withGuard runs fn inside the critical section. Separate callers block
// until the section is free; a caller already inside it, such as a
// transfer hook calling back into the engine, is rejected instead of
// deadlocked. The section is released on every exit path.
func (k Keeper) withGuard(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	if inside := ctx.Value(guardMarker{}); inside != nil {
		k.metrics.ReentrancyRejections.Inc()
		return types.ErrNoReentrancy.Wrapf("%s invoked during %v", op, inside)
	}
	k.guard.mu.Lock()
	defer k.guard.mu.Unlock()
	return fn(context.WithValue(ctx, guardMarker{}, op))
}

// checkProductInvariant verifies a swap grew, or at worst preserved, the
// reserve product. Floor rounding rounds in the pool's favor, so the
// product never shrinks on a correct swap.
func checkProductInvariant(oldK, newK math.Int) error {
	if newK.LT(oldK) {
		return types.ErrInvariantViolation.Wrapf("old_k=%s, new_k=%s", oldK, newK)
	}
	return nil
}
