package keeper

import (
	"math/big"

	"cosmossdk.io/math"

	"github.com/cascade-dex/cascade/x/amm/types"
)

// IntegerSqrt returns the greatest integer y with y*y <= x, via Babylonian
// iteration. Inputs 0 and 1 are their own roots. The iteration converges in
// O(log x) steps and never touches floating point.
func IntegerSqrt(x math.Int) (math.Int, error) {
	if x.IsNil() || x.IsNegative() {
		return math.Int{}, types.ErrInvalidAmount.Wrap("square root of negative value")
	}
	b := x.BigInt()
	if b.Cmp(big.NewInt(2)) < 0 {
		return x, nil
	}
	z := new(big.Int).Set(b)
	y := new(big.Int).Add(b, big.NewInt(1))
	y.Rsh(y, 1)
	for y.Cmp(z) < 0 {
		z.Set(y)
		t := new(big.Int).Quo(b, y)
		y.Add(y, t)
		y.Rsh(y, 1)
	}
	return math.NewIntFromBigInt(z), nil
}
