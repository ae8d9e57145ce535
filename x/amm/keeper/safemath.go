package keeper

import (
	"math/big"

	"cosmossdk.io/math"

	"github.com/cascade-dex/cascade/x/amm/types"
)

// Arithmetic is capped at 256-bit width to match the engine's wire
// convention for amounts. Intermediate products in SafeMulDiv may exceed
// the cap; only final results are bounded.
var maxSafeInt = new(big.Int).Exp(big.NewInt(2), big.NewInt(256), nil)

// SafeAdd returns a+b, rejecting results at or above 2^256.
func SafeAdd(a, b math.Int) (math.Int, error) {
	result := new(big.Int).Add(a.BigInt(), b.BigInt())
	if result.Cmp(maxSafeInt) >= 0 {
		return math.Int{}, types.ErrOverflow.Wrapf("add: %s + %s", a, b)
	}
	return math.NewIntFromBigInt(result), nil
}

// SafeSub returns a-b, rejecting negative results.
func SafeSub(a, b math.Int) (math.Int, error) {
	result := new(big.Int).Sub(a.BigInt(), b.BigInt())
	if result.Sign() < 0 {
		return math.Int{}, types.ErrOverflow.Wrapf("sub underflow: %s - %s", a, b)
	}
	return math.NewIntFromBigInt(result), nil
}

// SafeMul returns a*b, rejecting results at or above 2^256.
func SafeMul(a, b math.Int) (math.Int, error) {
	result := new(big.Int).Mul(a.BigInt(), b.BigInt())
	if result.Cmp(maxSafeInt) >= 0 {
		return math.Int{}, types.ErrOverflow.Wrapf("mul: %s * %s", a, b)
	}
	return math.NewIntFromBigInt(result), nil
}

// SafeQuo returns floor(a/b), rejecting division by zero.
func SafeQuo(a, b math.Int) (math.Int, error) {
	if b.IsZero() {
		return math.Int{}, types.ErrOverflow.Wrapf("division by zero: %s / 0", a)
	}
	result := new(big.Int).Quo(a.BigInt(), b.BigInt())
	return math.NewIntFromBigInt(result), nil
}

// SafeMulDiv returns floor(a*b/c). The product is computed at full
// precision before the division, so a*b may pass 2^256 as long as the
// quotient does not.
func SafeMulDiv(a, b, c math.Int) (math.Int, error) {
	if c.IsZero() {
		return math.Int{}, types.ErrOverflow.Wrapf("division by zero: %s * %s / 0", a, b)
	}
	product := new(big.Int).Mul(a.BigInt(), b.BigInt())
	result := product.Quo(product, c.BigInt())
	if result.Cmp(maxSafeInt) >= 0 {
		return math.Int{}, types.ErrOverflow.Wrapf("muldiv: %s * %s / %s", a, b, c)
	}
	return math.NewIntFromBigInt(result), nil
}
