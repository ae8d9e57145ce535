package types

import (
	"cosmossdk.io/math"
)

// Pool holds the custodied reserves for one canonical token pair. Each pair
// is stored exactly once, in canonical order; accessors translate
// arbitrary-order queries into canonical lookups so the two directions can
// never drift apart.
type Pool struct {
	TokenLow    string   `json:"token_low"`
	TokenHigh   string   `json:"token_high"`
	ReserveLow  math.Int `json:"reserve_low"`
	ReserveHigh math.Int `json:"reserve_high"`
}

// NewPool returns an empty pool for the canonical pair (tokenLow, tokenHigh).
func NewPool(tokenLow, tokenHigh string) Pool {
	return Pool{
		TokenLow:    tokenLow,
		TokenHigh:   tokenHigh,
		ReserveLow:  math.ZeroInt(),
		ReserveHigh: math.ZeroInt(),
	}
}

// IsEmpty reports whether the pool holds no reserves. An empty pool is
// behaviorally identical to one that was never created.
func (p Pool) IsEmpty() bool {
	return p.ReserveLow.IsZero() && p.ReserveHigh.IsZero()
}

// PairKey returns the canonical storage key fragment for this pool's pair.
func (p Pool) PairKey() string {
	return PairKey(p.TokenLow, p.TokenHigh)
}

// Validate checks structural well-formedness and the reserve pairing rule:
// both reserves positive, or both zero.
func (p Pool) Validate() error {
	if err := ValidateToken(p.TokenLow); err != nil {
		return err
	}
	if err := ValidateToken(p.TokenHigh); err != nil {
		return err
	}
	if p.TokenLow == p.TokenHigh {
		return ErrTokensMustDiffer.Wrapf("pool pair %q/%q", p.TokenLow, p.TokenHigh)
	}
	if p.TokenLow > p.TokenHigh {
		return ErrCorruptedState.Wrapf("pair %s/%s not in canonical order", p.TokenLow, p.TokenHigh)
	}
	if p.ReserveLow.IsNil() || p.ReserveHigh.IsNil() {
		return ErrCorruptedState.Wrapf("pool %s has nil reserves", p.PairKey())
	}
	if p.ReserveLow.IsNegative() || p.ReserveHigh.IsNegative() {
		return ErrCorruptedState.Wrapf("pool %s has negative reserves %s/%s",
			p.PairKey(), p.ReserveLow, p.ReserveHigh)
	}
	if p.ReserveLow.IsZero() != p.ReserveHigh.IsZero() {
		return ErrCorruptedState.Wrapf("pool %s has one-sided reserves %s/%s",
			p.PairKey(), p.ReserveLow, p.ReserveHigh)
	}
	return nil
}
