package types

import "regexp"

// Token identifiers follow the usual denom shape, minus '/' and ':' which
// are reserved for storage keys.
var tokenRE = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9._-]{2,63}$`)

// ValidateToken checks that ident is a well-formed token identifier.
func ValidateToken(ident string) error {
	if !tokenRE.MatchString(ident) {
		return ErrInvalidToken.Wrapf("%q", ident)
	}
	return nil
}

// ValidateAddress checks that addr is a well-formed account address.
// Addresses are opaque to the engine; only shape is enforced.
func ValidateAddress(addr string) error {
	if addr == "" {
		return ErrInvalidAddress.Wrap("empty address")
	}
	if len(addr) > 90 {
		return ErrInvalidAddress.Wrapf("address exceeds 90 characters: %d", len(addr))
	}
	for _, r := range addr {
		if r <= ' ' || r > '~' {
			return ErrInvalidAddress.Wrapf("illegal character in %q", addr)
		}
	}
	return nil
}

// SortTokens canonicalizes an unordered pair into (low, high) order by
// identifier. The reversed flag reports whether the input order was
// swapped, so callers can translate results back to argument order.
func SortTokens(tokenA, tokenB string) (low, high string, reversed bool, err error) {
	if tokenA == tokenB {
		return "", "", false, ErrTokensMustDiffer.Wrapf("token %q given twice", tokenA)
	}
	if tokenA < tokenB {
		return tokenA, tokenB, false, nil
	}
	return tokenB, tokenA, true, nil
}

// PairKey joins a canonical pair into its storage key fragment.
func PairKey(tokenLow, tokenHigh string) string {
	return tokenLow + "/" + tokenHigh
}
