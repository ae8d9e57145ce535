package types_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cascade-dex/cascade/x/amm/types"
)

// TestSortTokens_Canonicalization tests ordering and the reversed flag.
func TestSortTokens_Canonicalization(t *testing.T) {
	low, high, reversed, err := types.SortTokens("ucasc", "uusdt")
	require.NoError(t, err)
	require.Equal(t, "ucasc", low)
	require.Equal(t, "uusdt", high)
	require.False(t, reversed)

	low, high, reversed, err = types.SortTokens("uusdt", "ucasc")
	require.NoError(t, err)
	require.Equal(t, "ucasc", low)
	require.Equal(t, "uusdt", high)
	require.True(t, reversed)
}

// TestSortTokens_IdenticalTokens tests rejection of duplicate identifiers.
func TestSortTokens_IdenticalTokens(t *testing.T) {
	_, _, _, err := types.SortTokens("ucasc", "ucasc")
	require.Error(t, err)
	require.True(t, types.ErrTokensMustDiffer.Is(err))
}

// TestValidateToken tests the identifier shape rules.
func TestValidateToken(t *testing.T) {
	valid := []string{"ucasc", "uusdt", "atom", "wrapped.eth", "my-token_2"}
	for _, tok := range valid {
		require.NoError(t, types.ValidateToken(tok), tok)
	}

	invalid := []string{"", "ab", "1token", "u/casc", "tok en", "-lead", "t" + strings.Repeat("o", 64)}
	for _, tok := range invalid {
		err := types.ValidateToken(tok)
		require.Error(t, err, tok)
		require.True(t, types.ErrInvalidToken.Is(err), tok)
	}
}

// TestValidateAddress tests address shape enforcement.
func TestValidateAddress(t *testing.T) {
	require.NoError(t, types.ValidateAddress("cascade1alice"))

	for _, addr := range []string{"", "has space\ttab", string(make([]byte, 91))} {
		require.Error(t, types.ValidateAddress(addr))
	}
}

// TestPairKey tests the storage key fragment shape.
func TestPairKey(t *testing.T) {
	require.Equal(t, "ucasc/uusdt", types.PairKey("ucasc", "uusdt"))
}
