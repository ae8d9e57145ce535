package types_test

import (
	"testing"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	"github.com/cascade-dex/cascade/x/amm/types"
)

// TestPool_Validate tests the reserve pairing rule and canonical ordering.
func TestPool_Validate(t *testing.T) {
	pool := types.Pool{
		TokenLow: "ucasc", TokenHigh: "uusdt",
		ReserveLow: math.NewInt(100), ReserveHigh: math.NewInt(200),
	}
	require.NoError(t, pool.Validate())

	empty := types.NewPool("ucasc", "uusdt")
	require.NoError(t, empty.Validate())
	require.True(t, empty.IsEmpty())

	oneSided := pool
	oneSided.ReserveHigh = math.ZeroInt()
	require.Error(t, oneSided.Validate())

	negative := pool
	negative.ReserveLow = math.NewInt(-1)
	require.Error(t, negative.Validate())

	misordered := types.Pool{
		TokenLow: "uusdt", TokenHigh: "ucasc",
		ReserveLow: math.NewInt(1), ReserveHigh: math.NewInt(1),
	}
	require.Error(t, misordered.Validate())

	samePair := types.Pool{
		TokenLow: "ucasc", TokenHigh: "ucasc",
		ReserveLow: math.NewInt(1), ReserveHigh: math.NewInt(1),
	}
	require.Error(t, samePair.Validate())

	nilReserve := types.Pool{TokenLow: "ucasc", TokenHigh: "uusdt"}
	require.Error(t, nilReserve.Validate())
}

// TestGenesisState_Validate tests the aggregate genesis checks.
func TestGenesisState_Validate(t *testing.T) {
	gs := types.GenesisState{
		Pools: []types.Pool{{
			TokenLow: "ucasc", TokenHigh: "uusdt",
			ReserveLow: math.NewInt(10), ReserveHigh: math.NewInt(20),
		}},
		ShareBalances: []types.ShareBalance{
			{Address: "cascade1alice", Balance: math.NewInt(7)},
			{Address: "cascade1bob", Balance: math.NewInt(3)},
		},
		ShareSupply: math.NewInt(10),
	}
	require.NoError(t, gs.Validate())

	dupPool := gs
	dupPool.Pools = append(dupPool.Pools, dupPool.Pools[0])
	require.Error(t, dupPool.Validate())

	dupHolder := gs
	dupHolder.ShareBalances = []types.ShareBalance{
		{Address: "cascade1alice", Balance: math.NewInt(5)},
		{Address: "cascade1alice", Balance: math.NewInt(5)},
	}
	require.Error(t, dupHolder.Validate())

	badSupply := gs
	badSupply.ShareSupply = math.NewInt(11)
	require.Error(t, badSupply.Validate())

	zeroBalance := gs
	zeroBalance.ShareBalances = []types.ShareBalance{
		{Address: "cascade1alice", Balance: math.ZeroInt()},
	}
	require.Error(t, zeroBalance.Validate())

	emptyPool := gs
	emptyPool.Pools = []types.Pool{types.NewPool("ucasc", "uusdt")}
	require.Error(t, emptyPool.Validate())
}
