package keeper

import (
	"github.com/cascade-dex/cascade/x/amm/types"
)

// Store key prefixes. Each pool is stored once under its canonical pair;
// the share ledger is global, not per pool.
var (
	// PoolKeyPrefix -> types.Pool (JSON)
	PoolKeyPrefix = []byte{0x01}
	// ShareBalanceKeyPrefix -> math.Int
	ShareBalanceKeyPrefix = []byte{0x02}
	// ShareSupplyKey -> math.Int
	ShareSupplyKey = []byte{0x03}
)

// PoolKey returns the store key for a canonical pair.
func PoolKey(tokenLow, tokenHigh string) []byte {
	return append(PoolKeyPrefix, []byte(types.PairKey(tokenLow, tokenHigh))...)
}

// ShareBalanceKey returns the store key for one holder's share balance.
func ShareBalanceKey(addr string) []byte {
	return append(ShareBalanceKeyPrefix, []byte(addr)...)
}
