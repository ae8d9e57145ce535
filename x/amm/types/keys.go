package types

import "cosmossdk.io/math"

const (
	// ModuleName defines the module name
	ModuleName = "amm"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName

	// RouterKey is the message route for the module
	RouterKey = ModuleName

	// ModuleAccount is the custody account that holds every pool's
	// reserves. Deposits pull tokens into it and withdrawals and swap
	// outputs push tokens out of it.
	ModuleAccount = "amm_reserve_pool"
)

// PriceScale is the fixed-point scale for spot prices. All amounts and
// prices are raw integers scaled by 10^18.
var PriceScale = math.NewIntWithDecimal(1, 18)
