package types

const (
	// ModuleName defines the module name
	ModuleName = "bank"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName
)

var (
	// BalanceKeyPrefix is the prefix for per-account token balances
	BalanceKeyPrefix = []byte{0x01}
	// SupplyKeyPrefix is the prefix for per-token total supply
	SupplyKeyPrefix = []byte{0x02}
)

// BalanceKey returns the store key for one account's balance of token.
// Addresses may contain '/'; tokens may not, so keys parse from the right.
func BalanceKey(addr, token string) []byte {
	return append(BalanceKeyPrefix, []byte(addr+"/"+token)...)
}

// SupplyKey returns the store key for a token's total supply.
func SupplyKey(token string) []byte {
	return append(SupplyKeyPrefix, []byte(token)...)
}
