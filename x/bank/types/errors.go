package types

import (
	errorsmod "cosmossdk.io/errors"
)

// x/bank module sentinel errors
var (
	ErrInsufficientFunds = errorsmod.Register(ModuleName, 2, "insufficient funds")
	ErrInvalidAmount     = errorsmod.Register(ModuleName, 3, "invalid amount")
	ErrInvalidAddress    = errorsmod.Register(ModuleName, 4, "invalid address")
	ErrInvalidToken      = errorsmod.Register(ModuleName, 5, "invalid token")
)
