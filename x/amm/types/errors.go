package types

import (
	errorsmod "cosmossdk.io/errors"
)

// x/amm module sentinel errors. Codes are grouped by failure class so
// transports can map an error without string matching: 2-19 validation,
// 20-29 state, 30-39 constraint, 40-44 temporal, 45-49 concurrency,
// 50-59 transfer, 60+ internal.
var (
	ErrZeroAmountIn            = errorsmod.Register(ModuleName, 2, "swap input amount must be positive")
	ErrZeroAmountOutMin        = errorsmod.Register(ModuleName, 3, "minimum output amount must be positive")
	ErrOnlyOnePairSwapsAllowed = errorsmod.Register(ModuleName, 4, "only single pair swaps are allowed")
	ErrTokensMustDiffer        = errorsmod.Register(ModuleName, 5, "pair tokens must differ")
	ErrZeroLiquidity           = errorsmod.Register(ModuleName, 6, "liquidity amount must be positive")
	ErrLiquidityTooLow         = errorsmod.Register(ModuleName, 7, "insufficient liquidity minted")
	ErrInvalidToken            = errorsmod.Register(ModuleName, 8, "invalid token identifier")
	ErrInvalidAddress          = errorsmod.Register(ModuleName, 9, "invalid address")
	ErrInvalidAmount           = errorsmod.Register(ModuleName, 10, "invalid amount")

	ErrEmptyReserves        = errorsmod.Register(ModuleName, 20, "pool has empty reserves")
	ErrInsufficientReserves = errorsmod.Register(ModuleName, 21, "insufficient reserves")

	ErrAmountsDoNotMeetConstraints = errorsmod.Register(ModuleName, 30, "deposit amounts do not meet constraints")
	ErrSlippageExceeded            = errorsmod.Register(ModuleName, 31, "slippage tolerance exceeded")
	ErrAmountATooLow               = errorsmod.Register(ModuleName, 32, "amount A below minimum")
	ErrAmountBTooLow               = errorsmod.Register(ModuleName, 33, "amount B below minimum")

	ErrTransactionExpired = errorsmod.Register(ModuleName, 40, "transaction deadline expired")

	ErrNoReentrancy = errorsmod.Register(ModuleName, 45, "reentrant call rejected")

	ErrTransferFailed = errorsmod.Register(ModuleName, 50, "token transfer failed")

	ErrOverflow           = errorsmod.Register(ModuleName, 60, "arithmetic overflow")
	ErrInvariantViolation = errorsmod.Register(ModuleName, 61, "constant product invariant violated")
	ErrCorruptedState     = errorsmod.Register(ModuleName, 62, "corrupted pool state")
)

// Class buckets engine failures for transport mapping.
type Class string

const (
	ClassValidation  Class = "validation"
	ClassState       Class = "state"
	ClassConstraint  Class = "constraint"
	ClassTemporal    Class = "temporal"
	ClassConcurrency Class = "concurrency"
	ClassTransfer    Class = "transfer"
	ClassInternal    Class = "internal"
)

// ClassOf maps an engine error to its failure class. Errors from other
// codespaces and unregistered errors are internal.
func ClassOf(err error) Class {
	codespace, code, _ := errorsmod.ABCIInfo(err, false)
	if codespace != ModuleName {
		return ClassInternal
	}
	switch {
	case code < 2:
		return ClassInternal
	case code < 20:
		return ClassValidation
	case code < 30:
		return ClassState
	case code < 40:
		return ClassConstraint
	case code < 45:
		return ClassTemporal
	case code < 50:
		return ClassConcurrency
	case code < 60:
		return ClassTransfer
	default:
		return ClassInternal
	}
}
