package types

import (
	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
)

const TypeMsgAddLiquidity = "add_liquidity"

// MsgAddLiquidity deposits a token pair into a pool in exchange for
// liquidity shares minted to Recipient.
type MsgAddLiquidity struct {
	Creator        string   `json:"creator"`
	TokenA         string   `json:"token_a"`
	TokenB         string   `json:"token_b"`
	AmountADesired math.Int `json:"amount_a_desired"`
	AmountBDesired math.Int `json:"amount_b_desired"`
	AmountAMin     math.Int `json:"amount_a_min"`
	AmountBMin     math.Int `json:"amount_b_min"`
	Recipient      string   `json:"recipient"`
	Deadline       int64    `json:"deadline"`
}

// MsgAddLiquidityResponse reports the amounts actually deposited, in
// argument order, and the shares minted.
type MsgAddLiquidityResponse struct {
	AmountA   math.Int `json:"amount_a"`
	AmountB   math.Int `json:"amount_b"`
	Liquidity math.Int `json:"liquidity"`
}

func NewMsgAddLiquidity(creator, tokenA, tokenB string, amountADesired, amountBDesired, amountAMin, amountBMin math.Int, recipient string, deadline int64) *MsgAddLiquidity {
	return &MsgAddLiquidity{
		Creator:        creator,
		TokenA:         tokenA,
		TokenB:         tokenB,
		AmountADesired: amountADesired,
		AmountBDesired: amountBDesired,
		AmountAMin:     amountAMin,
		AmountBMin:     amountBMin,
		Recipient:      recipient,
		Deadline:       deadline,
	}
}

func (msg *MsgAddLiquidity) Route() string {
	return RouterKey
}

func (msg *MsgAddLiquidity) Type() string {
	return TypeMsgAddLiquidity
}

// ValidateBasic performs stateless checks. Relations between message fields
// (desired versus minimum, identical tokens) are enforced by the engine
// after the deadline check.
func (msg *MsgAddLiquidity) ValidateBasic() error {
	if err := ValidateAddress(msg.Creator); err != nil {
		return errorsmod.Wrap(err, "creator")
	}
	if err := ValidateAddress(msg.Recipient); err != nil {
		return errorsmod.Wrap(err, "recipient")
	}
	if err := ValidateToken(msg.TokenA); err != nil {
		return errorsmod.Wrap(err, "token A")
	}
	if err := ValidateToken(msg.TokenB); err != nil {
		return errorsmod.Wrap(err, "token B")
	}
	if msg.AmountADesired.IsNil() || msg.AmountADesired.IsNegative() {
		return errorsmod.Wrap(ErrInvalidAmount, "amount A desired must not be negative")
	}
	if msg.AmountBDesired.IsNil() || msg.AmountBDesired.IsNegative() {
		return errorsmod.Wrap(ErrInvalidAmount, "amount B desired must not be negative")
	}
	if msg.AmountAMin.IsNil() || msg.AmountAMin.IsNegative() {
		return errorsmod.Wrap(ErrInvalidAmount, "amount A min must not be negative")
	}
	if msg.AmountBMin.IsNil() || msg.AmountBMin.IsNegative() {
		return errorsmod.Wrap(ErrInvalidAmount, "amount B min must not be negative")
	}
	return nil
}
