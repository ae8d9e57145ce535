package types

import (
	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
)

const TypeMsgRemoveLiquidity = "remove_liquidity"

// MsgRemoveLiquidity burns liquidity shares and withdraws the proportional
// reserves to Recipient.
type MsgRemoveLiquidity struct {
	Creator    string   `json:"creator"`
	TokenA     string   `json:"token_a"`
	TokenB     string   `json:"token_b"`
	Liquidity  math.Int `json:"liquidity"`
	AmountAMin math.Int `json:"amount_a_min"`
	AmountBMin math.Int `json:"amount_b_min"`
	Recipient  string   `json:"recipient"`
	Deadline   int64    `json:"deadline"`
}

// MsgRemoveLiquidityResponse reports the amounts withdrawn, in argument
// order.
type MsgRemoveLiquidityResponse struct {
	AmountA math.Int `json:"amount_a"`
	AmountB math.Int `json:"amount_b"`
}

func NewMsgRemoveLiquidity(creator, tokenA, tokenB string, liquidity, amountAMin, amountBMin math.Int, recipient string, deadline int64) *MsgRemoveLiquidity {
	return &MsgRemoveLiquidity{
		Creator:    creator,
		TokenA:     tokenA,
		TokenB:     tokenB,
		Liquidity:  liquidity,
		AmountAMin: amountAMin,
		AmountBMin: amountBMin,
		Recipient:  recipient,
		Deadline:   deadline,
	}
}

func (msg *MsgRemoveLiquidity) Route() string {
	return RouterKey
}

func (msg *MsgRemoveLiquidity) Type() string {
	return TypeMsgRemoveLiquidity
}

func (msg *MsgRemoveLiquidity) ValidateBasic() error {
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
	if msg.Liquidity.IsNil() || !msg.Liquidity.IsPositive() {
		return ErrZeroLiquidity
	}
	if msg.AmountAMin.IsNil() || msg.AmountAMin.IsNegative() {
		return errorsmod.Wrap(ErrInvalidAmount, "amount A min must not be negative")
	}
	if msg.AmountBMin.IsNil() || msg.AmountBMin.IsNegative() {
		return errorsmod.Wrap(ErrInvalidAmount, "amount B min must not be negative")
	}
	return nil
}
