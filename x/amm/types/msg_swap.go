package types

import (
	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
)

const TypeMsgSwapExactTokensForTokens = "swap_exact_tokens_for_tokens"

// MsgSwapExactTokensForTokens swaps a fixed input amount of Path[0] for at
// least AmountOutMin of Path[1], delivered to Recipient.
type MsgSwapExactTokensForTokens struct {
	Creator      string   `json:"creator"`
	AmountIn     math.Int `json:"amount_in"`
	AmountOutMin math.Int `json:"amount_out_min"`
	Path         []string `json:"path"`
	Recipient    string   `json:"recipient"`
	Deadline     int64    `json:"deadline"`
}

// MsgSwapExactTokensForTokensResponse reports the realized amounts along
// the path: input first, output second.
type MsgSwapExactTokensForTokensResponse struct {
	Amounts []math.Int `json:"amounts"`
}

func NewMsgSwapExactTokensForTokens(creator string, amountIn, amountOutMin math.Int, path []string, recipient string, deadline int64) *MsgSwapExactTokensForTokens {
	return &MsgSwapExactTokensForTokens{
		Creator:      creator,
		AmountIn:     amountIn,
		AmountOutMin: amountOutMin,
		Path:         path,
		Recipient:    recipient,
		Deadline:     deadline,
	}
}

func (msg *MsgSwapExactTokensForTokens) Route() string {
	return RouterKey
}

func (msg *MsgSwapExactTokensForTokens) Type() string {
	return TypeMsgSwapExactTokensForTokens
}

// ValidateBasic checks the amount and path preconditions in their fixed
// order before any address shape checks. The identical-token check runs in
// the engine, after the deadline.
func (msg *MsgSwapExactTokensForTokens) ValidateBasic() error {
	if msg.AmountIn.IsNil() || !msg.AmountIn.IsPositive() {
		return ErrZeroAmountIn
	}
	if msg.AmountOutMin.IsNil() || !msg.AmountOutMin.IsPositive() {
		return ErrZeroAmountOutMin
	}
	if len(msg.Path) != 2 {
		return ErrOnlyOnePairSwapsAllowed.Wrapf("path has %d entries", len(msg.Path))
	}
	if err := ValidateToken(msg.Path[0]); err != nil {
		return errorsmod.Wrap(err, "path[0]")
	}
	if err := ValidateToken(msg.Path[1]); err != nil {
		return errorsmod.Wrap(err, "path[1]")
	}
	if err := ValidateAddress(msg.Creator); err != nil {
		return errorsmod.Wrap(err, "creator")
	}
	if err := ValidateAddress(msg.Recipient); err != nil {
		return errorsmod.Wrap(err, "recipient")
	}
	return nil
}
