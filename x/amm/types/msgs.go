package types

import "context"

// EngineMsg is implemented by every engine message.
type EngineMsg interface {
	Route() string
	Type() string
	ValidateBasic() error
}

var (
	_ EngineMsg = &MsgAddLiquidity{}
	_ EngineMsg = &MsgRemoveLiquidity{}
	_ EngineMsg = &MsgSwapExactTokensForTokens{}
)

// MsgServer is the transaction-handling surface of the module. Handlers
// validate the message, enforce the deadline, then execute the operation
// atomically.
type MsgServer interface {
	AddLiquidity(ctx context.Context, msg *MsgAddLiquidity) (*MsgAddLiquidityResponse, error)
	RemoveLiquidity(ctx context.Context, msg *MsgRemoveLiquidity) (*MsgRemoveLiquidityResponse, error)
	SwapExactTokensForTokens(ctx context.Context, msg *MsgSwapExactTokensForTokens) (*MsgSwapExactTokensForTokensResponse, error)
}
