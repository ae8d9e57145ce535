package keeper

import (
	"context"
	"fmt"

	"cosmossdk.io/math"

	"github.com/cascade-dex/cascade/x/amm/types"
)

type msgServer struct {
	Keeper
}

// NewMsgServerImpl returns the transaction-handling surface over keeper.
// Every handler validates the message, enforces the deadline against the
// engine clock before any state is touched, then runs the operation.
func NewMsgServerImpl(keeper Keeper) types.MsgServer {
	return &msgServer{Keeper: keeper}
}

var _ types.MsgServer = msgServer{}

func (ms msgServer) checkDeadline(deadline int64) error {
	if now := ms.Now().Unix(); now > deadline {
		return types.ErrTransactionExpired.Wrapf("deadline %d passed at %d", deadline, now)
	}
	return nil
}

func (ms msgServer) AddLiquidity(ctx context.Context, msg *types.MsgAddLiquidity) (*types.MsgAddLiquidityResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("AddLiquidity: validate: %w", err)
	}
	if err := ms.checkDeadline(msg.Deadline); err != nil {
		return nil, fmt.Errorf("AddLiquidity: %w", err)
	}
	amountA, amountB, liquidity, err := ms.Keeper.AddLiquidity(ctx, msg)
	if err != nil {
		return nil, fmt.Errorf("AddLiquidity: %w", err)
	}
	return &types.MsgAddLiquidityResponse{
		AmountA:   amountA,
		AmountB:   amountB,
		Liquidity: liquidity,
	}, nil
}

func (ms msgServer) RemoveLiquidity(ctx context.Context, msg *types.MsgRemoveLiquidity) (*types.MsgRemoveLiquidityResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("RemoveLiquidity: validate: %w", err)
	}
	if err := ms.checkDeadline(msg.Deadline); err != nil {
		return nil, fmt.Errorf("RemoveLiquidity: %w", err)
	}
	amountA, amountB, err := ms.Keeper.RemoveLiquidity(ctx, msg)
	if err != nil {
		return nil, fmt.Errorf("RemoveLiquidity: %w", err)
	}
	return &types.MsgRemoveLiquidityResponse{
		AmountA: amountA,
		AmountB: amountB,
	}, nil
}

func (ms msgServer) SwapExactTokensForTokens(ctx context.Context, msg *types.MsgSwapExactTokensForTokens) (*types.MsgSwapExactTokensForTokensResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("Swap: validate: %w", err)
	}
	if err := ms.checkDeadline(msg.Deadline); err != nil {
		return nil, fmt.Errorf("Swap: %w", err)
	}
	amountOut, err := ms.Keeper.ExecuteSwap(ctx, msg)
	if err != nil {
		return nil, fmt.Errorf("Swap: %w", err)
	}
	return &types.MsgSwapExactTokensForTokensResponse{
		Amounts: []math.Int{msg.AmountIn, amountOut},
	}, nil
}
