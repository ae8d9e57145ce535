package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cascade-dex/cascade/x/amm/types"
)

func (s *Server) handleAddLiquidity(c *gin.Context) {
	var req AddLiquidityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	amountADesired, okA := parseAmount(req.AmountADesired)
	amountBDesired, okB := parseAmount(req.AmountBDesired)
	amountAMin, okAMin := parseAmount(req.AmountAMin)
	amountBMin, okBMin := parseAmount(req.AmountBMin)
	if !okA || !okB || !okAMin || !okBMin {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "amounts must be non-negative integers"})
		return
	}

	creator := c.GetString("address")
	recipient := req.Recipient
	if recipient == "" {
		recipient = creator
	}
	msg := types.NewMsgAddLiquidity(creator, req.TokenA, req.TokenB,
		amountADesired, amountBDesired, amountAMin, amountBMin, recipient, req.Deadline)

	resp, err := s.msgServer.AddLiquidity(c.Request.Context(), msg)
	if err != nil {
		c.JSON(statusFor(err), errorResponse(err))
		return
	}
	c.JSON(http.StatusOK, AddLiquidityResponse{
		AmountA:   resp.AmountA.String(),
		AmountB:   resp.AmountB.String(),
		Liquidity: resp.Liquidity.String(),
	})
}

func (s *Server) handleRemoveLiquidity(c *gin.Context) {
	var req RemoveLiquidityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	liquidity, okL := parseAmount(req.Liquidity)
	amountAMin, okA := parseAmount(req.AmountAMin)
	amountBMin, okB := parseAmount(req.AmountBMin)
	if !okL || !okA || !okB {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "amounts must be non-negative integers"})
		return
	}

	creator := c.GetString("address")
	recipient := req.Recipient
	if recipient == "" {
		recipient = creator
	}
	msg := types.NewMsgRemoveLiquidity(creator, req.TokenA, req.TokenB,
		liquidity, amountAMin, amountBMin, recipient, req.Deadline)

	resp, err := s.msgServer.RemoveLiquidity(c.Request.Context(), msg)
	if err != nil {
		c.JSON(statusFor(err), errorResponse(err))
		return
	}
	c.JSON(http.StatusOK, RemoveLiquidityResponse{
		AmountA: resp.AmountA.String(),
		AmountB: resp.AmountB.String(),
	})
}

func (s *Server) handleSwap(c *gin.Context) {
	var req SwapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	amountIn, okIn := parseAmount(req.AmountIn)
	amountOutMin, okMin := parseAmount(req.AmountOutMin)
	if !okIn || !okMin {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "amounts must be non-negative integers"})
		return
	}

	creator := c.GetString("address")
	recipient := req.Recipient
	if recipient == "" {
		recipient = creator
	}
	msg := types.NewMsgSwapExactTokensForTokens(creator, amountIn, amountOutMin, req.Path, recipient, req.Deadline)

	resp, err := s.msgServer.SwapExactTokensForTokens(c.Request.Context(), msg)
	if err != nil {
		c.JSON(statusFor(err), errorResponse(err))
		return
	}
	amounts := make([]string, len(resp.Amounts))
	for i, a := range resp.Amounts {
		amounts[i] = a.String()
	}
	c.JSON(http.StatusOK, SwapResponse{Amounts: amounts})
}

// handleSimulateSwap quotes an exact-input swap without authentication or
// state changes.
func (s *Server) handleSimulateSwap(c *gin.Context) {
	var req SwapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	if len(req.Path) != 2 {
		err := types.ErrOnlyOnePairSwapsAllowed.Wrapf("path length %d", len(req.Path))
		c.JSON(statusFor(err), errorResponse(err))
		return
	}
	amountIn, ok := parseAmount(req.AmountIn)
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "amount_in must be a non-negative integer"})
		return
	}

	amountOut, err := s.keeper.SimulateSwap(c.Request.Context(), req.Path[0], req.Path[1], amountIn)
	if err != nil {
		c.JSON(statusFor(err), errorResponse(err))
		return
	}
	c.JSON(http.StatusOK, SimulateSwapResponse{
		AmountIn:  amountIn.String(),
		AmountOut: amountOut.String(),
	})
}
