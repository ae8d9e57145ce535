package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cascade-dex/cascade/x/amm/types"
)

func (s *Server) handleGetPrice(c *gin.Context) {
	tokenA, tokenB := c.Param("tokenA"), c.Param("tokenB")
	price, err := s.keeper.GetSpotPrice(c.Request.Context(), tokenA, tokenB)
	if err != nil {
		c.JSON(statusFor(err), errorResponse(err))
		return
	}
	c.JSON(http.StatusOK, PriceResponse{
		TokenA: tokenA,
		TokenB: tokenB,
		Price:  price.String(),
		Scale:  types.PriceScale.String(),
	})
}

// handleGetAmountOut quotes the raw pricing formula against caller-supplied
// reserves: ?amount_in=&reserve_in=&reserve_out=.
func (s *Server) handleGetAmountOut(c *gin.Context) {
	amountIn, okIn := parseAmount(c.Query("amount_in"))
	reserveIn, okRIn := parseAmount(c.Query("reserve_in"))
	reserveOut, okROut := parseAmount(c.Query("reserve_out"))
	if !okIn || !okRIn || !okROut {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "amount_in, reserve_in and reserve_out must be non-negative integers"})
		return
	}
	out, err := s.keeper.GetAmountOut(amountIn, reserveIn, reserveOut)
	if err != nil {
		c.JSON(statusFor(err), errorResponse(err))
		return
	}
	c.JSON(http.StatusOK, AmountOutResponse{AmountOut: out.String()})
}
