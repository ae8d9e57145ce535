package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cascade-dex/cascade/x/amm/types"
)

func (s *Server) handleShareBalance(c *gin.Context) {
	addr := c.Param("address")
	if err := types.ValidateAddress(addr); err != nil {
		c.JSON(statusFor(err), errorResponse(err))
		return
	}
	balance, err := s.keeper.GetShareBalance(c.Request.Context(), addr)
	if err != nil {
		c.JSON(statusFor(err), errorResponse(err))
		return
	}
	c.JSON(http.StatusOK, BalanceResponse{Address: addr, Balance: balance.String()})
}

func (s *Server) handleShareSupply(c *gin.Context) {
	supply, err := s.keeper.GetShareSupply(c.Request.Context())
	if err != nil {
		c.JSON(statusFor(err), errorResponse(err))
		return
	}
	c.JSON(http.StatusOK, SupplyResponse{Supply: supply.String()})
}
