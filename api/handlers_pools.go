package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cascade-dex/cascade/x/amm/types"
)

func (s *Server) handleListPools(c *gin.Context) {
	pools, err := s.keeper.GetAllPools()
	if err != nil {
		c.JSON(statusFor(err), errorResponse(err))
		return
	}
	out := make([]PoolResponse, 0, len(pools))
	for _, p := range pools {
		out = append(out, poolResponse(p))
	}
	c.JSON(http.StatusOK, gin.H{"pools": out, "count": len(out)})
}

func (s *Server) handleGetPool(c *gin.Context) {
	low, high, _, err := types.SortTokens(c.Param("tokenA"), c.Param("tokenB"))
	if err != nil {
		c.JSON(statusFor(err), errorResponse(err))
		return
	}
	pool, err := s.keeper.GetPool(c.Request.Context(), low, high)
	if err != nil {
		c.JSON(statusFor(err), errorResponse(err))
		return
	}
	c.JSON(http.StatusOK, poolResponse(pool))
}
