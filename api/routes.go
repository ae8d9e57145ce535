package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) registerRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	s.router.POST("/auth/login", s.handleLogin)
	s.router.GET("/ws", s.handleWebSocket)

	v1 := s.router.Group("/api/v1")
	{
		v1.GET("/pools", s.handleListPools)
		v1.GET("/pools/:tokenA/:tokenB", s.handleGetPool)
		v1.GET("/price/:tokenA/:tokenB", s.handleGetPrice)
		v1.GET("/quote", s.handleGetAmountOut)
		v1.POST("/swap/simulate", s.handleSimulateSwap)
		v1.GET("/shares/supply", s.handleShareSupply)
		v1.GET("/shares/:address", s.handleShareBalance)

		authed := v1.Group("", s.requireAuth())
		{
			authed.POST("/liquidity/add", s.handleAddLiquidity)
			authed.POST("/liquidity/remove", s.handleRemoveLiquidity)
			authed.POST("/swap", s.handleSwap)
		}
	}
}
