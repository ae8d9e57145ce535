package api

import (
	"net/http"

	"cosmossdk.io/math"

	"github.com/cascade-dex/cascade/x/amm/types"
)

// ErrorResponse is the uniform error payload.
type ErrorResponse struct {
	Error string `json:"error"`
	Class string `json:"class,omitempty"`
	Code  string `json:"code,omitempty"`
}

// LoginRequest carries operator credentials.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse returns the bearer token for mutating endpoints.
type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
	Address   string `json:"address"`
}

// PoolResponse is one pool in canonical order.
type PoolResponse struct {
	TokenLow    string `json:"token_low"`
	TokenHigh   string `json:"token_high"`
	ReserveLow  string `json:"reserve_low"`
	ReserveHigh string `json:"reserve_high"`
}

// AddLiquidityRequest mirrors the engine message; amounts are decimal
// strings in the fixed 18-decimal scale.
type AddLiquidityRequest struct {
	TokenA         string `json:"token_a" binding:"required"`
	TokenB         string `json:"token_b" binding:"required"`
	AmountADesired string `json:"amount_a_desired" binding:"required"`
	AmountBDesired string `json:"amount_b_desired" binding:"required"`
	AmountAMin     string `json:"amount_a_min"`
	AmountBMin     string `json:"amount_b_min"`
	Recipient      string `json:"recipient"`
	Deadline       int64  `json:"deadline" binding:"required"`
}

// AddLiquidityResponse reports realized deposit amounts and minted shares.
type AddLiquidityResponse struct {
	AmountA   string `json:"amount_a"`
	AmountB   string `json:"amount_b"`
	Liquidity string `json:"liquidity"`
}

// RemoveLiquidityRequest mirrors the engine message.
type RemoveLiquidityRequest struct {
	TokenA     string `json:"token_a" binding:"required"`
	TokenB     string `json:"token_b" binding:"required"`
	Liquidity  string `json:"liquidity" binding:"required"`
	AmountAMin string `json:"amount_a_min"`
	AmountBMin string `json:"amount_b_min"`
	Recipient  string `json:"recipient"`
	Deadline   int64  `json:"deadline" binding:"required"`
}

// RemoveLiquidityResponse reports withdrawn amounts.
type RemoveLiquidityResponse struct {
	AmountA string `json:"amount_a"`
	AmountB string `json:"amount_b"`
}

// SwapRequest mirrors the engine message; Path must hold exactly two
// tokens.
type SwapRequest struct {
	AmountIn     string   `json:"amount_in" binding:"required"`
	AmountOutMin string   `json:"amount_out_min" binding:"required"`
	Path         []string `json:"path" binding:"required"`
	Recipient    string   `json:"recipient"`
	Deadline     int64    `json:"deadline" binding:"required"`
}

// SwapResponse reports [amountIn, amountOut] in path order.
type SwapResponse struct {
	Amounts []string `json:"amounts"`
}

// SimulateSwapResponse is a read-only quote.
type SimulateSwapResponse struct {
	AmountIn  string `json:"amount_in"`
	AmountOut string `json:"amount_out"`
}

// PriceResponse is a spot price scaled by 1e18.
type PriceResponse struct {
	TokenA string `json:"token_a"`
	TokenB string `json:"token_b"`
	Price  string `json:"price"`
	Scale  string `json:"scale"`
}

// AmountOutResponse is the raw formula quote.
type AmountOutResponse struct {
	AmountOut string `json:"amount_out"`
}

// BalanceResponse reports one holder's liquidity shares.
type BalanceResponse struct {
	Address string `json:"address"`
	Balance string `json:"balance"`
}

// SupplyResponse reports the global share supply.
type SupplyResponse struct {
	Supply string `json:"supply"`
}

func poolResponse(p types.Pool) PoolResponse {
	return PoolResponse{
		TokenLow:    p.TokenLow,
		TokenHigh:   p.TokenHigh,
		ReserveLow:  p.ReserveLow.String(),
		ReserveHigh: p.ReserveHigh.String(),
	}
}

// parseAmount parses a non-negative decimal amount string.
func parseAmount(s string) (math.Int, bool) {
	if s == "" {
		return math.ZeroInt(), true
	}
	v, ok := math.NewIntFromString(s)
	if !ok || v.IsNegative() {
		return math.Int{}, false
	}
	return v, true
}

// statusFor maps an engine failure class onto an HTTP status.
func statusFor(err error) int {
	switch types.ClassOf(err) {
	case types.ClassValidation:
		return http.StatusBadRequest
	case types.ClassState:
		return http.StatusConflict
	case types.ClassConstraint, types.ClassTransfer:
		return http.StatusUnprocessableEntity
	case types.ClassTemporal:
		return http.StatusRequestTimeout
	case types.ClassConcurrency:
		return http.StatusLocked
	default:
		return http.StatusInternalServerError
	}
}

func errorResponse(err error) ErrorResponse {
	return ErrorResponse{Error: err.Error(), Class: string(types.ClassOf(err))}
}
