package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/cascade-dex/cascade/api"
	"github.com/cascade-dex/cascade/pkg/logger"
	keepertest "github.com/cascade-dex/cascade/testutil/keeper"
)

const (
	operatorPassword = "correct horse battery staple"
	operatorAddress  = "cascade1operator00000000000000000000000000000"
)

func amount(units int64) math.Int {
	return math.NewIntWithDecimal(units, 18)
}

func newTestServer(t *testing.T) (*api.Server, *keepertest.Fixture) {
	t.Helper()
	f := keepertest.AmmKeeper(t)

	hash, err := bcrypt.GenerateFromPassword([]byte(operatorPassword), bcrypt.MinCost)
	require.NoError(t, err)

	config := api.DefaultConfig()
	config.OperatorPassHash = string(hash)
	config.OperatorAddress = operatorAddress
	config.RateLimitRPS = 0

	srv, err := api.NewServer(f.Keeper, f.Bus, config, logger.NewNop())
	require.NoError(t, err)
	return srv, f
}

func doJSON(t *testing.T, srv *api.Server, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	return w
}

func login(t *testing.T, srv *api.Server) string {
	t.Helper()
	w := doJSON(t, srv, http.MethodPost, "/auth/login", "", map[string]string{
		"username": "operator",
		"password": operatorPassword,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestAPI_HealthEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	w := doJSON(t, srv, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestAPI_LoginRejectsBadPassword(t *testing.T) {
	srv, _ := newTestServer(t)
	w := doJSON(t, srv, http.MethodPost, "/auth/login", "", map[string]string{
		"username": "operator",
		"password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAPI_MutatingEndpointsRequireToken(t *testing.T) {
	srv, f := newTestServer(t)
	body := map[string]any{
		"amount_in":      "1",
		"amount_out_min": "1",
		"path":           []string{"uatom", "uusdt"},
		"deadline":       f.Deadline(),
	}

	w := doJSON(t, srv, http.MethodPost, "/api/v1/swap", "", body)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, srv, http.MethodPost, "/api/v1/swap", "not-a-token", body)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAPI_ListAndGetPools(t *testing.T) {
	srv, f := newTestServer(t)
	keepertest.CreateTestPool(t, f, operatorAddress, "uatom", "uusdt", amount(100), amount(200))

	w := doJSON(t, srv, http.MethodGet, "/api/v1/pools", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Pools []api.PoolResponse `json:"pools"`
		Count int                `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Equal(t, 1, list.Count)
	require.Equal(t, "uatom", list.Pools[0].TokenLow)
	require.Equal(t, "uusdt", list.Pools[0].TokenHigh)

	// The single-pool endpoint normalizes argument order.
	w = doJSON(t, srv, http.MethodGet, "/api/v1/pools/uusdt/uatom", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var pool api.PoolResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pool))
	require.Equal(t, amount(100).String(), pool.ReserveLow)
	require.Equal(t, amount(200).String(), pool.ReserveHigh)
}

func TestAPI_SpotPrice(t *testing.T) {
	srv, f := newTestServer(t)
	keepertest.CreateTestPool(t, f, operatorAddress, "uatom", "uusdt", amount(100), amount(200))

	w := doJSON(t, srv, http.MethodGet, "/api/v1/price/uatom/uusdt", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp api.PriceResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "2000000000000000000", resp.Price)
	require.Equal(t, "1000000000000000000", resp.Scale)
}

func TestAPI_PriceOnEmptyPoolIsConflict(t *testing.T) {
	srv, _ := newTestServer(t)
	w := doJSON(t, srv, http.MethodGet, "/api/v1/price/uatom/uusdt", "", nil)
	require.Equal(t, http.StatusConflict, w.Code)

	var resp api.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "state", resp.Class)
}

func TestAPI_QuoteAmountOut(t *testing.T) {
	srv, _ := newTestServer(t)
	w := doJSON(t, srv, http.MethodGet, "/api/v1/quote?amount_in=10&reserve_in=100&reserve_out=200", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp api.AmountOutResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "18", resp.AmountOut)

	w = doJSON(t, srv, http.MethodGet, "/api/v1/quote?amount_in=-1&reserve_in=100&reserve_out=200", "", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAPI_SimulateSwapIsReadOnly(t *testing.T) {
	srv, f := newTestServer(t)
	keepertest.CreateTestPool(t, f, operatorAddress, "uatom", "uusdt", amount(100), amount(200))

	body := map[string]any{
		"amount_in":      amount(10).String(),
		"amount_out_min": "1",
		"path":           []string{"uatom", "uusdt"},
		"deadline":       f.Deadline(),
	}
	w := doJSON(t, srv, http.MethodPost, "/api/v1/swap/simulate", "", body)
	require.Equal(t, http.StatusOK, w.Code)
	var resp api.SimulateSwapResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "18181818181818181818", resp.AmountOut)

	// Reserves are untouched.
	reserveA, _, err := f.Keeper.GetReserves(f.Ctx, "uatom", "uusdt")
	require.NoError(t, err)
	require.Equal(t, amount(100), reserveA)
}

func TestAPI_SwapExecutes(t *testing.T) {
	srv, f := newTestServer(t)
	keepertest.CreateTestPool(t, f, operatorAddress, "uatom", "uusdt", amount(100), amount(200))
	f.Fund(t, operatorAddress, "uatom", amount(10))
	token := login(t, srv)

	body := map[string]any{
		"amount_in":      amount(10).String(),
		"amount_out_min": "1",
		"path":           []string{"uatom", "uusdt"},
		"deadline":       f.Deadline(),
	}
	w := doJSON(t, srv, http.MethodPost, "/api/v1/swap", token, body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp api.SwapResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, []string{amount(10).String(), "18181818181818181818"}, resp.Amounts)
}

func TestAPI_ExpiredDeadlineMapsToTimeout(t *testing.T) {
	srv, f := newTestServer(t)
	keepertest.CreateTestPool(t, f, operatorAddress, "uatom", "uusdt", amount(100), amount(200))
	f.Fund(t, operatorAddress, "uatom", amount(10))
	token := login(t, srv)

	body := map[string]any{
		"amount_in":      amount(10).String(),
		"amount_out_min": "1",
		"path":           []string{"uatom", "uusdt"},
		"deadline":       f.Clock.Now().Add(-time.Minute).Unix(),
	}
	w := doJSON(t, srv, http.MethodPost, "/api/v1/swap", token, body)
	require.Equal(t, http.StatusRequestTimeout, w.Code)

	var resp api.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "temporal", resp.Class)
}

func TestAPI_SlippageMapsToUnprocessable(t *testing.T) {
	srv, f := newTestServer(t)
	keepertest.CreateTestPool(t, f, operatorAddress, "uatom", "uusdt", amount(100), amount(200))
	f.Fund(t, operatorAddress, "uatom", amount(10))
	token := login(t, srv)

	body := map[string]any{
		"amount_in":      amount(10).String(),
		"amount_out_min": amount(50).String(),
		"path":           []string{"uatom", "uusdt"},
		"deadline":       f.Deadline(),
	}
	w := doJSON(t, srv, http.MethodPost, "/api/v1/swap", token, body)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestAPI_AddAndRemoveLiquidity(t *testing.T) {
	srv, f := newTestServer(t)
	f.Fund(t, operatorAddress, "uatom", amount(100))
	f.Fund(t, operatorAddress, "uusdt", amount(200))
	token := login(t, srv)

	addBody := map[string]any{
		"token_a":          "uatom",
		"token_b":          "uusdt",
		"amount_a_desired": amount(100).String(),
		"amount_b_desired": amount(200).String(),
		"deadline":         f.Deadline(),
	}
	w := doJSON(t, srv, http.MethodPost, "/api/v1/liquidity/add", token, addBody)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var added api.AddLiquidityResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &added))
	require.Equal(t, "141421356237309504880", added.Liquidity)

	removeBody := map[string]any{
		"token_a":   "uatom",
		"token_b":   "uusdt",
		"liquidity": added.Liquidity,
		"deadline":  f.Deadline(),
	}
	w = doJSON(t, srv, http.MethodPost, "/api/v1/liquidity/remove", token, removeBody)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var removed api.RemoveLiquidityResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &removed))
	require.Equal(t, amount(100).String(), removed.AmountA)
	require.Equal(t, amount(200).String(), removed.AmountB)
}

func TestAPI_ShareBalanceAndSupply(t *testing.T) {
	srv, f := newTestServer(t)
	minted := keepertest.CreateTestPool(t, f, operatorAddress, "uatom", "uusdt", amount(100), amount(200))

	w := doJSON(t, srv, http.MethodGet, "/api/v1/shares/supply", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var supply api.SupplyResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &supply))
	require.Equal(t, minted.String(), supply.Supply)

	w = doJSON(t, srv, http.MethodGet, fmt.Sprintf("/api/v1/shares/%s", operatorAddress), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var balance api.BalanceResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &balance))
	require.Equal(t, minted.String(), balance.Balance)
}

func TestAPI_RateLimitReturns429(t *testing.T) {
	f := keepertest.AmmKeeper(t)
	config := api.DefaultConfig()
	config.RateLimitRPS = 1

	srv, err := api.NewServer(f.Keeper, f.Bus, config, logger.NewNop())
	require.NoError(t, err)

	limited := false
	for i := 0; i < 10; i++ {
		w := doJSON(t, srv, http.MethodGet, "/api/v1/pools", "", nil)
		if w.Code == http.StatusTooManyRequests {
			limited = true
			break
		}
	}
	require.True(t, limited, "burst of requests never hit the limiter")
}

func TestAPI_SecurityHeadersPresent(t *testing.T) {
	srv, _ := newTestServer(t)
	w := doJSON(t, srv, http.MethodGet, "/health", "", nil)
	require.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	require.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	require.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestAPI_CORSPreflight(t *testing.T) {
	srv, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/pools", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	require.Equal(t, http.StatusNoContent, w.Code)
	require.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}
