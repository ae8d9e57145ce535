package health_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"cosmossdk.io/math"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"github.com/cascade-dex/cascade/app/health"
	"github.com/cascade-dex/cascade/pkg/logger"
	keepertest "github.com/cascade-dex/cascade/testutil/keeper"
	ammkeeper "github.com/cascade-dex/cascade/x/amm/keeper"
)

const provider = "cascade1provider00000000000000000000000000000"

func amount(units int64) math.Int {
	return math.NewIntWithDecimal(units, 18)
}

func newChecker(t *testing.T) (*health.Checker, *keepertest.Fixture) {
	t.Helper()
	f := keepertest.AmmKeeper(t)
	c := health.NewChecker(logger.NewNop(), f.DB, f.Bus, f.Keeper, nil, "test")
	return c, f
}

func TestCheck_HealthyEngine(t *testing.T) {
	c, f := newChecker(t)
	keepertest.CreateTestPool(t, f, provider, "uatom", "uusdt", amount(100), amount(200))

	result := c.Check(f.Ctx)
	require.Equal(t, health.StatusHealthy, result.Status)
	require.Equal(t, health.StatusHealthy, result.Components["engine"].Status)
	require.EqualValues(t, 1, result.Components["engine"].Metrics["pools"])
}

func TestCheck_BrokenInvariantIsUnhealthy(t *testing.T) {
	c, f := newChecker(t)
	keepertest.CreateTestPool(t, f, provider, "uatom", "uusdt", amount(100), amount(200))

	// Corrupt the share supply behind the keeper's back.
	require.NoError(t, f.DB.Set(ammkeeper.ShareSupplyKey, []byte{0x01}))

	result := c.Check(f.Ctx)
	require.Equal(t, health.StatusUnhealthy, result.Status)
	require.Equal(t, health.StatusUnhealthy, result.Components["engine"].Status)
}

func TestCheck_ResultIsCached(t *testing.T) {
	c, f := newChecker(t)

	first := c.Check(f.Ctx)
	keepertest.CreateTestPool(t, f, provider, "uatom", "uusdt", amount(100), amount(200))
	second := c.Check(f.Ctx)

	// Within the cache window the stale result is served.
	require.Equal(t, first.Timestamp, second.Timestamp)
}

func TestRoutes(t *testing.T) {
	c, f := newChecker(t)
	keepertest.CreateTestPool(t, f, provider, "uatom", "uusdt", amount(100), amount(200))

	r := mux.NewRouter()
	c.RegisterRoutes(r)

	for _, path := range []string{"/health", "/health/ready", "/health/detailed"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code, path)
	}

	req := httptest.NewRequest(http.MethodGet, "/health/detailed", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var detailed health.HealthCheck
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &detailed))
	require.Contains(t, detailed.Components, "database")
	require.Contains(t, detailed.Components, "bus")
	require.Contains(t, detailed.Components, "engine")
	require.NotContains(t, detailed.Components, "journal")
}
