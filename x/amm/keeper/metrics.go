package keeper

import (
	"context"
	"math/big"
	"sync"

	"cosmossdk.io/math"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/cascade-dex/cascade/x/amm/types"
)

// Metrics groups the engine's Prometheus instruments.
type Metrics struct {
	Swaps                prometheus.Counter
	LiquidityAdds        prometheus.Counter
	LiquidityRemovals    prometheus.Counter
	OperationFailures    *prometheus.CounterVec
	OperationLatency     *prometheus.HistogramVec
	SwapVolume           *prometheus.CounterVec
	PoolReserves         *prometheus.GaugeVec
	ShareSupply          prometheus.Gauge
	ReentrancyRejections prometheus.Counter
}

var (
	metricsOnce sync.Once
	metricsInst *Metrics
)

// GetMetrics returns the process-wide engine metrics, registering them on
// the default registry on first use.
func GetMetrics() *Metrics {
	metricsOnce.Do(func() {
		metricsInst = newMetrics()
	})
	return metricsInst
}

func newMetrics() *Metrics {
	return &Metrics{
		Swaps: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "cascade",
			Subsystem: types.ModuleName,
			Name:      "swaps_total",
			Help:      "Total number of executed swaps",
		}),
		LiquidityAdds: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "cascade",
			Subsystem: types.ModuleName,
			Name:      "liquidity_adds_total",
			Help:      "Total number of liquidity deposits",
		}),
		LiquidityRemovals: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "cascade",
			Subsystem: types.ModuleName,
			Name:      "liquidity_removals_total",
			Help:      "Total number of liquidity withdrawals",
		}),
		OperationFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cascade",
			Subsystem: types.ModuleName,
			Name:      "operation_failures_total",
			Help:      "Failed engine operations by operation and failure class",
		}, []string{"operation", "class"}),
		OperationLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "cascade",
			Subsystem: types.ModuleName,
			Name:      "operation_latency_seconds",
			Help:      "Engine operation latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		SwapVolume: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cascade",
			Subsystem: types.ModuleName,
			Name:      "swap_volume_total",
			Help:      "Cumulative swap input volume by token",
		}, []string{"token"}),
		PoolReserves: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "cascade",
			Subsystem: types.ModuleName,
			Name:      "pool_reserves",
			Help:      "Current pool reserves by pair and token",
		}, []string{"pair", "token"}),
		ShareSupply: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: "cascade",
			Subsystem: types.ModuleName,
			Name:      "share_supply",
			Help:      "Total liquidity share supply",
		}),
		ReentrancyRejections: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "cascade",
			Subsystem: types.ModuleName,
			Name:      "reentrancy_rejections_total",
			Help:      "Calls rejected by the reentrancy guard",
		}),
	}
}

func (k Keeper) recordPoolGauges(pool types.Pool) {
	pair := pool.PairKey()
	k.metrics.PoolReserves.WithLabelValues(pair, pool.TokenLow).Set(intToFloat(pool.ReserveLow))
	k.metrics.PoolReserves.WithLabelValues(pair, pool.TokenHigh).Set(intToFloat(pool.ReserveHigh))
}

func (k Keeper) recordSupplyGauge(ctx context.Context) {
	supply, err := k.GetShareSupply(ctx)
	if err != nil {
		return
	}
	k.metrics.ShareSupply.Set(intToFloat(supply))
}

// intToFloat renders a wide integer for gauge export. Precision loss is
// acceptable for metrics.
func intToFloat(v math.Int) float64 {
	f, _ := new(big.Float).SetInt(v.BigInt()).Float64()
	return f
}
