// Package health monitors the engine daemon's components: the backing
// database, the notification bus, the engine invariants and, when
// configured, the event journal. Results are cached briefly so probes
// cannot hammer the invariant scan.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"cosmossdk.io/log"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/gorilla/mux"

	"github.com/cascade-dex/cascade/pkg/events"
	ammkeeper "github.com/cascade-dex/cascade/x/amm/keeper"
)

// Status is the health of one component or of the whole daemon.
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

// ComponentHealth is the status of one component.
type ComponentHealth struct {
	Status    Status         `json:"status"`
	Message   string         `json:"message,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
	Metrics   map[string]any `json:"metrics,omitempty"`
}

// HealthCheck is the overall response.
type HealthCheck struct {
	Status     Status                     `json:"status"`
	Timestamp  time.Time                  `json:"timestamp"`
	Version    string                     `json:"version,omitempty"`
	Components map[string]ComponentHealth `json:"components,omitempty"`
}

// Pinger is the journal's reachability surface.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Checker runs component checks with a short cache.
type Checker struct {
	logger  log.Logger
	db      dbm.DB
	bus     *events.Bus
	keeper  *ammkeeper.Keeper
	journal Pinger
	version string

	mu            sync.RWMutex
	lastCheck     time.Time
	cached        *HealthCheck
	cacheDuration time.Duration
}

// NewChecker builds a checker. journal may be nil when no journal is
// configured.
func NewChecker(logger log.Logger, db dbm.DB, bus *events.Bus, keeper *ammkeeper.Keeper, journal Pinger, version string) *Checker {
	return &Checker{
		logger:        logger.With("component", "health"),
		db:            db,
		bus:           bus,
		keeper:        keeper,
		journal:       journal,
		version:       version,
		cacheDuration: 5 * time.Second,
	}
}

// Check runs every component check, serving a cached result when fresh.
func (c *Checker) Check(ctx context.Context) *HealthCheck {
	c.mu.RLock()
	if c.cached != nil && time.Since(c.lastCheck) < c.cacheDuration {
		cached := c.cached
		c.mu.RUnlock()
		return cached
	}
	c.mu.RUnlock()

	result := &HealthCheck{
		Status:     StatusHealthy,
		Timestamp:  time.Now().UTC(),
		Version:    c.version,
		Components: make(map[string]ComponentHealth),
	}
	result.Components["database"] = c.checkDatabase()
	result.Components["bus"] = c.checkBus()
	result.Components["engine"] = c.checkEngine(ctx)
	if c.journal != nil {
		result.Components["journal"] = c.checkJournal(ctx)
	}

	for _, comp := range result.Components {
		switch comp.Status {
		case StatusUnhealthy:
			result.Status = StatusUnhealthy
		case StatusDegraded:
			if result.Status == StatusHealthy {
				result.Status = StatusDegraded
			}
		}
	}

	c.mu.Lock()
	c.cached = result
	c.lastCheck = time.Now()
	c.mu.Unlock()
	return result
}

func (c *Checker) checkDatabase() ComponentHealth {
	now := time.Now().UTC()
	// A read through the store proves the backend answers.
	if _, err := c.db.Get([]byte{0x00}); err != nil {
		return ComponentHealth{Status: StatusUnhealthy, Message: err.Error(), Timestamp: now}
	}
	return ComponentHealth{Status: StatusHealthy, Timestamp: now}
}

func (c *Checker) checkBus() ComponentHealth {
	now := time.Now().UTC()
	dropped := c.bus.Dropped()
	health := ComponentHealth{
		Status:    StatusHealthy,
		Timestamp: now,
		Metrics:   map[string]any{"dropped_events": dropped},
	}
	if dropped > 0 {
		health.Status = StatusDegraded
		health.Message = "subscribers are dropping events"
	}
	return health
}

func (c *Checker) checkEngine(ctx context.Context) ComponentHealth {
	now := time.Now().UTC()
	msg, broken := ammkeeper.AllInvariants(*c.keeper)(ctx)
	if broken {
		c.logger.Error("engine invariant broken", "msg", msg)
		return ComponentHealth{Status: StatusUnhealthy, Message: msg, Timestamp: now}
	}
	pools, err := c.keeper.GetAllPools()
	if err != nil {
		return ComponentHealth{Status: StatusUnhealthy, Message: err.Error(), Timestamp: now}
	}
	supply, err := c.keeper.GetShareSupply(ctx)
	if err != nil {
		return ComponentHealth{Status: StatusUnhealthy, Message: err.Error(), Timestamp: now}
	}
	return ComponentHealth{
		Status:    StatusHealthy,
		Timestamp: now,
		Metrics: map[string]any{
			"pools":        len(pools),
			"share_supply": supply.String(),
		},
	}
}

func (c *Checker) checkJournal(ctx context.Context) ComponentHealth {
	now := time.Now().UTC()
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := c.journal.Ping(pingCtx); err != nil {
		// The journal is an observer; losing it degrades, it does not kill.
		return ComponentHealth{Status: StatusDegraded, Message: err.Error(), Timestamp: now}
	}
	return ComponentHealth{Status: StatusHealthy, Timestamp: now}
}

// RegisterRoutes mounts the health endpoints.
func (c *Checker) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/health", c.handleHealth).Methods(http.MethodGet)
	router.HandleFunc("/health/ready", c.handleReady).Methods(http.MethodGet)
	router.HandleFunc("/health/detailed", c.handleDetailed).Methods(http.MethodGet)
}

// handleHealth is the liveness probe: the process answers, it is alive.
func (c *Checker) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": string(StatusHealthy)})
}

func (c *Checker) handleReady(w http.ResponseWriter, r *http.Request) {
	result := c.Check(r.Context())
	status := http.StatusOK
	if result.Status == StatusUnhealthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]string{"status": string(result.Status)})
}

func (c *Checker) handleDetailed(w http.ResponseWriter, r *http.Request) {
	result := c.Check(r.Context())
	status := http.StatusOK
	if result.Status == StatusUnhealthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, result)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
