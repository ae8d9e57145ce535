// Package app assembles the engine daemon: database, keepers, notification
// bus and the API/ops servers.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"cosmossdk.io/log"
	dbm "github.com/cosmos/cosmos-db"

	"github.com/cascade-dex/cascade/api"
	"github.com/cascade-dex/cascade/app/health"
	"github.com/cascade-dex/cascade/config"
	"github.com/cascade-dex/cascade/faucet"
	"github.com/cascade-dex/cascade/journal"
	"github.com/cascade-dex/cascade/pkg/events"
	ammkeeper "github.com/cascade-dex/cascade/x/amm/keeper"
	ammtypes "github.com/cascade-dex/cascade/x/amm/types"
	bankkeeper "github.com/cascade-dex/cascade/x/bank/keeper"
)

// Version is stamped by the build.
var Version = "dev"

// App owns every long-lived component of the daemon.
type App struct {
	Config *config.Config
	DB     dbm.DB
	Bank   bankkeeper.Keeper
	Keeper *ammkeeper.Keeper
	Bus    *events.Bus

	API     *api.Server
	Ops     *OpsServer
	Journal *journal.Journal
	Faucet  *faucet.Service

	logger      log.Logger
	stopTracing func(context.Context) error
}

// New wires the application from configuration.
func New(cfg *config.Config, logger log.Logger) (*App, error) {
	dataDir := filepath.Join(cfg.HomeDir, "data")
	if err := os.MkdirAll(dataDir, 0o750); err != nil {
		return nil, fmt.Errorf("app: create data dir: %w", err)
	}
	db, err := openDB(cfg.DBBackend, dataDir)
	if err != nil {
		return nil, fmt.Errorf("app: open database: %w", err)
	}

	a := &App{
		Config: cfg,
		DB:     db,
		Bus:    events.NewBus(),
		logger: logger,
	}
	a.Bank = bankkeeper.NewKeeper(db, logger, ammtypes.ModuleAccount)
	a.Keeper = ammkeeper.NewKeeper(db, a.Bank, a.Bus, logger)

	if cfg.Journal.Enabled {
		j, err := journal.Open(cfg.Journal.DatabaseURL, a.Bus, logger)
		if err != nil {
			a.closePartial()
			return nil, err
		}
		a.Journal = j
	}

	if cfg.Faucet.Enabled {
		store, err := openCooldownStore(cfg.Faucet.RedisURL, logger)
		if err != nil {
			a.closePartial()
			return nil, err
		}
		f, err := faucet.New(a.Bank, store, cfg.Faucet.Amounts, cfg.Faucet.Cooldown, logger)
		if err != nil {
			a.closePartial()
			return nil, err
		}
		a.Faucet = f
	}

	if cfg.API.Enabled {
		apiServer, err := api.NewServer(a.Keeper, a.Bus, apiConfig(cfg), logger)
		if err != nil {
			a.closePartial()
			return nil, err
		}
		a.API = apiServer
	}

	if cfg.Ops.Enabled {
		var pinger health.Pinger
		if a.Journal != nil {
			pinger = a.Journal
		}
		checker := health.NewChecker(logger, db, a.Bus, a.Keeper, pinger, Version)
		a.Ops = NewOpsServer(cfg.Ops, checker, a.Faucet, logger)
	}

	if cfg.Telemetry.Enabled {
		stop, err := setupTelemetry(context.Background(), cfg.Telemetry, logger)
		if err != nil {
			a.closePartial()
			return nil, err
		}
		a.stopTracing = stop
	}

	return a, nil
}

// Run starts every enabled server and blocks until ctx is cancelled or a
// server fails.
func (a *App) Run(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 3)
	if a.Journal != nil {
		go a.Journal.Run(runCtx)
	}
	if a.API != nil {
		go func() { errCh <- a.API.Start(runCtx) }()
	}
	if a.Ops != nil {
		go func() { errCh <- a.Ops.Start(runCtx) }()
	}
	a.logger.Info("daemon started", "moniker", a.Config.Moniker, "version", Version)

	select {
	case err := <-errCh:
		cancel()
		a.Close()
		return err
	case <-ctx.Done():
		a.Close()
		return nil
	}
}

// Close releases every resource the app holds.
func (a *App) Close() {
	if a.stopTracing != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.stopTracing(shutdownCtx); err != nil {
			a.logger.Error("telemetry shutdown", "err", err)
		}
	}
	if a.Faucet != nil {
		if err := a.Faucet.Close(); err != nil {
			a.logger.Error("faucet close", "err", err)
		}
	}
	if a.Journal != nil {
		if err := a.Journal.Close(); err != nil {
			a.logger.Error("journal close", "err", err)
		}
	}
	a.Bus.Close()
	if err := a.DB.Close(); err != nil {
		a.logger.Error("database close", "err", err)
	}
}

func (a *App) closePartial() {
	if a.Journal != nil {
		a.Journal.Close()
	}
	a.Bus.Close()
	a.DB.Close()
}

func openDB(backend, dir string) (dbm.DB, error) {
	switch backend {
	case "memdb":
		return dbm.NewMemDB(), nil
	case "goleveldb":
		return dbm.NewDB("cascade", dbm.GoLevelDBBackend, dir)
	case "pebbledb":
		return dbm.NewDB("cascade", dbm.PebbleDBBackend, dir)
	default:
		return nil, fmt.Errorf("unsupported db backend %q", backend)
	}
}

func openCooldownStore(redisURL string, logger log.Logger) (faucet.CooldownStore, error) {
	if redisURL == "" {
		logger.Info("faucet using in-memory cooldowns; configure faucet.redis_url for persistence")
		return faucet.NewMemoryCooldown(), nil
	}
	return faucet.NewRedisCooldown(context.Background(), redisURL)
}

func apiConfig(cfg *config.Config) *api.Config {
	c := api.DefaultConfig()
	c.Host = cfg.API.Host
	c.Port = cfg.API.Port
	if cfg.API.JWTSecret != "" {
		c.JWTSecret = []byte(cfg.API.JWTSecret)
	}
	if cfg.API.TokenTTL > 0 {
		c.TokenTTL = cfg.API.TokenTTL
	}
	c.OperatorUser = cfg.API.OperatorUser
	c.OperatorPassHash = cfg.API.OperatorPassHash
	c.OperatorAddress = cfg.API.OperatorAddress
	c.CORSOrigins = cfg.API.CORSOrigins
	c.RateLimitRPS = cfg.API.RateLimitRPS
	if cfg.API.MaxBodyBytes > 0 {
		c.MaxBodyBytes = cfg.API.MaxBodyBytes
	}
	if cfg.API.RequestTimeout > 0 {
		c.RequestTimeout = cfg.API.RequestTimeout
	}
	c.GeoIPDBPath = cfg.API.GeoIPDBPath
	c.BlockedCountries = cfg.API.BlockedCountries
	c.TLSEnabled = cfg.API.TLSEnabled
	c.TLSCertFile = cfg.API.TLSCertFile
	c.TLSKeyFile = cfg.API.TLSKeyFile
	return c
}
