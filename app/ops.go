package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"cosmossdk.io/log"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/cascade-dex/cascade/app/health"
	"github.com/cascade-dex/cascade/config"
	"github.com/cascade-dex/cascade/faucet"
)

// OpsServer is the operational surface: health probes, Prometheus metrics
// and the optional dev faucet. It is meant for an internal listener, not
// the public edge.
type OpsServer struct {
	cfg     config.OpsConfig
	handler http.Handler
	logger  log.Logger
	httpSrv *http.Server
}

// NewOpsServer builds the ops router. faucetSvc may be nil.
func NewOpsServer(cfg config.OpsConfig, checker *health.Checker, faucetSvc *faucet.Service, logger log.Logger) *OpsServer {
	router := mux.NewRouter()
	checker.RegisterRoutes(router)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	if faucetSvc != nil {
		faucetSvc.RegisterRoutes(router)
	}

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
	})
	handler := handlers.RecoveryHandler()(c.Handler(router))
	handler = handlers.CombinedLoggingHandler(os.Stdout, handler)

	return &OpsServer{
		cfg:     cfg,
		handler: handler,
		logger:  logger.With("component", "ops"),
	}
}

// Handler exposes the router for tests.
func (o *OpsServer) Handler() http.Handler {
	return o.handler
}

// Start serves until ctx is cancelled.
func (o *OpsServer) Start(ctx context.Context) error {
	o.httpSrv = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", o.cfg.Host, o.cfg.Port),
		Handler:      o.handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := o.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	o.logger.Info("ops server listening", "addr", o.httpSrv.Addr)

	select {
	case err := <-errCh:
		return fmt.Errorf("ops: serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := o.httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("ops: shutdown: %w", err)
	}
	o.logger.Info("ops server stopped")
	return nil
}
