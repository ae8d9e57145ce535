package api

import (
	"context"
	"crypto/rand"
	"crypto/tls"
	"fmt"
	"net/http"
	"time"

	"cosmossdk.io/log"
	"github.com/gin-gonic/gin"

	"github.com/cascade-dex/cascade/pkg/events"
	"github.com/cascade-dex/cascade/x/amm/keeper"
	"github.com/cascade-dex/cascade/x/amm/types"
)

// Server is the REST surface over the engine. Mutating endpoints go through
// the message server so deadline and validation semantics match direct
// callers exactly.
type Server struct {
	router    *gin.Engine
	config    *Config
	keeper    *keeper.Keeper
	msgServer types.MsgServer
	hub       *Hub
	auth      *AuthService
	geo       *geoBlocker
	logger    log.Logger
	httpSrv   *http.Server
}

// Config holds server configuration.
type Config struct {
	Host             string
	Port             int
	JWTSecret        []byte
	TokenTTL         time.Duration
	OperatorUser     string
	OperatorPassHash string
	OperatorAddress  string
	CORSOrigins      []string
	RateLimitRPS     int
	MaxBodyBytes     int64
	RequestTimeout   time.Duration
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	ShutdownTimeout  time.Duration
	GeoIPDBPath      string
	BlockedCountries []string
	TLSEnabled       bool
	TLSCertFile      string
	TLSKeyFile       string
}

// DefaultConfig returns development defaults. The operator password hash is
// empty, which disables login until one is configured.
func DefaultConfig() *Config {
	return &Config{
		Host:            "0.0.0.0",
		Port:            8080,
		TokenTTL:        24 * time.Hour,
		OperatorUser:    "operator",
		CORSOrigins:     []string{"http://localhost:3000"},
		RateLimitRPS:    100,
		MaxBodyBytes:    1 << 20,
		RequestTimeout:  10 * time.Second,
		ReadTimeout:     15 * time.Second,
		WriteTimeout:    15 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

// NewServer wires the REST API against the engine keeper and the
// notification bus.
func NewServer(k *keeper.Keeper, bus *events.Bus, config *Config, logger log.Logger) (*Server, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if len(config.JWTSecret) == 0 {
		// Ephemeral secret: sessions do not survive a restart. Configure an
		// explicit secret for production.
		secret := make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("api: generate jwt secret: %w", err)
		}
		config.JWTSecret = secret
		logger.Warn("jwt secret generated at startup; configure api.jwt_secret to keep sessions across restarts")
	}

	geo, err := newGeoBlocker(config.GeoIPDBPath, config.BlockedCountries)
	if err != nil {
		return nil, fmt.Errorf("api: geoip: %w", err)
	}

	s := &Server{
		config:    config,
		keeper:    k,
		msgServer: keeper.NewMsgServerImpl(*k),
		hub:       NewHub(bus, logger),
		auth:      NewAuthService(config, logger),
		geo:       geo,
		logger:    logger.With("component", "api"),
	}

	gin.SetMode(gin.ReleaseMode)
	s.router = gin.New()
	s.setupMiddleware()
	s.registerRoutes()
	return s, nil
}

// Router exposes the handler for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start serves until ctx is cancelled, then drains connections within the
// shutdown timeout. The websocket hub runs for the server's lifetime.
func (s *Server) Start(ctx context.Context) error {
	go s.hub.Run(ctx)

	s.httpSrv = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", s.config.Host, s.config.Port),
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		var err error
		if s.config.TLSEnabled {
			s.httpSrv.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS13}
			err = s.httpSrv.ListenAndServeTLS(s.config.TLSCertFile, s.config.TLSKeyFile)
		} else {
			err = s.httpSrv.ListenAndServe()
		}
		if err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	s.logger.Info("api server listening", "addr", s.httpSrv.Addr, "tls", s.config.TLSEnabled)

	select {
	case err := <-errCh:
		return fmt.Errorf("api: serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()
	if err := s.httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("api: shutdown: %w", err)
	}
	s.logger.Info("api server stopped")
	return s.geo.Close()
}
