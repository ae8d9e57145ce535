package api

import (
	"context"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/oschwald/geoip2-golang"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

func (s *Server) setupMiddleware() {
	s.router.Use(s.recoveryMiddleware())
	s.router.Use(s.requestIDMiddleware())
	s.router.Use(s.tracingMiddleware())
	s.router.Use(s.loggingMiddleware())
	s.router.Use(s.securityHeadersMiddleware())
	s.router.Use(s.corsMiddleware())
	s.router.Use(s.geoBlockMiddleware())
	s.router.Use(s.rateLimitMiddleware())
	s.router.Use(s.bodyLimitMiddleware())
	s.router.Use(s.timeoutMiddleware())
}

func (s *Server) recoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("handler panic", "panic", r, "path", c.Request.URL.Path)
				c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
			}
		}()
		c.Next()
	}
}

func (s *Server) requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

// tracingMiddleware wraps each request in a server span. With no tracer
// provider installed this is a no-op.
func (s *Server) tracingMiddleware() gin.HandlerFunc {
	tracer := otel.Tracer("cascade/api")
	return func(c *gin.Context) {
		name := c.Request.Method + " " + c.FullPath()
		ctx, span := tracer.Start(c.Request.Context(), name,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.method", c.Request.Method),
				attribute.String("http.target", c.Request.URL.Path),
			))
		defer span.End()

		c.Request = c.Request.WithContext(ctx)
		c.Next()
		span.SetAttributes(attribute.Int("http.status_code", c.Writer.Status()))
	}
}

func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"ip", c.ClientIP(),
			"request_id", c.GetString("request_id"),
		)
	}
}

func (s *Server) securityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "no-referrer")
		c.Header("Content-Security-Policy", "default-src 'none'")
		c.Next()
	}
}

func (s *Server) corsMiddleware() gin.HandlerFunc {
	allowed := make(map[string]bool, len(s.config.CORSOrigins))
	wildcard := false
	for _, origin := range s.config.CORSOrigins {
		if origin == "*" {
			wildcard = true
		}
		allowed[origin] = true
	}
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && (wildcard || allowed[origin]) {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
			c.Header("Access-Control-Max-Age", "86400")
			c.Header("Vary", "Origin")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// rateLimitMiddleware enforces a per-client token bucket keyed by IP. Stale
// limiters are swept so the map does not grow unbounded.
func (s *Server) rateLimitMiddleware() gin.HandlerFunc {
	if s.config.RateLimitRPS <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	type clientLimiter struct {
		limiter  *rate.Limiter
		lastSeen time.Time
	}
	var (
		mu      sync.Mutex
		clients = make(map[string]*clientLimiter)
	)
	go func() {
		for range time.Tick(5 * time.Minute) {
			mu.Lock()
			for ip, cl := range clients {
				if time.Since(cl.lastSeen) > 10*time.Minute {
					delete(clients, ip)
				}
			}
			mu.Unlock()
		}
	}()

	rps := rate.Limit(s.config.RateLimitRPS)
	burst := s.config.RateLimitRPS * 2
	return func(c *gin.Context) {
		ip := c.ClientIP()
		mu.Lock()
		cl, ok := clients[ip]
		if !ok {
			cl = &clientLimiter{limiter: rate.NewLimiter(rps, burst)}
			clients[ip] = cl
		}
		cl.lastSeen = time.Now()
		mu.Unlock()

		if !cl.limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, ErrorResponse{Error: "rate limit exceeded"})
			return
		}
		c.Next()
	}
}

func (s *Server) bodyLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.config.MaxBodyBytes)
		}
		c.Next()
	}
}

// timeoutMiddleware bounds handler latency. Websocket upgrades are exempt:
// their connections outlive any request deadline.
func (s *Server) timeoutMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/ws") {
			c.Next()
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), s.config.RequestTimeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func (s *Server) geoBlockMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.geo.Blocked(c.ClientIP()) {
			c.Next()
			return
		}
		s.logger.Warn("request blocked by geo policy", "ip", c.ClientIP())
		c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{Error: "access from your region is not permitted"})
	}
}

// geoBlocker answers country-level access policy from a MaxMind database.
// With no database or no blocklist configured it permits everything.
type geoBlocker struct {
	reader  *geoip2.Reader
	blocked map[string]bool
}

func newGeoBlocker(dbPath string, countries []string) (*geoBlocker, error) {
	g := &geoBlocker{blocked: make(map[string]bool, len(countries))}
	for _, c := range countries {
		g.blocked[strings.ToUpper(c)] = true
	}
	if dbPath == "" || len(g.blocked) == 0 {
		return g, nil
	}
	reader, err := geoip2.Open(dbPath)
	if err != nil {
		return nil, err
	}
	g.reader = reader
	return g, nil
}

func (g *geoBlocker) Blocked(ipStr string) bool {
	if g.reader == nil {
		return false
	}
	ip := net.ParseIP(ipStr)
	if ip == nil {
		return false
	}
	country, err := g.reader.Country(ip)
	if err != nil {
		return false
	}
	return g.blocked[country.Country.IsoCode]
}

func (g *geoBlocker) Close() error {
	if g.reader == nil {
		return nil
	}
	return g.reader.Close()
}
