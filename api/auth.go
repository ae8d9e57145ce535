package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"cosmossdk.io/log"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var errInvalidCredentials = errors.New("invalid credentials")

// AuthService issues and verifies bearer tokens for the single operator
// account. Mutating endpoints require a valid token; reads stay public.
type AuthService struct {
	secret   []byte
	ttl      time.Duration
	user     string
	passHash string
	address  string
	logger   log.Logger
}

// Claims is the JWT payload.
type Claims struct {
	Username string `json:"username"`
	Address  string `json:"address"`
	jwt.RegisteredClaims
}

func NewAuthService(config *Config, logger log.Logger) *AuthService {
	return &AuthService{
		secret:   config.JWTSecret,
		ttl:      config.TokenTTL,
		user:     config.OperatorUser,
		passHash: config.OperatorPassHash,
		address:  config.OperatorAddress,
		logger:   logger.With("component", "auth"),
	}
}

// Login verifies the operator credentials and issues a token.
func (a *AuthService) Login(username, password string) (string, *Claims, error) {
	if a.passHash == "" {
		return "", nil, errors.New("login disabled: no operator password configured")
	}
	if username != a.user {
		// Burn a comparison anyway so the failure timing does not reveal
		// whether the username exists.
		_ = bcrypt.CompareHashAndPassword([]byte(a.passHash), []byte(password))
		return "", nil, errInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.passHash), []byte(password)); err != nil {
		return "", nil, errInvalidCredentials
	}

	now := time.Now().UTC()
	claims := &Claims{
		Username: username,
		Address:  a.address,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", nil, err
	}
	return token, claims, nil
}

// Verify parses and validates a bearer token.
func (a *AuthService) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return a.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// requireAuth gates mutating endpoints on a valid bearer token and stores
// the authenticated address for handlers.
func (s *Server) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "authorization header required"})
			return
		}
		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "authorization header must be a bearer token"})
			return
		}
		claims, err := s.auth.Verify(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid or expired token"})
			return
		}
		c.Set("username", claims.Username)
		c.Set("address", claims.Address)
		c.Next()
	}
}

func (s *Server) handleLogin(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "username and password are required"})
		return
	}
	token, claims, err := s.auth.Login(req.Username, req.Password)
	if err != nil {
		s.logger.Warn("login failed", "username", req.Username, "ip", c.ClientIP())
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid credentials"})
		return
	}
	c.JSON(http.StatusOK, LoginResponse{
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Unix(),
		Address:   claims.Address,
	})
}
