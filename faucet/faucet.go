// Package faucet credits development tokens to requesting addresses, with
// a per-address cooldown. It is only mounted on dev networks.
package faucet

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	"github.com/gorilla/mux"

	ammtypes "github.com/cascade-dex/cascade/x/amm/types"
)

// Minter is the bank capability the faucet needs.
type Minter interface {
	Mint(ctx context.Context, addr, token string, amount math.Int) error
}

// Service hands out fixed token amounts.
type Service struct {
	bank     Minter
	store    CooldownStore
	amounts  map[string]math.Int
	cooldown time.Duration
	logger   log.Logger
}

// New builds a faucet service. amounts maps token identifiers onto decimal
// amount strings.
func New(bank Minter, store CooldownStore, amounts map[string]string, cooldown time.Duration, logger log.Logger) (*Service, error) {
	if len(amounts) == 0 {
		return nil, fmt.Errorf("faucet: no amounts configured")
	}
	parsed := make(map[string]math.Int, len(amounts))
	for token, raw := range amounts {
		if err := ammtypes.ValidateToken(token); err != nil {
			return nil, fmt.Errorf("faucet: token %q: %w", token, err)
		}
		amt, ok := math.NewIntFromString(raw)
		if !ok || !amt.IsPositive() {
			return nil, fmt.Errorf("faucet: amount %q for %s must be a positive integer", raw, token)
		}
		parsed[token] = amt
	}
	return &Service{
		bank:     bank,
		store:    store,
		amounts:  parsed,
		cooldown: cooldown,
		logger:   logger.With("component", "faucet"),
	}, nil
}

// Claim credits the configured amounts to addr, once per cooldown window.
func (s *Service) Claim(ctx context.Context, addr string) (map[string]math.Int, error) {
	if err := ammtypes.ValidateAddress(addr); err != nil {
		return nil, err
	}
	ok, wait, err := s.store.Claim(ctx, addr, s.cooldown)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("faucet: address on cooldown for %s", wait.Round(time.Second))
	}
	for token, amount := range s.amounts {
		if err := s.bank.Mint(ctx, addr, token, amount); err != nil {
			return nil, fmt.Errorf("faucet: mint %s: %w", token, err)
		}
	}
	s.logger.Info("faucet claim served", "address", addr)
	return s.amounts, nil
}

// Close releases the cooldown store.
func (s *Service) Close() error {
	return s.store.Close()
}

type claimRequest struct {
	Address string `json:"address"`
}

type claimResponse struct {
	Address string            `json:"address"`
	Amounts map[string]string `json:"amounts"`
}

// RegisterRoutes mounts the faucet on the ops router.
func (s *Service) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/faucet/claim", s.handleClaim).Methods(http.MethodPost)
}

func (s *Service) handleClaim(w http.ResponseWriter, r *http.Request) {
	var req claimRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4096)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	amounts, err := s.Claim(r.Context(), req.Address)
	if err != nil {
		status := http.StatusUnprocessableEntity
		if ammtypes.ErrInvalidAddress.Is(err) {
			status = http.StatusBadRequest
		}
		writeJSON(w, status, map[string]string{"error": err.Error()})
		return
	}
	resp := claimResponse{Address: req.Address, Amounts: make(map[string]string, len(amounts))}
	for token, amt := range amounts {
		resp.Amounts[token] = amt.String()
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
