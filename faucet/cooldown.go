package faucet

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// CooldownStore tracks when an address may claim again. Claim must be
// atomic: two concurrent claims for the same address succeed at most once
// per window.
type CooldownStore interface {
	// Claim marks addr as served for the window. It returns false with the
	// remaining wait when the address is still cooling down.
	Claim(ctx context.Context, addr string, window time.Duration) (bool, time.Duration, error)
	Close() error
}

// redisCooldown backs cooldowns with Redis so they survive restarts and
// are shared between replicas.
type redisCooldown struct {
	client *redis.Client
}

// NewRedisCooldown connects to redisURL and verifies reachability.
func NewRedisCooldown(ctx context.Context, redisURL string) (CooldownStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("faucet: parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("faucet: ping redis: %w", err)
	}
	return &redisCooldown{client: client}, nil
}

func (r *redisCooldown) Claim(ctx context.Context, addr string, window time.Duration) (bool, time.Duration, error) {
	key := "faucet:cooldown:" + addr
	ok, err := r.client.SetNX(ctx, key, time.Now().Unix(), window).Result()
	if err != nil {
		return false, 0, fmt.Errorf("faucet: redis claim: %w", err)
	}
	if ok {
		return true, 0, nil
	}
	ttl, err := r.client.TTL(ctx, key).Result()
	if err != nil {
		return false, 0, fmt.Errorf("faucet: redis ttl: %w", err)
	}
	return false, ttl, nil
}

func (r *redisCooldown) Close() error {
	return r.client.Close()
}

// memoryCooldown is the single-process fallback when no Redis is
// configured.
type memoryCooldown struct {
	mu    sync.Mutex
	until map[string]time.Time
	now   func() time.Time
}

// NewMemoryCooldown returns an in-memory cooldown store.
func NewMemoryCooldown() CooldownStore {
	return &memoryCooldown{until: make(map[string]time.Time), now: time.Now}
}

func (m *memoryCooldown) Claim(_ context.Context, addr string, window time.Duration) (bool, time.Duration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	if until, ok := m.until[addr]; ok && now.Before(until) {
		return false, until.Sub(now), nil
	}
	m.until[addr] = now.Add(window)
	return true, 0, nil
}

func (m *memoryCooldown) Close() error {
	return nil
}
