// Package device remembers device fingerprints that produced rejected
// submissions, feeding the prior-rejection behavioral flag.
package device

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const rejectionKeyPrefix = "tg:device:rejected:"

// InMemoryHistory is a process-local rejection history.
type InMemoryHistory struct {
	mu       sync.RWMutex
	ttl      time.Duration
	now      func() time.Time
	rejected map[string]time.Time
}

// NewInMemoryHistory keeps rejections for ttl; zero keeps them forever.
func NewInMemoryHistory(ttl time.Duration) *InMemoryHistory {
	return &InMemoryHistory{ttl: ttl, now: time.Now, rejected: make(map[string]time.Time)}
}

func (h *InMemoryHistory) HasRejection(_ context.Context, fingerprint string) (bool, error) {
	if fingerprint == "" {
		return false, nil
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	at, ok := h.rejected[fingerprint]
	if !ok {
		return false, nil
	}
	return h.ttl == 0 || h.now().Sub(at) < h.ttl, nil
}

func (h *InMemoryHistory) RecordRejection(_ context.Context, fingerprint string) error {
	if fingerprint == "" {
		return nil
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.rejected[fingerprint] = h.now()
	return nil
}

// RedisHistory stores rejections as expiring marker keys.
type RedisHistory struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisHistory(client *redis.Client, ttl time.Duration) *RedisHistory {
	return &RedisHistory{client: client, ttl: ttl}
}

func (h *RedisHistory) HasRejection(ctx context.Context, fingerprint string) (bool, error) {
	if fingerprint == "" {
		return false, nil
	}
	n, err := h.client.Exists(ctx, rejectionKeyPrefix+fingerprint).Result()
	if err != nil {
		return false, fmt.Errorf("check device history: %w", err)
	}
	return n > 0, nil
}

func (h *RedisHistory) RecordRejection(ctx context.Context, fingerprint string) error {
	if fingerprint == "" {
		return nil
	}
	if err := h.client.Set(ctx, rejectionKeyPrefix+fingerprint, "1", h.ttl).Err(); err != nil {
		return fmt.Errorf("record device rejection: %w", err)
	}
	return nil
}
