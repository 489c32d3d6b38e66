package utils

import (
	"context"
	"sync"
	"time"
)

const registerCooldownPrefix = "reg:cooldown:"

// RegisterGuard enforces a cooldown between registrations from the same IP.
// Like the token blacklist it uses the shared cache when there is one.
type RegisterGuard struct {
	cooldown time.Duration
	cache    Cache

	mu    sync.Mutex
	until map[string]time.Time
}

// NewRegisterGuard creates a guard. A non-positive cooldown allows everything.
func NewRegisterGuard(cooldown time.Duration, cache Cache) *RegisterGuard {
	return &RegisterGuard{cooldown: cooldown, cache: cache, until: map[string]time.Time{}}
}

// Try reports whether ip may register now and, if so, starts its cooldown.
func (g *RegisterGuard) Try(ctx context.Context, ip string) bool {
	if g == nil || g.cooldown <= 0 {
		return true
	}
	if g.cache != nil {
		key := registerCooldownPrefix + ip
		if _, hit := g.cache.Get(ctx, key); hit {
			return false
		}
		g.cache.Set(ctx, key, []byte("1"), g.cooldown)
		return true
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	now := time.Now()
	for k, t := range g.until {
		if now.After(t) {
			delete(g.until, k)
		}
	}
	if t, ok := g.until[ip]; ok && now.Before(t) {
		return false
	}
	g.until[ip] = now.Add(g.cooldown)
	return true
}
