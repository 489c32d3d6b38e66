package utils

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"
)

const blacklistPrefix = "jwt:blacklist:"

// TokenBlacklist remembers revoked tokens until they expire. It prefers the shared
// cache and falls back to process memory when no cache is configured.
type TokenBlacklist struct {
	cache Cache

	mu      sync.RWMutex
	entries map[string]time.Time
}

// NewTokenBlacklist creates a blacklist on top of cache, which may be nil.
func NewTokenBlacklist(cache Cache) *TokenBlacklist {
	return &TokenBlacklist{cache: cache, entries: map[string]time.Time{}}
}

// Revoke stores a token until expiresAt to support logout semantics.
func (b *TokenBlacklist) Revoke(ctx context.Context, token string, expiresAt time.Time) {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return
	}
	key := tokenKey(token)
	if b.cache != nil {
		b.cache.Set(ctx, blacklistPrefix+key, []byte("1"), ttl)
		return
	}
	b.mu.Lock()
	b.entries[key] = expiresAt
	b.mu.Unlock()
}

// IsRevoked checks if a token was revoked before natural expiration.
func (b *TokenBlacklist) IsRevoked(ctx context.Context, token string) bool {
	key := tokenKey(token)
	if b.cache != nil {
		_, ok := b.cache.Get(ctx, blacklistPrefix+key)
		return ok
	}

	b.mu.RLock()
	expiresAt, ok := b.entries[key]
	b.mu.RUnlock()
	if !ok {
		return false
	}
	if time.Now().After(expiresAt) {
		b.mu.Lock()
		delete(b.entries, key)
		b.mu.Unlock()
		return false
	}
	return true
}

func tokenKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
