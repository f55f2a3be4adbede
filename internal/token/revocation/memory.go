// Package revocation tracks revoked token ids so logout takes effect before
// token expiry. The in-memory list suits single-node deployments; the Redis
// list shares state across instances.
package revocation

import (
	"context"
	"sync"
	"time"
)

// InMemory is a map-backed revocation list with lazy expiry.
type InMemory struct {
	mu      sync.RWMutex
	revoked map[string]time.Time
}

func NewInMemory() *InMemory {
	return &InMemory{revoked: make(map[string]time.Time)}
}

func (l *InMemory) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	if jti == "" {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.revoked[jti] = time.Now().Add(ttl)
	return nil
}

func (l *InMemory) IsRevoked(_ context.Context, jti string) (bool, error) {
	if jti == "" {
		return false, nil
	}
	l.mu.RLock()
	expiry, ok := l.revoked[jti]
	l.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if time.Now().After(expiry) {
		l.mu.Lock()
		delete(l.revoked, jti)
		l.mu.Unlock()
		return false, nil
	}
	return true, nil
}
