package handlers

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const limiterIdleTTL = 10 * time.Minute

// LoginLimiter throttles credential checks per client address.
type LoginLimiter struct {
	mu        sync.Mutex
	every     rate.Limit
	burst     int
	clients   map[string]*limitedClient
	now       func() time.Time
	lastPrune time.Time
}

type limitedClient struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewLoginLimiter allows requests attempts per window for each client. It
// returns nil, which allows everything, when either value is not positive.
func NewLoginLimiter(requests int, window time.Duration) *LoginLimiter {
	if requests <= 0 || window <= 0 {
		return nil
	}
	return &LoginLimiter{
		every:   rate.Every(window / time.Duration(requests)),
		burst:   requests,
		clients: make(map[string]*limitedClient),
		now:     time.Now,
	}
}

// Allow reports whether key may attempt another login now.
func (l *LoginLimiter) Allow(key string) bool {
	if l == nil {
		return true
	}
	l.mu.Lock()
	now := l.now()
	l.pruneLocked(now)
	client, ok := l.clients[key]
	if !ok {
		client = &limitedClient{limiter: rate.NewLimiter(l.every, l.burst)}
		l.clients[key] = client
	}
	client.lastSeen = now
	l.mu.Unlock()

	return client.limiter.AllowN(now, 1)
}

// pruneLocked drops idle clients at most once per TTL.
func (l *LoginLimiter) pruneLocked(now time.Time) {
	if now.Sub(l.lastPrune) < limiterIdleTTL {
		return
	}
	for key, client := range l.clients {
		if now.Sub(client.lastSeen) > limiterIdleTTL {
			delete(l.clients, key)
		}
	}
	l.lastPrune = now
}
