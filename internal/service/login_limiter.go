package service

import (
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultLoginRate allows one attempt per 2 seconds per account with a
	// short burst so a mistyped password can be retried immediately.
	DefaultLoginRate  = rate.Limit(0.5)
	DefaultLoginBurst = 5

	loginLimiterTTL             = 15 * time.Minute
	loginLimiterCleanupInterval = 5 * time.Minute
)

type loginAttempter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// LoginLimiter throttles login attempts per account email and client address
// using token buckets. Entries idle longer than the TTL are dropped on a
// periodic sweep.
type LoginLimiter struct {
	mu       sync.Mutex
	attempts map[string]*loginAttempter
	limit    rate.Limit
	burst    int
	lastGC   time.Time
	now      func() time.Time
}

// NewLoginLimiter creates a limiter with the default rate and burst.
func NewLoginLimiter() *LoginLimiter {
	return NewLoginLimiterWith(DefaultLoginRate, DefaultLoginBurst)
}

// NewLoginLimiterWith creates a limiter with an explicit rate and burst.
func NewLoginLimiterWith(limit rate.Limit, burst int) *LoginLimiter {
	return &LoginLimiter{
		attempts: make(map[string]*loginAttempter),
		limit:    limit,
		burst:    burst,
		now:      time.Now,
	}
}

// Allow reports whether another attempt for this email from this client
// address may proceed now. Keying on the pair keeps one address from locking
// an account out and one account from exhausting a shared address.
func (l *LoginLimiter) Allow(email, clientIP string) bool {
	key := strings.ToLower(strings.TrimSpace(email)) + "|" + strings.TrimSpace(clientIP)
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	l.sweepLocked(now)

	a, ok := l.attempts[key]
	if !ok {
		a = &loginAttempter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.attempts[key] = a
	}
	a.lastSeen = now
	return a.limiter.Allow()
}

func (l *LoginLimiter) sweepLocked(now time.Time) {
	if now.Sub(l.lastGC) < loginLimiterCleanupInterval {
		return
	}
	l.lastGC = now
	for key, a := range l.attempts {
		if now.Sub(a.lastSeen) > loginLimiterTTL {
			delete(l.attempts, key)
		}
	}
}
