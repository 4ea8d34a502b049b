package worker

import (
	"context"
	"net/url"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// Limiter implements per-key rate limiting. Keys are opaque: a provider
// name, a client IP or a URL host. With an idle expiry, keys unused for that
// long are dropped and start again with a full bucket.
type Limiter struct {
	limiters     *gocache.Cache
	mu           sync.Mutex // Serializes bucket creation
	defaultRate  rate.Limit
	defaultBurst int
	idle         time.Duration
}

// NewLimiter creates a rate limiter whose keys never expire
func NewLimiter(requestsPerSecond float64, burst int) *Limiter {
	return NewExpiringLimiter(requestsPerSecond, burst, 0)
}

// NewExpiringLimiter creates a rate limiter that forgets keys idle for
// longer than idle. Zero keeps keys forever.
func NewExpiringLimiter(requestsPerSecond float64, burst int, idle time.Duration) *Limiter {
	if burst <= 0 {
		burst = 5
	}

	expiry := gocache.NoExpiration
	if idle > 0 {
		expiry = idle
	}

	return &Limiter{
		limiters:     gocache.New(expiry, idle),
		defaultRate:  rate.Limit(requestsPerSecond),
		defaultBurst: burst,
		idle:         idle,
	}
}

// Wait blocks until the key has a token or ctx is done
func (l *Limiter) Wait(ctx context.Context, key string) error {
	return l.getLimiter(key).Wait(ctx)
}

// Allow checks if a request is allowed without waiting
func (l *Limiter) Allow(key string) bool {
	return l.getLimiter(key).Allow()
}

// RetryAfter reports how long a caller for key should back off before the
// next token is available. Zero means a token is available now. It never
// consumes a token.
func (l *Limiter) RetryAfter(key string) time.Duration {
	limiter := l.getLimiter(key)

	tokens := limiter.Tokens()
	if tokens >= 1 {
		return 0
	}

	limit := float64(limiter.Limit())
	if limit <= 0 {
		// Never refills
		return time.Second
	}
	return time.Duration((1 - tokens) / limit * float64(time.Second))
}

// getLimiter returns the rate limiter for a key, refreshing its expiry
func (l *Limiter) getLimiter(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if v, found := l.limiters.Get(key); found {
		limiter := v.(*rate.Limiter)
		if l.idle > 0 {
			l.limiters.SetDefault(key, limiter)
		}
		return limiter
	}

	limiter := rate.NewLimiter(l.defaultRate, l.defaultBurst)
	l.limiters.SetDefault(key, limiter)
	return limiter
}

// SetRate sets a custom rate limit for a specific key
func (l *Limiter) SetRate(key string, requestsPerSecond float64, burst int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if burst <= 0 {
		burst = l.defaultBurst
	}

	l.limiters.SetDefault(key, rate.NewLimiter(rate.Limit(requestsPerSecond), burst))
}

// Len returns the number of keys being tracked, including expired keys the
// janitor has not yet removed
func (l *Limiter) Len() int {
	return l.limiters.ItemCount()
}

// HostKey returns the host of rawURL for use as a limiter key
func HostKey(rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	return parsed.Host, nil
}

// WaitWithDelay waits for rate limit and adds an additional delay
func (l *Limiter) WaitWithDelay(ctx context.Context, key string, additionalDelay time.Duration) error {
	if err := l.Wait(ctx, key); err != nil {
		return err
	}

	if additionalDelay > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(additionalDelay):
		}
	}

	return nil
}
