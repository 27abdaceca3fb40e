package ratelimit

import (
	"context"
	"net/http"
	"sync"
	"time"
)

// Limiter paces outbound provider calls
type Limiter interface {
	Wait(ctx context.Context) error
}

// FixedDelay enforces a minimum gap between consecutive calls.
// The first call passes immediately.
type FixedDelay struct {
	delay time.Duration
	last  time.Time
	mu    sync.Mutex
}

func NewFixedDelay(delay time.Duration) *FixedDelay {
	return &FixedDelay{delay: delay}
}

// Wait blocks until delay has elapsed since the previous call returned
func (fd *FixedDelay) Wait(ctx context.Context) error {
	fd.mu.Lock()
	defer fd.mu.Unlock()

	if !fd.last.IsZero() {
		if remaining := fd.delay - time.Since(fd.last); remaining > 0 {
			timer := time.NewTimer(remaining)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}
	}
	fd.last = time.Now()
	return nil
}

// TokenBucket implements token bucket rate limiting
type TokenBucket struct {
	tokens         int
	maxTokens      int
	refillRate     time.Duration
	lastRefillTime time.Time
	mu             sync.Mutex
}

// NewTokenBucket creates a new token bucket
// maxTokens: maximum number of tokens in the bucket
// refillRate: how often to add a token (e.g., 100ms = 10 requests/second)
func NewTokenBucket(maxTokens int, refillRate time.Duration) *TokenBucket {
	return &TokenBucket{
		tokens:         maxTokens,
		maxTokens:      maxTokens,
		refillRate:     refillRate,
		lastRefillTime: time.Now(),
	}
}

// Wait waits until a token is available
func (tb *TokenBucket) Wait(ctx context.Context) error {
	for {
		if tb.tryAcquire() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(10 * time.Millisecond):
		}
	}
}

// tryAcquire attempts to acquire a token
func (tb *TokenBucket) tryAcquire() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	// Refill tokens based on time elapsed
	elapsed := time.Since(tb.lastRefillTime)
	tokensToAdd := int(elapsed / tb.refillRate)

	if tokensToAdd > 0 {
		tb.tokens += tokensToAdd
		if tb.tokens > tb.maxTokens {
			tb.tokens = tb.maxTokens
		}
		tb.lastRefillTime = tb.lastRefillTime.Add(time.Duration(tokensToAdd) * tb.refillRate)
	}

	if tb.tokens > 0 {
		tb.tokens--
		return true
	}

	return false
}

// Registry holds one limiter per provider
type Registry struct {
	limiters map[string]Limiter
	mu       sync.RWMutex
}

func NewRegistry() *Registry {
	return &Registry{
		limiters: make(map[string]Limiter),
	}
}

// Add registers the limiter for a provider, replacing any previous one
func (r *Registry) Add(provider string, limiter Limiter) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.limiters[provider] = limiter
}

// Get returns the limiter for a provider, or nil
func (r *Registry) Get(provider string) Limiter {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.limiters[provider]
}

// WithRateLimit wraps a function with rate limiting
func WithRateLimit(ctx context.Context, limiter Limiter, fn func() error) error {
	if limiter != nil {
		if err := limiter.Wait(ctx); err != nil {
			return err
		}
	}
	return fn()
}

// Transport paces every request sent through an SDK-owned http.Client
type Transport struct {
	Limiter Limiter
	Base    http.RoundTripper
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	var resp *http.Response
	err := WithRateLimit(req.Context(), t.Limiter, func() error {
		var err error
		resp, err = base.RoundTrip(req)
		return err
	})
	return resp, err
}
