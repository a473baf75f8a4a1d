package ratelimit

import (
	"context"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"
)

// Store counts requests per key within a fixed window.
type Store interface {
	// Incr adds one hit for key and returns the count in the current
	// window. The window starts with the first hit.
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

// Limiter allows up to RequestsPerMinute requests per client in a one
// minute window. When the store fails the request is let through.
type Limiter struct {
	store             Store
	requestsPerMinute int
	window            time.Duration
	metrics           *MetricsCollector
}

type Config struct {
	RequestsPerMinute int
	CleanupInterval   time.Duration
}

func DefaultConfig() Config {
	return Config{
		RequestsPerMinute: 60,
		CleanupInterval:   5 * time.Minute,
	}
}

// NewLimiter uses store for counting. A nil store gets an in-memory one.
func NewLimiter(config Config, store Store) *Limiter {
	defaults := DefaultConfig()
	if config.RequestsPerMinute <= 0 {
		config.RequestsPerMinute = defaults.RequestsPerMinute
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = defaults.CleanupInterval
	}
	if store == nil {
		store = NewMemoryStore(config.CleanupInterval)
	}

	return &Limiter{
		store:             store,
		requestsPerMinute: config.RequestsPerMinute,
		window:            time.Minute,
		metrics:           NewMetricsCollector(),
	}
}

// Allow records a request from clientIP and reports whether it is within
// the limit.
func (rl *Limiter) Allow(ctx context.Context, clientIP string) bool {
	count, err := rl.store.Incr(ctx, clientIP, rl.window)
	if err != nil {
		slog.WarnContext(ctx, "Rate limit store unavailable, allowing request",
			"client_ip", clientIP,
			"error", err)
		return true
	}

	if count > int64(rl.requestsPerMinute) {
		rl.metrics.RecordHit()
		return false
	}
	return true
}

// Stop releases the store's background work, if it has any.
func (rl *Limiter) Stop() {
	if s, ok := rl.store.(interface{ Stop() }); ok {
		s.Stop()
	}
}

func (rl *Limiter) GetMetrics() Metrics {
	if s, ok := rl.store.(interface{ ActiveClients() int }); ok {
		rl.metrics.UpdateClientCount(int64(s.ActiveClients()))
	}
	return rl.metrics.GetMetrics()
}

type Metrics struct {
	TotalHits   int64
	ClientCount int64
}

// MetricsCollector tracks rate limiting metrics
type MetricsCollector struct {
	totalHits   int64
	clientCount int64
}

func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{}
}

func (m *MetricsCollector) RecordHit() {
	atomic.AddInt64(&m.totalHits, 1)
}

func (m *MetricsCollector) UpdateClientCount(count int64) {
	atomic.StoreInt64(&m.clientCount, count)
}

func (m *MetricsCollector) GetMetrics() Metrics {
	return Metrics{
		TotalHits:   atomic.LoadInt64(&m.totalHits),
		ClientCount: atomic.LoadInt64(&m.clientCount),
	}
}

// Middleware rejects limited requests with onLimit, or a plain 429 with
// Retry-After when onLimit is nil.
func (rl *Limiter) Middleware(extractIP func(*http.Request) string, onLimit func(http.ResponseWriter, *http.Request)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !rl.Allow(r.Context(), extractIP(r)) {
				if onLimit != nil {
					onLimit(w, r)
				} else {
					w.Header().Set("Retry-After", "60")
					http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
				}
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
