// AngelaMos | 2026
// ratelimit.go

package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	redis_rate "github.com/go-redis/redis_rate/v10"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/carterperez-dev/templates/admin-backoffice/internal/config"
	"github.com/carterperez-dev/templates/admin-backoffice/internal/core"
)

type RateLimitConfig struct {
	Limit      redis_rate.Limit
	KeyFunc    func(*http.Request) string
	BypassFunc func(*http.Request) bool
	// FailOpen lets requests through when neither Redis nor the local
	// buckets can decide.
	FailOpen bool
}

// RateLimiter enforces a shared limit through Redis and falls back to
// per-process token buckets while Redis is unreachable.
type RateLimiter struct {
	redis *redis_rate.Limiter
	local *bucketStore
	cfg   RateLimitConfig
}

func NewRateLimiter(rdb *redis.Client, cfg RateLimitConfig) *RateLimiter {
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = KeyByIP
	}

	return &RateLimiter{
		redis: redis_rate.NewLimiter(rdb),
		local: newBucketStore(),
		cfg:   cfg,
	}
}

func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rl.cfg.BypassFunc != nil && rl.cfg.BypassFunc(r) {
			next.ServeHTTP(w, r)
			return
		}

		key := rl.cfg.KeyFunc(r)
		d, err := rl.decide(r.Context(), key)
		if err != nil {
			if rl.cfg.FailOpen {
				slog.WarnContext(r.Context(), "rate limiter failed, letting request through",
					"error", err,
					"key", key,
				)
				next.ServeHTTP(w, r)
				return
			}
			core.JSONError(w, core.NewAppError(
				err,
				"rate limiter unavailable",
				http.StatusServiceUnavailable,
				"SERVICE_UNAVAILABLE",
			))
			return
		}

		d.writeHeaders(w, rl.cfg.Limit)

		if !d.allowed {
			d.writeExceeded(w)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) decide(ctx context.Context, key string) (decision, error) {
	res, err := rl.redis.Allow(ctx, key, rl.cfg.Limit)
	if err == nil {
		return decision{
			allowed:    res.Allowed > 0,
			remaining:  res.Remaining,
			retryAfter: res.RetryAfter,
			resetAfter: res.ResetAfter,
		}, nil
	}

	slog.DebugContext(ctx, "redis rate limit unavailable, using local buckets",
		"error", err,
	)
	return rl.local.take(key, rl.cfg.Limit, time.Now())
}

// decision is the outcome of one rate limit check, whichever backend made it.
type decision struct {
	allowed    bool
	remaining  int
	retryAfter time.Duration
	resetAfter time.Duration
}

func (d decision) writeHeaders(w http.ResponseWriter, limit redis_rate.Limit) {
	h := w.Header()
	h.Set("RateLimit-Policy", fmt.Sprintf("%d;w=%d", limit.Rate, int(limit.Period.Seconds())))
	h.Set("RateLimit", fmt.Sprintf("%d;t=%d", d.remaining, int(d.resetAfter.Seconds())))
}

func (d decision) writeExceeded(w http.ResponseWriter) {
	retryAfter := int(d.retryAfter.Seconds())
	if retryAfter < 1 {
		retryAfter = 1
	}

	w.Header().Set("Retry-After", strconv.Itoa(retryAfter))

	core.JSON(w, http.StatusTooManyRequests, core.ErrorResponse{
		Error: fmt.Sprintf("rate limit exceeded, retry after %d seconds", retryAfter),
		Code:  "RATE_LIMITED",
	})
}

// KeyByIP uses the last X-Forwarded-For hop, which is the one appended by
// the closest proxy.
func KeyByIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		hops := strings.Split(xff, ",")
		return "ratelimit:ip:" + strings.TrimSpace(hops[len(hops)-1])
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return "ratelimit:ip:" + xri
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}

	return "ratelimit:ip:" + ip
}

// KeyByPrincipal keys authenticated callers by principal id and everyone
// else by client address.
func KeyByPrincipal(r *http.Request) string {
	if principalID := GetPrincipalID(r.Context()); principalID != "" {
		return "ratelimit:principal:" + principalID
	}
	return KeyByIP(r)
}

const (
	sweepInterval = 5 * time.Minute
	bucketTTL     = 10 * time.Minute
)

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// bucketStore holds one token bucket per key. Idle buckets are swept while
// serving requests.
type bucketStore struct {
	mu        sync.Mutex
	buckets   map[string]*bucket
	lastSweep time.Time
}

func newBucketStore() *bucketStore {
	return &bucketStore{
		buckets:   make(map[string]*bucket),
		lastSweep: time.Now(),
	}
}

func (s *bucketStore) take(key string, limit redis_rate.Limit, now time.Time) (decision, error) {
	if limit.Rate < 1 || limit.Period <= 0 {
		return decision{}, fmt.Errorf("invalid rate limit %d per %s", limit.Rate, limit.Period)
	}
	perSecond := float64(limit.Rate) / limit.Period.Seconds()
	interval := time.Duration(float64(time.Second) / perSecond)

	s.mu.Lock()
	defer s.mu.Unlock()

	if now.Sub(s.lastSweep) >= sweepInterval {
		s.sweep(now)
	}

	b, ok := s.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(rate.Limit(perSecond), limit.Burst)}
		s.buckets[key] = b
	}
	b.lastSeen = now

	d := decision{
		allowed:    b.limiter.AllowN(now, 1),
		resetAfter: interval,
	}
	d.remaining = max(int(b.limiter.TokensAt(now)), 0)
	if !d.allowed {
		d.retryAfter = interval
	}

	return d, nil
}

func (s *bucketStore) sweep(now time.Time) {
	for key, b := range s.buckets {
		if now.Sub(b.lastSeen) > bucketTTL {
			delete(s.buckets, key)
		}
	}
	s.lastSweep = now
}

func (s *bucketStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.buckets)
}

// LimitFromConfig spreads cfg.Requests over cfg.Window.
func LimitFromConfig(cfg config.RateLimitConfig) redis_rate.Limit {
	limit := redis_rate.Limit{
		Rate:   max(cfg.Requests, 1),
		Burst:  cfg.Burst,
		Period: cfg.Window,
	}
	if limit.Period <= 0 {
		limit.Period = time.Minute
	}
	if limit.Burst < 1 {
		limit.Burst = limit.Rate
	}
	return limit
}
