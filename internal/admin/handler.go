// AngelaMos | 2026
// handler.go

package admin

import (
	"context"
	"database/sql"
	"net/http"
	"runtime"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/carterperez-dev/templates/admin-backoffice/internal/core"
)

const probeTimeout = 3 * time.Second

type Pinger interface {
	Ping(ctx context.Context) error
}

type DatabaseSource interface {
	Pinger
	Stats() sql.DBStats
}

type RedisSource interface {
	Pinger
	PoolStats() *redis.PoolStats
}

// SchemaProber reports whether the admin_verified column exists.
type SchemaProber interface {
	HasVerificationColumn(ctx context.Context) (bool, error)
}

// AuthzInfo describes how admin eligibility is currently decided.
type AuthzInfo interface {
	Phase() string
	AllowlistSize() int
}

// HandlerConfig wires the operator stats. Nil sources are reported as
// unhealthy rather than omitted.
type HandlerConfig struct {
	Database DatabaseSource
	Redis    RedisSource
	Identity Pinger
	Schema   SchemaProber
	Authz    AuthzInfo
}

type Handler struct {
	cfg HandlerConfig
}

func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{cfg: cfg}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(adminOnly)

		r.Get("/stats", h.GetSystemStats)
		r.Get("/stats/authz", h.GetAuthzStats)
		r.Get("/stats/runtime", h.GetRuntimeStats)
	})
}

func (h *Handler) GetSystemStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), probeTimeout)
	defer cancel()

	resp := SystemStatsResponse{
		Runtime: runtimeStats(),
		Authz:   h.authzStats(ctx),
	}

	if db := h.cfg.Database; db != nil {
		resp.Database.DependencyStatus = ping(ctx, db)
		resp.Database.Stats = dbPoolStats(db.Stats())
	}
	if rdb := h.cfg.Redis; rdb != nil {
		resp.Redis.DependencyStatus = ping(ctx, rdb)
		resp.Redis.Stats = redisPoolStats(rdb.PoolStats())
	}
	if h.cfg.Identity != nil {
		resp.Identity = ping(ctx, h.cfg.Identity)
	}

	core.OK(w, resp)
}

func (h *Handler) GetAuthzStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), probeTimeout)
	defer cancel()

	stats := h.authzStats(ctx)
	if stats == nil {
		core.NotFound(w, "authorization stats")
		return
	}
	core.OK(w, stats)
}

func (h *Handler) GetRuntimeStats(w http.ResponseWriter, _ *http.Request) {
	core.OK(w, runtimeStats())
}

// authzStats probes the schema on every call so operators can watch the
// migration land without a restart.
func (h *Handler) authzStats(ctx context.Context) *AuthzStats {
	if h.cfg.Authz == nil {
		return nil
	}

	stats := &AuthzStats{
		Phase:         h.cfg.Authz.Phase(),
		AllowlistSize: h.cfg.Authz.AllowlistSize(),
	}

	if h.cfg.Schema == nil {
		stats.ProbeError = "schema probe not configured"
		return stats
	}

	present, err := h.cfg.Schema.HasVerificationColumn(ctx)
	if err != nil {
		stats.ProbeError = "schema probe failed"
		return stats
	}
	stats.VerificationColumn = &present

	return stats
}

func ping(ctx context.Context, p Pinger) DependencyStatus {
	start := time.Now()
	err := p.Ping(ctx)
	return DependencyStatus{
		Healthy: err == nil,
		Latency: time.Since(start).String(),
	}
}

func runtimeStats() RuntimeStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return RuntimeStats{
		GoVersion:    runtime.Version(),
		NumGoroutine: runtime.NumGoroutine(),
		MemAlloc:     m.Alloc,
		NumGC:        m.NumGC,
	}
}

func dbPoolStats(s sql.DBStats) *DBPoolStats {
	return &DBPoolStats{
		MaxOpenConnections: s.MaxOpenConnections,
		OpenConnections:    s.OpenConnections,
		InUse:              s.InUse,
		Idle:               s.Idle,
		WaitCount:          s.WaitCount,
		WaitDuration:       s.WaitDuration.String(),
		MaxIdleClosed:      s.MaxIdleClosed,
		MaxLifetimeClosed:  s.MaxLifetimeClosed,
	}
}

func redisPoolStats(s *redis.PoolStats) *RedisPoolStats {
	if s == nil {
		return nil
	}
	return &RedisPoolStats{
		Hits:       s.Hits,
		Misses:     s.Misses,
		Timeouts:   s.Timeouts,
		TotalConns: s.TotalConns,
		IdleConns:  s.IdleConns,
	}
}
