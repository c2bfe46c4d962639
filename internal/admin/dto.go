// AngelaMos | 2026
// dto.go

package admin

type SystemStatsResponse struct {
	Database DatabaseStatus   `json:"database"`
	Redis    RedisStatus      `json:"redis"`
	Identity DependencyStatus `json:"identity"`
	Runtime  RuntimeStats     `json:"runtime"`
	Authz    *AuthzStats      `json:"authz,omitempty"`
}

// AuthzStats reports the configured migration phase next to what the
// database actually has. VerificationColumn is null when the probe failed.
type AuthzStats struct {
	Phase              string `json:"phase"`
	AllowlistSize      int    `json:"allowlist_size"`
	VerificationColumn *bool  `json:"verification_column"`
	ProbeError         string `json:"probe_error,omitempty"`
}

type DependencyStatus struct {
	Healthy bool   `json:"healthy"`
	Latency string `json:"latency,omitempty"`
}

type DatabaseStatus struct {
	DependencyStatus
	Stats *DBPoolStats `json:"stats,omitempty"`
}

type RedisStatus struct {
	DependencyStatus
	Stats *RedisPoolStats `json:"stats,omitempty"`
}

type DBPoolStats struct {
	MaxOpenConnections int    `json:"max_open_connections"`
	OpenConnections    int    `json:"open_connections"`
	InUse              int    `json:"in_use"`
	Idle               int    `json:"idle"`
	WaitCount          int64  `json:"wait_count"`
	WaitDuration       string `json:"wait_duration"`
	MaxIdleClosed      int64  `json:"max_idle_closed"`
	MaxLifetimeClosed  int64  `json:"max_lifetime_closed"`
}

type RedisPoolStats struct {
	Hits       uint32 `json:"hits"`
	Misses     uint32 `json:"misses"`
	Timeouts   uint32 `json:"timeouts"`
	TotalConns uint32 `json:"total_conns"`
	IdleConns  uint32 `json:"idle_conns"`
}

type RuntimeStats struct {
	GoVersion    string `json:"go_version"`
	NumGoroutine int    `json:"num_goroutine"`
	MemAlloc     uint64 `json:"mem_alloc_bytes"`
	NumGC        uint32 `json:"num_gc"`
}
