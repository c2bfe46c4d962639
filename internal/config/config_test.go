// AngelaMos | 2026
// config_test.go

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost/backoffice")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("SUPABASE_URL", "https://project.supabase.co")
	t.Setenv("SUPABASE_SERVICE_ROLE_KEY", "service-role")
	t.Setenv("SUPABASE_ANON_KEY", "anon")
	t.Setenv("SUPABASE_JWT_SECRET", "secret")
}

func TestLoad_DefaultsAndEnv(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ADMIN_ALLOWLIST", "admin@example.com, support@example.com ,")

	c, err := load("")
	require.NoError(t, err)

	assert.Equal(t, PhaseAuto, c.Authz.Phase)
	assert.Equal(t, []string{"admin@example.com", "support@example.com"}, c.Authz.Allowlist)
	assert.Equal(t, "authenticated", c.Supabase.JWTAudience)
	assert.Equal(t, 10*time.Second, c.Supabase.Timeout)
	assert.Equal(t, "service-role", c.Supabase.ServiceRoleKey)
}

func TestLoad_FileThenEnvOverride(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("AUTHZ_PHASE", "column")

	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := []byte("authz:\n  phase: allowlist\n  allowlist:\n    - ops@example.com\nserver:\n  port: 9090\n")
	require.NoError(t, os.WriteFile(path, yaml, 0o600))

	c, err := load(path)
	require.NoError(t, err)

	assert.Equal(t, PhaseColumn, c.Authz.Phase)
	assert.Equal(t, []string{"ops@example.com"}, c.Authz.Allowlist)
	assert.Equal(t, 9090, c.Server.Port)
}

func TestLoad_MissingCredentialAborts(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SUPABASE_SERVICE_ROLE_KEY", "")

	_, err := load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SUPABASE_SERVICE_ROLE_KEY")
}

func TestLoadTooling_OnlyNeedsDatabase(t *testing.T) {
	for _, key := range []string{
		"REDIS_URL", "SUPABASE_URL", "SUPABASE_SERVICE_ROLE_KEY",
		"SUPABASE_ANON_KEY", "SUPABASE_JWT_SECRET", "AUTHZ_PHASE", "ADMIN_ALLOWLIST",
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
	t.Setenv("DATABASE_URL", "postgres://localhost/backoffice")

	c, err := LoadTooling("")
	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost/backoffice", c.Database.URL)
	assert.False(t, c.Supabase.HasIdentityAdmin())

	_, err = load("")
	require.Error(t, err, "the API still requires every credential")
}

func TestLoadTooling_Rejects(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("AUTHZ_PHASE", "auto")
	_, err := LoadTooling("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")

	t.Setenv("DATABASE_URL", "postgres://localhost/backoffice")
	t.Setenv("AUTHZ_PHASE", "both")
	_, err = LoadTooling("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "authz.phase")
}

func TestValidate_Phase(t *testing.T) {
	base := func() *Config {
		return &Config{
			Database: DatabaseConfig{URL: "postgres://x"},
			Redis:    RedisConfig{URL: "redis://x"},
			Supabase: SupabaseConfig{
				URL:            "https://x",
				ServiceRoleKey: "s",
				AnonKey:        "a",
				JWTSecret:      "j",
			},
			Authz:  AuthzConfig{Phase: PhaseAuto},
			Server: ServerConfig{ReadTimeout: time.Second, WriteTimeout: time.Second},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "auto ok", mutate: func(*Config) {}},
		{name: "column ok", mutate: func(c *Config) { c.Authz.Phase = PhaseColumn }},
		{
			name:    "unknown phase",
			mutate:  func(c *Config) { c.Authz.Phase = "both" },
			wantErr: "authz.phase",
		},
		{
			name:    "allowlist phase needs entries",
			mutate:  func(c *Config) { c.Authz.Phase = PhaseAllowlist },
			wantErr: "ADMIN_ALLOWLIST",
		},
		{
			name: "cors wildcard with credentials",
			mutate: func(c *Config) {
				c.CORS.AllowCredentials = true
				c.CORS.AllowedOrigins = []string{"*"}
			},
			wantErr: "CORS wildcard",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(c)
			err := validate(c)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestEnvValue_IgnoresUnmappedKeys(t *testing.T) {
	key, value := envValue("HOME", "/root")
	assert.Empty(t, key)
	assert.Nil(t, value)
}
