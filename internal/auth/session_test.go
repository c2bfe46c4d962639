// AngelaMos | 2026
// session_test.go

package auth

import (
	"context"
	"testing"
	"time"

	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/templates/admin-backoffice/internal/config"
	"github.com/carterperez-dev/templates/admin-backoffice/internal/core"
)

const testSecret = "super-secret-jwt-token-with-at-least-32-characters"

func signToken(t *testing.T, secret string, build func(b *jwt.Builder) *jwt.Builder) string {
	t.Helper()

	key, err := jwk.Import([]byte(secret))
	require.NoError(t, err)

	now := time.Now()
	b := jwt.NewBuilder().
		Subject("7d3e1c52-0000-4000-8000-000000000001").
		Audience([]string{"authenticated"}).
		IssuedAt(now).
		Expiration(now.Add(time.Hour)).
		Claim("email", "admin@example.com").
		Claim("role", "authenticated")
	if build != nil {
		b = build(b)
	}

	tok, err := b.Build()
	require.NoError(t, err)

	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.HS256(), key))
	require.NoError(t, err)
	return string(signed)
}

func newVerifier(t *testing.T) *SessionVerifier {
	t.Helper()
	v, err := NewSessionVerifier(config.SupabaseConfig{
		JWTSecret:   testSecret,
		JWTAudience: "authenticated",
	})
	require.NoError(t, err)
	return v
}

func TestNewSessionVerifier_EmptySecret(t *testing.T) {
	_, err := NewSessionVerifier(config.SupabaseConfig{})
	require.Error(t, err)
}

func TestVerifyAccessToken_Valid(t *testing.T) {
	v := newVerifier(t)

	claims, err := v.VerifyAccessToken(context.Background(), signToken(t, testSecret, nil))
	require.NoError(t, err)
	assert.Equal(t, "7d3e1c52-0000-4000-8000-000000000001", claims.PrincipalID)
	assert.Equal(t, "admin@example.com", claims.Email)
	assert.Equal(t, "authenticated", claims.Role)
}

func TestVerifyAccessToken_Rejections(t *testing.T) {
	v := newVerifier(t)

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{
			name:  "garbage",
			token: "not.a.jwt",
			want:  core.ErrTokenInvalid,
		},
		{
			name:  "wrong secret",
			token: signToken(t, "another-secret-another-secret-another", nil),
			want:  core.ErrTokenInvalid,
		},
		{
			name: "wrong audience",
			token: signToken(t, testSecret, func(b *jwt.Builder) *jwt.Builder {
				return b.Audience([]string{"service_role"})
			}),
			want: core.ErrTokenInvalid,
		},
		{
			name: "expired",
			token: signToken(t, testSecret, func(b *jwt.Builder) *jwt.Builder {
				return b.Expiration(time.Now().Add(-time.Hour))
			}),
			want: core.ErrTokenExpired,
		},
		{
			name: "missing subject",
			token: signToken(t, testSecret, func(b *jwt.Builder) *jwt.Builder {
				return b.Subject("")
			}),
			want: core.ErrTokenInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.VerifyAccessToken(context.Background(), tt.token)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
