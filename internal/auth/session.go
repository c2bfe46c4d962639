// AngelaMos | 2026
// session.go

package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"

	"github.com/carterperez-dev/templates/admin-backoffice/internal/config"
	"github.com/carterperez-dev/templates/admin-backoffice/internal/core"
	"github.com/carterperez-dev/templates/admin-backoffice/internal/middleware"
)

// SessionVerifier checks access tokens issued by the identity provider
// locally, without a provider round trip. Tokens are HS256 signed with the
// project's JWT secret.
type SessionVerifier struct {
	key      jwk.Key
	audience string
	skew     time.Duration
}

func NewSessionVerifier(cfg config.SupabaseConfig) (*SessionVerifier, error) {
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("jwt secret is empty")
	}

	key, err := jwk.Import([]byte(cfg.JWTSecret))
	if err != nil {
		return nil, fmt.Errorf("import jwt secret: %w", err)
	}

	if setErr := key.Set(jwk.AlgorithmKey, jwa.HS256()); setErr != nil {
		return nil, fmt.Errorf("set algorithm: %w", setErr)
	}

	return &SessionVerifier{
		key:      key,
		audience: cfg.JWTAudience,
		skew:     30 * time.Second,
	}, nil
}

func (v *SessionVerifier) VerifyAccessToken(
	_ context.Context,
	tokenString string,
) (*middleware.SessionClaims, error) {
	opts := []jwt.ParseOption{
		jwt.WithKey(jwa.HS256(), v.key),
		jwt.WithValidate(true),
		jwt.WithAcceptableSkew(v.skew),
	}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}

	token, err := jwt.Parse([]byte(tokenString), opts...)
	if err != nil {
		if isTokenExpiredError(err) {
			return nil, fmt.Errorf("verify token: %w", core.ErrTokenExpired)
		}
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenInvalid)
	}

	subject, ok := token.Subject()
	if !ok || subject == "" {
		return nil, fmt.Errorf(
			"verify token: missing subject: %w",
			core.ErrTokenInvalid,
		)
	}

	claims := &middleware.SessionClaims{PrincipalID: subject}

	// email and role are optional; anonymous sessions carry neither.
	//nolint:errcheck // absent claims leave the zero value
	_ = token.Get("email", &claims.Email)
	//nolint:errcheck // absent claims leave the zero value
	_ = token.Get("role", &claims.Role)

	return claims, nil
}

func isTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "exp") &&
		strings.Contains(errStr, "not satisfied")
}

var _ middleware.TokenVerifier = (*SessionVerifier)(nil)
