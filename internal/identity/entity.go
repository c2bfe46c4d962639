// AngelaMos | 2026
// entity.go

package identity

import (
	"time"
)

// Principal is an authenticated identity as reported by the identity
// provider. It is never written by this service.
type Principal struct {
	ID               string     `json:"id"`
	Email            string     `json:"email"`
	EmailConfirmedAt *time.Time `json:"email_confirmed_at"`
	LastSignInAt     *time.Time `json:"last_sign_in_at"`
	CreatedAt        *time.Time `json:"created_at"`
}

type principalList struct {
	Users []Principal `json:"users"`
}

type providerError struct {
	Code    int    `json:"code"`
	Message string `json:"msg"`
	Error   string `json:"error"`
}
