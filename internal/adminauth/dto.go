// AngelaMos | 2026
// dto.go

package adminauth

import (
	"time"

	"github.com/carterperez-dev/templates/admin-backoffice/internal/identity"
	"github.com/carterperez-dev/templates/admin-backoffice/internal/profile"
)

type AdminProfile struct {
	ID                string     `json:"id"`
	Email             string     `json:"email"`
	FullName          *string    `json:"full_name"`
	Phone             *string    `json:"phone"`
	AdminVerified     bool       `json:"admin_verified"`
	VerifiedBy        *string    `json:"verified_by"`
	VerifiedAt        *time.Time `json:"verified_at"`
	VerificationNotes *string    `json:"verification_notes"`
	SelfVerified      bool       `json:"self_verified"`
	CreatedAt         time.Time  `json:"created_at"`
	LastSignInAt      *time.Time `json:"last_sign_in_at"`
}

func newAdminProfile(p *profile.Profile, principal *identity.Principal) *AdminProfile {
	return &AdminProfile{
		ID:                p.ID,
		Email:             principal.Email,
		FullName:          p.FullName,
		Phone:             p.Phone,
		AdminVerified:     p.AdminVerified,
		VerifiedBy:        p.VerifiedBy,
		VerifiedAt:        p.VerifiedAt,
		VerificationNotes: p.VerificationNotes,
		SelfVerified:      p.IsSelfVerified(),
		CreatedAt:         p.CreatedAt,
		LastSignInAt:      principal.LastSignInAt,
	}
}

type SessionResult struct {
	IsAdmin bool          `json:"isAdmin"`
	Profile *AdminProfile `json:"user"`
}

type CheckAdminRequest struct {
	UserID string `json:"userId" validate:"required"`
}

type CheckAdminResponse struct {
	IsAdmin bool `json:"isAdmin"`
}
