// AngelaMos | 2026
// dto.go

package user

import (
	"time"

	"github.com/carterperez-dev/templates/admin-backoffice/internal/identity"
	"github.com/carterperez-dev/templates/admin-backoffice/internal/profile"
)

type UpdateVerificationRequest struct {
	UserID   string  `json:"userId"   validate:"required,uuid"`
	Verified *bool   `json:"verified" validate:"required"`
	Notes    *string `json:"notes"    validate:"omitempty,max=1000"`
}

type UpdateVerificationResponse struct {
	Success bool `json:"success"`
}

type UserResponse struct {
	ID                string     `json:"id"`
	Email             string     `json:"email"`
	FullName          *string    `json:"full_name"`
	Phone             *string    `json:"phone"`
	Gender            *string    `json:"gender"`
	AUState           *string    `json:"au_state"`
	AdminVerified     bool       `json:"admin_verified"`
	VerifiedBy        *string    `json:"verified_by"`
	VerifiedAt        *time.Time `json:"verified_at"`
	VerificationNotes *string    `json:"verification_notes"`
	CreatedAt         time.Time  `json:"created_at"`
	LastSignInAt      *time.Time `json:"last_sign_in_at"`
	EmailConfirmedAt  *time.Time `json:"email_confirmed_at"`
}

type UserListResponse struct {
	Users      []UserResponse `json:"users"`
	TotalCount int            `json:"totalCount"`
	HasMore    bool           `json:"hasMore"`
}

// ToUserResponse merges a profile row with its principal. principal may be
// nil when the identity provider did not return it.
func ToUserResponse(p profile.Profile, principal *identity.Principal) UserResponse {
	resp := UserResponse{
		ID:                p.ID,
		FullName:          p.FullName,
		Phone:             p.Phone,
		Gender:            p.Gender,
		AUState:           p.AUState,
		AdminVerified:     p.AdminVerified,
		VerifiedBy:        p.VerifiedBy,
		VerifiedAt:        p.VerifiedAt,
		VerificationNotes: p.VerificationNotes,
		CreatedAt:         p.CreatedAt,
	}

	if principal != nil {
		resp.Email = principal.Email
		resp.LastSignInAt = principal.LastSignInAt
		resp.EmailConfirmedAt = principal.EmailConfirmedAt
	}

	return resp
}
