// AngelaMos | 2026
// entity.go

package profile

import (
	"time"
)

// Profile is the application-level record for a principal. The verification
// columns are only present once the admin verification migration ran.
type Profile struct {
	ID                string     `db:"id"`
	FullName          *string    `db:"full_name"`
	Phone             *string    `db:"phone"`
	Gender            *string    `db:"gender"`
	AUState           *string    `db:"au_state"`
	AdminVerified     bool       `db:"admin_verified"`
	VerifiedBy        *string    `db:"verified_by"`
	VerifiedAt        *time.Time `db:"verified_at"`
	VerificationNotes *string    `db:"verification_notes"`
	CreatedAt         time.Time  `db:"created_at"`
}

// IsSelfVerified reports whether the profile records its own principal as
// the verifier. This happens when the first admin bootstraps itself.
func (p *Profile) IsSelfVerified() bool {
	return p.VerifiedBy != nil && *p.VerifiedBy == p.ID
}

// VerificationUpdate is the full column set written when admin verification
// is granted or revoked.
type VerificationUpdate struct {
	PrincipalID string
	Verified    bool
	VerifiedAt  *time.Time
	VerifiedBy  *string
	Notes       *string
}

// NewVerificationUpdate derives the written columns from the toggle inputs so
// that verified_at is set exactly when verified is true.
func NewVerificationUpdate(
	principalID string,
	verified bool,
	notes string,
	actingPrincipalID string,
	now time.Time,
) VerificationUpdate {
	upd := VerificationUpdate{
		PrincipalID: principalID,
		Verified:    verified,
	}

	if verified {
		at := now.UTC()
		upd.VerifiedAt = &at
		if actingPrincipalID != "" {
			upd.VerifiedBy = &actingPrincipalID
		}
	}

	if notes != "" {
		upd.Notes = &notes
	}

	return upd
}
