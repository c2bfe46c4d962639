// AngelaMos | 2026
// dto.go

package profile

const (
	VerificationAll        = "all"
	VerificationVerified   = "verified"
	VerificationUnverified = "unverified"

	SortCreatedAt = "created_at"
	SortFullName  = "full_name"

	SortAsc  = "asc"
	SortDesc = "desc"
)

type ListParams struct {
	Page               int
	PageSize           int
	Search             string
	VerificationStatus string
	SortBy             string
	SortOrder          string
}

func (p *ListParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
	switch p.VerificationStatus {
	case VerificationVerified, VerificationUnverified:
	default:
		p.VerificationStatus = VerificationAll
	}
	if p.SortBy != SortFullName {
		p.SortBy = SortCreatedAt
	}
	if p.SortOrder != SortAsc {
		p.SortOrder = SortDesc
	}
}

func (p *ListParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}
