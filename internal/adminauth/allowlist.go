// AngelaMos | 2026
// allowlist.go

package adminauth

// Allowlist is the fixed set of operator emails that count as admins while
// the admin_verified column is unavailable. Matching is exact: no case
// folding, no trimming.
type Allowlist struct {
	emails map[string]struct{}
}

func NewAllowlist(emails []string) Allowlist {
	set := make(map[string]struct{}, len(emails))
	for _, e := range emails {
		if e != "" {
			set[e] = struct{}{}
		}
	}
	return Allowlist{emails: set}
}

func (l Allowlist) Contains(email string) bool {
	if email == "" {
		return false
	}
	_, ok := l.emails[email]
	return ok
}

func (l Allowlist) Len() int {
	return len(l.emails)
}
