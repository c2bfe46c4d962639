// AngelaMos | 2026
// fakes_test.go

package adminauth

import (
	"context"
	"fmt"
	"sync"

	"github.com/carterperez-dev/templates/admin-backoffice/internal/core"
	"github.com/carterperez-dev/templates/admin-backoffice/internal/identity"
	"github.com/carterperez-dev/templates/admin-backoffice/internal/profile"
)

// memProfiles mimics the profile repository, including the schema error
// it reports before the verification migration.
type memProfiles struct {
	mu            sync.Mutex
	rows          map[string]*profile.Profile
	columnMissing bool
	readErr       error
	writeErr      error
	reads         int
}

func newMemProfiles() *memProfiles {
	return &memProfiles{rows: map[string]*profile.Profile{}}
}

func (m *memProfiles) AdminVerified(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads++

	if m.columnMissing {
		return false, fmt.Errorf("get admin_verified: %w", core.ErrSchemaCapabilityMissing)
	}
	if m.readErr != nil {
		return false, m.readErr
	}
	row, ok := m.rows[id]
	if !ok {
		return false, fmt.Errorf("get admin_verified: %w", core.ErrNotFound)
	}
	return row.AdminVerified, nil
}

func (m *memProfiles) GetVerified(_ context.Context, id string) (*profile.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads++

	if m.columnMissing {
		return nil, fmt.Errorf("get verified profile: %w", core.ErrSchemaCapabilityMissing)
	}
	if m.readErr != nil {
		return nil, m.readErr
	}
	row, ok := m.rows[id]
	if !ok || !row.AdminVerified {
		return nil, fmt.Errorf("get verified profile: %w", core.ErrNotFound)
	}
	cp := *row
	return &cp, nil
}

func (m *memProfiles) UpsertVerification(_ context.Context, upd profile.VerificationUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.writeErr != nil {
		return m.writeErr
	}
	if m.columnMissing {
		return fmt.Errorf("upsert verification: %w", core.ErrSchemaCapabilityMissing)
	}

	row, ok := m.rows[upd.PrincipalID]
	if !ok {
		row = &profile.Profile{ID: upd.PrincipalID}
		m.rows[upd.PrincipalID] = row
	}
	row.AdminVerified = upd.Verified
	row.VerifiedAt = upd.VerifiedAt
	row.VerificationNotes = upd.Notes
	if upd.Verified && upd.VerifiedBy != nil {
		row.VerifiedBy = upd.VerifiedBy
	}
	return nil
}

func (m *memProfiles) row(id string) *profile.Profile {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rows[id]
}

type memIdentities struct {
	principals map[string]*identity.Principal
	sessions   map[string]string
	err        error
}

func newMemIdentities(principals ...identity.Principal) *memIdentities {
	m := &memIdentities{
		principals: map[string]*identity.Principal{},
		sessions:   map[string]string{},
	}
	for i := range principals {
		p := principals[i]
		m.principals[p.ID] = &p
	}
	return m
}

func (m *memIdentities) CurrentPrincipal(_ context.Context, token string) (*identity.Principal, error) {
	if m.err != nil {
		return nil, m.err
	}
	id, ok := m.sessions[token]
	if !ok {
		return nil, fmt.Errorf("current principal: %w", core.ErrUnauthorized)
	}
	return m.principals[id], nil
}

func (m *memIdentities) GetPrincipal(_ context.Context, id string) (*identity.Principal, error) {
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.principals[id]
	if !ok {
		return nil, fmt.Errorf("get principal: %w", core.ErrNotFound)
	}
	return p, nil
}
