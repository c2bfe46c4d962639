// AngelaMos | 2026
// authorizer.go

package adminauth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/templates/admin-backoffice/internal/config"
	"github.com/carterperez-dev/templates/admin-backoffice/internal/core"
	"github.com/carterperez-dev/templates/admin-backoffice/internal/identity"
	"github.com/carterperez-dev/templates/admin-backoffice/internal/middleware"
	"github.com/carterperez-dev/templates/admin-backoffice/internal/profile"
)

type ProfileStore interface {
	AdminVerified(ctx context.Context, principalID string) (bool, error)
	GetVerified(ctx context.Context, principalID string) (*profile.Profile, error)
	UpsertVerification(ctx context.Context, upd profile.VerificationUpdate) error
}

type IdentityStore interface {
	CurrentPrincipal(ctx context.Context, accessToken string) (*identity.Principal, error)
	GetPrincipal(ctx context.Context, id string) (*identity.Principal, error)
}

// Authorizer decides whether a principal may use the back office.
//
// Read operations never return errors: every failure to decide is a denial,
// and the reason goes to the log and the active span instead.
type Authorizer struct {
	profiles   ProfileStore
	identities IdentityStore
	phase      string
	allowlist  Allowlist
	logger     *slog.Logger
	now        func() time.Time
}

type Option func(*Authorizer)

func WithLogger(logger *slog.Logger) Option {
	return func(a *Authorizer) {
		a.logger = logger
	}
}

func WithClock(now func() time.Time) Option {
	return func(a *Authorizer) {
		a.now = now
	}
}

func NewAuthorizer(
	profiles ProfileStore,
	identities IdentityStore,
	cfg config.AuthzConfig,
	opts ...Option,
) *Authorizer {
	phase := cfg.Phase
	if phase == "" {
		phase = config.PhaseAuto
	}

	a := &Authorizer{
		profiles:   profiles,
		identities: identities,
		phase:      phase,
		allowlist:  NewAllowlist(cfg.Allowlist),
		logger:     slog.Default(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Authorizer) Phase() string {
	return a.phase
}

func (a *Authorizer) AllowlistSize() int {
	return a.allowlist.Len()
}

func (a *Authorizer) IsAdmin(ctx context.Context, principalID string) bool {
	ctx, span := core.StartSpan(ctx, "adminauth.IsAdmin",
		attribute.String("authz.phase", a.phase))
	defer span.End()

	if principalID == "" {
		return false
	}

	if a.phase == config.PhaseAllowlist {
		return a.allowlisted(ctx, "is_admin", principalID)
	}

	verified, err := a.profiles.AdminVerified(ctx, principalID)
	switch {
	case err == nil:
		return verified
	case errors.Is(err, core.ErrNotFound):
		return false
	case errors.Is(err, core.ErrSchemaCapabilityMissing):
		a.degraded(ctx, "is_admin", KindSchemaMissing, principalID, err)
		if a.phase == config.PhaseColumn {
			return false
		}
		return a.allowlisted(ctx, "is_admin", principalID)
	default:
		a.degraded(ctx, "is_admin", KindStoreError, principalID, err)
		return false
	}
}

// GetAdminProfile returns the admin view of a verified principal, or nil.
// It reads only the admin_verified column and never the allow-list, so an
// allow-listed admin has no profile until the column exists.
func (a *Authorizer) GetAdminProfile(ctx context.Context, principalID string) *AdminProfile {
	ctx, span := core.StartSpan(ctx, "adminauth.GetAdminProfile",
		attribute.String("authz.phase", a.phase))
	defer span.End()

	if principalID == "" || a.phase == config.PhaseAllowlist {
		return nil
	}

	p, err := a.profiles.GetVerified(ctx, principalID)
	switch {
	case err == nil:
	case errors.Is(err, core.ErrNotFound):
		return nil
	case errors.Is(err, core.ErrSchemaCapabilityMissing):
		a.degraded(ctx, "get_admin_profile", KindSchemaMissing, principalID, err)
		return nil
	default:
		a.degraded(ctx, "get_admin_profile", KindStoreError, principalID, err)
		return nil
	}

	principal, err := a.identities.GetPrincipal(ctx, principalID)
	if err != nil || principal == nil {
		a.degraded(ctx, "get_admin_profile", KindIdentityUnreachable, principalID, err)
		return nil
	}

	return newAdminProfile(p, principal)
}

// VerifySession resolves the caller behind accessToken and reports whether
// it is an admin along with its profile.
func (a *Authorizer) VerifySession(ctx context.Context, accessToken string) SessionResult {
	ctx, span := core.StartSpan(ctx, "adminauth.VerifySession")
	defer span.End()

	principal, err := a.identities.CurrentPrincipal(ctx, accessToken)
	if err != nil {
		if !errors.Is(err, core.ErrUnauthorized) {
			a.degraded(ctx, "verify_session", KindIdentityUnreachable, "", err)
		}
		return SessionResult{}
	}
	if principal == nil || principal.ID == "" {
		return SessionResult{}
	}

	if !a.IsAdmin(ctx, principal.ID) {
		return SessionResult{}
	}

	return SessionResult{
		IsAdmin: true,
		Profile: a.GetAdminProfile(ctx, principal.ID),
	}
}

// SetVerification grants or revokes admin verification. Callers are
// responsible for checking that actingPrincipalID is itself an admin.
func (a *Authorizer) SetVerification(
	ctx context.Context,
	principalID string,
	verified bool,
	notes string,
	actingPrincipalID string,
) error {
	ctx, span := core.StartSpan(ctx, "adminauth.SetVerification",
		attribute.Bool("authz.verified", verified))
	defer span.End()

	if principalID == "" {
		return fmt.Errorf("set verification: %w", core.ErrInvalidInput)
	}

	upd := profile.NewVerificationUpdate(
		principalID,
		verified,
		notes,
		actingPrincipalID,
		a.now(),
	)

	if err := a.profiles.UpsertVerification(ctx, upd); err != nil {
		core.SetSpanError(ctx, err)
		return &VerificationUpdateFailedError{
			PrincipalID: principalID,
			Verified:    verified,
			Err:         err,
		}
	}

	attrs := []any{
		"principal_id", principalID,
		"verified", verified,
		"acting_principal_id", actingPrincipalID,
	}
	if claims := middleware.GetClaims(ctx); claims != nil && claims.Email != "" {
		attrs = append(attrs, "acting_email", claims.Email)
	}
	a.logger.InfoContext(ctx, "admin verification changed", attrs...)

	return nil
}

func (a *Authorizer) allowlisted(ctx context.Context, op, principalID string) bool {
	principal, err := a.identities.GetPrincipal(ctx, principalID)
	if err != nil {
		a.degraded(ctx, op, KindIdentityUnreachable, principalID, err)
		return false
	}
	if principal == nil || principal.Email == "" {
		a.degraded(ctx, op, KindIdentityUnreachable, principalID,
			errors.New("principal has no email"))
		return false
	}

	return a.allowlist.Contains(principal.Email)
}
