// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/carterperez-dev/templates/admin-backoffice/internal/core"
	"github.com/carterperez-dev/templates/admin-backoffice/internal/identity"
	"github.com/carterperez-dev/templates/admin-backoffice/internal/profile"
)

type ProfileLister interface {
	List(ctx context.Context, params profile.ListParams) ([]profile.Profile, int, error)
	ListLegacy(ctx context.Context, params profile.ListParams) ([]profile.Profile, int, error)
}

type PrincipalLister interface {
	ListPrincipals(ctx context.Context, pageSize int) ([]identity.Principal, error)
}

type VerificationSetter interface {
	SetVerification(
		ctx context.Context,
		principalID string,
		verified bool,
		notes string,
		actingPrincipalID string,
	) error
}

type Service struct {
	profiles   ProfileLister
	principals PrincipalLister
	verifier   VerificationSetter
	logger     *slog.Logger
}

func NewService(
	profiles ProfileLister,
	principals PrincipalLister,
	verifier VerificationSetter,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		profiles:   profiles,
		principals: principals,
		verifier:   verifier,
		logger:     logger,
	}
}

// ListUsers pages through profiles and attaches identity data. Without the
// verification columns every user is listed as unverified and the verified
// filter matches nobody. When the
// identity provider is unreachable users are listed without emails.
func (s *Service) ListUsers(
	ctx context.Context,
	params profile.ListParams,
) (*UserListResponse, error) {
	params.Normalize()

	profiles, total, err := s.profiles.List(ctx, params)
	if errors.Is(err, core.ErrSchemaCapabilityMissing) {
		s.logger.WarnContext(ctx, "listing users without verification columns",
			"verification_status", params.VerificationStatus,
			"error", err,
		)
		// Nobody can be verified before the column exists.
		if params.VerificationStatus == profile.VerificationVerified {
			return &UserListResponse{Users: []UserResponse{}}, nil
		}
		profiles, total, err = s.profiles.ListLegacy(ctx, params)
	}
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	byID := make(map[string]*identity.Principal)
	principals, err := s.principals.ListPrincipals(ctx, identity.MaxPageSize)
	if err != nil {
		s.logger.WarnContext(ctx, "listing users without identity data",
			"error", err,
		)
	}
	for i := range principals {
		byID[principals[i].ID] = &principals[i]
	}

	users := make([]UserResponse, 0, len(profiles))
	for _, p := range profiles {
		users = append(users, ToUserResponse(p, byID[p.ID]))
	}

	return &UserListResponse{
		Users:      users,
		TotalCount: total,
		HasMore:    params.Offset()+len(users) < total,
	}, nil
}

func (s *Service) UpdateVerification(
	ctx context.Context,
	actingPrincipalID string,
	req UpdateVerificationRequest,
) error {
	if req.Verified == nil {
		return fmt.Errorf("update verification: %w", core.ErrInvalidInput)
	}

	var notes string
	if req.Notes != nil {
		notes = *req.Notes
	}

	return s.verifier.SetVerification(
		ctx,
		req.UserID,
		*req.Verified,
		notes,
		actingPrincipalID,
	)
}
