// AngelaMos | 2026
// repository.go

package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/carterperez-dev/templates/admin-backoffice/internal/core"
)

const (
	baseColumns = `id, full_name, phone, gender, au_state, created_at`

	verificationColumns = `COALESCE(admin_verified, FALSE) AS admin_verified,
		       verified_by, verified_at, verification_notes`
)

type Repository interface {
	// AdminVerified returns core.ErrNotFound when the principal has no
	// profile row and core.ErrSchemaCapabilityMissing when the
	// admin_verified column does not exist.
	AdminVerified(ctx context.Context, principalID string) (bool, error)
	GetVerified(ctx context.Context, principalID string) (*Profile, error)
	GetByID(ctx context.Context, principalID string) (*Profile, error)
	List(ctx context.Context, params ListParams) ([]Profile, int, error)
	// ListLegacy lists profiles without touching the verification columns.
	ListLegacy(ctx context.Context, params ListParams) ([]Profile, int, error)
	UpsertVerification(ctx context.Context, upd VerificationUpdate) error
	Insert(ctx context.Context, p *Profile) error
	HasVerificationColumn(ctx context.Context) (bool, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) AdminVerified(
	ctx context.Context,
	principalID string,
) (bool, error) {
	query := `
		SELECT COALESCE(admin_verified, FALSE)
		FROM mypage_profiles
		WHERE id = $1`

	var verified bool
	err := r.db.GetContext(ctx, &verified, query, principalID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("get admin_verified: %w", core.ErrNotFound)
	}
	if err != nil {
		return false, fmt.Errorf("get admin_verified: %w", core.ClassifyError(err))
	}

	return verified, nil
}

func (r *repository) GetVerified(
	ctx context.Context,
	principalID string,
) (*Profile, error) {
	query := `
		SELECT ` + baseColumns + `,
		       ` + verificationColumns + `
		FROM mypage_profiles
		WHERE id = $1 AND admin_verified = TRUE`

	var p Profile
	err := r.db.GetContext(ctx, &p, query, principalID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get verified profile: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get verified profile: %w", core.ClassifyError(err))
	}

	return &p, nil
}

func (r *repository) GetByID(
	ctx context.Context,
	principalID string,
) (*Profile, error) {
	query := `
		SELECT ` + baseColumns + `,
		       ` + verificationColumns + `
		FROM mypage_profiles
		WHERE id = $1`

	var p Profile
	err := r.db.GetContext(ctx, &p, query, principalID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get profile: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", core.ClassifyError(err))
	}

	return &p, nil
}

func (r *repository) List(
	ctx context.Context,
	params ListParams,
) ([]Profile, int, error) {
	return r.list(ctx, params, true)
}

func (r *repository) ListLegacy(
	ctx context.Context,
	params ListParams,
) ([]Profile, int, error) {
	params.VerificationStatus = VerificationAll
	return r.list(ctx, params, false)
}

func (r *repository) list(
	ctx context.Context,
	params ListParams,
	withVerification bool,
) ([]Profile, int, error) {
	params.Normalize()

	var conditions []string
	var args []any
	argIdx := 1

	if params.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(full_name ILIKE $%d OR phone ILIKE $%d)", argIdx, argIdx))
		args = append(args, "%"+escapeLike(params.Search)+"%")
		argIdx++
	}

	switch params.VerificationStatus {
	case VerificationVerified:
		conditions = append(conditions, "admin_verified = TRUE")
	case VerificationUnverified:
		conditions = append(conditions,
			"(admin_verified = FALSE OR admin_verified IS NULL)")
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf(
		"SELECT COUNT(*) FROM mypage_profiles %s",
		whereClause,
	)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count profiles: %w", core.ClassifyError(err))
	}

	columns := baseColumns
	if withVerification {
		columns += ",\n\t\t       " + verificationColumns
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM mypage_profiles
		%s
		ORDER BY %s %s, id
		LIMIT $%d OFFSET $%d`,
		columns, whereClause,
		params.SortBy, strings.ToUpper(params.SortOrder),
		argIdx, argIdx+1)

	args = append(args, params.PageSize, params.Offset())

	var profiles []Profile
	if err := r.db.SelectContext(ctx, &profiles, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list profiles: %w", core.ClassifyError(err))
	}

	return profiles, total, nil
}

// UpsertVerification writes the verification columns in one statement. A
// principal without a profile row gets one. verified_by is only replaced on
// grant.
func (r *repository) UpsertVerification(
	ctx context.Context,
	upd VerificationUpdate,
) error {
	query := `
		INSERT INTO mypage_profiles (
			id, admin_verified, verified_at, verification_notes, verified_by
		) VALUES (
			$1, $2, $3, $4, $5
		)
		ON CONFLICT (id) DO UPDATE SET
			admin_verified     = EXCLUDED.admin_verified,
			verified_at        = EXCLUDED.verified_at,
			verification_notes = EXCLUDED.verification_notes,
			verified_by        = CASE
				WHEN EXCLUDED.admin_verified
				THEN COALESCE(EXCLUDED.verified_by, mypage_profiles.verified_by)
				ELSE mypage_profiles.verified_by
			END,
			updated_at         = NOW()`

	_, err := r.db.ExecContext(ctx, query,
		upd.PrincipalID,
		upd.Verified,
		upd.VerifiedAt,
		upd.Notes,
		upd.VerifiedBy,
	)
	if err != nil {
		return fmt.Errorf("upsert verification: %w", core.ClassifyError(err))
	}

	return nil
}

func (r *repository) Insert(ctx context.Context, p *Profile) error {
	query := `
		INSERT INTO mypage_profiles (
			id, full_name, phone, admin_verified, verified_by, verified_at,
			verification_notes
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		)
		RETURNING created_at`

	err := r.db.GetContext(ctx, &p.CreatedAt, query,
		p.ID,
		p.FullName,
		p.Phone,
		p.AdminVerified,
		p.VerifiedBy,
		p.VerifiedAt,
		p.VerificationNotes,
	)
	if err != nil {
		return fmt.Errorf("insert profile: %w", core.ClassifyError(err))
	}

	return nil
}

func (r *repository) HasVerificationColumn(ctx context.Context) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1
			FROM information_schema.columns
			WHERE table_schema = current_schema()
			  AND table_name = 'mypage_profiles'
			  AND column_name = 'admin_verified'
		)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query); err != nil {
		return false, fmt.Errorf("probe admin_verified column: %w", err)
	}

	return exists, nil
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "%", "\\%")
	s = strings.ReplaceAll(s, "_", "\\_")
	return s
}
