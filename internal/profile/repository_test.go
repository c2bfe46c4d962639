// AngelaMos | 2026
// repository_test.go

package profile

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/templates/admin-backoffice/internal/core"
)

func newRepoWithMock(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return NewRepository(sqlx.NewDb(db, "pgx")), mock
}

var profileColumns = []string{
	"id", "full_name", "phone", "gender", "au_state", "created_at",
	"admin_verified", "verified_by", "verified_at", "verification_notes",
}

func TestAdminVerified(t *testing.T) {
	q := `(?s)SELECT\s+COALESCE\(admin_verified, FALSE\)\s+FROM\s+mypage_profiles\s+WHERE\s+id = \$1`

	t.Run("row found", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(q).WithArgs("u1").
			WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(true))

		got, err := repo.AdminVerified(context.Background(), "u1")
		require.NoError(t, err)
		assert.True(t, got)
	})

	t.Run("no row", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(q).WithArgs("u1").
			WillReturnRows(sqlmock.NewRows([]string{"coalesce"}))

		got, err := repo.AdminVerified(context.Background(), "u1")
		assert.False(t, got)
		assert.ErrorIs(t, err, core.ErrNotFound)
	})

	t.Run("column missing", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(q).WithArgs("u1").
			WillReturnError(&pgconn.PgError{
				Code:    "42703",
				Message: `column "admin_verified" does not exist`,
			})

		_, err := repo.AdminVerified(context.Background(), "u1")
		assert.ErrorIs(t, err, core.ErrSchemaCapabilityMissing)
	})

	t.Run("other store error", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(q).WithArgs("u1").WillReturnError(errors.New("conn refused"))

		_, err := repo.AdminVerified(context.Background(), "u1")
		require.Error(t, err)
		assert.NotErrorIs(t, err, core.ErrSchemaCapabilityMissing)
		assert.Contains(t, err.Error(), "conn refused")
	})
}

func TestGetVerified(t *testing.T) {
	q := `(?s)SELECT\s+id, full_name.*FROM\s+mypage_profiles\s+WHERE\s+id = \$1 AND admin_verified = TRUE`
	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	verifiedAt := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	t.Run("found", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(q).WithArgs("u1").WillReturnRows(
			sqlmock.NewRows(profileColumns).AddRow(
				"u1", "Aiko", "0400", nil, "NSW", created,
				true, "u1", verifiedAt, "initial setup",
			),
		)

		p, err := repo.GetVerified(context.Background(), "u1")
		require.NoError(t, err)
		assert.True(t, p.AdminVerified)
		require.NotNil(t, p.VerificationNotes)
		assert.Equal(t, "initial setup", *p.VerificationNotes)
		assert.True(t, p.IsSelfVerified())
		assert.Nil(t, p.Gender)
	})

	t.Run("not verified", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(q).WithArgs("u1").WillReturnRows(sqlmock.NewRows(profileColumns))

		_, err := repo.GetVerified(context.Background(), "u1")
		assert.ErrorIs(t, err, core.ErrNotFound)
	})
}

func TestUpsertVerification(t *testing.T) {
	q := `(?s)INSERT\s+INTO\s+mypage_profiles.*ON CONFLICT \(id\) DO UPDATE SET.*verified_by\s+= CASE`
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("grant", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		upd := NewVerificationUpdate("u1", true, "initial setup", "admin-1", now)

		mock.ExpectExec(q).
			WithArgs("u1", true, now, "initial setup", "admin-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.UpsertVerification(context.Background(), upd))
	})

	t.Run("revoke clears timestamp and notes", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		upd := NewVerificationUpdate("u1", false, "", "admin-1", now)

		mock.ExpectExec(q).
			WithArgs("u1", false, nil, nil, nil).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.UpsertVerification(context.Background(), upd))
	})

	t.Run("store error", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectExec(q).WillReturnError(errors.New("db down"))

		err := repo.UpsertVerification(context.Background(),
			NewVerificationUpdate("u1", true, "", "", now))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "upsert verification: db down")
	})
}

func TestList_FiltersAndPaging(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`(?s)SELECT COUNT\(\*\) FROM mypage_profiles WHERE \(full_name ILIKE \$1 OR phone ILIKE \$1\) AND admin_verified = TRUE`).
		WithArgs(`%50\%%`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(21))

	mock.ExpectQuery(`(?s)SELECT\s+id, full_name.*admin_verified.*ORDER BY full_name ASC, id\s+LIMIT \$2 OFFSET \$3`).
		WithArgs(`%50\%%`, 10, 10).
		WillReturnRows(sqlmock.NewRows(profileColumns).AddRow(
			"u2", "Ben", nil, nil, nil, time.Now(), true, nil, time.Now(), nil,
		))

	profiles, total, err := repo.List(context.Background(), ListParams{
		Page:               2,
		PageSize:           10,
		Search:             "50%",
		VerificationStatus: VerificationVerified,
		SortBy:             SortFullName,
		SortOrder:          SortAsc,
	})
	require.NoError(t, err)
	assert.Equal(t, 21, total)
	require.Len(t, profiles, 1)
	assert.Equal(t, "u2", profiles[0].ID)
}

func TestListLegacy_SkipsVerificationColumns(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`^SELECT COUNT\(\*\) FROM mypage_profiles\s*$`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	mock.ExpectQuery(`(?s)SELECT id, full_name, phone, gender, au_state, created_at\s+FROM\s+mypage_profiles\s+ORDER BY created_at DESC, id`).
		WithArgs(20, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "full_name", "phone", "gender", "au_state", "created_at"}).
			AddRow("u3", nil, nil, nil, nil, time.Now()))

	profiles, total, err := repo.ListLegacy(context.Background(), ListParams{
		VerificationStatus: VerificationVerified,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, profiles, 1)
	assert.False(t, profiles[0].AdminVerified)
}

func TestHasVerificationColumn(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectQuery(`(?s)information_schema\.columns.*column_name = 'admin_verified'`).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	ok, err := repo.HasVerificationColumn(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNewVerificationUpdate(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.FixedZone("AEST", 10*3600))

	grant := NewVerificationUpdate("u1", true, "ok", "u1", now)
	require.NotNil(t, grant.VerifiedAt)
	assert.True(t, grant.VerifiedAt.Equal(now))
	assert.Equal(t, time.UTC, grant.VerifiedAt.Location())
	require.NotNil(t, grant.VerifiedBy)
	assert.Equal(t, "u1", *grant.VerifiedBy)

	revoke := NewVerificationUpdate("u1", false, "", "u2", now)
	assert.Nil(t, revoke.VerifiedAt)
	assert.Nil(t, revoke.VerifiedBy)
	assert.Nil(t, revoke.Notes)
}
