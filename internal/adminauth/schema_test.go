// AngelaMos | 2026
// schema_test.go

package adminauth

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/templates/admin-backoffice/internal/config"
	"github.com/carterperez-dev/templates/admin-backoffice/internal/profile"
)

func TestReportSchemaShape(t *testing.T) {
	tests := []struct {
		name         string
		phase        string
		present      bool
		probeErr     error
		wantMismatch bool
		wantLog      string
	}{
		{name: "column phase without column", phase: config.PhaseColumn, present: false, wantMismatch: true, wantLog: "level=WARN msg=\"admin_verified column missing; every admin check will deny\""},
		{name: "allowlist phase with column", phase: config.PhaseAllowlist, present: true, wantMismatch: true, wantLog: "level=WARN msg=\"admin_verified column present but ignored by allowlist phase\""},
		{name: "auto before migration", phase: config.PhaseAuto, present: false, wantLog: "level=INFO msg=\"admin authorization schema detected\""},
		{name: "column phase after migration", phase: config.PhaseColumn, present: true, wantLog: "admin_verified_column=true"},
		{name: "probe failure", phase: config.PhaseAuto, probeErr: errors.New("db down"), wantLog: "level=WARN msg=\"schema probe failed\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
			require.NoError(t, err)
			t.Cleanup(func() { _ = db.Close() })

			q := mock.ExpectQuery(`information_schema\.columns`)
			if tt.probeErr != nil {
				q.WillReturnError(tt.probeErr)
			} else {
				q.WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(tt.present))
			}

			var logs bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&logs, nil))
			repo := profile.NewRepository(sqlx.NewDb(db, "pgx"))

			shape := ReportSchemaShape(context.Background(), logger, repo, config.AuthzConfig{Phase: tt.phase})

			assert.NoError(t, mock.ExpectationsWereMet())
			assert.Equal(t, tt.wantMismatch, shape.Mismatch)
			assert.Equal(t, tt.present, shape.ColumnPresent)
			if tt.probeErr != nil {
				assert.Error(t, shape.Err)
			}
			assert.Contains(t, logs.String(), tt.wantLog)
			assert.Contains(t, logs.String(), "authz_phase="+tt.phase)
		})
	}
}
