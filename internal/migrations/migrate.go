// AngelaMos | 2026
// migrate.go

// Package migrations owns the profile table schema. Migration 00002 adds the
// admin verification columns; until it is applied the authorizer runs against
// the old schema shape.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed sql/*.sql
var embedded embed.FS

const (
	dir = "sql"

	// VerificationVersion is the migration that introduces admin_verified.
	VerificationVersion int64 = 2
)

// gooseUp is a seam for tests.
var gooseUp = func(ctx context.Context, db *sql.DB, dir string) error {
	return goose.UpContext(ctx, db, dir)
}

func setup() error {
	goose.SetBaseFS(embedded)
	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("goose set dialect: %w", err)
	}
	return nil
}

func Up(ctx context.Context, db *sql.DB) error {
	if err := setup(); err != nil {
		return err
	}
	if err := gooseUp(ctx, db, dir); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

// UpTo applies migrations up to and including version. Used to stage the
// rollout: 1 creates the table, VerificationVersion adds the admin columns.
func UpTo(ctx context.Context, db *sql.DB, version int64) error {
	if err := setup(); err != nil {
		return err
	}
	if err := goose.UpToContext(ctx, db, dir, version); err != nil {
		return fmt.Errorf("goose up to %d: %w", version, err)
	}
	return nil
}

func Down(ctx context.Context, db *sql.DB) error {
	if err := setup(); err != nil {
		return err
	}
	if err := goose.DownContext(ctx, db, dir); err != nil {
		return fmt.Errorf("goose down: %w", err)
	}
	return nil
}

func Version(ctx context.Context, db *sql.DB) (int64, error) {
	if err := setup(); err != nil {
		return 0, err
	}
	v, err := goose.GetDBVersionContext(ctx, db)
	if err != nil {
		return 0, fmt.Errorf("goose version: %w", err)
	}
	return v, nil
}
