// AngelaMos | 2026
// schema.go

package adminauth

import (
	"context"
	"log/slog"

	"github.com/carterperez-dev/templates/admin-backoffice/internal/config"
)

type SchemaProber interface {
	HasVerificationColumn(ctx context.Context) (bool, error)
}

// SchemaShape is what the startup probe found next to the configured phase.
type SchemaShape struct {
	ColumnPresent bool
	Mismatch      bool
	Err           error
}

// ReportSchemaShape probes once for the admin_verified column and logs it
// with the configured phase. A phase that contradicts the schema is logged
// as a warning; nothing is changed.
func ReportSchemaShape(
	ctx context.Context,
	logger *slog.Logger,
	prober SchemaProber,
	cfg config.AuthzConfig,
) SchemaShape {
	present, err := prober.HasVerificationColumn(ctx)
	if err != nil {
		logger.WarnContext(ctx, "schema probe failed", "error", err, "authz_phase", cfg.Phase)
		return SchemaShape{Err: err}
	}

	attrs := []any{
		"admin_verified_column", present,
		"authz_phase", cfg.Phase,
		"allowlist_size", len(cfg.Allowlist),
	}

	shape := SchemaShape{ColumnPresent: present}
	switch {
	case !present && cfg.Phase == config.PhaseColumn:
		shape.Mismatch = true
		logger.WarnContext(ctx, "admin_verified column missing; every admin check will deny", attrs...)
	case present && cfg.Phase == config.PhaseAllowlist:
		shape.Mismatch = true
		logger.WarnContext(ctx, "admin_verified column present but ignored by allowlist phase", attrs...)
	default:
		logger.InfoContext(ctx, "admin authorization schema detected", attrs...)
	}

	return shape
}
