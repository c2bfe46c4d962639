// AngelaMos | 2026
// diagnostics.go

package adminauth

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/templates/admin-backoffice/internal/core"
)

// DegradationKind says why an authorization decision fell back to a denial
// or to the allow-list. It is only ever reported to operators.
type DegradationKind string

const (
	KindSchemaMissing       DegradationKind = "schema_missing"
	KindIdentityUnreachable DegradationKind = "identity_unreachable"
	KindStoreError          DegradationKind = "store_error"
)

const degradedEvent = "authz.degraded"

func (a *Authorizer) degraded(
	ctx context.Context,
	op string,
	kind DegradationKind,
	principalID string,
	err error,
) {
	attrs := []any{
		"op", op,
		"kind", string(kind),
		"phase", a.phase,
	}
	if principalID != "" {
		attrs = append(attrs, "principal_id", principalID)
	}
	if err != nil {
		attrs = append(attrs, "error", err.Error())
	}
	a.logger.WarnContext(ctx, "admin authorization degraded", attrs...)

	core.AddSpanEvent(ctx, degradedEvent,
		attribute.String("authz.op", op),
		attribute.String("authz.kind", string(kind)),
		attribute.String("authz.phase", a.phase),
	)
}
