// AngelaMos | 2026
// check_cmd.go

package adminctl

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/carterperez-dev/templates/admin-backoffice/internal/core"
	"github.com/carterperez-dev/templates/admin-backoffice/internal/identity"
)

func newCheckCmd(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "check <principal-id|email>",
		Short: "Show how the back office decides admin access for a principal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			ctx := cmd.Context()

			id := args[0]
			if strings.Contains(id, "@") {
				p, err := findByEmail(ctx, a.Identities, id)
				if err != nil {
					return err
				}
				id = p.ID
			}

			authz := a.authorizer()
			out := struct {
				PrincipalID string `json:"principal_id"`
				Phase       string `json:"phase"`
				IsAdmin     bool   `json:"is_admin"`
				Profile     any    `json:"profile"`
			}{
				PrincipalID: id,
				Phase:       authz.Phase(),
				IsAdmin:     authz.IsAdmin(ctx, id),
				Profile:     authz.GetAdminProfile(ctx, id),
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}
}

func findByEmail(ctx context.Context, dir Directory, email string) (*identity.Principal, error) {
	principals, err := dir.ListPrincipals(ctx, identity.MaxPageSize)
	if err != nil {
		return nil, err
	}
	for i := range principals {
		if principals[i].Email == email {
			return &principals[i], nil
		}
	}
	return nil, fmt.Errorf("principal %s: %w", email, core.ErrNotFound)
}
