// AngelaMos | 2026
// migrate_cmd.go

package adminctl

import (
	"github.com/spf13/cobra"

	"github.com/carterperez-dev/templates/admin-backoffice/internal/migrations"
)

func newMigrateCmd(app func() *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back schema migrations",
	}

	var to int64
	up := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db := app().DB.DB
			if to > 0 {
				return migrations.UpTo(cmd.Context(), db, to)
			}
			return migrations.Up(cmd.Context(), db)
		},
	}
	up.Flags().Int64Var(&to, "to", 0, "stop at this version (2 adds the admin verification columns)")

	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back the latest migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return migrations.Down(cmd.Context(), app().DB.DB)
		},
	}

	status := &cobra.Command{
		Use:   "status",
		Short: "Print the schema version and detected admin column",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := app()
			v, err := migrations.Version(cmd.Context(), a.DB.DB)
			if err != nil {
				return err
			}
			present, err := a.profiles().HasVerificationColumn(cmd.Context())
			if err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "version: %d\nadmin_verified column: %t\nauthz phase: %s\n",
				v, present, a.Config.Authz.Phase)
			return nil
		},
	}

	cmd.AddCommand(up, down, status)
	return cmd
}
