// AngelaMos | 2026
// grant_cmd.go

package adminctl

import (
	"github.com/spf13/cobra"
)

func newGrantCmd(app func() *App) *cobra.Command {
	var notes, by string

	cmd := &cobra.Command{
		Use:   "grant <principal-id>",
		Short: "Mark a principal as a verified admin",
		Long: "Mark a principal as a verified admin. Without --by the principal " +
			"is recorded as its own verifier, which is how the first admin is bootstrapped.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			acting := by
			if acting == "" {
				acting = id
			}

			if err := app().authorizer().SetVerification(cmd.Context(), id, true, notes, acting); err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "granted admin to %s (verified by %s)\n", id, acting)
			return nil
		},
	}

	cmd.Flags().StringVar(&notes, "notes", "", "verification notes")
	cmd.Flags().StringVar(&by, "by", "", "principal id recorded as verifier")
	return cmd
}

func newRevokeCmd(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "revoke <principal-id>",
		Short: "Remove admin verification from a principal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app().authorizer().SetVerification(cmd.Context(), args[0], false, "", ""); err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "revoked admin from %s\n", args[0])
			return nil
		},
	}
}
