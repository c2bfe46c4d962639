// AngelaMos | 2026
// seed_cmd.go

package adminctl

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"

	"github.com/carterperez-dev/templates/admin-backoffice/internal/core"
	"github.com/carterperez-dev/templates/admin-backoffice/internal/identity"
	"github.com/carterperez-dev/templates/admin-backoffice/internal/profile"
)

const defaultSeedNotes = "seeded admin"

// SeedAdmin describes one admin to seed. Only Email is required.
type SeedAdmin struct {
	Email    string `koanf:"email"`
	FullName string `koanf:"full_name"`
	Phone    string `koanf:"phone"`
	Notes    string `koanf:"notes"`
}

type SeedReport struct {
	Created []string
	Updated []string
	Missing []string
}

func newSeedCmd(app func() *App) *cobra.Command {
	var emails []string
	var seedFile string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Mark existing principals as self-verified admins",
		Long: "Resolve each email through the identity provider and write a " +
			"self-verified admin profile for it. Emails default to the configured " +
			"allow-list. Principals are never created; unknown emails are reported.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := app()

			admins, err := seedTargets(seedFile, emails, a.Config.Authz.Allowlist)
			if err != nil {
				return err
			}
			if len(admins) == 0 {
				return fmt.Errorf("no admins to seed: pass --email, --file, or set ADMIN_ALLOWLIST")
			}

			report, err := Seed(cmd.Context(), a.DB, a.Identities, admins, time.Now())
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			for _, e := range report.Created {
				printf(w, "created  %s\n", e)
			}
			for _, e := range report.Updated {
				printf(w, "updated  %s\n", e)
			}
			for _, e := range report.Missing {
				printf(w, "missing  %s (no principal with this email)\n", e)
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&emails, "email", nil, "admin email (repeatable)")
	cmd.Flags().StringVar(&seedFile, "file", "", "YAML file with an admins list")
	return cmd
}

func seedTargets(path string, emails, allowlist []string) ([]SeedAdmin, error) {
	if path != "" {
		return loadSeedFile(path)
	}

	if len(emails) == 0 {
		emails = allowlist
	}

	admins := make([]SeedAdmin, 0, len(emails))
	for _, e := range emails {
		if e != "" {
			admins = append(admins, SeedAdmin{Email: e})
		}
	}
	return admins, nil
}

func loadSeedFile(path string) ([]SeedAdmin, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("load seed file: %w", err)
	}

	var admins []SeedAdmin
	if err := k.Unmarshal("admins", &admins); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}

	for i, a := range admins {
		if a.Email == "" {
			return nil, fmt.Errorf("seed file entry %d: email is required", i)
		}
	}
	return admins, nil
}

// Seed writes self-verified admin rows for every admin whose email matches a
// principal exactly. All writes share one transaction.
func Seed(
	ctx context.Context,
	db *sqlx.DB,
	dir Directory,
	admins []SeedAdmin,
	now time.Time,
) (*SeedReport, error) {
	principals, err := dir.ListPrincipals(ctx, identity.MaxPageSize)
	if err != nil {
		return nil, fmt.Errorf("list principals: %w", err)
	}

	byEmail := make(map[string]string, len(principals))
	for _, p := range principals {
		if p.Email != "" {
			byEmail[p.Email] = p.ID
		}
	}

	report := &SeedReport{}

	err = core.InTx(ctx, db, func(tx *sqlx.Tx) error {
		repo := profile.NewRepository(tx)

		for _, admin := range admins {
			id, ok := byEmail[admin.Email]
			if !ok {
				report.Missing = append(report.Missing, admin.Email)
				continue
			}

			notes := admin.Notes
			if notes == "" {
				notes = defaultSeedNotes
			}
			upd := profile.NewVerificationUpdate(id, true, notes, id, now)

			_, err := repo.GetByID(ctx, id)
			switch {
			case errors.Is(err, core.ErrNotFound):
				p := &profile.Profile{
					ID:                id,
					FullName:          optional(admin.FullName),
					Phone:             optional(admin.Phone),
					AdminVerified:     true,
					VerifiedBy:        upd.VerifiedBy,
					VerifiedAt:        upd.VerifiedAt,
					VerificationNotes: upd.Notes,
				}
				if err := repo.Insert(ctx, p); err != nil {
					return fmt.Errorf("seed %s: %w", admin.Email, err)
				}
				report.Created = append(report.Created, admin.Email)
			case err != nil:
				return fmt.Errorf("seed %s: %w", admin.Email, err)
			default:
				if err := repo.UpsertVerification(ctx, upd); err != nil {
					return fmt.Errorf("seed %s: %w", admin.Email, err)
				}
				report.Updated = append(report.Updated, admin.Email)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return report, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
