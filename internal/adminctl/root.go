// AngelaMos | 2026
// root.go

// Package adminctl is the operator CLI for the admin back office: schema
// migrations, admin grants and seeding.
package adminctl

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/carterperez-dev/templates/admin-backoffice/internal/adminauth"
	"github.com/carterperez-dev/templates/admin-backoffice/internal/config"
	"github.com/carterperez-dev/templates/admin-backoffice/internal/core"
	"github.com/carterperez-dev/templates/admin-backoffice/internal/identity"
	"github.com/carterperez-dev/templates/admin-backoffice/internal/profile"
)

// Directory is the part of the identity provider the CLI needs.
type Directory interface {
	adminauth.IdentityStore
	ListPrincipals(ctx context.Context, pageSize int) ([]identity.Principal, error)
}

// App holds the connections a command runs against.
type App struct {
	Config     *config.Config
	DB         *sqlx.DB
	Identities Directory
	Logger     *slog.Logger
	Close      func() error
}

func (a *App) profiles() profile.Repository {
	return profile.NewRepository(a.DB)
}

func (a *App) authorizer() *adminauth.Authorizer {
	return adminauth.NewAuthorizer(a.profiles(), a.Identities, a.Config.Authz,
		adminauth.WithLogger(a.Logger))
}

// Opener builds an App from a config file path.
type Opener func(ctx context.Context, configPath string) (*App, error)

func Execute() int {
	root := NewRootCmd(Open)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func NewRootCmd(open Opener) *cobra.Command {
	var configPath string
	var app *App

	root := &cobra.Command{
		Use:           "adminctl",
		Short:         "Operate the admin back office",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			a, err := open(cmd.Context(), configPath)
			if err != nil {
				return err
			}
			app = a
			return nil
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if app != nil && app.Close != nil {
				return app.Close()
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")

	getApp := func() *App { return app }

	root.AddCommand(
		newMigrateCmd(getApp),
		newGrantCmd(getApp),
		newRevokeCmd(getApp),
		newCheckCmd(getApp),
		newSeedCmd(getApp),
	)

	return root
}

// Open connects to the database described by the loaded configuration.
// The identity provider client is only built when its service-role
// credentials are configured, so schema commands run without them.
func Open(ctx context.Context, configPath string) (*App, error) {
	cfg, err := config.LoadTooling(configPath)
	if err != nil {
		return nil, err
	}

	logger := core.NewLogger(cfg.Log, os.Stderr)

	var identities Directory = unconfiguredDirectory{}
	if cfg.Supabase.HasIdentityAdmin() {
		client, err := identity.NewClient(cfg.Supabase)
		if err != nil {
			return nil, err
		}
		identities = client
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	return &App{
		Config:     cfg,
		DB:         db.DB,
		Identities: identities,
		Logger:     logger,
		Close:      db.Close,
	}, nil
}

var errIdentityNotConfigured = fmt.Errorf(
	"%w: SUPABASE_URL and SUPABASE_SERVICE_ROLE_KEY are required for this command",
	core.ErrIdentityLookupFailed,
)

// unconfiguredDirectory stands in for the identity provider when its
// credentials are absent.
type unconfiguredDirectory struct{}

func (unconfiguredDirectory) CurrentPrincipal(context.Context, string) (*identity.Principal, error) {
	return nil, errIdentityNotConfigured
}

func (unconfiguredDirectory) GetPrincipal(context.Context, string) (*identity.Principal, error) {
	return nil, errIdentityNotConfigured
}

func (unconfiguredDirectory) ListPrincipals(context.Context, int) ([]identity.Principal, error) {
	return nil, errIdentityNotConfigured
}

func printf(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
