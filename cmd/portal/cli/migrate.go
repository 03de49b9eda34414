package cli

import (
	"fmt"
	"strings"

	"erp-portal/internal/config"
	"erp-portal/internal/infra/postgres"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func MigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create the role_grants and audit_events tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return errors.Wrap(err, "failed to load configuration")
			}
			if !cfg.Database.Enabled() {
				return errors.New("DB_PASSWORD must be set to run migrations")
			}

			db, err := postgres.New(cmd.Context(), &cfg.Database)
			if err != nil {
				return errors.Wrap(err, "failed to connect to database")
			}
			defer db.Close()

			if err := db.Migrate(cmd.Context()); err != nil {
				return errors.Wrap(err, "failed to migrate")
			}

			fmt.Fprintf(cmd.OutOrStdout(), "schema ready: %s\n", strings.Join(postgres.Tables, ", "))
			return nil
		},
	}

	return cmd
}
