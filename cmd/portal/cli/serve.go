package cli

import (
	"erp-portal/internal/app"
	"erp-portal/internal/config"
	"erp-portal/pkg/logger"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the portal HTTP server",
		Long: `Run the portal HTTP server. The grant catalog is loaded at start and
reloaded on SIGHUP or through the admin API.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return errors.Wrap(err, "failed to load configuration")
			}

			log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
			if err != nil {
				return errors.Wrap(err, "failed to create logger")
			}
			defer func() { _ = log.Sync() }()

			log.Info("configuration loaded",
				zap.String("grants_source", cfg.Grants.Source),
				zap.Bool("database", cfg.Database.Enabled()),
				zap.Bool("redis", cfg.Redis.Enabled()),
			)

			service, err := app.InitializeService(cmd.Context(), cfg, log)
			if err != nil {
				return errors.Wrap(err, "failed to initialize service")
			}
			defer service.Close()

			return service.Run(cmd.Context())
		},
	}

	return cmd
}
