package cli

import (
	"fmt"

	"github.com/MakeNowJust/heredoc"
	"github.com/goto/sieve/internal/store/postgres"
	"github.com/spf13/cobra"
)

func migrateCommand(cfg *Config) *cobra.Command {
	var down bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run postgres store migration",
		Example: heredoc.Doc(`
			$ sieve migrate
			$ sieve migrate --down
		`),
		Args: cobra.NoArgs,
		Annotations: map[string]string{
			"group": "core",
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, cfg)
			if err != nil {
				return err
			}
			return runMigrations(cfg.LogLevel, cfg.Store.Postgres, down)
		},
	}
	cmd.Flags().BoolVar(&down, "down", false, "roll back one migration step")
	return cmd
}

func runMigrations(logLevel string, pgConfig postgres.Config, down bool) error {
	logger := initLogger(logLevel)
	logger.Info("sieve is migrating", "version", Version)

	logger.Info("Initiating Postgres client...")
	pgClient, err := postgres.NewClient(pgConfig)
	if err != nil {
		logger.Error("failed to prepare migration", "error", err)
		return err
	}
	defer pgClient.Close()

	migrate := pgClient.Migrate
	if down {
		migrate = pgClient.MigrateDown
	}
	ver, err := migrate()
	if err != nil {
		return fmt.Errorf("problem with migration %w", err)
	}

	logger.Info("Migration Postgres done.", "version", ver)
	return nil
}
