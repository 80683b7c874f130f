package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"eventgraph/config"
	"eventgraph/internal/repository/mongodb"
	"eventgraph/internal/repository/postgres"
)

var migrateSteps int

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Prepare the configured store",
	Long: `Apply schema changes to the store named by STORE_DRIVER.

For postgres this runs the embedded SQL migrations. For mongo it creates
the unique email index on the users collection.`,
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("config error: %w", err)
		}
		logger := config.NewLogger(cfg)

		switch cfg.StoreDriver {
		case config.StorePostgres:
			if err := postgres.MigrateUp(cfg.DBUrl); err != nil {
				return err
			}
		case config.StoreMongo:
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			client, err := mongodb.Connect(ctx, cfg.Mongo.ConnectionURI())
			if err != nil {
				return err
			}
			s := mongodb.NewStore(client, cfg.Mongo.Database, cfg.Mongo.Transactions)
			defer s.Close(context.Background())
			if err := s.EnsureIndexes(ctx); err != nil {
				return err
			}
		}
		logger.Info("migrations applied", "store", cfg.StoreDriver)
		return nil
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back postgres migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("config error: %w", err)
		}
		if cfg.StoreDriver != config.StorePostgres {
			return fmt.Errorf("migrate down is only supported for %q, store is %q", config.StorePostgres, cfg.StoreDriver)
		}
		if migrateSteps < 1 {
			return fmt.Errorf("--steps must be at least 1")
		}
		if err := postgres.MigrateDown(cfg.DBUrl, migrateSteps); err != nil {
			return err
		}
		config.NewLogger(cfg).Info("migrations rolled back", "steps", migrateSteps)
		return nil
	},
}

func init() {
	migrateDownCmd.Flags().IntVar(&migrateSteps, "steps", 1, "number of migrations to roll back")
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd)
}
