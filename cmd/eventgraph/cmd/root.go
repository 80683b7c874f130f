package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"eventgraph/config"
)

var (
	logLevel string

	rootCmd = &cobra.Command{
		Use:   "eventgraph",
		Short: "eventgraph - GraphQL API for events and users",
		Long: `eventgraph serves a GraphQL API over events and the users who create them.

Events and users are kept in MongoDB by default, or in PostgreSQL when
STORE_DRIVER=postgres. Running without a subcommand starts the server.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serveCmd.RunE(cmd, args)
		},
	}
)

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error) (default: LOG_LEVEL or info)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(tokenCmd)
	rootCmd.AddCommand(versionCmd)
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	return cfg, nil
}
