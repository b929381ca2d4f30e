// Package cli implements the runar-sqlite command line interface.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/runar-labs/runar-sqlite/internal/logger"
	"github.com/runar-labs/runar-sqlite/sqlite"
)

var (
	flagDB      string
	flagConfig  string
	flagVerbose bool

	// cfg is the resolved configuration for the current invocation.
	cfg Config
)

var rootCmd = &cobra.Command{
	Use:   "runar-sqlite",
	Short: "SQLite integration service for the Runar ecosystem",
	Long: `runar-sqlite operates the SQLite database used by Runar services:
run queries and mutations, inspect tables, apply migrations, watch for
external changes, and serve the database over MCP.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(flagVerbose)

		loaded, err := LoadConfig(flagConfig)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
		if flagDB != "" {
			cfg.Database = flagDB
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "database file path (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file path (default ~/.runar/sqlite.toml)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable verbose logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// openService starts a service against the configured database and
// returns it with a stop function.
func openService(ctx context.Context) (*sqlite.Service, func(), error) {
	svcCfg := cfg.serviceConfig()
	svc := sqlite.New(svcCfg)
	if err := svc.Start(ctx); err != nil {
		return nil, nil, fmt.Errorf("starting service: %w", err)
	}
	stop := func() {
		if err := svc.Stop(context.Background()); err != nil {
			logger.Warn("Stopping service: %v", err)
		}
	}
	return svc, stop, nil
}
