package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/runar-labs/runar-sqlite/sqlite"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate [dir]",
	Short: "Apply SQL migrations from a directory",
	Long: `Applies the .sql files in the directory, in lexical order, that have
not been applied before. Applied files are tracked in the
schema_migrations table.`,
	Args: cobra.ExactArgs(1),
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	dir := args[0]
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("migrations directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("migrations path %s is not a directory", dir)
	}

	svcCfg := cfg.serviceConfig()
	svcCfg.Migrations = os.DirFS(dir)
	svc := sqlite.New(svcCfg)

	ctx := cmd.Context()
	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("applying migrations: %w", err)
	}
	defer svc.Stop(ctx) //nolint:errcheck

	rows, err := svc.Query(ctx, sqlite.NewStatement(
		"SELECT COUNT(*) AS n FROM schema_migrations"))
	if err != nil {
		return fmt.Errorf("reading migration state: %w", err)
	}
	applied, _ := rows[0]["n"].Int()
	cmd.Printf("Database at %s: %d migration(s) applied\n", cfg.Database, applied)
	return nil
}
