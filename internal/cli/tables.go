package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/runar-labs/runar-sqlite/sqlite"
)

var tablesCmd = &cobra.Command{
	Use:   "tables [name]",
	Short: "List tables or describe one",
	Long: `Without arguments, lists the user tables in the database.
With a table name, prints that table's columns.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTables,
}

func init() {
	rootCmd.AddCommand(tablesCmd)
}

func runTables(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	svc, stop, err := openService(ctx)
	if err != nil {
		return err
	}
	defer stop()

	if len(args) == 0 {
		rows, err := svc.Query(ctx, sqlite.NewStatement(`
			SELECT name, type FROM sqlite_master
			WHERE type IN ('table', 'view') AND name NOT LIKE 'sqlite_%'
			ORDER BY name`))
		if err != nil {
			return fmt.Errorf("listing tables: %w", err)
		}
		renderRows(cmd.OutOrStdout(), rows)
		return nil
	}

	// pragma_table_info is a table-valued function, so the name binds
	// as a regular parameter.
	rows, err := svc.Query(ctx, sqlite.NewStatement(`
		SELECT name, type, "notnull", dflt_value, pk
		FROM pragma_table_info(:table)
		ORDER BY cid`).
		Bind("table", sqlite.Text(args[0])))
	if err != nil {
		return fmt.Errorf("describing table %s: %w", args[0], err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("table %q: %w", args[0], sqlite.ErrNotFound)
	}
	renderRows(cmd.OutOrStdout(), rows)
	return nil
}
