package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/runar-labs/runar-sqlite/sqlite"
)

var (
	queryParams []string
	queryJSON   bool
)

var queryCmd = &cobra.Command{
	Use:   "query [sql]",
	Short: "Run a SELECT statement",
	Long: `Runs a SELECT statement against the database and prints the rows.
Named parameters use the :name form and are bound with --param:

  runar-sqlite query "SELECT * FROM users WHERE age > :age" --param age=30`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().StringArrayVarP(&queryParams, "param", "p", nil, "named parameter as key=value")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output rows as JSON")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	stmt, err := statementFromArgs(args[0], queryParams)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	svc, stop, err := openService(ctx)
	if err != nil {
		return err
	}
	defer stop()

	rows, err := svc.Query(ctx, stmt)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if queryJSON {
		return renderJSON(cmd.OutOrStdout(), rows)
	}
	renderRows(cmd.OutOrStdout(), rows)
	return nil
}

// statementFromArgs builds a statement from raw SQL and key=value
// parameter bindings. Values are bound as text; SQLite's type affinity
// converts them on comparison.
func statementFromArgs(sqlText string, params []string) (sqlite.Statement, error) {
	stmt := sqlite.NewStatement(sqlText)
	for _, p := range params {
		key, value, ok := strings.Cut(p, "=")
		if !ok || key == "" {
			return sqlite.Statement{}, fmt.Errorf("invalid --param %q, expected key=value", p)
		}
		stmt = stmt.Bind(key, sqlite.Text(value))
	}
	return stmt, nil
}
