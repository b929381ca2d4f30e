package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var execParams []string

var execCmd = &cobra.Command{
	Use:   "exec [sql]",
	Short: "Run a mutation statement",
	Long: `Runs an INSERT, UPDATE, DELETE or DDL statement and reports the
affected rows. Named parameters are bound with --param, as in query.`,
	Args: cobra.ExactArgs(1),
	RunE: runExec,
}

func init() {
	execCmd.Flags().StringArrayVarP(&execParams, "param", "p", nil, "named parameter as key=value")
	rootCmd.AddCommand(execCmd)
}

func runExec(cmd *cobra.Command, args []string) error {
	stmt, err := statementFromArgs(args[0], execParams)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	svc, stop, err := openService(ctx)
	if err != nil {
		return err
	}
	defer stop()

	res, err := svc.Execute(ctx, stmt)
	if err != nil {
		return fmt.Errorf("exec failed: %w", err)
	}

	cmd.Printf("%d row(s) affected", res.RowsAffected)
	if res.LastInsertID > 0 {
		cmd.Printf(", last insert id %d", res.LastInsertID)
	}
	cmd.Println()
	return nil
}
