package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/runar-labs/runar-sqlite/internal/logger"
	"github.com/runar-labs/runar-sqlite/internal/mcp"
	"github.com/runar-labs/runar-sqlite/sqlite"
)

var flagMCPHTTP string

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the database over the Model Context Protocol",
	Long: `Starts an MCP server exposing query, execute and tables tools
against the configured database. Serves over stdio by default, or over
HTTP when --http is given.`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	mcpCmd.Flags().StringVar(&flagMCPHTTP, "http", "", "serve over HTTP on this address instead of stdio")
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, _ []string) error {
	ctx, stopSignals := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	svc, stop, err := openService(ctx)
	if err != nil {
		return err
	}
	defer stop()

	server, err := mcp.NewServer(&mcpStore{svc: svc})
	if err != nil {
		return err
	}

	if flagMCPHTTP != "" {
		logger.Info("Serving MCP over HTTP on %s", flagMCPHTTP)
		return server.RunHTTP(ctx, flagMCPHTTP)
	}
	logger.Info("Serving MCP over stdio")
	return server.Run(ctx)
}

// mcpStore adapts the SQLite service to the MCP store interface.
type mcpStore struct {
	svc *sqlite.Service
}

func (s *mcpStore) Query(ctx context.Context, stmt mcp.Statement) ([]map[string]any, error) {
	rows, err := s.svc.Query(ctx, bindStatement(stmt))
	if err != nil {
		return nil, err
	}
	out := make([]map[string]any, len(rows))
	for i, row := range rows {
		m := make(map[string]any, len(row))
		for name, value := range row {
			m[name] = value.Any()
		}
		out[i] = m
	}
	return out, nil
}

func (s *mcpStore) Execute(ctx context.Context, stmt mcp.Statement) (mcp.ExecSummary, error) {
	res, err := s.svc.Execute(ctx, bindStatement(stmt))
	if err != nil {
		return mcp.ExecSummary{}, err
	}
	return mcp.ExecSummary{
		RowsAffected: res.RowsAffected,
		LastInsertID: res.LastInsertID,
	}, nil
}

func bindStatement(stmt mcp.Statement) sqlite.Statement {
	out := sqlite.NewStatement(stmt.SQL)
	for name, value := range stmt.Params {
		out = out.Bind(name, sqlite.Text(value))
	}
	return out
}
