package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// QueryInput is the input schema for the query tool.
type QueryInput struct {
	SQL    string            `json:"sql" jsonschema:"the SELECT statement to run, with :name placeholders"`
	Params map[string]string `json:"params,omitempty" jsonschema:"named parameter values"`
	Limit  int               `json:"limit,omitempty" jsonschema:"maximum number of rows to return (default 100)"`
}

// QueryOutput is the output schema for the query tool.
type QueryOutput struct {
	Rows  []map[string]any `json:"rows"`
	Count int              `json:"count"`
}

// ExecuteInput is the input schema for the execute tool.
type ExecuteInput struct {
	SQL    string            `json:"sql" jsonschema:"the INSERT, UPDATE, DELETE or DDL statement to run"`
	Params map[string]string `json:"params,omitempty" jsonschema:"named parameter values"`
}

// ExecuteOutput is the output schema for the execute tool.
type ExecuteOutput struct {
	RowsAffected int64 `json:"rows_affected"`
	LastInsertID int64 `json:"last_insert_id,omitempty"`
}

// TablesInput is the input schema for the tables tool.
type TablesInput struct {
	Table string `json:"table,omitempty" jsonschema:"describe this table instead of listing all tables"`
}

// TablesOutput is the output schema for the tables tool.
type TablesOutput struct {
	Tables  []string         `json:"tables,omitempty"`
	Columns []map[string]any `json:"columns,omitempty"`
}

// defaultQueryLimit caps query tool results when no limit is given.
const defaultQueryLimit = 100

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "query",
		Description: "Run a SELECT statement and return the matching rows",
	}, s.handleQuery)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "execute",
		Description: "Run a mutation statement and return the affected row count",
	}, s.handleExecute)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "tables",
		Description: "List the database tables, or describe one table's columns",
	}, s.handleTables)
}

// handleQuery handles the query tool invocation.
func (s *Server) handleQuery(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input QueryInput,
) (*mcp.CallToolResult, QueryOutput, error) {
	rows, err := s.store.Query(ctx, Statement{SQL: input.SQL, Params: input.Params})
	if err != nil {
		return nil, QueryOutput{}, err
	}

	limit := input.Limit
	if limit <= 0 {
		limit = defaultQueryLimit
	}
	if len(rows) > limit {
		rows = rows[:limit]
	}

	return nil, QueryOutput{Rows: rows, Count: len(rows)}, nil
}

// handleExecute handles the execute tool invocation.
func (s *Server) handleExecute(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ExecuteInput,
) (*mcp.CallToolResult, ExecuteOutput, error) {
	res, err := s.store.Execute(ctx, Statement{SQL: input.SQL, Params: input.Params})
	if err != nil {
		return nil, ExecuteOutput{}, err
	}
	return nil, ExecuteOutput{
		RowsAffected: res.RowsAffected,
		LastInsertID: res.LastInsertID,
	}, nil
}

// handleTables handles the tables tool invocation.
func (s *Server) handleTables(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input TablesInput,
) (*mcp.CallToolResult, TablesOutput, error) {
	if input.Table != "" {
		columns, err := s.store.Query(ctx, Statement{
			SQL:    `SELECT name, type, "notnull", pk FROM pragma_table_info(:table) ORDER BY cid`,
			Params: map[string]string{"table": input.Table},
		})
		if err != nil {
			return nil, TablesOutput{}, err
		}
		return nil, TablesOutput{Columns: columns}, nil
	}

	rows, err := s.store.Query(ctx, Statement{
		SQL: `SELECT name FROM sqlite_master
			WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
			ORDER BY name`,
	})
	if err != nil {
		return nil, TablesOutput{}, err
	}

	tables := make([]string, 0, len(rows))
	for _, row := range rows {
		if name, ok := row["name"].(string); ok {
			tables = append(tables, name)
		}
	}
	return nil, TablesOutput{Tables: tables}, nil
}
