// Package sqlite is the SQLite integration service for the Runar
// ecosystem. All SQLite dependencies are encapsulated here so other
// Runar components never link the driver directly.
//
// This package uses modernc.org/sqlite, a pure Go SQLite implementation
// that requires no CGO, enabling easy cross-compilation.
//
// # Service
//
// A Service is configured with a database path and a Schema, started
// with Start, and offers raw statements (Query, Execute), typed CRUD
// operations (Create, Read, Update, Delete, Apply) and transactions
// (WithTx). Rows come back as maps of column name to Value.
//
// # Schema
//
// The Schema DSL describes tables, columns, constraints, foreign keys
// and indexes; Start renders it into idempotent DDL. Versioned SQL
// migrations from an fs.FS can be applied on top, tracked in a
// schema_migrations table.
//
// # Events
//
// Successful mutations publish ChangeEvent values on the service bus
// under "<table>/created", "<table>/updated" and "<table>/deleted".
// With WatchExternal enabled, writes made by other processes surface as
// "database/changed" events.
//
// # Thread Safety
//
// All operations are safe for concurrent use. File-backed databases are
// opened in WAL mode with a busy timeout.
package sqlite
