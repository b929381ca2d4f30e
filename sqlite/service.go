package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/runar-labs/runar-sqlite/events"
	"github.com/runar-labs/runar-sqlite/internal/logger"
)

// MemoryPath opens a private in-memory database instead of a file.
const MemoryPath = ":memory:"

const defaultBusyTimeout = 5 * time.Second

// Config configures a Service.
type Config struct {
	// Path is the database file path, or MemoryPath for an in-memory
	// database.
	Path string

	// Schema is applied on Start. Tables and indexes are created if
	// they do not exist.
	Schema Schema

	// BusyTimeout is the SQLite busy handler timeout. Zero means 5s.
	BusyTimeout time.Duration

	// Migrations, when set, is a filesystem of versioned .sql files
	// applied once each after the schema, tracked in schema_migrations.
	Migrations fs.FS

	// MigrationsRoot is the directory inside Migrations holding the
	// SQL files. Empty means the filesystem root.
	MigrationsRoot string

	// WatchExternal enables the file watcher that publishes
	// database/changed events when another process writes the database.
	// Only meaningful for file-backed databases.
	WatchExternal bool

	// Bus receives change events. When nil the service creates its own;
	// pass a shared bus to let other components subscribe.
	Bus *events.Bus
}

// NewConfig returns a config for a database at path with the given schema.
func NewConfig(path string, schema Schema) Config {
	return Config{Path: path, Schema: schema}
}

// ChangeEvent is the payload published after a successful mutation.
// Topic form: "<table>/created", "<table>/updated", "<table>/deleted".
type ChangeEvent struct {
	Table        string
	Op           string
	Row          Row
	RowsAffected int64
}

// ExternalChange is the payload published on "database/changed" when the
// watcher observes a write by another process.
type ExternalChange struct {
	Path string
	At   time.Time
}

// Service is the SQLite integration service. It owns the connection,
// applies the schema on start, and is the only component in a Runar
// deployment that links the SQLite driver.
type Service struct {
	cfg Config
	bus *events.Bus

	mu      sync.RWMutex
	db      *sql.DB
	run     *runner
	watcher *watcher
	started bool
}

// New creates a service from the config. The database is not opened
// until Start.
func New(cfg Config) *Service {
	bus := cfg.Bus
	if bus == nil {
		bus = events.NewBus()
	}
	return &Service{cfg: cfg, bus: bus}
}

// Bus returns the event bus the service publishes change events on.
func (s *Service) Bus() *events.Bus {
	return s.bus
}

// Path returns the configured database path.
func (s *Service) Path() string {
	return s.cfg.Path
}

// Start opens the database, applies pragmas, creates the schema, runs
// configured migrations, and starts the external-change watcher when
// enabled. Starting a started service fails with ErrAlreadyStarted.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return ErrAlreadyStarted
	}
	if s.cfg.Path == "" {
		return fmt.Errorf("%w: database path is required", ErrInvalidInput)
	}
	if err := s.cfg.Schema.Validate(); err != nil {
		return fmt.Errorf("validating schema: %w", err)
	}

	logger.Section("SQLite Service Start")
	logger.Info("Opening database at %s", s.cfg.Path)

	db, err := open(s.cfg.Path, s.busyTimeout())
	if err != nil {
		return err
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("pinging database: %w", err)
	}

	if err := applySchema(ctx, db, s.cfg.Schema); err != nil {
		db.Close()
		return err
	}

	if s.cfg.Migrations != nil {
		if err := applyMigrations(ctx, db, s.cfg.Migrations, s.cfg.MigrationsRoot); err != nil {
			db.Close()
			return fmt.Errorf("running migrations: %w", err)
		}
	}

	s.db = db
	s.run = &runner{db: db}
	s.started = true

	if s.cfg.WatchExternal && s.cfg.Path != MemoryPath {
		w, err := newWatcher(s.cfg.Path, s.bus)
		if err != nil {
			logger.Warn("External change watcher unavailable: %v", err)
		} else {
			s.watcher = w
			s.watcher.start()
		}
	}

	logger.Info("Service started")
	return nil
}

// Stop closes the watcher and the database. Stopping a stopped service
// is a no-op.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return nil
	}
	if s.watcher != nil {
		s.watcher.stop()
		s.watcher = nil
	}
	err := s.db.Close()
	s.db = nil
	s.run = nil
	s.started = false
	logger.Info("Service stopped")
	if err != nil {
		return fmt.Errorf("closing database: %w", err)
	}
	return nil
}

// runnerLocked returns the active runner or ErrNotStarted.
func (s *Service) runnerLocked() (*runner, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	return s.run, nil
}

// Query executes a SELECT statement and returns the result rows.
func (s *Service) Query(ctx context.Context, stmt Statement) ([]Row, error) {
	run, err := s.runnerLocked()
	if err != nil {
		return nil, err
	}
	args, err := stmt.Params.args()
	if err != nil {
		return nil, err
	}
	return run.query(ctx, stmt.SQL, args)
}

// Execute runs a mutation statement and reports the affected rows.
func (s *Service) Execute(ctx context.Context, stmt Statement) (ExecResult, error) {
	run, err := s.runnerLocked()
	if err != nil {
		return ExecResult{}, err
	}
	args, err := stmt.Params.args()
	if err != nil {
		return ExecResult{}, err
	}
	return run.exec(ctx, stmt.SQL, args)
}

// Create inserts a row and returns it as stored, including column
// defaults and the generated rowid when the table has one.
func (s *Service) Create(ctx context.Context, op CreateOperation) (Row, error) {
	run, err := s.runnerLocked()
	if err != nil {
		return nil, err
	}
	row, err := run.create(ctx, op)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, op.Table, "created", ChangeEvent{Table: op.Table, Op: "created", Row: row, RowsAffected: 1})
	return row, nil
}

// Read returns the rows matched by the operation.
func (s *Service) Read(ctx context.Context, op ReadOperation) ([]Row, error) {
	run, err := s.runnerLocked()
	if err != nil {
		return nil, err
	}
	return run.read(ctx, op)
}

// Update applies the assignments to matching rows and reports how many
// were changed.
func (s *Service) Update(ctx context.Context, op UpdateOperation) (int64, error) {
	run, err := s.runnerLocked()
	if err != nil {
		return 0, err
	}
	n, err := run.mutate(ctx, op)
	if err != nil {
		return 0, err
	}
	s.publish(ctx, op.Table, "updated", ChangeEvent{Table: op.Table, Op: "updated", RowsAffected: n})
	return n, nil
}

// Delete removes the matching rows and reports how many were removed.
func (s *Service) Delete(ctx context.Context, op DeleteOperation) (int64, error) {
	run, err := s.runnerLocked()
	if err != nil {
		return 0, err
	}
	n, err := run.mutate(ctx, op)
	if err != nil {
		return 0, err
	}
	s.publish(ctx, op.Table, "deleted", ChangeEvent{Table: op.Table, Op: "deleted", RowsAffected: n})
	return n, nil
}

// ApplyResult is the uniform result of Apply.
type ApplyResult struct {
	Rows         []Row
	RowsAffected int64
}

// Apply dispatches a typed operation. Create returns the stored row,
// Read the matched rows, Update and Delete the affected count.
func (s *Service) Apply(ctx context.Context, op Operation) (ApplyResult, error) {
	switch o := op.(type) {
	case CreateOperation:
		row, err := s.Create(ctx, o)
		if err != nil {
			return ApplyResult{}, err
		}
		return ApplyResult{Rows: []Row{row}, RowsAffected: 1}, nil
	case ReadOperation:
		rows, err := s.Read(ctx, o)
		if err != nil {
			return ApplyResult{}, err
		}
		return ApplyResult{Rows: rows}, nil
	case UpdateOperation:
		n, err := s.Update(ctx, o)
		if err != nil {
			return ApplyResult{}, err
		}
		return ApplyResult{RowsAffected: n}, nil
	case DeleteOperation:
		n, err := s.Delete(ctx, o)
		if err != nil {
			return ApplyResult{}, err
		}
		return ApplyResult{RowsAffected: n}, nil
	default:
		return ApplyResult{}, fmt.Errorf("%w: unknown operation %T", ErrInvalidInput, op)
	}
}

// publish delivers a change event on "<table>/<op>".
func (s *Service) publish(ctx context.Context, table, op string, event ChangeEvent) {
	s.bus.Publish(ctx, table+"/"+op, event)
}

// busyTimeout returns the configured busy timeout or the default.
func (s *Service) busyTimeout() time.Duration {
	if s.cfg.BusyTimeout > 0 {
		return s.cfg.BusyTimeout
	}
	return defaultBusyTimeout
}

// open opens the database with WAL journaling for file-backed paths and
// enables foreign key enforcement.
func open(path string, busyTimeout time.Duration) (*sql.DB, error) {
	dsn := path
	if path != MemoryPath {
		dsn = fmt.Sprintf("%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(%d)",
			path, busyTimeout.Milliseconds())
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if path == MemoryPath {
		// A private in-memory database exists per connection; pin the
		// pool to one so every statement sees the same database.
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	return db, nil
}

// applySchema creates tables and indexes that do not yet exist.
func applySchema(ctx context.Context, db *sql.DB, schema Schema) error {
	for _, table := range schema.Tables {
		createSQL := table.CreateSQL()
		logger.SQL("%s", createSQL)
		if _, err := db.ExecContext(ctx, createSQL); err != nil {
			return fmt.Errorf("creating table %s: %w", table.Name, err)
		}
		for _, indexSQL := range table.IndexSQL() {
			logger.SQL("%s", indexSQL)
			if _, err := db.ExecContext(ctx, indexSQL); err != nil {
				return fmt.Errorf("creating index on %s: %w", table.Name, err)
			}
		}
	}
	return nil
}

// dbtx abstracts *sql.DB and *sql.Tx for shared operation execution.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// runner executes compiled statements against a dbtx.
type runner struct {
	db dbtx
}

func (r *runner) query(ctx context.Context, sqlText string, args []any) ([]Row, error) {
	logger.SQL("%s", sqlText)
	rows, err := r.db.QueryContext(ctx, sqlText, args...)
	if err != nil {
		return nil, mapError("querying", err)
	}
	defer rows.Close()
	return scanRows(rows)
}

func (r *runner) exec(ctx context.Context, sqlText string, args []any) (ExecResult, error) {
	logger.SQL("%s", sqlText)
	res, err := r.db.ExecContext(ctx, sqlText, args...)
	if err != nil {
		return ExecResult{}, mapError("executing", err)
	}
	var out ExecResult
	if n, err := res.RowsAffected(); err == nil {
		out.RowsAffected = n
	}
	if id, err := res.LastInsertId(); err == nil {
		out.LastInsertID = id
	}
	return out, nil
}

func (r *runner) create(ctx context.Context, op CreateOperation) (Row, error) {
	sqlText, args, err := op.compile()
	if err != nil {
		return nil, err
	}
	res, err := r.exec(ctx, sqlText, args)
	if err != nil {
		return nil, err
	}

	// Fetch the stored row so defaults and the generated key are
	// visible to the caller. WITHOUT ROWID tables fall back to the
	// submitted data.
	if res.LastInsertID > 0 {
		rows, err := r.query(ctx,
			fmt.Sprintf("SELECT * FROM %s WHERE rowid = ?", quoteIdent(op.Table)),
			[]any{res.LastInsertID})
		if err == nil && len(rows) == 1 {
			return rows[0], nil
		}
	}
	row := make(Row, len(op.Data))
	for k, v := range op.Data {
		row[k] = v
	}
	return row, nil
}

func (r *runner) read(ctx context.Context, op ReadOperation) ([]Row, error) {
	sqlText, args, err := op.compile()
	if err != nil {
		return nil, err
	}
	return r.query(ctx, sqlText, args)
}

// mutate executes an update or delete and returns the affected count.
func (r *runner) mutate(ctx context.Context, op Operation) (int64, error) {
	sqlText, args, err := op.compile()
	if err != nil {
		return 0, err
	}
	res, err := r.exec(ctx, sqlText, args)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op.kind(), err)
	}
	return res.RowsAffected, nil
}
