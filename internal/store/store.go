package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"
	"pkt.systems/pslog"

	"github.com/roach88/recipebox/internal/stream"
)

//go:embed schema.sql
var schemaSQL string

// CurrentSchemaVersion is the schema version this build reads and writes.
const CurrentSchemaVersion = 1

// SchemaVersionError reports a database written by another schema version.
type SchemaVersionError struct {
	Found int
	Want  int
}

// Error implements the error interface.
func (e *SchemaVersionError) Error() string {
	return fmt.Sprintf("schema version %d is not supported (want %d); enable destructive migration to reset the database", e.Found, e.Want)
}

// Store provides durable storage for recipes.
type Store struct {
	db  *sql.DB
	log pslog.Logger

	writeMu sync.Mutex
	version int64
	changes *stream.Value[int64]
}

type options struct {
	destructive bool
	logger      pslog.Logger
}

// Option configures Open.
type Option func(*options)

// WithDestructiveMigration drops and recreates the schema when the on-disk
// version does not match CurrentSchemaVersion. All stored recipes are lost.
func WithDestructiveMigration(enabled bool) Option {
	return func(o *options) {
		o.destructive = enabled
	}
}

// WithLogger sets the logger used for store diagnostics.
func WithLogger(logger pslog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// Open creates or opens a SQLite database at the given path.
// Use ":memory:" for a private in-memory database.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode (balance durability/performance)
//   - 5-second busy timeout for lock contention
//   - Foreign key enforcement
func Open(path string, opts ...Option) (*Store, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = pslog.Ctx(context.Background())
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite only supports one writer at a time. A single connection also
	// keeps ":memory:" databases alive for the lifetime of the store.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	s := &Store{
		db:      db,
		log:     o.logger.With("component", "store"),
		changes: stream.NewValueWith[int64](0),
	}

	if err := s.applySchema(o.destructive); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return s, nil
}

// Close stops all watches and closes the database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.changes.Close()
	return s.db.Close()
}

// DB returns the underlying sql.DB for direct queries.
// Use with caution - prefer using Store methods when available.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Version returns the current commit version.
func (s *Store) Version() int64 {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.version
}

// commit advances the commit version. Caller holds writeMu.
func (s *Store) commit() {
	s.version++
	s.changes.Publish(s.version)
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// applySchema creates the schema on a fresh database and checks the
// version of an existing one.
func (s *Store) applySchema(destructive bool) error {
	version, err := userVersion(s.db)
	if err != nil {
		return err
	}

	switch {
	case version == 0 || version == CurrentSchemaVersion:
	case destructive:
		s.log.Warn("schema version mismatch, dropping recipes", "found", version, "want", CurrentSchemaVersion)
		if _, err := s.db.Exec("DROP TABLE IF EXISTS recipes"); err != nil {
			return fmt.Errorf("drop recipes: %w", err)
		}
	default:
		return &SchemaVersionError{Found: version, Want: CurrentSchemaVersion}
	}

	if _, err := s.db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", CurrentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}

	return nil
}

func userVersion(db *sql.DB) (int, error) {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("get user_version: %w", err)
	}
	return version, nil
}

// verifyPragma checks that a pragma is set to the expected value.
// Used for testing.
func (s *Store) verifyPragma(name, expected string) error {
	var value string
	query := fmt.Sprintf("PRAGMA %s", name)
	if err := s.db.QueryRow(query).Scan(&value); err != nil {
		return fmt.Errorf("failed to query %s: %w", name, err)
	}
	if value != expected {
		return fmt.Errorf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}
