// Package store persists users and tasks in a relational database.
//
// Two drivers are supported: an embedded SQLite file (the default) and
// Postgres, selected by the shape of the DSN. Queries are written once with
// $N placeholders, which both drivers accept as long as each statement
// introduces them in ascending order.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrNotFoundOrNotOwned = errors.New("task not found or not owned")
	// ErrPasswordTooLong rejects passwords bcrypt cannot hash.
	ErrPasswordTooLong    = errors.New("password longer than 72 bytes")
)

type dialect struct {
	name   string
	schema []string
}

var sqliteDialect = dialect{
	name: "sqlite3",
	schema: []string{
		`CREATE TABLE IF NOT EXISTS "user" (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS task (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			owner_id INTEGER NOT NULL REFERENCES "user"(id),
			text TEXT NOT NULL,
			priority TEXT NOT NULL,
			due_date TEXT NOT NULL,
			completed BOOLEAN NOT NULL DEFAULT FALSE,
			created_time TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS task_owner_idx ON task(owner_id)`,
	},
}

var postgresDialect = dialect{
	name: "postgres",
	schema: []string{
		`CREATE TABLE IF NOT EXISTS "user" (
			id BIGSERIAL PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS task (
			id BIGSERIAL PRIMARY KEY,
			owner_id BIGINT NOT NULL REFERENCES "user"(id),
			text TEXT NOT NULL,
			priority TEXT NOT NULL,
			due_date TEXT NOT NULL,
			completed BOOLEAN NOT NULL DEFAULT FALSE,
			created_time TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS task_owner_idx ON task(owner_id)`,
	},
}

// Store owns the database handle shared by UserStore and TaskStore.
type Store struct {
	db      *sql.DB
	dialect dialect
}

// Open connects to dsn and creates the schema if it is missing.
// postgres:// and postgresql:// URLs use Postgres; anything else is treated
// as a SQLite file path.
func Open(ctx context.Context, dsn string) (*Store, error) {
	d := sqliteDialect
	source := dsn
	if isPostgres(dsn) {
		d = postgresDialect
	} else {
		source = sqliteSource(dsn)
	}

	db, err := sql.Open(d.name, source)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	// SQLite allows one writer at a time.
	if d.name == sqliteDialect.name {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	s := &Store{db: db, dialect: d}
	if err := s.applySchema(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Driver reports the database/sql driver in use.
func (s *Store) Driver() string {
	return s.dialect.name
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) applySchema(ctx context.Context) error {
	for _, stmt := range s.dialect.schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

func isPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

func sqliteSource(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=on"
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code.Name() == "unique_violation"
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}

	return false
}
