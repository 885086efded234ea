// Package sqlite implements the repository interfaces using SQLite as the storage backend.
//
// WHY SQLITE NEXT TO POSTGRES?
// Production runs on PostgreSQL (package postgres). SQLite is the zero-setup
// backend: local development without a database server, and every repository
// and HTTP test in this repo (":memory:" gives each test a fresh database).
//
// WHY modernc.org/sqlite INSTEAD OF github.com/mattn/go-sqlite3?
// modernc.org/sqlite is a pure Go translation of the SQLite C code, no C
// compiler needed, cross-compilation just works.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	moderncsqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/sakif/skate-tracker/internal/repository"
)

// compile-time check that *DB implements the full store
var _ repository.Store = (*DB)(nil)

// DB wraps a sql.DB connection pool and provides repository methods.
type DB struct {
	conn *sql.DB
}

// BusyTimeout is how long a connection waits for another writer's lock
// before failing with SQLITE_BUSY.
const BusyTimeout = 5 * time.Second

// New creates a new SQLite database connection and runs migrations.
//
// dbPath examples:
//   - "data/skate.db"  → file-based database (persistent)
//   - ":memory:"       → in-memory database (tests; lost on close)
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// ONE CONNECTION FOR :memory:
	// Every new connection to ":memory:" opens a brand-new empty database.
	// Pinning the pool to a single connection keeps all queries on the one
	// database the migrations ran against.
	if dbPath == ":memory:" {
		conn.SetMaxOpenConns(1)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// dsn appends the connection pragmas to dbPath.
//
// PRAGMAs are per connection, and database/sql opens connections whenever
// it likes, so a one-off "PRAGMA foreign_keys=ON" would only reach one of
// them. The driver applies every _pragma parameter to each new connection:
//   - foreign_keys: ON DELETE CASCADE and the user_tricks → tricks check
//   - busy_timeout: concurrent writers queue instead of failing
//   - journal_mode(WAL): readers proceed while a write is in progress
//
// _txlock=immediate takes the write lock at BEGIN. A deferred transaction
// that reads first and writes later (UpsertProfile) cannot wait out
// busy_timeout when another writer got in between.
func dsn(dbPath string) string {
	params := url.Values{}
	params.Add("_pragma", "foreign_keys(1)")
	params.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", BusyTimeout.Milliseconds()))
	if dbPath != ":memory:" {
		params.Add("_pragma", "journal_mode(WAL)")
	}
	params.Set("_txlock", "immediate")
	return dbPath + "?" + params.Encode()
}

// Close closes the database connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Ping verifies the database is reachable. Used by GET /healthz.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// migrate creates the schema. CREATE TABLE IF NOT EXISTS makes it safe to
// run on every start.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating tables: %w", err)
	}
	return nil
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	username   TEXT NOT NULL UNIQUE,
	email      TEXT NOT NULL UNIQUE,
	password   TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS user_profiles (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id         INTEGER NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
	first_name      TEXT,
	last_name       TEXT,
	bio             TEXT,
	age             INTEGER,
	location        TEXT,
	stance          TEXT CHECK (stance IN ('goofy', 'regular')),
	profile_picture TEXT,
	created_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS tricks (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	name        TEXT NOT NULL UNIQUE,
	difficulty  TEXT,
	description TEXT
);

CREATE TABLE IF NOT EXISTS user_tricks (
	id       INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id  INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	trick_id INTEGER NOT NULL REFERENCES tricks(id) ON DELETE CASCADE,
	added_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	status   TEXT NOT NULL DEFAULT 'learning',
	CONSTRAINT unique_user_trick UNIQUE (user_id, trick_id)
);
CREATE INDEX IF NOT EXISTS idx_user_tricks_user_id ON user_tricks(user_id);

CREATE TABLE IF NOT EXISTS challenges (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	name          TEXT NOT NULL UNIQUE,
	description   TEXT,
	difficulty    TEXT,
	reward_points INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS user_rewards (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id       INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	challenge_id  INTEGER NOT NULL REFERENCES challenges(id) ON DELETE CASCADE,
	completed_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	points_earned INTEGER NOT NULL DEFAULT 0,
	CONSTRAINT unique_user_challenge UNIQUE (user_id, challenge_id)
);
`

// CONSTRAINT ERRORS:
// modernc reports extended result codes (e.g. SQLITE_CONSTRAINT_UNIQUE).
// The message check is a fallback for wrapped errors that lost the type.

func constraintCode(err error) int {
	var se *moderncsqlite.Error
	if errors.As(err, &se) {
		return se.Code()
	}
	return 0
}

func isUniqueViolation(err error) bool {
	switch constraintCode(err) {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return true
	}
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func isForeignKeyViolation(err error) bool {
	if constraintCode(err) == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY {
		return true
	}
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

func isCheckViolation(err error) bool {
	if constraintCode(err) == sqlite3.SQLITE_CONSTRAINT_CHECK {
		return true
	}
	return err != nil && strings.Contains(err.Error(), "CHECK constraint failed")
}
