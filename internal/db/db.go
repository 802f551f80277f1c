package db

import (
	"fmt"
	"log/slog"
	"sync"

	_ "github.com/glebarez/go-sqlite"
	"github.com/jmoiron/sqlx"
)

// driverName is the name the pure-Go SQLite driver registers under.
const driverName = "sqlite"

var (
	Once sync.Once

	DBConn *sqlx.DB
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	username TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	player_id TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS game_results (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id TEXT NOT NULL,
	player_id TEXT NOT NULL,
	board_size INTEGER NOT NULL,
	mode TEXT NOT NULL,
	difficulty TEXT NOT NULL,
	winner TEXT NOT NULL DEFAULT '',
	is_draw INTEGER NOT NULL DEFAULT 0,
	moves TEXT NOT NULL DEFAULT '[]',
	finished_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_game_results_player ON game_results (player_id, board_size);
`

// LocalConnect opens a SQLite database at dbPath. Use ":memory:" for tests;
// an in-memory database lives as long as its single connection, so the pool
// is capped at one.
func LocalConnect(dbPath string) (*sqlx.DB, error) {
	pool, err := sqlx.Open(driverName, dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open local database connection: %w", err)
	}
	if dbPath == ":memory:" {
		pool.SetMaxOpenConns(1)
	}
	if err := pool.Ping(); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to reach database at %s: %w", dbPath, err)
	}
	slog.Debug("Connected to local database", "db.path", dbPath)
	return pool, nil
}

// DBConnect returns the process-wide connection, opening it on first use.
func DBConnect(dbPath string) (*sqlx.DB, error) {
	var err error
	Once.Do(func() {
		DBConn, err = LocalConnect(dbPath)
	})
	if err != nil {
		return nil, err
	}
	if DBConn == nil {
		return nil, fmt.Errorf("database connection was not established")
	}
	return DBConn, nil
}

// InitializeSchema creates the tables the application needs.
func InitializeSchema(db *sqlx.DB) error {
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// InitializeDB connects to the database at dbPath and verifies the schema.
func InitializeDB(dbPath string) (*sqlx.DB, error) {
	DB, err := DBConnect(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to master database: %w", err)
	}
	if err := InitializeSchema(DB); err != nil {
		return nil, err
	}

	slog.Info("DB connection initialized and schema verified.", "db.path", dbPath)
	return DB, nil
}
