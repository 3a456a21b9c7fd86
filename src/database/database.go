package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
)

// Supported drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

// DB represents the database connection
type DB struct {
	*sql.DB
	driver string
	logger *logrus.Logger
}

// Config represents database configuration
type Config struct {
	Driver string
	DSN    string
}

// NewDB opens the database, checks the connection and applies the schema
func NewDB(config *Config, logger *logrus.Logger) (*DB, error) {
	if config.Driver != DriverPostgres && config.Driver != DriverSQLite {
		return nil, fmt.Errorf("unsupported database driver: %q", config.Driver)
	}

	db, err := sql.Open(config.Driver, config.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// 接続をテスト
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// 接続プールの設定
	if config.Driver == DriverSQLite {
		// SQLite allows a single writer
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	d := &DB{
		DB:     db,
		driver: config.Driver,
		logger: logger,
	}
	if err := d.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	logger.WithField("driver", config.Driver).Info("database connected")

	return d, nil
}

// Driver returns the driver name the connection was opened with
func (db *DB) Driver() string {
	return db.driver
}

// Placeholder returns the bind parameter for the n-th (1-based) argument
func (db *DB) Placeholder(n int) string {
	if db.driver == DriverPostgres {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS goals (
		position   INTEGER PRIMARY KEY,
		id         INTEGER NOT NULL,
		title      TEXT NOT NULL,
		priority   TEXT NOT NULL,
		due_date   TEXT,
		completed  BOOLEAN NOT NULL DEFAULT FALSE,
		archived   BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TEXT NOT NULL
	)`

	_, err := db.Exec(schema)
	return err
}

// Close closes the database connection
func (db *DB) Close() error {
	db.logger.Info("closing database connection")
	return db.DB.Close()
}

// Health checks database health
func (db *DB) Health() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	return db.PingContext(ctx)
}
