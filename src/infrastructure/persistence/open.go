package persistence

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"goal-app/src/config"
	"goal-app/src/database"
	"goal-app/src/domain"

	"github.com/sirupsen/logrus"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Open builds the persister selected by cfg.Driver. The returned closer
// releases any database connection.
func Open(cfg config.StorageConfig, logger *logrus.Logger) (domain.GoalPersister, io.Closer, error) {
	switch cfg.Driver {
	case config.StorageFile, "":
		p := NewJSONFilePersister(cfg.DataFile, logger)
		logger.WithField("file", p.Path()).Info("using JSON file storage")
		return p, nopCloser{}, nil

	case config.StorageSQLite:
		if err := os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0755); err != nil {
			return nil, nil, fmt.Errorf("failed to create sqlite directory: %w", err)
		}
		db, err := database.NewDB(&database.Config{Driver: database.DriverSQLite, DSN: cfg.SQLitePath}, logger)
		if err != nil {
			return nil, nil, err
		}
		return NewSQLPersister(db, logger), db, nil

	case config.StoragePostgres:
		if cfg.DatabaseURL == "" {
			return nil, nil, fmt.Errorf("DATABASE_URL is required for the postgres storage driver")
		}
		db, err := database.NewDB(&database.Config{Driver: database.DriverPostgres, DSN: cfg.DatabaseURL}, logger)
		if err != nil {
			return nil, nil, err
		}
		return NewSQLPersister(db, logger), db, nil

	default:
		return nil, nil, fmt.Errorf("unsupported storage driver: %q", cfg.Driver)
	}
}
