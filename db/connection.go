package db

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/teranos/kinlink/errors"
	"github.com/teranos/kinlink/sym"
)

// Registered database/sql driver names.
const (
	DriverCGO    = "sqlite3" // github.com/mattn/go-sqlite3
	DriverPureGo = "sqlite"  // modernc.org/sqlite
)

// SQLiteBusyTimeoutMS is how long a connection waits on a locked database.
const SQLiteBusyTimeoutMS = 5000

// Open opens a SQLite database at path with the named driver ("" selects
// DriverCGO). If logger is provided, logs database operations; otherwise
// operates silently.
func Open(driver, path string, logger *zap.SugaredLogger) (*sql.DB, error) {
	if driver == "" {
		driver = DriverCGO
	}
	if driver != DriverCGO && driver != DriverPureGo {
		return nil, errors.Newf("unsupported sqlite driver %q", driver)
	}
	if logger != nil {
		logger.Debugw("Opening database", "path", path, "driver", driver, "symbol", sym.DB)
	}

	db, err := sql.Open(driver, path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}

	// An in-memory database exists per connection
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA foreign_keys = ON",
		fmt.Sprintf("PRAGMA busy_timeout = %d", SQLiteBusyTimeoutMS),
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, errors.Wrapf(err, "failed to apply %q", pragma)
		}
	}

	if logger != nil {
		logger.Infow("Database opened",
			"path", path,
			"driver", driver,
			"symbol", sym.DB,
		)
	}

	return db, nil
}

// OpenWithMigrations opens the database and brings its schema up to date.
func OpenWithMigrations(driver, path string, logger *zap.SugaredLogger) (*sql.DB, error) {
	db, err := Open(driver, path, logger)
	if err != nil {
		return nil, err
	}
	if err := Migrate(db, logger); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to migrate database")
	}
	return db, nil
}
