package commands

import (
	"database/sql"

	"github.com/spf13/cobra"

	"github.com/teranos/kinlink/am"
	"github.com/teranos/kinlink/db"
	"github.com/teranos/kinlink/errors"
	"github.com/teranos/kinlink/logger"
)

// InitLogger sets up the global logger from configuration, raised by
// any -v flags given on the command line.
func InitLogger(cmd *cobra.Command) error {
	cfg, err := am.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load configuration")
	}
	verbosity, _ := cmd.Flags().GetCount("verbose")
	if cfg.Log.Verbosity > verbosity {
		verbosity = cfg.Log.Verbosity
	}
	jsonLogs, _ := cmd.Flags().GetBool("log-json")
	if err := logger.Initialize(jsonLogs || cfg.Log.JSON, verbosity); err != nil {
		return errors.Wrap(err, "failed to initialize logger")
	}
	logger.Debugw("Logger initialized", "level", logger.LevelName(verbosity), "command", cmd.Name())
	return nil
}

// verbosityOf is the effective verbosity of cmd
func verbosityOf(cmd *cobra.Command, cfg *am.Config) int {
	v, _ := cmd.Flags().GetCount("verbose")
	if cfg.Log.Verbosity > v {
		return cfg.Log.Verbosity
	}
	return v
}

// openDatabase opens and migrates the configured database. A non-empty
// dbPath overrides the configured path.
func openDatabase(cfg *am.Config, dbPath string) (*sql.DB, error) {
	if dbPath == "" {
		dbPath = cfg.GetDatabasePath()
	}
	database, err := db.OpenWithMigrations(cfg.Database.Driver, dbPath, logger.Logger)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open database at %s", dbPath)
	}
	return database, nil
}
