package am

import (
	"strings"

	"github.com/teranos/kinlink/db"
	"github.com/teranos/kinlink/errors"
)

// Validate checks that the configuration is valid. Failures are marked
// with errors.ErrInvalidConfig.
func (c *Config) Validate() error {
	// Database path is optional - empty defaults to "kinlink.db"

	switch c.Database.Driver {
	case "", db.DriverCGO, db.DriverPureGo:
	default:
		return invalid("database.driver must be %q or %q, got %q", db.DriverCGO, db.DriverPureGo, c.Database.Driver)
	}

	for _, ext := range c.Ingest.Extensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			return invalid("ingest.extensions entries must look like \".htm\", got %q", ext)
		}
	}

	// 0 = re-ingest on the first event, negative = invalid
	if c.Ingest.WatchDebounceMS < 0 {
		return invalid("ingest.watch_debounce_ms must be >= 0, got %d", c.Ingest.WatchDebounceMS)
	}

	if strings.TrimSpace(c.Markup.Marker) == "" && c.Markup.Marker != "" {
		return invalid("markup.marker cannot be blank (omit for the default)")
	}

	if c.Log.Verbosity < 0 {
		return invalid("log.verbosity must be >= 0, got %d", c.Log.Verbosity)
	}

	return nil
}

func invalid(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf(format, args...), errors.ErrInvalidConfig)
}
