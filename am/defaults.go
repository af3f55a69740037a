package am

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/teranos/kinlink/db"
	"github.com/teranos/kinlink/ixgest"
	"github.com/teranos/kinlink/markup"
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	// Database defaults
	v.SetDefault("database.path", "kinlink.db")
	v.SetDefault("database.driver", db.DriverCGO)

	// Ingest defaults
	v.SetDefault("ingest.root", ".")
	v.SetDefault("ingest.extensions", ixgest.DefaultExtensions)
	v.SetDefault("ingest.gc_roles", true)
	v.SetDefault("ingest.skip_unchanged", false)
	v.SetDefault("ingest.report_path", "")
	v.SetDefault("ingest.watch_debounce_ms", 500) // editors write in bursts

	// Markup defaults
	v.SetDefault("markup.marker", markup.DefaultMarker)
	v.SetDefault("markup.top_menu_id", "topmenu")
	v.SetDefault("markup.explicit_link_only", false)

	// Log defaults
	v.SetDefault("log.json", false)
	v.SetDefault("log.verbosity", 0)
}

// BindEnvVars binds the settings most often overridden per shell
func BindEnvVars(v *viper.Viper) {
	v.BindEnv("database.path", EnvPrefix+"_DATABASE_PATH", "KINLINK_DB_PATH")
	v.BindEnv("database.driver", EnvPrefix+"_DATABASE_DRIVER")
	v.BindEnv("ingest.root", EnvPrefix+"_INGEST_ROOT")
}

// GetDatabasePath returns the configured database path
func (c *Config) GetDatabasePath() string {
	if c.Database.Path == "" {
		return "kinlink.db" // Fallback default
	}
	return c.Database.Path
}

// GetExtensions returns the document extensions, with the default list
// when none are configured
func (c *Config) GetExtensions() []string {
	if len(c.Ingest.Extensions) == 0 {
		return ixgest.DefaultExtensions
	}
	return c.Ingest.Extensions
}

// String returns a string representation of the config
func (c *Config) String() string {
	return fmt.Sprintf("Config{Database: %s (%s), Ingest: {Root: %s}, Markup: {Marker: %s}}",
		c.Database.Path, c.Database.Driver, c.Ingest.Root, c.Markup.Marker)
}
