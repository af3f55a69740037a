// Package am holds kinlink's configuration ("am" as in "I am configured
// as"). Values come from built-in defaults, then am.toml files, then
// KINLINK_* environment variables.
package am

// Config represents the kinlink configuration
type Config struct {
	Database DatabaseConfig `mapstructure:"database" toml:"database" json:"database" yaml:"database"`
	Ingest   IngestConfig   `mapstructure:"ingest" toml:"ingest" json:"ingest" yaml:"ingest"`
	Markup   MarkupConfig   `mapstructure:"markup" toml:"markup" json:"markup" yaml:"markup"`
	Log      LogConfig      `mapstructure:"log" toml:"log" json:"log" yaml:"log"`
}

// DatabaseConfig configures the SQLite record store
type DatabaseConfig struct {
	Path   string `mapstructure:"path" toml:"path" json:"path" yaml:"path"`
	Driver string `mapstructure:"driver" toml:"driver" json:"driver" yaml:"driver"` // sqlite3 (cgo) or sqlite (pure Go)
}

// IngestConfig configures corpus ingestion
type IngestConfig struct {
	Root            string   `mapstructure:"root" toml:"root" json:"root" yaml:"root"`                                         // corpus directory
	Extensions      []string `mapstructure:"extensions" toml:"extensions" json:"extensions" yaml:"extensions"`                 // document file extensions
	GCRoles         bool     `mapstructure:"gc_roles" toml:"gc_roles" json:"gc_roles" yaml:"gc_roles"`                         // delete orphaned ad hoc roles after a run
	SkipUnchanged   bool     `mapstructure:"skip_unchanged" toml:"skip_unchanged" json:"skip_unchanged" yaml:"skip_unchanged"` // skip documents whose digest did not change
	ReportPath      string   `mapstructure:"report_path" toml:"report_path" json:"report_path" yaml:"report_path"`             // YAML run report ("" = none)
	WatchDebounceMS int      `mapstructure:"watch_debounce_ms" toml:"watch_debounce_ms" json:"watch_debounce_ms" yaml:"watch_debounce_ms"`
}

// MarkupConfig configures how annotated documents are read
type MarkupConfig struct {
	Marker           string `mapstructure:"marker" toml:"marker" json:"marker" yaml:"marker"`
	TopMenuID        string `mapstructure:"top_menu_id" toml:"top_menu_id" json:"top_menu_id" yaml:"top_menu_id"`
	ExplicitLinkOnly bool   `mapstructure:"explicit_link_only" toml:"explicit_link_only" json:"explicit_link_only" yaml:"explicit_link_only"` // only EE statements run the matcher
}

// LogConfig configures logging
type LogConfig struct {
	JSON      bool `mapstructure:"json" toml:"json" json:"json" yaml:"json"`
	Verbosity int  `mapstructure:"verbosity" toml:"verbosity" json:"verbosity" yaml:"verbosity"` // 0 warn, 1 info, 2+ debug
}

const (
	// DefaultDirPermissions is used for ~/.kinlink
	DefaultDirPermissions = 0750

	// EnvPrefix prefixes environment overrides: KINLINK_DATABASE_PATH
	EnvPrefix = "KINLINK"
)
