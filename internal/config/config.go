// Package config provides centralized configuration management for the application.
// Settings come from environment variables (optionally seeded from a .env file),
// fall back to defaults, and are validated on startup to fail fast on
// misconfiguration.
package config

import (
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Import   ImportConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
	Catalog  CatalogConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" envDefault:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" envDefault:"8080"`

	ReadTimeout  time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"30s"`
	IdleTimeout  time.Duration `env:"SERVER_IDLE_TIMEOUT" envDefault:"60s"`

	// ShutdownTimeout bounds graceful shutdown, including draining imports (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" envDefault:"60s"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	// URL selects the store. postgres:// and postgresql:// URLs use PostgreSQL,
	// anything else is treated as a SQLite path (an optional "sqlite:" prefix is
	// stripped). Defaults to a local SQLite file.
	URL string `env:"DATABASE_URL"`

	// LegacyURL is read from DB_URL when DATABASE_URL is unset.
	LegacyURL string `env:"DB_URL"`

	MaxConns        int           `env:"DB_MAX_CONNS" envDefault:"10"`
	MinConns        int           `env:"DB_MIN_CONNS" envDefault:"2"`
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"1h"`
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"30m"`
}

// DefaultDatabaseURL is used when neither DATABASE_URL nor DB_URL is set.
const DefaultDatabaseURL = "sqlite:pasteimport.db"

// IsPostgres reports whether the URL points at PostgreSQL.
func (c DatabaseConfig) IsPostgres() bool {
	u := strings.ToLower(c.URL)
	return strings.HasPrefix(u, "postgres://") || strings.HasPrefix(u, "postgresql://")
}

// SQLitePath returns the SQLite file path (or ":memory:") for non-Postgres URLs.
func (c DatabaseConfig) SQLitePath() string {
	p := strings.TrimPrefix(c.URL, "sqlite://")
	return strings.TrimPrefix(p, "sqlite:")
}

// ImportConfig holds paste handling and import settings.
type ImportConfig struct {
	// MaxPasteBytes caps the size of pasted text accepted by any endpoint (default: 10MB)
	MaxPasteBytes int64 `env:"IMPORT_MAX_PASTE_BYTES" envDefault:"10485760"`

	// MaxConcurrent is the maximum number of imports written at once (default: 5)
	MaxConcurrent int `env:"IMPORT_MAX_CONCURRENT" envDefault:"5"`

	// MaxWaitTime is how long an import waits for a slot (default: 30s)
	MaxWaitTime time.Duration `env:"IMPORT_MAX_WAIT_TIME" envDefault:"30s"`

	// Timeout bounds a single import including the database write (default: 2m)
	Timeout time.Duration `env:"IMPORT_TIMEOUT" envDefault:"2m"`

	// PreviewRows is the number of parsed rows returned by preview (default: 10)
	PreviewRows int `env:"IMPORT_PREVIEW_ROWS" envDefault:"10"`

	// StagingDir receives pasted text written out for external import tools.
	// Empty means the OS temp directory.
	StagingDir string `env:"IMPORT_STAGING_DIR"`

	// StagingMaxAge is how long staged files are kept (default: 24h)
	StagingMaxAge time.Duration `env:"IMPORT_STAGING_MAX_AGE" envDefault:"24h"`

	// JanitorInterval is how often old staged files are removed (default: 1h)
	JanitorInterval time.Duration `env:"IMPORT_JANITOR_INTERVAL" envDefault:"1h"`
}

// RateLimitConfig holds per-IP rate limiting settings.
type RateLimitConfig struct {
	Enabled bool `env:"RATE_LIMIT_ENABLED" envDefault:"true"`

	// RequestsPerMinute applies to every route (default: 300, detection runs per keystroke)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" envDefault:"300"`

	// ImportLimit is requests per minute for import and stage endpoints (default: 10)
	ImportLimit int `env:"RATE_LIMIT_IMPORT" envDefault:"10"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`

	EnableCSP bool `env:"SECURITY_ENABLE_CSP" envDefault:"true"`

	// RequireAPIKey enables X-API-Key checks on /api routes
	RequireAPIKey bool     `env:"REQUIRE_API_KEY" envDefault:"false"`
	APIKeys       []string `env:"API_KEYS" envSeparator:","`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" envDefault:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" envDefault:"text"`
}

// CatalogConfig points at the TOML file describing collections and record types.
type CatalogConfig struct {
	// File is seeded into the store on startup when set
	File string `env:"CATALOG_FILE"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}
