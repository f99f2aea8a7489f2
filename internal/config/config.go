// Package config loads katalog's TOML configuration.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// DefaultPath is the config file read when no path is given.
const DefaultPath = "katalog.toml"

// Server contains HTTP server settings. Timeouts are in seconds.
type Server struct {
	Addr            string   `toml:"addr"`
	BasePath        string   `toml:"base_path"`
	CORSOrigins     []string `toml:"cors_origins"`
	ReadTimeout     int      `toml:"read_timeout"`
	WriteTimeout    int      `toml:"write_timeout"`
	IdleTimeout     int      `toml:"idle_timeout"`
	ShutdownTimeout int      `toml:"shutdown_timeout"`
}

// Storage selects and configures the catalog backend.
type Storage struct {
	Backend       string `toml:"backend"`
	SQLitePath    string `toml:"sqlite_path"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

// Catalog contains settings for searches.
type Catalog struct {
	// Timezone is the IANA zone date filters are resolved in. Empty means
	// the host's local zone.
	Timezone string `toml:"timezone"`
}

// Images contains cover upload settings.
type Images struct {
	MaxDimension   int   `toml:"max_dimension"`
	JPEGQuality    int   `toml:"jpeg_quality"`
	MaxUploadBytes int64 `toml:"max_upload_bytes"`
}

// Logging contains configuration for log output.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	File   string `toml:"file"`
}

// Config encapsulates all configuration values for katalog.
type Config struct {
	Server  Server  `toml:"server"`
	Storage Storage `toml:"storage"`
	Catalog Catalog `toml:"catalog"`
	Images  Images  `toml:"images"`
	Logging Logging `toml:"logging"`

	location *time.Location
}

// Load reads the config file at path (DefaultPath if empty) on top of the
// defaults, then applies a .env file and KATALOG_* environment variables.
// A missing file is not an error. It returns the resolved path and whether
// the file existed.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath
	}

	exists := true
	file, err := os.Open(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		exists = false
	case err != nil:
		return nil, "", false, fmt.Errorf("open config: %w", err)
	default:
		defer file.Close()
		if err := toml.NewDecoder(file).Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := loadDotEnv(".env"); err != nil {
		return nil, "", false, err
	}
	cfg.applyEnv()

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, path, exists, nil
}

// loadDotEnv loads variables from path without overriding ones already set.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// Location returns the time zone for date filters.
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.Local
	}
	return c.location
}

// Duration converts a timeout in seconds.
func Duration(seconds int) time.Duration {
	return time.Duration(seconds) * time.Second
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
