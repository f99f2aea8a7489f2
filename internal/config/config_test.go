package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"github.com/erazemk/katalog/internal/config"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, path, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Fatal("expected config file to be absent")
	}
	if path != config.DefaultPath {
		t.Errorf("path = %q", path)
	}
	def := config.Default()
	if cfg.Server.Addr != def.Server.Addr || cfg.Storage.Backend != config.BackendSQLite {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.Location().String() != "Local" {
		t.Errorf("location = %v", cfg.Location())
	}
}

func TestLoadFileAndNormalize(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "custom.toml")
	writeFile(t, path, `
[server]
addr = "127.0.0.1:9000"
base_path = "v1/"
cors_origins = [" http://localhost:3000/ ", ""]

[storage]
backend = "MONGO"
mongo_database = "media"

[catalog]
timezone = "Europe/Ljubljana"

[logging]
level = "DEBUG"
format = "json"
`)

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists {
		t.Fatal("expected file to exist")
	}
	if cfg.Server.Addr != "127.0.0.1:9000" || cfg.Server.BasePath != "/v1" {
		t.Errorf("server = %+v", cfg.Server)
	}
	if len(cfg.Server.CORSOrigins) != 1 || cfg.Server.CORSOrigins[0] != "http://localhost:3000" {
		t.Errorf("cors origins = %q", cfg.Server.CORSOrigins)
	}
	if cfg.Storage.Backend != config.BackendMongo || cfg.Storage.MongoDatabase != "media" {
		t.Errorf("storage = %+v", cfg.Storage)
	}
	if cfg.Storage.MongoURI != config.Default().Storage.MongoURI {
		t.Errorf("mongo uri default lost: %q", cfg.Storage.MongoURI)
	}
	if cfg.Location().String() != "Europe/Ljubljana" {
		t.Errorf("location = %v", cfg.Location())
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("level = %q", cfg.Logging.Level)
	}
}

func TestEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, filepath.Join(dir, config.DefaultPath), "[server]\naddr = \":7000\"\n")
	writeFile(t, filepath.Join(dir, ".env"), "KATALOG_SQLITE_PATH=from-dotenv.db\nKATALOG_LOG_LEVEL=error\n")

	t.Setenv("KATALOG_ADDR", ":9999")
	t.Setenv("KATALOG_LOG_LEVEL", "warn")
	// godotenv sets variables for the process; make sure they are restored.
	t.Setenv("KATALOG_SQLITE_PATH", "")
	os.Unsetenv("KATALOG_SQLITE_PATH")

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":9999" {
		t.Errorf("addr = %q, want env override", cfg.Server.Addr)
	}
	if cfg.Storage.SQLitePath != "from-dotenv.db" {
		t.Errorf("sqlite path = %q, want .env value", cfg.Storage.SQLitePath)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("level = %q, .env must not override the environment", cfg.Logging.Level)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"backend", func(c *config.Config) { c.Storage.Backend = "redis" }, "storage.backend"},
		{"sqlite path", func(c *config.Config) { c.Storage.SQLitePath = "" }, "storage.sqlite_path"},
		{"mongo uri", func(c *config.Config) { c.Storage.Backend = config.BackendMongo; c.Storage.MongoURI = "" }, "storage.mongo_uri"},
		{"quality", func(c *config.Config) { c.Images.JPEGQuality = 101 }, "images.jpeg_quality"},
		{"level", func(c *config.Config) { c.Logging.Level = "verbose" }, "logging.level"},
		{"format", func(c *config.Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"timeout", func(c *config.Config) { c.Server.WriteTimeout = -1 }, "server.write_timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error mentioning %q, got %v", tt.want, err)
			}
		})
	}
}

func TestLoadRejectsBadTimezone(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "tz.toml")
	writeFile(t, path, "[catalog]\ntimezone = \"Mars/Olympus\"\n")

	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected error for unknown timezone")
	}
}

func TestCreateSampleIsLoadable(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "nested", "katalog.toml")

	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	var decoded config.Config
	if err := toml.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("sample is not valid TOML: %v", err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil || !exists {
		t.Fatalf("Load sample: exists=%v err=%v", exists, err)
	}
	if cfg.Images.MaxUploadBytes != config.Default().Images.MaxUploadBytes {
		t.Errorf("max upload bytes = %d", cfg.Images.MaxUploadBytes)
	}
}
