package config

import (
	"os"
	"strings"
)

// applyEnv overrides settings from KATALOG_* environment variables.
func (c *Config) applyEnv() {
	overrides := []struct {
		key string
		dst *string
	}{
		{"KATALOG_ADDR", &c.Server.Addr},
		{"KATALOG_STORAGE", &c.Storage.Backend},
		{"KATALOG_SQLITE_PATH", &c.Storage.SQLitePath},
		{"KATALOG_MONGO_URI", &c.Storage.MongoURI},
		{"KATALOG_MONGO_DATABASE", &c.Storage.MongoDatabase},
		{"KATALOG_LOG_LEVEL", &c.Logging.Level},
	}
	for _, o := range overrides {
		if v, ok := os.LookupEnv(o.key); ok && strings.TrimSpace(v) != "" {
			*o.dst = strings.TrimSpace(v)
		}
	}
}
