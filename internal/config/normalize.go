package config

import (
	"fmt"
	"strings"
	"time"
)

func (c *Config) normalize() error {
	c.normalizeServer()
	c.Storage.Backend = strings.ToLower(strings.TrimSpace(c.Storage.Backend))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))

	if tz := strings.TrimSpace(c.Catalog.Timezone); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return fmt.Errorf("catalog.timezone: %w", err)
		}
		c.location = loc
	}
	return nil
}

// normalizeServer turns base_path into "" or "/segment" without a trailing slash.
func (c *Config) normalizeServer() {
	p := strings.Trim(strings.TrimSpace(c.Server.BasePath), "/")
	if p == "" {
		c.Server.BasePath = ""
	} else {
		c.Server.BasePath = "/" + p
	}

	origins := c.Server.CORSOrigins[:0]
	for _, o := range c.Server.CORSOrigins {
		if o = strings.TrimRight(strings.TrimSpace(o), "/"); o != "" {
			origins = append(origins, o)
		}
	}
	c.Server.CORSOrigins = origins
}
