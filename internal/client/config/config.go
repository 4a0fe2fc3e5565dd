package config

import (
	"time"

	"github.com/citycarcenters/fleetconsole/internal/common"
)

// Config holds runtime settings for the fleet console.
type Config struct {
	// ServerBaseURL is the base URL of the admin API; request paths are
	// appended to it verbatim.
	ServerBaseURL string
	// EventsURL is the push event stream endpoint.
	EventsURL string
	// RequestTimeout bounds every single API call. The event stream is
	// exempt; it stays open indefinitely.
	RequestTimeout time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = common.DefaultBaseURL
	c.EventsURL = common.DefaultEventsURL
	c.RequestTimeout = 15 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
