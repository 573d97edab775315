package config

import "time"

// Config holds runtime settings for the Sach Wave CLI.
//
// Fields:
//   - ServerEndpointAddr: host:port of the backend gRPC endpoint.
//   - ConnectTimeout: how long session bootstrap waits in the connecting
//     phase before declaring the backend unreachable.
//   - StatePath: path of the local SQLite file holding device-scoped state
//     (onboarding progress, access gate).
//   - UpdateCheckInterval: how often the client polls the backend for a
//     newer published client version.
//
// Units: ConnectTimeout and UpdateCheckInterval are time.Durations.
type Config struct {
	ServerEndpointAddr  string
	ConnectTimeout      time.Duration
	StatePath           string
	UpdateCheckInterval time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.ConnectTimeout = 15 * time.Second
	c.StatePath = "sachwave.db"
	c.UpdateCheckInterval = 60 * time.Second
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
