package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// Config stores environment-driven settings for the bridge.
type Config struct {
	// SettingsPath is the path to the YAML settings file. When empty the
	// embedded default settings are used.
	SettingsPath string `env:"FABRIC_MCP_CONFIG"`
	// LogLevel sets the logger level.
	LogLevel string `env:"FABRIC_MCP_LOG_LEVEL" envDefault:"info"`
	// ShutdownTimeout controls graceful shutdown duration in HTTP mode.
	ShutdownTimeout time.Duration `env:"FABRIC_MCP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Load parses environment variables into Config.
func Load() (Config, error) {
	return env.ParseAs[Config]()
}
