package settings

import (
	"fmt"
	"strings"
	"time"

	"github.com/fabric-tools/fabric-mcp-server/internal/constants"
)

// Defaults applied by Validate.
const (
	defaultBinary         = "fabric"
	defaultMaxOutputBytes = 10 * 1024 * 1024
)

// defaultPatternsDirs are the candidate pattern locations, probed in
// order: the system-shared path first, then per-user configuration.
var defaultPatternsDirs = []string{
	"/usr/local/share/fabric/patterns",
	"~/.config/fabric/patterns",
}

// Validate applies defaults and verifies required fields.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("settings are nil")
	}
	if cfg.Server.Name == "" {
		return fmt.Errorf("server.name is required")
	}
	if cfg.Server.Version == "" {
		return fmt.Errorf("server.version is required")
	}
	if cfg.Server.Transport == "" {
		cfg.Server.Transport = constants.TransportStdio
	}
	switch cfg.Server.Transport {
	case constants.TransportStdio, constants.TransportHTTP:
	default:
		return fmt.Errorf("server.transport must be stdio or http")
	}
	if cfg.Server.Transport == constants.TransportHTTP {
		if strings.TrimSpace(cfg.Server.HTTP.Listen) == "" {
			cfg.Server.HTTP.Listen = ":8080"
		}
		if cfg.Server.HTTP.Path == "" {
			cfg.Server.HTTP.Path = "/mcp"
		}
	}

	if strings.TrimSpace(cfg.Fabric.Binary) == "" {
		cfg.Fabric.Binary = defaultBinary
	}
	if len(cfg.Fabric.PatternsDirs) == 0 {
		cfg.Fabric.PatternsDirs = append([]string(nil), defaultPatternsDirs...)
	}
	if cfg.Fabric.MaxOutputBytes == 0 {
		cfg.Fabric.MaxOutputBytes = defaultMaxOutputBytes
	}
	if cfg.Fabric.MaxOutputBytes < 0 {
		return fmt.Errorf("fabric.max_output_bytes must be >= 0")
	}

	for field, value := range map[string]string{
		"fabric.timeouts.execute": cfg.Fabric.Timeouts.Execute,
		"fabric.timeouts.url":     cfg.Fabric.Timeouts.URL,
		"fabric.timeouts.youtube": cfg.Fabric.Timeouts.YouTube,
		"fabric.timeouts.update":  cfg.Fabric.Timeouts.Update,
		"fabric.timeouts.list":    cfg.Fabric.Timeouts.List,
		"admission.wait_budget":   cfg.Admission.WaitBudget,
	} {
		if strings.TrimSpace(value) == "" {
			continue
		}
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("%s is invalid: %w", field, err)
		}
	}

	if cfg.Admission.MaxConcurrent < 0 {
		return fmt.Errorf("admission.max_concurrent must be >= 0")
	}
	if cfg.Admission.RatePerMinute < 0 {
		return fmt.Errorf("admission.rate_per_minute must be >= 0")
	}
	return nil
}
