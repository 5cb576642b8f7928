package settings

import (
	"time"

	"github.com/fabric-tools/fabric-mcp-server/internal/timeutil"
)

// Config is the top-level YAML settings file.
type Config struct {
	// Server describes the MCP server settings.
	Server ServerConfig `yaml:"server"`
	// Fabric describes the external fabric CLI integration.
	Fabric FabricConfig `yaml:"fabric"`
	// Admission bounds concurrent external executions.
	Admission AdmissionConfig `yaml:"admission"`
}

// ServerConfig defines MCP server settings.
type ServerConfig struct {
	// Name is the MCP server name.
	Name string `yaml:"name"`
	// Version is the MCP server version.
	Version string `yaml:"version"`
	// Transport selects the server transport ("stdio" or "http").
	Transport string `yaml:"transport"`
	// ShutdownTimeout overrides graceful shutdown duration.
	ShutdownTimeout string `yaml:"shutdown_timeout"`
	// HTTP configures the HTTP transport.
	HTTP HTTPConfig `yaml:"http"`
}

// HTTPConfig configures the HTTP transport.
type HTTPConfig struct {
	// Listen is the HTTP listen address.
	Listen string `yaml:"listen"`
	// Path is the MCP HTTP endpoint path.
	Path string `yaml:"path"`
	// ReadTimeout limits request read time.
	ReadTimeout string `yaml:"read_timeout"`
	// WriteTimeout limits response write time.
	WriteTimeout string `yaml:"write_timeout"`
	// IdleTimeout controls idle connections.
	IdleTimeout string `yaml:"idle_timeout"`
	// Stateless disables session tracking.
	Stateless bool `yaml:"stateless"`
}

// FabricConfig describes how the external fabric CLI is invoked.
type FabricConfig struct {
	// Binary is the fabric executable name or path.
	Binary string `yaml:"binary"`
	// PatternsDirs lists candidate pattern directories, probed in order.
	PatternsDirs []string `yaml:"patterns_dirs"`
	// MaxOutputBytes caps combined stdout/stderr capture per execution.
	MaxOutputBytes int64 `yaml:"max_output_bytes"`
	// Timeouts overrides per-operation execution timeouts.
	Timeouts TimeoutConfig `yaml:"timeouts"`
}

// TimeoutConfig holds per-operation timeout overrides as durations.
type TimeoutConfig struct {
	// Execute bounds pattern execution.
	Execute string `yaml:"execute"`
	// URL bounds single-page URL processing.
	URL string `yaml:"url"`
	// YouTube bounds video transcript extraction.
	YouTube string `yaml:"youtube"`
	// Update bounds pattern catalog updates.
	Update string `yaml:"update"`
	// List bounds catalog and model listings.
	List string `yaml:"list"`
}

// Default timeout budgets. Network and video operations are inherently
// slower; metadata lookups must fail fast so the bridge stays responsive
// even when the external tool is broken.
const (
	DefaultExecuteTimeout = 60 * time.Second
	DefaultURLTimeout     = 120 * time.Second
	DefaultYouTubeTimeout = 180 * time.Second
	DefaultUpdateTimeout = 60 * time.Second
	DefaultListTimeout   = 10 * time.Second
)

// ExecuteTimeout returns the pattern execution timeout.
func (t TimeoutConfig) ExecuteTimeout() time.Duration {
	return timeutil.ParseDurationOrDefault(t.Execute, DefaultExecuteTimeout)
}

// URLTimeout returns the URL processing timeout.
func (t TimeoutConfig) URLTimeout() time.Duration {
	return timeutil.ParseDurationOrDefault(t.URL, DefaultURLTimeout)
}

// YouTubeTimeout returns the transcript extraction timeout.
func (t TimeoutConfig) YouTubeTimeout() time.Duration {
	return timeutil.ParseDurationOrDefault(t.YouTube, DefaultYouTubeTimeout)
}

// UpdateTimeout returns the catalog update timeout.
func (t TimeoutConfig) UpdateTimeout() time.Duration {
	return timeutil.ParseDurationOrDefault(t.Update, DefaultUpdateTimeout)
}

// ListTimeout returns the listing timeout.
func (t TimeoutConfig) ListTimeout() time.Duration {
	return timeutil.ParseDurationOrDefault(t.List, DefaultListTimeout)
}

// AdmissionConfig bounds concurrent external process spawns.
type AdmissionConfig struct {
	// MaxConcurrent limits simultaneously running external processes.
	// Zero disables the limit.
	MaxConcurrent int `yaml:"max_concurrent"`
	// RatePerMinute limits external process spawns per minute.
	// Zero disables the limit.
	RatePerMinute int `yaml:"rate_per_minute"`
	// WaitBudget bounds how long a call may queue for admission before
	// it is refused. Empty uses the built-in budget.
	WaitBudget string `yaml:"wait_budget"`
}
