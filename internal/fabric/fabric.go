package fabric

import (
	"context"
	"log/slog"
	"strings"

	"github.com/fabric-tools/fabric-mcp-server/internal/execx"
	"github.com/fabric-tools/fabric-mcp-server/internal/settings"
)

// Client invokes the external fabric CLI. The program is treated as an
// opaque executable on the search path; the bridge never interprets the
// pattern content it produces.
type Client struct {
	// Binary is the fabric executable name or path.
	Binary string
	// Runner executes external commands.
	Runner execx.Runner
	// Timeouts holds per-operation budgets.
	Timeouts settings.TimeoutConfig
	// MaxBuffer caps captured output per execution.
	MaxBuffer int64
	// Logger is used for structured logging.
	Logger *slog.Logger
}

// New returns a Client configured from fabric settings.
func New(cfg settings.FabricConfig, runner execx.Runner, logger *slog.Logger) *Client {
	return &Client{
		Binary:    cfg.Binary,
		Runner:    runner,
		Timeouts:  cfg.Timeouts,
		MaxBuffer: cfg.MaxOutputBytes,
		Logger:    logger,
	}
}

// ExecutePattern pipes input through the named pattern and returns the
// produced text.
func (c *Client) ExecutePattern(ctx context.Context, pattern, model, input string) (string, error) {
	args := []string{"--pattern", pattern}
	args = appendModel(args, model)
	return c.run(ctx, execx.Spec{
		Path:    c.Binary,
		Args:    args,
		Stdin:   input,
		Timeout: c.Timeouts.ExecuteTimeout(),
	})
}

// ProcessURL fetches a single page and processes it with the pattern.
func (c *Client) ProcessURL(ctx context.Context, url, pattern, model string) (string, error) {
	args := []string{"-u", url, "--pattern", pattern}
	args = appendModel(args, model)
	return c.run(ctx, execx.Spec{
		Path:    c.Binary,
		Args:    args,
		Timeout: c.Timeouts.URLTimeout(),
	})
}

// ProcessYouTube extracts a video transcript and processes it with the
// pattern.
func (c *Client) ProcessYouTube(ctx context.Context, url, pattern, model string) (string, error) {
	args := []string{"-y", url, "--pattern", pattern}
	args = appendModel(args, model)
	return c.run(ctx, execx.Spec{
		Path:    c.Binary,
		Args:    args,
		Timeout: c.Timeouts.YouTubeTimeout(),
	})
}

// ListPatterns returns the pattern names reported by the CLI, one per
// line with blanks dropped. Line order and duplicates are preserved as
// the CLI reports them.
func (c *Client) ListPatterns(ctx context.Context) ([]string, error) {
	out, err := c.run(ctx, execx.Spec{
		Path:    c.Binary,
		Args:    []string{"--listpatterns"},
		Timeout: c.Timeouts.ListTimeout(),
	})
	if err != nil {
		return nil, err
	}
	var names []string
	for _, line := range strings.Split(out, "\n") {
		name := strings.TrimSpace(line)
		if name == "" {
			continue
		}
		names = append(names, name)
	}
	return names, nil
}

// ListModels returns the raw model listing.
func (c *Client) ListModels(ctx context.Context) (string, error) {
	return c.run(ctx, execx.Spec{
		Path:    c.Binary,
		Args:    []string{"--listmodels"},
		Timeout: c.Timeouts.ListTimeout(),
	})
}

// Update refreshes the pattern catalog.
func (c *Client) Update(ctx context.Context) (string, error) {
	return c.run(ctx, execx.Spec{
		Path:    c.Binary,
		Args:    []string{"--update"},
		Timeout: c.Timeouts.UpdateTimeout(),
	})
}

func (c *Client) run(ctx context.Context, spec execx.Spec) (string, error) {
	spec.MaxBuffer = c.MaxBuffer
	outcome, err := c.Runner.Run(ctx, spec)
	if err != nil {
		return "", err
	}
	// Informational diagnostics on stderr never fail a zero-exit call.
	if stderr := strings.TrimSpace(outcome.Stderr); stderr != "" && c.Logger != nil {
		c.Logger.Warn("fabric wrote to stderr on success", "stderr", stderr)
	}
	return strings.TrimSpace(outcome.Stdout), nil
}

func appendModel(args []string, model string) []string {
	if strings.TrimSpace(model) == "" {
		return args
	}
	return append(args, "--model", model)
}
