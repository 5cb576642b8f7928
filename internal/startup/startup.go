package startup

import (
	"context"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/fabric-tools/fabric-mcp-server/internal/execx"
)

const probeTimeout = 5 * time.Second

// Readiness is the immutable result of the one-time install probe. It
// is consulted, never re-derived, for the rest of the process lifetime.
type Readiness struct {
	// Installed reports whether the fabric binary was found.
	Installed bool
	// Path is the resolved executable path.
	Path string
	// Version is the reported CLI version, when available.
	Version string
}

// Probe checks once at process start whether the external fabric CLI is
// reachable. Absence is not fatal: the bridge runs degraded, with
// filesystem-based listing still working and execution operations
// failing per call.
func Probe(ctx context.Context, binary string, runner execx.Runner, logger *slog.Logger) Readiness {
	path, err := exec.LookPath(binary)
	if err != nil {
		if logger != nil {
			logger.Warn("fabric binary not found, running degraded", "binary", binary, "error", err)
		}
		return Readiness{}
	}

	ready := Readiness{Installed: true, Path: path}
	outcome, err := runner.Run(ctx, execx.Spec{
		Path:    binary,
		Args:    []string{"--version"},
		Timeout: probeTimeout,
	})
	if err == nil {
		ready.Version = strings.TrimSpace(outcome.Stdout)
	}
	if logger != nil {
		logger.Info("fabric binary detected", "path", path, "version", ready.Version)
	}
	return ready
}
