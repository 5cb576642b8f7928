package execx

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os/exec"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/fabric-tools/fabric-mcp-server/internal/protocol"
)

// DefaultMaxBuffer caps combined stdout/stderr capture when a spec does
// not set its own limit.
const DefaultMaxBuffer = 10 * 1024 * 1024

// SafetyGrace is how long after the primary timeout the independent
// safety timer waits before force-killing a child that ignored or
// outlived the first termination signal.
const SafetyGrace = time.Second

// Spec describes one supervised external command invocation. The
// command is always spawned with a discrete argument vector, never
// through a shell, so caller-supplied text cannot inject shell syntax.
type Spec struct {
	// Path is the executable name or path.
	Path string
	// Args is the argument vector.
	Args []string
	// Stdin is piped to the child's standard input when non-empty.
	Stdin string
	// Timeout bounds the execution. Zero means no timeout.
	Timeout time.Duration
	// MaxBuffer caps combined stdout/stderr capture in bytes.
	MaxBuffer int64
}

// Outcome holds the captured output of a successful execution.
type Outcome struct {
	// Stdout is the captured standard output.
	Stdout string
	// Stderr is the captured standard error.
	Stderr string
}

// Runner executes external commands.
type Runner interface {
	// Run executes the spec and returns its outcome.
	Run(ctx context.Context, spec Spec) (Outcome, error)
}

// Exec runs specs as real OS processes.
type Exec struct {
	// Logger is used for structured logging.
	Logger *slog.Logger
}

// Run spawns the external process and supervises it until it exits,
// errors, or is killed by one of the two timeout mechanisms. Exactly
// one mechanism decides a timed-out call; both are disarmed once the
// call settles.
func (e Exec) Run(ctx context.Context, spec Spec) (Outcome, error) {
	limit := spec.MaxBuffer
	if limit <= 0 {
		limit = DefaultMaxBuffer
	}

	runCtx := ctx
	if spec.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, spec.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, spec.Path, spec.Args...)
	if spec.Stdin != "" {
		cmd.Stdin = strings.NewReader(spec.Stdin)
	}

	capt := &capture{limit: limit}
	cmd.Stdout = capt.stream(&capt.stdout)
	cmd.Stderr = capt.stream(&capt.stderr)

	// The primary mechanism terminates gracefully so well-behaved tools
	// can flush; the safety timer escalates to SIGKILL.
	cmd.Cancel = func() error {
		return cmd.Process.Signal(syscall.SIGTERM)
	}
	// Keeps Wait from blocking on pipes held open by grandchildren after
	// a kill.
	cmd.WaitDelay = SafetyGrace

	if err := cmd.Start(); err != nil {
		return Outcome{}, protocol.Executionf("failed to start %s: %v", spec.Path, err)
	}
	capt.setKill(func() { _ = cmd.Process.Kill() })

	var safety *time.Timer
	if spec.Timeout > 0 {
		safety = time.AfterFunc(spec.Timeout+SafetyGrace, func() {
			if e.Logger != nil {
				e.Logger.Warn("safety timer fired", "path", spec.Path)
			}
			_ = cmd.Process.Kill()
		})
	}

	waitErr := cmd.Wait()
	if safety != nil {
		safety.Stop()
	}

	if capt.overflowed() {
		return Outcome{}, protocol.Overflowf("command output exceeded %d bytes", limit)
	}
	if spec.Timeout > 0 && errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		return Outcome{}, protocol.Timeoutf("Command timed out after %dms", spec.Timeout.Milliseconds())
	}
	if waitErr != nil {
		msg := strings.TrimSpace(capt.stderr.String())
		if msg == "" {
			msg = waitErr.Error()
		}
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			return Outcome{}, protocol.Executionf("command failed with exit code %d: %s", exitErr.ExitCode(), msg)
		}
		return Outcome{}, protocol.Executionf("command failed: %s", msg)
	}

	return Outcome{Stdout: capt.stdout.String(), Stderr: capt.stderr.String()}, nil
}

var errCaptureOverflow = errors.New("capture limit exceeded")

// capture accumulates child output under a combined byte limit. Both
// stream writers share one lock because os/exec copies stdout and
// stderr from separate goroutines.
type capture struct {
	mu       sync.Mutex
	limit    int64
	size     int64
	overflow bool
	kill     func()
	stdout   bytes.Buffer
	stderr   bytes.Buffer
}

func (c *capture) stream(buf *bytes.Buffer) *streamWriter {
	return &streamWriter{capture: c, buf: buf}
}

func (c *capture) setKill(kill func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.kill = kill
}

func (c *capture) overflowed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.overflow
}

type streamWriter struct {
	capture *capture
	buf     *bytes.Buffer
}

func (w *streamWriter) Write(p []byte) (int, error) {
	c := w.capture
	c.mu.Lock()
	if c.overflow {
		c.mu.Unlock()
		return 0, errCaptureOverflow
	}
	if c.size+int64(len(p)) > c.limit {
		c.overflow = true
		kill := c.kill
		c.mu.Unlock()
		// Stop the child instead of letting it block on a full pipe
		// until the timeout fires.
		if kill != nil {
			kill()
		}
		return 0, errCaptureOverflow
	}
	c.size += int64(len(p))
	n, err := w.buf.Write(p)
	c.mu.Unlock()
	return n, err
}
