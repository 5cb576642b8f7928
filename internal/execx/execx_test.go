package execx

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/fabric-tools/fabric-mcp-server/internal/protocol"
)

func run(t *testing.T, spec Spec) (Outcome, error) {
	t.Helper()
	return Exec{}.Run(context.Background(), spec)
}

func kindOf(t *testing.T, err error) string {
	t.Helper()
	var env *protocol.Envelope
	if !errors.As(err, &env) {
		t.Fatalf("expected envelope error, got %T: %v", err, err)
	}
	return env.Kind
}

func TestRun_CapturesStdout(t *testing.T) {
	outcome, err := run(t, Spec{Path: "sh", Args: []string{"-c", "echo hello"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(outcome.Stdout) != "hello" {
		t.Fatalf("unexpected stdout: %q", outcome.Stdout)
	}
}

func TestRun_PipesStdin(t *testing.T) {
	outcome, err := run(t, Spec{Path: "cat", Stdin: "piped input"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Stdout != "piped input" {
		t.Fatalf("stdin was not piped, got %q", outcome.Stdout)
	}
}

func TestRun_StderrOnSuccessIsNotAnError(t *testing.T) {
	outcome, err := run(t, Spec{Path: "sh", Args: []string{"-c", "echo diag >&2; echo out"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(outcome.Stdout) != "out" {
		t.Fatalf("unexpected stdout: %q", outcome.Stdout)
	}
	if strings.TrimSpace(outcome.Stderr) != "diag" {
		t.Fatalf("unexpected stderr: %q", outcome.Stderr)
	}
}

func TestRun_NonZeroExit(t *testing.T) {
	_, err := run(t, Spec{Path: "sh", Args: []string{"-c", "echo broken >&2; exit 3"}})
	if kindOf(t, err) != protocol.KindExecution {
		t.Fatalf("expected execution failure, got %v", err)
	}
	if !strings.Contains(err.Error(), "exit code 3") {
		t.Fatalf("message should carry the exit code: %q", err.Error())
	}
	if !strings.Contains(err.Error(), "broken") {
		t.Fatalf("message should carry stderr: %q", err.Error())
	}
}

func TestRun_MissingBinary(t *testing.T) {
	_, err := run(t, Spec{Path: "definitely-not-a-real-binary-xyz"})
	if kindOf(t, err) != protocol.KindExecution {
		t.Fatalf("expected execution failure, got %v", err)
	}
	if !strings.Contains(err.Error(), "failed to start") {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestRun_Timeout(t *testing.T) {
	start := time.Now()
	_, err := run(t, Spec{Path: "sleep", Args: []string{"5"}, Timeout: 100 * time.Millisecond})
	elapsed := time.Since(start)

	if kindOf(t, err) != protocol.KindTimeout {
		t.Fatalf("expected timeout failure, got %v", err)
	}
	if !strings.Contains(err.Error(), "timed out after 100ms") {
		t.Fatalf("unexpected message: %q", err.Error())
	}
	if elapsed > 100*time.Millisecond+SafetyGrace+time.Second {
		t.Fatalf("call did not resolve within the timeout bound: %v", elapsed)
	}
}

func TestRun_SafetyTimerKillsSignalIgnoringChild(t *testing.T) {
	start := time.Now()
	_, err := run(t, Spec{
		Path:    "sh",
		Args:    []string{"-c", `trap "" TERM; sleep 5`},
		Timeout: 100 * time.Millisecond,
	})
	elapsed := time.Since(start)

	if kindOf(t, err) != protocol.KindTimeout {
		t.Fatalf("expected timeout failure, got %v", err)
	}
	if elapsed > 100*time.Millisecond+SafetyGrace+2*time.Second {
		t.Fatalf("safety timer did not resolve the call: %v", elapsed)
	}
}

func TestRun_BufferOverflow(t *testing.T) {
	_, err := run(t, Spec{
		Path:      "sh",
		Args:      []string{"-c", "head -c 65536 /dev/zero"},
		Timeout:   5 * time.Second,
		MaxBuffer: 1024,
	})
	if kindOf(t, err) != protocol.KindBufferOverflow {
		t.Fatalf("expected overflow failure, got %v", err)
	}
	if !strings.Contains(err.Error(), "1024") {
		t.Fatalf("message should carry the cap: %q", err.Error())
	}
}

func TestRun_CombinedCapSpansBothStreams(t *testing.T) {
	_, err := run(t, Spec{
		Path:      "sh",
		Args:      []string{"-c", "head -c 600 /dev/zero; head -c 600 /dev/zero >&2"},
		Timeout:   5 * time.Second,
		MaxBuffer: 1024,
	})
	if kindOf(t, err) != protocol.KindBufferOverflow {
		t.Fatalf("expected overflow across combined streams, got %v", err)
	}
}
