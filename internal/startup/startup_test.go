package startup

import (
	"context"
	"testing"

	"github.com/fabric-tools/fabric-mcp-server/internal/execx"
)

func TestProbe_MissingBinary(t *testing.T) {
	ready := Probe(context.Background(), "definitely-not-a-real-binary-xyz", execx.Exec{}, nil)
	if ready.Installed {
		t.Fatal("expected degraded readiness")
	}
	if ready.Path != "" || ready.Version != "" {
		t.Fatalf("unexpected probe data: %+v", ready)
	}
}

func TestProbe_PresentBinary(t *testing.T) {
	// echo accepts any flag and exits 0, standing in for the real CLI.
	ready := Probe(context.Background(), "echo", execx.Exec{}, nil)
	if !ready.Installed {
		t.Fatal("expected installed readiness")
	}
	if ready.Path == "" {
		t.Fatal("expected resolved path")
	}
}
