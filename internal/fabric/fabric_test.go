package fabric

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/fabric-tools/fabric-mcp-server/internal/execx"
	"github.com/fabric-tools/fabric-mcp-server/internal/protocol"
	"github.com/fabric-tools/fabric-mcp-server/internal/settings"
)

type fakeRunner struct {
	specs   []execx.Spec
	outcome execx.Outcome
	err     error
}

func (f *fakeRunner) Run(_ context.Context, spec execx.Spec) (execx.Outcome, error) {
	f.specs = append(f.specs, spec)
	return f.outcome, f.err
}

func newClient(runner *fakeRunner) *Client {
	return New(settings.FabricConfig{Binary: "fabric", MaxOutputBytes: 4096}, runner, nil)
}

func TestExecutePattern_BuildsArgumentVector(t *testing.T) {
	runner := &fakeRunner{outcome: execx.Outcome{Stdout: "result\n"}}
	c := newClient(runner)

	out, err := c.ExecutePattern(context.Background(), "summarize", "gpt-4o", "some text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "result" {
		t.Fatalf("unexpected output: %q", out)
	}

	spec := runner.specs[0]
	want := []string{"--pattern", "summarize", "--model", "gpt-4o"}
	if !reflect.DeepEqual(spec.Args, want) {
		t.Fatalf("args = %v, want %v", spec.Args, want)
	}
	if spec.Stdin != "some text" {
		t.Fatalf("input must be piped via stdin, got %q", spec.Stdin)
	}
	if spec.Timeout != settings.DefaultExecuteTimeout {
		t.Fatalf("timeout = %v, want %v", spec.Timeout, settings.DefaultExecuteTimeout)
	}
	if spec.MaxBuffer != 4096 {
		t.Fatalf("max buffer = %d", spec.MaxBuffer)
	}
}

func TestExecutePattern_OmitsModelWhenBlank(t *testing.T) {
	runner := &fakeRunner{}
	c := newClient(runner)

	if _, err := c.ExecutePattern(context.Background(), "summarize", "  ", "text"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"--pattern", "summarize"}
	if !reflect.DeepEqual(runner.specs[0].Args, want) {
		t.Fatalf("args = %v, want %v", runner.specs[0].Args, want)
	}
}

func TestProcessURLAndYouTubeModes(t *testing.T) {
	runner := &fakeRunner{}
	c := newClient(runner)

	if _, err := c.ProcessURL(context.Background(), "https://example.com", "summarize", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := c.ProcessYouTube(context.Background(), "https://youtu.be/x", "summarize", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got, want := runner.specs[0].Args, []string{"-u", "https://example.com", "--pattern", "summarize"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("url args = %v, want %v", got, want)
	}
	if got, want := runner.specs[1].Args, []string{"-y", "https://youtu.be/x", "--pattern", "summarize"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("youtube args = %v, want %v", got, want)
	}
	if runner.specs[0].Timeout != settings.DefaultURLTimeout {
		t.Fatalf("url timeout = %v", runner.specs[0].Timeout)
	}
	if runner.specs[1].Timeout != settings.DefaultYouTubeTimeout {
		t.Fatalf("youtube timeout = %v", runner.specs[1].Timeout)
	}
}

func TestListPatterns_ParsesLines(t *testing.T) {
	runner := &fakeRunner{outcome: execx.Outcome{Stdout: "alpha\n\n  beta  \ngamma\n"}}
	c := newClient(runner)

	names, err := c.ListPatterns(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"alpha", "beta", "gamma"}
	if !reflect.DeepEqual(names, want) {
		t.Fatalf("names = %v, want %v", names, want)
	}
	if runner.specs[0].Timeout != settings.DefaultListTimeout {
		t.Fatalf("list timeout = %v", runner.specs[0].Timeout)
	}
}

func TestUpdate_UsesUpdateBudget(t *testing.T) {
	runner := &fakeRunner{outcome: execx.Outcome{Stdout: "updated"}}
	c := newClient(runner)

	if _, err := c.Update(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, want := runner.specs[0].Args, []string{"--update"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("args = %v, want %v", got, want)
	}
	if runner.specs[0].Timeout != settings.DefaultUpdateTimeout {
		t.Fatalf("update timeout = %v", runner.specs[0].Timeout)
	}
}

func TestRunPropagatesEnvelope(t *testing.T) {
	runner := &fakeRunner{err: protocol.Timeoutf("Command timed out after 60000ms")}
	c := newClient(runner)

	_, err := c.ExecutePattern(context.Background(), "summarize", "", "text")
	env := protocol.Classify(err)
	if env.Kind != protocol.KindTimeout {
		t.Fatalf("expected timeout envelope, got %v", err)
	}
}

func TestTimeoutOverrides(t *testing.T) {
	cfg := settings.FabricConfig{
		Binary:   "fabric",
		Timeouts: settings.TimeoutConfig{Execute: "90s"},
	}
	runner := &fakeRunner{}
	c := New(cfg, runner, nil)

	if _, err := c.ExecutePattern(context.Background(), "p", "", "x"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if runner.specs[0].Timeout != 90*time.Second {
		t.Fatalf("override ignored: %v", runner.specs[0].Timeout)
	}
}
