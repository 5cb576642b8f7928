package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/fabric-tools/fabric-mcp-server/internal/admission"
	"github.com/fabric-tools/fabric-mcp-server/internal/audit"
	"github.com/fabric-tools/fabric-mcp-server/internal/format"
	"github.com/fabric-tools/fabric-mcp-server/internal/protocol"
	"github.com/fabric-tools/fabric-mcp-server/internal/security"
)

// operation couples one tool declaration with its handler. Handlers
// return the formatted success payload or an error envelope.
type operation struct {
	tool   *mcp.Tool
	handle func(ctx context.Context, args map[string]any) (string, error)
}

// Dispatcher maps the fixed set of tool names to their operations. It
// is the single entry point for tool calls and never lets a fault
// propagate past its boundary.
type Dispatcher struct {
	logger *slog.Logger
	audit  audit.Logger
	ops    map[string]operation
}

// Dispatch runs the named operation and converts every outcome,
// including panics, into the fixed response shape.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, args map[string]any) protocol.Result {
	correlationID := newCorrelationID()

	op, ok := d.ops[name]
	if !ok {
		env := protocol.UnknownToolf("unknown tool: %s", name)
		d.record(ctx, audit.Event{Type: "tool_error", Tool: name, CorrelationID: correlationID, Kind: env.Kind, Reason: env.Message})
		return format.Failure(env)
	}

	if d.logger != nil {
		d.logger.Info("tool call", "tool", name, "correlation_id", correlationID, "args", security.RedactArguments(args))
	}
	d.record(ctx, audit.Event{Type: "tool_call", Tool: name, CorrelationID: correlationID})

	text, err := d.invoke(ctx, op, args)
	if err != nil {
		env := protocol.Classify(err)
		eventType := "tool_error"
		if admission.IsDenied(err) {
			eventType = "admission_denied"
		}
		if d.logger != nil {
			d.logger.Warn("tool call failed", "tool", name, "correlation_id", correlationID, "kind", env.Kind, "error", env.Message)
		}
		d.record(ctx, audit.Event{Type: eventType, Tool: name, CorrelationID: correlationID, Kind: env.Kind, Reason: env.Message})
		return format.Failure(env)
	}

	d.record(ctx, audit.Event{Type: "tool_ok", Tool: name, CorrelationID: correlationID})
	return format.Success(text)
}

func (d *Dispatcher) invoke(ctx context.Context, op operation, args map[string]any) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			if d.logger != nil {
				d.logger.Error("tool handler panicked", "panic", r)
			}
			err = protocol.Executionf("internal error: %v", r)
		}
	}()
	return op.handle(ctx, args)
}

func (d *Dispatcher) record(ctx context.Context, event audit.Event) {
	if d.audit != nil {
		d.audit.Record(ctx, event)
	}
}

func newCorrelationID() string {
	return fmt.Sprintf("corr-%d", time.Now().UTC().UnixNano())
}
