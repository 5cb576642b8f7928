package runtime

import (
	"context"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/fabric-tools/fabric-mcp-server/internal/admission"
	"github.com/fabric-tools/fabric-mcp-server/internal/audit"
	"github.com/fabric-tools/fabric-mcp-server/internal/fabric"
	"github.com/fabric-tools/fabric-mcp-server/internal/patterns"
	"github.com/fabric-tools/fabric-mcp-server/internal/settings"
	"github.com/fabric-tools/fabric-mcp-server/internal/startup"
)

// Builder constructs the MCP server from the bridge components.
type Builder struct {
	// Logger is used for structured logging.
	Logger *slog.Logger
	// Audit records tool events.
	Audit audit.Logger
	// Fabric invokes the external CLI.
	Fabric *fabric.Client
	// Resolver lists available patterns.
	Resolver *patterns.Resolver
	// Gate bounds concurrent external executions.
	Gate *admission.Gate
	// Ready is the one-time install probe result.
	Ready startup.Readiness
}

// Build creates an MCP server exposing the fixed tool set.
func (b Builder) Build(cfg *settings.Config) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    cfg.Server.Name,
		Version: cfg.Server.Version,
	}, nil)

	if b.Logger != nil && !b.Ready.Installed {
		b.Logger.Warn("fabric binary unavailable, execution tools will fail per call",
			"binary", cfg.Fabric.Binary)
	}

	dispatcher := b.NewDispatcher()
	for name := range dispatcher.ops {
		tool := dispatcher.ops[name].tool
		toolName := name
		mcp.AddTool(server, tool, func(ctx context.Context, _ *mcp.CallToolRequest, args map[string]any) (*mcp.CallToolResult, any, error) {
			result := dispatcher.Dispatch(ctx, toolName, args)
			return &mcp.CallToolResult{
				Content: []mcp.Content{&mcp.TextContent{Text: result.Text}},
				IsError: result.IsError,
			}, nil, nil
		})
	}

	return server
}
