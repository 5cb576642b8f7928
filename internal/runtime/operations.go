package runtime

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/fabric-tools/fabric-mcp-server/internal/constants"
	"github.com/fabric-tools/fabric-mcp-server/internal/format"
	"github.com/fabric-tools/fabric-mcp-server/internal/validate"
)

// NewDispatcher wires the fixed operation set. Validation always runs
// before any external process is spawned; execution operations pass
// through the admission gate.
func (b Builder) NewDispatcher() *Dispatcher {
	ops := map[string]operation{
		constants.ToolExecutePattern: {
			tool: &mcp.Tool{
				Name:        constants.ToolExecutePattern,
				Description: "Run a fabric pattern over the provided input text",
				InputSchema: objectSchema(map[string]any{
					"input_text":   stringProp("Text to process through the pattern"),
					"pattern_name": stringProp("Name of the fabric pattern to run"),
					"model":        stringProp("Optional model override"),
				}),
			},
			handle: b.executePattern,
		},
		constants.ToolListPatterns: {
			tool: &mcp.Tool{
				Name:        constants.ToolListPatterns,
				Description: "List available fabric patterns, optionally filtered by a search term",
				InputSchema: objectSchema(map[string]any{
					"search": stringProp("Optional case-insensitive substring filter"),
				}),
				Annotations: readOnly(),
			},
			handle: b.listPatterns,
		},
		constants.ToolGetPatternDetails: {
			tool: &mcp.Tool{
				Name:        constants.ToolGetPatternDetails,
				Description: "Show the system prompt of a fabric pattern",
				InputSchema: objectSchema(map[string]any{
					"pattern_name": stringProp("Name of the fabric pattern"),
				}),
				Annotations: readOnly(),
			},
			handle: b.getPatternDetails,
		},
		constants.ToolProcessURL: {
			tool: &mcp.Tool{
				Name:        constants.ToolProcessURL,
				Description: "Fetch a web page and process it with a fabric pattern",
				InputSchema: objectSchema(map[string]any{
					"url":          stringProp("URL of the page to fetch"),
					"pattern_name": stringProp("Name of the fabric pattern to run"),
					"model":        stringProp("Optional model override"),
				}),
			},
			handle: b.processURL,
		},
		constants.ToolProcessYouTube: {
			tool: &mcp.Tool{
				Name:        constants.ToolProcessYouTube,
				Description: "Extract a YouTube transcript and process it with a fabric pattern",
				InputSchema: objectSchema(map[string]any{
					"youtube_url":  stringProp("URL of the YouTube video"),
					"pattern_name": stringProp("Name of the fabric pattern to run"),
					"model":        stringProp("Optional model override"),
				}),
			},
			handle: b.processYouTube,
		},
		constants.ToolUpdatePatterns: {
			tool: &mcp.Tool{
				Name:        constants.ToolUpdatePatterns,
				Description: "Update the local fabric pattern catalog",
				InputSchema: objectSchema(nil),
			},
			handle: b.updatePatterns,
		},
		constants.ToolListModels: {
			tool: &mcp.Tool{
				Name:        constants.ToolListModels,
				Description: "List the models available to fabric",
				InputSchema: objectSchema(nil),
				Annotations: readOnly(),
			},
			handle: b.listModels,
		},
	}

	return &Dispatcher{logger: b.Logger, audit: b.Audit, ops: ops}
}

func (b Builder) executePattern(ctx context.Context, args map[string]any) (string, error) {
	input, err := validate.Require(args, "input_text")
	if err != nil {
		return "", err
	}
	pattern, err := validate.Require(args, "pattern_name")
	if err != nil {
		return "", err
	}
	model := validate.Optional(args, "model")

	release, err := b.Gate.Acquire(ctx)
	if err != nil {
		return "", err
	}
	defer release()

	output, err := b.Fabric.ExecutePattern(ctx, pattern, model, input)
	if err != nil {
		return "", err
	}
	return format.PatternResult(pattern, output), nil
}

func (b Builder) listPatterns(ctx context.Context, args map[string]any) (string, error) {
	search := validate.Optional(args, "search")
	catalog := b.Resolver.List(ctx, search)
	return format.PatternCatalog(catalog, search), nil
}

func (b Builder) getPatternDetails(_ context.Context, args map[string]any) (string, error) {
	pattern, err := validate.Require(args, "pattern_name")
	if err != nil {
		return "", err
	}
	body, err := b.Resolver.Details(pattern)
	if err != nil {
		return "", err
	}
	return format.PatternDetail(pattern, body), nil
}

func (b Builder) processURL(ctx context.Context, args map[string]any) (string, error) {
	url, err := validate.Require(args, "url")
	if err != nil {
		return "", err
	}
	pattern, err := validate.Require(args, "pattern_name")
	if err != nil {
		return "", err
	}
	model := validate.Optional(args, "model")

	release, err := b.Gate.Acquire(ctx)
	if err != nil {
		return "", err
	}
	defer release()

	output, err := b.Fabric.ProcessURL(ctx, url, pattern, model)
	if err != nil {
		return "", err
	}
	return format.URLResult(pattern, output), nil
}

func (b Builder) processYouTube(ctx context.Context, args map[string]any) (string, error) {
	url, err := validate.Require(args, "youtube_url")
	if err != nil {
		return "", err
	}
	pattern, err := validate.Require(args, "pattern_name")
	if err != nil {
		return "", err
	}
	model := validate.Optional(args, "model")

	release, err := b.Gate.Acquire(ctx)
	if err != nil {
		return "", err
	}
	defer release()

	output, err := b.Fabric.ProcessYouTube(ctx, url, pattern, model)
	if err != nil {
		return "", err
	}
	return format.TranscriptResult(pattern, output), nil
}

func (b Builder) updatePatterns(ctx context.Context, _ map[string]any) (string, error) {
	release, err := b.Gate.Acquire(ctx)
	if err != nil {
		return "", err
	}
	defer release()

	output, err := b.Fabric.Update(ctx)
	if err != nil {
		return "", err
	}
	return format.UpdateResult(output), nil
}

func (b Builder) listModels(ctx context.Context, _ map[string]any) (string, error) {
	output, err := b.Fabric.ListModels(ctx)
	if err != nil {
		return "", err
	}
	return format.ModelCatalog(output), nil
}

func objectSchema(properties map[string]any) map[string]any {
	schema := map[string]any{"type": "object"}
	if len(properties) > 0 {
		schema["properties"] = properties
	}
	return schema
}

func stringProp(description string) map[string]any {
	return map[string]any{"type": "string", "description": description}
}

func readOnly() *mcp.ToolAnnotations {
	return &mcp.ToolAnnotations{ReadOnlyHint: true}
}
