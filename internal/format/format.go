package format

import (
	"fmt"
	"strings"

	"github.com/fabric-tools/fabric-mcp-server/internal/patterns"
	"github.com/fabric-tools/fabric-mcp-server/internal/protocol"
)

// Markers prefixing every payload returned to the host.
const (
	successMarker = "✅"
	failureMarker = "❌"
)

// PatternResult formats a successful pattern execution.
func PatternResult(pattern, output string) string {
	return fmt.Sprintf("%s Pattern '%s' executed successfully:\n\n%s", successMarker, pattern, output)
}

// URLResult formats a successful URL processing run.
func URLResult(pattern, output string) string {
	return fmt.Sprintf("%s URL processed with pattern '%s':\n\n%s", successMarker, pattern, output)
}

// TranscriptResult formats a successful transcript processing run.
func TranscriptResult(pattern, output string) string {
	return fmt.Sprintf("%s YouTube transcript processed with pattern '%s':\n\n%s", successMarker, pattern, output)
}

// UpdateResult formats a successful catalog update.
func UpdateResult(output string) string {
	if strings.TrimSpace(output) == "" {
		return fmt.Sprintf("%s Patterns updated successfully.", successMarker)
	}
	return fmt.Sprintf("%s Patterns updated successfully:\n\n%s", successMarker, output)
}

// ModelCatalog formats the model listing.
func ModelCatalog(output string) string {
	return fmt.Sprintf("%s Available models:\n\n%s", successMarker, output)
}

// PatternCatalog formats a pattern catalog resolution. An empty catalog
// is a plain informational message, not an error, and distinguishes a
// fruitless search from an empty installation.
func PatternCatalog(catalog patterns.Catalog, search string) string {
	if len(catalog.Names) == 0 {
		if strings.TrimSpace(search) != "" {
			return fmt.Sprintf("No patterns found matching '%s'.", strings.TrimSpace(search))
		}
		return "No patterns available."
	}
	return fmt.Sprintf("%s Available patterns (%d):\n\n%s",
		successMarker, len(catalog.Names), strings.Join(catalog.Names, "\n"))
}

// PatternDetail formats a single pattern's system prompt.
func PatternDetail(name, body string) string {
	return fmt.Sprintf("%s Pattern '%s':\n\n%s", successMarker, name, body)
}

// Success wraps an already-formatted payload.
func Success(text string) protocol.Result {
	return protocol.Result{Text: text}
}

// Failure converts any error into the single failure shape callers see.
// No code path past this point surfaces a raw exception.
func Failure(err error) protocol.Result {
	env := protocol.Classify(err)
	return protocol.Result{
		Text:    fmt.Sprintf("%s Error: %s", failureMarker, env.Message),
		IsError: true,
	}
}
