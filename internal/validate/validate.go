package validate

import (
	"strings"

	"github.com/fabric-tools/fabric-mcp-server/internal/protocol"
)

// Require returns the trimmed value of a required argument, or a
// validation envelope when the argument is absent or blank.
func Require(args map[string]any, field string) (string, error) {
	value, ok := args[field].(string)
	if !ok {
		return "", protocol.Validationf("%s is required", field)
	}
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", protocol.Validationf("%s is required", field)
	}
	return trimmed, nil
}

// Optional returns the trimmed value of an optional argument, or the
// empty string when it is absent.
func Optional(args map[string]any, field string) string {
	value, ok := args[field].(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(value)
}
