package security

import "strings"

// maxLoggedLen caps free-text argument values in logs so a large
// input_text does not flood the log stream.
const maxLoggedLen = 200

var sensitiveSubstrings = []string{
	"token",
	"password",
	"authorization",
	"apikey",
	"api_key",
	"access_key",
	"private_key",
	"credentials",
	"auth",
	"passwd",
	"key",
	"secret",
	"bearer",
	"cookie",
	"session",
}

// RedactArguments returns a copy of arguments safe for logging:
// sensitive values are masked and long free-text values truncated.
func RedactArguments(values map[string]any) map[string]any {
	if values == nil {
		return nil
	}
	redacted := make(map[string]any, len(values))
	for key, value := range values {
		if isSensitiveKey(key) {
			redacted[key] = "***"
			continue
		}
		if text, ok := value.(string); ok && len(text) > maxLoggedLen {
			redacted[key] = text[:maxLoggedLen] + "…(truncated)"
			continue
		}
		redacted[key] = value
	}
	return redacted
}

func isSensitiveKey(key string) bool {
	lower := strings.ToLower(strings.TrimSpace(key))
	for _, part := range sensitiveSubstrings {
		if strings.Contains(lower, part) {
			return true
		}
	}
	return false
}
