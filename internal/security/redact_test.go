package security

import (
	"strings"
	"testing"
)

func TestRedactArguments(t *testing.T) {
	args := map[string]any{
		"api_key":      "sk-123",
		"pattern_name": "summarize",
		"count":        3,
	}
	redacted := RedactArguments(args)

	if redacted["api_key"] != "***" {
		t.Fatalf("api_key not masked: %v", redacted["api_key"])
	}
	if redacted["pattern_name"] != "summarize" {
		t.Fatalf("pattern_name should pass through: %v", redacted["pattern_name"])
	}
	if redacted["count"] != 3 {
		t.Fatalf("non-string should pass through: %v", redacted["count"])
	}
	if args["api_key"] != "sk-123" {
		t.Fatal("original map must not be mutated")
	}
}

func TestRedactArguments_TruncatesLongText(t *testing.T) {
	long := strings.Repeat("a", maxLoggedLen+50)
	redacted := RedactArguments(map[string]any{"input_text": long})

	got, ok := redacted["input_text"].(string)
	if !ok {
		t.Fatalf("unexpected type: %T", redacted["input_text"])
	}
	if len(got) >= len(long) {
		t.Fatal("long text was not truncated")
	}
	if !strings.HasSuffix(got, "(truncated)") {
		t.Fatalf("missing truncation note: %q", got)
	}
}

func TestRedactArguments_Nil(t *testing.T) {
	if RedactArguments(nil) != nil {
		t.Fatal("nil should stay nil")
	}
}
