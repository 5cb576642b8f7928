package protocol

import (
	"errors"
	"fmt"
)

// Error kinds for failed tool calls.
const (
	KindValidation     = "validation"
	KindTimeout        = "process_timeout"
	KindExecution      = "process_execution"
	KindBufferOverflow = "buffer_overflow"
	KindUnknownTool    = "unknown_tool"
	KindFilesystem     = "filesystem"
)

// Envelope is the only failure shape surfaced to MCP clients.
type Envelope struct {
	// Kind classifies the failure.
	Kind string
	// Message is a human-readable description.
	Message string
}

// Error implements the error interface.
func (e *Envelope) Error() string {
	return e.Message
}

// Result is the fixed response returned to MCP clients.
type Result struct {
	// Text is the formatted payload.
	Text string `json:"text"`
	// IsError indicates a failed call.
	IsError bool `json:"isError"`
}

// Validationf builds a validation envelope.
func Validationf(format string, args ...any) *Envelope {
	return &Envelope{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// Timeoutf builds a process timeout envelope.
func Timeoutf(format string, args ...any) *Envelope {
	return &Envelope{Kind: KindTimeout, Message: fmt.Sprintf(format, args...)}
}

// Executionf builds a process execution envelope.
func Executionf(format string, args ...any) *Envelope {
	return &Envelope{Kind: KindExecution, Message: fmt.Sprintf(format, args...)}
}

// Overflowf builds a buffer overflow envelope.
func Overflowf(format string, args ...any) *Envelope {
	return &Envelope{Kind: KindBufferOverflow, Message: fmt.Sprintf(format, args...)}
}

// UnknownToolf builds an unknown tool envelope.
func UnknownToolf(format string, args ...any) *Envelope {
	return &Envelope{Kind: KindUnknownTool, Message: fmt.Sprintf(format, args...)}
}

// Filesystemf builds a filesystem envelope.
func Filesystemf(format string, args ...any) *Envelope {
	return &Envelope{Kind: KindFilesystem, Message: fmt.Sprintf(format, args...)}
}

// Classify returns the envelope carried by err, or wraps err as a
// process execution failure when it carries none.
func Classify(err error) *Envelope {
	var env *Envelope
	if errors.As(err, &env) {
		return env
	}
	return &Envelope{Kind: KindExecution, Message: err.Error()}
}
