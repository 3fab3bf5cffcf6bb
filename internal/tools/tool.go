package tools

import (
	"context"
	"fmt"
)

// Result represents the outcome of a tool execution.
// IsError marks results that carry a rendered error message instead of
// retrieved content; the text still flows back to the model unchanged.
type Result struct {
	Content string `json:"content"`
	IsError bool   `json:"is_error,omitempty"`
}

// Tool defines the interface for retrieval tools the assistant can call.
// Tools take one textual input and return a textual report. Backend
// failures are rendered into the Result rather than returned as errors;
// the error return is reserved for failures the tool could not absorb
// (the orchestrator converts those into error Results as well).
type Tool interface {
	// Name returns the unique name of the tool
	Name() string

	// Description returns a description of what the tool does,
	// used verbatim in the model-facing tool listing
	Description() string

	// Execute runs the tool with the given textual input
	Execute(ctx context.Context, input string) (Result, error)
}

// errorResult renders an absorbed backend failure.
func errorResult(format string, args ...interface{}) Result {
	return Result{
		Content: fmt.Sprintf(format, args...),
		IsError: true,
	}
}
