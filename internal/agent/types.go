package agent

import (
	"context"
	"errors"

	"github.com/benefitdesk/insurance-assistant/internal/llm"
)

// ErrModelUnavailable is the one fatal error a turn can produce: the
// completion backend could not be reached or rejected the call. Tool
// and parsing failures degrade instead of surfacing.
var ErrModelUnavailable = errors.New("model backend unavailable")

// Completer is the completion capability the loop depends on: one
// rendered prompt in, one model response out.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// TurnResult is the terminal artifact of one user turn.
type TurnResult struct {
	// Response is the final assistant answer.
	Response string `json:"response"`

	// Sources lists citation metadata. Provenance extraction is not
	// implemented; this is always an empty, non-nil slice.
	Sources []Source `json:"sources"`

	// ToolCalls records every tool invocation made during the turn.
	ToolCalls []ToolCallRecord `json:"-"`

	// Iterations is the number of model calls made.
	Iterations int `json:"-"`

	// Transcript is the conversation including the synthesized
	// messages appended during the turn (tool announcements, tool
	// results, final answer).
	Transcript []llm.Message `json:"-"`
}

// Source is a citation placeholder.
type Source struct {
	Title     string `json:"title,omitempty"`
	Reference string `json:"reference,omitempty"`
	Page      int    `json:"page,omitempty"`
}

// ToolCallRecord records a single tool invocation and its outcome.
type ToolCallRecord struct {
	// ToolName is the name of the tool that was invoked
	ToolName string

	// Input is the textual input passed to the tool
	Input string

	// Result is the textual output from the tool
	Result string

	// IsError indicates the result carries a rendered error message
	IsError bool
}

// Decision is the outcome of one tool-selection round. A zero Tool
// means "no tool"; both fields are set together or not at all.
type Decision struct {
	Tool  string
	Input string
}

// ToolRequested reports whether the decision names a tool.
func (d Decision) ToolRequested() bool {
	return d.Tool != ""
}
