package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/benefitdesk/insurance-assistant/internal/llm"
	"github.com/benefitdesk/insurance-assistant/internal/tools"
)

// fencedJSONPattern extracts the first ```json fenced block, matching
// across newlines.
var fencedJSONPattern = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")

// Selector asks the model whether a tool is needed and parses its
// semi-structured answer into a Decision.
type Selector struct {
	completer Completer
}

func NewSelector(completer Completer) *Selector {
	return &Selector{completer: completer}
}

// Select runs one tool-selection round over the conversation.
// The only error it returns is a model-call failure (wrapped as
// ErrModelUnavailable); any malformed model output degrades to the
// "no tool" decision.
func (s *Selector) Select(ctx context.Context, conversation []llm.Message, registry *tools.Registry) (Decision, error) {
	prompt := buildSelectionPrompt(conversation, registry.Describe())

	output, err := s.completer.Complete(ctx, prompt)
	if err != nil {
		return Decision{}, fmt.Errorf("tool selection: %w: %v", ErrModelUnavailable, err)
	}

	return ParseDecision(output), nil
}

// ParseDecision extracts a tool decision from raw model output.
//
// Model output is untrusted free text. The contract is to degrade to
// "no tool" on any ambiguity: missing fence, invalid JSON, null or
// absent tool name, empty input. Only the first fenced block counts.
func ParseDecision(output string) Decision {
	match := fencedJSONPattern.FindStringSubmatch(output)
	if match == nil {
		return Decision{}
	}

	var raw struct {
		Tool      *string `json:"tool"`
		ToolInput any     `json:"tool_input"`
	}
	if err := json.Unmarshal([]byte(match[1]), &raw); err != nil {
		return Decision{}
	}

	if raw.Tool == nil || *raw.Tool == "" {
		return Decision{}
	}

	input := coerceInput(raw.ToolInput)
	if input == "" {
		// A tool without input is as unusable as no tool.
		return Decision{}
	}

	return Decision{Tool: *raw.Tool, Input: input}
}

// coerceInput renders whatever the model put in tool_input as text.
func coerceInput(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(value)
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", value))
	}
}
