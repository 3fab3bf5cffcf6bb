package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/benefitdesk/insurance-assistant/internal/llm"
	"github.com/benefitdesk/insurance-assistant/internal/tools"
	"github.com/benefitdesk/insurance-assistant/pkg/log"
)

const defaultMaxToolCalls = 2

// Orchestrator drives one user turn through the routing loop:
// decide whether a tool is needed, invoke it, feed the result back,
// re-decide (bounded), then synthesize the final answer.
type Orchestrator struct {
	completer    Completer
	selector     *Selector
	registry     *tools.Registry
	maxToolCalls int
	toolTimeout  time.Duration
}

// NewOrchestrator creates a new orchestrator. maxToolCalls caps tool
// invocations per turn; values below 1 fall back to the default.
func NewOrchestrator(completer Completer, registry *tools.Registry, maxToolCalls int, toolTimeout time.Duration) *Orchestrator {
	if maxToolCalls <= 0 {
		maxToolCalls = defaultMaxToolCalls
	}
	return &Orchestrator{
		completer:    completer,
		selector:     NewSelector(completer),
		registry:     registry,
		maxToolCalls: maxToolCalls,
		toolTimeout:  toolTimeout,
	}
}

// Run executes one turn over a copy of the caller's conversation.
//
// The returned error is non-nil only when the completion backend
// fails (ErrModelUnavailable). Every other failure mode — malformed
// selection output, unknown tool names, backend errors inside tools —
// degrades into the conversation and still produces an answer.
func (o *Orchestrator) Run(ctx context.Context, conversation []llm.Message) (*TurnResult, error) {
	messages := append([]llm.Message(nil), conversation...)
	result := &TurnResult{
		Sources:   []Source{},
		ToolCalls: make([]ToolCallRecord, 0),
	}

	// Decision rounds, capped so a model that keeps requesting tools
	// cannot spin the loop forever.
	for len(result.ToolCalls) < o.maxToolCalls {
		decision, err := o.selector.Select(ctx, messages, o.registry)
		if err != nil {
			return nil, err
		}
		result.Iterations++

		if !decision.ToolRequested() {
			break
		}

		tool, err := o.registry.Lookup(decision.Tool)
		if err != nil {
			// Models occasionally invent tool names; answer without one.
			log.Warn("Requested tool %q is not registered, proceeding without tools", decision.Tool)
			break
		}

		messages = append(messages, llm.Message{
			Role:    llm.RoleAssistant,
			Content: fmt.Sprintf("I'll use the %s tool to help answer your question.", decision.Tool),
		})

		record := o.invokeTool(ctx, tool, decision.Input)
		result.ToolCalls = append(result.ToolCalls, record)

		messages = append(messages, llm.Message{
			Role:    llm.RoleAssistant,
			Content: "Tool Result: " + record.Result,
		})

		log.Info("Tool %s executed: error=%v", record.ToolName, record.IsError)
	}

	answer, err := o.completer.Complete(ctx, buildResponsePrompt(messages))
	if err != nil {
		return nil, fmt.Errorf("response synthesis: %w: %v", ErrModelUnavailable, err)
	}
	result.Iterations++

	messages = append(messages, llm.Message{
		Role:    llm.RoleAssistant,
		Content: answer,
	})

	result.Response = answer
	result.Transcript = messages
	return result, nil
}

// invokeTool dispatches to a tool under the configured timeout and
// converts any failure into an error-flagged record. Tool failures
// never escape this boundary.
func (o *Orchestrator) invokeTool(ctx context.Context, tool tools.Tool, input string) ToolCallRecord {
	record := ToolCallRecord{
		ToolName: tool.Name(),
		Input:    input,
	}

	if o.toolTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.toolTimeout)
		defer cancel()
	}

	result, err := tool.Execute(ctx, input)
	if err != nil {
		record.Result = fmt.Sprintf("Tool execution error: %v", err)
		record.IsError = true
		return record
	}

	record.Result = result.Content
	record.IsError = result.IsError
	return record
}
