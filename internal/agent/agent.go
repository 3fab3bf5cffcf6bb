package agent

import (
	"context"
	"time"

	"github.com/benefitdesk/insurance-assistant/internal/llm"
	"github.com/benefitdesk/insurance-assistant/internal/tools"
)

// Agent defines the interface the transport layer depends on.
type Agent interface {
	// RunTurn answers one user turn given the conversation so far
	RunTurn(ctx context.Context, conversation []llm.Message) (*TurnResult, error)

	// Close releases any resources held by the agent
	Close() error
}

// Assistant implements Agent with the tool-routing orchestration loop.
type Assistant struct {
	completer    Completer
	registry     *tools.Registry
	maxToolCalls int
	toolTimeout  time.Duration
}

// NewAssistant creates a new assistant agent.
func NewAssistant(completer Completer, registry *tools.Registry, maxToolCalls int, toolTimeout time.Duration) *Assistant {
	if maxToolCalls <= 0 {
		maxToolCalls = defaultMaxToolCalls
	}
	return &Assistant{
		completer:    completer,
		registry:     registry,
		maxToolCalls: maxToolCalls,
		toolTimeout:  toolTimeout,
	}
}

// RunTurn answers one user turn.
func (a *Assistant) RunTurn(ctx context.Context, conversation []llm.Message) (*TurnResult, error) {
	orchestrator := NewOrchestrator(a.completer, a.registry, a.maxToolCalls, a.toolTimeout)
	return orchestrator.Run(ctx, conversation)
}

// Close releases any resources held by the agent
func (a *Assistant) Close() error {
	// No resources to release currently
	return nil
}
