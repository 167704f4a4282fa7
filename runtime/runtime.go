// Package runtime defines the contract between the planning orchestrator and
// the multi-agent engine that actually runs the roles.
//
// The orchestrator never talks to an LLM or a tool directly: it starts a
// cycle through a Runtime, consumes the typed event stream from the returned
// Handle, and reads the shared plan state back when the stream ends. Any
// engine that can honor this contract can sit underneath, including the
// scripted engine in runtimetest used for testing.
package runtime

import (
	"context"

	"github.com/globepilot/planner/plan"
)

// EventType discriminates the events a cycle emits.
type EventType string

const (
	// EventAgentChanged reports that control moved to a different role.
	EventAgentChanged EventType = "agent_changed"

	// EventToolInvoked reports that a role invoked a tool.
	EventToolInvoked EventType = "tool_invoked"

	// EventOther covers engine-specific events the orchestrator does not
	// interpret beyond counting them.
	EventOther EventType = "other"
)

// Event is one item in a cycle's event stream. Only the fields matching the
// Type are set.
type Event struct {
	// Type discriminates which variant this event is.
	Type EventType `json:"type"`

	// Role is the newly active role. Set for EventAgentChanged.
	Role string `json:"role,omitempty"`

	// Tool is the invoked tool's name. Set for EventToolInvoked.
	Tool string `json:"tool,omitempty"`

	// Output is the tool's textual output. Set for EventToolInvoked.
	Output string `json:"output,omitempty"`

	// Description is free text carried by EventOther.
	Description string `json:"description,omitempty"`
}

// AgentChanged builds an agent-transition event.
func AgentChanged(role string) Event {
	return Event{Type: EventAgentChanged, Role: role}
}

// ToolInvoked builds a tool-invocation event.
func ToolInvoked(tool, output string) Event {
	return Event{Type: EventToolInvoked, Tool: tool, Output: output}
}

// Other builds an uninterpreted engine event.
func Other(description string) Event {
	return Event{Type: EventOther, Description: description}
}

// Runtime drives planning cycles against a shared plan state.
type Runtime interface {
	// Run starts one cycle with the given prompt, capped at maxIterations
	// reasoning steps. The engine reads and mutates the supplied state
	// through the tools it exposes to roles. The returned handle streams
	// the cycle's events.
	Run(ctx context.Context, prompt string, state *plan.State, maxIterations int) (Handle, error)
}

// Handle is one in-flight cycle.
type Handle interface {
	// Events returns the cycle's event stream. The channel is closed when
	// the cycle finishes, successfully or not.
	Events() <-chan Event

	// Wait blocks until the cycle has finished and returns its terminal
	// error, if any. Safe to call after Events is drained.
	Wait(ctx context.Context) error

	// State returns the shared plan state as the engine last saw it. An
	// error here means the engine's state store is unavailable, not that
	// the cycle failed.
	State() (*plan.State, error)
}
