// Package runtimetest provides a scripted runtime for testing orchestration
// logic without a real agent engine.
package runtimetest

import (
	"context"
	"errors"
	"sync"

	"github.com/globepilot/planner/plan"
	"github.com/globepilot/planner/runtime"
)

// ErrScriptExhausted is returned from Run when all scripted cycles have been
// consumed.
var ErrScriptExhausted = errors.New("runtimetest: no scripted cycles left")

// Cycle scripts one Run call: the state mutation the engine would perform,
// the events it streams, and the errors it surfaces.
type Cycle struct {
	// Mutate is applied to the shared state before events are streamed,
	// standing in for the tool calls a real cycle would make. Optional.
	Mutate func(*plan.State)

	// Events is the event stream for this cycle, delivered in order.
	Events []runtime.Event

	// RunErr, when set, makes Run itself fail without producing a handle.
	RunErr error

	// WaitErr is the terminal error reported by the handle's Wait.
	WaitErr error

	// StateErr, when set, makes the handle's State fail, simulating an
	// unavailable state store.
	StateErr error
}

// Scripted replays a fixed sequence of cycles, one per Run call.
type Scripted struct {
	mu      sync.Mutex
	cycles  []Cycle
	next    int
	prompts []string
}

// New builds a scripted runtime that serves the given cycles in order.
func New(cycles ...Cycle) *Scripted {
	return &Scripted{cycles: cycles}
}

// Run consumes the next scripted cycle. It records the prompt, applies the
// cycle's mutation to the state, and returns a handle whose event channel is
// already fully buffered and closed. The iteration cap is ignored: scripts
// decide their own length.
func (s *Scripted) Run(_ context.Context, prompt string, state *plan.State, _ int) (runtime.Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.prompts = append(s.prompts, prompt)
	if s.next >= len(s.cycles) {
		return nil, ErrScriptExhausted
	}
	cycle := s.cycles[s.next]
	s.next++

	if cycle.RunErr != nil {
		return nil, cycle.RunErr
	}
	if cycle.Mutate != nil {
		cycle.Mutate(state)
	}

	events := make(chan runtime.Event, len(cycle.Events))
	for _, ev := range cycle.Events {
		events <- ev
	}
	close(events)

	return &handle{
		events:   events,
		waitErr:  cycle.WaitErr,
		stateErr: cycle.StateErr,
		state:    state,
	}, nil
}

// Calls returns how many times Run has been invoked.
func (s *Scripted) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.prompts)
}

// Prompts returns the prompts passed to Run, in call order.
func (s *Scripted) Prompts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.prompts))
	copy(out, s.prompts)
	return out
}

type handle struct {
	events   chan runtime.Event
	waitErr  error
	stateErr error
	state    *plan.State
}

func (h *handle) Events() <-chan runtime.Event {
	return h.events
}

func (h *handle) Wait(context.Context) error {
	return h.waitErr
}

func (h *handle) State() (*plan.State, error) {
	if h.stateErr != nil {
		return nil, h.stateErr
	}
	return h.state, nil
}
