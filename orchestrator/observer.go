package orchestrator

import (
	"github.com/globepilot/planner/limits"
	"github.com/globepilot/planner/plan"
)

// Observer receives structured progress callbacks as a run advances. It
// replaces log scraping as the way to follow a run: hosts can drive progress
// bars, status registries, or dashboards from these calls directly.
//
// Callbacks are invoked synchronously from the orchestration loop; a panic
// in an observer is absorbed the same way a malformed event is, so a broken
// observer cannot abort a run.
type Observer interface {
	// RunStarted fires once, before the first cycle.
	RunStarted(runID, prompt string)

	// RoleActivated fires the first time a role becomes active in a cycle.
	RoleActivated(runID string, cycle int, role string)

	// ToolInvoked fires for every tool-invocation event that is consumed.
	ToolInvoked(runID string, cycle int, tool string)

	// CycleCompleted fires after each cycle's evaluation, with the tracker's
	// resource snapshot at that point.
	CycleCompleted(runID string, cycle int, status limits.Status)

	// RunFinished fires once with the final state, nil when the run failed
	// outright.
	RunFinished(runID string, state *plan.State)
}

// NopObserver is an Observer that ignores every callback.
type NopObserver struct{}

func (NopObserver) RunStarted(string, string)                 {}
func (NopObserver) RoleActivated(string, int, string)         {}
func (NopObserver) ToolInvoked(string, int, string)           {}
func (NopObserver) CycleCompleted(string, int, limits.Status) {}
func (NopObserver) RunFinished(string, *plan.State)           {}

var _ Observer = NopObserver{}
