package status

import (
	"context"
	"log/slog"
	"sync"

	"github.com/globepilot/planner/limits"
	"github.com/globepilot/planner/plan"
)

// Reporter adapts a Publisher to the orchestrator's observer callbacks,
// turning run progress into registry updates.
//
// Publish failures are logged and dropped: status reporting must never
// interfere with the run it is reporting on.
type Reporter struct {
	publisher Publisher
	logger    *slog.Logger

	mu   sync.Mutex
	runs map[string]*RunInfo
}

// NewReporter creates a reporter that publishes through the given publisher.
func NewReporter(publisher Publisher, logger *slog.Logger) *Reporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reporter{
		publisher: publisher,
		logger:    logger,
		runs:      make(map[string]*RunInfo),
	}
}

// RunStarted registers the run as running.
func (r *Reporter) RunStarted(runID, _ string) {
	r.mu.Lock()
	info := &RunInfo{RunID: runID, Phase: PhaseRunning}
	r.runs[runID] = info
	snapshot := *info
	r.mu.Unlock()

	r.publish(snapshot)
}

// RoleActivated appends the role to the run's activation list.
func (r *Reporter) RoleActivated(runID string, _ int, role string) {
	r.mu.Lock()
	info, ok := r.runs[runID]
	if !ok {
		r.mu.Unlock()
		return
	}
	info.ActivatedRoles = append(info.ActivatedRoles, role)
	snapshot := *info
	r.mu.Unlock()

	r.publish(snapshot)
}

// ToolInvoked is tracked through CycleCompleted's counters instead of
// per-invocation publishes.
func (r *Reporter) ToolInvoked(string, int, string) {}

// CycleCompleted updates the run's cycle and resource counters.
func (r *Reporter) CycleCompleted(runID string, cycle int, st limits.Status) {
	r.mu.Lock()
	info, ok := r.runs[runID]
	if !ok {
		r.mu.Unlock()
		return
	}
	info.Cycle = cycle
	info.APICalls = st.APICalls
	info.ElapsedMinutes = st.ElapsedMinutes
	info.Phase = PhaseRevising
	snapshot := *info
	r.mu.Unlock()

	r.publish(snapshot)
}

// RunFinished publishes the run's terminal phase. The record is left in the
// registry to expire with its lease rather than being removed immediately,
// so late readers still see the outcome.
func (r *Reporter) RunFinished(runID string, state *plan.State) {
	r.mu.Lock()
	info, ok := r.runs[runID]
	if !ok {
		r.mu.Unlock()
		return
	}
	switch {
	case state == nil:
		info.Phase = PhaseFailed
	case state.Approved():
		info.Phase = PhaseApproved
	default:
		info.Phase = PhaseUnapproved
	}
	snapshot := *info
	delete(r.runs, runID)
	r.mu.Unlock()

	r.publish(snapshot)
}

func (r *Reporter) publish(info RunInfo) {
	if err := r.publisher.Publish(context.Background(), info); err != nil {
		r.logger.Warn("failed to publish run status", "run_id", info.RunID, "error", err)
	}
}
