package status

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/globepilot/planner/limits"
	"github.com/globepilot/planner/plan"
)

type fakePublisher struct {
	mu        sync.Mutex
	published []RunInfo
	err       error
}

func (f *fakePublisher) Publish(_ context.Context, info RunInfo) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, info)
	return nil
}

func (f *fakePublisher) Remove(context.Context, string) error {
	return nil
}

func (f *fakePublisher) records() []RunInfo {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]RunInfo, len(f.published))
	copy(out, f.published)
	return out
}

func TestReporterPublishesRunLifecycle(t *testing.T) {
	pub := &fakePublisher{}
	r := NewReporter(pub, slog.Default())

	r.RunStarted("run-1", "Plan a trip.")
	r.RoleActivated("run-1", 1, "GeneralResearchAgent")
	r.RoleActivated("run-1", 1, "WeatherAgent")
	r.CycleCompleted("run-1", 1, limits.Status{APICalls: 7, ElapsedMinutes: 1.25})

	approved := plan.NewState()
	approved.SetApproval(plan.StatusApproved, "Budget and requirements met")
	r.RunFinished("run-1", approved)

	records := pub.records()
	require.Len(t, records, 5)

	assert.Equal(t, PhaseRunning, records[0].Phase)
	assert.Equal(t, []string{"GeneralResearchAgent"}, records[1].ActivatedRoles)
	assert.Equal(t, []string{"GeneralResearchAgent", "WeatherAgent"}, records[2].ActivatedRoles)

	assert.Equal(t, PhaseRevising, records[3].Phase)
	assert.Equal(t, 1, records[3].Cycle)
	assert.Equal(t, 7, records[3].APICalls)
	assert.Equal(t, 1.25, records[3].ElapsedMinutes)

	assert.Equal(t, PhaseApproved, records[4].Phase)
}

func TestReporterTerminalPhases(t *testing.T) {
	t.Run("failed run", func(t *testing.T) {
		pub := &fakePublisher{}
		r := NewReporter(pub, nil)

		r.RunStarted("run-2", "")
		r.RunFinished("run-2", nil)

		records := pub.records()
		require.Len(t, records, 2)
		assert.Equal(t, PhaseFailed, records[1].Phase)
	})

	t.Run("unapproved run", func(t *testing.T) {
		pub := &fakePublisher{}
		r := NewReporter(pub, nil)

		r.RunStarted("run-3", "")
		r.RunFinished("run-3", plan.NewState())

		records := pub.records()
		require.Len(t, records, 2)
		assert.Equal(t, PhaseUnapproved, records[1].Phase)
	})
}

func TestReporterIgnoresUnknownRuns(t *testing.T) {
	pub := &fakePublisher{}
	r := NewReporter(pub, nil)

	r.RoleActivated("never-started", 1, "WeatherAgent")
	r.CycleCompleted("never-started", 1, limits.Status{})
	r.RunFinished("never-started", nil)

	assert.Empty(t, pub.records())
}

func TestReporterSwallowsPublishErrors(t *testing.T) {
	pub := &fakePublisher{err: errors.New("etcd down")}
	r := NewReporter(pub, slog.Default())

	assert.NotPanics(t, func() {
		r.RunStarted("run-4", "")
		r.RoleActivated("run-4", 1, "WeatherAgent")
		r.RunFinished("run-4", plan.NewState())
	})
}
