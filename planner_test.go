package planner

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/globepilot/planner/cache"
	"github.com/globepilot/planner/limits"
	"github.com/globepilot/planner/plan"
	"github.com/globepilot/planner/roles"
	"github.com/globepilot/planner/runtime"
	"github.com/globepilot/planner/runtime/runtimetest"
)

func testLimits() limits.Limits {
	return limits.Limits{
		MaxIterations:     50,
		MaxRevisionCycles: 1,
		MaxAPICalls:       100,
		MaxDuration:       5 * time.Minute,
		EarlyTermination:  true,
	}
}

// approvableCycle scripts a traversal that activates two roles and reports a
// $1000 total, which passes the $1200 budget's tolerance via the validation
// fallback.
func approvableCycle() runtimetest.Cycle {
	return runtimetest.Cycle{
		Mutate: func(s *plan.State) { s.SetBudgetAnalysis("Estimated total: $1000") },
		Events: []runtime.Event{
			runtime.AgentChanged(roles.GeneralResearch),
			runtime.ToolInvoked("record_budget_analysis", "ok"),
			runtime.AgentChanged(roles.Weather),
		},
	}
}

func TestPlanEndToEnd(t *testing.T) {
	engine := runtimetest.New(approvableCycle())
	p := New(engine, WithLimits(testLimits()))

	state, err := p.Plan(context.Background(), "Plan a trip. Budget: $800 - $1200.")
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.True(t, state.Approved())
	assert.True(t, state.HasItinerary())
}

func TestPlanRunFailure(t *testing.T) {
	engine := runtimetest.New(runtimetest.Cycle{RunErr: errors.New("engine down")})
	p := New(engine, WithLimits(testLimits()))

	_, err := p.Plan(context.Background(), "Plan a trip.")
	assert.ErrorIs(t, err, ErrRunFailed)
}

func TestPlanServesFromCache(t *testing.T) {
	mr := miniredis.RunT(t)
	store, err := cache.NewRedisCache(cache.RedisOptions{
		URL: fmt.Sprintf("redis://%s", mr.Addr()),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	engine := runtimetest.New(approvableCycle())
	p := New(engine, WithLimits(testLimits()), WithCache(store))

	prompt := "Plan a trip. Budget: $800 - $1200."

	first, err := p.Plan(context.Background(), prompt)
	require.NoError(t, err)
	require.True(t, first.Approved())
	assert.Equal(t, 1, engine.Calls())

	// The second identical request must come from the cache: the scripted
	// engine has no cycles left, so a second run would fail.
	second, err := p.Plan(context.Background(), prompt)
	require.NoError(t, err)
	assert.Equal(t, 1, engine.Calls())
	assert.Equal(t, first.Itinerary, second.Itinerary)
	assert.True(t, second.Approved())
}

func TestPlanDoesNotCacheUnapprovedPlans(t *testing.T) {
	mr := miniredis.RunT(t)
	store, err := cache.NewRedisCache(cache.RedisOptions{
		URL: fmt.Sprintf("redis://%s", mr.Addr()),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	overBudget := runtimetest.Cycle{
		Mutate: func(s *plan.State) { s.SetBudgetAnalysis("Total: $9000") },
		Events: []runtime.Event{runtime.AgentChanged(roles.GeneralResearch)},
	}
	engine := runtimetest.New(overBudget, overBudget)
	p := New(engine, WithLimits(testLimits()), WithCache(store))

	prompt := "Plan a trip. Budget: $800 - $1200."

	first, err := p.Plan(context.Background(), prompt)
	require.NoError(t, err)
	assert.False(t, first.Approved())

	// Unapproved plans are not cached, so the next request runs again.
	_, err = p.Plan(context.Background(), prompt)
	require.NoError(t, err)
	assert.Equal(t, 2, engine.Calls())
}

func TestPlanObserverFanOut(t *testing.T) {
	var aStarted, bStarted int
	a := funcObserver{onStart: func() { aStarted++ }}
	b := funcObserver{onStart: func() { bStarted++ }}

	engine := runtimetest.New(approvableCycle())
	p := New(engine, WithLimits(testLimits()), WithObserver(a), WithObserver(b))

	_, err := p.Plan(context.Background(), "Plan a trip. Budget: $800 - $1200.")
	require.NoError(t, err)
	assert.Equal(t, 1, aStarted)
	assert.Equal(t, 1, bStarted)
}

type funcObserver struct {
	onStart func()
}

func (f funcObserver) RunStarted(string, string) {
	if f.onStart != nil {
		f.onStart()
	}
}

func (funcObserver) RoleActivated(string, int, string)         {}
func (funcObserver) ToolInvoked(string, int, string)           {}
func (funcObserver) CycleCompleted(string, int, limits.Status) {}
func (funcObserver) RunFinished(string, *plan.State)           {}
