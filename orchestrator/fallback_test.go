package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/globepilot/planner/budget"
	"github.com/globepilot/planner/plan"
	"github.com/globepilot/planner/runtime/runtimetest"
)

func TestSynthesizeItineraryWithDates(t *testing.T) {
	prompt := "Plan a trip to Tokyo. Departure: 2026-09-01. Return: 2026-09-04."
	s := plan.NewState()
	s.RecordNotes("activities", "temples and food tours")

	synthesizeItinerary(prompt, s)

	require.True(t, s.HasItinerary())
	assert.Contains(t, s.Itinerary, "Day 1 (2026-09-01): Arrival, check-in, and orientation")
	assert.Contains(t, s.Itinerary, "Day 2 (2026-09-02): Explore local attractions and activities")
	assert.Contains(t, s.Itinerary, "Day 4 (2026-09-04): Departure preparations and return travel")
}

func TestSynthesizeItineraryWithoutDates(t *testing.T) {
	s := plan.NewState()
	s.RecordNotes("weather", "mild in autumn")
	s.RecordNotes("activities", "temples and food tours")
	s.SetBudgetAnalysis("Flights $600, hotel $400")

	synthesizeItinerary("Plan a trip to Tokyo.", s)

	require.True(t, s.HasItinerary())
	assert.Contains(t, s.Itinerary, "TRIP HIGHLIGHTS:")
	assert.Contains(t, s.Itinerary, "- activities: temples and food tours")
	assert.Contains(t, s.Itinerary, "- weather: mild in autumn")
	assert.Contains(t, s.Itinerary, "BUDGET SUMMARY:")
	assert.Contains(t, s.Itinerary, "Flights $600, hotel $400")
}

func TestSynthesizeItineraryIdempotent(t *testing.T) {
	prompt := "Departure: 2026-09-01. Return: 2026-09-03."
	s := plan.NewState()
	s.RecordNotes("general", "notes")
	s.SetBudgetAnalysis("Total $900")

	synthesizeItinerary(prompt, s)
	first := s.Itinerary
	synthesizeItinerary(prompt, s)

	assert.Equal(t, first, s.Itinerary)
}

func TestSynthesizeItineraryIgnoresInvertedDates(t *testing.T) {
	s := plan.NewState()
	synthesizeItinerary("Departure: 2026-09-10. Return: 2026-09-01.", s)
	assert.Contains(t, s.Itinerary, "TRIP HIGHLIGHTS:")
}

func TestSynthesizeValidation(t *testing.T) {
	o := New(runtimetest.New())

	t.Run("within tolerance approves", func(t *testing.T) {
		s := plan.NewState()
		s.SetBudgetAnalysis("Total: $1000")

		o.synthesizeValidation(s, budget.Range{Min: 800, Max: 1200})

		assert.True(t, s.Approved())
		assert.Equal(t, "Budget and requirements met", s.Approval.Notes)
		assert.Equal(t, "within budget", s.BudgetValidation.Result)
		assert.Empty(t, s.PendingRevisions())
	})

	t.Run("just inside the 20 percent tolerance", func(t *testing.T) {
		s := plan.NewState()
		s.SetBudgetAnalysis("Total: $1440")

		o.synthesizeValidation(s, budget.Range{Min: 800, Max: 1200})
		assert.True(t, s.Approved())
	})

	t.Run("over tolerance requests revision", func(t *testing.T) {
		s := plan.NewState()
		s.SetBudgetAnalysis("Total: $2000")

		o.synthesizeValidation(s, budget.Range{Min: 800, Max: 1200})

		assert.False(t, s.Approved())
		assert.Equal(t, plan.StatusRevisionNeeded, s.Approval.Status)
		assert.Equal(t, "Budget exceeded", s.Approval.Notes)

		pending := s.PendingRevisions()
		require.Len(t, pending, 1)
		assert.Equal(t, "BudgetAnalysisAgent", pending[0].Agent)
		assert.Equal(t, "Reduce total costs from $2000 to under $1200", pending[0].Request)
		assert.Equal(t, plan.PriorityHigh, pending[0].Priority)
	})

	t.Run("unconstrained budget always approves", func(t *testing.T) {
		s := plan.NewState()
		s.SetBudgetAnalysis("Total: $99,999")

		o.synthesizeValidation(s, budget.Unconstrained())
		assert.True(t, s.Approved())
	})

	t.Run("no amounts approves", func(t *testing.T) {
		s := plan.NewState()
		s.SetBudgetAnalysis("costs look reasonable")

		o.synthesizeValidation(s, budget.Range{Min: 800, Max: 1200})
		assert.True(t, s.Approved())
		assert.Zero(t, s.CalculatedTotalBudget)
	})
}

func TestRevisionBlock(t *testing.T) {
	block := revisionBlock([]plan.RevisionRequest{
		{Agent: "BudgetAnalysisAgent", Request: "reduce costs"},
		{Agent: "WeatherAgent", Request: "refresh forecast"},
	})

	assert.Equal(t, "\n\nREVISION REQUIREMENTS:\n- BudgetAnalysisAgent: reduce costs\n- WeatherAgent: refresh forecast\n", block)
}
