package plan

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStateDefaults(t *testing.T) {
	s := NewState()

	assert.NotNil(t, s.TravelNotes)
	assert.Empty(t, s.TravelNotes)
	assert.Equal(t, ItineraryNotCreated, s.Itinerary)
	assert.Equal(t, BudgetAnalysisRequired, s.BudgetAnalysis)
	assert.Equal(t, WeatherAnalysisRequired, s.WeatherInfo)
	assert.True(t, s.Approval.IsZero())
	assert.False(t, s.HasItinerary())
	assert.False(t, s.HasBudgetAnalysis())
	assert.Zero(t, s.CalculatedTotalBudget)
}

func TestErrorState(t *testing.T) {
	s := ErrorState("state access failed")

	assert.Equal(t, StatusError, s.Approval.Status)
	assert.Equal(t, "state access failed", s.Approval.Notes)
	assert.Equal(t, ItineraryNotCreated, s.Itinerary)
	assert.NotNil(t, s.TravelNotes)
	assert.False(t, s.Approved())
}

func TestRecordNotesOverwrites(t *testing.T) {
	s := NewState()
	s.RecordNotes("activities", "first draft")
	s.RecordNotes("activities", "second draft")
	s.RecordNotes("weather", "sunny")

	assert.Equal(t, "second draft", s.TravelNotes["activities"])
	assert.Equal(t, "sunny", s.TravelNotes["weather"])
}

func TestRecordNotesNilMap(t *testing.T) {
	// A zero-value State (not built by NewState) must still accept notes.
	var s State
	s.RecordNotes("general", "notes")
	assert.Equal(t, "notes", s.TravelNotes["general"])
}

func TestOverwriteMutators(t *testing.T) {
	s := NewState()

	s.SetItinerary("day 1: arrive")
	s.SetItinerary("day 1: arrive late")
	assert.Equal(t, "day 1: arrive late", s.Itinerary)
	assert.True(t, s.HasItinerary())

	s.SetBudgetAnalysis("Total: $900")
	assert.True(t, s.HasBudgetAnalysis())

	s.SetWeatherInfo("mild")
	s.SetPackingSuggestions("umbrella")
	s.SetDocumentRequirements("passport")
	assert.Equal(t, "mild", s.WeatherInfo)
	assert.Equal(t, "umbrella", s.PackingSuggestions)
	assert.Equal(t, "passport", s.DocumentRequirements)
}

func TestRecordStructuredDataMirrorsIntoNotes(t *testing.T) {
	s := NewState()
	err := s.RecordStructuredData("itinerary", map[string]any{
		"destination": "Tokyo",
		"days":        3,
	})
	require.NoError(t, err)

	assert.Contains(t, s.StructuredData, "itinerary")
	mirror := s.TravelNotes["itinerary"]
	assert.Contains(t, mirror, `"destination": "Tokyo"`)
	assert.Contains(t, mirror, `"days": 3`)
}

func TestRequestRevisionAppendsPending(t *testing.T) {
	s := NewState()
	s.RequestRevision("BudgetAnalysisAgent", "reduce costs", PriorityHigh)
	s.RequestRevision("TravelPlannerAgent", "add addresses", "")

	require.Len(t, s.RevisionRequests, 2)
	assert.Equal(t, RevisionPending, s.RevisionRequests[0].Status)
	assert.Equal(t, PriorityHigh, s.RevisionRequests[0].Priority)
	// Empty priority defaults to medium.
	assert.Equal(t, PriorityMedium, s.RevisionRequests[1].Priority)
	assert.Len(t, s.PendingRevisions(), 2)
}

func TestPendingRevisionsFiltersResolved(t *testing.T) {
	s := NewState()
	s.RequestRevision("A", "one", PriorityLow)
	s.RequestRevision("B", "two", PriorityLow)
	s.RevisionRequests[0].Status = RevisionResolved

	pending := s.PendingRevisions()
	require.Len(t, pending, 1)
	assert.Equal(t, "B", pending[0].Agent)
}

func TestRecordQualityIssueDefaultsSeverity(t *testing.T) {
	s := NewState()
	s.RecordQualityIssue("vague locations", "")
	require.Len(t, s.QualityIssues, 1)
	assert.Equal(t, SeverityMedium, s.QualityIssues[0].Severity)
}

func TestSetApprovalOverwrites(t *testing.T) {
	s := NewState()
	s.SetApproval(StatusRevisionNeeded, "budget exceeded")
	assert.False(t, s.Approved())

	s.SetApproval(StatusApproved, "all good")
	assert.True(t, s.Approved())
	assert.Equal(t, "all good", s.Approval.Notes)
}

func TestValidationRecords(t *testing.T) {
	s := NewState()
	s.ValidateBudget("within budget", "$800 - $1200")
	s.ValidateRequirements("met", "all requirements satisfied")

	assert.False(t, s.BudgetValidation.IsZero())
	assert.Equal(t, "$800 - $1200", s.BudgetValidation.TargetBudget)
	assert.False(t, s.RequirementsValidation.IsZero())
	assert.False(t, s.BudgetValidation.Timestamp.IsZero())
}

func TestCalculateTotalBudget(t *testing.T) {
	s := NewState()
	s.SetBudgetAnalysis("Accommodation $800, food $300, flights $1,450 total")

	got := s.CalculateTotalBudget()
	assert.Equal(t, 1450.0, got)
	assert.Equal(t, 1450.0, s.CalculatedTotalBudget)
}

func TestCalculateTotalBudgetNoAmounts(t *testing.T) {
	s := NewState()
	s.SetBudgetAnalysis("costs are reasonable")
	assert.Zero(t, s.CalculateTotalBudget())
}

func TestRender(t *testing.T) {
	s := NewState()
	s.SetItinerary("Day 1: arrive")
	s.SetBudgetAnalysis("Total: $900")
	s.CalculateTotalBudget()
	s.ValidateBudget("within budget", "$800 - $1200")
	s.RecordQualityIssue("minor gap", SeverityLow)
	s.RequestRevision("WeatherAgent", "refresh forecast", PriorityMedium)
	s.SetApproval(StatusApproved, "looks good")

	out := s.Render()
	assert.Contains(t, out, "PLAN STATUS: APPROVED")
	assert.Contains(t, out, "Calculated Total: $900.00")
	assert.Contains(t, out, "QUALITY ISSUES FOUND (1)")
	assert.Contains(t, out, "WeatherAgent: refresh forecast [pending]")
	assert.Contains(t, out, "Day 1: arrive")
	assert.Contains(t, out, "PLAN APPROVED - READY FOR BOOKING")
}

func TestRenderOmitsSentinels(t *testing.T) {
	out := NewState().Render()
	assert.NotContains(t, out, ItineraryNotCreated)
	assert.NotContains(t, out, "BUDGET ANALYSIS:")
	assert.True(t, strings.Contains(out, "PLAN UNDER REVIEW"))
}
