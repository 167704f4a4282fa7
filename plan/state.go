// Package plan holds the shared plan state accumulated by all roles during a
// planning run, together with the narrow mutation surface exposed to agent
// tools.
//
// A State is exclusively owned by the single in-flight run that created it:
// it is mutated by agent tool calls while the run's event stream is live and
// by the orchestrator's fallback synthesis between cycles, never by two
// writers at once, so it carries no locking. Callers must tolerate partial
// state: a cycle stopped mid-stream leaves whatever subset of fields earlier
// tool calls managed to set.
package plan

import "github.com/globepilot/planner/budget"

// Sentinel values for text fields that no role has filled in yet.
const (
	ItineraryNotCreated     = "Not created yet."
	BudgetAnalysisRequired  = "Budget analysis required."
	WeatherAnalysisRequired = "Weather analysis required."
)

// State is the mutable record accumulated across one planning run. Every
// field is write-once-then-overwrite by whichever tool invokes the
// corresponding mutator: last write wins, there are no merge semantics.
type State struct {
	// TravelNotes holds free-text research notes keyed by category
	// ("activities", "weather", "destination_research", ...).
	TravelNotes map[string]string `json:"travel_notes"`

	// Itinerary is the day-by-day plan text, ItineraryNotCreated until set.
	Itinerary string `json:"itinerary"`

	// BudgetAnalysis is the cost-breakdown narrative, BudgetAnalysisRequired
	// until set.
	BudgetAnalysis string `json:"budget_analysis"`

	// WeatherInfo is the weather narrative, WeatherAnalysisRequired until set.
	WeatherInfo string `json:"weather_info"`

	// DocumentRequirements lists passports, visas, and permits. Empty until a
	// role records it.
	DocumentRequirements string `json:"document_requirements,omitempty"`

	// PackingSuggestions is the personalized packing list. Empty until a role
	// records it.
	PackingSuggestions string `json:"packing_suggestions,omitempty"`

	// StructuredData holds machine-readable payloads keyed by category,
	// mirrored into TravelNotes as serialized JSON for consumers that only
	// read text.
	StructuredData map[string]any `json:"structured_data,omitempty"`

	// BudgetValidation is the recorded budget-compliance check, if any.
	BudgetValidation BudgetValidation `json:"budget_validation"`

	// RequirementsValidation is the recorded requirements check, if any.
	RequirementsValidation RequirementsValidation `json:"requirements_validation"`

	// RevisionRequests is the append-only history of revision requests,
	// oldest first.
	RevisionRequests []RevisionRequest `json:"revision_requests"`

	// QualityIssues is the append-only history of recorded defects.
	QualityIssues []QualityIssue `json:"quality_issues"`

	// Approval is the plan verdict, zero until one is recorded.
	Approval Approval `json:"plan_approval"`

	// CalculatedTotalBudget caches the most recent total-cost estimate.
	CalculatedTotalBudget float64 `json:"calculated_total_budget"`

	// UserBudgetRange is the budget extracted from the user's prompt, fixed
	// for the whole run.
	UserBudgetRange budget.Range `json:"user_budget_range"`
}

// NewState creates a state with the standard sentinel defaults, ready to be
// handed to a fresh run.
func NewState() *State {
	return &State{
		TravelNotes:    map[string]string{},
		Itinerary:      ItineraryNotCreated,
		BudgetAnalysis: BudgetAnalysisRequired,
		WeatherInfo:    WeatherAnalysisRequired,
	}
}

// ErrorState creates the minimal synthetic state used when the run handle or
// its store is unavailable: empty notes, sentinel itinerary, and an error
// verdict carrying the reason. Returning this instead of failing keeps
// state-access problems from crashing an otherwise-healthy run.
func ErrorState(reason string) *State {
	s := &State{
		TravelNotes: map[string]string{},
		Itinerary:   ItineraryNotCreated,
	}
	s.SetApproval(StatusError, reason)
	return s
}

// HasItinerary reports whether an itinerary has actually been written, as
// opposed to the sentinel placeholder.
func (s *State) HasItinerary() bool {
	return s.Itinerary != "" && s.Itinerary != ItineraryNotCreated
}

// HasBudgetAnalysis reports whether a budget analysis has been written.
func (s *State) HasBudgetAnalysis() bool {
	return s.BudgetAnalysis != "" && s.BudgetAnalysis != BudgetAnalysisRequired
}

// Approved reports whether the recorded verdict is an approval.
func (s *State) Approved() bool {
	return s.Approval.Status == StatusApproved
}

// PendingRevisions returns the revision requests still marked pending, in
// the order they were made.
func (s *State) PendingRevisions() []RevisionRequest {
	var pending []RevisionRequest
	for _, r := range s.RevisionRequests {
		if r.Status == RevisionPending {
			pending = append(pending, r)
		}
	}
	return pending
}
