package plan

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/globepilot/planner/budget"
)

// The mutators below form the tool surface exposed to agents. Each one is a
// narrow overwrite-one-field or append-one-record operation; none validates
// beyond type coercion, and the only contract is that the named field
// reflects the most recent call.

// RecordNotes stores research notes under a category, replacing any earlier
// notes for that category.
func (s *State) RecordNotes(category, notes string) {
	if s.TravelNotes == nil {
		s.TravelNotes = map[string]string{}
	}
	s.TravelNotes[category] = notes
}

// SetItinerary overwrites the itinerary text.
func (s *State) SetItinerary(text string) {
	s.Itinerary = text
}

// SetBudgetAnalysis overwrites the budget-analysis narrative.
func (s *State) SetBudgetAnalysis(text string) {
	s.BudgetAnalysis = text
}

// SetWeatherInfo overwrites the weather narrative.
func (s *State) SetWeatherInfo(text string) {
	s.WeatherInfo = text
}

// SetPackingSuggestions overwrites the packing list.
func (s *State) SetPackingSuggestions(text string) {
	s.PackingSuggestions = text
}

// SetDocumentRequirements overwrites the document-requirements text.
func (s *State) SetDocumentRequirements(text string) {
	s.DocumentRequirements = text
}

// RecordStructuredData stores a machine-readable payload under a category and
// mirrors it into TravelNotes as indented JSON so that text-only consumers
// keep working.
func (s *State) RecordStructuredData(category string, data map[string]any) error {
	serialized, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("plan: failed to serialize structured data for %s: %w", category, err)
	}
	if s.StructuredData == nil {
		s.StructuredData = map[string]any{}
	}
	s.StructuredData[category] = data
	s.RecordNotes(category, string(serialized))
	return nil
}

// ValidateBudget records the outcome of a budget-compliance check.
func (s *State) ValidateBudget(result, targetBudget string) {
	s.BudgetValidation = BudgetValidation{
		Result:       result,
		TargetBudget: targetBudget,
		Timestamp:    time.Now(),
	}
}

// ValidateRequirements records the outcome of a requirements check.
func (s *State) ValidateRequirements(result, details string) {
	s.RequirementsValidation = RequirementsValidation{
		Result:    result,
		Details:   details,
		Timestamp: time.Now(),
	}
}

// RequestRevision appends a pending revision request directed at the named
// role. The history is append-only; requests are never removed.
func (s *State) RequestRevision(agent, request string, priority Priority) {
	if priority == "" {
		priority = PriorityMedium
	}
	s.RevisionRequests = append(s.RevisionRequests, RevisionRequest{
		Agent:     agent,
		Request:   request,
		Priority:  priority,
		Status:    RevisionPending,
		Timestamp: time.Now(),
	})
}

// RecordQualityIssue appends a defect found during validation.
func (s *State) RecordQualityIssue(description string, severity Severity) {
	if severity == "" {
		severity = SeverityMedium
	}
	s.QualityIssues = append(s.QualityIssues, QualityIssue{
		Description: description,
		Severity:    severity,
		Timestamp:   time.Now(),
	})
}

// SetApproval overwrites the plan verdict.
func (s *State) SetApproval(status ApprovalStatus, notes string) {
	s.Approval = Approval{
		Status:    status,
		Notes:     notes,
		Timestamp: time.Now(),
	}
}

// CalculateTotalBudget estimates the plan's total cost by scanning the
// budget-analysis narrative for dollar amounts and taking the largest,
// caches the result, and returns it. Returns zero when the narrative
// contains no dollar figures.
func (s *State) CalculateTotalBudget() float64 {
	total := budget.MaxAmount(s.BudgetAnalysis)
	s.CalculatedTotalBudget = total
	return total
}
