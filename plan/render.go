package plan

import (
	"fmt"
	"strings"
)

// Render formats the state as a human-readable report: verdict, validation
// results, quality issues, revision history, and every content section that
// has been filled in. Sections still holding their sentinel defaults are
// omitted.
func (s *State) Render() string {
	var b strings.Builder
	rule := strings.Repeat("=", 80)

	b.WriteString(rule + "\n")
	b.WriteString("VALIDATED TRAVEL PLAN\n")
	b.WriteString(rule + "\n")

	if !s.Approval.IsZero() {
		fmt.Fprintf(&b, "\nPLAN STATUS: %s\n", strings.ToUpper(string(s.Approval.Status)))
		if s.Approval.Notes != "" {
			fmt.Fprintf(&b, "Notes: %s\n", s.Approval.Notes)
		}
	}

	if !s.BudgetValidation.IsZero() {
		fmt.Fprintf(&b, "\nBUDGET VALIDATION: %s\n", s.BudgetValidation.Result)
		fmt.Fprintf(&b, "Target Budget: %s\n", s.BudgetValidation.TargetBudget)
	}
	if s.CalculatedTotalBudget > 0 {
		fmt.Fprintf(&b, "Calculated Total: $%.2f\n", s.CalculatedTotalBudget)
	}

	if len(s.QualityIssues) > 0 {
		fmt.Fprintf(&b, "\nQUALITY ISSUES FOUND (%d):\n", len(s.QualityIssues))
		for _, issue := range s.QualityIssues {
			fmt.Fprintf(&b, "  - %s: %s\n", strings.ToUpper(string(issue.Severity)), issue.Description)
		}
	}

	if len(s.RevisionRequests) > 0 {
		fmt.Fprintf(&b, "\nREVISION HISTORY (%d):\n", len(s.RevisionRequests))
		for _, rev := range s.RevisionRequests {
			fmt.Fprintf(&b, "  - %s: %s [%s]\n", rev.Agent, rev.Request, rev.Status)
		}
	}

	if s.HasItinerary() {
		b.WriteString("\nTRAVEL ITINERARY:\n")
		b.WriteString(s.Itinerary + "\n")
	}
	if s.HasBudgetAnalysis() {
		b.WriteString("\nBUDGET ANALYSIS:\n")
		b.WriteString(s.BudgetAnalysis + "\n")
	}
	if s.WeatherInfo != "" && s.WeatherInfo != WeatherAnalysisRequired {
		b.WriteString("\nWEATHER INFORMATION:\n")
		b.WriteString(s.WeatherInfo + "\n")
	}
	if s.DocumentRequirements != "" {
		b.WriteString("\nDOCUMENT REQUIREMENTS:\n")
		b.WriteString(s.DocumentRequirements + "\n")
	}
	if s.PackingSuggestions != "" {
		b.WriteString("\nPACKING SUGGESTIONS:\n")
		b.WriteString(s.PackingSuggestions + "\n")
	}

	b.WriteString("\n" + rule + "\n")
	if s.Approved() {
		b.WriteString("PLAN APPROVED - READY FOR BOOKING\n")
	} else {
		b.WriteString("PLAN UNDER REVIEW - REVISIONS MAY BE NEEDED\n")
	}
	b.WriteString(rule + "\n")

	return b.String()
}
