package orchestrator

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/globepilot/planner/budget"
	"github.com/globepilot/planner/plan"
)

// travelDates recovers a departure/return date pair from the prose prompt.
var travelDates = regexp.MustCompile(`(?s)Departure:\s*(\d{4}-\d{2}-\d{2}).*Return:\s*(\d{4}-\d{2}-\d{2})`)

// synthesizeItinerary writes a best-effort itinerary into the state when the
// planner role never ran. The output is a pure function of the prompt and the
// state's current notes, so re-running it without new notes produces the same
// text.
func synthesizeItinerary(prompt string, s *plan.State) {
	var b strings.Builder
	b.WriteString("TRAVEL ITINERARY\n")
	b.WriteString(strings.Repeat("=", 40) + "\n")

	depart, ret, ok := parseTravelDates(prompt)
	if ok {
		days := int(ret.Sub(depart).Hours()/24) + 1
		for i := 0; i < days; i++ {
			date := depart.AddDate(0, 0, i)
			var activity string
			switch {
			case i == 0:
				activity = "Arrival, check-in, and orientation"
			case i == days-1:
				activity = "Departure preparations and return travel"
			default:
				activity = "Explore local attractions and activities"
			}
			fmt.Fprintf(&b, "Day %d (%s): %s\n", i+1, date.Format("2006-01-02"), activity)
		}
	} else {
		b.WriteString("TRIP HIGHLIGHTS:\n")
		categories := make([]string, 0, len(s.TravelNotes))
		for category := range s.TravelNotes {
			categories = append(categories, category)
		}
		sort.Strings(categories)
		for _, category := range categories {
			fmt.Fprintf(&b, "- %s: %s\n", category, excerpt(s.TravelNotes[category]))
		}
	}

	if s.HasBudgetAnalysis() {
		b.WriteString("\nBUDGET SUMMARY:\n")
		b.WriteString(s.BudgetAnalysis + "\n")
	}

	s.SetItinerary(b.String())
}

func parseTravelDates(prompt string) (depart, ret time.Time, ok bool) {
	m := travelDates.FindStringSubmatch(prompt)
	if m == nil {
		return time.Time{}, time.Time{}, false
	}
	depart, err := time.Parse("2006-01-02", m[1])
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	ret, err = time.Parse("2006-01-02", m[2])
	if err != nil || ret.Before(depart) {
		return time.Time{}, time.Time{}, false
	}
	return depart, ret, true
}

// excerpt trims a note to a single summary line.
func excerpt(note string) string {
	note = strings.TrimSpace(note)
	if i := strings.IndexByte(note, '\n'); i >= 0 {
		note = note[:i]
	}
	const maxLen = 200
	if len(note) > maxLen {
		note = note[:maxLen] + "..."
	}
	return note
}

// synthesizeValidation writes a budget verdict into the state when the
// validation role never ran. The estimated total is the largest dollar figure
// in the budget analysis; the plan passes as long as that estimate stays
// within a 20% tolerance above the user's stated maximum.
func (o *Orchestrator) synthesizeValidation(s *plan.State, target budget.Range) {
	estimated := s.CalculateTotalBudget()

	if estimated > target.Max*1.2 {
		s.ValidateBudget(
			fmt.Sprintf("over budget: estimated $%.0f exceeds $%.0f", estimated, target.Max),
			target.String(),
		)
		s.RequestRevision(
			o.budgetRole,
			fmt.Sprintf("Reduce total costs from $%.0f to under $%.0f", estimated, target.Max),
			plan.PriorityHigh,
		)
		s.SetApproval(plan.StatusRevisionNeeded, "Budget exceeded")
		return
	}

	s.ValidateBudget("within budget", target.String())
	s.SetApproval(plan.StatusApproved, "Budget and requirements met")
}
