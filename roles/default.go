package roles

// DefaultGraph returns the standard eleven-role travel-planning graph. The
// research roles form a chain from general research through to the planner;
// the validation and quality-control roles can hand control back to earlier
// roles when revisions are needed.
func DefaultGraph() *Graph {
	g, err := NewGraph(GeneralResearch, DefaultSpecs())
	if err != nil {
		// The default specs are fixed at compile time; a validation
		// failure here is a programming error.
		panic(err)
	}
	return g
}

// DefaultSpecs returns the role specs behind DefaultGraph, useful as a
// starting point for callers that want to customize descriptions or tools
// before building their own graph.
func DefaultSpecs() []Spec {
	return []Spec{
		{
			Name:           GeneralResearch,
			Description:    "Researches the destination: culture, safety, entry requirements, and general travel notes.",
			HandoffTargets: []string{Weather},
			Tools:          []string{"record_notes", "record_structured_data"},
		},
		{
			Name:           Weather,
			Description:    "Gathers the weather outlook for the travel dates and suggests what to pack.",
			HandoffTargets: []string{Flight},
			Tools:          []string{"record_weather_info", "record_packing_suggestions"},
		},
		{
			Name:           Flight,
			Description:    "Finds flight options and schedules for the requested dates.",
			HandoffTargets: []string{Accommodations},
			Tools:          []string{"record_notes", "record_structured_data"},
		},
		{
			Name:           Accommodations,
			Description:    "Finds lodging options matching the traveler's preferences and budget.",
			HandoffTargets: []string{BudgetAnalysis},
			Tools:          []string{"record_notes", "record_structured_data"},
		},
		{
			Name:           BudgetAnalysis,
			Description:    "Breaks down estimated costs across flights, lodging, food, and activities.",
			HandoffTargets: []string{Activities},
			Tools:          []string{"record_budget_analysis"},
		},
		{
			Name:           Activities,
			Description:    "Suggests activities and attractions suited to the traveler's interests.",
			HandoffTargets: []string{LocalEvents},
			Tools:          []string{"record_notes"},
		},
		{
			Name:           LocalEvents,
			Description:    "Finds events and happenings during the travel window.",
			HandoffTargets: []string{LocalTransportation},
			Tools:          []string{"record_notes"},
		},
		{
			Name:           LocalTransportation,
			Description:    "Covers getting around at the destination: transit, passes, and transfers.",
			HandoffTargets: []string{TravelPlanner},
			Tools:          []string{"record_notes"},
		},
		{
			Name:           TravelPlanner,
			Description:    "Synthesizes all research into a day-by-day itinerary.",
			HandoffTargets: []string{Validation},
			Tools:          []string{"record_itinerary"},
		},
		{
			Name:        Validation,
			Description: "Validates the plan against budget and stated requirements, requesting revisions when they are not met.",
			HandoffTargets: []string{
				QualityControl,
				BudgetAnalysis,
				GeneralResearch,
				Flight,
				Weather,
			},
			Tools: []string{"validate_budget", "validate_requirements", "request_revision", "approve_travel_plan"},
		},
		{
			Name:        QualityControl,
			Description: "Checks the plan for completeness and internal consistency, routing revisions to the responsible role.",
			HandoffTargets: []string{
				Validation,
				BudgetAnalysis,
				GeneralResearch,
				Flight,
				LocalTransportation,
				Weather,
				TravelPlanner,
			},
			Tools: []string{"record_quality_issue", "request_revision"},
		},
	}
}
