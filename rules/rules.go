// Package rules evaluates declarative quality expectations against a plan
// state using CEL expressions.
//
// Each rule is a boolean expression over a fixed set of plan variables; a
// rule whose expression evaluates to false is reported as a violation. Rules
// are compiled once at construction and are cheap to evaluate per cycle.
package rules

import (
	"errors"
	"fmt"
	"math"

	"github.com/google/cel-go/cel"

	"github.com/globepilot/planner/plan"
)

// ErrNoRules is returned when a rule set is constructed without any rules.
var ErrNoRules = errors.New("rules: at least one rule required")

// Rule is one named expectation over the plan state.
type Rule struct {
	// Name identifies the rule in violations and logs.
	Name string `yaml:"name"`

	// Expr is a CEL boolean expression that must hold for the rule to pass.
	//
	// Available variables:
	//   has_itinerary        bool    an itinerary beyond the placeholder exists
	//   has_budget_analysis  bool    a budget analysis exists
	//   approved             bool    the plan verdict is an approval
	//   calculated_total     double  the cached total-cost estimate
	//   budget_min           double  lower bound of the user's budget
	//   budget_max           double  upper bound of the user's budget
	//   pending_revisions    int     revision requests still pending
	//   quality_issues       int     quality issues recorded so far
	//   note_categories      int     research note categories filled in
	Expr string `yaml:"expr"`

	// Severity is attached to the violation when the rule fails. Defaults
	// to medium.
	Severity plan.Severity `yaml:"severity,omitempty"`
}

// Violation reports one failed rule.
type Violation struct {
	Rule     string
	Severity plan.Severity
}

// RuleSet holds compiled rules ready for evaluation.
type RuleSet struct {
	programs []compiledRule
}

type compiledRule struct {
	name     string
	severity plan.Severity
	program  cel.Program
}

// New compiles the given rules into a reusable rule set.
func New(ruleDefs ...Rule) (*RuleSet, error) {
	if len(ruleDefs) == 0 {
		return nil, ErrNoRules
	}

	env, err := cel.NewEnv(
		cel.Variable("has_itinerary", cel.BoolType),
		cel.Variable("has_budget_analysis", cel.BoolType),
		cel.Variable("approved", cel.BoolType),
		cel.Variable("calculated_total", cel.DoubleType),
		cel.Variable("budget_min", cel.DoubleType),
		cel.Variable("budget_max", cel.DoubleType),
		cel.Variable("pending_revisions", cel.IntType),
		cel.Variable("quality_issues", cel.IntType),
		cel.Variable("note_categories", cel.IntType),
	)
	if err != nil {
		return nil, fmt.Errorf("rules: failed to build environment: %w", err)
	}

	set := &RuleSet{programs: make([]compiledRule, 0, len(ruleDefs))}
	for _, r := range ruleDefs {
		ast, issues := env.Compile(r.Expr)
		if issues != nil && issues.Err() != nil {
			return nil, fmt.Errorf("rules: failed to compile %q: %w", r.Name, issues.Err())
		}
		if ast.OutputType() != cel.BoolType {
			return nil, fmt.Errorf("rules: %q must evaluate to bool, got %s", r.Name, ast.OutputType())
		}
		program, err := env.Program(ast)
		if err != nil {
			return nil, fmt.Errorf("rules: failed to build program for %q: %w", r.Name, err)
		}

		severity := r.Severity
		if severity == "" {
			severity = plan.SeverityMedium
		}
		set.programs = append(set.programs, compiledRule{
			name:     r.Name,
			severity: severity,
			program:  program,
		})
	}
	return set, nil
}

// Evaluate runs every rule against the state and returns the violations. A
// rule whose evaluation errors is reported as a violation as well, since a
// rule that cannot be checked cannot be said to hold.
func (s *RuleSet) Evaluate(st *plan.State) []Violation {
	vars := stateVars(st)

	var violations []Violation
	for _, r := range s.programs {
		out, _, err := r.program.Eval(vars)
		if err != nil {
			violations = append(violations, Violation{Rule: r.name, Severity: r.severity})
			continue
		}
		if passed, ok := out.Value().(bool); !ok || !passed {
			violations = append(violations, Violation{Rule: r.name, Severity: r.severity})
		}
	}
	return violations
}

// Len returns the number of compiled rules.
func (s *RuleSet) Len() int {
	return len(s.programs)
}

func stateVars(st *plan.State) map[string]any {
	budgetMax := st.UserBudgetRange.Max
	if math.IsInf(budgetMax, 1) {
		budgetMax = math.MaxFloat64
	}
	return map[string]any{
		"has_itinerary":       st.HasItinerary(),
		"has_budget_analysis": st.HasBudgetAnalysis(),
		"approved":            st.Approved(),
		"calculated_total":    st.CalculatedTotalBudget,
		"budget_min":          st.UserBudgetRange.Min,
		"budget_max":          budgetMax,
		"pending_revisions":   len(st.PendingRevisions()),
		"quality_issues":      len(st.QualityIssues),
		"note_categories":     len(st.TravelNotes),
	}
}
