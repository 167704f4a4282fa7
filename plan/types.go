package plan

import "time"

// Priority ranks a revision request.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// IsValid checks if the priority is a recognized value.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

// Severity ranks a quality issue.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// IsValid checks if the severity is a recognized value.
func (s Severity) IsValid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh:
		return true
	default:
		return false
	}
}

// RevisionStatus is the lifecycle state of a revision request.
//
// Requests are created pending. The orchestrator copies pending requests into
// the next cycle's prompt but never marks them resolved; a request that the
// next cycle happens to address stays pending in the carried-forward history.
type RevisionStatus string

const (
	RevisionPending  RevisionStatus = "pending"
	RevisionResolved RevisionStatus = "resolved"
)

// ApprovalStatus is the verdict recorded for a plan.
type ApprovalStatus string

const (
	// StatusApproved marks the plan ready for booking.
	StatusApproved ApprovalStatus = "approved"

	// StatusRevisionNeeded marks the plan as requiring another cycle.
	StatusRevisionNeeded ApprovalStatus = "revision_needed"

	// StatusError marks a plan whose state could not be produced normally.
	StatusError ApprovalStatus = "error"
)

// String returns the string representation of the approval status.
func (s ApprovalStatus) String() string {
	return string(s)
}

// RevisionRequest asks a named role to rework part of the plan.
type RevisionRequest struct {
	// Agent is the role the request is directed at.
	Agent string `json:"agent"`

	// Request describes, in free text, what should change.
	Request string `json:"request"`

	// Priority ranks the request: low, medium, or high.
	Priority Priority `json:"priority"`

	// Status is pending until the request is (implicitly) carried into a
	// later cycle's prompt.
	Status RevisionStatus `json:"status"`

	// Timestamp records when the request was made.
	Timestamp time.Time `json:"timestamp"`
}

// QualityIssue records a defect found while validating the plan.
type QualityIssue struct {
	Description string    `json:"description"`
	Severity    Severity  `json:"severity"`
	Timestamp   time.Time `json:"timestamp"`
}

// Approval is the final verdict on a plan. The zero value means no verdict
// has been recorded yet.
type Approval struct {
	Status    ApprovalStatus `json:"status"`
	Notes     string         `json:"notes"`
	Timestamp time.Time      `json:"timestamp"`
}

// IsZero reports whether no verdict has been recorded.
func (a Approval) IsZero() bool {
	return a.Status == ""
}

// BudgetValidation records the outcome of checking the plan against the
// user's budget.
type BudgetValidation struct {
	Result       string    `json:"result"`
	TargetBudget string    `json:"target_budget"`
	Timestamp    time.Time `json:"timestamp"`
}

// IsZero reports whether no budget validation has been recorded.
func (v BudgetValidation) IsZero() bool {
	return v.Result == "" && v.TargetBudget == ""
}

// RequirementsValidation records the outcome of checking the plan against the
// user's stated requirements.
type RequirementsValidation struct {
	Result    string    `json:"result"`
	Details   string    `json:"details"`
	Timestamp time.Time `json:"timestamp"`
}

// IsZero reports whether no requirements validation has been recorded.
func (v RequirementsValidation) IsZero() bool {
	return v.Result == "" && v.Details == ""
}
