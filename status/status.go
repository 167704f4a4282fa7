// Package status publishes live planning-run status to etcd so that hosts
// (dashboards, web front ends) can follow runs without scraping logs.
//
// Each run is stored under a leased key that expires shortly after the
// publisher stops renewing it, so crashed runs disappear from the registry
// on their own.
package status

import "time"

// Phase describes where a run currently is in its lifecycle.
type Phase string

const (
	// PhaseRunning means a cycle is actively consuming events.
	PhaseRunning Phase = "running"

	// PhaseRevising means a cycle ended with pending revisions and another
	// cycle is starting.
	PhaseRevising Phase = "revising"

	// PhaseApproved means the run finished with an approved plan.
	PhaseApproved Phase = "approved"

	// PhaseUnapproved means the run finished without approval, typically by
	// exhausting its cycle budget.
	PhaseUnapproved Phase = "unapproved"

	// PhaseFailed means the run failed outright and produced no state.
	PhaseFailed Phase = "failed"
)

// RunInfo is the status record published for one planning run.
type RunInfo struct {
	// RunID uniquely identifies the run.
	RunID string `json:"run_id"`

	// Phase is the run's current lifecycle phase.
	Phase Phase `json:"phase"`

	// Cycle is the current revision-cycle count.
	Cycle int `json:"cycle"`

	// ActivatedRoles lists roles seen so far, in first-activation order.
	ActivatedRoles []string `json:"activated_roles"`

	// APICalls is the tool-invocation count recorded so far.
	APICalls int `json:"api_calls"`

	// ElapsedMinutes is the run's elapsed wall-clock time.
	ElapsedMinutes float64 `json:"elapsed_minutes"`

	// UpdatedAt is when this record was last published.
	UpdatedAt time.Time `json:"updated_at"`
}

// Config configures the status registry connection.
type Config struct {
	// Endpoints is the list of etcd endpoints (e.g., "localhost:2379").
	Endpoints []string `yaml:"endpoints"`

	// Namespace prefixes all registry keys. Defaults to "globepilot".
	Namespace string `yaml:"namespace"`

	// TTL is the lease time-to-live in seconds. A run whose publisher stops
	// renewing disappears after at most this long. Defaults to 30.
	TTL int `yaml:"ttl"`
}
