package limits

import (
	"math"
	"time"
)

// Tracker accounts a single run's resource usage against its Limits: elapsed
// wall-clock time, tool-call count, and revision-cycle count.
//
// A Tracker belongs to exactly one in-flight run and is mutated only by the
// goroutine driving that run, so it carries no internal locking.
type Tracker struct {
	limits Limits
	start  time.Time
	now    func() time.Time

	apiCalls      int
	revisionCycle int
}

// NewTracker creates a tracker whose clock starts now.
func NewTracker(l Limits) *Tracker {
	return NewTrackerAt(l, time.Now)
}

// NewTrackerAt creates a tracker with an injected clock. The clock is read
// once at construction for the start time and again on every deadline check.
func NewTrackerAt(l Limits, now func() time.Time) *Tracker {
	return &Tracker{limits: l, start: now(), now: now}
}

// Limits returns the configuration this tracker accounts against.
func (t *Tracker) Limits() Limits {
	return t.limits
}

// IncrementAPICall records one tool invocation and reports whether the run is
// still within its API-call budget.
//
// The increment happens unconditionally, even after the budget is already
// exhausted: the caller is responsible for stopping once false is returned,
// so the counter can exceed the limit by the number of calls made after the
// breach was first observed.
func (t *Tracker) IncrementAPICall() bool {
	t.apiCalls++
	return t.apiCalls <= t.limits.MaxAPICalls
}

// APICalls returns the number of tool invocations recorded so far.
func (t *Tracker) APICalls() int {
	return t.apiCalls
}

// BeginCycle increments the revision-cycle counter and returns the new cycle
// number (1-based).
func (t *Tracker) BeginCycle() int {
	t.revisionCycle++
	return t.revisionCycle
}

// CountRevision records that a cycle ended by scheduling a revision. The
// extra increment makes revision-driven re-runs consume the cycle budget
// twice as fast as clean cycles.
func (t *Tracker) CountRevision() {
	t.revisionCycle++
}

// Cycle returns the current revision-cycle count.
func (t *Tracker) Cycle() int {
	return t.revisionCycle
}

// WithinDeadline reports whether elapsed wall-clock time is still within
// MaxDuration. The check is cooperative: it is evaluated between events, not
// preemptively, so a single slow external step can overrun the limit before
// the next check fires.
func (t *Tracker) WithinDeadline() bool {
	return t.now().Sub(t.start) <= t.limits.MaxDuration
}

// Status is a point-in-time snapshot of a tracker's accounting.
type Status struct {
	ElapsedMinutes  float64 `json:"elapsed_minutes"`
	APICalls        int     `json:"api_calls"`
	RevisionCycle   int     `json:"revision_cycle"`
	TimeoutReached  bool    `json:"timeout_reached"`
	APILimitReached bool    `json:"api_limit_reached"`
}

// Status returns a snapshot of the tracker. ElapsedMinutes is rounded to two
// decimal places for display.
func (t *Tracker) Status() Status {
	elapsed := t.now().Sub(t.start).Minutes()
	return Status{
		ElapsedMinutes:  math.Round(elapsed*100) / 100,
		APICalls:        t.apiCalls,
		RevisionCycle:   t.revisionCycle,
		TimeoutReached:  !t.WithinDeadline(),
		APILimitReached: t.apiCalls > t.limits.MaxAPICalls,
	}
}
