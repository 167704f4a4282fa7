// Package limits defines the resource ceilings for a planning run and the
// tracker that accounts against them.
package limits

import "time"

// Limits is the immutable per-run resource configuration. A Limits value is
// created once per run invocation and never mutated afterwards.
type Limits struct {
	// MaxIterations caps the number of reasoning steps the external agent
	// runtime may take within one cycle. The runtime enforces this itself;
	// the orchestrator only passes it through.
	MaxIterations int

	// MaxRevisionCycles caps how many full plan-then-evaluate cycles the
	// orchestrator will drive before giving up.
	MaxRevisionCycles int

	// MaxAPICalls caps the number of tool invocations observed across the
	// whole run.
	MaxAPICalls int

	// MaxDuration caps the wall-clock runtime of the whole run.
	MaxDuration time.Duration

	// EarlyTermination allows the orchestrator to stop consuming events and
	// cycling as soon as an approved plan with sufficient role coverage
	// exists.
	EarlyTermination bool
}

// Default returns the standard limits for interactive use: 50 iterations,
// 1 revision cycle, 100 API calls, 5 minutes.
func Default() Limits {
	return Limits{
		MaxIterations:     50,
		MaxRevisionCycles: 1,
		MaxAPICalls:       100,
		MaxDuration:       5 * time.Minute,
		EarlyTermination:  true,
	}
}

// Production returns the heavier limits used for user-facing planning
// requests: 60 iterations, 120 API calls, 8 minutes.
func Production() Limits {
	return Limits{
		MaxIterations:     60,
		MaxRevisionCycles: 1,
		MaxAPICalls:       120,
		MaxDuration:       8 * time.Minute,
		EarlyTermination:  true,
	}
}

// Testing returns tight limits suitable for fast automated runs.
func Testing() Limits {
	return Limits{
		MaxIterations:     25,
		MaxRevisionCycles: 1,
		MaxAPICalls:       40,
		MaxDuration:       2 * time.Minute,
		EarlyTermination:  true,
	}
}
