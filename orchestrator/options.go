package orchestrator

import (
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/globepilot/planner/limits"
	"github.com/globepilot/planner/roles"
	"github.com/globepilot/planner/rules"
)

// Option configures an Orchestrator.
type Option func(*config)

// config holds construction-time settings for an Orchestrator.
type config struct {
	graph         *roles.Graph
	limits        limits.Limits
	plannerRole   string
	validatorRole string
	budgetRole    string
	approveTool   string
	observer      Observer
	rules         *rules.RuleSet
	logger        *slog.Logger
	tracer        trace.Tracer
	meter         metric.Meter
	now           func() time.Time
}

// WithGraph sets the hand-off graph for the run. Defaults to
// roles.DefaultGraph.
func WithGraph(g *roles.Graph) Option {
	return func(c *config) {
		c.graph = g
	}
}

// WithLimits sets the resource limits applied to every run. Defaults to
// limits.Default.
func WithLimits(l limits.Limits) Option {
	return func(c *config) {
		c.limits = l
	}
}

// WithPlannerRole names the role responsible for itinerary synthesis. When
// a cycle finishes without this role having activated, the itinerary
// fallback fires.
func WithPlannerRole(name string) Option {
	return func(c *config) {
		c.plannerRole = name
	}
}

// WithValidatorRole names the role responsible for plan validation. When a
// cycle finishes without this role having activated, the validation
// fallback fires.
func WithValidatorRole(name string) Option {
	return func(c *config) {
		c.validatorRole = name
	}
}

// WithBudgetRole names the role that synthesized revision requests about
// budget overruns are directed at.
func WithBudgetRole(name string) Option {
	return func(c *config) {
		c.budgetRole = name
	}
}

// WithApproveTool names the tool whose invocation signals plan approval for
// the early-termination check.
func WithApproveTool(name string) Option {
	return func(c *config) {
		c.approveTool = name
	}
}

// WithObserver sets the progress observer. Defaults to NopObserver.
func WithObserver(obs Observer) Option {
	return func(c *config) {
		c.observer = obs
	}
}

// WithRules sets an optional rule set evaluated against the final state of
// each cycle; violations are recorded as quality issues.
func WithRules(rs *rules.RuleSet) Option {
	return func(c *config) {
		c.rules = rs
	}
}

// WithLogger sets a custom logger. If not provided, slog.Default is used.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithTracer sets an OpenTelemetry tracer for distributed tracing.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *config) {
		c.tracer = tracer
	}
}

// WithMeter sets an OpenTelemetry meter for run metrics.
func WithMeter(meter metric.Meter) Option {
	return func(c *config) {
		c.meter = meter
	}
}

// WithClock overrides the wall-clock source used by resource tracking.
// Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(c *config) {
		c.now = now
	}
}
