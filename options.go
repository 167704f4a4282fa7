package planner

import (
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/globepilot/planner/cache"
	"github.com/globepilot/planner/limits"
	"github.com/globepilot/planner/orchestrator"
	"github.com/globepilot/planner/roles"
	"github.com/globepilot/planner/rules"
	"github.com/globepilot/planner/status"
)

// Option configures a Planner.
type Option func(*plannerConfig)

// plannerConfig holds configuration for a Planner instance.
type plannerConfig struct {
	orchOpts  []orchestrator.Option
	observers []orchestrator.Observer
	statusPub status.Publisher
	cache     cache.Cache
	cacheTTL  time.Duration
	logger    *slog.Logger
}

// WithLimits sets the resource limits applied to every run.
func WithLimits(l limits.Limits) Option {
	return func(c *plannerConfig) {
		c.orchOpts = append(c.orchOpts, orchestrator.WithLimits(l))
	}
}

// WithGraph sets the role hand-off graph. Defaults to the standard
// eleven-role travel-planning graph.
func WithGraph(g *roles.Graph) Option {
	return func(c *plannerConfig) {
		c.orchOpts = append(c.orchOpts, orchestrator.WithGraph(g))
	}
}

// WithRules sets quality rules evaluated after every cycle.
func WithRules(rs *rules.RuleSet) Option {
	return func(c *plannerConfig) {
		c.orchOpts = append(c.orchOpts, orchestrator.WithRules(rs))
	}
}

// WithCache enables the result cache. Identical prompts served within the
// cache TTL skip the run entirely.
func WithCache(store cache.Cache) Option {
	return func(c *plannerConfig) {
		c.cache = store
	}
}

// WithCacheTTL overrides how long cached plans live. Defaults to
// cache.DefaultTTL.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *plannerConfig) {
		c.cacheTTL = ttl
	}
}

// WithStatusRegistry publishes live run status through the given publisher,
// typically an etcd-backed status.Client.
func WithStatusRegistry(pub status.Publisher) Option {
	return func(c *plannerConfig) {
		c.statusPub = pub
	}
}

// WithObserver adds a progress observer. May be used multiple times;
// callbacks fan out in registration order.
func WithObserver(obs orchestrator.Observer) Option {
	return func(c *plannerConfig) {
		c.observers = append(c.observers, obs)
	}
}

// WithLogger sets a custom logger for the planner and its orchestrator.
// If not provided, slog.Default is used.
func WithLogger(logger *slog.Logger) Option {
	return func(c *plannerConfig) {
		c.logger = logger
	}
}

// WithTracer sets an OpenTelemetry tracer for distributed tracing.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *plannerConfig) {
		c.orchOpts = append(c.orchOpts, orchestrator.WithTracer(tracer))
	}
}

// WithMeter sets an OpenTelemetry meter for run metrics.
func WithMeter(meter metric.Meter) Option {
	return func(c *plannerConfig) {
		c.orchOpts = append(c.orchOpts, orchestrator.WithMeter(meter))
	}
}
