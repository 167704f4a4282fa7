package planner

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/globepilot/planner/cache"
	"github.com/globepilot/planner/limits"
	"github.com/globepilot/planner/orchestrator"
	"github.com/globepilot/planner/plan"
	"github.com/globepilot/planner/runtime"
	"github.com/globepilot/planner/status"
)

// ErrRunFailed is returned by Plan when the run failed outright and produced
// no state, not even a partial one.
var ErrRunFailed = errors.New("planner: run failed with no partial state")

// Planner is the top-level entry point: it wraps the orchestrator with a
// result cache and status reporting so hosts can serve planning requests with
// one call.
//
// A Planner is safe to reuse across requests; each Plan call runs with its
// own state and resource tracker.
type Planner struct {
	orch     *orchestrator.Orchestrator
	cache    cache.Cache
	cacheTTL time.Duration
	logger   *slog.Logger
}

// New creates a planner over the given runtime.
func New(engine runtime.Runtime, opts ...Option) *Planner {
	cfg := plannerConfig{cacheTTL: cache.DefaultTTL}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	if cfg.statusPub != nil {
		cfg.observers = append(cfg.observers, status.NewReporter(cfg.statusPub, cfg.logger))
	}

	orchOpts := cfg.orchOpts
	orchOpts = append(orchOpts, orchestrator.WithLogger(cfg.logger))
	if len(cfg.observers) == 1 {
		orchOpts = append(orchOpts, orchestrator.WithObserver(cfg.observers[0]))
	} else if len(cfg.observers) > 1 {
		orchOpts = append(orchOpts, orchestrator.WithObserver(multiObserver(cfg.observers)))
	}

	return &Planner{
		orch:     orchestrator.New(engine, orchOpts...),
		cache:    cfg.cache,
		cacheTTL: cfg.cacheTTL,
		logger:   cfg.logger,
	}
}

// Plan serves one travel-planning request.
//
// An identical request served before is answered from the cache without
// running the agent graph. Otherwise a full run executes; its final state is
// returned whether or not the plan was approved, and only approved plans are
// cached. ErrRunFailed is returned when the run produced nothing at all.
func (p *Planner) Plan(ctx context.Context, prompt string) (*plan.State, error) {
	params := map[string]any{"prompt": prompt}

	if p.cache != nil {
		var cached plan.State
		found, err := p.cache.Get(ctx, cache.NamespaceResults, params, &cached)
		if err != nil {
			p.logger.Warn("cache lookup failed, running without cache", "error", err)
		} else if found {
			p.logger.Info("serving plan from cache")
			return &cached, nil
		}
	}

	state := p.orch.Run(ctx, prompt)
	if state == nil {
		return nil, ErrRunFailed
	}

	if p.cache != nil && state.Approved() {
		if err := p.cache.Set(ctx, cache.NamespaceResults, params, state, p.cacheTTL); err != nil {
			p.logger.Warn("failed to cache plan", "error", err)
		}
	}
	return state, nil
}

// Orchestrator exposes the underlying orchestrator, mainly so hosts can
// inspect the configured role graph.
func (p *Planner) Orchestrator() *orchestrator.Orchestrator {
	return p.orch
}

// multiObserver fans callbacks out to several observers in order.
type multiObserver []orchestrator.Observer

func (m multiObserver) RunStarted(runID, prompt string) {
	for _, obs := range m {
		obs.RunStarted(runID, prompt)
	}
}

func (m multiObserver) RoleActivated(runID string, cycle int, role string) {
	for _, obs := range m {
		obs.RoleActivated(runID, cycle, role)
	}
}

func (m multiObserver) ToolInvoked(runID string, cycle int, tool string) {
	for _, obs := range m {
		obs.ToolInvoked(runID, cycle, tool)
	}
}

func (m multiObserver) CycleCompleted(runID string, cycle int, st limits.Status) {
	for _, obs := range m {
		obs.CycleCompleted(runID, cycle, st)
	}
}

func (m multiObserver) RunFinished(runID string, state *plan.State) {
	for _, obs := range m {
		obs.RunFinished(runID, state)
	}
}
