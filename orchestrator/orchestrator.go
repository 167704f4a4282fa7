// Package orchestrator drives end-to-end travel-planning runs: it starts
// the agent graph through a runtime, consumes the resulting event stream
// under resource limits, fills in itinerary and validation output when the
// responsible roles never ran, and loops for bounded revision cycles until
// the plan is approved or the limits are exhausted.
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/globepilot/planner/budget"
	"github.com/globepilot/planner/limits"
	"github.com/globepilot/planner/plan"
	"github.com/globepilot/planner/roles"
	"github.com/globepilot/planner/rules"
	"github.com/globepilot/planner/runtime"
)

// instrumentationName identifies this package's traces and metrics.
const instrumentationName = "github.com/globepilot/planner/orchestrator"

// minRolesForEarlyApproval is how many distinct roles must have activated
// before an approval is trusted enough to stop a run early. Fewer than this
// means the hand-off chain barely started and the approval is not evidence
// of a validated plan.
const minRolesForEarlyApproval = 4

// Orchestrator coordinates planning runs against a runtime. Construct one
// with New and reuse it across runs; each run gets its own tracker and
// state.
type Orchestrator struct {
	engine runtime.Runtime

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
	now           func() time.Time

	runsStarted  metric.Int64Counter
	cyclesRun    metric.Int64Counter
	eventsSeen   metric.Int64Counter
	runsApproved metric.Int64Counter
}

// New creates an orchestrator over the given runtime. Defaults: the standard
// role graph, limits.Default, slog.Default, and the global OpenTelemetry
// tracer and meter providers.
func New(engine runtime.Runtime, opts ...Option) *Orchestrator {
	cfg := config{
		graph:         roles.DefaultGraph(),
		limits:        limits.Default(),
		plannerRole:   roles.TravelPlanner,
		validatorRole: roles.Validation,
		budgetRole:    roles.BudgetAnalysis,
		approveTool:   "approve_travel_plan",
		observer:      NopObserver{},
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	if cfg.tracer == nil {
		cfg.tracer = otel.Tracer(instrumentationName)
	}
	if cfg.meter == nil {
		cfg.meter = otel.Meter(instrumentationName)
	}
	if _, ok := cfg.graph.Spec(cfg.plannerRole); !ok {
		cfg.logger.Warn("planner role not in graph, itinerary fallback will fire every cycle",
			"role", cfg.plannerRole)
	}
	if _, ok := cfg.graph.Spec(cfg.validatorRole); !ok {
		cfg.logger.Warn("validation role not in graph, validation fallback will fire every cycle",
			"role", cfg.validatorRole)
	}

	o := &Orchestrator{
		engine:        engine,
		graph:         cfg.graph,
		limits:        cfg.limits,
		plannerRole:   cfg.plannerRole,
		validatorRole: cfg.validatorRole,
		budgetRole:    cfg.budgetRole,
		approveTool:   cfg.approveTool,
		observer:      cfg.observer,
		rules:         cfg.rules,
		logger:        cfg.logger,
		tracer:        cfg.tracer,
		now:           cfg.now,
	}
	o.runsStarted, _ = cfg.meter.Int64Counter("planner.runs_started",
		metric.WithDescription("Planning runs started"))
	o.cyclesRun, _ = cfg.meter.Int64Counter("planner.cycles_run",
		metric.WithDescription("Revision cycles executed"))
	o.eventsSeen, _ = cfg.meter.Int64Counter("planner.events_consumed",
		metric.WithDescription("Runtime events consumed"))
	o.runsApproved, _ = cfg.meter.Int64Counter("planner.runs_approved",
		metric.WithDescription("Planning runs that ended approved"))
	return o
}

// Graph returns the hand-off graph this orchestrator runs.
func (o *Orchestrator) Graph() *roles.Graph {
	return o.graph
}

// Run executes one full planning run for the given prompt and returns the
// final plan state.
//
// Run never panics and never returns an error: a run that fails outright
// returns nil, and every recoverable problem (state-store outage, malformed
// events, exhausted limits) is absorbed into the returned state. Callers
// distinguish approval from exhaustion by inspecting the state's verdict.
func (o *Orchestrator) Run(ctx context.Context, prompt string) (final *plan.State) {
	runID := uuid.NewString()
	logger := o.logger.With("run_id", runID)

	defer func() {
		if r := recover(); r != nil {
			logger.Error("planning run failed", "panic", r)
			final = nil
		}
		if final != nil && final.Approved() {
			o.runsApproved.Add(ctx, 1)
		}
		o.notify(func(obs Observer) { obs.RunFinished(runID, final) })
	}()

	ctx, span := o.tracer.Start(ctx, "planner.run")
	defer span.End()
	o.runsStarted.Add(ctx, 1)

	userBudget := budget.Extract(prompt)
	tracker := limits.NewTrackerAt(o.limits, o.now)
	state := plan.NewState()
	state.UserBudgetRange = userBudget

	logger.Info("starting planning run",
		"budget", userBudget.String(),
		"max_cycles", o.limits.MaxRevisionCycles,
		"max_api_calls", o.limits.MaxAPICalls)
	o.notify(func(obs Observer) { obs.RunStarted(runID, prompt) })

	for tracker.Cycle() < o.limits.MaxRevisionCycles {
		cycle := tracker.BeginCycle()
		if !tracker.WithinDeadline() {
			logger.Warn("duration limit reached before cycle start", "cycle", cycle)
			break
		}

		result, activated, err := o.runCycle(ctx, logger, runID, cycle, prompt, state, tracker)
		if err != nil {
			logger.Error("cycle failed", "cycle", cycle, "error", err)
			return nil
		}
		state = result
		state.UserBudgetRange = userBudget
		o.cyclesRun.Add(ctx, 1)

		if o.limits.EarlyTermination && state.Approved() && len(activated) >= minRolesForEarlyApproval {
			logger.Info("plan approved early", "cycle", cycle, "roles_activated", len(activated))
			o.notify(func(obs Observer) { obs.CycleCompleted(runID, cycle, tracker.Status()) })
			return state
		}

		if !activated[o.plannerRole] {
			logger.Info("planner role never activated, synthesizing itinerary", "cycle", cycle)
			synthesizeItinerary(prompt, state)
		}
		if !activated[o.validatorRole] {
			logger.Info("validation role never activated, synthesizing verdict", "cycle", cycle)
			o.synthesizeValidation(state, userBudget)
		}

		if o.rules != nil {
			for _, v := range o.rules.Evaluate(state) {
				state.RecordQualityIssue("rule violated: "+v.Rule, v.Severity)
			}
		}

		o.notify(func(obs Observer) { obs.CycleCompleted(runID, cycle, tracker.Status()) })

		if state.Approved() {
			logger.Info("plan approved", "cycle", cycle)
			return state
		}

		pending := state.PendingRevisions()
		if len(pending) == 0 {
			logger.Warn("no approval and no pending revisions, stopping", "cycle", cycle)
			break
		}

		logger.Info("revisions requested, starting next cycle",
			"cycle", cycle, "pending", len(pending))
		prompt += revisionBlock(pending)
		tracker.CountRevision()
	}

	logger.Info("planning run finished without approval",
		"cycles", tracker.Cycle(), "api_calls", tracker.APICalls())
	return state
}

// runCycle executes one traversal of the agent graph and returns the
// resulting state plus the set of roles that activated. An error here means
// the runtime itself failed and the whole run is lost.
func (o *Orchestrator) runCycle(
	ctx context.Context,
	logger *slog.Logger,
	runID string,
	cycle int,
	prompt string,
	state *plan.State,
	tracker *limits.Tracker,
) (*plan.State, map[string]bool, error) {
	ctx, span := o.tracer.Start(ctx, "planner.cycle",
		trace.WithAttributes(attribute.Int("cycle", cycle)))
	defer span.End()

	handle, err := o.engine.Run(ctx, prompt, state, o.limits.MaxIterations)
	if err != nil {
		return nil, nil, fmt.Errorf("runtime run failed: %w", err)
	}

	activated := make(map[string]bool)
	lastRole := ""
	drained := true
	for ev := range handle.Events() {
		o.eventsSeen.Add(ctx, 1)
		if o.consumeEvent(logger, runID, cycle, ev, tracker, activated, &lastRole) {
			drained = false
			break
		}
	}

	if drained {
		if err := handle.Wait(ctx); err != nil {
			return nil, nil, fmt.Errorf("cycle execution failed: %w", err)
		}
	}

	result, err := handle.State()
	if err != nil {
		logger.Warn("state retrieval failed, using synthetic state", "cycle", cycle, "error", err)
		result = plan.ErrorState(fmt.Sprintf("state access failed: %v", err))
	}
	return result, activated, nil
}

// consumeEvent processes one stream event and reports whether consumption
// should stop. A panic while handling the event is absorbed so one malformed
// event cannot abort an otherwise-healthy cycle.
func (o *Orchestrator) consumeEvent(
	logger *slog.Logger,
	runID string,
	cycle int,
	ev runtime.Event,
	tracker *limits.Tracker,
	activated map[string]bool,
	lastRole *string,
) (stop bool) {
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("skipping malformed event", "cycle", cycle, "panic", r)
			stop = false
		}
	}()

	if !tracker.WithinDeadline() {
		logger.Warn("duration limit reached mid-cycle", "cycle", cycle)
		return true
	}

	switch ev.Type {
	case runtime.EventToolInvoked:
		if !tracker.IncrementAPICall() {
			logger.Warn("api call limit reached", "cycle", cycle, "calls", tracker.APICalls())
			return true
		}
		o.notify(func(obs Observer) { obs.ToolInvoked(runID, cycle, ev.Tool) })
		if o.limits.EarlyTermination && ev.Tool == o.approveTool && len(activated) >= minRolesForEarlyApproval {
			logger.Info("approval tool invoked with sufficient coverage, stopping stream",
				"cycle", cycle, "roles_activated", len(activated))
			return true
		}

	case runtime.EventAgentChanged:
		if ev.Role != *lastRole {
			*lastRole = ev.Role
			if !activated[ev.Role] {
				activated[ev.Role] = true
				logger.Debug("role activated", "cycle", cycle, "role", ev.Role)
				o.notify(func(obs Observer) { obs.RoleActivated(runID, cycle, ev.Role) })
			}
		}
	}
	return false
}

// notify invokes an observer callback, absorbing panics so a broken observer
// cannot abort a run.
func (o *Orchestrator) notify(fn func(Observer)) {
	defer func() {
		if r := recover(); r != nil {
			o.logger.Warn("observer callback failed", "panic", r)
		}
	}()
	fn(o.observer)
}

// revisionBlock formats pending revision requests as the plain-text block
// appended to the next cycle's prompt.
func revisionBlock(pending []plan.RevisionRequest) string {
	var b strings.Builder
	b.WriteString("\n\nREVISION REQUIREMENTS:\n")
	for _, r := range pending {
		fmt.Fprintf(&b, "- %s: %s\n", r.Agent, r.Request)
	}
	return b.String()
}
