// Package planner coordinates a pipeline of cooperating AI agents that
// produce a travel itinerary, validate it against budget and requirement
// constraints, and drive bounded revision cycles until the plan is approved
// or its resource limits run out.
//
// The package is organized around a small set of concerns:
//
//   - budget: best-effort extraction of a budget range from prose requests
//   - limits: per-run resource limits and the tracker that accounts them
//   - roles: the fixed role set and its validated hand-off graph
//   - plan: the shared plan state mutated by agent tools during a run
//   - runtime: the contract between the orchestrator and the agent engine
//   - orchestrator: the revision-loop state machine and fallback synthesis
//   - rules: optional CEL quality rules evaluated after each cycle
//   - cache: Redis-backed result cache keyed by request parameters
//   - status: etcd-backed live run-status registry
//
// A minimal host looks like:
//
//	engine := myagents.NewRuntime() // implements runtime.Runtime
//	p := planner.New(engine,
//	    planner.WithLimits(limits.Default()),
//	    planner.WithLogger(slog.Default()),
//	)
//
//	state, err := p.Plan(ctx, "Plan a trip to Tokyo. Budget: $800 - $1200.")
//	if err != nil {
//	    // The run failed outright; no partial state exists.
//	    return err
//	}
//	fmt.Println(state.Render())
//
// Plan always returns a usable state unless the run failed completely: when
// the agent graph stalls before reaching the planner or validation roles,
// the orchestrator synthesizes the missing itinerary and verdict itself.
// Callers distinguish an approved plan from an exhausted revision budget by
// inspecting the state's verdict, not by error handling.
package planner
