// Package roles defines the fixed set of planning roles and the directed
// hand-off graph between them.
//
// The graph is static configuration: it is validated once at construction
// (every hand-off target must name a known role) and never changes during a
// run. The orchestrator consults it to know where a run starts and which
// roles are responsible for itinerary synthesis and validation.
package roles

import (
	"errors"
	"fmt"
	"sort"
)

// Well-known role names from the standard travel-planning graph.
const (
	GeneralResearch     = "GeneralResearchAgent"
	Weather             = "WeatherAgent"
	Flight              = "FlightAgent"
	Accommodations      = "AccommodationsAgent"
	BudgetAnalysis      = "BudgetAnalysisAgent"
	Activities          = "ActivitiesAgent"
	LocalEvents         = "LocalEventsAgent"
	LocalTransportation = "LocalTransportationAgent"
	TravelPlanner       = "TravelPlannerAgent"
	Validation          = "ValidationAgent"
	QualityControl      = "QualityControlAgent"
)

// Common errors returned by graph construction.
var (
	// ErrDuplicateRole is returned when two specs share a name.
	ErrDuplicateRole = errors.New("roles: duplicate role name")

	// ErrUnknownTarget is returned when a hand-off edge points at a role
	// that does not exist.
	ErrUnknownTarget = errors.New("roles: hand-off target not defined")

	// ErrUnknownRoot is returned when the designated root is not in the set.
	ErrUnknownRoot = errors.New("roles: root role not defined")
)

// Spec describes one role: its unique name, the roles it is allowed to hand
// off to, and metadata that is opaque to the orchestration core.
type Spec struct {
	// Name is the unique identifier for this role.
	Name string `yaml:"name" json:"name"`

	// Description explains the role's responsibility. Opaque to the core.
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// HandoffTargets names the roles this role may transfer control to.
	HandoffTargets []string `yaml:"handoff_to,omitempty" json:"handoff_to,omitempty"`

	// Tools names the tools available to this role. Opaque to the core.
	Tools []string `yaml:"tools,omitempty" json:"tools,omitempty"`
}

// Graph is the validated, immutable hand-off graph with a designated entry
// role.
type Graph struct {
	root  string
	specs map[string]Spec
	order []string
}

// NewGraph validates the specs and builds a graph rooted at the named role.
// It fails if names collide, if any hand-off edge targets an unknown role,
// or if the root itself is unknown.
func NewGraph(root string, specs []Spec) (*Graph, error) {
	byName := make(map[string]Spec, len(specs))
	order := make([]string, 0, len(specs))
	for _, spec := range specs {
		if _, exists := byName[spec.Name]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateRole, spec.Name)
		}
		byName[spec.Name] = spec
		order = append(order, spec.Name)
	}

	if _, ok := byName[root]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRoot, root)
	}

	for _, spec := range specs {
		for _, target := range spec.HandoffTargets {
			if _, ok := byName[target]; !ok {
				return nil, fmt.Errorf("%w: %s -> %s", ErrUnknownTarget, spec.Name, target)
			}
		}
	}

	return &Graph{root: root, specs: byName, order: order}, nil
}

// Root returns the designated entry role.
func (g *Graph) Root() string {
	return g.root
}

// Spec returns the spec for a role, if it exists.
func (g *Graph) Spec(name string) (Spec, bool) {
	s, ok := g.specs[name]
	return s, ok
}

// Names returns all role names in the order the specs were supplied.
func (g *Graph) Names() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// Len returns the number of roles in the graph.
func (g *Graph) Len() int {
	return len(g.specs)
}

// CanHandoff reports whether the graph permits a direct hand-off from one
// role to another.
func (g *Graph) CanHandoff(from, to string) bool {
	spec, ok := g.specs[from]
	if !ok {
		return false
	}
	for _, target := range spec.HandoffTargets {
		if target == to {
			return true
		}
	}
	return false
}

// Reachable returns the set of roles reachable from the root by following
// hand-off edges, sorted by name.
func (g *Graph) Reachable() []string {
	seen := map[string]bool{g.root: true}
	queue := []string{g.root}
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		for _, target := range g.specs[name].HandoffTargets {
			if !seen[target] {
				seen[target] = true
				queue = append(queue, target)
			}
		}
	}

	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Orphans returns roles that cannot be reached from the root, sorted by
// name. A well-formed planning graph has none.
func (g *Graph) Orphans() []string {
	reachable := map[string]bool{}
	for _, name := range g.Reachable() {
		reachable[name] = true
	}

	var orphans []string
	for name := range g.specs {
		if !reachable[name] {
			orphans = append(orphans, name)
		}
	}
	sort.Strings(orphans)
	return orphans
}
