package ability

import (
	"context"
	"sort"

	"github.com/avencia/stageline/pkg/graph"
	"github.com/avencia/stageline/pkg/state"
)

// Result is the small record every handler returns. Status is a short tag
// ("ok", "escalated", ...); Detail is an optional summary the engine puts in
// the run log on the handler's behalf.
type Result struct {
	Status string
	Detail string
}

// Invocation carries the per-call context the engine passes alongside the
// shared state: the declared ability reference plus the two per-ability
// overrides the graph defines.
type Invocation struct {
	Ref graph.AbilityRef

	// Input is the original caller payload; set only for the accept-input
	// ability.
	Input *state.Input

	// SimulatedAnswer replaces the human answer capture; set only for the
	// answer-capture ability.
	SimulatedAnswer string
}

// Handler executes one ability against the shared run state. Handlers may
// read and mutate the payload and may call capability services; they must not
// append to the run log themselves.
type Handler func(ctx context.Context, st *state.RunState, inv Invocation) (Result, error)

// Registry maps ability names to handlers. Built once at startup and read
// concurrently by every run; a lookup miss is a modeled outcome, not a crash.
type Registry struct {
	handlers map[string]Handler
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// Register binds a handler to an ability name, replacing any previous one.
func (r *Registry) Register(name string, handler Handler) {
	r.handlers[name] = handler
}

// Resolve looks up the handler for an ability name.
func (r *Registry) Resolve(name string) (Handler, bool) {
	handler, ok := r.handlers[name]
	return handler, ok
}

// Names returns the registered ability names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
