package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/avencia/stageline/pkg/ability"
	"github.com/avencia/stageline/pkg/decision"
	"github.com/avencia/stageline/pkg/graph"
	"github.com/avencia/stageline/pkg/state"
)

// Persister durably records a finished (or failed) run. Implementations live
// outside the engine; failures are logged and never change a run's outcome.
type Persister interface {
	Persist(ctx context.Context, record *state.RunRecord) error
}

// Options configures an Engine.
type Options struct {
	Graph     *graph.Graph
	Registry  *ability.Registry
	Persister Persister
	Logger    func(format string, args ...any)
}

// RunOptions configures a single run.
type RunOptions struct {
	// SimulatedAnswer, when set, is captured verbatim by the answer-capture
	// ability instead of calling the capability service.
	SimulatedAnswer string
}

// RunResult carries a completed run back to the caller.
type RunResult struct {
	RunID string
	Final state.Payload
	Log   []string
}

// Engine drives runs over a fixed stage graph. An Engine is built once and
// may execute many runs concurrently; each run owns its RunState exclusively.
type Engine struct {
	graph     *graph.Graph
	registry  *ability.Registry
	persister Persister
	logger    func(format string, args ...any)
}

// New builds an engine. A nil graph means the default support graph.
func New(opts Options) (*Engine, error) {
	g := opts.Graph
	if g == nil {
		g = graph.Default()
	}
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("invalid graph: %w", err)
	}
	if opts.Registry == nil {
		return nil, fmt.Errorf("ability registry is required")
	}
	return &Engine{
		graph:     g,
		registry:  opts.Registry,
		persister: opts.Persister,
		logger:    opts.Logger,
	}, nil
}

// Run executes the full stage sequence over one input payload. On success it
// returns the final payload and the run log; on any handler error it persists
// the partial state first and then returns the error.
func (e *Engine) Run(ctx context.Context, input state.Input, opts RunOptions) (*RunResult, error) {
	st := state.New(input)

	runErr := e.execute(ctx, st, input, opts)
	if runErr != nil {
		st.Appendf("run failed: %v", runErr)
	}

	e.persist(ctx, st.Record())

	if runErr != nil {
		return nil, fmt.Errorf("run %s: %w", st.RunID, runErr)
	}
	return &RunResult{
		RunID: st.RunID,
		Final: st.Payload.Clone(),
		Log:   st.Log(),
	}, nil
}

func (e *Engine) execute(ctx context.Context, st *state.RunState, input state.Input, opts RunOptions) error {
	for i := range e.graph.Stages {
		stage := &e.graph.Stages[i]

		if err := ctx.Err(); err != nil {
			return fmt.Errorf("run cancelled before stage %s: %w", stage.Name, err)
		}

		st.Appendf("STAGE %s (%s)", stage.Name, stage.Mode)

		switch stage.Mode {
		case graph.ModeSequential, graph.ModeHuman:
			if err := e.runSequential(ctx, st, stage, input, opts); err != nil {
				return err
			}
		case graph.ModeDecision:
			if err := e.runDecision(ctx, st, stage, input, opts); err != nil {
				return err
			}
		default:
			st.Appendf("unknown stage mode %q, skipping %s", stage.Mode, stage.Name)
			e.logf("stage %s: unknown mode %q, skipped", stage.Name, stage.Mode)
		}
	}
	return nil
}

// runSequential executes the stage's abilities strictly in declared order.
// Human stages differ only in what the graph declares, not in how the engine
// drives them.
func (e *Engine) runSequential(ctx context.Context, st *state.RunState, stage *graph.Stage, input state.Input, opts RunOptions) error {
	for _, ref := range stage.Abilities {
		if err := e.invoke(ctx, st, stage, ref, input, opts); err != nil {
			return err
		}
	}
	return nil
}

// runDecision executes the stage's fixed decision protocol. The only defined
// rule scores first, escalates only below the closure threshold, and records
// the decision unconditionally; declared ability order is irrelevant to it.
// Unknown rules fall back to plain declared-order execution.
func (e *Engine) runDecision(ctx context.Context, st *state.RunState, stage *graph.Stage, input state.Input, opts RunOptions) error {
	if stage.DecisionRule != graph.RuleScoreThenMaybeEscalate {
		st.Appendf("unknown decision rule %q, running abilities in declared order", stage.DecisionRule)
		return e.runSequential(ctx, st, stage, input, opts)
	}

	if err := e.invoke(ctx, st, stage, graph.AbilityRef{Name: graph.AbilitySolutionEvaluation, Group: graph.GroupLocal}, input, opts); err != nil {
		return err
	}

	score := 100
	if st.Payload.Decision != nil {
		score = st.Payload.Decision.Score
	}

	if score < decision.ClosureThreshold {
		if err := e.invoke(ctx, st, stage, graph.AbilityRef{Name: graph.AbilityEscalationDecision, Group: graph.GroupAtlas}, input, opts); err != nil {
			return err
		}
	} else {
		st.Appendf("escalation skipped, score>=90 (score=%d)", score)
	}

	return e.invoke(ctx, st, stage, graph.AbilityRef{Name: graph.AbilityUpdatePayload, Group: graph.GroupLocal}, input, opts)
}

// invoke resolves and runs one ability. A registry miss is non-fatal: it logs
// and the stage moves on. Handler errors abort the run.
func (e *Engine) invoke(ctx context.Context, st *state.RunState, stage *graph.Stage, ref graph.AbilityRef, input state.Input, opts RunOptions) error {
	handler, ok := e.registry.Resolve(ref.Name)
	if !ok {
		st.Appendf("missing implementation %s", ref.Name)
		e.logf("stage %s: ability %s has no handler", stage.Name, ref.Name)
		return nil
	}

	inv := ability.Invocation{Ref: ref}
	if ref.Name == graph.AbilityAcceptPayload {
		in := input
		inv.Input = &in
	}
	if ref.Name == graph.AbilityExtractAnswer {
		inv.SimulatedAnswer = opts.SimulatedAnswer
	}

	res, err := handler(ctx, st, inv)
	if err != nil {
		st.Appendf("ability %s failed: %v", ref.Name, err)
		return fmt.Errorf("stage %s ability %s: %w", stage.Name, ref.Name, err)
	}

	if res.Detail != "" {
		st.Appendf("-> %s: %s (%s)", ref.Name, res.Status, res.Detail)
	} else {
		st.Appendf("-> %s: %s", ref.Name, res.Status)
	}
	return nil
}

// persist hands the record to the external persistence collaborator. Errors
// are logged only; they never replace the run's own outcome. A cancelled run
// still gets a bounded best-effort persistence attempt.
func (e *Engine) persist(ctx context.Context, record *state.RunRecord) {
	if e.persister == nil {
		return
	}

	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	if err := e.persister.Persist(pctx, record); err != nil {
		e.logf("persist run %s failed (non-fatal): %v", record.RunID, err)
	}
}

func (e *Engine) logf(format string, args ...any) {
	if e.logger != nil {
		e.logger(format, args...)
	}
}
