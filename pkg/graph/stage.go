package graph

// Mode selects how a stage executes its abilities.
type Mode string

const (
	// ModeSequential runs abilities strictly in declared order.
	ModeSequential Mode = "sequential"
	// ModeHuman runs like sequential but marks a human-in-the-loop stage.
	ModeHuman Mode = "human"
	// ModeDecision runs a fixed decision protocol selected by DecisionRule.
	ModeDecision Mode = "decision"
)

// Known reports whether the mode is one of the defined execution modes.
func (m Mode) Known() bool {
	switch m {
	case ModeSequential, ModeHuman, ModeDecision:
		return true
	}
	return false
}

// Service groups an ability can target.
const (
	GroupLocal  = "local"
	GroupCommon = "common"
	GroupAtlas  = "atlas"
)

// RuleScoreThenMaybeEscalate is the only defined decision rule: score the
// candidate solutions, escalate when the score falls below the closure
// threshold, then record the decision.
const RuleScoreThenMaybeEscalate = "score_then_maybe_escalate"

// AbilityRef names one unit of work inside a stage and the service group its
// handler talks to.
type AbilityRef struct {
	Name        string `yaml:"name"`
	Group       string `yaml:"group,omitempty"`
	Description string `yaml:"description,omitempty"`
}

// Stage is a single named step of the run graph. Immutable after the graph is
// built; the engine never reorders stages or abilities at run time.
type Stage struct {
	Name         string       `yaml:"name"`
	Mode         Mode         `yaml:"mode"`
	Abilities    []AbilityRef `yaml:"abilities"`
	DecisionRule string       `yaml:"decision_rule,omitempty"`
}
