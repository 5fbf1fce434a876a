package decision

import "math/rand/v2"

// ClosureThreshold is the score at which a ticket can be closed without a
// human. Anything below it escalates.
const ClosureThreshold = 90

const (
	baseScore           = 70
	kbBonusPerHit       = 10
	kbBonusCap          = 20
	highPriorityPenalty = 10
	jitterBound         = 3
)

// PriorityHigh is the normalized priority value that lowers the score.
const PriorityHigh = "HIGH"

// Policy holds the scoring, escalation and closure rules applied by the
// DECIDE stage. The jitter source is injectable so tests stay deterministic.
type Policy struct {
	jitter func() int
}

// NewPolicy creates a policy with a symmetric random jitter in ±3.
func NewPolicy() *Policy {
	return &Policy{
		jitter: func() int {
			return rand.IntN(2*jitterBound+1) - jitterBound
		},
	}
}

// NewPolicyWithJitter creates a policy with a caller-supplied jitter source.
func NewPolicyWithJitter(jitter func() int) *Policy {
	if jitter == nil {
		return NewPolicy()
	}
	return &Policy{jitter: jitter}
}

// Score rates the run's solution candidates on a 0-100 scale: a base of 70,
// up to 20 bonus for knowledge-base hits, minus 10 for HIGH priority, plus
// jitter, clamped into [0, 100].
func (p *Policy) Score(kbHits int, priority string) int {
	score := baseScore
	bonus := kbHits * kbBonusPerHit
	if bonus > kbBonusCap {
		bonus = kbBonusCap
	}
	score += bonus
	if priority == PriorityHigh {
		score -= highPriorityPenalty
	}
	return clamp(score+p.jitter(), 0, 100)
}

// NeedsEscalation reports whether the score requires a human assignee.
func (p *Policy) NeedsEscalation(score int) bool {
	return score < ClosureThreshold
}

// EligibleForClosure reports whether the ticket may be closed.
func (p *Policy) EligibleForClosure(score int) bool {
	return score >= ClosureThreshold
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
