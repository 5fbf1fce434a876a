package engine

import (
	"context"
	"testing"

	"github.com/avencia/stageline/pkg/ability"
	"github.com/avencia/stageline/pkg/capability"
	"github.com/avencia/stageline/pkg/capmock"
	"github.com/avencia/stageline/pkg/decision"
	"github.com/avencia/stageline/pkg/graph"
	"github.com/avencia/stageline/pkg/runstore"
	"github.com/avencia/stageline/pkg/state"
)

// fullEngine wires the default graph against the simulated capability
// services, the way the CLI does it in mock mode.
func fullEngine(t *testing.T, store runstore.Store) *Engine {
	t.Helper()

	set := capability.NewSet()
	for _, group := range []string{graph.GroupCommon, graph.GroupAtlas} {
		client, err := capmock.NewClient(group)
		if err != nil {
			t.Fatalf("capmock client %s: %v", group, err)
		}
		set.Add(group, client)
	}

	suite := ability.NewSuite(set, decision.NewPolicy(), nil)
	reg := ability.NewRegistry()
	suite.RegisterAll(reg)

	var persister Persister
	if store != nil {
		persister = store
	}
	eng, err := New(Options{Registry: reg, Persister: persister})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return eng
}

func TestFullRunOverDefaultGraph(t *testing.T) {
	store := runstore.NewMemoryStore()
	eng := fullEngine(t, store)

	input := state.Input{
		CustomerName: "Asha Rao",
		Email:        "asha@example.com",
		Query:        "invoice INV-9876 is delayed",
		Priority:     "high",
		TicketID:     "tckt-1",
	}
	result, err := eng.Run(context.Background(), input, RunOptions{SimulatedAnswer: "INV-9876, check billing cycle"})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	final := result.Final
	if final.Priority != "HIGH" {
		t.Fatalf("priority not normalized: %q", final.Priority)
	}
	if final.TicketID != "TCKT-1" {
		t.Fatalf("ticket id not normalized: %q", final.TicketID)
	}
	if final.LatestAnswer != "INV-9876, check billing cycle" {
		t.Fatalf("simulated answer not carried through: %q", final.LatestAnswer)
	}
	if final.Decision == nil {
		t.Fatalf("expected a decision")
	}
	score := final.Decision.Score
	if score < 0 || score > 100 {
		t.Fatalf("score %d out of range", score)
	}

	// With a HIGH priority and the kb bonus capped at 20, the score lands at
	// 80 plus jitter and the run always escalates without closing.
	if score >= decision.ClosureThreshold {
		t.Fatalf("unexpected score %d for this input", score)
	}
	if final.Decision.EscalatedTo == "" {
		t.Fatalf("expected an escalation assignee")
	}
	if final.Status == "closed" {
		t.Fatalf("escalated run must not be closed")
	}
	if final.GeneratedResponse == "" {
		t.Fatalf("expected a drafted reply")
	}
	if len(final.Audit) != 1 {
		t.Fatalf("expected exactly one audit entry, got %d", len(final.Audit))
	}
	if !logContains(result.Log, "STAGE INTAKE (sequential)") || !logContains(result.Log, "STAGE COMPLETE (sequential)") {
		t.Fatalf("stage entries missing from log: %v", result.Log)
	}

	record, err := store.Get(context.Background(), result.RunID)
	if err != nil {
		t.Fatalf("persisted record: %v", err)
	}
	if record.TicketID != "TCKT-1" {
		t.Fatalf("record carries the normalized ticket id, got %q", record.TicketID)
	}
	if record.Input.TicketID != "tckt-1" {
		t.Fatalf("record keeps the caller's original input, got %q", record.Input.TicketID)
	}
	if record.Final.Decision == nil || record.Final.Decision.Score != score {
		t.Fatalf("persisted payload diverges from result")
	}
}

func TestFullRunClosesHighScoringTicket(t *testing.T) {
	set := capability.NewSet()
	for _, group := range []string{graph.GroupCommon, graph.GroupAtlas} {
		client, err := capmock.NewClient(group)
		if err != nil {
			t.Fatalf("capmock client %s: %v", group, err)
		}
		set.Add(group, client)
	}

	// Pin jitter high so a normal-priority ticket with two kb hits reaches the
	// closure threshold.
	policy := decision.NewPolicyWithJitter(func() int { return 3 })
	suite := ability.NewSuite(set, policy, nil)
	reg := ability.NewRegistry()
	suite.RegisterAll(reg)

	eng, err := New(Options{Registry: reg})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	input := state.Input{
		CustomerName: "Asha Rao",
		Email:        "asha@example.com",
		Query:        "billing invoice is delayed",
		Priority:     "normal",
		TicketID:     "tckt-2",
	}
	result, err := eng.Run(context.Background(), input, RunOptions{SimulatedAnswer: "resolved via kb"})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	final := result.Final
	if final.Decision == nil || final.Decision.Score < decision.ClosureThreshold {
		t.Fatalf("expected closure-eligible score, got %+v", final.Decision)
	}
	if final.Decision.EscalatedTo != "" {
		t.Fatalf("closure-eligible run must not escalate")
	}
	if final.Status != "closed" {
		t.Fatalf("expected closed ticket, got %q", final.Status)
	}
	if !logContains(result.Log, "escalation skipped") {
		t.Fatalf("skip entry missing from log: %v", result.Log)
	}
}
