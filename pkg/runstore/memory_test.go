package runstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/avencia/stageline/pkg/state"
)

func testRecord(runID, ticketID string) *state.RunRecord {
	return &state.RunRecord{
		RunID:     runID,
		TicketID:  ticketID,
		Input:     state.Input{TicketID: ticketID, Query: "q"},
		Final:     state.Payload{TicketID: ticketID, Status: "closed"},
		Log:       []string{"STAGE INTAKE (sequential)"},
		CreatedAt: time.Now().UTC(),
	}
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if _, err := store.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := store.Persist(ctx, testRecord("r-1", "T-1")); err != nil {
		t.Fatalf("persist: %v", err)
	}
	record, err := store.Get(ctx, "r-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if record.TicketID != "T-1" || record.Final.Status != "closed" {
		t.Fatalf("unexpected record %+v", record)
	}
}

func TestMemoryStoreListByTicket(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	for _, id := range []string{"r-1", "r-2"} {
		if err := store.Persist(ctx, testRecord(id, "T-1")); err != nil {
			t.Fatalf("persist %s: %v", id, err)
		}
	}
	if err := store.Persist(ctx, testRecord("r-3", "T-2")); err != nil {
		t.Fatalf("persist r-3: %v", err)
	}

	records, err := store.ListByTicket(ctx, "T-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 2 || records[0].RunID != "r-1" || records[1].RunID != "r-2" {
		t.Fatalf("unexpected listing %v", records)
	}

	records, err = store.ListByTicket(ctx, "T-9")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected no records, got %d", len(records))
	}
}

func TestMemoryStoreReplacesSameRun(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	first := testRecord("r-1", "T-1")
	if err := store.Persist(ctx, first); err != nil {
		t.Fatalf("persist: %v", err)
	}
	second := testRecord("r-1", "T-1")
	second.Final.Status = "escalated"
	if err := store.Persist(ctx, second); err != nil {
		t.Fatalf("persist: %v", err)
	}

	record, err := store.Get(ctx, "r-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if record.Final.Status != "escalated" {
		t.Fatalf("replacement not applied: %+v", record.Final)
	}

	records, err := store.ListByTicket(ctx, "T-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("replacement must not duplicate listings, got %d", len(records))
	}
}
