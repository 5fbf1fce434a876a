package runstore

import (
	"context"
	"errors"

	"github.com/avencia/stageline/pkg/state"
)

// ErrNotFound is returned when a run record does not exist.
var ErrNotFound = errors.New("run record not found")

// Store persists run records for audit. Every implementation also satisfies
// the engine's Persister.
type Store interface {
	Persist(ctx context.Context, record *state.RunRecord) error
	Get(ctx context.Context, runID string) (*state.RunRecord, error)
	ListByTicket(ctx context.Context, ticketID string) ([]*state.RunRecord, error)
	Close() error
}
