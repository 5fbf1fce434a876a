package responder

import "context"

// Draft carries what the CREATE stage knows when composing the
// customer-facing reply.
type Draft struct {
	CustomerName string
	Query        string
	LatestAnswer string
	KBSnippets   []string
}

// Responder composes the reply text for a draft.
type Responder interface {
	// Compose produces the reply body for the draft.
	Compose(ctx context.Context, draft Draft) (string, error)

	// Name returns the responder's identifier.
	Name() string
}
