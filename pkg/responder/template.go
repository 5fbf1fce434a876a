package responder

import (
	"context"
	"fmt"
	"strings"
)

// TemplateResponder composes replies deterministically from the draft fields.
// It is the default backend and the fallback when a model backend fails.
type TemplateResponder struct{}

// NewTemplateResponder creates the deterministic template backend.
func NewTemplateResponder() *TemplateResponder {
	return &TemplateResponder{}
}

// Name returns the responder identifier.
func (r *TemplateResponder) Name() string {
	return "template"
}

// Compose renders the support reply from the draft.
func (r *TemplateResponder) Compose(_ context.Context, draft Draft) (string, error) {
	name := draft.CustomerName
	if name == "" {
		name = "Customer"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Hi %s,\n\n", name)
	if draft.LatestAnswer != "" {
		fmt.Fprintf(&sb, "Thanks for contacting us. Based on your message: '%s'.\n", draft.LatestAnswer)
	} else {
		fmt.Fprintf(&sb, "Thanks for contacting support about: %s\n", draft.Query)
	}
	if kb := strings.Join(draft.KBSnippets, " "); kb != "" {
		sb.WriteString(kb)
		sb.WriteString("\n")
	}
	sb.WriteString("\nRegards,\nSupport Team")
	return sb.String(), nil
}
