package responder

import (
	"context"
	"strings"
	"testing"
)

func TestTemplateComposeWithAnswer(t *testing.T) {
	r := NewTemplateResponder()
	reply, err := r.Compose(context.Background(), Draft{
		CustomerName: "Asha",
		Query:        "invoice delayed",
		LatestAnswer: "INV-9876, check billing cycle",
		KBSnippets:   []string{"Invoices are due in 30 days."},
	})
	if err != nil {
		t.Fatalf("compose: %v", err)
	}

	if !strings.HasPrefix(reply, "Hi Asha,") {
		t.Fatalf("greeting missing: %q", reply)
	}
	if !strings.Contains(reply, "INV-9876, check billing cycle") {
		t.Fatalf("answer missing: %q", reply)
	}
	if !strings.Contains(reply, "Invoices are due in 30 days.") {
		t.Fatalf("kb snippet missing: %q", reply)
	}
	if !strings.HasSuffix(reply, "Regards,\nSupport Team") {
		t.Fatalf("signoff missing: %q", reply)
	}
}

func TestTemplateComposeWithoutAnswerUsesQuery(t *testing.T) {
	r := NewTemplateResponder()
	reply, err := r.Compose(context.Background(), Draft{Query: "password reset"})
	if err != nil {
		t.Fatalf("compose: %v", err)
	}

	if !strings.HasPrefix(reply, "Hi Customer,") {
		t.Fatalf("anonymous greeting missing: %q", reply)
	}
	if !strings.Contains(reply, "password reset") {
		t.Fatalf("query fallback missing: %q", reply)
	}
}

func TestTemplateIsDeterministic(t *testing.T) {
	r := NewTemplateResponder()
	draft := Draft{CustomerName: "Asha", Query: "q", LatestAnswer: "a"}

	first, err := r.Compose(context.Background(), draft)
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	second, err := r.Compose(context.Background(), draft)
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	if first != second {
		t.Fatalf("template output must be deterministic")
	}
}

func TestTemplateName(t *testing.T) {
	if got := NewTemplateResponder().Name(); got != "template" {
		t.Fatalf("unexpected name %q", got)
	}
}
