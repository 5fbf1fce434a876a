package ability

import (
	"context"
	"testing"

	"github.com/avencia/stageline/pkg/state"
)

func TestRegistryResolve(t *testing.T) {
	reg := NewRegistry()

	if _, ok := reg.Resolve("accept_payload"); ok {
		t.Fatalf("empty registry must miss")
	}

	reg.Register("accept_payload", func(context.Context, *state.RunState, Invocation) (Result, error) {
		return Result{Status: "ok"}, nil
	})
	handler, ok := reg.Resolve("accept_payload")
	if !ok || handler == nil {
		t.Fatalf("expected registered handler")
	}
}

func TestRegistryReplaceAndNames(t *testing.T) {
	reg := NewRegistry()
	reg.Register("b", func(context.Context, *state.RunState, Invocation) (Result, error) {
		return Result{Status: "first"}, nil
	})
	reg.Register("a", func(context.Context, *state.RunState, Invocation) (Result, error) {
		return Result{}, nil
	})
	reg.Register("b", func(context.Context, *state.RunState, Invocation) (Result, error) {
		return Result{Status: "second"}, nil
	})

	names := reg.Names()
	if len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Fatalf("unexpected names %v", names)
	}

	handler, _ := reg.Resolve("b")
	res, err := handler(context.Background(), state.New(state.Input{}), Invocation{})
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if res.Status != "second" {
		t.Fatalf("re-registration must replace, got %q", res.Status)
	}
}

func TestRegisterAllCoversTheDefaultGraph(t *testing.T) {
	suite := NewSuite(nil, nil, nil)
	reg := NewRegistry()
	suite.RegisterAll(reg)

	if got := len(reg.Names()); got != 20 {
		t.Fatalf("expected 20 builtin abilities, got %d", got)
	}
	for _, name := range []string{"accept_payload", "solution_evaluation", "close_ticket", "output_payload"} {
		if _, ok := reg.Resolve(name); !ok {
			t.Fatalf("missing builtin handler %s", name)
		}
	}
}
