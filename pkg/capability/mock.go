package capability

import (
	"context"
	"sync"
)

// MockCall records one invocation seen by a Mock client.
type MockCall struct {
	Operation string
	Body      map[string]any
}

// Mock is a scriptable in-process client for tests. Operations without a
// scripted response return {"status": "ok"}.
type Mock struct {
	mu        sync.Mutex
	responses map[string]map[string]any
	failures  map[string][]error
	calls     []MockCall
}

// NewMock creates an empty mock client.
func NewMock() *Mock {
	return &Mock{
		responses: make(map[string]map[string]any),
		failures:  make(map[string][]error),
	}
}

// Respond scripts the successful response for an operation.
func (m *Mock) Respond(operation string, body map[string]any) *Mock {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[operation] = body
	return m
}

// FailTimes scripts the next n calls to an operation to return err before
// any scripted success applies.
func (m *Mock) FailTimes(operation string, n int, err error) *Mock {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := 0; i < n; i++ {
		m.failures[operation] = append(m.failures[operation], err)
	}
	return m
}

// Call records the invocation and returns the scripted outcome.
func (m *Mock) Call(_ context.Context, operation string, body map[string]any) (map[string]any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, MockCall{Operation: operation, Body: body})

	if queue := m.failures[operation]; len(queue) > 0 {
		err := queue[0]
		m.failures[operation] = queue[1:]
		return nil, err
	}
	if resp, ok := m.responses[operation]; ok {
		return resp, nil
	}
	return map[string]any{"status": "ok"}, nil
}

// Calls returns the invocations recorded so far, in order.
func (m *Mock) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]MockCall(nil), m.calls...)
}

// CallCount reports how many times an operation was invoked.
func (m *Mock) CallCount(operation string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, call := range m.calls {
		if call.Operation == operation {
			count++
		}
	}
	return count
}
