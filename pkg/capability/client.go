package capability

import (
	"context"
	"fmt"
	"time"
)

// Client invokes named operations on one external service group.
type Client interface {
	Call(ctx context.Context, operation string, body map[string]any) (map[string]any, error)
}

// RetryConfig bounds the retry loop around every outbound call.
type RetryConfig struct {
	Attempts int
	BaseWait time.Duration
	MaxWait  time.Duration
}

// DefaultRetryConfig mirrors the service defaults: three attempts, one second
// base backoff, ten seconds cap.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{Attempts: 3, BaseWait: time.Second, MaxWait: 10 * time.Second}
}

// backoff computes the delay before the next attempt:
// min(MaxWait, BaseWait * 2^(attempt-1)), attempts counted from 1.
func (c RetryConfig) backoff(attempt int) time.Duration {
	wait := c.BaseWait
	for i := 1; i < attempt; i++ {
		wait *= 2
		if wait >= c.MaxWait {
			return c.MaxWait
		}
	}
	if wait > c.MaxWait {
		return c.MaxWait
	}
	return wait
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Set routes calls to the client registered for each service group. A Set is
// built once at startup and read concurrently by every run.
type Set struct {
	groups map[string]Client
}

// NewSet creates an empty service-group set.
func NewSet() *Set {
	return &Set{groups: make(map[string]Client)}
}

// Add registers the client for a service group, replacing any previous one.
func (s *Set) Add(group string, client Client) {
	s.groups[group] = client
}

// Group returns the client registered for a service group.
func (s *Set) Group(name string) (Client, bool) {
	client, ok := s.groups[name]
	return client, ok
}

// Call resolves the group and invokes the operation on it.
func (s *Set) Call(ctx context.Context, group, operation string, body map[string]any) (map[string]any, error) {
	client, ok := s.groups[group]
	if !ok {
		return nil, fmt.Errorf("unknown service group %q", group)
	}
	return client.Call(ctx, operation, body)
}
