package capability

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// CallError wraps a capability call failure with classification metadata.
// Temporary errors are safe to retry; everything else is terminal, including
// errors whose retry budget has been exhausted.
type CallError struct {
	Group     string
	Operation string
	Status    int
	Temporary bool
	Exhausted bool
	Err       error
}

func (e *CallError) Error() string {
	if e == nil {
		return "capability call error"
	}
	prefix := fmt.Sprintf("%s/%s", e.Group, e.Operation)
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", prefix, e.Err)
	}
	return fmt.Sprintf("%s: status=%d", prefix, e.Status)
}

func (e *CallError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IsTransient reports whether an error is safe to retry.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var callErr *CallError
	if errors.As(err, &callErr) {
		if callErr.Exhausted {
			return false
		}
		if callErr.Temporary {
			return true
		}
		if callErr.Status == 429 || (callErr.Status >= 500 && callErr.Status <= 599) {
			return true
		}
	}
	return false
}

// IsTerminal reports whether an error is a capability failure that will not
// succeed on retry: a client-side response, a malformed payload, or a
// transient failure whose attempts ran out.
func IsTerminal(err error) bool {
	var callErr *CallError
	if !errors.As(err, &callErr) {
		return false
	}
	return !IsTransient(err)
}
