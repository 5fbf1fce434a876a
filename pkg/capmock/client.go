package capmock

import "context"

// Client is an in-process capability client with the simulated semantics.
// Operations without a specific simulation return a generic ok response, the
// way the real services acknowledge unrecognized abilities.
type Client struct {
	group string
	ops   map[string]opFunc
}

// NewClient creates a simulated client for one service group.
func NewClient(group string) (*Client, error) {
	ops, err := opsFor(group)
	if err != nil {
		return nil, err
	}
	return &Client{group: group, ops: ops}, nil
}

// Call runs the simulated operation.
func (c *Client) Call(_ context.Context, operation string, body map[string]any) (map[string]any, error) {
	if fn, ok := c.ops[operation]; ok {
		return fn(body), nil
	}
	return map[string]any{"status": "ok", "ability": operation, "server": c.group}, nil
}
