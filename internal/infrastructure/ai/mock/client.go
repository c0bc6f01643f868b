// Package mock provides a scriptable AI client for tests and local
// development without an API key.
package mock

import (
	"context"
	"sync"

	"github.com/mealsync/api/internal/ports/outbound"
	apperrors "github.com/mealsync/api/pkg/errors"
)

// Client replays canned responses in order. When the script runs out it
// returns the last response again.
type Client struct {
	mu        sync.Mutex
	responses []string
	err       error
	calls     int

	// Prompts records every prompt received, for assertions.
	Prompts []string
}

// NewClient creates a mock AI client with the given scripted responses.
func NewClient(responses ...string) *Client {
	return &Client{responses: responses}
}

// NewFailingClient creates a mock AI client that always fails.
func NewFailingClient(err error) *Client {
	if err == nil {
		err = apperrors.NewInternal("mock AI failure")
	}
	return &Client{err: err}
}

// GenerateText returns the next scripted response.
func (c *Client) GenerateText(ctx context.Context, prompt string, opts outbound.GenerateOptions) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.Prompts = append(c.Prompts, prompt)
	if c.err != nil {
		return "", c.err
	}
	if len(c.responses) == 0 {
		return "", apperrors.NewInternal("mock AI has no scripted responses")
	}

	idx := c.calls
	if idx >= len(c.responses) {
		idx = len(c.responses) - 1
	}
	c.calls++
	return c.responses[idx], nil
}

// CallCount returns how many times GenerateText was invoked.
func (c *Client) CallCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}
