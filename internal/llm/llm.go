package llm

import (
	"context"
	"errors"
)

// Prompt is one completion request.
type Prompt struct {
	System string
	User   string
	// Temperature is passed through when the backend supports it.
	Temperature float32
}

// Client abstracts text-completion backends.
type Client interface {
	Complete(ctx context.Context, prompt Prompt) (string, error)
}

// ErrNotConfigured is returned by the placeholder client.
var ErrNotConfigured = errors.New("analysis provider not configured")

// PlaceholderClient stands in when no provider credentials are set.
type PlaceholderClient struct{}

// Complete returns ErrNotConfigured.
func (PlaceholderClient) Complete(ctx context.Context, prompt Prompt) (string, error) {
	_ = ctx
	_ = prompt
	return "", ErrNotConfigured
}

// ClientFunc adapts a function to Client.
type ClientFunc func(ctx context.Context, prompt Prompt) (string, error)

func (f ClientFunc) Complete(ctx context.Context, prompt Prompt) (string, error) {
	return f(ctx, prompt)
}
