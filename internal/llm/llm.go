package llm

import (
	"context"
	"errors"
)

// Client abstracts text-generation providers for letter drafting.
type Client interface {
	Complete(ctx context.Context, input CompleteInput) (string, error)
}

// CompleteInput is one chat-style completion request.
type CompleteInput struct {
	System string
	Prompt string
}

// ErrNotConfigured is returned by the placeholder client.
var ErrNotConfigured = errors.New("llm provider not configured")

// PlaceholderClient is a stub used when no provider is wired.
type PlaceholderClient struct{}

func (PlaceholderClient) Complete(ctx context.Context, input CompleteInput) (string, error) {
	_ = ctx
	_ = input
	return "", ErrNotConfigured
}
