// Package llm generates the final answer from the rendered prompt.
package llm

import "context"

// Request is one provider-agnostic generation request.
type Request struct {
	System string
	Prompt string
}

// Provider is a language model backend.
type Provider interface {
	// Generate returns the model's text for the request.
	Generate(ctx context.Context, req *Request) (string, error)

	// Ping verifies the provider is reachable and credentialed.
	Ping(ctx context.Context) error
}
