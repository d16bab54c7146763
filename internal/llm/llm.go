package llm

import "context"

// Options carries optional generation parameters for a single exchange.
type Options struct {
	Temperature *float64
	MaxTokens   *int
	Seed        *int
}

// Client is a minimal chat interface to allow pluggable providers.
type Client interface {
	// Respond sends one user message to the named model and returns the
	// assistant's reply. One call is one round trip; errors propagate
	// unretried.
	Respond(ctx context.Context, model, message string, opts *Options) (string, error)

	// Models lists the model names the provider can serve.
	Models(ctx context.Context) ([]string, error)

	// Ensure makes the named model available for Respond, downloading it
	// if the provider supports that. Providers without local model
	// management treat this as a no-op.
	Ensure(ctx context.Context, model string) error
}
