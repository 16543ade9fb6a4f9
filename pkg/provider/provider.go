// Package provider defines the narrow port the search orchestrator uses to
// talk to a hosted language model with web search grounding, plus the Gemini
// implementation of it.
package provider

import "context"

// DefaultModel is the model used when a request does not name one.
const DefaultModel = "gemini-2.5-flash"

// Request is a single "generate content" call.
type Request struct {
	// APIKey authenticates the call. Implementations may cache clients per key.
	APIKey string
	Model  string
	Prompt string
	// WebSearch enables the provider's own web search grounding.
	WebSearch bool
}

// Citation is one grounding reference. Either field may be empty when the
// provider omitted it.
type Citation struct {
	Title string
	URI   string
}

// Response carries the narrative answer and the grounding citations in the
// order the provider returned them.
type Response struct {
	Text      string
	Citations []Citation
}

// Provider generates grounded content for a prompt.
type Provider interface {
	Generate(ctx context.Context, req Request) (*Response, error)
}

// Func adapts a function to the Provider interface.
type Func func(ctx context.Context, req Request) (*Response, error)

// Generate calls f.
func (f Func) Generate(ctx context.Context, req Request) (*Response, error) {
	return f(ctx, req)
}
