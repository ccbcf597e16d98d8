package driven

import "context"

// Generator provides external text generation for grounded answers.
// This is an optional service - when nil, answers degrade gracefully
// to the synthesized form built from ranked chunks.
//
// Implementations may include:
//   - Anthropic (Claude)
//   - OpenAI-compatible endpoints (OpenAI, LM Studio, Ollama)
//   - A failover chain across ordered model variants
type Generator interface {
	// Generate produces text completion from a prompt.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight
	// test request. Used at startup before committing to online answers.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// GenerateOptions configures text generation behaviour.
type GenerateOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64

	// StopWords are sequences that stop generation when encountered.
	StopWords []string
}
