package outbound

import "context"

// AIClient is a thin port over an LLM text-generation API. Prompt
// construction and response parsing belong to the application layer so
// the adapter stays model-agnostic.
type AIClient interface {
	// GenerateText sends the prompt and returns the raw model output.
	GenerateText(ctx context.Context, prompt string, opts GenerateOptions) (string, error)
}

// GenerateOptions tunes a single generation call.
type GenerateOptions struct {
	// Model overrides the client's default model when non-empty.
	Model string

	Temperature     float32
	MaxOutputTokens int32
}
