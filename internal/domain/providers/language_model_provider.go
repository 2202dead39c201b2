package providers

import "context"

// LanguageModelProvider is the external generative-language API
type LanguageModelProvider interface {
	// GenerateText returns a free-text completion for prompt under the system instruction
	GenerateText(ctx context.Context, systemInstruction, prompt string) (string, error)

	// ExtractStructured returns JSON conforming to schema
	ExtractStructured(ctx context.Context, systemInstruction, prompt string, schema map[string]interface{}) ([]byte, error)
}
