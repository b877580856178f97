package driven

import "context"

// LLMService produces chat completions. It is optional: without one,
// newsletter sections keep the source text and legal opinions are
// unavailable.
//
// Implementations include OpenAI, Anthropic and a local Ollama instance.
type LLMService interface {
	// Chat returns the assistant reply to a conversation.
	Chat(ctx context.Context, messages []ChatMessage, opts ChatOptions) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Close releases resources.
	Close() error
}

// Chat roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage represents a single message in a conversation.
type ChatMessage struct {
	// Role is one of RoleSystem, RoleUser or RoleAssistant.
	Role string

	// Content is the message text.
	Content string
}

// ChatOptions configures chat behaviour.
type ChatOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64

	// JSON asks for a single JSON object as the reply, where the
	// provider supports it.
	JSON bool
}
