package service

import (
	"context"

	"settlr/internal/model"
)

// CompletionClient is the interface for chat completion providers
type CompletionClient interface {
	// Complete sends the transcript and returns the assistant text
	Complete(ctx context.Context, messages []model.ConversationMessage) (string, error)

	// CompleteStream streams the reply; the callback receives (thinkingContent, regularContent)
	// for each chunk. Returns the accumulated regular content.
	CompleteStream(ctx context.Context, messages []model.ConversationMessage, callback func(thinking, content string) error) (string, error)

	// Model returns the model identifier requests are sent with
	Model() string

	// IsEnabled returns whether the client is configured and ready
	IsEnabled() bool
}

// Embedder generates embeddings for texts
type Embedder interface {
	CreateEmbeddings(ctx context.Context, texts []string) ([][]float32, error)
}

// StreamChunk represents a generic streaming response chunk
type StreamChunk struct {
	// Regular content (always present in streaming)
	Content string

	// Thinking/reasoning content (provider-specific, e.g. DeepSeek R1 on OpenRouter)
	ThinkingContent string

	// Role (assistant, user, system)
	Role string

	// Whether this is the final chunk
	Done bool
}

// StreamChunkParser is the interface for provider-specific chunk parsing
type StreamChunkParser interface {
	ParseChunk(data []byte) (*StreamChunk, error)
}

// Ensure the concrete clients implement their interfaces
var (
	_ CompletionClient = (*OpenAIClient)(nil)
	_ Embedder         = (*EmbeddingClient)(nil)
)
