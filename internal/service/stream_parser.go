package service

import (
	"encoding/json"
	"strings"

	"github.com/sirupsen/logrus"
)

// streamDelta is the union of the delta fields the supported providers send
type streamDelta struct {
	Choices []struct {
		Delta struct {
			Role             string  `json:"role,omitempty"`
			Content          string  `json:"content,omitempty"`
			Reasoning        *string `json:"reasoning,omitempty"`
			ReasoningContent *string `json:"reasoning_content,omitempty"`
		} `json:"delta"`
		FinishReason *string `json:"finish_reason,omitempty"`
	} `json:"choices"`
}

func decodeDelta(data []byte, withReasoning bool) (*StreamChunk, error) {
	var raw streamDelta
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	chunk := &StreamChunk{}
	if len(raw.Choices) == 0 {
		return chunk, nil
	}

	choice := raw.Choices[0]
	chunk.Role = choice.Delta.Role
	chunk.Content = choice.Delta.Content
	chunk.Done = choice.FinishReason != nil && *choice.FinishReason != ""

	if withReasoning {
		switch {
		case choice.Delta.Reasoning != nil:
			chunk.ThinkingContent = *choice.Delta.Reasoning
		case choice.Delta.ReasoningContent != nil:
			chunk.ThinkingContent = *choice.Delta.ReasoningContent
		}
	}
	return chunk, nil
}

// OpenAIStreamChunkParser reads plain OpenAI deltas; reasoning fields are ignored
type OpenAIStreamChunkParser struct{}

func (p *OpenAIStreamChunkParser) ParseChunk(data []byte) (*StreamChunk, error) {
	return decodeDelta(data, false)
}

// OpenRouterStreamChunkParser also surfaces a reasoning model's thinking,
// sent as "reasoning" by OpenRouter or "reasoning_content" by DeepSeek upstream
type OpenRouterStreamChunkParser struct{}

func (p *OpenRouterStreamChunkParser) ParseChunk(data []byte) (*StreamChunk, error) {
	return decodeDelta(data, true)
}

// IsOpenAIProvider checks if the base URL is official OpenAI API
func IsOpenAIProvider(baseURL string) bool {
	return strings.Contains(baseURL, "api.openai.com")
}

// IsOpenRouterProvider checks if the base URL is the OpenRouter API
func IsOpenRouterProvider(baseURL string) bool {
	return strings.Contains(baseURL, "openrouter.ai")
}

// chunkParserFor picks the parser for a base URL. Unknown providers get the
// plain OpenAI format.
func chunkParserFor(baseURL string) StreamChunkParser {
	switch {
	case IsOpenRouterProvider(baseURL):
		logrus.Info("🔧 Detected OpenRouter API provider (supports reasoning/thinking)")
		return &OpenRouterStreamChunkParser{}
	case IsOpenAIProvider(baseURL):
		logrus.Info("🔧 Detected OpenAI API provider")
	default:
		logrus.Infof("🔧 Using standard OpenAI format for: %s", baseURL)
	}
	return &OpenAIStreamChunkParser{}
}
