package openai

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/docrag/docrag/internal/domain/entity"
)

// ChatClient generates completions through an OpenAI-compatible API.
type ChatClient struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
	topP        float32
}

func NewChatClient(apiKey, baseURL, model string, temperature float64, maxTokens int, topP float64) *ChatClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &ChatClient{
		client:      openai.NewClientWithConfig(cfg),
		model:       model,
		temperature: float32(temperature),
		maxTokens:   maxTokens,
		topP:        float32(topP),
	}
}

// Complete runs a single completion over the already-filled prompt.
func (c *ChatClient) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
		TopP:        c.topP,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", entity.ErrLLMProvider, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: empty completion response", entity.ErrLLMProvider)
	}
	return resp.Choices[0].Message.Content, nil
}
