package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAICompat generates through any endpoint speaking the OpenAI chat API,
// including Ollama's /v1 and llama.cpp server. TopK and RepeatPenalty have
// no counterpart in that API and are not sent.
type OpenAICompat struct {
	client *openai.Client
	opts   Options
}

func NewOpenAICompat(baseURL, apiKey string, timeout time.Duration, opts Options) *OpenAICompat {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	cfg.HTTPClient = &http.Client{Timeout: timeout}

	return &OpenAICompat{
		client: openai.NewClientWithConfig(cfg),
		opts:   opts,
	}
}

func (c *OpenAICompat) Generate(ctx context.Context, prompt string) (string, error) {
	messages := []openai.ChatCompletionMessage{}
	if c.opts.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: c.opts.System,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt,
	})

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.opts.Model,
		Messages:    messages,
		Temperature: c.opts.Temperature,
		TopP:        c.opts.TopP,
		MaxTokens:   c.opts.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrUnavailable, err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("completion returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}
