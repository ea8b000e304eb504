package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Ollama talks to the native Ollama generate API. The native API is used
// instead of the OpenAI-compatible one because it accepts top_k and
// repeat_penalty.
type Ollama struct {
	baseURL string
	opts    Options
	client  *http.Client
}

func NewOllama(baseURL string, timeout time.Duration, opts Options) *Ollama {
	return &Ollama{
		baseURL: baseURL,
		opts:    opts,
		client:  &http.Client{Timeout: timeout},
	}
}

type ollamaOptions struct {
	Temperature   float32 `json:"temperature"`
	NumPredict    int     `json:"num_predict"`
	TopK          int     `json:"top_k"`
	TopP          float32 `json:"top_p"`
	RepeatPenalty float32 `json:"repeat_penalty"`
}

type ollamaGenerateRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	System  string        `json:"system,omitempty"`
	Stream  bool          `json:"stream"`
	Options ollamaOptions `json:"options"`
}

type ollamaGenerateResponse struct {
	Response string `json:"response"`
	Error    string `json:"error"`
}

func (o *Ollama) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(ollamaGenerateRequest{
		Model:  o.opts.Model,
		Prompt: prompt,
		System: o.opts.System,
		Stream: false,
		Options: ollamaOptions{
			Temperature:   o.opts.Temperature,
			NumPredict:    o.opts.MaxTokens,
			TopK:          o.opts.TopK,
			TopP:          o.opts.TopP,
			RepeatPenalty: o.opts.RepeatPenalty,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode generate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("%w: generate returned %s: %s", ErrUnavailable, resp.Status, raw)
	}

	var out ollamaGenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode generate response: %w", err)
	}
	if out.Error != "" {
		return "", fmt.Errorf("%w: %s", ErrUnavailable, out.Error)
	}

	return out.Response, nil
}
