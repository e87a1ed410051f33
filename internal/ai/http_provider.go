package ai

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/maowbot/maowbot/internal/httpclient"
)

// HTTPProviderConfig configures one OpenAI-compatible chat-completions
// endpoint. Groq, OpenAI, and most local inference servers (Ollama's
// /v1/chat/completions shim, vLLM) all speak this same request/response
// shape, so one HTTPProvider implementation covers all of them.
type HTTPProviderConfig struct {
	Name       string
	BaseURL    string // e.g. "https://api.openai.com/v1"
	APIKey     string
	HTTPConfig *httpclient.Config
}

// HTTPProvider calls an OpenAI-compatible /chat/completions endpoint,
// grounded on AI/shared/httpclient's Config/Client pairing and
// shared/httpclient's retry-then-decode Do/PostJSON idiom.
type HTTPProvider struct {
	name    string
	baseURL string
	apiKey  string
	client  *httpclient.Client
}

// NewHTTPProvider builds an HTTPProvider. A nil cfg.HTTPConfig uses
// httpclient.DefaultConfig.
func NewHTTPProvider(cfg HTTPProviderConfig) *HTTPProvider {
	return &HTTPProvider{
		name:    cfg.Name,
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		client:  httpclient.New(cfg.HTTPConfig),
	}
}

func (p *HTTPProvider) Name() string { return p.name }

// WithHTTPClient swaps the underlying httpclient.Client, letting tests
// inject a fake RoundTripper instead of hitting the network.
func (p *HTTPProvider) WithHTTPClient(c *httpclient.Client) *HTTPProvider {
	p.client = c
	return p
}

type chatCompletionMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string                  `json:"model"`
	Messages    []chatCompletionMessage `json:"messages"`
	MaxTokens   int                     `json:"max_tokens,omitempty"`
	Temperature float32                 `json:"temperature,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatCompletionMessage `json:"message"`
	} `json:"choices"`
}

func (p *HTTPProvider) GenerateChat(ctx context.Context, req ChatRequest) (string, error) {
	body := chatCompletionRequest{
		Model:       req.Model,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}
	for _, m := range req.Messages {
		body.Messages = append(body.Messages, chatCompletionMessage{Role: m.Role, Content: m.Content})
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("encode chat completion request: %w", err)
	}

	headers := map[string]string{"Authorization": "Bearer " + p.apiKey}
	respBody, err := p.client.PostJSON(ctx, p.baseURL+"/chat/completions", payload, headers)
	if err != nil {
		return "", fmt.Errorf("%s chat completion: %w", p.name, err)
	}

	var parsed chatCompletionResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("decode %s chat completion response: %w", p.name, err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("%s chat completion: empty choices", p.name)
	}
	return parsed.Choices[0].Message.Content, nil
}
