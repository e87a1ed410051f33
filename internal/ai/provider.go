// Package ai backs spec.md §4.7's AiService: a named set of chat-completion
// Providers, configured at runtime via ConfigService-style key/value
// secrets, exposed to the Event Pipeline Engine through the small
// builtin.AIResponder interface and to PluginService indirectly through
// GenerateChat.
package ai

import "context"

// Message is one turn of a chat-completion request.
type Message struct {
	Role    string // "system", "user", "assistant"
	Content string
}

// ChatRequest is the provider-agnostic shape GenerateChat and the
// ai_respond pipeline action both funnel through.
type ChatRequest struct {
	Model       string
	Messages    []Message
	MaxTokens   int
	Temperature float32
}

// Provider is one configured backend capable of generating a chat
// completion. Grounded on AI/shared/httpclient's Config/Client pairing:
// each Provider owns its own retrying HTTP client and base URL/API key,
// the way the teacher's services each built one httpclient.Client per
// upstream dependency.
type Provider interface {
	Name() string
	GenerateChat(ctx context.Context, req ChatRequest) (string, error)
}
