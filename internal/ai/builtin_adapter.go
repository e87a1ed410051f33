package ai

import (
	"context"

	"github.com/maowbot/maowbot/internal/pipeline/builtin"
)

// Respond implements builtin.AIResponder so Manager can be passed directly
// as Dependencies.AI when wiring the pipeline engine's ai_respond action.
func (m *Manager) Respond(ctx context.Context, req builtin.AIRequest) (string, error) {
	return m.Generate(ctx, req.ProviderID, req.Model, req.SystemPrompt, req.Prompt, req.MaxTokens, req.Temperature)
}

var _ builtin.AIResponder = (*Manager)(nil)
