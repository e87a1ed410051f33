package pipeline

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/maowbot/maowbot/internal/events"
)

func TestRenderTemplateSubstitutesKnownFields(t *testing.T) {
	t.Parallel()

	event := events.NewChatMessage("twitch", "#general", "alice", "!ping")
	got := RenderTemplate("pong @{user} in {channel}", event, nil)
	require.Equal(t, "pong @alice in #general", got)
}

func TestRenderTemplateLeavesUnknownPlaceholdersIntact(t *testing.T) {
	t.Parallel()

	event := events.NewTick()
	got := RenderTemplate("value={unknown_key}", event, nil)
	require.Equal(t, "value={unknown_key}", got)
}

func TestRenderTemplateSubstitutesSharedData(t *testing.T) {
	t.Parallel()

	event := events.NewChatMessage("twitch", "#general", "alice", "!ping")
	shared := map[string]interface{}{"ai_response": "hello there"}
	got := RenderTemplate("bot says: {ai_response}", event, shared)
	require.Equal(t, "bot says: hello there", got)
}
