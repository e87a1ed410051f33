// Package pipeline implements the Event Pipeline Engine of spec.md §4.5:
// priority-ordered pipeline selection, filter chains, action chains with
// retries/timeouts/conditions, shared per-execution state, and execution
// logging. Grounded on the teacher's CQRS command-bus idiom
// (shared/cqrs.CommandBus), generalized from one handler per command name
// to a priority-ordered, persisted chain of filters and actions.
package pipeline

import (
	"fmt"
	"strings"

	"github.com/maowbot/maowbot/internal/events"
)

// RenderTemplate substitutes {platform}, {channel}, {user}, {message},
// {text}, {event_type} and any {key} present in shared data with a string
// value. Unknown placeholders are left intact (spec.md §4.5).
func RenderTemplate(tmpl string, event events.BotEvent, shared map[string]interface{}) string {
	fields := map[string]string{
		"platform":   event.Platform(),
		"event_type": string(event.Kind),
	}
	if event.ChatMessage != nil {
		fields["channel"] = event.ChatMessage.Channel
		fields["user"] = event.ChatMessage.User
		fields["message"] = event.ChatMessage.Text
		fields["text"] = event.ChatMessage.Text
	}
	for k, v := range shared {
		if s, ok := v.(string); ok {
			fields[k] = s
		}
	}

	out := tmpl
	for k, v := range fields {
		out = strings.ReplaceAll(out, fmt.Sprintf("{%s}", k), v)
	}
	return out
}
