package builtin

import (
	"context"
	"fmt"

	"github.com/maowbot/maowbot/internal/domain"
	"github.com/maowbot/maowbot/internal/events"
	"github.com/maowbot/maowbot/internal/logger"
	"github.com/maowbot/maowbot/internal/registry"
)

// ChatSender is the subset of the Platform Runtime Manager's outbound API
// the discord_message and twitch_message actions need.
type ChatSender interface {
	SendTwitchMessage(ctx context.Context, account, channel, text string, replyToMessageID string) error
	SendDiscordMessage(ctx context.Context, account, guildID, channelID, text string) error
}

// OSCSender is the subset of the VRChat OSC runtime the osc_trigger action
// needs.
type OSCSender interface {
	SetParameter(ctx context.Context, path string, value float32, resetAfterMs *int64) error
}

// AIRequest carries an ai_respond action's rendered prompt to a provider.
type AIRequest struct {
	ProviderID   string
	Model        string
	SystemPrompt string
	Prompt       string
	MaxTokens    int
	Temperature  float32
}

// AIResponder is the subset of the AiService the ai_respond action needs.
type AIResponder interface {
	Respond(ctx context.Context, req AIRequest) (string, error)
}

// PluginCaller is the subset of the Plugin Host the plugin_call action
// needs.
type PluginCaller interface {
	Call(ctx context.Context, pluginID, functionName string, params map[string]interface{}, event events.BotEvent) (map[string]interface{}, error)
}

// TemplateRenderer abstracts internal/pipeline.RenderTemplate so this
// package does not import internal/pipeline (which imports this package),
// avoiding a cycle.
type TemplateRenderer func(tmpl string, event events.BotEvent, shared map[string]interface{}) string

// Dependencies bundles everything the built-in action handlers call out
// to. All fields are optional: an action whose dependency is nil reports a
// Failed result rather than panicking, the way a misconfigured teacher
// usecase returns an error instead of dereferencing a nil client.
type Dependencies struct {
	Chat     ChatSender
	OSC      OSCSender
	AI       AIResponder
	Plugins  PluginCaller
	Render   TemplateRenderer
	SharedOf func(ctx context.Context) map[string]interface{}
}

// RegisterActions registers the built-in action types spec.md §4.5
// requires: log, discord_message, twitch_message, osc_trigger, ai_respond,
// plugin_call.
func RegisterActions(reg *registry.Registry, deps Dependencies) {
	log := logger.New("pipeline.actions")

	reg.RegisterAction(actionEntry("log", "Writes the event to the observability sink at a configured level."),
		func(ctx context.Context, action domain.PipelineAction, event events.BotEvent) (registry.ActionResult, error) {
			level := getString(action.ActionConfig, "level")
			switch level {
			case "error":
				log.Error("pipeline log action: %s %v", event.Kind, event.Platform())
			default:
				log.Info("pipeline log action: %s %v", event.Kind, event.Platform())
			}
			return registry.ActionResult{}, nil
		})

	reg.RegisterAction(actionEntry("discord_message", "Sends a rendered message template to a Discord channel."),
		func(ctx context.Context, action domain.PipelineAction, event events.BotEvent) (registry.ActionResult, error) {
			if deps.Chat == nil {
				return registry.ActionResult{}, fmt.Errorf("no chat sender configured")
			}
			account := getString(action.ActionConfig, "account")
			guildID := getString(action.ActionConfig, "guild_id")
			channelID := getString(action.ActionConfig, "channel_id")
			text := deps.Render(getString(action.ActionConfig, "message_template"), event, sharedOf(deps, ctx))
			return registry.ActionResult{}, deps.Chat.SendDiscordMessage(ctx, account, guildID, channelID, text)
		})

	reg.RegisterAction(actionEntry("twitch_message", "Sends a rendered message template to a Twitch channel."),
		func(ctx context.Context, action domain.PipelineAction, event events.BotEvent) (registry.ActionResult, error) {
			if deps.Chat == nil {
				return registry.ActionResult{}, fmt.Errorf("no chat sender configured")
			}
			account := getString(action.ActionConfig, "account")
			channel := getString(action.ActionConfig, "channel")
			if channel == "" && event.ChatMessage != nil {
				channel = event.ChatMessage.Channel
			}
			text := deps.Render(getString(action.ActionConfig, "message_template"), event, sharedOf(deps, ctx))
			replyTo := ""
			if getBool(action.ActionConfig, "reply_to_message") && event.ChatMessage != nil {
				replyTo = event.ChatMessage.Metadata["message_id"]
			}
			return registry.ActionResult{}, deps.Chat.SendTwitchMessage(ctx, account, channel, text, replyTo)
		})

	reg.RegisterAction(actionEntry("osc_trigger", "Sets a VRChat OSC avatar parameter, optionally resetting it after a delay."),
		func(ctx context.Context, action domain.PipelineAction, event events.BotEvent) (registry.ActionResult, error) {
			if deps.OSC == nil {
				return registry.ActionResult{}, fmt.Errorf("no OSC sender configured")
			}
			path := getString(action.ActionConfig, "parameter_path")
			value := getFloat32(action.ActionConfig, "value")
			var resetAfter *int64
			if v, ok := action.ActionConfig["duration_ms"]; ok {
				if ms := toInt64(v); ms > 0 {
					resetAfter = &ms
				}
			}
			return registry.ActionResult{}, deps.OSC.SetParameter(ctx, path, value, resetAfter)
		})

	reg.RegisterAction(actionEntry("ai_respond", "Renders a prompt template, calls the configured AI provider, and optionally sends the response as chat."),
		func(ctx context.Context, action domain.PipelineAction, event events.BotEvent) (registry.ActionResult, error) {
			if deps.AI == nil {
				return registry.ActionResult{}, fmt.Errorf("no AI responder configured")
			}
			shared := sharedOf(deps, ctx)
			req := AIRequest{
				ProviderID:   getString(action.ActionConfig, "provider_id"),
				Model:        getString(action.ActionConfig, "model"),
				SystemPrompt: getString(action.ActionConfig, "system_prompt"),
				Prompt:       deps.Render(getString(action.ActionConfig, "prompt_template"), event, shared),
				MaxTokens:    getInt(action.ActionConfig, "max_tokens", 256),
				Temperature:  getFloat32(action.ActionConfig, "temperature"),
			}
			reply, err := deps.AI.Respond(ctx, req)
			if err != nil {
				return registry.ActionResult{}, err
			}
			prefix := getString(action.ActionConfig, "response_prefix")
			full := prefix + reply
			if getBool(action.ActionConfig, "send_response") && deps.Chat != nil && event.ChatMessage != nil {
				if err := deps.Chat.SendTwitchMessage(ctx, "", event.ChatMessage.Channel, full, ""); err != nil {
					return registry.ActionResult{}, err
				}
			}
			return registry.ActionResult{OutputData: map[string]interface{}{"ai_response": full}}, nil
		})

	reg.RegisterAction(actionEntry("plugin_call", "Invokes a registered plugin function, optionally passing the triggering event."),
		func(ctx context.Context, action domain.PipelineAction, event events.BotEvent) (registry.ActionResult, error) {
			if deps.Plugins == nil {
				return registry.ActionResult{}, fmt.Errorf("no plugin caller configured")
			}
			pluginID := getString(action.ActionConfig, "plugin_id")
			functionName := getString(action.ActionConfig, "function_name")
			params, _ := action.ActionConfig["parameters"].(map[string]interface{})
			passEvent := getBool(action.ActionConfig, "pass_event")
			var passed events.BotEvent
			if passEvent {
				passed = event
			}
			out, err := deps.Plugins.Call(ctx, pluginID, functionName, params, passed)
			if err != nil {
				return registry.ActionResult{}, err
			}
			return registry.ActionResult{OutputData: out}, nil
		})
}

func actionEntry(name, desc string) domain.HandlerRegistryEntry {
	return domain.HandlerRegistryEntry{
		HandlerName:     name,
		HandlerCategory: "action",
		Description:     &desc,
		IsBuiltin:       true,
		IsEnabled:       true,
	}
}

func sharedOf(deps Dependencies, ctx context.Context) map[string]interface{} {
	if deps.SharedOf == nil {
		return nil
	}
	return deps.SharedOf(ctx)
}

func toInt64(v interface{}) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case float64:
		return int64(n)
	}
	return 0
}
