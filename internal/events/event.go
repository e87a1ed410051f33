// Package events defines BotEvent, the normalized tagged union every
// platform runtime publishes onto the Event Bus (spec.md §4.1). The
// teacher's events were one concrete struct per domain
// (services/twitchbot-service/pkg/events.StreamEvent, MessageEvent, ...);
// here they are unified into a single closed variant type so the bus,
// pipeline engine and plugin host can all operate on one wire shape.
package events

import "time"

// Kind discriminates BotEvent's variants.
type Kind string

const (
	KindChatMessage     Kind = "chat_message"
	KindTick            Kind = "tick"
	KindSystemMessage   Kind = "system_message"
	KindTwitchEventSub  Kind = "twitch_eventsub"
	KindDiscordEvent    Kind = "discord_event"
)

// ChatMessage is the canonical normalized chat event produced by every
// chat-capable platform runtime.
type ChatMessage struct {
	Platform  string
	Channel   string
	User      string
	Text      string
	Timestamp time.Time
	Metadata  map[string]string
}

// DiscordEventKind enumerates the Discord gateway events the platform
// runtime translates onto the bus.
type DiscordEventKind string

const (
	DiscordMessageCreate DiscordEventKind = "message_create"
	DiscordReactionAdd   DiscordEventKind = "reaction_add"
	DiscordMemberJoin    DiscordEventKind = "member_join"
	DiscordVoiceUpdate   DiscordEventKind = "voice_state_update"
)

// DiscordEventData carries one normalized Discord gateway event.
type DiscordEventData struct {
	Kind      DiscordEventKind
	GuildID   string
	ChannelID string
	UserID    string
	Username  string
	Content   string
	Raw       map[string]interface{}
}

// BotEvent is the tagged union published on the Event Bus. Exactly one of
// the payload fields is populated, matching Kind.
type BotEvent struct {
	Kind Kind

	ChatMessage    *ChatMessage
	SystemMessage  string
	TwitchEventSub *TwitchEventSubData
	DiscordEvent   *DiscordEventData
}

// NewChatMessage builds a BotEvent wrapping a ChatMessage.
func NewChatMessage(platform, channel, user, text string) BotEvent {
	return BotEvent{
		Kind: KindChatMessage,
		ChatMessage: &ChatMessage{
			Platform:  platform,
			Channel:   channel,
			User:      user,
			Text:      text,
			Timestamp: time.Now().UTC(),
			Metadata:  map[string]string{},
		},
	}
}

// NewTick builds the periodic Tick BotEvent.
func NewTick() BotEvent { return BotEvent{Kind: KindTick} }

// NewSystemMessage builds a SystemMessage BotEvent, used to surface
// terminal connection failures and other operator-visible notices.
func NewSystemMessage(msg string) BotEvent {
	return BotEvent{Kind: KindSystemMessage, SystemMessage: msg}
}

// NewTwitchEventSub wraps a parsed EventSub notification.
func NewTwitchEventSub(data TwitchEventSubData) BotEvent {
	return BotEvent{Kind: KindTwitchEventSub, TwitchEventSub: &data}
}

// NewDiscordEvent wraps a normalized Discord gateway event.
func NewDiscordEvent(data DiscordEventData) BotEvent {
	return BotEvent{Kind: KindDiscordEvent, DiscordEvent: &data}
}

// Platform returns the originating platform name for filter/routing
// purposes, or "" if the event carries no platform (e.g. Tick).
func (e BotEvent) Platform() string {
	switch e.Kind {
	case KindChatMessage:
		return e.ChatMessage.Platform
	case KindTwitchEventSub:
		return "twitch"
	case KindDiscordEvent:
		return "discord"
	default:
		return ""
	}
}
