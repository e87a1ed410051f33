// Package plugin implements the Plugin Host: a bidirectional streaming
// session that admits external and in-process plugins, authenticates them
// with a passphrase, grants capabilities from a policy table, and fans out
// chat events and keepalive ticks.
//
// The session protocol is transport-agnostic: internal/rpc's gRPC
// PluginService wraps a grpc.ServerStream in a Session, and in-process
// plugins get a Session backed by Go channels (grounded on the idea that
// both variants sit behind one uniform connection contract, the way the
// teacher's shared/grpc interceptors wrap grpc.ServerStream rather than
// branch on transport).
package plugin

import "time"

// Capability gates which frames a plugin may send and which broadcasts it
// receives.
type Capability string

const (
	CapReceiveChatEvents Capability = "ReceiveChatEvents"
	CapSendChat          Capability = "SendChat"
	CapReadStatus        Capability = "ReadStatus"
	CapAdmin             Capability = "Admin"
	CapAiIntegration     Capability = "AiIntegration"
)

// Client -> Host frames.

type Hello struct {
	PluginName string
	Passphrase string
}

type RequestCaps struct {
	Requested []Capability
}

type LogMessage struct {
	Text string
}

type SendChat struct {
	Channel string
	Text    string
}

type Shutdown struct{}

type SwitchAccount struct {
	Platform string
	Account  string
}

// ClientFrame is the tagged union of frames a plugin may send. Exactly one
// field is non-nil.
type ClientFrame struct {
	Hello         *Hello
	RequestCaps   *RequestCaps
	LogMessage    *LogMessage
	SendChat      *SendChat
	Shutdown      *Shutdown
	SwitchAccount *SwitchAccount
}

// Host -> Client frames.

type Welcome struct {
	BotName string
}

type AuthError struct {
	Reason string
}

type CapabilityResponse struct {
	Granted []Capability
	Denied  []Capability
}

type ChatMessage struct {
	Platform string
	Channel  string
	User     string
	Text     string
}

type Tick struct {
	At time.Time
}

type GameEvent struct {
	Name string
	JSON string
}

type StatusResponse struct {
	ConnectedPlugins int
	ServerUptime     time.Duration
}

type ForceDisconnect struct {
	Reason string
}

// HostFrame is the tagged union of frames the host may send. Exactly one
// field is non-nil.
type HostFrame struct {
	Welcome            *Welcome
	AuthError          *AuthError
	CapabilityResponse *CapabilityResponse
	ChatMessage        *ChatMessage
	Tick               *Tick
	GameEvent          *GameEvent
	StatusResponse     *StatusResponse
	ForceDisconnect    *ForceDisconnect
}
