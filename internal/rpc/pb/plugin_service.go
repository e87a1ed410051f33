package pb

import (
	"context"

	"google.golang.org/grpc"
)

// PluginStreamFrame is the wire envelope for the spec.md §4.6 session
// protocol: exactly one field is populated per frame, matching
// internal/plugin's ClientFrame/HostFrame tagged unions but flattened into
// one JSON-codec-friendly struct since a single grpc.ServerStream carries
// both directions' frame types.
type PluginStreamFrame struct {
	Hello         *HelloFrame         `json:"hello,omitempty"`
	RequestCaps   *RequestCapsFrame   `json:"request_caps,omitempty"`
	LogMessage    *LogMessageFrame    `json:"log_message,omitempty"`
	SendChat      *SendChatFrame      `json:"send_chat,omitempty"`
	Shutdown      *ShutdownFrame      `json:"shutdown,omitempty"`
	SwitchAccount *SwitchAccountFrame `json:"switch_account,omitempty"`

	Welcome            *WelcomeFrame            `json:"welcome,omitempty"`
	AuthError          *AuthErrorFrame          `json:"auth_error,omitempty"`
	CapabilityResponse *CapabilityResponseFrame `json:"capability_response,omitempty"`
	ChatMessage        *ChatMessageFrame        `json:"chat_message,omitempty"`
	Tick               *TickFrame               `json:"tick,omitempty"`
	GameEvent          *GameEventFrame          `json:"game_event,omitempty"`
	StatusResponse     *StatusResponseFrame     `json:"status_response,omitempty"`
	ForceDisconnect    *ForceDisconnectFrame    `json:"force_disconnect,omitempty"`
}

type HelloFrame struct {
	PluginName string `json:"plugin_name"`
	Passphrase string `json:"passphrase"`
}
type RequestCapsFrame struct {
	Requested []string `json:"requested"`
}
type LogMessageFrame struct {
	Text string `json:"text"`
}
type SendChatFrame struct {
	Channel string `json:"channel"`
	Text    string `json:"text"`
}
type ShutdownFrame struct{}
type SwitchAccountFrame struct {
	Platform string `json:"platform"`
	Account  string `json:"account"`
}

type WelcomeFrame struct {
	BotName string `json:"bot_name"`
}
type AuthErrorFrame struct {
	Reason string `json:"reason"`
}
type CapabilityResponseFrame struct {
	Granted []string `json:"granted"`
	Denied  []string `json:"denied"`
}
type ChatMessageFrame struct {
	Platform string `json:"platform"`
	Channel  string `json:"channel"`
	User     string `json:"user"`
	Text     string `json:"text"`
}
type TickFrame struct {
	At string `json:"at"`
}
type GameEventFrame struct {
	Name string `json:"name"`
	JSON string `json:"json"`
}
type StatusResponseFrame struct {
	ConnectedPlugins int32 `json:"connected_plugins"`
	ServerUptimeMs   int64 `json:"server_uptime_ms"`
}
type ForceDisconnectFrame struct {
	Reason string `json:"reason"`
}

// PluginService_SessionServer is the generated-style stream handle for the
// Session RPC, mirroring what protoc-gen-go-grpc emits for a bidi-
// streaming method.
type PluginService_SessionServer interface {
	Send(*PluginStreamFrame) error
	Recv() (*PluginStreamFrame, error)
	grpc.ServerStream
}

type pluginServiceSessionServer struct {
	grpc.ServerStream
}

func (x *pluginServiceSessionServer) Send(m *PluginStreamFrame) error {
	return x.ServerStream.SendMsg(m)
}

func (x *pluginServiceSessionServer) Recv() (*PluginStreamFrame, error) {
	m := new(PluginStreamFrame)
	if err := x.ServerStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

type ListPluginsRequest struct{}

type PluginInfo struct {
	Name      string   `json:"name"`
	Enabled   bool     `json:"enabled"`
	Caps      []string `json:"caps"`
	Connected string   `json:"connected"`
}

type ListPluginsResponse struct {
	Plugins []*PluginInfo `json:"plugins"`
}

type SetPluginEnabledRequest struct {
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
}
type SetPluginEnabledResponse struct{}

type RemovePluginRequest struct {
	Name string `json:"name"`
}
type RemovePluginResponse struct{}

type GetSystemStatusRequest struct{}

type GetSystemStatusResponse struct {
	ConnectedPlugins int32 `json:"connected_plugins"`
	ServerUptimeMs   int64 `json:"server_uptime_ms"`
}

// PluginServiceServer backs spec.md §4.6-4.7: the management RPCs plus the
// Session streaming RPC that runs the handshake in internal/plugin.Host.
type PluginServiceServer interface {
	List(ctx context.Context, req *ListPluginsRequest) (*ListPluginsResponse, error)
	SetEnabled(ctx context.Context, req *SetPluginEnabledRequest) (*SetPluginEnabledResponse, error)
	Remove(ctx context.Context, req *RemovePluginRequest) (*RemovePluginResponse, error)
	GetSystemStatus(ctx context.Context, req *GetSystemStatusRequest) (*GetSystemStatusResponse, error)
	Session(stream PluginService_SessionServer) error
}

func _PluginService_Session_Handler(srv interface{}, stream grpc.ServerStream) error {
	return srv.(PluginServiceServer).Session(&pluginServiceSessionServer{stream})
}

var PluginService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "maowbot.PluginService",
	HandlerType: (*PluginServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "List", Handler: unaryHandler(func(srv interface{}, ctx context.Context, req *ListPluginsRequest) (*ListPluginsResponse, error) {
			return srv.(PluginServiceServer).List(ctx, req)
		})},
		{MethodName: "SetEnabled", Handler: unaryHandler(func(srv interface{}, ctx context.Context, req *SetPluginEnabledRequest) (*SetPluginEnabledResponse, error) {
			return srv.(PluginServiceServer).SetEnabled(ctx, req)
		})},
		{MethodName: "Remove", Handler: unaryHandler(func(srv interface{}, ctx context.Context, req *RemovePluginRequest) (*RemovePluginResponse, error) {
			return srv.(PluginServiceServer).Remove(ctx, req)
		})},
		{MethodName: "GetSystemStatus", Handler: unaryHandler(func(srv interface{}, ctx context.Context, req *GetSystemStatusRequest) (*GetSystemStatusResponse, error) {
			return srv.(PluginServiceServer).GetSystemStatus(ctx, req)
		})},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "Session",
			Handler:       _PluginService_Session_Handler,
			ServerStreams: true,
			ClientStreams: true,
		},
	},
	Metadata: "maowbot.proto",
}

func RegisterPluginServiceServer(s grpc.ServiceRegistrar, srv PluginServiceServer) {
	s.RegisterService(&PluginService_ServiceDesc, srv)
}
