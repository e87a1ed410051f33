package pb

import (
	"context"

	"google.golang.org/grpc"
)

// Thin per-platform dispatch services (spec.md §4.7): used by UIs and
// pipelines to trigger one-off platform actions outside a pipeline run.
// ObsService/OscService are folded into VrChatService's OSC surface
// (SPEC_FULL §4.7 expansion note).

type SendTwitchChatRequest struct {
	Account   string `json:"account"`
	Channel   string `json:"channel"`
	Text      string `json:"text"`
	ReplyToID string `json:"reply_to_id,omitempty"`
}
type SendTwitchChatResponse struct{}

type JoinTwitchChannelRequest struct {
	Account string `json:"account"`
	Channel string `json:"channel"`
}
type JoinTwitchChannelResponse struct{}

type TwitchServiceServer interface {
	SendChat(ctx context.Context, req *SendTwitchChatRequest) (*SendTwitchChatResponse, error)
	JoinChannel(ctx context.Context, req *JoinTwitchChannelRequest) (*JoinTwitchChannelResponse, error)
}

var TwitchService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "maowbot.TwitchService",
	HandlerType: (*TwitchServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "SendChat", Handler: unaryHandler(func(srv interface{}, ctx context.Context, req *SendTwitchChatRequest) (*SendTwitchChatResponse, error) {
			return srv.(TwitchServiceServer).SendChat(ctx, req)
		})},
		{MethodName: "JoinChannel", Handler: unaryHandler(func(srv interface{}, ctx context.Context, req *JoinTwitchChannelRequest) (*JoinTwitchChannelResponse, error) {
			return srv.(TwitchServiceServer).JoinChannel(ctx, req)
		})},
	},
	Metadata: "maowbot.proto",
}

func RegisterTwitchServiceServer(s grpc.ServiceRegistrar, srv TwitchServiceServer) {
	s.RegisterService(&TwitchService_ServiceDesc, srv)
}

type SendDiscordChatRequest struct {
	Account   string `json:"account"`
	ChannelID string `json:"channel_id"`
	Text      string `json:"text"`
}
type SendDiscordChatResponse struct{}

type DiscordServiceServer interface {
	SendChat(ctx context.Context, req *SendDiscordChatRequest) (*SendDiscordChatResponse, error)
}

var DiscordService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "maowbot.DiscordService",
	HandlerType: (*DiscordServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "SendChat", Handler: unaryHandler(func(srv interface{}, ctx context.Context, req *SendDiscordChatRequest) (*SendDiscordChatResponse, error) {
			return srv.(DiscordServiceServer).SendChat(ctx, req)
		})},
	},
	Metadata: "maowbot.proto",
}

func RegisterDiscordServiceServer(s grpc.ServiceRegistrar, srv DiscordServiceServer) {
	s.RegisterService(&DiscordService_ServiceDesc, srv)
}

type SetOscParameterRequest struct {
	Account      string  `json:"account"`
	Path         string  `json:"path"`
	Value        float32 `json:"value"`
	ResetAfterMs int64   `json:"reset_after_ms,omitempty"`
}
type SetOscParameterResponse struct{}

type VrChatServiceServer interface {
	SetOscParameter(ctx context.Context, req *SetOscParameterRequest) (*SetOscParameterResponse, error)
}

var VrChatService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "maowbot.VrChatService",
	HandlerType: (*VrChatServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "SetOscParameter", Handler: unaryHandler(func(srv interface{}, ctx context.Context, req *SetOscParameterRequest) (*SetOscParameterResponse, error) {
			return srv.(VrChatServiceServer).SetOscParameter(ctx, req)
		})},
	},
	Metadata: "maowbot.proto",
}

func RegisterVrChatServiceServer(s grpc.ServiceRegistrar, srv VrChatServiceServer) {
	s.RegisterService(&VrChatService_ServiceDesc, srv)
}
