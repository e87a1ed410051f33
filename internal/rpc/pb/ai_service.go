package pb

import (
	"context"

	"google.golang.org/grpc"
)

type ChatMessageIn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type EnableAiRequest struct{}
type EnableAiResponse struct{}

type DisableAiRequest struct{}
type DisableAiResponse struct{}

type AiStatusRequest struct{}

type AiStatusResponse struct {
	Enabled      bool   `json:"enabled"`
	ActiveProvider string `json:"active_provider,omitempty"`
}

type ConfigureProviderRequest struct {
	Name         string            `json:"name"`
	Config       map[string]string `json:"config"`
	ValidateOnly bool              `json:"validate_only"`
}

type ConfigureProviderResponse struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

type ListProvidersRequest struct{}

type ProviderInfo struct {
	Name    string `json:"name"`
	Active  bool   `json:"active"`
	Configured bool `json:"configured"`
}

type ListProvidersResponse struct {
	Providers []*ProviderInfo `json:"providers"`
}

type ShowProviderKeysRequest struct {
	Name   string `json:"name"`
	Masked bool   `json:"masked"`
}

type ShowProviderKeysResponse struct {
	Keys map[string]string `json:"keys"`
}

type GenerateChatRequest struct {
	Messages      []*ChatMessageIn  `json:"messages"`
	Options       map[string]string `json:"options,omitempty"`
	ContextID     string            `json:"context_id,omitempty"`
	FunctionNames []string          `json:"function_names,omitempty"`
}

type GenerateChatResponse struct {
	Content string `json:"content"`
}

// AiServiceServer backs spec.md §4.7's AiService, proxying GenerateChat
// through internal/ai.Provider (SPEC_FULL §4.7 expansion).
type AiServiceServer interface {
	EnableAi(ctx context.Context, req *EnableAiRequest) (*EnableAiResponse, error)
	DisableAi(ctx context.Context, req *DisableAiRequest) (*DisableAiResponse, error)
	GetStatus(ctx context.Context, req *AiStatusRequest) (*AiStatusResponse, error)
	ConfigureProvider(ctx context.Context, req *ConfigureProviderRequest) (*ConfigureProviderResponse, error)
	ListProviders(ctx context.Context, req *ListProvidersRequest) (*ListProvidersResponse, error)
	ShowProviderKeys(ctx context.Context, req *ShowProviderKeysRequest) (*ShowProviderKeysResponse, error)
	GenerateChat(ctx context.Context, req *GenerateChatRequest) (*GenerateChatResponse, error)
}

var AiService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "maowbot.AiService",
	HandlerType: (*AiServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "EnableAi", Handler: unaryHandler(func(srv interface{}, ctx context.Context, req *EnableAiRequest) (*EnableAiResponse, error) {
			return srv.(AiServiceServer).EnableAi(ctx, req)
		})},
		{MethodName: "DisableAi", Handler: unaryHandler(func(srv interface{}, ctx context.Context, req *DisableAiRequest) (*DisableAiResponse, error) {
			return srv.(AiServiceServer).DisableAi(ctx, req)
		})},
		{MethodName: "GetStatus", Handler: unaryHandler(func(srv interface{}, ctx context.Context, req *AiStatusRequest) (*AiStatusResponse, error) {
			return srv.(AiServiceServer).GetStatus(ctx, req)
		})},
		{MethodName: "ConfigureProvider", Handler: unaryHandler(func(srv interface{}, ctx context.Context, req *ConfigureProviderRequest) (*ConfigureProviderResponse, error) {
			return srv.(AiServiceServer).ConfigureProvider(ctx, req)
		})},
		{MethodName: "ListProviders", Handler: unaryHandler(func(srv interface{}, ctx context.Context, req *ListProvidersRequest) (*ListProvidersResponse, error) {
			return srv.(AiServiceServer).ListProviders(ctx, req)
		})},
		{MethodName: "ShowProviderKeys", Handler: unaryHandler(func(srv interface{}, ctx context.Context, req *ShowProviderKeysRequest) (*ShowProviderKeysResponse, error) {
			return srv.(AiServiceServer).ShowProviderKeys(ctx, req)
		})},
		{MethodName: "GenerateChat", Handler: unaryHandler(func(srv interface{}, ctx context.Context, req *GenerateChatRequest) (*GenerateChatResponse, error) {
			return srv.(AiServiceServer).GenerateChat(ctx, req)
		})},
	},
	Metadata: "maowbot.proto",
}

func RegisterAiServiceServer(s grpc.ServiceRegistrar, srv AiServiceServer) {
	s.RegisterService(&AiService_ServiceDesc, srv)
}
