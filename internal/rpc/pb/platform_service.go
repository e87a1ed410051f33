package pb

import (
	"context"

	"google.golang.org/grpc"
)

type PlatformConfig struct {
	Platform     string `json:"platform"`
	ClientID     string `json:"client_id,omitempty"`
	ClientSecret string `json:"client_secret,omitempty"`
}

type GetPlatformConfigRequest struct {
	Platform string `json:"platform"`
}

type GetPlatformConfigResponse struct {
	Config *PlatformConfig `json:"config,omitempty"`
	Found  bool            `json:"found"`
}

type SetPlatformConfigRequest struct {
	Config *PlatformConfig `json:"config"`
}

type SetPlatformConfigResponse struct{}

type DeletePlatformConfigRequest struct {
	Platform string `json:"platform"`
}

type DeletePlatformConfigResponse struct{}

type ListPlatformConfigsRequest struct{}

type ListPlatformConfigsResponse struct {
	Configs []*PlatformConfig `json:"configs"`
}

type StartRuntimeRequest struct {
	Platform string `json:"platform"`
	Account  string `json:"account"`
}

type StartRuntimeResponse struct{}

type StopRuntimeRequest struct {
	Platform string `json:"platform"`
	Account  string `json:"account"`
}

type StopRuntimeResponse struct{}

type RuntimeStatus struct {
	Platform        string `json:"platform"`
	Account         string `json:"account"`
	State           string `json:"state"`
	LastError       string `json:"last_error,omitempty"`
	ConnectedSince  string `json:"connected_since,omitempty"`
}

type ListRuntimesRequest struct{}

type ListRuntimesResponse struct {
	Runtimes []*RuntimeStatus `json:"runtimes"`
}

// PlatformServiceServer backs spec.md §4.7's PlatformService: CRUD on
// PlatformConfig plus runtime start/stop dispatched to
// internal/platform.Manager.
type PlatformServiceServer interface {
	GetConfig(ctx context.Context, req *GetPlatformConfigRequest) (*GetPlatformConfigResponse, error)
	SetConfig(ctx context.Context, req *SetPlatformConfigRequest) (*SetPlatformConfigResponse, error)
	DeleteConfig(ctx context.Context, req *DeletePlatformConfigRequest) (*DeletePlatformConfigResponse, error)
	ListConfigs(ctx context.Context, req *ListPlatformConfigsRequest) (*ListPlatformConfigsResponse, error)
	StartRuntime(ctx context.Context, req *StartRuntimeRequest) (*StartRuntimeResponse, error)
	StopRuntime(ctx context.Context, req *StopRuntimeRequest) (*StopRuntimeResponse, error)
	ListRuntimes(ctx context.Context, req *ListRuntimesRequest) (*ListRuntimesResponse, error)
}

var PlatformService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "maowbot.PlatformService",
	HandlerType: (*PlatformServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetConfig", Handler: unaryHandler(func(srv interface{}, ctx context.Context, req *GetPlatformConfigRequest) (*GetPlatformConfigResponse, error) {
			return srv.(PlatformServiceServer).GetConfig(ctx, req)
		})},
		{MethodName: "SetConfig", Handler: unaryHandler(func(srv interface{}, ctx context.Context, req *SetPlatformConfigRequest) (*SetPlatformConfigResponse, error) {
			return srv.(PlatformServiceServer).SetConfig(ctx, req)
		})},
		{MethodName: "DeleteConfig", Handler: unaryHandler(func(srv interface{}, ctx context.Context, req *DeletePlatformConfigRequest) (*DeletePlatformConfigResponse, error) {
			return srv.(PlatformServiceServer).DeleteConfig(ctx, req)
		})},
		{MethodName: "ListConfigs", Handler: unaryHandler(func(srv interface{}, ctx context.Context, req *ListPlatformConfigsRequest) (*ListPlatformConfigsResponse, error) {
			return srv.(PlatformServiceServer).ListConfigs(ctx, req)
		})},
		{MethodName: "StartRuntime", Handler: unaryHandler(func(srv interface{}, ctx context.Context, req *StartRuntimeRequest) (*StartRuntimeResponse, error) {
			return srv.(PlatformServiceServer).StartRuntime(ctx, req)
		})},
		{MethodName: "StopRuntime", Handler: unaryHandler(func(srv interface{}, ctx context.Context, req *StopRuntimeRequest) (*StopRuntimeResponse, error) {
			return srv.(PlatformServiceServer).StopRuntime(ctx, req)
		})},
		{MethodName: "ListRuntimes", Handler: unaryHandler(func(srv interface{}, ctx context.Context, req *ListRuntimesRequest) (*ListRuntimesResponse, error) {
			return srv.(PlatformServiceServer).ListRuntimes(ctx, req)
		})},
	},
	Metadata: "maowbot.proto",
}

func RegisterPlatformServiceServer(s grpc.ServiceRegistrar, srv PlatformServiceServer) {
	s.RegisterService(&PlatformService_ServiceDesc, srv)
}
