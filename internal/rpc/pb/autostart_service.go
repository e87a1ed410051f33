package pb

import (
	"context"

	"google.golang.org/grpc"
)

type AutostartEntry struct {
	Platform string `json:"platform"`
	Account  string `json:"account"`
	Enabled  bool   `json:"enabled"`
}

type ListAutostartRequest struct {
	EnabledOnly bool `json:"enabled_only"`
}

type ListAutostartResponse struct {
	Entries []*AutostartEntry `json:"entries"`
}

type SetAutostartRequest struct {
	Platform string `json:"platform"`
	Account  string `json:"account"`
	Enabled  bool   `json:"enabled"`
}

type SetAutostartResponse struct{}

type RemoveAutostartRequest struct {
	Platform string `json:"platform"`
	Account  string `json:"account"`
}

type RemoveAutostartResponse struct{}

type IsAutostartEnabledRequest struct {
	Platform string `json:"platform"`
	Account  string `json:"account"`
}

type IsAutostartEnabledResponse struct {
	Enabled bool `json:"enabled"`
}

// AutostartServiceServer backs spec.md §4.7's AutostartService.
type AutostartServiceServer interface {
	List(ctx context.Context, req *ListAutostartRequest) (*ListAutostartResponse, error)
	Set(ctx context.Context, req *SetAutostartRequest) (*SetAutostartResponse, error)
	Remove(ctx context.Context, req *RemoveAutostartRequest) (*RemoveAutostartResponse, error)
	IsEnabled(ctx context.Context, req *IsAutostartEnabledRequest) (*IsAutostartEnabledResponse, error)
}

var AutostartService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "maowbot.AutostartService",
	HandlerType: (*AutostartServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "List", Handler: unaryHandler(func(srv interface{}, ctx context.Context, req *ListAutostartRequest) (*ListAutostartResponse, error) {
			return srv.(AutostartServiceServer).List(ctx, req)
		})},
		{MethodName: "Set", Handler: unaryHandler(func(srv interface{}, ctx context.Context, req *SetAutostartRequest) (*SetAutostartResponse, error) {
			return srv.(AutostartServiceServer).Set(ctx, req)
		})},
		{MethodName: "Remove", Handler: unaryHandler(func(srv interface{}, ctx context.Context, req *RemoveAutostartRequest) (*RemoveAutostartResponse, error) {
			return srv.(AutostartServiceServer).Remove(ctx, req)
		})},
		{MethodName: "IsEnabled", Handler: unaryHandler(func(srv interface{}, ctx context.Context, req *IsAutostartEnabledRequest) (*IsAutostartEnabledResponse, error) {
			return srv.(AutostartServiceServer).IsEnabled(ctx, req)
		})},
	},
	Metadata: "maowbot.proto",
}

func RegisterAutostartServiceServer(s grpc.ServiceRegistrar, srv AutostartServiceServer) {
	s.RegisterService(&AutostartService_ServiceDesc, srv)
}
