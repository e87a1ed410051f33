package pb

import (
	"context"

	"google.golang.org/grpc"
)

type Credential struct {
	CredentialID  string `json:"credential_id"`
	Platform      string `json:"platform"`
	UserName      string `json:"user_name"`
	IsBroadcaster bool   `json:"is_broadcaster"`
	IsTeammate    bool   `json:"is_teammate"`
	IsBot         bool   `json:"is_bot"`
	ExpiresAt     string `json:"expires_at,omitempty"`
	Expired       bool   `json:"expired"`
}

type ListCredentialsRequest struct {
	Platforms     []string `json:"platforms,omitempty"`
	ActiveOnly    bool     `json:"active_only"`
	IncludeExpired bool    `json:"include_expired"`
}

type ListCredentialsResponse struct {
	Credentials []*Credential `json:"credentials"`
}

type BeginAuthFlowRequest struct {
	Platform string `json:"platform"`
	IsBot    bool   `json:"is_bot"`
}

type BeginAuthFlowResponse struct {
	UrlOrPrompt string `json:"url_or_prompt"`
	State       string `json:"state"`
}

type CompleteAuthFlowRequest struct {
	Platform string            `json:"platform"`
	State    string            `json:"state"`
	Code     string            `json:"code,omitempty"`
	Keys     map[string]string `json:"keys,omitempty"`
	UserID   string            `json:"user_id,omitempty"`
}

type CompleteAuthFlowResponse struct {
	Credential *Credential `json:"credential"`
}

type RevokeCredentialRequest struct {
	Platform string `json:"platform"`
	UserName string `json:"user_name"`
}

type RevokeCredentialResponse struct{}

type RefreshCredentialRequest struct {
	Platform string `json:"platform"`
	UserName string `json:"user_name"`
}

type RefreshCredentialResponse struct {
	Credential *Credential `json:"credential"`
}

// CredentialServiceServer backs spec.md §4.7's CredentialService.
type CredentialServiceServer interface {
	ListCredentials(ctx context.Context, req *ListCredentialsRequest) (*ListCredentialsResponse, error)
	BeginAuthFlow(ctx context.Context, req *BeginAuthFlowRequest) (*BeginAuthFlowResponse, error)
	CompleteAuthFlow(ctx context.Context, req *CompleteAuthFlowRequest) (*CompleteAuthFlowResponse, error)
	RevokeCredential(ctx context.Context, req *RevokeCredentialRequest) (*RevokeCredentialResponse, error)
	RefreshCredential(ctx context.Context, req *RefreshCredentialRequest) (*RefreshCredentialResponse, error)
}

var CredentialService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "maowbot.CredentialService",
	HandlerType: (*CredentialServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ListCredentials", Handler: unaryHandler(func(srv interface{}, ctx context.Context, req *ListCredentialsRequest) (*ListCredentialsResponse, error) {
			return srv.(CredentialServiceServer).ListCredentials(ctx, req)
		})},
		{MethodName: "BeginAuthFlow", Handler: unaryHandler(func(srv interface{}, ctx context.Context, req *BeginAuthFlowRequest) (*BeginAuthFlowResponse, error) {
			return srv.(CredentialServiceServer).BeginAuthFlow(ctx, req)
		})},
		{MethodName: "CompleteAuthFlow", Handler: unaryHandler(func(srv interface{}, ctx context.Context, req *CompleteAuthFlowRequest) (*CompleteAuthFlowResponse, error) {
			return srv.(CredentialServiceServer).CompleteAuthFlow(ctx, req)
		})},
		{MethodName: "RevokeCredential", Handler: unaryHandler(func(srv interface{}, ctx context.Context, req *RevokeCredentialRequest) (*RevokeCredentialResponse, error) {
			return srv.(CredentialServiceServer).RevokeCredential(ctx, req)
		})},
		{MethodName: "RefreshCredential", Handler: unaryHandler(func(srv interface{}, ctx context.Context, req *RefreshCredentialRequest) (*RefreshCredentialResponse, error) {
			return srv.(CredentialServiceServer).RefreshCredential(ctx, req)
		})},
	},
	Metadata: "maowbot.proto",
}

func RegisterCredentialServiceServer(s grpc.ServiceRegistrar, srv CredentialServiceServer) {
	s.RegisterService(&CredentialService_ServiceDesc, srv)
}
