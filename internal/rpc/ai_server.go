package rpc

import (
	"context"

	"github.com/maowbot/maowbot/internal/ai"
	"github.com/maowbot/maowbot/internal/apperr"
	"github.com/maowbot/maowbot/internal/rpc/pb"
)

// aiServer backs spec.md §4.7's AiService, dispatching to internal/ai.Manager.
type aiServer struct {
	mgr *ai.Manager
}

func newAiServer(mgr *ai.Manager) pb.AiServiceServer {
	return &aiServer{mgr: mgr}
}

func (s *aiServer) EnableAi(ctx context.Context, req *pb.EnableAiRequest) (*pb.EnableAiResponse, error) {
	if err := s.mgr.Enable(ctx); err != nil {
		return nil, apperr.ToGRPCStatus(apperr.Wrap(apperr.KindServiceError, "enable ai", err))
	}
	return &pb.EnableAiResponse{}, nil
}

func (s *aiServer) DisableAi(ctx context.Context, req *pb.DisableAiRequest) (*pb.DisableAiResponse, error) {
	if err := s.mgr.Disable(ctx); err != nil {
		return nil, apperr.ToGRPCStatus(apperr.Wrap(apperr.KindServiceError, "disable ai", err))
	}
	return &pb.DisableAiResponse{}, nil
}

func (s *aiServer) GetStatus(ctx context.Context, req *pb.AiStatusRequest) (*pb.AiStatusResponse, error) {
	return &pb.AiStatusResponse{Enabled: s.mgr.Enabled(), ActiveProvider: s.mgr.ActiveProvider()}, nil
}

// ConfigureProvider builds an ai.HTTPProvider from the caller-supplied
// config map. req.Config carries base_url/api_key the way every other
// wire config does (flat string keys, see convert.go's stringifyConfig);
// ValidateOnly reports success without registering the provider.
func (s *aiServer) ConfigureProvider(ctx context.Context, req *pb.ConfigureProviderRequest) (*pb.ConfigureProviderResponse, error) {
	baseURL := req.Config["base_url"]
	apiKey := req.Config["api_key"]
	if req.Name == "" || baseURL == "" {
		return &pb.ConfigureProviderResponse{Valid: false, Error: "name and base_url are required"}, nil
	}
	if req.ValidateOnly {
		return &pb.ConfigureProviderResponse{Valid: true}, nil
	}

	provider := ai.NewHTTPProvider(ai.HTTPProviderConfig{
		Name:    req.Name,
		BaseURL: baseURL,
		APIKey:  apiKey,
	})
	s.mgr.RegisterProvider(provider, req.Config)
	if err := s.mgr.SetActiveProvider(ctx, req.Name); err != nil {
		return nil, apperr.ToGRPCStatus(apperr.Wrap(apperr.KindServiceError, "set active provider", err))
	}
	return &pb.ConfigureProviderResponse{Valid: true}, nil
}

func (s *aiServer) ListProviders(ctx context.Context, req *pb.ListProvidersRequest) (*pb.ListProvidersResponse, error) {
	active := s.mgr.ActiveProvider()
	resp := &pb.ListProvidersResponse{}
	for _, name := range s.mgr.ListProviders() {
		resp.Providers = append(resp.Providers, &pb.ProviderInfo{Name: name, Active: name == active, Configured: true})
	}
	return resp, nil
}

func (s *aiServer) ShowProviderKeys(ctx context.Context, req *pb.ShowProviderKeysRequest) (*pb.ShowProviderKeysResponse, error) {
	keys, err := s.mgr.ProviderKeys(req.Name, req.Masked)
	if err != nil {
		return nil, apperr.ToGRPCStatus(apperr.Wrap(apperr.KindNotFound, "show provider keys", err))
	}
	return &pb.ShowProviderKeysResponse{Keys: keys}, nil
}

func (s *aiServer) GenerateChat(ctx context.Context, req *pb.GenerateChatRequest) (*pb.GenerateChatResponse, error) {
	messages := make([]ai.Message, 0, len(req.Messages))
	for _, m := range req.Messages {
		messages = append(messages, ai.Message{Role: m.Role, Content: m.Content})
	}
	providerID := req.Options["provider"]
	model := req.Options["model"]
	content, err := s.mgr.GenerateFromMessages(ctx, providerID, model, messages)
	if err != nil {
		return nil, apperr.ToGRPCStatus(apperr.Wrap(apperr.KindServiceError, "generate chat", err))
	}
	return &pb.GenerateChatResponse{Content: content}, nil
}
