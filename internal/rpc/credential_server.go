package rpc

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/maowbot/maowbot/internal/apperr"
	"github.com/maowbot/maowbot/internal/credential"
	"github.com/maowbot/maowbot/internal/logger"
	"github.com/maowbot/maowbot/internal/rpc/pb"
)

// pendingFlow tracks one in-flight BeginAuthFlow/CompleteAuthFlow pair,
// keyed by the opaque state token handed back from BeginAuthFlow. The
// Authenticator interface itself is stateless between StartAuthentication
// and Complete, so the state->platform mapping lives here instead.
type pendingFlow struct {
	platform string
}

// credentialServer backs spec.md §4.7's CredentialService, dispatching to
// internal/credential.Store and the per-platform Authenticator it has
// registered for each platform.
type credentialServer struct {
	store *credential.Store
	log   *logger.Logger

	mu      sync.Mutex
	pending map[string]pendingFlow
}

func newCredentialServer(store *credential.Store) pb.CredentialServiceServer {
	return &credentialServer{
		store:   store,
		log:     logger.New("rpc.credential"),
		pending: make(map[string]pendingFlow),
	}
}

func (s *credentialServer) ListCredentials(ctx context.Context, req *pb.ListCredentialsRequest) (*pb.ListCredentialsResponse, error) {
	platforms := req.Platforms
	if len(platforms) == 0 {
		platforms = []string{""}
	}
	resp := &pb.ListCredentialsResponse{}
	for _, platform := range platforms {
		creds, err := s.store.List(ctx, platform)
		if err != nil {
			return nil, apperr.ToGRPCStatus(err)
		}
		for _, c := range creds {
			if !req.IncludeExpired && c.IsExpired(time.Now()) {
				continue
			}
			resp.Credentials = append(resp.Credentials, credentialToPB(c))
		}
	}
	return resp, nil
}

func (s *credentialServer) BeginAuthFlow(ctx context.Context, req *pb.BeginAuthFlowRequest) (*pb.BeginAuthFlowResponse, error) {
	auther, ok := s.store.Authenticator(req.Platform)
	if !ok {
		return nil, apperr.ToGRPCStatus(apperr.New(apperr.KindValidation, "no authenticator registered for platform "+req.Platform))
	}
	if err := auther.Initialize(ctx); err != nil {
		return nil, apperr.ToGRPCStatus(apperr.Wrap(apperr.KindPlatform, "initialize authenticator", err))
	}
	prompt, err := auther.StartAuthentication(ctx)
	if err != nil {
		return nil, apperr.ToGRPCStatus(apperr.Wrap(apperr.KindPlatform, "start authentication", err))
	}

	state := uuid.NewString()
	s.mu.Lock()
	s.pending[state] = pendingFlow{platform: req.Platform}
	s.mu.Unlock()

	urlOrPrompt := prompt.URL
	if urlOrPrompt == "" && len(prompt.Messages) > 0 {
		urlOrPrompt = prompt.Messages[0]
	}
	return &pb.BeginAuthFlowResponse{UrlOrPrompt: urlOrPrompt, State: state}, nil
}

func (s *credentialServer) CompleteAuthFlow(ctx context.Context, req *pb.CompleteAuthFlowRequest) (*pb.CompleteAuthFlowResponse, error) {
	s.mu.Lock()
	flow, ok := s.pending[req.State]
	if ok {
		delete(s.pending, req.State)
	}
	s.mu.Unlock()
	if !ok || flow.platform != req.Platform {
		return nil, apperr.ToGRPCStatus(apperr.New(apperr.KindValidation, "unknown or expired auth flow state"))
	}

	auther, ok := s.store.Authenticator(req.Platform)
	if !ok {
		return nil, apperr.ToGRPCStatus(apperr.New(apperr.KindValidation, "no authenticator registered for platform "+req.Platform))
	}

	cred, err := auther.Complete(ctx, credential.AuthResponse{
		Code:   req.Code,
		Keys:   req.Keys,
		UserID: req.UserID,
	})
	if err != nil {
		return nil, apperr.ToGRPCStatus(apperr.Wrap(apperr.KindPlatform, "complete authentication", err))
	}
	if err := s.store.Store(ctx, cred); err != nil {
		return nil, apperr.ToGRPCStatus(err)
	}
	return &pb.CompleteAuthFlowResponse{Credential: credentialToPB(cred)}, nil
}

func (s *credentialServer) RevokeCredential(ctx context.Context, req *pb.RevokeCredentialRequest) (*pb.RevokeCredentialResponse, error) {
	cred, err := s.store.Get(ctx, req.Platform, req.UserName)
	if err != nil {
		return nil, apperr.ToGRPCStatus(err)
	}
	if cred == nil {
		return nil, apperr.ToGRPCStatus(apperr.New(apperr.KindNotFound, "no credential for "+req.Platform+"/"+req.UserName))
	}
	if auther, ok := s.store.Authenticator(req.Platform); ok {
		if err := auther.Revoke(ctx, cred); err != nil {
			s.log.Error("revoke %s/%s upstream: %v", req.Platform, req.UserName, err)
		}
	}
	if err := s.store.Delete(ctx, req.Platform, req.UserName); err != nil {
		return nil, apperr.ToGRPCStatus(err)
	}
	return &pb.RevokeCredentialResponse{}, nil
}

func (s *credentialServer) RefreshCredential(ctx context.Context, req *pb.RefreshCredentialRequest) (*pb.RefreshCredentialResponse, error) {
	cred, err := s.store.Get(ctx, req.Platform, req.UserName)
	if err != nil {
		return nil, apperr.ToGRPCStatus(err)
	}
	if cred == nil {
		return nil, apperr.ToGRPCStatus(apperr.New(apperr.KindNotFound, "no credential for "+req.Platform+"/"+req.UserName))
	}
	auther, ok := s.store.Authenticator(req.Platform)
	if !ok {
		return nil, apperr.ToGRPCStatus(apperr.New(apperr.KindValidation, "no authenticator registered for platform "+req.Platform))
	}
	refreshed, err := auther.Refresh(ctx, cred)
	if err != nil {
		return nil, apperr.ToGRPCStatus(apperr.Wrap(apperr.KindPlatform, "refresh credential", err))
	}
	refreshed.CredentialID = cred.CredentialID
	if err := s.store.Store(ctx, refreshed); err != nil {
		return nil, apperr.ToGRPCStatus(err)
	}
	return &pb.RefreshCredentialResponse{Credential: credentialToPB(refreshed)}, nil
}
