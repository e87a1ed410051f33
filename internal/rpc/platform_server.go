package rpc

import (
	"context"

	"github.com/maowbot/maowbot/internal/apperr"
	"github.com/maowbot/maowbot/internal/domain"
	"github.com/maowbot/maowbot/internal/platform"
	"github.com/maowbot/maowbot/internal/repository/interfaces"
	"github.com/maowbot/maowbot/internal/rpc/pb"
)

// platformServer backs spec.md §4.7's PlatformService: CRUD over
// PlatformConfig plus runtime start/stop/status dispatched to
// internal/platform.Manager.
type platformServer struct {
	configs interfaces.PlatformConfigRepository
	mgr     *platform.Manager
}

func newPlatformServer(configs interfaces.PlatformConfigRepository, mgr *platform.Manager) pb.PlatformServiceServer {
	return &platformServer{configs: configs, mgr: mgr}
}

func platformConfigToPB(c *domain.PlatformConfig) *pb.PlatformConfig {
	out := &pb.PlatformConfig{Platform: c.Platform}
	if c.ClientID != nil {
		out.ClientID = *c.ClientID
	}
	if c.ClientSecret != nil {
		out.ClientSecret = *c.ClientSecret
	}
	return out
}

func (s *platformServer) GetConfig(ctx context.Context, req *pb.GetPlatformConfigRequest) (*pb.GetPlatformConfigResponse, error) {
	cfg, err := s.configs.Get(ctx, req.Platform)
	if err != nil {
		return nil, apperr.ToGRPCStatus(apperr.Wrap(apperr.KindDatabase, "get platform config", err))
	}
	if cfg == nil {
		return &pb.GetPlatformConfigResponse{Found: false}, nil
	}
	return &pb.GetPlatformConfigResponse{Found: true, Config: platformConfigToPB(cfg)}, nil
}

func (s *platformServer) SetConfig(ctx context.Context, req *pb.SetPlatformConfigRequest) (*pb.SetPlatformConfigResponse, error) {
	cfg := &domain.PlatformConfig{Platform: req.Config.Platform}
	if req.Config.ClientID != "" {
		cfg.ClientID = &req.Config.ClientID
	}
	if req.Config.ClientSecret != "" {
		cfg.ClientSecret = &req.Config.ClientSecret
	}
	if err := s.configs.Set(ctx, cfg); err != nil {
		return nil, apperr.ToGRPCStatus(apperr.Wrap(apperr.KindDatabase, "set platform config", err))
	}
	return &pb.SetPlatformConfigResponse{}, nil
}

func (s *platformServer) DeleteConfig(ctx context.Context, req *pb.DeletePlatformConfigRequest) (*pb.DeletePlatformConfigResponse, error) {
	if err := s.configs.Delete(ctx, req.Platform); err != nil {
		return nil, apperr.ToGRPCStatus(apperr.Wrap(apperr.KindDatabase, "delete platform config", err))
	}
	return &pb.DeletePlatformConfigResponse{}, nil
}

func (s *platformServer) ListConfigs(ctx context.Context, req *pb.ListPlatformConfigsRequest) (*pb.ListPlatformConfigsResponse, error) {
	configs, err := s.configs.List(ctx)
	if err != nil {
		return nil, apperr.ToGRPCStatus(apperr.Wrap(apperr.KindDatabase, "list platform configs", err))
	}
	resp := &pb.ListPlatformConfigsResponse{}
	for _, c := range configs {
		resp.Configs = append(resp.Configs, platformConfigToPB(c))
	}
	return resp, nil
}

func (s *platformServer) StartRuntime(ctx context.Context, req *pb.StartRuntimeRequest) (*pb.StartRuntimeResponse, error) {
	if err := s.mgr.Start(ctx, req.Platform, req.Account); err != nil {
		return nil, apperr.ToGRPCStatus(err)
	}
	return &pb.StartRuntimeResponse{}, nil
}

func (s *platformServer) StopRuntime(ctx context.Context, req *pb.StopRuntimeRequest) (*pb.StopRuntimeResponse, error) {
	if err := s.mgr.Stop(ctx, req.Platform, req.Account); err != nil {
		return nil, apperr.ToGRPCStatus(err)
	}
	return &pb.StopRuntimeResponse{}, nil
}

func (s *platformServer) ListRuntimes(ctx context.Context, req *pb.ListRuntimesRequest) (*pb.ListRuntimesResponse, error) {
	resp := &pb.ListRuntimesResponse{}
	for _, st := range s.mgr.Status() {
		rs := &pb.RuntimeStatus{
			Platform:       st.Platform,
			Account:        st.Account,
			State:          string(st.State),
			ConnectedSince: formatTime(st.ConnectedSince),
		}
		if st.LastError != nil {
			rs.LastError = st.LastError.Error()
		}
		resp.Runtimes = append(resp.Runtimes, rs)
	}
	return resp, nil
}

// twitchServer, discordServer and vrChatServer are the thin per-platform
// dispatch services (spec.md §4.7), all fronting the same
// internal/platform.Manager the pipeline engine's builtin actions use.

type twitchServer struct {
	mgr *platform.Manager
}

func newTwitchServer(mgr *platform.Manager) pb.TwitchServiceServer { return &twitchServer{mgr: mgr} }

func (s *twitchServer) SendChat(ctx context.Context, req *pb.SendTwitchChatRequest) (*pb.SendTwitchChatResponse, error) {
	if err := s.mgr.SendTwitchMessage(ctx, req.Account, req.Channel, req.Text, req.ReplyToID); err != nil {
		return nil, apperr.ToGRPCStatus(err)
	}
	return &pb.SendTwitchChatResponse{}, nil
}

func (s *twitchServer) JoinChannel(ctx context.Context, req *pb.JoinTwitchChannelRequest) (*pb.JoinTwitchChannelResponse, error) {
	if err := s.mgr.JoinTwitchChannel(ctx, req.Account, req.Channel); err != nil {
		return nil, apperr.ToGRPCStatus(err)
	}
	return &pb.JoinTwitchChannelResponse{}, nil
}

type discordServer struct {
	mgr *platform.Manager
}

func newDiscordServer(mgr *platform.Manager) pb.DiscordServiceServer { return &discordServer{mgr: mgr} }

func (s *discordServer) SendChat(ctx context.Context, req *pb.SendDiscordChatRequest) (*pb.SendDiscordChatResponse, error) {
	if err := s.mgr.SendDiscordMessage(ctx, req.Account, "", req.ChannelID, req.Text); err != nil {
		return nil, apperr.ToGRPCStatus(err)
	}
	return &pb.SendDiscordChatResponse{}, nil
}

type vrChatServer struct {
	mgr *platform.Manager
}

func newVrChatServer(mgr *platform.Manager) pb.VrChatServiceServer { return &vrChatServer{mgr: mgr} }

func (s *vrChatServer) SetOscParameter(ctx context.Context, req *pb.SetOscParameterRequest) (*pb.SetOscParameterResponse, error) {
	var resetAfter *int64
	if req.ResetAfterMs > 0 {
		resetAfter = &req.ResetAfterMs
	}
	if err := s.mgr.SetParameter(ctx, req.Path, req.Value, resetAfter); err != nil {
		return nil, apperr.ToGRPCStatus(err)
	}
	return &pb.SetOscParameterResponse{}, nil
}
