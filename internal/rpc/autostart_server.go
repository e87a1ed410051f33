package rpc

import (
	"context"

	"github.com/maowbot/maowbot/internal/apperr"
	"github.com/maowbot/maowbot/internal/repository/interfaces"
	"github.com/maowbot/maowbot/internal/rpc/pb"
)

// autostartServer backs spec.md §4.7's AutostartService, a thin CRUD front
// for interfaces.AutostartRepository.
type autostartServer struct {
	repo interfaces.AutostartRepository
}

func newAutostartServer(repo interfaces.AutostartRepository) pb.AutostartServiceServer {
	return &autostartServer{repo: repo}
}

func (s *autostartServer) List(ctx context.Context, req *pb.ListAutostartRequest) (*pb.ListAutostartResponse, error) {
	entries, err := s.repo.List(ctx, req.EnabledOnly)
	if err != nil {
		return nil, apperr.ToGRPCStatus(apperr.Wrap(apperr.KindDatabase, "list autostart entries", err))
	}
	resp := &pb.ListAutostartResponse{}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, &pb.AutostartEntry{
			Platform: e.Platform,
			Account:  e.AccountName,
			Enabled:  e.Enabled,
		})
	}
	return resp, nil
}

func (s *autostartServer) Set(ctx context.Context, req *pb.SetAutostartRequest) (*pb.SetAutostartResponse, error) {
	if err := s.repo.Set(ctx, req.Platform, req.Account, req.Enabled); err != nil {
		return nil, apperr.ToGRPCStatus(apperr.Wrap(apperr.KindDatabase, "set autostart entry", err))
	}
	return &pb.SetAutostartResponse{}, nil
}

func (s *autostartServer) Remove(ctx context.Context, req *pb.RemoveAutostartRequest) (*pb.RemoveAutostartResponse, error) {
	if err := s.repo.Remove(ctx, req.Platform, req.Account); err != nil {
		return nil, apperr.ToGRPCStatus(apperr.Wrap(apperr.KindDatabase, "remove autostart entry", err))
	}
	return &pb.RemoveAutostartResponse{}, nil
}

func (s *autostartServer) IsEnabled(ctx context.Context, req *pb.IsAutostartEnabledRequest) (*pb.IsAutostartEnabledResponse, error) {
	enabled, err := s.repo.IsEnabled(ctx, req.Platform, req.Account)
	if err != nil {
		return nil, apperr.ToGRPCStatus(apperr.Wrap(apperr.KindDatabase, "check autostart entry", err))
	}
	return &pb.IsAutostartEnabledResponse{Enabled: enabled}, nil
}
