package rpc

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/maowbot/maowbot/internal/apperr"
	"github.com/maowbot/maowbot/internal/domain"
	"github.com/maowbot/maowbot/internal/eventbus"
	"github.com/maowbot/maowbot/internal/logger"
	"github.com/maowbot/maowbot/internal/repository/interfaces"
	"github.com/maowbot/maowbot/internal/rpc/pb"
)

// configServer backs spec.md §4.7's ConfigService over the flat key/value
// store of spec.md §6, with every mutation appended to AuditRepository
// (SPEC_FULL §3 expansion) so GetHistory has something to read.
type configServer struct {
	cfg   interfaces.ConfigRepository
	audit interfaces.AuditRepository
	bus   *eventbus.Bus
	log   *logger.Logger
}

func newConfigServer(cfg interfaces.ConfigRepository, audit interfaces.AuditRepository, bus *eventbus.Bus) pb.ConfigServiceServer {
	return &configServer{cfg: cfg, audit: audit, bus: bus, log: logger.New("rpc.config")}
}

func (s *configServer) appendAudit(ctx context.Context, action, targetID, detail string, success bool) {
	if s.audit == nil {
		return
	}
	err := s.audit.Append(ctx, &domain.AuditEntry{
		ID:         uuid.NewString(),
		OccurredAt: time.Now(),
		Actor:      "rpc",
		Action:     action,
		TargetType: "config",
		TargetID:   targetID,
		Detail:     detail,
		Success:    success,
	})
	if err != nil {
		s.log.Error("append audit entry: %v", err)
	}
}

func (s *configServer) Get(ctx context.Context, req *pb.GetConfigRequest) (*pb.GetConfigResponse, error) {
	v, found, err := s.cfg.Get(ctx, req.Key)
	if err != nil {
		return nil, apperr.ToGRPCStatus(apperr.Wrap(apperr.KindDatabase, "get config", err))
	}
	if !found {
		return &pb.GetConfigResponse{Found: false}, nil
	}
	return &pb.GetConfigResponse{Found: true, Entry: &pb.ConfigEntry{Key: req.Key, Value: v}}, nil
}

func (s *configServer) Set(ctx context.Context, req *pb.SetConfigRequest) (*pb.SetConfigResponse, error) {
	if err := s.cfg.Set(ctx, req.Key, req.Value); err != nil {
		s.appendAudit(ctx, "config.set", req.Key, req.Value, false)
		return nil, apperr.ToGRPCStatus(apperr.Wrap(apperr.KindDatabase, "set config", err))
	}
	s.appendAudit(ctx, "config.set", req.Key, req.Value, true)
	return &pb.SetConfigResponse{Entry: &pb.ConfigEntry{Key: req.Key, Value: req.Value}}, nil
}

func (s *configServer) Delete(ctx context.Context, req *pb.DeleteConfigRequest) (*pb.DeleteConfigResponse, error) {
	if err := s.cfg.Delete(ctx, req.Key); err != nil {
		s.appendAudit(ctx, "config.delete", req.Key, "", false)
		return nil, apperr.ToGRPCStatus(apperr.Wrap(apperr.KindDatabase, "delete config", err))
	}
	s.appendAudit(ctx, "config.delete", req.Key, "", true)
	return &pb.DeleteConfigResponse{}, nil
}

func (s *configServer) List(ctx context.Context, req *pb.ListConfigRequest) (*pb.ListConfigResponse, error) {
	all, err := s.cfg.List(ctx)
	if err != nil {
		return nil, apperr.ToGRPCStatus(apperr.Wrap(apperr.KindDatabase, "list config", err))
	}
	keys := make([]string, 0, len(all))
	for k := range all {
		if req.Prefix == "" || hasPrefix(k, req.Prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	resp := &pb.ListConfigResponse{}
	for _, k := range keys {
		resp.Entries = append(resp.Entries, &pb.ConfigEntry{Key: k, Value: all[k]})
	}
	return resp, nil
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}

func (s *configServer) BatchSet(ctx context.Context, req *pb.BatchSetConfigRequest) (*pb.BatchSetConfigResponse, error) {
	resp := &pb.BatchSetConfigResponse{}
	for _, e := range req.Entries {
		if err := s.cfg.Set(ctx, e.Key, e.Value); err != nil {
			s.appendAudit(ctx, "config.batch_set", e.Key, e.Value, false)
			return nil, apperr.ToGRPCStatus(apperr.Wrap(apperr.KindDatabase, "batch set config key "+e.Key, err))
		}
		s.appendAudit(ctx, "config.batch_set", e.Key, e.Value, true)
		resp.Entries = append(resp.Entries, &pb.ConfigEntry{Key: e.Key, Value: e.Value})
	}
	return resp, nil
}

// Validate checks a prospective key/value pair without persisting it.
// There is no per-key schema registry (spec.md §6 keeps config flat and
// untyped), so the only rule enforced here is a non-empty key.
func (s *configServer) Validate(ctx context.Context, req *pb.ValidateConfigRequest) (*pb.ValidateConfigResponse, error) {
	if req.Key == "" {
		return &pb.ValidateConfigResponse{Valid: "false", Error: "key must not be empty"}, nil
	}
	return &pb.ValidateConfigResponse{Valid: "true"}, nil
}

func (s *configServer) Export(ctx context.Context, req *pb.ExportConfigRequest) (*pb.ExportConfigResponse, error) {
	all, err := s.cfg.List(ctx)
	if err != nil {
		return nil, apperr.ToGRPCStatus(apperr.Wrap(apperr.KindDatabase, "export config", err))
	}
	b, err := json.Marshal(all)
	if err != nil {
		return nil, apperr.ToGRPCStatus(apperr.Wrap(apperr.KindInternal, "marshal config export", err))
	}
	return &pb.ExportConfigResponse{JSON: string(b)}, nil
}

func (s *configServer) Import(ctx context.Context, req *pb.ImportConfigRequest) (*pb.ImportConfigResponse, error) {
	var incoming map[string]string
	if err := json.Unmarshal([]byte(req.JSON), &incoming); err != nil {
		return nil, apperr.ToGRPCStatus(apperr.Wrap(apperr.KindParse, "parse config import", err))
	}
	existing, err := s.cfg.List(ctx)
	if err != nil {
		return nil, apperr.ToGRPCStatus(apperr.Wrap(apperr.KindDatabase, "list config for import", err))
	}
	var imported int32
	for k, v := range incoming {
		if _, already := existing[k]; already && !req.Overwrite {
			continue
		}
		if err := s.cfg.Set(ctx, k, v); err != nil {
			return nil, apperr.ToGRPCStatus(apperr.Wrap(apperr.KindDatabase, "import config key "+k, err))
		}
		imported++
	}
	s.appendAudit(ctx, "config.import", "", "imported "+itoa(int(imported))+" keys", true)
	return &pb.ImportConfigResponse{Imported: imported}, nil
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// GetHistory filters AuditRepository entries down to config.* mutations of
// one key, since there is no dedicated config-history table
// (SPEC_FULL §3 expansion note on ConfigServiceServer).
func (s *configServer) GetHistory(ctx context.Context, req *pb.ConfigHistoryRequest) (*pb.ConfigHistoryResponse, error) {
	if s.audit == nil {
		return &pb.ConfigHistoryResponse{}, nil
	}
	entries, err := s.audit.List(ctx, 500)
	if err != nil {
		return nil, apperr.ToGRPCStatus(apperr.Wrap(apperr.KindDatabase, "list audit history", err))
	}
	resp := &pb.ConfigHistoryResponse{}
	for _, e := range entries {
		if e.TargetType != "config" || e.TargetID != req.Key {
			continue
		}
		resp.Entries = append(resp.Entries, &pb.ConfigHistoryEntry{
			Key:       e.TargetID,
			Value:     e.Detail,
			ChangedAt: formatTime(e.OccurredAt),
		})
	}
	return resp, nil
}

// ShutdownServer logs the reason and schedules a graceful bus shutdown
// after GracePeriodSeconds (shared/grpc's admin-triggered shutdown RPCs).
// Only the event bus is shut down: the gRPC server and the process keep
// running.
func (s *configServer) ShutdownServer(ctx context.Context, req *pb.ShutdownServerRequest) (*pb.ShutdownServerResponse, error) {
	grace := time.Duration(req.GracePeriodSeconds) * time.Second
	s.log.Info("shutdown requested (reason=%q, grace=%v)", req.Reason, grace)
	s.appendAudit(ctx, "config.shutdown", "", req.Reason, true)
	go func() {
		if grace > 0 {
			time.Sleep(grace)
		}
		s.bus.Shutdown()
	}()
	return &pb.ShutdownServerResponse{}, nil
}
