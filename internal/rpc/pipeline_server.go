package rpc

import (
	"context"
	"encoding/json"

	"github.com/maowbot/maowbot/internal/apperr"
	"github.com/maowbot/maowbot/internal/events"
	"github.com/maowbot/maowbot/internal/pipeline"
	"github.com/maowbot/maowbot/internal/repository/interfaces"
	"github.com/maowbot/maowbot/internal/rpc/pb"
)

// pipelineServer backs the EventPipelineService (spec.md §4.5, §4.7): CRUD
// on pipeline definitions plus ad-hoc test execution against a synthetic
// event, dispatched to internal/pipeline.Engine.
type pipelineServer struct {
	pipelines interfaces.PipelineRepository
	execLog   interfaces.ExecutionLogRepository
	engine    *pipeline.Engine
}

func newPipelineServer(pipelines interfaces.PipelineRepository, execLog interfaces.ExecutionLogRepository, engine *pipeline.Engine) pb.EventPipelineServiceServer {
	return &pipelineServer{pipelines: pipelines, execLog: execLog, engine: engine}
}

func (s *pipelineServer) Create(ctx context.Context, req *pb.CreatePipelineRequest) (*pb.CreatePipelineResponse, error) {
	p := pbToPipeline(req.Pipeline)
	if err := s.pipelines.Create(ctx, p); err != nil {
		return nil, apperr.ToGRPCStatus(apperr.Wrap(apperr.KindDatabase, "create pipeline", err))
	}
	return &pb.CreatePipelineResponse{Pipeline: pipelineToPB(p)}, nil
}

func (s *pipelineServer) Get(ctx context.Context, req *pb.GetPipelineRequest) (*pb.GetPipelineResponse, error) {
	p, err := s.pipelines.Get(ctx, req.PipelineID)
	if err != nil {
		return nil, apperr.ToGRPCStatus(apperr.Wrap(apperr.KindDatabase, "get pipeline", err))
	}
	if p == nil {
		return nil, apperr.ToGRPCStatus(apperr.New(apperr.KindNotFound, "pipeline not found: "+req.PipelineID))
	}
	return &pb.GetPipelineResponse{Pipeline: pipelineToPB(p)}, nil
}

func (s *pipelineServer) List(ctx context.Context, req *pb.ListPipelinesRequest) (*pb.ListPipelinesResponse, error) {
	pipelines, err := s.pipelines.List(ctx, req.EnabledOnly)
	if err != nil {
		return nil, apperr.ToGRPCStatus(apperr.Wrap(apperr.KindDatabase, "list pipelines", err))
	}
	resp := &pb.ListPipelinesResponse{}
	for _, p := range pipelines {
		resp.Pipelines = append(resp.Pipelines, pipelineToPB(p))
	}
	return resp, nil
}

func (s *pipelineServer) Update(ctx context.Context, req *pb.UpdatePipelineRequest) (*pb.UpdatePipelineResponse, error) {
	p := pbToPipeline(req.Pipeline)
	if err := s.pipelines.Update(ctx, p); err != nil {
		return nil, apperr.ToGRPCStatus(apperr.Wrap(apperr.KindDatabase, "update pipeline", err))
	}
	return &pb.UpdatePipelineResponse{Pipeline: pipelineToPB(p)}, nil
}

func (s *pipelineServer) Delete(ctx context.Context, req *pb.DeletePipelineRequest) (*pb.DeletePipelineResponse, error) {
	if err := s.pipelines.Delete(ctx, req.PipelineID); err != nil {
		return nil, apperr.ToGRPCStatus(apperr.Wrap(apperr.KindDatabase, "delete pipeline", err))
	}
	return &pb.DeletePipelineResponse{}, nil
}

// testEvent is the minimal shape ExecuteTest accepts as event_json: a flat
// chat message. Richer event kinds aren't exercisable from this RPC yet.
type testEvent struct {
	Platform string `json:"platform"`
	Channel  string `json:"channel"`
	User     string `json:"user"`
	Text     string `json:"text"`
}

func (s *pipelineServer) ExecuteTest(ctx context.Context, req *pb.ExecuteTestRequest) (*pb.ExecuteTestResponse, error) {
	var te testEvent
	if req.EventJSON != "" {
		if err := json.Unmarshal([]byte(req.EventJSON), &te); err != nil {
			return nil, apperr.ToGRPCStatus(apperr.Wrap(apperr.KindParse, "parse test event JSON", err))
		}
	}
	event := events.NewChatMessage(te.Platform, te.Channel, te.User, te.Text)

	log, err := s.engine.ExecuteTest(ctx, req.PipelineID, event)
	if err != nil {
		if log == nil {
			return nil, apperr.ToGRPCStatus(apperr.Wrap(apperr.KindServiceError, "execute test pipeline", err))
		}
	}
	resp := &pb.ExecuteTestResponse{Status: string(log.Status)}
	if log.DurationMs != nil {
		resp.DurationMs = *log.DurationMs
	}
	if log.ErrorMessage != nil {
		resp.ErrorMessage = *log.ErrorMessage
	} else if err != nil {
		resp.ErrorMessage = err.Error()
	}
	return resp, nil
}

func (s *pipelineServer) ListExecutionLog(ctx context.Context, req *pb.ListExecutionLogRequest) (*pb.ListExecutionLogResponse, error) {
	limit := int(req.Limit)
	if limit <= 0 {
		limit = 50
	}
	logs, err := s.execLog.ListByPipeline(ctx, req.PipelineID, limit)
	if err != nil {
		return nil, apperr.ToGRPCStatus(apperr.Wrap(apperr.KindDatabase, "list execution log", err))
	}
	resp := &pb.ListExecutionLogResponse{}
	for _, l := range logs {
		e := &pb.ExecutionLogEntry{
			ExecutionID: l.ExecutionID,
			Status:      string(l.Status),
			StartedAt:   formatTime(l.StartedAt),
		}
		if l.DurationMs != nil {
			e.DurationMs = *l.DurationMs
		}
		resp.Entries = append(resp.Entries, e)
	}
	return resp, nil
}
