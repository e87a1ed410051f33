package pb

import (
	"context"

	"google.golang.org/grpc"
)

type PipelineFilter struct {
	FilterType  string            `json:"filter_type"`
	FilterConfig map[string]string `json:"filter_config,omitempty"`
	FilterOrder int32             `json:"filter_order"`
	IsNegated   bool              `json:"is_negated"`
	IsRequired  bool              `json:"is_required"`
}

type PipelineAction struct {
	ActionType      string            `json:"action_type"`
	ActionConfig    map[string]string `json:"action_config,omitempty"`
	ActionOrder     int32             `json:"action_order"`
	ContinueOnError bool              `json:"continue_on_error"`
	IsAsync         bool              `json:"is_async"`
	TimeoutMs       int64             `json:"timeout_ms,omitempty"`
	RetryCount      int32             `json:"retry_count"`
	RetryDelayMs    int32             `json:"retry_delay_ms"`
	ConditionType   string            `json:"condition_type,omitempty"`
}

type Pipeline struct {
	PipelineID  string            `json:"pipeline_id,omitempty"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Enabled     bool              `json:"enabled"`
	Priority    int32             `json:"priority"`
	StopOnMatch bool              `json:"stop_on_match"`
	StopOnError bool              `json:"stop_on_error"`
	Tags        []string          `json:"tags,omitempty"`
	Filters     []*PipelineFilter `json:"filters,omitempty"`
	Actions     []*PipelineAction `json:"actions,omitempty"`
}

type CreatePipelineRequest struct {
	Pipeline *Pipeline `json:"pipeline"`
}
type CreatePipelineResponse struct {
	Pipeline *Pipeline `json:"pipeline"`
}

type GetPipelineRequest struct {
	PipelineID string `json:"pipeline_id"`
}
type GetPipelineResponse struct {
	Pipeline *Pipeline `json:"pipeline"`
}

type ListPipelinesRequest struct {
	EnabledOnly bool `json:"enabled_only"`
}
type ListPipelinesResponse struct {
	Pipelines []*Pipeline `json:"pipelines"`
}

type UpdatePipelineRequest struct {
	Pipeline *Pipeline `json:"pipeline"`
}
type UpdatePipelineResponse struct {
	Pipeline *Pipeline `json:"pipeline"`
}

type DeletePipelineRequest struct {
	PipelineID string `json:"pipeline_id"`
}
type DeletePipelineResponse struct{}

type ExecuteTestRequest struct {
	PipelineID string            `json:"pipeline_id"`
	EventJSON  string            `json:"event_json"`
}
type ExecuteTestResponse struct {
	Status      string `json:"status"`
	ErrorMessage string `json:"error_message,omitempty"`
	DurationMs  int64  `json:"duration_ms"`
}

type ListExecutionLogRequest struct {
	PipelineID string `json:"pipeline_id"`
	Limit      int32  `json:"limit"`
}

type ExecutionLogEntry struct {
	ExecutionID string `json:"execution_id"`
	Status      string `json:"status"`
	StartedAt   string `json:"started_at"`
	DurationMs  int64  `json:"duration_ms,omitempty"`
}

type ListExecutionLogResponse struct {
	Entries []*ExecutionLogEntry `json:"entries"`
}

// EventPipelineServiceServer backs spec.md §4.7's implicit
// EventPipelineService: CRUD on pipelines plus test execution and
// execution-log queries, dispatched to internal/pipeline.Engine and the
// pipeline repositories.
type EventPipelineServiceServer interface {
	Create(ctx context.Context, req *CreatePipelineRequest) (*CreatePipelineResponse, error)
	Get(ctx context.Context, req *GetPipelineRequest) (*GetPipelineResponse, error)
	List(ctx context.Context, req *ListPipelinesRequest) (*ListPipelinesResponse, error)
	Update(ctx context.Context, req *UpdatePipelineRequest) (*UpdatePipelineResponse, error)
	Delete(ctx context.Context, req *DeletePipelineRequest) (*DeletePipelineResponse, error)
	ExecuteTest(ctx context.Context, req *ExecuteTestRequest) (*ExecuteTestResponse, error)
	ListExecutionLog(ctx context.Context, req *ListExecutionLogRequest) (*ListExecutionLogResponse, error)
}

var EventPipelineService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "maowbot.EventPipelineService",
	HandlerType: (*EventPipelineServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Create", Handler: unaryHandler(func(srv interface{}, ctx context.Context, req *CreatePipelineRequest) (*CreatePipelineResponse, error) {
			return srv.(EventPipelineServiceServer).Create(ctx, req)
		})},
		{MethodName: "Get", Handler: unaryHandler(func(srv interface{}, ctx context.Context, req *GetPipelineRequest) (*GetPipelineResponse, error) {
			return srv.(EventPipelineServiceServer).Get(ctx, req)
		})},
		{MethodName: "List", Handler: unaryHandler(func(srv interface{}, ctx context.Context, req *ListPipelinesRequest) (*ListPipelinesResponse, error) {
			return srv.(EventPipelineServiceServer).List(ctx, req)
		})},
		{MethodName: "Update", Handler: unaryHandler(func(srv interface{}, ctx context.Context, req *UpdatePipelineRequest) (*UpdatePipelineResponse, error) {
			return srv.(EventPipelineServiceServer).Update(ctx, req)
		})},
		{MethodName: "Delete", Handler: unaryHandler(func(srv interface{}, ctx context.Context, req *DeletePipelineRequest) (*DeletePipelineResponse, error) {
			return srv.(EventPipelineServiceServer).Delete(ctx, req)
		})},
		{MethodName: "ExecuteTest", Handler: unaryHandler(func(srv interface{}, ctx context.Context, req *ExecuteTestRequest) (*ExecuteTestResponse, error) {
			return srv.(EventPipelineServiceServer).ExecuteTest(ctx, req)
		})},
		{MethodName: "ListExecutionLog", Handler: unaryHandler(func(srv interface{}, ctx context.Context, req *ListExecutionLogRequest) (*ListExecutionLogResponse, error) {
			return srv.(EventPipelineServiceServer).ListExecutionLog(ctx, req)
		})},
	},
	Metadata: "maowbot.proto",
}

func RegisterEventPipelineServiceServer(s grpc.ServiceRegistrar, srv EventPipelineServiceServer) {
	s.RegisterService(&EventPipelineService_ServiceDesc, srv)
}
