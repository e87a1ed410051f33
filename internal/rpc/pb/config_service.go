package pb

import (
	"context"

	"google.golang.org/grpc"
)

type ConfigEntry struct {
	Key       string `json:"key"`
	Value     string `json:"value"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

type GetConfigRequest struct {
	Key string `json:"key"`
}

type GetConfigResponse struct {
	Entry *ConfigEntry `json:"entry,omitempty"`
	Found bool         `json:"found"`
}

type SetConfigRequest struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type SetConfigResponse struct {
	Entry *ConfigEntry `json:"entry"`
}

type DeleteConfigRequest struct {
	Key string `json:"key"`
}

type DeleteConfigResponse struct{}

type ListConfigRequest struct {
	Prefix string `json:"prefix,omitempty"`
}

type ListConfigResponse struct {
	Entries []*ConfigEntry `json:"entries"`
}

type BatchSetConfigRequest struct {
	Entries []*ConfigEntry `json:"entries"`
}

type BatchSetConfigResponse struct {
	Entries []*ConfigEntry `json:"entries"`
}

type ValidateConfigRequest struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type ValidateConfigResponse struct {
	Valid string `json:"valid"`
	Error string `json:"error,omitempty"`
}

type ExportConfigRequest struct{}

type ExportConfigResponse struct {
	JSON string `json:"json"`
}

type ImportConfigRequest struct {
	JSON      string `json:"json"`
	Overwrite bool   `json:"overwrite"`
}

type ImportConfigResponse struct {
	Imported int32 `json:"imported"`
}

type ConfigHistoryRequest struct {
	Key string `json:"key"`
}

type ConfigHistoryEntry struct {
	Key       string `json:"key"`
	Value     string `json:"value"`
	ChangedAt string `json:"changed_at"`
}

type ConfigHistoryResponse struct {
	Entries []*ConfigHistoryEntry `json:"entries"`
}

type ShutdownServerRequest struct {
	Reason             string `json:"reason"`
	GracePeriodSeconds int32  `json:"grace_period_seconds"`
}

type ShutdownServerResponse struct{}

// ConfigServiceServer is the business contract behind spec.md §4.7's
// ConfigService. History is append-only in the audit log, so
// GetHistory filters AuditRepository entries by TargetID == key
// rather than a dedicated table (SPEC_FULL §3 expansion note).
type ConfigServiceServer interface {
	Get(ctx context.Context, req *GetConfigRequest) (*GetConfigResponse, error)
	Set(ctx context.Context, req *SetConfigRequest) (*SetConfigResponse, error)
	Delete(ctx context.Context, req *DeleteConfigRequest) (*DeleteConfigResponse, error)
	List(ctx context.Context, req *ListConfigRequest) (*ListConfigResponse, error)
	BatchSet(ctx context.Context, req *BatchSetConfigRequest) (*BatchSetConfigResponse, error)
	Validate(ctx context.Context, req *ValidateConfigRequest) (*ValidateConfigResponse, error)
	Export(ctx context.Context, req *ExportConfigRequest) (*ExportConfigResponse, error)
	Import(ctx context.Context, req *ImportConfigRequest) (*ImportConfigResponse, error)
	GetHistory(ctx context.Context, req *ConfigHistoryRequest) (*ConfigHistoryResponse, error)
	ShutdownServer(ctx context.Context, req *ShutdownServerRequest) (*ShutdownServerResponse, error)
}

var ConfigService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "maowbot.ConfigService",
	HandlerType: (*ConfigServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Get", Handler: unaryHandler(func(srv interface{}, ctx context.Context, req *GetConfigRequest) (*GetConfigResponse, error) {
			return srv.(ConfigServiceServer).Get(ctx, req)
		})},
		{MethodName: "Set", Handler: unaryHandler(func(srv interface{}, ctx context.Context, req *SetConfigRequest) (*SetConfigResponse, error) {
			return srv.(ConfigServiceServer).Set(ctx, req)
		})},
		{MethodName: "Delete", Handler: unaryHandler(func(srv interface{}, ctx context.Context, req *DeleteConfigRequest) (*DeleteConfigResponse, error) {
			return srv.(ConfigServiceServer).Delete(ctx, req)
		})},
		{MethodName: "List", Handler: unaryHandler(func(srv interface{}, ctx context.Context, req *ListConfigRequest) (*ListConfigResponse, error) {
			return srv.(ConfigServiceServer).List(ctx, req)
		})},
		{MethodName: "BatchSet", Handler: unaryHandler(func(srv interface{}, ctx context.Context, req *BatchSetConfigRequest) (*BatchSetConfigResponse, error) {
			return srv.(ConfigServiceServer).BatchSet(ctx, req)
		})},
		{MethodName: "Validate", Handler: unaryHandler(func(srv interface{}, ctx context.Context, req *ValidateConfigRequest) (*ValidateConfigResponse, error) {
			return srv.(ConfigServiceServer).Validate(ctx, req)
		})},
		{MethodName: "Export", Handler: unaryHandler(func(srv interface{}, ctx context.Context, req *ExportConfigRequest) (*ExportConfigResponse, error) {
			return srv.(ConfigServiceServer).Export(ctx, req)
		})},
		{MethodName: "Import", Handler: unaryHandler(func(srv interface{}, ctx context.Context, req *ImportConfigRequest) (*ImportConfigResponse, error) {
			return srv.(ConfigServiceServer).Import(ctx, req)
		})},
		{MethodName: "GetHistory", Handler: unaryHandler(func(srv interface{}, ctx context.Context, req *ConfigHistoryRequest) (*ConfigHistoryResponse, error) {
			return srv.(ConfigServiceServer).GetHistory(ctx, req)
		})},
		{MethodName: "ShutdownServer", Handler: unaryHandler(func(srv interface{}, ctx context.Context, req *ShutdownServerRequest) (*ShutdownServerResponse, error) {
			return srv.(ConfigServiceServer).ShutdownServer(ctx, req)
		})},
	},
	Metadata: "maowbot.proto",
}

func RegisterConfigServiceServer(s grpc.ServiceRegistrar, srv ConfigServiceServer) {
	s.RegisterService(&ConfigService_ServiceDesc, srv)
}
