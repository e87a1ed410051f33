package rpc

import (
	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"

	"github.com/maowbot/maowbot/internal/ai"
	"github.com/maowbot/maowbot/internal/credential"
	"github.com/maowbot/maowbot/internal/eventbus"
	"github.com/maowbot/maowbot/internal/metrics"
	"github.com/maowbot/maowbot/internal/pipeline"
	"github.com/maowbot/maowbot/internal/platform"
	"github.com/maowbot/maowbot/internal/plugin"
	"github.com/maowbot/maowbot/internal/repository/interfaces"
	"github.com/maowbot/maowbot/internal/rpc/pb"
)

// Deps wires every backend the gRPC surface fronts. cmd/maowbotd builds one
// of these once everything underneath has been constructed and passes it
// to NewServer.
type Deps struct {
	Config          interfaces.ConfigRepository
	Audit           interfaces.AuditRepository
	PlatformConfigs interfaces.PlatformConfigRepository
	Autostart       interfaces.AutostartRepository
	Pipelines       interfaces.PipelineRepository
	ExecutionLog    interfaces.ExecutionLogRepository

	Bus        *eventbus.Bus
	Credential *credential.Store
	Platform   *platform.Manager
	Engine     *pipeline.Engine
	PluginHost *plugin.Host
	AI         *ai.Manager
	Metrics    *metrics.Metrics

	// AuthEnabled/AuthSecret gate the bearer-token interceptor (auth.go).
	// AuthSecret is ignored when AuthEnabled is false.
	AuthEnabled bool
	AuthSecret  string
}

// NewServer builds the *grpc.Server exposing spec.md §4.7's full service
// surface over the JSON codec registered in codec.go, chaining the
// Prometheus interceptors the way shared/grpc/interceptor.go chains auth
// and logging around every RPC.
func NewServer(d Deps) *grpc.Server {
	authUnary, authStream := authInterceptors(d.AuthEnabled, d.AuthSecret)

	var opts []grpc.ServerOption
	opts = append(opts, grpc.ForceServerCodec(encoding.GetCodec(codecName)))
	unaryChain := []grpc.UnaryServerInterceptor{authUnary}
	streamChain := []grpc.StreamServerInterceptor{authStream}
	if d.Metrics != nil {
		unaryChain = append(unaryChain, d.Metrics.UnaryServerInterceptor())
		streamChain = append(streamChain, d.Metrics.StreamServerInterceptor())
	}
	opts = append(opts,
		grpc.ChainUnaryInterceptor(unaryChain...),
		grpc.ChainStreamInterceptor(streamChain...),
	)

	srv := grpc.NewServer(opts...)

	pb.RegisterConfigServiceServer(srv, newConfigServer(d.Config, d.Audit, d.Bus))
	pb.RegisterCredentialServiceServer(srv, newCredentialServer(d.Credential))
	pb.RegisterPlatformServiceServer(srv, newPlatformServer(d.PlatformConfigs, d.Platform))
	pb.RegisterAutostartServiceServer(srv, newAutostartServer(d.Autostart))
	pb.RegisterEventPipelineServiceServer(srv, newPipelineServer(d.Pipelines, d.ExecutionLog, d.Engine))
	pb.RegisterPluginServiceServer(srv, newPluginServer(d.PluginHost))
	pb.RegisterAiServiceServer(srv, newAiServer(d.AI))
	pb.RegisterTwitchServiceServer(srv, newTwitchServer(d.Platform))
	pb.RegisterDiscordServiceServer(srv, newDiscordServer(d.Platform))
	pb.RegisterVrChatServiceServer(srv, newVrChatServer(d.Platform))

	return srv
}
