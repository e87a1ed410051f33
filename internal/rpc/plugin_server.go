package rpc

import (
	"context"
	"time"

	"github.com/maowbot/maowbot/internal/apperr"
	"github.com/maowbot/maowbot/internal/plugin"
	"github.com/maowbot/maowbot/internal/rpc/pb"
)

// pluginServer backs spec.md §4.6-4.7's PluginService, dispatching the
// management RPCs straight to internal/plugin.Host and adapting the
// Session streaming RPC onto Host.HandleSession via streamSession below.
type pluginServer struct {
	host *plugin.Host
}

func newPluginServer(host *plugin.Host) pb.PluginServiceServer {
	return &pluginServer{host: host}
}

func (s *pluginServer) List(ctx context.Context, req *pb.ListPluginsRequest) (*pb.ListPluginsResponse, error) {
	resp := &pb.ListPluginsResponse{}
	for _, p := range s.host.List() {
		caps := make([]string, 0, len(p.Caps))
		for _, c := range p.Caps {
			caps = append(caps, string(c))
		}
		resp.Plugins = append(resp.Plugins, &pb.PluginInfo{
			Name:      p.Name,
			Enabled:   p.Enabled,
			Caps:      caps,
			Connected: formatTime(p.Connected),
		})
	}
	return resp, nil
}

func (s *pluginServer) SetEnabled(ctx context.Context, req *pb.SetPluginEnabledRequest) (*pb.SetPluginEnabledResponse, error) {
	if err := s.host.SetEnabled(req.Name, req.Enabled); err != nil {
		return nil, apperr.ToGRPCStatus(apperr.Wrap(apperr.KindNotFound, "set plugin enabled", err))
	}
	return &pb.SetPluginEnabledResponse{}, nil
}

func (s *pluginServer) Remove(ctx context.Context, req *pb.RemovePluginRequest) (*pb.RemovePluginResponse, error) {
	if err := s.host.Remove(ctx, req.Name); err != nil {
		return nil, apperr.ToGRPCStatus(apperr.Wrap(apperr.KindNotFound, "remove plugin", err))
	}
	return &pb.RemovePluginResponse{}, nil
}

func (s *pluginServer) GetSystemStatus(ctx context.Context, req *pb.GetSystemStatusRequest) (*pb.GetSystemStatusResponse, error) {
	st := s.host.Status()
	return &pb.GetSystemStatusResponse{
		ConnectedPlugins: int32(st.ConnectedPlugins),
		ServerUptimeMs:   st.ServerUptime.Milliseconds(),
	}, nil
}

func (s *pluginServer) Session(stream pb.PluginService_SessionServer) error {
	return s.host.HandleSession(stream.Context(), &streamSession{stream: stream})
}

// streamSession adapts a pb.PluginService_SessionServer gRPC stream onto
// plugin.Session, translating the flattened PluginStreamFrame wire envelope
// into internal/plugin's ClientFrame/HostFrame tagged unions.
type streamSession struct {
	stream pb.PluginService_SessionServer
}

func (s *streamSession) Send(ctx context.Context, frame plugin.HostFrame) error {
	return s.stream.Send(hostFrameToPB(frame))
}

func (s *streamSession) Recv(ctx context.Context) (plugin.ClientFrame, error) {
	wire, err := s.stream.Recv()
	if err != nil {
		return plugin.ClientFrame{}, err
	}
	return pbToClientFrame(wire), nil
}

func (s *streamSession) Close() error {
	return nil
}

func pbToClientFrame(f *pb.PluginStreamFrame) plugin.ClientFrame {
	var out plugin.ClientFrame
	if f.Hello != nil {
		out.Hello = &plugin.Hello{PluginName: f.Hello.PluginName, Passphrase: f.Hello.Passphrase}
	}
	if f.RequestCaps != nil {
		caps := make([]plugin.Capability, 0, len(f.RequestCaps.Requested))
		for _, c := range f.RequestCaps.Requested {
			caps = append(caps, plugin.Capability(c))
		}
		out.RequestCaps = &plugin.RequestCaps{Requested: caps}
	}
	if f.LogMessage != nil {
		out.LogMessage = &plugin.LogMessage{Text: f.LogMessage.Text}
	}
	if f.SendChat != nil {
		out.SendChat = &plugin.SendChat{Channel: f.SendChat.Channel, Text: f.SendChat.Text}
	}
	if f.Shutdown != nil {
		out.Shutdown = &plugin.Shutdown{}
	}
	if f.SwitchAccount != nil {
		out.SwitchAccount = &plugin.SwitchAccount{Platform: f.SwitchAccount.Platform, Account: f.SwitchAccount.Account}
	}
	return out
}

func hostFrameToPB(f plugin.HostFrame) *pb.PluginStreamFrame {
	out := &pb.PluginStreamFrame{}
	if f.Welcome != nil {
		out.Welcome = &pb.WelcomeFrame{BotName: f.Welcome.BotName}
	}
	if f.AuthError != nil {
		out.AuthError = &pb.AuthErrorFrame{Reason: f.AuthError.Reason}
	}
	if f.CapabilityResponse != nil {
		out.CapabilityResponse = &pb.CapabilityResponseFrame{
			Granted: capsToStrings(f.CapabilityResponse.Granted),
			Denied:  capsToStrings(f.CapabilityResponse.Denied),
		}
	}
	if f.ChatMessage != nil {
		out.ChatMessage = &pb.ChatMessageFrame{
			Platform: f.ChatMessage.Platform,
			Channel:  f.ChatMessage.Channel,
			User:     f.ChatMessage.User,
			Text:     f.ChatMessage.Text,
		}
	}
	if f.Tick != nil {
		out.Tick = &pb.TickFrame{At: f.Tick.At.Format(time.RFC3339)}
	}
	if f.GameEvent != nil {
		out.GameEvent = &pb.GameEventFrame{Name: f.GameEvent.Name, JSON: f.GameEvent.JSON}
	}
	if f.StatusResponse != nil {
		out.StatusResponse = &pb.StatusResponseFrame{
			ConnectedPlugins: int32(f.StatusResponse.ConnectedPlugins),
			ServerUptimeMs:   f.StatusResponse.ServerUptime.Milliseconds(),
		}
	}
	if f.ForceDisconnect != nil {
		out.ForceDisconnect = &pb.ForceDisconnectFrame{Reason: f.ForceDisconnect.Reason}
	}
	return out
}

func capsToStrings(caps []plugin.Capability) []string {
	out := make([]string, 0, len(caps))
	for _, c := range caps {
		out = append(out, string(c))
	}
	return out
}
