package metrics

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

// UnaryServerInterceptor records GRPCRequestsTotal/GRPCRequestDuration for
// every unary RPC, grounded on shared/grpc/interceptor.go's AuthInterceptor
// shape (extract, call handler, return), generalized from auth metadata
// extraction to latency/status observation.
func (m *Metrics) UnaryServerInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		duration := time.Since(start).Seconds()

		code := status.Code(err).String()
		m.GRPCRequestsTotal.WithLabelValues(info.FullMethod, code).Inc()
		m.GRPCRequestDuration.WithLabelValues(info.FullMethod, code).Observe(duration)
		return resp, err
	}
}

// StreamServerInterceptor records the same pair of metrics for streaming
// RPCs (PluginService.Session), observing from stream open to stream close
// rather than per-message.
func (m *Metrics) StreamServerInterceptor() grpc.StreamServerInterceptor {
	return func(srv interface{}, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		start := time.Now()
		err := handler(srv, ss)
		duration := time.Since(start).Seconds()

		code := status.Code(err).String()
		m.GRPCRequestsTotal.WithLabelValues(info.FullMethod, code).Inc()
		m.GRPCRequestDuration.WithLabelValues(info.FullMethod, code).Observe(duration)
		return err
	}
}
