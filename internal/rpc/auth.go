package rpc

import (
	"context"

	"github.com/golang-jwt/jwt/v5"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// claims is the maowbotd operator token payload. Grounded on the teacher's
// shared/jwt.Claims shape, trimmed to the one thing an RPC caller here
// needs proven: who they are, for audit log attribution.
type claims struct {
	Subject string `json:"sub"`
	jwt.RegisteredClaims
}

type callerKey struct{}

// CallerFromContext returns the authenticated operator's subject, or ""
// when AUTH_ENABLED is false (no token is parsed then) or the call is
// PluginService.Session, which skips bearer-token auth.
func CallerFromContext(ctx context.Context) string {
	s, _ := ctx.Value(callerKey{}).(string)
	return s
}

// authInterceptors builds the unary/stream interceptor pair enforcing
// cfg.AuthEnabled, grounded on shared/grpc/interceptor.go's split of
// "extract identity from metadata" from "run the handler", generalized
// from a permissive pass-through into a real bearer-token check: whenever
// enabled is true, every call except PluginService.Session must carry a
// token signed with secret by an HMAC method (HS256, HS384 or HS512), or
// be rejected with Unauthenticated.
func authInterceptors(enabled bool, secret string) (grpc.UnaryServerInterceptor, grpc.StreamServerInterceptor) {
	unary := func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		ctx, err := authenticate(ctx, enabled, secret)
		if err != nil {
			return nil, err
		}
		return handler(ctx, req)
	}
	stream := func(srv interface{}, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		if info.FullMethod == pluginSessionMethod {
			// PluginService.Session authenticates with its own
			// passphrase handshake (plugin.Policy), not a bearer token.
			return handler(srv, ss)
		}
		ctx, err := authenticate(ss.Context(), enabled, secret)
		if err != nil {
			return err
		}
		return handler(srv, &authenticatedStream{ServerStream: ss, ctx: ctx})
	}
	return unary, stream
}

// pluginSessionMethod is PluginService.Session's full gRPC method name,
// exempted from bearer-token auth above.
const pluginSessionMethod = "/maowbot.PluginService/Session"

func authenticate(ctx context.Context, enabled bool, secret string) (context.Context, error) {
	if !enabled {
		return ctx, nil
	}
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing metadata")
	}
	tokens := md.Get("authorization")
	if len(tokens) == 0 {
		return nil, status.Error(codes.Unauthenticated, "missing authorization token")
	}
	raw := stripBearer(tokens[0])

	parsed, err := jwt.ParseWithClaims(raw, &claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, status.Error(codes.Unauthenticated, "unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, status.Error(codes.Unauthenticated, "invalid token")
	}
	c := parsed.Claims.(*claims)
	return context.WithValue(ctx, callerKey{}, c.Subject), nil
}

func stripBearer(v string) string {
	const prefix = "Bearer "
	if len(v) > len(prefix) && v[:len(prefix)] == prefix {
		return v[len(prefix):]
	}
	return v
}

type authenticatedStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (s *authenticatedStream) Context() context.Context { return s.ctx }
