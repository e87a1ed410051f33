// Package pb hand-implements the subset of protoc-gen-go/protoc-gen-go-grpc
// output maowbotd needs: plain JSON-tagged message structs plus
// grpc.ServiceDesc values wired to server-side business interfaces. No
// .proto sources or generated .pb.go files were available in the retrieved
// corpus to extend, so this package plays that role directly; see
// proto/maowbot.proto for the matching IDL documentation and DESIGN.md for
// the substitution rationale.
//
// Client stubs are intentionally not generated: every consumer of this
// surface (TUI, GUI, overlay) is an external collaborator outside this
// repository's scope (spec.md §1). Only the server side is implemented.
package pb

import (
	"context"

	"google.golang.org/grpc"
)

// Empty is the request/response shape for RPCs that carry no payload in
// either direction.
type Empty struct{}

// ErrorDetail mirrors internal/apperr.Error's Kind+Message pair across the
// wire, since the JSON codec has no protobuf status-detail mechanism.
type ErrorDetail struct {
	Kind    string `json:"kind,omitempty"`
	Message string `json:"message,omitempty"`
}

// unaryHandler adapts a (ctx, srv, *Req) -> (*Resp, error) server method
// into the grpc.MethodDesc.Handler shape, replacing what
// protoc-gen-go-grpc would otherwise emit once per RPC. This is the one
// piece of generated-code boilerplate this package factors into a generic
// helper rather than hand-duplicating per method.
func unaryHandler[Req any, Resp any](call func(srv interface{}, ctx context.Context, req *Req) (*Resp, error)) func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv, ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv, ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}
