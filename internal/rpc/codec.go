// Package rpc hosts the gRPC service surface from spec.md §4.7: a real
// google.golang.org/grpc.Server exposing every service named there, but
// encoded with a hand-rolled JSON codec instead of wire protobuf.
//
// The corpus's services are generated from protobuf (api/proto +
// google.golang.org/protobuf, google.golang.org/grpc), but no .proto
// sources or generated .pb.go files were retrieved to copy or extend.
// This package defines the contract the way a real service does: internal
// /rpc/pb hand-implements the subset of protoc-gen-go/protoc-gen-go-grpc
// output needed to compile and serve it, and jsonCodec replaces wire
// protobuf with JSON framing, since no protoc invocation is available
// here. proto/maowbot.proto documents the same surface as IDL.
package rpc

import (
	"encoding/json"
	"fmt"

	"google.golang.org/grpc/encoding"
)

const codecName = "json"

// jsonCodec implements encoding.Codec, substituting for the protobuf wire
// codec grpc.Server uses by default. Every message type in internal/rpc/pb
// is a plain Go struct with `json:` tags rather than a generated
// proto.Message, so Marshal/Unmarshal go through encoding/json.
type jsonCodec struct{}

func (jsonCodec) Marshal(v interface{}) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("rpc: json marshal: %w", err)
	}
	return b, nil
}

func (jsonCodec) Unmarshal(data []byte, v interface{}) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("rpc: json unmarshal: %w", err)
	}
	return nil
}

func (jsonCodec) Name() string { return codecName }

func init() {
	encoding.RegisterCodec(jsonCodec{})
}
