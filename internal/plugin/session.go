package plugin

import (
	"context"
	"errors"
	"io"
	"sync"
)

// ErrSessionClosed is returned by Recv/Send once the session has been
// closed, the way io.EOF signals end-of-stream for a grpc.ServerStream.
var ErrSessionClosed = errors.New("plugin: session closed")

// Session is the transport-agnostic connection contract the Host drives.
// internal/rpc implements one over a gRPC bidi stream; InProcessPair
// implements one over channels for plugins compiled into the host binary.
type Session interface {
	Send(ctx context.Context, frame HostFrame) error
	Recv(ctx context.Context) (ClientFrame, error)
	Close() error
}

// InProcessClient is the plugin-facing handle returned alongside the
// Session the host drives: an in-process plugin goroutine calls SendFrame
// to talk to the host and RecvFrame to read host frames.
type InProcessClient interface {
	SendFrame(ctx context.Context, frame ClientFrame) error
	RecvFrame(ctx context.Context) (HostFrame, error)
	Close() error
}

type inProcessChannels struct {
	toPlugin chan HostFrame
	toHost   chan ClientFrame

	closeOnce sync.Once
	closed    chan struct{}
}

// InProcessPair returns a Session for the host side and an InProcessClient
// for the plugin side, wired to each other through buffered channels.
func InProcessPair(buffer int) (Session, InProcessClient) {
	c := &inProcessChannels{
		toPlugin: make(chan HostFrame, buffer),
		toHost:   make(chan ClientFrame, buffer),
		closed:   make(chan struct{}),
	}
	return &hostSideSession{c}, &pluginSideClient{c}
}

type hostSideSession struct{ c *inProcessChannels }

func (s *hostSideSession) Send(ctx context.Context, frame HostFrame) error {
	select {
	case s.c.toPlugin <- frame:
		return nil
	case <-s.c.closed:
		return ErrSessionClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *hostSideSession) Recv(ctx context.Context) (ClientFrame, error) {
	select {
	case f, ok := <-s.c.toHost:
		if !ok {
			return ClientFrame{}, io.EOF
		}
		return f, nil
	case <-s.c.closed:
		return ClientFrame{}, ErrSessionClosed
	case <-ctx.Done():
		return ClientFrame{}, ctx.Err()
	}
}

func (s *hostSideSession) Close() error {
	s.c.closeOnce.Do(func() { close(s.c.closed) })
	return nil
}

type pluginSideClient struct{ c *inProcessChannels }

func (p *pluginSideClient) SendFrame(ctx context.Context, frame ClientFrame) error {
	select {
	case p.c.toHost <- frame:
		return nil
	case <-p.c.closed:
		return ErrSessionClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *pluginSideClient) RecvFrame(ctx context.Context) (HostFrame, error) {
	select {
	case f, ok := <-p.c.toPlugin:
		if !ok {
			return HostFrame{}, io.EOF
		}
		return f, nil
	case <-p.c.closed:
		return HostFrame{}, ErrSessionClosed
	case <-ctx.Done():
		return HostFrame{}, ctx.Err()
	}
}

func (p *pluginSideClient) Close() error {
	p.c.closeOnce.Do(func() { close(p.c.closed) })
	return nil
}
