package plugin

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/maowbot/maowbot/internal/eventbus"
)

type fakeChatSender struct {
	sent []string
}

func (f *fakeChatSender) SendTwitchMessage(ctx context.Context, account, channel, text, replyToID string) error {
	f.sent = append(f.sent, channel+":"+text)
	return nil
}

func TestHostHandshakeGrantsRequestedCapabilities(t *testing.T) {
	t.Parallel()

	bus := eventbus.New()
	policy := NewPolicy("secret", nil)
	chat := &fakeChatSender{}
	host := New("maowbot", bus, policy, chat, nil)
	defer host.Shutdown()

	hostSession, client := InProcessPair(4)
	done := make(chan error, 1)
	go func() { done <- host.HandleSession(context.Background(), hostSession) }()

	ctx := context.Background()
	require.NoError(t, client.SendFrame(ctx, ClientFrame{Hello: &Hello{PluginName: "osc-bridge", Passphrase: "secret"}}))

	welcome, err := client.RecvFrame(ctx)
	require.NoError(t, err)
	require.NotNil(t, welcome.Welcome)
	require.Equal(t, "maowbot", welcome.Welcome.BotName)

	policy.Allow("osc-bridge", CapSendChat)
	require.NoError(t, client.SendFrame(ctx, ClientFrame{RequestCaps: &RequestCaps{Requested: []Capability{CapSendChat, CapAdmin}}}))

	resp, err := client.RecvFrame(ctx)
	require.NoError(t, err)
	require.NotNil(t, resp.CapabilityResponse)
	require.Contains(t, resp.CapabilityResponse.Granted, CapSendChat)
	require.Contains(t, resp.CapabilityResponse.Denied, CapAdmin)

	require.NoError(t, client.SendFrame(ctx, ClientFrame{SendChat: &SendChat{Channel: "#general", Text: "hi"}}))
	require.Eventually(t, func() bool { return len(chat.sent) == 1 }, time.Second, 5*time.Millisecond)
	require.Equal(t, []string{"#general:hi"}, chat.sent)

	require.NoError(t, client.Close())
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("HandleSession did not return after session close")
	}
}

func TestHostRejectsNonHelloFirstFrame(t *testing.T) {
	t.Parallel()

	bus := eventbus.New()
	host := New("maowbot", bus, NewPolicy("secret", nil), nil, nil)
	defer host.Shutdown()

	hostSession, client := InProcessPair(4)
	done := make(chan error, 1)
	go func() { done <- host.HandleSession(context.Background(), hostSession) }()

	ctx := context.Background()
	require.NoError(t, client.SendFrame(ctx, ClientFrame{LogMessage: &LogMessage{Text: "too early"}}))

	authErr, err := client.RecvFrame(ctx)
	require.NoError(t, err)
	require.NotNil(t, authErr.AuthError)
	require.Equal(t, "protocol", authErr.AuthError.Reason)

	select {
	case err := <-done:
		require.Error(t, err)
	case <-time.After(time.Second):
		t.Fatal("HandleSession did not return after protocol violation")
	}
}

func TestHostRejectsWrongPassphrase(t *testing.T) {
	t.Parallel()

	host := New("maowbot", eventbus.New(), NewPolicy("secret", nil), nil, nil)
	defer host.Shutdown()

	hostSession, client := InProcessPair(4)
	done := make(chan error, 1)
	go func() { done <- host.HandleSession(context.Background(), hostSession) }()

	ctx := context.Background()
	require.NoError(t, client.SendFrame(ctx, ClientFrame{Hello: &Hello{PluginName: "x", Passphrase: "wrong"}}))

	authErr, err := client.RecvFrame(ctx)
	require.NoError(t, err)
	require.Equal(t, "unauthorized", authErr.AuthError.Reason)

	select {
	case err := <-done:
		require.Error(t, err)
	case <-time.After(time.Second):
		t.Fatal("HandleSession did not return after auth failure")
	}
}

type recordingSessionObserver struct {
	counts []int
}

func (r *recordingSessionObserver) SetPluginSessionsActive(n int) {
	r.counts = append(r.counts, n)
}

func TestHostReportsSessionCountToObserver(t *testing.T) {
	t.Parallel()

	bus := eventbus.New()
	host := New("maowbot", bus, NewPolicy("", nil), nil, nil)
	defer host.Shutdown()

	obs := &recordingSessionObserver{}
	host.SetObserver(obs)

	hostSession, client := InProcessPair(4)
	done := make(chan error, 1)
	go func() { done <- host.HandleSession(context.Background(), hostSession) }()

	ctx := context.Background()
	require.NoError(t, client.SendFrame(ctx, ClientFrame{Hello: &Hello{PluginName: "osc-bridge"}}))
	_, err := client.RecvFrame(ctx)
	require.NoError(t, err)

	require.NoError(t, client.Close())
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("HandleSession did not return after session close")
	}

	require.Equal(t, []int{1, 0}, obs.counts)
}
