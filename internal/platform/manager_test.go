package platform

import (
	"context"
	"encoding/base64"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/maowbot/maowbot/internal/credential"
	"github.com/maowbot/maowbot/internal/domain"
	"github.com/maowbot/maowbot/internal/eventbus"
)

type fakeCredRepo struct {
	mu    sync.Mutex
	creds map[string]*domain.PlatformCredential
}

func newFakeCredRepo() *fakeCredRepo {
	return &fakeCredRepo{creds: make(map[string]*domain.PlatformCredential)}
}

func credKey(platform, userName string) string { return platform + "/" + userName }

func (f *fakeCredRepo) Store(ctx context.Context, cred *domain.PlatformCredential) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *cred
	f.creds[credKey(cred.Platform, cred.UserName)] = &cp
	return nil
}
func (f *fakeCredRepo) Get(ctx context.Context, platform, userName string) (*domain.PlatformCredential, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.creds[credKey(platform, userName)]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}
func (f *fakeCredRepo) List(ctx context.Context, platform string) ([]*domain.PlatformCredential, error) {
	return nil, nil
}
func (f *fakeCredRepo) Delete(ctx context.Context, platform, userName string) error { return nil }
func (f *fakeCredRepo) GetExpiring(ctx context.Context, within time.Duration) ([]*domain.PlatformCredential, error) {
	return nil, nil
}

type fakeRuntime struct {
	mu         sync.Mutex
	connectErr error
	connected  bool
	sent       []string
}

func (f *fakeRuntime) Connect(ctx context.Context, cred *domain.PlatformCredential) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.connectErr != nil {
		return f.connectErr
	}
	f.connected = true
	return nil
}
func (f *fakeRuntime) Disconnect(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connected = false
	return nil
}
func (f *fakeRuntime) Ping(ctx context.Context) error { return nil }
func (f *fakeRuntime) SendChat(ctx context.Context, channel, text, replyToID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, channel+":"+text)
	return nil
}

func testCipher(t *testing.T) *credential.Cipher {
	t.Helper()
	key := make([]byte, 32)
	c, err := credential.NewCipher(base64.StdEncoding.EncodeToString(key), "")
	require.NoError(t, err)
	return c
}

func TestManagerStartConnectsAndRunsHealthLoop(t *testing.T) {
	t.Parallel()

	repo := newFakeCredRepo()
	store := credential.NewStore(repo, testCipher(t))
	require.NoError(t, store.Store(context.Background(), &domain.PlatformCredential{
		Platform:     "twitch",
		UserName:     "acct1",
		PrimaryToken: "tok",
	}))

	rt := &fakeRuntime{}
	mgr := New(store, eventbus.New())
	mgr.RegisterFactory("twitch", func(account string, bus *eventbus.Bus) Runtime { return rt })

	require.NoError(t, mgr.Start(context.Background(), "twitch", "acct1"))

	require.Eventually(t, func() bool {
		for _, s := range mgr.Status() {
			if s.Platform == "twitch" && s.Account == "acct1" && s.State == StateConnected {
				return true
			}
		}
		return false
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, mgr.SendTwitchMessage(context.Background(), "acct1", "#general", "hi", ""))
	rt.mu.Lock()
	require.Equal(t, []string{"#general:hi"}, rt.sent)
	rt.mu.Unlock()

	require.NoError(t, mgr.Stop(context.Background(), "twitch", "acct1"))
}

func TestManagerStartWithoutCredentialStaysDisconnected(t *testing.T) {
	t.Parallel()

	repo := newFakeCredRepo()
	store := credential.NewStore(repo, testCipher(t))

	rt := &fakeRuntime{}
	mgr := New(store, eventbus.New())
	mgr.RegisterFactory("twitch", func(account string, bus *eventbus.Bus) Runtime { return rt })

	require.NoError(t, mgr.Start(context.Background(), "twitch", "ghost"))

	require.Eventually(t, func() bool {
		for _, s := range mgr.Status() {
			if s.Platform == "twitch" && s.Account == "ghost" {
				return s.State == StateDisconnected && s.LastError != nil
			}
		}
		return false
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, mgr.Stop(context.Background(), "twitch", "ghost"))
}

func TestManagerStartUnknownPlatformErrors(t *testing.T) {
	t.Parallel()

	mgr := New(nil, eventbus.New())
	err := mgr.Start(context.Background(), "nope", "acct")
	require.Error(t, err)
}

func TestManagerStartTwiceReturnsAlreadyRunning(t *testing.T) {
	t.Parallel()

	repo := newFakeCredRepo()
	store := credential.NewStore(repo, testCipher(t))
	require.NoError(t, store.Store(context.Background(), &domain.PlatformCredential{
		Platform:     "twitch",
		UserName:     "acct1",
		PrimaryToken: "tok",
	}))

	rt := &fakeRuntime{}
	mgr := New(store, eventbus.New())
	mgr.RegisterFactory("twitch", func(account string, bus *eventbus.Bus) Runtime { return rt })

	require.NoError(t, mgr.Start(context.Background(), "twitch", "acct1"))

	require.Eventually(t, func() bool {
		for _, s := range mgr.Status() {
			if s.Platform == "twitch" && s.Account == "acct1" && s.State == StateConnected {
				return true
			}
		}
		return false
	}, time.Second, 5*time.Millisecond)

	err := mgr.Start(context.Background(), "twitch", "acct1")
	require.Error(t, err, "starting an already-running connection must fail, not silently succeed")

	require.NoError(t, mgr.Stop(context.Background(), "twitch", "acct1"))
}
