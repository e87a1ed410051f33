package scheduler

import (
	"context"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/maowbot/maowbot/internal/credential"
	"github.com/maowbot/maowbot/internal/domain"
)

func TestSchedulerRunsJobImmediatelyThenOnInterval(t *testing.T) {
	t.Parallel()

	var runs int32
	s := New().WithJob("count", 20*time.Millisecond, true, func(ctx context.Context) {
		atomic.AddInt32(&runs, 1)
	})
	s.Start()
	defer s.Stop()

	require.Eventually(t, func() bool { return atomic.LoadInt32(&runs) >= 3 }, time.Second, 5*time.Millisecond)
}

func TestSchedulerJobSkipsImmediateRunWhenDisabled(t *testing.T) {
	t.Parallel()

	var runs int32
	s := New().WithJob("count", 500*time.Millisecond, false, func(ctx context.Context) {
		atomic.AddInt32(&runs, 1)
	})
	s.Start()
	defer s.Stop()

	time.Sleep(50 * time.Millisecond)
	require.Equal(t, int32(0), atomic.LoadInt32(&runs))
}

type fakeAutostartRepo struct {
	entries []*domain.AutostartEntry
}

func (f *fakeAutostartRepo) List(ctx context.Context, enabledOnly bool) ([]*domain.AutostartEntry, error) {
	return f.entries, nil
}
func (f *fakeAutostartRepo) Set(ctx context.Context, platform, account string, enabled bool) error {
	return nil
}
func (f *fakeAutostartRepo) Remove(ctx context.Context, platform, account string) error { return nil }
func (f *fakeAutostartRepo) IsEnabled(ctx context.Context, platform, account string) (bool, error) {
	return true, nil
}

type fakeStarter struct {
	started []string
	fail    map[string]bool
}

func (f *fakeStarter) Start(ctx context.Context, platformName, account string) error {
	if f.fail[platformName+"/"+account] {
		return context.DeadlineExceeded
	}
	f.started = append(f.started, platformName+"/"+account)
	return nil
}

func TestRestoreAutostartStartsEveryEntryAndContinuesPastFailure(t *testing.T) {
	t.Parallel()

	repo := &fakeAutostartRepo{entries: []*domain.AutostartEntry{
		{Platform: "twitch", AccountName: "main"},
		{Platform: "discord", AccountName: "bot"},
	}}
	starter := &fakeStarter{fail: map[string]bool{"discord/bot": true}}

	RestoreAutostart(context.Background(), repo, starter)

	require.Equal(t, []string{"twitch/main"}, starter.started)
}

type fakeExecLogRepo struct {
	deletedCutoff time.Time
	deleteCount   int64
}

func (f *fakeExecLogRepo) Create(ctx context.Context, l *domain.PipelineExecutionLog) error { return nil }
func (f *fakeExecLogRepo) Get(ctx context.Context, id string) (*domain.PipelineExecutionLog, error) {
	return nil, nil
}
func (f *fakeExecLogRepo) ListByPipeline(ctx context.Context, pipelineID string, limit int) ([]*domain.PipelineExecutionLog, error) {
	return nil, nil
}
func (f *fakeExecLogRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	f.deletedCutoff = cutoff
	return f.deleteCount, nil
}

func TestRetentionSweepDeletesOlderThanRetentionWindow(t *testing.T) {
	t.Parallel()

	execLog := &fakeExecLogRepo{deleteCount: 5}
	s := New().WithRetentionSweep(execLog, 24*time.Hour, 10*time.Millisecond)
	s.Start()
	defer s.Stop()

	require.Eventually(t, func() bool { return !execLog.deletedCutoff.IsZero() }, time.Second, 5*time.Millisecond)
	require.WithinDuration(t, time.Now().Add(-24*time.Hour), execLog.deletedCutoff, 5*time.Second)
}

type fakeCredentialRepo struct {
	rows map[string]*domain.PlatformCredential
}

func newFakeCredentialRepo() *fakeCredentialRepo {
	return &fakeCredentialRepo{rows: make(map[string]*domain.PlatformCredential)}
}
func (f *fakeCredentialRepo) key(platform, userName string) string { return platform + "/" + userName }
func (f *fakeCredentialRepo) Store(_ context.Context, cred *domain.PlatformCredential) error {
	cp := *cred
	f.rows[f.key(cred.Platform, cred.UserName)] = &cp
	return nil
}
func (f *fakeCredentialRepo) Get(_ context.Context, platform, userName string) (*domain.PlatformCredential, error) {
	row, ok := f.rows[f.key(platform, userName)]
	if !ok {
		return nil, nil
	}
	cp := *row
	return &cp, nil
}
func (f *fakeCredentialRepo) List(_ context.Context, platform string) ([]*domain.PlatformCredential, error) {
	var out []*domain.PlatformCredential
	for _, row := range f.rows {
		if platform == "" || row.Platform == platform {
			cp := *row
			out = append(out, &cp)
		}
	}
	return out, nil
}
func (f *fakeCredentialRepo) Delete(_ context.Context, platform, userName string) error {
	delete(f.rows, f.key(platform, userName))
	return nil
}
func (f *fakeCredentialRepo) GetExpiring(_ context.Context, within time.Duration) ([]*domain.PlatformCredential, error) {
	var out []*domain.PlatformCredential
	cutoff := time.Now().Add(within)
	for _, row := range f.rows {
		if row.ExpiresAt != nil && row.ExpiresAt.Before(cutoff) {
			cp := *row
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakeAuthenticator struct {
	refreshed int
}

func (f *fakeAuthenticator) Initialize(ctx context.Context) error { return nil }
func (f *fakeAuthenticator) StartAuthentication(ctx context.Context) (credential.AuthenticationPrompt, error) {
	return credential.AuthenticationPrompt{}, nil
}
func (f *fakeAuthenticator) Complete(ctx context.Context, resp credential.AuthResponse) (*domain.PlatformCredential, error) {
	return nil, nil
}
func (f *fakeAuthenticator) Validate(ctx context.Context, cred *domain.PlatformCredential) (bool, error) {
	return true, nil
}
func (f *fakeAuthenticator) Refresh(ctx context.Context, cred *domain.PlatformCredential) (*domain.PlatformCredential, error) {
	f.refreshed++
	future := time.Now().Add(time.Hour)
	out := *cred
	out.ExpiresAt = &future
	return &out, nil
}
func (f *fakeAuthenticator) Revoke(ctx context.Context, cred *domain.PlatformCredential) error {
	return nil
}

func TestTokenRefreshJobRefreshesExpiringCredentials(t *testing.T) {
	t.Parallel()

	cipher, err := credential.NewCipher("", filepath.Join(t.TempDir(), "key"))
	require.NoError(t, err)

	repo := newFakeCredentialRepo()
	store := credential.NewStore(repo, cipher)
	auth := &fakeAuthenticator{}
	store.RegisterAuthenticator("twitch", auth)

	soon := time.Now().Add(5 * time.Minute)
	token := "refresh-token"
	require.NoError(t, store.Store(context.Background(), &domain.PlatformCredential{
		Platform:     "twitch",
		UserName:     "main",
		PrimaryToken: "access",
		RefreshToken: &token,
		ExpiresAt:    &soon,
	}))

	s := New().WithTokenRefresh(store, 20*time.Millisecond)
	s.Start()
	defer s.Stop()

	require.Eventually(t, func() bool { return auth.refreshed > 0 }, time.Second, 5*time.Millisecond)
}
