package credential

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/maowbot/maowbot/internal/domain"
)

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
	cutoff := time.Now().Add(within)
	var out []*domain.PlatformCredential
	for _, row := range f.rows {
		if row.RefreshToken != nil && row.ExpiresAt != nil && row.ExpiresAt.Before(cutoff) {
			cp := *row
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakeAuthenticator struct {
	refreshCalls int
	refreshErr   error
}

func (a *fakeAuthenticator) Initialize(ctx context.Context) error { return nil }
func (a *fakeAuthenticator) StartAuthentication(ctx context.Context) (AuthenticationPrompt, error) {
	return AuthenticationPrompt{}, nil
}
func (a *fakeAuthenticator) Complete(ctx context.Context, resp AuthResponse) (*domain.PlatformCredential, error) {
	return nil, nil
}
func (a *fakeAuthenticator) Refresh(ctx context.Context, cred *domain.PlatformCredential) (*domain.PlatformCredential, error) {
	a.refreshCalls++
	if a.refreshErr != nil {
		return nil, a.refreshErr
	}
	cp := *cred
	cp.PrimaryToken = "refreshed-token"
	future := time.Now().Add(24 * time.Hour)
	cp.ExpiresAt = &future
	return &cp, nil
}
func (a *fakeAuthenticator) Validate(ctx context.Context, cred *domain.PlatformCredential) (bool, error) {
	return true, nil
}
func (a *fakeAuthenticator) Revoke(ctx context.Context, cred *domain.PlatformCredential) error {
	return nil
}

func newTestStore(t *testing.T) (*Store, *fakeCredentialRepo) {
	t.Helper()
	cipher, err := NewCipher("", filepath.Join(t.TempDir(), "key"))
	require.NoError(t, err)
	repo := newFakeCredentialRepo()
	return NewStore(repo, cipher), repo
}

func TestStoreRoundTripEncryption(t *testing.T) {
	t.Parallel()

	store, repo := newTestStore(t)
	ctx := context.Background()

	refresh := "refresh-xyz"
	cred := &domain.PlatformCredential{
		Platform:       "twitch",
		CredentialType: domain.CredentialOAuth2,
		UserID:         "user-1",
		UserName:       "streamer",
		PrimaryToken:   "plaintext-access-token",
		RefreshToken:   &refresh,
	}

	require.NoError(t, store.Store(ctx, cred))

	raw, ok := repo.rows["twitch/streamer"]
	require.True(t, ok)
	require.NotEqual(t, "plaintext-access-token", raw.PrimaryToken, "repository must only ever see ciphertext")

	got, err := store.Get(ctx, "twitch", "streamer")
	require.NoError(t, err)
	require.Equal(t, "plaintext-access-token", got.PrimaryToken)
	require.Equal(t, "refresh-xyz", *got.RefreshToken)
}

func TestStoreGetMissingReturnsNilNil(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)
	got, err := store.Get(context.Background(), "twitch", "nobody")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestRefreshAllRefreshableUpdatesExpiringCredential(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)
	ctx := context.Background()
	auther := &fakeAuthenticator{}
	store.RegisterAuthenticator("twitch", auther)

	refresh := "refresh-xyz"
	past := time.Now().Add(-time.Hour)
	cred := &domain.PlatformCredential{
		Platform:     "twitch",
		UserID:       "user-1",
		UserName:     "streamer",
		PrimaryToken: "old-token",
		RefreshToken: &refresh,
		ExpiresAt:    &past,
	}
	require.NoError(t, store.Store(ctx, cred))

	results := store.RefreshAllRefreshable(ctx, time.Hour)
	require.Len(t, results, 1)
	require.NoError(t, results[0].Err)
	require.Equal(t, 1, auther.refreshCalls)

	got, err := store.Get(ctx, "twitch", "streamer")
	require.NoError(t, err)
	require.Equal(t, "refreshed-token", got.PrimaryToken)
}

func TestRefreshAllRefreshableSkipsCredentialWithoutRefreshToken(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)
	ctx := context.Background()
	auther := &fakeAuthenticator{}
	store.RegisterAuthenticator("twitch", auther)

	past := time.Now().Add(-time.Hour)
	cred := &domain.PlatformCredential{
		Platform:     "twitch",
		UserID:       "user-1",
		UserName:     "no-refresh",
		PrimaryToken: "token",
		ExpiresAt:    &past,
	}
	require.NoError(t, store.Store(ctx, cred))

	results := store.RefreshAllRefreshable(ctx, time.Hour)
	require.Len(t, results, 0, "credentials without a refresh token are not returned by GetExpiring")
	require.Equal(t, 0, auther.refreshCalls)
}
