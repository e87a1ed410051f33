package credential

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/maowbot/maowbot/internal/apperr"
	"github.com/maowbot/maowbot/internal/domain"
	"github.com/maowbot/maowbot/internal/logger"
	"github.com/maowbot/maowbot/internal/repository/interfaces"
)

// Store is the Credential Store of spec.md §4.3: CRUD over
// PlatformCredential rows with the AEAD boundary applied on every read and
// write, plus refresh orchestration against per-platform Authenticators.
type Store struct {
	repo    interfaces.CredentialRepository
	cipher  *Cipher
	authers map[string]Authenticator
	log     *logger.Logger
}

// NewStore builds a Store. Authenticators are registered after
// construction via RegisterAuthenticator, mirroring the handler registry's
// register-then-use shape elsewhere in the codebase.
func NewStore(repo interfaces.CredentialRepository, cipher *Cipher) *Store {
	return &Store{
		repo:    repo,
		cipher:  cipher,
		authers: make(map[string]Authenticator),
		log:     logger.New("credential.store"),
	}
}

// RegisterAuthenticator binds a platform name to the Authenticator used to
// refresh and validate its credentials.
func (s *Store) RegisterAuthenticator(platform string, a Authenticator) {
	s.authers[platform] = a
}

// Authenticator returns the Authenticator registered for platform, if any.
// CredentialService uses this to drive BeginAuthFlow/CompleteAuthFlow
// directly, outside the Store's own Refresh/Validate orchestration.
func (s *Store) Authenticator(platform string) (Authenticator, bool) {
	a, ok := s.authers[platform]
	return a, ok
}

// Store encrypts and upserts a credential keyed on (platform, user_name).
func (s *Store) Store(ctx context.Context, cred *domain.PlatformCredential) error {
	plain := *cred
	if plain.CredentialID == "" {
		plain.CredentialID = uuid.NewString()
	}
	now := time.Now()
	if plain.CreatedAt.IsZero() {
		plain.CreatedAt = now
	}
	plain.UpdatedAt = now

	encrypted, err := s.encryptCopy(&plain)
	if err != nil {
		return err
	}
	if err := s.repo.Store(ctx, encrypted); err != nil {
		return apperr.Wrap(apperr.KindDatabase, "store credential", err)
	}
	return nil
}

// Get fetches and decrypts a single credential. Returns (nil, nil) if
// absent, matching the teacher's repository not-found convention.
func (s *Store) Get(ctx context.Context, platform, userName string) (*domain.PlatformCredential, error) {
	enc, err := s.repo.Get(ctx, platform, userName)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindDatabase, "get credential", err)
	}
	if enc == nil {
		return nil, nil
	}
	return s.decryptCopy(enc)
}

// List fetches and decrypts every credential for a platform, or every
// credential if platform is empty.
func (s *Store) List(ctx context.Context, platform string) ([]*domain.PlatformCredential, error) {
	enc, err := s.repo.List(ctx, platform)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindDatabase, "list credentials", err)
	}
	out := make([]*domain.PlatformCredential, 0, len(enc))
	for _, c := range enc {
		plain, err := s.decryptCopy(c)
		if err != nil {
			s.log.Error("skipping undecryptable credential %s/%s: %v", c.Platform, c.UserName, err)
			continue
		}
		out = append(out, plain)
	}
	return out, nil
}

// Delete removes a credential.
func (s *Store) Delete(ctx context.Context, platform, userName string) error {
	if err := s.repo.Delete(ctx, platform, userName); err != nil {
		return apperr.Wrap(apperr.KindDatabase, "delete credential", err)
	}
	return nil
}

// GetExpiring returns decrypted, refreshable credentials expiring within
// the given window (spec.md §4.3 token-refresh background job).
func (s *Store) GetExpiring(ctx context.Context, within time.Duration) ([]*domain.PlatformCredential, error) {
	enc, err := s.repo.GetExpiring(ctx, within)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindDatabase, "get expiring credentials", err)
	}
	out := make([]*domain.PlatformCredential, 0, len(enc))
	for _, c := range enc {
		plain, err := s.decryptCopy(c)
		if err != nil {
			s.log.Error("skipping undecryptable credential %s/%s: %v", c.Platform, c.UserName, err)
			continue
		}
		out = append(out, plain)
	}
	return out, nil
}

// RefreshResult is one credential's outcome from RefreshAllRefreshable.
type RefreshResult struct {
	Platform string
	UserName string
	Err      error
}

// RefreshAllRefreshable refreshes every credential returned by GetExpiring
// through its platform's Authenticator and persists the result, continuing
// past individual failures so one broken account does not block the rest
// of the sweep.
func (s *Store) RefreshAllRefreshable(ctx context.Context, within time.Duration) []RefreshResult {
	expiring, err := s.GetExpiring(ctx, within)
	if err != nil {
		return []RefreshResult{{Err: err}}
	}

	results := make([]RefreshResult, 0, len(expiring))
	for _, cred := range expiring {
		res := RefreshResult{Platform: cred.Platform, UserName: cred.UserName}
		if cred.RefreshToken == nil {
			res.Err = apperr.New(apperr.KindValidation, "credential has no refresh token")
			results = append(results, res)
			continue
		}
		auther, ok := s.authers[cred.Platform]
		if !ok {
			res.Err = apperr.New(apperr.KindValidation, "no authenticator registered for platform "+cred.Platform)
			results = append(results, res)
			continue
		}
		refreshed, err := auther.Refresh(ctx, cred)
		if err != nil {
			res.Err = apperr.Wrap(apperr.KindPlatform, "refresh failed", err)
			results = append(results, res)
			continue
		}
		refreshed.CredentialID = cred.CredentialID
		if err := s.Store(ctx, refreshed); err != nil {
			res.Err = err
		}
		results = append(results, res)
	}
	return results
}

func (s *Store) encryptCopy(plain *domain.PlatformCredential) (*domain.PlatformCredential, error) {
	cp := *plain
	cipherToken, err := s.cipher.Encrypt(plain.PrimaryToken)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "encrypt primary token", err)
	}
	cp.PrimaryToken = cipherToken
	if plain.RefreshToken != nil {
		cr, err := s.cipher.Encrypt(*plain.RefreshToken)
		if err != nil {
			return nil, apperr.Wrap(apperr.KindInternal, "encrypt refresh token", err)
		}
		cp.RefreshToken = &cr
	}
	return &cp, nil
}

func (s *Store) decryptCopy(enc *domain.PlatformCredential) (*domain.PlatformCredential, error) {
	cp := *enc
	plainToken, err := s.cipher.Decrypt(enc.PrimaryToken)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "decrypt primary token", err)
	}
	cp.PrimaryToken = plainToken
	if enc.RefreshToken != nil {
		pr, err := s.cipher.Decrypt(*enc.RefreshToken)
		if err != nil {
			return nil, apperr.Wrap(apperr.KindInternal, "decrypt refresh token", err)
		}
		cp.RefreshToken = &pr
	}
	return &cp, nil
}
