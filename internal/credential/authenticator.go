package credential

import (
	"context"

	"github.com/maowbot/maowbot/internal/domain"
)

// PromptKind discriminates the shape of an AuthenticationPrompt
// (spec.md §4.3).
type PromptKind string

const (
	PromptNone          PromptKind = "none"
	PromptCode          PromptKind = "code"
	PromptMultipleKeys  PromptKind = "multiple_keys"
	PromptTwoFactor     PromptKind = "two_factor"
)

// AuthenticationPrompt tells the caller what input is needed to complete
// authentication.
type AuthenticationPrompt struct {
	Kind     PromptKind
	URL      string
	Fields   []string
	Messages []string
}

// AuthResponse carries whatever the user/operator supplied back to
// Authenticator.Complete.
type AuthResponse struct {
	Code   string
	Keys   map[string]string
	TwoFA  string
	UserID string
	IsBot  bool
}

// Authenticator is the per-platform contract the Credential Store and
// Platform Runtime Manager use to obtain and refresh credentials
// (spec.md §4.3).
type Authenticator interface {
	Initialize(ctx context.Context) error
	StartAuthentication(ctx context.Context) (AuthenticationPrompt, error)
	Complete(ctx context.Context, resp AuthResponse) (*domain.PlatformCredential, error)
	Refresh(ctx context.Context, cred *domain.PlatformCredential) (*domain.PlatformCredential, error)
	Validate(ctx context.Context, cred *domain.PlatformCredential) (bool, error)
	Revoke(ctx context.Context, cred *domain.PlatformCredential) error
}
