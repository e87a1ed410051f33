package domain

import "time"

// CredentialType enumerates the supported credential shapes (spec.md §3).
type CredentialType string

const (
	CredentialOAuth2               CredentialType = "oauth2"
	CredentialAPIKey               CredentialType = "api_key"
	CredentialBearerToken          CredentialType = "bearer_token"
	CredentialJWT                  CredentialType = "jwt"
	CredentialVerifiableCredential CredentialType = "verifiable_credential"
)

// CustomCredentialType builds a CredentialType for the Custom(s) variant.
func CustomCredentialType(name string) CredentialType {
	return CredentialType("custom:" + name)
}

// PlatformCredential is an encrypted secret authorizing a platform runtime.
// PrimaryToken/RefreshToken hold ciphertext once persisted; in memory after
// a Credential Store read they hold plaintext (see internal/credential).
type PlatformCredential struct {
	CredentialID   string
	Platform       string
	CredentialType CredentialType
	UserID         string
	PrimaryToken   string
	RefreshToken   *string
	AdditionalData map[string]interface{}
	ExpiresAt      *time.Time
	IsBroadcaster  bool
	IsTeammate     bool
	IsBot          bool
	PlatformID     *string
	UserName       string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsExpired reports whether the credential's expiry has passed.
func (c *PlatformCredential) IsExpired(now time.Time) bool {
	return c.ExpiresAt != nil && c.ExpiresAt.Before(now)
}

// ExpiresWithin reports whether the credential expires before now+within.
func (c *PlatformCredential) ExpiresWithin(now time.Time, within time.Duration) bool {
	return c.ExpiresAt != nil && c.ExpiresAt.Before(now.Add(within))
}

// Redacted returns a copy of the credential with secrets masked, safe to
// log or return through a debug endpoint (spec.md §4.3: "the plaintext
// never leaves the store... debug formatters must redact").
func (c *PlatformCredential) Redacted() PlatformCredential {
	cp := *c
	cp.PrimaryToken = redact(c.PrimaryToken)
	if c.RefreshToken != nil {
		r := redact(*c.RefreshToken)
		cp.RefreshToken = &r
	}
	return cp
}

func redact(s string) string {
	if len(s) <= 4 {
		return "****"
	}
	return s[:2] + "****" + s[len(s)-2:]
}

// PlatformConfig holds per-platform OAuth application credentials.
type PlatformConfig struct {
	PlatformConfigID string
	Platform         string
	ClientID         *string
	ClientSecret     *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// AutostartEntry marks a (platform, account) pair to be started on boot.
type AutostartEntry struct {
	Platform    string
	AccountName string
	Enabled     bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// AuditEntry records one credential/admin/config mutation (SPEC_FULL §3).
type AuditEntry struct {
	ID         string
	OccurredAt time.Time
	Actor      string
	Action     string
	TargetType string
	TargetID   string
	Detail     string
	Success    bool
}
