// Package interfaces declares the repository contracts every usecase and
// service in maowbotd depends on, mirroring the teacher's
// internal/repository/interfaces convention
// (services/twitchbot-service/internal/repository/interfaces) so callers
// never import gorm directly.
package interfaces

import (
	"context"
	"time"

	"github.com/maowbot/maowbot/internal/domain"
)

// UserRepository persists User and PlatformIdentity rows.
type UserRepository interface {
	GetOrCreateByPlatformIdentity(ctx context.Context, platform, platformUserID, platformUsername string) (*domain.User, *domain.PlatformIdentity, error)
	GetByID(ctx context.Context, userID string) (*domain.User, error)
}

// CredentialRepository persists encrypted PlatformCredential rows
// (spec.md §4.3). Store/Get/etc. operate on already-encrypted token
// strings; internal/credential.Store is responsible for the
// encrypt/decrypt boundary.
type CredentialRepository interface {
	Store(ctx context.Context, cred *domain.PlatformCredential) error
	Get(ctx context.Context, platform, userName string) (*domain.PlatformCredential, error)
	List(ctx context.Context, platform string) ([]*domain.PlatformCredential, error)
	Delete(ctx context.Context, platform, userName string) error
	GetExpiring(ctx context.Context, within time.Duration) ([]*domain.PlatformCredential, error)
}

// PlatformConfigRepository persists per-platform OAuth app configuration.
type PlatformConfigRepository interface {
	Get(ctx context.Context, platform string) (*domain.PlatformConfig, error)
	Set(ctx context.Context, cfg *domain.PlatformConfig) error
	Delete(ctx context.Context, platform string) error
	List(ctx context.Context) ([]*domain.PlatformConfig, error)
}

// AutostartRepository persists the autostart table (spec.md §3 invariant:
// no two enabled entries share (platform, account_name), which is
// trivially true here since it is the primary key).
type AutostartRepository interface {
	List(ctx context.Context, enabledOnly bool) ([]*domain.AutostartEntry, error)
	Set(ctx context.Context, platform, account string, enabled bool) error
	Remove(ctx context.Context, platform, account string) error
	IsEnabled(ctx context.Context, platform, account string) (bool, error)
}

// PipelineRepository persists EventPipeline definitions together with
// their filters and actions.
type PipelineRepository interface {
	Create(ctx context.Context, p *domain.EventPipeline) error
	Get(ctx context.Context, id string) (*domain.EventPipeline, error)
	List(ctx context.Context, enabledOnly bool) ([]*domain.EventPipeline, error)
	Update(ctx context.Context, p *domain.EventPipeline) error
	Delete(ctx context.Context, id string) error
	IncrementStats(ctx context.Context, id string, success bool, at time.Time) error
}

// ExecutionLogRepository persists PipelineExecutionLog rows.
type ExecutionLogRepository interface {
	Create(ctx context.Context, log *domain.PipelineExecutionLog) error
	Get(ctx context.Context, executionID string) (*domain.PipelineExecutionLog, error)
	ListByPipeline(ctx context.Context, pipelineID string, limit int) ([]*domain.PipelineExecutionLog, error)
	// DeleteOlderThan removes every log whose StartedAt is before cutoff,
	// returning the number of rows removed. Backs the maintenance
	// scheduler's retention sweep (spec.md §2's "partition rotation").
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// AuditRepository persists AuditEntry rows (SPEC_FULL §3 expansion).
type AuditRepository interface {
	Append(ctx context.Context, e *domain.AuditEntry) error
	List(ctx context.Context, limit int) ([]*domain.AuditEntry, error)
}

// ConfigRepository persists the flat key/value configuration store
// (spec.md §6).
type ConfigRepository interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string]string, error)
}
