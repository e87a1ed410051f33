package mapper

import (
	"github.com/maowbot/maowbot/internal/domain"
	"github.com/maowbot/maowbot/internal/repository/entity"
)

// CredentialToEntity converts domain model to database entity.
func CredentialToEntity(c *domain.PlatformCredential) *entity.CredentialEntity {
	if c == nil {
		return nil
	}
	e := &entity.CredentialEntity{
		ID:             c.CredentialID,
		Platform:       c.Platform,
		CredentialType: string(c.CredentialType),
		UserID:         c.UserID,
		UserName:       c.UserName,
		PrimaryToken:   c.PrimaryToken,
		RefreshToken:   c.RefreshToken,
		AdditionalData: entity.JSONMap(c.AdditionalData),
		ExpiresAt:      c.ExpiresAt,
		IsBroadcaster:  c.IsBroadcaster,
		IsTeammate:     c.IsTeammate,
		IsBot:          c.IsBot,
		PlatformID:     c.PlatformID,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
	return e
}

// CredentialToDomain converts database entity to domain model.
func CredentialToDomain(e *entity.CredentialEntity) *domain.PlatformCredential {
	if e == nil {
		return nil
	}
	return &domain.PlatformCredential{
		CredentialID:   e.ID,
		Platform:       e.Platform,
		CredentialType: domain.CredentialType(e.CredentialType),
		UserID:         e.UserID,
		UserName:       e.UserName,
		PrimaryToken:   e.PrimaryToken,
		RefreshToken:   e.RefreshToken,
		AdditionalData: map[string]interface{}(e.AdditionalData),
		ExpiresAt:      e.ExpiresAt,
		IsBroadcaster:  e.IsBroadcaster,
		IsTeammate:     e.IsTeammate,
		IsBot:          e.IsBot,
		PlatformID:     e.PlatformID,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}

// CredentialsToDomain converts a slice of entities to domain models.
func CredentialsToDomain(entities []entity.CredentialEntity) []*domain.PlatformCredential {
	out := make([]*domain.PlatformCredential, 0, len(entities))
	for i := range entities {
		out = append(out, CredentialToDomain(&entities[i]))
	}
	return out
}

// PlatformConfigToEntity converts domain model to database entity.
func PlatformConfigToEntity(c *domain.PlatformConfig) *entity.PlatformConfigEntity {
	if c == nil {
		return nil
	}
	return &entity.PlatformConfigEntity{
		ID:           c.PlatformConfigID,
		Platform:     c.Platform,
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

// PlatformConfigToDomain converts database entity to domain model.
func PlatformConfigToDomain(e *entity.PlatformConfigEntity) *domain.PlatformConfig {
	if e == nil {
		return nil
	}
	return &domain.PlatformConfig{
		PlatformConfigID: e.ID,
		Platform:         e.Platform,
		ClientID:         e.ClientID,
		ClientSecret:     e.ClientSecret,
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	}
}

// AutostartToEntity converts domain model to database entity.
func AutostartToEntity(a *domain.AutostartEntry) *entity.AutostartEntity {
	if a == nil {
		return nil
	}
	return &entity.AutostartEntity{
		Platform:    a.Platform,
		AccountName: a.AccountName,
		Enabled:     a.Enabled,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

// AutostartToDomain converts database entity to domain model.
func AutostartToDomain(e *entity.AutostartEntity) *domain.AutostartEntry {
	if e == nil {
		return nil
	}
	return &domain.AutostartEntry{
		Platform:    e.Platform,
		AccountName: e.AccountName,
		Enabled:     e.Enabled,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

// AutostartsToDomain converts a slice of entities to domain models.
func AutostartsToDomain(entities []entity.AutostartEntity) []*domain.AutostartEntry {
	out := make([]*domain.AutostartEntry, 0, len(entities))
	for i := range entities {
		out = append(out, AutostartToDomain(&entities[i]))
	}
	return out
}

// AuditEntryToEntity converts domain model to database entity.
func AuditEntryToEntity(a *domain.AuditEntry) *entity.AuditEntryEntity {
	if a == nil {
		return nil
	}
	return &entity.AuditEntryEntity{
		ID:         a.ID,
		OccurredAt: a.OccurredAt,
		Actor:      a.Actor,
		Action:     a.Action,
		TargetType: a.TargetType,
		TargetID:   a.TargetID,
		Detail:     a.Detail,
		Success:    a.Success,
	}
}

// AuditEntryToDomain converts database entity to domain model.
func AuditEntryToDomain(e *entity.AuditEntryEntity) *domain.AuditEntry {
	if e == nil {
		return nil
	}
	return &domain.AuditEntry{
		ID:         e.ID,
		OccurredAt: e.OccurredAt,
		Actor:      e.Actor,
		Action:     e.Action,
		TargetType: e.TargetType,
		TargetID:   e.TargetID,
		Detail:     e.Detail,
		Success:    e.Success,
	}
}

// AuditEntriesToDomain converts a slice of entities to domain models.
func AuditEntriesToDomain(entities []entity.AuditEntryEntity) []*domain.AuditEntry {
	out := make([]*domain.AuditEntry, 0, len(entities))
	for i := range entities {
		out = append(out, AuditEntryToDomain(&entities[i]))
	}
	return out
}
