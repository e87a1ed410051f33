package mapper

import (
	"github.com/maowbot/maowbot/internal/domain"
	"github.com/maowbot/maowbot/internal/repository/entity"
)

// UserToDomain converts database entity to domain model.
func UserToDomain(e *entity.UserEntity) *domain.User {
	if e == nil {
		return nil
	}
	return &domain.User{
		UserID:         e.ID,
		GlobalUsername: e.GlobalUsername,
		CreatedAt:      e.CreatedAt,
		LastSeen:       e.LastSeen,
		IsActive:       e.IsActive,
	}
}

// PlatformIdentityToDomain converts database entity to domain model.
func PlatformIdentityToDomain(e *entity.PlatformIdentityEntity) *domain.PlatformIdentity {
	if e == nil {
		return nil
	}
	return &domain.PlatformIdentity{
		PlatformIdentityID: e.ID,
		UserID:             e.UserID,
		Platform:           e.Platform,
		PlatformUserID:     e.PlatformUserID,
		PlatformUsername:   e.PlatformUsername,
		PlatformDisplay:    e.PlatformDisplay,
		PlatformRoles:      []string(e.PlatformRoles),
		PlatformData:       map[string]interface{}(e.PlatformData),
		CreatedAt:          e.CreatedAt,
		LastUpdated:        e.LastUpdated,
	}
}

// PlatformIdentityToEntity converts domain model to database entity.
func PlatformIdentityToEntity(p *domain.PlatformIdentity) *entity.PlatformIdentityEntity {
	if p == nil {
		return nil
	}
	return &entity.PlatformIdentityEntity{
		ID:               p.PlatformIdentityID,
		UserID:           p.UserID,
		Platform:         p.Platform,
		PlatformUserID:   p.PlatformUserID,
		PlatformUsername: p.PlatformUsername,
		PlatformDisplay:  p.PlatformDisplay,
		PlatformRoles:    entity.StringSlice(p.PlatformRoles),
		PlatformData:     entity.JSONMap(p.PlatformData),
		CreatedAt:        p.CreatedAt,
		LastUpdated:      p.LastUpdated,
	}
}
