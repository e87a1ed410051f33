package entity

import "time"

// UserEntity is the database entity for User (spec.md §3).
type UserEntity struct {
	ID             string  `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	GlobalUsername *string `gorm:"type:varchar(255)"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
	LastSeen       time.Time `gorm:"not null"`
	IsActive       bool      `gorm:"default:true"`

	Identities []PlatformIdentityEntity `gorm:"foreignKey:UserID"`
}

func (UserEntity) TableName() string {
	return "maowbot_users"
}

// PlatformIdentityEntity is the database entity for PlatformIdentity.
type PlatformIdentityEntity struct {
	ID               string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	UserID           string `gorm:"type:uuid;not null;index"`
	Platform         string `gorm:"type:varchar(64);not null;uniqueIndex:idx_identity_platform_user"`
	PlatformUserID   string `gorm:"type:varchar(255);not null;uniqueIndex:idx_identity_platform_user"`
	PlatformUsername string `gorm:"type:varchar(255);not null"`
	PlatformDisplay  *string
	PlatformRoles    StringSlice `gorm:"type:text"`
	PlatformData     JSONMap     `gorm:"type:jsonb"`
	CreatedAt        time.Time   `gorm:"autoCreateTime"`
	LastUpdated      time.Time   `gorm:"autoUpdateTime"`
}

func (PlatformIdentityEntity) TableName() string {
	return "maowbot_platform_identities"
}
