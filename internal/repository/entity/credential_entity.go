package entity

import (
	"time"

	"gorm.io/gorm"
)

// CredentialEntity is the database entity for PlatformCredential
// (spec.md §4.3). PrimaryToken/RefreshToken hold ciphertext; encryption
// happens one layer up in internal/credential.Store.
type CredentialEntity struct {
	ID             string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Platform       string `gorm:"type:varchar(64);not null;uniqueIndex:idx_cred_platform_user"`
	CredentialType string `gorm:"type:varchar(64);not null"`
	UserID         string `gorm:"type:uuid;not null;index"`
	UserName       string `gorm:"type:varchar(255);not null;uniqueIndex:idx_cred_platform_user"`
	PrimaryToken   string `gorm:"type:text;not null"`
	RefreshToken   *string
	AdditionalData JSONMap `gorm:"type:jsonb"`
	ExpiresAt      *time.Time
	IsBroadcaster  bool `gorm:"default:false"`
	IsTeammate     bool `gorm:"default:false"`
	IsBot          bool `gorm:"default:false"`
	PlatformID     *string
	CreatedAt      time.Time      `gorm:"autoCreateTime"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime"`
	DeletedAt      gorm.DeletedAt `gorm:"index"`
}

func (CredentialEntity) TableName() string {
	return "maowbot_credentials"
}

// PlatformConfigEntity is the database entity for per-platform OAuth app
// configuration.
type PlatformConfigEntity struct {
	ID           string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Platform     string `gorm:"type:varchar(64);not null;uniqueIndex"`
	ClientID     *string
	ClientSecret *string
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (PlatformConfigEntity) TableName() string {
	return "maowbot_platform_configs"
}

// AutostartEntity is the database entity for the autostart table.
type AutostartEntity struct {
	Platform    string `gorm:"primaryKey;type:varchar(64)"`
	AccountName string `gorm:"primaryKey;type:varchar(255)"`
	Enabled     bool   `gorm:"default:true"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (AutostartEntity) TableName() string {
	return "maowbot_autostart"
}

// AuditEntryEntity is the database entity for AuditEntry (SPEC_FULL §3).
type AuditEntryEntity struct {
	ID         string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	OccurredAt time.Time `gorm:"not null;index"`
	Actor      string    `gorm:"type:varchar(255);not null"`
	Action     string    `gorm:"type:varchar(128);not null"`
	TargetType string    `gorm:"type:varchar(64)"`
	TargetID   string    `gorm:"type:varchar(255)"`
	Detail     string    `gorm:"type:text"`
	Success    bool      `gorm:"default:true"`
}

func (AuditEntryEntity) TableName() string {
	return "maowbot_audit_log"
}
