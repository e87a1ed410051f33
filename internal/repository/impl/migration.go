package impl

import (
	"gorm.io/gorm"

	"github.com/maowbot/maowbot/internal/logger"
	"github.com/maowbot/maowbot/internal/repository/entity"
)

var migrationLog = logger.New("migration")

// AutoMigrate runs GORM's schema migration for every entity maowbotd
// persists. Mirrors the teacher's per-service migration.go, collapsed to
// one call site since the single process now owns the whole schema.
func AutoMigrate(db *gorm.DB) error {
	migrationLog.Info("running schema migration")
	return db.AutoMigrate(
		&entity.UserEntity{},
		&entity.PlatformIdentityEntity{},
		&entity.CredentialEntity{},
		&entity.PlatformConfigEntity{},
		&entity.AutostartEntity{},
		&entity.AuditEntryEntity{},
		&entity.ConfigEntity{},
		&entity.PipelineEntity{},
		&entity.PipelineFilterEntity{},
		&entity.PipelineActionEntity{},
		&entity.ExecutionLogEntity{},
	)
}
