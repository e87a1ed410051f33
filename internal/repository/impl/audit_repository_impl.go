package impl

import (
	"context"

	"gorm.io/gorm"

	"github.com/maowbot/maowbot/internal/domain"
	"github.com/maowbot/maowbot/internal/repository/entity"
	"github.com/maowbot/maowbot/internal/repository/interfaces"
	"github.com/maowbot/maowbot/internal/repository/mapper"
)

type auditRepository struct {
	db *gorm.DB
}

// NewAuditRepository creates a new audit log repository instance
// (SPEC_FULL §3).
func NewAuditRepository(db *gorm.DB) interfaces.AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Append(ctx context.Context, e *domain.AuditEntry) error {
	return r.db.WithContext(ctx).Create(mapper.AuditEntryToEntity(e)).Error
}

func (r *auditRepository) List(ctx context.Context, limit int) ([]*domain.AuditEntry, error) {
	var entities []entity.AuditEntryEntity
	if limit <= 0 {
		limit = 100
	}
	if err := r.db.WithContext(ctx).Order("occurred_at DESC").Limit(limit).Find(&entities).Error; err != nil {
		return nil, err
	}
	return mapper.AuditEntriesToDomain(entities), nil
}
