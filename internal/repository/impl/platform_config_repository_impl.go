package impl

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/maowbot/maowbot/internal/domain"
	"github.com/maowbot/maowbot/internal/repository/entity"
	"github.com/maowbot/maowbot/internal/repository/interfaces"
	"github.com/maowbot/maowbot/internal/repository/mapper"
)

type platformConfigRepository struct {
	db *gorm.DB
}

// NewPlatformConfigRepository creates a new platform config repository
// instance.
func NewPlatformConfigRepository(db *gorm.DB) interfaces.PlatformConfigRepository {
	return &platformConfigRepository{db: db}
}

func (r *platformConfigRepository) Get(ctx context.Context, platform string) (*domain.PlatformConfig, error) {
	var e entity.PlatformConfigEntity
	err := r.db.WithContext(ctx).Where("platform = ?", platform).First(&e).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return mapper.PlatformConfigToDomain(&e), nil
}

func (r *platformConfigRepository) Set(ctx context.Context, cfg *domain.PlatformConfig) error {
	e := mapper.PlatformConfigToEntity(cfg)
	return r.db.WithContext(ctx).
		Where("platform = ?", e.Platform).
		Assign(e).
		FirstOrCreate(e).Error
}

func (r *platformConfigRepository) Delete(ctx context.Context, platform string) error {
	return r.db.WithContext(ctx).Where("platform = ?", platform).Delete(&entity.PlatformConfigEntity{}).Error
}

func (r *platformConfigRepository) List(ctx context.Context) ([]*domain.PlatformConfig, error) {
	var entities []entity.PlatformConfigEntity
	if err := r.db.WithContext(ctx).Order("platform").Find(&entities).Error; err != nil {
		return nil, err
	}
	out := make([]*domain.PlatformConfig, 0, len(entities))
	for i := range entities {
		out = append(out, mapper.PlatformConfigToDomain(&entities[i]))
	}
	return out, nil
}
