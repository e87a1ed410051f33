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

type autostartRepository struct {
	db *gorm.DB
}

// NewAutostartRepository creates a new autostart repository instance.
func NewAutostartRepository(db *gorm.DB) interfaces.AutostartRepository {
	return &autostartRepository{db: db}
}

func (r *autostartRepository) List(ctx context.Context, enabledOnly bool) ([]*domain.AutostartEntry, error) {
	var entities []entity.AutostartEntity
	query := r.db.WithContext(ctx)
	if enabledOnly {
		query = query.Where("enabled = ?", true)
	}
	if err := query.Order("platform, account_name").Find(&entities).Error; err != nil {
		return nil, err
	}
	return mapper.AutostartsToDomain(entities), nil
}

func (r *autostartRepository) Set(ctx context.Context, platform, account string, enabled bool) error {
	e := &entity.AutostartEntity{Platform: platform, AccountName: account, Enabled: enabled}
	return r.db.WithContext(ctx).
		Where("platform = ? AND account_name = ?", platform, account).
		Assign(e).
		FirstOrCreate(e).Error
}

func (r *autostartRepository) Remove(ctx context.Context, platform, account string) error {
	return r.db.WithContext(ctx).
		Where("platform = ? AND account_name = ?", platform, account).
		Delete(&entity.AutostartEntity{}).Error
}

func (r *autostartRepository) IsEnabled(ctx context.Context, platform, account string) (bool, error) {
	var e entity.AutostartEntity
	err := r.db.WithContext(ctx).
		Where("platform = ? AND account_name = ?", platform, account).
		First(&e).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return e.Enabled, nil
}
