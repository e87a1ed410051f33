package impl

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/maowbot/maowbot/internal/repository/entity"
	"github.com/maowbot/maowbot/internal/repository/interfaces"
)

type configRepository struct {
	db *gorm.DB
}

// NewConfigRepository creates a new flat key/value config repository
// instance (spec.md §6).
func NewConfigRepository(db *gorm.DB) interfaces.ConfigRepository {
	return &configRepository{db: db}
}

func (r *configRepository) Get(ctx context.Context, key string) (string, bool, error) {
	var e entity.ConfigEntity
	err := r.db.WithContext(ctx).Where("key = ?", key).First(&e).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return e.Value, true, nil
}

func (r *configRepository) Set(ctx context.Context, key, value string) error {
	e := &entity.ConfigEntity{Key: key, Value: value}
	return r.db.WithContext(ctx).
		Where("key = ?", key).
		Assign(e).
		FirstOrCreate(e).Error
}

func (r *configRepository) Delete(ctx context.Context, key string) error {
	return r.db.WithContext(ctx).Where("key = ?", key).Delete(&entity.ConfigEntity{}).Error
}

func (r *configRepository) List(ctx context.Context) (map[string]string, error) {
	var entities []entity.ConfigEntity
	if err := r.db.WithContext(ctx).Find(&entities).Error; err != nil {
		return nil, err
	}
	out := make(map[string]string, len(entities))
	for _, e := range entities {
		out[e.Key] = e.Value
	}
	return out, nil
}
