package impl

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/maowbot/maowbot/internal/domain"
	"github.com/maowbot/maowbot/internal/repository/entity"
	"github.com/maowbot/maowbot/internal/repository/interfaces"
	"github.com/maowbot/maowbot/internal/repository/mapper"
)

type credentialRepository struct {
	db *gorm.DB
}

// NewCredentialRepository creates a new credential repository instance.
func NewCredentialRepository(db *gorm.DB) interfaces.CredentialRepository {
	return &credentialRepository{db: db}
}

func (r *credentialRepository) Store(ctx context.Context, cred *domain.PlatformCredential) error {
	e := mapper.CredentialToEntity(cred)
	return r.db.WithContext(ctx).
		Where("platform = ? AND user_name = ?", e.Platform, e.UserName).
		Assign(e).
		FirstOrCreate(e).Error
}

func (r *credentialRepository) Get(ctx context.Context, platform, userName string) (*domain.PlatformCredential, error) {
	var e entity.CredentialEntity
	err := r.db.WithContext(ctx).
		Where("platform = ? AND user_name = ?", platform, userName).
		First(&e).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return mapper.CredentialToDomain(&e), nil
}

func (r *credentialRepository) List(ctx context.Context, platform string) ([]*domain.PlatformCredential, error) {
	var entities []entity.CredentialEntity
	query := r.db.WithContext(ctx)
	if platform != "" {
		query = query.Where("platform = ?", platform)
	}
	if err := query.Order("platform, user_name").Find(&entities).Error; err != nil {
		return nil, err
	}
	return mapper.CredentialsToDomain(entities), nil
}

func (r *credentialRepository) Delete(ctx context.Context, platform, userName string) error {
	return r.db.WithContext(ctx).
		Where("platform = ? AND user_name = ?", platform, userName).
		Delete(&entity.CredentialEntity{}).Error
}

func (r *credentialRepository) GetExpiring(ctx context.Context, within time.Duration) ([]*domain.PlatformCredential, error) {
	var entities []entity.CredentialEntity
	cutoff := time.Now().Add(within)
	err := r.db.WithContext(ctx).
		Where("refresh_token IS NOT NULL AND expires_at IS NOT NULL AND expires_at < ?", cutoff).
		Find(&entities).Error
	if err != nil {
		return nil, err
	}
	return mapper.CredentialsToDomain(entities), nil
}
