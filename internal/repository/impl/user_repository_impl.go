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

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository instance.
func NewUserRepository(db *gorm.DB) interfaces.UserRepository {
	return &userRepository{db: db}
}

// GetOrCreateByPlatformIdentity implements the lazy-user-creation rule of
// spec.md §3: the first time a (platform, platformUserID) pair is seen, a
// User and its PlatformIdentity are created together inside one
// transaction.
func (r *userRepository) GetOrCreateByPlatformIdentity(ctx context.Context, platform, platformUserID, platformUsername string) (*domain.User, *domain.PlatformIdentity, error) {
	var userOut *domain.User
	var identityOut *domain.PlatformIdentity

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var identEntity entity.PlatformIdentityEntity
		err := tx.Where("platform = ? AND platform_user_id = ?", platform, platformUserID).First(&identEntity).Error
		if err == nil {
			now := time.Now()
			identEntity.PlatformUsername = platformUsername
			identEntity.LastUpdated = now
			if err := tx.Save(&identEntity).Error; err != nil {
				return err
			}
			var userEntity entity.UserEntity
			if err := tx.First(&userEntity, "id = ?", identEntity.UserID).Error; err != nil {
				return err
			}
			userEntity.LastSeen = now
			if err := tx.Save(&userEntity).Error; err != nil {
				return err
			}
			userOut = mapper.UserToDomain(&userEntity)
			identityOut = mapper.PlatformIdentityToDomain(&identEntity)
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		now := time.Now()
		userEntity := &entity.UserEntity{
			CreatedAt: now,
			LastSeen:  now,
			IsActive:  true,
		}
		if err := tx.Create(userEntity).Error; err != nil {
			return err
		}
		newIdentity := &entity.PlatformIdentityEntity{
			UserID:           userEntity.ID,
			Platform:         platform,
			PlatformUserID:   platformUserID,
			PlatformUsername: platformUsername,
			CreatedAt:        now,
			LastUpdated:      now,
		}
		if err := tx.Create(newIdentity).Error; err != nil {
			return err
		}
		userOut = mapper.UserToDomain(userEntity)
		identityOut = mapper.PlatformIdentityToDomain(newIdentity)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return userOut, identityOut, nil
}

func (r *userRepository) GetByID(ctx context.Context, userID string) (*domain.User, error) {
	var e entity.UserEntity
	err := r.db.WithContext(ctx).First(&e, "id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return mapper.UserToDomain(&e), nil
}
