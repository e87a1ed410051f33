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

type executionLogRepository struct {
	db *gorm.DB
}

// NewExecutionLogRepository creates a new pipeline execution log
// repository instance.
func NewExecutionLogRepository(db *gorm.DB) interfaces.ExecutionLogRepository {
	return &executionLogRepository{db: db}
}

func (r *executionLogRepository) Create(ctx context.Context, l *domain.PipelineExecutionLog) error {
	return r.db.WithContext(ctx).Create(mapper.ExecutionLogToEntity(l)).Error
}

func (r *executionLogRepository) Get(ctx context.Context, executionID string) (*domain.PipelineExecutionLog, error) {
	var e entity.ExecutionLogEntity
	err := r.db.WithContext(ctx).First(&e, "id = ?", executionID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return mapper.ExecutionLogToDomain(&e), nil
}

func (r *executionLogRepository) ListByPipeline(ctx context.Context, pipelineID string, limit int) ([]*domain.PipelineExecutionLog, error) {
	var entities []entity.ExecutionLogEntity
	if limit <= 0 {
		limit = 50
	}
	err := r.db.WithContext(ctx).
		Where("pipeline_id = ?", pipelineID).
		Order("started_at DESC").
		Limit(limit).
		Find(&entities).Error
	if err != nil {
		return nil, err
	}
	return mapper.ExecutionLogsToDomain(entities), nil
}

func (r *executionLogRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("started_at < ?", cutoff).Delete(&entity.ExecutionLogEntity{})
	return res.RowsAffected, res.Error
}
