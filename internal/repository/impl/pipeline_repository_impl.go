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

type pipelineRepository struct {
	db *gorm.DB
}

// NewPipelineRepository creates a new pipeline repository instance
// (spec.md §4.5).
func NewPipelineRepository(db *gorm.DB) interfaces.PipelineRepository {
	return &pipelineRepository{db: db}
}

func (r *pipelineRepository) Create(ctx context.Context, p *domain.EventPipeline) error {
	e := mapper.PipelineToEntity(p)
	if err := r.db.WithContext(ctx).Create(e).Error; err != nil {
		return err
	}
	*p = *mapper.PipelineToDomain(e)
	return nil
}

func (r *pipelineRepository) Get(ctx context.Context, id string) (*domain.EventPipeline, error) {
	var e entity.PipelineEntity
	err := r.db.WithContext(ctx).
		Preload("Filters").
		Preload("Actions").
		First(&e, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return mapper.PipelineToDomain(&e), nil
}

func (r *pipelineRepository) List(ctx context.Context, enabledOnly bool) ([]*domain.EventPipeline, error) {
	var entities []entity.PipelineEntity
	query := r.db.WithContext(ctx).Preload("Filters").Preload("Actions")
	if enabledOnly {
		query = query.Where("enabled = ?", true)
	}
	if err := query.Order("priority ASC, created_at ASC").Find(&entities).Error; err != nil {
		return nil, err
	}
	return mapper.PipelinesToDomain(entities), nil
}

// Update replaces a pipeline's own fields and fully replaces its filters
// and actions inside a transaction, mirroring the teacher's
// create/delete-then-recreate pattern for owned child rows rather than a
// diffing merge.
func (r *pipelineRepository) Update(ctx context.Context, p *domain.EventPipeline) error {
	e := mapper.PipelineToEntity(p)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entity.PipelineEntity{}).Where("id = ?", e.ID).Updates(map[string]interface{}{
			"name":          e.Name,
			"description":   e.Description,
			"enabled":       e.Enabled,
			"priority":      e.Priority,
			"stop_on_match": e.StopOnMatch,
			"stop_on_error": e.StopOnError,
			"tags":          e.Tags,
			"metadata":      e.Metadata,
		}).Error; err != nil {
			return err
		}
		if err := tx.Where("pipeline_id = ?", e.ID).Delete(&entity.PipelineFilterEntity{}).Error; err != nil {
			return err
		}
		if err := tx.Where("pipeline_id = ?", e.ID).Delete(&entity.PipelineActionEntity{}).Error; err != nil {
			return err
		}
		for i := range e.Filters {
			e.Filters[i].PipelineID = e.ID
			if err := tx.Create(&e.Filters[i]).Error; err != nil {
				return err
			}
		}
		for i := range e.Actions {
			e.Actions[i].PipelineID = e.ID
			if err := tx.Create(&e.Actions[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *pipelineRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("pipeline_id = ?", id).Delete(&entity.PipelineFilterEntity{}).Error; err != nil {
			return err
		}
		if err := tx.Where("pipeline_id = ?", id).Delete(&entity.PipelineActionEntity{}).Error; err != nil {
			return err
		}
		return tx.Delete(&entity.PipelineEntity{}, "id = ?", id).Error
	})
}

func (r *pipelineRepository) IncrementStats(ctx context.Context, id string, success bool, at time.Time) error {
	updates := map[string]interface{}{
		"execution_count": gorm.Expr("execution_count + 1"),
		"last_executed":   at,
	}
	if success {
		updates["success_count"] = gorm.Expr("success_count + 1")
	}
	return r.db.WithContext(ctx).Model(&entity.PipelineEntity{}).Where("id = ?", id).Updates(updates).Error
}
