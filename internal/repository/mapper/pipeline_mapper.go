package mapper

import (
	"encoding/json"

	"github.com/maowbot/maowbot/internal/domain"
	"github.com/maowbot/maowbot/internal/repository/entity"
)

// PipelineToEntity converts domain model to database entity, including its
// filters and actions.
func PipelineToEntity(p *domain.EventPipeline) *entity.PipelineEntity {
	if p == nil {
		return nil
	}
	e := &entity.PipelineEntity{
		ID:             p.PipelineID,
		Name:           p.Name,
		Description:    p.Description,
		Enabled:        p.Enabled,
		Priority:       p.Priority,
		StopOnMatch:    p.StopOnMatch,
		StopOnError:    p.StopOnError,
		CreatedBy:      p.CreatedBy,
		IsSystem:       p.IsSystem,
		Tags:           entity.StringSlice(p.Tags),
		Metadata:       entity.JSONMap(p.Metadata),
		ExecutionCount: p.ExecutionCount,
		SuccessCount:   p.SuccessCount,
		LastExecuted:   p.LastExecuted,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
	for _, f := range p.Filters {
		e.Filters = append(e.Filters, *FilterToEntity(&f))
	}
	for _, a := range p.Actions {
		e.Actions = append(e.Actions, *ActionToEntity(&a))
	}
	return e
}

// PipelineToDomain converts database entity to domain model.
func PipelineToDomain(e *entity.PipelineEntity) *domain.EventPipeline {
	if e == nil {
		return nil
	}
	p := &domain.EventPipeline{
		PipelineID:     e.ID,
		Name:           e.Name,
		Description:    e.Description,
		Enabled:        e.Enabled,
		Priority:       e.Priority,
		StopOnMatch:    e.StopOnMatch,
		StopOnError:    e.StopOnError,
		CreatedBy:      e.CreatedBy,
		IsSystem:       e.IsSystem,
		Tags:           []string(e.Tags),
		Metadata:       map[string]interface{}(e.Metadata),
		ExecutionCount: e.ExecutionCount,
		SuccessCount:   e.SuccessCount,
		LastExecuted:   e.LastExecuted,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
	for i := range e.Filters {
		p.Filters = append(p.Filters, *FilterToDomain(&e.Filters[i]))
	}
	for i := range e.Actions {
		p.Actions = append(p.Actions, *ActionToDomain(&e.Actions[i]))
	}
	return p
}

// PipelinesToDomain converts a slice of entities to domain models.
func PipelinesToDomain(entities []entity.PipelineEntity) []*domain.EventPipeline {
	out := make([]*domain.EventPipeline, 0, len(entities))
	for i := range entities {
		out = append(out, PipelineToDomain(&entities[i]))
	}
	return out
}

// FilterToEntity converts domain model to database entity.
func FilterToEntity(f *domain.PipelineFilter) *entity.PipelineFilterEntity {
	if f == nil {
		return nil
	}
	return &entity.PipelineFilterEntity{
		ID:           f.FilterID,
		PipelineID:   f.PipelineID,
		FilterType:   f.FilterType,
		FilterConfig: entity.JSONMap(f.FilterConfig),
		FilterOrder:  f.FilterOrder,
		IsNegated:    f.IsNegated,
		IsRequired:   f.IsRequired,
		CreatedAt:    f.CreatedAt,
		UpdatedAt:    f.UpdatedAt,
	}
}

// FilterToDomain converts database entity to domain model.
func FilterToDomain(e *entity.PipelineFilterEntity) *domain.PipelineFilter {
	if e == nil {
		return nil
	}
	return &domain.PipelineFilter{
		FilterID:     e.ID,
		PipelineID:   e.PipelineID,
		FilterType:   e.FilterType,
		FilterConfig: map[string]interface{}(e.FilterConfig),
		FilterOrder:  e.FilterOrder,
		IsNegated:    e.IsNegated,
		IsRequired:   e.IsRequired,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}

// ActionToEntity converts domain model to database entity.
func ActionToEntity(a *domain.PipelineAction) *entity.PipelineActionEntity {
	if a == nil {
		return nil
	}
	return &entity.PipelineActionEntity{
		ID:              a.ActionID,
		PipelineID:      a.PipelineID,
		ActionType:      a.ActionType,
		ActionConfig:    entity.JSONMap(a.ActionConfig),
		ActionOrder:     a.ActionOrder,
		ContinueOnError: a.ContinueOnError,
		IsAsync:         a.IsAsync,
		TimeoutMs:       a.TimeoutMs,
		RetryCount:      a.RetryCount,
		RetryDelayMs:    a.RetryDelayMs,
		ConditionType:   string(a.ConditionType),
		ConditionConfig: entity.JSONMap(a.ConditionConfig),
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}

// ActionToDomain converts database entity to domain model.
func ActionToDomain(e *entity.PipelineActionEntity) *domain.PipelineAction {
	if e == nil {
		return nil
	}
	return &domain.PipelineAction{
		ActionID:        e.ID,
		PipelineID:      e.PipelineID,
		ActionType:      e.ActionType,
		ActionConfig:    map[string]interface{}(e.ActionConfig),
		ActionOrder:     e.ActionOrder,
		ContinueOnError: e.ContinueOnError,
		IsAsync:         e.IsAsync,
		TimeoutMs:       e.TimeoutMs,
		RetryCount:      e.RetryCount,
		RetryDelayMs:    e.RetryDelayMs,
		ConditionType:   domain.ConditionType(e.ConditionType),
		ConditionConfig: map[string]interface{}(e.ConditionConfig),
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}
}

// ExecutionLogToEntity converts domain model to database entity. Action
// results are JSON-encoded since GORM has no native support for a slice of
// structs in a single JSONB column.
func ExecutionLogToEntity(l *domain.PipelineExecutionLog) *entity.ExecutionLogEntity {
	if l == nil {
		return nil
	}
	results, _ := json.Marshal(l.ActionResults)
	return &entity.ExecutionLogEntity{
		ID:               l.ExecutionID,
		PipelineID:       l.PipelineID,
		EventType:        l.EventType,
		EventData:        entity.JSONMap(l.EventData),
		StartedAt:        l.StartedAt,
		CompletedAt:      l.CompletedAt,
		DurationMs:       l.DurationMs,
		Status:           string(l.Status),
		ErrorMessage:     l.ErrorMessage,
		ActionsExecuted:  l.ActionsExecuted,
		ActionsSucceeded: l.ActionsSucceeded,
		ActionResults:    entity.JSONSlice(results),
		TriggeredBy:      l.TriggeredBy,
		Platform:         l.Platform,
	}
}

// ExecutionLogToDomain converts database entity to domain model.
func ExecutionLogToDomain(e *entity.ExecutionLogEntity) *domain.PipelineExecutionLog {
	if e == nil {
		return nil
	}
	var results []domain.ActionExecutionResult
	if len(e.ActionResults) > 0 {
		_ = json.Unmarshal(e.ActionResults, &results)
	}
	return &domain.PipelineExecutionLog{
		ExecutionID:      e.ID,
		PipelineID:       e.PipelineID,
		EventType:        e.EventType,
		EventData:        map[string]interface{}(e.EventData),
		StartedAt:        e.StartedAt,
		CompletedAt:      e.CompletedAt,
		DurationMs:       e.DurationMs,
		Status:           domain.ExecutionStatus(e.Status),
		ErrorMessage:     e.ErrorMessage,
		ActionsExecuted:  e.ActionsExecuted,
		ActionsSucceeded: e.ActionsSucceeded,
		ActionResults:    results,
		TriggeredBy:      e.TriggeredBy,
		Platform:         e.Platform,
	}
}

// ExecutionLogsToDomain converts a slice of entities to domain models.
func ExecutionLogsToDomain(entities []entity.ExecutionLogEntity) []*domain.PipelineExecutionLog {
	out := make([]*domain.PipelineExecutionLog, 0, len(entities))
	for i := range entities {
		out = append(out, ExecutionLogToDomain(&entities[i]))
	}
	return out
}
