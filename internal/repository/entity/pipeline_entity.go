package entity

import "time"

// PipelineEntity is the database entity for EventPipeline (spec.md §3,
// §4.5).
type PipelineEntity struct {
	ID             string  `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Name           string  `gorm:"type:varchar(255);not null;uniqueIndex"`
	Description    *string `gorm:"type:text"`
	Enabled        bool    `gorm:"default:true"`
	Priority       int32   `gorm:"default:100;index"`
	StopOnMatch    bool    `gorm:"default:false"`
	StopOnError    bool    `gorm:"default:false"`
	CreatedBy      *string
	IsSystem       bool        `gorm:"default:false"`
	Tags           StringSlice `gorm:"type:text"`
	Metadata       JSONMap     `gorm:"type:jsonb"`
	ExecutionCount int64       `gorm:"default:0"`
	SuccessCount   int64       `gorm:"default:0"`
	LastExecuted   *time.Time
	CreatedAt      time.Time `gorm:"autoCreateTime"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`

	Filters []PipelineFilterEntity `gorm:"foreignKey:PipelineID"`
	Actions []PipelineActionEntity `gorm:"foreignKey:PipelineID"`
}

func (PipelineEntity) TableName() string {
	return "maowbot_pipelines"
}

// PipelineFilterEntity is the database entity for PipelineFilter.
type PipelineFilterEntity struct {
	ID           string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	PipelineID   string `gorm:"type:uuid;not null;index"`
	FilterType   string `gorm:"type:varchar(64);not null"`
	FilterConfig JSONMap `gorm:"type:jsonb"`
	FilterOrder  int32   `gorm:"default:0"`
	IsNegated    bool    `gorm:"default:false"`
	IsRequired   bool    `gorm:"default:true"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (PipelineFilterEntity) TableName() string {
	return "maowbot_pipeline_filters"
}

// PipelineActionEntity is the database entity for PipelineAction.
type PipelineActionEntity struct {
	ID              string  `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	PipelineID      string  `gorm:"type:uuid;not null;index"`
	ActionType      string  `gorm:"type:varchar(64);not null"`
	ActionConfig    JSONMap `gorm:"type:jsonb"`
	ActionOrder     int32   `gorm:"default:0"`
	ContinueOnError bool    `gorm:"default:false"`
	IsAsync         bool    `gorm:"default:false"`
	TimeoutMs       *int64
	RetryCount      int32   `gorm:"default:0"`
	RetryDelayMs    int32   `gorm:"default:1000"`
	ConditionType   string  `gorm:"type:varchar(32);default:'none'"`
	ConditionConfig JSONMap `gorm:"type:jsonb"`
	CreatedAt       time.Time `gorm:"autoCreateTime"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime"`
}

func (PipelineActionEntity) TableName() string {
	return "maowbot_pipeline_actions"
}

// ExecutionLogEntity is the database entity for PipelineExecutionLog.
type ExecutionLogEntity struct {
	ID               string  `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	PipelineID       string  `gorm:"type:uuid;not null;index"`
	EventType        string  `gorm:"type:varchar(64);not null"`
	EventData        JSONMap `gorm:"type:jsonb"`
	StartedAt        time.Time `gorm:"not null;index"`
	CompletedAt      *time.Time
	DurationMs       *int64
	Status           string `gorm:"type:varchar(32);not null"`
	ErrorMessage     *string
	ActionsExecuted  int `gorm:"default:0"`
	ActionsSucceeded int `gorm:"default:0"`
	ActionResults    JSONSlice `gorm:"type:jsonb"`
	TriggeredBy      *string
	Platform         *string
}

func (ExecutionLogEntity) TableName() string {
	return "maowbot_pipeline_execution_log"
}
