package domain

import "time"

// ConditionType gates an action on the outcome of the action before it.
type ConditionType string

const (
	ConditionNone            ConditionType = "none"
	ConditionPreviousSuccess ConditionType = "previous_success"
	ConditionPreviousFailure ConditionType = "previous_failure"
)

// ExecutionStatus is the terminal or in-flight state of a pipeline run.
type ExecutionStatus string

const (
	ExecutionRunning   ExecutionStatus = "running"
	ExecutionSuccess   ExecutionStatus = "success"
	ExecutionFailed    ExecutionStatus = "failed"
	ExecutionTimeout   ExecutionStatus = "timeout"
	ExecutionCancelled ExecutionStatus = "cancelled"
)

// ActionStatus is the terminal state of one action execution.
type ActionStatus string

const (
	ActionSuccess ActionStatus = "success"
	ActionFailed  ActionStatus = "failed"
	ActionTimeout ActionStatus = "timeout"
	ActionSkipped ActionStatus = "skipped"
)

// EventPipeline is a named, prioritized sequence of filters and actions
// (spec.md §3, §4.5). Lower Priority executes first; ties break on
// CreatedAt ascending.
type EventPipeline struct {
	PipelineID      string
	Name            string
	Description     *string
	Enabled         bool
	Priority        int32
	StopOnMatch     bool
	StopOnError     bool
	CreatedBy       *string
	IsSystem        bool
	Tags            []string
	Metadata        map[string]interface{}
	ExecutionCount  int64
	SuccessCount    int64
	LastExecuted    *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Filters []PipelineFilter
	Actions []PipelineAction
}

// PipelineFilter is a predicate evaluated against an inbound event before
// a pipeline's actions run. Ordered by FilterOrder ascending.
type PipelineFilter struct {
	FilterID    string
	PipelineID  string
	FilterType  string
	FilterConfig map[string]interface{}
	FilterOrder int32
	IsNegated   bool
	IsRequired  bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PipelineAction is one side-effecting step of a pipeline, with its own
// retry/timeout/condition policy. Ordered by ActionOrder ascending.
type PipelineAction struct {
	ActionID        string
	PipelineID      string
	ActionType      string
	ActionConfig    map[string]interface{}
	ActionOrder     int32
	ContinueOnError bool
	IsAsync         bool
	TimeoutMs       *int64
	RetryCount      int32
	RetryDelayMs    int32
	ConditionType   ConditionType
	ConditionConfig map[string]interface{}
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ActionExecutionResult is the audit record of one action's run within a
// pipeline execution.
type ActionExecutionResult struct {
	ActionID     string
	ActionType   string
	StartedAt    time.Time
	CompletedAt  *time.Time
	DurationMs   *int64
	Status       ActionStatus
	ErrorMessage *string
	OutputData   map[string]interface{}
	Attempts     int
}

// PipelineExecutionLog is the auditable record of one pipeline run.
type PipelineExecutionLog struct {
	ExecutionID     string
	PipelineID      string
	EventType       string
	EventData       map[string]interface{}
	StartedAt       time.Time
	CompletedAt     *time.Time
	DurationMs      *int64
	Status          ExecutionStatus
	ErrorMessage    *string
	ActionsExecuted int
	ActionsSucceeded int
	ActionResults   []ActionExecutionResult
	TriggeredBy     *string
	Platform        *string
}

// HandlerRegistryEntry describes one registered filter or action handler,
// builtin or plugin-supplied (spec.md §3).
type HandlerRegistryEntry struct {
	HandlerID      string
	HandlerType    string // "filter" | "action"
	HandlerName    string
	HandlerCategory string
	Description    *string
	Parameters     map[string]interface{}
	IsBuiltin      bool
	PluginID       *string
	IsEnabled      bool
}
