package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/maowbot/maowbot/internal/domain"
	"github.com/maowbot/maowbot/internal/events"
	"github.com/maowbot/maowbot/internal/logger"
	"github.com/maowbot/maowbot/internal/registry"
	"github.com/maowbot/maowbot/internal/repository/interfaces"
)

// Observer receives per-execution instrumentation. internal/metrics.Metrics
// satisfies this without Engine importing it directly.
type Observer interface {
	RecordPipelineExecution(pipelineName, outcome string, seconds float64)
}

// Engine evaluates persisted EventPipeline definitions against inbound
// events and executes their actions (spec.md §4.5).
type Engine struct {
	pipelines interfaces.PipelineRepository
	execLog   interfaces.ExecutionLogRepository
	registry  *registry.Registry
	log       *logger.Logger
	obs       Observer
}

// New creates an Engine.
func New(pipelines interfaces.PipelineRepository, execLog interfaces.ExecutionLogRepository, reg *registry.Registry) *Engine {
	return &Engine{
		pipelines: pipelines,
		execLog:   execLog,
		registry:  reg,
		log:       logger.New("pipeline.engine"),
	}
}

// SetObserver wires a metrics sink for pipeline execution counts and
// latency. Passing nil disables instrumentation.
func (e *Engine) SetObserver(obs Observer) {
	e.obs = obs
}

// HandleEvent is the Event Bus subscriber entrypoint: it loads all
// pipelines in (priority asc, created_at asc) order and runs each enabled
// one against event, honoring stop_on_match (spec.md §4.5).
func (e *Engine) HandleEvent(ctx context.Context, event events.BotEvent) {
	pipelines, err := e.pipelines.List(ctx, true)
	if err != nil {
		e.log.Error("list pipelines: %v", err)
		return
	}

	for _, p := range pipelines {
		if !p.Enabled {
			continue
		}
		_, matched, err := e.runPipeline(ctx, p, event)
		if err != nil {
			e.log.Error("pipeline %s (%s) execution error: %v", p.PipelineID, p.Name, err)
		}
		if matched && p.StopOnMatch {
			return
		}
	}
}

// ExecuteTest runs one pipeline by ID against event outside the normal
// event-bus dispatch loop, bypassing enabled/stop_on_match semantics, and
// returns the resulting execution log. Backs EventPipelineService's
// ExecuteTest RPC (SPEC_FULL §4.7 expansion).
func (e *Engine) ExecuteTest(ctx context.Context, pipelineID string, event events.BotEvent) (*domain.PipelineExecutionLog, error) {
	p, err := e.pipelines.Get(ctx, pipelineID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("pipeline %s not found", pipelineID)
	}
	log, _, err := e.runPipeline(ctx, p, event)
	return log, err
}

// runPipeline evaluates one pipeline's filters and, if they pass, executes
// its actions. Returns the execution log and whether at least one action
// ran to success.
func (e *Engine) runPipeline(ctx context.Context, p *domain.EventPipeline, event events.BotEvent) (*domain.PipelineExecutionLog, bool, error) {
	execLog := &domain.PipelineExecutionLog{
		ExecutionID: uuid.NewString(),
		PipelineID:  p.PipelineID,
		EventType:   string(event.Kind),
		StartedAt:   time.Now(),
		Status:      domain.ExecutionRunning,
	}
	if plat := event.Platform(); plat != "" {
		execLog.Platform = &plat
	}

	passed, err := e.evaluateFilters(ctx, p.Filters, event)
	if err != nil {
		execLog.Status = domain.ExecutionFailed
		msg := err.Error()
		execLog.ErrorMessage = &msg
		if e.obs != nil {
			e.obs.RecordPipelineExecution(p.Name, "error", time.Since(execLog.StartedAt).Seconds())
		}
		return execLog, false, err
	}
	if !passed {
		execLog.Status = domain.ExecutionCancelled
		if e.obs != nil {
			e.obs.RecordPipelineExecution(p.Name, "skipped", time.Since(execLog.StartedAt).Seconds())
		}
		return execLog, false, nil
	}

	actx := NewActionContext()
	results, status := e.runActions(ctx, p.Actions, event, actx)

	now := time.Now()
	durationMs := now.Sub(execLog.StartedAt).Milliseconds()
	execLog.CompletedAt = &now
	execLog.DurationMs = &durationMs
	execLog.Status = status
	execLog.ActionResults = results
	execLog.ActionsExecuted = len(results)
	anySuccess := false
	for _, r := range results {
		if r.Status == domain.ActionSuccess {
			execLog.ActionsSucceeded++
			anySuccess = true
		}
	}
	sharedData := actx.Snapshot()
	if len(sharedData) > 0 {
		execLog.EventData = sharedData
	}

	if err := e.execLog.Create(ctx, execLog); err != nil {
		e.log.Error("persist execution log for pipeline %s: %v", p.PipelineID, err)
	}
	if err := e.pipelines.IncrementStats(ctx, p.PipelineID, anySuccess, now); err != nil {
		e.log.Error("increment stats for pipeline %s: %v", p.PipelineID, err)
	}

	if e.obs != nil {
		outcome := "matched"
		if !anySuccess {
			outcome = "no_success"
		}
		e.obs.RecordPipelineExecution(p.Name, outcome, now.Sub(execLog.StartedAt).Seconds())
	}

	return execLog, anySuccess, nil
}

// evaluateFilters implements spec.md §4.5's gating rule: required filters
// AND together and any Reject on one short-circuits with no actions run;
// non-required filters are evaluated (for audit) but never gate.
func (e *Engine) evaluateFilters(ctx context.Context, filters []domain.PipelineFilter, event events.BotEvent) (bool, error) {
	ordered := make([]domain.PipelineFilter, len(filters))
	copy(ordered, filters)
	sortFiltersByOrder(ordered)

	for _, f := range ordered {
		fn, ok := e.registry.Filter(f.FilterType)
		if !ok {
			e.log.Error("no filter handler registered for type %q", f.FilterType)
			if f.IsRequired {
				return false, nil
			}
			continue
		}
		pass, err := fn(ctx, f, event)
		if err != nil {
			e.log.Error("filter %s (%s) error: %v", f.FilterID, f.FilterType, err)
			pass = false
		}
		if f.IsNegated {
			pass = !pass
		}
		if f.IsRequired && !pass {
			return false, nil
		}
	}
	return true, nil
}

func sortFiltersByOrder(filters []domain.PipelineFilter) {
	for i := 1; i < len(filters); i++ {
		for j := i; j > 0 && filters[j-1].FilterOrder > filters[j].FilterOrder; j-- {
			filters[j-1], filters[j] = filters[j], filters[j-1]
		}
	}
}

func sortActionsByOrder(actions []domain.PipelineAction) {
	for i := 1; i < len(actions); i++ {
		for j := i; j > 0 && actions[j-1].ActionOrder > actions[j].ActionOrder; j-- {
			actions[j-1], actions[j] = actions[j], actions[j-1]
		}
	}
}

// actionHalted reports whether an action's outcome stops the pipeline when
// continue_on_error is false. A timeout is a failure for this purpose, not
// a third outcome (spec.md §8 scenario 5).
func actionHalted(status domain.ActionStatus) bool {
	return status == domain.ActionFailed || status == domain.ActionTimeout
}

// runActions executes actions in order, honoring conditions, timeouts and
// retries, grouping consecutive is_async runs of siblings so they execute
// concurrently and join before the next sequential action (spec.md §4.5).
func (e *Engine) runActions(ctx context.Context, actions []domain.PipelineAction, event events.BotEvent, actx *ActionContext) ([]domain.ActionExecutionResult, domain.ExecutionStatus) {
	ordered := make([]domain.PipelineAction, len(actions))
	copy(ordered, actions)
	sortActionsByOrder(ordered)

	var results []domain.ActionExecutionResult
	var previous *domain.ActionExecutionResult
	status := domain.ExecutionSuccess

	i := 0
	for i < len(ordered) {
		if ordered[i].IsAsync {
			j := i
			for j < len(ordered) && ordered[j].IsAsync {
				j++
			}
			group := ordered[i:j]
			groupResults := e.runAsyncGroup(ctx, group, event, actx, previous)
			for k := range groupResults {
				results = append(results, groupResults[k])
				if actionHalted(groupResults[k].Status) && !group[k].ContinueOnError {
					status = domain.ExecutionFailed
					return results, status
				}
			}
			if len(groupResults) > 0 {
				previous = &groupResults[len(groupResults)-1]
			}
			i = j
			continue
		}

		action := ordered[i]
		res := e.runOneAction(ctx, action, event, actx, previous)
		results = append(results, res)
		previous = &results[len(results)-1]
		if actionHalted(res.Status) && !action.ContinueOnError {
			status = domain.ExecutionFailed
			return results, status
		}
		i++
	}
	return results, status
}

func (e *Engine) runAsyncGroup(ctx context.Context, group []domain.PipelineAction, event events.BotEvent, actx *ActionContext, previous *domain.ActionExecutionResult) []domain.ActionExecutionResult {
	results := make([]domain.ActionExecutionResult, len(group))
	var wg sync.WaitGroup
	for idx, action := range group {
		wg.Add(1)
		go func(idx int, action domain.PipelineAction) {
			defer wg.Done()
			results[idx] = e.runOneAction(ctx, action, event, actx, previous)
		}(idx, action)
	}
	wg.Wait()
	return results
}

// runOneAction evaluates the action's condition, then executes it with
// timeout and retry handling (spec.md §4.5 steps 1-3).
func (e *Engine) runOneAction(ctx context.Context, action domain.PipelineAction, event events.BotEvent, actx *ActionContext, previous *domain.ActionExecutionResult) domain.ActionExecutionResult {
	result := domain.ActionExecutionResult{
		ActionID:   action.ActionID,
		ActionType: action.ActionType,
		StartedAt:  time.Now(),
	}

	if !conditionAllows(action.ConditionType, previous) {
		result.Status = domain.ActionSkipped
		completed := time.Now()
		result.CompletedAt = &completed
		d := completed.Sub(result.StartedAt).Milliseconds()
		result.DurationMs = &d
		return result
	}

	fn, ok := e.registry.Action(action.ActionType)
	if !ok {
		msg := fmt.Sprintf("no action handler registered for type %q", action.ActionType)
		return failResult(result, msg)
	}

	ctx = WithActionContext(ctx, actx)

	attempts := 0
	maxAttempts := int(action.RetryCount) + 1
	var lastErr error
	var output registry.ActionResult

	for attempts < maxAttempts {
		attempts++
		runCtx := ctx
		var cancel context.CancelFunc
		if action.TimeoutMs != nil {
			runCtx, cancel = context.WithTimeout(ctx, time.Duration(*action.TimeoutMs)*time.Millisecond)
		}
		out, err := fn(runCtx, action, event)
		if cancel != nil {
			cancel()
		}
		if err == nil {
			output = out
			lastErr = nil
			break
		}
		lastErr = err
		if runCtx.Err() == context.DeadlineExceeded {
			result.Status = domain.ActionTimeout
			msg := err.Error()
			result.ErrorMessage = &msg
			result.Attempts = attempts
			completed := time.Now()
			result.CompletedAt = &completed
			d := completed.Sub(result.StartedAt).Milliseconds()
			result.DurationMs = &d
			return result
		}
		if attempts < maxAttempts {
			time.Sleep(time.Duration(action.RetryDelayMs) * time.Millisecond)
		}
	}

	result.Attempts = attempts
	completed := time.Now()
	result.CompletedAt = &completed
	d := completed.Sub(result.StartedAt).Milliseconds()
	result.DurationMs = &d

	if lastErr != nil {
		msg := lastErr.Error()
		result.ErrorMessage = &msg
		result.Status = domain.ActionFailed
		return result
	}

	result.Status = domain.ActionSuccess
	result.OutputData = output.OutputData
	if output.OutputData != nil {
		for k, v := range output.OutputData {
			actx.SetData(k, v)
		}
	}
	return result
}

func failResult(result domain.ActionExecutionResult, msg string) domain.ActionExecutionResult {
	result.Status = domain.ActionFailed
	result.ErrorMessage = &msg
	completed := time.Now()
	result.CompletedAt = &completed
	d := completed.Sub(result.StartedAt).Milliseconds()
	result.DurationMs = &d
	return result
}

func conditionAllows(ct domain.ConditionType, previous *domain.ActionExecutionResult) bool {
	switch ct {
	case domain.ConditionPreviousSuccess:
		return previous == nil || previous.Status == domain.ActionSuccess
	case domain.ConditionPreviousFailure:
		return previous != nil && previous.Status == domain.ActionFailed
	default:
		return true
	}
}
