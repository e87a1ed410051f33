package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/maowbot/maowbot/internal/domain"
	"github.com/maowbot/maowbot/internal/events"
	"github.com/maowbot/maowbot/internal/pipeline/builtin"
	"github.com/maowbot/maowbot/internal/registry"
)

type fakePipelineRepo struct {
	pipelines    []*domain.EventPipeline
	statsUpdated int
}

func (f *fakePipelineRepo) Create(ctx context.Context, p *domain.EventPipeline) error { return nil }
func (f *fakePipelineRepo) Get(ctx context.Context, id string) (*domain.EventPipeline, error) {
	for _, p := range f.pipelines {
		if p.PipelineID == id {
			return p, nil
		}
	}
	return nil, nil
}
func (f *fakePipelineRepo) List(ctx context.Context, enabledOnly bool) ([]*domain.EventPipeline, error) {
	if !enabledOnly {
		return f.pipelines, nil
	}
	var out []*domain.EventPipeline
	for _, p := range f.pipelines {
		if p.Enabled {
			out = append(out, p)
		}
	}
	return out, nil
}
func (f *fakePipelineRepo) Update(ctx context.Context, p *domain.EventPipeline) error { return nil }
func (f *fakePipelineRepo) Delete(ctx context.Context, id string) error              { return nil }
func (f *fakePipelineRepo) IncrementStats(ctx context.Context, id string, success bool, at time.Time) error {
	f.statsUpdated++
	return nil
}

type fakeExecLogRepo struct {
	logs []*domain.PipelineExecutionLog
}

func (f *fakeExecLogRepo) Create(ctx context.Context, l *domain.PipelineExecutionLog) error {
	f.logs = append(f.logs, l)
	return nil
}
func (f *fakeExecLogRepo) Get(ctx context.Context, executionID string) (*domain.PipelineExecutionLog, error) {
	for _, l := range f.logs {
		if l.ExecutionID == executionID {
			return l, nil
		}
	}
	return nil, nil
}
func (f *fakeExecLogRepo) ListByPipeline(ctx context.Context, pipelineID string, limit int) ([]*domain.PipelineExecutionLog, error) {
	return f.logs, nil
}
func (f *fakeExecLogRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

func newTestEngine(t *testing.T, pipelines []*domain.EventPipeline) (*Engine, *fakeExecLogRepo, *registry.Registry) {
	t.Helper()
	reg := registry.New()
	builtin.RegisterFilters(reg)
	builtin.RegisterActions(reg, builtin.Dependencies{
		Render:   RenderTemplate,
		SharedOf: SharedDataFromContext,
	})
	pr := &fakePipelineRepo{pipelines: pipelines}
	er := &fakeExecLogRepo{}
	return New(pr, er, reg), er, reg
}

func TestEngineCompositeFilterAndTemplateRendering(t *testing.T) {
	t.Parallel()

	var sent string
	var capturedChannel string

	pipeline := &domain.EventPipeline{
		PipelineID: "p1",
		Name:       "ping-pong",
		Enabled:    true,
		Filters: []domain.PipelineFilter{
			{
				FilterID:    "f1",
				FilterType:  "composite",
				FilterOrder: 0,
				IsRequired:  true,
				FilterConfig: map[string]interface{}{
					"require_all": false,
					"filters": []interface{}{
						map[string]interface{}{
							"filter_type":   "platform",
							"filter_config": map[string]interface{}{"platforms": []interface{}{"twitch"}},
						},
						map[string]interface{}{
							"filter_type":   "channel",
							"filter_config": map[string]interface{}{"channels": []interface{}{"#general"}},
						},
					},
				},
			},
			{
				FilterID:    "f2",
				FilterType:  "message_pattern",
				FilterOrder: 1,
				IsRequired:  true,
				FilterConfig: map[string]interface{}{
					"patterns": []interface{}{"^!ping$"},
				},
			},
		},
		Actions: []domain.PipelineAction{
			{
				ActionID:    "a1",
				ActionType:  "twitch_message",
				ActionOrder: 0,
				ActionConfig: map[string]interface{}{
					"message_template": "pong @{user}",
				},
			},
		},
	}

	engine, execLogs, reg := newTestEngine(t, []*domain.EventPipeline{pipeline})
	// Wire a capturing chat sender after construction by re-registering
	// the twitch_message handler.
	reg.RegisterAction(domain.HandlerRegistryEntry{HandlerName: "twitch_message", HandlerCategory: "action"}, func(ctx context.Context, action domain.PipelineAction, event events.BotEvent) (registry.ActionResult, error) {
		capturedChannel = event.ChatMessage.Channel
		sent = RenderTemplate(action.ActionConfig["message_template"].(string), event, nil)
		return registry.ActionResult{}, nil
	})

	event := events.NewChatMessage("twitch", "#general", "alice", "!ping")
	engine.HandleEvent(context.Background(), event)

	require.Equal(t, "pong @alice", sent)
	require.Equal(t, "#general", capturedChannel)
	require.Len(t, execLogs.logs, 1)
	require.Equal(t, domain.ExecutionSuccess, execLogs.logs[0].Status)
	require.Len(t, execLogs.logs[0].ActionResults, 1)
	require.Equal(t, domain.ActionSuccess, execLogs.logs[0].ActionResults[0].Status)
}

func TestEngineRequiredFilterRejectSkipsActions(t *testing.T) {
	t.Parallel()

	actionRan := false
	pipeline := &domain.EventPipeline{
		PipelineID: "p1",
		Enabled:    true,
		Filters: []domain.PipelineFilter{
			{
				FilterID:     "f1",
				FilterType:   "channel",
				FilterOrder:  0,
				IsRequired:   true,
				FilterConfig: map[string]interface{}{"channels": []interface{}{"#other"}},
			},
		},
		Actions: []domain.PipelineAction{
			{ActionID: "a1", ActionType: "noop", ActionOrder: 0},
		},
	}

	engine, execLogs, reg := newTestEngine(t, []*domain.EventPipeline{pipeline})
	reg.RegisterAction(domain.HandlerRegistryEntry{HandlerName: "noop"}, func(ctx context.Context, action domain.PipelineAction, event events.BotEvent) (registry.ActionResult, error) {
		actionRan = true
		return registry.ActionResult{}, nil
	})

	engine.HandleEvent(context.Background(), events.NewChatMessage("twitch", "#general", "alice", "hi"))

	require.False(t, actionRan, "required filter reject must short-circuit before any action runs")
	require.Len(t, execLogs.logs, 0)
}

func TestEngineRetryThenSuccess(t *testing.T) {
	t.Parallel()

	pipeline := &domain.EventPipeline{
		PipelineID: "p1",
		Enabled:    true,
		Actions: []domain.PipelineAction{
			{
				ActionID:     "a1",
				ActionType:   "flaky",
				ActionOrder:  0,
				RetryCount:   2,
				RetryDelayMs: 50,
			},
		},
	}

	engine, execLogs, reg := newTestEngine(t, []*domain.EventPipeline{pipeline})
	attempt := 0
	reg.RegisterAction(domain.HandlerRegistryEntry{HandlerName: "flaky"}, func(ctx context.Context, action domain.PipelineAction, event events.BotEvent) (registry.ActionResult, error) {
		attempt++
		if attempt < 3 {
			return registry.ActionResult{}, context.DeadlineExceeded
		}
		return registry.ActionResult{}, nil
	})

	start := time.Now()
	engine.HandleEvent(context.Background(), events.NewTick())
	elapsed := time.Since(start)

	require.Equal(t, 3, attempt)
	require.GreaterOrEqual(t, elapsed, 100*time.Millisecond)
	require.Len(t, execLogs.logs, 1)
	require.Equal(t, domain.ActionSuccess, execLogs.logs[0].ActionResults[0].Status)
	require.Equal(t, 3, execLogs.logs[0].ActionResults[0].Attempts)
}

func TestEngineDisabledPipelineIsSkipped(t *testing.T) {
	t.Parallel()

	actionRan := false
	pipeline := &domain.EventPipeline{
		PipelineID: "p1",
		Enabled:    false,
		Actions: []domain.PipelineAction{
			{ActionID: "a1", ActionType: "noop", ActionOrder: 0},
		},
	}

	engine, execLogs, reg := newTestEngine(t, []*domain.EventPipeline{pipeline})
	reg.RegisterAction(domain.HandlerRegistryEntry{HandlerName: "noop"}, func(ctx context.Context, action domain.PipelineAction, event events.BotEvent) (registry.ActionResult, error) {
		actionRan = true
		return registry.ActionResult{}, nil
	})

	engine.HandleEvent(context.Background(), events.NewChatMessage("twitch", "#general", "alice", "hi"))

	require.False(t, actionRan, "disabled pipelines must never run, even when List(enabledOnly) is bypassed")
	require.Len(t, execLogs.logs, 0)
}

func TestEngineActionTimeoutHaltsPipelineWhenContinueOnErrorFalse(t *testing.T) {
	t.Parallel()

	timeoutMs := int64(20)
	pipeline := &domain.EventPipeline{
		PipelineID: "p1",
		Enabled:    true,
		Actions: []domain.PipelineAction{
			{
				ActionID:        "a1",
				ActionType:      "slow",
				ActionOrder:     0,
				TimeoutMs:       &timeoutMs,
				ContinueOnError: false,
			},
			{ActionID: "a2", ActionType: "noop", ActionOrder: 1},
		},
	}

	engine, execLogs, reg := newTestEngine(t, []*domain.EventPipeline{pipeline})
	secondActionRan := false
	reg.RegisterAction(domain.HandlerRegistryEntry{HandlerName: "slow"}, func(ctx context.Context, action domain.PipelineAction, event events.BotEvent) (registry.ActionResult, error) {
		<-ctx.Done()
		return registry.ActionResult{}, ctx.Err()
	})
	reg.RegisterAction(domain.HandlerRegistryEntry{HandlerName: "noop"}, func(ctx context.Context, action domain.PipelineAction, event events.BotEvent) (registry.ActionResult, error) {
		secondActionRan = true
		return registry.ActionResult{}, nil
	})

	engine.HandleEvent(context.Background(), events.NewTick())

	require.False(t, secondActionRan, "a timed-out action with continue_on_error=false must halt the pipeline")
	require.Len(t, execLogs.logs, 1)
	require.Equal(t, domain.ExecutionFailed, execLogs.logs[0].Status)
	require.Len(t, execLogs.logs[0].ActionResults, 1)
	require.Equal(t, domain.ActionTimeout, execLogs.logs[0].ActionResults[0].Status)
}

type recordingObserver struct {
	calls []string
}

func (r *recordingObserver) RecordPipelineExecution(pipelineName, outcome string, seconds float64) {
	r.calls = append(r.calls, pipelineName+":"+outcome)
}

func TestEngineReportsExecutionOutcomeToObserver(t *testing.T) {
	t.Parallel()

	matched := &domain.EventPipeline{
		PipelineID: "p1",
		Name:       "matched-pipeline",
		Enabled:    true,
		Actions:    []domain.PipelineAction{{ActionID: "a1", ActionType: "noop", ActionOrder: 0}},
	}
	rejected := &domain.EventPipeline{
		PipelineID: "p2",
		Name:       "rejected-pipeline",
		Enabled:    true,
		Filters: []domain.PipelineFilter{
			{FilterID: "f1", FilterType: "channel", IsRequired: true, FilterConfig: map[string]interface{}{"channels": []interface{}{"#other"}}},
		},
	}

	engine, _, reg := newTestEngine(t, []*domain.EventPipeline{matched, rejected})
	reg.RegisterAction(domain.HandlerRegistryEntry{HandlerName: "noop"}, func(ctx context.Context, action domain.PipelineAction, event events.BotEvent) (registry.ActionResult, error) {
		return registry.ActionResult{}, nil
	})

	obs := &recordingObserver{}
	engine.SetObserver(obs)
	engine.HandleEvent(context.Background(), events.NewChatMessage("twitch", "#general", "alice", "hi"))

	require.Equal(t, []string{"matched-pipeline:matched", "rejected-pipeline:skipped"}, obs.calls)
}
