package pipeline

import (
	"context"
	"sync"
)

type actionContextKey struct{}

// WithActionContext attaches an ActionContext to ctx so built-in action
// handlers (internal/pipeline/builtin) can read/write shared execution
// state without importing this package directly.
func WithActionContext(ctx context.Context, actx *ActionContext) context.Context {
	return context.WithValue(ctx, actionContextKey{}, actx)
}

// SharedDataFromContext returns a snapshot of the ActionContext attached to
// ctx, or nil if none is attached.
func SharedDataFromContext(ctx context.Context) map[string]interface{} {
	actx, ok := ctx.Value(actionContextKey{}).(*ActionContext)
	if !ok {
		return nil
	}
	return actx.Snapshot()
}

// ActionContext is the shared per-execution state actions use to
// communicate, per spec.md §4.5 ("Actions communicate exclusively through
// shared data and the event itself").
type ActionContext struct {
	mu   sync.RWMutex
	data map[string]interface{}
}

// NewActionContext creates an empty ActionContext for one pipeline run.
func NewActionContext() *ActionContext {
	return &ActionContext{data: make(map[string]interface{})}
}

// SetData stores a value under key, visible to every later action in the
// same execution.
func (c *ActionContext) SetData(key string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
}

// GetData retrieves a previously set value.
func (c *ActionContext) GetData(key string) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.data[key]
	return v, ok
}

// Snapshot returns a shallow copy of the shared data, used for template
// rendering and execution log persistence.
func (c *ActionContext) Snapshot() map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]interface{}, len(c.data))
	for k, v := range c.data {
		out[k] = v
	}
	return out
}
