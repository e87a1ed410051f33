// Package registry implements the Event Handler Registry of spec.md §4.4:
// a process-wide catalog of filter and action handlers, keyed by name, that
// the Event Pipeline Engine resolves PipelineFilter.FilterType and
// PipelineAction.ActionType against. Builtin handlers are registered at
// startup by internal/pipeline/builtin's RegisterFilters and
// RegisterActions; the Plugin Host does not register handlers here.
//
// Grounded on the teacher's CQRS command/query bus shape
// (shared/cqrs/bus.go): a name-keyed map of handlers guarded by a mutex,
// generalized from one-shot command dispatch to a catalog that the
// pipeline engine consults once per filter/action per event.
package registry

import (
	"context"
	"sync"

	"github.com/maowbot/maowbot/internal/domain"
	"github.com/maowbot/maowbot/internal/events"
)

// FilterFunc evaluates a PipelineFilter against an inbound event. A true
// result means the filter matched (before IsNegated is applied by the
// pipeline engine).
type FilterFunc func(ctx context.Context, filter domain.PipelineFilter, event events.BotEvent) (bool, error)

// ActionResult is what an ActionFunc reports back to the pipeline engine.
type ActionResult struct {
	OutputData map[string]interface{}
}

// ActionFunc executes a PipelineAction against an inbound event.
type ActionFunc func(ctx context.Context, action domain.PipelineAction, event events.BotEvent) (ActionResult, error)

// Registry is the process-wide filter/action handler catalog.
type Registry struct {
	mu      sync.RWMutex
	filters map[string]FilterFunc
	actions map[string]ActionFunc
	entries map[string]domain.HandlerRegistryEntry
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		filters: make(map[string]FilterFunc),
		actions: make(map[string]ActionFunc),
		entries: make(map[string]domain.HandlerRegistryEntry),
	}
}

// RegisterFilter registers a filter handler under handlerName. Re-registering
// an existing name overwrites it, matching the teacher's command bus
// RegisterHandler semantics (last registration wins).
func (r *Registry) RegisterFilter(entry domain.HandlerRegistryEntry, fn FilterFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry.HandlerType = "filter"
	r.filters[entry.HandlerName] = fn
	r.entries[handlerKey("filter", entry.HandlerName)] = entry
}

// RegisterAction registers an action handler under handlerName.
func (r *Registry) RegisterAction(entry domain.HandlerRegistryEntry, fn ActionFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry.HandlerType = "action"
	r.actions[entry.HandlerName] = fn
	r.entries[handlerKey("action", entry.HandlerName)] = entry
}

// Unregister removes a previously registered handler of handlerType
// ("filter" or "action"); an unknown name is a no-op.
func (r *Registry) Unregister(handlerType, handlerName string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch handlerType {
	case "filter":
		delete(r.filters, handlerName)
	case "action":
		delete(r.actions, handlerName)
	}
	delete(r.entries, handlerKey(handlerType, handlerName))
}

// Filter looks up a registered filter handler by name.
func (r *Registry) Filter(name string) (FilterFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.filters[name]
	return fn, ok
}

// Action looks up a registered action handler by name.
func (r *Registry) Action(name string) (ActionFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.actions[name]
	return fn, ok
}

// List returns every registered handler's descriptor, for the
// EventPipelineService.ListAvailableHandlers RPC.
func (r *Registry) List() []domain.HandlerRegistryEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.HandlerRegistryEntry, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e)
	}
	return out
}

func handlerKey(handlerType, handlerName string) string {
	return handlerType + ":" + handlerName
}
