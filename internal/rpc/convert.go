package rpc

import (
	"fmt"
	"strconv"
	"time"

	"github.com/maowbot/maowbot/internal/domain"
	"github.com/maowbot/maowbot/internal/rpc/pb"
)

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatTime(*t)
}

func toString(v interface{}) string {
	switch x := v.(type) {
	case string:
		return x
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprintf("%v", x)
	}
}

// stringifyConfig flattens a filter/action config map into the
// string-valued shape the JSON wire messages carry. Non-string values are
// rendered with their plain text form (fmt's %v for lists and maps, not
// JSON), which is lossy for nested structures (a composite filter's nested
// filter list) but sufficient for the scalar configs every builtin
// filter/action actually reads. parseConfig does not turn that text back
// into a list or map.
func stringifyConfig(m map[string]interface{}) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = toString(v)
	}
	return out
}

// parseConfig is stringifyConfig's inverse for string values only: every
// value comes back in as a plain string, since the wire format has no way
// to distinguish a numeric config value from a string one. Nothing decodes
// these strings further, so the builtin config readers treat a key whose
// value they expect as a list, bool or number (a platform list, a
// composite filter's "filters" or "require_all") as unset.
func parseConfig(m map[string]string) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func filterToPB(f domain.PipelineFilter) *pb.PipelineFilter {
	return &pb.PipelineFilter{
		FilterType:   f.FilterType,
		FilterConfig: stringifyConfig(f.FilterConfig),
		FilterOrder:  f.FilterOrder,
		IsNegated:    f.IsNegated,
		IsRequired:   f.IsRequired,
	}
}

func actionToPB(a domain.PipelineAction) *pb.PipelineAction {
	var timeoutMs int64
	if a.TimeoutMs != nil {
		timeoutMs = *a.TimeoutMs
	}
	return &pb.PipelineAction{
		ActionType:      a.ActionType,
		ActionConfig:    stringifyConfig(a.ActionConfig),
		ActionOrder:     a.ActionOrder,
		ContinueOnError: a.ContinueOnError,
		IsAsync:         a.IsAsync,
		TimeoutMs:       timeoutMs,
		RetryCount:      a.RetryCount,
		RetryDelayMs:    a.RetryDelayMs,
		ConditionType:   string(a.ConditionType),
	}
}

func pipelineToPB(p *domain.EventPipeline) *pb.Pipeline {
	out := &pb.Pipeline{
		PipelineID:  p.PipelineID,
		Name:        p.Name,
		Enabled:     p.Enabled,
		Priority:    p.Priority,
		StopOnMatch: p.StopOnMatch,
		StopOnError: p.StopOnError,
		Tags:        p.Tags,
	}
	if p.Description != nil {
		out.Description = *p.Description
	}
	for _, f := range p.Filters {
		out.Filters = append(out.Filters, filterToPB(f))
	}
	for _, a := range p.Actions {
		out.Actions = append(out.Actions, actionToPB(a))
	}
	return out
}

func pbToFilter(f *pb.PipelineFilter) domain.PipelineFilter {
	return domain.PipelineFilter{
		FilterType:   f.FilterType,
		FilterConfig: parseConfig(f.FilterConfig),
		FilterOrder:  f.FilterOrder,
		IsNegated:    f.IsNegated,
		IsRequired:   f.IsRequired,
	}
}

func pbToAction(a *pb.PipelineAction) domain.PipelineAction {
	out := domain.PipelineAction{
		ActionType:      a.ActionType,
		ActionConfig:    parseConfig(a.ActionConfig),
		ActionOrder:     a.ActionOrder,
		ContinueOnError: a.ContinueOnError,
		IsAsync:         a.IsAsync,
		RetryCount:      a.RetryCount,
		RetryDelayMs:    a.RetryDelayMs,
		ConditionType:   domain.ConditionType(a.ConditionType),
	}
	if a.TimeoutMs > 0 {
		out.TimeoutMs = &a.TimeoutMs
	}
	return out
}

func pbToPipeline(p *pb.Pipeline) *domain.EventPipeline {
	out := &domain.EventPipeline{
		PipelineID:  p.PipelineID,
		Name:        p.Name,
		Enabled:     p.Enabled,
		Priority:    p.Priority,
		StopOnMatch: p.StopOnMatch,
		StopOnError: p.StopOnError,
		Tags:        p.Tags,
	}
	if p.Description != "" {
		out.Description = &p.Description
	}
	for _, f := range p.Filters {
		out.Filters = append(out.Filters, pbToFilter(f))
	}
	for _, a := range p.Actions {
		out.Actions = append(out.Actions, pbToAction(a))
	}
	return out
}

func credentialToPB(c *domain.PlatformCredential) *pb.Credential {
	r := c.Redacted()
	return &pb.Credential{
		CredentialID:  r.CredentialID,
		Platform:      r.Platform,
		UserName:      r.UserName,
		IsBroadcaster: r.IsBroadcaster,
		IsTeammate:    r.IsTeammate,
		IsBot:         r.IsBot,
		ExpiresAt:     formatTimePtr(r.ExpiresAt),
		Expired:       r.IsExpired(time.Now()),
	}
}
