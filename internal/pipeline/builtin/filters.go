package builtin

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/maowbot/maowbot/internal/domain"
	"github.com/maowbot/maowbot/internal/events"
	"github.com/maowbot/maowbot/internal/registry"
)

// RegisterFilters registers the built-in filter types spec.md §4.5
// requires: platform, channel, user_roles, message_pattern, time_window,
// composite.
func RegisterFilters(reg *registry.Registry) {
	reg.RegisterFilter(entry("platform", "Matches when the event's platform is in the configured list."), filterPlatform)
	reg.RegisterFilter(entry("channel", "Matches when the event's channel is in the configured list (case-insensitive)."), filterChannel)
	reg.RegisterFilter(entry("user_roles", "Matches the event user's roles against a configured set."), filterUserRoles)
	reg.RegisterFilter(entry("message_pattern", "Matches the event text against configured regular expressions."), filterMessagePattern)
	reg.RegisterFilter(entry("time_window", "Matches when the event falls within a configured hour-of-day window."), filterTimeWindow)
	reg.RegisterFilter(entry("composite", "Evaluates a nested set of filters with require_all/any-of semantics."), func(ctx context.Context, f domain.PipelineFilter, event events.BotEvent) (bool, error) {
		return filterComposite(ctx, reg, f, event)
	})
}

func entry(name, desc string) domain.HandlerRegistryEntry {
	return domain.HandlerRegistryEntry{
		HandlerName:     name,
		HandlerCategory: "filter",
		Description:     &desc,
		IsBuiltin:       true,
		IsEnabled:       true,
	}
}

func filterPlatform(_ context.Context, f domain.PipelineFilter, event events.BotEvent) (bool, error) {
	platforms := getStringSlice(f.FilterConfig, "platforms")
	return contains(platforms, event.Platform()), nil
}

func filterChannel(_ context.Context, f domain.PipelineFilter, event events.BotEvent) (bool, error) {
	if event.ChatMessage == nil {
		return false, nil
	}
	channels := getStringSlice(f.FilterConfig, "channels")
	for _, c := range channels {
		if strings.EqualFold(c, event.ChatMessage.Channel) {
			return true, nil
		}
	}
	return false, nil
}

func filterUserRoles(_ context.Context, f domain.PipelineFilter, event events.BotEvent) (bool, error) {
	if event.ChatMessage == nil {
		return false, nil
	}
	configured := getStringSlice(f.FilterConfig, "roles")
	rolesCSV := event.ChatMessage.Metadata["roles"]
	var userRoles []string
	if rolesCSV != "" {
		userRoles = strings.Split(rolesCSV, ",")
	}
	matchAll := getBool(f.FilterConfig, "match_all")
	if matchAll {
		return supersetOf(userRoles, configured), nil
	}
	return intersects(userRoles, configured), nil
}

func filterMessagePattern(_ context.Context, f domain.PipelineFilter, event events.BotEvent) (bool, error) {
	if event.ChatMessage == nil {
		return false, nil
	}
	patterns := getStringSlice(f.FilterConfig, "patterns")
	matchAll := getBool(f.FilterConfig, "match_all")
	if len(patterns) == 0 {
		return false, nil
	}
	matched := 0
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			continue
		}
		if re.MatchString(event.ChatMessage.Text) {
			matched++
			if !matchAll {
				return true, nil
			}
		}
	}
	if matchAll {
		return matched == len(patterns), nil
	}
	return false, nil
}

func filterTimeWindow(_ context.Context, f domain.PipelineFilter, event events.BotEvent) (bool, error) {
	startHour := getInt(f.FilterConfig, "start_hour", 0)
	endHour := getInt(f.FilterConfig, "end_hour", 24)
	tzName := getString(f.FilterConfig, "timezone")

	loc := time.UTC
	if tzName != "" {
		if l, err := time.LoadLocation(tzName); err == nil {
			loc = l
		}
	}

	ts := time.Now()
	if event.ChatMessage != nil && !event.ChatMessage.Timestamp.IsZero() {
		ts = event.ChatMessage.Timestamp
	}
	hour := ts.In(loc).Hour()

	if startHour <= endHour {
		return hour >= startHour && hour < endHour, nil
	}
	// wraps past midnight
	return hour >= startHour || hour < endHour, nil
}

func filterComposite(ctx context.Context, reg *registry.Registry, f domain.PipelineFilter, event events.BotEvent) (bool, error) {
	requireAll := getBool(f.FilterConfig, "require_all")
	nested := getMapSlice(f.FilterConfig, "filters")
	if len(nested) == 0 {
		return true, nil
	}

	matches := 0
	for _, spec := range nested {
		filterType := getString(spec, "filter_type")
		negated := getBool(spec, "is_negated")
		config, _ := spec["filter_config"].(map[string]interface{})

		fn, ok := reg.Filter(filterType)
		if !ok {
			continue
		}
		nestedFilter := domain.PipelineFilter{FilterType: filterType, FilterConfig: config}
		pass, err := fn(ctx, nestedFilter, event)
		if err != nil {
			pass = false
		}
		if negated {
			pass = !pass
		}
		if pass {
			matches++
			if !requireAll {
				return true, nil
			}
		}
	}
	if requireAll {
		return matches == len(nested), nil
	}
	return false, nil
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func intersects(a, b []string) bool {
	set := make(map[string]struct{}, len(b))
	for _, v := range b {
		set[v] = struct{}{}
	}
	for _, v := range a {
		if _, ok := set[v]; ok {
			return true
		}
	}
	return false
}

func supersetOf(a, b []string) bool {
	set := make(map[string]struct{}, len(a))
	for _, v := range a {
		set[v] = struct{}{}
	}
	for _, v := range b {
		if _, ok := set[v]; !ok {
			return false
		}
	}
	return true
}
