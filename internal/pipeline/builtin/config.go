// Package builtin implements the built-in filter and action handlers
// spec.md §4.5 requires every Event Pipeline Engine to ship with, and
// registers them against an internal/registry.Registry. Action handlers
// that reach outward (chat, OSC, AI, plugins) depend on small interfaces
// defined in this package rather than importing internal/platform or
// internal/plugin directly, avoiding an import cycle the way the teacher's
// handler layer depends on usecase interfaces rather than concrete
// infrastructure (services/twitchbot-service/internal/handler/grpc).
package builtin

func getString(cfg map[string]interface{}, key string) string {
	if v, ok := cfg[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func getBool(cfg map[string]interface{}, key string) bool {
	if v, ok := cfg[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return false
}

func getInt(cfg map[string]interface{}, key string, def int) int {
	if v, ok := cfg[key]; ok {
		switch n := v.(type) {
		case int:
			return n
		case int32:
			return int(n)
		case int64:
			return int(n)
		case float64:
			return int(n)
		}
	}
	return def
}

func getFloat32(cfg map[string]interface{}, key string) float32 {
	if v, ok := cfg[key]; ok {
		switch n := v.(type) {
		case float32:
			return n
		case float64:
			return float32(n)
		case int:
			return float32(n)
		}
	}
	return 0
}

func getStringSlice(cfg map[string]interface{}, key string) []string {
	v, ok := cfg[key]
	if !ok {
		return nil
	}
	switch vs := v.(type) {
	case []string:
		return vs
	case []interface{}:
		out := make([]string, 0, len(vs))
		for _, item := range vs {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func getMapSlice(cfg map[string]interface{}, key string) []map[string]interface{} {
	v, ok := cfg[key]
	if !ok {
		return nil
	}
	vs, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]map[string]interface{}, 0, len(vs))
	for _, item := range vs {
		if m, ok := item.(map[string]interface{}); ok {
			out = append(out, m)
		}
	}
	return out
}
