package cache

import (
	"context"
	"time"
)

// broadcasterIDTTL matches the teacher's expectation that Twitch
// user/broadcaster ID lookups change rarely enough to cache for an hour
// (avoids a Helix GetUser round trip on every pipeline action that
// resolves a channel name to an ID).
const broadcasterIDTTL = time.Hour

// BroadcasterIDKey namespaces the cache for Twitch login->broadcaster-ID
// lookups the Helix client performs.
func BroadcasterIDKey(login string) string { return "twitch:broadcaster_id:" + login }

// GetBroadcasterID returns a cached Twitch broadcaster ID for login, or
// ErrNotFound if absent/expired.
func GetBroadcasterID(ctx context.Context, c Cache, login string) (string, error) {
	v, err := c.Get(ctx, BroadcasterIDKey(login))
	if err != nil {
		return "", err
	}
	return string(v), nil
}

// SetBroadcasterID caches login's resolved broadcaster ID.
func SetBroadcasterID(ctx context.Context, c Cache, login, broadcasterID string) error {
	return c.Set(ctx, BroadcasterIDKey(login), []byte(broadcasterID), broadcasterIDTTL)
}

// presenceTTL bounds how long a plugin is considered online after its
// last heartbeat without an explicit disconnect, so a crashed process
// doesn't show as connected forever in PluginService.GetSystemStatus.
const presenceTTL = 45 * time.Second

// PluginPresenceKey namespaces the cache for plugin online/offline
// tracking, shared across processes the way spec.md §6 describes
// `plugin:<id>:online` surfacing in GetSystemStatus even across restarts
// of the gRPC-facing process.
func PluginPresenceKey(pluginID string) string { return "plugin:" + pluginID + ":online" }

// MarkPluginOnline records a heartbeat for pluginID.
func MarkPluginOnline(ctx context.Context, c Cache, pluginID string) error {
	return c.Set(ctx, PluginPresenceKey(pluginID), []byte("1"), presenceTTL)
}

// MarkPluginOffline removes pluginID's presence entry immediately, used on
// a clean disconnect rather than waiting for presenceTTL to lapse.
func MarkPluginOffline(ctx context.Context, c Cache, pluginID string) error {
	return c.Delete(ctx, PluginPresenceKey(pluginID))
}

// IsPluginOnline reports whether pluginID has a live presence entry.
func IsPluginOnline(ctx context.Context, c Cache, pluginID string) bool {
	ok, err := c.Exists(ctx, PluginPresenceKey(pluginID))
	return err == nil && ok
}
