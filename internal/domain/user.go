// Package domain holds maowbotd's core data-model types, independent of
// how they are persisted (see internal/repository) or transported
// (see internal/rpc). Mirrors the teacher's internal/domain convention
// of one plain struct per aggregate (see
// services/twitchbot-service/internal/domain/stream.go).
package domain

import "time"

// User is a person identified across one or more platforms. Created
// lazily the first time a platform identity is seen (spec.md §3).
type User struct {
	UserID         string
	GlobalUsername *string
	CreatedAt      time.Time
	LastSeen       time.Time
	IsActive       bool
}

// PlatformIdentity binds a platform-native account to a User.
// Unique on (Platform, PlatformUserID).
type PlatformIdentity struct {
	PlatformIdentityID string
	UserID             string
	Platform           string
	PlatformUserID     string
	PlatformUsername   string
	PlatformDisplay    *string
	PlatformRoles      []string
	PlatformData       map[string]interface{}
	CreatedAt          time.Time
	LastUpdated        time.Time
}
