// Package httpclient is a small retrying HTTP client, adapted from the
// teacher's shared/httpclient (client.go/error.go/retry.go) and
// AI/shared/httpclient's Config shape, generalized from a hardcoded
// service-branded User-Agent to a caller-supplied one so internal/ai's
// providers and any future outbound integration can share one
// implementation instead of each hand-rolling retry logic.
package httpclient

import "time"

// Config holds the configuration for a Client.
type Config struct {
	Timeout      time.Duration
	MaxRetries   int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
	Headers      map[string]string
	UserAgent    string
}

// DefaultConfig returns a Config with the teacher's defaults, renamed from
// its service-specific User-Agent to maowbotd's.
func DefaultConfig() *Config {
	return &Config{
		Timeout:      30 * time.Second,
		MaxRetries:   3,
		RetryWaitMin: 1 * time.Second,
		RetryWaitMax: 30 * time.Second,
		Headers:      make(map[string]string),
		UserAgent:    "maowbotd-httpclient/1.0",
	}
}
