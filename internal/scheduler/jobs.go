package scheduler

import (
	"context"
	"time"

	"github.com/maowbot/maowbot/internal/credential"
	"github.com/maowbot/maowbot/internal/logger"
	"github.com/maowbot/maowbot/internal/repository/interfaces"
)

// PlatformStarter is the subset of platform.Manager the autostart job
// needs, kept narrow the way internal/pipeline/builtin's dependency
// interfaces are so this package does not import internal/platform.
type PlatformStarter interface {
	Start(ctx context.Context, platformName, account string) error
}

// RestoreAutostart starts every enabled autostart entry once at boot,
// matching spec.md §2's startup-restoration maintenance task. Call this
// directly from cmd/maowbotd/main.go before Scheduler.Start, not as a
// recurring job — autostart only applies once, at process start.
func RestoreAutostart(ctx context.Context, repo interfaces.AutostartRepository, mgr PlatformStarter) {
	log := logger.New("scheduler.autostart")
	entries, err := repo.List(ctx, true)
	if err != nil {
		log.Error("list autostart entries: %v", err)
		return
	}
	for _, e := range entries {
		if err := mgr.Start(ctx, e.Platform, e.AccountName); err != nil {
			log.Error("autostart %s/%s: %v", e.Platform, e.AccountName, err)
			continue
		}
		log.Info("autostart %s/%s started", e.Platform, e.AccountName)
	}
}

// tokenRefreshWindow is the lookahead the sweep passes to
// credential.Store.RefreshAllRefreshable (and on to GetExpiring): a
// credential due to expire within this window is refreshed proactively
// instead of failing the next platform reconnect.
const tokenRefreshWindow = 15 * time.Minute

// WithTokenRefresh registers the recurring credential refresh sweep
// (spec.md §2's token-refresh loop), grounded on credential.Store's
// RefreshAllRefreshable continuing past individual failures.
func (s *Scheduler) WithTokenRefresh(store *credential.Store, interval time.Duration) *Scheduler {
	log := logger.New("scheduler.token_refresh")
	return s.WithJob("token_refresh", interval, true, func(ctx context.Context) {
		results := store.RefreshAllRefreshable(ctx, tokenRefreshWindow)
		for _, r := range results {
			if r.Err != nil {
				log.Error("refresh %s/%s: %v", r.Platform, r.UserName, r.Err)
			}
		}
	})
}

// WithRetentionSweep registers the recurring execution-log retention
// sweep (spec.md §2's "partition rotation"), implemented as a time-window
// delete rather than native Postgres table partitioning: no example repo
// in the corpus performs partition DDL from Go, and a single
// DeleteOlderThan query gives the same bounded-storage effect for this
// table's scale.
func (s *Scheduler) WithRetentionSweep(execLog interfaces.ExecutionLogRepository, retention, interval time.Duration) *Scheduler {
	log := logger.New("scheduler.retention")
	return s.WithJob("retention_sweep", interval, false, func(ctx context.Context) {
		cutoff := time.Now().Add(-retention)
		n, err := execLog.DeleteOlderThan(ctx, cutoff)
		if err != nil {
			log.Error("retention sweep: %v", err)
			return
		}
		if n > 0 {
			log.Info("retention sweep removed %d execution logs older than %v", n, retention)
		}
	})
}
