// Package scheduler runs maowbotd's background maintenance jobs named in
// spec.md §2: startup autostart restoration, a token-refresh loop, and a
// pipeline-execution-log retention sweep ("partition rotation" in the
// original). Grounded on the teacher's per-service scheduler packages
// (services/twitchbot-service/internal/scheduler.StreamSessionCloserScheduler
// in particular): a struct per job holding its own interval and
// stop channel, `Start` runs the job once immediately then on a ticker,
// `Stop` closes the channel. Generalized from one struct-per-concern into
// a `Scheduler` that owns several named jobs so maowbotd's startup has one
// thing to call.
package scheduler

import (
	"context"
	"time"

	"github.com/maowbot/maowbot/internal/logger"
)

// job is one ticking background task.
type job struct {
	name     string
	interval time.Duration
	runNow   bool
	fn       func(ctx context.Context)
	stopCh   chan struct{}
}

func (j *job) start(log *logger.Logger) {
	go func() {
		if j.runNow {
			j.fn(context.Background())
		}
		ticker := time.NewTicker(j.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				j.fn(context.Background())
			case <-j.stopCh:
				log.Info("%s stopped", j.name)
				return
			}
		}
	}()
}

// Scheduler owns maowbotd's maintenance jobs. Each job is independently
// enabled by whether its constructor is called, matching the teacher's
// per-scheduler enabled flag without needing a config struct of its own.
type Scheduler struct {
	log  *logger.Logger
	jobs []*job
}

// New creates an empty Scheduler. Register jobs with the With* methods,
// then call Start.
func New() *Scheduler {
	return &Scheduler{log: logger.New("scheduler")}
}

// WithJob registers a named job to run every interval, optionally running
// once immediately (matching the teacher's "run immediately on start"
// behavior in StreamSessionCloserScheduler).
func (s *Scheduler) WithJob(name string, interval time.Duration, runNow bool, fn func(ctx context.Context)) *Scheduler {
	s.jobs = append(s.jobs, &job{name: name, interval: interval, runNow: runNow, fn: fn, stopCh: make(chan struct{})})
	return s
}

// Start launches every registered job's goroutine.
func (s *Scheduler) Start() {
	for _, j := range s.jobs {
		s.log.Info("%s started (interval %v)", j.name, j.interval)
		j.start(s.log)
	}
}

// Stop signals every job's goroutine to exit. Idempotent per job is not
// guaranteed (closing a closed channel panics), matching the teacher's
// Stop contract of "call once".
func (s *Scheduler) Stop() {
	for _, j := range s.jobs {
		close(j.stopCh)
	}
}
