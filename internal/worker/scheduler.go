package worker

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// Scheduler defaults.
const (
	DefaultPollInterval = 20 * time.Second
	DefaultConcurrency  = 3
)

// Scheduler periodically fetches eligible jobs for each registered
// processor and runs them through the bounded batch runner. Poll cycles
// never overlap: a tick that fires while the previous cycle is still
// draining is dropped, not queued. The drain state is an instance field,
// so independent schedulers (as in tests) cannot interfere.
type Scheduler struct {
	interval time.Duration
	limit    int
	procs    []*Processor
	draining atomic.Bool
	logger   *slog.Logger
}

// NewScheduler creates a Scheduler polling at the given interval with a
// per-kind concurrency ceiling. Non-positive values fall back to the
// defaults.
func NewScheduler(
	interval time.Duration,
	limit int,
	procs []*Processor,
	logger *slog.Logger,
) *Scheduler {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if limit < 1 {
		limit = DefaultConcurrency
	}
	return &Scheduler{
		interval: interval,
		limit:    limit,
		procs:    procs,
		logger:   logger,
	}
}

// Run polls until ctx is cancelled, then waits for the in-flight cycle
// to drain before returning. An immediate first cycle runs on start so
// a restarted worker does not sit idle for a full interval.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("poll scheduler started",
		"interval", s.interval,
		"concurrency", s.limit,
		"job_kinds", len(s.procs))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	var wg sync.WaitGroup
	s.startCycle(ctx, &wg)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("poll scheduler stopping, draining in-flight cycle")
			wg.Wait()
			s.logger.Info("poll scheduler stopped")
			return nil
		case <-ticker.C:
			s.startCycle(ctx, &wg)
		}
	}
}

// startCycle launches one poll cycle unless the previous one is still
// draining, in which case the tick is dropped.
func (s *Scheduler) startCycle(ctx context.Context, wg *sync.WaitGroup) {
	if !s.draining.CompareAndSwap(false, true) {
		s.logger.Debug("previous poll cycle still draining, tick dropped")
		return
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		defer s.draining.Store(false)
		s.cycle(ctx)
	}()
}

// cycle fetches and processes one batch per registered kind. Fetching
// twice the concurrency limit keeps the runner saturated while early
// tasks finish.
func (s *Scheduler) cycle(ctx context.Context) {
	// Jobs claimed mid-cycle run to completion even if shutdown arrives:
	// admission is gated on ctx, execution is not.
	jobCtx := context.WithoutCancel(ctx)

	for _, proc := range s.procs {
		if ctx.Err() != nil {
			return
		}

		jobs, err := proc.FetchBatch(ctx, 2*s.limit)
		if err != nil {
			s.logger.Error("failed to fetch pending jobs",
				"job_kind", proc.KindName(),
				"error", err)
			continue
		}
		if len(jobs) == 0 {
			continue
		}

		s.logger.Info("fetched pending jobs",
			"job_kind", proc.KindName(),
			"count", len(jobs))

		tasks := make([]Task, len(jobs))
		for i, job := range jobs {
			job := job
			tasks[i] = func() { proc.Process(jobCtx, job) }
		}

		RunBounded(ctx, s.limit, tasks)
	}
}
