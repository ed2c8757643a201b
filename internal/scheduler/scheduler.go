package scheduler

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/specialistvlad/residencygrid/internal/config"
	"github.com/specialistvlad/residencygrid/internal/ctxlog"
	"golang.org/x/sync/errgroup"
)

// Entry binds a job to its trigger.
type Entry struct {
	Job     string
	Trigger Trigger
}

// Entries returns an entry for every scheduled job of the configuration,
// in configuration order.
func Entries(cfg *config.Model) ([]Entry, error) {
	var out []Entry
	for _, j := range cfg.Jobs {
		if j.Schedule == nil {
			continue
		}
		trig, err := FromConfig(j.Schedule)
		if err != nil {
			return nil, fmt.Errorf("job %q: %w", j.Name, err)
		}
		out = append(out, Entry{Job: j.Name, Trigger: trig})
	}
	return out, nil
}

// Scheduler runs entries until its context ends.
type Scheduler struct {
	entries []Entry
	run     RunFunc
	clock   Clock

	// running is shared by all entries: one run at a time.
	running atomic.Bool
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithClock replaces the system clock.
func WithClock(c Clock) Option {
	return func(s *Scheduler) { s.clock = c }
}

// New creates a scheduler that calls run for each fire of each entry.
func New(entries []Entry, run RunFunc, opts ...Option) *Scheduler {
	s := &Scheduler{entries: entries, run: run, clock: systemClock{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run blocks until ctx is cancelled, then waits for in-flight runs to
// return. Job failures are logged and do not stop the scheduler.
func (s *Scheduler) Run(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	if len(s.entries) == 0 {
		logger.Warn("No scheduled jobs configured.")
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, e := range s.entries {
		e := e
		g.Go(func() error {
			s.loop(ctx, g, e)
			return nil
		})
	}
	err := g.Wait()
	logger.Info("Scheduler stopped.")
	return err
}

func (s *Scheduler) loop(ctx context.Context, g *errgroup.Group, e Entry) {
	ctx, logger := ctxlog.With(ctx, "job", e.Job)
	for {
		now := s.clock.Now()
		next := e.Trigger.Next(now)
		logger.Debug("Next run scheduled.", "at", next)

		select {
		case <-ctx.Done():
			return
		case <-s.clock.After(next.Sub(now)):
		}

		if !s.running.CompareAndSwap(false, true) {
			logger.Warn("Skipping scheduled run, previous run still in progress.")
			continue
		}
		g.Go(func() error {
			defer s.running.Store(false)
			logger.Info("Scheduled run started.")
			if err := s.run(ctx, e.Job); err != nil {
				logger.Error("Scheduled run failed.", "error", err)
				return nil
			}
			logger.Info("Scheduled run finished.")
			return nil
		})
	}
}
