package app

import (
	"context"
	"fmt"
	"time"

	"github.com/specialistvlad/residencygrid/internal/ctxlog"
	"github.com/specialistvlad/residencygrid/internal/scheduler"
)

// Serve runs scheduled jobs until ctx is cancelled. A health check endpoint
// is served alongside when a port is configured.
func (a *App) Serve(ctx context.Context, opts ...scheduler.Option) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	entries, err := scheduler.Entries(a.config)
	if err != nil {
		return err
	}
	for _, e := range entries {
		a.logger.Info("Job scheduled.", "job", e.Job, "next", e.Trigger.Next(time.Now()))
	}

	if a.healthcheckPort > 0 {
		stop := a.startHealthcheckServer(ctx, a.healthcheckPort)
		defer stop()
	}

	s := scheduler.New(entries, a.runScheduled, opts...)
	return s.Run(ctx)
}

// runScheduled runs a job and turns asset failures into an error so the
// scheduler logs them.
func (a *App) runScheduled(ctx context.Context, job string) error {
	report, err := a.RunJob(ctx, job)
	if err != nil {
		return err
	}
	if !report.OK() {
		s := report.Summary()
		return fmt.Errorf("%d assets failed, %d skipped", s.Failed, s.Skipped)
	}
	return nil
}
