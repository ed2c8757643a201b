package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/specialistvlad/residencygrid/internal/asset"
	"github.com/specialistvlad/residencygrid/internal/ctxlog"
	"github.com/specialistvlad/residencygrid/internal/executor"
	"github.com/specialistvlad/residencygrid/internal/pipeline"
)

// ErrUnknownJob is returned for a job name that is not configured.
var ErrUnknownJob = errors.New("unknown job")

// RunJob runs a configured job.
func (a *App) RunJob(ctx context.Context, name string) (*executor.Report, error) {
	job, ok := a.config.Job(name)
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownJob, name)
	}
	return a.Run(ctx, job.Name, pipeline.Selection(job))
}

// Run materializes a selection. label names the run in logs and the report.
// Runs are serialized.
func (a *App) Run(ctx context.Context, label string, sel asset.Selection) (*executor.Report, error) {
	a.runMu.Lock()
	defer a.runMu.Unlock()

	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Info("Starting run.", "job", label, "workers", a.config.Workers)

	report, err := a.exec.Run(ctx, &asset.RunContext{
		Job:    label,
		Store:  a.store,
		Config: a.config,
	}, sel)
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", label, err)
	}

	s := report.Summary()
	a.logger.Info("Run finished.",
		"job", label,
		"run_id", report.RunID,
		"succeeded", s.Succeeded,
		"failed", s.Failed,
		"skipped", s.Skipped,
		"failed_checks", s.FailedChecks,
		"duration", report.Finished.Sub(report.Started),
	)
	return report, nil
}
