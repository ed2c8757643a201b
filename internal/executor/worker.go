package executor

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/specialistvlad/residencygrid/internal/asset"
	"github.com/specialistvlad/residencygrid/internal/ctxlog"
	"github.com/specialistvlad/residencygrid/internal/node"
)

// worker is the core processing loop for a single concurrent worker.
func (r *run) worker(ctx context.Context, readyChan chan *node.Node, workerID int) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Worker started.", "worker", workerID)

	for n := range readyChan {
		workerCtx, workerLogger := ctxlog.With(ctx, "worker", workerID, "asset", n.Name)

		if err := ctx.Err(); err != nil {
			if n.Skip(fmt.Errorf("skipped: %w", err)) {
				workerLogger.Warn("Context canceled, skipping asset.")
				r.wg.Done()
				r.skipDependents(ctx, n.Name, err)
			}
			continue
		}

		if !n.Start() {
			continue
		}
		workerLogger.Debug("Worker picked up asset for execution.")

		a := r.assets[n.Name]
		output, err := r.materialize(workerCtx, a)
		if err == nil {
			if serr := r.store.SetOutput(ctx, n.Name, output); serr != nil {
				err = fmt.Errorf("storing output: %w", serr)
			}
		}
		if err != nil {
			workerLogger.Error("Asset materialization failed.", "error", err)
			n.Fail(err)
			r.wg.Done()
			r.skipDependents(ctx, n.Name, err)
			continue
		}

		n.Succeed()
		workerLogger.Info("Asset materialized.", "duration", n.Finished.Sub(n.Started))

		if blocked := r.runChecks(workerCtx, a, output); blocked != nil {
			r.wg.Done()
			r.skipDependents(ctx, n.Name, blocked)
			continue
		}

		for _, dependent := range r.dependents(n.Name) {
			if dependent.DecrementDepCount() == 0 {
				workerLogger.Debug("Unlocking dependent asset.", "dependent", dependent.Name)
				readyChan <- dependent
			}
		}
		r.wg.Done()
	}
	logger.Debug("Worker finished.", "worker", workerID)
}

// materialize gathers the asset's inputs and calls its function, turning a
// panic into an error.
func (r *run) materialize(ctx context.Context, a *asset.Asset) (output any, err error) {
	in := make(asset.Inputs, len(a.Deps))
	for _, dep := range a.Deps {
		v, ok, gerr := r.store.GetOutput(ctx, dep)
		if gerr != nil {
			return nil, fmt.Errorf("reading output of %q: %w", dep, gerr)
		}
		if !ok {
			return nil, fmt.Errorf("output of %q is not available", dep)
		}
		in[dep] = v
	}

	defer func() {
		if p := recover(); p != nil {
			ctxlog.FromContext(ctx).Error("Asset panicked.", "panic", p, "stack", string(debug.Stack()))
			err = fmt.Errorf("panic during materialization: %v", p)
		}
	}()
	return a.Materialize(ctx, r.rc, in)
}

// runChecks evaluates every check of the asset against its fresh output.
// It returns a non-nil error if a blocking check failed.
func (r *run) runChecks(ctx context.Context, a *asset.Asset, output any) error {
	logger := ctxlog.FromContext(ctx)
	var blocked error
	for _, c := range a.Checks {
		res := r.evaluate(ctx, a, c, output)
		r.mu.Lock()
		r.checks[a.Name] = append(r.checks[a.Name], res)
		r.mu.Unlock()

		if res.Passed {
			logger.Debug("Check passed.", "check", c.Name, "metric", res.Metric)
			continue
		}
		logger.Warn("Check failed.", "check", c.Name, "metric", res.Metric, "description", res.Description, "blocking", c.Blocking)
		if c.Blocking && blocked == nil {
			blocked = fmt.Errorf("blocking check %q failed", c.Name)
		}
	}
	return blocked
}

func (r *run) evaluate(ctx context.Context, a *asset.Asset, c asset.Check, output any) (res asset.CheckResult) {
	defer func() {
		if p := recover(); p != nil {
			res = asset.CheckResult{Description: fmt.Sprintf("check panicked: %v", p)}
		}
		res.Check = c.Name
		res.Asset = a.Name
	}()
	res, err := c.Evaluate(ctx, r.rc, output)
	if err != nil {
		return asset.CheckResult{Description: fmt.Sprintf("check errored: %v", err)}
	}
	return res
}
