// Package executor materializes a selection of an asset graph with a pool of
// concurrent workers.
//
// An asset is dispatched once all of its selected dependencies have
// succeeded. A failure never cancels unrelated branches: it marks the
// failed asset's transitive dependents as skipped and the rest of the run
// carries on. Cancelling the context stops dispatch; assets that have not
// started are reported as skipped.
package executor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/specialistvlad/residencygrid/internal/asset"
	"github.com/specialistvlad/residencygrid/internal/ctxlog"
	"github.com/specialistvlad/residencygrid/internal/dag"
	"github.com/specialistvlad/residencygrid/internal/inmemorystore"
	"github.com/specialistvlad/residencygrid/internal/node"
	"github.com/specialistvlad/residencygrid/internal/nodestore"
)

// DefaultWorkers is used when a non-positive worker count is given.
const DefaultWorkers = 4

// Executor runs asset graphs. It holds no per-run state and may be reused.
type Executor struct {
	graph      *asset.Graph
	numWorkers int
	// NewStore creates the output cache for one run.
	NewStore func() nodestore.Store
}

// New creates an executor for the given graph.
func New(graph *asset.Graph, numWorkers int) *Executor {
	if numWorkers <= 0 {
		numWorkers = DefaultWorkers
	}
	return &Executor{
		graph:      graph,
		numWorkers: numWorkers,
		NewStore:   inmemorystore.New,
	}
}

// run is the state of a single execution.
type run struct {
	rc        *asset.RunContext
	structure *dag.Graph
	nodes     map[string]*node.Node
	assets    map[string]*asset.Asset
	store     nodestore.Store
	wg        sync.WaitGroup

	mu     sync.Mutex
	checks map[string][]asset.CheckResult
}

// Run materializes the selected assets and their upstream closure.
//
// The returned error covers graph construction and selection problems only,
// in which case nothing ran. Asset failures are reported in the Report.
func (e *Executor) Run(ctx context.Context, rc *asset.RunContext, sel asset.Selection) (*Report, error) {
	selected, err := e.graph.Select(sel)
	if err != nil {
		return nil, err
	}

	if rc == nil {
		rc = &asset.RunContext{}
	}
	if rc.RunID == "" {
		rc.RunID = uuid.NewString()
	}

	ctx, logger := ctxlog.With(ctx, "run_id", rc.RunID, "job", rc.Job)

	r := &run{
		rc:        rc,
		structure: selected.Structure,
		nodes:     make(map[string]*node.Node, len(selected.Order)),
		assets:    make(map[string]*asset.Asset, len(selected.Order)),
		store:     e.NewStore(),
		checks:    make(map[string][]asset.CheckResult),
	}
	for _, name := range selected.Order {
		a, _ := e.graph.Get(name)
		deps, err := selected.Structure.Dependencies(name)
		if err != nil {
			return nil, err
		}
		r.assets[name] = a
		r.nodes[name] = node.New(name, len(deps))
	}

	report := &Report{
		RunID:   rc.RunID,
		Job:     rc.Job,
		Started: time.Now(),
	}

	readyChan := make(chan *node.Node, len(r.nodes))
	r.wg.Add(len(r.nodes))

	logger.Debug("Initializing executor, finding root assets...")
	for _, name := range selected.Order {
		if n := r.nodes[name]; n.DepCount() == 0 {
			logger.Debug("Found root asset.", "asset", name)
			readyChan <- n
		}
	}

	workers := e.numWorkers
	if workers > len(r.nodes) {
		workers = len(r.nodes)
	}
	logger.Info("Starting run.", "assets", len(r.nodes), "workers", workers)
	var pool sync.WaitGroup
	pool.Add(workers)
	for i := 0; i < workers; i++ {
		go func(id int) {
			defer pool.Done()
			r.worker(ctx, readyChan, id)
		}(i)
	}

	r.wg.Wait()
	close(readyChan)
	pool.Wait()
	report.Finished = time.Now()

	report.Outputs = make(map[string]any)
	for _, name := range selected.Order {
		n := r.nodes[name]
		ar := AssetReport{
			Name:      name,
			Group:     r.assets[name].Group,
			Status:    n.GetState(),
			Requested: selected.Requested[name],
			Checks:    r.checks[name],
		}
		if n.Error != nil {
			ar.Error = n.Error.Error()
		}
		if !n.Started.IsZero() && !n.Finished.IsZero() {
			ar.Duration = n.Finished.Sub(n.Started)
		}
		if out, ok, _ := r.store.GetOutput(ctx, name); ok {
			report.Outputs[name] = out
		}
		report.Assets = append(report.Assets, ar)
	}

	s := report.Summary()
	logger.Info("Run finished.",
		"succeeded", s.Succeeded, "failed", s.Failed, "skipped", s.Skipped,
		"failed_checks", s.FailedChecks, "duration", report.Finished.Sub(report.Started))
	return report, nil
}

// dependents lists the dependents of name that take part in this run.
func (r *run) dependents(name string) []*node.Node {
	names, err := r.structure.Dependents(name)
	if err != nil {
		return nil
	}
	out := make([]*node.Node, 0, len(names))
	for _, d := range names {
		if n, ok := r.nodes[d]; ok {
			out = append(out, n)
		}
	}
	return out
}

// skipDependents recursively marks all downstream assets as skipped.
// Each node's wait slot is released by whoever wins its Skip transition.
func (r *run) skipDependents(ctx context.Context, name string, cause error) {
	logger := ctxlog.FromContext(ctx)
	for _, dependent := range r.dependents(name) {
		err := fmt.Errorf("skipped due to upstream failure of '%s': %w", name, cause)
		if dependent.Skip(err) {
			logger.Warn("Skipping dependent asset due to upstream failure.", "asset", dependent.Name, "dependency", name)
			r.wg.Done()
			r.skipDependents(ctx, dependent.Name, cause)
		}
	}
}
