package executor

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/specialistvlad/residencygrid/internal/asset"
	"github.com/specialistvlad/residencygrid/internal/ctxlog"
	"github.com/specialistvlad/residencygrid/internal/inmemorystore"
	"github.com/specialistvlad/residencygrid/internal/node"
	"github.com/specialistvlad/residencygrid/internal/nodestore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// recorder captures the order in which assets start.
type recorder struct {
	mu    sync.Mutex
	order []string
}

func (r *recorder) add(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.order = append(r.order, name)
}

func (r *recorder) index(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, n := range r.order {
		if n == name {
			return i
		}
	}
	return -1
}

// sum materializes to 1 plus the sum of its integer inputs.
func sum(rec *recorder, name, group string, deps ...string) *asset.Asset {
	return &asset.Asset{
		Name:  name,
		Group: group,
		Deps:  deps,
		Materialize: func(ctx context.Context, rc *asset.RunContext, in asset.Inputs) (any, error) {
			rec.add(name)
			total := 1
			for _, d := range deps {
				v, err := asset.Input[int](in, d)
				if err != nil {
					return nil, err
				}
				total += v
			}
			return total, nil
		},
	}
}

func failing(name string, deps ...string) *asset.Asset {
	return &asset.Asset{
		Name: name,
		Deps: deps,
		Materialize: func(context.Context, *asset.RunContext, asset.Inputs) (any, error) {
			return nil, errors.New("boom")
		},
	}
}

func TestRunOrderAndOutputs(t *testing.T) {
	for _, workers := range []int{1, 4} {
		rec := &recorder{}
		g := asset.NewGraph()
		g.MustRegister(
			sum(rec, "d", "serving", "b", "c"),
			sum(rec, "b", "staging", "a"),
			sum(rec, "c", "staging", "a"),
			sum(rec, "a", "raw"),
		)

		report, err := New(g, workers).Run(ctxlog.Discard(context.Background()), nil, asset.Selection{All: true})
		require.NoError(t, err)
		assert.NotEmpty(t, report.RunID)
		assert.Equal(t, 0, report.ExitCode())
		assert.Equal(t, 4, report.Summary().Succeeded)

		// a=1, b=c=2, d=1+2+2
		assert.Equal(t, 5, report.Outputs["d"])

		for _, a := range g.Assets() {
			for _, dep := range a.Deps {
				assert.Less(t, rec.index(dep), rec.index(a.Name))
			}
		}
		if workers == 1 {
			assert.Equal(t, []string{"a", "b", "c", "d"}, rec.order)
		}
	}
}

func TestMaterializesOncePerRun(t *testing.T) {
	var calls atomic.Int32
	g := asset.NewGraph()
	g.MustRegister(
		&asset.Asset{Name: "root", Materialize: func(context.Context, *asset.RunContext, asset.Inputs) (any, error) {
			calls.Add(1)
			return "v", nil
		}},
	)
	rec := &recorder{}
	for _, n := range []string{"x", "y", "z"} {
		n := n
		g.MustRegister(&asset.Asset{Name: n, Deps: []string{"root"}, Materialize: func(_ context.Context, _ *asset.RunContext, in asset.Inputs) (any, error) {
			rec.add(n)
			return in["root"], nil
		}})
	}

	report, err := New(g, 3).Run(ctxlog.Discard(context.Background()), nil, asset.Selection{})
	require.NoError(t, err)
	assert.True(t, report.OK())
	assert.Equal(t, int32(1), calls.Load())
	assert.Len(t, rec.order, 3)
}

func TestFailureSkipsOnlyDependents(t *testing.T) {
	rec := &recorder{}
	g := asset.NewGraph()
	g.MustRegister(
		sum(rec, "root", ""),
		failing("bad", "root"),
		sum(rec, "child", "", "bad"),
		sum(rec, "grandchild", "", "child"),
		sum(rec, "sibling", "", "root"),
		sum(rec, "join", "", "sibling", "grandchild"),
	)

	report, err := New(g, 2).Run(ctxlog.Discard(context.Background()), nil, asset.Selection{})
	require.NoError(t, err)
	assert.Equal(t, 1, report.ExitCode())

	status := func(name string) node.State {
		a, ok := report.Asset(name)
		require.True(t, ok)
		return a.Status
	}
	assert.Equal(t, node.Succeeded, status("root"))
	assert.Equal(t, node.Failed, status("bad"))
	assert.Equal(t, node.Skipped, status("child"))
	assert.Equal(t, node.Skipped, status("grandchild"))
	assert.Equal(t, node.Skipped, status("join"))
	assert.Equal(t, node.Succeeded, status("sibling"))

	bad, _ := report.Asset("bad")
	assert.Equal(t, "boom", bad.Error)
	child, _ := report.Asset("child")
	assert.Contains(t, child.Error, "upstream failure of 'bad'")

	assert.Equal(t, Summary{Succeeded: 2, Failed: 1, Skipped: 3}, report.Summary())
}

func TestPanicIsReportedAsFailure(t *testing.T) {
	g := asset.NewGraph()
	g.MustRegister(&asset.Asset{Name: "p", Materialize: func(context.Context, *asset.RunContext, asset.Inputs) (any, error) {
		panic("kaboom")
	}})

	report, err := New(g, 1).Run(ctxlog.Discard(context.Background()), nil, asset.Selection{})
	require.NoError(t, err)
	a, _ := report.Asset("p")
	assert.Equal(t, node.Failed, a.Status)
	assert.Contains(t, a.Error, "kaboom")
}

func TestChecks(t *testing.T) {
	passing := asset.Check{Name: "positive", Evaluate: func(_ context.Context, _ *asset.RunContext, out any) (asset.CheckResult, error) {
		return asset.CheckResult{Passed: out.(int) > 0, Metric: float64(out.(int)), Unit: asset.UnitCount}, nil
	}}
	failingCheck := func(blocking bool) asset.Check {
		return asset.Check{Name: "never", Blocking: blocking, Evaluate: func(context.Context, *asset.RunContext, any) (asset.CheckResult, error) {
			return asset.CheckResult{Passed: false, Description: "nope"}, nil
		}}
	}

	t.Run("non-blocking failure is recorded only", func(t *testing.T) {
		rec := &recorder{}
		g := asset.NewGraph()
		src := sum(rec, "src", "")
		src.Checks = []asset.Check{passing, failingCheck(false)}
		g.MustRegister(src, sum(rec, "down", "", "src"))

		report, err := New(g, 2).Run(ctxlog.Discard(context.Background()), nil, asset.Selection{})
		require.NoError(t, err)
		assert.Equal(t, 0, report.ExitCode())
		assert.Equal(t, 1, report.Summary().FailedChecks)

		a, _ := report.Asset("src")
		require.Len(t, a.Checks, 2)
		assert.True(t, a.Checks[0].Passed)
		assert.Equal(t, "src", a.Checks[0].Asset)
		assert.Equal(t, "positive", a.Checks[0].Check)
		assert.False(t, a.Checks[1].Passed)

		down, _ := report.Asset("down")
		assert.Equal(t, node.Succeeded, down.Status)
	})

	t.Run("blocking failure skips dependents", func(t *testing.T) {
		rec := &recorder{}
		g := asset.NewGraph()
		src := sum(rec, "src", "")
		src.Checks = []asset.Check{failingCheck(true)}
		g.MustRegister(src, sum(rec, "down", "", "src"))

		report, err := New(g, 2).Run(ctxlog.Discard(context.Background()), nil, asset.Selection{})
		require.NoError(t, err)

		a, _ := report.Asset("src")
		assert.Equal(t, node.Succeeded, a.Status)
		down, _ := report.Asset("down")
		assert.Equal(t, node.Skipped, down.Status)
		assert.Contains(t, down.Error, "blocking check")
	})

	t.Run("erroring check fails without failing the asset", func(t *testing.T) {
		rec := &recorder{}
		g := asset.NewGraph()
		src := sum(rec, "src", "")
		src.Checks = []asset.Check{{Name: "broken", Evaluate: func(context.Context, *asset.RunContext, any) (asset.CheckResult, error) {
			return asset.CheckResult{}, errors.New("db down")
		}}}
		g.MustRegister(src)

		report, err := New(g, 1).Run(ctxlog.Discard(context.Background()), nil, asset.Selection{})
		require.NoError(t, err)
		a, _ := report.Asset("src")
		assert.Equal(t, node.Succeeded, a.Status)
		require.Len(t, a.Checks, 1)
		assert.False(t, a.Checks[0].Passed)
		assert.Contains(t, a.Checks[0].Description, "db down")
	})
}

func TestGroupSelection(t *testing.T) {
	rec := &recorder{}
	g := asset.NewGraph()
	g.MustRegister(
		sum(rec, "raw", "raw"),
		sum(rec, "stage", "staging", "raw"),
		sum(rec, "report", "analytics", "stage"),
		sum(rec, "unrelated", "raw"),
	)

	report, err := New(g, 2).Run(ctxlog.Discard(context.Background()), nil, asset.Selection{Groups: []string{"staging"}})
	require.NoError(t, err)
	assert.Len(t, report.Assets, 2)
	assert.ElementsMatch(t, []string{"raw", "stage"}, rec.order)

	stage, _ := report.Asset("stage")
	assert.True(t, stage.Requested)
	raw, _ := report.Asset("raw")
	assert.False(t, raw.Requested)
}

func TestCancellationSkipsUnstarted(t *testing.T) {
	ctx, cancel := context.WithCancel(ctxlog.Discard(context.Background()))
	defer cancel()

	rec := &recorder{}
	g := asset.NewGraph()
	g.MustRegister(
		&asset.Asset{Name: "first", Materialize: func(context.Context, *asset.RunContext, asset.Inputs) (any, error) {
			cancel()
			return 1, nil
		}},
		sum(rec, "second", "", "first"),
		sum(rec, "third", "", "second"),
	)

	report, err := New(g, 1).Run(ctx, nil, asset.Selection{})
	require.NoError(t, err)

	first, _ := report.Asset("first")
	assert.Equal(t, node.Succeeded, first.Status)
	second, _ := report.Asset("second")
	assert.Equal(t, node.Skipped, second.Status)
	assert.Contains(t, second.Error, context.Canceled.Error())
	third, _ := report.Asset("third")
	assert.Equal(t, node.Skipped, third.Status)
	assert.Empty(t, rec.order)
}

func TestConcurrentIndependentAssets(t *testing.T) {
	// Both assets must be in flight at once to release each other.
	var started sync.WaitGroup
	started.Add(2)
	wait := func(context.Context, *asset.RunContext, asset.Inputs) (any, error) {
		started.Done()
		done := make(chan struct{})
		go func() { started.Wait(); close(done) }()
		select {
		case <-done:
			return nil, nil
		case <-time.After(5 * time.Second):
			return nil, errors.New("peer never started")
		}
	}
	g := asset.NewGraph()
	g.MustRegister(
		&asset.Asset{Name: "left", Materialize: wait},
		&asset.Asset{Name: "right", Materialize: wait},
	)

	report, err := New(g, 2).Run(ctxlog.Discard(context.Background()), nil, asset.Selection{})
	require.NoError(t, err)
	assert.True(t, report.OK())
}

func TestSelectionErrorsBeforeRunning(t *testing.T) {
	g := asset.NewGraph()
	g.MustRegister(&asset.Asset{Name: "a", Deps: []string{"b"}, Materialize: func(context.Context, *asset.RunContext, asset.Inputs) (any, error) {
		t.Fatal("must not run")
		return nil, nil
	}}, &asset.Asset{Name: "b", Deps: []string{"a"}, Materialize: func(context.Context, *asset.RunContext, asset.Inputs) (any, error) {
		return nil, nil
	}})

	report, err := New(g, 1).Run(context.Background(), nil, asset.Selection{})
	assert.Nil(t, report)
	assert.ErrorContains(t, err, "cycle")
}

func TestRepeatedDependencyCompletes(t *testing.T) {
	rec := &recorder{}
	g := asset.NewGraph()
	g.MustRegister(
		sum(rec, "a", ""),
		&asset.Asset{Name: "b", Deps: []string{"a", "a"}, Materialize: func(_ context.Context, _ *asset.RunContext, in asset.Inputs) (any, error) {
			rec.add("b")
			return in["a"], nil
		}},
	)

	type result struct {
		report *Report
		err    error
	}
	done := make(chan result, 1)
	go func() {
		report, err := New(g, 2).Run(ctxlog.Discard(context.Background()), nil, asset.Selection{})
		done <- result{report, err}
	}()

	select {
	case res := <-done:
		require.NoError(t, res.err)
		b, ok := res.report.Asset("b")
		require.True(t, ok)
		assert.Equal(t, node.Succeeded, b.Status)
		assert.Equal(t, 1, res.report.Outputs["b"])
	case <-time.After(3 * time.Second):
		t.Fatal("run did not complete with a repeated dependency")
	}
}

// rejectingStore refuses to store the output of one asset.
type rejectingStore struct {
	nodestore.Store
	reject string
}

func (s *rejectingStore) SetOutput(ctx context.Context, name string, output any) error {
	if name == s.reject {
		return errors.New("disk full")
	}
	return s.Store.SetOutput(ctx, name, output)
}

func TestStoreFailureFailsAsset(t *testing.T) {
	rec := &recorder{}
	g := asset.NewGraph()
	g.MustRegister(
		sum(rec, "src", ""),
		sum(rec, "down", "", "src"),
		sum(rec, "other", ""),
	)

	exec := New(g, 2)
	exec.NewStore = func() nodestore.Store {
		return &rejectingStore{Store: inmemorystore.New(), reject: "src"}
	}
	report, err := exec.Run(ctxlog.Discard(context.Background()), nil, asset.Selection{})
	require.NoError(t, err)
	assert.Equal(t, 1, report.ExitCode())

	src, _ := report.Asset("src")
	assert.Equal(t, node.Failed, src.Status)
	assert.Contains(t, src.Error, "storing output: disk full")

	down, _ := report.Asset("down")
	assert.Equal(t, node.Skipped, down.Status)
	assert.Contains(t, down.Error, "upstream failure of 'src'")

	other, _ := report.Asset("other")
	assert.Equal(t, node.Succeeded, other.Status)
	assert.Equal(t, -1, rec.index("down"))
}
