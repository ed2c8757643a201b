package pipeline_test

import (
	"context"
	"errors"
	"testing"

	"github.com/specialistvlad/residencygrid/internal/analytics"
	"github.com/specialistvlad/residencygrid/internal/asset"
	"github.com/specialistvlad/residencygrid/internal/config"
	"github.com/specialistvlad/residencygrid/internal/ctxlog"
	"github.com/specialistvlad/residencygrid/internal/executor"
	"github.com/specialistvlad/residencygrid/internal/loader"
	"github.com/specialistvlad/residencygrid/internal/node"
	"github.com/specialistvlad/residencygrid/internal/pipeline"
	"github.com/specialistvlad/residencygrid/internal/source"
	"github.com/specialistvlad/residencygrid/internal/testutil"
	"github.com/specialistvlad/residencygrid/internal/warehouse"
	"github.com/specialistvlad/residencygrid/internal/warehouse/memstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Catalogue(t *testing.T) {
	g, err := pipeline.New(&testutil.Source{})
	require.NoError(t, err)

	assert.Len(t, g.Assets(), 21)
	assert.Equal(t,
		[]string{pipeline.GroupRaw, pipeline.GroupStaging, pipeline.GroupServing, pipeline.GroupAnalytics},
		g.Groups())

	a, ok := g.Get(pipeline.FactPrograms)
	require.True(t, ok)
	assert.ElementsMatch(t,
		[]string{pipeline.StagingPrograms, pipeline.StagingProgramDescriptions, pipeline.DimUniversities, pipeline.DimSpecialties},
		a.Deps)
	assert.Len(t, a.Checks, 2)
}

func TestSelection_DefaultJobs(t *testing.T) {
	g, err := pipeline.New(&testutil.Source{})
	require.NoError(t, err)
	cfg := config.Default()
	job := func(name string) *config.Job {
		j, ok := cfg.Job(name)
		require.True(t, ok, name)
		return j
	}

	t.Run("daily pipeline selects everything", func(t *testing.T) {
		sel, err := g.Select(pipeline.Selection(job("daily_etl_pipeline")))
		require.NoError(t, err)
		assert.Len(t, sel.Order, 21)
	})

	t.Run("staging pulls in raw extracts only", func(t *testing.T) {
		sel, err := g.Select(pipeline.Selection(job("staging_transform")))
		require.NoError(t, err)
		assert.Len(t, sel.Order, 10)
		assert.True(t, sel.Requested[pipeline.StagingPrograms])
		assert.False(t, sel.Requested[pipeline.RawProgramMaster])
		assert.Contains(t, sel.Order, pipeline.RawProgramMaster)
		assert.NotContains(t, sel.Order, pipeline.DimUniversities)
	})

	t.Run("analytics refresh pulls in the loads it reads", func(t *testing.T) {
		sel, err := g.Select(pipeline.Selection(job("analytics_refresh")))
		require.NoError(t, err)
		assert.Len(t, sel.Order, 19)
		assert.NotContains(t, sel.Order, pipeline.DimTrainingSites)
		assert.False(t, sel.Requested[pipeline.FactPrograms])
		assert.True(t, sel.Requested[pipeline.AnalyticsSpecialtyCompetitiveness])
	})
}

func countsOf(t *testing.T, report *executor.Report, name string) loader.Counts {
	t.Helper()
	out, ok := report.Outputs[name]
	require.True(t, ok, "no output for %s", name)
	counts, ok := out.(loader.Counts)
	require.True(t, ok, "output of %s is %T", name, out)
	return counts
}

func TestRun_EndToEnd(t *testing.T) {
	ctx := ctxlog.Discard(context.Background())
	cfg := config.Default()
	cfg.Sources = testutil.WriteFixtures(t, t.TempDir())

	g, err := pipeline.New(&source.Files{
		ProgramMaster: cfg.Sources.ProgramMaster,
		Disciplines:   cfg.Sources.Disciplines,
		Descriptions:  cfg.Sources.Descriptions,
	})
	require.NoError(t, err)
	store := memstore.New()
	exec := executor.New(g, 4)

	run := func() *executor.Report {
		report, err := exec.Run(ctx, &asset.RunContext{Job: "daily_etl_pipeline", Store: store, Config: cfg}, asset.Selection{All: true})
		require.NoError(t, err)
		for _, a := range report.Assets {
			require.Equal(t, node.Succeeded, a.Status, "%s: %s", a.Name, a.Error)
		}
		assert.Zero(t, report.Summary().FailedChecks)
		assert.Equal(t, 0, report.ExitCode())
		return report
	}

	first := run()
	assert.Equal(t, testutil.FixtureUniversities, countsOf(t, first, pipeline.DimUniversities).Inserted)
	assert.Equal(t, testutil.FixtureSpecialties, countsOf(t, first, pipeline.DimSpecialties).Inserted)
	assert.Equal(t, testutil.FixturePrograms, countsOf(t, first, pipeline.FactPrograms).Inserted)
	assert.Equal(t, 2, countsOf(t, first, pipeline.DimRequirements).Inserted)
	assert.Zero(t, countsOf(t, first, pipeline.DimTrainingSites).Unmatched)

	summary, ok := first.Outputs[pipeline.AnalyticsProgramSummary].([]analytics.ProgramSummary)
	require.True(t, ok)
	assert.Len(t, summary, testutil.FixturePrograms)

	second := run()
	programs := countsOf(t, second, pipeline.FactPrograms)
	assert.Zero(t, programs.Inserted)
	assert.Equal(t, testutil.FixturePrograms, programs.Updated)
	assert.Zero(t, countsOf(t, second, pipeline.DimRequirements).Inserted)

	err = store.Tx(ctx, func(ctx context.Context, tx warehouse.Tx) error {
		rows, err := tx.ListPrograms(ctx)
		require.NoError(t, err)
		require.Len(t, rows, testutil.FixturePrograms)
		for _, p := range rows {
			assert.Equal(t, 2025, p.CarmsYear)
			assert.Equal(t, testutil.ProgramMasterFile, p.SourceFile)
		}
		toronto, err := tx.FindProgram(ctx, "27447")
		require.NoError(t, err)
		assert.Contains(t, toronto.ProgramOverview, "Community based family medicine")

		reqs, err := tx.ListRequirements(ctx)
		require.NoError(t, err)
		assert.Len(t, reqs, 2)

		sites, err := tx.ListTrainingSites(ctx)
		require.NoError(t, err)
		assert.NotEmpty(t, sites)
		return nil
	})
	require.NoError(t, err)
}

func TestRun_WithoutStore(t *testing.T) {
	ctx := ctxlog.Discard(context.Background())
	g, err := pipeline.New(&testutil.Source{})
	require.NoError(t, err)

	report, err := executor.New(g, 2).Run(ctx, &asset.RunContext{}, asset.Selection{Names: []string{pipeline.DimUniversities}})
	require.NoError(t, err)

	dim, ok := report.Asset(pipeline.DimUniversities)
	require.True(t, ok)
	assert.Equal(t, node.Failed, dim.Status)
	assert.Contains(t, dim.Error, "no warehouse store")

	staged, ok := report.Asset(pipeline.StagingUniversities)
	require.True(t, ok)
	assert.Equal(t, node.Succeeded, staged.Status)
}

func TestRun_SourceFailure(t *testing.T) {
	ctx := ctxlog.Discard(context.Background())
	g, err := pipeline.New(&testutil.Source{Err: errors.New("extract unavailable")})
	require.NoError(t, err)

	report, err := executor.New(g, 2).Run(ctx,
		&asset.RunContext{Store: memstore.New()},
		asset.Selection{Groups: []string{pipeline.GroupStaging}})
	require.NoError(t, err)

	raw, ok := report.Asset(pipeline.RawProgramMaster)
	require.True(t, ok)
	assert.Equal(t, node.Failed, raw.Status)
	assert.Contains(t, raw.Error, "extract unavailable")

	staged, ok := report.Asset(pipeline.StagingPrograms)
	require.True(t, ok)
	assert.Equal(t, node.Skipped, staged.Status)
	assert.Equal(t, 1, report.ExitCode())
}
