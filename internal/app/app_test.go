package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/specialistvlad/residencygrid/internal/config"
	"github.com/specialistvlad/residencygrid/internal/hcl_adapter"
	"github.com/specialistvlad/residencygrid/internal/pipeline"
	"github.com/specialistvlad/residencygrid/internal/scheduler"
	"github.com/specialistvlad/residencygrid/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupApp(t *testing.T, appConfig *Config) (*App, *testutil.SafeBuffer) {
	t.Helper()
	logs := &testutil.SafeBuffer{}
	a, err := NewApp(context.Background(), logs, appConfig, hcl_adapter.NewLoader())
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, a.Close())
		if os.Getenv("RESIDENCYGRID_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logs.String())
		}
	})
	return a, logs
}

func TestNewLogger(t *testing.T) {
	t.Run("json at debug", func(t *testing.T) {
		buf := &testutil.SafeBuffer{}
		newLogger("debug", "json", buf).Debug("Hello.", "k", "v")
		assert.Contains(t, buf.String(), `"level":"DEBUG"`)
		assert.Contains(t, buf.String(), `"k":"v"`)
	})
	t.Run("text drops records below level", func(t *testing.T) {
		buf := &testutil.SafeBuffer{}
		logger := newLogger("warn", "text", buf)
		logger.Info("Quiet.")
		logger.Warn("Loud.")
		assert.NotContains(t, buf.String(), "Quiet.")
		assert.Contains(t, buf.String(), "level=WARN")
	})
}

func TestNewApp_Overrides(t *testing.T) {
	a, _ := setupApp(t, &Config{LogLevel: "debug", WorkerCount: 3})
	assert.Equal(t, 3, a.Config().Workers)
	assert.Equal(t, "debug", a.Config().Log.Level)
	assert.Equal(t, config.WarehouseMemory, a.Config().Warehouse.Driver)
	assert.Len(t, a.Assets(), 21)
	assert.Len(t, a.Jobs(), 4)
}

func TestNewApp_InvalidConfig(t *testing.T) {
	t.Run("bad override", func(t *testing.T) {
		_, err := NewApp(context.Background(), &testutil.SafeBuffer{}, &Config{LogLevel: "loud"}, hcl_adapter.NewLoader())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid configuration")
	})
	t.Run("bad file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "broken.hcl")
		require.NoError(t, os.WriteFile(path, []byte("warehouse {"), 0o644))
		_, err := NewApp(context.Background(), &testutil.SafeBuffer{}, &Config{ConfigPaths: []string{path}}, hcl_adapter.NewLoader())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to load configuration")
	})
}

func TestRunJob_SQLite(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "warehouse.db")
	path := testutil.WriteConfig(t, fmt.Sprintf("workers = 2\n\nwarehouse {\n  driver = %q\n  dsn = %q\n}", config.WarehouseSQLite, dsn))
	a, logs := setupApp(t, &Config{ConfigPaths: []string{path}})
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		report, err := a.RunJob(ctx, "daily_etl_pipeline")
		require.NoError(t, err)
		for _, r := range report.Assets {
			require.Empty(t, r.Error, r.Name)
		}
		assert.True(t, report.OK())
		assert.Equal(t, "daily_etl_pipeline", report.Job)
	}
	assert.Contains(t, logs.String(), "Run finished.")

	report, err := a.RunJob(ctx, "staging_transform")
	require.NoError(t, err)
	_, ok := report.Asset(pipeline.FactPrograms)
	assert.False(t, ok)

	_, err = a.RunJob(ctx, "nightly")
	assert.ErrorIs(t, err, ErrUnknownJob)
}

type tickClock struct {
	ticks chan time.Time
}

func (c *tickClock) Now() time.Time                       { return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC) }
func (c *tickClock) After(time.Duration) <-chan time.Time { return c.ticks }

func TestServe_RunsScheduledJob(t *testing.T) {
	path := testutil.WriteConfig(t, fmt.Sprintf("warehouse {\n  driver = %q\n}", config.WarehouseMemory))
	a, logs := setupApp(t, &Config{ConfigPaths: []string{path}})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	clock := &tickClock{ticks: make(chan time.Time)}
	done := make(chan error, 1)
	go func() { done <- a.Serve(ctx, scheduler.WithClock(clock)) }()

	clock.ticks <- time.Time{}
	require.Eventually(t, func() bool {
		out := logs.String()
		return strings.Contains(out, "Scheduled run finished.") || strings.Contains(out, "Scheduled run failed.")
	}, 5*time.Second, 10*time.Millisecond)
	assert.Contains(t, logs.String(), "Scheduled run finished.")

	cancel()
	require.NoError(t, <-done)
	assert.Contains(t, logs.String(), "Scheduler stopped.")
}
