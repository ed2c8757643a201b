package hcl_adapter

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/residencygrid/internal/config"
	"github.com/specialistvlad/residencygrid/internal/ctxlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadWithoutFilesReturnsDefaults(t *testing.T) {
	ctx := ctxlog.Discard(context.Background())
	m, err := NewLoader().Load(ctx, filepath.Join(t.TempDir(), "missing.hcl"))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), m)
}

func TestLoadOverridesDefaults(t *testing.T) {
	ctx := ctxlog.Discard(context.Background())
	t.Setenv("RG_TEST_DSN", "file:test.db")
	dir := t.TempDir()
	writeFile(t, dir, "10-base.hcl", `
workers = 2

log {
  level  = "debug"
  format = "json"
}

warehouse {
  driver = "sqlite"
  dsn    = env("RG_TEST_DSN")
}

sources {
  descriptions = env("RG_TEST_UNSET", "docs.yaml")
}

pipeline {
  carms_year = 2026
}

quality {
  min_completeness = 80
}
`)
	writeFile(t, dir, "20-jobs.hcl", `
job "analytics_refresh" {
  description = "Hourly analytics."
  groups      = ["analytics"]

  schedule {
    cron = "0 * * * *"
  }
}

job "load_programs" {
  assets = ["fact_programs"]
}
`)

	m, err := NewLoader().Load(ctx, dir)
	require.NoError(t, err)

	assert.Equal(t, 2, m.Workers)
	assert.Equal(t, config.Log{Level: "debug", Format: "json"}, m.Log)
	assert.Equal(t, config.Warehouse{Driver: "sqlite", DSN: "file:test.db"}, m.Warehouse)
	assert.Equal(t, "docs.yaml", m.Sources.Descriptions)
	assert.Equal(t, config.Default().Sources.ProgramMaster, m.Sources.ProgramMaster)
	assert.Equal(t, 2026, m.Pipeline.CarmsYear)
	assert.Equal(t, 80.0, m.Quality.MinCompleteness)
	assert.Equal(t, 90.0, m.Quality.MinValidity)

	job, ok := m.Job("analytics_refresh")
	require.True(t, ok)
	assert.Equal(t, "Hourly analytics.", job.Description)
	require.NotNil(t, job.Schedule)
	assert.Equal(t, "0 * * * *", job.Schedule.Cron)

	job, ok = m.Job("load_programs")
	require.True(t, ok)
	assert.Equal(t, []string{"fact_programs"}, job.Assets)
	assert.Nil(t, job.Schedule)
	assert.Len(t, m.Jobs, 5)
}

func TestLoadErrors(t *testing.T) {
	ctx := ctxlog.Discard(context.Background())
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"syntax", `workers = `, "failed to parse"},
		{"unknown block", `nope {}`, "failed to decode"},
		{"duplicate job", "job \"a\" {\n  all = true\n}\njob \"a\" {\n  all = true\n}\n", `job "a" is declared more than once`},
		{"invalid model", "workers = 0\n", "workers must be at least 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "main.hcl", tt.content)
			_, err := NewLoader().Load(ctx, path)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}
