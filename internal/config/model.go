package config

import (
	"errors"
	"fmt"
	"slices"

	"github.com/robfig/cron/v3"
)

// Warehouse backends.
const (
	WarehouseMemory   = "memory"
	WarehouseSQLite   = "sqlite"
	WarehousePostgres = "postgres"
)

// Log formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// LogLevels lists the accepted log levels.
var LogLevels = []string{"debug", "info", "warn", "error"}

// Model is the unified, format-agnostic representation of the entire
// application configuration.
type Model struct {
	Log       Log
	Workers   int
	Warehouse Warehouse
	Sources   Sources
	Pipeline  Pipeline
	Quality   Quality
	// Jobs in declaration order.
	Jobs []*Job
}

// Log configures the process logger.
type Log struct {
	Level  string
	Format string
}

// Warehouse selects the storage backend.
type Warehouse struct {
	Driver string
	DSN    string
}

// Sources points at the raw extracts.
type Sources struct {
	ProgramMaster string
	Disciplines   string
	Descriptions  string
}

// Pipeline holds values stamped onto staged records.
type Pipeline struct {
	CarmsYear int
}

// Quality holds check thresholds.
type Quality struct {
	MinCompleteness float64 // percent
	MinValidity     float64 // percent
	MinCarmsYear    int
	MaxCarmsYear    int
}

// Job is a named selection of assets, optionally run on a schedule.
type Job struct {
	Name        string
	Description string
	All         bool
	Groups      []string
	Assets      []string
	Schedule    *Schedule
}

// Schedule describes when a job fires.
type Schedule struct {
	// Cron is a standard five-field cron expression, evaluated in local time
	// unless it starts with CRON_TZ=.
	Cron string
}

// Parse compiles the cron expression.
func (s *Schedule) Parse() (cron.Schedule, error) {
	if s.Cron == "" {
		return nil, errors.New("schedule has no cron expression")
	}
	sched, err := cron.ParseStandard(s.Cron)
	if err != nil {
		return nil, fmt.Errorf("invalid cron expression %q: %w", s.Cron, err)
	}
	return sched, nil
}

// Default returns the built-in configuration.
func Default() *Model {
	return &Model{
		Log:       Log{Level: "info", Format: FormatText},
		Workers:   4,
		Warehouse: Warehouse{Driver: WarehouseMemory},
		Sources: Sources{
			ProgramMaster: "data/1503_program_master.csv",
			Disciplines:   "data/1503_discipline.csv",
			Descriptions:  "data/1503_markdown_program_descriptions_v2.json",
		},
		Pipeline: Pipeline{CarmsYear: 2025},
		Quality: Quality{
			MinCompleteness: 95,
			MinValidity:     90,
			MinCarmsYear:    2020,
			MaxCarmsYear:    2030,
		},
		Jobs: []*Job{
			{
				Name:        "daily_etl_pipeline",
				Description: "Full ETL pipeline: raw data through analytics.",
				All:         true,
				Schedule:    &Schedule{Cron: "0 2 * * *"},
			},
			{
				Name:        "staging_transform",
				Description: "Transform raw data into the staging layer.",
				Groups:      []string{"staging"},
			},
			{
				Name:        "warehouse_load",
				Description: "Load staged data into the warehouse tables.",
				Groups:      []string{"serving"},
			},
			{
				Name:        "analytics_refresh",
				Description: "Recompute the analytics aggregates.",
				Groups:      []string{"analytics"},
				Schedule:    &Schedule{Cron: "0 */6 * * *"},
			},
		},
	}
}

// Job returns the job with the given name.
func (m *Model) Job(name string) (*Job, bool) {
	i := slices.IndexFunc(m.Jobs, func(j *Job) bool { return j.Name == name })
	if i < 0 {
		return nil, false
	}
	return m.Jobs[i], true
}

// SetJob replaces the job with the same name or appends it.
func (m *Model) SetJob(job *Job) {
	i := slices.IndexFunc(m.Jobs, func(j *Job) bool { return j.Name == job.Name })
	if i < 0 {
		m.Jobs = append(m.Jobs, job)
		return
	}
	m.Jobs[i] = job
}

// Validate reports every problem with the model at once.
func (m *Model) Validate() error {
	var errs []error
	if !slices.Contains(LogLevels, m.Log.Level) {
		errs = append(errs, fmt.Errorf("log: unknown level %q", m.Log.Level))
	}
	switch m.Log.Format {
	case FormatText, FormatJSON:
	default:
		errs = append(errs, fmt.Errorf("log: unknown format %q", m.Log.Format))
	}
	if m.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers must be at least 1, got %d", m.Workers))
	}
	switch m.Warehouse.Driver {
	case WarehouseMemory:
	case WarehouseSQLite, WarehousePostgres:
		if m.Warehouse.DSN == "" {
			errs = append(errs, fmt.Errorf("warehouse: driver %q needs a dsn", m.Warehouse.Driver))
		}
	default:
		errs = append(errs, fmt.Errorf("warehouse: unknown driver %q", m.Warehouse.Driver))
	}
	if m.Quality.MinCarmsYear > m.Quality.MaxCarmsYear {
		errs = append(errs, fmt.Errorf("quality: min_carms_year %d is after max_carms_year %d", m.Quality.MinCarmsYear, m.Quality.MaxCarmsYear))
	}
	for _, j := range m.Jobs {
		if !j.All && len(j.Groups) == 0 && len(j.Assets) == 0 {
			errs = append(errs, fmt.Errorf("job %q selects nothing", j.Name))
		}
		if s := j.Schedule; s != nil {
			if _, err := s.Parse(); err != nil {
				errs = append(errs, fmt.Errorf("job %q: %w", j.Name, err))
			}
		}
	}
	return errors.Join(errs...)
}
