// This file contains the logic for translating decoded HCL blocks onto the
// format-agnostic configuration model defined in the config package.

package hcl_adapter

import (
	"context"
	"fmt"

	"github.com/specialistvlad/residencygrid/internal/config"
	"github.com/specialistvlad/residencygrid/internal/ctxlog"
)

// set copies *src into *dst when the attribute was present.
func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// apply merges one decoded file into the model.
func (l *Loader) apply(ctx context.Context, m *config.Model, root *fileRoot) error {
	set(&m.Workers, root.Workers)
	if b := root.Log; b != nil {
		set(&m.Log.Level, b.Level)
		set(&m.Log.Format, b.Format)
	}
	if b := root.Warehouse; b != nil {
		set(&m.Warehouse.Driver, b.Driver)
		set(&m.Warehouse.DSN, b.DSN)
	}
	if b := root.Sources; b != nil {
		set(&m.Sources.ProgramMaster, b.ProgramMaster)
		set(&m.Sources.Disciplines, b.Disciplines)
		set(&m.Sources.Descriptions, b.Descriptions)
	}
	if b := root.Pipeline; b != nil {
		set(&m.Pipeline.CarmsYear, b.CarmsYear)
	}
	if b := root.Quality; b != nil {
		set(&m.Quality.MinCompleteness, b.MinCompleteness)
		set(&m.Quality.MinValidity, b.MinValidity)
		set(&m.Quality.MinCarmsYear, b.MinCarmsYear)
		set(&m.Quality.MaxCarmsYear, b.MaxCarmsYear)
	}

	seen := make(map[string]bool, len(root.Jobs))
	for _, j := range root.Jobs {
		if seen[j.Name] {
			return fmt.Errorf("job %q is declared more than once", j.Name)
		}
		seen[j.Name] = true
		m.SetJob(l.translateJob(ctx, j))
	}
	return nil
}

// translateJob converts the HCL-specific job schema into the agnostic model.
// A job block replaces any earlier job with the same name as a whole.
func (l *Loader) translateJob(ctx context.Context, j *jobBlock) *config.Job {
	ctxlog.FromContext(ctx).Debug("Translating HCL job to internal config model.", "job", j.Name)

	job := &config.Job{
		Name:        j.Name,
		Description: j.Description,
		All:         j.All,
		Groups:      j.Groups,
		Assets:      j.Assets,
	}
	if s := j.Schedule; s != nil {
		job.Schedule = &config.Schedule{Cron: s.Cron}
	}
	return job
}
