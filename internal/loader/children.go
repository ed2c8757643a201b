package loader

import (
	"context"
	"errors"

	"github.com/specialistvlad/residencygrid/internal/ctxlog"
	"github.com/specialistvlad/residencygrid/internal/staging"
	"github.com/specialistvlad/residencygrid/internal/warehouse"
)

// resolveFunc maps a child identifier to a program id. ok is false for
// unmatched children.
type resolveFunc func(carmsID string) (programID int64, ok bool)

// resolver builds a resolver over the programs currently in the warehouse
// and keeps the linkage counters in c.
func (l *Loader) resolver(ctx context.Context, tx warehouse.Tx, c *Counts) (resolveFunc, error) {
	link, programs, err := l.programLinker(ctx, tx)
	if err != nil {
		return nil, err
	}
	logger := ctxlog.FromContext(ctx)
	return func(carmsID string) (int64, bool) {
		m, ok := link.Link(carmsID)
		if !ok {
			c.Unmatched++
			logger.Debug("No program for record.", "carms_id", carmsID)
			return 0, false
		}
		if m.Ambiguous() {
			c.Ambiguous++
			logger.Debug("Record matched several programs, using the first.",
				"carms_id", carmsID, "program_code", m.Code, "candidates", m.Candidates)
		}
		return programs[m.Index].ID, true
	}, nil
}

// warnUnmatched logs a summary of the linkage misses of one load.
func warnUnmatched(ctx context.Context, c Counts) {
	if c.Unmatched > 0 {
		ctxlog.FromContext(ctx).Warn("Records dropped without a matching program.", "unmatched", c.Unmatched)
	}
}

// Requirements upserts dim_requirements by (program, type, text).
func (l *Loader) Requirements(ctx context.Context, rows []staging.Requirement) (Counts, error) {
	return l.load(ctx, warehouse.TableRequirements, func(ctx context.Context, tx warehouse.Tx) (Counts, error) {
		var c Counts
		programOf, err := l.resolver(ctx, tx, &c)
		if err != nil {
			return c, err
		}
		for _, row := range rows {
			pid, ok := programOf(row.CarmsID)
			if !ok {
				continue
			}
			r, err := tx.FindRequirement(ctx, pid, row.Type, row.Text)
			inserted := errors.Is(err, warehouse.ErrNotFound)
			if err != nil && !inserted {
				return c, err
			}
			if inserted {
				r = warehouse.Requirement{ProgramID: pid, Type: row.Type, Text: row.Text, IsMandatory: row.IsMandatory}
				err = tx.InsertRequirement(ctx, &r)
			} else {
				r.IsMandatory = row.IsMandatory
				err = tx.UpdateRequirement(ctx, r)
			}
			if err != nil {
				return c, err
			}
			c.upserted(inserted)
		}
		warnUnmatched(ctx, c)
		return c, nil
	})
}

// Criteria upserts dim_selection_criteria by (program, type).
func (l *Loader) Criteria(ctx context.Context, rows []staging.Criterion) (Counts, error) {
	return l.load(ctx, warehouse.TableSelectionCriteria, func(ctx context.Context, tx warehouse.Tx) (Counts, error) {
		var c Counts
		programOf, err := l.resolver(ctx, tx, &c)
		if err != nil {
			return c, err
		}
		for _, row := range rows {
			pid, ok := programOf(row.CarmsID)
			if !ok {
				continue
			}
			sc, err := tx.FindSelectionCriterion(ctx, pid, row.Type)
			inserted := errors.Is(err, warehouse.ErrNotFound)
			if err != nil && !inserted {
				return c, err
			}
			if inserted {
				sc = warehouse.SelectionCriterion{ProgramID: pid, Type: row.Type}
			}
			sc.Mentions = row.Mentions
			sc.Description = row.Description
			if inserted {
				err = tx.InsertSelectionCriterion(ctx, &sc)
			} else {
				err = tx.UpdateSelectionCriterion(ctx, sc)
			}
			if err != nil {
				return c, err
			}
			c.upserted(inserted)
		}
		warnUnmatched(ctx, c)
		return c, nil
	})
}

// Sites upserts dim_training_sites by (program, name).
func (l *Loader) Sites(ctx context.Context, rows []staging.TrainingSite) (Counts, error) {
	return l.load(ctx, warehouse.TableTrainingSites, func(ctx context.Context, tx warehouse.Tx) (Counts, error) {
		var c Counts
		programOf, err := l.resolver(ctx, tx, &c)
		if err != nil {
			return c, err
		}
		for _, row := range rows {
			pid, ok := programOf(row.CarmsID)
			if !ok {
				continue
			}
			s, err := tx.FindTrainingSite(ctx, pid, row.Name)
			inserted := errors.Is(err, warehouse.ErrNotFound)
			if err != nil && !inserted {
				return c, err
			}
			if inserted {
				s = warehouse.TrainingSite{ProgramID: pid, Name: row.Name, Type: row.Type}
				err = tx.InsertTrainingSite(ctx, &s)
			} else {
				s.Type = row.Type
				err = tx.UpdateTrainingSite(ctx, s)
			}
			if err != nil {
				return c, err
			}
			c.upserted(inserted)
		}
		warnUnmatched(ctx, c)
		return c, nil
	})
}
