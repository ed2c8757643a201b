package loader

import (
	"context"
	"errors"

	"github.com/specialistvlad/residencygrid/internal/staging"
	"github.com/specialistvlad/residencygrid/internal/warehouse"
)

// Universities upserts dim_universities by name.
func (l *Loader) Universities(ctx context.Context, rows []staging.University) (Counts, error) {
	return l.load(ctx, warehouse.TableUniversities, func(ctx context.Context, tx warehouse.Tx) (Counts, error) {
		var c Counts
		for _, row := range rows {
			u, err := tx.FindUniversity(ctx, row.Name)
			switch {
			case err == nil:
				u.Code, u.Province, u.IsFrancophone = row.Code, row.Province, row.IsFrancophone
				if err := tx.UpdateUniversity(ctx, u); err != nil {
					return c, err
				}
				c.upserted(false)
			case errors.Is(err, warehouse.ErrNotFound):
				u = warehouse.University{Name: row.Name, Code: row.Code, Province: row.Province, IsFrancophone: row.IsFrancophone}
				if err := tx.InsertUniversity(ctx, &u); err != nil {
					return c, err
				}
				c.upserted(true)
			default:
				return c, err
			}
		}
		return c, nil
	})
}

// Specialties upserts dim_specialties by name, then links each
// subspecialty to its parent when the parent was part of the same batch.
func (l *Loader) Specialties(ctx context.Context, rows []staging.Specialty) (Counts, error) {
	return l.load(ctx, warehouse.TableSpecialties, func(ctx context.Context, tx warehouse.Tx) (Counts, error) {
		var c Counts
		ids := make(map[string]int64, len(rows))
		for _, row := range rows {
			s, err := tx.FindSpecialty(ctx, row.Name)
			switch {
			case err == nil:
				s.Code, s.Category, s.IsPrimaryCare = row.Code, row.Category, row.IsPrimaryCare
				if err := tx.UpdateSpecialty(ctx, s); err != nil {
					return c, err
				}
				c.upserted(false)
			case errors.Is(err, warehouse.ErrNotFound):
				s = warehouse.Specialty{Name: row.Name, Code: row.Code, Category: row.Category, IsPrimaryCare: row.IsPrimaryCare}
				if err := tx.InsertSpecialty(ctx, &s); err != nil {
					return c, err
				}
				c.upserted(true)
			default:
				return c, err
			}
			ids[row.Name] = s.ID
		}

		for _, row := range rows {
			if !row.IsSubspecialty || row.ParentName == "" {
				continue
			}
			parent, ok := ids[row.ParentName]
			if !ok {
				continue
			}
			if err := tx.SetSpecialtyParent(ctx, ids[row.Name], &parent); err != nil {
				return c, err
			}
		}
		return c, nil
	})
}
