package loader

import (
	"context"
	"errors"

	"github.com/specialistvlad/residencygrid/internal/ctxlog"
	"github.com/specialistvlad/residencygrid/internal/linker"
	"github.com/specialistvlad/residencygrid/internal/staging"
	"github.com/specialistvlad/residencygrid/internal/warehouse"
)

// Programs upserts fact_programs by program code. Only valid rows are
// loaded. A row whose university or specialty is not in the warehouse is
// skipped. Each program is enriched with the text of the description whose
// identifier links to its code.
func (l *Loader) Programs(ctx context.Context, rows []staging.Program, descriptions []staging.Description) (Counts, error) {
	return l.load(ctx, warehouse.TablePrograms, func(ctx context.Context, tx warehouse.Tx) (Counts, error) {
		var c Counts
		logger := ctxlog.FromContext(ctx)

		universities, specialties, err := dimensionIDs(ctx, tx)
		if err != nil {
			return c, err
		}
		describe := describer(rows, descriptions, l.NewLinker)

		for _, row := range rows {
			if !row.Valid {
				continue
			}
			uid, uok := universities[row.UniversityName]
			sid, sok := specialties[row.SpecialtyName]
			if !uok || !sok {
				c.Skipped++
				logger.Warn("Skipping program with unresolved dimension.",
					"program_code", row.Code,
					"university", row.UniversityName,
					"specialty", row.SpecialtyName,
				)
				continue
			}

			p, err := tx.FindProgram(ctx, row.Code)
			inserted := errors.Is(err, warehouse.ErrNotFound)
			if err != nil && !inserted {
				return c, err
			}
			if inserted {
				p = warehouse.Program{ProgramCode: row.Code, IsAcceptingApplications: true, SourceFile: row.SourceFile}
			}
			p.ProgramName = row.Name
			p.Stream = row.Stream
			p.Site = row.Site
			p.UniversityID = uid
			p.SpecialtyID = sid
			p.CarmsYear = row.CarmsYear
			if d, ok := describe(row.Code); ok {
				p.Description = truncate(d.FullContent, MaxDescription)
				p.ProgramOverview = truncate(d.ProgramOverview, MaxProgramOverview)
				p.CurriculumHighlights = truncate(d.Curriculum, MaxCurriculumHighlights)
			}

			if inserted {
				err = tx.InsertProgram(ctx, &p)
			} else {
				err = tx.UpdateProgram(ctx, p)
			}
			if err != nil {
				return c, err
			}
			c.upserted(inserted)
		}
		return c, nil
	})
}

// dimensionIDs builds the name to id lookups once per load.
func dimensionIDs(ctx context.Context, tx warehouse.Tx) (universities, specialties map[string]int64, err error) {
	us, err := tx.ListUniversities(ctx)
	if err != nil {
		return nil, nil, err
	}
	universities = make(map[string]int64, len(us))
	for _, u := range us {
		universities[u.Name] = u.ID
	}

	ss, err := tx.ListSpecialties(ctx)
	if err != nil {
		return nil, nil, err
	}
	specialties = make(map[string]int64, len(ss))
	for _, s := range ss {
		specialties[s.Name] = s.ID
	}
	return universities, specialties, nil
}

// describer links each description to a program code and returns a lookup
// from program code to its description. When several descriptions link to
// the same program the first one wins.
func describer(rows []staging.Program, descriptions []staging.Description, newLinker func([]string) linker.Linker) func(code string) (staging.Description, bool) {
	codes := make([]string, 0, len(rows))
	for _, row := range rows {
		if row.Valid {
			codes = append(codes, row.Code)
		}
	}
	link := newLinker(codes)

	byCode := make(map[string]staging.Description, len(descriptions))
	for _, d := range descriptions {
		m, ok := link.Link(d.CarmsID)
		if !ok {
			continue
		}
		if _, dup := byCode[m.Code]; !dup {
			byCode[m.Code] = d
		}
	}
	return func(code string) (staging.Description, bool) {
		d, ok := byCode[code]
		return d, ok
	}
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
