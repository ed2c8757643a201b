package pipeline

import (
	"context"
	"path/filepath"

	"github.com/specialistvlad/residencygrid/internal/asset"
	"github.com/specialistvlad/residencygrid/internal/ctxlog"
	"github.com/specialistvlad/residencygrid/internal/extract"
	"github.com/specialistvlad/residencygrid/internal/normalize"
	"github.com/specialistvlad/residencygrid/internal/quality"
	"github.com/specialistvlad/residencygrid/internal/source"
	"github.com/specialistvlad/residencygrid/internal/staging"
)

func stagingAssets() []*asset.Asset {
	return []*asset.Asset{
		{
			Name:        StagingPrograms,
			Deps:        []string{RawProgramMaster},
			Group:       GroupStaging,
			Description: "Cleaned program rows with validity flags.",
			Checks:      quality.StagingProgramChecks(),
			Materialize: func(ctx context.Context, rc *asset.RunContext, in asset.Inputs) (any, error) {
				rows, err := asset.Input[[]source.ProgramRow](in, RawProgramMaster)
				if err != nil {
					return nil, err
				}
				cfg := settings(rc)
				programs := normalize.Programs(rows, normalize.ProgramOptions{
					CarmsYear:  cfg.Pipeline.CarmsYear,
					SourceFile: filepath.Base(cfg.Sources.ProgramMaster),
				})
				valid := 0
				for _, p := range programs {
					if p.Valid {
						valid++
					}
				}
				ctxlog.FromContext(ctx).Info("Staged programs.", "total", len(programs), "valid", valid)
				return programs, nil
			},
		},
		{
			Name:        StagingUniversities,
			Deps:        []string{StagingPrograms},
			Group:       GroupStaging,
			Description: "Distinct universities with province and code.",
			Materialize: func(ctx context.Context, _ *asset.RunContext, in asset.Inputs) (any, error) {
				programs, err := asset.Input[[]staging.Program](in, StagingPrograms)
				if err != nil {
					return nil, err
				}
				return normalize.Universities(programs), nil
			},
		},
		{
			Name:        StagingSpecialties,
			Deps:        []string{RawDiscipline},
			Group:       GroupStaging,
			Description: "Specialties with code, category and parent.",
			Materialize: func(ctx context.Context, _ *asset.RunContext, in asset.Inputs) (any, error) {
				rows, err := asset.Input[[]source.DisciplineRow](in, RawDiscipline)
				if err != nil {
					return nil, err
				}
				return normalize.Specialties(rows), nil
			},
		},
		{
			Name:        StagingProgramDescriptions,
			Deps:        []string{RawProgramDescriptions, StagingPrograms},
			Group:       GroupStaging,
			Description: "Description documents split into named sections.",
			Materialize: func(ctx context.Context, _ *asset.RunContext, in asset.Inputs) (any, error) {
				docs, err := asset.Input[[]source.Document](in, RawProgramDescriptions)
				if err != nil {
					return nil, err
				}
				out := make([]staging.Description, 0, len(docs))
				total := 0
				for _, d := range docs {
					desc := extract.Describe(d.ID, d.SourceURL(), d.PageContent)
					total += desc.TotalLength
					out = append(out, desc)
				}
				logger := ctxlog.FromContext(ctx)
				if len(out) > 0 {
					logger.Info("Processed program descriptions.", "count", len(out), "avg_length", total/len(out))
				} else {
					logger.Warn("No program descriptions found.")
				}
				return out, nil
			},
		},
		{
			Name:        StagingRequirements,
			Deps:        []string{StagingProgramDescriptions},
			Group:       GroupStaging,
			Description: "Requirement mentions extracted from descriptions.",
			Materialize: fromDescriptions(func(d staging.Description) []staging.Requirement {
				return extract.Requirements(d.CarmsID, d.FullContent)
			}),
		},
		{
			Name:        StagingSelectionCriteria,
			Deps:        []string{StagingProgramDescriptions},
			Group:       GroupStaging,
			Description: "Selection criteria categories found in descriptions.",
			Materialize: fromDescriptions(func(d staging.Description) []staging.Criterion {
				return extract.Criteria(d.CarmsID, d.SelectionCriteria, d.FullContent)
			}),
		},
		{
			Name:        StagingTrainingSites,
			Deps:        []string{StagingProgramDescriptions},
			Group:       GroupStaging,
			Description: "Training locations mentioned in descriptions.",
			Materialize: func(ctx context.Context, rc *asset.RunContext, in asset.Inputs) (any, error) {
				sites, err := fromDescriptions(func(d staging.Description) []staging.TrainingSite {
					return extract.TrainingSites(d.CarmsID, d.FullContent)
				})(ctx, rc, in)
				if err != nil {
					return nil, err
				}
				return extract.DedupeSites(sites.([]staging.TrainingSite)), nil
			},
		},
	}
}

// fromDescriptions fans an extractor out over every staged description.
func fromDescriptions[T any](fn func(staging.Description) []T) asset.MaterializeFunc {
	return func(ctx context.Context, _ *asset.RunContext, in asset.Inputs) (any, error) {
		descs, err := asset.Input[[]staging.Description](in, StagingProgramDescriptions)
		if err != nil {
			return nil, err
		}
		out := []T{}
		for _, d := range descs {
			out = append(out, fn(d)...)
		}
		ctxlog.FromContext(ctx).Info("Extracted records.", "count", len(out))
		return out, nil
	}
}
