package pipeline

import (
	"context"

	"github.com/specialistvlad/residencygrid/internal/asset"
	"github.com/specialistvlad/residencygrid/internal/loader"
	"github.com/specialistvlad/residencygrid/internal/quality"
	"github.com/specialistvlad/residencygrid/internal/staging"
)

// load adapts a loader call over one staged input into a materialization.
// The asset's value is the load's Counts.
func load[T any](input string, fn func(*loader.Loader, context.Context, T) (loader.Counts, error)) asset.MaterializeFunc {
	return func(ctx context.Context, rc *asset.RunContext, in asset.Inputs) (any, error) {
		store, err := storeOf(rc)
		if err != nil {
			return nil, err
		}
		rows, err := asset.Input[T](in, input)
		if err != nil {
			return nil, err
		}
		return fn(loader.New(store), ctx, rows)
	}
}

func servingAssets() []*asset.Asset {
	return []*asset.Asset{
		{
			Name:        DimUniversities,
			Deps:        []string{StagingUniversities},
			Group:       GroupServing,
			Description: "Upsert the universities dimension.",
			Checks:      quality.UniversityChecks(),
			Materialize: load(StagingUniversities, (*loader.Loader).Universities),
		},
		{
			Name:        DimSpecialties,
			Deps:        []string{StagingSpecialties},
			Group:       GroupServing,
			Description: "Upsert the specialties dimension and link parents.",
			Checks:      quality.SpecialtyChecks(),
			Materialize: load(StagingSpecialties, (*loader.Loader).Specialties),
		},
		{
			Name:        FactPrograms,
			Deps:        []string{StagingPrograms, StagingProgramDescriptions, DimUniversities, DimSpecialties},
			Group:       GroupServing,
			Description: "Upsert the programs fact table, enriched with description text.",
			Checks:      quality.ProgramChecks(),
			Materialize: func(ctx context.Context, rc *asset.RunContext, in asset.Inputs) (any, error) {
				store, err := storeOf(rc)
				if err != nil {
					return nil, err
				}
				programs, err := asset.Input[[]staging.Program](in, StagingPrograms)
				if err != nil {
					return nil, err
				}
				descs, err := asset.Input[[]staging.Description](in, StagingProgramDescriptions)
				if err != nil {
					return nil, err
				}
				return loader.New(store).Programs(ctx, programs, descs)
			},
		},
		{
			Name:        DimRequirements,
			Deps:        []string{StagingRequirements, FactPrograms},
			Group:       GroupServing,
			Description: "Upsert program requirements.",
			Materialize: load(StagingRequirements, (*loader.Loader).Requirements),
		},
		{
			Name:        DimSelectionCriteria,
			Deps:        []string{StagingSelectionCriteria, FactPrograms},
			Group:       GroupServing,
			Description: "Upsert program selection criteria.",
			Materialize: load(StagingSelectionCriteria, (*loader.Loader).Criteria),
		},
		{
			Name:        DimTrainingSites,
			Deps:        []string{StagingTrainingSites, FactPrograms},
			Group:       GroupServing,
			Description: "Upsert program training sites.",
			Materialize: load(StagingTrainingSites, (*loader.Loader).Sites),
		},
	}
}
