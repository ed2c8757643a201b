package pipeline

import (
	"context"

	"github.com/specialistvlad/residencygrid/internal/asset"
	"github.com/specialistvlad/residencygrid/internal/source"
)

func rawAssets(src source.Source) []*asset.Asset {
	return []*asset.Asset{
		{
			Name:        RawProgramMaster,
			Group:       GroupRaw,
			Description: "Program master rows as delivered.",
			Materialize: func(ctx context.Context, _ *asset.RunContext, _ asset.Inputs) (any, error) {
				return src.ProgramRows(ctx)
			},
		},
		{
			Name:        RawDiscipline,
			Group:       GroupRaw,
			Description: "Discipline rows as delivered.",
			Materialize: func(ctx context.Context, _ *asset.RunContext, _ asset.Inputs) (any, error) {
				return src.DisciplineRows(ctx)
			},
		},
		{
			Name:        RawProgramDescriptions,
			Group:       GroupRaw,
			Description: "Program description documents as delivered.",
			Materialize: func(ctx context.Context, _ *asset.RunContext, _ asset.Inputs) (any, error) {
				return src.Documents(ctx)
			},
		},
	}
}
