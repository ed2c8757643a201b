package pipeline

import (
	"context"

	"github.com/specialistvlad/residencygrid/internal/analytics"
	"github.com/specialistvlad/residencygrid/internal/asset"
	"github.com/specialistvlad/residencygrid/internal/ctxlog"
)

// aggregate reads a warehouse snapshot and applies fn to it.
func aggregate[R any](fn func(*analytics.Snapshot) []R) asset.MaterializeFunc {
	return func(ctx context.Context, rc *asset.RunContext, _ asset.Inputs) (any, error) {
		store, err := storeOf(rc)
		if err != nil {
			return nil, err
		}
		snap, err := analytics.Read(ctx, store)
		if err != nil {
			return nil, err
		}
		rows := fn(snap)
		logger := ctxlog.FromContext(ctx)
		if len(rows) == 0 {
			logger.Warn("No data for aggregate.")
		} else {
			logger.Info("Aggregate computed.", "rows", len(rows))
		}
		return rows, nil
	}
}

func analyticsAssets() []*asset.Asset {
	return []*asset.Asset{
		{
			Name:        AnalyticsProgramSummary,
			Deps:        []string{FactPrograms},
			Group:       GroupAnalytics,
			Description: "Program count and quota by specialty and university.",
			Materialize: aggregate(analytics.ProgramSummaries),
		},
		{
			Name:        AnalyticsRequirementsBySpecialty,
			Deps:        []string{DimRequirements},
			Group:       GroupAnalytics,
			Description: "Requirement types by specialty.",
			Materialize: aggregate(analytics.RequirementsBySpecialties),
		},
		{
			Name:        AnalyticsSelectionCriteriaTrends,
			Deps:        []string{DimSelectionCriteria},
			Group:       GroupAnalytics,
			Description: "Selection criteria by specialty category.",
			Materialize: aggregate(analytics.SelectionCriteriaTrends),
		},
		{
			Name:        AnalyticsGeographicDistribution,
			Deps:        []string{FactPrograms},
			Group:       GroupAnalytics,
			Description: "Programs by province, city and specialty category.",
			Materialize: aggregate(analytics.GeographicDistributions),
		},
		{
			Name:        AnalyticsSpecialtyCompetitiveness,
			Deps:        []string{AnalyticsProgramSummary},
			Group:       GroupAnalytics,
			Description: "Specialties ranked by average quota per program.",
			Materialize: func(ctx context.Context, _ *asset.RunContext, in asset.Inputs) (any, error) {
				summary, err := asset.Input[[]analytics.ProgramSummary](in, AnalyticsProgramSummary)
				if err != nil {
					return nil, err
				}
				rows := analytics.SpecialtyCompetitiveness(summary)
				ctxlog.FromContext(ctx).Info("Ranked specialties.", "count", len(rows))
				return rows, nil
			},
		},
	}
}
