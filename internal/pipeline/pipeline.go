// Package pipeline assembles the residency program asset graph: raw
// extracts, staging transforms, warehouse loads and analytics aggregates,
// plus the quality checks attached to them.
package pipeline

import (
	"fmt"

	"github.com/specialistvlad/residencygrid/internal/asset"
	"github.com/specialistvlad/residencygrid/internal/config"
	"github.com/specialistvlad/residencygrid/internal/source"
	"github.com/specialistvlad/residencygrid/internal/warehouse"
)

// Asset groups.
const (
	GroupRaw       = "raw_data"
	GroupStaging   = "staging"
	GroupServing   = "serving"
	GroupAnalytics = "analytics"
)

// Asset names.
const (
	RawProgramMaster       = "raw_program_master"
	RawDiscipline          = "raw_discipline"
	RawProgramDescriptions = "raw_program_descriptions"

	StagingPrograms            = "staging_programs"
	StagingUniversities        = "staging_universities"
	StagingSpecialties         = "staging_specialties"
	StagingProgramDescriptions = "staging_program_descriptions"
	StagingRequirements        = "staging_requirements"
	StagingSelectionCriteria   = "staging_selection_criteria"
	StagingTrainingSites       = "staging_training_sites"

	DimUniversities      = warehouse.TableUniversities
	DimSpecialties       = warehouse.TableSpecialties
	FactPrograms         = warehouse.TablePrograms
	DimRequirements      = warehouse.TableRequirements
	DimSelectionCriteria = warehouse.TableSelectionCriteria
	DimTrainingSites     = warehouse.TableTrainingSites

	AnalyticsProgramSummary           = "analytics_program_summary"
	AnalyticsRequirementsBySpecialty  = "analytics_requirements_by_specialty"
	AnalyticsSelectionCriteriaTrends  = "analytics_selection_criteria_trends"
	AnalyticsGeographicDistribution   = "analytics_geographic_distribution"
	AnalyticsSpecialtyCompetitiveness = "analytics_specialty_competitiveness"
)

// New returns the full asset graph reading its raw extracts from src.
func New(src source.Source) (*asset.Graph, error) {
	g := asset.NewGraph()
	for _, assets := range [][]*asset.Asset{
		rawAssets(src),
		stagingAssets(),
		servingAssets(),
		analyticsAssets(),
	} {
		for _, a := range assets {
			if err := g.Register(a); err != nil {
				return nil, err
			}
		}
	}
	if _, err := g.Build(); err != nil {
		return nil, err
	}
	return g, nil
}

// Selection converts a configured job into an asset selection.
func Selection(job *config.Job) asset.Selection {
	return asset.Selection{All: job.All, Groups: job.Groups, Names: job.Assets}
}

// settings returns the run's configuration, or the defaults.
func settings(rc *asset.RunContext) *config.Model {
	if rc == nil || rc.Config == nil {
		return config.Default()
	}
	return rc.Config
}

// storeOf returns the run's warehouse.
func storeOf(rc *asset.RunContext) (warehouse.Store, error) {
	if rc == nil || rc.Store == nil {
		return nil, fmt.Errorf("no warehouse store configured for this run")
	}
	return rc.Store, nil
}
