// Package quality holds the data quality checks attached to pipeline
// assets. Staging checks inspect the asset output directly; warehouse
// checks read the tables the asset just loaded.
package quality

import (
	"context"
	"fmt"

	"github.com/specialistvlad/residencygrid/internal/asset"
	"github.com/specialistvlad/residencygrid/internal/config"
	"github.com/specialistvlad/residencygrid/internal/staging"
	"github.com/specialistvlad/residencygrid/internal/warehouse"
)

// Check names.
const (
	CheckCompleteness         = "completeness"
	CheckDuplicates           = "duplicates"
	CheckValidity             = "validity"
	CheckUniversitiesLoaded   = "universities_loaded"
	CheckSpecialtiesLoaded    = "specialties_loaded"
	CheckReferentialIntegrity = "referential_integrity"
	CheckBusinessRules        = "business_rules"
)

// MaxListedDuplicates caps the duplicate codes reported in metadata.
const MaxListedDuplicates = 10

// thresholds falls back to the defaults when a run carries no config.
func thresholds(rc *asset.RunContext) config.Quality {
	if rc == nil || rc.Config == nil {
		return config.Default().Quality
	}
	return rc.Config.Quality
}

func programsOf(output any) ([]staging.Program, error) {
	programs, ok := output.([]staging.Program)
	if !ok {
		return nil, fmt.Errorf("expected []staging.Program, got %T", output)
	}
	return programs, nil
}

// StagingProgramChecks returns the checks for the staging programs asset.
func StagingProgramChecks() []asset.Check {
	return []asset.Check{
		{Name: CheckCompleteness, Evaluate: func(_ context.Context, rc *asset.RunContext, output any) (asset.CheckResult, error) {
			programs, err := programsOf(output)
			if err != nil {
				return asset.CheckResult{}, err
			}
			return Completeness(programs, thresholds(rc).MinCompleteness), nil
		}},
		{Name: CheckDuplicates, Evaluate: func(_ context.Context, _ *asset.RunContext, output any) (asset.CheckResult, error) {
			programs, err := programsOf(output)
			if err != nil {
				return asset.CheckResult{}, err
			}
			return Duplicates(programs), nil
		}},
		{Name: CheckValidity, Evaluate: func(_ context.Context, rc *asset.RunContext, output any) (asset.CheckResult, error) {
			programs, err := programsOf(output)
			if err != nil {
				return asset.CheckResult{}, err
			}
			return Validity(programs, thresholds(rc).MinValidity), nil
		}},
	}
}

// UniversityChecks returns the checks for the universities dimension.
func UniversityChecks() []asset.Check {
	return []asset.Check{{Name: CheckUniversitiesLoaded, Evaluate: func(ctx context.Context, rc *asset.RunContext, _ any) (asset.CheckResult, error) {
		return rowsLoaded(ctx, rc, "universities", func(ctx context.Context, tx warehouse.Tx) (int, error) {
			rows, err := tx.ListUniversities(ctx)
			return len(rows), err
		})
	}}}
}

// SpecialtyChecks returns the checks for the specialties dimension.
func SpecialtyChecks() []asset.Check {
	return []asset.Check{{Name: CheckSpecialtiesLoaded, Evaluate: func(ctx context.Context, rc *asset.RunContext, _ any) (asset.CheckResult, error) {
		return rowsLoaded(ctx, rc, "specialties", func(ctx context.Context, tx warehouse.Tx) (int, error) {
			rows, err := tx.ListSpecialties(ctx)
			return len(rows), err
		})
	}}}
}

// ProgramChecks returns the checks for the programs fact table.
func ProgramChecks() []asset.Check {
	return []asset.Check{
		{Name: CheckReferentialIntegrity, Evaluate: func(ctx context.Context, rc *asset.RunContext, _ any) (asset.CheckResult, error) {
			snap, err := readSnapshot(ctx, rc)
			if err != nil {
				return asset.CheckResult{}, err
			}
			return ReferentialIntegrity(snap.programs, snap.universities, snap.specialties), nil
		}},
		{Name: CheckBusinessRules, Evaluate: func(ctx context.Context, rc *asset.RunContext, _ any) (asset.CheckResult, error) {
			snap, err := readSnapshot(ctx, rc)
			if err != nil {
				return asset.CheckResult{}, err
			}
			return BusinessRules(snap.programs, thresholds(rc)), nil
		}},
	}
}

func rowsLoaded(ctx context.Context, rc *asset.RunContext, what string, count func(context.Context, warehouse.Tx) (int, error)) (asset.CheckResult, error) {
	if rc == nil || rc.Store == nil {
		return asset.CheckResult{}, fmt.Errorf("no warehouse store in run context")
	}
	var n int
	err := rc.Store.Tx(ctx, func(ctx context.Context, tx warehouse.Tx) error {
		var err error
		n, err = count(ctx, tx)
		return err
	})
	if err != nil {
		return asset.CheckResult{}, err
	}
	return asset.CheckResult{
		Passed:      n > 0,
		Metric:      float64(n),
		Unit:        asset.UnitCount,
		Description: fmt.Sprintf("Loaded %d %s", n, what),
		Metadata:    map[string]any{what + "_count": n},
	}, nil
}

type snapshot struct {
	universities []warehouse.University
	specialties  []warehouse.Specialty
	programs     []warehouse.Program
}

func readSnapshot(ctx context.Context, rc *asset.RunContext) (snapshot, error) {
	var s snapshot
	if rc == nil || rc.Store == nil {
		return s, fmt.Errorf("no warehouse store in run context")
	}
	err := rc.Store.Tx(ctx, func(ctx context.Context, tx warehouse.Tx) error {
		var err error
		if s.universities, err = tx.ListUniversities(ctx); err != nil {
			return err
		}
		if s.specialties, err = tx.ListSpecialties(ctx); err != nil {
			return err
		}
		s.programs, err = tx.ListPrograms(ctx)
		return err
	})
	return s, err
}
