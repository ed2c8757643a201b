// Package warehouse defines the serving-layer tables and the transactional
// storage interface the loader writes through.
//
// Six tables make up the warehouse: two dimensions (universities,
// specialties), one fact (programs) and three child tables linked to
// programs (requirements, selection criteria, training sites). Every table
// has a natural key used for upserts; surrogate ids are assigned by the
// store on insert.
package warehouse

import "context"

// Table names.
const (
	TableUniversities      = "dim_universities"
	TableSpecialties       = "dim_specialties"
	TablePrograms          = "fact_programs"
	TableRequirements      = "dim_requirements"
	TableSelectionCriteria = "dim_selection_criteria"
	TableTrainingSites     = "dim_training_sites"
)

// Tables lists every table in dependency order.
var Tables = []string{
	TableUniversities,
	TableSpecialties,
	TablePrograms,
	TableRequirements,
	TableSelectionCriteria,
	TableTrainingSites,
}

// Store opens transactions against the warehouse.
type Store interface {
	// Tx runs fn in a transaction. The transaction commits if fn returns
	// nil and rolls back otherwise; the error from fn is returned as is.
	Tx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	Close() error
}

// Tx is the set of operations available inside a transaction.
//
// Find methods return an error wrapping ErrNotFound when no row has the key.
// Insert methods assign the row's ID. Update methods replace the mutable
// columns of the row with the given ID.
type Tx interface {
	FindUniversity(ctx context.Context, name string) (University, error)
	InsertUniversity(ctx context.Context, u *University) error
	UpdateUniversity(ctx context.Context, u University) error
	ListUniversities(ctx context.Context) ([]University, error)

	FindSpecialty(ctx context.Context, name string) (Specialty, error)
	InsertSpecialty(ctx context.Context, s *Specialty) error
	UpdateSpecialty(ctx context.Context, s Specialty) error
	SetSpecialtyParent(ctx context.Context, id int64, parentID *int64) error
	ListSpecialties(ctx context.Context) ([]Specialty, error)

	FindProgram(ctx context.Context, code string) (Program, error)
	InsertProgram(ctx context.Context, p *Program) error
	UpdateProgram(ctx context.Context, p Program) error
	ListPrograms(ctx context.Context) ([]Program, error)

	FindRequirement(ctx context.Context, programID int64, typ, text string) (Requirement, error)
	InsertRequirement(ctx context.Context, r *Requirement) error
	UpdateRequirement(ctx context.Context, r Requirement) error
	ListRequirements(ctx context.Context) ([]Requirement, error)

	FindSelectionCriterion(ctx context.Context, programID int64, typ string) (SelectionCriterion, error)
	InsertSelectionCriterion(ctx context.Context, c *SelectionCriterion) error
	UpdateSelectionCriterion(ctx context.Context, c SelectionCriterion) error
	ListSelectionCriteria(ctx context.Context) ([]SelectionCriterion, error)

	FindTrainingSite(ctx context.Context, programID int64, name string) (TrainingSite, error)
	InsertTrainingSite(ctx context.Context, s *TrainingSite) error
	UpdateTrainingSite(ctx context.Context, s TrainingSite) error
	ListTrainingSites(ctx context.Context) ([]TrainingSite, error)
}
