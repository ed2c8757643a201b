// Package analytics computes the reporting aggregates over the warehouse.
// Every aggregate is a pure function of a Snapshot and returns rows in a
// deterministic order.
package analytics

import (
	"cmp"
	"context"

	"github.com/specialistvlad/residencygrid/internal/warehouse"
)

// Unknown replaces missing geography.
const Unknown = "Unknown"

// Snapshot is a consistent read of the warehouse tables.
type Snapshot struct {
	Universities []warehouse.University
	Specialties  []warehouse.Specialty
	Programs     []warehouse.Program
	Requirements []warehouse.Requirement
	Criteria     []warehouse.SelectionCriterion
	Sites        []warehouse.TrainingSite
}

// Read takes a snapshot of every table in one transaction.
func Read(ctx context.Context, store warehouse.Store) (*Snapshot, error) {
	s := &Snapshot{}
	err := store.Tx(ctx, func(ctx context.Context, tx warehouse.Tx) error {
		var err error
		if s.Universities, err = tx.ListUniversities(ctx); err != nil {
			return err
		}
		if s.Specialties, err = tx.ListSpecialties(ctx); err != nil {
			return err
		}
		if s.Programs, err = tx.ListPrograms(ctx); err != nil {
			return err
		}
		if s.Requirements, err = tx.ListRequirements(ctx); err != nil {
			return err
		}
		if s.Criteria, err = tx.ListSelectionCriteria(ctx); err != nil {
			return err
		}
		s.Sites, err = tx.ListTrainingSites(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// joined is a program with its dimensions resolved. Programs whose
// dimensions are missing are left out of every aggregate.
type joined struct {
	program    warehouse.Program
	university warehouse.University
	specialty  warehouse.Specialty
}

func (s *Snapshot) joinPrograms() map[int64]joined {
	universities := make(map[int64]warehouse.University, len(s.Universities))
	for _, u := range s.Universities {
		universities[u.ID] = u
	}
	specialties := make(map[int64]warehouse.Specialty, len(s.Specialties))
	for _, sp := range s.Specialties {
		specialties[sp.ID] = sp
	}

	out := make(map[int64]joined, len(s.Programs))
	for _, p := range s.Programs {
		u, uok := universities[p.UniversityID]
		sp, sok := specialties[p.SpecialtyID]
		if uok && sok {
			out[p.ID] = joined{program: p, university: u, specialty: sp}
		}
	}
	return out
}

func quota(p warehouse.Program) int {
	if p.Quota == nil {
		return 0
	}
	return *p.Quota
}

func orUnknown(s string) string {
	if s == "" {
		return Unknown
	}
	return s
}

// compareKeys orders rows by a list of string keys.
func compareKeys(a, b []string) int {
	for i := range a {
		if c := cmp.Compare(a[i], b[i]); c != 0 {
			return c
		}
	}
	return 0
}
