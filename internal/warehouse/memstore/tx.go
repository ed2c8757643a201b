package memstore

import (
	"context"
	"fmt"

	"github.com/specialistvlad/residencygrid/internal/warehouse"
)

type transaction struct {
	state state
}

var _ warehouse.Tx = (*transaction)(nil)

func (tx *transaction) FindUniversity(_ context.Context, name string) (warehouse.University, error) {
	u, ok := tx.state.universities.find(func(u warehouse.University) bool { return u.Name == name })
	if !ok {
		return u, warehouse.Missing{Table: warehouse.TableUniversities, Identity: name}
	}
	return u, nil
}

func (tx *transaction) InsertUniversity(ctx context.Context, u *warehouse.University) error {
	if _, err := tx.FindUniversity(ctx, u.Name); err == nil {
		return warehouse.Conflict{Table: warehouse.TableUniversities, Identity: u.Name}
	}
	t := &tx.state.universities
	u.ID = t.next
	t.insert(*u)
	return nil
}

func (tx *transaction) UpdateUniversity(_ context.Context, u warehouse.University) error {
	if _, ok := tx.state.universities.rows[u.ID]; !ok {
		return warehouse.Missing{Table: warehouse.TableUniversities, Identity: fmt.Sprint(u.ID)}
	}
	tx.state.universities.rows[u.ID] = u
	return nil
}

func (tx *transaction) ListUniversities(context.Context) ([]warehouse.University, error) {
	return tx.state.universities.sorted(), nil
}

func (tx *transaction) FindSpecialty(_ context.Context, name string) (warehouse.Specialty, error) {
	s, ok := tx.state.specialties.find(func(s warehouse.Specialty) bool { return s.Name == name })
	if !ok {
		return s, warehouse.Missing{Table: warehouse.TableSpecialties, Identity: name}
	}
	return s, nil
}

func (tx *transaction) InsertSpecialty(ctx context.Context, s *warehouse.Specialty) error {
	if _, err := tx.FindSpecialty(ctx, s.Name); err == nil {
		return warehouse.Conflict{Table: warehouse.TableSpecialties, Identity: s.Name}
	}
	if err := tx.checkParent(s.ParentID); err != nil {
		return err
	}
	t := &tx.state.specialties
	s.ID = t.next
	t.insert(*s)
	return nil
}

func (tx *transaction) UpdateSpecialty(_ context.Context, s warehouse.Specialty) error {
	if _, ok := tx.state.specialties.rows[s.ID]; !ok {
		return warehouse.Missing{Table: warehouse.TableSpecialties, Identity: fmt.Sprint(s.ID)}
	}
	if err := tx.checkParent(s.ParentID); err != nil {
		return err
	}
	tx.state.specialties.rows[s.ID] = s
	return nil
}

func (tx *transaction) SetSpecialtyParent(_ context.Context, id int64, parentID *int64) error {
	s, ok := tx.state.specialties.rows[id]
	if !ok {
		return warehouse.Missing{Table: warehouse.TableSpecialties, Identity: fmt.Sprint(id)}
	}
	if err := tx.checkParent(parentID); err != nil {
		return err
	}
	s.ParentID = parentID
	tx.state.specialties.rows[id] = s
	return nil
}

func (tx *transaction) checkParent(parentID *int64) error {
	if parentID == nil {
		return nil
	}
	if _, ok := tx.state.specialties.rows[*parentID]; !ok {
		return warehouse.DanglingReference{Table: warehouse.TableSpecialties, Column: "parent_specialty_id", ID: *parentID}
	}
	return nil
}

func (tx *transaction) ListSpecialties(context.Context) ([]warehouse.Specialty, error) {
	return tx.state.specialties.sorted(), nil
}

func (tx *transaction) FindProgram(_ context.Context, code string) (warehouse.Program, error) {
	p, ok := tx.state.programs.find(func(p warehouse.Program) bool { return p.ProgramCode == code })
	if !ok {
		return p, warehouse.Missing{Table: warehouse.TablePrograms, Identity: code}
	}
	return p, nil
}

func (tx *transaction) InsertProgram(ctx context.Context, p *warehouse.Program) error {
	if _, err := tx.FindProgram(ctx, p.ProgramCode); err == nil {
		return warehouse.Conflict{Table: warehouse.TablePrograms, Identity: p.ProgramCode}
	}
	if err := tx.checkProgramRefs(*p); err != nil {
		return err
	}
	t := &tx.state.programs
	p.ID = t.next
	t.insert(*p)
	return nil
}

func (tx *transaction) UpdateProgram(_ context.Context, p warehouse.Program) error {
	if _, ok := tx.state.programs.rows[p.ID]; !ok {
		return warehouse.Missing{Table: warehouse.TablePrograms, Identity: fmt.Sprint(p.ID)}
	}
	if err := tx.checkProgramRefs(p); err != nil {
		return err
	}
	tx.state.programs.rows[p.ID] = p
	return nil
}

func (tx *transaction) checkProgramRefs(p warehouse.Program) error {
	if _, ok := tx.state.universities.rows[p.UniversityID]; !ok {
		return warehouse.DanglingReference{Table: warehouse.TablePrograms, Column: "university_id", ID: p.UniversityID}
	}
	if _, ok := tx.state.specialties.rows[p.SpecialtyID]; !ok {
		return warehouse.DanglingReference{Table: warehouse.TablePrograms, Column: "specialty_id", ID: p.SpecialtyID}
	}
	return nil
}

func (tx *transaction) ListPrograms(context.Context) ([]warehouse.Program, error) {
	return tx.state.programs.sorted(), nil
}

func (tx *transaction) checkProgram(table string, id int64) error {
	if _, ok := tx.state.programs.rows[id]; !ok {
		return warehouse.DanglingReference{Table: table, Column: "program_id", ID: id}
	}
	return nil
}

func (tx *transaction) FindRequirement(_ context.Context, programID int64, typ, text string) (warehouse.Requirement, error) {
	r, ok := tx.state.requirements.find(func(r warehouse.Requirement) bool {
		return r.ProgramID == programID && r.Type == typ && r.Text == text
	})
	if !ok {
		return r, warehouse.Missing{Table: warehouse.TableRequirements, Identity: fmt.Sprintf("(%d, %s, %q)", programID, typ, text)}
	}
	return r, nil
}

func (tx *transaction) InsertRequirement(ctx context.Context, r *warehouse.Requirement) error {
	if _, err := tx.FindRequirement(ctx, r.ProgramID, r.Type, r.Text); err == nil {
		return warehouse.Conflict{Table: warehouse.TableRequirements, Identity: fmt.Sprintf("(%d, %s)", r.ProgramID, r.Type)}
	}
	if err := tx.checkProgram(warehouse.TableRequirements, r.ProgramID); err != nil {
		return err
	}
	t := &tx.state.requirements
	r.ID = t.next
	t.insert(*r)
	return nil
}

func (tx *transaction) UpdateRequirement(_ context.Context, r warehouse.Requirement) error {
	if _, ok := tx.state.requirements.rows[r.ID]; !ok {
		return warehouse.Missing{Table: warehouse.TableRequirements, Identity: fmt.Sprint(r.ID)}
	}
	tx.state.requirements.rows[r.ID] = r
	return nil
}

func (tx *transaction) ListRequirements(context.Context) ([]warehouse.Requirement, error) {
	return tx.state.requirements.sorted(), nil
}

func (tx *transaction) FindSelectionCriterion(_ context.Context, programID int64, typ string) (warehouse.SelectionCriterion, error) {
	c, ok := tx.state.criteria.find(func(c warehouse.SelectionCriterion) bool {
		return c.ProgramID == programID && c.Type == typ
	})
	if !ok {
		return c, warehouse.Missing{Table: warehouse.TableSelectionCriteria, Identity: fmt.Sprintf("(%d, %s)", programID, typ)}
	}
	return c, nil
}

func (tx *transaction) InsertSelectionCriterion(ctx context.Context, c *warehouse.SelectionCriterion) error {
	if _, err := tx.FindSelectionCriterion(ctx, c.ProgramID, c.Type); err == nil {
		return warehouse.Conflict{Table: warehouse.TableSelectionCriteria, Identity: fmt.Sprintf("(%d, %s)", c.ProgramID, c.Type)}
	}
	if err := tx.checkProgram(warehouse.TableSelectionCriteria, c.ProgramID); err != nil {
		return err
	}
	t := &tx.state.criteria
	c.ID = t.next
	t.insert(*c)
	return nil
}

func (tx *transaction) UpdateSelectionCriterion(_ context.Context, c warehouse.SelectionCriterion) error {
	if _, ok := tx.state.criteria.rows[c.ID]; !ok {
		return warehouse.Missing{Table: warehouse.TableSelectionCriteria, Identity: fmt.Sprint(c.ID)}
	}
	tx.state.criteria.rows[c.ID] = c
	return nil
}

func (tx *transaction) ListSelectionCriteria(context.Context) ([]warehouse.SelectionCriterion, error) {
	return tx.state.criteria.sorted(), nil
}

func (tx *transaction) FindTrainingSite(_ context.Context, programID int64, name string) (warehouse.TrainingSite, error) {
	s, ok := tx.state.sites.find(func(s warehouse.TrainingSite) bool {
		return s.ProgramID == programID && s.Name == name
	})
	if !ok {
		return s, warehouse.Missing{Table: warehouse.TableTrainingSites, Identity: fmt.Sprintf("(%d, %q)", programID, name)}
	}
	return s, nil
}

func (tx *transaction) InsertTrainingSite(ctx context.Context, s *warehouse.TrainingSite) error {
	if _, err := tx.FindTrainingSite(ctx, s.ProgramID, s.Name); err == nil {
		return warehouse.Conflict{Table: warehouse.TableTrainingSites, Identity: fmt.Sprintf("(%d, %q)", s.ProgramID, s.Name)}
	}
	if err := tx.checkProgram(warehouse.TableTrainingSites, s.ProgramID); err != nil {
		return err
	}
	t := &tx.state.sites
	s.ID = t.next
	t.insert(*s)
	return nil
}

func (tx *transaction) UpdateTrainingSite(_ context.Context, s warehouse.TrainingSite) error {
	if _, ok := tx.state.sites.rows[s.ID]; !ok {
		return warehouse.Missing{Table: warehouse.TableTrainingSites, Identity: fmt.Sprint(s.ID)}
	}
	tx.state.sites.rows[s.ID] = s
	return nil
}

func (tx *transaction) ListTrainingSites(context.Context) ([]warehouse.TrainingSite, error) {
	return tx.state.sites.sorted(), nil
}
