package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/specialistvlad/residencygrid/internal/warehouse"
)

const (
	universityColumns  = "id, name, code, province, city, is_francophone"
	specialtyColumns   = "id, name, code, category, parent_specialty_id, is_primary_care"
	programColumns     = "id, program_code, program_name, program_stream, program_site, university_id, specialty_id, quota, is_accepting_applications, description, program_overview, curriculum_highlights, source_file, carms_year"
	requirementColumns = "id, program_id, requirement_type, requirement_text, is_mandatory"
	criterionColumns   = "id, program_id, criterion_type, mentions, description"
	siteColumns        = "id, program_id, site_name, site_type"
)

type transaction struct {
	tx      *sql.Tx
	dialect dialect
}

var _ warehouse.Tx = (*transaction)(nil)

// nullable maps a nil pointer to NULL and dereferences anything else.
func nullable[T any](v *T) any {
	if v == nil {
		return nil
	}
	return *v
}

type scanner interface {
	Scan(dest ...any) error
}

func (t *transaction) queryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return t.tx.QueryRowContext(ctx, t.dialect.rebind(query), args...)
}

// insert runs an INSERT ... RETURNING id and stores the new id in *id.
func (t *transaction) insert(ctx context.Context, table, identity string, id *int64, query string, args ...any) error {
	if err := t.queryRow(ctx, query+" RETURNING id", args...).Scan(id); err != nil {
		return classify(err, table, identity)
	}
	return nil
}

// update runs an UPDATE and reports Missing when no row matched.
func (t *transaction) update(ctx context.Context, table string, id int64, query string, args ...any) error {
	res, err := t.tx.ExecContext(ctx, t.dialect.rebind(query), args...)
	if err != nil {
		return classify(err, table, fmt.Sprint(id))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return classify(err, table, fmt.Sprint(id))
	}
	if n == 0 {
		return warehouse.Missing{Table: table, Identity: fmt.Sprint(id)}
	}
	return nil
}

func list[T any](ctx context.Context, t *transaction, table, columns string, scan func(scanner) (T, error)) ([]T, error) {
	rows, err := t.tx.QueryContext(ctx, "SELECT "+columns+" FROM "+table+" ORDER BY id")
	if err != nil {
		return nil, classify(err, table, "list")
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, classify(err, table, "list")
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err, table, "list")
	}
	return out, nil
}

func scanUniversity(s scanner) (u warehouse.University, err error) {
	err = s.Scan(&u.ID, &u.Name, &u.Code, &u.Province, &u.City, &u.IsFrancophone)
	return u, err
}

func scanSpecialty(s scanner) (sp warehouse.Specialty, err error) {
	err = s.Scan(&sp.ID, &sp.Name, &sp.Code, &sp.Category, &sp.ParentID, &sp.IsPrimaryCare)
	return sp, err
}

func scanProgram(s scanner) (p warehouse.Program, err error) {
	err = s.Scan(&p.ID, &p.ProgramCode, &p.ProgramName, &p.Stream, &p.Site, &p.UniversityID, &p.SpecialtyID,
		&p.Quota, &p.IsAcceptingApplications, &p.Description, &p.ProgramOverview, &p.CurriculumHighlights,
		&p.SourceFile, &p.CarmsYear)
	return p, err
}

func scanRequirement(s scanner) (r warehouse.Requirement, err error) {
	err = s.Scan(&r.ID, &r.ProgramID, &r.Type, &r.Text, &r.IsMandatory)
	return r, err
}

func scanCriterion(s scanner) (c warehouse.SelectionCriterion, err error) {
	err = s.Scan(&c.ID, &c.ProgramID, &c.Type, &c.Mentions, &c.Description)
	return c, err
}

func scanSite(s scanner) (ts warehouse.TrainingSite, err error) {
	err = s.Scan(&ts.ID, &ts.ProgramID, &ts.Name, &ts.Type)
	return ts, err
}

// Universities

func (t *transaction) FindUniversity(ctx context.Context, name string) (warehouse.University, error) {
	u, err := scanUniversity(t.queryRow(ctx,
		"SELECT "+universityColumns+" FROM "+warehouse.TableUniversities+" WHERE name = ?", name))
	return u, classify(err, warehouse.TableUniversities, name)
}

func (t *transaction) InsertUniversity(ctx context.Context, u *warehouse.University) error {
	return t.insert(ctx, warehouse.TableUniversities, u.Name, &u.ID,
		"INSERT INTO "+warehouse.TableUniversities+" (name, code, province, city, is_francophone) VALUES (?, ?, ?, ?, ?)",
		u.Name, u.Code, u.Province, u.City, u.IsFrancophone)
}

func (t *transaction) UpdateUniversity(ctx context.Context, u warehouse.University) error {
	return t.update(ctx, warehouse.TableUniversities, u.ID,
		"UPDATE "+warehouse.TableUniversities+" SET name = ?, code = ?, province = ?, city = ?, is_francophone = ? WHERE id = ?",
		u.Name, u.Code, u.Province, u.City, u.IsFrancophone, u.ID)
}

func (t *transaction) ListUniversities(ctx context.Context) ([]warehouse.University, error) {
	return list(ctx, t, warehouse.TableUniversities, universityColumns, scanUniversity)
}

// Specialties

func (t *transaction) FindSpecialty(ctx context.Context, name string) (warehouse.Specialty, error) {
	s, err := scanSpecialty(t.queryRow(ctx,
		"SELECT "+specialtyColumns+" FROM "+warehouse.TableSpecialties+" WHERE name = ?", name))
	return s, classify(err, warehouse.TableSpecialties, name)
}

func (t *transaction) InsertSpecialty(ctx context.Context, s *warehouse.Specialty) error {
	return t.insert(ctx, warehouse.TableSpecialties, s.Name, &s.ID,
		"INSERT INTO "+warehouse.TableSpecialties+" (name, code, category, parent_specialty_id, is_primary_care) VALUES (?, ?, ?, ?, ?)",
		s.Name, s.Code, s.Category, nullable(s.ParentID), s.IsPrimaryCare)
}

func (t *transaction) UpdateSpecialty(ctx context.Context, s warehouse.Specialty) error {
	return t.update(ctx, warehouse.TableSpecialties, s.ID,
		"UPDATE "+warehouse.TableSpecialties+" SET name = ?, code = ?, category = ?, parent_specialty_id = ?, is_primary_care = ? WHERE id = ?",
		s.Name, s.Code, s.Category, nullable(s.ParentID), s.IsPrimaryCare, s.ID)
}

func (t *transaction) SetSpecialtyParent(ctx context.Context, id int64, parentID *int64) error {
	return t.update(ctx, warehouse.TableSpecialties, id,
		"UPDATE "+warehouse.TableSpecialties+" SET parent_specialty_id = ? WHERE id = ?", nullable(parentID), id)
}

func (t *transaction) ListSpecialties(ctx context.Context) ([]warehouse.Specialty, error) {
	return list(ctx, t, warehouse.TableSpecialties, specialtyColumns, scanSpecialty)
}

// Programs

func (t *transaction) FindProgram(ctx context.Context, code string) (warehouse.Program, error) {
	p, err := scanProgram(t.queryRow(ctx,
		"SELECT "+programColumns+" FROM "+warehouse.TablePrograms+" WHERE program_code = ?", code))
	return p, classify(err, warehouse.TablePrograms, code)
}

func (t *transaction) InsertProgram(ctx context.Context, p *warehouse.Program) error {
	return t.insert(ctx, warehouse.TablePrograms, p.ProgramCode, &p.ID,
		"INSERT INTO "+warehouse.TablePrograms+" (program_code, program_name, program_stream, program_site, university_id, specialty_id, quota, is_accepting_applications, description, program_overview, curriculum_highlights, source_file, carms_year) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		p.ProgramCode, p.ProgramName, p.Stream, p.Site, p.UniversityID, p.SpecialtyID, nullable(p.Quota),
		p.IsAcceptingApplications, p.Description, p.ProgramOverview, p.CurriculumHighlights, p.SourceFile, p.CarmsYear)
}

func (t *transaction) UpdateProgram(ctx context.Context, p warehouse.Program) error {
	return t.update(ctx, warehouse.TablePrograms, p.ID,
		"UPDATE "+warehouse.TablePrograms+" SET program_code = ?, program_name = ?, program_stream = ?, program_site = ?, university_id = ?, specialty_id = ?, quota = ?, is_accepting_applications = ?, description = ?, program_overview = ?, curriculum_highlights = ?, source_file = ?, carms_year = ? WHERE id = ?",
		p.ProgramCode, p.ProgramName, p.Stream, p.Site, p.UniversityID, p.SpecialtyID, nullable(p.Quota),
		p.IsAcceptingApplications, p.Description, p.ProgramOverview, p.CurriculumHighlights, p.SourceFile, p.CarmsYear, p.ID)
}

func (t *transaction) ListPrograms(ctx context.Context) ([]warehouse.Program, error) {
	return list(ctx, t, warehouse.TablePrograms, programColumns, scanProgram)
}

// Requirements

func (t *transaction) FindRequirement(ctx context.Context, programID int64, typ, text string) (warehouse.Requirement, error) {
	r, err := scanRequirement(t.queryRow(ctx,
		"SELECT "+requirementColumns+" FROM "+warehouse.TableRequirements+" WHERE program_id = ? AND requirement_type = ? AND requirement_text = ?",
		programID, typ, text))
	return r, classify(err, warehouse.TableRequirements, fmt.Sprintf("(%d, %s, %q)", programID, typ, text))
}

func (t *transaction) InsertRequirement(ctx context.Context, r *warehouse.Requirement) error {
	return t.insert(ctx, warehouse.TableRequirements, fmt.Sprintf("(%d, %s)", r.ProgramID, r.Type), &r.ID,
		"INSERT INTO "+warehouse.TableRequirements+" (program_id, requirement_type, requirement_text, is_mandatory) VALUES (?, ?, ?, ?)",
		r.ProgramID, r.Type, r.Text, r.IsMandatory)
}

func (t *transaction) UpdateRequirement(ctx context.Context, r warehouse.Requirement) error {
	return t.update(ctx, warehouse.TableRequirements, r.ID,
		"UPDATE "+warehouse.TableRequirements+" SET program_id = ?, requirement_type = ?, requirement_text = ?, is_mandatory = ? WHERE id = ?",
		r.ProgramID, r.Type, r.Text, r.IsMandatory, r.ID)
}

func (t *transaction) ListRequirements(ctx context.Context) ([]warehouse.Requirement, error) {
	return list(ctx, t, warehouse.TableRequirements, requirementColumns, scanRequirement)
}

// Selection criteria

func (t *transaction) FindSelectionCriterion(ctx context.Context, programID int64, typ string) (warehouse.SelectionCriterion, error) {
	c, err := scanCriterion(t.queryRow(ctx,
		"SELECT "+criterionColumns+" FROM "+warehouse.TableSelectionCriteria+" WHERE program_id = ? AND criterion_type = ?",
		programID, typ))
	return c, classify(err, warehouse.TableSelectionCriteria, fmt.Sprintf("(%d, %s)", programID, typ))
}

func (t *transaction) InsertSelectionCriterion(ctx context.Context, c *warehouse.SelectionCriterion) error {
	return t.insert(ctx, warehouse.TableSelectionCriteria, fmt.Sprintf("(%d, %s)", c.ProgramID, c.Type), &c.ID,
		"INSERT INTO "+warehouse.TableSelectionCriteria+" (program_id, criterion_type, mentions, description) VALUES (?, ?, ?, ?)",
		c.ProgramID, c.Type, c.Mentions, c.Description)
}

func (t *transaction) UpdateSelectionCriterion(ctx context.Context, c warehouse.SelectionCriterion) error {
	return t.update(ctx, warehouse.TableSelectionCriteria, c.ID,
		"UPDATE "+warehouse.TableSelectionCriteria+" SET program_id = ?, criterion_type = ?, mentions = ?, description = ? WHERE id = ?",
		c.ProgramID, c.Type, c.Mentions, c.Description, c.ID)
}

func (t *transaction) ListSelectionCriteria(ctx context.Context) ([]warehouse.SelectionCriterion, error) {
	return list(ctx, t, warehouse.TableSelectionCriteria, criterionColumns, scanCriterion)
}

// Training sites

func (t *transaction) FindTrainingSite(ctx context.Context, programID int64, name string) (warehouse.TrainingSite, error) {
	s, err := scanSite(t.queryRow(ctx,
		"SELECT "+siteColumns+" FROM "+warehouse.TableTrainingSites+" WHERE program_id = ? AND site_name = ?",
		programID, name))
	return s, classify(err, warehouse.TableTrainingSites, fmt.Sprintf("(%d, %q)", programID, name))
}

func (t *transaction) InsertTrainingSite(ctx context.Context, s *warehouse.TrainingSite) error {
	return t.insert(ctx, warehouse.TableTrainingSites, fmt.Sprintf("(%d, %q)", s.ProgramID, s.Name), &s.ID,
		"INSERT INTO "+warehouse.TableTrainingSites+" (program_id, site_name, site_type) VALUES (?, ?, ?)",
		s.ProgramID, s.Name, s.Type)
}

func (t *transaction) UpdateTrainingSite(ctx context.Context, s warehouse.TrainingSite) error {
	return t.update(ctx, warehouse.TableTrainingSites, s.ID,
		"UPDATE "+warehouse.TableTrainingSites+" SET program_id = ?, site_name = ?, site_type = ? WHERE id = ?",
		s.ProgramID, s.Name, s.Type, s.ID)
}

func (t *transaction) ListTrainingSites(ctx context.Context) ([]warehouse.TrainingSite, error) {
	return list(ctx, t, warehouse.TableTrainingSites, siteColumns, scanSite)
}
