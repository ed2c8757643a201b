package sqlstore

import (
	"context"
	"fmt"

	"github.com/specialistvlad/residencygrid/internal/warehouse"
)

// schema returns the DDL for every table in dependency order. %[1]s is the
// dialect's surrogate key column.
func (d dialect) schema() []string {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS ` + warehouse.TableUniversities + ` (
	id %[1]s,
	name TEXT NOT NULL UNIQUE,
	code TEXT NOT NULL DEFAULT '',
	province TEXT NOT NULL DEFAULT '',
	city TEXT NOT NULL DEFAULT '',
	is_francophone BOOLEAN NOT NULL DEFAULT FALSE
)`,
		`CREATE TABLE IF NOT EXISTS ` + warehouse.TableSpecialties + ` (
	id %[1]s,
	name TEXT NOT NULL UNIQUE,
	code TEXT NOT NULL DEFAULT '',
	category TEXT NOT NULL DEFAULT '',
	parent_specialty_id BIGINT REFERENCES ` + warehouse.TableSpecialties + `(id),
	is_primary_care BOOLEAN NOT NULL DEFAULT FALSE
)`,
		`CREATE TABLE IF NOT EXISTS ` + warehouse.TablePrograms + ` (
	id %[1]s,
	program_code TEXT NOT NULL UNIQUE,
	program_name TEXT NOT NULL DEFAULT '',
	program_stream TEXT NOT NULL DEFAULT '',
	program_site TEXT NOT NULL DEFAULT '',
	university_id BIGINT NOT NULL REFERENCES ` + warehouse.TableUniversities + `(id),
	specialty_id BIGINT NOT NULL REFERENCES ` + warehouse.TableSpecialties + `(id),
	quota INTEGER,
	is_accepting_applications BOOLEAN NOT NULL DEFAULT TRUE,
	description TEXT NOT NULL DEFAULT '',
	program_overview TEXT NOT NULL DEFAULT '',
	curriculum_highlights TEXT NOT NULL DEFAULT '',
	source_file TEXT NOT NULL DEFAULT '',
	carms_year INTEGER NOT NULL DEFAULT 0
)`,
		`CREATE TABLE IF NOT EXISTS ` + warehouse.TableRequirements + ` (
	id %[1]s,
	program_id BIGINT NOT NULL REFERENCES ` + warehouse.TablePrograms + `(id) ON DELETE CASCADE,
	requirement_type TEXT NOT NULL,
	requirement_text TEXT NOT NULL,
	is_mandatory BOOLEAN NOT NULL DEFAULT FALSE,
	UNIQUE (program_id, requirement_type, requirement_text)
)`,
		`CREATE TABLE IF NOT EXISTS ` + warehouse.TableSelectionCriteria + ` (
	id %[1]s,
	program_id BIGINT NOT NULL REFERENCES ` + warehouse.TablePrograms + `(id) ON DELETE CASCADE,
	criterion_type TEXT NOT NULL,
	mentions INTEGER NOT NULL DEFAULT 0,
	description TEXT NOT NULL DEFAULT '',
	UNIQUE (program_id, criterion_type)
)`,
		`CREATE TABLE IF NOT EXISTS ` + warehouse.TableTrainingSites + ` (
	id %[1]s,
	program_id BIGINT NOT NULL REFERENCES ` + warehouse.TablePrograms + `(id) ON DELETE CASCADE,
	site_name TEXT NOT NULL,
	site_type TEXT NOT NULL DEFAULT '',
	UNIQUE (program_id, site_name)
)`,
	}
	for i := range ddl {
		ddl[i] = fmt.Sprintf(ddl[i], d.idColumn)
	}
	return ddl
}

func (s *Store) ensureSchema(ctx context.Context) error {
	for i, stmt := range s.dialect.schema() {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("sqlstore: create table %s: %w", warehouse.Tables[i], err)
		}
	}
	return nil
}
