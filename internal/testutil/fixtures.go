package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/residencygrid/internal/config"
	"github.com/specialistvlad/residencygrid/internal/source"
	"github.com/stretchr/testify/require"
)

// Fixture file names, as WriteFixtures lays them out.
const (
	ProgramMasterFile = "1503_program_master.csv"
	DisciplinesFile   = "1503_discipline.csv"
	DescriptionsFile  = "1503_markdown_program_descriptions_v2.json"
)

// Fixture sizes. Every program row is valid and every description links to
// exactly one program.
const (
	FixturePrograms     = 4
	FixtureUniversities = 4
	FixtureSpecialties  = 5
	FixtureDescriptions = 3
)

// ProgramMasterCSV is a program master extract.
const ProgramMasterCSV = `discipline_id,discipline_name,school_id,school_name,program_stream_id,program_stream_name,program_site,program_name
1,Family Medicine,10,University of Toronto,27447,CMG Stream,Toronto,Family Medicine - Toronto
2,Internal Medicine,11,McGill University,27501,CMG Stream,Montreal,Internal Medicine - Montreal
3,General Surgery,12,University of British Columbia,27612,CMG Stream,Vancouver,General Surgery - Vancouver
4,Psychiatry,13,Dalhousie University,27733,CMG Stream,Halifax,Psychiatry - Halifax
`

// DisciplinesCSV is a discipline extract. "Surgery - Cardiac" names a
// parent that is not part of the batch.
const DisciplinesCSV = `discipline_id,discipline
1,Family Medicine
2,Internal Medicine
3,General Surgery
4,Psychiatry
5,Surgery - Cardiac
`

// DescriptionsJSON holds description documents for three of the programs.
const DescriptionsJSON = `[
  {
    "id": "1503|27447",
    "page_content": "# Program Overview\nCommunity based family medicine training.\n\n# Curriculum\nRotations take place at Toronto Western Hospital. Longitudinal care at the Scarborough clinic.\n\n# Selection Criteria\nWe value research experience, leadership and strong reference letters.\n\n# Eligibility\nApplicants must be Canadian citizens or permanent residents.",
    "metadata": {"source": "https://www.carms.ca/program/1503-27447"}
  },
  {
    "id": "1503|27501",
    "page_content": "# Program Overview\nA large academic program.\n\n# Selection Criteria\nClinical electives in internal medicine and interview performance matter.\n\nLanguage requirements: Working knowledge of French is required.",
    "metadata": {"source": "https://www.carms.ca/program/1503-27501"}
  },
  {
    "id": "1503|27612",
    "page_content": "# Program Overview\nSurgical training across two sites.\n\n# Training Sites\nVancouver General Hospital is the main teaching hospital. Rural rotation sites are available.",
    "metadata": {"source": "https://www.carms.ca/program/1503-27612"}
  }
]
`

// WriteFixtures writes the fixture extracts into dir and returns their paths.
func WriteFixtures(t *testing.T, dir string) config.Sources {
	t.Helper()
	srcs := config.Sources{
		ProgramMaster: filepath.Join(dir, ProgramMasterFile),
		Disciplines:   filepath.Join(dir, DisciplinesFile),
		Descriptions:  filepath.Join(dir, DescriptionsFile),
	}
	for path, content := range map[string]string{
		srcs.ProgramMaster: ProgramMasterCSV,
		srcs.Disciplines:   DisciplinesCSV,
		srcs.Descriptions:  DescriptionsJSON,
	} {
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return srcs
}

// Source is an in-memory source.Source.
type Source struct {
	Programs    []source.ProgramRow
	Disciplines []source.DisciplineRow
	Docs        []source.Document
	Err         error
}

var _ source.Source = (*Source)(nil)

func (s *Source) ProgramRows(context.Context) ([]source.ProgramRow, error) {
	return s.Programs, s.Err
}

func (s *Source) DisciplineRows(context.Context) ([]source.DisciplineRow, error) {
	return s.Disciplines, s.Err
}

func (s *Source) Documents(context.Context) ([]source.Document, error) {
	return s.Docs, s.Err
}

// WriteConfig writes the fixtures and an HCL configuration pointing at them
// into a fresh temporary directory. body is appended to the file verbatim.
// It returns the configuration file path.
func WriteConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	srcs := WriteFixtures(t, dir)
	hcl := fmt.Sprintf(`
sources {
  program_master = %q
  disciplines    = %q
  descriptions   = %q
}

%s
`, srcs.ProgramMaster, srcs.Disciplines, srcs.Descriptions, body)
	path := filepath.Join(dir, "residencygrid.hcl")
	require.NoError(t, os.WriteFile(path, []byte(hcl), 0o644))
	return path
}
