package normalize

import (
	"strings"
	"unicode/utf8"

	"github.com/specialistvlad/residencygrid/internal/source"
	"github.com/specialistvlad/residencygrid/internal/staging"
)

// MinProgramCodeLength is the shortest program code considered valid.
const MinProgramCodeLength = 3

// ProgramOptions stamps provenance onto staged programs.
type ProgramOptions struct {
	CarmsYear  int
	SourceFile string
}

// Programs cleans program master rows. Invalid rows are kept and flagged so
// quality checks can report on them.
func Programs(rows []source.ProgramRow, opts ProgramOptions) []staging.Program {
	out := make([]staging.Program, 0, len(rows))
	for _, r := range rows {
		p := staging.Program{
			Code:            strings.TrimSpace(r.ProgramStreamID),
			Name:            r.ProgramName,
			Stream:          r.ProgramStreamName,
			Site:            r.ProgramSite,
			SpecialtyName:   r.DisciplineName,
			SpecialtyRawID:  r.DisciplineID,
			UniversityName:  r.SchoolName,
			UniversityRawID: r.SchoolID,
			CarmsYear:       opts.CarmsYear,
			SourceFile:      opts.SourceFile,
		}
		p.Valid = utf8.RuneCountInString(p.Code) >= MinProgramCodeLength && p.UniversityName != ""
		out = append(out, p)
	}
	return out
}
