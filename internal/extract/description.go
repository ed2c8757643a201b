package extract

import (
	"strings"
	"unicode/utf8"

	"github.com/specialistvlad/residencygrid/internal/section"
	"github.com/specialistvlad/residencygrid/internal/staging"
)

// Section titles read from program descriptions.
const (
	TitleOverview           = "Program Overview"
	TitleCurriculum         = "Curriculum"
	TitleCurriculumFallback = "Curriculum Highlights"
	TitleSelectionCriteria  = "Selection Criteria"
	TitleApplication        = "Application Process"
	TitleContact            = "Contact Information"
)

// CarmsID returns the part of a raw document id after its last '|', or the
// whole id when there is none. "1503|27447" yields "27447".
func CarmsID(rawID string) string {
	if i := strings.LastIndex(rawID, "|"); i >= 0 {
		return rawID[i+1:]
	}
	return rawID
}

// Describe parses a description document into its staging record.
func Describe(rawID, sourceURL, content string) staging.Description {
	sections := section.Parse(content)

	curriculum, ok := sections.Get(TitleCurriculum)
	if !ok {
		curriculum = sections.Lookup(TitleCurriculumFallback)
	}

	return staging.Description{
		CarmsID:            CarmsID(rawID),
		SourceURL:          sourceURL,
		FullContent:        content,
		ProgramOverview:    sections.Lookup(TitleOverview),
		Curriculum:         curriculum,
		SelectionCriteria:  sections.Lookup(TitleSelectionCriteria),
		ApplicationProcess: sections.Lookup(TitleApplication),
		ContactInfo:        sections.Lookup(TitleContact),
		ContentSections:    headings(sections),
		TotalLength:        utf8.RuneCountInString(content),
	}
}

// headings lists the titled sections only.
func headings(s *section.Sections) []string {
	var out []string
	for _, t := range s.Titles() {
		if t != section.Default {
			out = append(out, t)
		}
	}
	return out
}
