package normalize

import (
	"regexp"
	"strings"

	"github.com/specialistvlad/residencygrid/internal/source"
	"github.com/specialistvlad/residencygrid/internal/staging"
)

// Specialty categories.
const (
	CategoryPrimaryCare = "Primary Care"
	CategorySurgical    = "Surgical"
	CategoryMedical     = "Medical"
	CategoryPsychiatry  = "Psychiatry"
	CategoryPediatrics  = "Pediatrics"
	CategoryObstetrics  = "Obstetrics & Gynecology"
	CategoryDiagnostic  = "Diagnostic"
	CategoryLaboratory  = "Laboratory"
	CategoryOther       = "Other"
)

type categoryRule struct {
	category string
	keywords []string
}

// categoryRules is checked top to bottom. "Family Medicine" is Primary Care
// only because that rule precedes Medical.
var categoryRules = []categoryRule{
	{CategoryPrimaryCare, []string{"family medicine", "family", "general practice"}},
	{CategorySurgical, []string{"surgery", "surgical"}},
	{CategoryMedical, []string{"medicine", "medical"}},
	{CategoryPsychiatry, []string{"psychiatry"}},
	{CategoryPediatrics, []string{"pediatric", "paediatric"}},
	{CategoryObstetrics, []string{"obstetric", "gynecol"}},
	{CategoryDiagnostic, []string{"diagnostic", "radiology"}},
	{CategoryLaboratory, []string{"pathology"}},
}

// subspecialtyMarker separates a parent specialty from its qualifier.
const subspecialtyMarker = " - "

var qualifierSeparator = regexp.MustCompile(`\s*-\s*`)

// Category classifies a specialty name.
func Category(name string) string {
	lower := strings.ToLower(name)
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.category
			}
		}
	}
	return CategoryOther
}

// baseName strips a trailing qualifier: "Surgery - Cardiac" becomes "Surgery".
func baseName(name string) string {
	return qualifierSeparator.Split(name, 2)[0]
}

// SpecialtyCode abbreviates the base name: initials of up to three words,
// or the first three characters of a single word.
func SpecialtyCode(name string) string {
	return abbreviate(baseName(name), 3)
}

// Parent returns the parent specialty name of a subspecialty, and false for
// top-level specialties.
func Parent(name string) (string, bool) {
	if !strings.Contains(name, subspecialtyMarker) {
		return "", false
	}
	return baseName(name), true
}

// Specialties derives dimension candidates from discipline rows.
func Specialties(rows []source.DisciplineRow) []staging.Specialty {
	out := make([]staging.Specialty, 0, len(rows))
	for _, r := range rows {
		category := Category(r.Discipline)
		parent, isSub := Parent(r.Discipline)
		out = append(out, staging.Specialty{
			Name:           r.Discipline,
			RawID:          r.DisciplineID,
			Code:           SpecialtyCode(r.Discipline),
			Category:       category,
			IsSubspecialty: isSub,
			ParentName:     parent,
			IsPrimaryCare:  category == CategoryPrimaryCare,
		})
	}
	return out
}
