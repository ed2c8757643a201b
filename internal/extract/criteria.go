package extract

import (
	"strings"

	"github.com/specialistvlad/residencygrid/internal/staging"
)

// Excerpt window around the first keyword, in characters.
const (
	excerptRadius = 100
	maxExcerpt    = 200
)

// CriterionRule is one selection criterion category and the keywords that
// indicate it.
type CriterionRule struct {
	Type     string
	Keywords []string
}

// CriterionRules are checked in this order. Within a rule, the first
// keyword present anchors the excerpt.
var CriterionRules = []CriterionRule{
	{Type: "Academic Performance", Keywords: []string{"academic", "grades", "gpa", "transcript", "scores"}},
	{Type: "Research", Keywords: []string{"research", "publications", "scholarly"}},
	{Type: "Clinical Skills", Keywords: []string{"clinical", "clerkship", "rotations", "electives"}},
	{Type: "Leadership", Keywords: []string{"leadership", "extracurricular", "volunteer"}},
	{Type: "Personal Qualities", Keywords: []string{"personal", "character", "integrity", "compassion"}},
	{Type: "Interview Performance", Keywords: []string{"interview", "mmi", "communication"}},
	{Type: "References", Keywords: []string{"reference", "letter", "recommendation"}},
	{Type: "Fit", Keywords: []string{"fit", "alignment", "values", "culture"}},
}

// Criteria finds selection criteria categories in a description. The search
// text is the Selection Criteria section followed by the full document.
// Mentions counts how many of a category's keywords occur at least once.
func Criteria(carmsID, selectionSection, fullContent string) []staging.Criterion {
	orig, lower := lowerRunes(selectionSection + " " + fullContent)
	lowerText := string(lower)

	var out []staging.Criterion
	for _, rule := range CriterionRules {
		mentions := 0
		first := ""
		for _, kw := range rule.Keywords {
			if strings.Contains(lowerText, kw) {
				mentions++
				if first == "" {
					first = kw
				}
			}
		}
		if mentions == 0 {
			continue
		}

		pos := runeIndex(lower, first)
		start := max(0, pos-excerptRadius)
		end := min(len(orig), pos+excerptRadius)
		excerpt := truncate(strings.TrimSpace(string(orig[start:end])), maxExcerpt)

		out = append(out, staging.Criterion{
			CarmsID:     carmsID,
			Type:        rule.Type,
			Mentions:    mentions,
			Description: excerpt,
		})
	}
	return out
}
