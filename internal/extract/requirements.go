package extract

import (
	"regexp"
	"strings"

	"github.com/specialistvlad/residencygrid/internal/staging"
)

// MaxRequirementLength bounds the stored text of a requirement, in characters.
const MaxRequirementLength = 500

// RequirementRule finds one requirement category.
type RequirementRule struct {
	Type  string
	Label *regexp.Regexp
}

// RequirementRules are applied in this order.
var RequirementRules = []RequirementRule{
	{Type: "Eligibility", Label: regexp.MustCompile(`(?i)eligibility[:\s]+`)},
	{Type: "Prerequisites", Label: regexp.MustCompile(`(?i)prerequisite[s]?[:\s]+`)},
	{Type: "Language", Label: regexp.MustCompile(`(?i)language requirement[s]?[:\s]+`)},
	{Type: "Citizenship", Label: regexp.MustCompile(`(?i)citizenship[:\s]+`)},
	{Type: "Visa", Label: regexp.MustCompile(`(?i)visa[:\s]+`)},
}

// bodyEnd is where a requirement body stops: a blank line or a heading.
var bodyEnd = []string{"\n\n", "\n#"}

// mandatoryMarkers flag a requirement as mandatory.
var mandatoryMarkers = []string{"required", "must"}

// Requirements extracts every requirement mention from a document. Each
// label match yields its own record; nothing is deduplicated here.
func Requirements(carmsID, content string) []staging.Requirement {
	var out []staging.Requirement
	for _, rule := range RequirementRules {
		for _, text := range matchBodies(rule.Label, content) {
			text = truncate(strings.TrimSpace(text), MaxRequirementLength)
			if text == "" {
				continue
			}
			out = append(out, staging.Requirement{
				CarmsID:     carmsID,
				Type:        rule.Type,
				Text:        text,
				IsMandatory: IsMandatory(text),
			})
		}
	}
	return out
}

// IsMandatory reports whether requirement text contains a mandatory marker.
func IsMandatory(text string) bool {
	return containsAny(strings.ToLower(text), mandatoryMarkers)
}

// matchBodies returns the text following each label match, up to the next
// blank line, heading, or end of content. Scanning resumes where a body ends.
func matchBodies(label *regexp.Regexp, content string) []string {
	var bodies []string
	pos := 0
	for pos < len(content) {
		loc := label.FindStringIndex(content[pos:])
		if loc == nil {
			break
		}
		start := pos + loc[1]
		end := len(content)
		for _, sep := range bodyEnd {
			if i := strings.Index(content[start:], sep); i >= 0 && start+i < end {
				end = start + i
			}
		}
		bodies = append(bodies, content[start:end])
		// Labels never match empty, so end > pos.
		pos = end
	}
	return bodies
}
