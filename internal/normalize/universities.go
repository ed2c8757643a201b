package normalize

import (
	"strings"

	"github.com/specialistvlad/residencygrid/internal/staging"
)

// keyword maps a case-insensitive name fragment to a value.
type keyword struct {
	match string
	value string
}

// provinces is checked top to bottom and the first match wins.
var provinces = []keyword{
	{"Toronto", "Ontario"},
	{"McGill", "Quebec"},
	{"Montreal", "Quebec"},
	{"UBC", "British Columbia"},
	{"Vancouver", "British Columbia"},
	{"Alberta", "Alberta"},
	{"Calgary", "Alberta"},
	{"Edmonton", "Alberta"},
	{"Manitoba", "Manitoba"},
	{"Winnipeg", "Manitoba"},
	{"Saskatchewan", "Saskatchewan"},
	{"Saskatoon", "Saskatchewan"},
	{"Regina", "Saskatchewan"},
	{"Dalhousie", "Nova Scotia"},
	{"Halifax", "Nova Scotia"},
	{"Memorial", "Newfoundland and Labrador"},
	{"Newfoundland", "Newfoundland and Labrador"},
	{"Ottawa", "Ontario"},
	{"Queen", "Ontario"},
	{"Kingston", "Ontario"},
	{"McMaster", "Ontario"},
	{"Hamilton", "Ontario"},
	{"Western", "Ontario"},
	{"London", "Ontario"},
	{"Laval", "Quebec"},
	{"Sherbrooke", "Quebec"},
}

var francophoneKeywords = []string{"laval", "montreal", "sherbrooke", "mcgill"}

// UnknownCode is assigned to names that produce no code.
const UnknownCode = "UNK"

// Province returns the province for a university name, or "" when no
// keyword matches.
func Province(name string) string {
	lower := strings.ToLower(name)
	for _, kw := range provinces {
		if strings.Contains(lower, strings.ToLower(kw.match)) {
			return kw.value
		}
	}
	return ""
}

// UniversityCode abbreviates a name: initials of up to four words for
// multi-word names, else the first four characters.
func UniversityCode(name string) string {
	return abbreviate(name, 4)
}

// IsFrancophone reports whether a university name matches a francophone
// keyword.
func IsFrancophone(name string) bool {
	lower := strings.ToLower(name)
	for _, kw := range francophoneKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// Universities derives one dimension candidate per distinct university name,
// in order of first appearance.
func Universities(programs []staging.Program) []staging.University {
	seen := make(map[string]bool)
	var out []staging.University
	for _, p := range programs {
		if seen[p.UniversityName] {
			continue
		}
		seen[p.UniversityName] = true
		out = append(out, staging.University{
			Name:          p.UniversityName,
			RawID:         p.UniversityRawID,
			Code:          UniversityCode(p.UniversityName),
			Province:      Province(p.UniversityName),
			IsFrancophone: IsFrancophone(p.UniversityName),
		})
	}
	return out
}

// abbreviate returns the upper-cased initials (at most n) of a multi-word
// name, or its first n characters when it is a single word.
func abbreviate(name string, n int) string {
	words := strings.Fields(name)
	switch len(words) {
	case 0:
		return UnknownCode
	case 1:
		return strings.ToUpper(truncate(words[0], n))
	}
	var b strings.Builder
	for _, w := range words {
		r := []rune(w)
		b.WriteRune(r[0])
	}
	return strings.ToUpper(truncate(b.String(), n))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
