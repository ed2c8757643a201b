package extract

import (
	"strings"

	"github.com/specialistvlad/residencygrid/internal/staging"
)

// MaxSiteName bounds a training site name, in characters.
const MaxSiteName = 200

// Site types.
const (
	SiteHospital       = "Hospital"
	SiteClinic         = "Clinic"
	SiteCommunity      = "Community"
	SiteAcademicCenter = "Academic Medical Center"
)

var (
	siteTriggers = []string{"training", "rotation", "site"}
	siteKeywords = []string{
		"hospital", "medical center", "health centre", "clinic",
		"training site", "rotation site", "teaching hospital",
	}
)

// TrainingSites collects sentences that name a clinical location. Documents
// that never talk about training, rotations or sites yield nothing.
// Results are deduplicated by name, keeping the first occurrence.
func TrainingSites(carmsID, content string) []staging.TrainingSite {
	if !containsAny(strings.ToLower(content), siteTriggers) {
		return nil
	}

	seen := make(map[string]bool)
	var out []staging.TrainingSite
	for _, sentence := range strings.Split(content, ".") {
		lower := strings.ToLower(sentence)
		if !containsAny(lower, siteKeywords) {
			continue
		}
		name := truncate(strings.TrimSpace(sentence), MaxSiteName)
		if seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, staging.TrainingSite{
			CarmsID: carmsID,
			Name:    name,
			Type:    SiteType(lower),
		})
	}
	return out
}

// SiteType classifies a lower-cased sentence. Checks run in order and the
// first hit wins.
func SiteType(lower string) string {
	switch {
	case strings.Contains(lower, "clinic"):
		return SiteClinic
	case strings.Contains(lower, "community"):
		return SiteCommunity
	case strings.Contains(lower, "academic"), strings.Contains(lower, "teaching"):
		return SiteAcademicCenter
	default:
		return SiteHospital
	}
}

// DedupeSites drops repeated (carms id, name) pairs across documents,
// keeping the first.
func DedupeSites(sites []staging.TrainingSite) []staging.TrainingSite {
	type key struct{ id, name string }
	seen := make(map[key]bool, len(sites))
	out := sites[:0:0]
	for _, s := range sites {
		k := key{s.CarmsID, s.Name}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, s)
	}
	return out
}
