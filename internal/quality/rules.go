package quality

import (
	"fmt"

	"github.com/specialistvlad/residencygrid/internal/asset"
	"github.com/specialistvlad/residencygrid/internal/config"
	"github.com/specialistvlad/residencygrid/internal/staging"
	"github.com/specialistvlad/residencygrid/internal/warehouse"
)

// percent returns part/whole as a percentage, 0 for an empty whole.
func percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) * 100 / float64(whole)
}

// Completeness measures how many of the required program fields are
// filled. An empty input scores 0.
func Completeness(programs []staging.Program, min float64) asset.CheckResult {
	fields := []struct {
		name  string
		value func(staging.Program) string
	}{
		{"program_code", func(p staging.Program) string { return p.Code }},
		{"program_name", func(p staging.Program) string { return p.Name }},
		{"university_name", func(p staging.Program) string { return p.UniversityName }},
		{"specialty_name", func(p staging.Program) string { return p.SpecialtyName }},
	}

	missingByField := make(map[string]int, len(fields))
	missing := 0
	for _, f := range fields {
		n := 0
		for _, p := range programs {
			if f.value(p) == "" {
				n++
			}
		}
		missingByField[f.name] = n
		missing += n
	}
	total := len(programs) * len(fields)
	pct := percent(total-missing, total)

	return asset.CheckResult{
		Passed:      pct >= min,
		Metric:      pct,
		Unit:        asset.UnitPercent,
		Description: fmt.Sprintf("Data completeness: %.1f%% (threshold: %g%%)", pct, min),
		Metadata: map[string]any{
			"completeness_percentage": pct,
			"missing_by_field":        missingByField,
			"total_records":           len(programs),
		},
	}
}

// duplicateCodes lists codes occurring more than once, in order of first
// appearance.
func duplicateCodes(codes []string) []string {
	seen := make(map[string]int, len(codes))
	var order []string
	for _, c := range codes {
		if seen[c] == 0 {
			order = append(order, c)
		}
		seen[c]++
	}
	var dups []string
	for _, c := range order {
		if seen[c] > 1 {
			dups = append(dups, c)
		}
	}
	return dups
}

// Duplicates passes when every program code is unique.
func Duplicates(programs []staging.Program) asset.CheckResult {
	codes := make([]string, len(programs))
	for i, p := range programs {
		codes[i] = p.Code
	}
	dups := duplicateCodes(codes)
	listed := dups
	if len(listed) > MaxListedDuplicates {
		listed = listed[:MaxListedDuplicates]
	}

	return asset.CheckResult{
		Passed:      len(dups) == 0,
		Metric:      float64(len(dups)),
		Unit:        asset.UnitCount,
		Description: fmt.Sprintf("Found %d duplicate program codes", len(dups)),
		Metadata: map[string]any{
			"duplicate_count": len(dups),
			"total_programs":  len(programs),
			"duplicate_codes": append([]string{}, listed...),
		},
	}
}

// Validity measures the share of programs flagged valid during staging.
// An empty input scores 0.
func Validity(programs []staging.Program, min float64) asset.CheckResult {
	invalid := 0
	for _, p := range programs {
		if !p.Valid {
			invalid++
		}
	}
	pct := percent(len(programs)-invalid, len(programs))

	return asset.CheckResult{
		Passed:      pct >= min,
		Metric:      pct,
		Unit:        asset.UnitPercent,
		Description: fmt.Sprintf("Validity: %.1f%% (%d invalid programs)", pct, invalid),
		Metadata: map[string]any{
			"validity_percentage": pct,
			"invalid_count":       invalid,
			"total_programs":      len(programs),
		},
	}
}

// ReferentialIntegrity counts programs pointing at dimension rows that do
// not exist.
func ReferentialIntegrity(programs []warehouse.Program, universities []warehouse.University, specialties []warehouse.Specialty) asset.CheckResult {
	uids := make(map[int64]bool, len(universities))
	for _, u := range universities {
		uids[u.ID] = true
	}
	sids := make(map[int64]bool, len(specialties))
	for _, s := range specialties {
		sids[s.ID] = true
	}

	var orphanUniversity, orphanSpecialty int
	for _, p := range programs {
		if !uids[p.UniversityID] {
			orphanUniversity++
		}
		if !sids[p.SpecialtyID] {
			orphanSpecialty++
		}
	}
	total := orphanUniversity + orphanSpecialty

	return asset.CheckResult{
		Passed:      total == 0,
		Metric:      float64(total),
		Unit:        asset.UnitCount,
		Description: fmt.Sprintf("Referential integrity: %d orphaned references", total),
		Metadata: map[string]any{
			"orphaned_university_refs": orphanUniversity,
			"orphaned_specialty_refs":  orphanSpecialty,
			"total_orphaned":           total,
		},
	}
}

// BusinessRules validates loaded programs: codes are unique, a set quota
// is at least 1 and the CaRMS year lies within the configured range.
func BusinessRules(programs []warehouse.Program, q config.Quality) asset.CheckResult {
	codes := make([]string, len(programs))
	var badQuota, badYear int
	for i, p := range programs {
		codes[i] = p.ProgramCode
		if p.Quota != nil && *p.Quota < 1 {
			badQuota++
		}
		if p.CarmsYear < q.MinCarmsYear || p.CarmsYear > q.MaxCarmsYear {
			badYear++
		}
	}

	violations := []string{}
	if n := len(duplicateCodes(codes)); n > 0 {
		violations = append(violations, fmt.Sprintf("Duplicate program codes: %d", n))
	}
	if badQuota > 0 {
		violations = append(violations, fmt.Sprintf("Invalid quotas (< 1): %d", badQuota))
	}
	if badYear > 0 {
		violations = append(violations, fmt.Sprintf("Invalid CaRMS years: %d", badYear))
	}

	return asset.CheckResult{
		Passed:      len(violations) == 0,
		Metric:      float64(len(violations)),
		Unit:        asset.UnitCount,
		Description: fmt.Sprintf("Business rules: %d violations", len(violations)),
		Metadata: map[string]any{
			"violation_count": len(violations),
			"violations":      violations,
		},
	}
}
