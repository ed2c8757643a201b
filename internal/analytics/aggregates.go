package analytics

import (
	"math"
	"slices"
)

// ProgramSummary counts programs and quota per specialty and university.
type ProgramSummary struct {
	SpecialtyName     string `json:"specialty_name"`
	SpecialtyCategory string `json:"specialty_category"`
	UniversityName    string `json:"university_name"`
	Province          string `json:"province"`
	ProgramCount      int    `json:"program_count"`
	TotalQuota        int    `json:"total_quota"`
}

// ProgramSummaries groups programs by specialty and university. A program
// without a quota contributes 0.
func ProgramSummaries(s *Snapshot) []ProgramSummary {
	groups := make(map[[4]string]*ProgramSummary)
	for _, j := range s.joinPrograms() {
		key := [4]string{j.specialty.Name, j.specialty.Category, j.university.Name, j.university.Province}
		g, ok := groups[key]
		if !ok {
			g = &ProgramSummary{
				SpecialtyName:     key[0],
				SpecialtyCategory: key[1],
				UniversityName:    key[2],
				Province:          key[3],
			}
			groups[key] = g
		}
		g.ProgramCount++
		g.TotalQuota += quota(j.program)
	}
	return sorted(groups, func(r ProgramSummary) []string {
		return []string{r.SpecialtyName, r.UniversityName, r.SpecialtyCategory, r.Province}
	})
}

// RequirementsBySpecialty counts requirement types per specialty.
type RequirementsBySpecialty struct {
	SpecialtyName     string `json:"specialty_name"`
	SpecialtyCategory string `json:"specialty_category"`
	RequirementType   string `json:"requirement_type"`
	RequirementCount  int    `json:"requirement_count"`
	MandatoryCount    int    `json:"mandatory_count"`
	OptionalCount     int    `json:"optional_count"`
}

// RequirementsBySpecialties groups requirements by the specialty of their
// program and the requirement type.
func RequirementsBySpecialties(s *Snapshot) []RequirementsBySpecialty {
	programs := s.joinPrograms()
	groups := make(map[[3]string]*RequirementsBySpecialty)
	for _, r := range s.Requirements {
		j, ok := programs[r.ProgramID]
		if !ok {
			continue
		}
		key := [3]string{j.specialty.Name, j.specialty.Category, r.Type}
		g, ok := groups[key]
		if !ok {
			g = &RequirementsBySpecialty{SpecialtyName: key[0], SpecialtyCategory: key[1], RequirementType: key[2]}
			groups[key] = g
		}
		g.RequirementCount++
		if r.IsMandatory {
			g.MandatoryCount++
		} else {
			g.OptionalCount++
		}
	}
	return sorted(groups, func(r RequirementsBySpecialty) []string {
		return []string{r.SpecialtyName, r.RequirementType, r.SpecialtyCategory}
	})
}

// CriteriaTrend summarizes one criterion type within a specialty category.
type CriteriaTrend struct {
	SpecialtyCategory string `json:"specialty_category"`
	CriterionType     string `json:"criterion_type"`
	// MentionCount is the number of criterion records.
	MentionCount int `json:"mention_count"`
	// KeywordMentions sums the keyword hits behind those records.
	KeywordMentions       int     `json:"keyword_mentions"`
	ProgramCount          int     `json:"program_count"`
	AvgMentionsPerProgram float64 `json:"avg_mentions_per_program"`
}

// SelectionCriteriaTrends groups criteria by specialty category and type.
func SelectionCriteriaTrends(s *Snapshot) []CriteriaTrend {
	programs := s.joinPrograms()
	groups := make(map[[2]string]*CriteriaTrend)
	distinct := make(map[[2]string]map[int64]bool)
	for _, c := range s.Criteria {
		j, ok := programs[c.ProgramID]
		if !ok {
			continue
		}
		key := [2]string{j.specialty.Category, c.Type}
		g, ok := groups[key]
		if !ok {
			g = &CriteriaTrend{SpecialtyCategory: key[0], CriterionType: key[1]}
			groups[key] = g
			distinct[key] = make(map[int64]bool)
		}
		g.MentionCount++
		g.KeywordMentions += c.Mentions
		distinct[key][c.ProgramID] = true
	}
	for key, g := range groups {
		g.ProgramCount = len(distinct[key])
		if g.ProgramCount > 0 {
			g.AvgMentionsPerProgram = float64(g.MentionCount) / float64(g.ProgramCount)
		}
	}
	return sorted(groups, func(r CriteriaTrend) []string {
		return []string{r.SpecialtyCategory, r.CriterionType}
	})
}

// GeographicDistribution counts programs per location and category.
type GeographicDistribution struct {
	Province          string `json:"province"`
	City              string `json:"city"`
	SpecialtyCategory string `json:"specialty_category"`
	ProgramCount      int    `json:"program_count"`
	TotalQuota        int    `json:"total_quota"`
}

// GeographicDistributions groups programs by the province and city of their
// university and their specialty category. Missing geography is reported as
// Unknown.
func GeographicDistributions(s *Snapshot) []GeographicDistribution {
	groups := make(map[[3]string]*GeographicDistribution)
	for _, j := range s.joinPrograms() {
		key := [3]string{orUnknown(j.university.Province), orUnknown(j.university.City), j.specialty.Category}
		g, ok := groups[key]
		if !ok {
			g = &GeographicDistribution{Province: key[0], City: key[1], SpecialtyCategory: key[2]}
			groups[key] = g
		}
		g.ProgramCount++
		g.TotalQuota += quota(j.program)
	}
	return sorted(groups, func(r GeographicDistribution) []string {
		return []string{r.Province, r.City, r.SpecialtyCategory}
	})
}

// Competitiveness categories.
const (
	HighlyCompetitive     = "Highly Competitive"
	ModeratelyCompetitive = "Moderately Competitive"
	LessCompetitive       = "Less Competitive"
)

// Competitiveness ranks specialties by available positions per program.
type Competitiveness struct {
	SpecialtyName      string  `json:"specialty_name"`
	ProgramCount       int     `json:"program_count"`
	TotalQuota         int     `json:"total_quota"`
	AvgQuotaPerProgram float64 `json:"avg_quota_per_program"`
	// Rank is 1 for the lowest average quota. Ties share the mean of the
	// ranks they span.
	Rank     float64 `json:"competitiveness_rank"`
	Category string  `json:"competitiveness_category"`
}

// SpecialtyCompetitiveness folds the program summary per specialty and
// ranks specialties by average quota, ascending. The rank divided by the
// number of specialties sorts each into a tercile: up to 0.33 is highly
// competitive, up to 0.66 moderately, the rest less.
func SpecialtyCompetitiveness(summary []ProgramSummary) []Competitiveness {
	bySpecialty := make(map[string]*Competitiveness)
	for _, row := range summary {
		c, ok := bySpecialty[row.SpecialtyName]
		if !ok {
			c = &Competitiveness{SpecialtyName: row.SpecialtyName}
			bySpecialty[row.SpecialtyName] = c
		}
		c.ProgramCount += row.ProgramCount
		c.TotalQuota += row.TotalQuota
	}

	rows := make([]Competitiveness, 0, len(bySpecialty))
	for _, c := range bySpecialty {
		if c.ProgramCount > 0 {
			c.AvgQuotaPerProgram = math.Round(float64(c.TotalQuota)/float64(c.ProgramCount)*100) / 100
		}
		rows = append(rows, *c)
	}
	slices.SortFunc(rows, func(a, b Competitiveness) int {
		if a.AvgQuotaPerProgram != b.AvgQuotaPerProgram {
			if a.AvgQuotaPerProgram < b.AvgQuotaPerProgram {
				return -1
			}
			return 1
		}
		return compareKeys([]string{a.SpecialtyName}, []string{b.SpecialtyName})
	})

	total := float64(len(rows))
	for start := 0; start < len(rows); {
		end := start
		for end+1 < len(rows) && rows[end+1].AvgQuotaPerProgram == rows[start].AvgQuotaPerProgram {
			end++
		}
		rank := float64(start+1+end+1) / 2
		for i := start; i <= end; i++ {
			rows[i].Rank = rank
			rows[i].Category = competitivenessCategory(rank / total)
		}
		start = end + 1
	}
	return rows
}

func competitivenessCategory(pct float64) string {
	switch {
	case pct <= 0.33:
		return HighlyCompetitive
	case pct <= 0.66:
		return ModeratelyCompetitive
	default:
		return LessCompetitive
	}
}

// sorted flattens grouped rows and orders them by key.
func sorted[K comparable, R any](groups map[K]*R, key func(R) []string) []R {
	rows := make([]R, 0, len(groups))
	for _, g := range groups {
		rows = append(rows, *g)
	}
	slices.SortFunc(rows, func(a, b R) int {
		return compareKeys(key(a), key(b))
	})
	return rows
}
