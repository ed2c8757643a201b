package analytics

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/residencygrid/internal/warehouse"
	"github.com/specialistvlad/residencygrid/internal/warehouse/memstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intp(v int) *int { return &v }

func snapshot() *Snapshot {
	return &Snapshot{
		Universities: []warehouse.University{
			{ID: 1, Name: "University of Toronto", Province: "Ontario", City: "Toronto"},
			{ID: 2, Name: "McGill University", Province: "Quebec"},
		},
		Specialties: []warehouse.Specialty{
			{ID: 1, Name: "Family Medicine", Category: "Primary Care"},
			{ID: 2, Name: "Cardiac Surgery", Category: "Surgical"},
			{ID: 3, Name: "Psychiatry", Category: "Psychiatry"},
		},
		Programs: []warehouse.Program{
			{ID: 1, ProgramCode: "100", UniversityID: 1, SpecialtyID: 1, Quota: intp(10)},
			{ID: 2, ProgramCode: "101", UniversityID: 1, SpecialtyID: 1, Quota: intp(6)},
			{ID: 3, ProgramCode: "200", UniversityID: 2, SpecialtyID: 2, Quota: intp(2)},
			{ID: 4, ProgramCode: "300", UniversityID: 2, SpecialtyID: 3},
			{ID: 5, ProgramCode: "999", UniversityID: 9, SpecialtyID: 1, Quota: intp(50)},
		},
		Requirements: []warehouse.Requirement{
			{ID: 1, ProgramID: 1, Type: "Language", IsMandatory: true},
			{ID: 2, ProgramID: 2, Type: "Language"},
			{ID: 3, ProgramID: 3, Type: "Visa", IsMandatory: true},
			{ID: 4, ProgramID: 5, Type: "Visa"},
		},
		Criteria: []warehouse.SelectionCriterion{
			{ID: 1, ProgramID: 1, Type: "Research", Mentions: 3},
			{ID: 2, ProgramID: 2, Type: "Research", Mentions: 1},
			{ID: 3, ProgramID: 3, Type: "Leadership", Mentions: 2},
		},
	}
}

func TestProgramSummaries(t *testing.T) {
	want := []ProgramSummary{
		{SpecialtyName: "Cardiac Surgery", SpecialtyCategory: "Surgical", UniversityName: "McGill University", Province: "Quebec", ProgramCount: 1, TotalQuota: 2},
		{SpecialtyName: "Family Medicine", SpecialtyCategory: "Primary Care", UniversityName: "University of Toronto", Province: "Ontario", ProgramCount: 2, TotalQuota: 16},
		{SpecialtyName: "Psychiatry", SpecialtyCategory: "Psychiatry", UniversityName: "McGill University", Province: "Quebec", ProgramCount: 1, TotalQuota: 0},
	}
	if diff := cmp.Diff(want, ProgramSummaries(snapshot())); diff != "" {
		t.Errorf("ProgramSummaries mismatch (-want +got):\n%s", diff)
	}
}

func TestRequirementsBySpecialties(t *testing.T) {
	want := []RequirementsBySpecialty{
		{SpecialtyName: "Cardiac Surgery", SpecialtyCategory: "Surgical", RequirementType: "Visa", RequirementCount: 1, MandatoryCount: 1},
		{SpecialtyName: "Family Medicine", SpecialtyCategory: "Primary Care", RequirementType: "Language", RequirementCount: 2, MandatoryCount: 1, OptionalCount: 1},
	}
	if diff := cmp.Diff(want, RequirementsBySpecialties(snapshot())); diff != "" {
		t.Errorf("RequirementsBySpecialties mismatch (-want +got):\n%s", diff)
	}
}

func TestSelectionCriteriaTrends(t *testing.T) {
	want := []CriteriaTrend{
		{SpecialtyCategory: "Primary Care", CriterionType: "Research", MentionCount: 2, KeywordMentions: 4, ProgramCount: 2, AvgMentionsPerProgram: 1},
		{SpecialtyCategory: "Surgical", CriterionType: "Leadership", MentionCount: 1, KeywordMentions: 2, ProgramCount: 1, AvgMentionsPerProgram: 1},
	}
	if diff := cmp.Diff(want, SelectionCriteriaTrends(snapshot())); diff != "" {
		t.Errorf("SelectionCriteriaTrends mismatch (-want +got):\n%s", diff)
	}
}

func TestGeographicDistributions(t *testing.T) {
	want := []GeographicDistribution{
		{Province: "Ontario", City: "Toronto", SpecialtyCategory: "Primary Care", ProgramCount: 2, TotalQuota: 16},
		{Province: "Quebec", City: Unknown, SpecialtyCategory: "Psychiatry", ProgramCount: 1},
		{Province: "Quebec", City: Unknown, SpecialtyCategory: "Surgical", ProgramCount: 1, TotalQuota: 2},
	}
	if diff := cmp.Diff(want, GeographicDistributions(snapshot())); diff != "" {
		t.Errorf("GeographicDistributions mismatch (-want +got):\n%s", diff)
	}
}

func TestSpecialtyCompetitiveness(t *testing.T) {
	summary := []ProgramSummary{
		{SpecialtyName: "A", ProgramCount: 3, TotalQuota: 10},
		{SpecialtyName: "B", ProgramCount: 1, TotalQuota: 1},
		{SpecialtyName: "C", ProgramCount: 1, TotalQuota: 1},
		{SpecialtyName: "A", ProgramCount: 1, TotalQuota: 0},
		{SpecialtyName: "D", ProgramCount: 2, TotalQuota: 20},
	}
	want := []Competitiveness{
		{SpecialtyName: "B", ProgramCount: 1, TotalQuota: 1, AvgQuotaPerProgram: 1, Rank: 1.5, Category: ModeratelyCompetitive},
		{SpecialtyName: "C", ProgramCount: 1, TotalQuota: 1, AvgQuotaPerProgram: 1, Rank: 1.5, Category: ModeratelyCompetitive},
		{SpecialtyName: "A", ProgramCount: 4, TotalQuota: 10, AvgQuotaPerProgram: 2.5, Rank: 3, Category: LessCompetitive},
		{SpecialtyName: "D", ProgramCount: 2, TotalQuota: 20, AvgQuotaPerProgram: 10, Rank: 4, Category: LessCompetitive},
	}
	if diff := cmp.Diff(want, SpecialtyCompetitiveness(summary)); diff != "" {
		t.Errorf("SpecialtyCompetitiveness mismatch (-want +got):\n%s", diff)
	}

	three := SpecialtyCompetitiveness([]ProgramSummary{
		{SpecialtyName: "x", ProgramCount: 3, TotalQuota: 1},
		{SpecialtyName: "y", ProgramCount: 1, TotalQuota: 5},
		{SpecialtyName: "z", ProgramCount: 1, TotalQuota: 9},
	})
	require.Len(t, three, 3)
	assert.Equal(t, 0.33, three[0].AvgQuotaPerProgram)
	assert.Equal(t, ModeratelyCompetitive, three[0].Category, "1/3 is above the 0.33 cut")
	assert.Equal(t, LessCompetitive, three[1].Category, "2/3 is above the 0.66 cut")

	assert.Empty(t, SpecialtyCompetitiveness(nil))
}

func TestReadTakesSnapshot(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	require.NoError(t, store.Tx(ctx, func(ctx context.Context, tx warehouse.Tx) error {
		return tx.InsertUniversity(ctx, &warehouse.University{Name: "U"})
	}))

	s, err := Read(ctx, store)
	require.NoError(t, err)
	assert.Len(t, s.Universities, 1)
	assert.Empty(t, s.Programs)
	assert.Empty(t, ProgramSummaries(s))
}
