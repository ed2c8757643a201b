package extract

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/residencygrid/internal/staging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequirements(t *testing.T) {
	t.Run("heading example is mandatory", func(t *testing.T) {
		got := Requirements("27447", "# Eligibility\nMust hold an MD\n# Prerequisites\nNone")
		want := []staging.Requirement{
			{CarmsID: "27447", Type: "Eligibility", Text: "Must hold an MD", IsMandatory: true},
			{CarmsID: "27447", Type: "Prerequisites", Text: "None", IsMandatory: false},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Requirements() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("every match is kept", func(t *testing.T) {
		content := "Eligibility: graduates of accredited schools\n\n" +
			"Some text.\n\nEligibility: applicants are required to pass MCCQE1\n\n" +
			"Language requirements: English or French proficiency\n#Next"
		got := Requirements("1", content)
		require.Len(t, got, 3)
		assert.Equal(t, "graduates of accredited schools", got[0].Text)
		assert.False(t, got[0].IsMandatory)
		assert.Equal(t, "applicants are required to pass MCCQE1", got[1].Text)
		assert.True(t, got[1].IsMandatory)
		assert.Equal(t, "Language", got[2].Type)
		assert.Equal(t, "English or French proficiency", got[2].Text)
	})

	t.Run("case-insensitive labels and visa", func(t *testing.T) {
		got := Requirements("1", "CITIZENSHIP: Canadian citizens or permanent residents\n\nvisa: no visa sponsorship")
		require.Len(t, got, 2)
		assert.Equal(t, "Citizenship", got[0].Type)
		assert.Equal(t, "Visa", got[1].Type)
		assert.Equal(t, "no visa sponsorship", got[1].Text)
	})

	t.Run("text is truncated", func(t *testing.T) {
		got := Requirements("1", "Eligibility: "+strings.Repeat("é", 800))
		require.Len(t, got, 1)
		assert.Equal(t, MaxRequirementLength, len([]rune(got[0].Text)))
	})

	t.Run("empty bodies are dropped", func(t *testing.T) {
		assert.Empty(t, Requirements("1", "Some text\nEligibility:"))
		assert.Empty(t, Requirements("1", "no labels here"))
	})
}

func TestCriteria(t *testing.T) {
	section := "Our values: research and scholarly activity, strong reference letters and a good interview."
	got := Criteria("27447", section, "# Selection Criteria\n"+section)

	types := make([]string, len(got))
	for i, c := range got {
		types[i] = c.Type
	}
	assert.Equal(t, []string{"Research", "Interview Performance", "References", "Fit"}, types)

	research := got[0]
	assert.Equal(t, 2, research.Mentions)
	assert.Contains(t, research.Description, "research")
	assert.LessOrEqual(t, len([]rune(research.Description)), 200)

	// "letter" and "reference" both count; "values" is the only Fit keyword.
	assert.Equal(t, 2, got[2].Mentions)
	assert.Equal(t, 1, got[3].Mentions)
}

func TestCriteriaExcerptWindow(t *testing.T) {
	content := strings.Repeat("x", 300) + " GPA " + strings.Repeat("y", 300)
	got := Criteria("1", "", content)
	require.Len(t, got, 1)
	assert.Equal(t, "Academic Performance", got[0].Type)
	assert.Equal(t, 1, got[0].Mentions)
	assert.Contains(t, got[0].Description, "GPA")
	assert.Len(t, []rune(got[0].Description), 200)
}

func TestTrainingSites(t *testing.T) {
	content := "Residents complete rotations at several sites. " +
		"Toronto General Hospital is our main teaching hospital. " +
		"Rural family clinic placements are available. " +
		"Community hospital electives run in year two. " +
		"Toronto General Hospital is our main teaching hospital. " +
		"The program is three years long."

	got := TrainingSites("27447", content)
	want := []staging.TrainingSite{
		{CarmsID: "27447", Name: "Toronto General Hospital is our main teaching hospital", Type: SiteAcademicCenter},
		{CarmsID: "27447", Name: "Rural family clinic placements are available", Type: SiteClinic},
		{CarmsID: "27447", Name: "Community hospital electives run in year two", Type: SiteCommunity},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("TrainingSites() mismatch (-want +got):\n%s", diff)
	}

	assert.Nil(t, TrainingSites("1", "St. Michael's Hospital is nice."))
}

func TestSiteType(t *testing.T) {
	assert.Equal(t, SiteHospital, SiteType("general hospital"))
	assert.Equal(t, SiteClinic, SiteType("community clinic"))
	assert.Equal(t, SiteCommunity, SiteType("community hospital"))
	assert.Equal(t, SiteAcademicCenter, SiteType("academic health centre"))
}

func TestDedupeSites(t *testing.T) {
	in := []staging.TrainingSite{
		{CarmsID: "1", Name: "A"},
		{CarmsID: "2", Name: "A"},
		{CarmsID: "1", Name: "A", Type: "later"},
	}
	out := DedupeSites(in)
	require.Len(t, out, 2)
	assert.Equal(t, "", out[0].Type)
}

func TestDescribe(t *testing.T) {
	content := "Intro\n# Program Overview\nA program.\n## Curriculum Highlights\nCore rotations.\n" +
		"# Selection Criteria\nResearch matters.\n# Application Process\nApply online.\n# Contact Information\nPD"
	d := Describe("1503|27447", "https://example.org/27447", content)

	assert.Equal(t, "27447", d.CarmsID)
	assert.Equal(t, "https://example.org/27447", d.SourceURL)
	assert.Equal(t, "A program.", d.ProgramOverview)
	assert.Equal(t, "Core rotations.", d.Curriculum)
	assert.Equal(t, "Research matters.", d.SelectionCriteria)
	assert.Equal(t, "Apply online.", d.ApplicationProcess)
	assert.Equal(t, "PD", d.ContactInfo)
	assert.Equal(t, []string{"Program Overview", "Curriculum Highlights", "Selection Criteria", "Application Process", "Contact Information"}, d.ContentSections)
	assert.Equal(t, len(content), d.TotalLength)

	withBoth := Describe("x", "", "# Curriculum\nmain\n# Curriculum Highlights\nfallback")
	assert.Equal(t, "main", withBoth.Curriculum)
	assert.Equal(t, "x", withBoth.CarmsID)
}
