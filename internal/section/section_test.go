package section

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		titles []string
		bodies map[string]string
	}{
		{
			name:   "two sections",
			text:   "# Eligibility\nMust hold an MD\n# Prerequisites\nNone",
			titles: []string{"Eligibility", "Prerequisites"},
			bodies: map[string]string{"Eligibility": "Must hold an MD", "Prerequisites": "None"},
		},
		{
			name:   "no headings yields one untitled section",
			text:   "  just some text\nover two lines  ",
			titles: []string{""},
			bodies: map[string]string{"": "just some text\nover two lines"},
		},
		{
			name:   "empty input",
			text:   "",
			titles: []string{""},
			bodies: map[string]string{"": ""},
		},
		{
			name:   "preamble is kept under the untitled section",
			text:   "Intro line\n\n## Program Overview\nGreat program.\n",
			titles: []string{"", "Program Overview"},
			bodies: map[string]string{"": "Intro line", "Program Overview": "Great program."},
		},
		{
			name:   "blank preamble is dropped",
			text:   "\n\n# A\nbody",
			titles: []string{"A"},
			bodies: map[string]string{"A": "body"},
		},
		{
			name:   "duplicate headings are last wins at first position",
			text:   "# A\nfirst\n# B\nmiddle\n# A\nsecond",
			titles: []string{"A", "B"},
			bodies: map[string]string{"A": "second", "B": "middle"},
		},
		{
			name:   "multi-line bodies and deep headings",
			text:   "### Curriculum\n\nYear one.\nYear two.\n\n#Contact Information\r\nemail@example.org\r\n",
			titles: []string{"Curriculum", "Contact Information"},
			bodies: map[string]string{"Curriculum": "Year one.\nYear two.", "Contact Information": "email@example.org"},
		},
		{
			name:   "empty section body",
			text:   "# Empty\n# Full\nx",
			titles: []string{"Empty", "Full"},
			bodies: map[string]string{"Empty": "", "Full": "x"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := Parse(tc.text)
			assert.Equal(t, tc.titles, s.Titles())
			assert.Equal(t, len(tc.titles), s.Len())
			for title, want := range tc.bodies {
				got, ok := s.Get(title)
				require.True(t, ok, "missing section %q", title)
				assert.Equal(t, want, got)
			}
		})
	}
}

func TestLookupMissing(t *testing.T) {
	s := Parse("# A\nx")
	_, ok := s.Get("B")
	assert.False(t, ok)
	assert.Equal(t, "", s.Lookup("B"))
	assert.Equal(t, []Section{{Title: "A", Body: "x"}}, s.All())
}
