// Package section splits markdown-like program descriptions into titled
// sections.
//
// A heading is any line starting with '#'. The title is the line with its
// leading '#' characters and surrounding whitespace removed, and the body is
// every line up to the next heading, joined with "\n" and trimmed. Text
// before the first heading belongs to the untitled section "". A document
// without headings is a single untitled section.
//
// When a title repeats, the later body replaces the earlier one but the
// section keeps the position where the title first appeared.
package section

import "strings"

// Marker starts a heading line.
const Marker = '#'

// Default is the title of text outside any heading.
const Default = ""

// Section is one titled block of a document.
type Section struct {
	Title string
	Body  string
}

// Sections is an ordered title to body mapping.
type Sections struct {
	order  []string
	bodies map[string]string
}

// Parse splits text into sections.
func Parse(text string) *Sections {
	s := &Sections{bodies: make(map[string]string)}

	title := Default
	var body []string
	sawHeading := false

	flush := func() {
		content := strings.TrimSpace(strings.Join(body, "\n"))
		// Leading text is only kept when there is something in it.
		if title == Default && sawHeading && content == "" {
			return
		}
		s.set(title, content)
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if len(line) > 0 && line[0] == Marker {
			sawHeading = true
			if title != Default || len(body) > 0 {
				flush()
			}
			title = strings.TrimSpace(strings.TrimLeft(line, string(Marker)))
			body = body[:0]
			continue
		}
		body = append(body, line)
	}

	if !sawHeading {
		s.set(Default, strings.TrimSpace(strings.Join(body, "\n")))
		return s
	}
	flush()
	return s
}

func (s *Sections) set(title, body string) {
	if _, ok := s.bodies[title]; !ok {
		s.order = append(s.order, title)
	}
	s.bodies[title] = body
}

// Get returns the body of a section and whether it exists.
func (s *Sections) Get(title string) (string, bool) {
	b, ok := s.bodies[title]
	return b, ok
}

// Lookup returns the body of a section, or "" when it is absent.
func (s *Sections) Lookup(title string) string {
	return s.bodies[title]
}

// Titles returns section titles in document order.
func (s *Sections) Titles() []string {
	return append([]string(nil), s.order...)
}

// Len returns the number of distinct sections.
func (s *Sections) Len() int {
	return len(s.order)
}

// All returns every section in document order.
func (s *Sections) All() []Section {
	out := make([]Section, len(s.order))
	for i, t := range s.order {
		out[i] = Section{Title: t, Body: s.bodies[t]}
	}
	return out
}
