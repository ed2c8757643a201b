// Package linker attaches child records to fact records whose identifiers
// only loosely agree.
//
// A child identifier links to a fact code when either string contains the
// other (case-sensitive). When several facts qualify, the one that comes
// first in the slice handed to the constructor wins; callers pass facts in a
// stable order (programs by ascending id) so links are reproducible. Empty
// identifiers and empty codes never match.
package linker

import "strings"

// Match describes a successful link.
type Match struct {
	// Index is the position of the winning fact in the constructor's slice.
	Index int
	Code  string
	// Candidates counts every fact that qualified, the winner included.
	// Anything above one is an ambiguous link.
	Candidates int
}

// Ambiguous reports whether more than one fact qualified.
func (m Match) Ambiguous() bool {
	return m.Candidates > 1
}

// Linker resolves a child identifier to a fact.
type Linker interface {
	Link(id string) (Match, bool)
}

// Scan compares the identifier against every code. It is the reference
// implementation for Index.
type Scan struct {
	codes []string
}

var _ Linker = (*Scan)(nil)

// NewScan returns a linker over codes in scan order.
func NewScan(codes []string) *Scan {
	return &Scan{codes: append([]string(nil), codes...)}
}

func (s *Scan) Link(id string) (Match, bool) {
	if id == "" {
		return Match{}, false
	}
	m := Match{Index: -1}
	for i, code := range s.codes {
		if code == "" {
			continue
		}
		if !strings.Contains(id, code) && !strings.Contains(code, id) {
			continue
		}
		if m.Index < 0 {
			m.Index, m.Code = i, code
		}
		m.Candidates++
	}
	if m.Index < 0 {
		return Match{}, false
	}
	return m, true
}
