package linker

import "sort"

// Index answers the same question as Scan from lookup tables built once:
// every code by value, and every substring of every code. A lookup then
// costs one probe per substring of the identifier plus one for the whole
// identifier, independent of the number of facts.
type Index struct {
	codes []string
	// exact maps a code to the positions holding it.
	exact map[string][]int
	// within maps each substring of a code to the positions whose code
	// contains it.
	within map[string][]int
}

var _ Linker = (*Index)(nil)

// NewIndex builds the lookup tables for codes in scan order.
func NewIndex(codes []string) *Index {
	ix := &Index{
		codes:  append([]string(nil), codes...),
		exact:  make(map[string][]int),
		within: make(map[string][]int),
	}
	for i, code := range ix.codes {
		if code == "" {
			continue
		}
		ix.exact[code] = append(ix.exact[code], i)
		seen := make(map[string]bool)
		for start := 0; start < len(code); start++ {
			for end := start + 1; end <= len(code); end++ {
				sub := code[start:end]
				if seen[sub] {
					continue
				}
				seen[sub] = true
				ix.within[sub] = append(ix.within[sub], i)
			}
		}
	}
	return ix
}

func (ix *Index) Link(id string) (Match, bool) {
	if id == "" {
		return Match{}, false
	}
	hits := make(map[int]bool)
	// Codes contained in the identifier.
	for start := 0; start < len(id); start++ {
		for end := start + 1; end <= len(id); end++ {
			for _, i := range ix.exact[id[start:end]] {
				hits[i] = true
			}
		}
	}
	// Codes containing the identifier.
	for _, i := range ix.within[id] {
		hits[i] = true
	}
	if len(hits) == 0 {
		return Match{}, false
	}

	positions := make([]int, 0, len(hits))
	for i := range hits {
		positions = append(positions, i)
	}
	sort.Ints(positions)
	first := positions[0]
	return Match{Index: first, Code: ix.codes[first], Candidates: len(positions)}, true
}
