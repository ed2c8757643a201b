package asset

import "github.com/specialistvlad/residencygrid/internal/dag"

// Selection chooses which assets a run materializes. The zero value, and any
// selection with All set, picks every asset.
type Selection struct {
	All    bool
	Groups []string
	Names  []string
}

// IsAll reports whether the selection covers the whole graph.
func (s Selection) IsAll() bool {
	return s.All || (len(s.Groups) == 0 && len(s.Names) == 0)
}

// Selected is the result of resolving a Selection.
type Selected struct {
	// Order is the dependency closure in execution order.
	Order []string
	// Requested marks the assets picked directly; the rest of Order was
	// pulled in as upstream dependencies.
	Requested map[string]bool
	// Structure is the dependency structure Order was resolved against.
	Structure *dag.Graph
}

// Select expands a selection to its dependency closure, in execution order.
// Validation and expansion see the same asset set.
func (g *Graph) Select(sel Selection) (*Selected, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.build(); err != nil {
		return nil, err
	}
	order := append([]string(nil), g.order...)

	requested := make(map[string]bool)
	if sel.IsAll() {
		for _, n := range order {
			requested[n] = true
		}
		return &Selected{Order: order, Requested: requested, Structure: g.structure}, nil
	}

	groups := make(map[string]bool)
	for _, n := range g.names {
		groups[g.assets[n].Group] = true
	}
	for _, grp := range sel.Groups {
		if grp == "" || !groups[grp] {
			return nil, &UnknownSelectionError{Kind: "group", Name: grp}
		}
	}
	for _, n := range g.names {
		for _, grp := range sel.Groups {
			if g.assets[n].Group == grp {
				requested[n] = true
			}
		}
	}
	for _, n := range sel.Names {
		if _, ok := g.assets[n]; !ok {
			return nil, &UnknownSelectionError{Kind: "asset", Name: n}
		}
		requested[n] = true
	}

	roots := make([]string, 0, len(requested))
	for n := range requested {
		roots = append(roots, n)
	}
	closure, err := g.structure.Ancestors(roots...)
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, len(closure))
	for _, n := range order {
		if closure[n] {
			out = append(out, n)
		}
	}
	return &Selected{Order: out, Requested: requested, Structure: g.structure}, nil
}
