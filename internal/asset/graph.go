package asset

import (
	"fmt"
	"sync"

	"github.com/specialistvlad/residencygrid/internal/dag"
)

// Graph owns a set of assets and derives their execution order.
//
// The order is computed on first use and cached until the asset set changes.
type Graph struct {
	mu     sync.RWMutex
	assets map[string]*Asset
	names  []string // registration order

	structure *dag.Graph
	order     []string
}

// NewGraph creates an empty asset graph.
func NewGraph() *Graph {
	return &Graph{assets: make(map[string]*Asset)}
}

// Register adds an asset. Dependencies are resolved lazily by Build, so
// assets can be registered in any order. A dependency listed more than once
// is kept once.
func (g *Graph) Register(a *Asset) error {
	if a == nil || a.Name == "" {
		return fmt.Errorf("asset must have a name")
	}
	if a.Materialize == nil {
		return fmt.Errorf("asset %q has no materialize function", a.Name)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.assets[a.Name]; ok {
		return &DuplicateAssetError{Name: a.Name}
	}
	a.Deps = uniqueDeps(a.Deps)
	g.assets[a.Name] = a
	g.names = append(g.names, a.Name)
	g.invalidate()
	return nil
}

// MustRegister is Register for static catalogues, where a failure is a
// programming error.
func (g *Graph) MustRegister(assets ...*Asset) {
	for _, a := range assets {
		if err := g.Register(a); err != nil {
			panic(err)
		}
	}
}

// Remove deletes an asset by name. It reports whether the asset existed.
func (g *Graph) Remove(name string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.assets[name]; !ok {
		return false
	}
	delete(g.assets, name)
	for i, n := range g.names {
		if n == name {
			g.names = append(g.names[:i], g.names[i+1:]...)
			break
		}
	}
	g.invalidate()
	return true
}

// Get looks up an asset by name.
func (g *Graph) Get(name string) (*Asset, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	a, ok := g.assets[name]
	return a, ok
}

// Assets returns all assets in registration order.
func (g *Graph) Assets() []*Asset {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]*Asset, len(g.names))
	for i, n := range g.names {
		out[i] = g.assets[n]
	}
	return out
}

// Groups returns the distinct group names in registration order.
func (g *Graph) Groups() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	seen := make(map[string]bool)
	var out []string
	for _, n := range g.names {
		grp := g.assets[n].Group
		if grp != "" && !seen[grp] {
			seen[grp] = true
			out = append(out, grp)
		}
	}
	return out
}

// Build validates the graph and returns the execution order. A cycle yields
// a *dag.CycleError and no order.
func (g *Graph) Build() ([]string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.build(); err != nil {
		return nil, err
	}
	return append([]string(nil), g.order...), nil
}

// uniqueDeps drops repeated names, keeping first-seen order.
func uniqueDeps(deps []string) []string {
	seen := make(map[string]bool, len(deps))
	out := make([]string, 0, len(deps))
	for _, d := range deps {
		if !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}
	return out
}

func (g *Graph) invalidate() {
	g.structure = nil
	g.order = nil
}

// build populates the cache. Callers must hold the write lock.
func (g *Graph) build() error {
	if g.structure != nil {
		return nil
	}

	d := dag.New()
	for _, n := range g.names {
		d.AddNode(n)
	}
	for _, n := range g.names {
		for _, dep := range g.assets[n].Deps {
			if dep == n {
				return &dag.CycleError{Node: n, Cycle: []string{n, n}}
			}
			if _, ok := g.assets[dep]; !ok {
				return &UnknownDependencyError{Asset: n, Dependency: dep}
			}
			if err := d.AddEdge(dep, n); err != nil {
				return fmt.Errorf("linking %q to %q: %w", n, dep, err)
			}
		}
	}

	order, err := d.TopologicalSort()
	if err != nil {
		return err
	}
	g.structure = d
	g.order = order
	return nil
}
