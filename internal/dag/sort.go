package dag

import (
	"fmt"
	"strings"
)

// CycleError reports a circular dependency. Cycle lists the node IDs along
// the loop, starting and ending with the same node.
type CycleError struct {
	Node  string
	Cycle []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle detected involving '%s': %s", e.Node, strings.Join(e.Cycle, " -> "))
}

// TopologicalSort returns every node ID ordered so that each node appears
// after all of its dependencies. Ties are broken by insertion order. If the
// graph contains a cycle, a *CycleError is returned and no order is produced.
func (g *Graph) TopologicalSort() ([]string, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	all := g.sortedNodes()
	indegree := make(map[string]int, len(all))
	for _, n := range all {
		indegree[n.id] = len(n.deps)
	}

	// The ready list stays sorted by seq, so the output is stable.
	var ready []*node
	for _, n := range all {
		if indegree[n.id] == 0 {
			ready = append(ready, n)
		}
	}

	order := make([]string, 0, len(all))
	for len(ready) > 0 {
		n := ready[0]
		ready = ready[1:]
		order = append(order, n.id)

		for _, d := range bySeq(n.dependents) {
			indegree[d.id]--
			if indegree[d.id] == 0 {
				ready = insertBySeq(ready, d)
			}
		}
	}

	if len(order) != len(all) {
		return nil, g.findCycle(indegree)
	}
	return order, nil
}

func insertBySeq(list []*node, n *node) []*node {
	i := len(list)
	for i > 0 && list[i-1].seq > n.seq {
		i--
	}
	list = append(list, nil)
	copy(list[i+1:], list[i:])
	list[i] = n
	return list
}

// findCycle walks dependencies among the nodes Kahn's algorithm could not
// release until it revisits one. Callers must hold the lock.
func (g *Graph) findCycle(indegree map[string]int) error {
	var start *node
	for _, n := range g.sortedNodes() {
		if indegree[n.id] > 0 {
			start = n
			break
		}
	}
	if start == nil {
		return &CycleError{}
	}

	pos := make(map[string]int)
	var path []string
	cur := start
	for {
		if i, seen := pos[cur.id]; seen {
			cycle := append([]string{}, path[i:]...)
			cycle = append(cycle, cur.id)
			return &CycleError{Node: cur.id, Cycle: cycle}
		}
		pos[cur.id] = len(path)
		path = append(path, cur.id)

		var next *node
		for _, dep := range bySeq(cur.deps) {
			if indegree[dep.id] > 0 {
				next = dep
				break
			}
		}
		if next == nil {
			// Unreachable: a blocked node always has a blocked dependency.
			return &CycleError{Node: cur.id, Cycle: path}
		}
		cur = next
	}
}

// Ancestors returns the given nodes plus everything they transitively depend
// on, as a set.
func (g *Graph) Ancestors(roots ...string) (map[string]bool, error) {
	return g.closure(roots, func(n *node) map[string]*node { return n.deps })
}

// Descendants returns everything that transitively depends on the given node,
// excluding the node itself.
func (g *Graph) Descendants(id string) (map[string]bool, error) {
	set, err := g.closure([]string{id}, func(n *node) map[string]*node { return n.dependents })
	if err != nil {
		return nil, err
	}
	delete(set, id)
	return set, nil
}

func (g *Graph) closure(roots []string, next func(*node) map[string]*node) (map[string]bool, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	seen := make(map[string]bool)
	stack := make([]*node, 0, len(roots))
	for _, id := range roots {
		n, ok := g.nodes[id]
		if !ok {
			return nil, fmt.Errorf("node not found: %s", id)
		}
		stack = append(stack, n)
	}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[n.id] {
			continue
		}
		seen[n.id] = true
		for _, m := range next(n) {
			if !seen[m.id] {
				stack = append(stack, m)
			}
		}
	}
	return seen, nil
}
