package graph

import "github.com/roach88/qbcube/internal/rdf"

// Direction selects which way a property is followed.
type Direction int

const (
	// Forward follows (node, p, next).
	Forward Direction = iota
	// Backward follows (next, p, node).
	Backward
)

// step returns the neighbours of node along p in the given direction.
func (g *Graph) step(node rdf.Term, p rdf.IRI, dir Direction) []rdf.Term {
	if dir == Forward {
		return g.Objects(node, p)
	}
	subjects := g.Subjects(p, node)
	out := make([]rdf.Term, len(subjects))
	for i, s := range subjects {
		out[i] = s
	}
	return out
}

// Closure returns start followed by every node reachable from it through
// zero or more p edges (the p* path). Cycles are tolerated.
func (g *Graph) Closure(start rdf.Term, p rdf.IRI, dir Direction) []rdf.Term {
	return g.walk([]rdf.Term{start}, p, dir)
}

// ClosurePlus returns every node reachable from start through one or more
// p edges (the p+ path). start itself is included only if it lies on a
// cycle.
func (g *Graph) ClosurePlus(start rdf.Term, p rdf.IRI, dir Direction) []rdf.Term {
	return g.walk(g.step(start, p, dir), p, dir)
}

// Reachable reports whether to lies on the p* path from from.
func (g *Graph) Reachable(from, to rdf.Term, p rdf.IRI, dir Direction) bool {
	for _, n := range g.Closure(from, p, dir) {
		if n == to {
			return true
		}
	}
	return false
}

// walk runs a breadth-first search from the seed nodes, returning seeds and
// discoveries in visit order.
func (g *Graph) walk(seeds []rdf.Term, p rdf.IRI, dir Direction) []rdf.Term {
	seen := make(map[rdf.Term]struct{}, len(seeds))
	var out []rdf.Term
	queue := make([]rdf.Term, 0, len(seeds))
	for _, s := range seeds {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
		queue = append(queue, s)
	}
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		for _, next := range g.step(node, p, dir) {
			if _, ok := seen[next]; ok {
				continue
			}
			seen[next] = struct{}{}
			out = append(out, next)
			queue = append(queue, next)
		}
	}
	return out
}

// FollowPath returns the distinct nodes reached from start by following the
// predicates in sequence (p1/p2/...). An empty path returns start.
func (g *Graph) FollowPath(start rdf.Term, path ...rdf.IRI) []rdf.Term {
	current := []rdf.Term{start}
	for _, p := range path {
		var next []rdf.Term
		seen := make(map[rdf.Term]struct{})
		for _, node := range current {
			for _, o := range g.Objects(node, p) {
				if _, ok := seen[o]; ok {
					continue
				}
				seen[o] = struct{}{}
				next = append(next, o)
			}
		}
		current = next
		if len(current) == 0 {
			break
		}
	}
	return current
}
