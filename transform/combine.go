package transform

import "tensorgraph/arraygraph"

// Combine folds a graph bottom-up: combine(node, combine(child1), combine(child2), ...)
// with each distinct node (by identity) combined exactly once and the
// result cached, mirroring pytato's CombineMapper. T is the accumulator
// type (e.g. a node count, a set of dtypes seen, a max rank).
type Combine[T any] struct {
	leaf  func(arraygraph.Array) T
	merge func(node arraygraph.Array, children []T) T
	cache map[arraygraph.Array]T
}

// NewCombine builds a Combine[T]. leaf supplies the accumulator for a node
// with no Array children (Placeholder/DataWrapper/SizeParam); merge
// combines a node with its already-combined children's results.
func NewCombine[T any](leaf func(arraygraph.Array) T, merge func(arraygraph.Array, []T) T) *Combine[T] {
	return &Combine[T]{leaf: leaf, merge: merge, cache: map[arraygraph.Array]T{}}
}

// Run computes the combined value for a, memoizing every distinct
// sub-node visited along the way.
func (c *Combine[T]) Run(a arraygraph.Array) T {
	if cached, ok := c.cache[a]; ok {
		return cached
	}
	children := Children(a)
	if ncr, ok := a.(*arraygraph.NamedCallResult); ok {
		names := make([]string, 0, len(ncr.Call.Bindings))
		for name := range ncr.Call.Bindings {
			names = append(names, name)
		}
		for _, name := range names {
			children = append(children, ncr.Call.Bindings[name])
		}
	}
	var result T
	if len(children) == 0 {
		result = c.leaf(a)
	} else {
		childResults := make([]T, len(children))
		for i, child := range children {
			childResults[i] = c.Run(child)
		}
		result = c.merge(a, childResults)
	}
	c.cache[a] = result
	return result
}

// CountNodes returns the number of distinct nodes (by identity) reachable
// from a, including across call bindings but not into callee bodies
// (spec.md §8 "size" diagnostics).
func CountNodes(a arraygraph.Array) int {
	seen := map[arraygraph.Array]struct{}{}
	var walk func(arraygraph.Array)
	walk = func(n arraygraph.Array) {
		if n == nil {
			return
		}
		if _, ok := seen[n]; ok {
			return
		}
		seen[n] = struct{}{}
		if ncr, ok := n.(*arraygraph.NamedCallResult); ok {
			for _, b := range ncr.Call.Bindings {
				walk(b)
			}
			return
		}
		for _, child := range Children(n) {
			walk(child)
		}
	}
	walk(a)
	return len(seen)
}
