package preprocess

import (
	"sort"

	"tensorgraph/arraygraph"
	"tensorgraph/transform"
)

// computeOrder returns a reverse topological order over outputs' inter-
// output dependencies (spec.md §4.5): if output A's expression reaches
// output B's expression, B is ordered before A in a plain topological
// order; spec.md calls for the reverse of that. Grounded on pytato's
// codegen.preprocess (compute_topological_order over a name->deps dag,
// then `[::-1]`).
//
// Dependencies are derived from a whole-graph topological order
// (transform.TopologicalOrder) filtered down to just the output nodes:
// since that order always places a node's dependencies before it, the
// relative order of any two outputs in the filtered list already reflects
// their transitive dependency relationship, direct or indirect.
func computeOrder(outputs *arraygraph.DictOfNamedArrays) []string {
	names := outputs.Names()
	roots := make([]arraygraph.Array, 0, len(names))
	namesOf := map[arraygraph.Array][]string{}
	for _, name := range names {
		a, ok := outputs.Get(name)
		if !ok {
			continue
		}
		roots = append(roots, a)
		namesOf[a] = append(namesOf[a], name)
	}

	order := transform.TopologicalOrder(roots)
	forward := make([]string, 0, len(names))
	for _, a := range order {
		group, ok := namesOf[a]
		if !ok {
			continue
		}
		sort.Strings(group)
		forward = append(forward, group...)
	}

	reversed := make([]string, len(forward))
	for i, name := range forward {
		reversed[len(forward)-1-i] = name
	}
	return reversed
}
