package transform

import (
	"sort"

	"tensorgraph/arraygraph"
)

// nodeKey gives every node a stable string label for tie-breaking: named
// inputs use their name, everything else falls back to a structural-hash
// derived label so two runs over an equal graph produce the same order
// (spec.md §9 "Determinism": "topological traversals break ties
// lexicographically by a stable per-node key").
func nodeKey(a arraygraph.Array) string {
	switch n := a.(type) {
	case *arraygraph.Placeholder:
		return "placeholder:" + n.Name
	case *arraygraph.DataWrapper:
		return "datawrapper:" + n.Name
	case *arraygraph.SizeParam:
		return "sizeparam:" + n.Name
	case *arraygraph.NamedCallResult:
		return "namedcallresult:" + n.Name
	default:
		return "node:" + uintToString(arraygraph.Hash(a))
	}
}

func uintToString(v uint64) string {
	if v == 0 {
		return "0"
	}
	var b [20]byte
	i := len(b)
	for v > 0 {
		i--
		b[i] = byte('0' + v%10)
		v /= 10
	}
	return string(b[i:])
}

// TopologicalOrder returns every node reachable from roots (inclusive),
// each input's dependencies preceding it, with ties among
// simultaneously-ready nodes broken lexicographically by nodeKey so the
// order is reproducible across runs (spec.md §9; grounded on lvlath's
// Kahn's-algorithm dfs/topological.go, adapted from an adjacency-list
// graph to array-node dependency edges and a deterministic ready-queue
// instead of a plain FIFO/stack).
func TopologicalOrder(roots []arraygraph.Array) []arraygraph.Array {
	// Build the dependency graph via a single pass using InputGatherer-style
	// identity-memoized walk, collecting full edge lists (not just leaves).
	children := map[arraygraph.Array][]arraygraph.Array{}
	indegree := map[arraygraph.Array]int{}
	var all []arraygraph.Array
	visited := map[arraygraph.Array]struct{}{}

	var visit func(a arraygraph.Array)
	visit = func(a arraygraph.Array) {
		if a == nil {
			return
		}
		if _, ok := visited[a]; ok {
			return
		}
		visited[a] = struct{}{}
		all = append(all, a)
		var deps []arraygraph.Array
		if ncr, ok := a.(*arraygraph.NamedCallResult); ok {
			names := make([]string, 0, len(ncr.Call.Bindings))
			for name := range ncr.Call.Bindings {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				deps = append(deps, ncr.Call.Bindings[name])
			}
		} else {
			deps = Children(a)
		}
		for _, dep := range deps {
			children[dep] = append(children[dep], a)
			indegree[a]++
			visit(dep)
		}
		if _, ok := indegree[a]; !ok {
			indegree[a] = 0
		}
	}
	for _, r := range roots {
		visit(r)
	}

	ready := make([]arraygraph.Array, 0, len(all))
	for _, a := range all {
		if indegree[a] == 0 {
			ready = append(ready, a)
		}
	}
	sortByKey(ready)

	out := make([]arraygraph.Array, 0, len(all))
	remaining := make(map[arraygraph.Array]int, len(indegree))
	for a, d := range indegree {
		remaining[a] = d
	}
	for len(ready) > 0 {
		next := ready[0]
		ready = ready[1:]
		out = append(out, next)
		newlyReady := []arraygraph.Array{}
		for _, child := range children[next] {
			remaining[child]--
			if remaining[child] == 0 {
				newlyReady = append(newlyReady, child)
			}
		}
		sortByKey(newlyReady)
		ready = mergeSorted(ready, newlyReady)
	}
	return out
}

func sortByKey(nodes []arraygraph.Array) {
	sort.Slice(nodes, func(i, j int) bool { return nodeKey(nodes[i]) < nodeKey(nodes[j]) })
}

func mergeSorted(a, b []arraygraph.Array) []arraygraph.Array {
	if len(b) == 0 {
		return a
	}
	out := make([]arraygraph.Array, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if nodeKey(a[i]) <= nodeKey(b[j]) {
			out = append(out, a[i])
			i++
		} else {
			out = append(out, b[j])
			j++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	return out
}
