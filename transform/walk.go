package transform

import "tensorgraph/arraygraph"

// CachedWalkMapper performs a read-only, post-order traversal of an array
// graph, visiting each distinct node (by identity) exactly once regardless
// of how many parents share it, and invoking Visit on every node
// (spec.md §3.3; pytato's CachedWalkMapper). Embed it and call Walk; the
// Visit field, if set, is called on every node the first time it's seen.
type CachedWalkMapper struct {
	Visit func(arraygraph.Array)

	seen     map[arraygraph.Array]struct{}
	seenCall map[*arraygraph.Call]struct{}
}

// NewCachedWalkMapper returns a ready-to-use walker.
func NewCachedWalkMapper(visit func(arraygraph.Array)) *CachedWalkMapper {
	return &CachedWalkMapper{
		Visit:    visit,
		seen:     map[arraygraph.Array]struct{}{},
		seenCall: map[*arraygraph.Call]struct{}{},
	}
}

// Walk visits a and its entire dependency subgraph.
func (w *CachedWalkMapper) Walk(a arraygraph.Array) {
	if a == nil {
		return
	}
	if _, ok := w.seen[a]; ok {
		return
	}
	w.seen[a] = struct{}{}
	for _, child := range Children(a) {
		w.Walk(child)
	}
	if call := callOf(a); call != nil {
		w.walkCall(call)
	}
	if w.Visit != nil {
		w.Visit(a)
	}
}

// walkCall descends into both the call's caller-side bindings and its
// callee body's returns, matching pytato's CachedWalkMapper.map_call:
// a generic structural walk sees the whole IR, function bodies included,
// so passes like node-counting or DataWrapper replacement reach everywhere.
// Passes that want only a call's *free* (caller-side) dependencies --
// InputGatherer in dependencies.go -- must not reuse this; they stop at Bindings.
func (w *CachedWalkMapper) walkCall(c *arraygraph.Call) {
	if _, ok := w.seenCall[c]; ok {
		return
	}
	w.seenCall[c] = struct{}{}
	for _, name := range c.Names() {
		if ret, ok := c.Function.Returns[name]; ok {
			w.Walk(ret)
		}
	}
	names := make([]string, 0, len(c.Bindings))
	for name := range c.Bindings {
		names = append(names, name)
	}
	for _, name := range names {
		w.Walk(c.Bindings[name])
	}
}

func callOf(a arraygraph.Array) *arraygraph.Call {
	if n, ok := a.(*arraygraph.NamedCallResult); ok {
		return n.Call
	}
	return nil
}

// Children returns a's immediate Array-valued children in a fixed,
// deterministic order (sorted by map key where the node has named
// children, e.g. IndexLambda's bindings). It does not descend into
// Call/FunctionDefinition bodies -- callers that need that use Walk.
func Children(a arraygraph.Array) []arraygraph.Array {
	switch n := a.(type) {
	case *arraygraph.Placeholder, *arraygraph.DataWrapper, *arraygraph.SizeParam:
		return nil
	case *arraygraph.IndexLambda:
		out := make([]arraygraph.Array, 0, len(n.Bindings))
		for _, name := range n.BindingNames() {
			out = append(out, n.Bindings[name])
		}
		return out
	case *arraygraph.Einsum:
		return n.Args
	case *arraygraph.Reshape:
		return []arraygraph.Array{n.Array}
	case *arraygraph.AxisPermutation:
		return []arraygraph.Array{n.Array}
	case *arraygraph.Stack:
		return n.Arrays
	case *arraygraph.Concatenate:
		return n.Arrays
	case *arraygraph.Roll:
		return []arraygraph.Array{n.Array}
	case *arraygraph.BasicIndex:
		return []arraygraph.Array{n.Array}
	case *arraygraph.AdvancedIndex:
		out := []arraygraph.Array{n.Array}
		for _, idx := range n.Indexers {
			if idx != nil {
				out = append(out, idx)
			}
		}
		return out
	case *arraygraph.NamedCallResult:
		return nil // Call bindings are a separate edge set, walked by CachedWalkMapper.walkCall
	default:
		return nil
	}
}
