package transform

import (
	"golang.org/x/exp/maps"

	"tensorgraph/arraygraph"
)

// InputGatherer collects the InputArgumentBase leaves (Placeholder,
// DataWrapper, SizeParam) a graph actually depends on, stopping at a
// Call's caller-side Bindings rather than descending into the callee
// body -- the function's own Parameters are bound there, not free
// (spec.md §4.1's "free variables" notion; pytato's InputGatherer /
// DependencyCollector restricted to calls).
type InputGatherer struct {
	seen   map[arraygraph.Array]struct{}
	inputs map[arraygraph.Array]struct{}
	order  []arraygraph.Array
}

// NewInputGatherer returns a ready-to-use gatherer.
func NewInputGatherer() *InputGatherer {
	return &InputGatherer{
		seen:   map[arraygraph.Array]struct{}{},
		inputs: map[arraygraph.Array]struct{}{},
	}
}

// Gather walks a, recording every InputArgumentBase reachable without
// crossing into a Call's callee body.
func (g *InputGatherer) Gather(a arraygraph.Array) {
	if a == nil {
		return
	}
	if _, ok := g.seen[a]; ok {
		return
	}
	g.seen[a] = struct{}{}

	switch n := a.(type) {
	case *arraygraph.Placeholder:
		g.record(n)
	case *arraygraph.DataWrapper:
		g.record(n)
	case *arraygraph.SizeParam:
		g.record(n)
	case *arraygraph.NamedCallResult:
		for _, name := range maps.Keys(n.Call.Bindings) {
			g.Gather(n.Call.Bindings[name])
		}
		return
	}
	for _, child := range Children(a) {
		g.Gather(child)
	}
}

func (g *InputGatherer) record(a arraygraph.Array) {
	if _, ok := g.inputs[a]; !ok {
		g.inputs[a] = struct{}{}
		g.order = append(g.order, a)
	}
}

// Inputs returns the gathered inputs in first-visited order (deterministic
// given a deterministic traversal of a deterministic graph); the result is
// not sorted by name.
func (g *InputGatherer) Inputs() []arraygraph.Array {
	out := make([]arraygraph.Array, len(g.order))
	copy(out, g.order)
	return out
}

// UsedInputNames walks a FunctionDefinition's Returns, scoped to that
// function's own Parameters, returning the set of parameter names actually
// referenced in its Returns -- used by inline's ZeroUnusedCallBindings
// (spec.md §4.3).
func UsedInputNames(f *arraygraph.FunctionDefinition) map[string]struct{} {
	used := map[string]struct{}{}
	seen := map[arraygraph.Array]struct{}{}
	var walk func(a arraygraph.Array)
	walk = func(a arraygraph.Array) {
		if a == nil {
			return
		}
		if _, ok := seen[a]; ok {
			return
		}
		seen[a] = struct{}{}
		if ph, ok := a.(*arraygraph.Placeholder); ok {
			if _, isParam := f.Parameters[ph.Name]; isParam {
				used[ph.Name] = struct{}{}
			}
		}
		if ncr, ok := a.(*arraygraph.NamedCallResult); ok {
			for name, b := range ncr.Call.Bindings {
				_ = name
				walk(b)
			}
			return
		}
		for _, child := range Children(a) {
			walk(child)
		}
	}
	for _, name := range f.SortedReturnNames() {
		walk(f.Returns[name])
	}
	return used
}
