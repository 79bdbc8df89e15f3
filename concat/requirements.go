package concat

import (
	"tensorgraph/arraygraph"
	"tensorgraph/errs"
	"tensorgraph/transform"
)

// hasNestedCall reports whether any return of f reaches a NamedCallResult
// -- call concatenation does not support nested calls (Open Question #2,
// spec.md §9): the combined call-site/body analysis this package performs
// does not generalize across an extra frame boundary.
func hasNestedCall(f *arraygraph.FunctionDefinition) bool {
	seen := map[arraygraph.Array]struct{}{}
	var walk func(a arraygraph.Array) bool
	walk = func(a arraygraph.Array) bool {
		if a == nil {
			return false
		}
		if _, ok := seen[a]; ok {
			return false
		}
		seen[a] = struct{}{}
		if _, ok := a.(*arraygraph.NamedCallResult); ok {
			return true
		}
		for _, child := range transform.Children(a) {
			if walk(child) {
				return true
			}
		}
		return false
	}
	for _, name := range f.SortedReturnNames() {
		if walk(f.Returns[name]) {
			return true
		}
	}
	return false
}

// propagate walks node top-down, given that node itself must satisfy
// want, recording the Concatenatability every reachable Parameter
// ultimately requires into reqs. visited guards against revisiting a
// shared node with conflicting requirements.
func propagate(node arraygraph.Array, want Concatenatability, reqs map[string]Concatenatability, visited map[arraygraph.Array]Concatenatability) error {
	if prev, ok := visited[node]; ok {
		if !concatenatabilityEqual(prev, want) {
			return errs.New(errs.KindInvalidConcatenatability, "a shared node is required to be concatenatable two different ways")
		}
		return nil
	}
	visited[node] = want

	switch n := node.(type) {
	case *arraygraph.Placeholder:
		return mergeParamRequirement(reqs, n.Name, want)
	case *arraygraph.IndexLambda:
		axisWant, isAxis := want.(ConcatableAlongAxis)
		if !isAxis {
			return markAllParamsConstant(n, reqs)
		}
		bindingReqs, ok := inputRequirements(n.Expr, axisWant.Axis)
		if !ok {
			return errs.New(errs.KindInvalidConcatenatability, "index lambda is not concatenatable along axis %d", axisWant.Axis)
		}
		for _, name := range n.BindingNames() {
			req, has := bindingReqs[name]
			if !has {
				req = ConcatableIfConstant{}
			}
			if err := propagate(n.Bindings[name], req, reqs, visited); err != nil {
				return err
			}
		}
		return nil
	default:
		// DataWrapper, SizeParam, or an un-lowered high-level op: concat
		// operates on IndexLambda-only function bodies (spec.md §4.5 runs
		// C4's lowering before concatenation in a typical pipeline); treat
		// anything else as an opaque constant, requiring every Placeholder
		// beneath it to match across sites.
		return markAllParamsConstant(node, reqs)
	}
}

func mergeParamRequirement(reqs map[string]Concatenatability, name string, want Concatenatability) error {
	if existing, ok := reqs[name]; ok {
		if !concatenatabilityEqual(existing, want) {
			return errs.New(errs.KindInvalidConcatenatability, "parameter %q has conflicting concatenatability requirements", name)
		}
		return nil
	}
	reqs[name] = want
	return nil
}

func markAllParamsConstant(node arraygraph.Array, reqs map[string]Concatenatability) error {
	g := transform.NewInputGatherer()
	g.Gather(node)
	for _, in := range g.Inputs() {
		ph, ok := in.(*arraygraph.Placeholder)
		if !ok {
			continue
		}
		if err := mergeParamRequirement(reqs, ph.Name, ConcatableIfConstant{}); err != nil {
			return err
		}
	}
	return nil
}
