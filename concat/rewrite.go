package concat

import (
	"tensorgraph/arraygraph"
	"tensorgraph/errs"
)

// ConcatenatedCallSite records where one original call site's contribution
// landed in the new concatenated call's axis-concatenated bindings/returns
// (spec.md §8 testable property 5: start = Σ_{j<i} length_j).
type ConcatenatedCallSite struct {
	Start  int64
	Length int64
}

// rebuildNode walks the single shared function body top-down, given that
// node itself must satisfy want, and total (the one concatenation length
// every ConcatableAlongAxis position shares -- see doc.go's scope note:
// every jointly-varying axis in one concatenation represents "which call
// site", so they all grow by the same total). memo preserves structural
// sharing for nodes visited more than once (spec.md §4.4 "Memoization").
func rebuildNode(node arraygraph.Array, want Concatenatability, total int64, memo map[arraygraph.Array]arraygraph.Array, subst map[string]arraygraph.Array) arraygraph.Array {
	if cached, ok := memo[node]; ok {
		return cached
	}
	switch n := node.(type) {
	case *arraygraph.Placeholder:
		out := arraygraph.Array(n)
		if repl, ok := subst[n.Name]; ok {
			out = repl
		}
		memo[node] = out
		return out
	case *arraygraph.IndexLambda:
		axisWant, isAxis := want.(ConcatableAlongAxis)
		var bindingReqs map[string]Concatenatability
		if isAxis {
			bindingReqs, _ = inputRequirements(n.Expr, axisWant.Axis)
		}
		newBindings := make(map[string]arraygraph.Array, len(n.Bindings))
		for _, name := range n.BindingNames() {
			req, has := bindingReqs[name]
			if !has {
				req = ConcatableIfConstant{}
			}
			newBindings[name] = rebuildNode(n.Bindings[name], req, total, memo, subst)
		}
		newShape := append(arraygraph.Shape{}, n.Shape()...)
		if isAxis {
			newShape[axisWant.Axis] = arraygraph.IntShape(total)
		}
		out, err := arraygraph.NewIndexLambda(newShape, n.Dtype(), n.Expr, newBindings, n.VarToReductionDescr, n.Axes(), n.Tags())
		if err != nil {
			// n's own construction already proved expr's operands are a
			// subset of BindingNames(); rebuilding with the same names
			// (rewritten values) cannot newly violate that.
			panic("concat: rebuilding a validated index lambda failed: " + err.Error())
		}
		memo[node] = out
		return out
	default:
		memo[node] = node
		return node
	}
}

// ConcatenateCallSites validates fc against sites and, if valid, builds
// the single concatenated Call plus the per-site slice locations needed to
// replace each original NamedCallResult (spec.md §4.4 "Rewriting").
func ConcatenateCallSites(fc *FunctionConcatenability, sites []*arraygraph.Call) (*arraygraph.Call, []ConcatenatedCallSite, error) {
	if err := ValidatePlan(fc, sites); err != nil {
		return nil, nil, err
	}
	f := sites[0].Function

	var refName string
	var refAxis int
	for _, name := range f.ParameterOrder {
		if r, ok := fc.Params[name].(ConcatableAlongAxis); ok {
			refName, refAxis = name, r.Axis
			break
		}
	}
	if refName == "" {
		return nil, nil, errs.New(errs.KindInvalidConcatenatability, "no axis-concatenable parameter found")
	}
	lengths := make([]int64, len(sites))
	var total int64
	for i, s := range sites {
		lengths[i] = s.Bindings[refName].Shape()[refAxis].Int()
		total += lengths[i]
	}

	subst := map[string]arraygraph.Array{}
	newParams := make(map[string]*arraygraph.Placeholder, len(f.Parameters))
	newBindings := make(map[string]arraygraph.Array, len(f.Parameters))
	for _, name := range f.ParameterOrder {
		orig := f.Parameters[name]
		switch r := fc.Params[name].(type) {
		case ConcatableAlongAxis:
			arrays := make([]arraygraph.Array, len(sites))
			for i, s := range sites {
				arrays[i] = s.Bindings[name]
			}
			concatenated, err := arraygraph.NewConcatenate(arrays, r.Axis, nil)
			if err != nil {
				return nil, nil, err
			}
			newShape := append(arraygraph.Shape{}, orig.Shape()...)
			newShape[r.Axis] = arraygraph.IntShape(total)
			newParam, err := arraygraph.NewPlaceholder(name, newShape, orig.Dtype(), orig.Axes(),
				orig.Tags().Union(arraygraph.NewTagSet(arraygraph.ConcatenatedCallInputConcatAxisTag{Axis: r.Axis})))
			if err != nil {
				return nil, nil, err
			}
			newParams[name] = newParam
			subst[name] = newParam
			newBindings[name] = concatenated
		case ConcatableIfConstant:
			newParams[name] = orig
			newBindings[name] = sites[0].Bindings[name]
		default:
			return nil, nil, errs.New(errs.KindInvalidConcatenatability, "parameter %q missing a recorded concatenatability", name)
		}
	}

	memo := map[arraygraph.Array]arraygraph.Array{}
	newReturns := make(map[string]arraygraph.Array, len(f.Returns))
	for name, ret := range f.Returns {
		newReturns[name] = rebuildNode(ret, ConcatableAlongAxis{Axis: fc.Axis}, total, memo, subst)
	}
	newFunc, err := arraygraph.NewFunctionDefinition(f.ParameterOrder, newParams, newReturns, f.Tags)
	if err != nil {
		return nil, nil, err
	}
	newCall := arraygraph.NewCall(newFunc, newBindings, sites[0].Tags)

	locations := make([]ConcatenatedCallSite, len(sites))
	var offset int64
	for i := range sites {
		locations[i] = ConcatenatedCallSite{Start: offset, Length: lengths[i]}
		offset += lengths[i]
	}
	return newCall, locations, nil
}
