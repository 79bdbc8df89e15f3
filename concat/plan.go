package concat

import (
	"tensorgraph/arraygraph"
	"tensorgraph/errs"
)

// FunctionConcatenability is a validated concatenation plan: every return
// of the function is ConcatableAlongAxis(Axis) (the "simple search"
// restricts candidates to a single axis shared by every output, spec.md
// §4.4), and Params records, for each parameter, whether it grows along
// some axis or must be identical across call sites.
type FunctionConcatenability struct {
	Axis   int
	Params map[string]Concatenatability
}

// FindFunctionConcatenability runs the "simple search": it tries axis 0,
// 1, ... (bounded by the lowest-rank return) in turn, keeping the first
// axis along which every return of f is concatenatable. If pinnedAxis is
// non-nil (e.g. seeded from an arraygraph.UseInputAxis tag on a call
// site), only that axis is tried. The general "exhaustive search" spec.md
// §4.4 mentions for harder cases (mixed per-output axes) is not
// implemented; see DESIGN.md.
func FindFunctionConcatenability(f *arraygraph.FunctionDefinition, pinnedAxis *int) (*FunctionConcatenability, error) {
	if hasNestedCall(f) {
		return nil, errs.New(errs.KindNestedCallUnsupported, "call concatenation does not support nested calls")
	}

	minRank := -1
	for _, name := range f.SortedReturnNames() {
		rank := len(f.Returns[name].Shape())
		if minRank == -1 || rank < minRank {
			minRank = rank
		}
	}
	if minRank <= 0 {
		return nil, errs.New(errs.KindNoValidConcatenationCandidate, "function has no rank-1-or-higher return to concatenate along")
	}

	candidates := make([]int, 0, minRank)
	if pinnedAxis != nil {
		candidates = append(candidates, *pinnedAxis)
	} else {
		for a := 0; a < minRank; a++ {
			candidates = append(candidates, a)
		}
	}

	for _, axis := range candidates {
		reqs := map[string]Concatenatability{}
		visited := map[arraygraph.Array]Concatenatability{}
		ok := true
		for _, name := range f.SortedReturnNames() {
			if err := propagate(f.Returns[name], ConcatableAlongAxis{Axis: axis}, reqs, visited); err != nil {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}
		for _, name := range f.ParameterOrder {
			if _, has := reqs[name]; !has {
				reqs[name] = ConcatableIfConstant{}
			}
		}
		return &FunctionConcatenability{Axis: axis, Params: reqs}, nil
	}
	return nil, errs.New(errs.KindNoValidConcatenationCandidate, "no axis admits a consistent concatenation plan")
}

// shapeMatchExceptAxis reports whether a and b agree on every shape
// component other than axis.
func shapeMatchExceptAxis(a, b arraygraph.Shape, axis int) bool {
	if len(a) != len(b) {
		return false
	}
	ac := append(arraygraph.Shape{}, a...)
	bc := append(arraygraph.Shape{}, b...)
	ac[axis] = arraygraph.IntShape(0)
	bc[axis] = arraygraph.IntShape(0)
	return ac.Equal(bc)
}

// ValidatePlan checks a candidate plan against concrete call sites
// (spec.md §4.4 "Plan validation"): all sites must share one literal
// FunctionDefinition (see doc.go's scope note), axis lengths and dtypes
// must be compatible, and ConcatableIfConstant bindings must be identical
// across sites. Axis-concatenated bindings are expected to differ across
// sites -- that is the entire point of concatenating them -- so no
// cross-site identity check is applied to them beyond shape/dtype
// compatibility.
func ValidatePlan(fc *FunctionConcatenability, sites []*arraygraph.Call) error {
	if len(sites) < 2 {
		return errs.New(errs.KindNonSimilarCallSites, "concatenation requires at least two call sites")
	}
	f := sites[0].Function
	for _, s := range sites[1:] {
		if s.Function != f {
			return errs.New(errs.KindNonSimilarCallSites, "call sites reference different function definitions")
		}
	}

	for name, req := range fc.Params {
		base, ok := sites[0].Bindings[name]
		if !ok {
			return errs.New(errs.KindUnknownName, "call site is missing binding %q", name)
		}
		switch r := req.(type) {
		case ConcatableAlongAxis:
			if r.Axis >= len(base.Shape()) {
				return errs.New(errs.KindBadAxes, "binding %q has no axis %d", name, r.Axis)
			}
			if base.Shape()[r.Axis].IsExpr() {
				return errs.New(errs.KindInvalidConcatenatability, "binding %q has a symbolic concat-axis length, unsupported", name)
			}
			for _, s := range sites[1:] {
				b, ok := s.Bindings[name]
				if !ok {
					return errs.New(errs.KindUnknownName, "call site is missing binding %q", name)
				}
				if b.Dtype() != base.Dtype() {
					return errs.New(errs.KindDtypeMismatch, "binding %q has mismatched dtype across call sites", name)
				}
				if b.Shape()[r.Axis].IsExpr() {
					return errs.New(errs.KindInvalidConcatenatability, "binding %q has a symbolic concat-axis length, unsupported", name)
				}
				if !shapeMatchExceptAxis(base.Shape(), b.Shape(), r.Axis) {
					return errs.New(errs.KindBadShape, "binding %q shapes disagree outside the concat axis", name)
				}
			}
		case ConcatableIfConstant:
			for _, s := range sites[1:] {
				b, ok := s.Bindings[name]
				if !ok {
					return errs.New(errs.KindUnknownName, "call site is missing binding %q", name)
				}
				if !arraygraph.Equal(base, b) {
					return errs.New(errs.KindInvalidConcatenatability, "binding %q must be identical across call sites", name)
				}
			}
		}
	}
	return nil
}
