package concat

import "tensorgraph/scalarexpr"

// inputRequirements derives, from an IndexLambda's scalar expr, the
// per-binding Concatenatability required for the IndexLambda itself to be
// ConcatableAlongAxis(axis) (spec.md §4.4 "Per-axis concatenability"):
//
//  1. The elementwise variable _axis itself is never concatenatable --
//     it only indexes the output.
//  2. For each subscript operand[i_0,...,i_{k-1}]: if exactly one i_j is
//     the bare variable _axis, operand must be ConcatableAlongAxis(j); if
//     several positions reference _axis, the IndexLambda is not
//     concatenatable along axis at all; if _axis appears only nested
//     inside a non-affine/compound index expression (indirect addressing),
//     operand is required ConcatableIfConstant instead of being rejected
//     outright -- spec.md §9 calls this carve-out "a safety invariant, not
//     an optimization": indirect addressing into operand is only sound
//     once operand is known to be identical across every site in the
//     batch, which ConcatableIfConstant already enforces (plan.go's
//     ValidatePlan requires bit-identical bindings for it). A subscript
//     that both bare-references _axis at one position and buries it
//     indirectly at another is a genuine conflict and is still rejected.
//  3. Constants and reduction variables impose no constraint.
//
// If different subscripts into the same operand yield conflicting
// requirements, ok is false.
func inputRequirements(expr scalarexpr.Expr, axis int) (reqs map[string]Concatenatability, ok bool) {
	reqs = map[string]Concatenatability{}
	ok = true

	var visit func(e scalarexpr.Expr)
	visit = func(e scalarexpr.Expr) {
		if !ok || e == nil {
			return
		}
		switch n := e.(type) {
		case *scalarexpr.Subscript:
			matchPos := -1
			matches := 0
			indirect := false
			for j, idx := range n.Index {
				if !referencesElementwiseIndex(idx, axis) {
					continue
				}
				if !isBareElementwiseIndex(idx, axis) {
					indirect = true
					continue
				}
				matches++
				matchPos = j
			}
			if matches > 1 || (indirect && matches > 0) {
				ok = false
				return
			}
			want := Concatenatability(ConcatableIfConstant{})
			if matches == 1 {
				want = ConcatableAlongAxis{Axis: matchPos}
			}
			if !recordRequirement(reqs, n.Name, want) {
				ok = false
				return
			}
			for _, idx := range n.Index {
				visit(idx)
			}
		case *scalarexpr.Binary:
			visit(n.Left)
			visit(n.Right)
		case *scalarexpr.Unary:
			visit(n.Operand)
		case *scalarexpr.Call:
			for _, a := range n.Args {
				visit(a)
			}
		case *scalarexpr.Reduce:
			for _, b := range n.Bounds {
				visit(b.Lower)
				visit(b.Upper)
			}
			visit(n.Inner)
		}
	}
	visit(expr)
	return reqs, ok
}

func recordRequirement(reqs map[string]Concatenatability, name string, want Concatenatability) bool {
	if existing, has := reqs[name]; has {
		return concatenatabilityEqual(existing, want)
	}
	reqs[name] = want
	return true
}

func isBareElementwiseIndex(e scalarexpr.Expr, axis int) bool {
	v, ok := e.(*scalarexpr.Var)
	return ok && v.Kind == scalarexpr.VarElementwiseIndex && v.Index == axis
}

func referencesElementwiseIndex(e scalarexpr.Expr, axis int) bool {
	found := false
	var visit func(e scalarexpr.Expr)
	visit = func(e scalarexpr.Expr) {
		if found || e == nil {
			return
		}
		switch n := e.(type) {
		case *scalarexpr.Var:
			if n.Kind == scalarexpr.VarElementwiseIndex && n.Index == axis {
				found = true
			}
		case *scalarexpr.Binary:
			visit(n.Left)
			visit(n.Right)
		case *scalarexpr.Unary:
			visit(n.Operand)
		case *scalarexpr.Subscript:
			for _, idx := range n.Index {
				visit(idx)
			}
		case *scalarexpr.Call:
			for _, a := range n.Args {
				visit(a)
			}
		case *scalarexpr.Reduce:
			visit(n.Inner)
		}
	}
	visit(e)
	return found
}
