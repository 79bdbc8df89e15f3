package arraygraph

import "tensorgraph/scalarexpr"

// Equal reports whether a and b are structurally equal: a deep compare of
// every field except NonEqualityTags (spec.md §3.1 invariant). Mappers'
// Deduplicator relies on this (and on Hash agreeing with it) to intern
// structurally-equal nodes to a single instance.
func Equal(a, b Array) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if !a.Shape().Equal(b.Shape()) || a.Dtype() != b.Dtype() {
		return false
	}
	if !axesEqual(a.Axes(), b.Axes()) || !tagSetEqual(a.Tags(), b.Tags()) {
		return false
	}
	switch av := a.(type) {
	case *Placeholder:
		bv, ok := b.(*Placeholder)
		return ok && av.Name == bv.Name
	case *DataWrapper:
		bv, ok := b.(*DataWrapper)
		return ok && av.Name == bv.Name && av.Data == bv.Data
	case *SizeParam:
		bv, ok := b.(*SizeParam)
		return ok && av.Name == bv.Name
	case *IndexLambda:
		bv, ok := b.(*IndexLambda)
		if !ok || !scalarexpr.Equal(av.Expr, bv.Expr) {
			return false
		}
		if len(av.Bindings) != len(bv.Bindings) {
			return false
		}
		for name, aBnd := range av.Bindings {
			bBnd, ok := bv.Bindings[name]
			if !ok || !Equal(aBnd, bBnd) {
				return false
			}
		}
		return reductionDescrsEqual(av.VarToReductionDescr, bv.VarToReductionDescr)
	case *Einsum:
		bv, ok := b.(*Einsum)
		return ok && av.AccessDescriptor == bv.AccessDescriptor && arraysEqual(av.Args, bv.Args)
	case *Reshape:
		bv, ok := b.(*Reshape)
		return ok && av.Order == bv.Order && Equal(av.Array, bv.Array)
	case *AxisPermutation:
		bv, ok := b.(*AxisPermutation)
		return ok && intsEqual(av.Perm, bv.Perm) && Equal(av.Array, bv.Array)
	case *Stack:
		bv, ok := b.(*Stack)
		return ok && av.Axis == bv.Axis && arraysEqual(av.Arrays, bv.Arrays)
	case *Concatenate:
		bv, ok := b.(*Concatenate)
		return ok && av.Axis == bv.Axis && arraysEqual(av.Arrays, bv.Arrays)
	case *Roll:
		bv, ok := b.(*Roll)
		return ok && av.Axis == bv.Axis && scalarexpr.Equal(av.Shift, bv.Shift) && Equal(av.Array, bv.Array)
	case *BasicIndex:
		bv, ok := b.(*BasicIndex)
		return ok && indexItemsEqual(av.Indices, bv.Indices) && Equal(av.Array, bv.Array)
	case *AdvancedIndex:
		bv, ok := b.(*AdvancedIndex)
		if !ok || av.Contiguous != bv.Contiguous || !Equal(av.Array, bv.Array) {
			return false
		}
		if len(av.Indexers) != len(bv.Indexers) {
			return false
		}
		for i := range av.Indexers {
			if (av.Indexers[i] == nil) != (bv.Indexers[i] == nil) {
				return false
			}
			if av.Indexers[i] != nil && !Equal(av.Indexers[i], bv.Indexers[i]) {
				return false
			}
		}
		return true
	case *NamedCallResult:
		bv, ok := b.(*NamedCallResult)
		return ok && av.Name == bv.Name && CallEqual(av.Call, bv.Call)
	default:
		return false
	}
}

// CallEqual reports structural equality of two Calls: same function
// (by FunctionDefinitionEqual), same bindings, same tags.
func CallEqual(a, b *Call) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if !FunctionDefinitionEqual(a.Function, b.Function) || !tagSetEqual(a.Tags, b.Tags) {
		return false
	}
	if len(a.Bindings) != len(b.Bindings) {
		return false
	}
	for name, av := range a.Bindings {
		bv, ok := b.Bindings[name]
		if !ok || !Equal(av, bv) {
			return false
		}
	}
	return true
}

// FunctionDefinitionEqual reports structural equality of two
// FunctionDefinitions.
func FunctionDefinitionEqual(a, b *FunctionDefinition) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if !tagSetEqual(a.Tags, b.Tags) || len(a.Parameters) != len(b.Parameters) || len(a.Returns) != len(b.Returns) {
		return false
	}
	for name, ap := range a.Parameters {
		bp, ok := b.Parameters[name]
		if !ok || !Equal(ap, bp) {
			return false
		}
	}
	for name, ar := range a.Returns {
		br, ok := b.Returns[name]
		if !ok || !Equal(ar, br) {
			return false
		}
	}
	return true
}

func arraysEqual(a, b []Array) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

func intsEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func indexItemsEqual(a, b []IndexItem) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		ai, bi := a[i], b[i]
		if ai.IsSlice != bi.IsSlice {
			return false
		}
		if ai.IsSlice {
			if !exprPtrEqual(ai.Start, bi.Start) || !exprPtrEqual(ai.Stop, bi.Stop) || !exprPtrEqual(ai.Step, bi.Step) {
				return false
			}
		} else if !exprPtrEqual(ai.Int, bi.Int) {
			return false
		}
	}
	return true
}

func exprPtrEqual(a, b scalarexpr.Expr) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	if a == nil {
		return true
	}
	return scalarexpr.Equal(a, b)
}

func reductionDescrsEqual(a, b map[string]ReductionDescr) bool {
	if len(a) != len(b) {
		return false
	}
	for name, ad := range a {
		bd, ok := b[name]
		if !ok || !tagSetEqual(ad.Tags, bd.Tags) {
			return false
		}
	}
	return true
}

func axesEqual(a, b []Axis) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !tagSetEqual(a[i].Tags, b[i].Tags) {
			return false
		}
	}
	return true
}

func tagSetEqual(a, b TagSet) bool {
	if len(a) != len(b) {
		return false
	}
	for t := range a {
		if _, ok := b[t]; !ok {
			return false
		}
	}
	return true
}
