package scalarexpr

// Equal reports whether a and b are structurally identical scalar
// expressions. Used by arraygraph for IndexLambda.expr comparison and by
// concat for the "identical across sites" (ConcatableIfConstant) check.
func Equal(a, b Expr) bool {
	if a == b {
		return true
	}
	switch av := a.(type) {
	case *Const:
		bv, ok := b.(*Const)
		return ok && av.IsFloat == bv.IsFloat && av.IntValue == bv.IntValue && av.FloatValue == bv.FloatValue
	case *Var:
		bv, ok := b.(*Var)
		return ok && av.Name == bv.Name && av.Kind == bv.Kind && av.Index == bv.Index
	case *Subscript:
		bv, ok := b.(*Subscript)
		if !ok || av.Name != bv.Name || len(av.Index) != len(bv.Index) {
			return false
		}
		for i := range av.Index {
			if !Equal(av.Index[i], bv.Index[i]) {
				return false
			}
		}
		return true
	case *Unary:
		bv, ok := b.(*Unary)
		return ok && av.Op == bv.Op && Equal(av.Operand, bv.Operand)
	case *Binary:
		bv, ok := b.(*Binary)
		return ok && av.Op == bv.Op && Equal(av.Left, bv.Left) && Equal(av.Right, bv.Right)
	case *Call:
		bv, ok := b.(*Call)
		if !ok || av.FuncName != bv.FuncName || len(av.Args) != len(bv.Args) {
			return false
		}
		for i := range av.Args {
			if !Equal(av.Args[i], bv.Args[i]) {
				return false
			}
		}
		return true
	case *Reduce:
		bv, ok := b.(*Reduce)
		if !ok || av.Op != bv.Op || len(av.Bounds) != len(bv.Bounds) || !Equal(av.Inner, bv.Inner) {
			return false
		}
		for i := range av.Bounds {
			if av.Bounds[i].Name != bv.Bounds[i].Name ||
				!Equal(av.Bounds[i].Lower, bv.Bounds[i].Lower) ||
				!Equal(av.Bounds[i].Upper, bv.Bounds[i].Upper) {
				return false
			}
		}
		return true
	case *Cast:
		bv, ok := b.(*Cast)
		return ok && av.Dtype == bv.Dtype && Equal(av.Inner, bv.Inner)
	default:
		return false
	}
}
