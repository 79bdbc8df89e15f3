package scalarexpr

// IsAffineIn reports whether e is affine in the named variables: built only
// from Const, Var (whose non-bound names must be in names), +, -, unary -
// or +, * where at least one side is a Const, and / or // whose divisor
// is a Const. Subscripts, Calls,
// Reduces, and Casts are never affine. Required by shape components
// (spec.md §3.1) and iteration-domain bounds (spec.md §4.6.2), and used by
// polyhedral.FromBox to validate domain construction.
func IsAffineIn(e Expr, names map[string]bool) bool {
	switch n := e.(type) {
	case *Const:
		return true
	case *Var:
		if n.Kind == VarElementwiseIndex || n.Kind == VarReductionIndex {
			return true
		}
		return names[n.Name]
	case *Unary:
		if n.Op != "-" && n.Op != "+" {
			return false
		}
		return IsAffineIn(n.Operand, names)
	case *Binary:
		switch n.Op {
		case "+", "-":
			return IsAffineIn(n.Left, names) && IsAffineIn(n.Right, names)
		case "*":
			return (isConst(n.Left) && IsAffineIn(n.Right, names)) ||
				(isConst(n.Right) && IsAffineIn(n.Left, names))
		case "/", "//":
			return IsAffineIn(n.Left, names) && isConst(n.Right)
		default:
			return false
		}
	default:
		return false
	}
}

func isConst(e Expr) bool {
	_, ok := e.(*Const)
	return ok
}

// DataIndependent reports whether e contains no Subscript (i.e. its value
// cannot depend on array contents) -- required of reduction bounds
// (spec.md §4.6.2: "reduction bounds must be data-independent").
func DataIndependent(e Expr) bool {
	independent := true
	Walk(e, func(n Expr) {
		if _, ok := n.(*Subscript); ok {
			independent = false
		}
	})
	return independent
}
