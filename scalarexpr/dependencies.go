package scalarexpr

// Dependencies collects the free variables referenced by e: every Var node
// (by kind) and every Subscript's operand name. This is the "variable
// dependency collector" the external scalar-expression library is required
// to provide (spec.md §6).
type Deps struct {
	Operands   map[string]struct{}
	SizeParams map[string]struct{}
}

func newDeps() *Deps {
	return &Deps{Operands: map[string]struct{}{}, SizeParams: map[string]struct{}{}}
}

// Dependencies walks e and returns the operand names and size-parameter
// names it references. Elementwise/reduction indices are not "dependencies"
// in this sense -- they're bound by the enclosing IndexLambda/Reduce, not
// free.
func Dependencies(e Expr) *Deps {
	d := newDeps()
	Walk(e, func(n Expr) {
		switch v := n.(type) {
		case *Var:
			switch v.Kind {
			case VarOperand:
				d.Operands[v.Name] = struct{}{}
			case VarSizeParam:
				d.SizeParams[v.Name] = struct{}{}
			}
		case *Subscript:
			d.Operands[v.Name] = struct{}{}
		}
	})
	return d
}
