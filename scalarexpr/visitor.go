package scalarexpr

// Visitor dispatches over the Expr sum type, one method per variant,
// mirroring sentra's parser.ExprVisitor (internal/parser/ast.go) but typed
// to return Expr so it doubles as a rewriter.
type Visitor interface {
	VisitConst(*Const) Expr
	VisitVar(*Var) Expr
	VisitSubscript(*Subscript) Expr
	VisitUnary(*Unary) Expr
	VisitBinary(*Binary) Expr
	VisitCall(*Call) Expr
	VisitReduce(*Reduce) Expr
	VisitCast(*Cast) Expr
}

// Rewriter is an identity visitor: it rewrites every child and rebuilds the
// node only if a child actually changed, otherwise returns the input
// unchanged (pointer-identical). Embed it in a concrete visitor and set
// Self to the outer value so overridden methods are used during recursion
// -- Go has no virtual dispatch through an embedded struct, so recursion
// must be routed through an explicit Self, the same trick CopyMapper
// relies on (transform.CopyMapper) for cross-type composition.
type Rewriter struct {
	Self Visitor
}

func (r *Rewriter) self() Visitor {
	if r.Self != nil {
		return r.Self
	}
	return r
}

func (r *Rewriter) VisitConst(n *Const) Expr { return n }
func (r *Rewriter) VisitVar(n *Var) Expr     { return n }

func (r *Rewriter) VisitSubscript(n *Subscript) Expr {
	newIdx, changed := rewriteSlice(n.Index, r.self())
	if !changed {
		return n
	}
	return &Subscript{Name: n.Name, Index: newIdx}
}

func (r *Rewriter) VisitUnary(n *Unary) Expr {
	newOperand := n.Operand.Accept(r.self())
	if newOperand == n.Operand {
		return n
	}
	return &Unary{Op: n.Op, Operand: newOperand}
}

func (r *Rewriter) VisitBinary(n *Binary) Expr {
	newLeft := n.Left.Accept(r.self())
	newRight := n.Right.Accept(r.self())
	if newLeft == n.Left && newRight == n.Right {
		return n
	}
	return &Binary{Op: n.Op, Left: newLeft, Right: newRight}
}

func (r *Rewriter) VisitCall(n *Call) Expr {
	newArgs, changed := rewriteSlice(n.Args, r.self())
	if !changed {
		return n
	}
	return &Call{FuncName: n.FuncName, Args: newArgs}
}

func (r *Rewriter) VisitReduce(n *Reduce) Expr {
	newInner := n.Inner.Accept(r.self())
	newBounds := make([]ReductionBound, len(n.Bounds))
	changed := newInner != n.Inner
	for i, b := range n.Bounds {
		newLower := b.Lower.Accept(r.self())
		newUpper := b.Upper.Accept(r.self())
		if newLower != b.Lower || newUpper != b.Upper {
			changed = true
		}
		newBounds[i] = ReductionBound{Name: b.Name, Lower: newLower, Upper: newUpper}
	}
	if !changed {
		return n
	}
	return &Reduce{Op: n.Op, Bounds: newBounds, Inner: newInner}
}

func (r *Rewriter) VisitCast(n *Cast) Expr {
	newInner := n.Inner.Accept(r.self())
	if newInner == n.Inner {
		return n
	}
	return &Cast{Dtype: n.Dtype, Inner: newInner}
}

func rewriteSlice(in []Expr, v Visitor) ([]Expr, bool) {
	out := make([]Expr, len(in))
	changed := false
	for i, e := range in {
		out[i] = e.Accept(v)
		if out[i] != e {
			changed = true
		}
	}
	if !changed {
		return in, false
	}
	return out, true
}

// Walk visits every node of e in pre-order, calling fn on each. It never
// rewrites; it exists for read-only traversals (dependency collection,
// affine checks) that don't want rewriter-copy overhead.
func Walk(e Expr, fn func(Expr)) {
	fn(e)
	switch n := e.(type) {
	case *Const, *Var:
		// leaves
	case *Subscript:
		for _, ix := range n.Index {
			Walk(ix, fn)
		}
	case *Unary:
		Walk(n.Operand, fn)
	case *Binary:
		Walk(n.Left, fn)
		Walk(n.Right, fn)
	case *Call:
		for _, a := range n.Args {
			Walk(a, fn)
		}
	case *Reduce:
		for _, b := range n.Bounds {
			Walk(b.Lower, fn)
			Walk(b.Upper, fn)
		}
		Walk(n.Inner, fn)
	case *Cast:
		Walk(n.Inner, fn)
	}
}
