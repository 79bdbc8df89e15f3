package loopgen

import "tensorgraph/loopir"

// ImplementedResult is the generated code for one DAG node: the three
// strategies named by spec.md §4.6 (pytato's ImplementedResult hierarchy).
type ImplementedResult interface {
	// ToLoopyExpression returns the loop-nest expression that reads this
	// result at the given indices, accumulating any instructions it
	// depends on into ctx.
	ToLoopyExpression(indices []loopir.Expr, ctx *PersistentExpressionContext) loopir.Expr
}

// StoredResult is a result that lives in a named buffer; reading it is
// `name[indices]` (or bare `name` for a scalar).
type StoredResult struct {
	Name       string
	NumIndices int
	DependsOn  map[string]struct{}
}

func (r *StoredResult) ToLoopyExpression(indices []loopir.Expr, ctx *PersistentExpressionContext) loopir.Expr {
	ctx.UpdateDependsOn(r.DependsOn)
	if len(indices) == 0 {
		return &loopir.Var{Name: r.Name}
	}
	return &loopir.Subscript{Name: r.Name, Index: indices}
}

// InlinedResult is a result expressed as a scalar expression in terms of
// the caller's indices; reading substitutes the caller's indices for the
// elementwise-index placeholders `_0`, `_1`, ....
type InlinedResult struct {
	Expr       loopir.Expr
	NumIndices int
	DependsOn  map[string]struct{}
}

func (r *InlinedResult) ToLoopyExpression(indices []loopir.Expr, ctx *PersistentExpressionContext) loopir.Expr {
	ctx.UpdateDependsOn(r.DependsOn)
	subs := make(map[string]loopir.Expr, len(indices))
	for d, idx := range indices {
		subs[elementwiseIndexName(d)] = idx
	}
	return substitute(r.Expr, subs)
}

// SubstitutionRuleResult is a result exposed as a named substitution rule
// over ndim formal arguments; reading it is a call.
type SubstitutionRuleResult struct {
	SubstName string
	NumArgs   int
	DependsOn map[string]struct{}
}

func (r *SubstitutionRuleResult) ToLoopyExpression(indices []loopir.Expr, ctx *PersistentExpressionContext) loopir.Expr {
	ctx.UpdateDependsOn(r.DependsOn)
	return &loopir.Call{FuncName: r.SubstName, Args: indices}
}

// substitute rewrites every Var in e whose name is a key of subs to the
// corresponding replacement (loopy_substitute's restriction to plain
// variable substitutions, all this package ever needs).
func substitute(e loopir.Expr, subs map[string]loopir.Expr) loopir.Expr {
	switch n := e.(type) {
	case nil:
		return nil
	case *loopir.Const:
		return n
	case *loopir.Var:
		if repl, ok := subs[n.Name]; ok {
			return repl
		}
		return n
	case *loopir.Subscript:
		return &loopir.Subscript{Name: n.Name, Index: substituteAll(n.Index, subs)}
	case *loopir.Unary:
		return &loopir.Unary{Op: n.Op, Operand: substitute(n.Operand, subs)}
	case *loopir.Binary:
		return &loopir.Binary{Op: n.Op, Left: substitute(n.Left, subs), Right: substitute(n.Right, subs)}
	case *loopir.Call:
		return &loopir.Call{FuncName: n.FuncName, Args: substituteAll(n.Args, subs)}
	case *loopir.Reduction:
		bounds := make([]loopir.ReductionBound, len(n.Bounds))
		for i, b := range n.Bounds {
			bounds[i] = loopir.ReductionBound{Name: b.Name, Lower: substitute(b.Lower, subs), Upper: substitute(b.Upper, subs)}
		}
		return &loopir.Reduction{Op: n.Op, Bounds: bounds, Inner: substitute(n.Inner, subs)}
	case *loopir.TypeCast:
		return &loopir.TypeCast{Dtype: n.Dtype, Inner: substitute(n.Inner, subs)}
	default:
		return e
	}
}

func substituteAll(in []loopir.Expr, subs map[string]loopir.Expr) []loopir.Expr {
	out := make([]loopir.Expr, len(in))
	for i, e := range in {
		out[i] = substitute(e, subs)
	}
	return out
}
