package loopgen

import (
	"tensorgraph/arraygraph"
	"tensorgraph/loopir"
	"tensorgraph/polyhedral"
	"tensorgraph/scalarexpr"
)

// builtinPrefix is the reserved dotted namespace scalarexpr.Call names are
// drawn from (scalarexpr.Call's doc comment, e.g. "builtin.sin"). The
// loop-nest target knows no such namespace; translateExpr strips it down
// to the unqualified builtin name the way pytato's InlinedExpressionGenMapper
// rewrites `pytato.c99.sin` to plain `sin` for its C-like target.
const builtinPrefix = "builtin."

// zeroBuiltin is the one builtin with translation-time meaning: a call to
// it never reaches the target as a function call at all, it short-circuits
// to the constant 0 (spec.md §4.6.1), the way pytato special-cases
// `pytato.zero`.
const zeroBuiltin = "zero"

// translateExpr rewrites an IndexLambda body (or a reduction bound, or any
// other scalarexpr.Expr reachable from one) into the loop-nest expression
// algebra (spec.md §4.6.1, pytato's InlinedExpressionGenMapper). It is a
// plain recursive function rather than a scalarexpr.Visitor implementation
// (see doc.go) because it targets a different algebra than the one being
// walked. It can fail: a Reduce's bounds must be affine in the program's
// size parameters (spec.md §4.6.2), checked only at this lowering stage
// since scalarexpr.Reduce's own constructor does not enforce it.
func translateExpr(e scalarexpr.Expr, lctx LocalExpressionContext, pctx *PersistentExpressionContext) (loopir.Expr, error) {
	switch n := e.(type) {
	case *scalarexpr.Const:
		if n.IsFloat {
			return loopir.NewFloatConst(n.FloatValue), nil
		}
		return loopir.NewIntConst(n.IntValue), nil

	case *scalarexpr.Var:
		return translateVar(n, lctx, pctx)

	case *scalarexpr.Subscript:
		indices, err := translateExprAll(n.Index, lctx, pctx)
		if err != nil {
			return nil, err
		}
		result := lctx.Lookup(n.Name)
		return result.ToLoopyExpression(indices, pctx), nil

	case *scalarexpr.Unary:
		operand, err := translateExpr(n.Operand, lctx, pctx)
		if err != nil {
			return nil, err
		}
		return &loopir.Unary{Op: n.Op, Operand: operand}, nil

	case *scalarexpr.Binary:
		left, err := translateExpr(n.Left, lctx, pctx)
		if err != nil {
			return nil, err
		}
		right, err := translateExpr(n.Right, lctx, pctx)
		if err != nil {
			return nil, err
		}
		return &loopir.Binary{Op: n.Op, Left: left, Right: right}, nil

	case *scalarexpr.Call:
		return translateCall(n, lctx, pctx)

	case *scalarexpr.Reduce:
		return translateReduce(n, lctx, pctx)

	case *scalarexpr.Cast:
		inner, err := translateExpr(n.Inner, lctx, pctx)
		if err != nil {
			return nil, err
		}
		return &loopir.TypeCast{Dtype: n.Dtype, Inner: inner}, nil

	default:
		panic("loopgen: unhandled scalarexpr.Expr variant in translateExpr")
	}
}

func translateExprAll(in []scalarexpr.Expr, lctx LocalExpressionContext, pctx *PersistentExpressionContext) ([]loopir.Expr, error) {
	out := make([]loopir.Expr, len(in))
	for i, e := range in {
		translated, err := translateExpr(e, lctx, pctx)
		if err != nil {
			return nil, err
		}
		out[i] = translated
	}
	return out, nil
}

// translateVar handles a bare Var reference: `_k` indices pass through as
// iname references, an operand name resolves via the local namespace as a
// rank-0 (indexless) read, and a size-parameter name resolves globally by
// name through CodeGenState's lazily-grown value-argument set rather than
// through the local namespace -- arraygraph.NewIndexLambda only requires
// VarOperand references to appear in Bindings, never VarSizeParam ones
// (scalarexpr.Dependencies keeps the two in separate buckets for exactly
// this reason), so a size-param reference can't be resolved by a namespace
// lookup the way an operand reference is.
func translateVar(n *scalarexpr.Var, lctx LocalExpressionContext, pctx *PersistentExpressionContext) (loopir.Expr, error) {
	switch n.Kind {
	case scalarexpr.VarElementwiseIndex, scalarexpr.VarReductionIndex:
		return &loopir.Var{Name: n.Name}, nil

	case scalarexpr.VarSizeParam:
		pctx.State.EnsureValueArg(n.Name, arraygraph.Int64)
		return &loopir.Var{Name: n.Name}, nil

	default: // VarOperand
		result := lctx.Lookup(n.Name)
		return result.ToLoopyExpression(nil, pctx), nil
	}
}

func translateCall(n *scalarexpr.Call, lctx LocalExpressionContext, pctx *PersistentExpressionContext) (loopir.Expr, error) {
	name := stripBuiltinPrefix(n.FuncName)
	if name == zeroBuiltin {
		return loopir.NewIntConst(0), nil
	}
	args, err := translateExprAll(n.Args, lctx, pctx)
	if err != nil {
		return nil, err
	}
	return &loopir.Call{FuncName: name, Args: args}, nil
}

func stripBuiltinPrefix(funcName string) string {
	if len(funcName) > len(builtinPrefix) && funcName[:len(builtinPrefix)] == builtinPrefix {
		return funcName[len(builtinPrefix):]
	}
	return funcName
}

// translateReduce implements spec.md §4.6.1's reduction rule: mint a
// unique, collision-free iname per bound (`_pt_<op>_<old>`), substitute the
// old bound names for the new ones in the inner expression before
// recursing, append a one-dimensional domain for each bound directly to
// the kernel under construction, wrap the result in a loop-nest reduction
// primitive, and propagate each reduction index's tags onto its iname.
func translateReduce(n *scalarexpr.Reduce, lctx LocalExpressionContext, pctx *PersistentExpressionContext) (loopir.Expr, error) {
	renames := make(map[scalarexpr.VarKey]scalarexpr.Expr, len(n.Bounds))
	bounds := make([]loopir.ReductionBound, len(n.Bounds))

	for i, b := range n.Bounds {
		iname := pctx.State.VarNameGen.Generate("_pt_" + n.Op + "_" + b.Name)
		renames[scalarexpr.VarKey{Name: b.Name, Kind: scalarexpr.VarReductionIndex}] =
			&scalarexpr.Var{Name: iname, Kind: scalarexpr.VarReductionIndex}

		lower, err := translateExpr(b.Lower, lctx, pctx)
		if err != nil {
			return nil, err
		}
		upper, err := translateExpr(b.Upper, lctx, pctx)
		if err != nil {
			return nil, err
		}
		bounds[i] = loopir.ReductionBound{Name: iname, Lower: lower, Upper: upper}

		dom, err := polyhedral.FromBox(
			[]polyhedral.Bound{{Name: iname, Lower: b.Lower, Upper: b.Upper}},
			pctx.State.KnownSizeParams,
		)
		if err != nil {
			return nil, err
		}
		pctx.State.Kernel().Domains = append(pctx.State.Kernel().Domains, dom)

		if descr, ok := lctx.VarToReductionDescr[b.Name]; ok {
			for tag := range descr.Tags {
				pctx.State.Kernel().TagIname(iname, tag)
			}
		}
	}

	inner := scalarexpr.Substitute(n.Inner, renames)
	innerExpr, err := translateExpr(inner, lctx, pctx)
	if err != nil {
		return nil, err
	}

	return &loopir.Reduction{Op: n.Op, Bounds: bounds, Inner: innerExpr}, nil
}
