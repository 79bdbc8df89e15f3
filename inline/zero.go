package inline

import (
	"tensorgraph/arraygraph"
	"tensorgraph/scalarexpr"
	"tensorgraph/transform"
)

// zeroConstFor returns the scalar zero literal for dtype. scalarexpr has
// no native complex literal (§3.2's Const is int-or-float only), so a
// complex dtype's zero is represented as the real float 0.0.
func zeroConstFor(dtype arraygraph.Dtype) scalarexpr.Expr {
	switch dtype {
	case arraygraph.Bool, arraygraph.Int32, arraygraph.Int64:
		return scalarexpr.NewIntConst(0)
	default:
		return scalarexpr.NewFloatConst(0)
	}
}

// zerosLike builds an all-zeros IndexLambda of the given shape/dtype/axes.
// Construction cannot fail for a shape/dtype/axes already validated by
// some other node's constructor (no operands to leave unbound), so
// callers that pass through an existing node's own fields may treat the
// error as unreachable.
func zerosLike(shape arraygraph.Shape, dtype arraygraph.Dtype, axes []arraygraph.Axis) (arraygraph.Array, error) {
	return arraygraph.NewIndexLambda(shape, dtype, zeroConstFor(dtype), map[string]arraygraph.Array{}, nil, axes, nil)
}

// zeroUnusedBindings rewrites each reachable Call's bindings, replacing
// the binding for any parameter not reachable from the callee's own
// returns with an all-zeros array of that parameter's shape/dtype
// (spec.md §4.3 "zero_unused_call_bindings"). Used-input analysis is
// cached by *arraygraph.FunctionDefinition identity, per spec.md's
// requirement that it be "cached by function definition identity".
type zeroUnusedBindings struct {
	*transform.CopyMapper
	rewritten map[*arraygraph.Call]*arraygraph.Call
	usedCache map[*arraygraph.FunctionDefinition]map[string]struct{}
}

func newZeroUnusedBindings() *zeroUnusedBindings {
	z := &zeroUnusedBindings{
		CopyMapper: transform.NewCopyMapper(),
		rewritten:  map[*arraygraph.Call]*arraygraph.Call{},
		usedCache:  map[*arraygraph.FunctionDefinition]map[string]struct{}{},
	}
	z.Self = z
	return z
}

func (z *zeroUnusedBindings) usedNames(f *arraygraph.FunctionDefinition) map[string]struct{} {
	if used, ok := z.usedCache[f]; ok {
		return used
	}
	used := transform.UsedInputNames(f)
	z.usedCache[f] = used
	return used
}

func (z *zeroUnusedBindings) VisitNamedCallResult(n *arraygraph.NamedCallResult) arraygraph.Array {
	newCall, ok := z.rewritten[n.Call]
	if !ok {
		used := z.usedNames(n.Call.Function)
		newBindings := make(map[string]arraygraph.Array, len(n.Call.Bindings))
		for name, b := range n.Call.Bindings {
			if _, isUsed := used[name]; isUsed {
				newBindings[name] = z.Rec(b)
				continue
			}
			param, ok := n.Call.Function.Parameters[name]
			if !ok {
				newBindings[name] = z.Rec(b)
				continue
			}
			zero, err := zerosLike(param.Shape(), param.Dtype(), param.Axes())
			if err != nil {
				panic("inline: zeros-like construction failed for an already-validated parameter: " + err.Error())
			}
			newBindings[name] = zero
		}
		newCall = n.Call.WithBindings(n.Call.Function, newBindings)
		z.rewritten[n.Call] = newCall
	}
	out, ok := newCall.Get(n.Name)
	if !ok {
		panic("inline: rewritten call lost return " + n.Name)
	}
	return out
}

// ZeroUnusedCallBindings returns a with every reachable Call's unused
// parameter bindings replaced by zeros, preventing phantom inputs from
// surviving later fusions.
func ZeroUnusedCallBindings(a arraygraph.Array) arraygraph.Array {
	return newZeroUnusedBindings().Rec(a)
}
