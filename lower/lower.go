package lower

import (
	"tensorgraph/arraygraph"
	"tensorgraph/errs"
	"tensorgraph/scalarexpr"
)

const selectBuiltin = "builtin.select"

func selectExpr(cond, ifTrue, ifFalse scalarexpr.Expr) scalarexpr.Expr {
	return &scalarexpr.Call{FuncName: selectBuiltin, Args: []scalarexpr.Expr{cond, ifTrue, ifFalse}}
}

func elem(i int) scalarexpr.Expr { return scalarexpr.ElementwiseIndex(i) }

func addExpr(a, b scalarexpr.Expr) scalarexpr.Expr { return &scalarexpr.Binary{Op: "+", Left: a, Right: b} }
func mulExpr(a, b scalarexpr.Expr) scalarexpr.Expr { return &scalarexpr.Binary{Op: "*", Left: a, Right: b} }
func subExpr(a, b scalarexpr.Expr) scalarexpr.Expr { return &scalarexpr.Binary{Op: "-", Left: a, Right: b} }
func divExpr(a, b scalarexpr.Expr) scalarexpr.Expr { return &scalarexpr.Binary{Op: "//", Left: a, Right: b} }
func modExpr(a, b scalarexpr.Expr) scalarexpr.Expr { return &scalarexpr.Binary{Op: "%", Left: a, Right: b} }

// Lower translates one high-level sugar node into its canonical
// IndexLambda form (spec.md §4.2). Nodes that are already canonical
// (IndexLambda, the InputArgumentBase variants, NamedCallResult) pass
// through unchanged.
func Lower(a arraygraph.Array) (arraygraph.Array, error) {
	switch n := a.(type) {
	case *arraygraph.Reshape:
		return lowerReshape(n)
	case *arraygraph.AxisPermutation:
		return lowerAxisPermutation(n)
	case *arraygraph.Stack:
		return lowerStack(n)
	case *arraygraph.Concatenate:
		return lowerConcatenate(n)
	case *arraygraph.Roll:
		return lowerRoll(n)
	case *arraygraph.BasicIndex:
		return lowerBasicIndex(n)
	case *arraygraph.AdvancedIndex:
		return lowerAdvancedIndex(n)
	case *arraygraph.Einsum:
		return lowerEinsum(n)
	default:
		return a, nil
	}
}

// lowerAxisPermutation: expr = operand[_{perm(0)}, _{perm(1)}, ...]
// (spec.md §4.2).
func lowerAxisPermutation(n *arraygraph.AxisPermutation) (arraygraph.Array, error) {
	idx := make([]scalarexpr.Expr, len(n.Perm))
	for i, p := range n.Perm {
		idx[i] = elem(p)
	}
	expr := &scalarexpr.Subscript{Name: "in0", Index: idx}
	bindings := map[string]arraygraph.Array{"in0": n.Array}
	return arraygraph.NewIndexLambda(n.Shape(), n.Dtype(), expr, bindings, nil, n.Axes(), n.Tags())
}

// stride computes the strides for a shape under row-major (C, rightmost
// fastest) or column-major (F, leftmost fastest) linearization, each
// entry a scalar expression so symbolic extents are supported.
func strides(shape arraygraph.Shape, order arraygraph.Order) []scalarexpr.Expr {
	n := len(shape)
	out := make([]scalarexpr.Expr, n)
	acc := scalarexpr.Expr(scalarexpr.NewIntConst(1))
	if order == arraygraph.OrderC {
		for i := n - 1; i >= 0; i-- {
			out[i] = acc
			acc = mulExpr(acc, shape[i].AsExpr())
		}
	} else {
		for i := 0; i < n; i++ {
			out[i] = acc
			acc = mulExpr(acc, shape[i].AsExpr())
		}
	}
	return out
}

// lowerReshape linearizes the output elementwise index under Order and
// decomposes it back into the source's own strides (spec.md §4.2).
func lowerReshape(n *arraygraph.Reshape) (arraygraph.Array, error) {
	outShape := n.Shape()
	srcShape := n.Array.Shape()
	outStrides := strides(outShape, n.Order)

	var linear scalarexpr.Expr = scalarexpr.NewIntConst(0)
	for i := range outShape {
		linear = addExpr(linear, mulExpr(elem(i), outStrides[i]))
	}

	srcStrides := strides(srcShape, n.Order)
	srcIdx := make([]scalarexpr.Expr, len(srcShape))
	// Order axes by decreasing stride (so the division/modulo chain peels
	// off the slowest-varying axis first) regardless of C/F layout.
	axisOrder := make([]int, len(srcShape))
	for i := range axisOrder {
		axisOrder[i] = i
	}
	if n.Order == arraygraph.OrderC {
		// Already slowest-first for C layout (axis 0 has the largest stride).
	} else {
		for i, j := 0, len(axisOrder)-1; i < j; i, j = i+1, j-1 {
			axisOrder[i], axisOrder[j] = axisOrder[j], axisOrder[i]
		}
	}
	remaining := linear
	for _, axis := range axisOrder {
		srcIdx[axis] = divExpr(remaining, srcStrides[axis])
		remaining = modExpr(remaining, srcStrides[axis])
	}

	expr := &scalarexpr.Subscript{Name: "in0", Index: srcIdx}
	bindings := map[string]arraygraph.Array{"in0": n.Array}
	return arraygraph.NewIndexLambda(outShape, n.Dtype(), expr, bindings, nil, n.Axes(), n.Tags())
}

// lowerStack builds a nested select disjunction over the stacking axis
// (spec.md §4.2 "Stack").
func lowerStack(n *arraygraph.Stack) (arraygraph.Array, error) {
	outRank := len(n.Shape())
	argRank := outRank - 1
	bindings := make(map[string]arraygraph.Array, len(n.Arrays))
	argIdx := make([]scalarexpr.Expr, argRank)
	k := 0
	for i := 0; i < outRank; i++ {
		if i == n.Axis {
			continue
		}
		argIdx[k] = elem(i)
		k++
	}

	var expr scalarexpr.Expr
	for i := len(n.Arrays) - 1; i >= 0; i-- {
		name := argName(i)
		bindings[name] = n.Arrays[i]
		argExpr := &scalarexpr.Subscript{Name: name, Index: append([]scalarexpr.Expr{}, argIdx...)}
		if expr == nil {
			expr = argExpr
			continue
		}
		cond := &scalarexpr.Binary{Op: "==", Left: elem(n.Axis), Right: scalarexpr.NewIntConst(int64(i))}
		expr = selectExpr(cond, argExpr, expr)
	}
	return arraygraph.NewIndexLambda(n.Shape(), n.Dtype(), expr, bindings, nil, n.Axes(), n.Tags())
}

// lowerConcatenate piecewise-selects by cumulative axis offset (spec.md
// §4.2 "Concatenate"). NewConcatenate guarantees every input has a known
// integer extent along the concat axis.
func lowerConcatenate(n *arraygraph.Concatenate) (arraygraph.Array, error) {
	rank := len(n.Shape())
	bindings := make(map[string]arraygraph.Array, len(n.Arrays))

	var expr scalarexpr.Expr
	offset := int64(0)
	offsets := make([]int64, len(n.Arrays))
	for i, arg := range n.Arrays {
		offsets[i] = offset
		offset += arg.Shape()[n.Axis].Int()
	}
	for i := len(n.Arrays) - 1; i >= 0; i-- {
		name := argName(i)
		bindings[name] = n.Arrays[i]
		idx := make([]scalarexpr.Expr, rank)
		for j := 0; j < rank; j++ {
			if j == n.Axis {
				idx[j] = subExpr(elem(j), scalarexpr.NewIntConst(offsets[i]))
			} else {
				idx[j] = elem(j)
			}
		}
		argExpr := &scalarexpr.Subscript{Name: name, Index: idx}
		if expr == nil {
			expr = argExpr
			continue
		}
		cond := &scalarexpr.Binary{Op: ">=", Left: elem(n.Axis), Right: scalarexpr.NewIntConst(offsets[i])}
		expr = selectExpr(cond, argExpr, expr)
	}
	return arraygraph.NewIndexLambda(n.Shape(), n.Dtype(), expr, bindings, nil, n.Axes(), n.Tags())
}

// lowerRoll applies modular arithmetic on the rolled axis (spec.md §4.2).
func lowerRoll(n *arraygraph.Roll) (arraygraph.Array, error) {
	rank := len(n.Shape())
	idx := make([]scalarexpr.Expr, rank)
	extent := n.Shape()[n.Axis].AsExpr()
	for j := 0; j < rank; j++ {
		if j == n.Axis {
			shifted := subExpr(addExpr(elem(j), extent), modExpr(n.Shift, extent))
			idx[j] = modExpr(shifted, extent)
		} else {
			idx[j] = elem(j)
		}
	}
	expr := &scalarexpr.Subscript{Name: "in0", Index: idx}
	bindings := map[string]arraygraph.Array{"in0": n.Array}
	return arraygraph.NewIndexLambda(n.Shape(), n.Dtype(), expr, bindings, nil, n.Axes(), n.Tags())
}

// lowerBasicIndex materializes slice start/step arithmetic into the index
// tuple, dropping axes addressed by a bare integer (spec.md §4.2).
func lowerBasicIndex(n *arraygraph.BasicIndex) (arraygraph.Array, error) {
	idx := make([]scalarexpr.Expr, len(n.Indices))
	outAxis := 0
	for i, item := range n.Indices {
		if !item.IsSlice {
			idx[i] = item.Int
			continue
		}
		start := item.Start
		if start == nil {
			start = scalarexpr.NewIntConst(0)
		}
		step := item.Step
		if step == nil {
			step = scalarexpr.NewIntConst(1)
		}
		idx[i] = addExpr(start, mulExpr(elem(outAxis), step))
		outAxis++
	}
	expr := &scalarexpr.Subscript{Name: "in0", Index: idx}
	bindings := map[string]arraygraph.Array{"in0": n.Array}
	return arraygraph.NewIndexLambda(n.Shape(), n.Dtype(), expr, bindings, nil, n.Axes(), n.Tags())
}

// lowerAdvancedIndex builds operand[indexer_expr[...], ...] gather
// subscripts. Scoped to the common case where every non-nil indexer
// shares the output's gather shape exactly (no general NumPy broadcasting
// across differently-shaped indexers) -- see DESIGN.md.
func lowerAdvancedIndex(n *arraygraph.AdvancedIndex) (arraygraph.Array, error) {
	gatherRank := 0
	for _, idx := range n.Indexers {
		if idx != nil {
			gatherRank = len(idx.Shape())
			break
		}
	}
	bindings := map[string]arraygraph.Array{"in0": n.Array}
	srcIdx := make([]scalarexpr.Expr, len(n.Indexers))
	fullAxis := gatherRank
	for axis, indexer := range n.Indexers {
		if indexer == nil {
			srcIdx[axis] = elem(fullAxis)
			fullAxis++
			continue
		}
		name := indexerName(axis)
		bindings[name] = indexer
		gatherIdx := make([]scalarexpr.Expr, gatherRank)
		for g := 0; g < gatherRank; g++ {
			gatherIdx[g] = elem(g)
		}
		srcIdx[axis] = &scalarexpr.Subscript{Name: name, Index: gatherIdx}
	}
	expr := &scalarexpr.Subscript{Name: "in0", Index: srcIdx}
	return arraygraph.NewIndexLambda(n.Shape(), n.Dtype(), expr, bindings, nil, n.Axes(), n.Tags())
}

func argName(i int) string     { return "in" + itoa(i) }
func indexerName(i int) string { return "idx" + itoa(i) }

func itoa(v int) string {
	if v == 0 {
		return "0"
	}
	neg := v < 0
	if neg {
		v = -v
	}
	var b []byte
	for v > 0 {
		b = append([]byte{byte('0' + v%10)}, b...)
		v /= 10
	}
	if neg {
		b = append([]byte{'-'}, b...)
	}
	return string(b)
}
