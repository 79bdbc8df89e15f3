package lower

import (
	"strings"

	"tensorgraph/arraygraph"
	"tensorgraph/errs"
	"tensorgraph/scalarexpr"
)

// parseAccessDescriptor splits "ik,kj->ij" into its per-argument index
// letter groups and its output letter group.
func parseAccessDescriptor(access string) (inputs []string, output string, err error) {
	parts := strings.SplitN(access, "->", 2)
	if len(parts) != 2 {
		return nil, "", errs.New(errs.KindBadShape, "einsum access descriptor %q missing '->'", access)
	}
	output = strings.TrimSpace(parts[1])
	for _, group := range strings.Split(parts[0], ",") {
		inputs = append(inputs, strings.TrimSpace(group))
	}
	return inputs, output, nil
}

// lowerEinsum builds a sum-reduction IndexLambda: output letters bind to
// elementwise indices `_k`, letters appearing only in the inputs
// (contracted) bind to reduction indices `_rk` (spec.md §4.2 "Einsum").
func lowerEinsum(n *arraygraph.Einsum) (arraygraph.Array, error) {
	inputGroups, outGroup, err := parseAccessDescriptor(n.AccessDescriptor)
	if err != nil {
		return nil, err
	}
	if len(inputGroups) != len(n.Args) {
		return nil, errs.New(errs.KindBadShape, "einsum access descriptor names %d operands, got %d args", len(inputGroups), len(n.Args))
	}

	letterVar := map[byte]scalarexpr.Expr{}
	for i, letter := range []byte(outGroup) {
		letterVar[letter] = elem(i)
	}

	reductionLetters := []byte{}
	seenReduction := map[byte]bool{}
	reductionExtent := map[byte]scalarexpr.Expr{}
	for gi, group := range inputGroups {
		for li, letter := range []byte(group) {
			if _, ok := letterVar[letter]; ok {
				continue
			}
			if !seenReduction[letter] {
				seenReduction[letter] = true
				reductionLetters = append(reductionLetters, letter)
				reductionExtent[letter] = n.Args[gi].Shape()[li].AsExpr()
			}
		}
	}
	rIdx := map[byte]int{}
	for i, letter := range reductionLetters {
		rIdx[letter] = i
		letterVar[letter] = scalarexpr.ReductionIndex(i)
	}

	bindings := make(map[string]arraygraph.Array, len(n.Args))
	var product scalarexpr.Expr
	for gi, group := range inputGroups {
		name := argName(gi)
		bindings[name] = n.Args[gi]
		idx := make([]scalarexpr.Expr, len(group))
		for li, letter := range []byte(group) {
			idx[li] = letterVar[letter]
		}
		term := scalarexpr.Expr(&scalarexpr.Subscript{Name: name, Index: idx})
		if product == nil {
			product = term
		} else {
			product = mulExpr(product, term)
		}
	}

	var expr scalarexpr.Expr = product
	varToReductionDescr := map[string]arraygraph.ReductionDescr{}
	if len(reductionLetters) > 0 {
		bounds := make([]scalarexpr.ReductionBound, len(reductionLetters))
		for letter, i := range rIdx {
			bounds[i] = scalarexpr.ReductionBound{
				Name:  scalarexpr.ReductionIndex(i).Name,
				Lower: scalarexpr.NewIntConst(0),
				Upper: reductionExtent[letter],
			}
			varToReductionDescr[scalarexpr.ReductionIndex(i).Name] = arraygraph.ReductionDescr{}
		}
		expr = &scalarexpr.Reduce{Op: "sum", Bounds: bounds, Inner: product}
	}

	return arraygraph.NewIndexLambda(n.Shape(), n.Dtype(), expr, bindings, varToReductionDescr, n.Axes(), n.Tags())
}
