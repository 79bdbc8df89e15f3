package lower_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"tensorgraph/arraygraph"
	"tensorgraph/lower"
	"tensorgraph/scalarexpr"
)

func mustShape(t *testing.T, components ...arraygraph.ShapeComponent) arraygraph.Shape {
	t.Helper()
	s, err := arraygraph.NewShape(nil, components...)
	require.NoError(t, err)
	return s
}

func TestLowerAxisPermutationProducesIndexLambda(t *testing.T) {
	shape := mustShape(t, arraygraph.IntShape(2), arraygraph.IntShape(3))
	a, err := arraygraph.NewPlaceholder("a", shape, arraygraph.Float32, nil, nil)
	require.NoError(t, err)
	perm, err := arraygraph.NewAxisPermutation(a, []int{1, 0}, nil)
	require.NoError(t, err)

	out, err := lower.Lower(perm)
	require.NoError(t, err)
	il, ok := out.(*arraygraph.IndexLambda)
	require.True(t, ok)
	require.True(t, il.Shape().Equal(perm.Shape()))
	require.Equal(t, arraygraph.Float32, il.Dtype())
}

func TestLowerStackProducesIndexLambda(t *testing.T) {
	shape := mustShape(t, arraygraph.IntShape(4))
	a, err := arraygraph.NewPlaceholder("a", shape, arraygraph.Float32, nil, nil)
	require.NoError(t, err)
	b, err := arraygraph.NewPlaceholder("b", shape, arraygraph.Float32, nil, nil)
	require.NoError(t, err)
	stacked, err := arraygraph.NewStack([]arraygraph.Array{a, b}, 0, nil)
	require.NoError(t, err)

	out, err := lower.Lower(stacked)
	require.NoError(t, err)
	il, ok := out.(*arraygraph.IndexLambda)
	require.True(t, ok)
	require.Len(t, il.Bindings, 2)
}

func TestLowerConcatenateProducesIndexLambda(t *testing.T) {
	s3 := mustShape(t, arraygraph.IntShape(3))
	s5 := mustShape(t, arraygraph.IntShape(5))
	a, err := arraygraph.NewPlaceholder("a", s3, arraygraph.Float32, nil, nil)
	require.NoError(t, err)
	b, err := arraygraph.NewPlaceholder("b", s5, arraygraph.Float32, nil, nil)
	require.NoError(t, err)
	cat, err := arraygraph.NewConcatenate([]arraygraph.Array{a, b}, 0, nil)
	require.NoError(t, err)

	out, err := lower.Lower(cat)
	require.NoError(t, err)
	_, ok := out.(*arraygraph.IndexLambda)
	require.True(t, ok)
}

func TestLowerEinsumMatmulBindsContractedIndexToReduction(t *testing.T) {
	s2x3 := mustShape(t, arraygraph.IntShape(2), arraygraph.IntShape(3))
	s3x4 := mustShape(t, arraygraph.IntShape(3), arraygraph.IntShape(4))
	a, err := arraygraph.NewPlaceholder("a", s2x3, arraygraph.Float32, nil, nil)
	require.NoError(t, err)
	b, err := arraygraph.NewPlaceholder("b", s3x4, arraygraph.Float32, nil, nil)
	require.NoError(t, err)
	outShape := mustShape(t, arraygraph.IntShape(2), arraygraph.IntShape(4))
	es, err := arraygraph.NewEinsum("ik,kj->ij", []arraygraph.Array{a, b}, outShape, nil)
	require.NoError(t, err)

	out, err := lower.Lower(es)
	require.NoError(t, err)
	il, ok := out.(*arraygraph.IndexLambda)
	require.True(t, ok)
	require.Len(t, il.ReductionNames(), 1)
	_, ok = il.Expr.(*scalarexpr.Reduce)
	require.True(t, ok, "a contracted einsum index must lower to a Reduce")
}

func TestLowerReshapeRoundTripsShape(t *testing.T) {
	src := mustShape(t, arraygraph.IntShape(2), arraygraph.IntShape(3))
	a, err := arraygraph.NewPlaceholder("a", src, arraygraph.Float32, nil, nil)
	require.NoError(t, err)
	target := mustShape(t, arraygraph.IntShape(6))
	reshaped, err := arraygraph.NewReshape(a, target, arraygraph.OrderC, nil)
	require.NoError(t, err)

	out, err := lower.Lower(reshaped)
	require.NoError(t, err)
	il, ok := out.(*arraygraph.IndexLambda)
	require.True(t, ok)
	require.True(t, il.Shape().Equal(target))
}

func TestLowerAllRecursesThroughNestedHighLevelOps(t *testing.T) {
	shape := mustShape(t, arraygraph.IntShape(2), arraygraph.IntShape(3))
	a, err := arraygraph.NewPlaceholder("a", shape, arraygraph.Float32, nil, nil)
	require.NoError(t, err)
	perm, err := arraygraph.NewAxisPermutation(a, []int{1, 0}, nil)
	require.NoError(t, err)
	reshaped, err := arraygraph.NewReshape(perm, mustShape(t, arraygraph.IntShape(6)), arraygraph.OrderC, nil)
	require.NoError(t, err)

	out, err := lower.LowerAll(reshaped)
	require.NoError(t, err)
	il, ok := out.(*arraygraph.IndexLambda)
	require.True(t, ok)
	inner, ok := il.Bindings["in0"].(*arraygraph.IndexLambda)
	require.True(t, ok, "the nested AxisPermutation must also have been lowered to an IndexLambda")
	require.NotNil(t, inner)
}
