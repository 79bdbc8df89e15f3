package arraygraph_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"tensorgraph/arraygraph"
	"tensorgraph/errs"
	"tensorgraph/scalarexpr"
)

func mustShape(t *testing.T, known map[string]bool, components ...arraygraph.ShapeComponent) arraygraph.Shape {
	t.Helper()
	s, err := arraygraph.NewShape(known, components...)
	require.NoError(t, err)
	return s
}

func TestNewPlaceholderRejectsBadIdentifier(t *testing.T) {
	shape := mustShape(t, nil, arraygraph.IntShape(4))
	_, err := arraygraph.NewPlaceholder("3bad", shape, arraygraph.Float32, nil, nil)
	require.Error(t, err)
	require.True(t, errs.Is(err, errs.KindUnknownName))
}

func TestNewPlaceholderRejectsBadDtype(t *testing.T) {
	shape := mustShape(t, nil, arraygraph.IntShape(4))
	_, err := arraygraph.NewPlaceholder("x", shape, arraygraph.Dtype("nonsense"), nil, nil)
	require.Error(t, err)
	require.True(t, errs.Is(err, errs.KindDtypeMismatch))
}

func TestNewPlaceholderAxesMustMatchShape(t *testing.T) {
	shape := mustShape(t, nil, arraygraph.IntShape(4), arraygraph.IntShape(5))
	_, err := arraygraph.NewPlaceholder("x", shape, arraygraph.Float32, arraygraph.NewAxes(1), nil)
	require.Error(t, err)
	require.True(t, errs.Is(err, errs.KindBadAxes))
}

func TestNewShapeRejectsNegativeSize(t *testing.T) {
	_, err := arraygraph.NewShape(nil, arraygraph.IntShape(-1))
	require.Error(t, err)
	require.True(t, errs.Is(err, errs.KindNegativeSize))
}

func TestNewShapeRejectsNonAffineComponent(t *testing.T) {
	n := scalarexpr.SizeParamVar("n")
	m := scalarexpr.SizeParamVar("m")
	nonAffine := &scalarexpr.Binary{Op: "*", Left: n, Right: m}
	_, err := arraygraph.NewShape(map[string]bool{"n": true, "m": true}, arraygraph.ExprShape(nonAffine))
	require.Error(t, err)
	require.True(t, errs.Is(err, errs.KindBadShape))
}

func TestNewIndexLambdaRejectsUnboundOperand(t *testing.T) {
	shape := mustShape(t, nil, arraygraph.IntShape(4))
	expr := scalarexpr.Operand("missing")
	_, err := arraygraph.NewIndexLambda(shape, arraygraph.Float32, expr, map[string]arraygraph.Array{}, nil, nil, nil)
	require.Error(t, err)
	require.True(t, errs.Is(err, errs.KindUnknownName))
}

func TestNewIndexLambdaAcceptsBoundOperand(t *testing.T) {
	shape := mustShape(t, nil, arraygraph.IntShape(4))
	ph, err := arraygraph.NewPlaceholder("a", shape, arraygraph.Float32, nil, nil)
	require.NoError(t, err)

	expr := scalarexpr.Operand("a")
	bindings := map[string]arraygraph.Array{"a": ph}
	il, err := arraygraph.NewIndexLambda(shape, arraygraph.Float32, expr, bindings, nil, nil, nil)
	require.NoError(t, err)
	require.Equal(t, []string{"a"}, il.BindingNames())
}

func TestNewStackRequiresSameShape(t *testing.T) {
	s4 := mustShape(t, nil, arraygraph.IntShape(4))
	s5 := mustShape(t, nil, arraygraph.IntShape(5))
	a, err := arraygraph.NewPlaceholder("a", s4, arraygraph.Float32, nil, nil)
	require.NoError(t, err)
	b, err := arraygraph.NewPlaceholder("b", s5, arraygraph.Float32, nil, nil)
	require.NoError(t, err)

	_, err = arraygraph.NewStack([]arraygraph.Array{a, b}, 0, nil)
	require.Error(t, err)
	require.True(t, errs.Is(err, errs.KindBadShape))
}

func TestNewStackAddsNewAxis(t *testing.T) {
	s4 := mustShape(t, nil, arraygraph.IntShape(4))
	a, err := arraygraph.NewPlaceholder("a", s4, arraygraph.Float32, nil, nil)
	require.NoError(t, err)
	b, err := arraygraph.NewPlaceholder("b", s4, arraygraph.Float32, nil, nil)
	require.NoError(t, err)

	stacked, err := arraygraph.NewStack([]arraygraph.Array{a, b}, 0, nil)
	require.NoError(t, err)
	require.Len(t, stacked.Shape(), 2)
	require.Equal(t, int64(2), stacked.Shape()[0].Int())
}

func TestNewConcatenateSumsAxisExtent(t *testing.T) {
	s3 := mustShape(t, nil, arraygraph.IntShape(3), arraygraph.IntShape(4))
	s5 := mustShape(t, nil, arraygraph.IntShape(5), arraygraph.IntShape(4))
	a, err := arraygraph.NewPlaceholder("a", s3, arraygraph.Float32, nil, nil)
	require.NoError(t, err)
	b, err := arraygraph.NewPlaceholder("b", s5, arraygraph.Float32, nil, nil)
	require.NoError(t, err)

	cat, err := arraygraph.NewConcatenate([]arraygraph.Array{a, b}, 0, nil)
	require.NoError(t, err)
	require.Equal(t, int64(8), cat.Shape()[0].Int())
	require.Equal(t, int64(4), cat.Shape()[1].Int())
}

func TestNewAxisPermutationValidatesPermutation(t *testing.T) {
	shape := mustShape(t, nil, arraygraph.IntShape(2), arraygraph.IntShape(3))
	a, err := arraygraph.NewPlaceholder("a", shape, arraygraph.Float32, nil, nil)
	require.NoError(t, err)

	_, err = arraygraph.NewAxisPermutation(a, []int{0, 0}, nil)
	require.Error(t, err)
	require.True(t, errs.Is(err, errs.KindBadAxes))

	transposed, err := arraygraph.NewAxisPermutation(a, []int{1, 0}, nil)
	require.NoError(t, err)
	require.Equal(t, int64(3), transposed.Shape()[0].Int())
	require.Equal(t, int64(2), transposed.Shape()[1].Int())
}

func TestEqualAndHashAgreeOnStructurallyEqualPlaceholders(t *testing.T) {
	shape := mustShape(t, nil, arraygraph.IntShape(4))
	a, err := arraygraph.NewPlaceholder("x", shape, arraygraph.Float32, nil, nil)
	require.NoError(t, err)
	b, err := arraygraph.NewPlaceholder("x", shape, arraygraph.Float32, nil, nil)
	require.NoError(t, err)

	require.True(t, arraygraph.Equal(a, b))
	require.Equal(t, arraygraph.Hash(a), arraygraph.Hash(b))
	require.False(t, arraygraph.Equal(a, &arraygraph.Placeholder{}))
}

func TestEqualIgnoresObjectIdentity(t *testing.T) {
	shape := mustShape(t, nil, arraygraph.IntShape(4))
	a, err := arraygraph.NewPlaceholder("x", shape, arraygraph.Float32, nil, nil)
	require.NoError(t, err)
	b, err := arraygraph.NewPlaceholder("x", shape, arraygraph.Float32, nil, nil)
	require.NoError(t, err)

	require.True(t, arraygraph.Equal(a, b), "placeholders with the same name/shape/dtype are equal regardless of object identity")
}

func TestPromoteLattice(t *testing.T) {
	got, ok := arraygraph.Promote(arraygraph.Int32, arraygraph.Float32)
	require.True(t, ok)
	require.Equal(t, arraygraph.Float32, got)

	_, ok = arraygraph.Promote(arraygraph.Dtype("bogus"), arraygraph.Int32)
	require.False(t, ok)
}

func TestCallGetReturnsStablePointer(t *testing.T) {
	shape := mustShape(t, nil, arraygraph.IntShape(4))
	ph, err := arraygraph.NewPlaceholder("p", shape, arraygraph.Float32, nil, nil)
	require.NoError(t, err)

	fn, err := arraygraph.NewFunctionDefinition(
		[]string{"p"},
		map[string]*arraygraph.Placeholder{"p": ph},
		map[string]arraygraph.Array{"out": ph},
		nil,
	)
	require.NoError(t, err)

	call := arraygraph.NewCall(fn, map[string]arraygraph.Array{"p": ph}, nil)
	r1, ok := call.Get("out")
	require.True(t, ok)
	r2, ok := call.Get("out")
	require.True(t, ok)
	require.Same(t, r1, r2)
}
