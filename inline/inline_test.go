package inline_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"tensorgraph/arraygraph"
	"tensorgraph/inline"
	"tensorgraph/scalarexpr"
)

func mustShape(t *testing.T, components ...arraygraph.ShapeComponent) arraygraph.Shape {
	t.Helper()
	s, err := arraygraph.NewShape(nil, components...)
	require.NoError(t, err)
	return s
}

// buildSquarePlusOne builds f(x) = x*x + 1 as a one-parameter,
// one-return FunctionDefinition over a scalar x.
func buildSquarePlusOne(t *testing.T) (*arraygraph.FunctionDefinition, *arraygraph.Placeholder) {
	t.Helper()
	shape := mustShape(t)
	param, err := arraygraph.NewPlaceholder("x", shape, arraygraph.Float32, nil, nil)
	require.NoError(t, err)
	expr := &scalarexpr.Binary{
		Op:   "+",
		Left: &scalarexpr.Binary{Op: "*", Left: scalarexpr.Operand("x"), Right: scalarexpr.Operand("x")},
		Right: scalarexpr.NewFloatConst(1),
	}
	body, err := arraygraph.NewIndexLambda(shape, arraygraph.Float32, expr, map[string]arraygraph.Array{"x": param}, nil, nil, nil)
	require.NoError(t, err)
	fn, err := arraygraph.NewFunctionDefinition([]string{"x"}, map[string]*arraygraph.Placeholder{"x": param}, map[string]arraygraph.Array{"out": body}, nil)
	require.NoError(t, err)
	return fn, param
}

func TestInlineCallsNoTaggedCallsIsIdentity(t *testing.T) {
	fn, _ := buildSquarePlusOne(t)
	shape := mustShape(t)
	arg, err := arraygraph.NewPlaceholder("a", shape, arraygraph.Float32, nil, nil)
	require.NoError(t, err)
	call := arraygraph.NewCall(fn, map[string]arraygraph.Array{"x": arg}, nil)
	result, ok := call.Get("out")
	require.True(t, ok)

	out := inline.InlineCalls(result)
	require.Equal(t, result, out)
}

func TestTagAllCallsToBeInlinedThenInlineCallsRemovesCallNodes(t *testing.T) {
	fn, _ := buildSquarePlusOne(t)
	shape := mustShape(t)
	arg1, err := arraygraph.NewPlaceholder("a1", shape, arraygraph.Float32, nil, nil)
	require.NoError(t, err)
	arg2, err := arraygraph.NewPlaceholder("a2", shape, arraygraph.Float32, nil, nil)
	require.NoError(t, err)
	call1 := arraygraph.NewCall(fn, map[string]arraygraph.Array{"x": arg1}, nil)
	call2 := arraygraph.NewCall(fn, map[string]arraygraph.Array{"x": arg2}, nil)
	r1, _ := call1.Get("out")
	r2, _ := call2.Get("out")
	sum, err := arraygraph.NewIndexLambda(shape, arraygraph.Float32,
		&scalarexpr.Binary{Op: "+", Left: scalarexpr.Operand("l"), Right: scalarexpr.Operand("r")},
		map[string]arraygraph.Array{"l": r1, "r": r2}, nil, nil, nil)
	require.NoError(t, err)

	tagged := inline.TagAllCallsToBeInlined(sum)
	inlined := inline.InlineCalls(tagged)

	il, ok := inlined.(*arraygraph.IndexLambda)
	require.True(t, ok)
	for _, name := range il.BindingNames() {
		_, isCallResult := il.Bindings[name].(*arraygraph.NamedCallResult)
		require.False(t, isCallResult, "no NamedCallResult should survive inlining")
		_, isBinaryLambda := il.Bindings[name].(*arraygraph.IndexLambda)
		require.True(t, isBinaryLambda, "each inlined call site becomes its own x*x+1 IndexLambda")
	}
}

func TestZeroUnusedCallBindingsReplacesUnreferencedParameter(t *testing.T) {
	shape := mustShape(t)
	a, err := arraygraph.NewPlaceholder("a", shape, arraygraph.Float32, nil, nil)
	require.NoError(t, err)
	b, err := arraygraph.NewPlaceholder("b", shape, arraygraph.Float32, nil, nil)
	require.NoError(t, err)
	body, err := arraygraph.NewIndexLambda(shape, arraygraph.Float32,
		&scalarexpr.Binary{Op: "+", Left: scalarexpr.Operand("a"), Right: scalarexpr.NewFloatConst(1)},
		map[string]arraygraph.Array{"a": a}, nil, nil, nil)
	require.NoError(t, err)
	fn, err := arraygraph.NewFunctionDefinition([]string{"a", "b"},
		map[string]*arraygraph.Placeholder{"a": a, "b": b},
		map[string]arraygraph.Array{"out": body}, nil)
	require.NoError(t, err)

	argA, err := arraygraph.NewPlaceholder("argA", shape, arraygraph.Float32, nil, nil)
	require.NoError(t, err)
	argB, err := arraygraph.NewPlaceholder("argB", shape, arraygraph.Float32, nil, nil)
	require.NoError(t, err)
	call := arraygraph.NewCall(fn, map[string]arraygraph.Array{"a": argA, "b": argB}, nil)
	result, ok := call.Get("out")
	require.True(t, ok)

	out := inline.ZeroUnusedCallBindings(result)
	ncr, ok := out.(*arraygraph.NamedCallResult)
	require.True(t, ok)
	require.NotEqual(t, argB, ncr.Call.Bindings["b"])
	zeroed, ok := ncr.Call.Bindings["b"].(*arraygraph.IndexLambda)
	require.True(t, ok)
	require.Empty(t, zeroed.Bindings)
	require.Equal(t, argA, ncr.Call.Bindings["a"])
}
