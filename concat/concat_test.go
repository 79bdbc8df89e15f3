package concat_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"tensorgraph/arraygraph"
	"tensorgraph/concat"
	"tensorgraph/errs"
	"tensorgraph/scalarexpr"
)

func mustShape(t *testing.T, components ...arraygraph.ShapeComponent) arraygraph.Shape {
	t.Helper()
	s, err := arraygraph.NewShape(nil, components...)
	require.NoError(t, err)
	return s
}

// buildAddOneAlongAxis0 builds f(x) = x + 1 elementwise over a rank-2 x,
// with the body indexing both axes explicitly so axis 0 is recognized as
// concatenatable.
func buildAddOneAlongAxis0(t *testing.T, rows int64) (*arraygraph.FunctionDefinition, *arraygraph.Placeholder) {
	t.Helper()
	shape := mustShape(t, arraygraph.IntShape(rows), arraygraph.IntShape(3))
	param, err := arraygraph.NewPlaceholder("x", shape, arraygraph.Float32, nil, nil)
	require.NoError(t, err)
	expr := &scalarexpr.Binary{
		Op: "+",
		Left: &scalarexpr.Subscript{
			Name:  "x",
			Index: []scalarexpr.Expr{scalarexpr.ElementwiseIndex(0), scalarexpr.ElementwiseIndex(1)},
		},
		Right: scalarexpr.NewFloatConst(1),
	}
	body, err := arraygraph.NewIndexLambda(shape, arraygraph.Float32, expr,
		map[string]arraygraph.Array{"x": param}, nil, nil, nil)
	require.NoError(t, err)
	fn, err := arraygraph.NewFunctionDefinition([]string{"x"},
		map[string]*arraygraph.Placeholder{"x": param},
		map[string]arraygraph.Array{"out": body}, nil)
	require.NoError(t, err)
	return fn, param
}

func buildCallSite(t *testing.T, fn *arraygraph.FunctionDefinition, name string, rows int64) *arraygraph.Call {
	t.Helper()
	argShape := mustShape(t, arraygraph.IntShape(rows), arraygraph.IntShape(3))
	arg, err := arraygraph.NewPlaceholder(name, argShape, arraygraph.Float32, nil, nil)
	require.NoError(t, err)
	return arraygraph.NewCall(fn, map[string]arraygraph.Array{"x": arg}, nil)
}

func TestFindFunctionConcatenabilityFindsAxis0(t *testing.T) {
	fn, _ := buildAddOneAlongAxis0(t, 4)
	fc, err := concat.FindFunctionConcatenability(fn, nil)
	require.NoError(t, err)
	require.Equal(t, 0, fc.Axis)
	require.Equal(t, concat.ConcatableAlongAxis{Axis: 0}, fc.Params["x"])
}

func TestConcatenateCallSitesBuildsOneCallWithSliceOffsets(t *testing.T) {
	fn, _ := buildAddOneAlongAxis0(t, 4)
	call1 := buildCallSite(t, fn, "x1", 4)
	call2 := buildCallSite(t, fn, "x2", 7)

	fc, err := concat.FindFunctionConcatenability(fn, nil)
	require.NoError(t, err)

	newCall, locations, err := concat.ConcatenateCallSites(fc, []*arraygraph.Call{call1, call2})
	require.NoError(t, err)
	require.Len(t, locations, 2)
	require.Equal(t, concat.ConcatenatedCallSite{Start: 0, Length: 4}, locations[0])
	require.Equal(t, concat.ConcatenatedCallSite{Start: 4, Length: 7}, locations[1])

	concatenated, ok := newCall.Bindings["x"].(*arraygraph.Concatenate)
	require.True(t, ok)
	require.Equal(t, []arraygraph.Array{call1.Bindings["x"], call2.Bindings["x"]}, concatenated.Arrays)

	out, ok := newCall.Get("out")
	require.True(t, ok)
	require.Equal(t, arraygraph.IntShape(11), out.Shape()[0])
	require.Equal(t, arraygraph.IntShape(3), out.Shape()[1])

	slicer := concat.NewSlicer()
	slice1, err := slicer.Slice(newCall, "out", fc.Axis, locations[0])
	require.NoError(t, err)
	require.Equal(t, arraygraph.IntShape(4), slice1.Shape()[0])
	slice2, err := slicer.Slice(newCall, "out", fc.Axis, locations[1])
	require.NoError(t, err)
	require.Equal(t, arraygraph.IntShape(7), slice2.Shape()[0])

	again, err := slicer.Slice(newCall, "out", fc.Axis, locations[0])
	require.NoError(t, err)
	require.Same(t, slice1, again)
}

func TestFindFunctionConcatenabilityRejectsNestedCalls(t *testing.T) {
	inner, _ := buildAddOneAlongAxis0(t, 4)
	innerCall := buildCallSite(t, inner, "x0", 4)
	innerResult, ok := innerCall.Get("out")
	require.True(t, ok)

	shape := mustShape(t, arraygraph.IntShape(4), arraygraph.IntShape(3))
	param, err := arraygraph.NewPlaceholder("y", shape, arraygraph.Float32, nil, nil)
	require.NoError(t, err)
	wrapped, err := arraygraph.NewIndexLambda(shape, arraygraph.Float32,
		&scalarexpr.Binary{Op: "+", Left: scalarexpr.Operand("y"), Right: scalarexpr.Operand("inner")},
		map[string]arraygraph.Array{"y": param, "inner": innerResult}, nil, nil, nil)
	require.NoError(t, err)
	outer, err := arraygraph.NewFunctionDefinition([]string{"y"},
		map[string]*arraygraph.Placeholder{"y": param},
		map[string]arraygraph.Array{"out": wrapped}, nil)
	require.NoError(t, err)

	_, err = concat.FindFunctionConcatenability(outer, nil)
	require.Error(t, err)
	require.True(t, errs.Is(err, errs.KindNestedCallUnsupported))
}

func TestBuildBatchesGroupsSimilarReadySites(t *testing.T) {
	fnA, _ := buildAddOneAlongAxis0(t, 4)
	fnB, _ := buildAddOneAlongAxis0(t, 4)
	tag := arraygraph.NewTagSet(arraygraph.FunctionIdentifier{Identifier: "f"})

	a1 := buildCallSite(t, fnA, "a1", 4).WithTags(tag)
	a2 := buildCallSite(t, fnA, "a2", 7).WithTags(tag)
	b1 := buildCallSite(t, fnB, "b1", 4).WithTags(tag)
	lonely := buildCallSite(t, fnA, "lonely", 5)

	pools := concat.FunctionIdentifierPools([]*arraygraph.Call{a1, a2, b1, lonely})
	require.Len(t, pools["f"], 3)

	batches, skipped := concat.BuildBatches(pools["f"])
	require.Len(t, batches, 1)
	require.ElementsMatch(t, []*arraygraph.Call{a1, a2}, batches[0].Sites)
	require.Equal(t, []*arraygraph.Call{b1}, skipped)
}
