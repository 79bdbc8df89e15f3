package preprocess_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"tensorgraph/arraygraph"
	"tensorgraph/preprocess"
	"tensorgraph/scalarexpr"
)

func mustShape(t *testing.T, components ...arraygraph.ShapeComponent) arraygraph.Shape {
	t.Helper()
	s, err := arraygraph.NewShape(nil, components...)
	require.NoError(t, err)
	return s
}

type fakeData struct {
	shape arraygraph.Shape
	dtype arraygraph.Dtype
}

func (f fakeData) Shape() arraygraph.Shape { return f.shape }
func (f fakeData) Dtype() arraygraph.Dtype { return f.dtype }

func TestRunRenamesDataWrapperAndCapturesBoundArguments(t *testing.T) {
	shape := mustShape(t, arraygraph.IntShape(4))
	data := fakeData{shape: shape, dtype: arraygraph.Float32}
	dw, err := arraygraph.NewDataWrapper("", shape, arraygraph.Float32, data, nil, nil)
	require.NoError(t, err)
	body, err := arraygraph.NewIndexLambda(shape, arraygraph.Float32,
		&scalarexpr.Binary{Op: "+", Left: scalarexpr.Operand("w"), Right: scalarexpr.NewFloatConst(1)},
		map[string]arraygraph.Array{"w": dw}, nil, nil, nil)
	require.NoError(t, err)
	outputs := arraygraph.NewDictOfNamedArrays([]string{"out"}, map[string]arraygraph.Array{"out": body})

	result, err := preprocess.Run(outputs)
	require.NoError(t, err)

	out, ok := result.Outputs.Get("out")
	require.True(t, ok)
	il, ok := out.(*arraygraph.IndexLambda)
	require.True(t, ok)
	require.Len(t, il.Bindings, 1)
	for _, b := range il.Bindings {
		ph, ok := b.(*arraygraph.Placeholder)
		require.True(t, ok, "DataWrapper should have been replaced by a Placeholder")
		require.Regexp(t, "^_tg_data_", ph.Name)
		ref, ok := result.BoundArguments[ph.Name]
		require.True(t, ok)
		require.Equal(t, data, ref)
	}
}

func TestRunHonorsNamedTagAndRejectsConflict(t *testing.T) {
	shape := mustShape(t, arraygraph.IntShape(2))
	data := fakeData{shape: shape, dtype: arraygraph.Float32}
	named := arraygraph.NewTagSet(arraygraph.Named{Name: "my_input"})
	dw, err := arraygraph.NewDataWrapper("", shape, arraygraph.Float32, data, nil, named)
	require.NoError(t, err)
	existing, err := arraygraph.NewPlaceholder("my_input", shape, arraygraph.Float32, nil, nil)
	require.NoError(t, err)
	body, err := arraygraph.NewIndexLambda(shape, arraygraph.Float32,
		&scalarexpr.Binary{Op: "+", Left: scalarexpr.Operand("w"), Right: scalarexpr.Operand("p")},
		map[string]arraygraph.Array{"w": dw, "p": existing}, nil, nil, nil)
	require.NoError(t, err)
	outputs := arraygraph.NewDictOfNamedArrays([]string{"out"}, map[string]arraygraph.Array{"out": body})

	_, err = preprocess.Run(outputs)
	require.Error(t, err)
}

func TestRunRejectsTwoDistinctInputsWithSameName(t *testing.T) {
	shape := mustShape(t, arraygraph.IntShape(2))
	a, err := arraygraph.NewPlaceholder("dup", shape, arraygraph.Float32, nil, nil)
	require.NoError(t, err)
	b, err := arraygraph.NewPlaceholder("dup", shape, arraygraph.Float32, nil, nil)
	require.NoError(t, err)
	out1, err := arraygraph.NewIndexLambda(shape, arraygraph.Float32, scalarexpr.Operand("a"),
		map[string]arraygraph.Array{"a": a}, nil, nil, nil)
	require.NoError(t, err)
	out2, err := arraygraph.NewIndexLambda(shape, arraygraph.Float32, scalarexpr.Operand("b"),
		map[string]arraygraph.Array{"b": b}, nil, nil, nil)
	require.NoError(t, err)
	outputs := arraygraph.NewDictOfNamedArrays([]string{"out1", "out2"},
		map[string]arraygraph.Array{"out1": out1, "out2": out2})

	_, err = preprocess.Run(outputs)
	require.Error(t, err)
}

func TestRunLowersHighLevelNodes(t *testing.T) {
	shape := mustShape(t, arraygraph.IntShape(4))
	param, err := arraygraph.NewPlaceholder("x", shape, arraygraph.Float32, nil, nil)
	require.NoError(t, err)
	roll, err := arraygraph.NewRoll(param, scalarexpr.NewIntConst(1), 0, nil)
	require.NoError(t, err)
	outputs := arraygraph.NewDictOfNamedArrays([]string{"out"}, map[string]arraygraph.Array{"out": roll})

	result, err := preprocess.Run(outputs)
	require.NoError(t, err)
	out, ok := result.Outputs.Get("out")
	require.True(t, ok)
	_, ok = out.(*arraygraph.IndexLambda)
	require.True(t, ok, "Roll should have been lowered to an IndexLambda")
}

func TestRunComputeOrderRespectsInterOutputDependency(t *testing.T) {
	shape := mustShape(t, arraygraph.IntShape(1))
	x, err := arraygraph.NewPlaceholder("x", shape, arraygraph.Float32, nil, nil)
	require.NoError(t, err)
	base, err := arraygraph.NewIndexLambda(shape, arraygraph.Float32, scalarexpr.Operand("x"),
		map[string]arraygraph.Array{"x": x}, nil, nil, nil)
	require.NoError(t, err)
	derived, err := arraygraph.NewIndexLambda(shape, arraygraph.Float32,
		&scalarexpr.Binary{Op: "+", Left: scalarexpr.Operand("b"), Right: scalarexpr.NewFloatConst(1)},
		map[string]arraygraph.Array{"b": base}, nil, nil, nil)
	require.NoError(t, err)
	outputs := arraygraph.NewDictOfNamedArrays([]string{"derived", "base"},
		map[string]arraygraph.Array{"derived": derived, "base": base})

	result, err := preprocess.Run(outputs)
	require.NoError(t, err)
	require.Equal(t, []string{"derived", "base"}, result.ComputeOrder)
}
