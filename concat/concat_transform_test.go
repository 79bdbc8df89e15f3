package concat_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"tensorgraph/arraygraph"
	"tensorgraph/concat"
	"tensorgraph/errs"
)

// TestConcatenateCallsRewritesWholeDAG exercises spec.md scenario 4 end to
// end through the whole-DAG entry point: two call sites to the same f(x),
// pooled by a shared FunctionIdentifier tag, wrapped in a
// DictOfNamedArrays alongside an unrelated output, get folded into one
// concatenated call whose slices replace the original NamedCallResults.
func TestConcatenateCallsRewritesWholeDAG(t *testing.T) {
	fn, _ := buildAddOneAlongAxis0(t, 4)
	tag := arraygraph.NewTagSet(arraygraph.FunctionIdentifier{Identifier: "f"})

	call1 := buildCallSite(t, fn, "x1", 4).WithTags(tag)
	call2 := buildCallSite(t, fn, "x2", 7).WithTags(tag)

	out1, ok := call1.Get("out")
	require.True(t, ok)
	out2, ok := call2.Get("out")
	require.True(t, ok)

	otherShape := mustShape(t, arraygraph.IntShape(2))
	other, err := arraygraph.NewPlaceholder("untouched", otherShape, arraygraph.Float32, nil, nil)
	require.NoError(t, err)

	expr := arraygraph.NewDictOfNamedArrays(
		[]string{"r1", "r2", "passthrough"},
		map[string]arraygraph.Array{"r1": out1, "r2": out2, "passthrough": other},
	)

	rewritten, err := concat.ConcatenateCalls(expr, concat.Options{})
	require.NoError(t, err)

	passthrough, ok := rewritten.Get("passthrough")
	require.True(t, ok)
	require.Same(t, other, passthrough, "an array with no reachable call site must survive unchanged")

	r1, ok := rewritten.Get("r1")
	require.True(t, ok)
	r2, ok := rewritten.Get("r2")
	require.True(t, ok)

	slice1, ok := r1.(*arraygraph.BasicIndex)
	require.True(t, ok, "the first call site's result must become a slice of the concatenated call")
	slice2, ok := r2.(*arraygraph.BasicIndex)
	require.True(t, ok, "the second call site's result must become a slice of the concatenated call")

	require.Equal(t, arraygraph.IntShape(4), slice1.Shape()[0])
	require.Equal(t, arraygraph.IntShape(7), slice2.Shape()[0])

	concatenated1, ok := slice1.Array.(*arraygraph.NamedCallResult)
	require.True(t, ok)
	concatenated2, ok := slice2.Array.(*arraygraph.NamedCallResult)
	require.True(t, ok)
	require.Same(t, concatenated1.Call, concatenated2.Call, "both sites must slice the same concatenated call")

	concatBindings, ok := concatenated1.Call.Bindings["x"].(*arraygraph.Concatenate)
	require.True(t, ok)
	require.Equal(t, []arraygraph.Array{call1.Bindings["x"], call2.Bindings["x"]}, concatBindings.Arrays)
}

// TestConcatenateCallsReportsNoCandidates exercises the default (unchanged
// result) and the err-if-no-calls switch when expr has no eligible call
// sites to pool.
func TestConcatenateCallsReportsNoCandidates(t *testing.T) {
	shape := mustShape(t, arraygraph.IntShape(4))
	lone, err := arraygraph.NewPlaceholder("lone", shape, arraygraph.Float32, nil, nil)
	require.NoError(t, err)
	expr := arraygraph.NewDictOfNamedArrays([]string{"out"}, map[string]arraygraph.Array{"out": lone})

	unchanged, err := concat.ConcatenateCalls(expr, concat.Options{})
	require.NoError(t, err)
	out, ok := unchanged.Get("out")
	require.True(t, ok)
	require.Same(t, lone, out)

	_, err = concat.ConcatenateCalls(expr, concat.Options{ErrIfNoCalls: true})
	require.Error(t, err)
	require.True(t, errs.Is(err, errs.KindNoValidConcatenationCandidate))
}
