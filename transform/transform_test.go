package transform_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"tensorgraph/arraygraph"
	"tensorgraph/scalarexpr"
	"tensorgraph/transform"
)

func mustShape(t *testing.T, components ...arraygraph.ShapeComponent) arraygraph.Shape {
	t.Helper()
	s, err := arraygraph.NewShape(nil, components...)
	require.NoError(t, err)
	return s
}

func mustIndexLambda(t *testing.T, shape arraygraph.Shape, expr scalarexpr.Expr, bindings map[string]arraygraph.Array) *arraygraph.IndexLambda {
	t.Helper()
	il, err := arraygraph.NewIndexLambda(shape, arraygraph.Float32, expr, bindings, nil, nil, nil)
	require.NoError(t, err)
	return il
}

func TestCopyMapperIdentityReturnsSameGraphWhenUnchanged(t *testing.T) {
	shape := mustShape(t, arraygraph.IntShape(4))
	ph, err := arraygraph.NewPlaceholder("x", shape, arraygraph.Float32, nil, nil)
	require.NoError(t, err)
	il := mustIndexLambda(t, shape, scalarexpr.Operand("x"), map[string]arraygraph.Array{"x": ph})

	m := transform.NewCopyMapper()
	out := m.Rec(il)
	require.Same(t, il, out, "an identity CopyMapper rewrite must return the same node when nothing changed")
}

func TestCopyMapperRewritesSharedSubgraphOnce(t *testing.T) {
	shape := mustShape(t, arraygraph.IntShape(4))
	ph, err := arraygraph.NewPlaceholder("x", shape, arraygraph.Float32, nil, nil)
	require.NoError(t, err)
	shared := mustIndexLambda(t, shape, scalarexpr.Operand("x"), map[string]arraygraph.Array{"x": ph})

	stacked, err := arraygraph.NewStack([]arraygraph.Array{shared, shared}, 0, nil)
	require.NoError(t, err)

	visits := 0
	m := transform.NewCopyMapper()
	wrapped := &countingMapper{CopyMapper: m, onIndexLambda: func() { visits++ }}
	m.Self = wrapped

	out := m.Rec(stacked)
	require.Equal(t, 1, visits, "a shared node must only be visited once regardless of fan-in")
	stackOut, ok := out.(*arraygraph.Stack)
	require.True(t, ok)
	require.Same(t, stackOut.Arrays[0], stackOut.Arrays[1])
}

type countingMapper struct {
	*transform.CopyMapper
	onIndexLambda func()
}

func (c *countingMapper) VisitIndexLambda(n *arraygraph.IndexLambda) arraygraph.Array {
	c.onIndexLambda()
	return c.CopyMapper.VisitIndexLambda(n)
}

func TestDeduplicatorInternsStructurallyEqualNodes(t *testing.T) {
	shape := mustShape(t, arraygraph.IntShape(4))
	ph1, err := arraygraph.NewPlaceholder("x", shape, arraygraph.Float32, nil, nil)
	require.NoError(t, err)
	ph2, err := arraygraph.NewPlaceholder("x", shape, arraygraph.Float32, nil, nil)
	require.NoError(t, err)
	require.NotSame(t, ph1, ph2)

	il1 := mustIndexLambda(t, shape, scalarexpr.Operand("x"), map[string]arraygraph.Array{"x": ph1})
	il2 := mustIndexLambda(t, shape, scalarexpr.Operand("x"), map[string]arraygraph.Array{"x": ph2})

	stacked, err := arraygraph.NewStack([]arraygraph.Array{il1, il2}, 0, nil)
	require.NoError(t, err)

	d := transform.NewDeduplicator()
	out := d.Rec(stacked).(*arraygraph.Stack)
	require.Same(t, out.Arrays[0], out.Arrays[1], "structurally equal but independently constructed nodes must intern to one pointer")
}

func TestInputGathererStopsAtCallBindings(t *testing.T) {
	shape := mustShape(t, arraygraph.IntShape(4))
	param, err := arraygraph.NewPlaceholder("p", shape, arraygraph.Float32, nil, nil)
	require.NoError(t, err)
	body := mustIndexLambda(t, shape, scalarexpr.Operand("p"), map[string]arraygraph.Array{"p": param})

	fn, err := arraygraph.NewFunctionDefinition(
		[]string{"p"},
		map[string]*arraygraph.Placeholder{"p": param},
		map[string]arraygraph.Array{"out": body},
		nil,
	)
	require.NoError(t, err)

	callerInput, err := arraygraph.NewPlaceholder("caller_in", shape, arraygraph.Float32, nil, nil)
	require.NoError(t, err)
	call := arraygraph.NewCall(fn, map[string]arraygraph.Array{"p": callerInput}, nil)
	result, ok := call.Get("out")
	require.True(t, ok)

	g := transform.NewInputGatherer()
	g.Gather(result)
	inputs := g.Inputs()
	require.Len(t, inputs, 1)
	ph, ok := inputs[0].(*arraygraph.Placeholder)
	require.True(t, ok)
	require.Equal(t, "caller_in", ph.Name)
}

func TestTopologicalOrderRespectsDependenciesAndIsDeterministic(t *testing.T) {
	shape := mustShape(t, arraygraph.IntShape(4))
	a, err := arraygraph.NewPlaceholder("a", shape, arraygraph.Float32, nil, nil)
	require.NoError(t, err)
	b, err := arraygraph.NewPlaceholder("b", shape, arraygraph.Float32, nil, nil)
	require.NoError(t, err)

	sum := mustIndexLambda(t, shape, &scalarexpr.Binary{Op: "+", Left: scalarexpr.Operand("a"), Right: scalarexpr.Operand("b")},
		map[string]arraygraph.Array{"a": a, "b": b})

	order1 := transform.TopologicalOrder([]arraygraph.Array{sum})
	order2 := transform.TopologicalOrder([]arraygraph.Array{sum})

	require.Equal(t, len(order1), len(order2))
	for i := range order1 {
		require.Same(t, order1[i], order2[i])
	}
	positions := map[arraygraph.Array]int{}
	for i, n := range order1 {
		positions[n] = i
	}
	require.Less(t, positions[a], positions[sum])
	require.Less(t, positions[b], positions[sum])
}

func TestCountNodesCountsEachSharedNodeOnce(t *testing.T) {
	shape := mustShape(t, arraygraph.IntShape(4))
	ph, err := arraygraph.NewPlaceholder("x", shape, arraygraph.Float32, nil, nil)
	require.NoError(t, err)
	shared := mustIndexLambda(t, shape, scalarexpr.Operand("x"), map[string]arraygraph.Array{"x": ph})
	stacked, err := arraygraph.NewStack([]arraygraph.Array{shared, shared}, 0, nil)
	require.NoError(t, err)

	// stacked, shared, ph = 3 distinct nodes even though shared appears twice.
	require.Equal(t, 3, transform.CountNodes(stacked))
}
