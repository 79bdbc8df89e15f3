package loopgen_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"tensorgraph/arraygraph"
	"tensorgraph/loopgen"
	"tensorgraph/preprocess"
	"tensorgraph/scalarexpr"
)

func mustShape(t *testing.T, components ...arraygraph.ShapeComponent) arraygraph.Shape {
	t.Helper()
	s, err := arraygraph.NewShape(nil, components...)
	require.NoError(t, err)
	return s
}

func mustPreprocess(t *testing.T, outputs *arraygraph.DictOfNamedArrays) *preprocess.Result {
	t.Helper()
	result, err := preprocess.Run(outputs)
	require.NoError(t, err)
	return result
}

// x + 1, over a single Placeholder input, is the smallest graph that
// exercises the default (ImplInlined) selection rule straight through to a
// generated store.
func TestGenerateElementwiseAddProducesSingleInstruction(t *testing.T) {
	shape := mustShape(t, arraygraph.IntShape(4))
	x, err := arraygraph.NewPlaceholder("x", shape, arraygraph.Float32, nil, nil)
	require.NoError(t, err)
	expr := &scalarexpr.Binary{Op: "+", Left: scalarexpr.Operand("x"), Right: scalarexpr.NewFloatConst(1)}
	il, err := arraygraph.NewIndexLambda(shape, arraygraph.Float32, expr,
		map[string]arraygraph.Array{"x": x}, nil, nil, nil)
	require.NoError(t, err)
	outputs := arraygraph.NewDictOfNamedArrays([]string{"out"}, map[string]arraygraph.Array{"out": il})

	result := mustPreprocess(t, outputs)
	program, err := loopgen.Generate(result, loopgen.Target{}, loopgen.Options{}, "add_one", nil, nil)
	require.NoError(t, err)

	kernel := program.Unit.Entrypoint()
	require.Len(t, kernel.Instructions, 1)
	require.Len(t, kernel.Domains, 1)
	require.True(t, kernel.BoundsCheckingOff, "no loopy call means bounds checking is always disabled")

	var sawOutArg bool
	for _, arg := range kernel.Args {
		if arg.ArgName() == "out" {
			sawOutArg = true
		}
	}
	require.True(t, sawOutArg)
}

// Multiple outputs without ReturnDict must be rejected before any kernel is
// built; the same inputs succeed once ReturnDict is set.
func TestGenerateRejectsMultipleOutputsWithoutReturnDict(t *testing.T) {
	shape := mustShape(t, arraygraph.IntShape(2))
	x, err := arraygraph.NewPlaceholder("x", shape, arraygraph.Float32, nil, nil)
	require.NoError(t, err)
	a, err := arraygraph.NewIndexLambda(shape, arraygraph.Float32, scalarexpr.Operand("x"),
		map[string]arraygraph.Array{"x": x}, nil, nil, nil)
	require.NoError(t, err)
	b, err := arraygraph.NewIndexLambda(shape, arraygraph.Float32,
		&scalarexpr.Binary{Op: "+", Left: scalarexpr.Operand("x"), Right: scalarexpr.NewFloatConst(1)},
		map[string]arraygraph.Array{"x": x}, nil, nil, nil)
	require.NoError(t, err)
	outputs := arraygraph.NewDictOfNamedArrays([]string{"a", "b"}, map[string]arraygraph.Array{"a": a, "b": b})

	result := mustPreprocess(t, outputs)

	_, err = loopgen.Generate(result, loopgen.Target{}, loopgen.Options{ReturnDict: false}, "fn", nil, nil)
	require.Error(t, err)

	_, err = loopgen.Generate(result, loopgen.Target{}, loopgen.Options{ReturnDict: true}, "fn", nil, nil)
	require.NoError(t, err)
}

// An ImplStored-tagged sub-expression must materialize as its own temporary
// and instruction, with the consuming instruction depending on it.
func TestGenerateImplStoredProducesTemporaryAndDependency(t *testing.T) {
	shape := mustShape(t, arraygraph.IntShape(4))
	x, err := arraygraph.NewPlaceholder("x", shape, arraygraph.Float32, nil, nil)
	require.NoError(t, err)
	storedTags := arraygraph.NewTagSet(arraygraph.ImplStored{})
	squared, err := arraygraph.NewIndexLambda(shape, arraygraph.Float32,
		&scalarexpr.Binary{Op: "*", Left: scalarexpr.Operand("x"), Right: scalarexpr.Operand("x")},
		map[string]arraygraph.Array{"x": x}, nil, nil, storedTags)
	require.NoError(t, err)
	result, err := arraygraph.NewIndexLambda(shape, arraygraph.Float32,
		&scalarexpr.Binary{Op: "+", Left: scalarexpr.Operand("s"), Right: scalarexpr.NewFloatConst(1)},
		map[string]arraygraph.Array{"s": squared}, nil, nil, nil)
	require.NoError(t, err)
	outputs := arraygraph.NewDictOfNamedArrays([]string{"out"}, map[string]arraygraph.Array{"out": result})

	pre := mustPreprocess(t, outputs)
	program, err := loopgen.Generate(pre, loopgen.Target{}, loopgen.Options{}, "stored", nil, nil)
	require.NoError(t, err)

	kernel := program.Unit.Entrypoint()
	require.Len(t, kernel.Instructions, 2, "one for the stored temporary, one for the output")
	require.NotEmpty(t, kernel.TemporaryVariables, "the stored sub-expression must have its own temporary")

	var sawDependency bool
	for _, instr := range kernel.Instructions {
		if len(instr.DependsOn) > 0 {
			sawDependency = true
		}
	}
	require.True(t, sawDependency, "output instruction should depend on the stored temporary's instruction")
}

// An ImplSubstitution-tagged sub-expression registers a substitution rule
// instead of a temporary or an instruction.
func TestGenerateImplSubstitutionRegistersRule(t *testing.T) {
	shape := mustShape(t, arraygraph.IntShape(4))
	x, err := arraygraph.NewPlaceholder("x", shape, arraygraph.Float32, nil, nil)
	require.NoError(t, err)
	substTags := arraygraph.NewTagSet(arraygraph.ImplSubstitution{})
	doubled, err := arraygraph.NewIndexLambda(shape, arraygraph.Float32,
		&scalarexpr.Binary{Op: "+", Left: scalarexpr.Operand("x"), Right: scalarexpr.Operand("x")},
		map[string]arraygraph.Array{"x": x}, nil, nil, substTags)
	require.NoError(t, err)
	result, err := arraygraph.NewIndexLambda(shape, arraygraph.Float32,
		&scalarexpr.Binary{Op: "+", Left: scalarexpr.Operand("d"), Right: scalarexpr.NewFloatConst(1)},
		map[string]arraygraph.Array{"d": doubled}, nil, nil, nil)
	require.NoError(t, err)
	outputs := arraygraph.NewDictOfNamedArrays([]string{"out"}, map[string]arraygraph.Array{"out": result})

	pre := mustPreprocess(t, outputs)
	program, err := loopgen.Generate(pre, loopgen.Target{}, loopgen.Options{}, "subst", nil, nil)
	require.NoError(t, err)

	kernel := program.Unit.Entrypoint()
	require.Len(t, kernel.Instructions, 1, "the substituted sub-expression never gets its own instruction")
	require.NotEmpty(t, kernel.Substitutions)
}

// A bare VarSizeParam reference inside an IndexLambda body resolves
// globally by name, independent of the Bindings map, and the size
// parameter still ends up declared exactly once as a kernel value argument.
func TestGenerateSizeParamReferenceBecomesValueArg(t *testing.T) {
	n, err := arraygraph.NewSizeParam("n", nil)
	require.NoError(t, err)
	shape, err := arraygraph.NewShape(map[string]bool{"n": true},
		arraygraph.ExprShape(&scalarexpr.Var{Name: "n", Kind: scalarexpr.VarSizeParam}))
	require.NoError(t, err)
	x, err := arraygraph.NewPlaceholder("x", shape, arraygraph.Int64, nil, nil)
	require.NoError(t, err)
	expr := &scalarexpr.Binary{
		Op:    "+",
		Left:  scalarexpr.Operand("x"),
		Right: &scalarexpr.Var{Name: "n", Kind: scalarexpr.VarSizeParam},
	}
	// n is also bound under "n_ref", unused by expr: this is how the
	// SizeParam node itself becomes reachable from the outputs, while
	// expr's own "n" reference resolves globally without going through
	// Bindings at all.
	il, err := arraygraph.NewIndexLambda(shape, arraygraph.Int64, expr,
		map[string]arraygraph.Array{"x": x, "n_ref": n}, nil, nil, nil)
	require.NoError(t, err)
	outputs := arraygraph.NewDictOfNamedArrays([]string{"out"}, map[string]arraygraph.Array{"out": il})

	result := mustPreprocess(t, outputs)
	program, err := loopgen.Generate(result, loopgen.Target{}, loopgen.Options{}, "fn", nil, nil)
	require.NoError(t, err)

	kernel := program.Unit.Entrypoint()
	sizeParamArgs := 0
	for _, arg := range kernel.Args {
		if arg.ArgName() == "n" {
			sizeParamArgs++
		}
	}
	require.Equal(t, 1, sizeParamArgs, "n must appear among the kernel's arguments exactly once")
}

// A zero-size axis suppresses domain/instruction/argument emission for that
// output entirely.
func TestGenerateEmptyArrayIsSuppressed(t *testing.T) {
	shape := mustShape(t, arraygraph.IntShape(0), arraygraph.IntShape(3))
	x, err := arraygraph.NewPlaceholder("x", shape, arraygraph.Float32, nil, nil)
	require.NoError(t, err)
	il, err := arraygraph.NewIndexLambda(shape, arraygraph.Float32, scalarexpr.Operand("x"),
		map[string]arraygraph.Array{"x": x}, nil, nil, nil)
	require.NoError(t, err)
	outputs := arraygraph.NewDictOfNamedArrays([]string{"out"}, map[string]arraygraph.Array{"out": il})

	result := mustPreprocess(t, outputs)
	program, err := loopgen.Generate(result, loopgen.Target{}, loopgen.Options{}, "fn", nil, nil)
	require.NoError(t, err)

	kernel := program.Unit.Entrypoint()
	require.Empty(t, kernel.Instructions)
	require.Empty(t, kernel.Domains)
}
