package scalarexpr_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"tensorgraph/scalarexpr"
)

func TestEqualIgnoresIdentity(t *testing.T) {
	a := &scalarexpr.Binary{
		Op:    "+",
		Left:  scalarexpr.Operand("a"),
		Right: scalarexpr.NewIntConst(1),
	}
	b := &scalarexpr.Binary{
		Op:    "+",
		Left:  scalarexpr.Operand("a"),
		Right: scalarexpr.NewIntConst(1),
	}
	require.True(t, scalarexpr.Equal(a, b))
	require.False(t, scalarexpr.Equal(a, scalarexpr.NewIntConst(1)))
}

func TestHashConsistentWithEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b scalarexpr.Expr
	}{
		{"equal consts", scalarexpr.NewIntConst(3), scalarexpr.NewIntConst(3)},
		{"equal vars", scalarexpr.Operand("x"), scalarexpr.Operand("x")},
		{
			"equal calls",
			&scalarexpr.Call{FuncName: "sin", Args: []scalarexpr.Expr{scalarexpr.NewIntConst(1)}},
			&scalarexpr.Call{FuncName: "sin", Args: []scalarexpr.Expr{scalarexpr.NewIntConst(1)}},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.True(t, scalarexpr.Equal(tc.a, tc.b))
			require.Equal(t, scalarexpr.Hash(tc.a), scalarexpr.Hash(tc.b))
		})
	}
}

func TestDependenciesCollectsOperandsAndSizeParams(t *testing.T) {
	e := &scalarexpr.Binary{
		Op:   "*",
		Left: scalarexpr.Operand("x"),
		Right: &scalarexpr.Subscript{
			Name:  "y",
			Index: []scalarexpr.Expr{scalarexpr.SizeParamVar("n")},
		},
	}
	deps := scalarexpr.Dependencies(e)
	require.Contains(t, deps.Operands, "x")
	require.Contains(t, deps.Operands, "y")
	require.Contains(t, deps.SizeParams, "n")
}

func TestIsAffineIn(t *testing.T) {
	known := map[string]bool{"n": true, "m": true}

	affine := &scalarexpr.Binary{
		Op:    "+",
		Left:  scalarexpr.SizeParamVar("n"),
		Right: scalarexpr.NewIntConst(2),
	}
	require.True(t, scalarexpr.IsAffineIn(affine, known))

	nonAffine := &scalarexpr.Binary{
		Op:    "*",
		Left:  scalarexpr.SizeParamVar("n"),
		Right: scalarexpr.SizeParamVar("m"),
	}
	require.False(t, scalarexpr.IsAffineIn(nonAffine, known))

	unknownRef := scalarexpr.SizeParamVar("k")
	require.False(t, scalarexpr.IsAffineIn(unknownRef, known))
}

func TestSubstitute(t *testing.T) {
	e := &scalarexpr.Binary{
		Op:    "+",
		Left:  scalarexpr.Operand("x"),
		Right: scalarexpr.NewIntConst(1),
	}
	repl := map[scalarexpr.VarKey]scalarexpr.Expr{
		{Name: "x", Kind: scalarexpr.VarOperand}: scalarexpr.NewIntConst(41),
	}
	got := scalarexpr.Substitute(e, repl)
	want := &scalarexpr.Binary{Op: "+", Left: scalarexpr.NewIntConst(41), Right: scalarexpr.NewIntConst(1)}
	require.True(t, scalarexpr.Equal(got, want))
}

func TestDataIndependent(t *testing.T) {
	require.True(t, scalarexpr.DataIndependent(scalarexpr.NewIntConst(4)))
	require.True(t, scalarexpr.DataIndependent(scalarexpr.SizeParamVar("n")))
	require.False(t, scalarexpr.DataIndependent(&scalarexpr.Subscript{Name: "x", Index: []scalarexpr.Expr{scalarexpr.ElementwiseIndex(0)}}))
}
