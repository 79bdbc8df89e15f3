package loopir_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"tensorgraph/arraygraph"
	"tensorgraph/loopir"
)

func TestLoopKernelTagInameDeduplicates(t *testing.T) {
	k := loopir.NewLoopKernel("k")
	k.TagIname("i", "unroll")
	k.TagIname("i", "unroll")
	k.TagIname("i", "vectorize")
	require.Len(t, k.InameTags["i"], 2)
}

func TestLoopKernelDisableBoundsChecking(t *testing.T) {
	k := loopir.NewLoopKernel("k")
	require.False(t, k.BoundsCheckingOff)
	k.DisableBoundsChecking()
	require.True(t, k.BoundsCheckingOff)
}

func TestTranslationUnitEntrypoint(t *testing.T) {
	k := loopir.NewLoopKernel("main")
	u := loopir.NewTranslationUnit(k)
	require.Same(t, k, u.Entrypoint())
}

func TestGlobalArgIsGlobalAddressSpace(t *testing.T) {
	arg := loopir.GlobalArg("out", arraygraph.Float32, []loopir.Expr{&loopir.Var{Name: "n"}})
	require.Equal(t, loopir.AddressGlobal, arg.AddressSpace)
	require.Equal(t, "out", arg.ArgName())
}

func TestExprStringRendersNestedStructure(t *testing.T) {
	e := &loopir.Reduction{
		Op: "sum",
		Bounds: []loopir.ReductionBound{
			{Name: "_pt_sum_r0", Lower: loopir.NewIntConst(0), Upper: &loopir.Var{Name: "n"}},
		},
		Inner: &loopir.Subscript{Name: "x", Index: []loopir.Expr{&loopir.Var{Name: "_pt_sum_r0"}}},
	}
	require.Contains(t, e.String(), "reduce(sum")
	require.Contains(t, e.String(), "x[_pt_sum_r0]")
}
