package polyhedral_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"tensorgraph/errs"
	"tensorgraph/polyhedral"
	"tensorgraph/scalarexpr"
)

func TestFromBoxBuildsUniverseThenConstrains(t *testing.T) {
	bounds := []polyhedral.Bound{
		{Name: "out_dim0", Lower: scalarexpr.NewIntConst(0), Upper: scalarexpr.SizeParamVar("n")},
	}
	s, err := polyhedral.FromBox(bounds, map[string]bool{"n": true})
	require.NoError(t, err)
	require.False(t, s.IsEmpty())
	require.Equal(t, []string{"out_dim0"}, s.SetDims())
	require.Equal(t, []string{"n"}, s.ParamDims())
	require.Len(t, s.Constraints(), 1)
}

func TestFromBoxRejectsNonAffineBound(t *testing.T) {
	nonAffine := &scalarexpr.Subscript{Name: "x", Index: []scalarexpr.Expr{scalarexpr.ElementwiseIndex(0)}}
	bounds := []polyhedral.Bound{
		{Name: "r0", Lower: scalarexpr.NewIntConst(0), Upper: nonAffine},
	}
	_, err := polyhedral.FromBox(bounds, nil)
	require.Error(t, err)
	require.True(t, errs.Is(err, errs.KindBadShape))
}

func TestWithConstraintTightensOverlappingConstantRanges(t *testing.T) {
	s := polyhedral.Universe([]string{"i"}, nil)
	s = s.WithConstraint(polyhedral.Constraint{
		Dim: "i", Lower: scalarexpr.NewIntConst(0), Upper: scalarexpr.NewIntConst(4),
	})
	s = s.WithConstraint(polyhedral.Constraint{
		Dim: "i", Lower: scalarexpr.NewIntConst(1), Upper: scalarexpr.NewIntConst(6),
	})
	require.False(t, s.IsEmpty())
	require.Len(t, s.Constraints(), 1)
	c := s.Constraints()[0]
	lower, ok := c.Lower.(*scalarexpr.Const)
	require.True(t, ok)
	require.Equal(t, int64(1), lower.IntValue)
	upper, ok := c.Upper.(*scalarexpr.Const)
	require.True(t, ok)
	require.Equal(t, int64(4), upper.IntValue)
}

func TestWithConstraintCollapsesDisjointConstantRanges(t *testing.T) {
	s := polyhedral.Universe([]string{"i"}, nil)
	s = s.WithConstraint(polyhedral.Constraint{
		Dim: "i", Lower: scalarexpr.NewIntConst(0), Upper: scalarexpr.NewIntConst(2),
	})
	s = s.WithConstraint(polyhedral.Constraint{
		Dim: "i", Lower: scalarexpr.NewIntConst(5), Upper: scalarexpr.NewIntConst(8),
	})
	require.True(t, s.IsEmpty())
}

func TestIntersectUnionsDimensionNames(t *testing.T) {
	a := polyhedral.Universe([]string{"i"}, []string{"n"})
	b := polyhedral.Universe([]string{"j"}, []string{"m"})
	merged := a.Intersect(b)
	require.ElementsMatch(t, []string{"i", "j"}, merged.SetDims())
	require.ElementsMatch(t, []string{"n", "m"}, merged.ParamDims())
}

func TestEmptySetStaysEmptyUnderWithConstraint(t *testing.T) {
	s := polyhedral.Empty([]string{"i"}, nil)
	s2 := s.WithConstraint(polyhedral.Constraint{Dim: "i", Lower: scalarexpr.NewIntConst(0), Upper: scalarexpr.NewIntConst(4)})
	require.True(t, s2.IsEmpty())
}
