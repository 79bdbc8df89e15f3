package polyhedral

import (
	"sort"

	"tensorgraph/errs"
	"tensorgraph/scalarexpr"
)

// Bound is one named dimension's half-open range, as consumed by FromBox.
type Bound struct {
	Name  string
	Lower scalarexpr.Expr
	Upper scalarexpr.Expr
}

// FromBox builds the half-open box domain for bounds (spec.md §4.6.2;
// pytato's domain_for_shape): a universe over bounds' names as set
// dimensions and every free size-parameter name appearing in the bounds as
// parameter dimensions, narrowed by one Lower <= Name < Upper constraint
// per bound. Every bound expression must be affine in the known size
// parameters (spec.md §4.6.2 "Shape and bound expressions must be affine
// in the parameter names"); violations are reported rather than silently
// accepted.
func FromBox(bounds []Bound, knownSizeParams map[string]bool) (*Set, error) {
	setDims := make([]string, len(bounds))
	paramSet := map[string]struct{}{}
	for i, b := range bounds {
		setDims[i] = b.Name
		if !scalarexpr.IsAffineIn(b.Lower, knownSizeParams) {
			return nil, errs.New(errs.KindBadShape, "domain bound %q lower expression is not affine", b.Name)
		}
		if !scalarexpr.IsAffineIn(b.Upper, knownSizeParams) {
			return nil, errs.New(errs.KindBadShape, "domain bound %q upper expression is not affine", b.Name)
		}
		for name := range scalarexpr.Dependencies(b.Lower).SizeParams {
			paramSet[name] = struct{}{}
		}
		for name := range scalarexpr.Dependencies(b.Upper).SizeParams {
			paramSet[name] = struct{}{}
		}
	}
	paramDims := make([]string, 0, len(paramSet))
	for name := range paramSet {
		paramDims = append(paramDims, name)
	}
	sort.Strings(paramDims)

	s := Universe(setDims, paramDims)
	for _, b := range bounds {
		s = s.WithConstraint(Constraint{Dim: b.Name, Lower: b.Lower, Upper: b.Upper})
	}
	return s, nil
}
