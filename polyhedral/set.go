package polyhedral

import (
	"sort"

	"tensorgraph/scalarexpr"
)

// Constraint restricts one set dimension to a half-open integer range
// Lower <= Dim < Upper (spec.md §4.6.2's "0 <= _dim_i < shape_i" /
// "lower <= _r_i < upper" shapes -- every box domain this pipeline ever
// builds is a conjunction of exactly these).
type Constraint struct {
	Dim   string
	Lower scalarexpr.Expr
	Upper scalarexpr.Expr
}

// Set is a (possibly empty) box domain over named set dimensions and named
// parameter dimensions, grounded on islpy.BasicSet as built by pytato's
// domain_for_shape: a universe over a named space, narrowed by conjoining
// one half-open constraint per dimension.
type Set struct {
	setDims     []string
	paramDims   []string
	constraints []Constraint
	isEmpty     bool
}

// Universe returns the unconstrained set over the given set and parameter
// dimension names (islpy.BasicSet.universe).
func Universe(setDims, paramDims []string) *Set {
	return &Set{setDims: copyStrings(setDims), paramDims: copyStrings(paramDims)}
}

// Empty returns the empty set over the given dimensions (islpy.BasicSet.empty).
func Empty(setDims, paramDims []string) *Set {
	return &Set{setDims: copyStrings(setDims), paramDims: copyStrings(paramDims), isEmpty: true}
}

// IsEmpty reports whether s has been narrowed to the empty set.
func (s *Set) IsEmpty() bool { return s.isEmpty }

// SetDims returns s's set-dimension names.
func (s *Set) SetDims() []string { return copyStrings(s.setDims) }

// ParamDims returns s's parameter-dimension names.
func (s *Set) ParamDims() []string { return copyStrings(s.paramDims) }

// Constraints returns s's constraints in the order they were added, one
// final (tightened) constraint per dimension.
func (s *Set) Constraints() []Constraint {
	out := make([]Constraint, len(s.constraints))
	copy(out, s.constraints)
	return out
}

// WithConstraint conjoins c onto s (the `dom &= ...` step of
// domain_for_shape), returning a new Set. When s already carries a
// constraint on c's dimension and both are fully constant, the two ranges
// are tightened to their intersection (max of the lowers, min of the
// uppers); a tightened range with lower >= upper collapses the whole set
// to Empty, the same way islpy.BasicSet.get_basic_sets() returning nothing
// produces BasicSet.empty in domain_for_shape.
func (s *Set) WithConstraint(c Constraint) *Set {
	if s.isEmpty {
		return s
	}
	constraints := make([]Constraint, 0, len(s.constraints)+1)
	merged := false
	for _, existing := range s.constraints {
		if existing.Dim != c.Dim {
			constraints = append(constraints, existing)
			continue
		}
		tightened, ok := tighten(existing, c)
		if !ok {
			return Empty(s.setDims, s.paramDims)
		}
		constraints = append(constraints, tightened)
		merged = true
	}
	if !merged {
		constraints = append(constraints, c)
	}
	return &Set{setDims: s.setDims, paramDims: s.paramDims, constraints: constraints}
}

// Intersect conjoins every constraint of other onto s, unioning their
// dimension name lists.
func (s *Set) Intersect(other *Set) *Set {
	if s.isEmpty || other.isEmpty {
		return Empty(unionStrings(s.setDims, other.setDims), unionStrings(s.paramDims, other.paramDims))
	}
	out := &Set{
		setDims:     unionStrings(s.setDims, other.setDims),
		paramDims:   unionStrings(s.paramDims, other.paramDims),
		constraints: append([]Constraint{}, s.constraints...),
	}
	for _, c := range other.constraints {
		out = out.WithConstraint(c)
	}
	return out
}

// tighten intersects a and b (same Dim), returning the narrower range and
// false if the bounds are fully constant and the intersection is empty.
// Symbolic bounds are passed through unchecked -- this package has no
// affine-comparison solver, matching the package doc's scope note.
func tighten(a, b Constraint) (Constraint, bool) {
	al, aok := constInt(a.Lower)
	au, auok := constInt(a.Upper)
	bl, bok := constInt(b.Lower)
	bu, buok := constInt(b.Upper)
	if !aok || !auok || !bok || !buok {
		return a, true
	}
	lower := al
	if bl > lower {
		lower = bl
	}
	upper := au
	if bu < upper {
		upper = bu
	}
	if lower >= upper {
		return Constraint{}, false
	}
	return Constraint{Dim: a.Dim, Lower: scalarexpr.NewIntConst(lower), Upper: scalarexpr.NewIntConst(upper)}, true
}

func constInt(e scalarexpr.Expr) (int64, bool) {
	c, ok := e.(*scalarexpr.Const)
	if !ok || c.IsFloat {
		return 0, false
	}
	return c.IntValue, true
}

func copyStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func unionStrings(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, s := range append(append([]string{}, a...), b...) {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
