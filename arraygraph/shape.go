package arraygraph

import (
	"tensorgraph/errs"
	"tensorgraph/scalarexpr"
)

// ShapeComponent is a single dimension's extent: either a known
// non-negative integer, or a scalar expression whose free variables are
// all size-parameter names (spec.md §3.1).
type ShapeComponent struct {
	isExpr bool
	intVal int64
	expr   scalarexpr.Expr
}

// IntShape builds a constant-integer shape component.
func IntShape(n int64) ShapeComponent { return ShapeComponent{intVal: n} }

// ExprShape builds a size-parameter-expression shape component. e must be
// affine in size-parameter names; NewShape validates this.
func ExprShape(e scalarexpr.Expr) ShapeComponent { return ShapeComponent{isExpr: true, expr: e} }

// IsExpr reports whether this component is a non-constant expression.
func (s ShapeComponent) IsExpr() bool { return s.isExpr }

// Int returns the constant value; valid only when !IsExpr().
func (s ShapeComponent) Int() int64 { return s.intVal }

// Expr returns the scalar expression; valid only when IsExpr().
func (s ShapeComponent) Expr() scalarexpr.Expr { return s.expr }

// AsExpr returns an expression form regardless of which variant s is,
// useful to callers (polyhedral.FromBox) that only want a uniform Expr.
func (s ShapeComponent) AsExpr() scalarexpr.Expr {
	if s.isExpr {
		return s.expr
	}
	return scalarexpr.NewIntConst(s.intVal)
}

func shapeComponentEqual(a, b ShapeComponent) bool {
	if a.isExpr != b.isExpr {
		return false
	}
	if a.isExpr {
		return scalarexpr.Equal(a.expr, b.expr)
	}
	return a.intVal == b.intVal
}

// Shape is an ordered sequence of shape components.
type Shape []ShapeComponent

// NewShape validates and returns shape, checking every expression
// component is affine in knownSizeParams (spec.md §3.1 invariant: "Shape
// components are well-formed scalar expressions in known size-parameter
// names") and every integer component is non-negative.
func NewShape(knownSizeParams map[string]bool, components ...ShapeComponent) (Shape, error) {
	for i, c := range components {
		if c.isExpr {
			if !scalarexpr.IsAffineIn(c.expr, knownSizeParams) {
				return nil, errs.New(errs.KindBadShape,
					"shape component %d is not affine in known size parameters", i)
			}
		} else if c.intVal < 0 {
			return nil, errs.New(errs.KindNegativeSize,
				"shape component %d is negative: %d", i, c.intVal)
		}
	}
	return Shape(components), nil
}

// Equal reports structural equality of two shapes.
func (s Shape) Equal(o Shape) bool {
	if len(s) != len(o) {
		return false
	}
	for i := range s {
		if !shapeComponentEqual(s[i], o[i]) {
			return false
		}
	}
	return true
}

// IsZero reports whether any component is the constant 0 (spec.md §4.6.2
// "empty-array short-circuit").
func (s Shape) IsZero() bool {
	for _, c := range s {
		if !c.isExpr && c.intVal == 0 {
			return true
		}
	}
	return false
}

// Axis carries per-dimension tags (spec.md §3.1).
type Axis struct {
	Tags TagSet
}

// NewAxes returns n freshly tagged axes.
func NewAxes(n int) []Axis {
	axes := make([]Axis, n)
	for i := range axes {
		axes[i] = Axis{Tags: TagSet{}}
	}
	return axes
}
