package loopir

import "fmt"

// Expr is an immutable loop-nest instruction expression: the right-hand
// side vocabulary a LoopKernel assignment is built from, grounded on
// pymbolic.primitives as emitted by pytato's InlinedExpressionGenMapper.
type Expr interface {
	String() string
	isExpr()
}

// Const is an integer or floating-point literal.
type Const struct {
	IsFloat    bool
	IntValue   int64
	FloatValue float64
}

func NewIntConst(v int64) *Const   { return &Const{IntValue: v} }
func NewFloatConst(v float64) *Const { return &Const{IsFloat: true, FloatValue: v} }
func (c *Const) isExpr()           {}
func (c *Const) String() string {
	if c.IsFloat {
		return fmt.Sprintf("%g", c.FloatValue)
	}
	return fmt.Sprintf("%d", c.IntValue)
}

// Var is a bare name reference: an iname, a value-arg name, or a
// temporary/argument read as a scalar.
type Var struct {
	Name string
}

func (v *Var) isExpr()        {}
func (v *Var) String() string { return v.Name }

// Subscript indexes a named array argument or temporary by one expression
// per axis.
type Subscript struct {
	Name  string
	Index []Expr
}

func (s *Subscript) isExpr() {}
func (s *Subscript) String() string {
	out := s.Name + "["
	for i, idx := range s.Index {
		if i > 0 {
			out += ", "
		}
		out += idx.String()
	}
	return out + "]"
}

// Unary is a prefix arithmetic/logical operator.
type Unary struct {
	Op      string
	Operand Expr
}

func (u *Unary) isExpr()        {}
func (u *Unary) String() string { return u.Op + "(" + u.Operand.String() + ")" }

// Binary is an infix arithmetic/comparison/logical operator.
type Binary struct {
	Op    string
	Left  Expr
	Right Expr
}

func (b *Binary) isExpr() {}
func (b *Binary) String() string {
	return "(" + b.Left.String() + " " + b.Op + " " + b.Right.String() + ")"
}

// Call invokes a loop-nest builtin by its unqualified name (the reserved
// dotted-namespace prefix from spec.md §3.2 is stripped during translation,
// §4.6.1).
type Call struct {
	FuncName string
	Args     []Expr
}

func (c *Call) isExpr() {}
func (c *Call) String() string {
	out := c.FuncName + "("
	for i, a := range c.Args {
		if i > 0 {
			out += ", "
		}
		out += a.String()
	}
	return out + ")"
}

// ReductionBound is one bound-name-to-(lower,upper) entry of a Reduction.
type ReductionBound struct {
	Name  string
	Lower Expr
	Upper Expr
}

// Reduction is the loop-nest reduction primitive named by spec.md §6: it
// folds Inner over the named bound variables using Op, grounded on
// loopy.symbolic.Reduction as built by pytato's map_reduce (§4.6.1). Bounds
// carries the unique `_pt_<op>_<old>` names the translation mapper
// generates, which also get added to the enclosing kernel's iteration
// domain (§4.6.2).
type Reduction struct {
	Op     string
	Bounds []ReductionBound
	Inner  Expr
}

func (r *Reduction) isExpr() {}
func (r *Reduction) String() string {
	out := "reduce(" + r.Op + ", ["
	for i, b := range r.Bounds {
		if i > 0 {
			out += ", "
		}
		out += b.Name
	}
	return out + "], " + r.Inner.String() + ")"
}

// TypeCast is the loop-nest type-cast primitive named by spec.md §6:
// Inner reinterpreted/converted to Dtype, preserved verbatim from the
// DAG-side scalarexpr.Cast it was translated from (§4.6.1 "Type casts are
// preserved with the declared target dtype").
type TypeCast struct {
	Dtype string
	Inner Expr
}

func (t *TypeCast) isExpr()        {}
func (t *TypeCast) String() string { return "cast(" + t.Dtype + ", " + t.Inner.String() + ")" }
