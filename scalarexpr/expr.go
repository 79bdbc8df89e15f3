package scalarexpr

// Expr is an immutable scalar expression node. Every variant implements
// Accept for visitor dispatch (see visitor.go).
type Expr interface {
	Accept(v Visitor) Expr
	isExpr()
}

// VarKind distinguishes the four roles a Var can play (spec.md §3.2).
type VarKind int

const (
	// VarOperand refers to a named operand bound in an IndexLambda's
	// bindings map, read as a whole (rank-0 view of it, e.g. a
	// broadcast scalar operand).
	VarOperand VarKind = iota
	// VarElementwiseIndex is one of _0, _1, ..., _{ndim-1}.
	VarElementwiseIndex
	// VarReductionIndex is one of _r0, _r1, ....
	VarReductionIndex
	// VarSizeParam is a named, integer-valued size parameter.
	VarSizeParam
)

func (k VarKind) String() string {
	switch k {
	case VarOperand:
		return "operand"
	case VarElementwiseIndex:
		return "elementwise-index"
	case VarReductionIndex:
		return "reduction-index"
	case VarSizeParam:
		return "size-param"
	default:
		return "unknown"
	}
}

// Const is an integer or floating-point literal.
type Const struct {
	IsFloat    bool
	IntValue   int64
	FloatValue float64
}

func NewIntConst(v int64) *Const      { return &Const{IntValue: v} }
func NewFloatConst(v float64) *Const  { return &Const{IsFloat: true, FloatValue: v} }
func (c *Const) Accept(v Visitor) Expr { return v.VisitConst(c) }
func (c *Const) isExpr()               {}

// Var is a named reference: an operand name, an elementwise/reduction
// index, or a size-parameter name. Index is only meaningful for
// VarElementwiseIndex/VarReductionIndex (the k in _k / _rk).
type Var struct {
	Name  string
	Kind  VarKind
	Index int
}

func (v *Var) Accept(vis Visitor) Expr { return vis.VisitVar(v) }
func (v *Var) isExpr()                 {}

// ElementwiseIndex constructs the _k reference.
func ElementwiseIndex(k int) *Var {
	return &Var{Name: elementwiseName(k), Kind: VarElementwiseIndex, Index: k}
}

// ReductionIndex constructs the _rk reference.
func ReductionIndex(k int) *Var {
	return &Var{Name: reductionName(k), Kind: VarReductionIndex, Index: k}
}

// Operand constructs a reference to a named operand used as a bare scalar.
func Operand(name string) *Var { return &Var{Name: name, Kind: VarOperand} }

// SizeParamVar constructs a reference to a named size parameter.
func SizeParamVar(name string) *Var { return &Var{Name: name, Kind: VarSizeParam} }

func elementwiseName(k int) string { return indexName("_", k) }
func reductionName(k int) string   { return indexName("_r", k) }

func indexName(prefix string, k int) string {
	// Small closed alphabet of non-negative indices; avoid strconv import
	// churn by keeping this trivial and allocation-light.
	digits := []byte{}
	if k == 0 {
		digits = append(digits, '0')
	}
	for k > 0 {
		digits = append([]byte{byte('0' + k%10)}, digits...)
		k /= 10
	}
	return prefix + string(digits)
}

// Subscript indexes a named operand by a tuple of integer-valued
// sub-expressions: name[index_0, index_1, ...].
type Subscript struct {
	Name  string
	Index []Expr
}

func (s *Subscript) Accept(v Visitor) Expr { return v.VisitSubscript(s) }
func (s *Subscript) isExpr()               {}

// Unary is a prefix arithmetic/logical operator.
type Unary struct {
	Op      string // "-", "+", "not"
	Operand Expr
}

func (u *Unary) Accept(v Visitor) Expr { return v.VisitUnary(u) }
func (u *Unary) isExpr()               {}

// Binary is an infix arithmetic/comparison/logical operator.
type Binary struct {
	Op    string // "+", "-", "*", "/", "//", "%", "**", comparisons, "&&", "||"
	Left  Expr
	Right Expr
}

func (b *Binary) Accept(v Visitor) Expr { return v.VisitBinary(b) }
func (b *Binary) isExpr()               {}

// Call invokes a builtin identified by a dotted name in a reserved
// namespace (spec.md §3.2), e.g. "builtin.sin".
type Call struct {
	FuncName string
	Args     []Expr
}

func (c *Call) Accept(v Visitor) Expr { return v.VisitCall(c) }
func (c *Call) isExpr()               {}

// ReductionBound is one bound-name-to-(lower,upper) entry of a Reduce.
// Kept as a slice (not a map) on Reduce so traversal order is
// deterministic (spec.md §9 "Determinism").
type ReductionBound struct {
	Name  string
	Lower Expr
	Upper Expr
}

// Reduce folds Inner over the named bound variables using Op.
type Reduce struct {
	Op     string // "sum", "product", "max", "min"
	Bounds []ReductionBound
	Inner  Expr
}

func (r *Reduce) Accept(v Visitor) Expr { return v.VisitReduce(r) }
func (r *Reduce) isExpr()               {}

// Cast preserves Inner's value, reinterpreted/converted to Dtype.
type Cast struct {
	Dtype string
	Inner Expr
}

func (c *Cast) Accept(v Visitor) Expr { return v.VisitCast(c) }
func (c *Cast) isExpr()               {}
