package arraygraph

// Dtype is a primitive numeric type tag (spec.md §3.1).
type Dtype string

const (
	Bool    Dtype = "bool"
	Int32   Dtype = "int32"
	Int64   Dtype = "int64"
	Float32 Dtype = "float32"
	Float64 Dtype = "float64"
	Complex64  Dtype = "complex64"
	Complex128 Dtype = "complex128"
)

// valid reports whether d is one of the recognized primitive dtypes.
// Construction always requires an explicit, valid dtype (spec.md §9 Open
// Question: "a reimplementation should require explicit dtype" -- there is
// no implicit float64 default anywhere in this package).
func (d Dtype) valid() bool {
	switch d {
	case Bool, Int32, Int64, Float32, Float64, Complex64, Complex128:
		return true
	default:
		return false
	}
}

var promotionRank = map[Dtype]int{
	Bool:    0,
	Int32:   1,
	Int64:   2,
	Float32: 3,
	Float64: 4,
	Complex64:  5,
	Complex128: 6,
}

// Promote returns the common dtype that both a and b can be represented in
// without loss, following the usual numeric promotion lattice
// (bool < int32 < int64 < float32 < float64 < complex64 < complex128).
// Required by §3.1's "operands of multi-operand nodes share a common dtype
// promotion result".
func Promote(a, b Dtype) (Dtype, bool) {
	ra, aok := promotionRank[a]
	rb, bok := promotionRank[b]
	if !aok || !bok {
		return "", false
	}
	if ra >= rb {
		return a, true
	}
	return b, true
}
