package arraygraph

import "tensorgraph/scalarexpr"

// Einsum represents a generalized contraction described by an access
// descriptor string such as "ik,kj->ij" (spec.md §3.1, §4.2).
type Einsum struct {
	base
	AccessDescriptor string
	Args             []Array
}

func (n *Einsum) Accept(v Visitor) Array { return v.VisitEinsum(n) }

// Order selects the linearization used by Reshape (spec.md §4.2).
type Order byte

const (
	OrderC Order = 'C'
	OrderF Order = 'F'
)

// Reshape is a view/copy reinterpretation of Array's elements under a new
// shape, linearized per Order.
type Reshape struct {
	base
	Array Array
	Order Order
}

func (n *Reshape) Accept(v Visitor) Array { return v.VisitReshape(n) }

// AxisPermutation transposes Array's axes according to Perm (Perm[i] is
// the source axis feeding output axis i).
type AxisPermutation struct {
	base
	Array Array
	Perm  []int
}

func (n *AxisPermutation) Accept(v Visitor) Array { return v.VisitAxisPermutation(n) }

// Stack joins Arrays along a new Axis.
type Stack struct {
	base
	Arrays []Array
	Axis   int
}

func (n *Stack) Accept(v Visitor) Array { return v.VisitStack(n) }

// Concatenate joins Arrays along an existing Axis.
type Concatenate struct {
	base
	Arrays []Array
	Axis   int
}

func (n *Concatenate) Accept(v Visitor) Array { return v.VisitConcatenate(n) }

// Roll applies modular-arithmetic rotation of Shift elements along Axis.
type Roll struct {
	base
	Array Array
	Shift scalarexpr.Expr
	Axis  int
}

func (n *Roll) Accept(v Visitor) Array { return v.VisitRoll(n) }

// IndexItem is one entry of a BasicIndex's index tuple: either an integer
// (possibly expression-valued) position that drops the axis, or a
// start:stop:step slice that keeps it (spec.md §3.1 "BasicIndex").
type IndexItem struct {
	IsSlice bool
	// Integer form.
	Int scalarexpr.Expr
	// Slice form -- any of these may be nil, meaning "unspecified"
	// (Python-style open slice bound).
	Start, Stop, Step scalarexpr.Expr
}

func IntIndex(e scalarexpr.Expr) IndexItem { return IndexItem{Int: e} }
func SliceIndex(start, stop, step scalarexpr.Expr) IndexItem {
	return IndexItem{IsSlice: true, Start: start, Stop: stop, Step: step}
}

// BasicIndex applies NumPy-style basic indexing (integers and slices,
// never array indices) to Array.
type BasicIndex struct {
	base
	Array   Array
	Indices []IndexItem
}

func (n *BasicIndex) Accept(v Visitor) Array { return v.VisitBasicIndex(n) }

// AdvancedIndex applies gather-style indexing by integer-array indexers.
// Contiguous reports whether the advanced-index positions are contiguous
// in the index tuple (spec.md §3.1 distinguishes
// ContiguousAdvancedIndex/NonContiguousAdvancedIndex only in how the
// result axes are ordered; both share this representation here).
type AdvancedIndex struct {
	base
	Array      Array
	Indexers   []Array // one per axis of Array; nil entry means "full slice" on that axis
	Contiguous bool
}

func (n *AdvancedIndex) Accept(v Visitor) Array { return v.VisitAdvancedIndex(n) }
