package concat

// Concatenatability classifies how a node participates in a concatenation
// along a chosen axis (spec.md §4.4).
type Concatenatability interface {
	concatenatability()
}

// ConcatableAlongAxis means the node's value differs across call sites and
// can be produced by concatenating the corresponding per-site values along
// Axis.
type ConcatableAlongAxis struct{ Axis int }

func (ConcatableAlongAxis) concatenatability() {}

// ConcatableIfConstant means the node must be identical (structurally
// equal) across every call site being concatenated.
type ConcatableIfConstant struct{}

func (ConcatableIfConstant) concatenatability() {}

func concatenatabilityEqual(a, b Concatenatability) bool {
	switch av := a.(type) {
	case ConcatableAlongAxis:
		bv, ok := b.(ConcatableAlongAxis)
		return ok && av.Axis == bv.Axis
	case ConcatableIfConstant:
		_, ok := b.(ConcatableIfConstant)
		return ok
	default:
		return false
	}
}
