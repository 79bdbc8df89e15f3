package arraygraph

import (
	"hash/maphash"
	"strconv"

	"tensorgraph/scalarexpr"
)

var seed = maphash.MakeSeed()

// Hash returns a structural hash consistent with Equal (spec.md §8
// invariant 2: "Structural equality implies equal hash"). Like
// scalarexpr.Hash, this is an in-process dedup key, not a content digest,
// so hash/maphash is the right (non-cryptographic, fast) tool.
func Hash(a Array) uint64 {
	var h maphash.Hash
	h.SetSeed(seed)
	writeArrayHash(&h, a)
	return h.Sum64()
}

func writeArrayHash(h *maphash.Hash, a Array) {
	writeShapeHash(h, a.Shape())
	h.WriteString(string(a.Dtype()))
	writeTagSetHash(h, a.Tags())
	switch n := a.(type) {
	case *Placeholder:
		h.WriteByte(1)
		h.WriteString(n.Name)
	case *DataWrapper:
		h.WriteByte(2)
		h.WriteString(n.Name)
	case *SizeParam:
		h.WriteByte(3)
		h.WriteString(n.Name)
	case *IndexLambda:
		h.WriteByte(4)
		writeExprHash(h, n.Expr)
		for _, name := range n.BindingNames() {
			h.WriteString(name)
			writeArrayHash(h, n.Bindings[name])
		}
	case *Einsum:
		h.WriteByte(5)
		h.WriteString(n.AccessDescriptor)
		for _, arg := range n.Args {
			writeArrayHash(h, arg)
		}
	case *Reshape:
		h.WriteByte(6)
		h.WriteByte(byte(n.Order))
		writeArrayHash(h, n.Array)
	case *AxisPermutation:
		h.WriteByte(7)
		for _, p := range n.Perm {
			h.WriteString(strconv.Itoa(p))
		}
		writeArrayHash(h, n.Array)
	case *Stack:
		h.WriteByte(8)
		h.WriteString(strconv.Itoa(n.Axis))
		for _, arg := range n.Arrays {
			writeArrayHash(h, arg)
		}
	case *Concatenate:
		h.WriteByte(9)
		h.WriteString(strconv.Itoa(n.Axis))
		for _, arg := range n.Arrays {
			writeArrayHash(h, arg)
		}
	case *Roll:
		h.WriteByte(10)
		h.WriteString(strconv.Itoa(n.Axis))
		writeExprHash(h, n.Shift)
		writeArrayHash(h, n.Array)
	case *BasicIndex:
		h.WriteByte(11)
		writeArrayHash(h, n.Array)
	case *AdvancedIndex:
		h.WriteByte(12)
		writeArrayHash(h, n.Array)
	case *NamedCallResult:
		h.WriteByte(13)
		h.WriteString(n.Name)
	}
}

func writeExprHash(h *maphash.Hash, e scalarexpr.Expr) {
	var b [8]byte
	v := scalarexpr.Hash(e)
	for i := range b {
		b[i] = byte(v >> (8 * i))
	}
	h.Write(b[:])
}

func writeShapeHash(h *maphash.Hash, s Shape) {
	for _, c := range s {
		writeExprHash(h, c.AsExpr())
	}
}

func writeTagSetHash(h *maphash.Hash, ts TagSet) {
	// Order-independent hash: sum a per-tag hash derived from its string
	// form rather than hashing the iteration order directly.
	var acc uint64
	for t := range ts {
		acc += maphash.String(seed, tagString(t))
	}
	var b [8]byte
	for i := range b {
		b[i] = byte(acc >> (8 * i))
	}
	h.Write(b[:])
}

func tagString(t Tag) string {
	switch v := t.(type) {
	case Named:
		return "Named:" + v.Name
	case PrefixNamed:
		return "PrefixNamed:" + v.Prefix
	case FunctionIdentifier:
		return "FunctionIdentifier:" + v.Identifier
	case UseInputAxis:
		return "UseInputAxis:" + v.Arg + ":" + strconv.Itoa(v.Axis)
	case ConcatenatedCallInputConcatAxisTag:
		return "ConcatInAxis:" + strconv.Itoa(v.Axis)
	case ConcatenatedCallOutputSliceAxisTag:
		return "ConcatOutAxis:" + strconv.Itoa(v.Axis)
	default:
		return "tag"
	}
}
