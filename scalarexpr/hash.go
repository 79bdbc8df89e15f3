package scalarexpr

import (
	"hash/maphash"
	"strconv"
)

// seed is process-global so two Hash calls in the same process agree;
// equal expressions must hash equal (spec.md §8 invariant 2), which only
// requires a *stable-within-process* seed, not a stable-across-runs one.
var seed = maphash.MakeSeed()

// Hash returns a structural hash of e consistent with Equal: Equal(a, b)
// implies Hash(a) == Hash(b). Uses hash/maphash (stdlib, non-cryptographic)
// rather than a cryptographic hash -- this is purely an in-memory dedup
// key, never serialized or compared across processes.
func Hash(e Expr) uint64 {
	var h maphash.Hash
	h.SetSeed(seed)
	writeHash(&h, e)
	return h.Sum64()
}

func writeHash(h *maphash.Hash, e Expr) {
	switch n := e.(type) {
	case *Const:
		h.WriteByte(1)
		if n.IsFloat {
			h.WriteByte(1)
			h.WriteString(strconv.FormatFloat(n.FloatValue, 'g', -1, 64))
		} else {
			h.WriteByte(0)
			h.WriteString(strconv.FormatInt(n.IntValue, 10))
		}
	case *Var:
		h.WriteByte(2)
		h.WriteByte(byte(n.Kind))
		h.WriteString(n.Name)
		h.WriteString(strconv.Itoa(n.Index))
	case *Subscript:
		h.WriteByte(3)
		h.WriteString(n.Name)
		for _, ix := range n.Index {
			writeHash(h, ix)
		}
	case *Unary:
		h.WriteByte(4)
		h.WriteString(n.Op)
		writeHash(h, n.Operand)
	case *Binary:
		h.WriteByte(5)
		h.WriteString(n.Op)
		writeHash(h, n.Left)
		writeHash(h, n.Right)
	case *Call:
		h.WriteByte(6)
		h.WriteString(n.FuncName)
		for _, a := range n.Args {
			writeHash(h, a)
		}
	case *Reduce:
		h.WriteByte(7)
		h.WriteString(n.Op)
		for _, b := range n.Bounds {
			h.WriteString(b.Name)
			writeHash(h, b.Lower)
			writeHash(h, b.Upper)
		}
		writeHash(h, n.Inner)
	case *Cast:
		h.WriteByte(8)
		h.WriteString(n.Dtype)
		writeHash(h, n.Inner)
	}
}
