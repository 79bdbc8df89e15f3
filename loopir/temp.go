package loopir

import "tensorgraph/arraygraph"

// TemporaryVariable is kernel-private storage for a Stored node that is not
// itself a kernel argument or output (pytato's get_loopy_temporary, §4.6.3).
// Base is non-empty when this temporary aliases another temporary's storage
// (loopy's `base_storage`, used when two temporaries are known never to be
// live simultaneously); this package never sets it, but a future optimizing
// pass over loopgen's output could.
type TemporaryVariable struct {
	Name         string
	Dtype        arraygraph.Dtype
	Shape        []Expr
	AddressSpace AddressSpace
	Base         string
}

func (t *TemporaryVariable) ArgName() string { return t.Name }
func (t *TemporaryVariable) isArg()          {}
