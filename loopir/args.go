package loopir

import "tensorgraph/arraygraph"

// AddressSpace classifies where an array argument or temporary lives,
// mirroring loopy's loopy.AddressSpace (PRIVATE/LOCAL/GLOBAL).
type AddressSpace string

const (
	AddressGlobal  AddressSpace = "global"
	AddressLocal   AddressSpace = "local"
	AddressPrivate AddressSpace = "private"
)

// Arg is one formal argument of a LoopKernel.
type Arg interface {
	ArgName() string
	isArg()
}

// ValueArg is a scalar kernel argument, the lowering target of a SizeParam
// (§4.6 selection rule: "SizeParam → a value argument in the target
// kernel") and of any Placeholder tagged ForceValueArg with scalar shape.
type ValueArg struct {
	Name  string
	Dtype arraygraph.Dtype
}

func (a *ValueArg) ArgName() string { return a.Name }
func (a *ValueArg) isArg()          {}

// ArrayArg is a kernel argument backed by an array, identified by a shape
// of loop-nest expressions (each dimension affine in the kernel's value
// args) and an address space. This is loopy.ArrayArg's base shape; GlobalArg
// below is the common global-memory specialization every Placeholder
// lowers to.
type ArrayArg struct {
	Name         string
	Dtype        arraygraph.Dtype
	Shape        []Expr
	AddressSpace AddressSpace
}

func (a *ArrayArg) ArgName() string { return a.Name }
func (a *ArrayArg) isArg()          {}

// GlobalArg constructs the global-address-space ArrayArg every Placeholder
// lowers to by default (§4.6 selection rule: "Placeholder → a global array
// argument").
func GlobalArg(name string, dtype arraygraph.Dtype, shape []Expr) *ArrayArg {
	return &ArrayArg{Name: name, Dtype: dtype, Shape: shape, AddressSpace: AddressGlobal}
}
