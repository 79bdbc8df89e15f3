package loopir

import "tensorgraph/polyhedral"

// LoopKernel is one loop nest: an argument list, an instruction list, one
// iteration domain per distinct set of inames, and the temporary/
// substitution tables those instructions reference (spec.md §6's "LoopKernel
// (with args, instructions, domains, temporary_variables, substitutions)").
type LoopKernel struct {
	Name               string
	Args               []Arg
	Instructions       []Instruction
	Domains            []*polyhedral.Set
	TemporaryVariables map[string]*TemporaryVariable
	Substitutions      map[string]*SubstitutionRule
	InameTags          map[string]map[any]struct{}
	ArgTags            map[string]map[any]struct{}
	BoundsCheckingOff  bool
}

// NewLoopKernel returns an empty kernel named name, ready for stores to be
// added.
func NewLoopKernel(name string) *LoopKernel {
	return &LoopKernel{
		Name:               name,
		TemporaryVariables: make(map[string]*TemporaryVariable),
		Substitutions:      make(map[string]*SubstitutionRule),
		InameTags:          make(map[string]map[any]struct{}),
		ArgTags:            make(map[string]map[any]struct{}),
	}
}

// AddInstruction appends instr to the kernel and returns its ID for the
// caller to thread into a later instruction's DependsOn.
func (k *LoopKernel) AddInstruction(instr Instruction) string {
	k.Instructions = append(k.Instructions, instr)
	return instr.ID
}

// TagIname attaches tag to iname (§6's "iname-tagging operation"; loopy's
// kernel.tagged(iname, tag), used e.g. to mark an iname for unrolling or
// vectorization). Tags accumulate; duplicates are silently deduplicated by
// the underlying set.
func (k *LoopKernel) TagIname(iname string, tag any) {
	set, ok := k.InameTags[iname]
	if !ok {
		set = make(map[any]struct{})
		k.InameTags[iname] = set
	}
	set[tag] = struct{}{}
}

// TagArg attaches tag to the array argument or temporary named name
// (spec.md §4.6.3 "propagate array tags to the array argument / temporary").
// Tags accumulate; duplicates are silently deduplicated by the underlying
// set, the same way TagIname behaves for inames.
func (k *LoopKernel) TagArg(name string, tag any) {
	set, ok := k.ArgTags[name]
	if !ok {
		set = make(map[any]struct{})
		k.ArgTags[name] = set
	}
	set[tag] = struct{}{}
}

// DisableBoundsChecking turns off generated subscript bounds checks (§6's
// "option to disable bounds checking"; §4.6.4: "If the DAG contained no
// externally-authored loopy call, bounds checking is disabled on the
// produced kernel").
func (k *LoopKernel) DisableBoundsChecking() {
	k.BoundsCheckingOff = true
}

// TranslationUnit is a named collection of kernels with one designated
// entrypoint, loopy's unit of compilation (spec.md §6's "TranslationUnit").
type TranslationUnit struct {
	EntrypointName string
	Kernels        map[string]*LoopKernel
}

// NewTranslationUnit wraps a single kernel as its own entrypoint.
func NewTranslationUnit(entry *LoopKernel) *TranslationUnit {
	return &TranslationUnit{
		EntrypointName: entry.Name,
		Kernels:        map[string]*LoopKernel{entry.Name: entry},
	}
}

// Entrypoint returns the translation unit's designated entry kernel.
func (u *TranslationUnit) Entrypoint() *LoopKernel {
	return u.Kernels[u.EntrypointName]
}
