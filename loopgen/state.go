package loopgen

import (
	"tensorgraph/arraygraph"
	"tensorgraph/loopir"
)

// CodeGenState is the mutable state threaded through one Generate call:
// the translation unit under construction, the memoization cache from
// already-processed DAG nodes to their ImplementedResult, and the unique
// name/instruction-id generators (pytato's CodeGenState).
type CodeGenState struct {
	Unit *loopir.TranslationUnit

	results map[arraygraph.Array]ImplementedResult

	VarNameGen *loopir.NameGenerator
	InsnIDGen  *loopir.NameGenerator

	HasLoopyCall bool

	// KnownSizeParams names every size parameter reachable from the
	// outputs being lowered, used by affine-expression validation
	// (polyhedral.FromBox) wherever a shape or reduction bound is
	// translated into a domain.
	KnownSizeParams map[string]bool

	// ArrayTagsToIgnore/AxisTagsToIgnore are the caller-configurable tag
	// types addStore filters out before propagating a node's tags onto
	// its array argument/temporary or its axis inames (spec.md §4.6.3,
	// §6's generate_loopy(..., array_tags_to_not_propagate,
	// axis_tags_to_not_propagate)).
	ArrayTagsToIgnore []arraygraph.Tag
	AxisTagsToIgnore  []arraygraph.Tag

	valueArgNames map[string]struct{}
}

// Kernel returns the entrypoint kernel being built.
func (s *CodeGenState) Kernel() *loopir.LoopKernel {
	return s.Unit.Entrypoint()
}

// ResultOf returns the memoized ImplementedResult for a, if any.
func (s *CodeGenState) ResultOf(a arraygraph.Array) (ImplementedResult, bool) {
	r, ok := s.results[a]
	return r, ok
}

// SetResult memoizes r as a's ImplementedResult.
func (s *CodeGenState) SetResult(a arraygraph.Array, r ImplementedResult) {
	s.results[a] = r
}

// EnsureValueArg guarantees the kernel declares a scalar value argument
// named name with the given dtype, adding one the first time name is
// referenced and doing nothing on every later call (a size parameter or a
// ForceValueArg-tagged scalar Placeholder may be referenced from many
// places in the DAG, but the kernel signature may only declare it once).
// A bare VarSizeParam reference inside an IndexLambda body -- unlike a
// VarOperand reference -- never needs a Bindings entry to resolve: its
// dtype is always int64 (arraygraph.NewSizeParam) and it names a
// kernel-global value argument rather than a locally namespaced operand
// (scalarexpr.Dependencies keeps Operands and SizeParams in separate
// buckets precisely so arraygraph.NewIndexLambda can validate the former
// against Bindings while leaving the latter to this global mechanism).
func (s *CodeGenState) EnsureValueArg(name string, dtype arraygraph.Dtype) {
	if _, ok := s.valueArgNames[name]; ok {
		return
	}
	s.valueArgNames[name] = struct{}{}
	s.Kernel().Args = append(s.Kernel().Args, &loopir.ValueArg{Name: name, Dtype: dtype})
}

// NewCodeGenState returns a freshly initialized state for a kernel named
// functionName, its two name generators seeded with seedNames (every
// input-argument and output name the compute order touches, pytato's
// `var_name_gen.add_names(...)` calls in generate_loopy), and its known
// size-parameter set fixed for the lifetime of the Generate call.
func NewCodeGenState(functionName string, seedNames map[string]struct{}, knownSizeParams map[string]bool) *CodeGenState {
	kernel := loopir.NewLoopKernel(functionName)
	return &CodeGenState{
		Unit:            loopir.NewTranslationUnit(kernel),
		results:         map[arraygraph.Array]ImplementedResult{},
		VarNameGen:      loopir.NewNameGenerator(seedNames),
		InsnIDGen:       loopir.NewNameGenerator(seedNames),
		KnownSizeParams: knownSizeParams,
		valueArgNames:   map[string]struct{}{},
	}
}
