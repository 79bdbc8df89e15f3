package loopgen

import (
	"tensorgraph/arraygraph"
	"tensorgraph/errs"
	"tensorgraph/loopir"
	"tensorgraph/preprocess"
	"tensorgraph/transform"
)

// Target is a placeholder for generate_loopy's target parameter (spec.md
// §6's "Lowering: generate_loopy(result, target, options, ...)"). It
// exists only for signature parity: this implementation has no LoopyCall
// node kind (see doc.go), so the "loopy call on a non-loopy target"
// validation errs.KindLoopyCallOnNonLoopyTarget guards against can never
// actually trigger from a real traversal -- it stays reserved, exercised
// only directly (the same pattern loopir.MergeKernels follows).
type Target struct{}

// Options mirrors generate_loopy's options parameter down to the one
// field this implementation's outputs can actually violate: a kernel with
// more than one named output must be generated with ReturnDict set
// (spec.md §7 "options/return-dict mismatch").
type Options struct {
	ReturnDict bool
}

// BoundProgram is the opaque (translation unit, bound arguments) pair
// generate_loopy returns (spec.md §4.6.4, §6 "Data boundary").
type BoundProgram struct {
	Unit           *loopir.TranslationUnit
	BoundArguments map[string]arraygraph.DataRef
}

// Generate lowers a preprocessed DAG to a loop-nest kernel (spec.md §4.6,
// pytato's generate_loopy): seed the code-generation state's name
// generators and known-size-parameter set, store every output in
// ComputeOrder unconditionally -- even an output already Stored under a
// different name (via an ImplStored-tagged IndexLambda) gets its own copy
// under its own name, matching generate_loopy's unconditional per-output
// add_store call -- then finalize.
func Generate(
	result *preprocess.Result,
	target Target,
	options Options,
	functionName string,
	arrayTagsToNotPropagate []arraygraph.Tag,
	axisTagsToNotPropagate []arraygraph.Tag,
) (*BoundProgram, error) {
	if len(result.ComputeOrder) > 1 && !options.ReturnDict {
		return nil, errs.New(errs.KindOptionsReturnMismatch,
			"generate_loopy: %d outputs requires Options.ReturnDict", len(result.ComputeOrder))
	}

	seedNames, knownSizeParams := collectSeedNamesAndSizeParams(result)
	state := NewCodeGenState(functionName, seedNames, knownSizeParams)
	state.ArrayTagsToIgnore = arrayTagsToNotPropagate
	state.AxisTagsToIgnore = axisTagsToNotPropagate

	for _, name := range result.ComputeOrder {
		output, ok := result.Outputs.Get(name)
		if !ok {
			continue
		}
		implResult, err := implementedResultOf(state, output)
		if err != nil {
			return nil, err
		}
		if _, err := addStore(state, name, output.Shape(), output.Dtype(), implResult, output.Tags(), output.Axes(), true); err != nil {
			return nil, err
		}
	}

	// Reduction inames are minted through state.VarNameGen as they are
	// discovered (exprgen.go's translateReduce), and NameGenerator never
	// reuses a name already handed out -- so they are already globally
	// unique by construction, making pytato's separate "make reduction
	// inames unique" finalization pass a no-op here.
	if !state.HasLoopyCall {
		state.Kernel().DisableBoundsChecking()
	}

	return &BoundProgram{Unit: state.Unit, BoundArguments: result.BoundArguments}, nil
}

// collectSeedNamesAndSizeParams walks every output, returning every
// input-argument/output name already in use (to seed the name generators
// the way preprocess's own seedNames does) and every SizeParam name
// reachable from the DAG (to validate affine bounds against).
func collectSeedNamesAndSizeParams(result *preprocess.Result) (map[string]struct{}, map[string]bool) {
	seed := map[string]struct{}{}
	for _, name := range result.Outputs.Names() {
		seed[name] = struct{}{}
	}
	knownSizeParams := map[string]bool{}

	w := transform.NewCachedWalkMapper(func(a arraygraph.Array) {
		switch n := a.(type) {
		case *arraygraph.Placeholder:
			seed[n.Name] = struct{}{}
		case *arraygraph.SizeParam:
			seed[n.Name] = struct{}{}
			knownSizeParams[n.Name] = true
		}
	})
	for _, name := range result.Outputs.Names() {
		if a, ok := result.Outputs.Get(name); ok {
			w.Walk(a)
		}
	}

	return seed, knownSizeParams
}
