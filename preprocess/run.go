package preprocess

import "tensorgraph/arraygraph"

// Result bundles the rewritten outputs plus the side information codegen
// needs alongside them (spec.md §4.5; pytato's PreprocessResult).
type Result struct {
	Outputs        *arraygraph.DictOfNamedArrays
	ComputeOrder   []string
	BoundArguments map[string]arraygraph.DataRef
}

// Run preprocesses outputs for code generation (spec.md §4.5). Callers
// must run inline.InlineCalls first; Run rejects a NamedCallResult it
// still finds.
func Run(outputs *arraygraph.DictOfNamedArrays) (*Result, error) {
	names := outputs.Names()
	values := make([]arraygraph.Array, 0, len(names))
	for _, name := range names {
		a, ok := outputs.Get(name)
		if !ok {
			continue
		}
		values = append(values, a)
	}

	if err := checkNameValidity(values); err != nil {
		return nil, err
	}

	order := computeOrder(outputs)

	gen := NewNameGenerator(seedNames(values))
	mapper := newCodeGenPreprocessor(gen)
	newOutputs := mapper.MapDictOfNamedArrays(outputs)
	if mapper.Err != nil {
		return nil, mapper.Err
	}

	return &Result{
		Outputs:        newOutputs,
		ComputeOrder:   order,
		BoundArguments: mapper.boundArguments,
	}, nil
}
