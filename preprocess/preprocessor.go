package preprocess

import (
	"tensorgraph/arraygraph"
	"tensorgraph/errs"
	"tensorgraph/lower"
	"tensorgraph/transform"
)

const defaultDataPrefix = "_tg_data"

// codeGenPreprocessor is the single rewriting pass of spec.md §4.5: it
// replaces DataWrapper nodes with named Placeholders (capturing their data
// into BoundArguments) and, via PostProcess, lowers every high-level node
// it visits to IndexLambda form in the same traversal -- grounded on
// pytato's `CodeGenPreprocessor(ToIndexLambdaMixin, CopyMapper)`, which
// composes exactly these two concerns into one mapper.
type codeGenPreprocessor struct {
	*transform.CopyMapper
	names          *NameGenerator
	boundArguments map[string]arraygraph.DataRef
}

func newCodeGenPreprocessor(names *NameGenerator) *codeGenPreprocessor {
	p := &codeGenPreprocessor{
		CopyMapper:     transform.NewCopyMapper(),
		names:          names,
		boundArguments: map[string]arraygraph.DataRef{},
	}
	p.Self = p
	p.PostProcess = lower.Lower
	return p
}

func (p *codeGenPreprocessor) VisitDataWrapper(n *arraygraph.DataWrapper) arraygraph.Array {
	if p.Err != nil {
		return n
	}
	name, err := nameForDataWrapper(n, p.names, defaultDataPrefix)
	if err != nil {
		p.Err = err
		return n
	}
	p.boundArguments[name] = n.Data
	ph, err := arraygraph.NewPlaceholder(name, n.Shape(), n.Dtype(), n.Axes(), n.Tags())
	if err != nil {
		p.Err = err
		return n
	}
	return ph
}

func (p *codeGenPreprocessor) VisitNamedCallResult(n *arraygraph.NamedCallResult) arraygraph.Array {
	if p.Err == nil {
		p.Err = errs.New(errs.KindOutlinedCallAtLowering,
			"codegen preprocessing does not support uninlined calls; run inline.InlineCalls first")
	}
	return n
}
