package loopgen

import (
	"tensorgraph/arraygraph"
	"tensorgraph/errs"
	"tensorgraph/loopir"
)

// implementedResultOf returns a's memoized ImplementedResult, computing
// and caching it on first request (pytato's CodeGenMapper.rec). Only the
// three node kinds that can survive preprocess.Run reach the switch below
// -- high-level ops are already lowered to IndexLambda, DataWrapper is
// already rewritten to Placeholder, and NamedCallResult is rejected --
// so anything else indicates a caller skipped preprocessing.
func implementedResultOf(state *CodeGenState, a arraygraph.Array) (ImplementedResult, error) {
	if r, ok := state.ResultOf(a); ok {
		return r, nil
	}

	var result ImplementedResult
	var err error
	switch n := a.(type) {
	case *arraygraph.SizeParam:
		result, err = mapSizeParam(state, n)
	case *arraygraph.Placeholder:
		result, err = mapPlaceholder(state, n)
	case *arraygraph.IndexLambda:
		result, err = mapIndexLambda(state, n)
	default:
		err = errs.New(errs.KindUnsupportedImplementationStrategy,
			"loopgen: node of type %T cannot be lowered; run preprocess.Run first", a)
	}
	if err != nil {
		return nil, err
	}

	state.SetResult(a, result)
	return result, nil
}

// mapSizeParam lowers a SizeParam to a value argument in the target
// kernel; Stored (spec.md §4.6's selection rule). It shares its
// value-argument bookkeeping with a bare VarSizeParam reference inside an
// IndexLambda body (exprgen.go's translateVar) so the same name is never
// declared twice regardless of which path reaches it first.
func mapSizeParam(state *CodeGenState, n *arraygraph.SizeParam) (ImplementedResult, error) {
	state.EnsureValueArg(n.Name, n.Dtype())
	return &StoredResult{Name: n.Name, NumIndices: 0, DependsOn: map[string]struct{}{}}, nil
}

// mapPlaceholder lowers a Placeholder to a global array argument, or to a
// value argument when it is tagged ForceValueArg and has scalar shape
// (spec.md §4.6's selection rule). Either way it is Stored: nothing ever
// produces an instruction for it, so its dependency set is always empty.
func mapPlaceholder(state *CodeGenState, n *arraygraph.Placeholder) (ImplementedResult, error) {
	if len(n.Shape()) == 0 && n.Tags().Has(arraygraph.ForceValueArg{}) {
		state.EnsureValueArg(n.Name, n.Dtype())
		return &StoredResult{Name: n.Name, NumIndices: 0, DependsOn: map[string]struct{}{}}, nil
	}

	shapeExprs, err := translateShape(n.Shape(), state)
	if err != nil {
		return nil, err
	}
	state.Kernel().Args = append(state.Kernel().Args, loopir.GlobalArg(n.Name, n.Dtype(), shapeExprs))
	return &StoredResult{Name: n.Name, NumIndices: len(n.Shape()), DependsOn: map[string]struct{}{}}, nil
}

// translateShape renders a shape's components into the loop-nest
// expression algebra (used for argument/temporary declarations, never for
// an instruction body), via the same translator IndexLambda bodies use --
// a shape component only ever references size-parameter names, never a
// local operand, so an empty LocalExpressionContext suffices.
func translateShape(shape arraygraph.Shape, state *CodeGenState) ([]loopir.Expr, error) {
	pctx := NewPersistentExpressionContext(state)
	out := make([]loopir.Expr, len(shape))
	for i, c := range shape {
		translated, err := translateExpr(c.AsExpr(), LocalExpressionContext{}, pctx)
		if err != nil {
			return nil, err
		}
		out[i] = translated
	}
	return out, nil
}

// mapIndexLambda lowers an IndexLambda's bindings, translates its body,
// and applies spec.md §4.6's ImplStored/ImplSubstitution/ImplInlined
// selection rule. ImplInlined is checked first: on its own it changes
// nothing, since inlining is the default lowering anyway, but it lets an
// outer rewrite override a competing ImplStored/ImplSubstitution tag.
func mapIndexLambda(state *CodeGenState, n *arraygraph.IndexLambda) (ImplementedResult, error) {
	localNamespace := make(map[string]ImplementedResult, len(n.Bindings))
	for _, name := range n.BindingNames() {
		binding := n.Bindings[name]
		result, err := implementedResultOf(state, binding)
		if err != nil {
			return nil, err
		}
		localNamespace[name] = result
	}

	lctx := LocalExpressionContext{
		LocalNamespace:      localNamespace,
		NumIndices:          len(n.Shape()),
		VarToReductionDescr: n.VarToReductionDescr,
	}
	pctx := NewPersistentExpressionContext(state)
	translated, err := translateExpr(n.Expr, lctx, pctx)
	if err != nil {
		return nil, err
	}

	switch {
	case n.Tags().Has(arraygraph.ImplInlined{}):
		return &InlinedResult{Expr: translated, NumIndices: len(n.Shape()), DependsOn: pctx.DependsOn()}, nil

	case n.Tags().Has(arraygraph.ImplStored{}):
		name := state.VarNameGen.Generate("_pt_temp")
		inlined := &InlinedResult{Expr: translated, NumIndices: len(n.Shape()), DependsOn: pctx.DependsOn()}
		instrID, err := addStore(state, name, n.Shape(), n.Dtype(), inlined, n.Tags(), n.Axes(), false)
		if err != nil {
			return nil, err
		}
		if instrID == "" {
			return &StoredResult{Name: name, NumIndices: len(n.Shape()), DependsOn: map[string]struct{}{}}, nil
		}
		return &StoredResult{Name: name, NumIndices: len(n.Shape()), DependsOn: map[string]struct{}{instrID: {}}}, nil

	case n.Tags().Has(arraygraph.ImplSubstitution{}):
		substName, err := addSubstitution(state, n.Shape(), translated)
		if err != nil {
			return nil, err
		}
		return &SubstitutionRuleResult{SubstName: substName, NumArgs: len(n.Shape()), DependsOn: pctx.DependsOn()}, nil

	default: // ImplInlined, explicit or by default
		return &InlinedResult{Expr: translated, NumIndices: len(n.Shape()), DependsOn: pctx.DependsOn()}, nil
	}
}
