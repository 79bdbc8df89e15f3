package loopgen

import (
	"sort"

	"tensorgraph/arraygraph"
	"tensorgraph/loopir"
)

// addStore emits a store instruction for a node named name (spec.md
// §4.6.3, pytato's add_store): allocate axis inames, ask result for its
// value at those inames (accumulating whatever depends_on that read
// contributes), build the assignment `name[inames] = ...`, declare name as
// a kernel output argument or a temporary, and propagate array/axis tags.
// Empty arrays (any zero shape component) are suppressed entirely -- no
// domain, no instruction, no argument/temporary -- per spec.md §4.6.2's
// empty-array short-circuit; callers get back an empty instruction ID and
// must not record a dependency on one.
func addStore(
	state *CodeGenState,
	name string,
	shape arraygraph.Shape,
	dtype arraygraph.Dtype,
	result ImplementedResult,
	tags arraygraph.TagSet,
	axes []arraygraph.Axis,
	isOutput bool,
) (string, error) {
	if shape.IsZero() {
		return "", nil
	}

	dom, axisInames, err := domainForShape(name, shape, state.KnownSizeParams)
	if err != nil {
		return "", err
	}
	state.Kernel().Domains = append(state.Kernel().Domains, dom)

	shapeExprs, err := translateShape(shape, state)
	if err != nil {
		return "", err
	}

	indices := make([]loopir.Expr, len(axisInames))
	for i, iname := range axisInames {
		indices[i] = &loopir.Var{Name: iname}
	}

	pctx := NewPersistentExpressionContext(state)
	rhs := result.ToLoopyExpression(indices, pctx)

	var assignee loopir.Expr = &loopir.Var{Name: name}
	if len(indices) > 0 {
		assignee = &loopir.Subscript{Name: name, Index: indices}
	}

	instrID := state.InsnIDGen.Generate(name)
	state.Kernel().AddInstruction(loopir.Instruction{
		ID:           instrID,
		Assignee:     assignee,
		Expr:         rhs,
		WithinInames: axisInames,
		DependsOn:    sortedKeys(pctx.DependsOn()),
	})

	if isOutput {
		state.Kernel().Args = append(state.Kernel().Args, loopir.GlobalArg(name, dtype, shapeExprs))
	} else {
		state.Kernel().TemporaryVariables[name] = &loopir.TemporaryVariable{
			Name:         name,
			Dtype:        dtype,
			Shape:        shapeExprs,
			AddressSpace: loopir.AddressGlobal,
		}
	}

	for tag := range tags.Without(state.ArrayTagsToIgnore...) {
		state.Kernel().TagArg(name, tag)
	}
	for i, ax := range axes {
		if i >= len(axisInames) {
			break
		}
		for tag := range ax.Tags.Without(state.AxisTagsToIgnore...) {
			state.Kernel().TagIname(axisInames[i], tag)
		}
	}

	return instrID, nil
}

// addSubstitution exposes expr as a named substitution rule over ndim
// formal arguments (spec.md §4.6, the Substitution strategy): the formal
// arguments are the same `_0, _1, ...` elementwise-index names translateExpr
// already used inside expr, so no renaming is needed.
func addSubstitution(state *CodeGenState, shape arraygraph.Shape, expr loopir.Expr) (string, error) {
	substName := state.VarNameGen.Generate("_pt_subst")
	args := make([]string, len(shape))
	for i := range shape {
		args[i] = elementwiseIndexName(i)
	}
	state.Kernel().Substitutions[substName] = &loopir.SubstitutionRule{
		Name:      substName,
		Arguments: args,
		Expr:      expr,
	}
	return substName, nil
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
