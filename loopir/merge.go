package loopir

import "tensorgraph/polyhedral"

// MergeKernels splices callee's instructions, temporaries, substitutions,
// and domains into into, renaming every name callee introduces that would
// otherwise collide with a name into or an earlier merge has already used
// (spec.md §4.6 LoopyCall selection rule: "merges a callee translation unit
// into the current kernel, allocates temporaries for outputs, ... emits a
// single assignment whose dependency set collects contributors'
// depends_on"; pytato's merge_kernel_into / rename_resolved_functions
// shape, adapted to this package's flat kernel model). names must be the
// same generator already seeding into's own names, so the rename choices
// it makes can never reuse one of into's existing names either.
//
// Returns the instruction-ID rename map so a caller building the wrapper
// assignment (§4.6.3) can thread the callee's output instruction IDs into
// the new assignment's DependsOn.
func MergeKernels(into *LoopKernel, names *NameGenerator, callee *LoopKernel) map[string]string {
	inameRename := map[string]string{}
	for _, instr := range callee.Instructions {
		for _, iname := range instr.WithinInames {
			if _, ok := inameRename[iname]; !ok {
				inameRename[iname] = names.Generate(iname)
			}
		}
	}
	for _, dom := range callee.Domains {
		for _, dim := range dom.SetDims() {
			if _, ok := inameRename[dim]; !ok {
				inameRename[dim] = names.Generate(dim)
			}
		}
	}

	tempRename := map[string]string{}
	for name := range callee.TemporaryVariables {
		tempRename[name] = names.Generate(name)
	}

	idRename := map[string]string{}
	for _, instr := range callee.Instructions {
		idRename[instr.ID] = names.Generate(instr.ID)
	}

	rename := renamer{temps: tempRename, inames: inameRename}

	for name, temp := range callee.TemporaryVariables {
		newName := tempRename[name]
		into.TemporaryVariables[newName] = &TemporaryVariable{
			Name:         newName,
			Dtype:        temp.Dtype,
			Shape:        rename.exprs(temp.Shape),
			AddressSpace: temp.AddressSpace,
		}
	}
	for name, rule := range callee.Substitutions {
		into.Substitutions[name] = &SubstitutionRule{
			Name:      rule.Name,
			Arguments: rule.Arguments,
			Expr:      rename.expr(rule.Expr),
		}
	}
	for _, instr := range callee.Instructions {
		dependsOn := make([]string, len(instr.DependsOn))
		for i, id := range instr.DependsOn {
			dependsOn[i] = idRename[id]
		}
		withinInames := make([]string, len(instr.WithinInames))
		for i, iname := range instr.WithinInames {
			withinInames[i] = inameRename[iname]
		}
		into.Instructions = append(into.Instructions, Instruction{
			ID:           idRename[instr.ID],
			Assignee:     rename.expr(instr.Assignee),
			Expr:         rename.expr(instr.Expr),
			WithinInames: withinInames,
			DependsOn:    dependsOn,
		})
	}
	for _, dom := range callee.Domains {
		into.Domains = append(into.Domains, renameDomain(dom, inameRename))
	}
	for iname, tags := range callee.InameTags {
		for tag := range tags {
			into.TagIname(inameRename[iname], tag)
		}
	}
	for name, tags := range callee.ArgTags {
		newName := tempRename[name]
		if newName == "" {
			newName = name // kernel args keep their caller-facing identity
		}
		for tag := range tags {
			into.TagArg(newName, tag)
		}
	}

	return idRename
}

func renameDomain(dom *polyhedral.Set, inameRename map[string]string) *polyhedral.Set {
	setDims := make([]string, len(dom.SetDims()))
	for i, d := range dom.SetDims() {
		setDims[i] = inameRename[d]
	}
	out := polyhedral.Universe(setDims, dom.ParamDims())
	for _, c := range dom.Constraints() {
		out = out.WithConstraint(polyhedral.Constraint{
			Dim:   inameRename[c.Dim],
			Lower: c.Lower,
			Upper: c.Upper,
		})
	}
	if dom.IsEmpty() {
		out = polyhedral.Empty(setDims, dom.ParamDims())
	}
	return out
}

// renamer rewrites loopir.Expr trees, substituting every Var/Subscript name
// found in temps or inames with its renamed counterpart. Names not present
// in either map (kernel args, value args, which never collide since they
// keep their caller-facing identity across a merge) pass through unchanged.
type renamer struct {
	temps  map[string]string
	inames map[string]string
}

func (r renamer) lookup(name string) string {
	if n, ok := r.temps[name]; ok {
		return n
	}
	if n, ok := r.inames[name]; ok {
		return n
	}
	return name
}

func (r renamer) exprs(in []Expr) []Expr {
	out := make([]Expr, len(in))
	for i, e := range in {
		out[i] = r.expr(e)
	}
	return out
}

func (r renamer) expr(e Expr) Expr {
	switch n := e.(type) {
	case nil:
		return nil
	case *Const:
		return n
	case *Var:
		return &Var{Name: r.lookup(n.Name)}
	case *Subscript:
		return &Subscript{Name: r.lookup(n.Name), Index: r.exprs(n.Index)}
	case *Unary:
		return &Unary{Op: n.Op, Operand: r.expr(n.Operand)}
	case *Binary:
		return &Binary{Op: n.Op, Left: r.expr(n.Left), Right: r.expr(n.Right)}
	case *Call:
		return &Call{FuncName: n.FuncName, Args: r.exprs(n.Args)}
	case *Reduction:
		bounds := make([]ReductionBound, len(n.Bounds))
		for i, b := range n.Bounds {
			bounds[i] = ReductionBound{Name: b.Name, Lower: r.expr(b.Lower), Upper: r.expr(b.Upper)}
		}
		return &Reduction{Op: n.Op, Bounds: bounds, Inner: r.expr(n.Inner)}
	case *TypeCast:
		return &TypeCast{Dtype: n.Dtype, Inner: r.expr(n.Inner)}
	default:
		return e
	}
}
