package scalarexpr

// substitutor rewrites Var nodes matching a name+kind pair to a
// replacement expression. Used by inline.PlaceholderSubstitutor-equivalent
// passes and by loopgen when renaming reduction bound variables to
// collision-free names (spec.md §4.6.1, §4.6.4).
type substitutor struct {
	Rewriter
	replace map[VarKey]Expr
}

// VarKey identifies a Var by name and kind, the unit a substitution map is
// keyed on.
type VarKey struct {
	Name string
	Kind VarKind
}

// Substitute replaces every Var(name, kind) appearing in e according to
// repl, leaving everything else structurally shared (Rewriter only
// rebuilds ancestors of an actual change).
func Substitute(e Expr, repl map[VarKey]Expr) Expr {
	s := &substitutor{replace: repl}
	s.Self = s
	return e.Accept(s)
}

func (s *substitutor) VisitVar(n *Var) Expr {
	if r, ok := s.replace[VarKey{n.Name, n.Kind}]; ok {
		return r
	}
	return n
}

// SubstituteOperand replaces every VarOperand reference to name (a bare
// scalar operand reference) with repl. Subscript references to the same
// name are a different substitution concern (they index into the operand,
// not refer to it as a whole) and are handled by callers that also know
// the replacement's own indexing story (see inline.PlaceholderSubstitutor).
func SubstituteOperand(e Expr, name string, repl Expr) Expr {
	return Substitute(e, map[VarKey]Expr{{name, VarOperand}: repl})
}
