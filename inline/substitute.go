package inline

import (
	"tensorgraph/arraygraph"
	"tensorgraph/transform"
)

// PlaceholderSubstitutor rewrites a sub-DAG replacing every Placeholder
// whose name is a key of Substitutions with the corresponding
// caller-side array. Every other node is copied identically (through
// transform.CopyMapper's default behavior). One substitutor is built per
// call site being inlined -- it is not meant to be reused across calls
// with different bindings.
type PlaceholderSubstitutor struct {
	*transform.CopyMapper
	Substitutions map[string]arraygraph.Array
}

// NewPlaceholderSubstitutor returns a substitutor ready to rewrite a
// callee body, replacing each parameter Placeholder named in
// substitutions.
func NewPlaceholderSubstitutor(substitutions map[string]arraygraph.Array) *PlaceholderSubstitutor {
	s := &PlaceholderSubstitutor{
		CopyMapper:    transform.NewCopyMapper(),
		Substitutions: substitutions,
	}
	s.Self = s
	// Folding a substituted caller-side binding into a callee body built
	// independently is exactly the inlining case spec.md §4.3 carves out
	// of the default collision checks.
	s.DisableErrOnCollision = true
	s.DisableErrOnDuplicate = true
	return s
}

// VisitPlaceholder substitutes n if its name is bound, otherwise leaves it
// as a free Placeholder (a callee body may reference an outer-scope
// Placeholder that isn't one of its own parameters, e.g. a SizeParam-like
// shape-only reference threaded through unchanged).
func (s *PlaceholderSubstitutor) VisitPlaceholder(n *arraygraph.Placeholder) arraygraph.Array {
	if repl, ok := s.Substitutions[n.Name]; ok {
		return repl
	}
	return n
}
