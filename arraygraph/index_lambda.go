package arraygraph

import (
	"sort"

	"tensorgraph/scalarexpr"
)

// ReductionDescr carries per-reduction tags for one reduction index of an
// IndexLambda (spec.md §3.1 "var_to_reduction_descr").
type ReductionDescr struct {
	Tags TagSet
}

// IndexLambda is the canonical array node (spec.md §3.1): an elementwise
// scalar expression over named operand bindings and the implicit _k /
// _rk index variables.
type IndexLambda struct {
	base
	Expr                scalarexpr.Expr
	Bindings            map[string]Array
	VarToReductionDescr map[string]ReductionDescr
}

func (n *IndexLambda) Accept(v Visitor) Array { return v.VisitIndexLambda(n) }

// BindingNames returns the binding names in sorted order, the
// deterministic iteration order this package uses everywhere bindings are
// walked (spec.md §9 "Determinism": "All traversals ... use sorted keys").
func (n *IndexLambda) BindingNames() []string {
	names := make([]string, 0, len(n.Bindings))
	for name := range n.Bindings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ReductionNames returns the reduction-index names (_r0, _r1, ...) in
// sorted order.
func (n *IndexLambda) ReductionNames() []string {
	names := make([]string, 0, len(n.VarToReductionDescr))
	for name := range n.VarToReductionDescr {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
