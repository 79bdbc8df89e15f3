package loopgen

import (
	"tensorgraph/arraygraph"
)

// PersistentExpressionContext accumulates the instruction-dependency set a
// to_loopy_expression call contributes, threaded by reference through one
// expression's translation (pytato's PersistentExpressionContext).
type PersistentExpressionContext struct {
	State     *CodeGenState
	dependsOn map[string]struct{}
}

// NewPersistentExpressionContext returns a context bound to state with an
// empty accumulated dependency set.
func NewPersistentExpressionContext(state *CodeGenState) *PersistentExpressionContext {
	return &PersistentExpressionContext{State: state, dependsOn: map[string]struct{}{}}
}

// DependsOn returns the accumulated dependency set.
func (c *PersistentExpressionContext) DependsOn() map[string]struct{} {
	return c.dependsOn
}

// UpdateDependsOn unions other into the accumulated dependency set.
func (c *PersistentExpressionContext) UpdateDependsOn(other map[string]struct{}) {
	for id := range other {
		c.dependsOn[id] = struct{}{}
	}
}

// LocalExpressionContext carries the information an expression's
// translation needs from its enclosing IndexLambda (pytato's
// LocalExpressionContext): the operand namespace, the number of
// elementwise indices in scope, and the per-reduction-index tag table (so
// a Reduce's bound names can recover the tags their renamed inames should
// carry). Unlike pytato's version this carries no running reduction-bounds
// map: translateReduce augments the kernel's domain list directly as soon
// as it mints a bound's iname (see exprgen.go), so there is nothing about
// a Reduce's bounds that needs threading down to a deeper recursion.
type LocalExpressionContext struct {
	LocalNamespace      map[string]ImplementedResult
	NumIndices          int
	VarToReductionDescr map[string]arraygraph.ReductionDescr
}

// Lookup resolves name in the local namespace (pytato's
// LocalExpressionContext.lookup).
func (c LocalExpressionContext) Lookup(name string) ImplementedResult {
	return c.LocalNamespace[name]
}
