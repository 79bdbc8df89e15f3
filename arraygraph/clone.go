package arraygraph

// This file provides cheap structural "with new children" clones used by
// package transform's mappers to rebuild a node around already-validated
// rewritten children, without re-running the full construction validation
// in construct.go a second time (the children were valid operands of the
// original node; substituting structurally-compatible replacements cannot
// newly violate §3.1's shape/dtype invariants).

// WithBindings returns a copy of n with Bindings replaced by bindings,
// keeping shape/dtype/tags/VarToReductionDescr.
func (n *IndexLambda) WithBindings(bindings map[string]Array) *IndexLambda {
	clone := *n
	clone.Bindings = bindings
	return &clone
}

// WithArgs returns a copy of n with Args replaced.
func (n *Einsum) WithArgs(args []Array) *Einsum {
	clone := *n
	clone.Args = args
	return &clone
}

// WithArray returns a copy of n with Array replaced.
func (n *Reshape) WithArray(arr Array) *Reshape {
	clone := *n
	clone.Array = arr
	return &clone
}

// WithArray returns a copy of n with Array replaced.
func (n *AxisPermutation) WithArray(arr Array) *AxisPermutation {
	clone := *n
	clone.Array = arr
	return &clone
}

// WithArrays returns a copy of n with Arrays replaced.
func (n *Stack) WithArrays(arrays []Array) *Stack {
	clone := *n
	clone.Arrays = arrays
	return &clone
}

// WithArrays returns a copy of n with Arrays replaced.
func (n *Concatenate) WithArrays(arrays []Array) *Concatenate {
	clone := *n
	clone.Arrays = arrays
	return &clone
}

// WithArray returns a copy of n with Array replaced.
func (n *Roll) WithArray(arr Array) *Roll {
	clone := *n
	clone.Array = arr
	return &clone
}

// WithArray returns a copy of n with Array replaced.
func (n *BasicIndex) WithArray(arr Array) *BasicIndex {
	clone := *n
	clone.Array = arr
	return &clone
}

// WithArrayAndIndexers returns a copy of n with Array and Indexers replaced.
func (n *AdvancedIndex) WithArrayAndIndexers(arr Array, indexers []Array) *AdvancedIndex {
	clone := *n
	clone.Array = arr
	clone.Indexers = indexers
	return &clone
}

// WithBindings returns a copy of c with Bindings replaced by bindings.
// The returned Call's NamedCallResults are freshly precomputed (see
// NewCall) so downstream identity-keyed caches see a distinct node set
// from the original Call's results -- exactly the behavior a rewrite pass
// needs.
func (c *Call) WithBindings(function *FunctionDefinition, bindings map[string]Array) *Call {
	return NewCall(function, bindings, c.Tags)
}

// WithTags returns a copy of c with Tags replaced, same Function/Bindings.
func (c *Call) WithTags(tags TagSet) *Call {
	return NewCall(c.Function, c.Bindings, tags)
}

// WithReturns returns a copy of f with Returns replaced by returns,
// keeping ParameterOrder/Parameters/Tags.
func (f *FunctionDefinition) WithReturns(returns map[string]Array) *FunctionDefinition {
	clone := *f
	clone.Returns = returns
	return &clone
}

// WithParameters returns a copy of f with Parameters (and, if non-nil,
// ParameterOrder) replaced.
func (f *FunctionDefinition) WithParameters(parameterOrder []string, parameters map[string]*Placeholder) *FunctionDefinition {
	clone := *f
	if parameterOrder != nil {
		clone.ParameterOrder = parameterOrder
	}
	clone.Parameters = parameters
	return &clone
}
