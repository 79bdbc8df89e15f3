package arraygraph

import "sort"

// FunctionDefinition is a closed sub-DAG with named parameters (each a
// Placeholder) and named returns (spec.md §3.1 GLOSSARY). It is not itself
// an Array: it is borrowed by reference from one or more Call sites.
type FunctionDefinition struct {
	ParameterOrder []string
	Parameters     map[string]*Placeholder
	Returns        map[string]Array
	Tags           TagSet
}

// SortedReturnNames returns Returns' keys sorted, the deterministic order
// used whenever return names must be iterated (spec.md §9).
func (f *FunctionDefinition) SortedReturnNames() []string {
	names := make([]string, 0, len(f.Returns))
	for name := range f.Returns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Call binds a FunctionDefinition's parameters to caller-side arrays
// (spec.md §3.1 GLOSSARY). Its named results are precomputed
// NamedCallResult instances at construction time so that repeated Get(name)
// calls return the same pointer -- required for the identity-keyed mapper
// caches in package transform to treat "the same named result" as the same
// node across traversals.
type Call struct {
	Function *FunctionDefinition
	Bindings map[string]Array
	Tags     TagSet
	results  map[string]*NamedCallResult
}

// NewCall builds a Call and its precomputed NamedCallResult set.
func NewCall(function *FunctionDefinition, bindings map[string]Array, tags TagSet) *Call {
	if tags == nil {
		tags = TagSet{}
	}
	c := &Call{Function: function, Bindings: bindings, Tags: tags}
	c.results = make(map[string]*NamedCallResult, len(function.Returns))
	for name, ret := range function.Returns {
		c.results[name] = &NamedCallResult{
			base: newBase(ret.Shape(), ret.Dtype(), nil, nil, nil),
			Call: c,
			Name: name,
		}
	}
	return c
}

func (c *Call) Get(name string) (Array, bool) {
	r, ok := c.results[name]
	if !ok {
		return nil, false
	}
	return r, true
}

func (c *Call) Names() []string { return c.Function.SortedReturnNames() }

func (c *Call) isArrayOrNames() {}

// NamedCallResult is a first-class reference to one named return of a Call
// (spec.md §3.1 GLOSSARY).
type NamedCallResult struct {
	base
	Call *Call
	Name string
}

func (n *NamedCallResult) Accept(v Visitor) Array { return v.VisitNamedCallResult(n) }
