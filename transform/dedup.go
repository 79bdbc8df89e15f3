package transform

import "tensorgraph/arraygraph"

// Deduplicator rewrites a graph bottom-up, interning every node into a
// single canonical instance per structural-equality class (spec.md §3.1
// invariant: "structurally equal sub-expressions should be represented by
// the same object after a canonicalizing pass", pytato's Deduplicator).
// Unlike CopyMapper, which only avoids re-visiting an already-seen
// identity, Deduplicator additionally collapses distinct-identity,
// equal-value nodes built independently (e.g. by two unrelated
// construction call sites) into one shared pointer, so pointer identity
// becomes a valid proxy for structural equality downstream (what every
// other mapper's identity-keyed cache in this package assumes).
type Deduplicator struct {
	identityCache map[arraygraph.Array]arraygraph.Array
	buckets       map[uint64][]arraygraph.Array
	callCache     map[*arraygraph.Call]*arraygraph.Call
	funcCache     map[*arraygraph.FunctionDefinition]*arraygraph.FunctionDefinition
}

// NewDeduplicator returns a ready-to-use Deduplicator.
func NewDeduplicator() *Deduplicator {
	return &Deduplicator{
		identityCache: map[arraygraph.Array]arraygraph.Array{},
		buckets:       map[uint64][]arraygraph.Array{},
		callCache:     map[*arraygraph.Call]*arraygraph.Call{},
		funcCache:     map[*arraygraph.FunctionDefinition]*arraygraph.FunctionDefinition{},
	}
}

// Rec dedups a and its entire dependency subgraph, returning the canonical
// representative for a's structural-equality class.
func (d *Deduplicator) Rec(a arraygraph.Array) arraygraph.Array {
	if a == nil {
		return nil
	}
	if cached, ok := d.identityCache[a]; ok {
		return cached
	}
	rebuilt := a.Accept(d)
	canonical := d.intern(rebuilt)
	d.identityCache[a] = canonical
	d.identityCache[canonical] = canonical
	return canonical
}

func (d *Deduplicator) intern(a arraygraph.Array) arraygraph.Array {
	h := arraygraph.Hash(a)
	for _, existing := range d.buckets[h] {
		if arraygraph.Equal(existing, a) {
			return existing
		}
	}
	d.buckets[h] = append(d.buckets[h], a)
	return a
}

func (d *Deduplicator) recCall(c *arraygraph.Call) *arraygraph.Call {
	if cached, ok := d.callCache[c]; ok {
		return cached
	}
	newFunc := d.recFunction(c.Function)
	newBindings, changed := rewriteArrayMapDedup(c.Bindings, d)
	out := c
	if changed || newFunc != c.Function {
		out = c.WithBindings(newFunc, newBindings)
	}
	d.callCache[c] = out
	return out
}

func (d *Deduplicator) recFunction(f *arraygraph.FunctionDefinition) *arraygraph.FunctionDefinition {
	if cached, ok := d.funcCache[f]; ok {
		return cached
	}
	newReturns, changed := rewriteArrayMapDedup(f.Returns, d)
	out := f
	if changed {
		out = f.WithReturns(newReturns)
	}
	d.funcCache[f] = out
	return out
}

func rewriteArrayMapDedup(in map[string]arraygraph.Array, d *Deduplicator) (map[string]arraygraph.Array, bool) {
	out := make(map[string]arraygraph.Array, len(in))
	changed := false
	for name, a := range in {
		newA := d.Rec(a)
		out[name] = newA
		if newA != a {
			changed = true
		}
	}
	if !changed {
		return in, false
	}
	return out, true
}

func rewriteArraySliceDedup(in []arraygraph.Array, d *Deduplicator) ([]arraygraph.Array, bool) {
	out := make([]arraygraph.Array, len(in))
	changed := false
	for i, a := range in {
		out[i] = d.Rec(a)
		if out[i] != a {
			changed = true
		}
	}
	if !changed {
		return in, false
	}
	return out, true
}

func (d *Deduplicator) VisitPlaceholder(n *arraygraph.Placeholder) arraygraph.Array { return n }
func (d *Deduplicator) VisitDataWrapper(n *arraygraph.DataWrapper) arraygraph.Array { return n }
func (d *Deduplicator) VisitSizeParam(n *arraygraph.SizeParam) arraygraph.Array     { return n }

func (d *Deduplicator) VisitIndexLambda(n *arraygraph.IndexLambda) arraygraph.Array {
	newBindings, changed := rewriteArrayMapDedup(n.Bindings, d)
	if !changed {
		return n
	}
	return n.WithBindings(newBindings)
}

func (d *Deduplicator) VisitEinsum(n *arraygraph.Einsum) arraygraph.Array {
	newArgs, changed := rewriteArraySliceDedup(n.Args, d)
	if !changed {
		return n
	}
	return n.WithArgs(newArgs)
}

func (d *Deduplicator) VisitReshape(n *arraygraph.Reshape) arraygraph.Array {
	newArr := d.Rec(n.Array)
	if newArr == n.Array {
		return n
	}
	return n.WithArray(newArr)
}

func (d *Deduplicator) VisitAxisPermutation(n *arraygraph.AxisPermutation) arraygraph.Array {
	newArr := d.Rec(n.Array)
	if newArr == n.Array {
		return n
	}
	return n.WithArray(newArr)
}

func (d *Deduplicator) VisitStack(n *arraygraph.Stack) arraygraph.Array {
	newArrays, changed := rewriteArraySliceDedup(n.Arrays, d)
	if !changed {
		return n
	}
	return n.WithArrays(newArrays)
}

func (d *Deduplicator) VisitConcatenate(n *arraygraph.Concatenate) arraygraph.Array {
	newArrays, changed := rewriteArraySliceDedup(n.Arrays, d)
	if !changed {
		return n
	}
	return n.WithArrays(newArrays)
}

func (d *Deduplicator) VisitRoll(n *arraygraph.Roll) arraygraph.Array {
	newArr := d.Rec(n.Array)
	if newArr == n.Array {
		return n
	}
	return n.WithArray(newArr)
}

func (d *Deduplicator) VisitBasicIndex(n *arraygraph.BasicIndex) arraygraph.Array {
	newArr := d.Rec(n.Array)
	if newArr == n.Array {
		return n
	}
	return n.WithArray(newArr)
}

func (d *Deduplicator) VisitAdvancedIndex(n *arraygraph.AdvancedIndex) arraygraph.Array {
	newArr := d.Rec(n.Array)
	newIndexers := make([]arraygraph.Array, len(n.Indexers))
	changed := newArr != n.Array
	for i, idx := range n.Indexers {
		if idx == nil {
			continue
		}
		newIndexers[i] = d.Rec(idx)
		if newIndexers[i] != idx {
			changed = true
		}
	}
	if !changed {
		return n
	}
	return n.WithArrayAndIndexers(newArr, newIndexers)
}

func (d *Deduplicator) VisitNamedCallResult(n *arraygraph.NamedCallResult) arraygraph.Array {
	newCall := d.recCall(n.Call)
	if newCall == n.Call {
		return n
	}
	result, ok := newCall.Get(n.Name)
	if !ok {
		panic("transform: rewritten call lost return " + n.Name)
	}
	return result
}
