package transform

import (
	"tensorgraph/arraygraph"
	"tensorgraph/errs"
)

// CopyMapper is an identity-rewriting visitor over the array graph,
// memoized by node identity so a structurally-shared subgraph is visited
// (and, if changed, rebuilt) only once no matter how many parents share it
// (spec.md §3.3 "Mapper memoization"). Embed it and override specific
// Visit* methods to customize particular node kinds; set Self to the
// embedding value so recursive calls dispatch through the override, the
// same trick scalarexpr.Rewriter uses.
type CopyMapper struct {
	Self arraygraph.Visitor

	// PostProcess, if set, runs on every node immediately after it (and
	// its children) are rebuilt, before the result is cached -- the hook
	// lower.LowerAll uses to lower a high-level node right after
	// CopyMapper's default Visit* has finished rewriting its children, at
	// every depth, not just at the traversal root. The first non-nil error
	// aborts further post-processing (see Err).
	PostProcess func(arraygraph.Array) (arraygraph.Array, error)
	Err         error

	// DisableErrOnCollision and DisableErrOnDuplicate turn off the two
	// structural-equality checks Rec otherwise runs on every node
	// (spec.md §4.1): by default a CopyMapper is strict about the graph
	// it reads and the graph it builds. The inliner and the call
	// concatenator are the two passes specified to relax this -- both
	// deliberately fold together subgraphs that started out as separate,
	// structurally-equal-but-differently-identified trees, and both
	// expect callers to run Deduplicator afterwards (spec.md §4.3, §7).
	DisableErrOnCollision bool
	DisableErrOnDuplicate bool

	arrayCache map[arraygraph.Array]arraygraph.Array
	callCache  map[*arraygraph.Call]*arraygraph.Call
	funcCache  map[*arraygraph.FunctionDefinition]*arraygraph.FunctionDefinition

	inputBuckets  map[uint64][]arraygraph.Array
	outputBuckets map[uint64][]arraygraph.Array
}

// NewCopyMapper returns a ready-to-use CopyMapper with Self set to itself.
func NewCopyMapper() *CopyMapper {
	m := &CopyMapper{
		arrayCache:    map[arraygraph.Array]arraygraph.Array{},
		callCache:     map[*arraygraph.Call]*arraygraph.Call{},
		funcCache:     map[*arraygraph.FunctionDefinition]*arraygraph.FunctionDefinition{},
		inputBuckets:  map[uint64][]arraygraph.Array{},
		outputBuckets: map[uint64][]arraygraph.Array{},
	}
	m.Self = m
	return m
}

func (m *CopyMapper) self() arraygraph.Visitor {
	if m.Self != nil {
		return m.Self
	}
	return m
}

// Rec rewrites a through the cache, dispatching to Self so overrides see
// every recursive call too. If PostProcess is set, it runs on the result
// at every depth before caching.
func (m *CopyMapper) Rec(a arraygraph.Array) arraygraph.Array {
	if a == nil {
		return nil
	}
	if cached, ok := m.arrayCache[a]; ok {
		return cached
	}
	if !m.DisableErrOnCollision {
		m.checkCollision(a)
	}
	out := a.Accept(m.self())
	if m.PostProcess != nil && m.Err == nil {
		processed, err := m.PostProcess(out)
		if err != nil {
			m.Err = err
		} else {
			out = processed
		}
	}
	if !m.DisableErrOnDuplicate && out != a && m.Err == nil {
		m.checkCreatedDuplicate(out)
	}
	m.arrayCache[a] = out
	return out
}

// checkCollision raises errs.KindMapperCollision the first time it sees two
// distinct nodes in the graph being read that are structurally equal
// (spec.md §4.1's "err-on-collision"): a source graph that was supposed to
// be deduplicated but wasn't. It is keyed by arraygraph.Hash the same way
// Deduplicator interns nodes (dedup.go), since both need the same
// hash-then-Equal bucket search to stay linear in practice.
func (m *CopyMapper) checkCollision(a arraygraph.Array) {
	if m.Err != nil {
		return
	}
	h := arraygraph.Hash(a)
	for _, seen := range m.inputBuckets[h] {
		if seen != a && arraygraph.Equal(seen, a) {
			m.Err = errs.New(errs.KindMapperCollision,
				"transform: two structurally-equal nodes with different identities in input graph")
			return
		}
	}
	m.inputBuckets[h] = append(m.inputBuckets[h], a)
}

// checkCreatedDuplicate raises errs.KindMapperDuplicateCreated the first
// time the mapper's own rewriting produces two distinct output nodes that
// are structurally equal to each other (spec.md §4.1's
// "err-on-created-duplicate"): a bug in the mapper's Visit* overrides, not
// in the input.
func (m *CopyMapper) checkCreatedDuplicate(out arraygraph.Array) {
	if m.Err != nil {
		return
	}
	h := arraygraph.Hash(out)
	for _, seen := range m.outputBuckets[h] {
		if seen != out && arraygraph.Equal(seen, out) {
			m.Err = errs.New(errs.KindMapperDuplicateCreated,
				"transform: mapper created two distinct structurally-equal output nodes")
			return
		}
	}
	m.outputBuckets[h] = append(m.outputBuckets[h], out)
}

// RecCall rewrites a Call: its bindings (through Rec) and, once, its
// referenced FunctionDefinition (through RecFunction) -- mirroring
// pytato's CopyMapper.map_call, which rewrites the callee body exactly
// once across however many call sites reference it.
func (m *CopyMapper) RecCall(c *arraygraph.Call) *arraygraph.Call {
	if cached, ok := m.callCache[c]; ok {
		return cached
	}
	newFunc := m.RecFunction(c.Function)
	newBindings, changed := rewriteArrayMap(c.Bindings, m)
	var out *arraygraph.Call
	if !changed && newFunc == c.Function {
		out = c
	} else {
		out = c.WithBindings(newFunc, newBindings)
	}
	m.callCache[c] = out
	return out
}

// RecFunction rewrites a FunctionDefinition's Returns (its Parameters are
// leaves -- Placeholders -- and never change under a CopyMapper rewrite of
// the callee body).
func (m *CopyMapper) RecFunction(f *arraygraph.FunctionDefinition) *arraygraph.FunctionDefinition {
	if cached, ok := m.funcCache[f]; ok {
		return cached
	}
	newReturns, changed := rewriteArrayMap(f.Returns, m)
	out := f
	if changed {
		out = f.WithReturns(newReturns)
	}
	m.funcCache[f] = out
	return out
}

func rewriteArrayMap(in map[string]arraygraph.Array, m *CopyMapper) (map[string]arraygraph.Array, bool) {
	out := make(map[string]arraygraph.Array, len(in))
	changed := false
	for name, a := range in {
		newA := m.Rec(a)
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

func rewriteArraySlice(in []arraygraph.Array, m *CopyMapper) ([]arraygraph.Array, bool) {
	out := make([]arraygraph.Array, len(in))
	changed := false
	for i, a := range in {
		out[i] = m.Rec(a)
		if out[i] != a {
			changed = true
		}
	}
	if !changed {
		return in, false
	}
	return out, true
}

func (m *CopyMapper) VisitPlaceholder(n *arraygraph.Placeholder) arraygraph.Array { return n }
func (m *CopyMapper) VisitDataWrapper(n *arraygraph.DataWrapper) arraygraph.Array { return n }
func (m *CopyMapper) VisitSizeParam(n *arraygraph.SizeParam) arraygraph.Array     { return n }

func (m *CopyMapper) VisitIndexLambda(n *arraygraph.IndexLambda) arraygraph.Array {
	newBindings, changed := rewriteArrayMap(n.Bindings, m)
	if !changed {
		return n
	}
	return n.WithBindings(newBindings)
}

func (m *CopyMapper) VisitEinsum(n *arraygraph.Einsum) arraygraph.Array {
	newArgs, changed := rewriteArraySlice(n.Args, m)
	if !changed {
		return n
	}
	return n.WithArgs(newArgs)
}

func (m *CopyMapper) VisitReshape(n *arraygraph.Reshape) arraygraph.Array {
	newArr := m.Rec(n.Array)
	if newArr == n.Array {
		return n
	}
	return n.WithArray(newArr)
}

func (m *CopyMapper) VisitAxisPermutation(n *arraygraph.AxisPermutation) arraygraph.Array {
	newArr := m.Rec(n.Array)
	if newArr == n.Array {
		return n
	}
	return n.WithArray(newArr)
}

func (m *CopyMapper) VisitStack(n *arraygraph.Stack) arraygraph.Array {
	newArrays, changed := rewriteArraySlice(n.Arrays, m)
	if !changed {
		return n
	}
	return n.WithArrays(newArrays)
}

func (m *CopyMapper) VisitConcatenate(n *arraygraph.Concatenate) arraygraph.Array {
	newArrays, changed := rewriteArraySlice(n.Arrays, m)
	if !changed {
		return n
	}
	return n.WithArrays(newArrays)
}

func (m *CopyMapper) VisitRoll(n *arraygraph.Roll) arraygraph.Array {
	newArr := m.Rec(n.Array)
	if newArr == n.Array {
		return n
	}
	return n.WithArray(newArr)
}

func (m *CopyMapper) VisitBasicIndex(n *arraygraph.BasicIndex) arraygraph.Array {
	newArr := m.Rec(n.Array)
	if newArr == n.Array {
		return n
	}
	return n.WithArray(newArr)
}

func (m *CopyMapper) VisitAdvancedIndex(n *arraygraph.AdvancedIndex) arraygraph.Array {
	newArr := m.Rec(n.Array)
	newIndexers := make([]arraygraph.Array, len(n.Indexers))
	changed := newArr != n.Array
	for i, idx := range n.Indexers {
		if idx == nil {
			continue
		}
		newIndexers[i] = m.Rec(idx)
		if newIndexers[i] != idx {
			changed = true
		}
	}
	if !changed {
		return n
	}
	return n.WithArrayAndIndexers(newArr, newIndexers)
}

func (m *CopyMapper) VisitNamedCallResult(n *arraygraph.NamedCallResult) arraygraph.Array {
	newCall := m.RecCall(n.Call)
	if newCall == n.Call {
		return n
	}
	result, ok := newCall.Get(n.Name)
	if !ok {
		// The rewritten function must still declare every return name the
		// original did; a mismatch here is a mapper bug, not user input.
		panic("transform: rewritten call lost return " + n.Name)
	}
	return result
}

// MapDictOfNamedArrays rewrites every entry of d.
func (m *CopyMapper) MapDictOfNamedArrays(d *arraygraph.DictOfNamedArrays) *arraygraph.DictOfNamedArrays {
	names := d.Names()
	entries := make(map[string]arraygraph.Array, len(names))
	for _, name := range names {
		a, _ := d.Get(name)
		entries[name] = m.Rec(a)
	}
	return arraygraph.NewDictOfNamedArrays(names, entries)
}
