package inline

import (
	"tensorgraph/arraygraph"
	"tensorgraph/transform"
)

// Inliner rewrites the graph, replacing every NamedCallResult whose Call
// carries an arraygraph.InlineCallTag with the callee body, Placeholders
// substituted by the call's caller-side bindings. A Call left untagged is
// rebuilt structurally like any other transform.CopyMapper traversal (so
// invariant 4, "inline_calls on a DAG with no inline-tagged calls returns a
// structurally equal DAG", holds by construction).
//
// Because the callee body and the caller graph were built independently,
// the combined result can contain structurally-equal nodes with different
// identities (spec.md §4.3) -- this is expected and not treated as an
// error; run transform.Deduplicator afterward to recover sharing.
type Inliner struct {
	*transform.CopyMapper
	inlined map[*arraygraph.Call]map[string]arraygraph.Array
}

// NewInliner returns a ready-to-use Inliner.
func NewInliner() *Inliner {
	in := &Inliner{
		CopyMapper: transform.NewCopyMapper(),
		inlined:    map[*arraygraph.Call]map[string]arraygraph.Array{},
	}
	in.Self = in
	// The callee body and the caller graph were built independently, so
	// the combined result can legitimately contain structurally-equal
	// nodes with different identities (spec.md §4.3) -- disable both
	// checks here; callers run transform.Deduplicator afterward.
	in.DisableErrOnCollision = true
	in.DisableErrOnDuplicate = true
	return in
}

// VisitNamedCallResult overrides the default copy behavior: an
// inline-tagged call is substituted away entirely; anything else falls
// back to normal structural rebuilding.
func (in *Inliner) VisitNamedCallResult(n *arraygraph.NamedCallResult) arraygraph.Array {
	if !n.Call.Tags.Has(arraygraph.InlineCallTag{}) {
		return in.CopyMapper.VisitNamedCallResult(n)
	}
	results, ok := in.inlined[n.Call]
	if !ok {
		results = in.inlineCall(n.Call)
		in.inlined[n.Call] = results
	}
	out, ok := results[n.Name]
	if !ok {
		panic("inline: callee lost return " + n.Name + " while inlining")
	}
	return out
}

// inlineCall rewrites bindings through in (so nested calls and shared
// subgraphs are still visited exactly once by the outer traversal), then
// substitutes every parameter Placeholder of the callee with its rewritten
// binding, independently for each of the callee's named returns.
func (in *Inliner) inlineCall(c *arraygraph.Call) map[string]arraygraph.Array {
	substitutions := make(map[string]arraygraph.Array, len(c.Bindings))
	for name, b := range c.Bindings {
		substitutions[name] = in.Rec(b)
	}
	sub := NewPlaceholderSubstitutor(substitutions)
	out := make(map[string]arraygraph.Array, len(c.Function.Returns))
	for name, ret := range c.Function.Returns {
		out[name] = sub.Rec(ret)
	}
	return out
}

// InlineCalls returns a with every inline-tagged Call inlined away.
func InlineCalls(a arraygraph.Array) arraygraph.Array {
	return NewInliner().Rec(a)
}

// callInlineTagger adds arraygraph.InlineCallTag to every Call reachable
// from the traversal root, rebuilding only what tagging requires (it
// cannot reuse the default CopyMapper.VisitNamedCallResult, which leaves a
// structurally-unchanged Call's identity alone -- tagging must always
// produce a new, tagged Call).
type callInlineTagger struct {
	*transform.CopyMapper
	tagged map[*arraygraph.Call]*arraygraph.Call
}

func newCallInlineTagger() *callInlineTagger {
	t := &callInlineTagger{
		CopyMapper: transform.NewCopyMapper(),
		tagged:     map[*arraygraph.Call]*arraygraph.Call{},
	}
	t.Self = t
	return t
}

func (t *callInlineTagger) VisitNamedCallResult(n *arraygraph.NamedCallResult) arraygraph.Array {
	newCall, ok := t.tagged[n.Call]
	if !ok {
		newBindings := make(map[string]arraygraph.Array, len(n.Call.Bindings))
		for name, b := range n.Call.Bindings {
			newBindings[name] = t.Rec(b)
		}
		tags := n.Call.Tags.Union(arraygraph.NewTagSet(arraygraph.InlineCallTag{}))
		newCall = arraygraph.NewCall(n.Call.Function, newBindings, tags)
		t.tagged[n.Call] = newCall
	}
	out, ok := newCall.Get(n.Name)
	if !ok {
		panic("inline: tagged call lost return " + n.Name)
	}
	return out
}

// TagAllCallsToBeInlined tags every Call reachable from a with
// arraygraph.InlineCallTag, the bulk operation scenario 3 (spec.md §8)
// runs before InlineCalls.
func TagAllCallsToBeInlined(a arraygraph.Array) arraygraph.Array {
	return newCallInlineTagger().Rec(a)
}
