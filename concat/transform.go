package concat

import (
	"log"
	"sort"

	"tensorgraph/arraygraph"
	"tensorgraph/errs"
	"tensorgraph/transform"
)

// Options configures ConcatenateCalls (spec.md §6's
// concatenate_calls(expr, filter, inherit_axes, warn_if_no_calls,
// err_if_no_calls, ignore_tag_types)).
type Options struct {
	// Filter, if set, restricts concatenation to call sites for which it
	// returns true; sites it rejects are left untouched in the output.
	Filter func(*arraygraph.Call) bool

	// InheritAxes seeds FindFunctionConcatenability's search from a
	// batch's own arraygraph.UseInputAxis tag (if any of its sites carry
	// one) instead of trying every axis.
	InheritAxes bool

	// WarnIfNoCalls logs (via the standard log package) when no batch of
	// call sites was concatenated, rather than silently returning expr
	// unchanged.
	WarnIfNoCalls bool

	// ErrIfNoCalls turns the same condition into a
	// KindNoValidConcatenationCandidate error instead of a log line.
	ErrIfNoCalls bool

	// IgnoreTagTypes are tag types stripped from the concatenated call's
	// tags before they are attached to the result (spec.md §4.4's "tag
	// ignore list").
	IgnoreTagTypes []arraygraph.Tag
}

// ConcatenateCalls walks expr for Call nodes, groups them into
// FunctionIdentifier pools, partitions each pool into dependency-ordered
// batches (BuildBatches), concatenates each batch (ConcatenateCallSites),
// and substitutes every original NamedCallResult in expr with a Slicer
// result over the new shared call -- the whole-DAG entry point spec.md §6
// names, as opposed to the per-batch helpers BuildBatches/
// ConcatenateCallSites/Slicer expose for callers that already have a
// batch in hand.
func ConcatenateCalls(expr *arraygraph.DictOfNamedArrays, opts Options) (*arraygraph.DictOfNamedArrays, error) {
	calls := collectCalls(expr)
	if opts.Filter != nil {
		filtered := calls[:0]
		for _, c := range calls {
			if opts.Filter(c) {
				filtered = append(filtered, c)
			}
		}
		calls = filtered
	}

	pools := FunctionIdentifierPools(calls)
	ids := make([]string, 0, len(pools))
	for id := range pools {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	subst := map[*arraygraph.NamedCallResult]arraygraph.Array{}
	slicer := NewSlicer()
	for _, id := range ids {
		batches, _ := BuildBatches(pools[id])
		for _, batch := range batches {
			if err := concatenateBatch(batch, opts, subst, slicer); err != nil {
				return nil, err
			}
		}
	}

	if len(subst) == 0 {
		if opts.ErrIfNoCalls {
			return nil, errs.New(errs.KindNoValidConcatenationCandidate, "no batch of call sites was concatenated")
		}
		if opts.WarnIfNoCalls {
			log.Printf("concat: ConcatenateCalls found no batch of call sites to concatenate")
		}
		return expr, nil
	}

	return rewriteDict(expr, subst), nil
}

// collectCalls walks every entry of expr and returns the distinct Call
// nodes reachable from it, in first-encountered order; grounded on
// transform.CachedWalkMapper's descent into both caller bindings and
// callee bodies (transform/walk.go's walkCall).
func collectCalls(expr *arraygraph.DictOfNamedArrays) []*arraygraph.Call {
	seen := map[*arraygraph.Call]struct{}{}
	var order []*arraygraph.Call
	walker := transform.NewCachedWalkMapper(func(a arraygraph.Array) {
		ncr, ok := a.(*arraygraph.NamedCallResult)
		if !ok {
			return
		}
		if _, dup := seen[ncr.Call]; dup {
			return
		}
		seen[ncr.Call] = struct{}{}
		order = append(order, ncr.Call)
	})
	for _, name := range expr.SortedNames() {
		a, _ := expr.Get(name)
		walker.Walk(a)
	}
	return order
}

// concatenateBatch concatenates one ready batch and records, for every
// original call site it covers, the substitution each of its
// NamedCallResults needs.
func concatenateBatch(batch Batch, opts Options, subst map[*arraygraph.NamedCallResult]arraygraph.Array, slicer *Slicer) error {
	var pinnedAxis *int
	if opts.InheritAxes {
		for _, site := range batch.Sites {
			if axis, ok := findUseInputAxis(site.Tags); ok {
				pinnedAxis = &axis
				break
			}
		}
	}

	fc, err := FindFunctionConcatenability(batch.Sites[0].Function, pinnedAxis)
	if err != nil {
		return err
	}
	newCall, locations, err := ConcatenateCallSites(fc, batch.Sites)
	if err != nil {
		return err
	}
	if len(opts.IgnoreTagTypes) > 0 {
		newCall = newCall.WithTags(newCall.Tags.Without(opts.IgnoreTagTypes...))
	}

	for i, site := range batch.Sites {
		for _, name := range site.Names() {
			origResult, ok := site.Get(name)
			if !ok {
				continue
			}
			ncr, ok := origResult.(*arraygraph.NamedCallResult)
			if !ok {
				continue
			}
			slice, err := slicer.Slice(newCall, name, fc.Axis, locations[i])
			if err != nil {
				return err
			}
			subst[ncr] = slice
		}
	}
	return nil
}

func findUseInputAxis(tags arraygraph.TagSet) (int, bool) {
	for t := range tags {
		if u, ok := t.(arraygraph.UseInputAxis); ok {
			return u.Axis, true
		}
	}
	return 0, false
}

// resultSubstitutor rewrites expr's graph, replacing every NamedCallResult
// that appears as a key of subst with its recorded Slicer replacement
// (grounded on inline.Inliner's embed-CopyMapper-override-one-Visit*
// shape, inline/calls.go). It folds the new shared call's subgraph in
// alongside whatever of the original graph survives unreplaced, so the
// result can legitimately contain structurally-equal, differently-
// identified nodes (the same situation inlining produces, spec.md §4.3) --
// both collision checks are disabled here for that reason.
type resultSubstitutor struct {
	*transform.CopyMapper
	subst map[*arraygraph.NamedCallResult]arraygraph.Array
}

func newResultSubstitutor(subst map[*arraygraph.NamedCallResult]arraygraph.Array) *resultSubstitutor {
	s := &resultSubstitutor{CopyMapper: transform.NewCopyMapper(), subst: subst}
	s.Self = s
	s.DisableErrOnCollision = true
	s.DisableErrOnDuplicate = true
	return s
}

func (s *resultSubstitutor) VisitNamedCallResult(n *arraygraph.NamedCallResult) arraygraph.Array {
	if repl, ok := s.subst[n]; ok {
		return s.Rec(repl)
	}
	return s.CopyMapper.VisitNamedCallResult(n)
}

func rewriteDict(expr *arraygraph.DictOfNamedArrays, subst map[*arraygraph.NamedCallResult]arraygraph.Array) *arraygraph.DictOfNamedArrays {
	sub := newResultSubstitutor(subst)
	names := expr.Names()
	entries := make(map[string]arraygraph.Array, len(names))
	for _, name := range names {
		a, _ := expr.Get(name)
		entries[name] = sub.Rec(a)
	}
	return arraygraph.NewDictOfNamedArrays(names, entries)
}
